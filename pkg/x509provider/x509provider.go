// Package x509provider implements the certificate/CSR parsing external
// collaborator interface the core consumes (spec §6). Built on
// crypto/x509, since no repo in the retrieval pack parses raw PEM
// certificates or certificate-signing requests end to end.
package x509provider

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/cardflow/hsmkit/pkg/hsmerr"
)

// Parser is the certificate/CSR collaborator the core invokes.
type Parser interface {
	ParseCertificate(pemText string) (Certificate, error)
	ParseCertificateRequest(pemText string) (CertificateRequest, error)
}

// Certificate is the flattened shape a parsed X.509 certificate is
// reported in.
type Certificate struct {
	Subject            string
	Issuer             string
	Version            int
	SerialNumber       string
	SignatureAlgorithm string
	NotBefore          time.Time
	NotAfter           time.Time
	PublicKeyAlgorithm string
	Extensions         []Extension
}

// CertificateRequest is the flattened shape a parsed CSR is reported in.
type CertificateRequest struct {
	Subject            string
	SignatureAlgorithm string
	PublicKeyAlgorithm string
	Attributes         []Attribute
}

// Extension is one X.509 extension, identified by dotted OID.
type Extension struct {
	ID       string
	Critical bool
	ValueHex string
}

// Attribute is one PKCS#10 CSR attribute, identified by dotted OID.
type Attribute struct {
	ID     string
	Values []string
}

// Default is the stdlib-backed Parser implementation.
type Default struct{}

var _ Parser = Default{}

// ParseCertificate decodes a PEM "CERTIFICATE" block and flattens it.
func (Default) ParseCertificate(pemText string) (Certificate, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return Certificate{}, fmt.Errorf("%w: no pem block found", hsmerr.ErrMalformedInput)
	}
	if block.Type != "CERTIFICATE" {
		return Certificate{}, fmt.Errorf("%w: expected CERTIFICATE block, got %q", hsmerr.ErrMalformedInput, block.Type)
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return Certificate{}, fmt.Errorf("%w: parse certificate: %v", hsmerr.ErrMalformedInput, err)
	}

	extensions := make([]Extension, 0, len(cert.Extensions))
	for _, ext := range cert.Extensions {
		extensions = append(extensions, Extension{
			ID:       ext.Id.String(),
			Critical: ext.Critical,
			ValueHex: fmt.Sprintf("%X", ext.Value),
		})
	}

	return Certificate{
		Subject:            cert.Subject.String(),
		Issuer:             cert.Issuer.String(),
		Version:            cert.Version,
		SerialNumber:       cert.SerialNumber.String(),
		SignatureAlgorithm: cert.SignatureAlgorithm.String(),
		NotBefore:          cert.NotBefore,
		NotAfter:           cert.NotAfter,
		PublicKeyAlgorithm: cert.PublicKeyAlgorithm.String(),
		Extensions:         extensions,
	}, nil
}

// ParseCertificateRequest decodes a PEM "CERTIFICATE REQUEST" block and
// flattens it.
func (Default) ParseCertificateRequest(pemText string) (CertificateRequest, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return CertificateRequest{}, fmt.Errorf("%w: no pem block found", hsmerr.ErrMalformedInput)
	}
	if block.Type != "CERTIFICATE REQUEST" {
		return CertificateRequest{}, fmt.Errorf(
			"%w: expected CERTIFICATE REQUEST block, got %q",
			hsmerr.ErrMalformedInput,
			block.Type,
		)
	}

	csr, err := x509.ParseCertificateRequest(block.Bytes)
	if err != nil {
		return CertificateRequest{}, fmt.Errorf("%w: parse certificate request: %v", hsmerr.ErrMalformedInput, err)
	}

	attributes := make([]Attribute, 0, len(csr.Attributes))
	for _, attr := range csr.Attributes {
		values := make([]string, 0, len(attr.Value))
		for _, set := range attr.Value {
			for _, v := range set {
				values = append(values, fmt.Sprintf("%v", v))
			}
		}

		attributes = append(attributes, Attribute{
			ID:     attr.Type.String(),
			Values: values,
		})
	}

	return CertificateRequest{
		Subject:            csr.Subject.String(),
		SignatureAlgorithm: csr.SignatureAlgorithm.String(),
		PublicKeyAlgorithm: csr.PublicKeyAlgorithm.String(),
		Attributes:         attributes,
	}, nil
}
