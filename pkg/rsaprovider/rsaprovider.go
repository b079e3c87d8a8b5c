// Package rsaprovider implements the RSA-OAEP/SHA-256 external
// collaborator interface the core consumes (spec §6): key-pair
// generation, PKCS#8/SPKI DER export, PEM import, and encrypt/decrypt.
// Key generation and OAEP transforms are built directly on crypto/rsa
// and crypto/x509; password-protected PKCS#8 import reuses
// github.com/youmark/pkcs8, the same library ksef-client's
// keys.LoadEncryptedPKCS8SignerFromPEM uses, rather than hand-rolling
// the PBES2 ASN.1 decryption stdlib's x509 package omits.
package rsaprovider

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/cardflow/hsmkit/pkg/hsmerr"
	"github.com/youmark/pkcs8"
)

// Provider is the RSA-OAEP/SHA-256 collaborator the core invokes; it is
// never reached through global state, matching the block-cipher
// provider's explicit-injection pattern.
type Provider interface {
	GenerateKeyPair(bits int) (KeyPair, error)
	EncryptOAEP(publicKeyDER []byte, plaintext []byte) ([]byte, error)
	DecryptOAEP(privateKeyDER []byte, ciphertext []byte) ([]byte, error)
	ImportPEM(pemText string) ([]byte, bool, error)
	ImportEncryptedPEM(pemText string, password []byte) ([]byte, error)
}

// KeyPair holds a generated key pair as PKCS#8 (private) and SPKI
// (public) DER.
type KeyPair struct {
	PrivateKeyDER []byte
	PublicKeyDER  []byte
}

// Default is the stdlib-backed Provider implementation.
type Default struct{}

var allowedBits = map[int]bool{1024: true, 2048: true, 3072: true, 4096: true}

// GenerateKeyPair generates an RSA key pair of the requested bit size,
// one of 1024/2048/3072/4096 per spec §6.
func (Default) GenerateKeyPair(bits int) (KeyPair, error) {
	if !allowedBits[bits] {
		return KeyPair{}, fmt.Errorf(
			"%w: rsa key size must be 1024, 2048, 3072 or 4096 bits",
			hsmerr.ErrInvalidLength,
		)
	}

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return KeyPair{}, fmt.Errorf("%w: rsa key generation failed: %v", hsmerr.ErrCryptoFailure, err)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return KeyPair{}, fmt.Errorf("%w: pkcs8 export failed: %v", hsmerr.ErrInternal, err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return KeyPair{}, fmt.Errorf("%w: spki export failed: %v", hsmerr.ErrInternal, err)
	}

	return KeyPair{PrivateKeyDER: privDER, PublicKeyDER: pubDER}, nil
}

// EncryptOAEP encrypts plaintext under the SPKI-DER-encoded RSA public
// key using OAEP/SHA-256.
func (Default) EncryptOAEP(publicKeyDER []byte, plaintext []byte) ([]byte, error) {
	pub, err := x509.ParsePKIXPublicKey(publicKeyDER)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid spki public key: %v", hsmerr.ErrMalformedInput, err)
	}

	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: public key is not rsa", hsmerr.ErrMalformedInput)
	}

	out, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, rsaPub, plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: oaep encryption failed: %v", hsmerr.ErrCryptoFailure, err)
	}

	return out, nil
}

// DecryptOAEP decrypts ciphertext under the PKCS#8-DER-encoded RSA
// private key using OAEP/SHA-256.
func (Default) DecryptOAEP(privateKeyDER []byte, ciphertext []byte) ([]byte, error) {
	key, err := x509.ParsePKCS8PrivateKey(privateKeyDER)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid pkcs8 private key: %v", hsmerr.ErrMalformedInput, err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: private key is not rsa", hsmerr.ErrMalformedInput)
	}

	out, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, rsaKey, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: oaep decryption failed: %v", hsmerr.ErrCryptoFailure, err)
	}

	return out, nil
}

// ImportPEM decodes a PEM block holding a PUBLIC KEY or PRIVATE KEY and
// returns its DER payload along with whether it was a private key.
func (Default) ImportPEM(pemText string) ([]byte, bool, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, false, fmt.Errorf("%w: no pem block found", hsmerr.ErrMalformedInput)
	}

	switch block.Type {
	case "PRIVATE KEY":
		if _, err := x509.ParsePKCS8PrivateKey(block.Bytes); err != nil {
			return nil, false, fmt.Errorf("%w: invalid pkcs8 private key: %v", hsmerr.ErrMalformedInput, err)
		}

		return block.Bytes, true, nil
	case "PUBLIC KEY":
		if _, err := x509.ParsePKIXPublicKey(block.Bytes); err != nil {
			return nil, false, fmt.Errorf("%w: invalid spki public key: %v", hsmerr.ErrMalformedInput, err)
		}

		return block.Bytes, false, nil
	default:
		return nil, false, fmt.Errorf("%w: unsupported pem block type %q", hsmerr.ErrMalformedInput, block.Type)
	}
}

// ImportEncryptedPEM decodes a password-protected "ENCRYPTED PRIVATE
// KEY" PEM block and returns the decrypted key re-exported as plain
// PKCS#8 DER.
func (Default) ImportEncryptedPEM(pemText string, password []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: password required for encrypted private key", hsmerr.ErrMissingRequired)
	}

	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, fmt.Errorf("%w: no pem block found", hsmerr.ErrMalformedInput)
	}
	if block.Type != "ENCRYPTED PRIVATE KEY" {
		return nil, fmt.Errorf("%w: expected ENCRYPTED PRIVATE KEY block, got %q", hsmerr.ErrMalformedInput, block.Type)
	}

	key, err := pkcs8.ParsePKCS8PrivateKey(block.Bytes, password)
	if err != nil {
		return nil, fmt.Errorf("%w: decrypt pkcs8 private key: %v", hsmerr.ErrMalformedInput, err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: encrypted private key is not rsa", hsmerr.ErrMalformedInput)
	}

	der, err := x509.MarshalPKCS8PrivateKey(rsaKey)
	if err != nil {
		return nil, fmt.Errorf("%w: pkcs8 re-export failed: %v", hsmerr.ErrInternal, err)
	}

	return der, nil
}
