// Package cert provides PEM certificate and CSR inspection commands
// backed by pkg/x509provider.
package cert

import (
	"fmt"
	"os"

	"github.com/cardflow/hsmkit/pkg/x509provider"
	"github.com/spf13/cobra"
)

// NewCertCommand creates the cert command group.
func NewCertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cert",
		Short: "Inspect PEM certificates and certificate-signing requests",
	}

	cmd.AddCommand(newParseCommand())
	cmd.AddCommand(newParseCSRCommand())

	return cmd
}

func newParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a PEM certificate",
		RunE:  runParse,
	}

	cmd.Flags().String("file", "", "path to a PEM certificate file")

	if err := cmd.MarkFlagRequired("file"); err != nil {
		panic(err)
	}

	return cmd
}

func runParse(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")

	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read pem file: %w", err)
	}

	parser := x509provider.Default{}

	parsed, err := parser.ParseCertificate(string(pemBytes))
	if err != nil {
		return fmt.Errorf("failed to parse certificate: %w", err)
	}

	cmd.Printf("Subject: %s\n", parsed.Subject)
	cmd.Printf("Issuer: %s\n", parsed.Issuer)
	cmd.Printf("Version: %d\n", parsed.Version)
	cmd.Printf("Serial Number: %s\n", parsed.SerialNumber)
	cmd.Printf("Signature Algorithm: %s\n", parsed.SignatureAlgorithm)
	cmd.Printf("Public Key Algorithm: %s\n", parsed.PublicKeyAlgorithm)
	cmd.Printf("Valid From: %s\n", parsed.NotBefore.UTC())
	cmd.Printf("Valid Until: %s\n", parsed.NotAfter.UTC())

	for _, ext := range parsed.Extensions {
		cmd.Printf("  Extension %s (critical=%t): %s\n", ext.ID, ext.Critical, ext.ValueHex)
	}

	return nil
}

func newParseCSRCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse-csr",
		Short: "Parse a PEM certificate-signing request",
		RunE:  runParseCSR,
	}

	cmd.Flags().String("file", "", "path to a PEM CSR file")

	if err := cmd.MarkFlagRequired("file"); err != nil {
		panic(err)
	}

	return cmd
}

func runParseCSR(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")

	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read pem file: %w", err)
	}

	parser := x509provider.Default{}

	parsed, err := parser.ParseCertificateRequest(string(pemBytes))
	if err != nil {
		return fmt.Errorf("failed to parse certificate request: %w", err)
	}

	cmd.Printf("Subject: %s\n", parsed.Subject)
	cmd.Printf("Signature Algorithm: %s\n", parsed.SignatureAlgorithm)
	cmd.Printf("Public Key Algorithm: %s\n", parsed.PublicKeyAlgorithm)

	for _, attr := range parsed.Attributes {
		cmd.Printf("  Attribute %s: %v\n", attr.ID, attr.Values)
	}

	return nil
}
