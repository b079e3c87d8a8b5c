// Package rsakeys provides RSA-OAEP key generation and PEM import
// commands backed by pkg/rsaprovider.
package rsakeys

import (
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/cardflow/hsmkit/pkg/rsaprovider"
	"github.com/spf13/cobra"
)

// NewRSAKeysCommand creates the rsa command group.
func NewRSAKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rsa",
		Short: "RSA-OAEP key generation and PEM import",
	}

	cmd.AddCommand(newGenerateCommand())
	cmd.AddCommand(newImportCommand())

	return cmd
}

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an RSA key pair and print it as PEM",
		RunE:  runGenerate,
	}

	cmd.Flags().Int("bits", 2048, "key size in bits: 1024, 2048, 3072 or 4096")

	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	bits, _ := cmd.Flags().GetInt("bits")

	provider := rsaprovider.Default{}

	kp, err := provider.GenerateKeyPair(bits)
	if err != nil {
		return fmt.Errorf("failed to generate rsa key pair: %w", err)
	}

	cmd.Print(string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: kp.PrivateKeyDER})))
	cmd.Print(string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: kp.PublicKeyDER})))

	return nil
}

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a PEM-encoded RSA key and print its DER as base64",
		RunE:  runImport,
	}

	cmd.Flags().String("file", "", "path to a PEM file")

	if err := cmd.MarkFlagRequired("file"); err != nil {
		panic(err)
	}

	return cmd
}

func runImport(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")

	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read pem file: %w", err)
	}

	provider := rsaprovider.Default{}

	der, isPrivate, err := provider.ImportPEM(string(pemBytes))
	if err != nil {
		return fmt.Errorf("failed to import pem: %w", err)
	}

	cmd.Printf("Private Key: %t\n", isPrivate)
	cmd.Printf("DER (base64): %s\n", base64.StdEncoding.EncodeToString(der))

	return nil
}
