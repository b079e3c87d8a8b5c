// Package keyblock provides commands for wrapping and unwrapping keys
// under a Local Master Key using the Thales 'S' and internal 'R' AES
// key-block formats implemented by pkg/keyblocklmk.
package keyblock

import (
	"encoding/hex"
	"fmt"

	"github.com/cardflow/hsmkit/pkg/keyblocklmk"
	"github.com/spf13/cobra"
)

// NewKeyBlockCommand creates the keyblock command with subcommands.
func NewKeyBlockCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyblock",
		Short: "Wrap and unwrap keys under an LMK as AES key blocks",
		Long: `Wrap and unwrap keys under a Local Master Key using the AES key-block
envelope: a 16-byte ASCII header, optional blocks, AES-CBC ciphertext, and an
AES-CMAC authenticator. Supports Thales 'S' format (truncated 8-byte MAC) and
the internal 'R' format (full 16-byte MAC).`,
		Example: `  # Wrap a key under the built-in test LMK
  hsmkit keyblock wrap --key 0123456789ABCDEF --usage B0

  # Unwrap a key block, given as the hex string keyblock wrap prints
  hsmkit keyblock unwrap --block <hex printed by keyblock wrap>

  # Compute a key's CMAC check value
  hsmkit keyblock checkvalue --key 0123456789ABCDEF0123456789ABCDEF`,
	}

	cmd.AddCommand(newWrapCommand())
	cmd.AddCommand(newUnwrapCommand())
	cmd.AddCommand(newCheckValueCommand())

	return cmd
}

func newWrapCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wrap",
		Short: "Wrap a clear key under an LMK",
		RunE:  runWrap,
	}

	cmd.Flags().String("key", "", "clear key in hex")
	cmd.Flags().String("lmk", "", "LMK in hex (defaults to the built-in AES test LMK)")
	cmd.Flags().String("usage", "B0", "2-character key usage code")
	cmd.Flags().String("algorithm", "A", "1-character algorithm code")
	cmd.Flags().String("mode", "E", "1-character mode of use code")
	cmd.Flags().String("exportability", "S", "1-character exportability code")
	cmd.Flags().String("format", "S", "key block format: S (Thales, truncated MAC) or R (full MAC)")

	if err := cmd.MarkFlagRequired("key"); err != nil {
		panic(err)
	}

	return cmd
}

func runWrap(cmd *cobra.Command, _ []string) error {
	keyHex, _ := cmd.Flags().GetString("key")
	lmkHex, _ := cmd.Flags().GetString("lmk")
	usage, _ := cmd.Flags().GetString("usage")
	algorithm, _ := cmd.Flags().GetString("algorithm")
	mode, _ := cmd.Flags().GetString("mode")
	exportability, _ := cmd.Flags().GetString("exportability")
	format, _ := cmd.Flags().GetString("format")

	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return fmt.Errorf("invalid --key hex: %w", err)
	}

	lmk, err := resolveLMK(lmkHex)
	if err != nil {
		return err
	}

	if len(usage) != 2 || len(algorithm) != 1 || len(mode) != 1 || len(exportability) != 1 {
		return fmt.Errorf("usage must be 2 characters; algorithm, mode, and exportability must each be 1")
	}

	if format != "S" && format != "R" {
		return fmt.Errorf("format must be S or R, got %q", format)
	}

	header := keyblocklmk.Header{
		Version:       '1',
		KeyUsage:      usage,
		Algorithm:     algorithm[0],
		ModeOfUse:     mode[0],
		KeyVersionNum: "00",
		Exportability: exportability[0],
		KeyContext:    '0',
	}

	block, err := keyblocklmk.WrapKeyBlock(lmk, header, nil, key, rune(format[0]))
	if err != nil {
		return fmt.Errorf("wrap failed: %w", err)
	}

	cmd.Printf("%s\n", hex.EncodeToString(block))

	return nil
}

func newUnwrapCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unwrap",
		Short: "Unwrap a key block and recover the clear key",
		RunE:  runUnwrap,
	}

	cmd.Flags().String("block", "", "key block in hex")
	cmd.Flags().String("lmk", "", "LMK in hex (defaults to the built-in AES test LMK)")

	if err := cmd.MarkFlagRequired("block"); err != nil {
		panic(err)
	}

	return cmd
}

func runUnwrap(cmd *cobra.Command, _ []string) error {
	blockHex, _ := cmd.Flags().GetString("block")
	lmkHex, _ := cmd.Flags().GetString("lmk")

	block, err := hex.DecodeString(blockHex)
	if err != nil {
		return fmt.Errorf("invalid --block hex: %w", err)
	}

	lmk, err := resolveLMK(lmkHex)
	if err != nil {
		return err
	}

	header, clearKey, err := keyblocklmk.UnwrapKeyBlock(lmk, block)
	if err != nil {
		return fmt.Errorf("unwrap failed: %w", err)
	}

	cmd.Printf("Key Usage: %s\n", header.KeyUsage)
	cmd.Printf("Algorithm: %c\n", header.Algorithm)
	cmd.Printf("Mode Of Use: %c\n", header.ModeOfUse)
	cmd.Printf("Exportability: %c\n", header.Exportability)
	cmd.Printf("Clear Key: %s\n", hex.EncodeToString(clearKey))

	return nil
}

func newCheckValueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkvalue",
		Short: "Compute the AES-CMAC check value for a key",
		RunE:  runCheckValue,
	}

	cmd.Flags().String("key", "", "AES key in hex")

	if err := cmd.MarkFlagRequired("key"); err != nil {
		panic(err)
	}

	return cmd
}

func runCheckValue(cmd *cobra.Command, _ []string) error {
	keyHex, _ := cmd.Flags().GetString("key")

	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return fmt.Errorf("invalid --key hex: %w", err)
	}

	checkValue, err := keyblocklmk.CalculateCMACCheckValue(key)
	if err != nil {
		return fmt.Errorf("checkvalue failed: %w", err)
	}

	cmd.Printf("%s\n", hex.EncodeToString(checkValue))

	return nil
}

// resolveLMK decodes an LMK hex string, or falls back to the built-in
// AES test LMK when none is supplied.
func resolveLMK(lmkHex string) ([]byte, error) {
	if lmkHex == "" {
		return keyblocklmk.DefaultTestAESLMK, nil
	}

	lmk, err := hex.DecodeString(lmkHex)
	if err != nil {
		return nil, fmt.Errorf("invalid --lmk hex: %w", err)
	}

	return lmk, nil
}
