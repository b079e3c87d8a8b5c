// Package tr31 provides ANSI/ASC X9 TR-31 key-block parsing commands.
package tr31

import (
	"fmt"

	"github.com/cardflow/hsmkit/internal/cli/tui"
	"github.com/cardflow/hsmkit/pkg/observability"
	"github.com/cardflow/hsmkit/pkg/tr31"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewTr31Command creates the tr31 command group.
func NewTr31Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tr31",
		Short: "ANSI/ASC X9 TR-31 key-block parsing",
		Long: `Parse the structure of a TR-31 key block: header, optional blocks,
encrypted key, and authenticator. Does not unwrap or verify the block.`,
	}

	cmd.AddCommand(newParseCommand())
	cmd.AddCommand(newViewCommand())
	cmd.AddCommand(newTestBlockCommand())

	return cmd
}

func newParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a TR-31 key block string",
		RunE:  runParse,
	}

	cmd.Flags().String("block", "", "TR-31 key block as an ASCII string")
	cmd.Flags().Bool("debug-events", false, "log structured debug events as the parse runs")

	if err := cmd.MarkFlagRequired("block"); err != nil {
		panic(err)
	}

	return cmd
}

func runParse(cmd *cobra.Command, _ []string) error {
	block, _ := cmd.Flags().GetString("block")
	debugEvents, _ := cmd.Flags().GetBool("debug-events")

	var observers []observability.Observer
	if debugEvents {
		observers = append(observers, observability.Zerolog())
	}

	parsed, err := tr31.Parse(block, observers...)
	if err != nil {
		return fmt.Errorf("failed to parse key block: %w", err)
	}

	h := parsed.Header
	cmd.Printf("Version: %c\n", h.VersionID)
	cmd.Printf("Length: %d\n", h.Length)
	cmd.Printf("Key Usage: %s\n", h.KeyUsage)
	cmd.Printf("Algorithm: %c\n", h.Algorithm)
	cmd.Printf("Mode Of Use: %c\n", h.ModeOfUse)
	cmd.Printf("Key Version: %s\n", h.KeyVersion)
	cmd.Printf("Exportability: %c\n", h.Exportability)
	cmd.Printf("Optional Blocks: %d\n", len(parsed.OptionalBlocks))

	for _, ob := range parsed.OptionalBlocks {
		cmd.Printf("  Block %s: %s\n", ob.ID, ob.ValueHex)
	}

	cmd.Printf("Encrypted Key: %s\n", parsed.EncryptedKey)
	cmd.Printf("Authenticator: %s\n", parsed.Authenticator)

	return nil
}

func newViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Interactively step through a parsed TR-31 key block",
		Long: `Parse a TR-31 key block and open an interactive terminal viewer
to step through its header fields, optional blocks, and trailing
encrypted-key/authenticator section one at a time.`,
		RunE: runView,
	}

	cmd.Flags().String("block", "", "TR-31 key block as an ASCII string")

	if err := cmd.MarkFlagRequired("block"); err != nil {
		panic(err)
	}

	return cmd
}

func runView(cmd *cobra.Command, _ []string) error {
	block, _ := cmd.Flags().GetString("block")

	parsed, err := tr31.Parse(block)
	if err != nil {
		return fmt.Errorf("failed to parse key block: %w", err)
	}

	return tui.RunBlockViewer(parsed)
}

func newTestBlockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "testblock",
		Short: "Synthesize a sample TR-31 block for local testing",
		Long: `Build a structurally valid TR-31 block string with one synthetic
"KS" (key serial) optional block whose value is derived from a freshly
generated UUID, for feeding into 'tr31 parse' or 'tr31 view' without a
real key block on hand.`,
		RunE: runTestBlock,
	}
}

func runTestBlock(cmd *cobra.Command, _ []string) error {
	id := uuid.New()
	ksValue := id[:8] // 8 bytes, 16 hex characters, fits a 2-digit length field.

	const (
		keyUsage      = "K0"
		algorithm     = 'A'
		modeOfUse     = 'N'
		keyVersion    = "00"
		exportability = 'E'
		encryptedKey  = "00000000000000000000000000000000" // 16 dummy zero bytes.
		authenticator = "0000000000000000"                  // 8 dummy zero bytes.
	)

	optionalBlock := fmt.Sprintf("KS%02d%X", len(ksValue), ksValue)

	length := tr31.HeaderLength + len(optionalBlock) + len(encryptedKey) + len(authenticator)

	header := fmt.Sprintf("%c%04d%s%c%c%s%c%02d%s",
		'1', length, keyUsage, algorithm, modeOfUse, keyVersion, exportability, 1, "00")

	block := header + optionalBlock + encryptedKey + authenticator

	cmd.Printf("%s\n", block)

	return nil
}
