package keys

import (
	"fmt"

	"github.com/cardflow/hsmkit/pkg/misc"
	"github.com/spf13/cobra"
)

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random key component",
		Long: `Generate a random key component of the given byte length, hex-encoded.
Use this to produce individual components that are later combined with
'keys assemble' into a final key.`,
		RunE: runGenerate,
	}

	cmd.Flags().Int("bytes", 16, "component length in bytes")

	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	n, _ := cmd.Flags().GetInt("bytes")

	component, err := misc.RandomHex(n)
	if err != nil {
		return fmt.Errorf("failed to generate component: %w", err)
	}

	cmd.Printf("Component: %s\n", component)

	return nil
}
