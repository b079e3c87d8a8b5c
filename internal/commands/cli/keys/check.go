package keys

import (
	"fmt"

	"github.com/cardflow/hsmkit/internal/commands/cli/cipherselect"
	"github.com/cardflow/hsmkit/pkg/kcv"
	"github.com/cardflow/hsmkit/pkg/observability"
	"github.com/spf13/cobra"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compute the Key Check Value of a key",
		Long: `Compute the Key Check Value (KCV) for a hex-encoded key: the first
three bytes of the ECB-NoPadding encryption of a zero block under the key.`,
		RunE: runCheck,
	}

	cmd.Flags().String("key", "", "key in hex format")
	cmd.Flags().String("family", "aes", "key family (3des or aes)")
	cmd.Flags().Bool("debug-events", false, "log structured debug events as the computation runs")
	cipherselect.AddFlag(cmd)

	if err := cmd.MarkFlagRequired("key"); err != nil {
		panic(err)
	}

	return cmd
}

func runCheck(cmd *cobra.Command, _ []string) error {
	keyHex, _ := cmd.Flags().GetString("key")
	familyName, _ := cmd.Flags().GetString("family")

	family, err := parseFamily(familyName)
	if err != nil {
		return err
	}

	provider, cleanup, err := cipherselect.Resolve(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	debugEvents, _ := cmd.Flags().GetBool("debug-events")

	var observers []observability.Observer
	if debugEvents {
		observers = append(observers, observability.Zerolog())
	}

	value, err := kcv.Compute(provider, keyHex, family, observers...)
	if err != nil {
		return fmt.Errorf("failed to compute kcv: %w", err)
	}

	cmd.Printf("KCV: %s\n", value)

	return nil
}
