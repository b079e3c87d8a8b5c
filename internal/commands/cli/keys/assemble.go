package keys

import (
	"fmt"

	"github.com/cardflow/hsmkit/internal/commands/cli/cipherselect"
	"github.com/cardflow/hsmkit/pkg/keyassembly"
	"github.com/spf13/cobra"
)

func newAssembleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Assemble key components into a final key",
		Long: `Combine one to three hex-encoded key components into a final key by
XOR (a single component is used as the key unchanged), then report its
Key Check Value under the requested family.`,
		RunE: runAssemble,
	}

	cmd.Flags().String("family", "aes", "key family (3des or aes)")
	cmd.Flags().Int("length", 16, "final key length in bytes")
	cmd.Flags().StringSlice("component", nil, "a key component in hex (repeat for each)")
	cmd.Flags().String("kcv-family", "", "family to compute the KCV under (defaults to --family)")
	cipherselect.AddFlag(cmd)

	if err := cmd.MarkFlagRequired("component"); err != nil {
		panic(err)
	}

	return cmd
}

func runAssemble(cmd *cobra.Command, _ []string) error {
	familyName, _ := cmd.Flags().GetString("family")
	length, _ := cmd.Flags().GetInt("length")
	components, _ := cmd.Flags().GetStringSlice("component")
	kcvFamilyName, _ := cmd.Flags().GetString("kcv-family")

	family, err := parseFamily(familyName)
	if err != nil {
		return err
	}

	kcvFamily := family
	if kcvFamilyName != "" {
		kcvFamily, err = parseFamily(kcvFamilyName)
		if err != nil {
			return err
		}
	}

	profile, err := keyassembly.NewProfile(family, length, len(components), kcvFamily)
	if err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	provider, cleanup, err := cipherselect.Resolve(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := keyassembly.Assemble(provider, profile, components)
	if err != nil {
		return fmt.Errorf("failed to assemble key: %w", err)
	}

	cmd.Printf("Key: %s\n", result.KeyHex)
	cmd.Printf("KCV: %s\n", result.KCVHex)

	return nil
}
