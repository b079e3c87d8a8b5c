// Package keys provides key generation, assembly, and verification commands.
package keys

import (
	"github.com/spf13/cobra"
)

// NewKeysCommand creates the keys command group.
func NewKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Key component generation and assembly operations",
		Long: `Key component generation and assembly operations.
This command provides subcommands for generating random key components,
assembling components into a final key, and checking a key's KCV.`,
	}

	cmd.AddCommand(newGenerateCommand())
	cmd.AddCommand(newAssembleCommand())
	cmd.AddCommand(newCheckCommand())

	return cmd
}
