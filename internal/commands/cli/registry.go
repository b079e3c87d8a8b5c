// Package cli provides centralized command registration.
package cli

import (
	"fmt"

	"github.com/cardflow/hsmkit/internal/commands/cli/cert"
	"github.com/cardflow/hsmkit/internal/commands/cli/dukpt"
	"github.com/cardflow/hsmkit/internal/commands/cli/keyblock"
	"github.com/cardflow/hsmkit/internal/commands/cli/keys"
	"github.com/cardflow/hsmkit/internal/commands/cli/pb"
	"github.com/cardflow/hsmkit/internal/commands/cli/rsakeys"
	"github.com/cardflow/hsmkit/internal/commands/cli/tr31"
	"github.com/spf13/cobra"
)

// RegisterCommands registers all root commands.
func RegisterCommands(root *cobra.Command) error {
	// Root commands.
	root.AddCommand(keys.NewKeysCommand())
	root.AddCommand(dukpt.NewDukptCommand())
	root.AddCommand(tr31.NewTr31Command())
	root.AddCommand(rsakeys.NewRSAKeysCommand())
	root.AddCommand(cert.NewCertCommand())
	root.AddCommand(keyblock.NewKeyBlockCommand())

	pinblockCmd, err := pb.NewPinBlockCommand()
	if err != nil {
		return fmt.Errorf("failed to create pinblock command: %w", err)
	}
	root.AddCommand(pinblockCmd)

	return nil
}
