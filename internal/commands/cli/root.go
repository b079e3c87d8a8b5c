// Package cli provides the CLI command structure for hsmkit.
package cli

import (
	"fmt"

	"github.com/cardflow/hsmkit/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// NewRootCommand creates and returns the root command with all subcommands.
func NewRootCommand() (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:   "hsmkit",
		Short: "Payment-crypto primitives CLI",
		Long: `A demonstration CLI over hsmkit's library operations: key component
generate/assemble/check, PIN block encode/decode, DUKPT derivation, and
TR-31 key-block parsing.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// Initialize configuration before running any command.
			if err := config.Initialize(); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			return nil
		},
	}

	// --config is accepted on every command, but its value is not read:
	// config.Initialize always searches for config.yaml on its own paths.
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (not read; config.yaml is searched for in ., $HOME/.hsmkit and /etc/hsmkit)")

	// Log flags, bound to the global viper instance. Neither internal/config
	// (which uses its own viper instance) nor the logger setup in cmd/hsmkit
	// reads these keys, so the flags do not change logging.
	rootCmd.PersistentFlags().
		String("log-level", "info", "logging level (debug, info, warn, error; not applied)")
	rootCmd.PersistentFlags().String("log-format", "", "logging format (human, json; not applied)")

	// Bind flags to viper.
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Register all commands.
	if err := RegisterCommands(rootCmd); err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}

	return rootCmd, nil
}
