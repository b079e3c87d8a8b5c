// Package cipherselect resolves the blockcipher.Provider a CLI command
// should use: the in-process default, or a WASM-hosted plugin when
// --cipher-plugin points at one.
package cipherselect

import (
	"context"
	"fmt"
	"os"

	"github.com/cardflow/hsmkit/pkg/blockcipher"
	"github.com/cardflow/hsmkit/pkg/blockcipher/plugin"
	"github.com/spf13/cobra"
)

// AddFlag registers the --cipher-plugin flag on cmd.
func AddFlag(cmd *cobra.Command) {
	cmd.Flags().String("cipher-plugin", "", "path to a WASM cipher plugin module (default: in-process)")
}

// Resolve reads --cipher-plugin off cmd and returns the provider to
// use along with a cleanup function that must be called when done.
func Resolve(cmd *cobra.Command) (blockcipher.Provider, func(), error) {
	path, _ := cmd.Flags().GetString("cipher-plugin")
	if path == "" {
		return blockcipher.Default{}, func() {}, nil
	}

	wasmBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read cipher plugin: %w", err)
	}

	ctx := context.Background()

	provider, err := plugin.Load(ctx, wasmBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load cipher plugin: %w", err)
	}

	return provider, func() { _ = provider.Close() }, nil
}
