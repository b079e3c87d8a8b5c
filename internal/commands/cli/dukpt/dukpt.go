// Package dukpt provides ANSI X9.24-1 DUKPT key derivation commands.
package dukpt

import (
	"fmt"

	"github.com/cardflow/hsmkit/internal/commands/cli/cipherselect"
	"github.com/cardflow/hsmkit/pkg/dukpt"
	"github.com/cardflow/hsmkit/pkg/observability"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewDukptCommand creates the dukpt command group.
func NewDukptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dukpt",
		Short: "ANSI X9.24-1 DUKPT key derivation",
		Long: `Derive the IPEK, current transaction key, and the five session-key
variants for a Base Derivation Key and Key Serial Number pair.`,
	}

	cmd.AddCommand(newDeriveCommand())

	return cmd
}

func newDeriveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive a DUKPT key set from a BDK and KSN",
		RunE:  runDerive,
	}

	cmd.Flags().String("bdk", "", "Base Derivation Key in hex (16 or 24 bytes)")
	cmd.Flags().String("ksn", "", "Key Serial Number in hex (10 bytes)")
	cmd.Flags().Bool("debug-events", false, "log structured debug events as the derivation runs")
	cipherselect.AddFlag(cmd)

	if err := cmd.MarkFlagRequired("bdk"); err != nil {
		panic(err)
	}
	if err := cmd.MarkFlagRequired("ksn"); err != nil {
		panic(err)
	}

	return cmd
}

func runDerive(cmd *cobra.Command, _ []string) error {
	bdkHex, _ := cmd.Flags().GetString("bdk")
	ksnHex, _ := cmd.Flags().GetString("ksn")
	debugEvents, _ := cmd.Flags().GetBool("debug-events")

	provider, cleanup, err := cipherselect.Resolve(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var observers []observability.Observer
	if debugEvents {
		observers = append(observers, observability.Zerolog())
	}

	keySet, err := dukpt.Derive(provider, bdkHex, ksnHex, observers...)
	if err != nil {
		return fmt.Errorf("failed to derive key set: %w", err)
	}

	// Label this derivation run so multiple invocations are distinguishable
	// when their output is collected into a single trace log.
	traceID := uuid.NewString()

	cmd.Printf("Trace: %s\n", traceID)
	cmd.Printf("KSN: %s\n", keySet.KSN)
	cmd.Printf("Counter: %d\n", keySet.Counter)
	cmd.Printf("IPEK: %s\n", keySet.IPEK)
	cmd.Printf("Transaction Key: %s\n", keySet.TransactionKey)
	cmd.Printf("PIN Key: %s\n", keySet.PINKey)
	cmd.Printf("MAC Request Key: %s\n", keySet.MACRequestKey)
	cmd.Printf("MAC Response Key: %s\n", keySet.MACResponseKey)
	cmd.Printf("Data Request Key: %s\n", keySet.DataRequestKey)
	cmd.Printf("Data Response Key: %s\n", keySet.DataResponseKey)

	return nil
}
