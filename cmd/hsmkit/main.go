// Command hsmkit is a thin demonstration CLI over the hsmkit library: it
// is not the core (the core is invoked as a library, per spec) but
// peripheral tooling exercising key generate/assemble/check, pin-block
// encode/decode, dukpt derive, and tr31 parse.
package main

import (
	"fmt"
	"os"

	"github.com/cardflow/hsmkit/internal/commands/cli"
	"github.com/cardflow/hsmkit/internal/errorcodes"
	"github.com/cardflow/hsmkit/internal/logging"
)

func main() {
	logging.InitLogger(false, true)

	rootCmd, err := cli.NewRootCommand()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build root command:", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		code := errorcodes.Translate(err)
		fmt.Fprintf(os.Stderr, "[%s] %s: %v\n", code.CodeOnly(), code.Description, err)
		os.Exit(1)
	}
}
