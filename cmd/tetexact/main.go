// Command tetexact loads a model configuration, builds a spatial
// stochastic simulation Engine, and either runs it to completion on the
// command line or serves it over HTTP, in the manner of
// daniacca-achemdb's cmd/achemdb-server (net/http handlers over an
// in-process Environment) generalized into a cobra-based CLI the way
// spatialmodel-inmap's inmaputil/cmd.go structures its subcommands.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
