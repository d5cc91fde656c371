package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tin",
	Short: "Run and inspect compiled TinScript bytecode",
	Long: `tin embeds the TinScript runtime core: a typed value model, a
bytecode execution stack, a namespace/object registry, and a cooperative
scheduler. It does not compile source — exec and unit-test load
already-assembled .tsbc bytecode files (see internal/bytecode.WriteBlock);
repl and version load none.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}
