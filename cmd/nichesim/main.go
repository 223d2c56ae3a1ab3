package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nichesim",
		Short: "Lattice simulator of populations competing for environmental niches",
		Long: `nichesim runs populations with Gaussian niche preferences against each
other on a 2-D lattice. Every step residents spread into neighbouring cells and
each contested cell goes to the best adapted candidate, until the grid stops
changing or the iteration budget runs out.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Scenario YAML file (defaults when empty)")
	rootCmd.PersistentFlags().StringArray("set", nil, "key=value scenario override, repeatable")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newSweepCmd(),
		newPercolationCmd(),
		newParamsCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
