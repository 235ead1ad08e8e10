package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/catbench/internal/config"
)

// NewRootCmd builds the catbench command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "catbench",
		Short:   "Measure the latency of a REST table catalog's lifecycle operations",
		Version: config.Version,
		Long: `catbench drives a fixed lifecycle scenario against a REST table catalog
(create namespace, load namespace, create table, load table, rename table,
load renamed table, drop renamed table) and reports the HTTP response and
wall-clock latency of every call.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			// If no subcommand is provided, print help
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file (.yaml, .yml or .json)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (console, json)")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newCallCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newNamesCmd())

	return rootCmd
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}
