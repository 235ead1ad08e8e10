package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/catbench/internal/reset"
)

func newResetCmd() *cobra.Command {
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove the catalog state file so the catalog starts empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			result := reset.Result{Path: cfg.ResetFile, Skipped: true}
			if !cfg.SkipReset {
				result, err = reset.StateFile(cfg.ResetFile)
				if err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message())
			return nil
		},
	}

	resetCmd.Flags().String("reset-file", reset.DefaultStateFile, "Catalog state file to remove")
	resetCmd.Flags().Bool("skip-reset", false, "Leave the catalog state file in place")

	return resetCmd
}
