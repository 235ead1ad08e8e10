package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/catbench/internal/names"
)

func newNamesCmd() *cobra.Command {
	namesCmd := &cobra.Command{
		Use:   "names",
		Short: "Print the name sets a run would use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			count, _ := cmd.Flags().GetInt("count")
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}

			gen := names.NewGenerator(cfg.Seed)
			for i := 1; i <= count; i++ {
				set := gen.NewSet(cfg.NameLength)
				fmt.Fprintf(cmd.OutOrStdout(), "%d: namespace=%s table=%s renamed=%s\n",
					i, set.Namespace, set.Table, set.RenamedTable)
			}
			return nil
		},
	}

	namesCmd.Flags().Int("name-length", names.DefaultLength, "Length of generated names")
	namesCmd.Flags().Uint64("seed", 0, "Seed for name generation; 0 picks a random seed")
	namesCmd.Flags().Int("count", 1, "Number of name sets to print")

	return namesCmd
}
