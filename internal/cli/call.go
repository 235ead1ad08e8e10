package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/catbench/internal/evaluator"
	"github.com/wesleyorama2/catbench/internal/metrics"
	"github.com/wesleyorama2/catbench/internal/output"
)

func newCallCmd() *cobra.Command {
	callCmd := &cobra.Command{
		Use:   "call METHOD ENDPOINT",
		Short: "Issue a single timed catalog call and report it",
		Example: `  catbench call GET namespaces/abcdefgh
  catbench call POST namespaces --json '{"namespace":["abcdefgh"]}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			var payload interface{}
			if data, _ := cmd.Flags().GetString("json"); data != "" {
				if !json.Valid([]byte(data)) {
					return fmt.Errorf("--json is not valid JSON")
				}
				payload = json.RawMessage(data)
			}

			out := cmd.OutOrStdout()
			reporter := output.NewTextReporter(out, output.Options{
				Verbose: cfg.Output.Verbose,
				NoColor: !output.UseColor(out, cfg.Output.NoColor),
			})
			client := newClient(cfg)

			eval := evaluator.New(client, reporter, metrics.NewRecorder())
			_, err = eval.Evaluate(cmd.Context(), evaluator.Call{
				Iteration: 1,
				Step:      "call",
				Method:    strings.ToUpper(args[0]),
				Endpoint:  args[1],
				Payload:   payload,
			})
			return err
		},
	}

	addTargetFlags(callCmd)
	callCmd.Flags().StringP("json", "j", "", "JSON body for POST and PUT")

	return callCmd
}
