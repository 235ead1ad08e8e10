package cli

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/catbench/internal/config"
	"github.com/wesleyorama2/catbench/internal/evaluator"
	"github.com/wesleyorama2/catbench/internal/metrics"
	"github.com/wesleyorama2/catbench/internal/names"
	"github.com/wesleyorama2/catbench/internal/output"
	"github.com/wesleyorama2/catbench/internal/reset"
	"github.com/wesleyorama2/catbench/internal/scenario"
)

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Reset the catalog state and run the lifecycle scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return runScenario(ctx, cfg, cmd)
		},
	}

	addTargetFlags(runCmd)
	runCmd.Flags().String("reset-file", reset.DefaultStateFile, "Catalog state file removed before the run")
	runCmd.Flags().Bool("skip-reset", false, "Leave the catalog state file in place")
	runCmd.Flags().Int("name-length", names.DefaultLength, "Length of generated namespace and table names")
	runCmd.Flags().Uint64("seed", 0, "Seed for name generation; 0 picks a random seed")
	runCmd.Flags().IntP("iterations", "n", 1, "Number of scenario passes, each with fresh names")
	runCmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml)")

	return runCmd
}

func runScenario(ctx context.Context, cfg *config.Config, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	reporter, err := output.NewReporter(output.OutputFormat(cfg.Output.Format), out, output.Options{
		Verbose: cfg.Output.Verbose,
		NoColor: !output.UseColor(out, cfg.Output.NoColor),
	})
	if err != nil {
		return err
	}

	run := output.RunInfo{
		RunID:      uuid.NewString(),
		BaseURL:    cfg.BaseURL,
		Iterations: cfg.Iterations,
		Seed:       cfg.Seed,
		StartedAt:  time.Now(),
	}
	logger := log.With().Str("run_id", run.RunID).Logger()
	logger.Info().
		Str("base_url", cfg.BaseURL).
		Int("iterations", cfg.Iterations).
		Uint64("seed", cfg.Seed).
		Dur("timeout", cfg.Timeout.Std()).
		Msg("starting catalog benchmark")
	reporter.Start(run)

	if cfg.SkipReset {
		reporter.Reset(reset.Result{Path: cfg.ResetFile, Skipped: true})
	} else {
		result, err := reset.StateFile(cfg.ResetFile)
		if err != nil {
			return err
		}
		reporter.Reset(result)
	}

	client := newClient(cfg)
	recorder := metrics.NewRecorder()
	driver, err := scenario.NewDriver(evaluator.New(client, reporter, recorder), scenario.Lifecycle())
	if err != nil {
		return err
	}
	logger.Debug().Strs("steps", driver.Steps()).Msg("scenario ready")

	gen := names.NewGenerator(cfg.Seed)
	runErr := driver.Repeat(ctx, cfg.Iterations,
		func() names.Set { return gen.NewSet(cfg.NameLength) },
		reporter.Iteration,
	)

	summary := recorder.Summary()
	if err := reporter.Finish(summary); err != nil && runErr == nil {
		runErr = err
	}

	if runErr != nil {
		logger.Error().Err(runErr).Int64("calls", summary.TotalCalls).Msg("benchmark aborted")
		return runErr
	}
	logger.Info().
		Int64("calls", summary.TotalCalls).
		Int64("failed", summary.Failed).
		Dur("duration", time.Since(run.StartedAt)).
		Msg("benchmark complete")
	return nil
}
