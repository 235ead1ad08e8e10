package scenario

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/wesleyorama2/catbench/internal/evaluator"
	"github.com/wesleyorama2/catbench/internal/names"
	"github.com/wesleyorama2/catbench/internal/output"
)

// Evaluator issues and reports a single call.
type Evaluator interface {
	Evaluate(ctx context.Context, call evaluator.Call) (*output.CallRecord, error)
}

// Driver walks a pipeline strictly in order, one call in flight at a time.
type Driver struct {
	pipeline Pipeline
	eval     Evaluator
}

// NewDriver validates the pipeline and returns a driver for it.
func NewDriver(eval Evaluator, pipeline Pipeline) (*Driver, error) {
	if err := pipeline.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &Driver{pipeline: pipeline, eval: eval}, nil
}

// Steps returns the names of the pipeline's steps in order.
func (d *Driver) Steps() []string {
	steps := make([]string, len(d.pipeline))
	for i, s := range d.pipeline {
		steps[i] = s.Name
	}
	return steps
}

// Run issues every step once using the names in set. A step's effect on the
// catalog is assumed as soon as its call returns, whatever the status code.
// The first transport failure aborts the remaining steps.
func (d *Driver) Run(ctx context.Context, iteration int, set names.Set) error {
	state := make(State)

	for _, step := range d.pipeline {
		if err := ctx.Err(); err != nil {
			return err
		}
		if missing := state.Missing(step.Requires); len(missing) > 0 {
			return fmt.Errorf("step %q issued before %v exists", step.Name, missing)
		}

		call := evaluator.Call{
			Iteration: iteration,
			Step:      step.Name,
			Method:    step.Method,
			Endpoint:  step.Path(set),
		}
		if step.Payload != nil {
			call.Payload = step.Payload(set)
		}

		if _, err := d.eval.Evaluate(ctx, call); err != nil {
			return fmt.Errorf("step %s: %w", step.Name, err)
		}
		state.Apply(step)
	}

	return nil
}

// Repeat runs the pipeline iterations times, drawing a fresh name set from
// next before each pass. observe, if set, sees each set before it is used.
func (d *Driver) Repeat(ctx context.Context, iterations int, next func() names.Set, observe func(int, names.Set)) error {
	if iterations < 1 {
		iterations = 1
	}

	for i := 1; i <= iterations; i++ {
		set := next()
		if observe != nil {
			observe(i, set)
		}
		log.Debug().
			Int("iteration", i).
			Str("namespace", set.Namespace).
			Str("table", set.Table).
			Str("renamed_table", set.RenamedTable).
			Msg("starting scenario pass")

		if err := d.Run(ctx, i, set); err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}
	}

	return nil
}
