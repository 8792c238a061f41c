package planner

import (
	"context"
	"fmt"
	"time"

	"globetrotter/internal/logging"
)

// StepFunc advances the planning state. It must treat st as read-only and
// return a modified copy.
type StepFunc func(ctx context.Context, st State) (State, error)

// Step is a named stage of the pipeline.
type Step struct {
	Name string
	Run  StepFunc
}

// Pipeline executes steps in a fixed order. There is no branching; steps
// that cannot produce their data degrade by leaving their State fields
// empty instead of returning an error.
type Pipeline struct {
	steps []Step
}

// NewPipeline builds a pipeline from steps, run in the given order.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run threads st through every step, logging each step's duration. The
// first step error aborts the run and returns the last good state.
func (p *Pipeline) Run(ctx context.Context, st State) (State, error) {
	logger := logging.WithRun(st.RunID, st.ConversationID, st.UserID)
	total := time.Now()

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return st, fmt.Errorf("planner: pipeline canceled before %s: %w", step.Name, err)
		}

		start := time.Now()
		next, err := step.Run(ctx, st)
		if err != nil {
			logging.WithStep(logger, step.Name).Error("step failed",
				"error", err,
				"duration", time.Since(start).Round(time.Millisecond))
			return st, fmt.Errorf("planner: step %s: %w", step.Name, err)
		}
		logging.WithStep(logger, step.Name).Debug("step completed",
			"duration", time.Since(start).Round(time.Millisecond))
		st = next
	}

	logger.Info("pipeline completed",
		"steps", len(p.steps),
		"destination", st.Slots.Destination,
		"duration", time.Since(total).Round(time.Millisecond))
	return st, nil
}
