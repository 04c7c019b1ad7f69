package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Stage is one step of the application workflow. Run inspects the current
// state and returns a partial update; it must not mutate the state directly.
// A returned error is recorded in the run's log trail and the workflow moves
// on, so stages reserve errors for failures the remaining pipeline can
// survive.
type Stage interface {
	Name() string
	Run(ctx context.Context, state *State) (*Update, error)
}

// Engine drives a workflow run through its stages in a fixed order:
// resume parsing, job search, fit analysis, submission decision, and,
// when enabled and there is something to apply to, browser auto-apply.
type Engine struct {
	parse     Stage
	search    Stage
	analyze   Stage
	decide    Stage
	autoApply Stage

	logger *zap.Logger
}

func NewEngine(parse, search, analyze, decide, autoApply Stage, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		parse:     parse,
		search:    search,
		analyze:   analyze,
		decide:    decide,
		autoApply: autoApply,
		logger:    logger,
	}
}

// Run executes the full pipeline on the given state and returns it. A stage
// failure is logged into the state and the run continues; the returned state
// always ends up completed.
func (e *Engine) Run(ctx context.Context, state *State) *State {
	e.logger.Info("starting workflow run", zap.String("run_id", state.RunID))

	e.runStage(ctx, e.parse, state)
	e.runStage(ctx, e.search, state)
	e.runStage(ctx, e.analyze, state)
	e.runStage(ctx, e.decide, state)

	if state.AutoApply && len(state.Submitted) > 0 && e.autoApply != nil {
		e.runStage(ctx, e.autoApply, state)
	}

	state.Status = StatusCompleted

	e.logger.Info("workflow run finished",
		zap.String("run_id", state.RunID),
		zap.Int("jobs_found", len(state.FoundJobs)),
		zap.Int("submitted", len(state.Submitted)),
	)

	return state
}

func (e *Engine) runStage(ctx context.Context, stage Stage, state *State) {
	if stage == nil {
		return
	}

	update, err := stage.Run(ctx, state)
	if err != nil {
		e.logger.Warn("stage failed",
			zap.String("stage", stage.Name()),
			zap.Error(err),
		)
		state.apply(&Update{Logs: []string{fmt.Sprintf("%s failed: %v", stage.Name(), err)}})
	}

	state.apply(update)
}
