package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/jhunter/agent/internal/jobs"
)

// FitScorer scores each listing against the candidate's resume, mutating
// the listings in place. It returns the per-listing log lines of the pass;
// scoring problems are absorbed into default scores, never errors.
type FitScorer interface {
	ScoreListings(ctx context.Context, listings []*jobs.Listing, resumeSummary string, prefs jobs.Preferences) []string
}

// AnalyzeFit runs the fit-scoring pass over the jobs found by the search
// stage.
type AnalyzeFit struct {
	scorer FitScorer
	logger *zap.Logger
}

func NewAnalyzeFit(scorer FitScorer, logger *zap.Logger) *AnalyzeFit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzeFit{scorer: scorer, logger: logger}
}

func (a *AnalyzeFit) Name() string { return "analyze_fit" }

func (a *AnalyzeFit) Run(ctx context.Context, state *State) (*Update, error) {
	if len(state.FoundJobs) == 0 {
		return &Update{
			Status: StatusAnalyzing,
			Logs:   []string{"No jobs found to analyze"},
		}, nil
	}

	logs := a.scorer.ScoreListings(ctx, state.FoundJobs, state.ResumeSummary, state.Preferences)

	return &Update{
		Status: StatusAnalyzing,
		Logs:   logs,
	}, nil
}
