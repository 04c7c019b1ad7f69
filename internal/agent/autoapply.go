package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jhunter/agent/internal/jobs"
)

// Applier fills out the application form for one listing. It reports the
// outcome as a result value; infrastructure failures surface as a failed
// result, not an error, so one broken form never aborts the rest.
type Applier interface {
	Apply(ctx context.Context, listing *jobs.Listing, profile *jobs.Profile, resume jobs.ResumeFile) jobs.ApplyResult
}

// AutoApply walks the submission queue and drives the browser applier for
// each listing.
type AutoApply struct {
	applier Applier
	logger  *zap.Logger
}

func NewAutoApply(applier Applier, logger *zap.Logger) *AutoApply {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutoApply{applier: applier, logger: logger}
}

func (a *AutoApply) Name() string { return "auto_apply" }

func (a *AutoApply) Run(ctx context.Context, state *State) (*Update, error) {
	if reason := a.precondition(state); reason != "" {
		return &Update{
			Status: StatusCompleted,
			Logs:   []string{fmt.Sprintf("Auto-apply skipped: %s", reason)},
		}, nil
	}

	var logs []string
	for _, url := range state.Submitted {
		listing := jobs.FindByURL(state.FoundJobs, url)
		if listing == nil {
			continue
		}

		res := a.applier.Apply(ctx, listing, state.Profile, state.Resume)
		switch res.Status {
		case jobs.ApplySucceeded:
			logs = append(logs, fmt.Sprintf(
				"Filled application for %s at %s: %s",
				listing.Title, listing.Company, res.Message,
			))
		default:
			logs = append(logs, fmt.Sprintf(
				"Auto-apply failed for %s at %s: %s",
				listing.Title, listing.Company, res.Message,
			))
		}
	}

	return &Update{
		Status: StatusCompleted,
		Logs:   logs,
	}, nil
}

func (a *AutoApply) precondition(state *State) string {
	switch {
	case a.applier == nil:
		return "no browser driver configured"
	case state.Profile == nil:
		return "no applicant profile configured"
	case len(state.Submitted) == 0:
		return "no jobs cleared for submission"
	}
	return ""
}
