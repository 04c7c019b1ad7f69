package agent

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
)

// DecideSubmission compares each scored listing against the candidate's
// minimum match threshold and queues the ones that clear it.
type DecideSubmission struct {
	logger *zap.Logger
}

func NewDecideSubmission(logger *zap.Logger) *DecideSubmission {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DecideSubmission{logger: logger}
}

func (d *DecideSubmission) Name() string { return "decide_submission" }

func (d *DecideSubmission) Run(ctx context.Context, state *State) (*Update, error) {
	threshold := state.Preferences.Threshold()

	seen := mapset.NewSet(state.Submitted...)
	var submitted []string
	var logs []string

	for _, listing := range state.FoundJobs {
		if listing == nil || listing.FitScore == nil {
			continue
		}

		pct := *listing.FitScore * 100
		if pct < float64(threshold) {
			logs = append(logs, fmt.Sprintf(
				"Skipped %s at %s: %.0f%% < %d%%",
				listing.Title, listing.Company, pct, threshold,
			))
			continue
		}

		if !seen.Add(listing.URL) {
			continue
		}
		submitted = append(submitted, listing.URL)
		logs = append(logs, fmt.Sprintf(
			"Ready to apply to %s at %s (%.0f%%)",
			listing.Title, listing.Company, pct,
		))
	}

	status := StatusCompleted
	if state.AutoApply {
		status = StatusApplying
	}

	return &Update{
		Status:    status,
		Submitted: submitted,
		Logs:      logs,
	}, nil
}
