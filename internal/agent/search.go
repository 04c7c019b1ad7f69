package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jhunter/agent/internal/jobs"
)

// Searcher finds job listings matching a query. recencyDays bounds how old
// a posting may be.
type Searcher interface {
	Search(ctx context.Context, query, location string, recencyDays int) ([]*jobs.Listing, error)
}

// SearchJobs queries the job board using the candidate's preferences.
type SearchJobs struct {
	searcher Searcher
	logger   *zap.Logger
}

func NewSearchJobs(searcher Searcher, logger *zap.Logger) *SearchJobs {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchJobs{searcher: searcher, logger: logger}
}

func (s *SearchJobs) Name() string { return "search_jobs" }

func (s *SearchJobs) Run(ctx context.Context, state *State) (*Update, error) {
	prefs := state.Preferences

	terms := []string{jobs.First(prefs.Roles, defaultTargetRole)}
	if level := jobs.First(prefs.ExperienceLevels, ""); level != "" {
		terms = append(terms, level)
	}
	if jobType := jobs.First(prefs.JobTypes, ""); jobType != "" {
		terms = append(terms, jobType)
	}
	query := strings.TrimSpace(strings.Join(terms, " "))

	location := jobs.First(prefs.Locations, "Remote")
	recencyDays := prefs.RecencyWindow()

	listings, err := s.searcher.Search(ctx, query, location, recencyDays)
	if err != nil {
		return nil, err
	}

	return &Update{
		FoundJobs: listings,
		Logs: []string{fmt.Sprintf(
			"Found %d jobs for %q in %s (last %d days)",
			len(listings), query, location, recencyDays,
		)},
	}, nil
}
