package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jhunter/agent/internal/jobs"
)

// Filter represents a single filtering step applied to job listings.
type Filter interface {
	Name() string
	Apply(listings []*jobs.Listing) (kept []*jobs.Listing, dropped []string, err error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the supplied filters sequentially and returns the surviving
// listings.
func Run(listings []*jobs.Listing, steps []Filter, logger *zap.Logger) ([]*jobs.Listing, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		initial := len(listings)

		kept, dropped, err := step.Apply(listings)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", initial),
			zap.Int("dropped", len(dropped)),
			zap.Int("left", len(kept)),
		)
		if len(dropped) > 0 {
			logger.Debug("dropped listings",
				zap.String("name", step.Name()),
				zap.Strings("urls", dropped),
			)
		}

		listings = kept
	}

	return listings, nil
}

// Searcher mirrors the search contract of the workflow so a filtered
// searcher can stand in for the raw client.
type Searcher interface {
	Search(ctx context.Context, query, location string, recencyDays int) ([]*jobs.Listing, error)
}

// FilteredSearcher wraps a Searcher and runs the filter pipeline over every
// result set.
type FilteredSearcher struct {
	inner  Searcher
	steps  []Filter
	logger *zap.Logger
}

func NewFilteredSearcher(inner Searcher, steps []Filter, logger *zap.Logger) *FilteredSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilteredSearcher{inner: inner, steps: steps, logger: logger}
}

func (s *FilteredSearcher) Search(ctx context.Context, query, location string, recencyDays int) ([]*jobs.Listing, error) {
	listings, err := s.inner.Search(ctx, query, location, recencyDays)
	if err != nil {
		return nil, err
	}

	return Run(listings, s.steps, s.logger)
}
