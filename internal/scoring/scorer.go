package scoring

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/jhunter/agent/internal/ai"
	"github.com/jhunter/agent/internal/jobs"
	"github.com/jhunter/agent/internal/logger"
)

//go:embed prompt.md
var systemPrompt string

const (
	// defaultScore stands in for any listing the model could not score.
	defaultScore = 0.5

	maxLogLen = 300
)

// Scorer grades job listings against a candidate summary using one model
// request per listing, dispatched as a batch.
type Scorer struct {
	ai     ai.Client
	logger *zap.Logger
}

func New(client ai.Client, log *zap.Logger) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scorer{ai: client, logger: log}
}

// ScoreListings assigns a fit score, explanation and optional cover letter
// to every listing, in place. Listings the model fails on get the default
// score so the decision stage always has a number to work with. The
// returned lines describe each outcome in submission order.
func (s *Scorer) ScoreListings(ctx context.Context, listings []*jobs.Listing, resumeSummary string, prefs jobs.Preferences) []string {
	if len(listings) == 0 {
		return nil
	}

	reqs := make([]ai.Request, len(listings))
	for i, listing := range listings {
		reqs[i] = ai.Request{
			System: systemPrompt,
			User:   buildPrompt(listing, resumeSummary, prefs),
		}
	}

	results, err := s.ai.CompleteBatch(ctx, reqs)
	if err == nil && len(results) != len(listings) {
		err = fmt.Errorf("batch returned %d of %d results", len(results), len(listings))
	}
	if err != nil {
		for _, listing := range listings {
			if listing.FitScore == nil {
				score := defaultScore
				listing.FitScore = &score
			}
		}
		return []string{fmt.Sprintf("Fit scoring failed for all %d jobs: %v", len(listings), err)}
	}

	logs := make([]string, 0, len(listings))
	for i, listing := range listings {
		res := results[i]
		if res.Err != nil {
			score := defaultScore
			listing.FitScore = &score
			logs = append(logs, fmt.Sprintf(
				"Fit scoring failed for %s at %s: %v", listing.Title, listing.Company, res.Err,
			))
			continue
		}

		score, explanation, coverLetter := s.parseAssessment(res.Text)
		listing.FitScore = &score
		listing.Explanation = explanation
		listing.CoverLetter = coverLetter

		logs = append(logs, fmt.Sprintf(
			"Scored %s at %s: %.0f%%", listing.Title, listing.Company, score*100,
		))
	}

	return logs
}

func buildPrompt(listing *jobs.Listing, resumeSummary string, prefs jobs.Preferences) string {
	var b strings.Builder

	b.WriteString("## Candidate\n\n")
	b.WriteString(resumeSummary)
	b.WriteString("\n\n")

	if criteria := criteriaLine(prefs); criteria != "" {
		b.WriteString("## Preferences\n\n")
		b.WriteString(criteria)
		b.WriteString("\n\n")
	}

	b.WriteString("## Job Posting\n\n")
	fmt.Fprintf(&b, "Title: %s\nCompany: %s\nLocation: %s\n\n%s\n",
		listing.Title, listing.Company, listing.Location, listing.Description)

	return b.String()
}

func criteriaLine(prefs jobs.Preferences) string {
	var parts []string
	if len(prefs.Roles) > 0 {
		parts = append(parts, "Target roles: "+strings.Join(prefs.Roles, ", "))
	}
	if len(prefs.ExperienceLevels) > 0 {
		parts = append(parts, "Experience: "+strings.Join(prefs.ExperienceLevels, ", "))
	}
	if len(prefs.JobTypes) > 0 {
		parts = append(parts, "Job types: "+strings.Join(prefs.JobTypes, ", "))
	}
	if len(prefs.Locations) > 0 {
		parts = append(parts, "Locations: "+strings.Join(prefs.Locations, ", "))
	}
	return strings.Join(parts, ". ")
}

func (s *Scorer) parseAssessment(raw string) (score float64, explanation, coverLetter string) {
	var data map[string]any
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &data); err != nil {
		s.logger.Debug("unparsable fit assessment",
			zap.String("response", logger.TruncateForLog(raw, maxLogLen)),
		)
		return defaultScore, "", ""
	}

	return normalizeScore(ai.CoerceFloat(data["score"])),
		ai.CoerceString(data["explanation"]),
		ai.CoerceString(data["cover_letter"])
}

// normalizeScore maps whatever the model produced onto [0, 1]. Values above
// 1 are read as percentages; anything unusable becomes the default score.
func normalizeScore(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return defaultScore
	}
	if v > 1.0 {
		v /= 100
	}
	return math.Min(math.Max(v, 0), 1)
}
