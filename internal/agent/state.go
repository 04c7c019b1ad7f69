package agent

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"github.com/jhunter/agent/internal/jobs"
)

// Status tracks where a workflow run currently is.
type Status string

const (
	StatusSearching Status = "searching"
	StatusAnalyzing Status = "analyzing"
	StatusApplying  Status = "applying"
	StatusCompleted Status = "completed"
)

// State is the single mutable record threaded through all stages. One run
// owns its State exclusively; stages communicate only through partial
// Updates merged by the engine, so no locking is needed.
type State struct {
	RunID string

	ResumeText    string
	Resume        jobs.ResumeFile
	ResumeSummary string
	Skills        []string

	Preferences jobs.Preferences
	Profile     *jobs.Profile

	FoundJobs []*jobs.Listing
	Status    Status

	// Submitted holds the URLs of listings cleared for application, in
	// decision order, without duplicates. Every entry referenced a listing
	// in FoundJobs at the time it was added.
	Submitted []string

	// Logs is the append-only, user-facing audit trail of the run.
	Logs []string

	AutoApply bool
}

// NewState builds the initial state for one workflow run.
func NewState(resumeText string, resume jobs.ResumeFile, prefs jobs.Preferences, profile *jobs.Profile, autoApply bool) *State {
	return &State{
		RunID:       uuid.NewString(),
		ResumeText:  resumeText,
		Resume:      resume,
		Preferences: prefs,
		Profile:     profile,
		Status:      StatusSearching,
		AutoApply:   autoApply,
	}
}

// Update is a sparse set of field assignments produced by one stage.
//
// Merge policy: scalar and record fields overwrite when set, Logs are
// concatenated onto the existing trail, Submitted is unioned keyed by
// listing URL (first occurrence wins, order preserved).
type Update struct {
	ResumeSummary *string
	Skills        []string
	FoundJobs     []*jobs.Listing
	Status        Status
	Submitted     []string
	Logs          []string
}

func (s *State) apply(u *Update) {
	if u == nil {
		return
	}

	if u.ResumeSummary != nil {
		s.ResumeSummary = *u.ResumeSummary
	}
	if u.Skills != nil {
		s.Skills = u.Skills
	}
	if u.FoundJobs != nil {
		s.FoundJobs = u.FoundJobs
	}
	if u.Status != "" {
		s.Status = u.Status
	}

	if len(u.Submitted) > 0 {
		seen := mapset.NewSet(s.Submitted...)
		for _, url := range u.Submitted {
			if seen.Add(url) {
				s.Submitted = append(s.Submitted, url)
			}
		}
	}

	s.Logs = append(s.Logs, u.Logs...)
}
