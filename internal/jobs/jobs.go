package jobs

import "strings"

// Listing is one discovered job posting. The URL acts as the listing
// identifier for the whole run: submission tracking, persistence and
// auto-apply all key on it.
type Listing struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Source      string   `json:"source,omitempty"`
	FitScore    *float64 `json:"fit_score,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	CoverLetter string   `json:"cover_letter,omitempty"`
}

// FindByURL returns the listing with the given URL, or nil.
func FindByURL(listings []*Listing, url string) *Listing {
	for _, listing := range listings {
		if listing != nil && listing.URL == url {
			return listing
		}
	}
	return nil
}

const (
	// DefaultMinMatchScore is the submission threshold, in percent, used
	// when preferences do not set one.
	DefaultMinMatchScore = 70
	// DefaultRecencyDays bounds the age of listings returned by the search
	// collaborator when preferences do not set a window.
	DefaultRecencyDays = 7
)

// Preferences describes what the candidate is looking for. The ordered
// lists are consulted first-entry-first when building search queries.
type Preferences struct {
	Roles            []string
	Locations        []string
	ExperienceLevels []string
	JobTypes         []string
	MinMatchScore    int
	RecencyDays      int
}

// Threshold returns the minimum match percentage required for submission.
func (p Preferences) Threshold() int {
	if p.MinMatchScore <= 0 {
		return DefaultMinMatchScore
	}
	return p.MinMatchScore
}

// RecencyWindow returns the listing age bound in days.
func (p Preferences) RecencyWindow() int {
	if p.RecencyDays <= 0 {
		return DefaultRecencyDays
	}
	return p.RecencyDays
}

// First returns the first non-empty entry of the list, or the fallback.
func First(values []string, fallback string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return fallback
}

// Profile carries the candidate data used to fill application forms. The
// core treats it as immutable input owned by the caller.
type Profile struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	LinkedinURL     string `json:"linkedin_url,omitempty"`
	PortfolioURL    string `json:"portfolio_url,omitempty"`
	YearsExperience int    `json:"years_experience,omitempty"`
}

// ResumeFile is the raw uploaded resume, kept in memory so the auto-apply
// driver can attach it to upload controls.
type ResumeFile struct {
	Content  []byte
	Filename string
}

// ApplyStatus is the outcome of one auto-apply attempt.
type ApplyStatus string

const (
	ApplySucceeded ApplyStatus = "success"
	ApplyFailed    ApplyStatus = "failed"
)

// ApplyResult reports one listing's auto-apply attempt. A failed attempt
// never aborts the run; it is surfaced through the workflow log.
type ApplyResult struct {
	Status  ApplyStatus
	Message string
}

// Application is the persistence record written once per submitted listing
// after a run completes.
type Application struct {
	JobTitle    string
	Company     string
	JobURL      string
	FitScore    float64
	Explanation string
	CoverLetter string
	Status      string
}
