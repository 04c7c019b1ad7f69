package agent

import (
	"testing"

	"github.com/jhunter/agent/internal/jobs"
)

func TestApplyOverwritesScalars(t *testing.T) {
	state := NewState("resume", jobs.ResumeFile{}, jobs.Preferences{}, nil, false)
	state.ResumeSummary = "old summary"
	state.Status = StatusSearching

	summary := "new summary"
	state.apply(&Update{
		ResumeSummary: &summary,
		Skills:        []string{"Go"},
		Status:        StatusAnalyzing,
	})

	if state.ResumeSummary != "new summary" {
		t.Fatalf("expected summary overwrite, got %q", state.ResumeSummary)
	}
	if len(state.Skills) != 1 || state.Skills[0] != "Go" {
		t.Fatalf("unexpected skills: %v", state.Skills)
	}
	if state.Status != StatusAnalyzing {
		t.Fatalf("expected status %q, got %q", StatusAnalyzing, state.Status)
	}
}

func TestApplyLeavesUnsetFieldsAlone(t *testing.T) {
	state := NewState("resume", jobs.ResumeFile{}, jobs.Preferences{}, nil, false)
	state.ResumeSummary = "kept"
	state.Skills = []string{"Go"}
	state.Status = StatusAnalyzing

	state.apply(&Update{Logs: []string{"a log line"}})

	if state.ResumeSummary != "kept" {
		t.Fatalf("summary should be untouched, got %q", state.ResumeSummary)
	}
	if len(state.Skills) != 1 {
		t.Fatalf("skills should be untouched, got %v", state.Skills)
	}
	if state.Status != StatusAnalyzing {
		t.Fatalf("status should be untouched, got %q", state.Status)
	}
}

func TestApplyAppendsLogs(t *testing.T) {
	state := NewState("resume", jobs.ResumeFile{}, jobs.Preferences{}, nil, false)

	state.apply(&Update{Logs: []string{"first"}})
	state.apply(&Update{Logs: []string{"second", "third"}})

	if len(state.Logs) != 3 {
		t.Fatalf("expected 3 log entries, got %v", state.Logs)
	}
	if state.Logs[0] != "first" || state.Logs[2] != "third" {
		t.Fatalf("log order broken: %v", state.Logs)
	}
}

func TestApplyUnionsSubmitted(t *testing.T) {
	state := NewState("resume", jobs.ResumeFile{}, jobs.Preferences{}, nil, false)
	state.Submitted = []string{"https://a.example/1"}

	state.apply(&Update{Submitted: []string{
		"https://a.example/1",
		"https://a.example/2",
		"https://a.example/2",
	}})

	if len(state.Submitted) != 2 {
		t.Fatalf("expected deduplicated union, got %v", state.Submitted)
	}
	if state.Submitted[0] != "https://a.example/1" || state.Submitted[1] != "https://a.example/2" {
		t.Fatalf("order not preserved: %v", state.Submitted)
	}
}

func TestApplyNilUpdateIsNoop(t *testing.T) {
	state := NewState("resume", jobs.ResumeFile{}, jobs.Preferences{}, nil, false)
	state.Logs = []string{"only"}

	state.apply(nil)

	if len(state.Logs) != 1 {
		t.Fatalf("nil update must not change state, got %v", state.Logs)
	}
}

func TestNewStateAssignsRunID(t *testing.T) {
	a := NewState("", jobs.ResumeFile{}, jobs.Preferences{}, nil, false)
	b := NewState("", jobs.ResumeFile{}, jobs.Preferences{}, nil, false)

	if a.RunID == "" {
		t.Fatal("expected a run id")
	}
	if a.RunID == b.RunID {
		t.Fatalf("run ids must be unique, both %q", a.RunID)
	}
	if a.Status != StatusSearching {
		t.Fatalf("new state must start searching, got %q", a.Status)
	}
}
