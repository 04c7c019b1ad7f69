package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jhunter/agent/internal/jobs"
)

type stubStage struct {
	name   string
	update *Update
	err    error
	calls  int
}

func (s *stubStage) Name() string { return s.name }

func (s *stubStage) Run(context.Context, *State) (*Update, error) {
	s.calls++
	return s.update, s.err
}

func floatPtr(v float64) *float64 { return &v }

func newTestEngine(parse, search, analyze, decide, autoApply Stage) *Engine {
	return NewEngine(parse, search, analyze, decide, autoApply, nil)
}

func TestEngineContinuesPastStageFailure(t *testing.T) {
	parse := &stubStage{name: "parse_resume", err: errors.New("model unavailable")}
	search := &stubStage{name: "search_jobs", update: &Update{Logs: []string{"searched"}}}
	analyze := &stubStage{name: "analyze_fit"}
	decide := &stubStage{name: "decide_submission"}

	state := NewState("resume", jobs.ResumeFile{}, jobs.Preferences{}, nil, false)
	final := newTestEngine(parse, search, analyze, decide, nil).Run(context.Background(), state)

	if search.calls != 1 || analyze.calls != 1 || decide.calls != 1 {
		t.Fatal("later stages must still run after a failure")
	}

	failures := 0
	for _, line := range final.Logs {
		if strings.Contains(line, "parse_resume failed: model unavailable") {
			failures++
		}
	}
	if failures != 1 {
		t.Fatalf("expected exactly one failure log, got %v", final.Logs)
	}

	if final.Status != StatusCompleted {
		t.Fatalf("run must end completed, got %q", final.Status)
	}
}

func TestEngineSkipsAutoApplyWhenDisabled(t *testing.T) {
	decide := &stubStage{name: "decide_submission", update: &Update{
		Submitted: []string{"https://jobs.example/1"},
	}}
	autoApply := &stubStage{name: "auto_apply"}

	state := NewState("resume", jobs.ResumeFile{}, jobs.Preferences{}, nil, false)
	newTestEngine(&stubStage{name: "parse_resume"}, &stubStage{name: "search_jobs"},
		&stubStage{name: "analyze_fit"}, decide, autoApply).Run(context.Background(), state)

	if autoApply.calls != 0 {
		t.Fatal("auto-apply must not run when disabled")
	}
}

func TestEngineSkipsAutoApplyWithoutSubmissions(t *testing.T) {
	autoApply := &stubStage{name: "auto_apply"}

	state := NewState("resume", jobs.ResumeFile{}, jobs.Preferences{}, nil, true)
	newTestEngine(&stubStage{name: "parse_resume"}, &stubStage{name: "search_jobs"},
		&stubStage{name: "analyze_fit"}, &stubStage{name: "decide_submission"}, autoApply).
		Run(context.Background(), state)

	if autoApply.calls != 0 {
		t.Fatal("auto-apply must not run with an empty submission queue")
	}
}

func TestEngineRunsAutoApplyWhenEligible(t *testing.T) {
	decide := &stubStage{name: "decide_submission", update: &Update{
		Submitted: []string{"https://jobs.example/1"},
	}}
	autoApply := &stubStage{name: "auto_apply", update: &Update{Logs: []string{"applied"}}}

	state := NewState("resume", jobs.ResumeFile{}, jobs.Preferences{}, nil, true)
	final := newTestEngine(&stubStage{name: "parse_resume"}, &stubStage{name: "search_jobs"},
		&stubStage{name: "analyze_fit"}, decide, autoApply).Run(context.Background(), state)

	if autoApply.calls != 1 {
		t.Fatal("auto-apply must run when enabled with submissions")
	}
	if final.Status != StatusCompleted {
		t.Fatalf("run must end completed, got %q", final.Status)
	}
}

// A full dry run: two listings cross the threshold, auto-apply is off, and
// the run ends with the queue populated but no browser activity.
func TestEngineDryRunPipeline(t *testing.T) {
	listings := []*jobs.Listing{
		{Title: "Backend Engineer", Company: "Acme", URL: "https://jobs.example/1", FitScore: floatPtr(0.9)},
		{Title: "SRE", Company: "Globex", URL: "https://jobs.example/2", FitScore: floatPtr(0.4)},
		{Title: "Platform Engineer", Company: "Initech", URL: "https://jobs.example/3", FitScore: floatPtr(0.75)},
	}

	summary := "Experienced engineer."
	parse := &stubStage{name: "parse_resume", update: &Update{ResumeSummary: &summary, Skills: []string{"Go"}}}
	search := &stubStage{name: "search_jobs", update: &Update{FoundJobs: listings}}
	analyze := &stubStage{name: "analyze_fit", update: &Update{Status: StatusAnalyzing}}
	autoApply := &stubStage{name: "auto_apply"}

	state := NewState("resume text", jobs.ResumeFile{}, jobs.Preferences{MinMatchScore: 70}, nil, false)
	final := newTestEngine(parse, search, analyze, NewDecideSubmission(nil), autoApply).
		Run(context.Background(), state)

	if len(final.Submitted) != 2 {
		t.Fatalf("expected 2 submissions, got %v", final.Submitted)
	}
	if final.Submitted[0] != "https://jobs.example/1" || final.Submitted[1] != "https://jobs.example/3" {
		t.Fatalf("unexpected submission order: %v", final.Submitted)
	}
	if autoApply.calls != 0 {
		t.Fatal("dry run must not reach the browser")
	}
	if final.Status != StatusCompleted {
		t.Fatalf("run must end completed, got %q", final.Status)
	}
}
