package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jhunter/agent/internal/ai"
	"github.com/jhunter/agent/internal/jobs"
)

const (
	// maxResumeRunes caps the amount of resume text sent to the model.
	maxResumeRunes = 5000

	noResumeSummary     = "No resume content provided."
	failedResumeSummary = "Resume analysis failed."

	defaultTargetRole = "Software Engineer"
)

const resumeSystemPrompt = `You are a resume analyst. Read the resume text and respond with JSON only:
{"summary": "<2-3 sentence professional summary>", "skills": ["<skill>", ...]}
List the candidate's strongest, most marketable skills first. No prose outside the JSON.`

// ParseResume summarizes the candidate's resume and extracts a skill list.
// It never fails the run: missing or unusable resume text degrades to a
// placeholder summary and an empty skill list.
type ParseResume struct {
	ai     ai.Client
	logger *zap.Logger
}

func NewParseResume(client ai.Client, logger *zap.Logger) *ParseResume {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParseResume{ai: client, logger: logger}
}

func (p *ParseResume) Name() string { return "parse_resume" }

func (p *ParseResume) Run(ctx context.Context, state *State) (*Update, error) {
	text := strings.TrimSpace(state.ResumeText)
	if text == "" {
		summary := noResumeSummary
		return &Update{
			ResumeSummary: &summary,
			Skills:        []string{},
			Logs:          []string{"Resume is empty, skipping analysis"},
		}, nil
	}

	if runes := []rune(text); len(runes) > maxResumeRunes {
		runes = runes[:maxResumeRunes]
		text = string(runes)
	}

	targetRole := jobs.First(state.Preferences.Roles, defaultTargetRole)

	raw, err := p.ai.Complete(ctx, ai.Request{
		System: resumeSystemPrompt,
		User:   fmt.Sprintf("Target role: %s\n\n%s", targetRole, text),
	})
	if err != nil {
		summary := failedResumeSummary
		return &Update{
			ResumeSummary: &summary,
			Skills:        []string{},
			Logs:          []string{fmt.Sprintf("Resume analysis failed: %v", err)},
		}, nil
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &data); err != nil {
		p.logger.Debug("unparsable resume analysis", zap.String("response", raw))
		summary := failedResumeSummary
		return &Update{
			ResumeSummary: &summary,
			Skills:        []string{},
			Logs:          []string{"Resume analysis returned an unparsable response"},
		}, nil
	}

	summary := ai.CoerceString(data["summary"])
	if summary == "" {
		summary = failedResumeSummary
	}
	skills := ai.CoerceStringSlice(data["skills"])

	return &Update{
		ResumeSummary: &summary,
		Skills:        skills,
		Logs:          []string{fmt.Sprintf("Parsed resume: %d skills identified", len(skills))},
	}, nil
}
