package browser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/jhunter/agent/internal/ai"
	"github.com/jhunter/agent/internal/jobs"
)

// FieldMapping holds the CSS selectors the model matched to each known
// application field. Empty selectors mean the page has no such field.
type FieldMapping struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Linkedin     string `json:"linkedin"`
	Portfolio    string `json:"portfolio"`
	CoverLetter  string `json:"cover_letter"`
	ResumeUpload string `json:"resume_upload"`
	SubmitButton string `json:"submit_button"`
}

const mappingSystemPrompt = `You are a form-analysis assistant. You receive a JSON list of the form controls visible on a job application page. Match them to these application fields and answer with JSON only:
{"first_name": "<css selector or empty>", "last_name": "", "email": "", "phone": "", "linkedin": "", "portfolio": "", "cover_letter": "", "resume_upload": "", "submit_button": ""}
Use the element's id as "#id" or its name as "tag[name=\"...\"]". Leave a field empty when no control matches. No prose outside the JSON.`

func parseMapping(raw string) (*FieldMapping, error) {
	var mapping FieldMapping
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &mapping); err != nil {
		return nil, fmt.Errorf("parse field mapping: %w", err)
	}
	return &mapping, nil
}

// formPage is the slice of the page API that form filling needs. The files
// parameter is untyped to match the page's method signature; this driver
// always passes []playwright.InputFile.
type formPage interface {
	Fill(selector string, value string, options ...playwright.PageFillOptions) error
	SetInputFiles(selector string, files interface{}, options ...playwright.PageSetInputFilesOptions) error
}

// fillForm enters the candidate's details into the mapped fields and
// attaches the resume. It returns the number of fields filled. The submit
// button is deliberately never clicked; submission stays with the human.
func fillForm(page formPage, mapping *FieldMapping, profile *jobs.Profile, resume jobs.ResumeFile, coverLetter string) (int, error) {
	values := []struct {
		selector string
		value    string
	}{
		{mapping.FirstName, profile.FirstName},
		{mapping.LastName, profile.LastName},
		{mapping.Email, profile.Email},
		{mapping.Phone, profile.Phone},
		{mapping.Linkedin, profile.LinkedinURL},
		{mapping.Portfolio, profile.PortfolioURL},
		{mapping.CoverLetter, coverLetter},
	}

	filled := 0
	for _, field := range values {
		selector := strings.TrimSpace(field.selector)
		if selector == "" || strings.TrimSpace(field.value) == "" {
			continue
		}
		if err := page.Fill(selector, field.value); err != nil {
			return filled, fmt.Errorf("fill %s: %w", selector, err)
		}
		filled++
	}

	if selector := strings.TrimSpace(mapping.ResumeUpload); selector != "" && len(resume.Content) > 0 {
		file := playwright.InputFile{
			Name:     resume.Filename,
			MimeType: mimeTypeFor(resume.Filename),
			Buffer:   resume.Content,
		}
		if err := page.SetInputFiles(selector, []playwright.InputFile{file}); err != nil {
			return filled, fmt.Errorf("attach resume to %s: %w", selector, err)
		}
		filled++
	}

	return filled, nil
}

func mimeTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(strings.ToLower(filename), ".md"):
		return "text/markdown"
	default:
		return "text/plain"
	}
}
