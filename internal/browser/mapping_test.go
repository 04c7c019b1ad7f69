package browser

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"

	"github.com/jhunter/agent/internal/jobs"
)

// The live page must be usable wherever the fill helpers expect a form page.
var _ formPage = (playwright.Page)(nil)

type fakePage struct {
	fills   map[string]string
	uploads map[string][]playwright.InputFile
	fillErr error
}

func newFakePage() *fakePage {
	return &fakePage{
		fills:   make(map[string]string),
		uploads: make(map[string][]playwright.InputFile),
	}
}

func (f *fakePage) Fill(selector, value string, _ ...playwright.PageFillOptions) error {
	if f.fillErr != nil {
		return f.fillErr
	}
	f.fills[selector] = value
	return nil
}

func (f *fakePage) SetInputFiles(selector string, files interface{}, _ ...playwright.PageSetInputFilesOptions) error {
	typed, ok := files.([]playwright.InputFile)
	if !ok {
		return fmt.Errorf("unexpected files payload %T", files)
	}
	f.uploads[selector] = typed
	return nil
}

func testProfile() *jobs.Profile {
	return &jobs.Profile{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		Phone:       "+1 555 0100",
		LinkedinURL: "https://linkedin.com/in/ada",
	}
}

func TestFillFormFillsMappedFields(t *testing.T) {
	page := newFakePage()
	mapping := &FieldMapping{
		FirstName:    "#first",
		LastName:     "#last",
		Email:        `input[name="email"]`,
		CoverLetter:  "#cover",
		SubmitButton: "#submit",
	}

	resume := jobs.ResumeFile{Content: []byte("resume body"), Filename: "resume.txt"}
	filled, err := fillForm(page, mapping, testProfile(), resume, "Dear team,")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filled != 4 {
		t.Fatalf("expected 4 filled fields, got %d", filled)
	}
	if page.fills["#first"] != "Ada" || page.fills["#last"] != "Lovelace" {
		t.Fatalf("unexpected fills: %v", page.fills)
	}
	if page.fills["#cover"] != "Dear team," {
		t.Fatalf("cover letter not filled: %v", page.fills)
	}
	if _, clicked := page.fills["#submit"]; clicked {
		t.Fatal("submit button must never be touched")
	}
}

func TestFillFormSkipsEmptyValues(t *testing.T) {
	page := newFakePage()
	mapping := &FieldMapping{
		FirstName: "#first",
		Portfolio: "#portfolio",
	}

	profile := testProfile()
	profile.PortfolioURL = ""

	filled, err := fillForm(page, mapping, profile, jobs.ResumeFile{}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filled != 1 {
		t.Fatalf("expected only the first name filled, got %d", filled)
	}
	if _, ok := page.fills["#portfolio"]; ok {
		t.Fatal("empty profile values must not be written")
	}
}

func TestFillFormAttachesResumeBuffer(t *testing.T) {
	page := newFakePage()
	mapping := &FieldMapping{ResumeUpload: `input[type="file"]`}

	resume := jobs.ResumeFile{Content: []byte("%PDF-1.4"), Filename: "resume.pdf"}
	filled, err := fillForm(page, mapping, testProfile(), resume, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filled != 1 {
		t.Fatalf("expected the upload counted, got %d", filled)
	}
	files := page.uploads[`input[type="file"]`]
	if len(files) != 1 {
		t.Fatalf("expected one attached file, got %v", files)
	}
	if files[0].Name != "resume.pdf" || files[0].MimeType != "application/pdf" {
		t.Fatalf("unexpected file metadata: %+v", files[0])
	}
	if string(files[0].Buffer) != "%PDF-1.4" {
		t.Fatal("resume content must be attached untouched")
	}
}

func TestFillFormStopsOnFillError(t *testing.T) {
	page := newFakePage()
	page.fillErr = errors.New("element detached")
	mapping := &FieldMapping{FirstName: "#first"}

	if _, err := fillForm(page, mapping, testProfile(), jobs.ResumeFile{}, ""); err == nil {
		t.Fatal("expected the fill error to surface")
	}
}

func TestParseMappingToleratesFences(t *testing.T) {
	raw := "```json\n{\"first_name\": \"#fn\", \"email\": \"input[name=\\\"email\\\"]\", \"unknown_key\": \"#x\"}\n```"
	mapping, err := parseMapping(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mapping.FirstName != "#fn" {
		t.Fatalf("unexpected mapping: %+v", mapping)
	}
	if mapping.SubmitButton != "" {
		t.Fatalf("missing keys must stay empty, got %q", mapping.SubmitButton)
	}
}

func TestParseMappingRejectsProse(t *testing.T) {
	if _, err := parseMapping("I could not find a form on this page."); err == nil {
		t.Fatal("expected an error for a prose response")
	}
}

func TestSnapshotScriptBoundsElementCount(t *testing.T) {
	want := fmt.Sprintf(".slice(0, %d)", maxSnapshotElements)
	if !strings.Contains(snapshotScript, want) {
		t.Fatalf("script must cap the snapshot at %d elements:\n%s", maxSnapshotElements, snapshotScript)
	}
	if strings.Contains(snapshotScript, "%d") {
		t.Fatal("script must not carry unexpanded format verbs")
	}
}

func TestDecodeSnapshotCapsElements(t *testing.T) {
	raw := make([]any, 0, maxSnapshotElements+10)
	for i := 0; i < maxSnapshotElements+10; i++ {
		raw = append(raw, map[string]any{"tag": "input", "name": "field"})
	}

	elements, err := decodeSnapshot(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elements) != maxSnapshotElements {
		t.Fatalf("expected cap at %d elements, got %d", maxSnapshotElements, len(elements))
	}
}
