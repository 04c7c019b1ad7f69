package resume

import (
	"errors"
	"testing"
)

func TestExtractTextPlainFormats(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		content  string
		want     string
	}{
		{"txt", "resume.txt", "  Jane Doe\nGo engineer\n", "Jane Doe\nGo engineer"},
		{"markdown", "resume.md", "# Jane Doe", "# Jane Doe"},
		{"no extension", "resume", "plain body", "plain body"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractText([]byte(tc.content), tc.filename)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ExtractText = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractTextRejectsBinaryFormats(t *testing.T) {
	_, err := ExtractText([]byte("%PDF-1.4"), "resume.pdf")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractTextRejectsInvalidUTF8(t *testing.T) {
	_, err := ExtractText([]byte{0xff, 0xfe, 0x00}, "resume.txt")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
