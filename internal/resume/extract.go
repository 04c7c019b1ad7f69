package resume

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedFormat marks resume files whose format cannot be read as
// plain text.
var ErrUnsupportedFormat = errors.New("unsupported resume format")

// ExtractText pulls the plain text out of a resume file. Plain-text and
// markdown resumes are returned as is; binary formats are rejected so the
// caller can tell the user to convert them.
func ExtractText(content []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case "", ".txt", ".md", ".markdown":
		if !utf8.Valid(content) {
			return "", fmt.Errorf("%w: %s is not valid utf-8 text", ErrUnsupportedFormat, filename)
		}
		return strings.TrimSpace(string(content)), nil
	default:
		return "", fmt.Errorf("%w: %s (convert it to .txt or .md)", ErrUnsupportedFormat, ext)
	}
}
