package ai

import (
	"math"
	"testing"
)

func TestExtractJSONStripsFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"score": 1}`, `{"score": 1}`},
		{"fenced", "```json\n{\"score\": 1}\n```", `{"score": 1}`},
		{"fenced without language", "```\n{\"score\": 1}\n```", `{"score": 1}`},
		{"surrounding whitespace", "  \n{\"score\": 1}\n ", `{"score": 1}`},
		{"stray backticks", "`{\"score\": 1}`", `{"score": 1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSON(tc.in); got != tc.want {
				t.Fatalf("ExtractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCoerceFloat(t *testing.T) {
	if got := CoerceFloat(85.0); got != 85.0 {
		t.Fatalf("expected 85.0, got %v", got)
	}

	if got := CoerceFloat("0.85"); got != 0.85 {
		t.Fatalf("expected 0.85, got %v", got)
	}

	if got := CoerceFloat("85%"); got != 85 {
		t.Fatalf("expected percent suffix to be tolerated, got %v", got)
	}

	if got := CoerceFloat("high"); !math.IsNaN(got) {
		t.Fatalf("expected NaN for unparsable value, got %v", got)
	}

	if got := CoerceFloat(nil); !math.IsNaN(got) {
		t.Fatalf("expected NaN for nil, got %v", got)
	}
}

func TestCoerceStringSlice(t *testing.T) {
	got := CoerceStringSlice([]any{"Go", " Python ", "", 42})
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %v", got)
	}
	if got[0] != "Go" || got[1] != "Python" || got[2] != "42" {
		t.Fatalf("unexpected entries: %v", got)
	}

	if got := CoerceStringSlice("solo"); len(got) != 1 || got[0] != "solo" {
		t.Fatalf("expected scalar to become single-entry list, got %v", got)
	}

	if got := CoerceStringSlice(nil); len(got) != 0 {
		t.Fatalf("expected empty list for nil, got %v", got)
	}
}
