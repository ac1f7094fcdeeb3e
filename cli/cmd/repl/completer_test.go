package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/metaconv/log"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "sprintf", 7, "sprintf", 0, 7},
		{"variable", "$val * 2", 4, "$val", 0, 4},
		{"qualified", "Image::ExifTool::Exif::Pri", 26, "Image::ExifTool::Exif::Pri", 0, 26},
		{"after_paren", "int($va", 7, "$va", 4, 7},
		{"after_comma", `sprintf("%d", $v`, 16, "$v", 14, 16},
		{"self_before_brace", "$$self{Make}", 6, "$$self", 0, 6},
		{"index", "$val[1]", 4, "$val", 0, 4},
		{"mid_word", "defined", 3, "defined", 0, 7},
		{"empty_at_boundary", "$val + ", 7, "", 7, 7},
		{"after_minus", "2-ab", 4, "ab", 2, 4},
		{"cursor_past_end", "abs", 9, "abs", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestSession_Candidates(t *testing.T) {
	s := newSession(Config{Logger: log.Discard()})

	eval := s.evalCandidates()
	for _, want := range []string{"$val", "@val", "sprintf", "Image::ExifTool::Exif::PrintExposureTime"} {
		if !slices.Contains(eval, want) {
			t.Errorf("evalCandidates() lacks %q", want)
		}
	}

	if got := s.ctrlCandidates("", 0); !slices.Equal(got, commandNames()) {
		t.Errorf("ctrlCandidates(0) = %v", got)
	}

	if got := s.ctrlCandidates("catalog", 1); !slices.Contains(got, "ShutterSpeed") {
		t.Errorf("ctrlCandidates(catalog) lacks ShutterSpeed: %v", got)
	}

	if got := s.ctrlCandidates("val", 1); got != nil {
		t.Errorf("ctrlCandidates(val) = %v, want none", got)
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Find("a", []string{"abs", "atan2", "alpha", "area", "java", "lambda"})

	if got := renderCandidateBar(nil, -1, false, 80); got != "" {
		t.Errorf("renderCandidateBar(nil) = %q", got)
	}

	wide := renderCandidateBar(matches, -1, false, 80)
	for _, m := range matches {
		if !strings.Contains(stripped(wide), m.Str) {
			t.Errorf("bar lacks %q: %q", m.Str, stripped(wide))
		}
	}

	narrow := stripped(renderCandidateBar(matches, -1, false, 12))
	if !strings.HasSuffix(narrow, "...") {
		t.Errorf("narrow bar not ellipsized: %q", narrow)
	}
}

// stripped drops ANSI escape sequences.
func stripped(s string) string {
	var (
		b   strings.Builder
		esc bool
	)

	for _, r := range s {
		switch {
		case r == '\x1b':
			esc = true
		case esc && r == 'm':
			esc = false
		case !esc:
			b.WriteRune(r)
		}
	}

	return b.String()
}
