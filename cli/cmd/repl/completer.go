package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/metaconv/convfn"
	"github.com/ardnew/metaconv/interp"
)

// variables are the expression variables offered for completion.
var variables = []string{"$val", "@val", "$prt", "@prt", "@raw", "$$self"}

// isWordBoundary reports whether r delimits a completion word. Sigils
// and the "::" of qualified helper names are part of a word.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%', '.',
		'<', '>', '=', '!', '~', '^',
		'&', '|', ',', '?', ';', '"', '\'':
		return true
	}

	return false
}

// wordBounds returns the word around cursor and its byte offsets in
// input. The word is empty when the cursor sits between boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// functionNames returns the interpreter builtins and the qualified name
// of every helper in functions.
func functionNames(functions *convfn.Registry) []string {
	names := interp.Builtins()
	for _, h := range functions.Helpers() {
		names = append(names, convfn.HelperPrefix+h)
	}

	return names
}

// evalCandidates are the completions of an expression word.
func (s *session) evalCandidates() []string {
	return append(append([]string{}, variables...), s.functions...)
}

// ctrlCandidates are the completions of word number n of a command line
// whose first word is verb.
func (s *session) ctrlCandidates(verb string, n int) []string {
	if n == 0 {
		return commandNames()
	}

	switch verb {
	case "tag":
		return s.pool.Names()
	case "catalog":
		return s.resolver.Catalog().Names()
	case "route":
		return s.evalCandidates()
	}

	return nil
}

// computeMatches ranks the candidates for the word at the cursor. An
// empty word has no matches, which leaves the hint line visible.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, start, end := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, start, end
	}

	var candidates []string

	if m.mode == modeCtrl {
		before := strings.Fields(input[:start])

		verb := word
		if len(before) > 0 {
			verb = before[0]
		}

		candidates = m.session.ctrlCandidates(verb, len(before))
	} else {
		candidates = m.session.evalCandidates()
	}

	return fuzzy.Find(word, candidates), start, end
}

// renderCandidateBar renders the completion bar on one line of at most
// width cells, ending in an ellipsis when candidates are left out.
func renderCandidateBar(matches fuzzy.Matches, suggIdx int, tabActive bool, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	room := width - lipgloss.Width(ellipsis)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += len(sep)
		}

		last := i == len(matches)-1
		if i > 0 && ((!last && used+w > room) || (last && used+w > width)) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, highlight = selectedStyle, selectedStyle.Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		matched[i] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
