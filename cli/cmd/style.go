package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ardnew/metaconv/pkg"
)

// Styles.
var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	builtStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// numbers formats counts with digit grouping.
var numbers = message.NewPrinter(language.English)

// maxSuggestions bounds "did you mean" candidates.
const maxSuggestions = 3

// suggest returns the candidates that best match name.
func suggest(name string, candidates []string) []string {
	matches := fuzzy.Find(name, candidates)

	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches[:min(len(matches), maxSuggestions)] {
		out = append(out, m.Str)
	}

	return out
}

// unknown returns err for name, with suggestions from candidates.
func unknown(err *pkg.Error, name string, candidates []string) error {
	err = err.With(slog.String("name", name))

	if s := suggest(name, candidates); len(s) > 0 {
		err = err.With(slog.String("suggest", strings.Join(s, ", ")))
	}

	return err
}

// writer accumulates the first write error.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) printf(format string, args ...any) {
	if w.err == nil {
		_, w.err = fmt.Fprintf(w.w, format, args...)
	}
}

func (w *writer) println(s ...string) {
	w.printf("%s\n", strings.Join(s, " "))
}

// heading writes a styled section title.
func (w *writer) heading(title string) {
	w.println(headingStyle.Render(title))
}

// field writes one indented "name: text" line.
func (w *writer) field(name, text string, style lipgloss.Style) {
	w.printf("  %s %s\n", nameStyle.Render(name+":"), style.Render(text))
}

// count writes one indented label and grouped count.
func (w *writer) count(label string, n int) {
	w.printf("  %s %s\n", hintStyle.Render(label+":"), numbers.Sprintf("%d", n))
}
