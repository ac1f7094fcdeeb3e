package repl

import (
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/metaconv/composite"
	"github.com/ardnew/metaconv/log"
	"github.com/ardnew/metaconv/value"
)

func testModel(t *testing.T) model {
	t.Helper()

	pool := composite.Pool{}
	pool.SetValue("EXIF:ExposureTime", value.F64(0.0005))

	return newModel(t.Context(), Config{Pool: pool, Logger: log.Discard()}, NewHistory(""))
}

func press(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()

	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}

	return m
}

func typed(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func TestModel_TabCompletesFunction(t *testing.T) {
	m := press(t, testModel(t), typed("ToFlo"))

	strs := make([]string, len(m.matches))
	for i, match := range m.matches {
		strs[i] = match.Str
	}

	if !slices.Contains(strs, "ToFloat") {
		t.Fatalf("matches = %v, lack ToFloat", strs)
	}

	first := strs[0]

	m = press(t, m, key(tea.KeyTab))

	if got := m.input.Value(); got != first {
		t.Errorf("input = %q, want %q", got, first)
	}
}

func TestModel_EnterEvaluates(t *testing.T) {
	m := press(t, testModel(t), typed("1 + 2"), key(tea.KeyEnter))

	if m.history.Len() != 1 {
		t.Errorf("history = %d entries, want 1", m.history.Len())
	}

	if got := m.input.Value(); got != "" {
		t.Errorf("input = %q, want empty", got)
	}

	if m.mode != modeEval {
		t.Errorf("mode = %d, want eval", m.mode)
	}
}

func TestModel_CommandMode(t *testing.T) {
	m := press(t, testModel(t), key(tea.KeyEsc))
	if m.mode != modeCtrl {
		t.Fatalf("mode = %d after Esc, want command", m.mode)
	}

	m = press(t, m, typed("va"), key(tea.KeyTab))
	if got := m.input.Value(); got != "val" && got != "vals" {
		t.Errorf("completed %q, want val or vals", got)
	}

	if !m.tabActive {
		t.Error("two candidates did not start a cycle")
	}

	// Esc during a cycle restores the typed word.
	m = press(t, m, key(tea.KeyEsc))
	if got := m.input.Value(); got != "va" || m.mode != modeCtrl {
		t.Errorf("after Esc: input %q mode %d", got, m.mode)
	}

	m = press(t, m, key(tea.KeyCtrlC), typed("val 50"), key(tea.KeyEnter))
	if got := m.session.val.Text(); got != "50" {
		t.Errorf("$val = %q, want 50", got)
	}
}

func TestModel_HistorySwitchesMode(t *testing.T) {
	m := press(t, testModel(t),
		key(tea.KeyEsc), typed("val 7"), key(tea.KeyEnter),
		key(tea.KeyEsc),
	)

	if m.mode != modeEval {
		t.Fatalf("mode = %d, want eval", m.mode)
	}

	m = press(t, m, key(tea.KeyUp))

	if got := m.input.Value(); got != "val 7" {
		t.Errorf("recalled %q, want val 7", got)
	}

	if m.mode != modeCtrl {
		t.Errorf("mode = %d after recall, want command", m.mode)
	}

	m = press(t, m, key(tea.KeyDown))
	if got := m.input.Value(); got != "" {
		t.Errorf("input = %q past newest entry, want empty", got)
	}
}

func TestModel_Quit(t *testing.T) {
	m := press(t, testModel(t), typed("1"), key(tea.KeyCtrlC))
	if m.quitting || m.input.Value() != "" {
		t.Fatalf("Ctrl+C on text: quitting %v input %q", m.quitting, m.input.Value())
	}

	m = press(t, m, key(tea.KeyCtrlC))
	if !m.quitting {
		t.Error("Ctrl+C on empty line did not quit")
	}

	if v := m.View(); v != "" {
		t.Errorf("View() = %q after quit", v)
	}
}

func TestModel_ViewHint(t *testing.T) {
	m := testModel(t)

	if v := stripped(m.View()); !strings.Contains(v, "Type an expression") {
		t.Errorf("View() = %q, lacks eval hint", v)
	}

	m = press(t, m, key(tea.KeyEsc))

	if v := stripped(m.View()); !strings.Contains(v, "Type a command") {
		t.Errorf("View() = %q, lacks command hint", v)
	}
}
