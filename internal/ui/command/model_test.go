package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeText(m Model, s string) Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func TestSuggestionsAndTabCompletion(t *testing.T) {
	m := New([]string{"clear completed", "clear filters", "current trip", "stats"}, 80, 24)

	if got := len(m.Suggestions()); got != 4 {
		t.Fatalf("empty input should suggest everything, got %d", got)
	}

	m = typeText(m, "cl")
	if got := m.Suggestions(); len(got) != 2 || got[0] != "clear completed" {
		t.Fatalf("unexpected suggestions %v", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	if got := cmd(); got != CommandMsg("clear completed") {
		t.Fatalf("got %v", got)
	}
}

func TestEnterOnBlankDoesNothing(t *testing.T) {
	m := New(nil, 80, 24)
	m = typeText(m, "   ")
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatal("blank input should not emit a command")
	}
}
