package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmorell/revpanel/internal/review"
	"github.com/tmorell/revpanel/internal/session"
)

// Sessions here have no model client, so every request completes
// synchronously with an error comment and the model state is deterministic.
func setupModel(t *testing.T, questions ...string) (Model, *session.Session) {
	t.Helper()
	s := session.New(session.Options{})
	for i, q := range questions {
		sel := review.CodeSelection{
			FilePath:     "main.go",
			Language:     "Go",
			SelectedText: "func main() {}",
			Context:      "package main\n\nfunc main() {}",
			Lines:        review.LineRange{Start: 3 + i, End: 4 + i},
		}
		s.Request(sel, q)
	}

	m := New(s)
	newM, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return newM.(Model), s
}

func keyPress(t *testing.T, m Model, r rune) Model {
	t.Helper()
	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return newM.(Model)
}

func TestModelInit(t *testing.T) {
	m, _ := setupModel(t, "first", "second")

	if m.cursor != 0 {
		t.Errorf("expected cursor 0, got %d", m.cursor)
	}
	if len(m.threads) != 2 {
		t.Errorf("expected 2 threads, got %d", len(m.threads))
	}
	if !m.ready {
		t.Error("expected model ready after window size")
	}
}

func TestNavigation(t *testing.T) {
	m, _ := setupModel(t, "first", "second")

	m = keyPress(t, m, 'j')
	if m.cursor != 1 {
		t.Errorf("expected cursor 1 after down, got %d", m.cursor)
	}

	// Past end — should stay
	m = keyPress(t, m, 'j')
	if m.cursor != 1 {
		t.Errorf("expected cursor 1 at end, got %d", m.cursor)
	}

	m = keyPress(t, m, 'k')
	if m.cursor != 0 {
		t.Errorf("expected cursor 0 after up, got %d", m.cursor)
	}

	m = keyPress(t, m, 'k')
	if m.cursor != 0 {
		t.Errorf("expected cursor 0 at top, got %d", m.cursor)
	}
}

func TestResolveKey(t *testing.T) {
	m, s := setupModel(t, "first")

	keyPress(t, m, 'r')
	threads := s.Threads()
	if !threads[0].Resolved {
		t.Error("expected thread resolved after r")
	}
}

func TestCollapseKey(t *testing.T) {
	m, s := setupModel(t, "first")

	keyPress(t, m, 'c')
	if !s.Threads()[0].Collapsed {
		t.Error("expected thread collapsed after c")
	}
}

func TestClearKey(t *testing.T) {
	m, s := setupModel(t, "first", "second")

	m = keyPress(t, m, 'x')
	if len(s.Threads()) != 0 {
		t.Error("expected session cleared after x")
	}

	newM, _ := m.Update(sessionChangedMsg{})
	m = newM.(Model)
	if len(m.threads) != 0 {
		t.Error("expected model threads cleared after refresh")
	}
	if m.cursor != 0 {
		t.Errorf("expected cursor reset, got %d", m.cursor)
	}
}

func TestFocusInput(t *testing.T) {
	m, _ := setupModel(t, "first")

	m = keyPress(t, m, 'i')
	if m.focus != focusInput {
		t.Error("expected input focus after i on a settled thread")
	}

	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = newM.(Model)
	if m.focus != focusThreads {
		t.Error("expected thread focus after esc")
	}
}

func TestSubmitFollowup(t *testing.T) {
	m, s := setupModel(t, "first")

	m = keyPress(t, m, 'i')
	m.input.SetValue("what about nil?")
	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = newM.(Model)

	th := s.Threads()[0]
	if len(th.Comments) != 4 {
		t.Errorf("expected 4 comments after follow-up, got %d", len(th.Comments))
	}
	if m.focus != focusThreads {
		t.Error("expected focus back on threads after submit")
	}
}

func TestSubmitEmptyIgnored(t *testing.T) {
	m, s := setupModel(t, "first")

	m = keyPress(t, m, 'i')
	m.input.SetValue("   ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if len(s.Threads()[0].Comments) != 2 {
		t.Error("whitespace-only follow-up should be ignored")
	}
}

func TestViewRenders(t *testing.T) {
	m, _ := setupModel(t, "first")

	view := m.View()
	if view == "" {
		t.Fatal("expected non-empty view")
	}
	if !strings.Contains(view, "main.go:3-4") {
		t.Error("expected view to contain the thread summary")
	}
	if !strings.Contains(view, "thread(s)") {
		t.Error("expected status bar in view")
	}
}

func TestViewEmptyState(t *testing.T) {
	m, _ := setupModel(t)

	view := m.View()
	if !strings.Contains(view, "No reviews yet") {
		t.Error("expected empty state in thread list")
	}
	if !strings.Contains(view, "AI Code Review") {
		t.Error("expected empty state banner")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := setupModel(t, "first")

	m = keyPress(t, m, '?')
	if !m.showHelp {
		t.Error("expected help shown")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("expected help view to contain shortcuts")
	}

	m = keyPress(t, m, '?')
	if m.showHelp {
		t.Error("expected help hidden after second toggle")
	}
}

func TestQuitCancelsSubscription(t *testing.T) {
	m, _ := setupModel(t, "first")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("expected tea.Quit, got %v", msg)
	}
}

func TestConversationCollapsed(t *testing.T) {
	m, s := setupModel(t, "first")

	s.ToggleCollapsed(s.Threads()[0].ID)
	newM, _ := m.Update(sessionChangedMsg{})
	m = newM.(Model)

	if !strings.Contains(m.renderConversation(), "collapsed") {
		t.Error("expected collapsed placeholder in conversation")
	}
}
