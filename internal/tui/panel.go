// Package tui implements the Bubble Tea review panel.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/tmorell/revpanel/internal/review"
	"github.com/tmorell/revpanel/internal/session"
)

// focusArea tracks which pane receives key input.
type focusArea int

const (
	focusThreads focusArea = iota
	focusInput
)

// sessionChangedMsg is delivered whenever the session mutates.
type sessionChangedMsg struct{}

// Model is the top-level Bubble Tea model for the review panel.
type Model struct {
	session *session.Session
	changes <-chan struct{}
	cancel  func()

	// Snapshot of session state, refreshed on every change notification.
	threads []review.Thread
	cursor  int

	input textarea.Model
	spin  spinner.Model
	vp    viewport.Model
	md    *glamour.TermRenderer

	focus    focusArea
	width    int
	height   int
	ready    bool
	showHelp bool
}

// New creates a panel model bound to a session.
func New(s *session.Session) Model {
	ti := textarea.New()
	ti.Placeholder = "Ask about the selected code..."
	ti.ShowLineNumbers = false
	ti.SetHeight(3)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = threadHeaderStyle

	changes, cancel := s.Subscribe()

	m := Model{
		session: s,
		changes: changes,
		cancel:  cancel,
		input:   ti,
		spin:    sp,
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.spin.Tick)
}

// listen waits for the next session change notification.
func (m Model) listen() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		<-ch
		return sessionChangedMsg{}
	}
}

// refresh re-reads the session snapshot and clamps the cursor.
func (m *Model) refresh() {
	m.threads = m.session.Threads()
	if m.cursor >= len(m.threads) {
		m.cursor = len(m.threads) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.ready {
		m.vp.SetContent(m.renderConversation())
	}
}

// current returns the thread under the cursor, nil when there is none.
func (m *Model) current() *review.Thread {
	if len(m.threads) == 0 || m.cursor >= len(m.threads) {
		return nil
	}
	return &m.threads[m.cursor]
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.refresh()
		return m, nil

	case sessionChangedMsg:
		m.refresh()
		return m, m.listen()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.focus == focusInput {
		switch msg.Type {
		case tea.KeyEsc:
			m.focus = focusThreads
			m.input.Blur()
			return m, nil
		case tea.KeyEnter:
			m.submit()
			return m, nil
		case tea.KeyCtrlC:
			m.cancel()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.threads)-1 {
			m.cursor++
			m.refresh()
		}

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.refresh()
		}

	case key.Matches(msg, keys.Focus):
		// Follow-ups are disabled while a response is in flight.
		if t := m.current(); t != nil && !t.Loading {
			m.focus = focusInput
			return m, m.input.Focus()
		}

	case key.Matches(msg, keys.Collapse):
		if t := m.current(); t != nil {
			m.session.ToggleCollapsed(t.ID)
		}

	case key.Matches(msg, keys.Resolve):
		if t := m.current(); t != nil {
			m.session.Resolve(t.ID)
		}

	case key.Matches(msg, keys.Clear):
		m.session.ClearAll()

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp

	default:
		// Scrolling keys fall through to the conversation viewport.
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}

	return m, nil
}

// submit sends the input as a follow-up on the current thread.
func (m *Model) submit() {
	t := m.current()
	if t == nil || t.Loading {
		return
	}
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return
	}
	m.session.AddFollowup(t.ID, text)
	m.input.Reset()
	m.input.Blur()
	m.focus = focusThreads
}

// layout recomputes pane sizes and the markdown renderer for the current
// window size.
func (m *Model) layout() {
	listWidth := m.threadListWidth()
	convWidth := m.width - listWidth - 1
	convHeight := m.height - m.inputHeight() - 1 // status bar

	if !m.ready {
		m.vp = viewport.New(convWidth-4, convHeight-2)
	} else {
		m.vp.Width = convWidth - 4
		m.vp.Height = convHeight - 2
	}
	m.input.SetWidth(m.width - 4)

	wrap := convWidth - 6
	if wrap < 20 {
		wrap = 20
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		m.md = md
	}
}

func (m Model) inputHeight() int {
	return m.input.Height() + 2 // borders
}

func (m Model) threadListWidth() int {
	maxLen := 20
	for _, t := range m.threads {
		if l := len(t.Selection.Summary()); l > maxLen {
			maxLen = l
		}
	}
	w := maxLen + 8 // padding + markers
	if w > m.width/3 {
		w = m.width / 3
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Run starts the panel for an existing session and blocks until quit.
func Run(s *session.Session) error {
	p := tea.NewProgram(New(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
