package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tmorell/revpanel/internal/review"
	"github.com/tmorell/revpanel/internal/source"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	listWidth := m.threadListWidth()
	convWidth := m.width - listWidth - 1

	convHeight := m.height - m.inputHeight() - 1
	list := m.renderThreadList(listWidth, convHeight)
	conv := m.renderConversationPane(convWidth, convHeight)

	main := lipgloss.JoinHorizontal(lipgloss.Top, list, " ", conv)

	inputBox := inputStyle
	if m.focus == focusInput {
		inputBox = inputFocusedStyle
	}
	input := inputBox.Width(m.width - 2).Render(m.input.View())

	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, main, input, statusBar)
}

func (m Model) renderThreadList(width, height int) string {
	if len(m.threads) == 0 {
		return threadListStyle.Width(width).Height(height - 2).
			Render(emptyStateStyle.Render("No reviews yet"))
	}

	var b strings.Builder
	for i, t := range m.threads {
		b.WriteString(m.renderThreadItem(t, i == m.cursor, width-4))
		if i < len(m.threads)-1 {
			b.WriteByte('\n')
		}
	}

	return threadListStyle.Width(width).Height(height - 2).Render(b.String())
}

func (m Model) renderThreadItem(t review.Thread, selected bool, width int) string {
	chevron := "▾"
	if t.Collapsed {
		chevron = "▸"
	}

	marker := " "
	if t.Loading {
		marker = m.spin.View()
	} else if t.Resolved {
		marker = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	}

	sev, ok := t.LastSeverity()
	accent := lipgloss.NewStyle().Foreground(severityColor(sev, ok)).Render("▌")

	label := t.Selection.Summary()
	maxLabel := width - 6
	if maxLabel > 0 && len(label) > maxLabel {
		label = "…" + label[len(label)-maxLabel+1:]
	}

	style := threadItemStyle
	if selected {
		style = threadItemSelectedStyle
	} else if t.Resolved {
		style = threadItemResolvedStyle
	}

	return accent + style.Width(width-2).Render(fmt.Sprintf("%s %s %s", chevron, label, marker))
}

func (m Model) renderConversationPane(width, height int) string {
	if len(m.threads) == 0 {
		return conversationStyle.Width(width).Height(height - 2).Render(m.renderEmptyState())
	}

	t := m.current()

	header := threadHeaderStyle.Render(t.Selection.Summary())
	if t.Selection.Language != "" {
		header += severityLabelStyle.Render("  " + t.Selection.Language)
	}
	if t.Resolved {
		header += lipgloss.NewStyle().Foreground(colorGreen).Render("  resolved")
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	b.WriteString(m.vp.View())

	return conversationStyle.Width(width).Height(height - 2).Render(b.String())
}

// renderConversation produces the scrollable conversation content for the
// current thread.
func (m Model) renderConversation() string {
	t := m.current()
	if t == nil {
		return ""
	}

	if t.Collapsed {
		return emptyStateStyle.Render(fmt.Sprintf("%d comment(s) collapsed", len(t.Comments)))
	}

	var b strings.Builder
	for i, c := range t.Comments {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.renderComment(*t, c))
		b.WriteByte('\n')
	}

	if t.Loading {
		b.WriteByte('\n')
		b.WriteString(m.spin.View())
		b.WriteString(severityLabelStyle.Render(" waiting for review..."))
		b.WriteByte('\n')
	}

	return b.String()
}

func (m Model) renderComment(t review.Thread, c review.Comment) string {
	var b strings.Builder

	if c.Role == review.RoleUser {
		b.WriteString(userLabelStyle.Render("You"))
	} else {
		b.WriteString(aiLabelStyle.Render("AI"))
		if c.Severity != nil {
			sev := *c.Severity
			label := lipgloss.NewStyle().Foreground(severityColor(sev, true)).Render(sev.Label())
			b.WriteString("  " + label)
		}
	}
	b.WriteByte('\n')

	b.WriteString(m.renderBody(c))

	if c.SuggestedCode != "" {
		b.WriteByte('\n')
		b.WriteString(suggestionHeaderStyle.Render("Suggested code:"))
		b.WriteByte('\n')
		b.WriteString(suggestionBlockStyle.Render(highlightCode(t.Selection.FilePath, c.SuggestedCode)))
	}

	return b.String()
}

// renderBody renders a comment body. Assistant markdown goes through
// glamour; user text and render failures stay plain.
func (m Model) renderBody(c review.Comment) string {
	if c.Role == review.RoleAssistant && m.md != nil {
		if out, err := m.md.Render(c.Content); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return commentBodyStyle.Render(strings.TrimRight(c.Content, "\n"))
}

// highlightCode applies chroma highlighting to a suggested code block,
// using the thread's file to pick a lexer.
func highlightCode(filename, code string) string {
	lines := strings.Split(strings.TrimRight(code, "\n"), "\n")
	highlighted := source.HighlightLines(filename, lines)

	var b strings.Builder
	for i, hl := range highlighted {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, tok := range hl.Tokens {
			if tok.Color != "" {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(tok.Text))
			} else {
				b.WriteString(tok.Text)
			}
		}
	}
	return b.String()
}

func (m Model) renderEmptyState() string {
	var b strings.Builder
	b.WriteString(threadHeaderStyle.Render("AI Code Review"))
	b.WriteString("\n\n")
	b.WriteString(emptyStateStyle.Render(
		"Run `revpanel review` with a file selection or a diff\nto get AI-powered feedback."))
	return b.String()
}

func (m Model) renderStatusBar() string {
	loading := 0
	for _, t := range m.threads {
		if t.Loading {
			loading++
		}
	}

	left := fmt.Sprintf(" %d thread(s)", len(m.threads))
	if len(m.threads) > 0 {
		left += fmt.Sprintf("  #%d/%d", m.cursor+1, len(m.threads))
	}
	if loading > 0 {
		left += fmt.Sprintf("  %d in flight", loading)
	}

	right := "i ask  r resolve  c collapse  x clear  ? help  q quit "

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(threadHeaderStyle.Render("revpanel — Keyboard Shortcuts"))
	b.WriteString("\n\n")

	helpItems := []struct{ key, desc string }{
		{"↑/k", "Previous thread"},
		{"↓/j", "Next thread"},
		{"i/Enter", "Ask a follow-up on this thread"},
		{"r", "Resolve thread"},
		{"c", "Collapse/expand thread"},
		{"x", "Clear all threads"},
		{"PgUp/PgDn", "Scroll conversation"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}

	for _, item := range helpItems {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Width(12).Render(item.key),
			item.desc,
		))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}
