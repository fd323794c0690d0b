package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tmorell/revpanel/internal/review"
)

// Color palette.
var (
	colorRed       = lipgloss.Color("#ff5555")
	colorGreen     = lipgloss.Color("#50fa7b")
	colorYellow    = lipgloss.Color("#f1fa8c")
	colorBlue      = lipgloss.Color("#8be9fd")
	colorPurple    = lipgloss.Color("#bd93f9")
	colorDim       = lipgloss.Color("#6272a4")
	colorBgLight   = lipgloss.Color("#343746")
	colorFg        = lipgloss.Color("#f8f8f2")
	colorOrange    = lipgloss.Color("#ffb86c")
	colorBorder    = lipgloss.Color("#44475a")
	colorHighlight = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	// Thread list styles
	threadListStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	threadItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	threadItemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Background(colorHighlight).
				Bold(true)

	threadItemResolvedStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	// Conversation pane styles
	conversationStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder).
				Padding(0, 1)

	threadHeaderStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Bold(true)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	aiLabelStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	severityLabelStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	commentBodyStyle = lipgloss.NewStyle().
				Foreground(colorFg)

	suggestionHeaderStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				Italic(true)

	suggestionBlockStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(colorBorder).
				PaddingLeft(1)

	// Input area
	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	inputFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPurple)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1)

	// Help
	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	emptyStateStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(1, 2)
)

// severityColor maps a thread's latest verdict to its accent color.
func severityColor(sev review.Severity, ok bool) lipgloss.Color {
	if !ok {
		return colorDim
	}
	switch sev {
	case review.SeverityError:
		return colorRed
	case review.SeverityWarning:
		return colorOrange
	case review.SeveritySuggestion:
		return colorBlue
	default:
		return colorDim
	}
}
