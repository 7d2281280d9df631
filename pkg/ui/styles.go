package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme holds the console styles for user-facing messages.
type Theme struct {
	Warning lipgloss.Style
	Error   lipgloss.Style
	Step    lipgloss.Style
}

// DefaultTheme returns the default console theme.
func DefaultTheme() *Theme {
	return &Theme{
		Warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E5C07B")),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		Step:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")),
	}
}

var theme = DefaultTheme()

// Styles returns the active theme.
func Styles() *Theme { return theme }

// Styled renders text with style when output goes to an interactive
// terminal, and returns it unchanged otherwise.
func Styled(style lipgloss.Style, text string) string {
	if _, ok := defaultSink.(StdoutSink); !ok {
		return text
	}
	if os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return style.Render(text)
}
