package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trivia/internal/ui/theme"
)

// ContentWidth returns the inner width used for centred cards.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(1, 2).
		Render(content)
}

// Badges renders labels side by side, e.g. category and difficulty.
func Badges(labels ...string) string {
	out := ""
	for i, l := range labels {
		if l == "" {
			continue
		}
		if i > 0 && out != "" {
			out += " "
		}
		out += theme.Badge.Render(l)
	}
	return out
}

// ErrorBanner renders a dismissible error line.
func ErrorBanner(msg string, width int) string {
	return theme.ErrorBanner.
		Width(width).
		Render("✗ " + msg + "   (x to dismiss)")
}
