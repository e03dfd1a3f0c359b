package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/trivia/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label   string
	Percent float64
	Width   int
	Fill    color.Color

	// Suffix is shown after the bar, e.g. "12s". Empty shows nothing.
	Suffix string
}

// NewProgressBar creates a bar filled with the secondary colour.
func NewProgressBar(label string, percent float64, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: percent,
		Width:   width,
		Fill:    theme.Secondary,
	}
}

// NewCountdownBar creates a bar for a question timer.
func NewCountdownBar(remaining int, fraction float64, fill color.Color, width int) ProgressBar {
	return ProgressBar{
		Label:   "Time",
		Percent: fraction,
		Width:   width,
		Fill:    fill,
		Suffix:  fmt.Sprintf("%2ds", remaining),
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	suffix := ""
	if p.Suffix != "" {
		suffix = "  " + lipgloss.NewStyle().Foreground(p.Fill).Bold(true).Render(p.Suffix)
	}

	barWidth := p.Width - lipgloss.Width(result) - lipgloss.Width(suffix)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	filled = max(0, min(filled, barWidth))
	empty := barWidth - filled

	result += lipgloss.NewStyle().Background(p.Fill).Render(strings.Repeat(" ", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat(" ", empty))
	return result + suffix
}
