package play

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/trivia/internal/game"
	"github.com/abhisek/trivia/internal/ui/components"
	"github.com/abhisek/trivia/internal/ui/theme"
)

func (s *PlayScreen) View(width, height int) string {
	if s.presenter == nil {
		return ""
	}
	cw := components.ContentWidth(width)
	q := s.presenter.Question()

	var b strings.Builder
	b.WriteString(components.Badges(q.Category, string(q.Difficulty)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(cw - 10).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Prompt))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())
	b.WriteString("\n")

	if s.presenter.Revealed() {
		b.WriteString(s.renderFeedback())
	} else {
		secs := int(s.presenter.Remaining().Seconds())
		b.WriteString(components.NewCountdownBar(secs, s.presenter.Fraction(), variantColor(s.presenter.Variant()), cw-10).View())
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.Card(b.String(), cw))
}

func (s *PlayScreen) renderFeedback() string {
	ev := s.presenter.Event()
	q := s.presenter.Question()

	var b strings.Builder
	switch {
	case ev.Correct:
		b.WriteString(theme.Correct.Render("Correct!"))
	case ev.Selected == "":
		b.WriteString(theme.Incorrect.Render("Time's up!"))
	default:
		b.WriteString(theme.Incorrect.Render("Incorrect!"))
	}
	if !ev.Correct {
		b.WriteString("\n")
		b.WriteString(theme.Body.Render("The correct answer was: "))
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(q.CorrectAnswer))
	}
	b.WriteString("\n\n")

	secs := int(s.ctrl.RevealDelay().Seconds())
	next := fmt.Sprintf("Next question in %d seconds...", secs)
	if sess := s.ctrl.Session(); sess != nil && s.presenter.Index() == sess.Total()-1 {
		next = fmt.Sprintf("Results in %d seconds...", secs)
	}
	b.WriteString(theme.Hint.Render(next))
	return b.String()
}

func variantColor(v game.TimeVariant) color.Color {
	switch v {
	case game.TimeWarn:
		return theme.Warning
	case game.TimeDanger:
		return theme.Error
	default:
		return theme.Success
	}
}
