// Package results shows the final score and a per-question review.
package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trivia/internal/game"
	"github.com/abhisek/trivia/internal/screen"
	"github.com/abhisek/trivia/internal/trivia"
	"github.com/abhisek/trivia/internal/ui/components"
	"github.com/abhisek/trivia/internal/ui/layout"
	"github.com/abhisek/trivia/internal/ui/theme"
)

// reviewRows is how many review entries fit on screen at once.
const reviewRows = 5

// ResultsScreen displays the summary of a finished game.
type ResultsScreen struct {
	ctrl    *game.Controller
	summary trivia.Summary
	menu    components.Menu
	offset  int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New snapshots the controller's summary. The controller must be in results.
func New(ctrl *game.Controller) *ResultsScreen {
	sum, _ := ctrl.Summary()
	s := &ResultsScreen{ctrl: ctrl, summary: sum}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Play again", Action: s.replay},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return s
}

func (s *ResultsScreen) replay() tea.Cmd {
	_ = s.ctrl.Replay()
	return nil
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Confirm"},
		{Key: "[ ]", Description: "Scroll review"},
		{Key: "Esc", Description: "New game"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "esc":
		return s, s.replay()
	case "[":
		if s.offset > 0 {
			s.offset--
		}
		return s, nil
	case "]":
		if s.offset < len(s.summary.Review)-reviewRows {
			s.offset++
		}
		return s, nil
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ResultsScreen) View(width, height int) string {
	sum := s.summary
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Game over!"))
	b.WriteString("\n\n")

	score := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(sum.ScoreLine())
	b.WriteString(fmt.Sprintf("%s %s   %s",
		theme.Label.Render("Score"), score,
		theme.Body.Render(fmt.Sprintf("%d%%", sum.Percent))))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(trivia.Verdict(sum.Percent)))
	if sum.Duration > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Finished in %d:%02d",
			int(sum.Duration.Minutes()), int(sum.Duration.Seconds())%60)))
	}
	b.WriteString("\n\n")

	if len(sum.Review) > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Review"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw-10)))
		b.WriteString("\n")
		b.WriteString(s.renderReview(cw - 10))
		b.WriteString("\n")
	}

	b.WriteString(s.menu.View())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.Card(b.String(), cw))
}

func (s *ResultsScreen) renderReview(w int) string {
	review := s.summary.Review
	end := min(s.offset+reviewRows, len(review))

	var b strings.Builder
	for i := s.offset; i < end; i++ {
		rec := review[i]
		mark := theme.Correct.Render("✓")
		if !rec.Correct {
			mark = theme.Incorrect.Render("✗")
		}
		prompt := lipgloss.NewStyle().Foreground(theme.Text).MaxWidth(w - 6).
			Render(fmt.Sprintf("%d. %s", i+1, rec.Question.Prompt))
		b.WriteString(mark + " " + prompt + "\n")

		answer := rec.Selected
		if rec.TimedOut() {
			answer = "(no answer)"
		}
		line := "   You: " + answer
		if !rec.Correct {
			line += "   Answer: " + rec.Question.CorrectAnswer
		}
		b.WriteString(theme.Hint.MaxWidth(w).Render(line) + "\n")
	}
	if len(review) > reviewRows {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%d-%d of %d", s.offset+1, end, len(review))))
		b.WriteString("\n")
	}
	return b.String()
}
