package help

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trivia/internal/router"
	"github.com/abhisek/trivia/internal/screen"
	"github.com/abhisek/trivia/internal/ui/components"
	"github.com/abhisek/trivia/internal/ui/layout"
	"github.com/abhisek/trivia/internal/ui/theme"
)

// HelpScreen explains the rules and key bindings.
type HelpScreen struct {
	questionTime time.Duration
	revealDelay  time.Duration
}

var _ screen.Screen = (*HelpScreen)(nil)
var _ screen.KeyHintProvider = (*HelpScreen)(nil)

func New(questionTime, revealDelay time.Duration) *HelpScreen {
	return &HelpScreen{questionTime: questionTime, revealDelay: revealDelay}
}

func (h *HelpScreen) Init() tea.Cmd { return nil }

func (h *HelpScreen) Title() string { return "How to Play" }

func (h *HelpScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (h *HelpScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "q", "enter", "?":
			return h, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return h, nil
}

func (h *HelpScreen) View(width, height int) string {
	heading := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(14)

	rows := [][2]string{
		{"Tab", "move between fields"},
		{"/", "filter categories"},
		{"a-d or 1-4", "answer a question"},
		{"↑↓ + Enter", "pick with the cursor"},
		{"Esc", "leave a running game"},
	}

	var b strings.Builder
	b.WriteString(heading.Render("Rules") + "\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf(
		"Pick a category and press Start.\n"+
			"You get %d seconds per question.\n"+
			"Running out of time counts as wrong.\n"+
			"The answer shows for %d seconds, then the\n"+
			"next question begins.",
		int(h.questionTime.Seconds()), int(h.revealDelay.Seconds()),
	)))
	b.WriteString("\n\n" + heading.Render("Keys") + "\n\n")
	for _, r := range rows {
		b.WriteString(key.Render(r[0]) + theme.Body.Render(r[1]) + "\n")
	}

	cw := components.ContentWidth(width)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.Card(b.String(), cw))
}
