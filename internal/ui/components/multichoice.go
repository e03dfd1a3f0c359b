package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trivia/internal/ui/theme"
)

// OptionLabels are the letters shown in front of each option.
var OptionLabels = []string{"A", "B", "C", "D"}

// MultiChoice is an answer selector. It does not know the correct answer
// until Reveal is called.
type MultiChoice struct {
	Options  []string
	Selected int

	revealed bool
	chosen   int
	correct  int
}

// NewMultiChoice creates a selector with the cursor on the first option.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options, chosen: -1, correct: -1}
}

// Update moves the cursor and reports a pick. Letters a-d, digits 1-4 and
// enter on the cursor all pick. Nothing is picked after Reveal.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, int, bool) {
	if m.revealed {
		return m, -1, false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, -1, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
		return m, -1, false
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
		return m, -1, false
	case "enter":
		if len(m.Options) == 0 {
			return m, -1, false
		}
		return m, m.Selected, true
	}

	if i, ok := pickIndex(key, len(m.Options)); ok {
		m.Selected = i
		return m, i, true
	}
	return m, -1, false
}

func pickIndex(key string, n int) (int, bool) {
	if len(key) != 1 {
		return -1, false
	}
	var i int
	switch c := key[0]; {
	case c >= 'a' && c <= 'd':
		i = int(c - 'a')
	case c >= '1' && c <= '4':
		i = int(c - '1')
	default:
		return -1, false
	}
	if i >= n {
		return -1, false
	}
	return i, true
}

// Reveal freezes the selector and colours the chosen and correct options.
// chosen is -1 when time ran out.
func (m MultiChoice) Reveal(chosen, correct int) MultiChoice {
	m.revealed = true
	m.chosen = chosen
	m.correct = correct
	return m
}

// Revealed reports whether Reveal has been called.
func (m MultiChoice) Revealed() bool {
	return m.revealed
}

// View renders one option per line.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		label := fmt.Sprintf("%d", i+1)
		if i < len(OptionLabels) {
			label = OptionLabels[i]
		}
		prefix := "  "
		if i == m.Selected && !m.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		var style lipgloss.Style
		switch {
		case m.revealed && i == m.correct:
			style = theme.Correct
			line += "  ✓"
		case m.revealed && i == m.chosen:
			style = theme.Incorrect
			line += "  ✗"
		case m.revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
