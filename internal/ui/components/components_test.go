package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/trivia/internal/ui/theme"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestMultiChoicePickKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.Msg
		want int
		ok   bool
	}{
		{"letter a", keyPress('a'), 0, true},
		{"letter d", keyPress('d'), 3, true},
		{"digit 2", keyPress('2'), 1, true},
		{"digit out of range", keyPress('5'), -1, false},
		{"other letter", keyPress('z'), -1, false},
		{"enter picks cursor", specialKey(tea.KeyEnter), 0, true},
		{"not a key", "tick", -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMultiChoice([]string{"w", "x", "y", "z"})
			_, got, ok := m.Update(tt.msg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMultiChoiceBooleanRejectsC(t *testing.T) {
	m := NewMultiChoice([]string{"True", "False"})
	_, _, ok := m.Update(keyPress('c'))
	assert.False(t, ok)
	_, _, ok = m.Update(keyPress('3'))
	assert.False(t, ok)
}

func TestMultiChoiceNavigation(t *testing.T) {
	m := NewMultiChoice([]string{"w", "x", "y"})
	m, _, _ = m.Update(specialKey(tea.KeyUp))
	assert.Equal(t, 0, m.Selected)

	m, _, _ = m.Update(specialKey(tea.KeyDown))
	m, _, _ = m.Update(keyPress('j'))
	m, _, _ = m.Update(specialKey(tea.KeyDown))
	assert.Equal(t, 2, m.Selected)

	_, got, ok := m.Update(specialKey(tea.KeyEnter))
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestMultiChoiceRevealFreezes(t *testing.T) {
	m := NewMultiChoice([]string{"w", "x"}).Reveal(1, 0)
	assert.True(t, m.Revealed())

	_, _, ok := m.Update(keyPress('a'))
	assert.False(t, ok)

	view := m.View()
	assert.Contains(t, view, "A)  w  ✓")
	assert.Contains(t, view, "B)  x  ✗")
	assert.NotContains(t, view, "▸")
}

func TestMultiChoiceViewLabels(t *testing.T) {
	view := NewMultiChoice([]string{"Paris", "Rome", "Oslo", "Bern"}).View()
	for _, want := range []string{"▸ A)  Paris", "B)  Rome", "C)  Oslo", "D)  Bern"} {
		assert.Contains(t, view, want)
	}
}

func TestProgressBarWidth(t *testing.T) {
	bar := NewCountdownBar(12, 0.4, theme.Warning, 50).View()
	assert.Contains(t, bar, "Time")
	assert.Contains(t, bar, "12s")
	assert.Equal(t, 50, len([]rune(stripped(bar))))
}

func TestProgressBarClamps(t *testing.T) {
	over := NewProgressBar("", 1.5, 10).View()
	under := NewProgressBar("", -1, 10).View()
	assert.Equal(t, 10, len([]rune(stripped(over))))
	assert.Equal(t, 10, len([]rune(stripped(under))))
}

func TestMenuSkipsDisabled(t *testing.T) {
	pressed := ""
	m := NewMenu([]MenuItem{
		{Label: "Off", Disabled: true},
		{Label: "Again", Action: func() tea.Cmd { pressed = "again"; return nil }},
		{Label: "Quit", Hint: "ctrl+c"},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(specialKey(tea.KeyUp))
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(specialKey(tea.KeyEnter))
	assert.Equal(t, "again", pressed)

	m, _ = m.Update(specialKey(tea.KeyDown))
	assert.Equal(t, 2, m.Selected)
	assert.Contains(t, m.View(), "ctrl+c")
}

func TestButton(t *testing.T) {
	fired := false
	b := NewButton("Start", false, func() tea.Cmd { fired = true; return nil })
	b, _ = b.Update(specialKey(tea.KeyEnter))
	assert.False(t, fired)

	b.Active = true
	_, _ = b.Update(specialKey(tea.KeyEnter))
	assert.True(t, fired)
	assert.Contains(t, b.View(), "▸ Start")
}

func TestBadgesAndBanner(t *testing.T) {
	badges := Badges("Geography", "", "hard")
	assert.Contains(t, badges, "Geography")
	assert.Contains(t, badges, "hard")
	assert.Contains(t, ErrorBanner("Please select a category", 60), "x to dismiss")
}

func TestTextInput(t *testing.T) {
	ti := NewTextInput("filter", 20)
	assert.False(t, ti.Focused())
	ti.Focus()
	assert.True(t, ti.Focused())

	ti, _ = ti.Update(keyPress('g'))
	ti, _ = ti.Update(keyPress('e'))
	assert.Equal(t, "ge", ti.Value())

	ti.Reset()
	assert.Equal(t, "", ti.Value())
}

// stripped drops ANSI escape sequences.
func stripped(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
