package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestIsTooSmall(t *testing.T) {
	assert.False(t, IsTooSmall(80, 24))
	assert.True(t, IsTooSmall(79, 24))
	assert.True(t, IsTooSmall(80, 23))
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Question 2 of 10", "1/10", 100)
	assert.Contains(t, h, "Trivia")
	assert.Contains(t, h, "Question 2 of 10")
	assert.Contains(t, h, "★ 1/10")

	assert.NotContains(t, RenderHeader("Setup", "", 100), "★")
}

func TestRenderFooter(t *testing.T) {
	f := RenderFooter([]KeyHint{{Key: "Esc", Description: "Quit"}, {Key: "Enter", Description: "Select"}}, 90)
	assert.Contains(t, f, "Esc")
	assert.Contains(t, f, "Select")
}

func TestRenderFrameHeight(t *testing.T) {
	header := RenderHeader("t", "", 80)
	footer := RenderFooter(nil, 80)
	frame := RenderFrame(header, "body", footer, 80, 30)
	assert.Equal(t, 30, lipgloss.Height(frame))
	assert.True(t, strings.Contains(frame, "body"))
}
