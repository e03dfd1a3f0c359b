package setup

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/trivia/internal/trivia"
	"github.com/abhisek/trivia/internal/ui/components"
	"github.com/abhisek/trivia/internal/ui/theme"
)

func (s *SetupScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	settings := s.ctrl.Settings()

	var b strings.Builder
	b.WriteString(s.renderCategories(settings, cw))
	b.WriteString("\n")
	b.WriteString(s.renderSelector(fieldDifficulty, "Difficulty", string(settings.Difficulty)))
	b.WriteString(s.renderSelector(fieldAmount, "Questions", fmt.Sprintf("%d", settings.Amount)))
	b.WriteString(s.renderSelector(fieldType, "Type", settings.Type.Label()))
	b.WriteString("\n")

	switch {
	case s.ctrl.Loading():
		b.WriteString(theme.Hint.Render("Loading questions..."))
	default:
		b.WriteString(s.start.View())
	}

	body := components.Card(b.String(), cw)
	if msg := s.ctrl.Err(); msg != "" {
		body = components.ErrorBanner(msg, cw) + "\n" + body
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *SetupScreen) renderCategories(settings trivia.Settings, cw int) string {
	var b strings.Builder

	label := theme.Label.Render("Category")
	if s.focus == fieldCategory {
		label = theme.Label.Foreground(theme.Primary).Bold(true).Render("Category")
	}
	chosen := s.ctrl.CategoryName(settings.Category)
	if chosen == "" {
		chosen = theme.Hint.Render("none selected")
	} else {
		chosen = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(chosen)
	}
	b.WriteString(label + chosen + "\n")

	if !s.ctrl.CategoriesReady() {
		b.WriteString(theme.Hint.Render("Loading categories...") + "\n")
		return b.String()
	}
	if len(s.ctrl.Categories()) == 0 {
		b.WriteString(theme.Hint.Render("No categories available. Press r to retry.") + "\n")
		return b.String()
	}

	if s.filter.Focused() || s.filter.Value() != "" {
		b.WriteString(s.filter.View() + "\n")
	}

	visible := s.visibleCategories()
	if len(visible) == 0 {
		b.WriteString(theme.Hint.Render("No categories match the filter.") + "\n")
		return b.String()
	}

	first := max(0, min(s.cursor-listRows/2, len(visible)-listRows))
	last := min(len(visible), first+listRows)
	for i := first; i < last; i++ {
		c := visible[i]
		line := "    " + c.Name
		style := theme.Unselected
		if i == s.cursor && s.focus == fieldCategory {
			line = "  ▸ " + c.Name
			style = theme.Selected
		}
		if c.Key() == settings.Category {
			line += "  ✓"
		}
		b.WriteString(style.MaxWidth(cw - 6).Render(line))
		b.WriteString("\n")
	}
	if len(visible) > listRows {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("    %d of %d", s.cursor+1, len(visible))) + "\n")
	}
	return b.String()
}

func (s *SetupScreen) renderSelector(f field, name, value string) string {
	label := theme.Label.Render(name)
	val := theme.Unselected.Render("  " + value + "  ")
	if s.focus == f {
		label = theme.Label.Foreground(theme.Primary).Bold(true).Render(name)
		val = theme.Selected.Render("◂ " + value + " ▸")
	}
	return label + val + "\n"
}
