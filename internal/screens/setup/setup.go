package setup

import (
	"context"
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/trivia/internal/game"
	"github.com/abhisek/trivia/internal/router"
	"github.com/abhisek/trivia/internal/screen"
	"github.com/abhisek/trivia/internal/trivia"
	"github.com/abhisek/trivia/internal/ui/components"
	"github.com/abhisek/trivia/internal/ui/layout"
)

// field is a focusable row of the form.
type field int

const (
	fieldCategory field = iota
	fieldDifficulty
	fieldAmount
	fieldType
	fieldStart
	fieldCount
)

// listRows is how many categories are visible at once.
const listRows = 8

// SetupScreen collects settings and starts a game.
type SetupScreen struct {
	ctrl    *game.Controller
	src     trivia.Source
	timeout time.Duration
	help    func() screen.Screen

	focus  field
	cursor int
	filter components.TextInput
	start  components.Button
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates the setup screen. help builds the screen pushed by "?" and
// may be nil.
func New(ctrl *game.Controller, src trivia.Source, timeout time.Duration, help func() screen.Screen) *SetupScreen {
	s := &SetupScreen{
		ctrl:    ctrl,
		src:     src,
		timeout: timeout,
		help:    help,
		filter:  components.NewTextInput("filter categories", 32),
		start:   components.NewButton("Start", false, nil),
	}
	s.cursor = s.selectedIndex()
	return s
}

// LoadCategories fetches the category list.
func LoadCategories(src trivia.Source, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		cats, err := src.ListCategories(ctx)
		return CategoriesLoadedMsg{Categories: cats, Err: err}
	}
}

func (s *SetupScreen) fetchQuestions(settings trivia.Settings) tea.Cmd {
	src, timeout := s.src, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		qs, err := src.FetchQuestions(ctx, settings)
		return questionsLoadedMsg{Questions: qs, Err: err}
	}
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "New Game"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.filter.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Clear filter"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
	}
	switch s.focus {
	case fieldCategory:
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Browse"},
			layout.KeyHint{Key: "Enter", Description: "Pick"},
			layout.KeyHint{Key: "/", Description: "Filter"},
		)
	case fieldStart:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Start"})
	default:
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Change"})
	}
	if s.ctrl.Err() != "" {
		hints = append(hints, layout.KeyHint{Key: "x", Description: "Dismiss"})
	}
	return append(hints,
		layout.KeyHint{Key: "?", Description: "Help"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsLoadedMsg:
		// The app swaps to the play screen when the controller enters play.
		_ = s.ctrl.CompleteStart(msg.Questions, msg.Err)
		return s, nil

	case CategoriesLoadedMsg:
		// Already applied to the controller by the app.
		s.cursor = s.selectedIndex()
		return s, nil

	case tea.KeyPressMsg:
		if s.ctrl.Loading() {
			return s, nil
		}
		if s.filter.Focused() {
			return s, s.updateFilter(msg)
		}
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *SetupScreen) updateFilter(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		s.filter.Blur()
		return nil
	case "esc":
		s.filter.Reset()
		s.filter.Blur()
		s.cursor = s.selectedIndex()
		return nil
	}
	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(msg)
	s.cursor = 0
	return cmd
}

func (s *SetupScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "x":
		s.ctrl.DismissError()
		return nil
	case "?":
		if s.help == nil {
			return nil
		}
		h := s.help()
		return func() tea.Msg { return router.PushScreenMsg{Screen: h} }
	case "r":
		if s.ctrl.CategoriesReady() && len(s.ctrl.Categories()) == 0 {
			s.ctrl.DismissError()
			return LoadCategories(s.src, s.timeout)
		}
		return nil
	case "tab":
		s.setFocus((s.focus + 1) % fieldCount)
		return nil
	case "shift+tab":
		s.setFocus((s.focus + fieldCount - 1) % fieldCount)
		return nil
	}

	switch s.focus {
	case fieldCategory:
		return s.handleCategoryKey(key)
	case fieldStart:
		switch key {
		case "up", "k":
			s.setFocus(fieldType)
		case "enter":
			return s.Start()
		}
		return nil
	}

	switch key {
	case "up", "k":
		s.setFocus(s.focus - 1)
	case "down", "j":
		s.setFocus(s.focus + 1)
	case "left", "h":
		s.cycle(-1)
	case "right", "l", "enter", "space":
		s.cycle(1)
	}
	return nil
}

func (s *SetupScreen) handleCategoryKey(key string) tea.Cmd {
	visible := s.visibleCategories()
	switch key {
	case "/":
		return s.filter.Focus()
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(visible)-1 {
			s.cursor++
		} else {
			s.setFocus(fieldDifficulty)
		}
	case "enter", "space":
		if s.cursor < len(visible) {
			id := visible[s.cursor].Key()
			_ = s.ctrl.UpdateSettings(func(st trivia.Settings) trivia.Settings {
				return st.WithCategory(id)
			})
			if s.ctrl.Err() == game.MsgNoCategory {
				s.ctrl.DismissError()
			}
			s.setFocus(fieldDifficulty)
		}
	}
	return nil
}

// Start validates settings and, when they pass, issues the question fetch.
func (s *SetupScreen) Start() tea.Cmd {
	settings, err := s.ctrl.BeginStart()
	if err != nil {
		return nil
	}
	return s.fetchQuestions(settings)
}

func (s *SetupScreen) setFocus(f field) {
	if f < 0 || f >= fieldCount {
		return
	}
	s.focus = f
	s.start.Active = f == fieldStart
}

// cycle steps the focused selector by dir through its allowed values.
func (s *SetupScreen) cycle(dir int) {
	_ = s.ctrl.UpdateSettings(func(st trivia.Settings) trivia.Settings {
		switch s.focus {
		case fieldDifficulty:
			return st.WithDifficulty(step(trivia.Difficulties, st.Difficulty, dir))
		case fieldAmount:
			return st.WithAmount(step(trivia.Amounts, st.Amount, dir))
		case fieldType:
			return st.WithType(step(trivia.AnswerTypes, st.Type, dir))
		}
		return st
	})
}

// step returns the value dir places away from cur, wrapping around. A cur
// that is not in values starts from the first entry.
func step[T comparable](values []T, cur T, dir int) T {
	i := slices.Index(values, cur)
	if i < 0 {
		return values[0]
	}
	n := len(values)
	return values[((i+dir)%n+n)%n]
}

// visibleCategories applies the filter, case-insensitively.
func (s *SetupScreen) visibleCategories() []trivia.Category {
	cats := s.ctrl.Categories()
	q := strings.ToLower(strings.TrimSpace(s.filter.Value()))
	if q == "" {
		return cats
	}
	var out []trivia.Category
	for _, c := range cats {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	return out
}

func (s *SetupScreen) selectedIndex() int {
	key := s.ctrl.Settings().Category
	for i, c := range s.visibleCategories() {
		if c.Key() == key {
			return i
		}
	}
	return 0
}
