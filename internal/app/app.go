// Package app wires the controller, the question source and the screens
// into the root Bubble Tea model.
package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/trivia/internal/game"
	"github.com/abhisek/trivia/internal/metrics"
	"github.com/abhisek/trivia/internal/router"
	"github.com/abhisek/trivia/internal/screen"
	"github.com/abhisek/trivia/internal/screens/help"
	"github.com/abhisek/trivia/internal/screens/play"
	"github.com/abhisek/trivia/internal/screens/results"
	"github.com/abhisek/trivia/internal/screens/setup"
	"github.com/abhisek/trivia/internal/screens/welcome"
	"github.com/abhisek/trivia/internal/trivia"
	"github.com/abhisek/trivia/internal/ui/layout"
)

// Options holds the dependencies of the TUI.
type Options struct {
	Controller *game.Controller
	Source     trivia.Source
	Metrics    *metrics.Metrics // optional
	Logger     *zap.Logger      // optional

	// Timeout bounds each source request.
	Timeout time.Duration

	// SkipWelcome starts directly on the setup screen.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model. It swaps the base screen whenever
// the controller changes state; screens never refer to each other.
type AppModel struct {
	opts   Options
	ctrl   *game.Controller
	log    *zap.Logger
	router *router.Router
	shown  game.State
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	m := AppModel{
		opts:  opts,
		ctrl:  opts.Controller,
		log:   opts.Logger.Named("app"),
		shown: opts.Controller.State(),
	}

	var first screen.Screen = m.setupScreen()
	if !opts.SkipWelcome {
		first = welcome.New(m.setupScreen)
	}
	m.router = router.New(first)
	return m
}

func (m AppModel) setupScreen() screen.Screen {
	return setup.New(m.ctrl, m.opts.Source, m.opts.Timeout, m.helpScreen)
}

func (m AppModel) helpScreen() screen.Screen {
	return help.New(m.ctrl.QuestionTime(), m.ctrl.RevealDelay())
}

// screenFor returns the base screen for a controller state.
func (m AppModel) screenFor(s game.State) screen.Screen {
	switch s {
	case game.StatePlaying:
		return play.New(m.ctrl, m.opts.Metrics)
	case game.StateResults:
		return results.New(m.ctrl)
	default:
		return m.setupScreen()
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.router.Active().Init(),
		setup.LoadCategories(m.opts.Source, m.opts.Timeout),
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case setup.CategoriesLoadedMsg:
		if msg.Err != nil {
			m.log.Warn("categories unavailable", zap.Error(msg.Err))
			m.ctrl.CategoriesFailed(msg.Err)
		} else {
			m.log.Debug("categories loaded", zap.Int("count", len(msg.Categories)))
			m.ctrl.SetCategories(msg.Categories)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, tea.Batch(cmd, m.sync())
}

// sync replaces the screen stack when the controller has moved to another
// state since the last update.
func (m *AppModel) sync() tea.Cmd {
	next := m.ctrl.State()
	if next == m.shown {
		return nil
	}
	prev := m.shown
	m.shown = next
	m.log.Debug("state change", zap.Stringer("from", prev), zap.Stringer("to", next))

	switch {
	case prev == game.StateSetup && next == game.StatePlaying:
		m.opts.Metrics.GameStarted()
		if sess := m.ctrl.Session(); sess != nil {
			m.log.Info("game started",
				zap.String("session", sess.ID.String()),
				zap.String("category", sess.Settings.Category),
				zap.String("difficulty", string(sess.Settings.Difficulty)),
				zap.Int("questions", sess.Total()))
		}
	case prev == game.StatePlaying && next == game.StateResults:
		m.opts.Metrics.GameFinished()
		if sum, ok := m.ctrl.Summary(); ok {
			m.log.Info("game finished",
				zap.String("score", sum.ScoreLine()),
				zap.Int("percent", sum.Percent),
				zap.Duration("duration", sum.Duration))
		}
	case prev == game.StatePlaying && next == game.StateSetup:
		m.opts.Metrics.GameAbandoned()
		m.log.Info("game abandoned")
	}

	return m.router.Reset(m.screenFor(next))
}

func (m AppModel) status() string {
	sess := m.ctrl.Session()
	if sess == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d", sess.Score, sess.Total())
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render composes header, active screen and footer for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until the player quits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
