package play

import (
	"fmt"
	"slices"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/trivia/internal/game"
	"github.com/abhisek/trivia/internal/metrics"
	"github.com/abhisek/trivia/internal/screen"
	"github.com/abhisek/trivia/internal/ui/components"
	"github.com/abhisek/trivia/internal/ui/layout"
)

// PlayScreen runs one question at a time. Every timer message carries the
// presenter token it was scheduled for; messages for any other token are
// dropped.
type PlayScreen struct {
	ctrl      *game.Controller
	metrics   *metrics.Metrics
	presenter *game.Presenter
	choice    components.MultiChoice
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)

// New creates the play screen for a controller already in play. m may be nil.
func New(ctrl *game.Controller, m *metrics.Metrics) *PlayScreen {
	return &PlayScreen{ctrl: ctrl, metrics: m}
}

func (s *PlayScreen) Init() tea.Cmd {
	return s.present()
}

// present starts the current question and its countdown.
func (s *PlayScreen) present() tea.Cmd {
	p, err := s.ctrl.Present()
	if err != nil {
		return nil
	}
	s.presenter = p
	s.choice = components.NewMultiChoice(p.Question().Options)
	return tickCmd(p.Token())
}

func tickCmd(token uint64) tea.Cmd {
	return tea.Tick(game.TickInterval, func(time.Time) tea.Msg {
		return tickMsg{Token: token}
	})
}

func revealCmd(token uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return revealDoneMsg{Token: token}
	})
}

func (s *PlayScreen) Title() string {
	sess := s.ctrl.Session()
	if sess == nil || s.presenter == nil {
		return ""
	}
	return fmt.Sprintf("Question %d of %d", s.presenter.Index()+1, sess.Total())
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	if s.presenter != nil && s.presenter.Revealed() {
		return []layout.KeyHint{{Key: "Esc", Description: "Quit game"}}
	}
	return []layout.KeyHint{
		{Key: "a-d / 1-4", Description: "Answer"},
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Quit game"},
	}
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.presenter == nil || s.ctrl.State() != game.StatePlaying {
		return s, nil
	}

	switch msg := msg.(type) {
	case tickMsg:
		if msg.Token != s.presenter.Token() {
			return s, nil
		}
		if ev, expired := s.presenter.Tick(msg.Token); expired {
			return s, s.reveal(ev)
		}
		if s.presenter.Revealed() {
			return s, nil
		}
		return s, tickCmd(msg.Token)

	case revealDoneMsg:
		if msg.Token != s.presenter.Token() || !s.presenter.Revealed() {
			return s, nil
		}
		return s, s.advance()

	case tea.KeyPressMsg:
		if msg.String() == "esc" {
			// Leaving play; the app swaps back to setup.
			_ = s.ctrl.Quit()
			return s, nil
		}
		var idx int
		var picked bool
		s.choice, idx, picked = s.choice.Update(msg)
		if !picked {
			return s, nil
		}
		if ev, ok := s.presenter.SubmitIndex(idx); ok {
			return s, s.reveal(ev)
		}
	}
	return s, nil
}

// reveal shows the outcome and schedules the end of the reveal window.
func (s *PlayScreen) reveal(ev game.AnswerEvent) tea.Cmd {
	q := s.presenter.Question()
	s.choice = s.choice.Reveal(slices.Index(q.Options, ev.Selected), q.CorrectIndex())
	return revealCmd(ev.Token, s.ctrl.RevealDelay())
}

// advance records the revealed answer and moves to the next question. After
// the last question the controller enters results and the app takes over.
func (s *PlayScreen) advance() tea.Cmd {
	ev := s.presenter.Event()
	if err := s.ctrl.Record(ev); err != nil {
		return nil
	}
	s.metrics.ObserveAnswer(ev.Selected, ev.Correct, ev.TimeUsed)
	if s.ctrl.State() != game.StatePlaying {
		return nil
	}
	return s.present()
}
