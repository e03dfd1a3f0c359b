package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/trivia/internal/game"
	"github.com/abhisek/trivia/internal/metrics"
	"github.com/abhisek/trivia/internal/screens/help"
	"github.com/abhisek/trivia/internal/screens/play"
	"github.com/abhisek/trivia/internal/screens/results"
	"github.com/abhisek/trivia/internal/screens/setup"
	"github.com/abhisek/trivia/internal/screens/welcome"
	"github.com/abhisek/trivia/internal/trivia"
)

type fakeSource struct {
	cats   []trivia.Category
	catErr error
	qs     []trivia.Question
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) ListCategories(context.Context) ([]trivia.Category, error) {
	return f.cats, f.catErr
}

func (f *fakeSource) FetchQuestions(context.Context, trivia.Settings) ([]trivia.Question, error) {
	return f.qs, nil
}

func makeQuestions(n int) []trivia.Question {
	qs := make([]trivia.Question, n)
	for i := range qs {
		qs[i] = trivia.Question{
			Prompt:           fmt.Sprintf("Question %d?", i+1),
			Category:         "Geography",
			Difficulty:       trivia.DifficultyEasy,
			Type:             trivia.TypeMultiple,
			CorrectAnswer:    "right",
			IncorrectAnswers: []string{"w1", "w2", "w3"},
		}
	}
	return qs
}

// noop stands in for any message the active screen ignores.
type noop struct{}

type harness struct {
	model   AppModel
	ctrl    *game.Controller
	metrics *metrics.Metrics
	logs    *observer.ObservedLogs
}

func newHarness(t *testing.T, skipWelcome bool) *harness {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	ctrl := game.New(trivia.DefaultSettings().WithCategory("22"), game.Options{
		QuestionTime: 2 * time.Second,
	})
	m := metrics.New()
	src := &fakeSource{
		cats: []trivia.Category{{ID: 22, Name: "Geography"}},
		qs:   makeQuestions(2),
	}
	return &harness{
		model: newAppModel(Options{
			Controller:  ctrl,
			Source:      src,
			Metrics:     m,
			Logger:      zap.New(core),
			Timeout:     time.Second,
			SkipWelcome: skipWelcome,
		}),
		ctrl:    ctrl,
		metrics: m,
		logs:    logs,
	}
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(AppModel)
	return cmd
}

// start moves the controller into play the way the setup screen would.
func (h *harness) start(t *testing.T, n int) {
	t.Helper()
	_, err := h.ctrl.BeginStart()
	require.NoError(t, err)
	require.NoError(t, h.ctrl.CompleteStart(makeQuestions(n), nil))
	h.send(noop{})
}

func TestStartsOnWelcome(t *testing.T) {
	h := newHarness(t, false)
	assert.IsType(t, &welcome.WelcomeScreen{}, h.model.router.Active())
	assert.NotNil(t, h.model.Init())
}

func TestSkipWelcome(t *testing.T) {
	h := newHarness(t, true)
	assert.IsType(t, &setup.SetupScreen{}, h.model.router.Active())
}

func TestCategoriesLoaded(t *testing.T) {
	h := newHarness(t, false)
	h.send(setup.CategoriesLoadedMsg{Categories: []trivia.Category{{ID: 9, Name: "General Knowledge"}}})

	assert.True(t, h.ctrl.CategoriesReady())
	assert.Len(t, h.ctrl.Categories(), 1)
}

func TestCategoriesFailed(t *testing.T) {
	h := newHarness(t, true)
	h.send(setup.CategoriesLoadedMsg{Err: errors.New("boom")})

	assert.Equal(t, game.MsgCategoriesFailed, h.ctrl.Err())
	assert.Equal(t, 1, h.logs.FilterMessage("categories unavailable").Len())
}

func TestInitLoadsCategories(t *testing.T) {
	h := newHarness(t, true)
	msg := setup.LoadCategories(h.model.opts.Source, time.Second)()
	h.send(msg)
	assert.Equal(t, "Geography", h.ctrl.CategoryName("22"))
}

func TestCtrlCQuits(t *testing.T) {
	h := newHarness(t, true)
	cmd := h.send(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestStartSwapsToPlay(t *testing.T) {
	h := newHarness(t, true)
	h.start(t, 2)

	assert.IsType(t, &play.PlayScreen{}, h.model.router.Active())
	assert.Equal(t, 1, h.model.router.Depth())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.GamesStarted))
	assert.Equal(t, 1, h.logs.FilterMessage("game started").Len())
}

func TestStartFromSetupKeys(t *testing.T) {
	h := newHarness(t, true)
	h.send(setup.CategoriesLoadedMsg{Categories: []trivia.Category{{ID: 22, Name: "Geography"}}})

	for range 4 {
		h.send(tea.KeyPressMsg{Code: tea.KeyTab})
	}
	cmd := h.send(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, h.ctrl.Loading())

	h.send(cmd())
	assert.Equal(t, game.StatePlaying, h.ctrl.State())
	assert.IsType(t, &play.PlayScreen{}, h.model.router.Active())
}

func TestEscDuringPlayReturnsToSetup(t *testing.T) {
	h := newHarness(t, true)
	h.start(t, 2)

	h.send(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, game.StateSetup, h.ctrl.State())
	assert.IsType(t, &setup.SetupScreen{}, h.model.router.Active())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.GamesAbandoned))
	assert.Equal(t, "22", h.ctrl.Settings().Category)
}

func TestFinishSwapsToResults(t *testing.T) {
	h := newHarness(t, true)
	h.start(t, 1)

	p, err := h.ctrl.Present()
	require.NoError(t, err)
	ev, ok := p.Submit("right")
	require.True(t, ok)
	require.NoError(t, h.ctrl.Record(ev))
	h.send(noop{})

	assert.IsType(t, &results.ResultsScreen{}, h.model.router.Active())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.GamesFinished))

	// Play again returns to setup without counting an abandon.
	h.send(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.IsType(t, &setup.SetupScreen{}, h.model.router.Active())
	assert.Equal(t, 0.0, testutil.ToFloat64(h.metrics.GamesAbandoned))
}

func TestHelpPushAndPop(t *testing.T) {
	h := newHarness(t, true)
	cmd := h.send(tea.KeyPressMsg{Code: '?', Text: "?"})
	require.NotNil(t, cmd)
	h.send(cmd())
	require.IsType(t, &help.HelpScreen{}, h.model.router.Active())
	assert.Equal(t, 2, h.model.router.Depth())

	cmd = h.send(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	h.send(cmd())
	assert.Equal(t, 1, h.model.router.Depth())
	assert.IsType(t, &setup.SetupScreen{}, h.model.router.Active())
}

func TestRenderShowsScore(t *testing.T) {
	h := newHarness(t, true)
	h.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.NotContains(t, h.model.render(), "★")

	h.start(t, 2)
	out := h.model.render()
	assert.Contains(t, out, "Question 1 of 2")
	assert.Contains(t, out, "★ 0/2")
	assert.Contains(t, out, "Quit game")
}

func TestRenderTooSmall(t *testing.T) {
	h := newHarness(t, true)
	h.send(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, h.model.render(), "Terminal too small!")
}
