package play

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/trivia/internal/game"
	"github.com/abhisek/trivia/internal/metrics"
	"github.com/abhisek/trivia/internal/trivia"
)

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

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// newTestPlay returns a play screen over n questions with a 3s limit.
func newTestPlay(t *testing.T, n int) (*PlayScreen, *game.Controller, *metrics.Metrics) {
	t.Helper()
	ctrl := game.New(trivia.DefaultSettings().WithCategory("22"), game.Options{
		QuestionTime: 3 * time.Second,
		RevealDelay:  2 * time.Second,
		Rand:         rand.New(rand.NewPCG(1, 2)),
	})
	_, err := ctrl.BeginStart()
	require.NoError(t, err)
	require.NoError(t, ctrl.CompleteStart(makeQuestions(n), nil))

	m := metrics.New()
	s := New(ctrl, m)
	require.NotNil(t, s.Init())
	return s, ctrl, m
}

// answerKey returns the letter for the correct or a wrong option.
func answerKey(s *PlayScreen, correct bool) rune {
	q := s.presenter.Question()
	ci := q.CorrectIndex()
	if correct {
		return rune('a' + ci)
	}
	return rune('a' + (ci+1)%len(q.Options))
}

func TestTitleAndView(t *testing.T) {
	s, _, _ := newTestPlay(t, 3)
	assert.Equal(t, "Question 1 of 3", s.Title())

	view := s.View(100, 40)
	assert.Contains(t, view, "Question 1?")
	assert.Contains(t, view, "Geography")
	assert.Contains(t, view, "A)")
	assert.Contains(t, view, " 3s")
}

func TestCorrectAnswerRevealsThenAdvances(t *testing.T) {
	s, ctrl, m := newTestPlay(t, 2)
	token := s.presenter.Token()

	_, cmd := s.Update(keyPress(answerKey(s, true)))
	require.NotNil(t, cmd)
	assert.True(t, s.presenter.Revealed())

	view := s.View(100, 40)
	assert.Contains(t, view, "Correct!")
	assert.Contains(t, view, "Next question in 2 seconds...")
	assert.Equal(t, 0, ctrl.Session().Current, "not recorded until the reveal ends")

	_, cmd = s.Update(revealDoneMsg{Token: token})
	require.NotNil(t, cmd, "next question starts its countdown")
	assert.Equal(t, 1, ctrl.Session().Current)
	assert.Equal(t, 1, ctrl.Session().Score)
	assert.Equal(t, "Question 2 of 2", s.Title())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Answers.WithLabelValues("correct")))
}

func TestIncorrectAnswerShowsCorrectOne(t *testing.T) {
	s, _, _ := newTestPlay(t, 1)
	s.Update(keyPress(answerKey(s, false)))

	view := s.View(100, 40)
	assert.Contains(t, view, "Incorrect!")
	assert.Contains(t, view, "The correct answer was:")
	assert.Contains(t, view, "Results in 2 seconds...")
}

func TestTimeoutSubmitsEmptyAnswer(t *testing.T) {
	s, ctrl, m := newTestPlay(t, 1)
	token := s.presenter.Token()

	_, cmd := s.Update(tickMsg{Token: token})
	require.NotNil(t, cmd)
	_, cmd = s.Update(tickMsg{Token: token})
	require.NotNil(t, cmd)
	_, cmd = s.Update(tickMsg{Token: token})
	require.NotNil(t, cmd, "expiry schedules the reveal")
	require.True(t, s.presenter.Revealed())
	assert.Contains(t, s.View(100, 40), "Time's up!")

	_, _ = s.Update(revealDoneMsg{Token: token})
	assert.Equal(t, game.StateResults, ctrl.State())
	rec := ctrl.Session().Answers[0]
	assert.Empty(t, rec.Selected)
	assert.False(t, rec.Correct)
	assert.Equal(t, 3*time.Second, rec.TimeUsed)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Answers.WithLabelValues("timeout")))
}

func TestTickAfterRevealStopsCountdown(t *testing.T) {
	s, _, _ := newTestPlay(t, 2)
	token := s.presenter.Token()
	s.Update(keyPress('a'))

	_, cmd := s.Update(tickMsg{Token: token})
	assert.Nil(t, cmd)
}

func TestStaleMessagesIgnored(t *testing.T) {
	s, ctrl, _ := newTestPlay(t, 3)
	first := s.presenter.Token()
	s.Update(keyPress('a'))
	s.Update(revealDoneMsg{Token: first})
	require.Equal(t, 1, ctrl.Session().Current)

	remaining := s.presenter.Remaining()
	_, cmd := s.Update(tickMsg{Token: first})
	assert.Nil(t, cmd)
	assert.Equal(t, remaining, s.presenter.Remaining())

	_, cmd = s.Update(revealDoneMsg{Token: first})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, ctrl.Session().Current)
}

func TestRevealDoneBeforeRevealIgnored(t *testing.T) {
	s, ctrl, _ := newTestPlay(t, 2)
	_, cmd := s.Update(revealDoneMsg{Token: s.presenter.Token()})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, ctrl.Session().Current)
}

func TestSecondAnswerIgnored(t *testing.T) {
	s, _, _ := newTestPlay(t, 2)
	s.Update(keyPress(answerKey(s, false)))
	ev := s.presenter.Event()

	_, cmd := s.Update(keyPress(answerKey(s, true)))
	assert.Nil(t, cmd)
	assert.Equal(t, ev, s.presenter.Event())
}

func TestEscQuitsToSetup(t *testing.T) {
	s, ctrl, _ := newTestPlay(t, 2)
	token := s.presenter.Token()
	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})

	assert.Equal(t, game.StateSetup, ctrl.State())
	assert.Nil(t, ctrl.Session())
	assert.Equal(t, "22", ctrl.Settings().Category)

	_, cmd := s.Update(tickMsg{Token: token})
	assert.Nil(t, cmd)
}

func TestFullGame(t *testing.T) {
	s, ctrl, _ := newTestPlay(t, 5)
	for i, correct := range []bool{true, false, true, true, false} {
		token := s.presenter.Token()
		s.Update(keyPress(answerKey(s, correct)))
		s.Update(revealDoneMsg{Token: token})
		if i < 4 {
			require.Equal(t, game.StatePlaying, ctrl.State())
		}
	}
	require.Equal(t, game.StateResults, ctrl.State())
	sum, ok := ctrl.Summary()
	require.True(t, ok)
	assert.Equal(t, "3/5", sum.ScoreLine())
	assert.Equal(t, 60, sum.Percent)
}

func TestVariantColor(t *testing.T) {
	assert.Equal(t, variantColor(game.TimeOK), variantColor(game.VariantFor(20*time.Second)))
	assert.NotEqual(t, variantColor(game.TimeOK), variantColor(game.TimeDanger))
}
