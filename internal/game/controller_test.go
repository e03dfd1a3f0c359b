package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/trivia/internal/trivia"
)

type fakeSource struct {
	cats      []trivia.Category
	catErr    error
	questions []trivia.Question
	qErr      error
	fetches   []trivia.Settings
}

func (f *fakeSource) ListCategories(context.Context) ([]trivia.Category, error) {
	return f.cats, f.catErr
}

func (f *fakeSource) FetchQuestions(_ context.Context, s trivia.Settings) ([]trivia.Question, error) {
	f.fetches = append(f.fetches, s)
	return f.questions, f.qErr
}

func (f *fakeSource) Name() string { return "fake" }

func makeQuestions(n int) []trivia.Question {
	qs := make([]trivia.Question, n)
	for i := range qs {
		qs[i] = trivia.Question{
			Prompt:           fmt.Sprintf("Question %d?", i+1),
			Category:         "General Knowledge",
			Difficulty:       trivia.DifficultyEasy,
			Type:             trivia.TypeMultiple,
			CorrectAnswer:    fmt.Sprintf("right-%d", i),
			IncorrectAnswers: []string{"w1", "w2", "w3"},
		}
	}
	return qs
}

func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestController() *Controller {
	return New(trivia.DefaultSettings(), Options{
		Rand: rand.New(rand.NewPCG(1, 1)),
		Now:  fixedClock(),
	})
}

func startGame(t *testing.T, c *Controller, qs []trivia.Question) {
	t.Helper()
	require.NoError(t, c.UpdateSettings(func(s trivia.Settings) trivia.Settings {
		return s.WithCategory("9")
	}))
	_, err := c.BeginStart()
	require.NoError(t, err)
	require.NoError(t, c.CompleteStart(qs, nil))
	require.Equal(t, StatePlaying, c.State())
}

// answer drives one question through a presenter and records the event.
func answer(t *testing.T, c *Controller, correct bool) {
	t.Helper()
	p, err := c.Present()
	require.NoError(t, err)
	q := p.Question()
	choice := q.CorrectAnswer
	if !correct {
		choice = q.IncorrectAnswers[0]
	}
	ev, ok := p.Submit(choice)
	require.True(t, ok)
	require.NoError(t, c.Record(ev))
}

func TestNewStartsInSetup(t *testing.T) {
	c := newTestController()
	assert.Equal(t, StateSetup, c.State())
	assert.Nil(t, c.Session())
	assert.False(t, c.CategoriesReady())
	assert.Equal(t, DefaultQuestionTime, c.QuestionTime())
	assert.Equal(t, DefaultRevealDelay, c.RevealDelay())
}

func TestStartWithoutCategory(t *testing.T) {
	c := newTestController()
	src := &fakeSource{questions: makeQuestions(3)}

	err := c.StartWith(context.Background(), src)

	require.ErrorIs(t, err, ErrNoCategory)
	assert.Equal(t, StateSetup, c.State())
	assert.Equal(t, MsgNoCategory, c.Err())
	assert.Empty(t, src.fetches, "no fetch may be issued without a category")
	assert.False(t, c.Loading())
}

func TestStartUsesSettingsSnapshot(t *testing.T) {
	c := newTestController()
	src := &fakeSource{questions: makeQuestions(5)}
	require.NoError(t, c.UpdateSettings(func(s trivia.Settings) trivia.Settings {
		return s.WithCategory("9").WithDifficulty(trivia.DifficultyEasy).WithAmount(5)
	}))

	require.NoError(t, c.StartWith(context.Background(), src))

	require.Len(t, src.fetches, 1)
	assert.Equal(t, trivia.Settings{Category: "9", Difficulty: trivia.DifficultyEasy, Amount: 5, Type: trivia.TypeMultiple}, src.fetches[0])
	s := c.Session()
	require.NotNil(t, s)
	assert.Equal(t, 0, s.Score)
	assert.Empty(t, s.Answers)
	assert.Equal(t, 0, s.Current)
}

func TestStartAssemblesShuffledOptions(t *testing.T) {
	c := newTestController()
	startGame(t, c, makeQuestions(4))

	for _, q := range c.Session().Questions {
		require.Len(t, q.Options, len(q.IncorrectAnswers)+1)
		want := append(slices.Clone(q.IncorrectAnswers), q.CorrectAnswer)
		assert.ElementsMatch(t, want, q.Options)
	}
}

func TestBeginStartWhileLoading(t *testing.T) {
	c := newTestController()
	require.NoError(t, c.UpdateSettings(func(s trivia.Settings) trivia.Settings { return s.WithCategory("9") }))
	_, err := c.BeginStart()
	require.NoError(t, err)
	assert.True(t, c.Loading())

	_, err = c.BeginStart()
	assert.ErrorIs(t, err, ErrFetchInFlight)
	assert.ErrorIs(t, c.UpdateSettings(func(s trivia.Settings) trivia.Settings { return s }), ErrWrongState)
}

func TestBeginStartRejectsInvalidSettings(t *testing.T) {
	c := newTestController()
	require.NoError(t, c.UpdateSettings(func(s trivia.Settings) trivia.Settings {
		return s.WithCategory("9").WithAmount(0)
	}))
	_, err := c.BeginStart()
	var serr *trivia.SettingsError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, StateSetup, c.State())
	assert.NotEmpty(t, c.Err())
}

func TestCompleteStartErrors(t *testing.T) {
	tests := []struct {
		name      string
		questions []trivia.Question
		err       error
		wantMsg   string
	}{
		{"unavailable", nil, fmt.Errorf("dial: %w", trivia.ErrProviderUnavailable), MsgQuestionsFailed},
		{"no match", nil, fmt.Errorf("code 1: %w", trivia.ErrNoMatchingQuestions), MsgNoMatching},
		{"empty batch", []trivia.Question{}, nil, MsgNoMatching},
		{"unknown", nil, errors.New("boom"), MsgQuestionsFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController()
			require.NoError(t, c.UpdateSettings(func(s trivia.Settings) trivia.Settings {
				return s.WithCategory("21").WithDifficulty(trivia.DifficultyHard)
			}))
			before := c.Settings()
			_, err := c.BeginStart()
			require.NoError(t, err)

			err = c.CompleteStart(tt.questions, tt.err)

			require.Error(t, err)
			assert.Equal(t, StateSetup, c.State())
			assert.Equal(t, tt.wantMsg, c.Err())
			assert.Equal(t, before, c.Settings(), "settings must survive a failed start")
			assert.False(t, c.Loading())
			assert.Nil(t, c.Session())

			c.DismissError()
			assert.Empty(t, c.Err())
		})
	}
}

func TestCompleteStartWithoutBegin(t *testing.T) {
	c := newTestController()
	assert.ErrorIs(t, c.CompleteStart(makeQuestions(1), nil), ErrWrongState)
}

func TestLoadCategories(t *testing.T) {
	c := newTestController()
	cats := []trivia.Category{{ID: 9, Name: "General Knowledge"}, {ID: 21, Name: "Sports"}}

	require.NoError(t, c.LoadCategories(context.Background(), &fakeSource{cats: cats}))
	assert.True(t, c.CategoriesReady())
	assert.Equal(t, cats, c.Categories())
	assert.Equal(t, "Sports", c.CategoryName("21"))
	assert.Empty(t, c.CategoryName("99"))
}

func TestLoadCategoriesFailure(t *testing.T) {
	c := newTestController()
	err := c.LoadCategories(context.Background(), &fakeSource{catErr: trivia.ErrProviderUnavailable})

	require.Error(t, err)
	assert.True(t, c.CategoriesReady())
	assert.Equal(t, MsgCategoriesFailed, c.Err())
	assert.ErrorIs(t, c.Cause(), trivia.ErrProviderUnavailable)
	assert.Equal(t, StateSetup, c.State())
}

func TestRecordKeepsInvariants(t *testing.T) {
	c := newTestController()
	startGame(t, c, makeQuestions(4))

	pattern := []bool{true, false, true, true}
	for i, ok := range pattern {
		answer(t, c, ok)
		s := c.Session()
		assert.Len(t, s.Answers, i+1)
		correct := 0
		for _, a := range s.Answers {
			if a.Correct {
				correct++
			}
		}
		assert.Equal(t, correct, s.Score)
		assert.LessOrEqual(t, len(s.Answers), len(s.Questions))
		if c.State() == StatePlaying {
			assert.Equal(t, len(s.Answers), s.Current)
		}
	}
	assert.Equal(t, StateResults, c.State())
}

func TestRecordRejectsStaleEvents(t *testing.T) {
	c := newTestController()
	startGame(t, c, makeQuestions(3))

	p, err := c.Present()
	require.NoError(t, err)
	ev, ok := p.Submit(p.Question().CorrectAnswer)
	require.True(t, ok)
	require.NoError(t, c.Record(ev))

	// same event again
	assert.ErrorIs(t, c.Record(ev), ErrStaleAnswer)
	assert.Len(t, c.Session().Answers, 1)

	// presenter superseded by a newer one
	old, err := c.Present()
	require.NoError(t, err)
	_, err = c.Present()
	require.NoError(t, err)
	oldEv, ok := old.Submit("w1")
	require.True(t, ok)
	assert.ErrorIs(t, c.Record(oldEv), ErrStaleAnswer)
	assert.Len(t, c.Session().Answers, 1)
}

func TestRecordOutsidePlay(t *testing.T) {
	c := newTestController()
	assert.ErrorIs(t, c.Record(AnswerEvent{}), ErrWrongState)
	_, err := c.Present()
	assert.ErrorIs(t, err, ErrWrongState)
}

func TestQuitKeepsSettings(t *testing.T) {
	c := newTestController()
	startGame(t, c, makeQuestions(3))
	answer(t, c, true)
	settings := c.Settings()

	p, err := c.Present()
	require.NoError(t, err)
	require.NoError(t, c.Quit())

	assert.Equal(t, StateSetup, c.State())
	assert.Nil(t, c.Session())
	assert.Equal(t, settings, c.Settings())

	ev, ok := p.Submit(p.Question().CorrectAnswer)
	require.True(t, ok)
	assert.ErrorIs(t, c.Record(ev), ErrWrongState)
	assert.ErrorIs(t, c.Quit(), ErrWrongState)
}

func TestReplayKeepsSettings(t *testing.T) {
	c := newTestController()
	startGame(t, c, makeQuestions(1))
	answer(t, c, false)
	require.Equal(t, StateResults, c.State())
	settings := c.Settings()

	require.NoError(t, c.Replay())
	assert.Equal(t, StateSetup, c.State())
	assert.Equal(t, settings, c.Settings())
	assert.Nil(t, c.Session())

	// A new game with identical settings needs no reconfiguration.
	src := &fakeSource{questions: makeQuestions(2)}
	require.NoError(t, c.StartWith(context.Background(), src))
	assert.Equal(t, settings, src.fetches[0])
	assert.Equal(t, 0, c.Session().Score)
}

func TestReplayOnlyFromResults(t *testing.T) {
	c := newTestController()
	assert.ErrorIs(t, c.Replay(), ErrWrongState)
	_, ok := c.Summary()
	assert.False(t, ok)
}

func TestEndToEndFiveQuestions(t *testing.T) {
	c := newTestController()
	src := &fakeSource{questions: makeQuestions(5)}
	require.NoError(t, c.UpdateSettings(func(s trivia.Settings) trivia.Settings {
		return s.WithCategory("9").WithDifficulty(trivia.DifficultyEasy).WithAmount(5).WithType(trivia.TypeMultiple)
	}))
	require.NoError(t, c.StartWith(context.Background(), src))

	pattern := []bool{true, false, true, false, true}
	for _, ok := range pattern {
		answer(t, c, ok)
	}

	require.Equal(t, StateResults, c.State())
	sum, ok := c.Summary()
	require.True(t, ok)
	assert.Equal(t, "3/5", sum.ScoreLine())
	assert.Equal(t, 60, sum.Percent)
	require.Len(t, sum.Review, 5)
	for i, r := range sum.Review {
		assert.Equal(t, c.Session().Answers[i], r)
		assert.Equal(t, fmt.Sprintf("Question %d?", i+1), r.Question.Prompt)
		assert.Equal(t, pattern[i], r.Correct)
	}
	assert.Positive(t, sum.Duration)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "setup", StateSetup.String())
	assert.Equal(t, "playing", StatePlaying.String())
	assert.Equal(t, "results", StateResults.String())
	assert.Equal(t, "State(9)", State(9).String())
}
