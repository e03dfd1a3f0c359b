// Package game implements the quiz state machines: the Controller that
// moves a game between setup, playing and results, and the Presenter that
// runs the countdown and reveal for a single question.
//
// Transitions perform no I/O and start no timers. Callers feed them fetch
// results, ticks and selections and act on what they return; LoadCategories
// and StartWith are synchronous helpers for callers that can block.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/abhisek/trivia/internal/trivia"
)

// State is the controller's top-level screen.
type State int

const (
	StateSetup State = iota
	StatePlaying
	StateResults
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StatePlaying:
		return "playing"
	case StateResults:
		return "results"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// User-visible messages shown in the setup screen.
const (
	MsgNoCategory       = "Please select a category"
	MsgCategoriesFailed = "Failed to load categories. Please try again."
	MsgQuestionsFailed  = "Failed to load questions. Please try again."
	MsgNoMatching       = "No questions match these settings. Try a different category or difficulty."
)

var (
	// ErrNoCategory is returned by BeginStart when no category is selected.
	ErrNoCategory = errors.New(MsgNoCategory)

	// ErrWrongState is returned when an operation is not valid in the
	// controller's current state.
	ErrWrongState = errors.New("operation not allowed in current state")

	// ErrFetchInFlight is returned by BeginStart while a batch is loading.
	ErrFetchInFlight = errors.New("question fetch already in flight")

	// ErrStaleAnswer is returned by Record for an event that does not
	// belong to the current question.
	ErrStaleAnswer = errors.New("answer event does not match current question")
)

// Options tunes a Controller. Zero values fall back to defaults.
type Options struct {
	QuestionTime time.Duration
	RevealDelay  time.Duration
	Rand         *rand.Rand
	Now          func() time.Time
}

const (
	DefaultQuestionTime = 30 * time.Second
	DefaultRevealDelay  = 2 * time.Second
)

// Controller owns the global game state.
type Controller struct {
	state      State
	settings   trivia.Settings
	categories []trivia.Category
	catsReady  bool
	loading    bool
	errMsg     string
	cause      error
	session    *trivia.Session
	nextToken  uint64

	questionTime time.Duration
	revealDelay  time.Duration
	rng          *rand.Rand
	now          func() time.Time
}

// New returns a controller in setup with the given settings.
func New(settings trivia.Settings, opts Options) *Controller {
	c := &Controller{
		state:        StateSetup,
		settings:     settings,
		questionTime: opts.QuestionTime,
		revealDelay:  opts.RevealDelay,
		rng:          opts.Rand,
		now:          opts.Now,
	}
	if c.questionTime <= 0 {
		c.questionTime = DefaultQuestionTime
	}
	if c.revealDelay <= 0 {
		c.revealDelay = DefaultRevealDelay
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

func (c *Controller) State() State                  { return c.state }
func (c *Controller) Settings() trivia.Settings     { return c.settings }
func (c *Controller) Categories() []trivia.Category { return c.categories }
func (c *Controller) CategoriesReady() bool         { return c.catsReady }
func (c *Controller) Loading() bool                 { return c.loading }
func (c *Controller) RevealDelay() time.Duration    { return c.revealDelay }
func (c *Controller) QuestionTime() time.Duration   { return c.questionTime }

// Session returns the running session, or nil outside of play and results.
func (c *Controller) Session() *trivia.Session { return c.session }

// Err returns the pending user-visible message, if any.
func (c *Controller) Err() string { return c.errMsg }

// Cause returns the error behind the pending message.
func (c *Controller) Cause() error { return c.cause }

// DismissError clears the pending message.
func (c *Controller) DismissError() {
	c.errMsg = ""
	c.cause = nil
}

func (c *Controller) fail(msg string, cause error) {
	c.errMsg = msg
	c.cause = cause
}

// SetCategories stores the result of the startup category fetch.
func (c *Controller) SetCategories(cats []trivia.Category) {
	c.categories = cats
	c.catsReady = true
}

// CategoriesFailed records a failed startup category fetch.
func (c *Controller) CategoriesFailed(err error) {
	c.categories = nil
	c.catsReady = true
	c.fail(MsgCategoriesFailed, err)
}

// CategoryName returns the display name of the category with the given key.
func (c *Controller) CategoryName(key string) string {
	for _, cat := range c.categories {
		if cat.Key() == key {
			return cat.Name
		}
	}
	return ""
}

// UpdateSettings replaces the settings snapshot with fn(current).
func (c *Controller) UpdateSettings(fn func(trivia.Settings) trivia.Settings) error {
	if c.state != StateSetup || c.loading {
		return ErrWrongState
	}
	c.settings = fn(c.settings)
	return nil
}

// BeginStart validates the settings and marks a question fetch as in
// flight. The returned snapshot is what the caller must fetch with.
func (c *Controller) BeginStart() (trivia.Settings, error) {
	if c.state != StateSetup {
		return trivia.Settings{}, ErrWrongState
	}
	if c.loading {
		return trivia.Settings{}, ErrFetchInFlight
	}
	if c.settings.Category == "" {
		c.fail(MsgNoCategory, ErrNoCategory)
		return trivia.Settings{}, ErrNoCategory
	}
	if err := c.settings.Validate(); err != nil {
		c.fail(err.Error(), err)
		return trivia.Settings{}, err
	}
	c.DismissError()
	c.loading = true
	return c.settings, nil
}

// CompleteStart applies the result of the fetch started by BeginStart.
func (c *Controller) CompleteStart(questions []trivia.Question, err error) error {
	if c.state != StateSetup || !c.loading {
		return ErrWrongState
	}
	c.loading = false

	if err == nil && len(questions) == 0 {
		err = fmt.Errorf("empty batch: %w", trivia.ErrNoMatchingQuestions)
	}
	if err != nil {
		if errors.Is(err, trivia.ErrNoMatchingQuestions) {
			c.fail(MsgNoMatching, err)
		} else {
			c.fail(MsgQuestionsFailed, err)
		}
		return err
	}

	batch := make([]trivia.Question, len(questions))
	for i, q := range questions {
		batch[i] = q.WithOptions(c.rng)
	}
	c.session = trivia.NewSession(c.settings, batch, c.now())
	c.state = StatePlaying
	return nil
}

// Present returns a fresh presenter for the current question. Each call
// issues a new token, so presenters from earlier calls become stale.
func (c *Controller) Present() (*Presenter, error) {
	if c.state != StatePlaying {
		return nil, ErrWrongState
	}
	q, ok := c.session.CurrentQuestion()
	if !ok {
		return nil, ErrWrongState
	}
	c.nextToken++
	return NewPresenter(c.nextToken, c.session.Current, q, c.questionTime), nil
}

// Record applies a terminal answer event. The session advances to the next
// question or, after the last one, the controller enters results.
func (c *Controller) Record(ev AnswerEvent) error {
	if c.state != StatePlaying {
		return ErrWrongState
	}
	if ev.Index != c.session.Current || ev.Token != c.nextToken {
		return ErrStaleAnswer
	}

	q := c.session.Questions[c.session.Current]
	c.session.Answers = append(c.session.Answers, trivia.AnswerRecord{
		Question: q,
		Selected: ev.Selected,
		Correct:  ev.Correct,
		TimeUsed: ev.TimeUsed,
	})
	if ev.Correct {
		c.session.Score++
	}
	c.session.Current++

	if c.session.Done() {
		c.session.FinishedAt = c.now()
		c.state = StateResults
	}
	return nil
}

// Quit abandons the running game. Settings are kept.
func (c *Controller) Quit() error {
	if c.state != StatePlaying {
		return ErrWrongState
	}
	c.reset()
	return nil
}

// Replay leaves the results screen for a new setup. Settings are kept.
func (c *Controller) Replay() error {
	if c.state != StateResults {
		return ErrWrongState
	}
	c.reset()
	return nil
}

func (c *Controller) reset() {
	c.session = nil
	c.loading = false
	c.nextToken++
	c.state = StateSetup
}

// Summary returns the results view. Only available in results.
func (c *Controller) Summary() (trivia.Summary, bool) {
	if c.state != StateResults || c.session == nil {
		return trivia.Summary{}, false
	}
	return c.session.Summarize(), true
}

// LoadCategories fetches the category list from src and records the result.
func (c *Controller) LoadCategories(ctx context.Context, src trivia.Source) error {
	cats, err := src.ListCategories(ctx)
	if err != nil {
		c.CategoriesFailed(err)
		return err
	}
	c.SetCategories(cats)
	return nil
}

// StartWith performs BeginStart, the fetch and CompleteStart in one call.
// No fetch is issued when BeginStart fails.
func (c *Controller) StartWith(ctx context.Context, src trivia.Source) error {
	settings, err := c.BeginStart()
	if err != nil {
		return err
	}
	questions, err := src.FetchQuestions(ctx, settings)
	return c.CompleteStart(questions, err)
}
