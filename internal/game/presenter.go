package game

import (
	"time"

	"github.com/abhisek/trivia/internal/trivia"
)

// Phase is the presenter's per-question state.
type Phase int

const (
	PhaseAnswering Phase = iota
	PhaseRevealed
)

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// TimeVariant buckets the remaining time for display.
type TimeVariant int

const (
	TimeOK TimeVariant = iota
	TimeWarn
	TimeDanger
)

// VariantFor returns the display bucket for the remaining time.
func VariantFor(remaining time.Duration) TimeVariant {
	switch {
	case remaining > 15*time.Second:
		return TimeOK
	case remaining > 5*time.Second:
		return TimeWarn
	default:
		return TimeDanger
	}
}

// AnswerEvent is the terminal outcome of one question.
type AnswerEvent struct {
	Token    uint64
	Index    int
	Selected string
	Correct  bool
	TimeUsed time.Duration
}

// Presenter runs the countdown and reveal for one question instance.
type Presenter struct {
	token     uint64
	index     int
	question  trivia.Question
	limit     time.Duration
	remaining time.Duration
	phase     Phase
	event     AnswerEvent
}

// NewPresenter starts a question in the answering phase.
func NewPresenter(token uint64, index int, q trivia.Question, limit time.Duration) *Presenter {
	if limit <= 0 {
		limit = DefaultQuestionTime
	}
	return &Presenter{
		token:     token,
		index:     index,
		question:  q,
		limit:     limit,
		remaining: limit,
		phase:     PhaseAnswering,
	}
}

func (p *Presenter) Token() uint64             { return p.token }
func (p *Presenter) Index() int                { return p.index }
func (p *Presenter) Question() trivia.Question { return p.question }
func (p *Presenter) Phase() Phase              { return p.phase }
func (p *Presenter) Remaining() time.Duration  { return p.remaining }
func (p *Presenter) Limit() time.Duration      { return p.limit }
func (p *Presenter) Revealed() bool            { return p.phase == PhaseRevealed }
func (p *Presenter) Variant() TimeVariant      { return VariantFor(p.remaining) }

// Event returns the submitted outcome. Valid once revealed.
func (p *Presenter) Event() AnswerEvent { return p.event }

// Fraction returns the remaining share of the time limit in [0, 1].
func (p *Presenter) Fraction() float64 {
	return float64(p.remaining) / float64(p.limit)
}

// Tick advances the countdown by one interval. Ticks carrying another
// presenter's token, or arriving after reveal, are ignored. When the
// countdown reaches zero the presenter submits an empty answer and
// returns that event with true.
func (p *Presenter) Tick(token uint64) (AnswerEvent, bool) {
	if token != p.token || p.phase != PhaseAnswering {
		return AnswerEvent{}, false
	}
	p.remaining -= TickInterval
	if p.remaining > 0 {
		return AnswerEvent{}, false
	}
	p.remaining = 0
	return p.Submit("")
}

// Submit records the player's answer and reveals the correct one. Only the
// first call per question is honored; later calls return false.
func (p *Presenter) Submit(answer string) (AnswerEvent, bool) {
	if p.phase != PhaseAnswering {
		return AnswerEvent{}, false
	}
	p.phase = PhaseRevealed
	p.event = AnswerEvent{
		Token:    p.token,
		Index:    p.index,
		Selected: answer,
		Correct:  answer != "" && p.question.IsCorrect(answer),
		TimeUsed: p.limit - p.remaining,
	}
	return p.event, true
}

// SubmitIndex submits the option at position i.
func (p *Presenter) SubmitIndex(i int) (AnswerEvent, bool) {
	if i < 0 || i >= len(p.question.Options) {
		return AnswerEvent{}, false
	}
	return p.Submit(p.question.Options[i])
}
