package trivia

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// AnswerRecord is the outcome of one question. Selected is empty when the
// countdown expired before the player chose.
type AnswerRecord struct {
	Question Question
	Selected string
	Correct  bool
	TimeUsed time.Duration
}

// TimedOut reports whether the question expired without a selection.
func (r AnswerRecord) TimedOut() bool {
	return r.Selected == ""
}

// Session is the in-memory record of one playthrough.
type Session struct {
	ID         uuid.UUID
	Settings   Settings
	Questions  []Question
	Current    int
	Score      int
	Answers    []AnswerRecord
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewSession starts an empty session over the given batch.
func NewSession(settings Settings, questions []Question, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		Settings:  settings,
		Questions: questions,
		Answers:   make([]AnswerRecord, 0, len(questions)),
		StartedAt: now,
	}
}

// Total returns the number of questions in the batch.
func (s *Session) Total() int {
	return len(s.Questions)
}

// Done reports whether every question has been answered.
func (s *Session) Done() bool {
	return s.Current >= len(s.Questions)
}

// CurrentQuestion returns the question awaiting an answer.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.Done() {
		return Question{}, false
	}
	return s.Questions[s.Current], true
}

// Summary is the read-only view shown on the results screen.
type Summary struct {
	Score    int
	Total    int
	Percent  int
	Duration time.Duration
	Review   []AnswerRecord
}

// ScoreLine renders the score as "score/total".
func (s Summary) ScoreLine() string {
	return fmt.Sprintf("%d/%d", s.Score, s.Total)
}

// Summarize builds the results view from the session's answer log.
func (s *Session) Summarize() Summary {
	total := len(s.Questions)
	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(s.Score) * 100 / float64(total)))
	}
	var dur time.Duration
	if !s.FinishedAt.IsZero() {
		dur = s.FinishedAt.Sub(s.StartedAt)
	}
	review := make([]AnswerRecord, len(s.Answers))
	copy(review, s.Answers)
	return Summary{
		Score:    s.Score,
		Total:    total,
		Percent:  pct,
		Duration: dur,
		Review:   review,
	}
}

// Verdict returns a short remark for the given percentage.
func Verdict(percent int) string {
	switch {
	case percent >= 80:
		return "Excellent!"
	case percent >= 60:
		return "Good job!"
	case percent >= 40:
		return "Not bad!"
	default:
		return "Keep practicing!"
	}
}
