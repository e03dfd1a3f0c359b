package trivia

import (
	"html"
	"math/rand/v2"
	"slices"
	"strconv"
)

// Category is a selectable question category.
type Category struct {
	ID   int
	Name string
}

// Key returns the category identifier as stored in Settings.
func (c Category) Key() string {
	return strconv.Itoa(c.ID)
}

// Question is a single trivia question.
type Question struct {
	Prompt           string
	Category         string
	Difficulty       Difficulty
	Type             AnswerType
	CorrectAnswer    string
	IncorrectAnswers []string

	// Options is the shuffled answer set shown to the player. Empty until
	// the question has been assembled with WithOptions.
	Options []string
}

// Decoded returns a copy with HTML entities in every text field unescaped.
func (q Question) Decoded() Question {
	q.Prompt = html.UnescapeString(q.Prompt)
	q.Category = html.UnescapeString(q.Category)
	q.CorrectAnswer = html.UnescapeString(q.CorrectAnswer)
	incorrect := make([]string, len(q.IncorrectAnswers))
	for i, a := range q.IncorrectAnswers {
		incorrect[i] = html.UnescapeString(a)
	}
	q.IncorrectAnswers = incorrect
	return q
}

// WithOptions returns a copy whose Options is a single random permutation
// of the incorrect answers plus the correct answer.
func (q Question) WithOptions(rng *rand.Rand) Question {
	all := make([]string, 0, len(q.IncorrectAnswers)+1)
	all = append(all, q.IncorrectAnswers...)
	all = append(all, q.CorrectAnswer)
	q.Options = Shuffle(all, rng)
	return q
}

// IsCorrect reports whether answer exactly matches the correct answer.
func (q Question) IsCorrect(answer string) bool {
	return answer == q.CorrectAnswer
}

// CorrectIndex returns the position of the correct answer in Options, or -1.
func (q Question) CorrectIndex() int {
	return slices.Index(q.Options, q.CorrectAnswer)
}

// Shuffle returns a Fisher–Yates permutation of items. The input is not
// modified. A nil rng uses the global source.
func Shuffle(items []string, rng *rand.Rand) []string {
	out := slices.Clone(items)
	for i := len(out) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		out[i], out[j] = out[j], out[i]
	}
	return out
}
