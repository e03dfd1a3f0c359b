// Package trivia holds the data model shared by the game, the question
// sources and the UI: settings, categories, questions and answer records.
package trivia

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Difficulty is the question difficulty requested from a source.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the selectable difficulties in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// AnswerType is the question format requested from a source.
type AnswerType string

const (
	TypeMultiple AnswerType = "multiple"
	TypeBoolean  AnswerType = "boolean"
)

// AnswerTypes lists the selectable answer types in display order.
var AnswerTypes = []AnswerType{TypeMultiple, TypeBoolean}

// Label returns the human-readable name of the answer type.
func (t AnswerType) Label() string {
	switch t {
	case TypeBoolean:
		return "True / False"
	default:
		return "Multiple Choice"
	}
}

// Amounts lists the batch sizes offered by the setup screen.
var Amounts = []int{5, 10, 15, 20}

// MaxAmount is the largest batch a single request may ask for.
const MaxAmount = 50

// Settings is one immutable snapshot of the game configuration.
// Use the With* methods to derive a modified copy.
type Settings struct {
	Category   string     `validate:"required,numeric"`
	Difficulty Difficulty `validate:"oneof=easy medium hard"`
	Amount     int        `validate:"min=1,max=50"`
	Type       AnswerType `validate:"oneof=multiple boolean"`
}

// DefaultSettings returns the settings a fresh game starts with.
func DefaultSettings() Settings {
	return Settings{
		Category:   "",
		Difficulty: DifficultyMedium,
		Amount:     10,
		Type:       TypeMultiple,
	}
}

func (s Settings) WithCategory(id string) Settings {
	s.Category = id
	return s
}

func (s Settings) WithDifficulty(d Difficulty) Settings {
	s.Difficulty = d
	return s
}

func (s Settings) WithAmount(n int) Settings {
	s.Amount = n
	return s
}

func (s Settings) WithType(t AnswerType) Settings {
	s.Type = t
	return s
}

var validate = validator.New()

// SettingsError reports the first settings field that failed validation.
type SettingsError struct {
	Field string
	Rule  string
	Value any
}

func (e *SettingsError) Error() string {
	return fmt.Sprintf("invalid setting %s=%v (%s)", e.Field, e.Value, e.Rule)
}

// Validate checks the settings against the field rules.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &SettingsError{Field: fe.Field(), Rule: fe.Tag(), Value: fe.Value()}
	}
	return err
}
