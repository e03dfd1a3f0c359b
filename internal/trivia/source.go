package trivia

import (
	"context"
	"errors"
)

var (
	// ErrProviderUnavailable means a category or question fetch failed at
	// the transport or parse level.
	ErrProviderUnavailable = errors.New("question provider unavailable")

	// ErrNoMatchingQuestions means the provider answered but has no
	// questions for the requested filter combination.
	ErrNoMatchingQuestions = errors.New("no questions match the requested settings")
)

// Source supplies categories and question batches.
type Source interface {
	// ListCategories returns every selectable category.
	ListCategories(ctx context.Context) ([]Category, error)

	// FetchQuestions returns a batch sized by settings.Amount. Returned
	// questions are decoded but carry no Options yet.
	FetchQuestions(ctx context.Context, settings Settings) ([]Question, error)

	// Name identifies the source in logs and the request log.
	Name() string
}
