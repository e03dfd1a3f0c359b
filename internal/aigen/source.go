// Package aigen is a trivia.Source that asks an LLM for question batches.
// Categories come from the Open Trivia DB table so settings stay
// interchangeable between sources.
package aigen

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/trivia/internal/llm"
	"github.com/abhisek/trivia/internal/opentdb"
	"github.com/abhisek/trivia/internal/trivia"
)

// Config tunes generation.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig is used by New when cfg is zero.
func DefaultConfig() Config {
	return Config{MaxTokens: 4096, Temperature: 0.7}
}

// Source generates questions with an llm.Provider.
type Source struct {
	provider llm.Provider
	config   Config
}

var _ trivia.Source = (*Source)(nil)

func New(provider llm.Provider, cfg Config) *Source {
	if cfg.MaxTokens == 0 {
		cfg = DefaultConfig()
	}
	return &Source{provider: provider, config: cfg}
}

func (s *Source) Name() string {
	return "ai:" + s.provider.ModelID()
}

func (s *Source) ListCategories(context.Context) ([]trivia.Category, error) {
	return slices.Clone(opentdb.KnownCategories), nil
}

// FetchQuestions asks for settings.Amount questions. Malformed entries are
// dropped; a batch with none left reads as no matching questions.
func (s *Source) FetchQuestions(ctx context.Context, settings trivia.Settings) ([]trivia.Question, error) {
	cat, ok := opentdb.LookupCategory(settings.Category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q: %w", settings.Category, trivia.ErrNoMatchingQuestions)
	}

	req := llm.UserPrompt(systemPrompt, buildUserMessage(cat.Name, settings))
	req.Schema = BatchSchema
	req.MaxTokens = s.config.MaxTokens
	req.Temperature = s.config.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w: %w", trivia.ErrProviderUnavailable, err)
	}

	var out batchOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("decode questions: %w: %w", trivia.ErrProviderUnavailable, err)
	}

	questions := make([]trivia.Question, 0, len(out.Questions))
	seen := make(map[string]bool)
	for _, raw := range out.Questions {
		q := trivia.Question{
			Prompt:           strings.TrimSpace(raw.Question),
			Category:         cat.Name,
			Difficulty:       settings.Difficulty,
			Type:             settings.Type,
			CorrectAnswer:    strings.TrimSpace(raw.CorrectAnswer),
			IncorrectAnswers: trimAll(raw.IncorrectAnswers),
		}.Decoded()
		if !wellFormed(q) || seen[q.Prompt] {
			continue
		}
		seen[q.Prompt] = true
		questions = append(questions, q)
		if len(questions) == settings.Amount {
			break
		}
	}
	if len(questions) == 0 {
		return nil, trivia.ErrNoMatchingQuestions
	}
	return questions, nil
}

// wellFormed checks option counts for the question type and that no
// option is empty or repeated.
func wellFormed(q trivia.Question) bool {
	if q.Prompt == "" || q.CorrectAnswer == "" {
		return false
	}
	switch q.Type {
	case trivia.TypeBoolean:
		if len(q.IncorrectAnswers) != 1 {
			return false
		}
		pair := []string{q.CorrectAnswer, q.IncorrectAnswers[0]}
		slices.Sort(pair)
		if pair[0] != "False" || pair[1] != "True" {
			return false
		}
	default:
		if len(q.IncorrectAnswers) != 3 {
			return false
		}
	}
	seen := map[string]bool{q.CorrectAnswer: true}
	for _, a := range q.IncorrectAnswers {
		if a == "" || seen[a] {
			return false
		}
		seen[a] = true
	}
	return true
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
