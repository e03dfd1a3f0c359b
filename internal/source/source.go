package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/trivia/internal/aigen"
	"github.com/abhisek/trivia/internal/config"
	"github.com/abhisek/trivia/internal/llm"
	"github.com/abhisek/trivia/internal/metrics"
	"github.com/abhisek/trivia/internal/opentdb"
	"github.com/abhisek/trivia/internal/store"
	"github.com/abhisek/trivia/internal/trivia"
)

// New builds the source selected by cfg.Provider.Source and wraps it with
// WithLogging.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, repo store.RequestRepo, m *metrics.Metrics) (*LoggingSource, error) {
	var src trivia.Source
	switch cfg.Provider.Source {
	case "ai":
		lc, ok := LLMConfig(cfg).Discover()
		if !ok {
			return nil, fmt.Errorf("ai source: set ai.provider or an API key such as ANTHROPIC_API_KEY")
		}
		p, err := llm.NewProvider(ctx, lc, log)
		if err != nil {
			return nil, fmt.Errorf("ai source: %w", err)
		}
		src = aigen.New(p, aigen.Config{})
	default:
		src = opentdb.New(opentdb.Config{
			BaseURL: cfg.Provider.BaseURL,
			Timeout: cfg.Provider.Timeout,
		})
	}
	return WithLogging(src, log, repo, m), nil
}

// LLMConfig maps the ai section of the app config onto llm.Config.
func LLMConfig(cfg *config.Config) llm.Config {
	return llm.Config{
		Provider:      cfg.AI.Provider,
		Model:         cfg.AI.Model,
		BaseURL:       cfg.AI.BaseURL,
		AnthropicKey:  cfg.AI.AnthropicKey,
		OpenAIKey:     cfg.AI.OpenAIKey,
		GeminiKey:     cfg.AI.GeminiKey,
		OpenRouterKey: cfg.AI.OpenRouterKey,
	}
}
