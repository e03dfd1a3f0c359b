package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// NewProvider builds the configured backend wrapped with zap logging.
// The mock backend is returned bare.
func NewProvider(ctx context.Context, cfg Config, log *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Backend())
	case "openai":
		base, err = NewOpenAIProvider(cfg.Backend())
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.Backend())
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Backend())
	case "mock":
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return WithLogging(base, cfg.Provider, log), nil
}
