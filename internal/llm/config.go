package llm

import "fmt"

// defaultModels is used when Config.Model is empty.
var defaultModels = map[string]string{
	"anthropic":  "claude-haiku",
	"openai":     "gpt-4o-mini",
	"gemini":     "gemini-flash",
	"openrouter": "google/gemini-2.0-flash-001",
}

// Config selects a backend and carries the credentials for every backend.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "openrouter", "mock".
	Provider string
	Model    string
	BaseURL  string

	AnthropicKey  string
	OpenAIKey     string
	GeminiKey     string
	OpenRouterKey string
}

// BackendConfig is what a single backend constructor needs.
type BackendConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Backend resolves the key and model for the selected provider.
func (c Config) Backend() BackendConfig {
	b := BackendConfig{Model: c.Model, BaseURL: c.BaseURL}
	if b.Model == "" {
		b.Model = defaultModels[c.Provider]
	}
	switch c.Provider {
	case "anthropic":
		b.APIKey = c.AnthropicKey
	case "openai":
		b.APIKey = c.OpenAIKey
	case "gemini":
		b.APIKey = c.GeminiKey
	case "openrouter":
		b.APIKey = c.OpenRouterKey
	}
	return b
}

// Discover picks the first provider with a key set, in the order
// gemini, openai, anthropic, openrouter. It leaves c unchanged when a
// provider is already selected.
func (c Config) Discover() (Config, bool) {
	if c.Provider != "" {
		return c, true
	}
	for _, p := range []struct {
		name string
		key  string
	}{
		{"gemini", c.GeminiKey},
		{"openai", c.OpenAIKey},
		{"anthropic", c.AnthropicKey},
		{"openrouter", c.OpenRouterKey},
	} {
		if p.key != "" {
			c.Provider = p.name
			return c, true
		}
	}
	return c, false
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	switch c.Provider {
	case "mock":
		return nil
	case "anthropic", "openai", "gemini", "openrouter":
		if c.Backend().APIKey == "" {
			return fmt.Errorf("an API key is required for the %s provider", c.Provider)
		}
		return nil
	case "":
		return fmt.Errorf("no LLM provider configured and no API key found")
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}
