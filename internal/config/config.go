// Package config loads application configuration from an optional YAML
// file, a .env file and TRIVIA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/trivia/internal/trivia"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TRIVIA"

// Config holds the resolved configuration.
type Config struct {
	Env      string   `mapstructure:"env" validate:"oneof=development production"`
	DBPath   string   `mapstructure:"db"`
	Log      Log      `mapstructure:"log"`
	Provider Provider `mapstructure:"provider"`
	Game     Game     `mapstructure:"game"`
	AI       AI       `mapstructure:"ai"`
	Metrics  Metrics  `mapstructure:"metrics"`
}

// Log configures the zap logger.
type Log struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File  string `mapstructure:"file"`
}

// Provider selects and tunes the question source.
type Provider struct {
	Source  string        `mapstructure:"source" validate:"oneof=opentdb ai"`
	BaseURL string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// Game holds the default settings and timings.
type Game struct {
	Category     string        `mapstructure:"category"`
	Difficulty   string        `mapstructure:"difficulty" validate:"oneof=easy medium hard"`
	Amount       int           `mapstructure:"amount" validate:"min=1,max=50"`
	Type         string        `mapstructure:"type" validate:"oneof=multiple boolean"`
	QuestionTime time.Duration `mapstructure:"question_time" validate:"gte=1s"`
	RevealDelay  time.Duration `mapstructure:"reveal_delay" validate:"gte=0"`
}

// AI configures the LLM question source.
type AI struct {
	Provider string `mapstructure:"provider" validate:"omitempty,oneof=anthropic openai gemini openrouter mock"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`

	AnthropicKey  string `mapstructure:"-"`
	OpenAIKey     string `mapstructure:"-"`
	GeminiKey     string `mapstructure:"-"`
	OpenRouterKey string `mapstructure:"-"`
}

// Metrics configures the Prometheus endpoint. Empty Addr disables it.
type Metrics struct {
	Addr string `mapstructure:"addr"`
}

// Settings returns the game defaults as a settings snapshot.
func (c *Config) Settings() trivia.Settings {
	return trivia.Settings{
		Category:   c.Game.Category,
		Difficulty: trivia.Difficulty(c.Game.Difficulty),
		Amount:     c.Game.Amount,
		Type:       trivia.AnswerType(c.Game.Type),
	}
}

// IsProduction reports whether Env is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("db", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("provider.source", "opentdb")
	v.SetDefault("provider.base_url", "https://opentdb.com")
	v.SetDefault("provider.timeout", "10s")
	v.SetDefault("game.category", "")
	v.SetDefault("game.difficulty", "medium")
	v.SetDefault("game.amount", 10)
	v.SetDefault("game.type", "multiple")
	v.SetDefault("game.question_time", "30s")
	v.SetDefault("game.reveal_delay", "2s")
	v.SetDefault("ai.provider", "")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("metrics.addr", "")
}

// Load resolves configuration. When file is empty the standard search
// paths are tried and a missing file is not an error.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, dir := range searchPaths() {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("ai.anthropic_key", "TRIVIA_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("ai.openai_key", "TRIVIA_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("ai.gemini_key", "TRIVIA_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("ai.openrouter_key", "TRIVIA_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.AI.AnthropicKey = v.GetString("ai.anthropic_key")
	cfg.AI.OpenAIKey = v.GetString("ai.openai_key")
	cfg.AI.GeminiKey = v.GetString("ai.gemini_key")
	cfg.AI.OpenRouterKey = v.GetString("ai.openrouter_key")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field rules and reports the first violation.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config %s=%v: failed %q", fe.Namespace(), fe.Value(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// searchPaths lists config directories in priority order:
// $XDG_CONFIG_HOME/trivia, ~/.config/trivia, ./config.
func searchPaths() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "trivia"))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "trivia"))
	}
	return append(dirs, "./config")
}
