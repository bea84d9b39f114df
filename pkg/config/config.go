package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

// Provider names accepted in IMAGE_API_PROVIDER.
const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
)

type Config struct {
	// HTTP listen address, e.g. ":8080"
	Address string `env:"ADDRESS" envDefault:":8080"`

	// Environment: "development" skips the manual trigger password gate.
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Image generation backend: "openai" or "openrouter".
	Provider string `env:"IMAGE_API_PROVIDER" envDefault:"openai"`

	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
	OpenRouterModel  string `env:"OPENROUTER_MODEL" envDefault:"openai/dall-e-3"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `env:"TELEGRAM_CHAT_ID"`

	// Password for manual HTTP triggers outside development.
	TriggerPassword string `env:"MANUAL_TRIGGER_PASSWORD"`

	// Cron expression (with seconds) for the scheduled post.
	PostSchedule string `env:"POST_SCHEDULE" envDefault:"0 0 9 * * *"`

	// How long the last generated image stays available over HTTP.
	ImageTTLSeconds int `env:"IMAGE_TTL_SECONDS" envDefault:"3600"`
}

// Load loads .env (if present) and parses environment variables into Config.
func Load() (Config, error) {
	// Load .env if available; ignore error if file does not exist
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsDevelopment reports whether the manual trigger password gate is disabled.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == ""
}

// ProviderAPIKey returns the API key matching the selected provider.
func (c Config) ProviderAPIKey() (string, error) {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return "", errors.New("OPENAI_API_KEY is empty")
		}
		return c.OpenAIAPIKey, nil
	case ProviderOpenRouter:
		if c.OpenRouterAPIKey == "" {
			return "", errors.New("OPENROUTER_API_KEY is empty")
		}
		return c.OpenRouterAPIKey, nil
	default:
		return "", fmt.Errorf("unknown image provider: %q", c.Provider)
	}
}

// ValidatePipeline checks the settings a pipeline run cannot start without.
// Validation happens at run time rather than at load time so the server can
// boot with partial configuration and report the error per activation.
func (c Config) ValidatePipeline() error {
	if c.TelegramBotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is empty")
	}
	if c.TelegramChatID == "" {
		return errors.New("TELEGRAM_CHAT_ID is empty")
	}
	if _, err := c.ProviderAPIKey(); err != nil {
		return err
	}
	return nil
}
