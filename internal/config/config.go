// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"ailab/internal/ai"
)

// DefaultCheckoutURL is the static payment link every product links to.
const DefaultCheckoutURL = "https://buy.stripe.com/test_4gM28r0k5dxs5JB6lq93y00"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Valkey (Redis-compatible cache). Optional; an empty host disables it.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// AI provider settings
	AIProvider string // "gemini", "openai", "claude"

	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	GeminiSpeechModel string

	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	OpenAISpeechModel string

	ClaudeAPIKey  string
	ClaudeModel   string
	ClaudeBaseURL string

	// Site behaviour
	SyncDelay     time.Duration
	StatsInterval time.Duration
	CheckoutURL   string
}

// Load reads an optional .env file outside production, then configuration
// from environment variables, applying defaults for development where
// appropriate. Returns an error if critical values are missing in
// production mode.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := loadDotEnv(".env"); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider: envOrDefault("AI_PROVIDER", "gemini"),

		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       envOrDefault("GEMINI_MODEL", "gemini-3-pro-preview"),
		GeminiBaseURL:     os.Getenv("GEMINI_BASE_URL"),
		GeminiSpeechModel: envOrDefault("GEMINI_TTS_MODEL", "gemini-2.5-flash-preview-tts"),

		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       envOrDefault("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL:     envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAISpeechModel: envOrDefault("OPENAI_TTS_MODEL", "gpt-4o-mini-tts"),

		ClaudeAPIKey:  os.Getenv("CLAUDE_API_KEY"),
		ClaudeModel:   envOrDefault("CLAUDE_MODEL", "claude-sonnet-4-5"),
		ClaudeBaseURL: envOrDefault("CLAUDE_BASE_URL", "https://api.anthropic.com"),

		CheckoutURL: envOrDefault("CHECKOUT_URL", DefaultCheckoutURL),
	}

	var err error
	if cfg.SyncDelay, err = durationOrDefault("SYNC_DELAY", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.StatsInterval, err = durationOrDefault("STATS_INTERVAL", 200*time.Millisecond); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.GeminiAPIKey == "" && cfg.OpenAIAPIKey == "" && cfg.ClaudeAPIKey == "" {
			return nil, fmt.Errorf("at least one of GEMINI_API_KEY, OPENAI_API_KEY, CLAUDE_API_KEY must be set in production")
		}
	}

	return cfg, nil
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil {
		slog.Debug("loaded env file", "path", path)
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// AIConfigs returns the per-provider settings for ai.NewRegistry.
func (c *Config) AIConfigs() map[string]ai.ProviderConfig {
	return map[string]ai.ProviderConfig{
		"gemini": {
			APIKey:      c.GeminiAPIKey,
			Model:       c.GeminiModel,
			BaseURL:     c.GeminiBaseURL,
			SpeechModel: c.GeminiSpeechModel,
		},
		"openai": {
			APIKey:      c.OpenAIAPIKey,
			Model:       c.OpenAIModel,
			BaseURL:     c.OpenAIBaseURL,
			SpeechModel: c.OpenAISpeechModel,
		},
		"claude": {
			APIKey:  c.ClaudeAPIKey,
			Model:   c.ClaudeModel,
			BaseURL: c.ClaudeBaseURL,
		},
	}
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UseValkey reports whether a Valkey host is configured.
func (c *Config) UseValkey() bool {
	return c.ValkeyHost != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// durationOrDefault parses a Go duration ("750ms", "2s") from the environment.
func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}
