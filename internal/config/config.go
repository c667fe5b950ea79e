package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full process configuration, read from the environment
// once at startup. Company-specific behavior lives in the database policy
// column, not here.
type Config struct {
	ListenAddr  string
	DatabaseURL string

	TelegramBotToken string

	OpenAIAPIKey    string
	OpenAIModel     string
	NebiusAPIKey    string
	NebiusBaseURL   string
	NebiusModel     string
	AnthropicAPIKey string
	AnthropicModel  string

	// ProviderOrder lists provider ids in fallback order.
	ProviderOrder   []string
	ProviderTimeout time.Duration
	MaxTokens       int
	Temperature     float64
	ApologyText     string

	// UncertaintyPhrases overrides the built-in escalation phrase list
	// when non-empty.
	UncertaintyPhrases []string

	TranslateReplies bool

	LogLevel slog.Level
}

// Load reads the configuration from environment variables, applying
// defaults for everything except the two hard requirements: the database
// URL and the bot token.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:  envOr("LISTEN_ADDR", "0.0.0.0:8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     envOr("OPENAI_MODEL", "gpt-4o-mini"),
		NebiusAPIKey:    os.Getenv("NEBIUS_API_KEY"),
		NebiusBaseURL:   envOr("NEBIUS_BASE_URL", "https://api.studio.nebius.ai/v1"),
		NebiusModel:     envOr("NEBIUS_MODEL", "meta-llama/Meta-Llama-3.1-70B-Instruct"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),

		ProviderOrder:      splitList(envOr("PROVIDER_ORDER", "openai,nebius,anthropic")),
		ApologyText:        os.Getenv("APOLOGY_TEXT"),
		UncertaintyPhrases: splitList(os.Getenv("UNCERTAINTY_PHRASES")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	var err error
	if cfg.ProviderTimeout, err = envDuration("PROVIDER_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.MaxTokens, err = envInt("MAX_TOKENS", 500); err != nil {
		return nil, err
	}
	if cfg.Temperature, err = envFloat("TEMPERATURE", 0.7); err != nil {
		return nil, err
	}
	if cfg.TranslateReplies, err = envBool("TRANSLATE_REPLIES", false); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = ParseLogLevel(envOr("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseLogLevel maps a textual level to a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
