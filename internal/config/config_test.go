package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/chatbot")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.ListenAddr)
	assert.Equal(t, []string{"openai", "nebius", "anthropic"}, cfg.ProviderOrder)
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 500, cfg.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
	assert.False(t, cfg.TranslateReplies)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.UncertaintyPhrases)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/db")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	_, err = Load()
	assert.ErrorContains(t, err, "TELEGRAM_BOT_TOKEN")
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PROVIDER_ORDER", "anthropic, openai")
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("MAX_TOKENS", "1000")
	t.Setenv("TRANSLATE_REPLIES", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("UNCERTAINTY_PHRASES", "не знаю, затрудняюсь ответить")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"anthropic", "openai"}, cfg.ProviderOrder)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 1000, cfg.MaxTokens)
	assert.True(t, cfg.TranslateReplies)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"не знаю", "затрудняюсь ответить"}, cfg.UncertaintyPhrases)
}

func TestLoadInvalidValues(t *testing.T) {
	setRequired(t)
	t.Setenv("MAX_TOKENS", "many")

	_, err := Load()
	assert.ErrorContains(t, err, "MAX_TOKENS")
}

func TestParseLogLevel(t *testing.T) {
	for input, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLogLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseLogLevel("loud")
	assert.Error(t, err)
}
