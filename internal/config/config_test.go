package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "CHAT_OUTBOUND", cfg.App.OutboundTopic)
	assert.Equal(t, "8090", cfg.App.HealthPort)
	assert.Equal(t, "https://data.gopher-ai.com/api/v1", cfg.Gopher.BaseURL)
	assert.Equal(t, 5, cfg.Gopher.MaxResults)
	assert.Equal(t, 10, cfg.Gopher.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Gopher.RetryDelay)
	assert.Equal(t, "memory", cfg.Session.Backend)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("GOPHER_MAX_RETRIES", "3")
	t.Setenv("GOPHER_RETRY_DELAY", "500ms")
	t.Setenv("SESSION_BACKEND", "redis")

	cfg := Load()

	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, 3, cfg.Gopher.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.Gopher.RetryDelay)
	assert.Equal(t, "redis", cfg.Session.Backend)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("GOPHER_MAX_RETRIES", "lots")
	t.Setenv("GOPHER_RETRY_DELAY", "soon")

	cfg := Load()

	assert.Equal(t, 10, cfg.Gopher.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Gopher.RetryDelay)
}
