package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AIML_MODEL", "gemma-3")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":5000", cfg.Server.Addr)
	require.Equal(t, 10, cfg.Server.RateLimit)
	require.Equal(t, "gemma-3", cfg.AI.Model)
	require.Equal(t, []string{"gemma-3"}, cfg.AI.AllowedModels)
	require.Equal(t, 20*time.Second, cfg.AI.Timeout)
	require.Equal(t, 25*time.Minute, cfg.Chat.SessionTTL)
	require.Equal(t, 3, cfg.Chat.HistoryWindow)
	require.Equal(t, 2000, cfg.Chat.MaxMessageLength)
	require.InDelta(t, 0.4, cfg.Chat.FAQThreshold, 0.0001)
}

func TestLoadRequiresModel(t *testing.T) {
	t.Setenv("AIML_MODEL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadAllowedModelsCSV(t *testing.T) {
	t.Setenv("AIML_MODEL", "gemma-3")
	t.Setenv("ALLOW_MODELS", "gemma-3, mistral-7b ,llama-3")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"gemma-3", "mistral-7b", "llama-3"}, cfg.AI.AllowedModels)
}

func TestLoadTimeoutFormats(t *testing.T) {
	t.Setenv("AIML_MODEL", "gemma-3")

	t.Setenv("REQUEST_TIMEOUT", "40")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 40*time.Second, cfg.AI.Timeout)

	t.Setenv("REQUEST_TIMEOUT", "40s")
	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, 40*time.Second, cfg.AI.Timeout)

	t.Setenv("REQUEST_TIMEOUT", "banana")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	t.Setenv("AIML_MODEL", "gemma-3")
	t.Setenv("FAQ_THRESHOLD", "1.5")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadPortVariants(t *testing.T) {
	t.Setenv("AIML_MODEL", "gemma-3")

	t.Setenv("PORT", "8080")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.Addr)

	t.Setenv("PORT", "127.0.0.1:8080")
	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
}
