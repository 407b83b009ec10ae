package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.BaseURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, "session.db", c.DatabasePath)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "slog", c.LogBackend)
	assert.True(t, c.SingleFlight)
	assert.Empty(t, c.MetricsAddr)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"base_url":        "http://from-json:1",
		"db_path":         "json.db",
		"request_timeout": "3s",
	})
	t.Setenv("LEADSESSION_DB_PATH", "env.db")
	t.Setenv("LEADSESSION_LOG_LEVEL", "debug")

	os.Args = []string{"testbin", "-c", path, "-l", "warn"}
	cfg := LoadConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "http://from-json:1", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "env.db", cfg.DatabasePath)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.SingleFlight)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8080", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}
