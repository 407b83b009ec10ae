package config

import (
	"time"

	"github.com/dmitrijs2005/leadsession/internal/common"
)

// Config holds runtime settings for the leadsession CLI.
//
// Fields:
//   - BaseURL: root of the backend REST API.
//   - RequestTimeout: bound on every outbound call, the refresh exchange included.
//   - DatabasePath: SQLite file holding the persisted refresh token.
//   - LogLevel / LogBackend: see logging.New.
//   - SingleFlight: share one refresh exchange between concurrent callers.
//   - MetricsAddr: when set, Prometheus metrics are served on this address.
type Config struct {
	BaseURL        string        `env:"LEADSESSION_BASE_URL"`
	RequestTimeout time.Duration `env:"LEADSESSION_REQUEST_TIMEOUT"`
	DatabasePath   string        `env:"LEADSESSION_DB_PATH"`
	LogLevel       string        `env:"LEADSESSION_LOG_LEVEL"`
	LogBackend     string        `env:"LEADSESSION_LOG_BACKEND"`
	SingleFlight   bool          `env:"LEADSESSION_SINGLE_FLIGHT"`
	MetricsAddr    string        `env:"LEADSESSION_METRICS_ADDR"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = common.DefaultRequestTimeout
	c.DatabasePath = "session.db"
	c.LogLevel = "info"
	c.LogBackend = "slog"
	c.SingleFlight = true
	c.MetricsAddr = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
