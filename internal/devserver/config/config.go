// Package config handles configuration for the development backend,
// including defaults, JSON overlay, environment and command-line flags.
package config

import "time"

// Config holds runtime settings for the development backend.
//
// Fields:
//   - Addr: HTTP listen address.
//   - SecretKey: HMAC secret for signing access tokens (HS256). Do not use the default outside development.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - SeedEmail / SeedPassword / SeedName: an admin account created on start; empty email skips it.
//   - LogLevel / LogBackend: see logging.New.
type Config struct {
	Addr                         string        `env:"LEADSESSION_DEV_ADDR"`
	SecretKey                    string        `env:"LEADSESSION_DEV_SECRET_KEY"`
	AccessTokenValidityDuration  time.Duration `env:"LEADSESSION_DEV_ACCESS_TTL"`
	RefreshTokenValidityDuration time.Duration `env:"LEADSESSION_DEV_REFRESH_TTL"`
	SeedEmail                    string        `env:"LEADSESSION_DEV_SEED_EMAIL"`
	SeedPassword                 string        `env:"LEADSESSION_DEV_SEED_PASSWORD"`
	SeedName                     string        `env:"LEADSESSION_DEV_SEED_NAME"`
	LogLevel                     string        `env:"LEADSESSION_DEV_LOG_LEVEL"`
	LogBackend                   string        `env:"LEADSESSION_DEV_LOG_BACKEND"`
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 1 * time.Minute
	c.RefreshTokenValidityDuration = 24 * time.Hour
	c.SeedEmail = "admin@example.com"
	c.SeedPassword = "admin"
	c.SeedName = "Admin"
	c.LogLevel = "info"
	c.LogBackend = "zap"
}

// LoadConfig builds a Config from defaults, then an optional JSON file, the
// environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
