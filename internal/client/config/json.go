package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/leadsession/internal/flagx"
	"github.com/dmitrijs2005/leadsession/internal/timex"
)

// JsonConfig is the on-disk shape. Pointers tell "absent" from "zero" so a
// file may set only some keys.
type JsonConfig struct {
	BaseURL        *string         `json:"base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	DatabasePath   *string         `json:"db_path"`
	LogLevel       *string         `json:"log_level"`
	LogBackend     *string         `json:"log_backend"`
	SingleFlight   *bool           `json:"single_flight"`
	MetricsAddr    *string         `json:"metrics_addr"`
}

// parseJson overlays cfg with the file named by -c or -config. Without
// either flag it does nothing. Read and decode errors panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != nil {
		cfg.BaseURL = *jc.BaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogBackend != nil {
		cfg.LogBackend = *jc.LogBackend
	}
	if jc.SingleFlight != nil {
		cfg.SingleFlight = *jc.SingleFlight
	}
	if jc.MetricsAddr != nil {
		cfg.MetricsAddr = *jc.MetricsAddr
	}
}
