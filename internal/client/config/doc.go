// Package config loads runtime configuration for the leadsession CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. LEADSESSION_* environment variables.
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
// Durations may be strings like "10s" or integer nanoseconds:
//
//	{
//	  "base_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s",
//	  "db_path": "session.db",
//	  "log_level": "info",
//	  "log_backend": "slog",
//	  "single_flight": true,
//	  "metrics_addr": ":9091"
//	}
package config
