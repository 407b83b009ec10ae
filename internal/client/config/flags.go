package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/leadsession/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-u string   backend base URL
//	-t int      request timeout (seconds)
//	-d string   SQLite database path
//	-l string   log level
//	-b string   log backend (slog, slog-json, zap, zerolog)
//	-s bool     single-flight refresh (use -s=false to disable)
//	-m string   metrics listen address
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-t", "-d", "-l", "-b", "-s", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "backend base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogBackend, "b", cfg.LogBackend, "log backend")
	fs.BoolVar(&cfg.SingleFlight, "s", cfg.SingleFlight, "share one refresh between concurrent calls")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
