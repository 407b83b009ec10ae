package config

import "github.com/ilyakaznacheev/cleanenv"

// parseEnv overlays cfg with LEADSESSION_DEV_* variables.
func parseEnv(cfg *Config) {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		panic(err)
	}
}
