package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/leadsession/internal/flagx"
	"github.com/dmitrijs2005/leadsession/internal/timex"
)

// JsonConfig is used only for unmarshalling; absent keys stay nil.
type JsonConfig struct {
	Addr                         *string         `json:"addr"`
	SecretKey                    *string         `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity"`
	SeedEmail                    *string         `json:"seed_email"`
	SeedPassword                 *string         `json:"seed_password"`
	SeedName                     *string         `json:"seed_name"`
	LogLevel                     *string         `json:"log_level"`
	LogBackend                   *string         `json:"log_backend"`
}

// parseJson overlays cfg with the file named by -c or -config, if any.
// Read and decode errors panic.
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

	setString(&cfg.Addr, jc.Addr)
	setString(&cfg.SecretKey, jc.SecretKey)
	if jc.AccessTokenValidityDuration != nil {
		cfg.AccessTokenValidityDuration = jc.AccessTokenValidityDuration.Duration
	}
	if jc.RefreshTokenValidityDuration != nil {
		cfg.RefreshTokenValidityDuration = jc.RefreshTokenValidityDuration.Duration
	}
	setString(&cfg.SeedEmail, jc.SeedEmail)
	setString(&cfg.SeedPassword, jc.SeedPassword)
	setString(&cfg.SeedName, jc.SeedName)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogBackend, jc.LogBackend)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
