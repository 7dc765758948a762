package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/taxdesk/internal/flagx"
	"github.com/dmitrijs2005/taxdesk/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Intervals use
// timex.Duration so both "1s" and integer nanoseconds are accepted. Pointer
// fields distinguish "absent" from a zero value.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   *string        `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	ShutdownTimeout             timex.Duration `json:"shutdown_timeout"`
	RateLimitRPS                *float64       `json:"rate_limit_rps"`
	RateLimitBurst              *int           `json:"rate_limit_burst"`
	SeedDemoData                *bool          `json:"seed_demo_data"`
	LogLevel                    string         `json:"log_level"`
	LogFormat                   string         `json:"log_format"`
}

// parseJson overlays values from the JSON file named by -c/-config (or
// $TAXDESK_CONFIG) onto config. Absent keys keep their current value.
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.RateLimitRPS != nil {
		config.RateLimitRPS = *c.RateLimitRPS
	}
	if c.RateLimitBurst != nil {
		config.RateLimitBurst = *c.RateLimitBurst
	}
	if c.SeedDemoData != nil {
		config.SeedDemoData = *c.SeedDemoData
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.LogFormat != "" {
		config.LogFormat = c.LogFormat
	}
}
