// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// MemoryDSN selects the in-memory store instead of PostgreSQL.
const MemoryDSN = "memory"

// Config holds runtime settings for the taxdesk record-store server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx), or "memory".
//   - SecretKey: HMAC secret for bearer tokens (HS256). Empty disables auth.
//   - AccessTokenValidityDuration: lifetime of tokens minted by -issue-token.
//   - RateLimitRPS / RateLimitBurst: per-client token bucket; RPS <= 0 disables it.
//   - SeedDemoData: populate an empty store with demo countries and records.
//   - LogLevel / LogFormat: slog handler settings.
type Config struct {
	EndpointAddrHTTP            string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	ShutdownTimeout             time.Duration
	RateLimitRPS                float64
	RateLimitBurst              int
	SeedDemoData                bool
	LogLevel                    string
	LogFormat                   string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = MemoryDSN
	c.SecretKey = ""
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.ShutdownTimeout = 5 * time.Second
	c.RateLimitRPS = 20
	c.RateLimitBurst = 40
	c.SeedDemoData = true
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// UseMemory reports whether the in-memory store is configured.
func (c *Config) UseMemory() bool {
	return c.DatabaseDSN == "" || c.DatabaseDSN == MemoryDSN
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
