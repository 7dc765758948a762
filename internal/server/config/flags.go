package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/taxdesk/internal/flagx"
)

// serverFlags lists every flag parseFlags understands.
var serverFlags = []string{"-a", "-d", "-s", "-t", "-l", "-b", "-seed", "-log-level", "-log-format"}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string          HTTP bind address (e.g., ":8080")
//	-d string          PostgreSQL DSN, or "memory"
//	-s string          bearer token HMAC secret; empty disables auth
//	-t int             issued token validity, minutes
//	-l float           rate limit, requests per second per client
//	-b int             rate limit burst
//	-seed bool         seed demo data into an empty store
//	-log-level string  debug, info, warn or error
//	-log-format string text or json
//
// os.Args is first filtered with flagx.FilterArgs so flags owned by other
// loaders (-c, -issue-token) do not make parsing fail.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.Float64Var(&config.RateLimitRPS, "l", config.RateLimitRPS, "rate limit, requests per second")
	fs.IntVar(&config.RateLimitBurst, "b", config.RateLimitBurst, "rate limit burst")
	fs.BoolVar(&config.SeedDemoData, "seed", config.SeedDemoData, "seed demo data when the store is empty")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format (text|json)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
}
