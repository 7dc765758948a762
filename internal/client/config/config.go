package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/dmitrijs2005/taxdesk/internal/client/export"
)

// Environment variables read by Load.
const (
	EnvEndpoint = "TAXDESK_ENDPOINT"
	EnvToken    = "TAXDESK_TOKEN"
)

// Output formats for one-shot commands.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the taxdesk terminal client.
//
// Fields:
//   - Endpoint: base URL of the record store API, e.g. http://localhost:8080/api.
//   - Token: bearer token sent with every request; empty sends none.
//   - RequestTimeout: per-request limit for the HTTP client; zero disables it.
//   - LogLevel / LogFormat: slog level name and "text" or "json".
//   - Output: "table" or "json" for one-shot commands.
//   - S3: export target used by "export --s3".
type Config struct {
	Endpoint       string
	Token          string
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
	Output         string
	S3             export.S3Config
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.Endpoint = "http://127.0.0.1:8080/api"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.Output = OutputTable
	c.S3 = export.S3Config{
		AccessKey:    "admin",
		SecretKey:    "secretpassword",
		Bucket:       "exports",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000/",
	}
}

// Load builds a Config from defaults, then the file at path (if any), then
// the environment. Command-line flags are applied by the caller afterwards.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.loadEnv(os.Getenv)
	return cfg, nil
}

func (c *Config) loadEnv(getenv func(string) string) {
	if v := getenv(EnvEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := getenv(EnvToken); v != "" {
		c.Token = v
	}
}

// Validate checks the fields that cannot be fixed up later.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: endpoint %q", ErrInvalidConfig, c.Endpoint)
	}
	if c.Output != OutputTable && c.Output != OutputJSON {
		return fmt.Errorf("%w: output %q", ErrInvalidConfig, c.Output)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("%w: negative request timeout", ErrInvalidConfig)
	}
	return nil
}
