package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/taxdesk/internal/client/export"
	"github.com/dmitrijs2005/taxdesk/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used only for decoding config files. Durations use
// timex.Duration so a file can say "3s" or give integer nanoseconds. Empty
// values leave the current setting alone.
type FileConfig struct {
	Endpoint       string           `json:"endpoint" yaml:"endpoint"`
	Token          string           `json:"token" yaml:"token"`
	RequestTimeout timex.Duration   `json:"request_timeout" yaml:"request_timeout"`
	LogLevel       string           `json:"log_level" yaml:"log_level"`
	LogFormat      string           `json:"log_format" yaml:"log_format"`
	Output         string           `json:"output" yaml:"output"`
	S3             *export.S3Config `json:"s3" yaml:"s3"`
}

// loadFile overlays c with the file at path. Files ending in .yaml or .yml
// are YAML; anything else is JSON.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&c.Endpoint, fc.Endpoint)
	setIf(&c.Token, fc.Token)
	setIf(&c.LogLevel, fc.LogLevel)
	setIf(&c.LogFormat, fc.LogFormat)
	setIf(&c.Output, fc.Output)
	if fc.RequestTimeout.Duration != 0 {
		c.RequestTimeout = fc.RequestTimeout.Duration
	}
	if s := fc.S3; s != nil {
		setIf(&c.S3.AccessKey, s.AccessKey)
		setIf(&c.S3.SecretKey, s.SecretKey)
		setIf(&c.S3.Bucket, s.Bucket)
		setIf(&c.S3.Region, s.Region)
		setIf(&c.S3.BaseEndpoint, s.BaseEndpoint)
	}
	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
