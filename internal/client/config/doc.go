// Package config loads runtime configuration for the taxdesk terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file given by --config or $TAXDESK_CONFIG. Files ending
//     in .yaml/.yml are decoded with gopkg.in/yaml.v3, others as JSON.
//  3. Environment: TAXDESK_ENDPOINT, TAXDESK_TOKEN.
//  4. Command-line flags, applied by the cli package.
//
// # File schema
//
//	endpoint: http://127.0.0.1:8080/api
//	token: eyJhbGciOi...
//	request_timeout: 5s
//	log_level: info
//	log_format: json
//	output: table
//	s3:
//	  bucket: exports
//	  base_endpoint: http://127.0.0.1:9000/
package config
