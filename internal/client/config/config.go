// Package config holds settings for the authkeeper command-line client.
package config

import "time"

// Config holds runtime settings for the authkeeper CLI.
//
// Fields:
//   - ServerURL: base URL of the auth server HTTP API.
//   - TokenFile: where the access token is kept between invocations.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	ServerURL      string
	TokenFile      string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.TokenFile = ".authkeeper_token"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig applies defaults, then overlays values from JSON (if -c/-config
// is given) and command-line flags. It returns the remaining positional
// arguments, the first of which is the command to run.
func LoadConfig(args []string) (*Config, []string) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	rest := parseFlags(cfg, args)
	return cfg, rest
}
