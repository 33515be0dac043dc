package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nilq/oelscript/compiler"
)

// Config holds the settings of the compile service.
type Config struct {
	Addr string `yaml:"addr"`
	// Target and Fold are the defaults; requests override them with the
	// target and fold query parameters.
	Target string `yaml:"target"`
	Fold   bool   `yaml:"fold"`
	// Lenient answers failed compiles with 200 and an empty body instead
	// of 422 and the rendered diagnostic.
	Lenient      bool  `yaml:"lenient"`
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
	CORS         CORS  `yaml:"cors"`
	// Environment is "local" or "production". Production never sends a
	// wildcard Access-Control-Allow-Origin.
	Environment string `yaml:"environment"`
}

// CORS holds the Access-Control-Allow-* response headers.
type CORS struct {
	AllowOrigin  string `yaml:"allow_origin"`
	AllowMethods string `yaml:"allow_methods"`
	AllowHeaders string `yaml:"allow_headers"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Addr:         "0.0.0.0:8080",
		Target:       compiler.JS.String(),
		MaxBodyBytes: 1 << 20,
		CORS: CORS{
			AllowOrigin:  "*",
			AllowMethods: "*",
			AllowHeaders: "*",
		},
		Environment: "local",
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over the defaults and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Environment == "production" && cfg.CORS.AllowOrigin == "*" {
		cfg.CORS.AllowOrigin = ""
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: addr is empty")
	}
	if _, err := compiler.ParseTarget(c.Target); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("config: max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	switch c.Environment {
	case "local", "production":
	default:
		return fmt.Errorf("config: unknown environment %q", c.Environment)
	}
	return nil
}
