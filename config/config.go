// Package config provides YAML configuration parsing for langprobe.
//
// The config file is optional; every field has a default and the CLI
// flags override whatever the file says.
//
// Example configuration:
//
//	base_url: https://docs.example.com
//	max_concurrency: 10
//	timeout: 5s
//	rate_limit: 20
//	supported_file: supported.txt
//	unsupported_file: unsupported.txt
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by [Parse] and [Default].
const (
	DefaultBaseURL        = "https://docs.example.com"
	DefaultMaxConcurrency = 10
	DefaultTimeout        = 5 * time.Second

	DefaultSupportedFile   = "supported.txt"
	DefaultUnsupportedFile = "unsupported.txt"
)

// minTimeout is the minimum allowed per-probe timeout when one is set.
// Sub-second timeouts flap on real documentation sites.
const minTimeout = 1 * time.Second

// Config is the root configuration structure for langprobe.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML, or [Default] for
// the built-in defaults.
type Config struct {
	// BaseURL is the documentation root the language codes are probed
	// against. Supports environment variable substitution: ${VAR} or
	// ${VAR:-default}.
	BaseURL string `yaml:"base_url"`

	// MaxConcurrency is the ceiling on concurrently executing probes.
	// Must be at least 1. Defaults to 10.
	MaxConcurrency int `yaml:"max_concurrency"`

	// Timeout is the per-probe request timeout.
	// Accepts duration strings like "5s", "1m", "1500ms". Defaults to 5s.
	Timeout Duration `yaml:"timeout"`

	// RateLimit caps dispatched probes per second. Zero means unpaced.
	RateLimit float64 `yaml:"rate_limit"`

	// SupportedFile is the append target for supported result lines.
	SupportedFile string `yaml:"supported_file"`

	// UnsupportedFile is the append target for unsupported result lines.
	UnsupportedFile string `yaml:"unsupported_file"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// already have an error, skip processing
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		// submatches[2] is ":-..." (non-empty if default syntax was used)
		// submatches[3] is the actual default value (may be empty for ${VAR:-})
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Default returns a Config with all defaults applied.
func Default() *Config {
	return &Config{
		BaseURL:         DefaultBaseURL,
		MaxConcurrency:  DefaultMaxConcurrency,
		Timeout:         Duration(DefaultTimeout),
		SupportedFile:   DefaultSupportedFile,
		UnsupportedFile: DefaultUnsupportedFile,
	}
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before validation.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Defaults are applied for every field not present in the data, then the
// result is validated.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate expands environment variables in the config and checks every
// field. Callers that override fields after [Load] (e.g. from CLI flags)
// should validate again.
func (c *Config) Validate() error {
	return c.expandAndValidate()
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	expanded, err := expandEnvVars(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	c.BaseURL = expanded

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if parsedURL.Scheme == "" {
		return fmt.Errorf("base_url must have a scheme (http:// or https://)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("base_url scheme must be http or https, got %q", parsedURL.Scheme)
	}

	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", c.MaxConcurrency)
	}

	if c.Timeout.Duration() < minTimeout {
		return fmt.Errorf("timeout must be at least %s, got %s", minTimeout, c.Timeout.Duration())
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit cannot be negative, got %v", c.RateLimit)
	}

	if c.SupportedFile == "" {
		return fmt.Errorf("supported_file cannot be empty")
	}
	if c.UnsupportedFile == "" {
		return fmt.Errorf("unsupported_file cannot be empty")
	}
	if c.SupportedFile == c.UnsupportedFile {
		return fmt.Errorf("supported_file and unsupported_file must differ, both are %q", c.SupportedFile)
	}

	return nil
}
