// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package annotator

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixed file names, relative to the working directory.
const (
	DefaultOutputFile   = "processed_data.json"
	DefaultErrorLogFile = "errors.log"
)

// ConfigEnv names the environment variable that points the CLI at a
// configuration file. When unset, defaults are used.
const ConfigEnv = "ANNOTATE_CONFIG"

// LogConfig holds settings for the terminal log sink. The error log sink
// always records at error level.
type LogConfig struct {
	// LogLevel is the terminal threshold: debug, info, warn, or error
	// (default "info").
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the terminal handler: text or json (default "text").
	LogFormat string `yaml:"log_format"`

	// ErrorLogFile receives error-level records (default "errors.log").
	// Not settable from YAML.
	ErrorLogFile string `yaml:"-"`
}

// OutputConfig holds settings for the annotated document.
type OutputConfig struct {
	// Indent is the number of spaces per nesting level (default 2).
	Indent int `yaml:"indent"`

	// OutputFile is the best-effort copy of the document
	// (default "processed_data.json"). Not settable from YAML.
	OutputFile string `yaml:"-"`
}

// Config holds all annotator settings.
type Config struct {
	LogConfig    `yaml:",inline"`
	OutputConfig `yaml:",inline"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.ErrorLogFile == "" {
		c.ErrorLogFile = DefaultErrorLogFile
	}
	if c.Indent == 0 {
		c.Indent = 2
	}
	if c.OutputFile == "" {
		c.OutputFile = DefaultOutputFile
	}
}

// IndentString returns the per-level indent as spaces.
func (c *Config) IndentString() string {
	return strings.Repeat(" ", c.Indent)
}

func (c *Config) validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q: want debug, info, warn, or error", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format %q: want text or json", c.LogFormat)
	}
	if c.Indent < 1 || c.Indent > 8 {
		return fmt.Errorf("indent %d: want 1 to 8", c.Indent)
	}
	return nil
}

// LoadConfig reads a YAML configuration file, applies defaults, and
// validates the result. All failures wrap ErrConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: reading config file: %w", ErrConfig, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parsing config file: %w", ErrConfig, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrConfig, path, err)
	}
	return cfg, nil
}

// ConfigFromEnv loads the file named by ConfigEnv, or returns defaults
// when the variable is unset or empty.
func ConfigFromEnv() (Config, error) {
	path := os.Getenv(ConfigEnv)
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}
