// Package config loads report settings from an optional YAML file.
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags that were explicitly set
//  2. The YAML config file (.testreport.yaml, or the path in --config / TEST_REPORT_CONFIG)
//  3. Hardcoded defaults
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chmouel/go-html-test-report/internal/badge"
	"github.com/chmouel/go-html-test-report/internal/generator"
)

const (
	DefaultPath   = ".testreport.yaml"
	DefaultInput  = "weekly_regression.txt"
	DefaultOutput = "test_report.html"

	// EnvPath overrides DefaultPath when --config is not given.
	EnvPath = "TEST_REPORT_CONFIG"
)

// Config holds every setting of a report run.
type Config struct {
	Input           string              `yaml:"input"`
	Output          string              `yaml:"output"`
	Title           string              `yaml:"title"`
	Footer          string              `yaml:"footer"`
	Badge           string              `yaml:"badge"`
	JSON            string              `yaml:"json"`
	Open            bool                `yaml:"open"`
	Resources       generator.Resources `yaml:"resources"`
	BadgeThresholds badge.Thresholds    `yaml:"badge_thresholds"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Input:           DefaultInput,
		Output:          DefaultOutput,
		Title:           generator.DefaultTitle,
		Footer:          generator.DefaultFooter,
		Resources:       generator.DefaultResources(),
		BadgeThresholds: badge.DefaultThresholds(),
	}
}

// ResolvePath returns the config file to read and whether the user asked for
// it explicitly.
func ResolvePath(flagPath string) (string, bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env, true
	}
	return DefaultPath, false
}

// Load reads path on top of the defaults. A missing file is only an error when
// explicit is true.
func Load(path string, explicit bool) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user supplied
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes on top of the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the report cannot use.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("input must not be empty")
	}
	if c.Output == "" {
		return errors.New("output must not be empty")
	}
	t := c.BadgeThresholds
	if t.Red < 0 || t.Yellow > 100 || t.Red > t.Yellow {
		return fmt.Errorf("invalid badge thresholds: red=%v yellow=%v (want 0 <= red <= yellow <= 100)", t.Red, t.Yellow)
	}
	return nil
}
