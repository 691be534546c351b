// Package config loads the plotsense configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/njchilds90/plotsense/analysis"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Export modes.
const (
	ExportNone = "none"
	ExportCSV  = "csv"
)

// Config is the whole configuration file.
type Config struct {
	Analysis analysis.Config   `yaml:"analysis"`
	Interval analysis.Interval `yaml:"interval"`
	Output   OutputConfig      `yaml:"output"`
	Server   ServerConfig      `yaml:"server"`
}

// OutputConfig controls what the CLI writes besides the report.
type OutputConfig struct {
	Format   string `yaml:"format"`
	Export   string `yaml:"export"`
	ExportTo string `yaml:"export_dir"`
	PlotPath string `yaml:"plot"`
	Detailed bool   `yaml:"detailed"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// MaxBodyBytes caps request bodies on POST /analyze.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
	// RequestTimeout bounds one analysis request.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Analysis: analysis.DefaultConfig(),
		Interval: analysis.Interval{Min: -10, Max: 10},
		Output: OutputConfig{
			Format:   FormatText,
			Export:   ExportNone,
			ExportTo: ".",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxBodyBytes:   1 << 20,
			RequestTimeout: 30 * time.Second,
		},
	}
}

// Load reads path over the defaults. An empty path, or a file that does not
// exist, yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Analysis.Validate(); err != nil {
		return err
	}
	if err := c.Interval.Validate(); err != nil {
		return err
	}
	switch c.Output.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", c.Output.Format, FormatText, FormatJSON)
	}
	switch c.Output.Export {
	case ExportNone, ExportCSV:
	default:
		return fmt.Errorf("unknown export mode %q (want %s or %s)", c.Output.Export, ExportNone, ExportCSV)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive, got %s", c.Server.RequestTimeout)
	}
	return nil
}
