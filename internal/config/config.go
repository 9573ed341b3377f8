// Package config handles the ippi.toml configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"ippi/internal/stats"
	"ippi/pkg/source"
)

const FileName = "ippi.toml"

// Config represents an ippi.toml file. Command line flags override it.
type Config struct {
	Run    Run    `toml:"run"`
	Output Output `toml:"output"`
	Stats  Stats  `toml:"stats"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Run configures execution.
type Run struct {
	MaxSteps int    `toml:"max_steps"`
	Trace    bool   `toml:"trace"`
	Format   string `toml:"format"`
}

type Output struct {
	Color bool `toml:"color"`
}

// Stats configures the statistics file and the run history database.
type Stats struct {
	File    string   `toml:"file"`
	Metrics []string `toml:"metrics"`
	History string   `toml:"history"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Run:    Run{Format: "auto"},
		Output: Output{Color: true},
	}
}

// Load parses the configuration file at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for n, k := range undecoded {
			keys[n] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	c.Path = path
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// FindAndLoad walks up from startDir looking for ippi.toml. Without one it
// returns the defaults.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return Default(), nil
		}
		dir = parent
	}
}

// Validate checks values the TOML types cannot express.
func (c *Config) Validate() error {
	if c.Run.MaxSteps < 0 {
		return fmt.Errorf("run.max_steps must not be negative, got %d", c.Run.MaxSteps)
	}
	if _, err := source.ParseFormat(c.Run.Format); err != nil {
		return fmt.Errorf("run.format: %w", err)
	}
	if _, err := c.Metrics(); err != nil {
		return err
	}
	return nil
}

// Metrics returns the configured statistics in order.
func (c *Config) Metrics() ([]stats.Metric, error) {
	metrics := make([]stats.Metric, 0, len(c.Stats.Metrics))
	for _, name := range c.Stats.Metrics {
		m, err := stats.ParseMetric(name)
		if err != nil {
			return nil, fmt.Errorf("stats.metrics: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

// Format returns the configured source format.
func (c *Config) Format() source.Format {
	f, _ := source.ParseFormat(c.Run.Format)
	return f
}
