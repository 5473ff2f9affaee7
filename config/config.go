// Package config provides configuration loading and access for the observation tools.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Obs       ObsConfig       `yaml:"obs"`
	Match     MatchConfig     `yaml:"match"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ObsConfig selects the observation schema.
type ObsConfig struct {
	Variant      string `yaml:"variant"`       // advanced | padded
	MaxTeammates int    `yaml:"max_teammates"` // padded only
	MaxOpponents int    `yaml:"max_opponents"` // padded only
}

// MatchConfig holds match driving parameters.
type MatchConfig struct {
	Scenario string `yaml:"scenario"`  // Scenario YAML path (empty = built-in kickoff)
	TickRate int    `yaml:"tick_rate"` // Simulation ticks per second
	TickSkip int    `yaml:"tick_skip"` // Ticks stepped between observations
	Ticks    int    `yaml:"ticks"`     // Observations to build
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"` // Ticks in the rolling perf window
	LogEvery   int `yaml:"log_every"`   // Log perf stats every N ticks (0 = never)
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT       float64    // Seconds per observation step: TickSkip / TickRate
	LogLevel slog.Level // Parsed Logging.Level
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Match.TickRate <= 0 {
		return fmt.Errorf("match.tick_rate must be positive, got %d", c.Match.TickRate)
	}
	if c.Match.TickSkip <= 0 {
		return fmt.Errorf("match.tick_skip must be positive, got %d", c.Match.TickSkip)
	}
	if c.Match.Ticks < 0 {
		return fmt.Errorf("match.ticks must not be negative, got %d", c.Match.Ticks)
	}
	if c.Obs.MaxTeammates < 0 || c.Obs.MaxOpponents < 0 {
		return fmt.Errorf("obs slot counts must not be negative")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.DT = float64(c.Match.TickSkip) / float64(c.Match.TickRate)
	if err := c.Derived.LogLevel.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
