// Package config loads YAML scenario files layered over built-in defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/ets-sim/internal/scenario"
)

// Config holds everything a run needs beyond the compiled-in catalogs.
type Config struct {
	Scenario scenario.Params   `yaml:"scenario"`
	Schedule scenario.Schedule `yaml:"schedule"`
	Database DatabaseConfig    `yaml:"database"`
	Output   OutputConfig      `yaml:"output"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig configures CSV export.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the configuration used when no file is given: the
// strict-ETS preset with the standard schedule.
func Default() Config {
	params, _ := scenario.Preset("strict_ets", 42)
	return Config{
		Scenario: params,
		Schedule: scenario.DefaultSchedule(),
		Database: DatabaseConfig{Path: "data/ets.db"},
		Output:   OutputConfig{Dir: "output"},
	}
}

// Load reads a YAML config file over the defaults and validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Scenario.Validate(); err != nil {
		return cfg, err
	}
	if cfg.Schedule.PilotYear > cfg.Schedule.FullYear {
		return cfg, fmt.Errorf("pilot year %d after full implementation year %d",
			cfg.Schedule.PilotYear, cfg.Schedule.FullYear)
	}
	if cfg.Schedule.FloorPrice > cfg.Schedule.CeilingPrice {
		return cfg, fmt.Errorf("floor price %v above ceiling price %v",
			cfg.Schedule.FloorPrice, cfg.Schedule.CeilingPrice)
	}
	return cfg, nil
}
