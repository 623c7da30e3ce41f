package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "strict_ets", cfg.Scenario.Name)
	assert.Equal(t, int64(42), cfg.Scenario.Seed)
	assert.Equal(t, 2026, cfg.Schedule.PilotYear)
	assert.Equal(t, "data/ets.db", cfg.Database.Path)
	assert.Equal(t, "output", cfg.Output.Dir)
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := writeConfig(t, `
scenario:
  name: custom
  initial_cap: 45
  seed: 7
database:
  path: /tmp/custom.db
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.Scenario.Name)
	assert.Equal(t, 45.0, cfg.Scenario.InitialCap)
	assert.Equal(t, int64(7), cfg.Scenario.Seed)
	assert.Equal(t, "/tmp/custom.db", cfg.Database.Path)

	// Untouched keys keep their defaults.
	assert.Equal(t, 0.04, cfg.Scenario.CapReductionRate)
	assert.Equal(t, 150.0, cfg.Schedule.CeilingPrice)
	assert.Equal(t, "output", cfg.Output.Dir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "scenario: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidScenario(t *testing.T) {
	path := writeConfig(t, `
scenario:
  initial_cap: -5
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvertedSchedule(t *testing.T) {
	path := writeConfig(t, `
schedule:
  pilot_year: 2030
  full_year: 2028
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pilot year")

	path = writeConfig(t, `
schedule:
  floor_price: 200
`)
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floor price")
}
