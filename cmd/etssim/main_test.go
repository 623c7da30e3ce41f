package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/ets-sim/internal/config"
	"github.com/talgya/ets-sim/internal/engine"
	"github.com/talgya/ets-sim/internal/persistence"
	"github.com/talgya/ets-sim/internal/scenario"
)

func testEnv(t *testing.T) (config.Config, *persistence.DB) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Database.Path = filepath.Join(dir, "test.db")
	cfg.Output.Dir = filepath.Join(dir, "output")

	db, err := persistence.Open(cfg.Database.Path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return cfg, db
}

func TestExecuteRunRejectsNonPositiveYears(t *testing.T) {
	cfg, db := testEnv(t)
	params, _ := scenario.Preset("bau", 1)

	flagYears = 0
	defer func() { flagYears = 11 }()

	_, err := executeRun(context.Background(), cfg, params, db, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "years must be positive")
}

func TestExecuteRunCancelledBeforeFirstTick(t *testing.T) {
	cfg, db := testEnv(t)
	params, _ := scenario.Preset("bau", 1)

	flagYears = 3
	defer func() { flagYears = 11 }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	series, err := executeRun(ctx, cfg, params, db, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, series)
}

func TestSaveResultsSurfacesExportFailure(t *testing.T) {
	cfg, db := testEnv(t)

	// A plain file where the output directory should go makes MkdirAll fail.
	blocking := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocking, []byte("x"), 0o644))
	cfg.Output.Dir = blocking

	params, _ := scenario.Preset("bau", 1)
	err := saveResults(cfg, params, db, []engine.Record{{Year: 2025, Scenario: "bau"}})
	assert.Error(t, err)
}
