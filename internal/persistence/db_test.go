package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/ets-sim/internal/engine"
	"github.com/talgya/ets-sim/internal/scenario"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleSeries() []engine.Record {
	return []engine.Record{
		{Year: 2025, Scenario: "strict_ets", Cap: 60, ActiveFacilities: 110,
			ExporterFacilities: 10, HouseholdCount: 50, TotalEmission: 81.5, HouseholdEmission: 61.2},
		{Year: 2026, Scenario: "strict_ets", Cap: 57.6, CarbonPrice: 38.58,
			ActiveFacilities: 96, TransitioningFacilities: 14,
			ExporterFacilities: 10, HouseholdCount: 50, TotalEmission: 79.3, HouseholdEmission: 60.1,
			RenewableCapacityMW: 120, PenaltyRevenueTotal: 8.4},
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	db := openTestDB(t)
	params, _ := scenario.Preset("strict_ets", 42)

	require.NoError(t, db.SaveRun("run-1", params, sampleSeries()))

	loaded, err := db.LoadSeries("run-1")
	require.NoError(t, err)
	assert.Equal(t, sampleSeries(), loaded)
}

func TestSaveRunRejectsDuplicateID(t *testing.T) {
	db := openTestDB(t)
	params, _ := scenario.Preset("strict_ets", 42)

	require.NoError(t, db.SaveRun("run-1", params, sampleSeries()))
	assert.Error(t, db.SaveRun("run-1", params, sampleSeries()))
}

func TestListRuns(t *testing.T) {
	db := openTestDB(t)
	strict, _ := scenario.Preset("strict_ets", 42)
	bau, _ := scenario.Preset("bau", 42)

	require.NoError(t, db.SaveRun("run-a", strict, sampleSeries()))
	require.NoError(t, db.SaveRun("run-b", bau, nil))

	runs, err := db.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	names := map[string]string{}
	for _, r := range runs {
		names[r.ID] = r.Scenario
	}
	assert.Equal(t, "strict_ets", names["run-a"])
	assert.Equal(t, "bau", names["run-b"])

	limited, err := db.ListRuns(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestLoadSeriesUnknownRunIsEmpty(t *testing.T) {
	db := openTestDB(t)
	series, err := db.LoadSeries("ghost")
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestLoadRegionCoefficientsMissingTable(t *testing.T) {
	db := openTestDB(t)
	coeffs, err := db.LoadRegionCoefficients()
	require.NoError(t, err)
	assert.Nil(t, coeffs)
}

func TestLoadRegionCoefficients(t *testing.T) {
	db := openTestDB(t)
	_, err := db.conn.Exec(`CREATE TABLE region_coefficients (
		region TEXT PRIMARY KEY,
		energy REAL NOT NULL,
		industry REAL NOT NULL,
		agriculture REAL NOT NULL
	)`)
	require.NoError(t, err)
	_, err = db.conn.Exec(`INSERT INTO region_coefficients VALUES
		('Zonguldak', 1.3, 1.1, 0.9),
		('Izmir', 0.9, 1.0, 1.1)`)
	require.NoError(t, err)

	coeffs, err := db.LoadRegionCoefficients()
	require.NoError(t, err)
	require.Len(t, coeffs, 2)
	assert.Equal(t, 1.3, coeffs.For("Zonguldak", "energy"))
	assert.Equal(t, 0.9, coeffs.For("Izmir", "energy"))
	assert.Equal(t, 1.0, coeffs.For("Ankara", "industry"), "missing region defaults to unity")
}
