// Package persistence provides SQLite-based storage for scenario runs and
// the optional regional coefficient table.
package persistence

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/ets-sim/internal/engine"
	"github.com/talgya/ets-sim/internal/region"
	"github.com/talgya/ets-sim/internal/scenario"
)

// DB wraps a SQLite connection for run storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		seed INTEGER NOT NULL,
		years INTEGER NOT NULL,
		initial_cap REAL NOT NULL,
		cap_reduction_rate REAL NOT NULL,
		border_price REAL NOT NULL,
		subsidy_rate REAL NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_records (
		run_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		carbon_price REAL NOT NULL,
		total_emission REAL NOT NULL,
		active_facilities INTEGER NOT NULL,
		transitioning_facilities INTEGER NOT NULL,
		clean_facilities INTEGER NOT NULL,
		closed_facilities INTEGER NOT NULL,
		renewable_capacity_mw REAL NOT NULL,
		cap REAL NOT NULL,
		scenario TEXT NOT NULL,
		border_cost_total REAL NOT NULL,
		penalty_revenue_total REAL NOT NULL,
		exporter_facilities INTEGER NOT NULL,
		household_count INTEGER NOT NULL,
		household_emission REAL NOT NULL,
		PRIMARY KEY (run_id, year)
	);

	CREATE INDEX IF NOT EXISTS idx_run_records_run ON run_records(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RunMeta describes one stored run.
type RunMeta struct {
	ID        string `db:"id"`
	Scenario  string `db:"scenario"`
	Seed      int64  `db:"seed"`
	Years     int    `db:"years"`
	CreatedAt string `db:"created_at"`
}

// SaveRun stores run metadata and its full per-year series.
func (db *DB) SaveRun(runID string, params scenario.Params, series []engine.Record) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, scenario, seed, years, initial_cap, cap_reduction_rate, border_price, subsidy_rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, params.Name, params.Seed, len(series),
		params.InitialCap, params.CapReductionRate, params.BorderPrice, params.SubsidyRate,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", runID, err)
	}

	stmt, err := tx.Preparex(`INSERT INTO run_records
		(run_id, year, carbon_price, total_emission,
		 active_facilities, transitioning_facilities, clean_facilities, closed_facilities,
		 renewable_capacity_mw, cap, scenario,
		 border_cost_total, penalty_revenue_total,
		 exporter_facilities, household_count, household_emission)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range series {
		_, err := stmt.Exec(
			runID, r.Year, r.CarbonPrice, r.TotalEmission,
			r.ActiveFacilities, r.TransitioningFacilities, r.CleanFacilities, r.ClosedFacilities,
			r.RenewableCapacityMW, r.Cap, r.Scenario,
			r.BorderCostTotal, r.PenaltyRevenueTotal,
			r.ExporterFacilities, r.HouseholdCount, r.HouseholdEmission,
		)
		if err != nil {
			return fmt.Errorf("insert record %d/%d: %w", r.Year, len(series), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Info("run saved", "run_id", runID, "scenario", params.Name, "records", len(series))
	return nil
}

// LoadSeries returns the stored per-year series of a run.
func (db *DB) LoadSeries(runID string) ([]engine.Record, error) {
	var series []engine.Record
	err := db.conn.Select(&series, `SELECT
		year, carbon_price, total_emission,
		active_facilities, transitioning_facilities, clean_facilities, closed_facilities,
		renewable_capacity_mw, cap, scenario,
		border_cost_total, penalty_revenue_total,
		exporter_facilities, household_count, household_emission
		FROM run_records WHERE run_id = ? ORDER BY year`, runID)
	return series, err
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]RunMeta, error) {
	var runs []RunMeta
	err := db.conn.Select(&runs,
		"SELECT id, scenario, seed, years, created_at FROM runs ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	return runs, err
}

type coefficientRow struct {
	Region      string  `db:"region"`
	Energy      float64 `db:"energy"`
	Industry    float64 `db:"industry"`
	Agriculture float64 `db:"agriculture"`
}

// LoadRegionCoefficients reads the optional region_coefficients table.
// A missing table is not an error: the simulation falls back to uniform
// multipliers of 1.0.
func (db *DB) LoadRegionCoefficients() (region.Coefficients, error) {
	var rows []coefficientRow
	err := db.conn.Select(&rows, "SELECT region, energy, industry, agriculture FROM region_coefficients")
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			slog.Info("no region_coefficients table, using uniform multipliers")
			return nil, nil
		}
		return nil, fmt.Errorf("load region coefficients: %w", err)
	}

	coeffs := make(region.Coefficients, len(rows))
	for _, row := range rows {
		coeffs[row.Region] = map[string]float64{
			"energy":      row.Energy,
			"industry":    row.Industry,
			"agriculture": row.Agriculture,
		}
	}
	slog.Info("region coefficients loaded", "regions", len(coeffs))
	return coeffs, nil
}
