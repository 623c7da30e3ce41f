// Per-year metrics collection and the tabular export contract.
package engine

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/talgya/ets-sim/internal/agents"
)

// Record is one row of the per-scenario time series. Column names are a
// stable contract with downstream reporting consumers; changing them
// breaks dashboards.
type Record struct {
	Year                    int     `json:"year" db:"year"`
	CarbonPrice             float64 `json:"carbon_price" db:"carbon_price"`
	TotalEmission           float64 `json:"total_emission" db:"total_emission"`
	ActiveFacilities        int     `json:"active_facilities" db:"active_facilities"`
	TransitioningFacilities int     `json:"transitioning_facilities" db:"transitioning_facilities"`
	CleanFacilities         int     `json:"clean_facilities" db:"clean_facilities"`
	ClosedFacilities        int     `json:"closed_facilities" db:"closed_facilities"`
	RenewableCapacityMW     float64 `json:"renewable_capacity_mw" db:"renewable_capacity_mw"`
	Cap                     float64 `json:"cap" db:"cap"`
	Scenario                string  `json:"scenario" db:"scenario"`
	BorderCostTotal         float64 `json:"border_cost_total" db:"border_cost_total"`
	PenaltyRevenueTotal     float64 `json:"penalty_revenue_total" db:"penalty_revenue_total"`
	ExporterFacilities      int     `json:"exporter_facilities" db:"exporter_facilities"`
	HouseholdCount          int     `json:"household_count" db:"household_count"`
	HouseholdEmission       float64 `json:"household_emission" db:"household_emission"`
}

// Columns lists the CSV/table column names in export order.
func Columns() []string {
	return []string{
		"year", "carbon_price", "total_emission",
		"active_facilities", "transitioning_facilities", "clean_facilities", "closed_facilities",
		"renewable_capacity_mw", "cap", "scenario",
		"border_cost_total", "penalty_revenue_total",
		"exporter_facilities", "household_count", "household_emission",
	}
}

func (r Record) row() []string {
	f := func(v float64) string { return fmt.Sprintf("%g", v) }
	return []string{
		fmt.Sprintf("%d", r.Year), f(r.CarbonPrice), f(r.TotalEmission),
		fmt.Sprintf("%d", r.ActiveFacilities), fmt.Sprintf("%d", r.TransitioningFacilities),
		fmt.Sprintf("%d", r.CleanFacilities), fmt.Sprintf("%d", r.ClosedFacilities),
		f(r.RenewableCapacityMW), f(r.Cap), r.Scenario,
		f(r.BorderCostTotal), f(r.PenaltyRevenueTotal),
		fmt.Sprintf("%d", r.ExporterFacilities), fmt.Sprintf("%d", r.HouseholdCount),
		f(r.HouseholdEmission),
	}
}

// WriteCSV writes a series with the contract header.
func WriteCSV(out io.Writer, series []Record) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range series {
		if err := cw.Write(r.row()); err != nil {
			return fmt.Errorf("write row %d: %w", r.Year, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// snapshot captures the current world state as one record.
func (w *World) snapshot() Record {
	r := Record{
		Year:                w.Year,
		CarbonPrice:         w.Market.CarbonPrice,
		RenewableCapacityMW: w.Market.RenewableCapacity,
		Cap:                 w.Operator.Cap,
		Scenario:            w.Params.Name,
		PenaltyRevenueTotal: w.Monitor.PenaltyRevenue,
		ExporterFacilities:  len(w.Exporters),
		HouseholdCount:      len(w.Households),
	}

	for _, f := range w.allFacilities() {
		switch f.Status {
		case agents.StatusActive:
			r.ActiveFacilities++
		case agents.StatusTransitioning:
			r.TransitioningFacilities++
		case agents.StatusClean:
			r.CleanFacilities++
		case agents.StatusClosed:
			r.ClosedFacilities++
		}
		if f.Status != agents.StatusClosed {
			r.TotalEmission += f.Emission
		}
	}

	for _, e := range w.Exporters {
		r.BorderCostTotal += e.BorderCost
	}

	for _, h := range w.Households {
		r.HouseholdEmission += h.Emission
		r.TotalEmission += h.Emission
	}

	return r
}
