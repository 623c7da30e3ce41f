// Package engine wires the agent roster together and runs the yearly
// simulation loop: one tick per simulated year, agents stepped in a
// freshly shuffled order every tick.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/talgya/ets-sim/internal/agents"
	"github.com/talgya/ets-sim/internal/entropy"
	"github.com/talgya/ets-sim/internal/region"
	"github.com/talgya/ets-sim/internal/scenario"
	"github.com/talgya/ets-sim/internal/sector"
)

// World holds the complete simulation state: shared market state, the
// fixed agent roster, and the collected per-year series.
type World struct {
	Params   scenario.Params
	Schedule scenario.Schedule
	Seed     int64

	Market agents.MarketState

	Operator *MarketOperator
	Monitor  *ComplianceMonitor

	Facilities []*agents.Facility // non-exporting industrial facilities
	Exporters  []*agents.Exporter
	Households []*agents.Household
	Developers []*agents.Developer

	Year   int
	Series []Record

	// Order decides the per-tick execution order; production runs use a
	// shuffle from the seeded stream, tests may pin a fixed order.
	Order entropy.OrderStrategy

	rng    *entropy.Stream
	roster []func()
}

// New builds a world from scenario parameters, the sector registry, and
// the (possibly empty) regional coefficient table. The population is
// created once here; no agent is created or destroyed mid-run.
func New(params scenario.Params, sched scenario.Schedule, registry sector.Registry, coeffs region.Coefficients) *World {
	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano() % 100000
	}
	rng := entropy.NewStream(seed)
	regions := coeffs.Regions()

	pilotYear, fullYear := sched.PilotYear, sched.FullYear
	if params.DisableScheme {
		// The scheme never activates: zero price, untouched cap.
		pilotYear = 1 << 30
		fullYear = 1 << 30
	}

	w := &World{
		Params:   params,
		Schedule: sched,
		Seed:     seed,
		Year:     sched.StartYear,
		Market: agents.MarketState{
			Year:        sched.StartYear,
			BorderPrice: params.BorderPrice,
			SubsidyRate: params.SubsidyRate,
			PilotYear:   pilotYear,
			FullYear:    fullYear,
		},
		Order: entropy.ShuffledOrder{Stream: rng},
		rng:   rng,
	}

	w.Operator = NewMarketOperator(params.InitialCap, params.CapReductionRate, sched)
	w.Monitor = NewComplianceMonitor(sched.PenaltyPrice, rng)

	nextID := 1
	spawn := func(sectorName string, count int, exporter bool) {
		profile := registry.Lookup(sectorName)
		for i := 0; i < count; i++ {
			reg := regions[rng.Pick(len(regions))]
			coeff := coeffs.For(reg, sectorName)
			if exporter {
				w.Exporters = append(w.Exporters, agents.NewExporter(nextID, profile, reg, coeff, rng))
			} else {
				w.Facilities = append(w.Facilities, agents.NewFacility(nextID, profile, reg, coeff, rng))
			}
			nextID++
		}
	}

	// Roster creation order is fixed; only execution order is shuffled.
	spawn(sector.Energy, params.EnergyFacilities, false)
	spawn(sector.Industry, params.IndustryFacilities, false)
	spawn(sector.Agriculture, params.AgricultureFacilities, false)
	spawn(sector.Industry, params.Exporters, true)

	for i := 0; i < params.Households; i++ {
		reg := regions[rng.Pick(len(regions))]
		w.Households = append(w.Households, agents.NewHousehold(reg, rng))
	}
	for i := 0; i < params.Developers; i++ {
		w.Developers = append(w.Developers, agents.NewDeveloper(rng))
	}

	w.buildRoster()
	return w
}

// buildRoster assembles the step closures in a fixed order. The shuffle
// applied each tick permutes indices into this slice.
func (w *World) buildRoster() {
	w.roster = append(w.roster, func() {
		w.Operator.Step(&w.Market, w.activeFacilityEmission())
	})
	w.roster = append(w.roster, func() {
		w.Monitor.Step(w.allFacilities())
	})
	for _, f := range w.Facilities {
		f := f
		w.roster = append(w.roster, func() { f.Step(&w.Market) })
	}
	for _, e := range w.Exporters {
		e := e
		w.roster = append(w.roster, func() { e.Step(&w.Market) })
	}
	for _, h := range w.Households {
		h := h
		w.roster = append(w.roster, func() { h.Step(&w.Market) })
	}
	for _, d := range w.Developers {
		d := d
		w.roster = append(w.roster, func() { d.Step(&w.Market) })
	}
}

// allFacilities returns every industrial facility, exporters included.
func (w *World) allFacilities() []*agents.Facility {
	all := make([]*agents.Facility, 0, len(w.Facilities)+len(w.Exporters))
	all = append(all, w.Facilities...)
	for _, e := range w.Exporters {
		all = append(all, &e.Facility)
	}
	return all
}

// activeFacilityEmission sums emissions over non-closed facilities.
// Households are excluded: the cap covers the industrial scheme only.
func (w *World) activeFacilityEmission() float64 {
	total := 0.0
	for _, f := range w.allFacilities() {
		if f.Status != agents.StatusClosed {
			total += f.Emission
		}
	}
	return total
}

// StepYear advances the simulation by one simulated year. The per-year
// record is collected before agents run, so row one is the untouched
// initial state.
func (w *World) StepYear() {
	w.Market.Year = w.Year

	switch {
	case w.Year == w.Market.PilotYear:
		slog.Info("pilot scheme activated", "year", w.Year, "cap", w.Operator.Cap)
	case w.Year == w.Market.FullYear:
		slog.Info("full implementation and auctioning active", "year", w.Year)
	}

	w.Series = append(w.Series, w.snapshot())

	for _, i := range w.Order.Order(len(w.roster)) {
		w.roster[i]()
	}

	slog.Debug("year complete",
		"year", w.Year,
		"carbon_price", w.Market.CarbonPrice,
		"cap", w.Operator.Cap,
		"renewable_mw", w.Market.RenewableCapacity,
	)
	w.Year++
}

// Run executes the given number of yearly ticks. On cancellation it
// returns the partial series collected so far along with the context
// error; the simulation itself never fails mid-tick.
func (w *World) Run(ctx context.Context, years int) ([]Record, error) {
	slog.Info("simulation starting",
		"scenario", w.Params.Name,
		"seed", w.Seed,
		"years", years,
		"facilities", len(w.Facilities)+len(w.Exporters),
		"households", len(w.Households),
		"developers", len(w.Developers),
	)

	for i := 0; i < years; i++ {
		select {
		case <-ctx.Done():
			slog.Warn("simulation cancelled", "completed_years", i)
			return w.Series, ctx.Err()
		default:
		}
		w.StepYear()
	}

	if len(w.Series) == 0 {
		slog.Info("simulation complete", "scenario", w.Params.Name, "years", 0)
		return w.Series, nil
	}

	last := w.Series[len(w.Series)-1]
	slog.Info("simulation complete",
		"scenario", w.Params.Name,
		"final_year", last.Year,
		"final_price", last.CarbonPrice,
		"final_emission", last.TotalEmission,
		"clean_facilities", last.CleanFacilities,
	)
	return w.Series, nil
}
