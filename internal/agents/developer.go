// Renewable project developer — NPV-driven capacity additions.
package agents

import (
	"math"

	"github.com/talgya/ets-sim/internal/entropy"
)

// Renewable revenue parameters.
const (
	EnergyPrice      = 80.0 // $/MWh wholesale
	AvoidedIntensity = 0.5  // tCO₂ avoided per MWh generated
	hoursPerYear     = 8760
)

// ProjectArchetype is a fixed renewable project template.
type ProjectArchetype struct {
	Kind           string
	CapacityMW     float64
	CostPerMW      float64 // $/MW CAPEX
	CapacityFactor float64
	LifeYears      int
}

// DefaultArchetypes returns the project templates evaluated every year.
func DefaultArchetypes() []ProjectArchetype {
	return []ProjectArchetype{
		{Kind: "solar", CapacityMW: 10, CostPerMW: 7e5, CapacityFactor: 0.18, LifeYears: 25},
		{Kind: "wind", CapacityMW: 20, CostPerMW: 1.2e6, CapacityFactor: 0.35, LifeYears: 25},
	}
}

// Project records one committed investment.
type Project struct {
	Kind       string
	CapacityMW float64
	Year       int
}

// Developer evaluates the archetype catalog each year and commits capital
// to every positive-NPV project it can afford. Rejected archetypes are
// re-evaluated every subsequent year; there is no rejection memory.
type Developer struct {
	Capital     float64 // $, never negative
	RiskPremium float64 // individual discount rate
	Projects    []Project
	InstalledMW float64

	archetypes []ProjectArchetype
}

// NewDeveloper draws capital and risk premium from their population ranges.
func NewDeveloper(rng *entropy.Stream) *Developer {
	return &Developer{
		Capital:     rng.Range(10e6, 100e6),
		RiskPremium: rng.Range(0.08, 0.15),
		archetypes:  DefaultArchetypes(),
	}
}

// Step evaluates every archetype against the current carbon price and
// subsidy rate, committing capital and adding capacity on positive NPV.
func (d *Developer) Step(m *MarketState) {
	for _, arch := range d.archetypes {
		capital := arch.CapacityMW * arch.CostPerMW
		if d.Capital < capital {
			continue
		}
		if d.projectNPV(arch, m.CarbonPrice, m.SubsidyRate) <= 0 {
			continue
		}

		d.Capital -= capital
		d.InstalledMW += arch.CapacityMW
		m.RenewableCapacity += arch.CapacityMW
		d.Projects = append(d.Projects, Project{
			Kind:       arch.Kind,
			CapacityMW: arch.CapacityMW,
			Year:       m.Year,
		})
	}
}

// projectNPV discounts energy, carbon, and subsidy revenue over the
// project life at the developer's individual risk premium.
func (d *Developer) projectNPV(arch ProjectArchetype, carbonPrice, subsidyRate float64) float64 {
	capital := arch.CapacityMW * arch.CostPerMW
	yearlyMWh := arch.CapacityMW * arch.CapacityFactor * hoursPerYear

	energyRevenue := yearlyMWh * EnergyPrice
	carbonRevenue := yearlyMWh * AvoidedIntensity * carbonPrice
	subsidyRevenue := subsidyRate * arch.CapacityMW
	yearlyRevenue := energyRevenue + carbonRevenue + subsidyRevenue

	npv := -capital
	for t := 1; t <= arch.LifeYears; t++ {
		npv += yearlyRevenue / math.Pow(1+d.RiskPremium, float64(t))
	}
	return npv
}
