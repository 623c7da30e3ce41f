// Package sector provides the static per-sector economic and technical
// parameters, including marginal-abatement-cost measure catalogs.
package sector

import "log/slog"

// Sensitivity classifies how a sector responds to policy instruments.
type Sensitivity uint8

const (
	SensitivityTax     Sensitivity = iota // responds to carbon price
	SensitivitySubsidy                    // responds to investment subsidies only
)

// AbatementMeasure is one entry of a sector's MAC catalog.
type AbatementMeasure struct {
	Name         string
	MarginalCost float64 // $/ton CO₂ abated; negative means already profitable
	Potential    float64 // fractional emission reduction once complete
	Duration     int     // years to implement
}

// Profile holds the immutable parameters shared by all facilities of a sector.
// Measures are ordered; catalog order is the tie-break for equal-NPV choices.
type Profile struct {
	Name              string
	BaseEmission      float64 // Mt CO₂/yr, representative facility average
	ExportShare       float64 // probability a facility exports
	BorderEligible    bool    // covered by the EU border adjustment
	ShutdownCostLimit float64 // M$/yr carbon cost above which a facility closes
	InvestmentCost    float64 // M$ clean-technology CAPEX
	Sensitivity       Sensitivity
	Measures          []AbatementMeasure
}

// Registry maps sector names to profiles.
type Registry map[string]Profile

// Sector names used throughout the simulation.
const (
	Energy      = "energy"
	Industry    = "industry"
	Agriculture = "agriculture"
)

// DefaultRegistry returns the built-in sector catalog.
func DefaultRegistry() Registry {
	return Registry{
		Energy: {
			Name:              Energy,
			BaseEmission:      1.0,
			ExportShare:       0.05,
			BorderEligible:    false,
			ShutdownCostLimit: 90,
			InvestmentCost:    200,
			Sensitivity:       SensitivityTax,
			Measures: []AbatementMeasure{
				{Name: "energy_efficiency", MarginalCost: -15, Potential: 0.08, Duration: 2},
				{Name: "fuel_switching", MarginalCost: 35, Potential: 0.20, Duration: 3},
				{Name: "renewables", MarginalCost: 50, Potential: 0.35, Duration: 5},
			},
		},
		Industry: {
			Name:              Industry,
			BaseEmission:      0.75,
			ExportShare:       0.40,
			BorderEligible:    true,
			ShutdownCostLimit: 110,
			InvestmentCost:    250,
			Sensitivity:       SensitivityTax,
			Measures: []AbatementMeasure{
				{Name: "energy_efficiency", MarginalCost: -5, Potential: 0.10, Duration: 2},
				{Name: "process_improvement", MarginalCost: 25, Potential: 0.15, Duration: 3},
				{Name: "technology_switch", MarginalCost: 60, Potential: 0.30, Duration: 6},
			},
		},
		Agriculture: {
			Name:              Agriculture,
			BaseEmission:      0.3,
			ExportShare:       0.20,
			BorderEligible:    false,
			ShutdownCostLimit: 999, // agriculture is shielded from closure
			InvestmentCost:    300,
			Sensitivity:       SensitivitySubsidy,
			Measures: []AbatementMeasure{
				{Name: "fertilizer_optimization", MarginalCost: 10, Potential: 0.15, Duration: 1},
				{Name: "methane_capture", MarginalCost: 40, Potential: 0.25, Duration: 5},
			},
		},
	}
}

// Lookup returns the profile for a sector, falling back to the industry
// profile when the sector is unknown. The fallback is logged, not silent.
func (r Registry) Lookup(name string) Profile {
	if p, ok := r[name]; ok {
		return p
	}
	slog.Warn("unknown sector, using industry profile", "sector", name)
	return r[Industry]
}
