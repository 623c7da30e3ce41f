// Package scenario defines the policy-scenario parameter set and the
// preset suite used for comparison runs.
package scenario

import "fmt"

// Schedule holds the emissions-trading-scheme timeline and price band.
// Years are calendar years; prices are $/ton CO₂.
type Schedule struct {
	StartYear    int     `yaml:"start_year"`
	PilotYear    int     `yaml:"pilot_year"`    // pilot scheme activates
	FullYear     int     `yaml:"full_year"`     // full implementation + auctioning
	FloorPrice   float64 `yaml:"floor_price"`
	CeilingPrice float64 `yaml:"ceiling_price"`
	PenaltyPrice float64 `yaml:"penalty_price"` // $/ton under-reported
}

// DefaultSchedule returns the 2025–2035 roadmap used by all presets.
func DefaultSchedule() Schedule {
	return Schedule{
		StartYear:    2025,
		PilotYear:    2026,
		FullYear:     2028,
		FloorPrice:   20,
		CeilingPrice: 150,
		PenaltyPrice: 100,
	}
}

// Params is the full configuration of one simulation run.
type Params struct {
	Name string `yaml:"name"`

	// Agent populations (fixed at initialization, no mid-run creation).
	EnergyFacilities      int `yaml:"energy_facilities"`
	IndustryFacilities    int `yaml:"industry_facilities"`
	AgricultureFacilities int `yaml:"agriculture_facilities"`
	Exporters             int `yaml:"exporters"`
	Households            int `yaml:"households"`
	Developers            int `yaml:"developers"`

	// Policy levers.
	InitialCap        float64 `yaml:"initial_cap"`         // Mt CO₂/yr
	CapReductionRate  float64 `yaml:"cap_reduction_rate"`  // fraction per year
	BorderPrice       float64 `yaml:"border_price"`        // $/ton, EU border adjustment
	SubsidyRate       float64 `yaml:"subsidy_rate"`        // $/MW renewable subsidy
	TaxEscalationRate float64 `yaml:"tax_escalation_rate"` // %/yr, reserved for tax scenarios

	// DisableScheme runs the scenario without the trading scheme ever
	// activating: no cap shrink, no allocation, zero carbon price. Used
	// by the business-as-usual baseline.
	DisableScheme bool `yaml:"disable_scheme"`

	Seed int64 `yaml:"seed"`
}

// Validate checks that the parameter set can drive a run.
func (p Params) Validate() error {
	if p.InitialCap <= 0 {
		return fmt.Errorf("scenario %q: initial cap must be positive, got %v", p.Name, p.InitialCap)
	}
	if p.CapReductionRate < 0 || p.CapReductionRate >= 1 {
		return fmt.Errorf("scenario %q: cap reduction rate must be in [0, 1), got %v", p.Name, p.CapReductionRate)
	}
	if p.EnergyFacilities < 0 || p.IndustryFacilities < 0 || p.AgricultureFacilities < 0 ||
		p.Exporters < 0 || p.Households < 0 || p.Developers < 0 {
		return fmt.Errorf("scenario %q: agent counts must be non-negative", p.Name)
	}
	return nil
}

// defaultPopulations fills the standard agent counts into p.
func defaultPopulations(p Params) Params {
	p.EnergyFacilities = 40
	p.IndustryFacilities = 30
	p.AgricultureFacilities = 30
	p.Exporters = 10
	p.Households = 50
	p.Developers = 15
	return p
}

// Presets returns the standard four-scenario suite, in comparison order.
// BAU runs first so reduction percentages can be computed against it.
func Presets(seed int64) []Params {
	return []Params{
		defaultPopulations(Params{
			Name:             "bau",
			InitialCap:       9999,
			CapReductionRate: 0,
			SubsidyRate:      0,
			BorderPrice:      0,
			DisableScheme:    true,
			Seed:             seed,
		}),
		defaultPopulations(Params{
			Name:             "soft_ets",
			InitialCap:       75,
			CapReductionRate: 0.02,
			SubsidyRate:      30000,
			BorderPrice:      60,
			Seed:             seed,
		}),
		defaultPopulations(Params{
			Name:             "strict_ets",
			InitialCap:       60,
			CapReductionRate: 0.04,
			SubsidyRate:      50000,
			BorderPrice:      90,
			Seed:             seed,
		}),
		defaultPopulations(Params{
			Name:             "ets_subsidy",
			InitialCap:       60,
			CapReductionRate: 0.04,
			SubsidyRate:      150000,
			BorderPrice:      90,
			Seed:             seed,
		}),
	}
}

// Preset returns the named preset, or false if no such preset exists.
func Preset(name string, seed int64) (Params, bool) {
	for _, p := range Presets(seed) {
		if p.Name == name {
			return p, true
		}
	}
	return Params{}, false
}
