// Facility decision logic — allowance accounting, MAC/NPV abatement
// evaluation, and the Active/Transitioning/Clean/Closed lifecycle.
package agents

import (
	"math"

	"github.com/talgya/ets-sim/internal/entropy"
	"github.com/talgya/ets-sim/internal/sector"
)

// Financial parameters for the abatement NPV model.
const (
	DiscountRate    = 0.08 // incl. country risk premium
	EconomicHorizon = 10   // years
)

// Free-allocation fractions of baseline emission.
const (
	PilotAllocationShare = 1.0 // pilot period: 100% free
	FullAllocationShare  = 0.7 // full implementation: 70% free
)

// fallbackMeasure is started when a facility is forced to invest but no
// catalog measure clears the carbon price.
var fallbackMeasure = sector.AbatementMeasure{
	Name:      "general_improvement",
	Potential: 0.20,
	Duration:  3,
}

// Facility is an industrial emitter deciding each year between abating,
// waiting, and closing.
type Facility struct {
	ID     int
	Sector string
	Region string

	Profile sector.Profile

	// Emission state. InitialEmission never mutates after creation.
	Emission        float64 // Mt CO₂/yr
	InitialEmission float64

	Status     Status
	IsExporter bool // drawn at creation from the sector export share

	// Allowance ledger.
	FreeAllocation  float64 // tCO₂-equivalent share of baseline, recomputed yearly
	BankedAllowance float64 // accumulated surplus, never negative
	NetEmission     float64 // uncovered emission after allocation + bank, ≥ 0

	// Investment state; nil when no abatement action is in flight or done.
	Investment *Investment

	// Penalty state, set by draining the inbox, cleared when an
	// investment completes.
	PenaltyFlag   bool
	PenaltyAmount float64 // M$

	inbox []PenaltyNotice
}

// NewFacility creates a facility with heterogeneous emissions: the sector
// baseline scaled by a uniform draw and the regional coefficient.
func NewFacility(id int, profile sector.Profile, regionName string, coeff float64, rng *entropy.Stream) *Facility {
	emission := profile.BaseEmission * rng.Range(0.7, 1.3) * coeff
	return &Facility{
		ID:              id,
		Sector:          profile.Name,
		Region:          regionName,
		Profile:         profile,
		Emission:        emission,
		InitialEmission: emission,
		Status:          StatusActive,
		IsExporter:      rng.Chance(profile.ExportShare),
	}
}

// Deliver queues a penalty notice. The facility applies it on its next step.
func (f *Facility) Deliver(n PenaltyNotice) {
	f.inbox = append(f.inbox, n)
}

// PendingNotices returns the number of undelivered penalty notices.
func (f *Facility) PendingNotices() int {
	return len(f.inbox)
}

// Step runs one simulated year for the facility.
func (f *Facility) Step(m *MarketState) {
	if f.Status == StatusClosed {
		return
	}

	f.drainInbox()

	price := f.EffectivePrice(m)
	f.settleAllowances(m)

	// An in-flight investment blocks any further decision this year.
	if f.Investment != nil && f.Investment.RemainingYears > 0 {
		f.Investment.RemainingYears--
		if f.Investment.RemainingYears == 0 {
			f.completeInvestment()
		}
		return
	}

	if f.Status != StatusActive {
		return
	}

	best, invest, shut := f.decide(price, m)
	switch {
	case invest:
		f.beginInvestment(best, price)
	case shut:
		f.Status = StatusClosed
		f.Emission = 0
	}
}

// EffectivePrice is the carbon price the facility actually faces: border
// adjustment dominates for eligible exporters.
func (f *Facility) EffectivePrice(m *MarketState) float64 {
	if f.IsExporter && f.Profile.BorderEligible {
		return math.Max(m.CarbonPrice, m.BorderPrice)
	}
	return m.CarbonPrice
}

// drainInbox applies queued penalty notices to the penalty state.
func (f *Facility) drainInbox() {
	for _, n := range f.inbox {
		f.PenaltyFlag = true
		f.PenaltyAmount = n.Amount
	}
	f.inbox = f.inbox[:0]
}

// settleAllowances recomputes the yearly free allocation, banks any
// surplus, and draws the bank down against any deficit. Before the scheme
// starts there is nothing to settle.
func (f *Facility) settleAllowances(m *MarketState) {
	if !m.SchemeActive() {
		f.NetEmission = 0
		return
	}

	share := PilotAllocationShare
	if m.FullyImplemented() {
		share = FullAllocationShare
	}
	f.FreeAllocation = f.InitialEmission * share

	surplus := f.FreeAllocation - f.Emission
	if surplus > 0 {
		f.BankedAllowance += surplus
		f.NetEmission = 0
		return
	}

	deficit := -surplus
	fromBank := math.Min(deficit, f.BankedAllowance)
	f.BankedAllowance -= fromBank
	f.NetEmission = deficit - fromBank
}

// decide returns the chosen measure (nil for forced investments) and
// whether to invest or close. Priority: subsidy sensitivity, penalty
// compulsion, MAC/NPV evaluation, shutdown threshold.
func (f *Facility) decide(price float64, m *MarketState) (best *sector.AbatementMeasure, invest, shut bool) {
	// Subsidy-driven sectors ignore the carbon price entirely.
	if f.Profile.Sensitivity == sector.SensitivitySubsidy {
		if m.SubsidyRate >= f.Profile.InvestmentCost*0.6*1000 {
			return nil, true, false
		}
		return nil, false, false
	}

	// A standing penalty compels a compliance investment.
	if f.PenaltyFlag {
		return nil, true, false
	}

	if measure, npv := f.bestMeasure(price); npv > 0 {
		return measure, true, false
	}

	// Shutdown threshold: carbon cost on uncovered emission exceeds the
	// sector operating limit.
	if f.NetEmission > 0 {
		carbonCost := f.NetEmission * price // Mt × $/t = M$
		if carbonCost > f.Profile.ShutdownCostLimit {
			return nil, false, true
		}
	}
	return nil, false, false
}

// bestMeasure evaluates every catalog measure priced below the carbon
// price and returns the highest-NPV one. Strict comparison: the first
// catalog entry wins ties.
func (f *Facility) bestMeasure(price float64) (*sector.AbatementMeasure, float64) {
	bestNPV := math.Inf(-1)
	var best *sector.AbatementMeasure

	for i := range f.Profile.Measures {
		measure := &f.Profile.Measures[i]
		if measure.MarginalCost >= price {
			continue // costlier than paying for the emission
		}
		npv := f.measureNPV(measure, price)
		if npv > bestNPV {
			bestNPV = npv
			best = measure
		}
	}
	return best, bestNPV
}

// measureNPV discounts the carbon-cost savings of a measure over the
// economic horizon against its upfront cost. A negative marginal cost
// means the measure pays for itself; its upfront cost is zero.
func (f *Facility) measureNPV(measure *sector.AbatementMeasure, price float64) float64 {
	yearlyAbatement := f.Emission * measure.Potential // Mt/yr
	yearlySavings := yearlyAbatement * price * 1e6    // $

	cost := 0.0
	if measure.MarginalCost > 0 {
		cost = yearlyAbatement * measure.MarginalCost * 1e6
	}

	npv := -cost
	for t := 1; t <= EconomicHorizon; t++ {
		npv += yearlySavings / math.Pow(1+DiscountRate, float64(t))
	}
	return npv
}

// beginInvestment starts the chosen measure. Forced investments (penalty,
// subsidy) pass nil and fall back to the first affordable catalog measure,
// or a generic retrofit when nothing in the catalog clears the price.
func (f *Facility) beginInvestment(measure *sector.AbatementMeasure, price float64) {
	if measure == nil {
		for i := range f.Profile.Measures {
			if f.Profile.Measures[i].MarginalCost < price {
				measure = &f.Profile.Measures[i]
				break
			}
		}
	}
	if measure == nil {
		measure = &fallbackMeasure
	}

	f.Investment = &Investment{
		Measure:        measure.Name,
		RemainingYears: measure.Duration,
		Reduction:      measure.Potential,
	}
	f.Status = StatusTransitioning
}

// completeInvestment applies the measure's reduction permanently and
// clears any standing penalty.
func (f *Facility) completeInvestment() {
	f.Emission *= 1 - f.Investment.Reduction
	f.Status = StatusClean
	f.PenaltyFlag = false
	f.PenaltyAmount = 0
}
