// Exporter facility — border-adjustment cost and export competitiveness.
package agents

import (
	"math"

	"github.com/talgya/ets-sim/internal/entropy"
	"github.com/talgya/ets-sim/internal/sector"
)

// Competitiveness degradation parameters.
const (
	competitivenessCostThreshold = 50  // M$ border cost at which degradation is measured
	competitivenessSlope         = 0.1 // index loss per threshold of border cost
	competitivenessFloor         = 0.3
)

// Exporter is a facility whose goods face a border carbon adjustment when
// sold abroad. It runs the border-cost accounting before deferring to the
// base facility decision step.
type Exporter struct {
	Facility

	ExportShare     float64 // fraction of output exported
	BorderCost      float64 // M$/yr, net of domestic carbon cost already paid
	Competitiveness float64 // index in [0.3, 1.0]
}

// NewExporter creates an exporting facility for the given sector.
func NewExporter(id int, profile sector.Profile, regionName string, coeff float64, rng *entropy.Stream) *Exporter {
	f := NewFacility(id, profile, regionName, coeff, rng)
	return &Exporter{
		Facility:        *f,
		ExportShare:     profile.ExportShare,
		Competitiveness: 1.0,
	}
}

// Step computes the border cost and competitiveness index, then runs the
// base facility step. The base step recomputes its own effective price;
// the two blended-price computations are intentionally kept independent so
// results line up with the reference model (see exporter tests).
func (e *Exporter) Step(m *MarketState) {
	if e.Status == StatusClosed {
		return
	}

	if e.IsExporter && e.Profile.BorderEligible {
		e.BorderCost = e.Emission * m.BorderPrice
		if m.CarbonPrice > 0 {
			// Domestic carbon cost already paid is deductible, capped
			// at the border cost itself.
			deductible := math.Min(e.BorderCost, e.Emission*m.CarbonPrice)
			e.BorderCost -= deductible
		}
		e.updateCompetitiveness()
	} else {
		e.BorderCost = 0
	}

	e.Facility.Step(m)
}

// updateCompetitiveness degrades the index linearly with border cost,
// floored at 0.3. Zero border cost restores full competitiveness.
func (e *Exporter) updateCompetitiveness() {
	if e.BorderCost > 0 {
		e.Competitiveness = math.Max(competitivenessFloor,
			1.0-(e.BorderCost/competitivenessCostThreshold)*competitivenessSlope)
	} else {
		e.Competitiveness = 1.0
	}
}
