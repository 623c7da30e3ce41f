// Compliance monitor — probabilistic audits and penalty assessment.
package engine

import (
	"github.com/talgya/ets-sim/internal/agents"
	"github.com/talgya/ets-sim/internal/entropy"
)

// Audit parameters.
const (
	AuditProbability         = 0.20 // facilities audited per year
	NonComplianceProbability = 0.05 // under-reporting found per audit
	underReportLow           = 0.05 // fraction of emission under-reported
	underReportHigh          = 0.15
)

// ComplianceMonitor audits non-closed facilities at random each year and
// delivers penalty notices to offenders. No per-facility audit history is
// kept; every year starts fresh.
type ComplianceMonitor struct {
	PenaltyPrice float64 // $/ton under-reported

	Audits         int     // cumulative
	PenaltyRevenue float64 // M$, cumulative
	NonCompliant   int     // reset each step

	rng *entropy.Stream
}

// NewComplianceMonitor creates a monitor drawing from the shared stream.
func NewComplianceMonitor(penaltyPrice float64, rng *entropy.Stream) *ComplianceMonitor {
	return &ComplianceMonitor{PenaltyPrice: penaltyPrice, rng: rng}
}

// Step audits the facility roster. Penalties are delivered as notices to
// the facility inbox; the facility acts on them in its own step.
func (c *ComplianceMonitor) Step(facilities []*agents.Facility) {
	c.NonCompliant = 0

	for _, f := range facilities {
		if f.Status == agents.StatusClosed {
			continue
		}
		if !c.rng.Chance(AuditProbability) {
			continue
		}
		c.Audits++

		if !c.rng.Chance(NonComplianceProbability) {
			continue
		}
		c.NonCompliant++

		underReported := f.Emission * c.rng.Range(underReportLow, underReportHigh) // Mt
		penalty := underReported * c.PenaltyPrice                                  // M$
		c.PenaltyRevenue += penalty
		f.Deliver(agents.PenaltyNotice{Amount: penalty})
	}
}
