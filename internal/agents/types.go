// Package agents provides the firm, household, and investor agents of the
// carbon-market simulation, plus the shared market state they step against.
package agents

// Status is the facility lifecycle state.
// Active → Transitioning → Clean, or Active → Closed. Closed is terminal.
type Status uint8

const (
	StatusActive        Status = iota
	StatusTransitioning        // abatement investment in progress
	StatusClean                // investment complete, emitting at reduced rate
	StatusClosed               // shut down, zero emissions, terminal
)

// StatusName returns a stable lowercase name for a status.
func StatusName(s Status) string {
	switch s {
	case StatusActive:
		return "active"
	case StatusTransitioning:
		return "transitioning"
	case StatusClean:
		return "clean"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// MarketState is the shared mutable state visible to every agent during a
// tick. The market operator writes CarbonPrice, project developers add to
// RenewableCapacity, everything else is set by the scheduler before agents
// run. Agents stepping earlier or later in the same shuffled tick may see
// pre- or post-mutation values; that ordering ambiguity is part of the model.
type MarketState struct {
	Year              int
	CarbonPrice       float64 // $/ton, written by the market operator
	BorderPrice       float64 // $/ton, EU border adjustment
	SubsidyRate       float64 // $/MW renewable subsidy
	RenewableCapacity float64 // MW, accumulated by project developers

	// Scheme timeline, fixed for the run.
	PilotYear int
	FullYear  int
}

// SchemeActive reports whether the trading scheme has started.
func (m *MarketState) SchemeActive() bool {
	return m.Year >= m.PilotYear
}

// FullyImplemented reports whether auctioning and reduced free allocation apply.
func (m *MarketState) FullyImplemented() bool {
	return m.Year >= m.FullYear
}

// Investment is a facility's single in-flight abatement action.
type Investment struct {
	Measure        string
	RemainingYears int
	Reduction      float64 // fraction applied to emission on completion
}

// PenaltyNotice is delivered by the compliance monitor to a facility's
// inbox. The facility applies it at the start of its own next step: a
// notice delivered before the facility runs in the same tick takes
// effect that tick, one delivered after waits a year.
type PenaltyNotice struct {
	Amount float64 // M$
}
