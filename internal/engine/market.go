// Market operator — cap trajectory and supply/demand price clearing.
package engine

import (
	"math"

	"github.com/talgya/ets-sim/internal/agents"
	"github.com/talgya/ets-sim/internal/scenario"
)

// AuctionShare is the fraction of the cap auctioned once the scheme is
// fully implemented.
const AuctionShare = 0.3

// MarketOperator shrinks the cap each active year and clears the carbon
// price from the ratio of aggregate facility emissions to the cap.
type MarketOperator struct {
	Cap           float64 // Mt CO₂/yr, non-increasing once the scheme is active
	ReductionRate float64 // fraction removed from the cap yearly

	Price        float64   // $/ton, last cleared price
	PriceHistory []float64 // append-only

	AuctionRevenue float64 // M$, cumulative once auctioning is active

	schedule scenario.Schedule
}

// NewMarketOperator creates an operator with the starting cap and the
// scheme schedule.
func NewMarketOperator(initialCap, reductionRate float64, sched scenario.Schedule) *MarketOperator {
	return &MarketOperator{
		Cap:           initialCap,
		ReductionRate: reductionRate,
		schedule:      sched,
	}
}

// Step shrinks the cap (once active), clears the price from the given
// aggregate active-facility emission, and publishes it into the shared
// market state. Degenerate inputs (zero cap, zero emission) clear to a
// zero price rather than erroring.
func (o *MarketOperator) Step(m *agents.MarketState, totalEmission float64) {
	if m.SchemeActive() {
		o.Cap *= 1 - o.ReductionRate
	}

	if m.SchemeActive() && o.Cap > 0 && totalEmission > 0 {
		o.Price = o.clearPrice(totalEmission / o.Cap)
	} else {
		o.Price = 0
	}

	m.CarbonPrice = o.Price
	o.PriceHistory = append(o.PriceHistory, o.Price)

	if m.FullyImplemented() && o.Price > 0 {
		o.AuctionRevenue += o.Cap * AuctionShare * o.Price
	}
}

// clearPrice maps the emission/cap ratio to a price: super-linear above
// the cap, sub-linear approach toward the floor below it, clamped to the
// floor/ceiling band.
func (o *MarketOperator) clearPrice(ratio float64) float64 {
	var price float64
	if ratio > 1 {
		price = o.schedule.FloorPrice * ratio * ratio
	} else {
		price = o.schedule.FloorPrice * math.Sqrt(ratio)
	}
	return math.Max(o.schedule.FloorPrice, math.Min(o.schedule.CeilingPrice, price))
}
