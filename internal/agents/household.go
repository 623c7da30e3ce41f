// Household agent — price-elastic residential electricity emissions.
package agents

import (
	"math"

	"github.com/talgya/ets-sim/internal/entropy"
)

// GridEmissionFactor is the national average grid intensity in tCO₂/MWh.
const GridEmissionFactor = 0.442

// priceResponseReference is the carbon price ($/ton) at which the full
// elasticity applies.
const priceResponseReference = 100.0

// Bracket is a household income bracket, fixed at creation.
type Bracket uint8

const (
	BracketLow Bracket = iota
	BracketMid
	BracketHigh
)

// Per-bracket annual consumption ranges (kWh/yr) and price elasticities.
var (
	consumptionRanges = [3][2]float64{
		{1500, 2500}, // low
		{2500, 4000}, // mid
		{4000, 6000}, // high
	}
	elasticities = [3]float64{-0.6, -0.4, -0.25}
)

// Household consumes electricity and emits through the grid factor. Its
// effective consumption responds linearly to the carbon price, floored at
// half the baseline. Households never change status.
type Household struct {
	Region      string
	Bracket     Bracket
	Consumption float64 // kWh/yr, fixed at creation
	Elasticity  float64 // negative
	Emission    float64 // tCO₂/yr, recomputed each step
}

// NewHousehold draws a bracket uniformly and consumption from the
// bracket's range.
func NewHousehold(regionName string, rng *entropy.Stream) *Household {
	bracket := Bracket(rng.Pick(3))
	r := consumptionRanges[bracket]
	consumption := rng.Range(r[0], r[1])
	return &Household{
		Region:      regionName,
		Bracket:     bracket,
		Consumption: consumption,
		Elasticity:  elasticities[bracket],
		Emission:    consumption / 1000 * GridEmissionFactor,
	}
}

// Step recomputes emission from the current carbon price.
func (h *Household) Step(m *MarketState) {
	baseline := h.Consumption / 1000 * GridEmissionFactor
	if m.CarbonPrice <= 0 {
		h.Emission = baseline
		return
	}
	multiplier := math.Max(0.5, 1+h.Elasticity*(m.CarbonPrice/priceResponseReference))
	h.Emission = baseline * multiplier
}
