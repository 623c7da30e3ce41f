package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/ets-sim/internal/entropy"
)

func TestHouseholdBaselineEmission(t *testing.T) {
	h := &Household{Consumption: 3000, Elasticity: -0.4}
	h.Step(testMarket(2025, 0))

	assert.InDelta(t, 3.0*GridEmissionFactor, h.Emission, 1e-12)
}

func TestHouseholdPriceResponse(t *testing.T) {
	h := &Household{Consumption: 2000, Elasticity: -0.6}
	baseline := 2.0 * GridEmissionFactor

	h.Step(testMarket(2028, 50))
	assert.InDelta(t, baseline*0.7, h.Emission, 1e-9)

	// Full elasticity at the reference price would cut 60%; the floor
	// holds the reduction at half the baseline.
	h.Step(testMarket(2029, 100))
	assert.InDelta(t, baseline*0.5, h.Emission, 1e-9)
}

func TestHouseholdFloorNeverUndershot(t *testing.T) {
	for _, bracket := range []Bracket{BracketLow, BracketMid, BracketHigh} {
		h := &Household{
			Consumption: consumptionRanges[bracket][1],
			Elasticity:  elasticities[bracket],
		}
		baseline := h.Consumption / 1000 * GridEmissionFactor
		h.Step(testMarket(2030, 150))
		assert.GreaterOrEqual(t, h.Emission, baseline*0.5-1e-12)
	}
}

func TestHouseholdResponseIsReversible(t *testing.T) {
	h := &Household{Consumption: 3000, Elasticity: -0.4}
	baseline := 3.0 * GridEmissionFactor

	h.Step(testMarket(2028, 100))
	assert.Less(t, h.Emission, baseline)

	h.Step(testMarket(2029, 0))
	assert.InDelta(t, baseline, h.Emission, 1e-12)
}

func TestNewHouseholdDrawsWithinBracketRange(t *testing.T) {
	rng := entropy.NewStream(11)
	for i := 0; i < 100; i++ {
		h := NewHousehold("Ankara", rng)
		r := consumptionRanges[h.Bracket]
		assert.GreaterOrEqual(t, h.Consumption, r[0])
		assert.Less(t, h.Consumption, r[1])
		assert.Equal(t, elasticities[h.Bracket], h.Elasticity)
		assert.InDelta(t, h.Consumption/1000*GridEmissionFactor, h.Emission, 1e-12)
	}
}
