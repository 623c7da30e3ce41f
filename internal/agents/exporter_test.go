package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/ets-sim/internal/sector"
)

func testExporter(emission float64) *Exporter {
	f := testFacility(industryProfile(), emission)
	f.IsExporter = true
	return &Exporter{
		Facility:        *f,
		ExportShare:     f.Profile.ExportShare,
		Competitiveness: 1.0,
	}
}

func TestBorderCostNetsDomesticCarbonCost(t *testing.T) {
	e := testExporter(1.0)

	m := testMarket(2028, 40)
	m.BorderPrice = 90
	e.Step(m)

	// Gross border cost 90, deductible 40 already paid at home.
	assert.InDelta(t, 50.0, e.BorderCost, 1e-9)
	assert.InDelta(t, 0.9, e.Competitiveness, 1e-9)
}

func TestFullDeductionRestoresCompetitiveness(t *testing.T) {
	e := testExporter(1.0)

	m := testMarket(2028, 120)
	m.BorderPrice = 90
	e.Step(m)

	assert.Zero(t, e.BorderCost)
	assert.Equal(t, 1.0, e.Competitiveness)
}

func TestCompetitivenessFloor(t *testing.T) {
	e := testExporter(5.0)

	m := testMarket(2028, 0)
	m.BorderPrice = 90
	e.Step(m)

	assert.InDelta(t, 450.0, e.BorderCost, 1e-9)
	assert.Equal(t, 0.3, e.Competitiveness)
}

func TestNonExportingFacilityPaysNoBorderCost(t *testing.T) {
	e := testExporter(1.0)
	e.IsExporter = false
	e.BorderCost = 42 // stale value from a previous year

	m := testMarket(2028, 0)
	m.BorderPrice = 90
	e.Step(m)

	assert.Zero(t, e.BorderCost)
}

func TestBorderPriceDrivesAbatementDecision(t *testing.T) {
	// With a zero domestic price the border adjustment is both the full
	// export cost and the effective price of the base decision step. The
	// two are computed independently: BorderCost from gross emission,
	// the decision from the blended price.
	e := testExporter(1.0)

	m := testMarket(2028, 0)
	m.BorderPrice = 90
	e.Step(m)

	assert.InDelta(t, 90.0, e.BorderCost, 1e-9)
	require.NotNil(t, e.Investment)
	assert.Equal(t, "technology_switch", e.Investment.Measure)
	assert.Equal(t, StatusTransitioning, e.Status)
}

func TestClosedExporterSkipsBorderAccounting(t *testing.T) {
	e := testExporter(1.0)
	e.Status = StatusClosed
	e.Emission = 0
	e.BorderCost = 17

	m := testMarket(2028, 0)
	m.BorderPrice = 90
	e.Step(m)

	assert.Equal(t, 17.0, e.BorderCost, "closed facilities freeze their state")
	assert.Equal(t, StatusClosed, e.Status)
}

func TestIneligibleSectorExporter(t *testing.T) {
	profile := sector.DefaultRegistry().Lookup(sector.Energy)
	f := testFacility(profile, 1.0)
	f.IsExporter = true
	e := &Exporter{Facility: *f, Competitiveness: 1.0}

	m := testMarket(2028, 0)
	m.BorderPrice = 90
	e.Step(m)

	assert.Zero(t, e.BorderCost)
	assert.Equal(t, 1.0, e.Competitiveness)
}
