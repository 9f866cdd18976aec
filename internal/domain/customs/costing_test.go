package customs

import (
	"testing"

	"github.com/gestora/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeclaration(t *testing.T) *CustomsDeclaration {
	t.Helper()
	rate, err := valueobject.NewExchangeRateFromString("7.80000")
	require.NoError(t, err)
	decl, err := NewCustomsDeclaration(uuid.New(), "DI-2026-00001", "Pacific Trading Co", rate)
	require.NoError(t, err)
	return decl
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestComputeCosting_ProportionalAllocation(t *testing.T) {
	decl := newTestDeclaration(t)

	rate, _ := valueobject.NewExchangeRateFromString("7.80000")
	err := decl.UpdateFactors(rate,
		decimal.NewFromInt(1000), // freight
		decimal.NewFromInt(200),  // insurance
		decimal.Zero,             // vat credit
		decimal.NewFromInt(500),  // other local expenses
	)
	require.NoError(t, err)

	itemA, err := decl.AddItem(nil, "WID-A", "Widget A", 10, decimal.NewFromInt(50), decimal.NewFromInt(5))
	require.NoError(t, err)
	itemB, err := decl.AddItem(nil, "WID-B", "Widget B", 5, decimal.NewFromInt(100), decimal.NewFromInt(10))
	require.NoError(t, err)

	result, err := decl.ComputeCosting()
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	byID := make(map[uuid.UUID]ItemCosting)
	for _, c := range result.Items {
		byID[c.ItemID] = c
	}

	a := byID[itemA.ID]
	assert.True(t, a.FOBTotal.Equal(decimal.NewFromInt(500)), "FOB total A: %s", a.FOBTotal)
	assert.Equal(t, "0.5", a.Factor.String())
	assert.Equal(t, "500.00", a.FreightShare.StringFixed(2))
	assert.Equal(t, "100.00", a.InsuranceShare.StringFixed(2))
	assert.Equal(t, "1100.00", a.CIFForeign.StringFixed(2))
	assert.Equal(t, "8580.00", a.CIFLocal.StringFixed(2))
	assert.Equal(t, "429.00", a.DutyLocal.StringFixed(2))
	assert.Equal(t, "250.00", a.OtherAllocated.StringFixed(2))
	assert.Equal(t, "9259.00", a.LandedTotal.StringFixed(2))
	assert.Equal(t, "925.90", a.LandedUnitCost.StringFixed(2))

	b := byID[itemB.ID]
	assert.Equal(t, "8580.00", b.CIFLocal.StringFixed(2))
	assert.Equal(t, "858.00", b.DutyLocal.StringFixed(2))
	assert.Equal(t, "9688.00", b.LandedTotal.StringFixed(2))
	assert.Equal(t, "1937.60", b.LandedUnitCost.StringFixed(2))

	assert.Equal(t, "18947.00", result.TotalLandedCost.StringFixed(2))
	assert.Equal(t, "17160.00", result.TotalCIFLocal.StringFixed(2))
	assert.Equal(t, "1287.00", result.TotalDutyLocal.StringFixed(2))
	assert.Equal(t, "500.00", result.TotalOther.StringFixed(2))
}

func TestComputeCosting_ZeroFOBTotal(t *testing.T) {
	decl := newTestDeclaration(t)

	rate, _ := valueobject.NewExchangeRateFromString("7.80000")
	require.NoError(t, decl.UpdateFactors(rate,
		decimal.NewFromInt(1000), decimal.NewFromInt(200), decimal.Zero, decimal.NewFromInt(500)))

	_, err := decl.AddItem(nil, "SAMPLE-1", "Free sample", 100, decimal.Zero, decimal.NewFromInt(5))
	require.NoError(t, err)

	result, err := decl.ComputeCosting()
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	c := result.Items[0]
	assert.True(t, c.Factor.IsZero())
	assert.True(t, c.LandedTotal.IsZero())
	assert.True(t, c.LandedUnitCost.IsZero())
	assert.True(t, result.TotalLandedCost.IsZero())
}

func TestComputeCosting_NoItems(t *testing.T) {
	decl := newTestDeclaration(t)
	_, err := decl.ComputeCosting()
	assert.Error(t, err)
}

func TestComputeCosting_RoundingReconciliation(t *testing.T) {
	decl := newTestDeclaration(t)

	rate, _ := valueobject.NewExchangeRateFromString("7.80000")
	require.NoError(t, decl.UpdateFactors(rate,
		mustDecimal(t, "1000.00"), mustDecimal(t, "333.33"), decimal.Zero, mustDecimal(t, "99.99")))

	// Three items with awkward thirds so per-item rounding actually drifts
	_, err := decl.AddItem(nil, "P-1", "Part one", 3, mustDecimal(t, "33.33"), decimal.NewFromInt(5))
	require.NoError(t, err)
	_, err = decl.AddItem(nil, "P-2", "Part two", 7, mustDecimal(t, "14.29"), decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = decl.AddItem(nil, "P-3", "Part three", 11, mustDecimal(t, "9.09"), decimal.NewFromInt(15))
	require.NoError(t, err)

	result, err := decl.ComputeCosting()
	require.NoError(t, err)

	// Independent declaration-level total: CIF converted plus duty plus other
	totalFOB := decl.TotalFOB()
	cifForeign := totalFOB.Add(mustDecimal(t, "1000.00")).Add(mustDecimal(t, "333.33"))
	independentCIF := cifForeign.Mul(decl.ExchangeRate).Round(2)

	drift := result.TotalCIFLocal.Sub(independentCIF).Abs()
	tolerance := ReconciliationTolerance(len(result.Items))
	assert.True(t, drift.LessThanOrEqual(tolerance),
		"CIF drift %s exceeds tolerance %s", drift, tolerance)
}

func TestCostingResult_SortedByFOBDesc(t *testing.T) {
	decl := newTestDeclaration(t)

	rate, _ := valueobject.NewExchangeRateFromString("7.80000")
	require.NoError(t, decl.UpdateFactors(rate,
		decimal.NewFromInt(1000), decimal.NewFromInt(200), decimal.Zero, decimal.NewFromInt(500)))

	// Added smallest FOB first so the sort has work to do
	_, err := decl.AddItem(nil, "WID-A", "Widget A", 10, decimal.NewFromInt(50), decimal.NewFromInt(5))
	require.NoError(t, err)
	_, err = decl.AddItem(nil, "WID-B", "Widget B", 5, decimal.NewFromInt(200), decimal.NewFromInt(10))
	require.NoError(t, err)

	result, err := decl.ComputeCosting()
	require.NoError(t, err)

	sorted := result.SortedByFOBDesc()
	require.Len(t, sorted, 2)
	assert.Equal(t, "WID-B", sorted[0].ProductCode)
	assert.Equal(t, "WID-A", sorted[1].ProductCode)
	assert.True(t, sorted[0].FOBTotal.GreaterThan(sorted[1].FOBTotal))

	// The result itself keeps declaration order
	assert.Equal(t, "WID-A", result.Items[0].ProductCode)
}

func TestReconciliationTolerance(t *testing.T) {
	assert.Equal(t, "0.02", ReconciliationTolerance(2).StringFixed(2))
	assert.Equal(t, "0.10", ReconciliationTolerance(10).StringFixed(2))
}

func TestSnapshotCosting_RequiresLiquidation(t *testing.T) {
	decl := newTestDeclaration(t)
	_, err := decl.AddItem(nil, "WID-A", "Widget A", 1, decimal.NewFromInt(10), decimal.Zero)
	require.NoError(t, err)

	_, err = decl.SnapshotCosting()
	assert.Error(t, err)
}

func TestCosting_UsesSnapshotAfterLiquidation(t *testing.T) {
	decl := newTestDeclaration(t)

	rate, _ := valueobject.NewExchangeRateFromString("7.80000")
	require.NoError(t, decl.UpdateFactors(rate,
		decimal.NewFromInt(1000), decimal.NewFromInt(200), decimal.Zero, decimal.NewFromInt(500)))
	_, err := decl.AddItem(nil, "WID-A", "Widget A", 10, decimal.NewFromInt(50), decimal.NewFromInt(5))
	require.NoError(t, err)

	require.NoError(t, decl.Submit())
	require.NoError(t, decl.Liquidate())

	result, err := decl.Costing()
	require.NoError(t, err)

	// Tamper with a live factor; the frozen snapshot must not move
	decl.FreightValue = decimal.NewFromInt(99999)

	frozen, err := decl.Costing()
	require.NoError(t, err)
	assert.True(t, frozen.TotalLandedCost.Equal(result.TotalLandedCost))
}
