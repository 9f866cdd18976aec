package customs

import (
	"sort"

	"github.com/gestora/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ItemCosting is the per-item landed cost breakdown, all local currency
// figures rounded to 2 decimal places except the allocation factor, which
// keeps full precision.
type ItemCosting struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductCode string          `json:"product_code"`
	Quantity    int64           `json:"quantity"`
	FOBTotal    decimal.Decimal `json:"fob_total"` // Foreign currency
	Factor      decimal.Decimal `json:"factor"`    // Share of total FOB, unrounded

	FreightShare   decimal.Decimal `json:"freight_share"`   // Foreign currency
	InsuranceShare decimal.Decimal `json:"insurance_share"` // Foreign currency
	CIFForeign     decimal.Decimal `json:"cif_foreign"`     // Foreign currency
	CIFLocal       decimal.Decimal `json:"cif_local"`
	DutyLocal      decimal.Decimal `json:"duty_local"`
	OtherAllocated decimal.Decimal `json:"other_allocated"`
	LandedTotal    decimal.Decimal `json:"landed_total"`
	LandedUnitCost decimal.Decimal `json:"landed_unit_cost"`
}

// CostingResult is the declaration-level proration output
type CostingResult struct {
	DeclarationID    uuid.UUID       `json:"declaration_id"`
	ExchangeRate     decimal.Decimal `json:"exchange_rate"`
	TotalFOB         decimal.Decimal `json:"total_fob"` // Foreign currency
	TotalCIFLocal    decimal.Decimal `json:"total_cif_local"`
	TotalDutyLocal   decimal.Decimal `json:"total_duty_local"`
	TotalOther       decimal.Decimal `json:"total_other"`
	TotalLandedCost  decimal.Decimal `json:"total_landed_cost"`
	ReconcilesWithin decimal.Decimal `json:"reconciles_within"`
	Items            []ItemCosting   `json:"items"`
}

// ReconciliationTolerance is the maximum acceptable drift between the sum of
// per-item landed totals and the independently computed declaration total.
// Each item contributes at most half a cent of rounding in each direction.
func ReconciliationTolerance(itemCount int) decimal.Decimal {
	return decimal.New(int64(itemCount), -2)
}

// ComputeCosting prorates the declaration's header factors across its items
// in proportion to FOB value and returns the per-item landed cost breakdown.
//
// Freight and insurance shares are allocated in the foreign currency; the
// resulting CIF is converted at the declaration exchange rate; duty is
// assessed ad valorem on the local CIF; other local expenses are allocated
// by the same FOB factor. Monetary intermediates round to 2 decimal places,
// the allocation factor itself does not round.
func (d *CustomsDeclaration) ComputeCosting() (*CostingResult, error) {
	if len(d.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Cannot compute costing for a declaration without items")
	}

	totalFOB := d.TotalFOB()

	result := &CostingResult{
		DeclarationID:    d.ID,
		ExchangeRate:     d.ExchangeRate,
		TotalFOB:         totalFOB,
		ReconcilesWithin: ReconciliationTolerance(len(d.Items)),
		Items:            make([]ItemCosting, 0, len(d.Items)),
	}

	for idx := range d.Items {
		item := &d.Items[idx]
		c := ItemCosting{
			ItemID:      item.ID,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			FOBTotal:    item.FOBTotal(),
		}

		// Degenerate case: with a zero FOB total every factor is zero, so
		// nothing is allocated and every item lands at zero cost.
		if totalFOB.IsZero() {
			c.Factor = decimal.Zero
			c.FreightShare = decimal.Zero
			c.InsuranceShare = decimal.Zero
			c.CIFForeign = decimal.Zero
			c.CIFLocal = decimal.Zero
			c.DutyLocal = decimal.Zero
			c.OtherAllocated = decimal.Zero
			c.LandedTotal = decimal.Zero
			c.LandedUnitCost = decimal.Zero
			result.Items = append(result.Items, c)
			continue
		}

		c.Factor = c.FOBTotal.Div(totalFOB)
		c.FreightShare = d.FreightValue.Mul(c.Factor).Round(2)
		c.InsuranceShare = d.InsuranceV.Mul(c.Factor).Round(2)
		c.CIFForeign = c.FOBTotal.Add(c.FreightShare).Add(c.InsuranceShare)
		c.CIFLocal = c.CIFForeign.Mul(d.ExchangeRate).Round(2)
		c.DutyLocal = c.CIFLocal.Mul(item.DutyRate).Div(oneHundred).Round(2)
		c.OtherAllocated = d.OtherExpenses.Mul(c.Factor).Round(2)
		c.LandedTotal = c.CIFLocal.Add(c.DutyLocal).Add(c.OtherAllocated)
		c.LandedUnitCost = c.LandedTotal.Div(decimal.NewFromInt(item.Quantity)).Round(2)

		result.Items = append(result.Items, c)
	}

	for _, c := range result.Items {
		result.TotalCIFLocal = result.TotalCIFLocal.Add(c.CIFLocal)
		result.TotalDutyLocal = result.TotalDutyLocal.Add(c.DutyLocal)
		result.TotalOther = result.TotalOther.Add(c.OtherAllocated)
		result.TotalLandedCost = result.TotalLandedCost.Add(c.LandedTotal)
	}

	return result, nil
}

// SnapshotCosting reconstructs a CostingResult from the frozen item snapshots.
// Used for reads after liquidation, when recomputation must not happen.
func (d *CustomsDeclaration) SnapshotCosting() (*CostingResult, error) {
	if !d.IsLiquidated() {
		return nil, shared.NewDomainError("INVALID_STATE", "Declaration has no cost snapshot before liquidation")
	}

	result := &CostingResult{
		DeclarationID:    d.ID,
		ExchangeRate:     d.ExchangeRate,
		TotalFOB:         d.TotalFOB(),
		ReconcilesWithin: ReconciliationTolerance(len(d.Items)),
		Items:            make([]ItemCosting, 0, len(d.Items)),
	}

	for idx := range d.Items {
		item := &d.Items[idx]
		c := ItemCosting{
			ItemID:         item.ID,
			ProductCode:    item.ProductCode,
			Quantity:       item.Quantity,
			FOBTotal:       item.FOBTotal(),
			CIFLocal:       item.SnapshotCIFLocal,
			DutyLocal:      item.SnapshotDutyLocal,
			OtherAllocated: item.SnapshotOtherAllocated,
			LandedTotal:    item.SnapshotLandedTotal,
			LandedUnitCost: item.SnapshotLandedUnitCost,
		}
		result.TotalCIFLocal = result.TotalCIFLocal.Add(c.CIFLocal)
		result.TotalDutyLocal = result.TotalDutyLocal.Add(c.DutyLocal)
		result.TotalOther = result.TotalOther.Add(c.OtherAllocated)
		result.TotalLandedCost = result.TotalLandedCost.Add(c.LandedTotal)
		result.Items = append(result.Items, c)
	}

	return result, nil
}

// Costing returns the frozen snapshot when the declaration is liquidated,
// otherwise a live recomputation from the current factors.
func (d *CustomsDeclaration) Costing() (*CostingResult, error) {
	if d.IsLiquidated() {
		return d.SnapshotCosting()
	}
	return d.ComputeCosting()
}

// SortedByFOBDesc returns the item costings ordered by FOB total, largest
// first, for display.
func (r *CostingResult) SortedByFOBDesc() []ItemCosting {
	out := make([]ItemCosting, len(r.Items))
	copy(out, r.Items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FOBTotal.GreaterThan(out[j].FOBTotal)
	})
	return out
}
