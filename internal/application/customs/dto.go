package customs

import (
	"time"

	"github.com/gestora/backend/internal/domain/customs"
	"github.com/gestora/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Declaration DTOs ====================

// CreateDeclarationRequest represents a request to open a new declaration
type CreateDeclarationRequest struct {
	SupplierName string          `json:"supplier_name" binding:"max=200"`
	ExchangeRate decimal.Decimal `json:"exchange_rate" binding:"required"`
	CreatedBy    *uuid.UUID      `json:"-"`
}

// UpdateFactorsRequest represents a request to update the header factors
type UpdateFactorsRequest struct {
	ExchangeRate  decimal.Decimal `json:"exchange_rate" binding:"required"`
	FreightValue  decimal.Decimal `json:"freight_value"`
	InsuranceValue decimal.Decimal `json:"insurance_value"`
	VATCredit     decimal.Decimal `json:"vat_credit"`
	OtherExpenses decimal.Decimal `json:"other_expenses"`
}

// AddItemRequest represents a request to add a line item
type AddItemRequest struct {
	ProductID    *uuid.UUID      `json:"product_id"`
	ProductCode  string          `json:"product_code" binding:"required,min=1,max=50"`
	Description  string          `json:"description" binding:"max=200"`
	Quantity     int64           `json:"quantity" binding:"required,min=1"`
	FOBUnitPrice decimal.Decimal `json:"fob_unit_price" binding:"required"`
	DutyRate     decimal.Decimal `json:"duty_rate"`
}

// UpdateItemRequest represents a request to update a line item
type UpdateItemRequest struct {
	Quantity     int64           `json:"quantity" binding:"required,min=1"`
	FOBUnitPrice decimal.Decimal `json:"fob_unit_price" binding:"required"`
	DutyRate     decimal.Decimal `json:"duty_rate"`
}

// CancelDeclarationRequest represents a request to cancel a declaration
type CancelDeclarationRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// DeclarationListFilter represents filter options for the declaration list
type DeclarationListFilter struct {
	Search    string     `form:"search"`
	Status    *string    `form:"status"`
	StartDate *time.Time `form:"start_date"`
	EndDate   *time.Time `form:"end_date"`
	Page      int        `form:"page" binding:"min=0"`
	PageSize  int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// DeclarationItemResponse represents a line item in API responses
type DeclarationItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    *uuid.UUID      `json:"product_id,omitempty"`
	ProductCode  string          `json:"product_code"`
	Description  string          `json:"description"`
	Quantity     int64           `json:"quantity"`
	FOBUnitPrice decimal.Decimal `json:"fob_unit_price"`
	FOBTotal     decimal.Decimal `json:"fob_total"`
	DutyRate     decimal.Decimal `json:"duty_rate"`

	LandedUnitCost *decimal.Decimal `json:"landed_unit_cost,omitempty"`
	LandedTotal    *decimal.Decimal `json:"landed_total,omitempty"`
}

// DeclarationResponse represents a declaration in API responses
type DeclarationResponse struct {
	ID                uuid.UUID                 `json:"id"`
	TenantID          uuid.UUID                 `json:"tenant_id"`
	DeclarationNumber string                    `json:"declaration_number"`
	Status            string                    `json:"status"`
	SupplierName      string                    `json:"supplier_name"`
	ExchangeRate      decimal.Decimal           `json:"exchange_rate"`
	FreightValue      decimal.Decimal           `json:"freight_value"`
	InsuranceValue    decimal.Decimal           `json:"insurance_value"`
	VATCredit         decimal.Decimal           `json:"vat_credit"`
	OtherExpenses     decimal.Decimal           `json:"other_expenses"`
	TotalFOB          decimal.Decimal           `json:"total_fob"`
	Items             []DeclarationItemResponse `json:"items"`
	ItemCount         int                       `json:"item_count"`
	AcceptedAt        time.Time                 `json:"accepted_at"`
	LiquidatedAt      *time.Time                `json:"liquidated_at,omitempty"`
	ReceivedAt        *time.Time                `json:"received_at,omitempty"`
	CanceledAt        *time.Time                `json:"canceled_at,omitempty"`
	CancelReason      string                    `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
	Version           int                       `json:"version"`
}

// DeclarationListItemResponse represents a declaration in list responses
type DeclarationListItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	DeclarationNumber string          `json:"declaration_number"`
	Status            string          `json:"status"`
	SupplierName      string          `json:"supplier_name"`
	TotalFOB          decimal.Decimal `json:"total_fob"`
	ItemCount         int             `json:"item_count"`
	AcceptedAt        time.Time       `json:"accepted_at"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ToDeclarationResponse converts a declaration to its API representation
func ToDeclarationResponse(d *customs.CustomsDeclaration) DeclarationResponse {
	items := make([]DeclarationItemResponse, 0, len(d.Items))
	for idx := range d.Items {
		item := &d.Items[idx]
		resp := DeclarationItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductCode:  item.ProductCode,
			Description:  item.Description,
			Quantity:     item.Quantity,
			FOBUnitPrice: item.FOBUnitPrice,
			FOBTotal:     item.FOBTotal(),
			DutyRate:     item.DutyRate,
		}
		if d.IsLiquidated() {
			unitCost := item.SnapshotLandedUnitCost
			total := item.SnapshotLandedTotal
			resp.LandedUnitCost = &unitCost
			resp.LandedTotal = &total
		}
		items = append(items, resp)
	}

	return DeclarationResponse{
		ID:                d.ID,
		TenantID:          d.TenantID,
		DeclarationNumber: d.DeclarationNumber,
		Status:            d.Status.String(),
		SupplierName:      d.SupplierName,
		ExchangeRate:      d.ExchangeRate,
		FreightValue:      d.FreightValue,
		InsuranceValue:    d.InsuranceV,
		VATCredit:         d.VATCredit,
		OtherExpenses:     d.OtherExpenses,
		TotalFOB:          d.TotalFOB(),
		Items:             items,
		ItemCount:         len(d.Items),
		AcceptedAt:        d.AcceptedAt,
		LiquidatedAt:      d.LiquidatedAt,
		ReceivedAt:        d.ReceivedAt,
		CanceledAt:        d.CanceledAt,
		CancelReason:      d.CancelReason,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
		Version:           d.Version,
	}
}

// ToDeclarationListItemResponse converts a declaration to its list representation
func ToDeclarationListItemResponse(d *customs.CustomsDeclaration) DeclarationListItemResponse {
	return DeclarationListItemResponse{
		ID:                d.ID,
		DeclarationNumber: d.DeclarationNumber,
		Status:            d.Status.String(),
		SupplierName:      d.SupplierName,
		TotalFOB:          d.TotalFOB(),
		ItemCount:         len(d.Items),
		AcceptedAt:        d.AcceptedAt,
		CreatedAt:         d.CreatedAt,
	}
}

// ==================== Costing DTOs ====================

// ItemCostingResponse represents a per-item landed cost breakdown
type ItemCostingResponse struct {
	ItemID         uuid.UUID       `json:"item_id"`
	ProductCode    string          `json:"product_code"`
	Quantity       int64           `json:"quantity"`
	FOBTotal       decimal.Decimal `json:"fob_total"`
	CIFLocal       decimal.Decimal `json:"cif_local"`
	DutyLocal      decimal.Decimal `json:"duty_local"`
	OtherAllocated decimal.Decimal `json:"other_allocated"`
	LandedTotal    decimal.Decimal `json:"landed_total"`
	LandedUnitCost decimal.Decimal `json:"landed_unit_cost"`
}

// CostingResponse represents the declaration-level costing result.
// FOB figures are in the foreign invoice currency, everything else in the
// local books currency.
type CostingResponse struct {
	DeclarationID   uuid.UUID             `json:"declaration_id"`
	Frozen          bool                  `json:"frozen"`
	ForeignCurrency valueobject.Currency  `json:"foreign_currency"`
	LocalCurrency   valueobject.Currency  `json:"local_currency"`
	ExchangeRate    decimal.Decimal       `json:"exchange_rate"`
	TotalFOB        decimal.Decimal       `json:"total_fob"`
	TotalCIFLocal   decimal.Decimal       `json:"total_cif_local"`
	TotalDutyLocal  decimal.Decimal       `json:"total_duty_local"`
	TotalOther      decimal.Decimal       `json:"total_other"`
	TotalLandedCost decimal.Decimal       `json:"total_landed_cost"`
	Items           []ItemCostingResponse `json:"items"`
}

// ToCostingResponse converts a costing result to its API representation.
// Items are presented largest FOB share first.
func ToCostingResponse(result *customs.CostingResult, frozen bool) CostingResponse {
	sorted := result.SortedByFOBDesc()
	items := make([]ItemCostingResponse, 0, len(sorted))
	for _, c := range sorted {
		items = append(items, ItemCostingResponse{
			ItemID:         c.ItemID,
			ProductCode:    c.ProductCode,
			Quantity:       c.Quantity,
			FOBTotal:       c.FOBTotal,
			CIFLocal:       c.CIFLocal,
			DutyLocal:      c.DutyLocal,
			OtherAllocated: c.OtherAllocated,
			LandedTotal:    c.LandedTotal,
			LandedUnitCost: c.LandedUnitCost,
		})
	}
	return CostingResponse{
		DeclarationID:   result.DeclarationID,
		Frozen:          frozen,
		ForeignCurrency: valueobject.ForeignCurrency,
		LocalCurrency:   valueobject.LocalCurrency,
		ExchangeRate:    result.ExchangeRate,
		TotalFOB:        result.TotalFOB,
		TotalCIFLocal:   result.TotalCIFLocal,
		TotalDutyLocal:  result.TotalDutyLocal,
		TotalOther:      result.TotalOther,
		TotalLandedCost: result.TotalLandedCost,
		Items:           items,
	}
}

// ==================== Tracking DTOs ====================

// AddTrackingEventRequest represents a request to append a tracking event
type AddTrackingEventRequest struct {
	Kind       string     `json:"kind" binding:"required"`
	OccurredOn time.Time  `json:"occurred_on" binding:"required"`
	Location   string     `json:"location" binding:"max=200"`
	Notes      string     `json:"notes" binding:"max=500"`
	RecordedBy *uuid.UUID `json:"-"`
}

// TrackingEventResponse represents a tracking event in API responses
type TrackingEventResponse struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	Sequence   int       `json:"sequence"`
	OccurredOn time.Time `json:"occurred_on"`
	Location   string    `json:"location,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TrackingLogResponse represents a declaration's tracking log
type TrackingLogResponse struct {
	DeclarationID uuid.UUID               `json:"declaration_id"`
	Latest        *TrackingEventResponse  `json:"latest,omitempty"`
	Events        []TrackingEventResponse `json:"events"`
}

// ToTrackingEventResponse converts a tracking event to its API representation
func ToTrackingEventResponse(e *customs.TrackingEvent) TrackingEventResponse {
	return TrackingEventResponse{
		ID:         e.ID,
		Kind:       e.Kind.String(),
		Sequence:   e.Kind.Sequence(),
		OccurredOn: e.OccurredOn,
		Location:   e.Location,
		Notes:      e.Notes,
		CreatedAt:  e.CreatedAt,
	}
}

// ==================== Reception DTOs ====================

// CreateReceptionRequest represents a request to register a warehouse arrival.
// SealIntact defaults to true when omitted.
type CreateReceptionRequest struct {
	WarehouseID   uuid.UUID  `json:"warehouse_id" binding:"required"`
	ArrivedAt     *time.Time `json:"arrived_at"`
	SealIntact    *bool      `json:"seal_intact"`
	ConditionText string     `json:"condition_text" binding:"max=200"`
	DamageNotes   string     `json:"damage_notes" binding:"max=500"`
	Notes         string     `json:"notes" binding:"max=500"`
}

// UpdateReceptionRequest represents a request to replace the checklist fields
// of an unprocessed reception
type UpdateReceptionRequest struct {
	SealIntact    bool   `json:"seal_intact"`
	ConditionText string `json:"condition_text" binding:"max=200"`
	DamageNotes   string `json:"damage_notes" binding:"max=500"`
	Notes         string `json:"notes" binding:"max=500"`
}

// FinalizeReceptionRequest represents a request to run the inventory injection
type FinalizeReceptionRequest struct {
	IdempotencyKey string     `json:"-"`
	ProcessedBy    *uuid.UUID `json:"-"`
}

// ReceptionResponse represents a reception in API responses
type ReceptionResponse struct {
	ID            uuid.UUID  `json:"id"`
	DeclarationID uuid.UUID  `json:"declaration_id"`
	WarehouseID   uuid.UUID  `json:"warehouse_id"`
	ArrivedAt     time.Time  `json:"arrived_at"`
	Processed     bool       `json:"processed"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	SealIntact    bool       `json:"seal_intact"`
	ConditionText string     `json:"condition_text,omitempty"`
	DamageNotes   string     `json:"damage_notes,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// FinalizeReceptionResponse reports what the finalization did
type FinalizeReceptionResponse struct {
	ReceptionID      uuid.UUID `json:"reception_id"`
	DeclarationID    uuid.UUID `json:"declaration_id"`
	AlreadyProcessed bool      `json:"already_processed"`
	MovementsCreated int       `json:"movements_created"`
	ItemsSkipped     int       `json:"items_skipped"`
}

// ToReceptionResponse converts a reception to its API representation
func ToReceptionResponse(r *customs.Reception) ReceptionResponse {
	return ReceptionResponse{
		ID:            r.ID,
		DeclarationID: r.DeclarationID,
		WarehouseID:   r.WarehouseID,
		ArrivedAt:     r.ArrivedAt,
		Processed:     r.Processed,
		ProcessedAt:   r.ProcessedAt,
		SealIntact:    r.SealIntact,
		ConditionText: r.ConditionText,
		DamageNotes:   r.DamageNotes,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
	}
}

// ToFinalizeReceptionResponse converts a finalize result to its API representation
func ToFinalizeReceptionResponse(result customs.FinalizeResult) FinalizeReceptionResponse {
	return FinalizeReceptionResponse{
		ReceptionID:      result.ReceptionID,
		DeclarationID:    result.DeclarationID,
		AlreadyProcessed: result.AlreadyProcessed,
		MovementsCreated: result.MovementsCreated,
		ItemsSkipped:     result.ItemsSkipped,
	}
}
