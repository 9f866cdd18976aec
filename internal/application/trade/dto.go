package trade

import (
	"time"

	"github.com/gestora/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierName  string          `json:"supplier_name" binding:"required,min=1,max=200"`
	DeclaredValue decimal.Decimal `json:"declared_value"`
	OrderDate     *time.Time      `json:"order_date"`
	ExpectedAt    *time.Time      `json:"expected_at"`
	Remark        string          `json:"remark" binding:"max=500"`
	CreatedBy     *uuid.UUID      `json:"-"`
}

// UpdateDeclaredValueRequest represents a request to update the declared value
type UpdateDeclaredValueRequest struct {
	DeclaredValue decimal.Decimal `json:"declared_value" binding:"required"`
}

// LinkDeclarationRequest represents a request to associate a declaration
type LinkDeclarationRequest struct {
	DeclarationID uuid.UUID `json:"declaration_id" binding:"required"`
}

// PurchaseOrderListFilter represents filter options for the order list
type PurchaseOrderListFilter struct {
	Search   string  `form:"search"`
	Status   *string `form:"status"`
	Page     int     `form:"page" binding:"min=0"`
	PageSize int     `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string  `form:"order_by"`
	OrderDir string  `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID             uuid.UUID       `json:"id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	OrderNumber    string          `json:"order_number"`
	SupplierName   string          `json:"supplier_name"`
	Status         string          `json:"status"`
	DeclaredValue  decimal.Decimal `json:"declared_value"`
	OrderDate      time.Time       `json:"order_date"`
	ExpectedAt     *time.Time      `json:"expected_at,omitempty"`
	Remark         string          `json:"remark,omitempty"`
	DeclarationIDs []uuid.UUID     `json:"declaration_ids"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// ToPurchaseOrderResponse converts a purchase order to its API representation
func ToPurchaseOrderResponse(order *trade.PurchaseOrder) PurchaseOrderResponse {
	declarationIDs := make([]uuid.UUID, 0, len(order.Declarations))
	for _, link := range order.Declarations {
		declarationIDs = append(declarationIDs, link.DeclarationID)
	}

	return PurchaseOrderResponse{
		ID:             order.ID,
		TenantID:       order.TenantID,
		OrderNumber:    order.OrderNumber,
		SupplierName:   order.SupplierName,
		Status:         order.Status.String(),
		DeclaredValue:  order.DeclaredValue,
		OrderDate:      order.OrderDate,
		ExpectedAt:     order.ExpectedAt,
		Remark:         order.Remark,
		DeclarationIDs: declarationIDs,
		CancelledAt:    order.CancelledAt,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
		Version:        order.Version,
	}
}
