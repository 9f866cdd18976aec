package inventory

import (
	"fmt"
	"time"

	"github.com/gestora/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies stock movements
type MovementType string

const (
	MovementTypeImportReceipt MovementType = "IMPORT_RECEIPT" // Inbound from a customs reception
	MovementTypeAdjustment    MovementType = "ADJUSTMENT"     // Manual correction
	MovementTypeSale          MovementType = "SALE"           // Outbound to a customer
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeImportReceipt, MovementTypeAdjustment, MovementTypeSale:
		return true
	}
	return false
}

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsInbound returns true for movements that increase on-hand stock
func (t MovementType) IsInbound() bool {
	return t == MovementTypeImportReceipt
}

// StockMovement is an immutable ledger entry recording a quantity change at
// a warehouse, valued at its unit cost. Import receipts carry the landed
// unit cost frozen by the declaration's liquidation.
type StockMovement struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type        MovementType    `gorm:"type:varchar(20);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Positive inbound, negative outbound
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,2);not null"` // Local currency

	// Source document reference
	SourceType string    `gorm:"type:varchar(30);not null"`
	SourceID   uuid.UUID `gorm:"type:uuid;not null;index"`

	Remark    string    `gorm:"type:varchar(500)"`
	CreatedAt time.Time `gorm:"not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// SourceTypeDeclaration marks movements emitted by a declaration's reception
const SourceTypeDeclaration = "DECLARATION"

// NewImportReceiptMovement creates an inbound movement for goods received
// from a customs declaration, valued at the frozen landed unit cost. The
// movement references the declaration that priced the goods.
func NewImportReceiptMovement(tenantID, productID, warehouseID, declarationID uuid.UUID, quantity int64, landedUnitCost decimal.Decimal) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID is required")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Receipt quantity must be positive")
	}
	if landedUnitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Landed unit cost cannot be negative")
	}

	return &StockMovement{
		ID:          uuid.New(),
		TenantID:    tenantID,
		ProductID:   productID,
		WarehouseID: warehouseID,
		Type:        MovementTypeImportReceipt,
		Quantity:    decimal.NewFromInt(quantity),
		UnitCost:    landedUnitCost.Round(2),
		SourceType:  SourceTypeDeclaration,
		SourceID:    declarationID,
		CreatedAt:   time.Now(),
	}, nil
}

// TotalValue returns quantity times unit cost
func (m *StockMovement) TotalValue() decimal.Decimal {
	return m.Quantity.Mul(m.UnitCost)
}

// StockItem holds the current on-hand quantity and moving average cost of a
// product at a warehouse
type StockItem struct {
	shared.TenantAggregateRoot
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_warehouse,priority:1"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_warehouse,priority:2"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AverageCost decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"` // Local currency
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates an empty stock record for a product at a warehouse
func NewStockItem(tenantID, productID, warehouseID uuid.UUID) (*StockItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID is required")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID is required")
	}
	return &StockItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		WarehouseID:         warehouseID,
		Quantity:            decimal.Zero,
		AverageCost:         decimal.Zero,
	}, nil
}

// ApplyInbound folds an inbound movement into the moving average cost:
// newAvg = (oldQty*oldAvg + inQty*inCost) / (oldQty + inQty), rounded to
// 2 decimal places.
func (s *StockItem) ApplyInbound(quantity, unitCost decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Inbound quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", fmt.Sprintf("Unit cost cannot be negative, got %s", unitCost))
	}

	newQuantity := s.Quantity.Add(quantity)
	currentValue := s.Quantity.Mul(s.AverageCost)
	inboundValue := quantity.Mul(unitCost)
	s.AverageCost = currentValue.Add(inboundValue).Div(newQuantity).Round(2)
	s.Quantity = newQuantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// TotalValue returns the on-hand quantity valued at the moving average cost
func (s *StockItem) TotalValue() decimal.Decimal {
	return s.Quantity.Mul(s.AverageCost)
}
