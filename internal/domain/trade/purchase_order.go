package trade

import (
	"fmt"
	"time"

	"github.com/gestora/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the fulfilment status of a purchase order.
// It mirrors where the linked import shipments stand but never drives money;
// costing lives on the customs declaration. Transitions are forward-only and
// enforced through CanTransitionTo.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "PENDING"
	PurchaseOrderStatusInTransit PurchaseOrderStatus = "IN_TRANSIT"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusInTransit,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusPending:
		return target == PurchaseOrderStatusInTransit || target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusInTransit:
		return target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// DeclarationLink associates a purchase order with a customs declaration.
// An order can ship across several declarations and a consolidated
// declaration can cover several orders.
type DeclarationLink struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_declaration,priority:1"`
	DeclarationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_declaration,priority:2"`
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DeclarationLink) TableName() string {
	return "purchase_order_declarations"
}

// PurchaseOrder is a lightweight record of an order placed with a foreign
// supplier. Line detail and landed cost belong to the customs declaration;
// the order carries the declared commercial value and a fulfilment status
// that never enters costing.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	OrderNumber   string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_po_tenant_number,priority:2"`
	SupplierName  string              `gorm:"type:varchar(200);not null"`
	Status        PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	DeclaredValue decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"` // Foreign currency
	OrderDate     time.Time           `gorm:"not null;index"`
	ExpectedAt    *time.Time
	Remark        string            `gorm:"type:varchar(500)"`
	Declarations  []DeclarationLink `gorm:"foreignKey:OrderID;references:ID"`
	CancelledAt   *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in PENDING status
func NewPurchaseOrder(tenantID uuid.UUID, orderNumber, supplierName string, declaredValue decimal.Decimal, orderDate time.Time) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot be empty")
	}
	if declaredValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DECLARED_VALUE", "Declared value cannot be negative")
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		SupplierName:        supplierName,
		Status:              PurchaseOrderStatusPending,
		DeclaredValue:       declaredValue.Round(2),
		OrderDate:           orderDate,
		Declarations:        make([]DeclarationLink, 0),
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// transition moves the order to the target status
func (o *PurchaseOrder) transition(target PurchaseOrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transition purchase order from %s to %s", o.Status, target))
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// MarkInTransit records that goods for this order have shipped
func (o *PurchaseOrder) MarkInTransit() error {
	return o.transition(PurchaseOrderStatusInTransit)
}

// MarkReceived records that all goods for this order have arrived.
// Bookkeeping only; the declaration lifecycle is the source of truth for cost.
func (o *PurchaseOrder) MarkReceived() error {
	if err := o.transition(PurchaseOrderStatusReceived); err != nil {
		return err
	}
	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o))
	return nil
}

// Cancel cancels the order
func (o *PurchaseOrder) Cancel() error {
	if err := o.transition(PurchaseOrderStatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	o.CancelledAt = &now
	return nil
}

// UpdateDeclaredValue updates the declared commercial value.
// Rejected once the order reached a terminal status.
func (o *PurchaseOrder) UpdateDeclaredValue(value decimal.Decimal) error {
	if o.Status == PurchaseOrderStatusReceived || o.Status == PurchaseOrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update declared value in %s status", o.Status))
	}
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_DECLARED_VALUE", "Declared value cannot be negative")
	}
	o.DeclaredValue = value.Round(2)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// LinkDeclaration associates the order with a customs declaration.
// Duplicate links are rejected.
func (o *PurchaseOrder) LinkDeclaration(declarationID uuid.UUID) error {
	if o.Status == PurchaseOrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot link declarations to a cancelled order")
	}
	for _, link := range o.Declarations {
		if link.DeclarationID == declarationID {
			return shared.NewDomainError("ALREADY_LINKED", "Declaration is already linked to this order")
		}
	}
	o.Declarations = append(o.Declarations, DeclarationLink{
		ID:            uuid.New(),
		OrderID:       o.ID,
		DeclarationID: declarationID,
		CreatedAt:     time.Now(),
	})
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// UnlinkDeclaration removes an association with a customs declaration
func (o *PurchaseOrder) UnlinkDeclaration(declarationID uuid.UUID) error {
	for idx, link := range o.Declarations {
		if link.DeclarationID == declarationID {
			o.Declarations = append(o.Declarations[:idx], o.Declarations[idx+1:]...)
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_LINKED", "Declaration is not linked to this order")
}

// IsLinkedTo returns true if the order is associated with the declaration
func (o *PurchaseOrder) IsLinkedTo(declarationID uuid.UUID) bool {
	for _, link := range o.Declarations {
		if link.DeclarationID == declarationID {
			return true
		}
	}
	return false
}
