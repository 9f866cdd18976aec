package models

import (
	"time"

	"github.com/gestora/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	TenantAggregateModel
	OrderNumber   string                    `gorm:"type:varchar(50);not null;uniqueIndex:idx_po_tenant_number,priority:2"`
	SupplierName  string                    `gorm:"type:varchar(200);not null"`
	Status        trade.PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	DeclaredValue decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
	OrderDate     time.Time                 `gorm:"not null;index"`
	ExpectedAt    *time.Time
	Remark        string                 `gorm:"type:varchar(500)"`
	Declarations  []DeclarationLinkModel `gorm:"foreignKey:OrderID;references:ID"`
	CancelledAt   *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) ToDomain() *trade.PurchaseOrder {
	order := &trade.PurchaseOrder{
		OrderNumber:   m.OrderNumber,
		SupplierName:  m.SupplierName,
		Status:        m.Status,
		DeclaredValue: m.DeclaredValue,
		OrderDate:     m.OrderDate,
		ExpectedAt:    m.ExpectedAt,
		Remark:        m.Remark,
		CancelledAt:   m.CancelledAt,
		Declarations:  make([]trade.DeclarationLink, len(m.Declarations)),
	}
	m.PopulateTenantAggregateRoot(&order.TenantAggregateRoot)
	for i, link := range m.Declarations {
		order.Declarations[i] = *link.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) FromDomain(o *trade.PurchaseOrder) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.SupplierName = o.SupplierName
	m.Status = o.Status
	m.DeclaredValue = o.DeclaredValue
	m.OrderDate = o.OrderDate
	m.ExpectedAt = o.ExpectedAt
	m.Remark = o.Remark
	m.CancelledAt = o.CancelledAt
	m.Declarations = make([]DeclarationLinkModel, len(o.Declarations))
	for i := range o.Declarations {
		m.Declarations[i] = *DeclarationLinkModelFromDomain(&o.Declarations[i])
	}
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain entity.
func PurchaseOrderModelFromDomain(o *trade.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(o)
	return m
}

// DeclarationLinkModel is the persistence model for order-declaration associations.
type DeclarationLinkModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_declaration,priority:1"`
	DeclarationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_declaration,priority:2"`
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DeclarationLinkModel) TableName() string {
	return "purchase_order_declarations"
}

// ToDomain converts the persistence model to a domain DeclarationLink entity.
func (m *DeclarationLinkModel) ToDomain() *trade.DeclarationLink {
	return &trade.DeclarationLink{
		ID:            m.ID,
		OrderID:       m.OrderID,
		DeclarationID: m.DeclarationID,
		CreatedAt:     m.CreatedAt,
	}
}

// DeclarationLinkModelFromDomain creates a new persistence model from a domain entity.
func DeclarationLinkModelFromDomain(l *trade.DeclarationLink) *DeclarationLinkModel {
	return &DeclarationLinkModel{
		ID:            l.ID,
		OrderID:       l.OrderID,
		DeclarationID: l.DeclarationID,
		CreatedAt:     l.CreatedAt,
	}
}
