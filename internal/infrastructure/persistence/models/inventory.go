package models

import (
	"time"

	"github.com/gestora/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockMovementModel is the persistence model for the StockMovement ledger entry.
// Rows are append-only.
type StockMovementModel struct {
	ID          uuid.UUID              `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID              `gorm:"type:uuid;not null;index"`
	Type        inventory.MovementType `gorm:"type:varchar(20);not null"`
	Quantity    decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	UnitCost    decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	SourceType  string                 `gorm:"type:varchar(30);not null"`
	SourceID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	Remark      string                 `gorm:"type:varchar(500)"`
	CreatedAt   time.Time              `gorm:"not null;index"`
	CreatedBy   *uuid.UUID             `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement entity.
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		ID:          m.ID,
		TenantID:    m.TenantID,
		ProductID:   m.ProductID,
		WarehouseID: m.WarehouseID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		UnitCost:    m.UnitCost,
		SourceType:  m.SourceType,
		SourceID:    m.SourceID,
		Remark:      m.Remark,
		CreatedAt:   m.CreatedAt,
		CreatedBy:   m.CreatedBy,
	}
}

// StockMovementModelFromDomain creates a new persistence model from a domain entity.
func StockMovementModelFromDomain(mv *inventory.StockMovement) *StockMovementModel {
	return &StockMovementModel{
		ID:          mv.ID,
		TenantID:    mv.TenantID,
		ProductID:   mv.ProductID,
		WarehouseID: mv.WarehouseID,
		Type:        mv.Type,
		Quantity:    mv.Quantity,
		UnitCost:    mv.UnitCost,
		SourceType:  mv.SourceType,
		SourceID:    mv.SourceID,
		Remark:      mv.Remark,
		CreatedAt:   mv.CreatedAt,
		CreatedBy:   mv.CreatedBy,
	}
}

// StockItemModel is the persistence model for the StockItem aggregate root.
type StockItemModel struct {
	TenantAggregateModel
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_warehouse,priority:1"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_warehouse,priority:2"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AverageCost decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockItemModel) TableName() string {
	return "stock_items"
}

// ToDomain converts the persistence model to a domain StockItem entity.
func (m *StockItemModel) ToDomain() *inventory.StockItem {
	item := &inventory.StockItem{
		ProductID:   m.ProductID,
		WarehouseID: m.WarehouseID,
		Quantity:    m.Quantity,
		AverageCost: m.AverageCost,
	}
	m.PopulateTenantAggregateRoot(&item.TenantAggregateRoot)
	return item
}

// FromDomain populates the persistence model from a domain StockItem entity.
func (m *StockItemModel) FromDomain(i *inventory.StockItem) {
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	m.ProductID = i.ProductID
	m.WarehouseID = i.WarehouseID
	m.Quantity = i.Quantity
	m.AverageCost = i.AverageCost
}

// StockItemModelFromDomain creates a new persistence model from a domain entity.
func StockItemModelFromDomain(i *inventory.StockItem) *StockItemModel {
	m := &StockItemModel{}
	m.FromDomain(i)
	return m
}
