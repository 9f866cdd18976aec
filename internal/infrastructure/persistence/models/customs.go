package models

import (
	"time"

	"github.com/gestora/backend/internal/domain/customs"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomsDeclarationModel is the persistence model for the CustomsDeclaration aggregate root.
type CustomsDeclarationModel struct {
	TenantAggregateModel
	DeclarationNumber string                     `gorm:"type:varchar(50);not null;uniqueIndex:idx_declaration_tenant_number,priority:2"`
	Status            customs.DeclarationStatus  `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	SupplierName      string                     `gorm:"type:varchar(200)"`
	ExchangeRate      decimal.Decimal            `gorm:"type:decimal(18,5);not null;default:0"`
	FreightValue      decimal.Decimal            `gorm:"type:decimal(18,2);not null;default:0"`
	InsuranceValue    decimal.Decimal            `gorm:"type:decimal(18,2);not null;default:0"`
	VATCredit         decimal.Decimal            `gorm:"type:decimal(18,2);not null;default:0"`
	OtherExpenses     decimal.Decimal            `gorm:"type:decimal(18,2);not null;default:0"`
	Items             []DeclarationItemModel     `gorm:"foreignKey:DeclarationID;references:ID"`
	AcceptedAt        time.Time                  `gorm:"not null;index"`
	LiquidatedAt      *time.Time                 `gorm:"index"`
	ReceivedAt        *time.Time
	CanceledAt        *time.Time
	CancelReason      string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CustomsDeclarationModel) TableName() string {
	return "customs_declarations"
}

// ToDomain converts the persistence model to a domain CustomsDeclaration entity.
func (m *CustomsDeclarationModel) ToDomain() *customs.CustomsDeclaration {
	decl := &customs.CustomsDeclaration{
		DeclarationNumber: m.DeclarationNumber,
		Status:            m.Status,
		SupplierName:      m.SupplierName,
		ExchangeRate:      m.ExchangeRate,
		FreightValue:      m.FreightValue,
		InsuranceV:        m.InsuranceValue,
		VATCredit:         m.VATCredit,
		OtherExpenses:     m.OtherExpenses,
		AcceptedAt:        m.AcceptedAt,
		LiquidatedAt:      m.LiquidatedAt,
		ReceivedAt:        m.ReceivedAt,
		CanceledAt:        m.CanceledAt,
		CancelReason:      m.CancelReason,
		Items:             make([]customs.DeclarationItem, len(m.Items)),
	}
	m.PopulateTenantAggregateRoot(&decl.TenantAggregateRoot)
	for i, item := range m.Items {
		decl.Items[i] = *item.ToDomain()
	}
	return decl
}

// FromDomain populates the persistence model from a domain CustomsDeclaration entity.
func (m *CustomsDeclarationModel) FromDomain(d *customs.CustomsDeclaration) {
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.DeclarationNumber = d.DeclarationNumber
	m.Status = d.Status
	m.SupplierName = d.SupplierName
	m.ExchangeRate = d.ExchangeRate
	m.FreightValue = d.FreightValue
	m.InsuranceValue = d.InsuranceV
	m.VATCredit = d.VATCredit
	m.OtherExpenses = d.OtherExpenses
	m.AcceptedAt = d.AcceptedAt
	m.LiquidatedAt = d.LiquidatedAt
	m.ReceivedAt = d.ReceivedAt
	m.CanceledAt = d.CanceledAt
	m.CancelReason = d.CancelReason
	m.Items = make([]DeclarationItemModel, len(d.Items))
	for i := range d.Items {
		m.Items[i] = *DeclarationItemModelFromDomain(&d.Items[i])
	}
}

// CustomsDeclarationModelFromDomain creates a new persistence model from a domain entity.
func CustomsDeclarationModelFromDomain(d *customs.CustomsDeclaration) *CustomsDeclarationModel {
	m := &CustomsDeclarationModel{}
	m.FromDomain(d)
	return m
}

// DeclarationItemModel is the persistence model for the DeclarationItem entity.
type DeclarationItemModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	DeclarationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     *uuid.UUID      `gorm:"type:uuid;index"`
	ProductCode   string          `gorm:"type:varchar(50);not null"`
	Description   string          `gorm:"type:varchar(200);not null"`
	Quantity      int64           `gorm:"not null"`
	FOBUnitPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DutyRate      decimal.Decimal `gorm:"type:decimal(5,2);not null"`

	SnapshotCIFLocal       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SnapshotDutyLocal      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SnapshotOtherAllocated decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SnapshotLandedTotal    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SnapshotLandedUnitCost decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DeclarationItemModel) TableName() string {
	return "declaration_items"
}

// ToDomain converts the persistence model to a domain DeclarationItem entity.
func (m *DeclarationItemModel) ToDomain() *customs.DeclarationItem {
	return &customs.DeclarationItem{
		ID:                     m.ID,
		DeclarationID:          m.DeclarationID,
		ProductID:              m.ProductID,
		ProductCode:            m.ProductCode,
		Description:            m.Description,
		Quantity:               m.Quantity,
		FOBUnitPrice:           m.FOBUnitPrice,
		DutyRate:               m.DutyRate,
		SnapshotCIFLocal:       m.SnapshotCIFLocal,
		SnapshotDutyLocal:      m.SnapshotDutyLocal,
		SnapshotOtherAllocated: m.SnapshotOtherAllocated,
		SnapshotLandedTotal:    m.SnapshotLandedTotal,
		SnapshotLandedUnitCost: m.SnapshotLandedUnitCost,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

// DeclarationItemModelFromDomain creates a new persistence model from a domain entity.
func DeclarationItemModelFromDomain(i *customs.DeclarationItem) *DeclarationItemModel {
	return &DeclarationItemModel{
		ID:                     i.ID,
		DeclarationID:          i.DeclarationID,
		ProductID:              i.ProductID,
		ProductCode:            i.ProductCode,
		Description:            i.Description,
		Quantity:               i.Quantity,
		FOBUnitPrice:           i.FOBUnitPrice,
		DutyRate:               i.DutyRate,
		SnapshotCIFLocal:       i.SnapshotCIFLocal,
		SnapshotDutyLocal:      i.SnapshotDutyLocal,
		SnapshotOtherAllocated: i.SnapshotOtherAllocated,
		SnapshotLandedTotal:    i.SnapshotLandedTotal,
		SnapshotLandedUnitCost: i.SnapshotLandedUnitCost,
		CreatedAt:              i.CreatedAt,
		UpdatedAt:              i.UpdatedAt,
	}
}

// TrackingEventModel is the persistence model for the TrackingEvent entity.
// Rows are append-only.
type TrackingEventModel struct {
	ID            uuid.UUID                 `gorm:"type:uuid;primary_key"`
	TenantID      uuid.UUID                 `gorm:"type:uuid;not null;index"`
	DeclarationID uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Kind          customs.TrackingEventKind `gorm:"type:varchar(30);not null"`
	OccurredOn    time.Time                 `gorm:"not null;index"`
	Location      string                    `gorm:"type:varchar(200)"`
	Notes         string                    `gorm:"type:varchar(500)"`
	RecordedBy    *uuid.UUID                `gorm:"type:uuid"`
	CreatedAt     time.Time                 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TrackingEventModel) TableName() string {
	return "tracking_events"
}

// ToDomain converts the persistence model to a domain TrackingEvent entity.
func (m *TrackingEventModel) ToDomain() *customs.TrackingEvent {
	return &customs.TrackingEvent{
		ID:            m.ID,
		TenantID:      m.TenantID,
		DeclarationID: m.DeclarationID,
		Kind:          m.Kind,
		OccurredOn:    m.OccurredOn,
		Location:      m.Location,
		Notes:         m.Notes,
		RecordedBy:    m.RecordedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// TrackingEventModelFromDomain creates a new persistence model from a domain entity.
func TrackingEventModelFromDomain(e *customs.TrackingEvent) *TrackingEventModel {
	return &TrackingEventModel{
		ID:            e.ID,
		TenantID:      e.TenantID,
		DeclarationID: e.DeclarationID,
		Kind:          e.Kind,
		OccurredOn:    e.OccurredOn,
		Location:      e.Location,
		Notes:         e.Notes,
		RecordedBy:    e.RecordedBy,
		CreatedAt:     e.CreatedAt,
	}
}

// ReceptionModel is the persistence model for the Reception aggregate root.
// The processed flag is flipped only by the conditional claim update.
type ReceptionModel struct {
	TenantAggregateModel
	DeclarationID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_reception_declaration"`
	WarehouseID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ArrivedAt     time.Time  `gorm:"not null"`
	Processed     bool       `gorm:"not null;default:false"`
	ProcessedAt   *time.Time
	ProcessedBy   *uuid.UUID `gorm:"type:uuid"`
	SealIntact    bool       `gorm:"not null;default:true"`
	ConditionText string     `gorm:"type:varchar(200)"`
	DamageNotes   string     `gorm:"type:varchar(500)"`
	Notes         string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ReceptionModel) TableName() string {
	return "receptions"
}

// ToDomain converts the persistence model to a domain Reception entity.
func (m *ReceptionModel) ToDomain() *customs.Reception {
	r := &customs.Reception{
		DeclarationID: m.DeclarationID,
		WarehouseID:   m.WarehouseID,
		ArrivedAt:     m.ArrivedAt,
		Processed:     m.Processed,
		ProcessedAt:   m.ProcessedAt,
		ProcessedBy:   m.ProcessedBy,
		SealIntact:    m.SealIntact,
		ConditionText: m.ConditionText,
		DamageNotes:   m.DamageNotes,
		Notes:         m.Notes,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain Reception entity.
func (m *ReceptionModel) FromDomain(r *customs.Reception) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.DeclarationID = r.DeclarationID
	m.WarehouseID = r.WarehouseID
	m.ArrivedAt = r.ArrivedAt
	m.Processed = r.Processed
	m.ProcessedAt = r.ProcessedAt
	m.ProcessedBy = r.ProcessedBy
	m.SealIntact = r.SealIntact
	m.ConditionText = r.ConditionText
	m.DamageNotes = r.DamageNotes
	m.Notes = r.Notes
}

// ReceptionModelFromDomain creates a new persistence model from a domain entity.
func ReceptionModelFromDomain(r *customs.Reception) *ReceptionModel {
	m := &ReceptionModel{}
	m.FromDomain(r)
	return m
}
