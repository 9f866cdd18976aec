package customs

import (
	"fmt"
	"time"

	"github.com/gestora/backend/internal/domain/shared"
	"github.com/gestora/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeclarationStatus represents the lifecycle status of a customs declaration
type DeclarationStatus string

const (
	DeclarationStatusDraft      DeclarationStatus = "DRAFT"
	DeclarationStatusCustoms    DeclarationStatus = "CUSTOMS"
	DeclarationStatusLiquidated DeclarationStatus = "LIQUIDATED"
	DeclarationStatusReceived   DeclarationStatus = "RECEIVED"
	DeclarationStatusCanceled   DeclarationStatus = "CANCELED"
)

// IsValid checks if the status is a valid DeclarationStatus
func (s DeclarationStatus) IsValid() bool {
	switch s {
	case DeclarationStatusDraft, DeclarationStatusCustoms, DeclarationStatusLiquidated,
		DeclarationStatusReceived, DeclarationStatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of DeclarationStatus
func (s DeclarationStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Transitions are strictly forward: DRAFT -> CUSTOMS -> LIQUIDATED -> RECEIVED,
// with CANCELED reachable from any non-terminal state.
func (s DeclarationStatus) CanTransitionTo(target DeclarationStatus) bool {
	switch s {
	case DeclarationStatusDraft:
		return target == DeclarationStatusCustoms || target == DeclarationStatusCanceled
	case DeclarationStatusCustoms:
		return target == DeclarationStatusLiquidated || target == DeclarationStatusCanceled
	case DeclarationStatusLiquidated:
		return target == DeclarationStatusReceived || target == DeclarationStatusCanceled
	case DeclarationStatusReceived, DeclarationStatusCanceled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true if no further transition is possible
func (s DeclarationStatus) IsTerminal() bool {
	return s == DeclarationStatusReceived || s == DeclarationStatusCanceled
}

// AllowsFinancialEdits returns true while header factors and items may change
func (s DeclarationStatus) AllowsFinancialEdits() bool {
	return s == DeclarationStatusDraft || s == DeclarationStatusCustoms
}

// DeclarationItem represents an imported line item on a customs declaration
type DeclarationItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	DeclarationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     *uuid.UUID      `gorm:"type:uuid;index"` // Catalog link, required for inventory injection
	ProductCode   string          `gorm:"type:varchar(50);not null"`
	Description   string          `gorm:"type:varchar(200);not null"`
	Quantity      int64           `gorm:"not null"`
	FOBUnitPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null"` // Foreign currency
	DutyRate      decimal.Decimal `gorm:"type:decimal(5,2);not null"`  // Ad-valorem percentage, 0-100

	// Cost snapshot, populated at liquidation. Zero before that.
	SnapshotCIFLocal       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SnapshotDutyLocal      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SnapshotOtherAllocated decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SnapshotLandedTotal    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SnapshotLandedUnitCost decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DeclarationItem) TableName() string {
	return "declaration_items"
}

// NewDeclarationItem creates a new declaration line item
func NewDeclarationItem(declarationID uuid.UUID, productID *uuid.UUID, productCode, description string, quantity int64, fobUnitPrice, dutyRate decimal.Decimal) (*DeclarationItem, error) {
	if productCode == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a positive integer")
	}
	if fobUnitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FOB_PRICE", "FOB unit price cannot be negative")
	}
	if dutyRate.IsNegative() || dutyRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DUTY_RATE", fmt.Sprintf("Duty rate must be between 0 and 100, got %s", dutyRate))
	}

	now := time.Now()
	return &DeclarationItem{
		ID:            uuid.New(),
		DeclarationID: declarationID,
		ProductID:     productID,
		ProductCode:   productCode,
		Description:   description,
		Quantity:      quantity,
		FOBUnitPrice:  fobUnitPrice.Round(2),
		DutyRate:      dutyRate.Round(2),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// FOBTotal returns quantity times FOB unit price, in the foreign currency
func (i *DeclarationItem) FOBTotal() decimal.Decimal {
	return i.FOBUnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// HasCatalogProduct returns true if the item is linked to a catalog product
func (i *DeclarationItem) HasCatalogProduct() bool {
	return i.ProductID != nil && *i.ProductID != uuid.Nil
}

// HasSnapshot returns true once the liquidation snapshot has been taken
func (i *DeclarationItem) HasSnapshot() bool {
	return !i.SnapshotLandedUnitCost.IsZero() || !i.SnapshotLandedTotal.IsZero()
}

// CustomsDeclaration is the aggregate root for an import shipment filing.
// It owns the line items, the header financial factors used for proration,
// and references the optional reception record.
type CustomsDeclaration struct {
	shared.TenantAggregateRoot
	DeclarationNumber string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_declaration_tenant_number,priority:2"`
	Status            DeclarationStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	SupplierName      string            `gorm:"type:varchar(200)"`

	// Header financial factors. Exchange rate converts the foreign invoice
	// currency into local books currency; freight and insurance are foreign
	// amounts, VAT credit and other expenses are local amounts.
	ExchangeRate  decimal.Decimal `gorm:"type:decimal(18,5);not null;default:0"`
	FreightValue  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	InsuranceV    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0;column:insurance_value"`
	VATCredit     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	OtherExpenses decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	Items []DeclarationItem `gorm:"foreignKey:DeclarationID;references:ID"`

	AcceptedAt   time.Time  `gorm:"not null;index"`
	LiquidatedAt *time.Time `gorm:"index"`
	ReceivedAt   *time.Time
	CanceledAt   *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CustomsDeclaration) TableName() string {
	return "customs_declarations"
}

// NewCustomsDeclaration creates a new declaration in DRAFT status with an
// empty item set.
func NewCustomsDeclaration(tenantID uuid.UUID, declarationNumber, supplierName string, exchangeRate valueobject.ExchangeRate) (*CustomsDeclaration, error) {
	if declarationNumber == "" {
		return nil, shared.NewDomainError("INVALID_DECLARATION_NUMBER", "Declaration number cannot be empty")
	}
	if len(declarationNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_DECLARATION_NUMBER", "Declaration number cannot exceed 50 characters")
	}
	if exchangeRate.IsZero() {
		return nil, shared.NewDomainError("INVALID_EXCHANGE_RATE", "Exchange rate is required")
	}

	decl := &CustomsDeclaration{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DeclarationNumber:   declarationNumber,
		SupplierName:        supplierName,
		Status:              DeclarationStatusDraft,
		ExchangeRate:        exchangeRate.Value(),
		FreightValue:        decimal.Zero,
		InsuranceV:          decimal.Zero,
		VATCredit:           decimal.Zero,
		OtherExpenses:       decimal.Zero,
		Items:               make([]DeclarationItem, 0),
		AcceptedAt:          time.Now(),
	}

	decl.AddDomainEvent(NewDeclarationCreatedEvent(decl))

	return decl, nil
}

// transition moves the declaration to the target status, enforcing the
// forward-only transition table.
func (d *CustomsDeclaration) transition(target DeclarationStatus) error {
	if !d.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transition declaration from %s to %s", d.Status, target))
	}
	d.Status = target
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// guardFinancialEdits rejects mutations once the declaration is frozen
func (d *CustomsDeclaration) guardFinancialEdits() error {
	if !d.Status.AllowsFinancialEdits() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Financial factors are frozen in %s status", d.Status))
	}
	return nil
}

// UpdateFactors updates the header financial factors.
// Rejected once the declaration is LIQUIDATED or beyond.
func (d *CustomsDeclaration) UpdateFactors(exchangeRate valueobject.ExchangeRate, freight, insurance, vatCredit, otherExpenses decimal.Decimal) error {
	if err := d.guardFinancialEdits(); err != nil {
		return err
	}
	if exchangeRate.IsZero() {
		return shared.NewDomainError("INVALID_EXCHANGE_RATE", "Exchange rate is required")
	}
	if freight.IsNegative() || insurance.IsNegative() || vatCredit.IsNegative() || otherExpenses.IsNegative() {
		return shared.NewDomainError("INVALID_FACTOR", "Header factors cannot be negative")
	}

	d.ExchangeRate = exchangeRate.Value()
	d.FreightValue = freight.Round(2)
	d.InsuranceV = insurance.Round(2)
	d.VATCredit = vatCredit.Round(2)
	d.OtherExpenses = otherExpenses.Round(2)
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// AddItem adds a new line item to the declaration.
// Only allowed before liquidation.
func (d *CustomsDeclaration) AddItem(productID *uuid.UUID, productCode, description string, quantity int64, fobUnitPrice, dutyRate decimal.Decimal) (*DeclarationItem, error) {
	if err := d.guardFinancialEdits(); err != nil {
		return nil, err
	}

	item, err := NewDeclarationItem(d.ID, productID, productCode, description, quantity, fobUnitPrice, dutyRate)
	if err != nil {
		return nil, err
	}

	d.Items = append(d.Items, *item)
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return item, nil
}

// UpdateItem updates quantity, FOB unit price and duty rate of an existing item.
// Only allowed before liquidation.
func (d *CustomsDeclaration) UpdateItem(itemID uuid.UUID, quantity int64, fobUnitPrice, dutyRate decimal.Decimal) error {
	if err := d.guardFinancialEdits(); err != nil {
		return err
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a positive integer")
	}
	if fobUnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_FOB_PRICE", "FOB unit price cannot be negative")
	}
	if dutyRate.IsNegative() || dutyRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DUTY_RATE", fmt.Sprintf("Duty rate must be between 0 and 100, got %s", dutyRate))
	}

	for idx := range d.Items {
		if d.Items[idx].ID == itemID {
			d.Items[idx].Quantity = quantity
			d.Items[idx].FOBUnitPrice = fobUnitPrice.Round(2)
			d.Items[idx].DutyRate = dutyRate.Round(2)
			d.Items[idx].UpdatedAt = time.Now()
			d.UpdatedAt = time.Now()
			d.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Declaration item not found")
}

// RemoveItem removes a line item from the declaration.
// Only allowed before liquidation.
func (d *CustomsDeclaration) RemoveItem(itemID uuid.UUID) error {
	if err := d.guardFinancialEdits(); err != nil {
		return err
	}

	for idx, item := range d.Items {
		if item.ID == itemID {
			d.Items = append(d.Items[:idx], d.Items[idx+1:]...)
			d.UpdatedAt = time.Now()
			d.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Declaration item not found")
}

// Submit files the declaration with customs, transitioning DRAFT -> CUSTOMS.
// Requires at least one item.
func (d *CustomsDeclaration) Submit() error {
	if d.Status != DeclarationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit declaration in %s status", d.Status))
	}
	if len(d.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot submit declaration without items")
	}
	if err := d.transition(DeclarationStatusCustoms); err != nil {
		return err
	}
	d.AddDomainEvent(NewDeclarationSubmittedEvent(d))
	return nil
}

// Liquidate finalizes tariff assessment, freezing the financial record.
// The proration result is snapshotted into each item so later edits
// elsewhere in the system cannot change the frozen figures.
func (d *CustomsDeclaration) Liquidate() error {
	if d.Status != DeclarationStatusCustoms {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot liquidate declaration in %s status", d.Status))
	}

	costing, err := d.ComputeCosting()
	if err != nil {
		return err
	}

	byItem := make(map[uuid.UUID]ItemCosting, len(costing.Items))
	for _, c := range costing.Items {
		byItem[c.ItemID] = c
	}
	for idx := range d.Items {
		c, ok := byItem[d.Items[idx].ID]
		if !ok {
			continue
		}
		d.Items[idx].SnapshotCIFLocal = c.CIFLocal
		d.Items[idx].SnapshotDutyLocal = c.DutyLocal
		d.Items[idx].SnapshotOtherAllocated = c.OtherAllocated
		d.Items[idx].SnapshotLandedTotal = c.LandedTotal
		d.Items[idx].SnapshotLandedUnitCost = c.LandedUnitCost
		d.Items[idx].UpdatedAt = time.Now()
	}

	if err := d.transition(DeclarationStatusLiquidated); err != nil {
		return err
	}
	now := time.Now()
	d.LiquidatedAt = &now

	d.AddDomainEvent(NewDeclarationLiquidatedEvent(d, costing))

	return nil
}

// MarkReceived transitions the declaration to its terminal RECEIVED state.
// Only the Reception Gate calls this, after inventory movements were emitted.
func (d *CustomsDeclaration) MarkReceived() error {
	if err := d.transition(DeclarationStatusReceived); err != nil {
		return err
	}
	now := time.Now()
	d.ReceivedAt = &now
	d.AddDomainEvent(NewDeclarationReceivedEvent(d))
	return nil
}

// Cancel cancels the declaration from any non-terminal state
func (d *CustomsDeclaration) Cancel(reason string) error {
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if err := d.transition(DeclarationStatusCanceled); err != nil {
		return err
	}
	now := time.Now()
	d.CanceledAt = &now
	d.CancelReason = reason
	d.AddDomainEvent(NewDeclarationCanceledEvent(d, reason))
	return nil
}

// TotalFOB returns the sum of all item FOB totals in the foreign currency
func (d *CustomsDeclaration) TotalFOB() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.Items {
		total = total.Add(item.FOBTotal())
	}
	return total
}

// GetItem returns an item by its ID, or nil if not found
func (d *CustomsDeclaration) GetItem(itemID uuid.UUID) *DeclarationItem {
	for idx := range d.Items {
		if d.Items[idx].ID == itemID {
			return &d.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of line items
func (d *CustomsDeclaration) ItemCount() int {
	return len(d.Items)
}

// IsLiquidated returns true once the financial record is frozen
func (d *CustomsDeclaration) IsLiquidated() bool {
	return d.Status == DeclarationStatusLiquidated || d.Status == DeclarationStatusReceived
}

// CanModify returns true while header factors and items may change
func (d *CustomsDeclaration) CanModify() bool {
	return d.Status.AllowsFinancialEdits()
}
