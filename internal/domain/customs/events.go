package customs

import (
	"time"

	"github.com/gestora/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeCustomsDeclaration = "CustomsDeclaration"
	AggregateTypeReception          = "Reception"
)

const (
	EventTypeDeclarationCreated    = "customs.declaration.created"
	EventTypeDeclarationSubmitted  = "customs.declaration.submitted"
	EventTypeDeclarationLiquidated = "customs.declaration.liquidated"
	EventTypeDeclarationReceived   = "customs.declaration.received"
	EventTypeDeclarationCanceled   = "customs.declaration.canceled"
	EventTypeReceptionProcessed    = "customs.reception.processed"
)

// DeclarationCreatedEvent is raised when a new declaration is opened
type DeclarationCreatedEvent struct {
	shared.BaseDomainEvent
	DeclarationNumber string `json:"declaration_number"`
	SupplierName      string `json:"supplier_name"`
}

// NewDeclarationCreatedEvent creates a declaration created event
func NewDeclarationCreatedEvent(d *CustomsDeclaration) *DeclarationCreatedEvent {
	return &DeclarationCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeDeclarationCreated, AggregateTypeCustomsDeclaration, d.ID, d.TenantID),
		DeclarationNumber: d.DeclarationNumber,
		SupplierName:      d.SupplierName,
	}
}

// EventType returns the event type
func (e *DeclarationCreatedEvent) EventType() string {
	return EventTypeDeclarationCreated
}

// DeclarationSubmittedEvent is raised when a declaration is filed with customs
type DeclarationSubmittedEvent struct {
	shared.BaseDomainEvent
	DeclarationNumber string `json:"declaration_number"`
	ItemCount         int    `json:"item_count"`
}

// NewDeclarationSubmittedEvent creates a declaration submitted event
func NewDeclarationSubmittedEvent(d *CustomsDeclaration) *DeclarationSubmittedEvent {
	return &DeclarationSubmittedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeDeclarationSubmitted, AggregateTypeCustomsDeclaration, d.ID, d.TenantID),
		DeclarationNumber: d.DeclarationNumber,
		ItemCount:         len(d.Items),
	}
}

// EventType returns the event type
func (e *DeclarationSubmittedEvent) EventType() string {
	return EventTypeDeclarationSubmitted
}

// DeclarationLiquidatedEvent is raised when tariff assessment is finalized
// and the cost snapshot is frozen
type DeclarationLiquidatedEvent struct {
	shared.BaseDomainEvent
	DeclarationNumber string          `json:"declaration_number"`
	TotalLandedCost   decimal.Decimal `json:"total_landed_cost"`
	TotalDutyLocal    decimal.Decimal `json:"total_duty_local"`
	ItemCount         int             `json:"item_count"`
}

// NewDeclarationLiquidatedEvent creates a declaration liquidated event
func NewDeclarationLiquidatedEvent(d *CustomsDeclaration, costing *CostingResult) *DeclarationLiquidatedEvent {
	return &DeclarationLiquidatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeDeclarationLiquidated, AggregateTypeCustomsDeclaration, d.ID, d.TenantID),
		DeclarationNumber: d.DeclarationNumber,
		TotalLandedCost:   costing.TotalLandedCost,
		TotalDutyLocal:    costing.TotalDutyLocal,
		ItemCount:         len(costing.Items),
	}
}

// EventType returns the event type
func (e *DeclarationLiquidatedEvent) EventType() string {
	return EventTypeDeclarationLiquidated
}

// DeclarationReceivedEvent is raised when goods reach their terminal
// received state
type DeclarationReceivedEvent struct {
	shared.BaseDomainEvent
	DeclarationNumber string    `json:"declaration_number"`
	ReceivedAt        time.Time `json:"received_at"`
}

// NewDeclarationReceivedEvent creates a declaration received event
func NewDeclarationReceivedEvent(d *CustomsDeclaration) *DeclarationReceivedEvent {
	receivedAt := time.Now()
	if d.ReceivedAt != nil {
		receivedAt = *d.ReceivedAt
	}
	return &DeclarationReceivedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeDeclarationReceived, AggregateTypeCustomsDeclaration, d.ID, d.TenantID),
		DeclarationNumber: d.DeclarationNumber,
		ReceivedAt:        receivedAt,
	}
}

// EventType returns the event type
func (e *DeclarationReceivedEvent) EventType() string {
	return EventTypeDeclarationReceived
}

// DeclarationCanceledEvent is raised when a declaration is canceled
type DeclarationCanceledEvent struct {
	shared.BaseDomainEvent
	DeclarationNumber string `json:"declaration_number"`
	Reason            string `json:"reason"`
}

// NewDeclarationCanceledEvent creates a declaration canceled event
func NewDeclarationCanceledEvent(d *CustomsDeclaration, reason string) *DeclarationCanceledEvent {
	return &DeclarationCanceledEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeDeclarationCanceled, AggregateTypeCustomsDeclaration, d.ID, d.TenantID),
		DeclarationNumber: d.DeclarationNumber,
		Reason:            reason,
	}
}

// EventType returns the event type
func (e *DeclarationCanceledEvent) EventType() string {
	return EventTypeDeclarationCanceled
}

// ReceptionProcessedEvent is raised when a reception wins the processing
// claim and its inventory movements are emitted
type ReceptionProcessedEvent struct {
	shared.BaseDomainEvent
	DeclarationID uuid.UUID `json:"declaration_id"`
	WarehouseID   uuid.UUID `json:"warehouse_id"`
}

// NewReceptionProcessedEvent creates a reception processed event
func NewReceptionProcessedEvent(r *Reception) *ReceptionProcessedEvent {
	return &ReceptionProcessedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceptionProcessed, AggregateTypeReception, r.ID, r.TenantID),
		DeclarationID:   r.DeclarationID,
		WarehouseID:     r.WarehouseID,
	}
}

// EventType returns the event type
func (e *ReceptionProcessedEvent) EventType() string {
	return EventTypeReceptionProcessed
}
