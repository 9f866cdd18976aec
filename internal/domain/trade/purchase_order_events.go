package trade

import (
	"github.com/gestora/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const AggregateTypePurchaseOrder = "PurchaseOrder"

const (
	EventTypePurchaseOrderCreated  = "trade.purchase_order.created"
	EventTypePurchaseOrderReceived = "trade.purchase_order.received"
)

// PurchaseOrderCreatedEvent is raised when a purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string          `json:"order_number"`
	SupplierName  string          `json:"supplier_name"`
	DeclaredValue decimal.Decimal `json:"declared_value"`
}

// NewPurchaseOrderCreatedEvent creates a purchase order created event
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
		SupplierName:    order.SupplierName,
		DeclaredValue:   order.DeclaredValue,
	}
}

// EventType returns the event type
func (e *PurchaseOrderCreatedEvent) EventType() string {
	return EventTypePurchaseOrderCreated
}

// PurchaseOrderReceivedEvent is raised when an order reaches its terminal
// received status
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewPurchaseOrderReceivedEvent creates a purchase order received event
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
	}
}

// EventType returns the event type
func (e *PurchaseOrderReceivedEvent) EventType() string {
	return EventTypePurchaseOrderReceived
}
