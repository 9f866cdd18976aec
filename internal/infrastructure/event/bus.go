package event

import (
	"context"
	"sync"

	"github.com/gestora/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Handler processes domain events dispatched by the bus
type Handler interface {
	// Handle processes a single event. Errors are logged, not propagated;
	// publishing happens after the aggregate is already persisted.
	Handle(ctx context.Context, event shared.DomainEvent) error

	// EventTypes returns the event types this handler subscribes to.
	// An empty slice subscribes to all events.
	EventTypes() []string
}

// Bus is an in-process event dispatcher. Services publish domain events
// after persisting an aggregate; subscribed handlers run synchronously.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	catchAll []Handler
	logger   *zap.Logger
}

// NewBus creates a new event bus
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for the event types it declares
func (b *Bus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	types := handler.EventTypes()
	if len(types) == 0 {
		b.catchAll = append(b.catchAll, handler)
		b.logger.Debug("handler subscribed to all events")
		return
	}
	for _, t := range types {
		b.handlers[t] = append(b.handlers[t], handler)
	}
	b.logger.Debug("handler subscribed", zap.Strings("event_types", types))
}

// Publish dispatches the event to every subscribed handler
func (b *Bus) Publish(ctx context.Context, event shared.DomainEvent) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[event.EventType()])+len(b.catchAll))
	handlers = append(handlers, b.handlers[event.EventType()]...)
	handlers = append(handlers, b.catchAll...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := b.dispatch(ctx, handler, event); err != nil {
			b.logger.Error("event handler failed",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Error(err),
			)
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, handler Handler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	return handler.Handle(ctx, event)
}

var _ shared.EventPublisher = (*Bus)(nil)
