package event

import (
	"context"

	"github.com/gestora/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditLogger is a catch-all handler that writes every domain event to the
// structured log, giving an append-only audit trail of state transitions.
type AuditLogger struct {
	logger *zap.Logger
}

// NewAuditLogger creates a new audit log handler
func NewAuditLogger(logger *zap.Logger) *AuditLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogger{logger: logger}
}

// EventTypes returns nil: the audit trail records all events
func (a *AuditLogger) EventTypes() []string {
	return nil
}

// Handle logs the event
func (a *AuditLogger) Handle(_ context.Context, event shared.DomainEvent) error {
	a.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

var _ Handler = (*AuditLogger)(nil)
