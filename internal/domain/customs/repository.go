package customs

import (
	"context"

	"github.com/gestora/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DeclarationRepository persists customs declarations with their items
type DeclarationRepository interface {
	shared.TenantRepository[CustomsDeclaration]

	// FindByNumber finds a declaration by its human-facing number
	FindByNumber(ctx context.Context, tenantID uuid.UUID, declarationNumber string) (*CustomsDeclaration, error)

	// FindByStatus finds declarations in the given status
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status DeclarationStatus, filter shared.Filter) ([]CustomsDeclaration, error)

	// SaveWithLock saves the declaration with an optimistic lock on its
	// version. Returns ErrConcurrencyConflict when the stored version
	// has moved on.
	SaveWithLock(ctx context.Context, declaration *CustomsDeclaration, expectedVersion int) error

	// NextDeclarationNumber allocates the next number in the tenant's
	// DI-YYYY-NNNNN sequence
	NextDeclarationNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// TrackingEventRepository persists the append-only shipment tracking log
type TrackingEventRepository interface {
	// Append adds an event to a declaration's log. Events are never
	// updated or deleted.
	Append(ctx context.Context, event *TrackingEvent) error

	// FindByDeclaration returns all events for a declaration, most recent
	// event date first
	FindByDeclaration(ctx context.Context, tenantID, declarationID uuid.UUID) ([]TrackingEvent, error)
}

// ReceptionRepository persists reception records and arbitrates the
// exactly-once processing claim
type ReceptionRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Reception, error)
	FindByDeclaration(ctx context.Context, tenantID, declarationID uuid.UUID) (*Reception, error)
	Save(ctx context.Context, reception *Reception) error

	// ClaimProcessing atomically flips the processed flag from false to
	// true. Returns true if this caller won the claim, false if the
	// reception was already processed. Must run inside the finalization
	// transaction so a rollback releases the claim.
	ClaimProcessing(ctx context.Context, tenantID, receptionID uuid.UUID) (bool, error)
}
