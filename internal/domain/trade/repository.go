package trade

import (
	"context"

	"github.com/gestora/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseOrderRepository persists purchase orders with their declaration links
type PurchaseOrderRepository interface {
	shared.TenantRepository[PurchaseOrder]

	// FindByNumber finds an order by its human-facing number
	FindByNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*PurchaseOrder, error)

	// FindByDeclaration finds all orders linked to a customs declaration
	FindByDeclaration(ctx context.Context, tenantID, declarationID uuid.UUID) ([]PurchaseOrder, error)

	// NextOrderNumber allocates the next number in the tenant's
	// PO-YYYY-NNNNN sequence
	NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
