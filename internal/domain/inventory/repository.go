package inventory

import (
	"context"

	"github.com/gestora/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockMovementRepository persists the append-only movement ledger
type StockMovementRepository interface {
	// Append adds a movement to the ledger. Movements are never updated
	// or deleted.
	Append(ctx context.Context, movement *StockMovement) error

	// FindBySource returns all movements emitted by a source document
	FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType string, sourceID uuid.UUID) ([]StockMovement, error)

	// FindByProduct returns movements for a product, most recent first
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
}

// StockItemRepository persists per-warehouse stock levels
type StockItemRepository interface {
	// FindByProductAndWarehouse returns the stock record, or nil when the
	// product has never been stocked at the warehouse
	FindByProductAndWarehouse(ctx context.Context, tenantID, productID, warehouseID uuid.UUID) (*StockItem, error)

	// Save inserts or updates a stock record
	Save(ctx context.Context, item *StockItem) error

	// FindByWarehouse returns all stock records at a warehouse
	FindByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]StockItem, error)
}
