package persistence

import (
	"context"
	"errors"

	"github.com/gestora/backend/internal/domain/inventory"
	"github.com/gestora/backend/internal/domain/shared"
	"github.com/gestora/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements StockMovementRepository using GORM.
// The ledger is append-only.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Append adds a movement to the ledger
func (r *GormStockMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	model := models.StockMovementModelFromDomain(movement)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindBySource returns all movements emitted by a source document
func (r *GormStockMovementRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType string, sourceID uuid.UUID) ([]inventory.StockMovement, error) {
	var movementModels []models.StockMovementModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_type = ? AND source_id = ?", tenantID, sourceType, sourceID).
		Order("created_at ASC").
		Find(&movementModels).Error; err != nil {
		return nil, err
	}
	return toDomainMovements(movementModels), nil
}

// FindByProduct returns movements for a product, most recent first
func (r *GormStockMovementRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movementModels []models.StockMovementModel
	query := r.db.WithContext(ctx).Model(&models.StockMovementModel{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, StockMovementSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	if err := query.Order(sortField + " " + sortOrder).Find(&movementModels).Error; err != nil {
		return nil, err
	}
	return toDomainMovements(movementModels), nil
}

func toDomainMovements(movementModels []models.StockMovementModel) []inventory.StockMovement {
	movements := make([]inventory.StockMovement, len(movementModels))
	for i, model := range movementModels {
		movements[i] = *model.ToDomain()
	}
	return movements
}

// GormStockItemRepository implements StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// FindByProductAndWarehouse returns the stock record, or nil when the product
// has never been stocked at the warehouse
func (r *GormStockItemRepository) FindByProductAndWarehouse(ctx context.Context, tenantID, productID, warehouseID uuid.UUID) (*inventory.StockItem, error) {
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND warehouse_id = ?", tenantID, productID, warehouseID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save inserts or updates a stock record
func (r *GormStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	model := models.StockItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByWarehouse returns all stock records at a warehouse
func (r *GormStockItemRepository) FindByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.StockItem, error) {
	var itemModels []models.StockItemModel
	query := r.db.WithContext(ctx).Model(&models.StockItemModel{}).
		Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, StockItemSortFields, "product_id")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	if err := query.Order(sortField + " " + sortOrder).Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]inventory.StockItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// Ensure implementations satisfy the repository interfaces
var (
	_ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
	_ inventory.StockItemRepository     = (*GormStockItemRepository)(nil)
)
