package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gestora/backend/internal/domain/customs"
	"github.com/gestora/backend/internal/domain/shared"
	"github.com/gestora/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDeclarationRepository implements DeclarationRepository using GORM
type GormDeclarationRepository struct {
	db *gorm.DB
}

// NewGormDeclarationRepository creates a new GormDeclarationRepository
func NewGormDeclarationRepository(db *gorm.DB) *GormDeclarationRepository {
	return &GormDeclarationRepository{db: db}
}

// FindByID finds a declaration by its ID
func (r *GormDeclarationRepository) FindByID(ctx context.Context, id uuid.UUID) (*customs.CustomsDeclaration, error) {
	var model models.CustomsDeclarationModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a declaration by ID within a tenant
func (r *GormDeclarationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*customs.CustomsDeclaration, error) {
	var model models.CustomsDeclarationModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a declaration by its number for a tenant
func (r *GormDeclarationRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, declarationNumber string) (*customs.CustomsDeclaration, error) {
	var model models.CustomsDeclarationModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND declaration_number = ?", tenantID, declarationNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds declarations across tenants; administrative use only
func (r *GormDeclarationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customs.CustomsDeclaration, error) {
	var declModels []models.CustomsDeclarationModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomsDeclarationModel{}), filter)
	if err := query.Preload("Items").Find(&declModels).Error; err != nil {
		return nil, err
	}
	return toDomainDeclarations(declModels), nil
}

// FindAllForTenant finds all declarations for a tenant with filtering
func (r *GormDeclarationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]customs.CustomsDeclaration, error) {
	var declModels []models.CustomsDeclarationModel
	query := r.db.WithContext(ctx).Model(&models.CustomsDeclarationModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Preload("Items").Find(&declModels).Error; err != nil {
		return nil, err
	}
	return toDomainDeclarations(declModels), nil
}

// FindByStatus finds declarations by status for a tenant
func (r *GormDeclarationRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status customs.DeclarationStatus, filter shared.Filter) ([]customs.CustomsDeclaration, error) {
	var declModels []models.CustomsDeclarationModel
	query := r.db.WithContext(ctx).Model(&models.CustomsDeclarationModel{}).
		Where("tenant_id = ? AND status = ?", tenantID, status)
	query = r.applyFilter(query, filter)
	if err := query.Preload("Items").Find(&declModels).Error; err != nil {
		return nil, err
	}
	return toDomainDeclarations(declModels), nil
}

// Save creates or updates a declaration with its items
func (r *GormDeclarationRepository) Save(ctx context.Context, declaration *customs.CustomsDeclaration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.CustomsDeclarationModelFromDomain(declaration)

		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}

		return r.syncItems(tx, declaration)
	})
}

// SaveWithLock saves the declaration with an optimistic lock on its version.
// The conditional update is the arbiter: zero rows affected means another
// writer got there first.
func (r *GormDeclarationRepository) SaveWithLock(ctx context.Context, declaration *customs.CustomsDeclaration, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		declaration.UpdatedAt = time.Now()

		result := tx.Model(&models.CustomsDeclarationModel{}).
			Where("id = ? AND version = ?", declaration.ID, expectedVersion).
			Updates(map[string]interface{}{
				"status":          declaration.Status,
				"supplier_name":   declaration.SupplierName,
				"exchange_rate":   declaration.ExchangeRate,
				"freight_value":   declaration.FreightValue,
				"insurance_value": declaration.InsuranceV,
				"vat_credit":      declaration.VATCredit,
				"other_expenses":  declaration.OtherExpenses,
				"liquidated_at":   declaration.LiquidatedAt,
				"received_at":     declaration.ReceivedAt,
				"canceled_at":     declaration.CanceledAt,
				"cancel_reason":   declaration.CancelReason,
				"version":         declaration.Version,
				"updated_at":      declaration.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return r.syncItems(tx, declaration)
	})
}

// syncItems reconciles the stored item set with the aggregate's
func (r *GormDeclarationRepository) syncItems(tx *gorm.DB, declaration *customs.CustomsDeclaration) error {
	currentItemIDs := make([]uuid.UUID, len(declaration.Items))
	for i, item := range declaration.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("declaration_id = ? AND id NOT IN ?", declaration.ID, currentItemIDs).
			Delete(&models.DeclarationItemModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("declaration_id = ?", declaration.ID).
			Delete(&models.DeclarationItemModel{}).Error; err != nil {
			return err
		}
	}

	for i := range declaration.Items {
		declaration.Items[i].DeclarationID = declaration.ID
		itemModel := models.DeclarationItemModelFromDomain(&declaration.Items[i])
		if err := tx.Save(itemModel).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes a declaration with its items
func (r *GormDeclarationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("declaration_id = ?", id).Delete(&models.DeclarationItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.CustomsDeclarationModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts declarations matching the filter
func (r *GormDeclarationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.CustomsDeclarationModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts a tenant's declarations matching the filter.
// Pagination totals must come from here, not Count, so one tenant's page
// math never reflects another tenant's rows.
func (r *GormDeclarationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CustomsDeclarationModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextDeclarationNumber allocates the next number in the tenant's
// DI-YYYY-NNNNN sequence
func (r *GormDeclarationRepository) NextDeclarationNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("DI-%d-", year)

	var lastDecl models.CustomsDeclarationModel
	err := r.db.WithContext(ctx).
		Model(&models.CustomsDeclarationModel{}).
		Where("tenant_id = ? AND declaration_number LIKE ?", tenantID, prefix+"%").
		Order("declaration_number DESC").
		First(&lastDecl).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastDecl.DeclarationNumber != "" {
		parts := strings.Split(lastDecl.DeclarationNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

func (r *GormDeclarationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, DeclarationSortFields, "accepted_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder)
}

func (r *GormDeclarationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("declaration_number LIKE ? OR supplier_name LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("accepted_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("accepted_at <= ?", t)
			}
		}
	}

	return query
}

func toDomainDeclarations(declModels []models.CustomsDeclarationModel) []customs.CustomsDeclaration {
	declarations := make([]customs.CustomsDeclaration, len(declModels))
	for i, model := range declModels {
		declarations[i] = *model.ToDomain()
	}
	return declarations
}

// Ensure GormDeclarationRepository implements DeclarationRepository
var _ customs.DeclarationRepository = (*GormDeclarationRepository)(nil)
