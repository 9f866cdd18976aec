package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/gestora/backend/internal/domain/customs"
	"github.com/gestora/backend/internal/domain/shared"
	"github.com/gestora/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReceptionRepository implements ReceptionRepository using GORM
type GormReceptionRepository struct {
	db *gorm.DB
}

// NewGormReceptionRepository creates a new GormReceptionRepository
func NewGormReceptionRepository(db *gorm.DB) *GormReceptionRepository {
	return &GormReceptionRepository{db: db}
}

// FindByID finds a reception by ID within a tenant
func (r *GormReceptionRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*customs.Reception, error) {
	var model models.ReceptionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDeclaration finds the reception for a declaration. Returns nil when
// no reception exists yet.
func (r *GormReceptionRepository) FindByDeclaration(ctx context.Context, tenantID, declarationID uuid.UUID) (*customs.Reception, error) {
	var model models.ReceptionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND declaration_id = ?", tenantID, declarationID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a reception
func (r *GormReceptionRepository) Save(ctx context.Context, reception *customs.Reception) error {
	model := models.ReceptionModelFromDomain(reception)
	return r.db.WithContext(ctx).Save(model).Error
}

// ClaimProcessing atomically flips the processed flag from false to true.
// The conditional update is the arbiter between concurrent finalizers: the
// single row it touches goes to exactly one caller, and a rollback of the
// surrounding transaction releases the claim.
func (r *GormReceptionRepository) ClaimProcessing(ctx context.Context, tenantID, receptionID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ReceptionModel{}).
		Where("tenant_id = ? AND id = ? AND processed = ?", tenantID, receptionID, false).
		Updates(map[string]interface{}{
			"processed":    true,
			"processed_at": time.Now(),
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Ensure GormReceptionRepository implements ReceptionRepository
var _ customs.ReceptionRepository = (*GormReceptionRepository)(nil)
