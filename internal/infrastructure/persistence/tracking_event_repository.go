package persistence

import (
	"context"

	"github.com/gestora/backend/internal/domain/customs"
	"github.com/gestora/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTrackingEventRepository implements TrackingEventRepository using GORM.
// The tracking log is append-only, so there is no update or delete path.
type GormTrackingEventRepository struct {
	db *gorm.DB
}

// NewGormTrackingEventRepository creates a new GormTrackingEventRepository
func NewGormTrackingEventRepository(db *gorm.DB) *GormTrackingEventRepository {
	return &GormTrackingEventRepository{db: db}
}

// Append adds an event to a declaration's log
func (r *GormTrackingEventRepository) Append(ctx context.Context, event *customs.TrackingEvent) error {
	model := models.TrackingEventModelFromDomain(event)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByDeclaration returns all events for a declaration, most recent event
// date first. Insertion order breaks ties between events on the same date.
func (r *GormTrackingEventRepository) FindByDeclaration(ctx context.Context, tenantID, declarationID uuid.UUID) ([]customs.TrackingEvent, error) {
	var eventModels []models.TrackingEventModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND declaration_id = ?", tenantID, declarationID).
		Order("occurred_on DESC, created_at DESC").
		Find(&eventModels).Error; err != nil {
		return nil, err
	}

	events := make([]customs.TrackingEvent, len(eventModels))
	for i, model := range eventModels {
		events[i] = *model.ToDomain()
	}
	return events, nil
}

// Ensure GormTrackingEventRepository implements TrackingEventRepository
var _ customs.TrackingEventRepository = (*GormTrackingEventRepository)(nil)
