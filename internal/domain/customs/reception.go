package customs

import (
	"fmt"
	"time"

	"github.com/gestora/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Reception is the warehouse arrival record for a liquidated declaration.
// Its processed flag is one-way: once set, the declaration's goods have been
// injected into inventory and finalization must never run again.
type Reception struct {
	shared.TenantAggregateRoot
	DeclarationID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_reception_declaration"`
	WarehouseID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ArrivedAt     time.Time  `gorm:"not null"`
	Processed     bool       `gorm:"not null;default:false"`
	ProcessedAt   *time.Time
	ProcessedBy   *uuid.UUID `gorm:"type:uuid"`

	// Physical-condition checklist, filled in by warehouse staff and
	// editable until the processed flag locks the record
	SealIntact    bool   `gorm:"not null;default:true"`
	ConditionText string `gorm:"type:varchar(200)"`
	DamageNotes   string `gorm:"type:varchar(500)"`
	Notes         string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Reception) TableName() string {
	return "receptions"
}

// NewReception creates a reception record for a declaration at a warehouse
func NewReception(tenantID, declarationID, warehouseID uuid.UUID, arrivedAt time.Time, notes string) (*Reception, error) {
	if declarationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DECLARATION", "Declaration ID is required")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID is required")
	}
	if arrivedAt.IsZero() {
		arrivedAt = time.Now()
	}

	return &Reception{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DeclarationID:       declarationID,
		WarehouseID:         warehouseID,
		ArrivedAt:           arrivedAt,
		Processed:           false,
		SealIntact:          true,
		Notes:               notes,
	}, nil
}

// UpdateChecklist replaces the physical-condition checklist and notes.
// Rejected once the record is processed.
func (r *Reception) UpdateChecklist(sealIntact bool, conditionText, damageNotes, notes string) error {
	if r.Processed {
		return shared.ErrAlreadyProcessed
	}
	r.SealIntact = sealIntact
	r.ConditionText = conditionText
	r.DamageNotes = damageNotes
	r.Notes = notes
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// CanFinalize checks whether inventory injection may run for this reception
func (r *Reception) CanFinalize() error {
	if r.Processed {
		return shared.ErrAlreadyProcessed
	}
	return nil
}

// MarkProcessed flips the one-way processed flag.
// The repository claim is the real race arbiter; this keeps the in-memory
// aggregate consistent with the claimed row.
func (r *Reception) MarkProcessed(userID *uuid.UUID) error {
	if r.Processed {
		return shared.ErrAlreadyProcessed
	}
	now := time.Now()
	r.Processed = true
	r.ProcessedAt = &now
	r.ProcessedBy = userID
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewReceptionProcessedEvent(r))
	return nil
}

// FinalizeResult reports what a finalization attempt did
type FinalizeResult struct {
	ReceptionID      uuid.UUID `json:"reception_id"`
	DeclarationID    uuid.UUID `json:"declaration_id"`
	AlreadyProcessed bool      `json:"already_processed"`
	MovementsCreated int       `json:"movements_created"`
	ItemsSkipped     int       `json:"items_skipped"` // Items without a catalog product link
}

// String describes the outcome for logs
func (r FinalizeResult) String() string {
	if r.AlreadyProcessed {
		return fmt.Sprintf("reception %s already processed", r.ReceptionID)
	}
	return fmt.Sprintf("reception %s processed: %d movements, %d items skipped", r.ReceptionID, r.MovementsCreated, r.ItemsSkipped)
}
