package customs

import (
	"sort"
	"time"

	"github.com/gestora/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TrackingEventKind is the milestone vocabulary for shipment tracking.
// Kinds carry a canonical logistics ordering used to flag out-of-sequence
// entries; the log itself stays append-only and accepts any kind.
type TrackingEventKind string

const (
	TrackingKindOriginFactory        TrackingEventKind = "ORIGIN_FACTORY"
	TrackingKindDeparted             TrackingEventKind = "DEPARTED"
	TrackingKindInTransit            TrackingEventKind = "IN_TRANSIT"
	TrackingKindPortArrival          TrackingEventKind = "PORT_ARRIVAL"
	TrackingKindCustomsHold          TrackingEventKind = "CUSTOMS_HOLD"
	TrackingKindDispatchedToWarehouse TrackingEventKind = "DISPATCHED_TO_WAREHOUSE"
)

var trackingKindSequence = map[TrackingEventKind]int{
	TrackingKindOriginFactory:        1,
	TrackingKindDeparted:             2,
	TrackingKindInTransit:            3,
	TrackingKindPortArrival:          4,
	TrackingKindCustomsHold:          5,
	TrackingKindDispatchedToWarehouse: 6,
}

// IsValid checks if the kind belongs to the milestone vocabulary
func (k TrackingEventKind) IsValid() bool {
	_, ok := trackingKindSequence[k]
	return ok
}

// String returns the string representation of the kind
func (k TrackingEventKind) String() string {
	return string(k)
}

// Sequence returns the canonical position of the kind in the logistics
// journey. Zero for unknown kinds.
func (k TrackingEventKind) Sequence() int {
	return trackingKindSequence[k]
}

// TrackingEvent is a single append-only entry in a declaration's shipment log
type TrackingEvent struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key"`
	TenantID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	DeclarationID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Kind          TrackingEventKind `gorm:"type:varchar(30);not null"`
	OccurredOn    time.Time         `gorm:"not null;index"`
	Location      string            `gorm:"type:varchar(200)"`
	Notes         string            `gorm:"type:varchar(500)"`
	RecordedBy    *uuid.UUID        `gorm:"type:uuid"`
	CreatedAt     time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TrackingEvent) TableName() string {
	return "tracking_events"
}

// NewTrackingEvent creates a tracking log entry for a declaration
func NewTrackingEvent(tenantID, declarationID uuid.UUID, kind TrackingEventKind, occurredOn time.Time, location, notes string) (*TrackingEvent, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRACKING_KIND", "Unknown tracking event kind")
	}
	if occurredOn.IsZero() {
		return nil, shared.NewDomainError("INVALID_EVENT_DATE", "Tracking event date is required")
	}

	return &TrackingEvent{
		ID:            uuid.New(),
		TenantID:      tenantID,
		DeclarationID: declarationID,
		Kind:          kind,
		OccurredOn:    occurredOn,
		Location:      location,
		Notes:         notes,
		CreatedAt:     time.Now(),
	}, nil
}

// SortEventsForDisplay orders events most recent first. Ties on the event
// date fall back to insertion time so same-day entries keep a stable order.
func SortEventsForDisplay(events []TrackingEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].OccurredOn.Equal(events[j].OccurredOn) {
			return events[i].OccurredOn.After(events[j].OccurredOn)
		}
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
}

// SortEventsChronological orders events oldest first, for journey replay
func SortEventsChronological(events []TrackingEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].OccurredOn.Equal(events[j].OccurredOn) {
			return events[i].OccurredOn.Before(events[j].OccurredOn)
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
}

// LatestMilestone returns the chronologically last event, or nil if the log
// is empty.
func LatestMilestone(events []TrackingEvent) *TrackingEvent {
	if len(events) == 0 {
		return nil
	}
	latest := &events[0]
	for idx := 1; idx < len(events); idx++ {
		e := &events[idx]
		if e.OccurredOn.After(latest.OccurredOn) ||
			(e.OccurredOn.Equal(latest.OccurredOn) && e.CreatedAt.After(latest.CreatedAt)) {
			latest = e
		}
	}
	return latest
}

// OutOfSequence reports events whose kind precedes an already-logged later
// milestone in the canonical journey order. Informational only.
func OutOfSequence(events []TrackingEvent) []TrackingEvent {
	ordered := make([]TrackingEvent, len(events))
	copy(ordered, events)
	SortEventsChronological(ordered)

	var flagged []TrackingEvent
	maxSeq := 0
	for _, e := range ordered {
		seq := e.Kind.Sequence()
		if seq < maxSeq {
			flagged = append(flagged, e)
			continue
		}
		maxSeq = seq
	}
	return flagged
}
