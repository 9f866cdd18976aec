package customs

import (
	"context"

	"github.com/gestora/backend/internal/domain/customs"
	"github.com/gestora/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TrackingService manages the append-only shipment tracking log
type TrackingService struct {
	declarationRepo customs.DeclarationRepository
	trackingRepo    customs.TrackingEventRepository
}

// NewTrackingService creates a new TrackingService
func NewTrackingService(declarationRepo customs.DeclarationRepository, trackingRepo customs.TrackingEventRepository) *TrackingService {
	return &TrackingService{
		declarationRepo: declarationRepo,
		trackingRepo:    trackingRepo,
	}
}

// AddEvent appends a tracking event to a declaration's log.
// Canceled declarations no longer accept events; everything else does,
// including backfilled entries with past dates.
func (s *TrackingService) AddEvent(ctx context.Context, tenantID, declarationID uuid.UUID, req AddTrackingEventRequest) (*TrackingEventResponse, error) {
	decl, err := s.declarationRepo.FindByIDForTenant(ctx, tenantID, declarationID)
	if err != nil {
		return nil, err
	}
	if decl.Status == customs.DeclarationStatusCanceled {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add tracking events to a canceled declaration")
	}

	event, err := customs.NewTrackingEvent(tenantID, declarationID, customs.TrackingEventKind(req.Kind), req.OccurredOn, req.Location, req.Notes)
	if err != nil {
		return nil, err
	}
	event.RecordedBy = req.RecordedBy

	if err := s.trackingRepo.Append(ctx, event); err != nil {
		return nil, err
	}

	response := ToTrackingEventResponse(event)
	return &response, nil
}

// GetLog returns a declaration's tracking log, most recent event first,
// along with the latest milestone. Pass chronological=true for oldest-first
// journey order.
func (s *TrackingService) GetLog(ctx context.Context, tenantID, declarationID uuid.UUID, chronological bool) (*TrackingLogResponse, error) {
	if _, err := s.declarationRepo.FindByIDForTenant(ctx, tenantID, declarationID); err != nil {
		return nil, err
	}

	events, err := s.trackingRepo.FindByDeclaration(ctx, tenantID, declarationID)
	if err != nil {
		return nil, err
	}

	if chronological {
		customs.SortEventsChronological(events)
	} else {
		customs.SortEventsForDisplay(events)
	}

	response := TrackingLogResponse{
		DeclarationID: declarationID,
		Events:        make([]TrackingEventResponse, 0, len(events)),
	}
	if latest := customs.LatestMilestone(events); latest != nil {
		r := ToTrackingEventResponse(latest)
		response.Latest = &r
	}
	for idx := range events {
		response.Events = append(response.Events, ToTrackingEventResponse(&events[idx]))
	}

	return &response, nil
}
