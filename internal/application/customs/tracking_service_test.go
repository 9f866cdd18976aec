package customs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gestora/backend/internal/domain/customs"
	"github.com/gestora/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrackingRepo struct {
	mu     sync.Mutex
	events []customs.TrackingEvent
}

func (r *fakeTrackingRepo) Append(_ context.Context, event *customs.TrackingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeTrackingRepo) FindByDeclaration(_ context.Context, tenantID, declarationID uuid.UUID) ([]customs.TrackingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []customs.TrackingEvent
	for _, e := range r.events {
		if e.TenantID == tenantID && e.DeclarationID == declarationID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTrackingFixture(t *testing.T) (*TrackingService, uuid.UUID, *customs.CustomsDeclaration, *fakeDeclarationRepo) {
	t.Helper()
	tenantID := uuid.New()
	declRepo := newFakeDeclarationRepo()

	rate, err := valueobject.NewExchangeRateFromString("7.80000")
	require.NoError(t, err)
	decl, err := customs.NewCustomsDeclaration(tenantID, "DI-2026-00010", "Pacific Trading Co", rate)
	require.NoError(t, err)
	require.NoError(t, declRepo.Save(context.Background(), decl))

	return NewTrackingService(declRepo, &fakeTrackingRepo{}), tenantID, decl, declRepo
}

func TestTrackingService_AddEvent(t *testing.T) {
	service, tenantID, decl, declRepo := newTrackingFixture(t)
	ctx := context.Background()

	resp, err := service.AddEvent(ctx, tenantID, decl.ID, AddTrackingEventRequest{
		Kind:       "DEPARTED",
		OccurredOn: time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		Location:   "Shanghai",
	})
	require.NoError(t, err)
	assert.Equal(t, "DEPARTED", resp.Kind)
	assert.Equal(t, customs.TrackingKindDeparted.Sequence(), resp.Sequence)

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := service.AddEvent(ctx, tenantID, decl.ID, AddTrackingEventRequest{
			Kind:       "TELEPORTED",
			OccurredOn: time.Now(),
		})
		assert.Error(t, err)
	})

	t.Run("rejects canceled declaration", func(t *testing.T) {
		require.NoError(t, decl.Cancel("order voided"))
		require.NoError(t, declRepo.Save(ctx, decl))

		_, err := service.AddEvent(ctx, tenantID, decl.ID, AddTrackingEventRequest{
			Kind:       "PORT_ARRIVAL",
			OccurredOn: time.Now(),
		})
		assert.Error(t, err)
	})
}

func TestTrackingService_GetLog(t *testing.T) {
	service, tenantID, decl, _ := newTrackingFixture(t)
	ctx := context.Background()

	add := func(kind string, date time.Time) {
		_, err := service.AddEvent(ctx, tenantID, decl.ID, AddTrackingEventRequest{Kind: kind, OccurredOn: date})
		require.NoError(t, err)
	}
	add("PORT_ARRIVAL", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	add("ORIGIN_FACTORY", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	add("DEPARTED", time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC))

	t.Run("display order is most recent first", func(t *testing.T) {
		log, err := service.GetLog(ctx, tenantID, decl.ID, false)
		require.NoError(t, err)
		require.Len(t, log.Events, 3)
		assert.Equal(t, "PORT_ARRIVAL", log.Events[0].Kind)
		assert.Equal(t, "ORIGIN_FACTORY", log.Events[2].Kind)
		require.NotNil(t, log.Latest)
		assert.Equal(t, "PORT_ARRIVAL", log.Latest.Kind)
	})

	t.Run("chronological order replays the journey", func(t *testing.T) {
		log, err := service.GetLog(ctx, tenantID, decl.ID, true)
		require.NoError(t, err)
		assert.Equal(t, "ORIGIN_FACTORY", log.Events[0].Kind)
		assert.Equal(t, "PORT_ARRIVAL", log.Events[2].Kind)
	})

	t.Run("unknown declaration fails", func(t *testing.T) {
		_, err := service.GetLog(ctx, tenantID, uuid.New(), false)
		assert.Error(t, err)
	})
}
