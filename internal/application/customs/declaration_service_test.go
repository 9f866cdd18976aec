package customs

import (
	"context"
	"testing"

	"github.com/gestora/backend/internal/domain/customs"
	"github.com/gestora/backend/internal/domain/shared"
	"github.com/gestora/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDeclarationRepository is a mock implementation of DeclarationRepository
type MockDeclarationRepository struct {
	mock.Mock
}

func (m *MockDeclarationRepository) FindByID(ctx context.Context, id uuid.UUID) (*customs.CustomsDeclaration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customs.CustomsDeclaration), args.Error(1)
}

func (m *MockDeclarationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*customs.CustomsDeclaration, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customs.CustomsDeclaration), args.Error(1)
}

func (m *MockDeclarationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customs.CustomsDeclaration, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]customs.CustomsDeclaration), args.Error(1)
}

func (m *MockDeclarationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]customs.CustomsDeclaration, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]customs.CustomsDeclaration), args.Error(1)
}

func (m *MockDeclarationRepository) Save(ctx context.Context, decl *customs.CustomsDeclaration) error {
	args := m.Called(ctx, decl)
	return args.Error(0)
}

func (m *MockDeclarationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDeclarationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDeclarationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDeclarationRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*customs.CustomsDeclaration, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customs.CustomsDeclaration), args.Error(1)
}

func (m *MockDeclarationRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status customs.DeclarationStatus, filter shared.Filter) ([]customs.CustomsDeclaration, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]customs.CustomsDeclaration), args.Error(1)
}

func (m *MockDeclarationRepository) SaveWithLock(ctx context.Context, decl *customs.CustomsDeclaration, expectedVersion int) error {
	args := m.Called(ctx, decl, expectedVersion)
	return args.Error(0)
}

func (m *MockDeclarationRepository) NextDeclarationNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

func liquidatableDeclaration(t *testing.T, tenantID uuid.UUID) *customs.CustomsDeclaration {
	t.Helper()
	rate, err := valueobject.NewExchangeRateFromString("7.80000")
	require.NoError(t, err)
	decl, err := customs.NewCustomsDeclaration(tenantID, "DI-2026-00007", "Pacific Trading Co", rate)
	require.NoError(t, err)
	require.NoError(t, decl.UpdateFactors(rate,
		decimal.NewFromInt(1000), decimal.NewFromInt(200), decimal.Zero, decimal.NewFromInt(500)))
	_, err = decl.AddItem(nil, "WID-A", "Widget A", 10, decimal.NewFromInt(50), decimal.NewFromInt(5))
	require.NoError(t, err)
	decl.ClearDomainEvents()
	return decl
}

func TestDeclarationService_Create(t *testing.T) {
	repo := new(MockDeclarationRepository)
	service := NewDeclarationService(repo)
	tenantID := uuid.New()
	ctx := context.Background()

	repo.On("NextDeclarationNumber", ctx, tenantID).Return("DI-2026-00001", nil)
	repo.On("Save", ctx, mock.AnythingOfType("*customs.CustomsDeclaration")).Return(nil)

	resp, err := service.Create(ctx, tenantID, CreateDeclarationRequest{
		SupplierName: "Pacific Trading Co",
		ExchangeRate: decimal.RequireFromString("7.80000"),
	})
	require.NoError(t, err)

	assert.Equal(t, "DI-2026-00001", resp.DeclarationNumber)
	assert.Equal(t, string(customs.DeclarationStatusDraft), resp.Status)
	repo.AssertExpectations(t)
}

func TestDeclarationService_Create_InvalidRate(t *testing.T) {
	repo := new(MockDeclarationRepository)
	service := NewDeclarationService(repo)

	_, err := service.Create(context.Background(), uuid.New(), CreateDeclarationRequest{
		ExchangeRate: decimal.Zero,
	})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Save")
}

func TestDeclarationService_Submit(t *testing.T) {
	repo := new(MockDeclarationRepository)
	service := NewDeclarationService(repo)
	tenantID := uuid.New()
	ctx := context.Background()

	decl := liquidatableDeclaration(t, tenantID)
	versionBefore := decl.Version

	repo.On("FindByIDForTenant", ctx, tenantID, decl.ID).Return(decl, nil)
	repo.On("SaveWithLock", ctx, decl, versionBefore).Return(nil)

	resp, err := service.Submit(ctx, tenantID, decl.ID)
	require.NoError(t, err)
	assert.Equal(t, string(customs.DeclarationStatusCustoms), resp.Status)
	repo.AssertExpectations(t)
}

func TestDeclarationService_Liquidate(t *testing.T) {
	repo := new(MockDeclarationRepository)
	service := NewDeclarationService(repo)
	tenantID := uuid.New()
	ctx := context.Background()

	decl := liquidatableDeclaration(t, tenantID)
	require.NoError(t, decl.Submit())
	versionBefore := decl.Version

	repo.On("FindByIDForTenant", ctx, tenantID, decl.ID).Return(decl, nil)
	repo.On("SaveWithLock", ctx, decl, versionBefore).Return(nil)

	resp, err := service.Liquidate(ctx, tenantID, decl.ID)
	require.NoError(t, err)

	assert.Equal(t, string(customs.DeclarationStatusLiquidated), resp.Status)
	require.NotNil(t, resp.Items[0].LandedUnitCost)
	assert.Equal(t, "9259", resp.Items[0].LandedTotal.String())
	repo.AssertExpectations(t)
}

func TestDeclarationService_Liquidate_ConflictPropagates(t *testing.T) {
	repo := new(MockDeclarationRepository)
	service := NewDeclarationService(repo)
	tenantID := uuid.New()
	ctx := context.Background()

	decl := liquidatableDeclaration(t, tenantID)
	require.NoError(t, decl.Submit())

	repo.On("FindByIDForTenant", ctx, tenantID, decl.ID).Return(decl, nil)
	repo.On("SaveWithLock", ctx, mock.Anything, mock.Anything).Return(shared.ErrConcurrencyConflict)

	_, err := service.Liquidate(ctx, tenantID, decl.ID)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestDeclarationService_GetCosting(t *testing.T) {
	repo := new(MockDeclarationRepository)
	service := NewDeclarationService(repo)
	tenantID := uuid.New()
	ctx := context.Background()

	t.Run("live computation before liquidation", func(t *testing.T) {
		decl := liquidatableDeclaration(t, tenantID)
		repo.On("FindByIDForTenant", ctx, tenantID, decl.ID).Return(decl, nil).Once()

		resp, err := service.GetCosting(ctx, tenantID, decl.ID)
		require.NoError(t, err)
		assert.False(t, resp.Frozen)
		assert.Equal(t, "9259.00", resp.TotalLandedCost.StringFixed(2))
	})

	t.Run("frozen snapshot after liquidation", func(t *testing.T) {
		decl := liquidatableDeclaration(t, tenantID)
		require.NoError(t, decl.Submit())
		require.NoError(t, decl.Liquidate())
		repo.On("FindByIDForTenant", ctx, tenantID, decl.ID).Return(decl, nil).Once()

		resp, err := service.GetCosting(ctx, tenantID, decl.ID)
		require.NoError(t, err)
		assert.True(t, resp.Frozen)
		assert.Equal(t, "9259.00", resp.TotalLandedCost.StringFixed(2))
	})

	t.Run("items ordered largest FOB first", func(t *testing.T) {
		decl := liquidatableDeclaration(t, tenantID)
		_, err := decl.AddItem(nil, "WID-B", "Widget B", 5, decimal.NewFromInt(200), decimal.NewFromInt(10))
		require.NoError(t, err)
		repo.On("FindByIDForTenant", ctx, tenantID, decl.ID).Return(decl, nil).Once()

		resp, err := service.GetCosting(ctx, tenantID, decl.ID)
		require.NoError(t, err)
		require.Len(t, resp.Items, 2)
		assert.Equal(t, "WID-B", resp.Items[0].ProductCode)
		assert.Equal(t, "WID-A", resp.Items[1].ProductCode)
	})
}

func TestDeclarationService_List_TenantScopedTotal(t *testing.T) {
	repo := new(MockDeclarationRepository)
	service := NewDeclarationService(repo)
	tenantID := uuid.New()
	ctx := context.Background()

	decl := liquidatableDeclaration(t, tenantID)
	repo.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "accepted_at" && f.OrderDir == "desc"
	})).Return([]customs.CustomsDeclaration{*decl}, nil)
	// The pagination total must be scoped to the same tenant as the page
	repo.On("CountForTenant", ctx, tenantID, mock.Anything).Return(int64(1), nil)

	items, total, err := service.List(ctx, tenantID, DeclarationListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Count", ctx, mock.Anything)
}

func TestDeclarationService_UpdateFactors_NotFound(t *testing.T) {
	repo := new(MockDeclarationRepository)
	service := NewDeclarationService(repo)
	tenantID := uuid.New()
	declarationID := uuid.New()
	ctx := context.Background()

	repo.On("FindByIDForTenant", ctx, tenantID, declarationID).Return(nil, shared.ErrNotFound)

	_, err := service.UpdateFactors(ctx, tenantID, declarationID, UpdateFactorsRequest{
		ExchangeRate: decimal.RequireFromString("7.80000"),
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
