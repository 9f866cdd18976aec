package persistence

import (
	"context"
	"testing"
	"time"

	appcustoms "github.com/gestora/backend/internal/application/customs"
	"github.com/gestora/backend/internal/domain/customs"
	"github.com/gestora/backend/internal/domain/shared"
	"github.com/gestora/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReceptionTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.CustomsDeclarationModel{},
		&models.DeclarationItemModel{},
		&models.ReceptionModel{},
		&models.StockMovementModel{},
		&models.StockItemModel{},
	)
	require.NoError(t, err)

	return db
}

func newStoredReception(t *testing.T, repo *GormReceptionRepository, tenantID uuid.UUID) *customs.Reception {
	t.Helper()

	reception, err := customs.NewReception(tenantID, uuid.New(), uuid.New(), time.Now(), "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), reception))
	return reception
}

func TestGormReceptionRepository_FindByDeclaration(t *testing.T) {
	db := setupReceptionTestDB(t)
	repo := NewGormReceptionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("returns nil when no reception exists", func(t *testing.T) {
		reception, err := repo.FindByDeclaration(ctx, tenantID, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, reception)
	})

	t.Run("finds the stored reception", func(t *testing.T) {
		stored := newStoredReception(t, repo, tenantID)

		found, err := repo.FindByDeclaration(ctx, tenantID, stored.DeclarationID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, stored.ID, found.ID)
		assert.False(t, found.Processed)
		assert.True(t, found.SealIntact)
	})

	t.Run("round-trips the checklist fields", func(t *testing.T) {
		stored := newStoredReception(t, repo, tenantID)
		require.NoError(t, stored.UpdateChecklist(false, "crates dented", "3 boxes water-damaged", "dock 2"))
		require.NoError(t, repo.Save(ctx, stored))

		found, err := repo.FindByDeclaration(ctx, tenantID, stored.DeclarationID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.False(t, found.SealIntact)
		assert.Equal(t, "crates dented", found.ConditionText)
		assert.Equal(t, "3 boxes water-damaged", found.DamageNotes)
	})
}

func TestGormReceptionRepository_FindByID(t *testing.T) {
	db := setupReceptionTestDB(t)
	repo := NewGormReceptionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	stored := newStoredReception(t, repo, tenantID)

	found, err := repo.FindByID(ctx, tenantID, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.DeclarationID, found.DeclarationID)

	missing, err := repo.FindByID(ctx, tenantID, uuid.New())
	assert.Nil(t, missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormReceptionRepository_ClaimProcessing(t *testing.T) {
	db := setupReceptionTestDB(t)
	repo := NewGormReceptionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("first claim wins, second is refused", func(t *testing.T) {
		stored := newStoredReception(t, repo, tenantID)

		claimed, err := repo.ClaimProcessing(ctx, tenantID, stored.ID)
		require.NoError(t, err)
		assert.True(t, claimed)

		again, err := repo.ClaimProcessing(ctx, tenantID, stored.ID)
		require.NoError(t, err)
		assert.False(t, again)

		reloaded, err := repo.FindByID(ctx, tenantID, stored.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.Processed)
		assert.NotNil(t, reloaded.ProcessedAt)
	})

	t.Run("claim is refused for an unknown reception", func(t *testing.T) {
		claimed, err := repo.ClaimProcessing(ctx, tenantID, uuid.New())
		require.NoError(t, err)
		assert.False(t, claimed)
	})

	t.Run("claim is tenant scoped", func(t *testing.T) {
		stored := newStoredReception(t, repo, tenantID)

		claimed, err := repo.ClaimProcessing(ctx, uuid.New(), stored.ID)
		require.NoError(t, err)
		assert.False(t, claimed)
	})
}

// A rolled-back finalization transaction must release the processing claim
// so the reception can be retried.
func TestGormTransactionScope_RollbackReleasesClaim(t *testing.T) {
	db := setupReceptionTestDB(t)
	repo := NewGormReceptionRepository(db)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	tenantID := uuid.New()

	stored := newStoredReception(t, repo, tenantID)

	attemptErr := shared.NewDomainError("INJECTION_FAILED", "simulated failure after claim")
	err := scope.Execute(ctx, func(repos appcustoms.TransactionalRepositories) error {
		claimed, claimErr := repos.ReceptionRepo().ClaimProcessing(ctx, tenantID, stored.ID)
		require.NoError(t, claimErr)
		require.True(t, claimed)
		return attemptErr
	})
	require.ErrorIs(t, err, attemptErr)

	reloaded, err := repo.FindByID(ctx, tenantID, stored.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Processed)

	// A retry after the rollback claims cleanly
	claimed, err := repo.ClaimProcessing(ctx, tenantID, stored.ID)
	require.NoError(t, err)
	assert.True(t, claimed)
}
