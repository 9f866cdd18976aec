package customs

import (
	"testing"

	"github.com/gestora/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomsDeclaration(t *testing.T) {
	tenantID := uuid.New()
	rate, err := valueobject.NewExchangeRateFromString("24.55000")
	require.NoError(t, err)

	t.Run("creates declaration in draft", func(t *testing.T) {
		decl, err := NewCustomsDeclaration(tenantID, "DI-2026-00042", "Eastern Imports", rate)
		require.NoError(t, err)

		assert.Equal(t, DeclarationStatusDraft, decl.Status)
		assert.Equal(t, "DI-2026-00042", decl.DeclarationNumber)
		assert.Equal(t, tenantID, decl.TenantID)
		assert.Equal(t, 1, decl.Version)
		assert.Empty(t, decl.Items)
		assert.Len(t, decl.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeDeclarationCreated, decl.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects empty number", func(t *testing.T) {
		_, err := NewCustomsDeclaration(tenantID, "", "Eastern Imports", rate)
		assert.Error(t, err)
	})

	t.Run("rejects unset exchange rate", func(t *testing.T) {
		_, err := NewCustomsDeclaration(tenantID, "DI-2026-00043", "Eastern Imports", valueobject.ExchangeRate{})
		assert.Error(t, err)
	})
}

func TestDeclarationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    DeclarationStatus
		to      DeclarationStatus
		allowed bool
	}{
		{DeclarationStatusDraft, DeclarationStatusCustoms, true},
		{DeclarationStatusDraft, DeclarationStatusLiquidated, false},
		{DeclarationStatusDraft, DeclarationStatusCanceled, true},
		{DeclarationStatusCustoms, DeclarationStatusLiquidated, true},
		{DeclarationStatusCustoms, DeclarationStatusDraft, false},
		{DeclarationStatusCustoms, DeclarationStatusCanceled, true},
		{DeclarationStatusLiquidated, DeclarationStatusReceived, true},
		{DeclarationStatusLiquidated, DeclarationStatusCustoms, false},
		{DeclarationStatusLiquidated, DeclarationStatusCanceled, true},
		{DeclarationStatusReceived, DeclarationStatusCanceled, false},
		{DeclarationStatusCanceled, DeclarationStatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestCustomsDeclaration_ItemManagement(t *testing.T) {
	decl := newTestDeclaration(t)

	item, err := decl.AddItem(nil, "SKU-100", "Ceramic tiles", 200, decimal.NewFromFloat(1.25), decimal.NewFromInt(15))
	require.NoError(t, err)
	assert.Equal(t, 1, decl.ItemCount())
	assert.Equal(t, "250", item.FOBTotal().String())

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := decl.AddItem(nil, "SKU-101", "Bad item", 0, decimal.NewFromInt(1), decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects duty rate over 100", func(t *testing.T) {
		_, err := decl.AddItem(nil, "SKU-102", "Bad duty", 1, decimal.NewFromInt(1), decimal.NewFromInt(101))
		assert.Error(t, err)
	})

	t.Run("updates existing item", func(t *testing.T) {
		err := decl.UpdateItem(item.ID, 300, decimal.NewFromFloat(1.10), decimal.NewFromInt(10))
		require.NoError(t, err)
		updated := decl.GetItem(item.ID)
		require.NotNil(t, updated)
		assert.Equal(t, int64(300), updated.Quantity)
	})

	t.Run("update of unknown item fails", func(t *testing.T) {
		err := decl.UpdateItem(uuid.New(), 1, decimal.NewFromInt(1), decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("removes item", func(t *testing.T) {
		extra, err := decl.AddItem(nil, "SKU-103", "Extra", 1, decimal.NewFromInt(5), decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, decl.RemoveItem(extra.ID))
		assert.Nil(t, decl.GetItem(extra.ID))
	})
}

func TestCustomsDeclaration_Lifecycle(t *testing.T) {
	t.Run("submit requires items", func(t *testing.T) {
		decl := newTestDeclaration(t)
		assert.Error(t, decl.Submit())
	})

	t.Run("full happy path", func(t *testing.T) {
		decl := newTestDeclaration(t)
		_, err := decl.AddItem(nil, "SKU-1", "Goods", 10, decimal.NewFromInt(20), decimal.NewFromInt(5))
		require.NoError(t, err)

		require.NoError(t, decl.Submit())
		assert.Equal(t, DeclarationStatusCustoms, decl.Status)

		require.NoError(t, decl.Liquidate())
		assert.Equal(t, DeclarationStatusLiquidated, decl.Status)
		assert.NotNil(t, decl.LiquidatedAt)
		assert.True(t, decl.Items[0].HasSnapshot())

		require.NoError(t, decl.MarkReceived())
		assert.Equal(t, DeclarationStatusReceived, decl.Status)
		assert.NotNil(t, decl.ReceivedAt)
	})

	t.Run("liquidate requires customs status", func(t *testing.T) {
		decl := newTestDeclaration(t)
		_, err := decl.AddItem(nil, "SKU-1", "Goods", 1, decimal.NewFromInt(1), decimal.Zero)
		require.NoError(t, err)
		assert.Error(t, decl.Liquidate())
	})

	t.Run("no backwards transitions", func(t *testing.T) {
		decl := newTestDeclaration(t)
		_, err := decl.AddItem(nil, "SKU-1", "Goods", 1, decimal.NewFromInt(1), decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, decl.Submit())
		assert.Error(t, decl.Submit())
	})

	t.Run("cancel from draft", func(t *testing.T) {
		decl := newTestDeclaration(t)
		require.NoError(t, decl.Cancel("supplier defaulted"))
		assert.Equal(t, DeclarationStatusCanceled, decl.Status)
		assert.Equal(t, "supplier defaulted", decl.CancelReason)
	})

	t.Run("cancel requires reason", func(t *testing.T) {
		decl := newTestDeclaration(t)
		assert.Error(t, decl.Cancel(""))
	})

	t.Run("cannot cancel received declaration", func(t *testing.T) {
		decl := newTestDeclaration(t)
		_, err := decl.AddItem(nil, "SKU-1", "Goods", 1, decimal.NewFromInt(1), decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, decl.Submit())
		require.NoError(t, decl.Liquidate())
		require.NoError(t, decl.MarkReceived())
		assert.Error(t, decl.Cancel("too late"))
	})
}

func TestCustomsDeclaration_FrozenAfterLiquidation(t *testing.T) {
	decl := newTestDeclaration(t)
	item, err := decl.AddItem(nil, "SKU-1", "Goods", 10, decimal.NewFromInt(20), decimal.NewFromInt(5))
	require.NoError(t, err)
	require.NoError(t, decl.Submit())
	require.NoError(t, decl.Liquidate())

	rate, _ := valueobject.NewExchangeRateFromString("8.00000")
	assert.Error(t, decl.UpdateFactors(rate, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero))

	_, err = decl.AddItem(nil, "SKU-2", "Late goods", 1, decimal.NewFromInt(1), decimal.Zero)
	assert.Error(t, err)
	assert.Error(t, decl.UpdateItem(item.ID, 99, decimal.NewFromInt(1), decimal.Zero))
	assert.Error(t, decl.RemoveItem(item.ID))
}

func TestCustomsDeclaration_SnapshotMatchesComputation(t *testing.T) {
	decl := newTestDeclaration(t)
	rate, _ := valueobject.NewExchangeRateFromString("7.80000")
	require.NoError(t, decl.UpdateFactors(rate,
		decimal.NewFromInt(1000), decimal.NewFromInt(200), decimal.Zero, decimal.NewFromInt(500)))
	_, err := decl.AddItem(nil, "WID-A", "Widget A", 10, decimal.NewFromInt(50), decimal.NewFromInt(5))
	require.NoError(t, err)
	_, err = decl.AddItem(nil, "WID-B", "Widget B", 5, decimal.NewFromInt(100), decimal.NewFromInt(10))
	require.NoError(t, err)

	expected, err := decl.ComputeCosting()
	require.NoError(t, err)

	require.NoError(t, decl.Submit())
	require.NoError(t, decl.Liquidate())

	for _, c := range expected.Items {
		item := decl.GetItem(c.ItemID)
		require.NotNil(t, item)
		assert.True(t, item.SnapshotLandedTotal.Equal(c.LandedTotal))
		assert.True(t, item.SnapshotLandedUnitCost.Equal(c.LandedUnitCost))
		assert.True(t, item.SnapshotCIFLocal.Equal(c.CIFLocal))
		assert.True(t, item.SnapshotDutyLocal.Equal(c.DutyLocal))
	}
}
