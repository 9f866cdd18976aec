package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImportReceiptMovement(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates inbound movement at landed cost", func(t *testing.T) {
		declarationID := uuid.New()
		m, err := NewImportReceiptMovement(tenantID, uuid.New(), uuid.New(), declarationID, 10, decimal.NewFromFloat(925.90))
		require.NoError(t, err)

		assert.Equal(t, MovementTypeImportReceipt, m.Type)
		assert.True(t, m.Type.IsInbound())
		assert.Equal(t, SourceTypeDeclaration, m.SourceType)
		assert.Equal(t, declarationID, m.SourceID)
		assert.Equal(t, "10", m.Quantity.String())
		assert.Equal(t, "925.90", m.UnitCost.StringFixed(2))
		assert.Equal(t, "9259.00", m.TotalValue().StringFixed(2))
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewImportReceiptMovement(tenantID, uuid.New(), uuid.New(), uuid.New(), 0, decimal.NewFromInt(1))
		assert.Error(t, err)
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		_, err := NewImportReceiptMovement(tenantID, uuid.New(), uuid.New(), uuid.New(), 1, decimal.NewFromInt(-1))
		assert.Error(t, err)
	})

	t.Run("rejects nil product", func(t *testing.T) {
		_, err := NewImportReceiptMovement(tenantID, uuid.Nil, uuid.New(), uuid.New(), 1, decimal.NewFromInt(1))
		assert.Error(t, err)
	})
}

func TestStockItem_ApplyInbound(t *testing.T) {
	item, err := NewStockItem(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)

	t.Run("first receipt sets the average", func(t *testing.T) {
		require.NoError(t, item.ApplyInbound(decimal.NewFromInt(10), decimal.NewFromFloat(925.90)))
		assert.Equal(t, "10", item.Quantity.String())
		assert.Equal(t, "925.90", item.AverageCost.StringFixed(2))
	})

	t.Run("second receipt moves the average", func(t *testing.T) {
		// (10*925.90 + 5*1937.60) / 15 = 1263.13 (rounded)
		require.NoError(t, item.ApplyInbound(decimal.NewFromInt(5), decimal.NewFromFloat(1937.60)))
		assert.Equal(t, "15", item.Quantity.String())
		assert.Equal(t, "1263.13", item.AverageCost.StringFixed(2))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		assert.Error(t, item.ApplyInbound(decimal.Zero, decimal.NewFromInt(1)))
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		assert.Error(t, item.ApplyInbound(decimal.NewFromInt(1), decimal.NewFromInt(-1)))
	})
}

func TestStockItem_TotalValue(t *testing.T) {
	item, err := NewStockItem(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, item.ApplyInbound(decimal.NewFromInt(4), decimal.NewFromFloat(2.50)))
	assert.Equal(t, "10.00", item.TotalValue().StringFixed(2))
}
