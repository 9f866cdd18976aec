package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder(uuid.New(), "PO-2026-00001", "Shenzhen Manufacturing Ltd", decimal.NewFromInt(12500), time.Now())
	require.NoError(t, err)
	return order
}

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("creates pending order", func(t *testing.T) {
		order := newTestOrder(t)
		assert.Equal(t, PurchaseOrderStatusPending, order.Status)
		assert.Equal(t, "12500.00", order.DeclaredValue.StringFixed(2))
		assert.Len(t, order.GetDomainEvents(), 1)
	})

	t.Run("rejects empty order number", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "", "Supplier", decimal.Zero, time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects empty supplier", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "PO-2026-00002", "", decimal.Zero, time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects negative declared value", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "PO-2026-00003", "Supplier", decimal.NewFromInt(-1), time.Now())
		assert.Error(t, err)
	})
}

func TestPurchaseOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    PurchaseOrderStatus
		to      PurchaseOrderStatus
		allowed bool
	}{
		{PurchaseOrderStatusPending, PurchaseOrderStatusInTransit, true},
		{PurchaseOrderStatusPending, PurchaseOrderStatusReceived, true},
		{PurchaseOrderStatusPending, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusInTransit, PurchaseOrderStatusReceived, true},
		{PurchaseOrderStatusInTransit, PurchaseOrderStatusPending, false},
		{PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPurchaseOrder_Lifecycle(t *testing.T) {
	order := newTestOrder(t)

	require.NoError(t, order.MarkInTransit())
	assert.Equal(t, PurchaseOrderStatusInTransit, order.Status)

	require.NoError(t, order.MarkReceived())
	assert.Equal(t, PurchaseOrderStatusReceived, order.Status)

	assert.Error(t, order.Cancel())
}

func TestPurchaseOrder_UpdateDeclaredValue(t *testing.T) {
	order := newTestOrder(t)

	require.NoError(t, order.UpdateDeclaredValue(decimal.NewFromFloat(9999.995)))
	assert.Equal(t, "10000.00", order.DeclaredValue.StringFixed(2))

	require.NoError(t, order.Cancel())
	assert.Error(t, order.UpdateDeclaredValue(decimal.NewFromInt(1)))
}

func TestPurchaseOrder_DeclarationLinks(t *testing.T) {
	order := newTestOrder(t)
	declID := uuid.New()

	require.NoError(t, order.LinkDeclaration(declID))
	assert.True(t, order.IsLinkedTo(declID))

	t.Run("duplicate link rejected", func(t *testing.T) {
		assert.Error(t, order.LinkDeclaration(declID))
	})

	t.Run("unlink removes association", func(t *testing.T) {
		require.NoError(t, order.UnlinkDeclaration(declID))
		assert.False(t, order.IsLinkedTo(declID))
	})

	t.Run("unlink of unknown declaration fails", func(t *testing.T) {
		assert.Error(t, order.UnlinkDeclaration(uuid.New()))
	})

	t.Run("cancelled order refuses links", func(t *testing.T) {
		require.NoError(t, order.Cancel())
		assert.Error(t, order.LinkDeclaration(uuid.New()))
	})
}
