package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brecho/backend/internal/domain/catalog"
)

func TestGateItem(t *testing.T) {
	t.Run("admits sellable item", func(t *testing.T) {
		cart := NewCart()
		admission := GateItem(availableItem(1, 10), cart)
		assert.Equal(t, AdmissionAdmitted, admission.Kind)
	})

	t.Run("flags item already in cart", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.Add(availableItem(1, 10))
		require.NoError(t, err)
		admission := GateItem(availableItem(1, 10), cart)
		assert.Equal(t, AdmissionAlreadyInCart, admission.Kind)
	})

	t.Run("zero stock needs restock", func(t *testing.T) {
		item := availableItem(2, 10)
		item.StockQuantity = 0
		admission := GateItem(item, NewCart())
		assert.Equal(t, AdmissionNeedsRestock, admission.Kind)
		assert.Equal(t, int64(2), admission.Item.ID)
	})

	t.Run("sold item needs restock", func(t *testing.T) {
		item := availableItem(3, 10)
		item.Availability = catalog.AvailabilitySold
		admission := GateItem(item, NewCart())
		assert.Equal(t, AdmissionNeedsRestock, admission.Kind)
	})

	t.Run("duplicate check wins over sellability", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.Add(availableItem(4, 10))
		require.NoError(t, err)
		item := availableItem(4, 10)
		item.StockQuantity = 0
		admission := GateItem(item, cart)
		assert.Equal(t, AdmissionAlreadyInCart, admission.Kind)
	})

	t.Run("patched snapshot is admitted after restock", func(t *testing.T) {
		item := availableItem(5, 10)
		item.StockQuantity = 0
		item.Availability = catalog.AvailabilityReturned

		cart := NewCart()
		first := GateItem(item, cart)
		require.Equal(t, AdmissionNeedsRestock, first.Kind)

		patched := first.Item.PatchRestock(1)
		second := GateItem(patched, cart)
		assert.Equal(t, AdmissionAdmitted, second.Kind)
	})
}
