package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brecho/backend/internal/domain/catalog"
	"github.com/brecho/backend/internal/domain/shared/valueobject"
)

func strPtr(s string) *string { return &s }

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func availableItem(id int64, price float64) catalog.Item {
	return catalog.Item{
		ID:               id,
		TagCode:          strPtr("TAG-" + decimal.NewFromInt(id).String()),
		ShortDescription: "Camisa xadrez",
		SalePrice:        decimal.NewFromFloat(price),
		StockQuantity:    1,
		Availability:     catalog.AvailabilityAvailable,
	}
}

func TestCart_Add(t *testing.T) {
	t.Run("adds available item at sale price", func(t *testing.T) {
		cart := NewCart()
		line, err := cart.Add(availableItem(1, 49.90))
		require.NoError(t, err)
		assert.Equal(t, int64(1), line.ItemID)
		assert.Equal(t, "TAG-1", line.DisplayCode)
		assert.True(t, line.UnitPrice.Equal(decimal.NewFromFloat(49.90)))
		assert.Equal(t, 1, cart.Len())
	})

	t.Run("negotiated price wins over sale price", func(t *testing.T) {
		item := availableItem(2, 80)
		item.NegotiatedPrice = decPtr(decimal.NewFromFloat(65))
		cart := NewCart()
		line, err := cart.Add(item)
		require.NoError(t, err)
		assert.True(t, line.UnitPrice.Equal(decimal.NewFromFloat(65)))
	})

	t.Run("rejects duplicate item", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.Add(availableItem(3, 10))
		require.NoError(t, err)
		_, err = cart.Add(availableItem(3, 10))
		assert.ErrorIs(t, err, ErrDuplicateItem)
		assert.Equal(t, 1, cart.Len())
	})
}

func TestCart_RemoveAndReadd(t *testing.T) {
	cart := NewCart()
	_, err := cart.Add(availableItem(1, 20))
	require.NoError(t, err)
	_, err = cart.Add(availableItem(2, 30))
	require.NoError(t, err)

	removed, err := cart.Remove(0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed.ItemID)
	assert.False(t, cart.Contains(1))

	// the removed piece can come right back
	_, err = cart.Add(availableItem(1, 20))
	require.NoError(t, err)
	assert.True(t, cart.Subtotal().Equal(decimal.NewFromInt(50)))

	_, err = cart.Remove(5)
	assert.Error(t, err)
}

func TestCart_SetPrice(t *testing.T) {
	cart := NewCart()
	_, err := cart.Add(availableItem(1, 100))
	require.NoError(t, err)

	t.Run("sanitized money input round trip", func(t *testing.T) {
		price, err := valueobject.ParseMoneyInput("R$ 1.234,56")
		require.NoError(t, err)
		require.NoError(t, cart.SetPrice(0, price))
		line, err := cart.Line(0)
		require.NoError(t, err)
		assert.True(t, line.UnitPrice.Equal(decimal.NewFromFloat(1234.56)))
	})

	t.Run("negative override is rejected without mutation", func(t *testing.T) {
		before, _ := cart.Line(0)
		was := before.UnitPrice
		err := cart.SetPrice(0, valueobject.NewMoneyBRL(decimal.NewFromInt(-5)))
		assert.Error(t, err)
		after, _ := cart.Line(0)
		assert.True(t, after.UnitPrice.Equal(was))
	})

	t.Run("out of range index", func(t *testing.T) {
		err := cart.SetPrice(9, valueobject.NewMoneyBRL(decimal.NewFromInt(1)))
		assert.Error(t, err)
	})
}

func TestCart_Subtotal(t *testing.T) {
	cart := NewCart()
	assert.True(t, cart.Subtotal().IsZero())

	_, err := cart.Add(availableItem(1, 19.90))
	require.NoError(t, err)
	_, err = cart.Add(availableItem(2, 35.10))
	require.NoError(t, err)
	assert.True(t, cart.Subtotal().Equal(decimal.NewFromInt(55)))

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Subtotal().IsZero())
}
