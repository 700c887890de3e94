package orderbookv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a resting test order
func createTestOrder(id OrderID, qty Qty, ts Ts) *Order {
	return &Order{
		ID:    id,
		Ts:    ts,
		Side:  SideSell,
		Type:  OrderTypeLimit,
		Price: 105,
		Qty:   qty,
		Owner: 7,
		TIF:   TifGTC,
	}
}

func TestNewPriceLevel(t *testing.T) {
	level := NewPriceLevel(105)

	assert.NotNil(t, level)
	assert.Equal(t, Price(105), level.Price)
	assert.Equal(t, Qty(0), level.TotalQty)
	assert.True(t, level.Empty())
	assert.Equal(t, 0, level.OrderCount())
}

func TestPriceLevel_Append(t *testing.T) {
	t.Run("appends keep FIFO order", func(t *testing.T) {
		level := NewPriceLevel(105)

		slot1 := level.Append(createTestOrder(1, 5, 10))
		slot2 := level.Append(createTestOrder(2, 7, 11))

		assert.Equal(t, 0, slot1)
		assert.Equal(t, 1, slot2)
		assert.Equal(t, Qty(12), level.TotalQty)
		assert.Equal(t, 2, level.OrderCount())

		front, slot, ok := level.Front()
		require.True(t, ok)
		assert.Equal(t, OrderID(1), front.ID)
		assert.Equal(t, slot1, slot)
	})

	t.Run("summary reflects the queue", func(t *testing.T) {
		level := NewPriceLevel(105)
		level.Append(createTestOrder(1, 5, 10))
		level.Append(createTestOrder(2, 7, 11))

		s := level.Summary()
		assert.Equal(t, Price(105), s.Price)
		assert.Equal(t, Qty(12), s.TotalQty)
		assert.Equal(t, 2, s.OrderCount)
	})
}

func TestPriceLevel_Remove(t *testing.T) {
	level := NewPriceLevel(105)
	slot1 := level.Append(createTestOrder(1, 5, 10))
	slot2 := level.Append(createTestOrder(2, 7, 11))

	t.Run("removes a middle order without disturbing slots", func(t *testing.T) {
		removed, ok := level.Remove(slot1)
		require.True(t, ok)
		assert.Equal(t, OrderID(1), removed.ID)
		assert.Equal(t, Qty(7), level.TotalQty)

		front, slot, ok := level.Front()
		require.True(t, ok)
		assert.Equal(t, OrderID(2), front.ID)
		assert.Equal(t, slot2, slot)
	})

	t.Run("removing the same slot twice fails", func(t *testing.T) {
		_, ok := level.Remove(slot1)
		assert.False(t, ok)
		assert.Equal(t, Qty(7), level.TotalQty)
	})

	t.Run("removing the last order empties the level", func(t *testing.T) {
		_, ok := level.Remove(slot2)
		require.True(t, ok)
		assert.True(t, level.Empty())
		assert.Equal(t, Qty(0), level.TotalQty)
	})
}

func TestPriceLevel_Reduce(t *testing.T) {
	level := NewPriceLevel(105)
	slot := level.Append(createTestOrder(1, 10, 10))

	t.Run("reduction keeps priority and updates totals", func(t *testing.T) {
		ok := level.Reduce(slot, 4)
		require.True(t, ok)

		front, frontSlot, ok := level.Front()
		require.True(t, ok)
		assert.Equal(t, slot, frontSlot)
		assert.Equal(t, Qty(4), front.Qty)
		assert.Equal(t, Qty(4), level.TotalQty)
	})

	t.Run("equal quantity is a no-op", func(t *testing.T) {
		ok := level.Reduce(slot, 4)
		require.True(t, ok)
		assert.Equal(t, Qty(4), level.TotalQty)
	})

	t.Run("increase is refused", func(t *testing.T) {
		ok := level.Reduce(slot, 9)
		assert.False(t, ok)
		assert.Equal(t, Qty(4), level.TotalQty)
	})
}

func TestPriceLevel_Fill(t *testing.T) {
	level := NewPriceLevel(105)
	slot1 := level.Append(createTestOrder(1, 5, 10))
	level.Append(createTestOrder(2, 7, 11))

	t.Run("partial fill keeps the maker at the front", func(t *testing.T) {
		removed := level.Fill(slot1, 3)
		assert.False(t, removed)

		front, _, ok := level.Front()
		require.True(t, ok)
		assert.Equal(t, OrderID(1), front.ID)
		assert.Equal(t, Qty(2), front.Qty)
		assert.Equal(t, Qty(9), level.TotalQty)
	})

	t.Run("full fill advances the front", func(t *testing.T) {
		removed := level.Fill(slot1, 2)
		assert.True(t, removed)

		front, _, ok := level.Front()
		require.True(t, ok)
		assert.Equal(t, OrderID(2), front.ID)
		assert.Equal(t, Qty(7), level.TotalQty)
	})

	t.Run("overfill panics", func(t *testing.T) {
		assert.Panics(t, func() {
			_, slot, _ := level.Front()
			level.Fill(slot, 100)
		})
	})
}

func TestPriceLevel_Orders(t *testing.T) {
	level := NewPriceLevel(105)
	level.Append(createTestOrder(1, 5, 10))
	slot2 := level.Append(createTestOrder(2, 7, 11))
	level.Append(createTestOrder(3, 9, 12))

	level.Remove(slot2)

	orders := level.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, OrderID(1), orders[0].ID)
	assert.Equal(t, OrderID(3), orders[1].ID)
}

func TestOrder_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		want  bool
	}{
		{
			name:  "valid limit order",
			order: NewLimitOrder(1, 0, SideBuy, 100, 10, 7),
			want:  true,
		},
		{
			name:  "valid market order with zero price",
			order: NewMarketOrder(2, 0, SideSell, 10, 7),
			want:  true,
		},
		{
			name:  "zero id",
			order: NewLimitOrder(0, 0, SideBuy, 100, 10, 7),
			want:  false,
		},
		{
			name:  "non-positive qty",
			order: NewLimitOrder(3, 0, SideBuy, 100, 0, 7),
			want:  false,
		},
		{
			name:  "limit without price",
			order: NewLimitOrder(4, 0, SideBuy, 0, 10, 7),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.order
			assert.Equal(t, tt.want, o.IsValid())
		})
	}
}

func TestMidprice(t *testing.T) {
	bid := Price(100)
	ask := Price(105)

	t.Run("both sides present truncates toward zero", func(t *testing.T) {
		mid := Midprice(&bid, &ask)
		require.NotNil(t, mid)
		assert.Equal(t, Price(102), *mid)
	})

	t.Run("missing side yields nil", func(t *testing.T) {
		assert.Nil(t, Midprice(&bid, nil))
		assert.Nil(t, Midprice(nil, &ask))
	})
}
