package orderbookv1

// LevelSummary is an aggregated view of one price level.
type LevelSummary struct {
	Price      Price `json:"price"`
	TotalQty   Qty   `json:"qty"`
	OrderCount int   `json:"order_count"`
}

// PriceLevel holds the FIFO queue of resting orders at a single price.
//
// Orders live in an append-only arena so a slot index stays valid for the
// lifetime of the level; cancels blank the slot instead of shifting the
// queue. The head index skips blanked slots when the front is consumed.
type PriceLevel struct {
	Price    Price
	TotalQty Qty

	orders []*Order
	head   int
	live   int
}

// NewPriceLevel creates an empty level at the given price.
func NewPriceLevel(price Price) *PriceLevel {
	return &PriceLevel{Price: price}
}

// Append adds an order at the tail of the queue and returns its slot.
func (l *PriceLevel) Append(o *Order) int {
	l.orders = append(l.orders, o)
	l.TotalQty += o.Qty
	l.live++
	return len(l.orders) - 1
}

// At returns the live order in the given slot.
func (l *PriceLevel) At(slot int) (*Order, bool) {
	if slot < 0 || slot >= len(l.orders) || l.orders[slot] == nil {
		return nil, false
	}
	return l.orders[slot], true
}

// Front returns the earliest live order and its slot.
func (l *PriceLevel) Front() (*Order, int, bool) {
	for l.head < len(l.orders) && l.orders[l.head] == nil {
		l.head++
	}
	if l.head >= len(l.orders) {
		return nil, 0, false
	}
	return l.orders[l.head], l.head, true
}

// Remove blanks the slot and returns the order that occupied it.
func (l *PriceLevel) Remove(slot int) (*Order, bool) {
	o, ok := l.At(slot)
	if !ok {
		return nil, false
	}
	l.orders[slot] = nil
	l.TotalQty -= o.Qty
	l.live--
	return o, true
}

// Reduce lowers the order's quantity in place, keeping its time priority.
// Increases are refused.
func (l *PriceLevel) Reduce(slot int, newQty Qty) bool {
	o, ok := l.At(slot)
	if !ok {
		return false
	}
	if newQty > o.Qty {
		return false
	}
	l.TotalQty -= o.Qty - newQty
	o.Qty = newQty
	return true
}

// Fill consumes qty from the order in the slot, blanking it when fully
// filled. Reports whether the order was removed.
func (l *PriceLevel) Fill(slot int, qty Qty) bool {
	o, ok := l.At(slot)
	if !ok || qty > o.Qty {
		panic("orderbook: fill exceeds resting quantity")
	}
	o.Qty -= qty
	l.TotalQty -= qty
	if o.Qty == 0 {
		l.orders[slot] = nil
		l.live--
		return true
	}
	return false
}

// Empty reports whether no live orders remain.
func (l *PriceLevel) Empty() bool {
	return l.live == 0
}

// OrderCount returns the number of live orders in the level.
func (l *PriceLevel) OrderCount() int {
	return l.live
}

// Orders returns the live orders in FIFO arrival order.
func (l *PriceLevel) Orders() []*Order {
	out := make([]*Order, 0, l.live)
	for _, o := range l.orders {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

// Summary aggregates the level.
func (l *PriceLevel) Summary() LevelSummary {
	return LevelSummary{
		Price:      l.Price,
		TotalQty:   l.TotalQty,
		OrderCount: l.live,
	}
}
