package orderbook

import (
	"github.com/tidwall/btree"

	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
)

const levelTreeDegree = 32

// locator addresses one resting order inside its price level. Slots are
// append-only within a level, so an index stays valid until the order is
// removed.
type locator struct {
	side  orderbookv1.Side
	price orderbookv1.Price
	slot  int
}

// Book is a price-time priority limit order book. Best-price access is
// O(log P) over the price ladders; cancel and modify are O(1) through the
// locator map.
type Book struct {
	bids     *btree.Map[orderbookv1.Price, *orderbookv1.PriceLevel]
	asks     *btree.Map[orderbookv1.Price, *orderbookv1.PriceLevel]
	locators map[orderbookv1.OrderID]locator
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{
		bids:     btree.NewMap[orderbookv1.Price, *orderbookv1.PriceLevel](levelTreeDegree),
		asks:     btree.NewMap[orderbookv1.Price, *orderbookv1.PriceLevel](levelTreeDegree),
		locators: make(map[orderbookv1.OrderID]locator),
	}
}

func (b *Book) ladder(side orderbookv1.Side) *btree.Map[orderbookv1.Price, *orderbookv1.PriceLevel] {
	if side == orderbookv1.SideBuy {
		return b.bids
	}
	return b.asks
}

// wouldCross reports whether resting the order would cross the opposite
// side.
func (b *Book) wouldCross(o orderbookv1.Order) bool {
	if o.Side == orderbookv1.SideBuy {
		if ask, ok := b.BestAsk(); ok {
			return o.Price >= ask
		}
		return false
	}
	if bid, ok := b.BestBid(); ok {
		return o.Price <= bid
	}
	return false
}

// AddRestingLimit places a limit order at the tail of its price level.
// It refuses non-limit orders, non-positive quantities, and orders that
// would cross the opposite side; a refusal changes nothing.
func (b *Book) AddRestingLimit(o orderbookv1.Order) bool {
	if o.Type != orderbookv1.OrderTypeLimit {
		return false
	}
	if o.Qty <= 0 {
		return false
	}
	if b.wouldCross(o) {
		return false
	}

	ladder := b.ladder(o.Side)
	level, ok := ladder.Get(o.Price)
	if !ok {
		level = orderbookv1.NewPriceLevel(o.Price)
		ladder.Set(o.Price, level)
	}

	resting := o
	slot := level.Append(&resting)
	b.locators[o.ID] = locator{side: o.Side, price: o.Price, slot: slot}
	return true
}

// Cancel removes a resting order by id. Unknown ids return false; stale
// locator entries are dropped on the way.
func (b *Book) Cancel(id orderbookv1.OrderID) bool {
	loc, ok := b.locators[id]
	if !ok {
		return false
	}

	ladder := b.ladder(loc.side)
	level, ok := ladder.Get(loc.price)
	if !ok {
		delete(b.locators, id)
		return false
	}

	if _, ok := level.Remove(loc.slot); !ok {
		delete(b.locators, id)
		return false
	}

	if level.Empty() {
		ladder.Delete(loc.price)
	}
	delete(b.locators, id)
	return true
}

// ModifyQty reduces a resting order's quantity in place, preserving its
// time priority. A non-positive quantity cancels; an increase is refused.
func (b *Book) ModifyQty(id orderbookv1.OrderID, newQty orderbookv1.Qty) bool {
	if newQty <= 0 {
		return b.Cancel(id)
	}

	loc, ok := b.locators[id]
	if !ok {
		return false
	}

	level, ok := b.ladder(loc.side).Get(loc.price)
	if !ok {
		return false
	}

	return level.Reduce(loc.slot, newQty)
}

// BestBid returns the highest resting bid price.
func (b *Book) BestBid() (orderbookv1.Price, bool) {
	price, _, ok := b.bids.Max()
	return price, ok
}

// BestAsk returns the lowest resting ask price.
func (b *Book) BestAsk() (orderbookv1.Price, bool) {
	price, _, ok := b.asks.Min()
	return price, ok
}

// IsCrossed reports whether the book is in the forbidden crossed state.
func (b *Book) IsCrossed() bool {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	return okBid && okAsk && bid >= ask
}

// Get returns the resting order with the given id.
func (b *Book) Get(id orderbookv1.OrderID) (*orderbookv1.Order, bool) {
	loc, ok := b.locators[id]
	if !ok {
		return nil, false
	}
	level, ok := b.ladder(loc.side).Get(loc.price)
	if !ok {
		return nil, false
	}
	return level.At(loc.slot)
}

// RestingCount returns the number of resting orders across both sides.
func (b *Book) RestingCount() int {
	return len(b.locators)
}

// ScanLevels visits price levels from the best price outward until fn
// returns false.
func (b *Book) ScanLevels(side orderbookv1.Side, fn func(level *orderbookv1.PriceLevel) bool) {
	if side == orderbookv1.SideBuy {
		b.bids.Reverse(func(_ orderbookv1.Price, level *orderbookv1.PriceLevel) bool {
			return fn(level)
		})
		return
	}
	b.asks.Scan(func(_ orderbookv1.Price, level *orderbookv1.PriceLevel) bool {
		return fn(level)
	})
}

// Depth returns the top n aggregated levels for a side, best first.
func (b *Book) Depth(side orderbookv1.Side, n int) []orderbookv1.LevelSummary {
	if n <= 0 {
		return nil
	}
	out := make([]orderbookv1.LevelSummary, 0, n)
	b.ScanLevels(side, func(level *orderbookv1.PriceLevel) bool {
		out = append(out, level.Summary())
		return len(out) < n
	})
	return out
}

// Front returns the highest-priority resting order on a side: the earliest
// order at the best price.
func (b *Book) Front(side orderbookv1.Side) (*orderbookv1.Order, bool) {
	level, ok := b.bestLevel(side)
	if !ok {
		return nil, false
	}
	o, _, ok := level.Front()
	return o, ok
}

// FillFront consumes qty from the side's front order, removing it from the
// level and the locator when fully filled and dropping the level when it
// empties. Callers must not exceed the front order's quantity.
func (b *Book) FillFront(side orderbookv1.Side, qty orderbookv1.Qty) {
	level, ok := b.bestLevel(side)
	if !ok {
		panic("orderbook: fill on empty side")
	}
	o, slot, ok := level.Front()
	if !ok {
		panic("orderbook: fill on empty level")
	}
	if level.Fill(slot, qty) {
		delete(b.locators, o.ID)
		if level.Empty() {
			b.ladder(side).Delete(level.Price)
		}
	}
}

func (b *Book) bestLevel(side orderbookv1.Side) (*orderbookv1.PriceLevel, bool) {
	if side == orderbookv1.SideBuy {
		_, level, ok := b.bids.Max()
		return level, ok
	}
	_, level, ok := b.asks.Min()
	return level, ok
}
