package engine

import (
	"sort"

	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
)

// auctionEntry is one unit of interest in the uncross: either a resting book
// order or a queued auction order.
type auctionEntry struct {
	id     orderbookv1.OrderID
	ts     orderbookv1.Ts
	side   orderbookv1.Side
	price  orderbookv1.Price
	qty    orderbookv1.Qty
	market bool // price-unbounded on its side

	resting bool
	filled  orderbookv1.Qty
}

// uncrossAuction resolves the queued auction flow against the resting book
// at a single clearing price. The clearing price maximises executable
// volume; ties are broken by minimal imbalance, then proximity to the
// reference price, then the lower price. Executed volume trades at the
// clearing price by price-time priority on both sides. Queued market
// leftovers are cancelled; queued limit leftovers rest at their own price
// subject to non-crossing; untouched resting orders remain.
func (e *Engine) uncrossAuction(ts orderbookv1.Ts) []orderbookv1.Trade {
	entries := e.collectAuctionEntries()
	queued := e.auctionQueue
	e.auctionQueue = nil

	ref, hasRef := e.rules.LastTradePrice()
	px, ok := clearingPrice(entries, ref, hasRef)
	var trades []orderbookv1.Trade
	if ok {
		trades = e.executeUncross(entries, px, ts)
	}

	e.applyUncrossFills(entries, queued)
	return trades
}

// collectAuctionEntries merges the resting book and the auction queue into
// one entry list.
func (e *Engine) collectAuctionEntries() []*auctionEntry {
	var entries []*auctionEntry

	for _, side := range []orderbookv1.Side{orderbookv1.SideBuy, orderbookv1.SideSell} {
		e.book.ScanLevels(side, func(level *orderbookv1.PriceLevel) bool {
			for _, o := range level.Orders() {
				entries = append(entries, &auctionEntry{
					id:      o.ID,
					ts:      o.Ts,
					side:    o.Side,
					price:   o.Price,
					qty:     o.Qty,
					resting: true,
				})
			}
			return true
		})
	}

	for i := range e.auctionQueue {
		o := &e.auctionQueue[i]
		entries = append(entries, &auctionEntry{
			id:     o.ID,
			ts:     o.Ts,
			side:   o.Side,
			price:  o.Price,
			qty:    o.Qty,
			market: o.Type == orderbookv1.OrderTypeMarket,
		})
	}
	return entries
}

// eligibleAt reports whether the entry can trade at the candidate price.
func (en *auctionEntry) eligibleAt(px orderbookv1.Price) bool {
	if en.market {
		return true
	}
	if en.side == orderbookv1.SideBuy {
		return en.price >= px
	}
	return en.price <= px
}

// clearingPrice selects the single auction price, or reports false when no
// volume can execute at any candidate.
func clearingPrice(entries []*auctionEntry, ref orderbookv1.Price, hasRef bool) (orderbookv1.Price, bool) {
	seen := make(map[orderbookv1.Price]struct{})
	var candidates []orderbookv1.Price
	for _, en := range entries {
		if en.market {
			continue
		}
		if _, dup := seen[en.price]; dup {
			continue
		}
		seen[en.price] = struct{}{}
		candidates = append(candidates, en.price)
	}
	if len(candidates) == 0 {
		return 0, false
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	var (
		bestPx        orderbookv1.Price
		bestVol       orderbookv1.Qty
		bestImbalance orderbookv1.Qty
		bestDist      orderbookv1.Price
		found         bool
	)

	for _, px := range candidates {
		var buy, sell orderbookv1.Qty
		for _, en := range entries {
			if !en.eligibleAt(px) {
				continue
			}
			if en.side == orderbookv1.SideBuy {
				buy += en.qty
			} else {
				sell += en.qty
			}
		}

		vol := buy
		if sell < vol {
			vol = sell
		}
		if vol <= 0 {
			continue
		}

		imbalance := buy - sell
		if imbalance < 0 {
			imbalance = -imbalance
		}
		dist := orderbookv1.Price(0)
		if hasRef {
			dist = px - ref
			if dist < 0 {
				dist = -dist
			}
		}

		better := false
		switch {
		case !found:
			better = true
		case vol != bestVol:
			better = vol > bestVol
		case imbalance != bestImbalance:
			better = imbalance < bestImbalance
		case hasRef && dist != bestDist:
			better = dist < bestDist
		default:
			better = px < bestPx
		}
		if better {
			bestPx, bestVol, bestImbalance, bestDist = px, vol, imbalance, dist
			found = true
		}
	}
	return bestPx, found
}

// executeUncross emits trades at px by price-time priority on both sides.
// The maker of each trade is the earlier-timestamped side; on a timestamp
// tie the resting side, then the lower order id.
func (e *Engine) executeUncross(entries []*auctionEntry, px orderbookv1.Price, ts orderbookv1.Ts) []orderbookv1.Trade {
	var buys, sells []*auctionEntry
	for _, en := range entries {
		if !en.eligibleAt(px) {
			continue
		}
		if en.side == orderbookv1.SideBuy {
			buys = append(buys, en)
		} else {
			sells = append(sells, en)
		}
	}

	// Price-time priority: market interest first, then the most aggressive
	// price, then arrival time.
	sort.SliceStable(buys, func(i, j int) bool {
		if buys[i].market != buys[j].market {
			return buys[i].market
		}
		if !buys[i].market && buys[i].price != buys[j].price {
			return buys[i].price > buys[j].price
		}
		return buys[i].ts < buys[j].ts
	})
	sort.SliceStable(sells, func(i, j int) bool {
		if sells[i].market != sells[j].market {
			return sells[i].market
		}
		if !sells[i].market && sells[i].price != sells[j].price {
			return sells[i].price < sells[j].price
		}
		return sells[i].ts < sells[j].ts
	})

	var trades []orderbookv1.Trade
	bi, si := 0, 0
	for bi < len(buys) && si < len(sells) {
		b, s := buys[bi], sells[si]

		q := b.qty - b.filled
		if r := s.qty - s.filled; r < q {
			q = r
		}
		if q <= 0 {
			panic("engine: exhausted entry in uncross")
		}

		maker, taker := b, s
		switch {
		case s.ts < b.ts:
			maker, taker = s, b
		case s.ts == b.ts && s.resting != b.resting && s.resting:
			maker, taker = s, b
		case s.ts == b.ts && s.resting == b.resting && s.id < b.id:
			maker, taker = s, b
		}

		tr := e.makeTrade(ts, px, q, maker.id, taker.id)
		trades = append(trades, tr)
		e.rules.OnTrades([]orderbookv1.Trade{tr})

		b.filled += q
		s.filled += q
		if b.filled == b.qty {
			bi++
		}
		if s.filled == s.qty {
			si++
		}
	}
	return trades
}

// applyUncrossFills reconciles the book and the queue with the uncross
// outcome. Resting orders shrink or leave the book; queued limit remainders
// rest at their own price when that would not cross; queued market
// remainders are dropped.
func (e *Engine) applyUncrossFills(entries []*auctionEntry, queued []orderbookv1.Order) {
	byID := make(map[orderbookv1.OrderID]*auctionEntry, len(entries))
	for _, en := range entries {
		byID[en.id] = en
	}

	for _, en := range entries {
		if !en.resting || en.filled == 0 {
			continue
		}
		if en.filled == en.qty {
			e.book.Cancel(en.id)
		} else {
			e.book.ModifyQty(en.id, en.qty-en.filled)
		}
	}

	for i := range queued {
		o := queued[i]
		if o.Type != orderbookv1.OrderTypeLimit {
			continue
		}
		remaining := o.Qty
		if en, ok := byID[o.ID]; ok {
			remaining = o.Qty - en.filled
		}
		if remaining <= 0 {
			continue
		}
		o.Qty = remaining
		e.book.AddRestingLimit(o)
	}
}
