// Package engine implements the deterministic matching engine: price-time
// priority matching, self-trade prevention, FOK atomicity, price bands with
// volatility interruption, auction queueing and uncross, and the session
// phase transitions.
package engine

import (
	enginev1 "github.com/muhammadchandra19/marketsim/internal/domain/engine/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	rulesv1 "github.com/muhammadchandra19/marketsim/internal/domain/rules/v1"
	"github.com/muhammadchandra19/marketsim/internal/usecase/orderbook"
	"github.com/muhammadchandra19/marketsim/internal/usecase/rules"
)

// Engine processes one order at a time against the book. It is
// single-threaded by contract: callers serialise Process, Flush, and direct
// book mutations.
type Engine struct {
	book  *orderbook.Book
	rules *rules.RuleSet

	nextTradeID orderbookv1.TradeID

	auctionQueue []orderbookv1.Order
	auctionEndTs orderbookv1.Ts
	talEndTs     orderbookv1.Ts
}

// New creates an engine over an empty book.
func New(rs *rules.RuleSet) *Engine {
	return &Engine{
		book:        orderbook.NewBook(),
		rules:       rs,
		nextTradeID: 1,
	}
}

// Book exposes the order book for direct cancel/modify and read access.
func (e *Engine) Book() *orderbook.Book {
	return e.book
}

// Rules exposes the rule set.
func (e *Engine) Rules() *rules.RuleSet {
	return e.rules
}

// StartTradingAtLast enters the trading-at-last phase until endTs. The
// scheduler guarantees a last trade price exists before entering.
func (e *Engine) StartTradingAtLast(endTs orderbookv1.Ts) {
	e.rules.SetPhase(rulesv1.PhaseTradingAtLast)
	e.talEndTs = endTs
}

// StartClosingAuction enters the closing auction; the uncross fires at endTs.
func (e *Engine) StartClosingAuction(endTs orderbookv1.Ts) {
	e.rules.SetPhase(rulesv1.PhaseClosingAuction)
	e.auctionEndTs = endTs
}

// Flush executes any timed transition due at or before ts and returns the
// trades it produced. Idempotent: calling again at the same ts with no
// pending transition changes nothing.
func (e *Engine) Flush(ts orderbookv1.Ts) []orderbookv1.Trade {
	switch e.rules.Phase() {
	case rulesv1.PhaseAuction:
		if ts >= e.auctionEndTs {
			trades := e.uncrossAuction(ts)
			e.rules.SetPhase(rulesv1.PhaseContinuous)
			return trades
		}
	case rulesv1.PhaseClosingAuction:
		if ts >= e.auctionEndTs {
			trades := e.uncrossAuction(ts)
			e.rules.SetPhase(rulesv1.PhaseClosed)
			return trades
		}
	case rulesv1.PhaseTradingAtLast:
		if ts >= e.talEndTs {
			e.rules.SetPhase(rulesv1.PhaseContinuous)
		}
	}
	return nil
}

// Process runs one inbound order through the pipeline: timed transitions,
// admission, phase policy, STP, band check, matching, remainder handling.
// Trades produced by a transition that became due at the order's timestamp
// ride along in the result ahead of the order's own trades.
func (e *Engine) Process(o orderbookv1.Order) enginev1.MatchResult {
	out := enginev1.MatchResult{Status: enginev1.StatusAccepted}
	out.Trades = append(out.Trades, e.Flush(o.Ts)...)

	if dec := e.rules.PreAccept(&o); !dec.Accept {
		out.Status = enginev1.StatusRejected
		out.RejectReason = dec.Reason
		return out
	}

	switch e.rules.Phase() {
	case rulesv1.PhaseClosed:
		out.Status = enginev1.StatusRejected
		out.RejectReason = rulesv1.RejectMarketHalted
		return out
	case rulesv1.PhaseAuction, rulesv1.PhaseClosingAuction:
		e.auctionQueue = append(e.auctionQueue, o)
		return out
	case rulesv1.PhaseTradingAtLast:
		return e.processAtLast(o, out)
	default:
		// Continuous. Halted reaches here only when halt is not enforced.
		return e.processContinuous(o, out)
	}
}

func (e *Engine) processContinuous(o orderbookv1.Order, out enginev1.MatchResult) enginev1.MatchResult {
	cfg := e.rules.Config()

	if cfg.EnablePriceBands && cfg.EnableVolatilityInterruption {
		if px, ok := e.firstExecutionPrice(&o); ok && e.rules.BreachesBand(px) {
			e.rules.SetPhase(rulesv1.PhaseAuction)
			e.auctionEndTs = o.Ts + cfg.VolAuctionDurationNs
			e.auctionQueue = append(e.auctionQueue, o)
			return out
		}
	}

	if o.Type == orderbookv1.OrderTypeLimit && o.TIF == orderbookv1.TifFOK {
		if e.availableLiquidity(&o) < o.Qty {
			// FOK shortfall is legal, not a rejection: zero trades, no
			// resting, book untouched.
			return out
		}
	}

	bound, hasBound := o.Price, o.Type == orderbookv1.OrderTypeLimit
	lastFill, hasFill, stopped := e.match(&out, &o, bound, hasBound)

	if stopped {
		// CancelTaker discarded the remainder; trades already matched in
		// this call stand.
		if out.FilledQty == 0 {
			out.Status = enginev1.StatusRejected
		}
		out.RejectReason = rulesv1.RejectSelfTradePrevented
		return out
	}

	e.restRemainder(&out, o, lastFill, hasFill)
	return out
}

func (e *Engine) processAtLast(o orderbookv1.Order, out enginev1.MatchResult) enginev1.MatchResult {
	last, ok := e.rules.LastTradePrice()
	if !ok {
		out.Status = enginev1.StatusRejected
		out.RejectReason = rulesv1.RejectNoReferencePrice
		return out
	}

	if o.Type == orderbookv1.OrderTypeLimit {
		if o.Price != last {
			out.Status = enginev1.StatusRejected
			out.RejectReason = rulesv1.RejectPriceNotAtLast
			return out
		}
	} else {
		// Market orders are permitted only when the opposite best equals the
		// last trade price, and they never execute beyond it.
		best, ok := e.oppositeBest(o.Side)
		if !ok || best != last {
			out.Status = enginev1.StatusRejected
			out.RejectReason = rulesv1.RejectPriceNotAtLast
			return out
		}
	}

	lastFill, hasFill, stopped := e.match(&out, &o, last, true)

	if stopped {
		if out.FilledQty == 0 {
			out.Status = enginev1.StatusRejected
		}
		out.RejectReason = rulesv1.RejectSelfTradePrevented
		return out
	}

	e.restRemainder(&out, o, lastFill, hasFill)
	return out
}

// restRemainder applies the time-in-force and market-style policy to the
// unmatched remainder in o.Qty.
func (e *Engine) restRemainder(out *enginev1.MatchResult, o orderbookv1.Order, lastFill orderbookv1.Price, hasFill bool) {
	if o.Qty <= 0 {
		return
	}

	switch {
	case o.Type == orderbookv1.OrderTypeLimit && o.TIF == orderbookv1.TifGTC:
		resting := o
		if e.book.AddRestingLimit(resting) {
			out.Resting = &resting
		}
	case o.Type == orderbookv1.OrderTypeMarket && o.MarketStyle == orderbookv1.MarketStyleToLimit && hasFill:
		// The remainder's price becomes definite at the last fill price.
		resting := o
		resting.Type = orderbookv1.OrderTypeLimit
		resting.Price = lastFill
		resting.TIF = orderbookv1.TifGTC
		if e.book.AddRestingLimit(resting) {
			out.Resting = &resting
		}
	}
	// Limit+IOC and Market+PureMarket remainders are cancelled. A Limit+FOK
	// order never reaches here with remainder: the liquidity precheck either
	// refused it outright or guaranteed a complete fill.
}

// match walks the opposite side best-out, consuming makers front-to-back.
// The bound, when present, is the worst acceptable maker price. It reports
// the last fill price and whether a CancelTaker interception stopped the
// walk.
func (e *Engine) match(out *enginev1.MatchResult, taker *orderbookv1.Order, bound orderbookv1.Price, hasBound bool) (lastFill orderbookv1.Price, hasFill, stopped bool) {
	opp := taker.Side.Opposite()
	stp := e.rules.Config().STP

	for taker.Qty > 0 {
		maker, ok := e.book.Front(opp)
		if !ok {
			break
		}
		if hasBound && !priceAcceptable(taker.Side, bound, maker.Price) {
			break
		}

		if maker.Owner == taker.Owner {
			switch stp {
			case rulesv1.STPCancelTaker:
				stopped = true
				return
			case rulesv1.STPCancelMaker:
				e.book.Cancel(maker.ID)
				continue
			}
		}

		q := taker.Qty
		if maker.Qty < q {
			q = maker.Qty
		}
		if q <= 0 {
			panic("engine: non-positive fill quantity in matching walk")
		}

		tr := e.makeTrade(taker.Ts, maker.Price, q, maker.ID, taker.ID)
		e.book.FillFront(opp, q)
		taker.Qty -= q

		out.Trades = append(out.Trades, tr)
		out.FilledQty += q
		e.rules.OnTrades([]orderbookv1.Trade{tr})

		lastFill = tr.Price
		hasFill = true
	}
	return
}

// firstExecutionPrice returns the price of the first maker the taker would
// actually execute against, accounting for makers an STP cancel-maker would
// remove. Only this price is band-checked; deeper fills within the same
// order are permitted.
func (e *Engine) firstExecutionPrice(taker *orderbookv1.Order) (orderbookv1.Price, bool) {
	stp := e.rules.Config().STP
	var px orderbookv1.Price
	found := false

	e.book.ScanLevels(taker.Side.Opposite(), func(level *orderbookv1.PriceLevel) bool {
		if taker.Type == orderbookv1.OrderTypeLimit && !priceAcceptable(taker.Side, taker.Price, level.Price) {
			return false
		}
		for _, m := range level.Orders() {
			if m.Owner == taker.Owner {
				if stp == rulesv1.STPCancelTaker {
					// Matching would stop here; nothing executes.
					return false
				}
				if stp == rulesv1.STPCancelMaker {
					continue
				}
			}
			px = level.Price
			found = true
			return false
		}
		return true
	})
	return px, found
}

// availableLiquidity sums the opposite-side quantity the taker could reach,
// skipping makers an STP cancel-maker would remove and stopping where a
// cancel-taker interception would end the walk.
func (e *Engine) availableLiquidity(taker *orderbookv1.Order) orderbookv1.Qty {
	stp := e.rules.Config().STP
	var total orderbookv1.Qty

	e.book.ScanLevels(taker.Side.Opposite(), func(level *orderbookv1.PriceLevel) bool {
		if taker.Type == orderbookv1.OrderTypeLimit && !priceAcceptable(taker.Side, taker.Price, level.Price) {
			return false
		}
		for _, m := range level.Orders() {
			if m.Owner == taker.Owner {
				if stp == rulesv1.STPCancelTaker {
					return false
				}
				if stp == rulesv1.STPCancelMaker {
					continue
				}
			}
			total += m.Qty
		}
		return true
	})
	return total
}

func (e *Engine) oppositeBest(side orderbookv1.Side) (orderbookv1.Price, bool) {
	if side == orderbookv1.SideBuy {
		return e.book.BestAsk()
	}
	return e.book.BestBid()
}

func (e *Engine) makeTrade(ts orderbookv1.Ts, px orderbookv1.Price, q orderbookv1.Qty, maker, taker orderbookv1.OrderID) orderbookv1.Trade {
	tr := orderbookv1.Trade{
		ID:           e.nextTradeID,
		Ts:           ts,
		Price:        px,
		Qty:          q,
		MakerOrderID: maker,
		TakerOrderID: taker,
	}
	e.nextTradeID++
	return tr
}

// priceAcceptable reports whether a maker at makerPx satisfies the taker's
// price bound: buyers pay at most the bound, sellers receive at least it.
func priceAcceptable(side orderbookv1.Side, bound, makerPx orderbookv1.Price) bool {
	if side == orderbookv1.SideBuy {
		return bound >= makerPx
	}
	return bound <= makerPx
}
