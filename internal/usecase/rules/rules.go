// Package rules implements order admission and the session-phase state the
// matching engine consults on every inbound order.
package rules

import (
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	rulesv1 "github.com/muhammadchandra19/marketsim/internal/domain/rules/v1"
)

// RuleSet holds the admission config, the current market phase, and the last
// trade price. It is owned by the engine and never shared across goroutines.
type RuleSet struct {
	cfg   rulesv1.Config
	phase rulesv1.MarketPhase

	lastTradePrice orderbookv1.Price
	hasLastTrade   bool
}

// NewRuleSet creates a rule set in the continuous phase.
func NewRuleSet(cfg rulesv1.Config) *RuleSet {
	return &RuleSet{
		cfg:   cfg,
		phase: rulesv1.PhaseContinuous,
	}
}

// Config returns the active rule configuration.
func (r *RuleSet) Config() rulesv1.Config {
	return r.cfg
}

// SetConfig replaces the rule configuration.
func (r *RuleSet) SetConfig(cfg rulesv1.Config) {
	r.cfg = cfg
}

// Phase returns the current market phase.
func (r *RuleSet) Phase() rulesv1.MarketPhase {
	return r.phase
}

// SetPhase moves the market to the given phase. Phase transitions are owned
// by the engine; this is the single mutation point.
func (r *RuleSet) SetPhase(p rulesv1.MarketPhase) {
	r.phase = p
}

// LastTradePrice returns the reference price set by the most recent trade.
func (r *RuleSet) LastTradePrice() (orderbookv1.Price, bool) {
	return r.lastTradePrice, r.hasLastTrade
}

// OnTrades records the final trade's price as the reference price.
func (r *RuleSet) OnTrades(trades []orderbookv1.Trade) {
	for _, t := range trades {
		r.lastTradePrice = t.Price
		r.hasLastTrade = true
	}
}

func isOnTick(price, tick orderbookv1.Price) bool {
	if tick <= 0 {
		return false
	}
	return price%tick == 0
}

func isOnLot(qty, lot orderbookv1.Qty) bool {
	if lot <= 0 {
		return false
	}
	return qty%lot == 0
}

// PreAccept runs the admission pipeline in strict sequence: structural
// validity, halt, minimum quantity, lot grid, tick grid.
func (r *RuleSet) PreAccept(o *orderbookv1.Order) rulesv1.RuleDecision {
	if !o.IsValid() {
		return rulesv1.RuleDecision{Reason: rulesv1.RejectInvalidOrder}
	}

	if r.cfg.EnforceHalt && r.phase == rulesv1.PhaseHalted {
		return rulesv1.RuleDecision{Reason: rulesv1.RejectMarketHalted}
	}

	if o.Qty < r.cfg.MinQty {
		return rulesv1.RuleDecision{Reason: rulesv1.RejectQtyBelowMinimum}
	}
	if !isOnLot(o.Qty, r.cfg.LotSize) {
		return rulesv1.RuleDecision{Reason: rulesv1.RejectQtyNotOnLot}
	}

	if o.Type == orderbookv1.OrderTypeLimit {
		if !isOnTick(o.Price, r.cfg.TickSizeTicks) {
			return rulesv1.RuleDecision{Reason: rulesv1.RejectPriceNotOnTick}
		}
	}

	return rulesv1.RuleDecision{Accept: true, Reason: rulesv1.RejectNone}
}

// BreachesBand reports whether an execution at px would fall outside the
// allowed band around the last trade price. Without a reference price the
// band check is skipped. Integer arithmetic throughout: the half-width
// ref*bps/10000 truncates toward zero.
func (r *RuleSet) BreachesBand(px orderbookv1.Price) bool {
	if !r.hasLastTrade {
		return false
	}
	ref := r.lastTradePrice
	half := orderbookv1.Price(int64(ref) * r.cfg.BandBPS / 10000)
	diff := px - ref
	if diff < 0 {
		diff = -diff
	}
	return diff > half
}
