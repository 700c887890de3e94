package rulesv1

import (
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
)

// MarketPhase is the session state the engine is currently in.
type MarketPhase uint8

const (
	// PhaseContinuous is normal price-time matching.
	PhaseContinuous MarketPhase = iota
	// PhaseHalted rejects all inbound orders while halt enforcement is on.
	PhaseHalted
	// PhaseAuction is a volatility interruption; orders queue for the uncross.
	PhaseAuction
	// PhaseTradingAtLast permits trades only at the last trade price.
	PhaseTradingAtLast
	// PhaseClosingAuction queues orders for the closing uncross.
	PhaseClosingAuction
	// PhaseClosed rejects all inbound orders; terminal.
	PhaseClosed
)

func (p MarketPhase) String() string {
	switch p {
	case PhaseContinuous:
		return "continuous"
	case PhaseHalted:
		return "halted"
	case PhaseAuction:
		return "auction"
	case PhaseTradingAtLast:
		return "trading_at_last"
	case PhaseClosingAuction:
		return "closing_auction"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// STPMode selects the self-trade prevention policy.
type STPMode uint8

const (
	// STPNone lets an owner trade against itself.
	STPNone STPMode = iota
	// STPCancelTaker stops matching and discards the taker remainder.
	STPCancelTaker
	// STPCancelMaker cancels the resting maker and continues matching.
	STPCancelMaker
)

func (m STPMode) String() string {
	switch m {
	case STPCancelTaker:
		return "cancel_taker"
	case STPCancelMaker:
		return "cancel_maker"
	default:
		return "none"
	}
}

// RejectReason explains why admission or matching refused an order.
type RejectReason uint8

const (
	// RejectNone means the order was not rejected.
	RejectNone RejectReason = iota
	// RejectInvalidOrder covers structural failures (zero id, bad qty or price).
	RejectInvalidOrder
	// RejectMarketHalted is returned while halted or after close.
	RejectMarketHalted
	// RejectPriceNotOnTick means the limit price is off the tick grid.
	RejectPriceNotOnTick
	// RejectQtyNotOnLot means the quantity is off the lot grid.
	RejectQtyNotOnLot
	// RejectQtyBelowMinimum means the quantity is under the minimum.
	RejectQtyBelowMinimum
	// RejectSelfTradePrevented means STP stopped the order entirely.
	RejectSelfTradePrevented
	// RejectPriceNotAtLast means the order cannot trade in trading-at-last.
	RejectPriceNotAtLast
	// RejectNoReferencePrice means trading-at-last has no last trade price.
	RejectNoReferencePrice
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectInvalidOrder:
		return "invalid_order"
	case RejectMarketHalted:
		return "market_halted"
	case RejectPriceNotOnTick:
		return "price_not_on_tick"
	case RejectQtyNotOnLot:
		return "qty_not_on_lot"
	case RejectQtyBelowMinimum:
		return "qty_below_minimum"
	case RejectSelfTradePrevented:
		return "self_trade_prevented"
	case RejectPriceNotAtLast:
		return "price_not_at_last"
	case RejectNoReferencePrice:
		return "no_reference_price"
	default:
		return "unknown"
	}
}

// RuleDecision is the outcome of admission.
type RuleDecision struct {
	Accept bool
	Reason RejectReason
}

// Config holds the market rule knobs. Prices and quantities are integers
// in tick and lot units.
type Config struct {
	EnforceHalt bool

	TickSizeTicks orderbookv1.Price // limit prices must sit on this grid
	LotSize       orderbookv1.Qty   // quantities must be multiples
	MinQty        orderbookv1.Qty   // minimum order quantity

	STP STPMode

	EnablePriceBands             bool
	EnableVolatilityInterruption bool
	BandBPS                      int64
	VolAuctionDurationNs         orderbookv1.Ts
}

// DefaultConfig returns the permissive baseline used by the simulator.
func DefaultConfig() Config {
	return Config{
		EnforceHalt:   true,
		TickSizeTicks: 1,
		LotSize:       1,
		MinQty:        1,
		STP:           STPNone,
		BandBPS:       1000,
	}
}
