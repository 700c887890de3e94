package ledgerv1

import (
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
)

// OrderMeta is the attribution captured at submission time, so trades can
// be booked even after the resting order itself is gone.
type OrderMeta struct {
	Owner orderbookv1.OwnerID
	Side  orderbookv1.Side
}

// Account tracks one owner's cash and inventory. Cash is in tick units;
// dollars are not modeled.
type Account struct {
	Owner         orderbookv1.OwnerID `json:"owner"`
	CashTicks     int64               `json:"cash_ticks"`
	Position      int64               `json:"position"`
	TradedQty     int64               `json:"traded_qty"`
	NotionalTicks int64               `json:"notional_ticks"`
}

// ApplyFill books one execution. Buys add inventory and spend cash; sells
// do the reverse. Turnover counters always increase.
func (a *Account) ApplyFill(side orderbookv1.Side, price orderbookv1.Price, qty orderbookv1.Qty) {
	notional := int64(price) * int64(qty)
	if side == orderbookv1.SideBuy {
		a.Position += int64(qty)
		a.CashTicks -= notional
	} else {
		a.Position -= int64(qty)
		a.CashTicks += notional
	}
	a.TradedQty += int64(qty)
	a.NotionalTicks += notional
}

// AccountSnapshot is a mark-to-market view of an account at a point in
// virtual time.
type AccountSnapshot struct {
	Ts        orderbookv1.Ts      `json:"ts"`
	Owner     orderbookv1.OwnerID `json:"owner"`
	CashTicks int64               `json:"cash_ticks"`
	Position  int64               `json:"position"`
	MtmTicks  int64               `json:"mtm_ticks"`
}
