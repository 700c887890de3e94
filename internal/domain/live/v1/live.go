package livev1

import (
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
)

// Snapshot is the lightweight "current market" view served by the gateway.
type Snapshot struct {
	Ts           orderbookv1.Ts      `json:"ts"`
	BestBid      *orderbookv1.Price  `json:"best_bid"`
	BestAsk      *orderbookv1.Price  `json:"best_ask"`
	Mid          *orderbookv1.Price  `json:"mid"`
	LastTrade    *orderbookv1.Price  `json:"last_trade"`
	RecentTrades []orderbookv1.Trade `json:"recent_trades"`
}

// MidPoint is one sample of the windowed mid series.
type MidPoint struct {
	Ts  orderbookv1.Ts     `json:"ts"`
	Mid *orderbookv1.Price `json:"mid"`
}

// DepthLevel is one aggregated price level of the L2 view.
type DepthLevel struct {
	Price orderbookv1.Price `json:"price"`
	Qty   orderbookv1.Qty   `json:"qty"`
}

// BookDepth is the top-N aggregated levels per side, best first.
type BookDepth struct {
	Bids []DepthLevel `json:"bids"`
	Asks []DepthLevel `json:"asks"`
}
