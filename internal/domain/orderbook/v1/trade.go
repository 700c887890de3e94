package orderbookv1

// Trade records one execution between a resting maker order and an
// incoming taker order. The price is always the maker's price.
type Trade struct {
	ID           TradeID `json:"id"`
	Ts           Ts      `json:"ts"`
	Price        Price   `json:"price"`
	Qty          Qty     `json:"qty"`
	MakerOrderID OrderID `json:"maker_order_id"`
	TakerOrderID OrderID `json:"taker_order_id"`
}

// BookTop is a point-in-time top-of-book sample.
type BookTop struct {
	Ts      Ts     `json:"ts"`
	BestBid *Price `json:"best_bid"`
	BestAsk *Price `json:"best_ask"`
	Mid     *Price `json:"mid"`
}

// Midprice returns (bid+ask)/2 with integer truncation when both sides
// exist.
func Midprice(bestBid, bestAsk *Price) *Price {
	if bestBid == nil || bestAsk == nil {
		return nil
	}
	mid := (*bestBid + *bestAsk) / 2
	return &mid
}

// OptPrice converts a (price, ok) pair into a nullable price.
func OptPrice(p Price, ok bool) *Price {
	if !ok {
		return nil
	}
	return &p
}
