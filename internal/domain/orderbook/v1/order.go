package orderbookv1

// OrderID uniquely identifies an order within a run.
type OrderID uint64

// TradeID uniquely identifies a trade; assigned monotonically by the engine.
type TradeID uint64

// OwnerID identifies the account an order trades for.
type OwnerID uint64

// Ts is a virtual timestamp in nanoseconds, monotonic within a run.
type Ts int64

// Price is an integer price in tick units. Fractional prices are not modeled.
type Price int64

// Qty is an integer quantity in lot units. Negative quantities are invalid.
type Qty int64

// Side indicates which side of the book an order belongs to.
type Side uint8

const (
	// SideBuy bids for the asset.
	SideBuy Side = iota
	// SideSell offers the asset.
	SideSell
)

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

func (s Side) String() string {
	if s == SideBuy {
		return "buy"
	}
	return "sell"
}

// OrderType distinguishes priced orders from orders that take whatever is offered.
type OrderType uint8

const (
	// OrderTypeLimit rests at its price when not immediately matched.
	OrderTypeLimit OrderType = iota
	// OrderTypeMarket executes against available liquidity; price is ignored.
	OrderTypeMarket
)

func (t OrderType) String() string {
	if t == OrderTypeMarket {
		return "market"
	}
	return "limit"
}

// TimeInForce controls what happens to the unmatched remainder of an order.
type TimeInForce uint8

const (
	// TifGTC rests the remainder on the book.
	TifGTC TimeInForce = iota
	// TifIOC cancels the remainder immediately.
	TifIOC
	// TifFOK fills completely or produces no trades at all.
	TifFOK
)

func (t TimeInForce) String() string {
	switch t {
	case TifIOC:
		return "ioc"
	case TifFOK:
		return "fok"
	default:
		return "gtc"
	}
}

// MarketStyle controls the remainder of a market order.
type MarketStyle uint8

const (
	// MarketStylePure cancels any unmatched market remainder.
	MarketStylePure MarketStyle = iota
	// MarketStyleToLimit rests the remainder as a limit at the last fill price.
	MarketStyleToLimit
)

func (m MarketStyle) String() string {
	if m == MarketStyleToLimit {
		return "market_to_limit"
	}
	return "pure_market"
}

// Order is a request to trade. Priority within a price level uses only
// (price, ts); the id is globally unique.
type Order struct {
	ID          OrderID     `json:"id"`
	Ts          Ts          `json:"ts"`
	Side        Side        `json:"side"`
	Type        OrderType   `json:"type"`
	Price       Price       `json:"price"` // 0 for market orders
	Qty         Qty         `json:"qty"`
	Owner       OwnerID     `json:"owner"`
	TIF         TimeInForce `json:"tif"`
	MarketStyle MarketStyle `json:"market_style"`
}

// IsValid reports whether the order passes basic structural validation:
// a non-zero id, a positive quantity, and a positive price for limit orders.
// Market orders may carry price 0; the field is ignored.
func (o *Order) IsValid() bool {
	if o.ID == 0 {
		return false
	}
	if o.Qty <= 0 {
		return false
	}
	if o.Type == OrderTypeLimit && o.Price <= 0 {
		return false
	}
	return true
}

// NewLimitOrder builds a GTC limit order.
func NewLimitOrder(id OrderID, ts Ts, side Side, price Price, qty Qty, owner OwnerID) Order {
	return Order{
		ID:    id,
		Ts:    ts,
		Side:  side,
		Type:  OrderTypeLimit,
		Price: price,
		Qty:   qty,
		Owner: owner,
		TIF:   TifGTC,
	}
}

// NewMarketOrder builds an IOC pure market order.
func NewMarketOrder(id OrderID, ts Ts, side Side, qty Qty, owner OwnerID) Order {
	return Order{
		ID:    id,
		Ts:    ts,
		Side:  side,
		Type:  OrderTypeMarket,
		Qty:   qty,
		Owner: owner,
		TIF:   TifIOC,
	}
}
