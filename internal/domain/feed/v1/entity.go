package feedv1

import (
	"encoding/json"

	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
)

// TradeEvent is the payload published to the trade feed topic for each
// execution.
type TradeEvent struct {
	EventID      string `json:"event_id"` // ULID minted at publish time
	Ts           int64  `json:"ts"`
	TradeID      uint64 `json:"trade_id"`
	Price        int64  `json:"price"`
	Qty          int64  `json:"qty"`
	MakerOrderID uint64 `json:"maker_order_id"`
	TakerOrderID uint64 `json:"taker_order_id"`
}

// CreateFromTrade creates a trade event from an execution.
func CreateFromTrade(trade orderbookv1.Trade, eventID string) *TradeEvent {
	return &TradeEvent{
		EventID:      eventID,
		Ts:           int64(trade.Ts),
		TradeID:      uint64(trade.ID),
		Price:        int64(trade.Price),
		Qty:          int64(trade.Qty),
		MakerOrderID: uint64(trade.MakerOrderID),
		TakerOrderID: uint64(trade.TakerOrderID),
	}
}

// ToBytes converts the trade event to a byte array.
func ToBytes(event *TradeEvent) []byte {
	data, err := json.Marshal(event)
	if err != nil {
		return nil
	}

	return data
}

// FromBytes converts a byte array to a trade event.
func FromBytes(data []byte) *TradeEvent {
	var event TradeEvent
	err := json.Unmarshal(data, &event)
	if err != nil {
		return nil
	}
	return &event
}
