package enginev1

import (
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	rulesv1 "github.com/muhammadchandra19/marketsim/internal/domain/rules/v1"
)

// OrderStatus is the admission outcome of one processed order.
type OrderStatus uint8

const (
	// StatusAccepted means the order entered the engine. An accepted order
	// may still fill nothing (FOK shortfall, empty book).
	StatusAccepted OrderStatus = iota
	// StatusRejected means the order was refused with a reason and caused
	// no state change.
	StatusRejected
)

func (s OrderStatus) String() string {
	if s == StatusRejected {
		return "Rejected"
	}
	return "Accepted"
}

// MatchResult is everything one call to Process produced.
type MatchResult struct {
	Trades    []orderbookv1.Trade
	Resting   *orderbookv1.Order
	FilledQty orderbookv1.Qty

	Status       OrderStatus
	RejectReason rulesv1.RejectReason
}

// OrderAck is the manual-trading acknowledgement returned by the live
// wrapper.
type OrderAck struct {
	ID           orderbookv1.OrderID
	Status       OrderStatus
	RejectReason rulesv1.RejectReason
}
