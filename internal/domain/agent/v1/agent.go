package agentv1

import (
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
)

// MarketView is the immutable market state handed to agents each tick.
type MarketView struct {
	Ts        orderbookv1.Ts
	BestBid   *orderbookv1.Price
	BestAsk   *orderbookv1.Price
	Mid       *orderbookv1.Price
	LastTrade *orderbookv1.Price
}

// AgentState is the agent's own account view for the current tick.
type AgentState struct {
	Owner     orderbookv1.OwnerID
	CashTicks int64
	Position  int64
}

// ActionType tags the variants of Action.
type ActionType uint8

const (
	// ActionSubmit submits a new order.
	ActionSubmit ActionType = iota
	// ActionCancel cancels a resting order by id.
	ActionCancel
	// ActionModifyQty reduces a resting order's quantity.
	ActionModifyQty
)

// Action is one instruction an agent emits during a tick.
type Action struct {
	Type   ActionType
	Order  orderbookv1.Order
	ID     orderbookv1.OrderID
	NewQty orderbookv1.Qty
}

// Submit builds a submit action.
func Submit(o orderbookv1.Order) Action {
	return Action{Type: ActionSubmit, Order: o}
}

// Cancel builds a cancel action.
func Cancel(id orderbookv1.OrderID) Action {
	return Action{Type: ActionCancel, ID: id}
}

// ModifyQty builds a quantity reduction action.
func ModifyQty(id orderbookv1.OrderID, newQty orderbookv1.Qty) Action {
	return Action{Type: ActionModifyQty, ID: id, NewQty: newQty}
}

// Agent produces actions from market views. Implementations must be pure
// functions of (seed, sequence of views): no wall clock, no global state,
// so that a run is reproducible from its seed.
//
//go:generate mockgen -source agent.go -destination=mock/agent_mock.go -package=agentv1_mock
type Agent interface {
	Owner() orderbookv1.OwnerID
	Seed(s uint64)
	Step(ts orderbookv1.Ts, view MarketView, self AgentState, out *[]Action)
}
