// Package session drives the engine's scheduled phase transitions from
// virtual time: trading-at-last and the closing auction each start exactly
// once inside their window, and every call lets the engine finalize due
// transitions.
package session

import (
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/marketsim/internal/usecase/engine"
)

// Schedule holds the session windows in virtual nanoseconds.
type Schedule struct {
	TalStartTs orderbookv1.Ts
	TalEndTs   orderbookv1.Ts

	CloseStartTs orderbookv1.Ts
	CloseEndTs   orderbookv1.Ts
}

// Controller fires the scheduled transitions. The engine alone owns the
// phase state; the controller only decides when to ask for a transition.
type Controller struct {
	schedule Schedule

	talStarted   bool
	closeStarted bool
}

// NewController creates a controller for the given schedule.
func NewController(s Schedule) *Controller {
	return &Controller{schedule: s}
}

// OnTime advances the session to ts and returns any trades the engine's
// flush produced.
func (c *Controller) OnTime(e *engine.Engine, ts orderbookv1.Ts) []orderbookv1.Trade {
	if !c.talStarted && ts >= c.schedule.TalStartTs && ts < c.schedule.TalEndTs {
		e.StartTradingAtLast(c.schedule.TalEndTs)
		c.talStarted = true
	}

	if !c.closeStarted && ts >= c.schedule.CloseStartTs && ts < c.schedule.CloseEndTs {
		e.StartClosingAuction(c.schedule.CloseEndTs)
		c.closeStarted = true
	}

	return e.Flush(ts)
}
