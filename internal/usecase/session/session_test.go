package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enginev1 "github.com/muhammadchandra19/marketsim/internal/domain/engine/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	rulesv1 "github.com/muhammadchandra19/marketsim/internal/domain/rules/v1"
	"github.com/muhammadchandra19/marketsim/internal/usecase/engine"
	"github.com/muhammadchandra19/marketsim/internal/usecase/rules"
)

func seededEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e := engine.New(rules.NewRuleSet(rulesv1.DefaultConfig()))

	require.True(t, e.Book().AddRestingLimit(
		orderbookv1.NewLimitOrder(9001, 1, orderbookv1.SideSell, 10000, 1, 2)))
	res := e.Process(orderbookv1.NewMarketOrder(9002, 2, orderbookv1.SideBuy, 1, 3))
	require.Len(t, res.Trades, 1)
	return e
}

func TestController_TALThenClosingAuctionThenClosed(t *testing.T) {
	e := seededEngine(t)

	c := NewController(Schedule{
		TalStartTs:   10,
		TalEndTs:     20,
		CloseStartTs: 20,
		CloseEndTs:   30,
	})

	c.OnTime(e, 5)
	assert.Equal(t, rulesv1.PhaseContinuous, e.Rules().Phase())

	c.OnTime(e, 10)
	assert.Equal(t, rulesv1.PhaseTradingAtLast, e.Rules().Phase())

	// Off-last limit rejects during TAL.
	r0 := e.Process(orderbookv1.NewLimitOrder(3, 12, orderbookv1.SideBuy, 9990, 1, 7))
	assert.Equal(t, enginev1.StatusRejected, r0.Status)
	assert.Equal(t, rulesv1.RejectPriceNotAtLast, r0.RejectReason)

	c.OnTime(e, 20)
	assert.Equal(t, rulesv1.PhaseClosingAuction, e.Rules().Phase())

	// Queue crossing interest for the closing uncross.
	_ = e.Process(orderbookv1.NewLimitOrder(10, 21, orderbookv1.SideBuy, 10100, 5, 1))
	_ = e.Process(orderbookv1.NewLimitOrder(11, 22, orderbookv1.SideSell, 10050, 5, 2))

	trades := c.OnTime(e, 30)
	require.Len(t, trades, 1)
	assert.Equal(t, orderbookv1.Qty(5), trades[0].Qty)
	assert.Equal(t, rulesv1.PhaseClosed, e.Rules().Phase())
}

func TestController_FiresOnlyOnce(t *testing.T) {
	e := seededEngine(t)

	c := NewController(Schedule{
		TalStartTs:   10,
		TalEndTs:     20,
		CloseStartTs: 100,
		CloseEndTs:   200,
	})

	c.OnTime(e, 10)
	require.Equal(t, rulesv1.PhaseTradingAtLast, e.Rules().Phase())

	// TAL expires; repeated ticks inside the window must not restart it.
	c.OnTime(e, 20)
	assert.Equal(t, rulesv1.PhaseContinuous, e.Rules().Phase())
	c.OnTime(e, 21)
	assert.Equal(t, rulesv1.PhaseContinuous, e.Rules().Phase())
}

func TestController_MissedWindowDoesNotFire(t *testing.T) {
	e := seededEngine(t)

	c := NewController(Schedule{
		TalStartTs:   10,
		TalEndTs:     20,
		CloseStartTs: 30,
		CloseEndTs:   40,
	})

	// A coarse tick can skip a whole window; firing outside it would trap
	// the engine in an expired phase.
	c.OnTime(e, 25)
	assert.Equal(t, rulesv1.PhaseContinuous, e.Rules().Phase())

	c.OnTime(e, 35)
	assert.Equal(t, rulesv1.PhaseClosingAuction, e.Rules().Phase())
}
