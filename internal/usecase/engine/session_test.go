package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enginev1 "github.com/muhammadchandra19/marketsim/internal/domain/engine/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	rulesv1 "github.com/muhammadchandra19/marketsim/internal/domain/rules/v1"
)

func TestEngine_VolatilityInterruption(t *testing.T) {
	newBandedEngine := func(t *testing.T) *Engine {
		cfg := rulesv1.DefaultConfig()
		cfg.EnablePriceBands = true
		cfg.EnableVolatilityInterruption = true
		cfg.BandBPS = 100 // 1%
		cfg.VolAuctionDurationNs = 5
		e := newTestEngine(cfg)
		seedLastTrade(t, e, 10000)
		return e
	}

	t.Run("breaching execution triggers the auction and queues the order", func(t *testing.T) {
		e := newBandedEngine(t)
		require.True(t, e.Book().AddRestingLimit(limit(3, 3, orderbookv1.SideSell, 12000, 5, 9)))

		res := e.Process(market(4, 10, orderbookv1.SideBuy, 1, 7))

		assert.Empty(t, res.Trades)
		assert.Equal(t, enginev1.StatusAccepted, res.Status)
		assert.Equal(t, rulesv1.PhaseAuction, e.Rules().Phase())
	})

	t.Run("within-band execution proceeds", func(t *testing.T) {
		e := newBandedEngine(t)
		require.True(t, e.Book().AddRestingLimit(limit(3, 3, orderbookv1.SideSell, 10050, 5, 9)))

		res := e.Process(market(4, 10, orderbookv1.SideBuy, 1, 7))

		require.Len(t, res.Trades, 1)
		assert.Equal(t, rulesv1.PhaseContinuous, e.Rules().Phase())
	})

	t.Run("reopen uncrosses the queued order at the auction price", func(t *testing.T) {
		e := newBandedEngine(t)
		require.True(t, e.Book().AddRestingLimit(limit(3, 3, orderbookv1.SideSell, 12000, 5, 9)))

		r0 := e.Process(market(4, 10, orderbookv1.SideBuy, 1, 7))
		require.Empty(t, r0.Trades)
		require.Equal(t, rulesv1.PhaseAuction, e.Rules().Phase())

		// Any activity at or beyond the auction end finalizes it; the
		// uncross trades ride along in the result.
		r1 := e.Process(limit(5, 20, orderbookv1.SideBuy, 1, 1, 8))
		require.Len(t, r1.Trades, 1)
		assert.Equal(t, orderbookv1.Price(12000), r1.Trades[0].Price)
		assert.Equal(t, orderbookv1.Qty(1), r1.Trades[0].Qty)
		assert.Equal(t, orderbookv1.OrderID(3), r1.Trades[0].MakerOrderID)
		assert.Equal(t, orderbookv1.OrderID(4), r1.Trades[0].TakerOrderID)
		assert.Equal(t, rulesv1.PhaseContinuous, e.Rules().Phase())

		// Partially filled resting maker shrinks in place.
		depth := e.Book().Depth(orderbookv1.SideSell, 1)
		require.Len(t, depth, 1)
		assert.Equal(t, orderbookv1.Qty(4), depth[0].TotalQty)

		// The uncross moved the reference price.
		last, ok := e.Rules().LastTradePrice()
		require.True(t, ok)
		assert.Equal(t, orderbookv1.Price(12000), last)
	})

	t.Run("flush alone finalizes a due auction", func(t *testing.T) {
		e := newBandedEngine(t)
		require.True(t, e.Book().AddRestingLimit(limit(3, 3, orderbookv1.SideSell, 12000, 5, 9)))

		_ = e.Process(market(4, 10, orderbookv1.SideBuy, 1, 7))
		require.Equal(t, rulesv1.PhaseAuction, e.Rules().Phase())

		assert.Empty(t, e.Flush(12), "not due yet")
		trades := e.Flush(15)
		require.Len(t, trades, 1)
		assert.Equal(t, rulesv1.PhaseContinuous, e.Rules().Phase())
		assert.Empty(t, e.Flush(15), "idempotent once done")
	})
}

func TestEngine_TradingAtLast(t *testing.T) {
	newTALEngine := func(t *testing.T) *Engine {
		e := newTestEngine(rulesv1.DefaultConfig())
		seedLastTrade(t, e, 10000)
		e.StartTradingAtLast(100)
		return e
	}

	t.Run("off-last limit rejects", func(t *testing.T) {
		e := newTALEngine(t)

		res := e.Process(limit(3, 10, orderbookv1.SideBuy, 9990, 1, 7))
		assert.Equal(t, enginev1.StatusRejected, res.Status)
		assert.Equal(t, rulesv1.RejectPriceNotAtLast, res.RejectReason)
	})

	t.Run("at-last limit matches", func(t *testing.T) {
		e := newTALEngine(t)
		require.True(t, e.Book().AddRestingLimit(limit(3, 5, orderbookv1.SideSell, 10000, 2, 9)))

		res := e.Process(limit(4, 10, orderbookv1.SideBuy, 10000, 2, 7))
		require.Len(t, res.Trades, 1)
		assert.Equal(t, orderbookv1.Price(10000), res.Trades[0].Price)
	})

	t.Run("at-last limit remainder rests", func(t *testing.T) {
		e := newTALEngine(t)

		res := e.Process(limit(3, 10, orderbookv1.SideBuy, 10000, 2, 7))
		assert.Equal(t, enginev1.StatusAccepted, res.Status)
		require.NotNil(t, res.Resting)
		assert.Equal(t, orderbookv1.Price(10000), res.Resting.Price)
	})

	t.Run("market permitted only when opposite best is at last", func(t *testing.T) {
		e := newTALEngine(t)

		res := e.Process(market(3, 10, orderbookv1.SideBuy, 1, 7))
		assert.Equal(t, enginev1.StatusRejected, res.Status)
		assert.Equal(t, rulesv1.RejectPriceNotAtLast, res.RejectReason)

		require.True(t, e.Book().AddRestingLimit(limit(4, 11, orderbookv1.SideSell, 10000, 2, 9)))
		res = e.Process(market(5, 12, orderbookv1.SideBuy, 1, 7))
		require.Len(t, res.Trades, 1)
		assert.Equal(t, orderbookv1.Price(10000), res.Trades[0].Price)
	})

	t.Run("TAL expires back to continuous", func(t *testing.T) {
		e := newTALEngine(t)

		e.Flush(99)
		assert.Equal(t, rulesv1.PhaseTradingAtLast, e.Rules().Phase())
		e.Flush(100)
		assert.Equal(t, rulesv1.PhaseContinuous, e.Rules().Phase())
	})

	t.Run("no reference price rejects", func(t *testing.T) {
		e := newTestEngine(rulesv1.DefaultConfig())
		e.StartTradingAtLast(100)

		res := e.Process(limit(3, 10, orderbookv1.SideBuy, 10000, 1, 7))
		assert.Equal(t, enginev1.StatusRejected, res.Status)
		assert.Equal(t, rulesv1.RejectNoReferencePrice, res.RejectReason)
	})
}

func TestEngine_ClosingAuction(t *testing.T) {
	t.Run("uncross at schedule end then closed", func(t *testing.T) {
		e := newTestEngine(rulesv1.DefaultConfig())
		seedLastTrade(t, e, 10000)

		e.StartClosingAuction(20)

		r0 := e.Process(limit(10, 10, orderbookv1.SideBuy, 10100, 5, 1))
		assert.Empty(t, r0.Trades)
		assert.Equal(t, enginev1.StatusAccepted, r0.Status)
		r1 := e.Process(limit(11, 11, orderbookv1.SideSell, 10050, 5, 2))
		assert.Empty(t, r1.Trades)

		// At ts >= 20 the uncross fires; the tardy order itself is rejected
		// in the now-closed market, but the uncross trades ride along.
		r2 := e.Process(limit(12, 25, orderbookv1.SideBuy, 1, 1, 9))
		require.Len(t, r2.Trades, 1)
		// 10050 clears the same volume as 10100 with equal imbalance and
		// sits closer to the 10000 reference.
		assert.Equal(t, orderbookv1.Price(10050), r2.Trades[0].Price)
		assert.Equal(t, orderbookv1.Qty(5), r2.Trades[0].Qty)
		assert.Equal(t, orderbookv1.OrderID(10), r2.Trades[0].MakerOrderID, "earlier ts is the maker")
		assert.Equal(t, enginev1.StatusRejected, r2.Status)
		assert.Equal(t, rulesv1.RejectMarketHalted, r2.RejectReason)
		assert.Equal(t, rulesv1.PhaseClosed, e.Rules().Phase())
	})

	t.Run("closed market rejects further orders", func(t *testing.T) {
		e := newTestEngine(rulesv1.DefaultConfig())
		e.StartClosingAuction(20)
		e.Flush(20)
		require.Equal(t, rulesv1.PhaseClosed, e.Rules().Phase())

		res := e.Process(limit(1, 30, orderbookv1.SideBuy, 100, 1, 7))
		assert.Equal(t, enginev1.StatusRejected, res.Status)
		assert.Equal(t, rulesv1.RejectMarketHalted, res.RejectReason)
	})

	t.Run("queued limit leftovers rest after a no-volume uncross", func(t *testing.T) {
		e := newTestEngine(rulesv1.DefaultConfig())
		e.StartClosingAuction(20)

		// Same-side interest only: nothing can cross.
		_ = e.Process(limit(10, 10, orderbookv1.SideBuy, 100, 5, 1))
		_ = e.Process(limit(11, 11, orderbookv1.SideBuy, 99, 5, 2))

		trades := e.Flush(20)
		assert.Empty(t, trades)
		assert.Equal(t, rulesv1.PhaseClosed, e.Rules().Phase())

		depth := e.Book().Depth(orderbookv1.SideBuy, 5)
		require.Len(t, depth, 2)
		assert.Equal(t, orderbookv1.Price(100), depth[0].Price)
		assert.Equal(t, orderbookv1.Price(99), depth[1].Price)
		assert.Equal(t, 2, e.Book().RestingCount())
	})

	t.Run("queued market leftover is dropped at the uncross", func(t *testing.T) {
		e := newTestEngine(rulesv1.DefaultConfig())
		e.StartClosingAuction(20)

		_ = e.Process(limit(10, 10, orderbookv1.SideBuy, 100, 5, 1))
		_ = e.Process(market(11, 11, orderbookv1.SideSell, 8, 2))

		trades := e.Flush(20)
		require.Len(t, trades, 1)
		assert.Equal(t, orderbookv1.Price(100), trades[0].Price)
		assert.Equal(t, orderbookv1.Qty(5), trades[0].Qty)

		// The unfilled market remainder does not rest.
		assert.Equal(t, 0, e.Book().RestingCount())
	})

	t.Run("uncross consumes resting book liquidity too", func(t *testing.T) {
		e := newTestEngine(rulesv1.DefaultConfig())
		require.True(t, e.Book().AddRestingLimit(limit(1, 1, orderbookv1.SideSell, 101, 4, 7)))

		e.StartClosingAuction(20)
		_ = e.Process(limit(10, 10, orderbookv1.SideBuy, 102, 6, 1))

		trades := e.Flush(20)
		require.Len(t, trades, 1)
		assert.Equal(t, orderbookv1.Price(101), trades[0].Price, "lower price wins the volume tie without a reference")
		assert.Equal(t, orderbookv1.Qty(4), trades[0].Qty)
		assert.Equal(t, orderbookv1.OrderID(1), trades[0].MakerOrderID)

		// The resting maker is gone; the queued remainder rests at its own
		// price.
		depth := e.Book().Depth(orderbookv1.SideBuy, 1)
		require.Len(t, depth, 1)
		assert.Equal(t, orderbookv1.Price(102), depth[0].Price)
		assert.Equal(t, orderbookv1.Qty(2), depth[0].TotalQty)
		assert.Empty(t, e.Book().Depth(orderbookv1.SideSell, 1))
	})
}
