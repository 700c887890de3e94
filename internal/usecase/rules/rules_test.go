package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	rulesv1 "github.com/muhammadchandra19/marketsim/internal/domain/rules/v1"
)

func TestRuleSet_PreAccept(t *testing.T) {
	cfg := rulesv1.Config{
		EnforceHalt:   true,
		TickSizeTicks: 5,
		LotSize:       10,
		MinQty:        10,
	}

	tests := []struct {
		name   string
		order  orderbookv1.Order
		phase  rulesv1.MarketPhase
		accept bool
		reason rulesv1.RejectReason
	}{
		{
			name:   "valid limit order",
			order:  orderbookv1.NewLimitOrder(1, 0, orderbookv1.SideBuy, 100, 20, 7),
			phase:  rulesv1.PhaseContinuous,
			accept: true,
			reason: rulesv1.RejectNone,
		},
		{
			name:   "valid market order ignores price grid",
			order:  orderbookv1.NewMarketOrder(2, 0, orderbookv1.SideSell, 20, 7),
			phase:  rulesv1.PhaseContinuous,
			accept: true,
			reason: rulesv1.RejectNone,
		},
		{
			name:   "zero id is invalid",
			order:  orderbookv1.NewLimitOrder(0, 0, orderbookv1.SideBuy, 100, 20, 7),
			phase:  rulesv1.PhaseContinuous,
			reason: rulesv1.RejectInvalidOrder,
		},
		{
			name:   "limit without price is invalid",
			order:  orderbookv1.NewLimitOrder(3, 0, orderbookv1.SideBuy, 0, 20, 7),
			phase:  rulesv1.PhaseContinuous,
			reason: rulesv1.RejectInvalidOrder,
		},
		{
			name:   "rejected while halted",
			order:  orderbookv1.NewLimitOrder(4, 0, orderbookv1.SideBuy, 100, 20, 7),
			phase:  rulesv1.PhaseHalted,
			reason: rulesv1.RejectMarketHalted,
		},
		{
			name:   "qty below minimum",
			order:  orderbookv1.NewLimitOrder(5, 0, orderbookv1.SideBuy, 100, 5, 7),
			phase:  rulesv1.PhaseContinuous,
			reason: rulesv1.RejectQtyBelowMinimum,
		},
		{
			name:   "qty off the lot grid",
			order:  orderbookv1.NewLimitOrder(6, 0, orderbookv1.SideBuy, 100, 25, 7),
			phase:  rulesv1.PhaseContinuous,
			reason: rulesv1.RejectQtyNotOnLot,
		},
		{
			name:   "price off the tick grid",
			order:  orderbookv1.NewLimitOrder(7, 0, orderbookv1.SideBuy, 102, 20, 7),
			phase:  rulesv1.PhaseContinuous,
			reason: rulesv1.RejectPriceNotOnTick,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := NewRuleSet(cfg)
			rs.SetPhase(tt.phase)

			dec := rs.PreAccept(&tt.order)
			assert.Equal(t, tt.accept, dec.Accept)
			assert.Equal(t, tt.reason, dec.Reason)
		})
	}

	t.Run("halt not enforced lets orders through", func(t *testing.T) {
		relaxed := cfg
		relaxed.EnforceHalt = false
		rs := NewRuleSet(relaxed)
		rs.SetPhase(rulesv1.PhaseHalted)

		o := orderbookv1.NewLimitOrder(8, 0, orderbookv1.SideBuy, 100, 20, 7)
		dec := rs.PreAccept(&o)
		assert.True(t, dec.Accept)
	})
}

func TestRuleSet_OnTrades(t *testing.T) {
	rs := NewRuleSet(rulesv1.DefaultConfig())

	_, ok := rs.LastTradePrice()
	assert.False(t, ok)

	rs.OnTrades([]orderbookv1.Trade{
		{ID: 1, Price: 100, Qty: 1},
		{ID: 2, Price: 105, Qty: 2},
	})

	last, ok := rs.LastTradePrice()
	require.True(t, ok)
	assert.Equal(t, orderbookv1.Price(105), last)

	// Empty batches leave the reference untouched.
	rs.OnTrades(nil)
	last, ok = rs.LastTradePrice()
	require.True(t, ok)
	assert.Equal(t, orderbookv1.Price(105), last)
}

func TestRuleSet_BreachesBand(t *testing.T) {
	cfg := rulesv1.DefaultConfig()
	cfg.BandBPS = 100 // 1%

	rs := NewRuleSet(cfg)

	t.Run("no reference price never breaches", func(t *testing.T) {
		assert.False(t, rs.BreachesBand(1_000_000))
	})

	rs.OnTrades([]orderbookv1.Trade{{ID: 1, Price: 10000, Qty: 1}})

	tests := []struct {
		name    string
		px      orderbookv1.Price
		breach  bool
	}{
		{name: "at reference", px: 10000},
		{name: "at upper edge", px: 10100},
		{name: "above upper edge", px: 10101, breach: true},
		{name: "at lower edge", px: 9900},
		{name: "below lower edge", px: 9899, breach: true},
		{name: "far outside", px: 12000, breach: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.breach, rs.BreachesBand(tt.px))
		})
	}

	t.Run("half-width truncates toward zero", func(t *testing.T) {
		// ref=10050, bps=100 -> half = 10050*100/10000 = 100 (truncated from 100.5)
		rs.OnTrades([]orderbookv1.Trade{{ID: 2, Price: 10050, Qty: 1}})
		assert.False(t, rs.BreachesBand(10150))
		assert.True(t, rs.BreachesBand(10151))
	})
}
