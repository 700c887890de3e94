package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agentv1 "github.com/muhammadchandra19/marketsim/internal/domain/agent/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
)

func viewAt(ts orderbookv1.Ts, mid *orderbookv1.Price) agentv1.MarketView {
	return agentv1.MarketView{Ts: ts, Mid: mid}
}

func collectActions(a agentv1.Agent, seed uint64, steps int) []agentv1.Action {
	a.Seed(seed)
	var all []agentv1.Action
	var out []agentv1.Action
	for i := 0; i < steps; i++ {
		out = out[:0]
		ts := orderbookv1.Ts(i) * 1_000_000
		a.Step(ts, viewAt(ts, nil), agentv1.AgentState{Owner: a.Owner()}, &out)
		all = append(all, out...)
	}
	return all
}

func TestNoiseTrader_Deterministic(t *testing.T) {
	cfg := DefaultNoiseTraderConfig()

	a := collectActions(NewNoiseTrader(1, cfg), 42, 500)
	b := collectActions(NewNoiseTrader(1, cfg), 42, 500)
	require.NotEmpty(t, a, "intensity 0.3 over 500 steps must emit orders")
	assert.Equal(t, a, b, "same seed, same sequence")

	c := collectActions(NewNoiseTrader(1, cfg), 43, 500)
	assert.NotEqual(t, a, c, "different seed diverges")
}

func TestNoiseTrader_OrdersRespectGrids(t *testing.T) {
	cfg := DefaultNoiseTraderConfig()
	cfg.TickSize = 5
	cfg.LotSize = 10
	cfg.MinQty = 10
	cfg.MaxQty = 40
	cfg.DefaultMid = 100

	actions := collectActions(NewNoiseTrader(1, cfg), 7, 1000)
	require.NotEmpty(t, actions)

	seen := map[orderbookv1.OrderID]struct{}{}
	for _, act := range actions {
		require.Equal(t, agentv1.ActionSubmit, act.Type)
		o := act.Order

		_, dup := seen[o.ID]
		require.False(t, dup, "order ids are unique")
		seen[o.ID] = struct{}{}

		assert.Equal(t, orderbookv1.OwnerID(1), o.Owner)
		assert.Greater(t, o.Qty, orderbookv1.Qty(0))
		assert.Zero(t, o.Qty%cfg.LotSize, "qty on lot grid")
		assert.GreaterOrEqual(t, o.Qty, cfg.MinQty)

		if o.Type == orderbookv1.OrderTypeLimit {
			assert.Greater(t, o.Price, orderbookv1.Price(0))
			assert.Zero(t, o.Price%cfg.TickSize, "price on tick grid")
			assert.Equal(t, orderbookv1.TifGTC, o.TIF)
		} else {
			assert.Equal(t, orderbookv1.Price(0), o.Price)
			assert.Equal(t, orderbookv1.TifIOC, o.TIF)
		}
	}
}

func TestNoiseTrader_UsesMidWhenPresent(t *testing.T) {
	cfg := DefaultNoiseTraderConfig()
	cfg.ProbMarket = 0 // limits only, so every order carries a price
	cfg.MaxOffsetTicks = 5

	nt := NewNoiseTrader(1, cfg)
	nt.Seed(42)

	mid := orderbookv1.Price(500)
	var out []agentv1.Action
	for i := 0; i < 200; i++ {
		nt.Step(orderbookv1.Ts(i), viewAt(orderbookv1.Ts(i), &mid), agentv1.AgentState{}, &out)
	}
	require.NotEmpty(t, out)

	for _, act := range out {
		px := act.Order.Price
		assert.GreaterOrEqual(t, px, mid-5)
		assert.LessOrEqual(t, px, mid+5)
	}
}

func TestNoiseTrader_SilentWithoutSeed(t *testing.T) {
	nt := NewNoiseTrader(1, DefaultNoiseTraderConfig())
	var out []agentv1.Action
	nt.Step(0, viewAt(0, nil), agentv1.AgentState{}, &out)
	assert.Empty(t, out)
}
