package agents

import (
	agentv1 "github.com/muhammadchandra19/marketsim/internal/domain/agent/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
)

// MarketMakerConfig holds the quoting knobs.
type MarketMakerConfig struct {
	TickSize orderbookv1.Price

	QuoteQty     orderbookv1.Qty
	SpreadTicks  orderbookv1.Price // total spread in ticks
	RefreshNs    orderbookv1.Ts
	MaxSkewTicks orderbookv1.Price // inventory skew clamp
	SkewPerUnit  int64             // ticks per unit of inventory
}

// DefaultMarketMakerConfig returns the simulator baseline: a 4-tick spread
// refreshed every 50ms of virtual time.
func DefaultMarketMakerConfig() MarketMakerConfig {
	return MarketMakerConfig{
		TickSize:     1,
		QuoteQty:     10,
		SpreadTicks:  4,
		RefreshNs:    50_000_000,
		MaxSkewTicks: 20,
		SkewPerUnit:  1,
	}
}

// MarketMaker keeps a two-sided quote around the reference price, skewing
// both sides against its inventory. On each refresh it pulls the previous
// quote and posts a new one.
type MarketMaker struct {
	owner orderbookv1.OwnerID
	cfg   MarketMakerConfig

	seed          uint64
	nextRefreshTs orderbookv1.Ts
	bidID         orderbookv1.OrderID
	askID         orderbookv1.OrderID
	seq           uint32
}

// NewMarketMaker creates a market maker for the given owner.
func NewMarketMaker(owner orderbookv1.OwnerID, cfg MarketMakerConfig) *MarketMaker {
	return &MarketMaker{owner: owner, cfg: cfg}
}

// Owner implements agentv1.Agent.
func (m *MarketMaker) Owner() orderbookv1.OwnerID {
	return m.owner
}

// Seed implements agentv1.Agent. The maker's policy is deterministic given
// the view sequence; the seed is retained for reproducibility bookkeeping.
func (m *MarketMaker) Seed(s uint64) {
	m.seed = s
	m.nextRefreshTs = 0
	m.bidID = 0
	m.askID = 0
	m.seq = 0
}

// Step implements agentv1.Agent.
func (m *MarketMaker) Step(ts orderbookv1.Ts, view agentv1.MarketView, self agentv1.AgentState, out *[]agentv1.Action) {
	if ts < m.nextRefreshTs {
		return
	}
	m.nextRefreshTs = ts + m.cfg.RefreshNs

	if m.bidID != 0 {
		*out = append(*out, agentv1.Cancel(m.bidID))
		m.bidID = 0
	}
	if m.askID != 0 {
		*out = append(*out, agentv1.Cancel(m.askID))
		m.askID = 0
	}

	ref, ok := m.reference(view)
	if !ok {
		return
	}

	skew := orderbookv1.Price(self.Position * m.cfg.SkewPerUnit)
	if skew > m.cfg.MaxSkewTicks {
		skew = m.cfg.MaxSkewTicks
	}
	if skew < -m.cfg.MaxSkewTicks {
		skew = -m.cfg.MaxSkewTicks
	}

	tick := maxPrice(1, m.cfg.TickSize)
	half := m.cfg.SpreadTicks / 2

	bid := m.snapToTick(ref - half - skew)
	ask := m.snapToTick(ref + half - skew)
	if bid <= 0 {
		bid = tick
	}
	if ask <= bid {
		ask = bid + tick
	}

	m.bidID = m.nextID()
	*out = append(*out, agentv1.Submit(
		orderbookv1.NewLimitOrder(m.bidID, ts, orderbookv1.SideBuy, bid, m.cfg.QuoteQty, m.owner)))

	m.askID = m.nextID()
	*out = append(*out, agentv1.Submit(
		orderbookv1.NewLimitOrder(m.askID, ts, orderbookv1.SideSell, ask, m.cfg.QuoteQty, m.owner)))
}

// reference prefers the mid, falls back to the last trade, and skips the
// refresh entirely when the market has neither.
func (m *MarketMaker) reference(view agentv1.MarketView) (orderbookv1.Price, bool) {
	if view.Mid != nil {
		return *view.Mid, true
	}
	if view.LastTrade != nil {
		return *view.LastTrade, true
	}
	return 0, false
}

func (m *MarketMaker) nextID() orderbookv1.OrderID {
	m.seq++
	return orderbookv1.OrderID(uint64(m.owner)<<32 | uint64(m.seq))
}

func (m *MarketMaker) snapToTick(p orderbookv1.Price) orderbookv1.Price {
	tick := maxPrice(1, m.cfg.TickSize)
	return (p / tick) * tick
}
