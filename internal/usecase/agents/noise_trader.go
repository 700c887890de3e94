// Package agents provides the built-in trading agents: a noise trader that
// submits random orders around the mid, and a market maker that maintains a
// two-sided quote with inventory skew. Both are pure functions of
// (seed, sequence of views).
package agents

import (
	agentv1 "github.com/muhammadchandra19/marketsim/internal/domain/agent/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/marketsim/pkg/rng"
)

// NoiseTraderConfig holds the noise trader knobs. Tick and lot must match
// the market rules or the orders will bounce off admission.
type NoiseTraderConfig struct {
	TickSize orderbookv1.Price
	LotSize  orderbookv1.Qty
	MinQty   orderbookv1.Qty
	MaxQty   orderbookv1.Qty

	IntensityPerStep float64 // probability of emitting an order per tick
	ProbMarket       float64 // probability that the order is a market order
	MaxOffsetTicks   int64   // limit price offset range from the reference
	DefaultMid       orderbookv1.Price
}

// DefaultNoiseTraderConfig returns the simulator baseline.
func DefaultNoiseTraderConfig() NoiseTraderConfig {
	return NoiseTraderConfig{
		TickSize:         1,
		LotSize:          1,
		MinQty:           1,
		MaxQty:           10,
		IntensityPerStep: 0.3,
		ProbMarket:       0.25,
		MaxOffsetTicks:   10,
		DefaultMid:       100,
	}
}

// NoiseTrader submits uninformed flow: with some intensity per tick it
// sends either a market order or a limit order offset from the mid.
type NoiseTrader struct {
	owner orderbookv1.OwnerID
	cfg   NoiseTraderConfig

	rng *rng.Rng
	seq uint32
}

// NewNoiseTrader creates a noise trader for the given owner.
func NewNoiseTrader(owner orderbookv1.OwnerID, cfg NoiseTraderConfig) *NoiseTrader {
	return &NoiseTrader{owner: owner, cfg: cfg}
}

// Owner implements agentv1.Agent.
func (n *NoiseTrader) Owner() orderbookv1.OwnerID {
	return n.owner
}

// Seed implements agentv1.Agent.
func (n *NoiseTrader) Seed(s uint64) {
	n.rng = rng.New(s)
}

// Step implements agentv1.Agent.
func (n *NoiseTrader) Step(ts orderbookv1.Ts, view agentv1.MarketView, _ agentv1.AgentState, out *[]agentv1.Action) {
	if n.rng == nil || n.rng.Uniform01() > n.cfg.IntensityPerStep {
		return
	}

	ref := n.cfg.DefaultMid
	if view.Mid != nil {
		ref = *view.Mid
	}
	ref = n.snapToTick(ref)
	if ref <= 0 {
		ref = maxPrice(1, n.cfg.TickSize)
	}

	side := orderbookv1.SideSell
	if n.rng.Coin() {
		side = orderbookv1.SideBuy
	}

	minQ := maxQty(1, n.cfg.MinQty)
	maxQ := maxQty(minQ, n.cfg.MaxQty)
	qty := n.snapToLot(orderbookv1.Qty(n.rng.UniformInt(int64(minQ), int64(maxQ))))

	o := orderbookv1.Order{
		ID:    n.nextID(),
		Ts:    ts,
		Side:  side,
		Qty:   qty,
		Owner: n.owner,
	}

	if n.rng.Uniform01() < n.cfg.ProbMarket {
		o.Type = orderbookv1.OrderTypeMarket
		o.TIF = orderbookv1.TifIOC
		o.MarketStyle = orderbookv1.MarketStylePure
	} else {
		maxOff := n.cfg.MaxOffsetTicks
		if maxOff < 1 {
			maxOff = 1
		}
		off := orderbookv1.Price(n.rng.UniformInt(1, maxOff))

		px := ref - off
		if side == orderbookv1.SideSell {
			px = ref + off
		}
		px = n.snapToTick(px)
		if px <= 0 {
			px = n.snapToTick(ref)
		}

		o.Type = orderbookv1.OrderTypeLimit
		o.Price = px
		o.TIF = orderbookv1.TifGTC
	}

	*out = append(*out, agentv1.Submit(o))
}

// nextID scopes order ids per owner so agents never collide.
func (n *NoiseTrader) nextID() orderbookv1.OrderID {
	n.seq++
	return orderbookv1.OrderID(uint64(n.owner)<<32 | uint64(n.seq))
}

func (n *NoiseTrader) snapToTick(p orderbookv1.Price) orderbookv1.Price {
	tick := maxPrice(1, n.cfg.TickSize)
	return (p / tick) * tick
}

func (n *NoiseTrader) snapToLot(q orderbookv1.Qty) orderbookv1.Qty {
	lot := maxQty(1, n.cfg.LotSize)
	if q < maxQty(1, n.cfg.MinQty) {
		q = maxQty(1, n.cfg.MinQty)
	}
	q = (q / lot) * lot
	if q <= 0 {
		q = lot
	}
	return q
}

func maxPrice(a, b orderbookv1.Price) orderbookv1.Price {
	if a > b {
		return a
	}
	return b
}

func maxQty(a, b orderbookv1.Qty) orderbookv1.Qty {
	if a > b {
		return a
	}
	return b
}
