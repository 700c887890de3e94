// Package world runs the discrete-event simulation: it advances virtual
// time tick by tick, invokes agents, feeds their orders to the engine, and
// accumulates trades, top-of-book samples, and per-owner accounts.
package world

import (
	"math"

	agentv1 "github.com/muhammadchandra19/marketsim/internal/domain/agent/v1"
	ledgerv1 "github.com/muhammadchandra19/marketsim/internal/domain/ledger/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	worldv1 "github.com/muhammadchandra19/marketsim/internal/domain/world/v1"
	"github.com/muhammadchandra19/marketsim/internal/usecase/engine"
	"github.com/muhammadchandra19/marketsim/internal/usecase/ledger"
	"github.com/muhammadchandra19/marketsim/pkg/rng"
)

// World owns one engine and a fixed set of agents. The run result is a pure
// function of (seed, horizon, tick size, agent set): agents fire in
// insertion order, seeds derive deterministically, the engine is
// integer-only, and nothing reads the wall clock.
type World struct {
	engine *engine.Engine
	agents []agentv1.Agent

	meta     map[orderbookv1.OrderID]ledgerv1.OrderMeta
	accounts map[orderbookv1.OwnerID]*ledgerv1.Account
}

// New creates a world around an engine.
func New(e *engine.Engine) *World {
	return &World{
		engine:   e,
		meta:     make(map[orderbookv1.OrderID]ledgerv1.OrderMeta),
		accounts: make(map[orderbookv1.OwnerID]*ledgerv1.Account),
	}
}

// AddAgent registers an agent. Registration order is part of the
// deterministic contract.
func (w *World) AddAgent(a agentv1.Agent) {
	w.agents = append(w.agents, a)
}

// Engine exposes the engine, mainly for seeding scenarios in tests.
func (w *World) Engine() *engine.Engine {
	return w.engine
}

// Run executes the simulation for horizonSeconds of virtual time.
func (w *World) Run(seed uint64, horizonSeconds float64, cfg worldv1.Config) worldv1.Result {
	var out worldv1.Result

	dt := cfg.DtNs
	if dt <= 0 {
		dt = 1
	}
	tEnd := orderbookv1.Ts(math.Round(horizonSeconds * 1e9))

	// One shared splitmix64 stream, advanced per agent in insertion order.
	sm := seed
	for i, a := range w.agents {
		a.Seed(rng.Splitmix64(&sm) ^ uint64(i+1))
	}

	var actions []agentv1.Action
	for ts := orderbookv1.Ts(0); ts <= tEnd; ts += dt {
		if flushed := w.engine.Flush(ts); len(flushed) > 0 {
			ledger.ApplyTrades(flushed, w.meta, w.accounts)
			out.Trades = append(out.Trades, flushed...)
		}

		view := w.marketView(ts)

		for _, a := range w.agents {
			owner := a.Owner()
			state := agentv1.AgentState{Owner: owner}
			if acct, ok := w.accounts[owner]; ok {
				state.CashTicks = acct.CashTicks
				state.Position = acct.Position
			}

			actions = actions[:0]
			a.Step(ts, view, state, &actions)

			for _, act := range actions {
				switch act.Type {
				case agentv1.ActionSubmit:
					o := act.Order
					o.Ts = ts
					o.Owner = owner
					// Attribution must exist before processing: the order
					// may fill and be destroyed inside the same call.
					w.meta[o.ID] = ledgerv1.OrderMeta{Owner: o.Owner, Side: o.Side}
					res := w.engine.Process(o)
					if len(res.Trades) > 0 {
						ledger.ApplyTrades(res.Trades, w.meta, w.accounts)
						out.Trades = append(out.Trades, res.Trades...)
					}
				case agentv1.ActionCancel:
					if !w.engine.Book().Cancel(act.ID) {
						out.CancelFailures++
					}
				case agentv1.ActionModifyQty:
					if !w.engine.Book().ModifyQty(act.ID, act.NewQty) {
						out.ModifyFailures++
					}
				}
			}
		}

		bid := orderbookv1.OptPrice(w.engine.Book().BestBid())
		ask := orderbookv1.OptPrice(w.engine.Book().BestAsk())
		out.Tops = append(out.Tops, orderbookv1.BookTop{
			Ts:      ts,
			BestBid: bid,
			BestAsk: ask,
			Mid:     orderbookv1.Midprice(bid, ask),
		})
	}

	finalView := w.marketView(tEnd)
	out.Accounts = ledger.Snapshots(tEnd, w.accounts, finalView.Mid)
	return out
}

func (w *World) marketView(ts orderbookv1.Ts) agentv1.MarketView {
	bid := orderbookv1.OptPrice(w.engine.Book().BestBid())
	ask := orderbookv1.OptPrice(w.engine.Book().BestAsk())
	return agentv1.MarketView{
		Ts:        ts,
		BestBid:   bid,
		BestAsk:   ask,
		Mid:       orderbookv1.Midprice(bid, ask),
		LastTrade: orderbookv1.OptPrice(w.engine.Rules().LastTradePrice()),
	}
}
