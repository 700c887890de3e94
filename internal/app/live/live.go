// Package live wraps one engine for concurrent use by the gateway: a
// worker goroutine advances virtual time and steps the agents, while HTTP
// handlers read cached snapshots and submit manual orders.
package live

import (
	"context"
	"math"
	"sync"
	"time"

	agentv1 "github.com/muhammadchandra19/marketsim/internal/domain/agent/v1"
	enginev1 "github.com/muhammadchandra19/marketsim/internal/domain/engine/v1"
	feedv1 "github.com/muhammadchandra19/marketsim/internal/domain/feed/v1"
	livev1 "github.com/muhammadchandra19/marketsim/internal/domain/live/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/marketsim/internal/usecase/engine"
	"github.com/muhammadchandra19/marketsim/pkg/logger"
	"github.com/muhammadchandra19/marketsim/pkg/rng"
)

// ManualOwner is the account manual gateway orders trade for when the
// request does not name one.
const ManualOwner orderbookv1.OwnerID = 999

const (
	defaultMaxCachedTrades = 1024
	defaultMaxCachedTops   = 8192
	defaultDepthLevels     = 50
)

// Config holds the live world knobs.
type Config struct {
	Seed     uint64
	HorizonS float64
	DtNs     orderbookv1.Ts

	// TickEvery paces virtual ticks in wall time. Zero runs the horizon as
	// fast as possible.
	TickEvery time.Duration

	MaxCachedTrades int
	MaxCachedTops   int
	DepthLevels     int
}

// snapshotCache is everything the read API serves. It is rebuilt from the
// engine after every interaction so readers never touch the engine lock.
type snapshotCache struct {
	ts        orderbookv1.Ts
	bestBid   *orderbookv1.Price
	bestAsk   *orderbookv1.Price
	mid       *orderbookv1.Price
	lastTrade *orderbookv1.Price

	trades []orderbookv1.Trade // newest first
	tops   []livev1.MidPoint   // oldest first
	depth  livev1.BookDepth
}

// LiveWorld drives one engine in wall-clock time. The engine mutex guards
// every engine interaction; the cache mutex guards the snapshot cache; no
// lock is held across I/O.
type LiveWorld struct {
	cfg    Config
	logger logger.Interface
	feed   feedv1.Publisher // optional

	mu        sync.Mutex
	engine    *engine.Engine
	agents    []agentv1.Agent
	ts        orderbookv1.Ts
	manualSeq uint64

	cacheMu sync.Mutex
	cache   snapshotCache

	lifecycleMu sync.Mutex
	started     bool
	stopped     bool
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// New creates a live world around an engine. The feed publisher may be nil.
func New(cfg Config, e *engine.Engine, log logger.Interface, pub feedv1.Publisher) *LiveWorld {
	if cfg.DtNs <= 0 {
		cfg.DtNs = 1_000_000
	}
	if cfg.MaxCachedTrades <= 0 {
		cfg.MaxCachedTrades = defaultMaxCachedTrades
	}
	if cfg.MaxCachedTops <= 0 {
		cfg.MaxCachedTops = defaultMaxCachedTops
	}
	if cfg.DepthLevels <= 0 {
		cfg.DepthLevels = defaultDepthLevels
	}
	return &LiveWorld{
		cfg:    cfg,
		logger: log,
		feed:   pub,
		engine: e,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// AddAgent registers an agent. Must be called before Start.
func (l *LiveWorld) AddAgent(a agentv1.Agent) {
	l.agents = append(l.agents, a)
}

// Start seeds the agents and launches the tick worker. Calling Start twice
// is a no-op.
func (l *LiveWorld) Start() {
	l.lifecycleMu.Lock()
	defer l.lifecycleMu.Unlock()
	if l.started {
		return
	}
	l.started = true

	sm := l.cfg.Seed
	for i, a := range l.agents {
		a.Seed(rng.Splitmix64(&sm) ^ uint64(i+1))
	}

	go l.run()
}

// Stop signals the worker and waits for the in-flight tick to complete.
// Idempotent.
func (l *LiveWorld) Stop() {
	l.lifecycleMu.Lock()
	if !l.started || l.stopped {
		l.lifecycleMu.Unlock()
		return
	}
	l.stopped = true
	close(l.stopCh)
	l.lifecycleMu.Unlock()

	<-l.doneCh
}

func (l *LiveWorld) run() {
	defer close(l.doneCh)

	tEnd := orderbookv1.Ts(math.Round(l.cfg.HorizonS * 1e9))
	for ts := orderbookv1.Ts(0); ts <= tEnd; ts += l.cfg.DtNs {
		select {
		case <-l.stopCh:
			return
		default:
		}

		l.tick(ts)

		if l.cfg.TickEvery > 0 {
			select {
			case <-l.stopCh:
				return
			case <-time.After(l.cfg.TickEvery):
			}
		}
	}
	l.logger.Info("live horizon complete", logger.NewField("ts", int64(tEnd)))
}

// tick advances virtual time by one step under the engine lock and
// publishes any trades after the lock is released.
func (l *LiveWorld) tick(ts orderbookv1.Ts) {
	l.mu.Lock()
	l.ts = ts

	var produced []orderbookv1.Trade
	produced = append(produced, l.engine.Flush(ts)...)

	view := l.marketViewLocked(ts)

	var actions []agentv1.Action
	for _, a := range l.agents {
		actions = actions[:0]
		a.Step(ts, view, agentv1.AgentState{Owner: a.Owner()}, &actions)

		for _, act := range actions {
			switch act.Type {
			case agentv1.ActionSubmit:
				o := act.Order
				o.Ts = ts
				o.Owner = a.Owner()
				res := l.engine.Process(o)
				produced = append(produced, res.Trades...)
			case agentv1.ActionCancel:
				l.engine.Book().Cancel(act.ID)
			case agentv1.ActionModifyQty:
				l.engine.Book().ModifyQty(act.ID, act.NewQty)
			}
		}
	}

	l.refreshCacheLocked(produced)
	l.mu.Unlock()

	l.publish(produced)
}

// SubmitOrder processes one manual order at the current virtual time. A
// zero owner defaults to ManualOwner; a zero id is minted from the owner's
// sequence.
func (l *LiveWorld) SubmitOrder(o orderbookv1.Order) enginev1.OrderAck {
	l.mu.Lock()
	if o.Owner == 0 {
		o.Owner = ManualOwner
	}
	if o.ID == 0 {
		l.manualSeq++
		o.ID = orderbookv1.OrderID(uint64(o.Owner)<<32 | l.manualSeq)
	}
	o.Ts = l.ts

	res := l.engine.Process(o)
	l.refreshCacheLocked(res.Trades)
	l.mu.Unlock()

	l.publish(res.Trades)

	return enginev1.OrderAck{
		ID:           o.ID,
		Status:       res.Status,
		RejectReason: res.RejectReason,
	}
}

// CancelOrder cancels a resting order by id.
func (l *LiveWorld) CancelOrder(id orderbookv1.OrderID) bool {
	l.mu.Lock()
	ok := l.engine.Book().Cancel(id)
	l.refreshCacheLocked(nil)
	l.mu.Unlock()
	return ok
}

// ModifyQty reduces a resting order's quantity.
func (l *LiveWorld) ModifyQty(id orderbookv1.OrderID, newQty orderbookv1.Qty) bool {
	l.mu.Lock()
	ok := l.engine.Book().ModifyQty(id, newQty)
	l.refreshCacheLocked(nil)
	l.mu.Unlock()
	return ok
}

// Snapshot returns the current market view with up to maxTrades recent
// trades, newest first.
func (l *LiveWorld) Snapshot(maxTrades int) livev1.Snapshot {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()

	n := len(l.cache.trades)
	if maxTrades < n {
		n = maxTrades
	}
	if n < 0 {
		n = 0
	}
	trades := make([]orderbookv1.Trade, n)
	copy(trades, l.cache.trades[:n])

	return livev1.Snapshot{
		Ts:           l.cache.ts,
		BestBid:      l.cache.bestBid,
		BestAsk:      l.cache.bestAsk,
		Mid:          l.cache.mid,
		LastTrade:    l.cache.lastTrade,
		RecentTrades: trades,
	}
}

// MidSeries returns the mid samples within the trailing window, oldest
// first.
func (l *LiveWorld) MidSeries(windowNs orderbookv1.Ts) []livev1.MidPoint {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()

	cutoff := l.cache.ts - windowNs
	var out []livev1.MidPoint
	for _, p := range l.cache.tops {
		if p.Ts >= cutoff {
			out = append(out, p)
		}
	}
	return out
}

// BookDepth returns up to levels aggregated price levels per side, best
// first.
func (l *LiveWorld) BookDepth(levels int) livev1.BookDepth {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()

	clamp := func(in []livev1.DepthLevel) []livev1.DepthLevel {
		n := len(in)
		if levels < n {
			n = levels
		}
		if n <= 0 {
			return nil
		}
		out := make([]livev1.DepthLevel, n)
		copy(out, in[:n])
		return out
	}
	return livev1.BookDepth{
		Bids: clamp(l.cache.depth.Bids),
		Asks: clamp(l.cache.depth.Asks),
	}
}

func (l *LiveWorld) marketViewLocked(ts orderbookv1.Ts) agentv1.MarketView {
	bid := orderbookv1.OptPrice(l.engine.Book().BestBid())
	ask := orderbookv1.OptPrice(l.engine.Book().BestAsk())
	return agentv1.MarketView{
		Ts:        ts,
		BestBid:   bid,
		BestAsk:   ask,
		Mid:       orderbookv1.Midprice(bid, ask),
		LastTrade: orderbookv1.OptPrice(l.engine.Rules().LastTradePrice()),
	}
}

// refreshCacheLocked rebuilds the snapshot cache. The caller holds the
// engine lock; the cache lock is taken only for the final swap.
func (l *LiveWorld) refreshCacheLocked(newTrades []orderbookv1.Trade) {
	bid := orderbookv1.OptPrice(l.engine.Book().BestBid())
	ask := orderbookv1.OptPrice(l.engine.Book().BestAsk())
	mid := orderbookv1.Midprice(bid, ask)
	last := orderbookv1.OptPrice(l.engine.Rules().LastTradePrice())

	depthOf := func(side orderbookv1.Side) []livev1.DepthLevel {
		var out []livev1.DepthLevel
		for _, lvl := range l.engine.Book().Depth(side, l.cfg.DepthLevels) {
			out = append(out, livev1.DepthLevel{Price: lvl.Price, Qty: lvl.TotalQty})
		}
		return out
	}
	depth := livev1.BookDepth{
		Bids: depthOf(orderbookv1.SideBuy),
		Asks: depthOf(orderbookv1.SideSell),
	}

	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()

	l.cache.ts = l.ts
	l.cache.bestBid = bid
	l.cache.bestAsk = ask
	l.cache.mid = mid
	l.cache.lastTrade = last
	l.cache.depth = depth

	// Newest first, bounded.
	for i := len(newTrades) - 1; i >= 0; i-- {
		l.cache.trades = append([]orderbookv1.Trade{newTrades[i]}, l.cache.trades...)
	}
	if len(l.cache.trades) > l.cfg.MaxCachedTrades {
		l.cache.trades = l.cache.trades[:l.cfg.MaxCachedTrades]
	}

	l.cache.tops = append(l.cache.tops, livev1.MidPoint{Ts: l.ts, Mid: mid})
	if len(l.cache.tops) > l.cfg.MaxCachedTops {
		l.cache.tops = l.cache.tops[len(l.cache.tops)-l.cfg.MaxCachedTops:]
	}
}

func (l *LiveWorld) publish(trades []orderbookv1.Trade) {
	if l.feed == nil || len(trades) == 0 {
		return
	}
	// Errors are logged inside the publisher; a feed outage never stops the
	// market.
	_ = l.feed.PublishTrades(context.Background(), trades)
}
