// Package engine implements the MatchingEngine: the per-symbol OrderBook
// registry, id/timestamp assignment, the bounded recent-trades tail, and
// event publication to subscribers.
package engine

import (
	"sync"
	"sync/atomic"

	"clobcore/book"
	"clobcore/domain"
	"clobcore/idgen"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderSpec is the input to Submit, validated on arrival. ID may be empty;
// the engine assigns a uuid.
type OrderSpec struct {
	ID       string
	Symbol   string
	Side     domain.Side
	Type     domain.OrderType
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// MatchingEngine is the single entry point for order submission,
// cancellation, and read queries across every registered symbol.
type MatchingEngine struct {
	mu      sync.RWMutex
	books   map[string]*book.OrderBook
	symbols map[string]SymbolConfig

	seq      atomic.Int64
	tradeIDs *idgen.Sequential
	tail     *tradeTail
	subs     *subscriberRegistry
	metrics  *Metrics
	log      *zap.Logger

	defaultDepth int
}

// New builds an engine from cfg. log may be nil, in which case a no-op
// logger is used.
func New(cfg Config, log *zap.Logger) *MatchingEngine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &MatchingEngine{
		books:        make(map[string]*book.OrderBook),
		symbols:      make(map[string]SymbolConfig),
		tradeIDs:     idgen.NewSequential("T"),
		tail:         newTradeTail(cfg.RecentTradesCap),
		subs:         newSubscriberRegistry(log),
		metrics:      NewMetrics(),
		log:          log,
		defaultDepth: cfg.DefaultDepth,
	}
	for sym, sc := range cfg.Symbols {
		e.RegisterSymbol(sym, sc.PriceScale, sc.QtyScale)
	}
	return e
}

// RegisterSymbol creates symbol's book (idempotent) with its declared
// price/quantity scales. The book persists for the engine's lifetime once
// registered.
func (e *MatchingEngine) RegisterSymbol(symbol string, priceScale, qtyScale int32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.books[symbol]; ok {
		return
	}
	e.books[symbol] = book.NewOrderBook(symbol)
	e.symbols[symbol] = SymbolConfig{PriceScale: priceScale, QtyScale: qtyScale}
}

// Symbols returns every registered symbol.
func (e *MatchingEngine) Symbols() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.books))
	for sym := range e.books {
		out = append(out, sym)
	}
	return out
}

func (e *MatchingEngine) lookup(symbol string) (*book.OrderBook, SymbolConfig, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ob, ok := e.books[symbol]
	if !ok {
		return nil, SymbolConfig{}, false
	}
	return ob, e.symbols[symbol], true
}

// Submit validates spec, dispatches it to its symbol's book, stamps
// produced trades with fresh ids/timestamps, appends them to the recent
// tail, and publishes events to subscribers.
func (e *MatchingEngine) Submit(spec OrderSpec) (*domain.Order, []domain.Trade) {
	ob, sc, ok := e.lookup(spec.Symbol)
	if !ok {
		return e.rejected(spec, domain.ReasonUnknownSymbol), nil
	}

	if reason := validate(spec, sc); reason != "" {
		e.metrics.observeReject(spec.Symbol, reason)
		return e.rejected(spec, reason), nil
	}

	id := spec.ID
	if id == "" {
		id = idgen.Order()
	}

	order := domain.NewOrder(id, spec.Symbol, spec.Side, spec.Type, spec.Price, spec.Quantity)

	trades := e.submitLogged(ob, order)
	if order.Status == domain.StatusRejected {
		e.metrics.observeReject(spec.Symbol, order.RejectReason)
		return order, nil
	}
	e.stamp(trades)

	e.metrics.observeSubmit(spec.Symbol, spec.Type.String())
	e.metrics.observeTrades(spec.Symbol, len(trades))
	bids, asks := ob.RestingCounts()
	e.metrics.setRestingDepth(spec.Symbol, bids, asks)

	e.tail.append(trades)
	e.publish(ob, spec.Symbol, trades)

	return order, trades
}

// submitLogged wraps ob.Submit so a fatal *book.InvariantViolation is
// observed in the logs before it propagates, even if a caller further up
// recovers it. The book package itself carries no logger dependency, so
// this boundary is the only place such a panic can be captured and logged.
//
// It also supplies the timestamp-assigning callback ob.Submit invokes
// immediately after acquiring its lock: stamping the order in this function
// before calling ob.Submit would let two orders racing for the same book's
// lock end up with timestamps in the opposite order from the one they
// actually matched in.
func (e *MatchingEngine) submitLogged(ob *book.OrderBook, order *domain.Order) []domain.Trade {
	defer func() {
		if r := recover(); r != nil {
			if iv, ok := r.(*book.InvariantViolation); ok {
				e.log.Error("book invariant violated",
					zap.String("symbol", iv.Symbol), zap.String("reason", iv.Reason))
			}
			panic(r)
		}
	}()
	return ob.Submit(order, func(o *domain.Order) { o.Timestamp = e.seq.Add(1) })
}

// rejected returns a terminal, never-rested order carrying reason: no book
// mutation and no events ever precede this.
func (e *MatchingEngine) rejected(spec OrderSpec, reason string) *domain.Order {
	o := domain.NewOrder(spec.ID, spec.Symbol, spec.Side, spec.Type, spec.Price, spec.Quantity)
	o.Reject(reason)
	return o
}

// stamp assigns fresh trade ids and monotonic timestamps in execution
// order, so trades stay strictly ordered without the book needing the
// engine's generators on its critical path.
func (e *MatchingEngine) stamp(trades []domain.Trade) {
	for i := range trades {
		trades[i].TradeID = e.tradeIDs.Next()
		trades[i].Timestamp = e.seq.Add(1)
	}
}

func (e *MatchingEngine) publish(ob *book.OrderBook, symbol string, trades []domain.Trade) {
	bids, asks := ob.Snapshot(e.depthOrDefault(0))
	snap := BookSnapshot{Symbol: symbol, Bids: bids, Asks: asks, Sequence: e.seq.Load()}
	e.subs.publish(trades, snap)
}

// Cancel removes a resting order by id from symbol's book.
func (e *MatchingEngine) Cancel(symbol, orderID string) bool {
	ob, _, ok := e.lookup(symbol)
	if !ok {
		return false
	}
	if !ob.Cancel(orderID) {
		return false
	}
	e.publish(ob, symbol, nil)
	return true
}

// OrderBookSnapshot returns the top depth levels per side for symbol.
// depth<=0 uses the configured default.
func (e *MatchingEngine) OrderBookSnapshot(symbol string, depth int) (BookSnapshot, bool) {
	ob, _, ok := e.lookup(symbol)
	if !ok {
		return BookSnapshot{}, false
	}
	bids, asks := ob.Snapshot(e.depthOrDefault(depth))
	return BookSnapshot{Symbol: symbol, Bids: bids, Asks: asks, Sequence: e.seq.Load()}, true
}

func (e *MatchingEngine) depthOrDefault(depth int) int {
	if depth <= 0 {
		return e.defaultDepth
	}
	return depth
}

// BBO returns the best bid and best ask for symbol, each with its own
// presence flag (either side may be empty independently).
func (e *MatchingEngine) BBO(symbol string) (bid, ask decimal.Decimal, bidOK, askOK bool) {
	ob, _, ok := e.lookup(symbol)
	if !ok {
		return decimal.Zero, decimal.Zero, false, false
	}
	bid, bidOK = ob.BestBid()
	ask, askOK = ob.BestAsk()
	return bid, ask, bidOK, askOK
}

// RecentTrades returns up to limit trades from the bounded tail, optionally
// filtered to one symbol (empty string = all symbols).
func (e *MatchingEngine) RecentTrades(symbol string, limit int) []domain.Trade {
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	return e.tail.recent(symbol, limit)
}

// Subscribe registers sink to receive trade and book-snapshot events.
func (e *MatchingEngine) Subscribe(sink EventSink) {
	e.subs.add(sink)
}

// Unsubscribe detaches sink; events already queued for it are still
// delivered before its outbox goroutine exits.
func (e *MatchingEngine) Unsubscribe(sink EventSink) {
	e.subs.remove(sink)
}
