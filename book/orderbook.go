package book

import (
	"fmt"
	"sync"

	"clobcore/domain"
	"github.com/shopspring/decimal"
)

// Level is an aggregated (price, quantity) pair returned by Snapshot — the
// public, read-only view of one PriceLevel.
type Level struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// InvariantViolation is the fatal, non-recoverable error raised when a
// post-mutation check fails. It is never returned on the normal call path;
// it is panicked.
type InvariantViolation struct {
	Symbol string
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("orderbook[%s]: invariant violated: %s", e.Symbol, e.Reason)
}

// OrderBook holds both sides of one symbol's book and serves as the
// matching target. All mutation goes through Submit/Cancel, each of which
// holds mu for the full atomic step.
type OrderBook struct {
	mu     sync.Mutex
	Symbol string
	bids   *priceTree // descending: best = highest
	asks   *priceTree // ascending: best = lowest

	// byID is a non-owning index from order id to the resting order; the
	// order itself carries the list.Element handle into its PriceLevel, so
	// this map never needs to know which level or side an id belongs to
	// beyond what Order.Side/Order.Price already say, avoiding a cyclic
	// Order<->Level ownership arrangement.
	byID map[string]*domain.Order

	// seen records every order id ever accepted by this book, including
	// ones long since filled or cancelled, so a duplicate submission is
	// rejected even after its resting entry is gone.
	seen map[string]struct{}
}

// NewOrderBook creates an empty book for symbol.
func NewOrderBook(symbol string) *OrderBook {
	return &OrderBook{
		Symbol: symbol,
		bids:   newPriceTree(true),
		asks:   newPriceTree(false),
		byID:   make(map[string]*domain.Order),
		seen:   make(map[string]struct{}),
	}
}

// BestBid returns the best bid price and true, or (zero, false) if empty.
func (ob *OrderBook) BestBid() (decimal.Decimal, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.bestOf(ob.bids)
}

// BestAsk returns the best ask price and true, or (zero, false) if empty.
func (ob *OrderBook) BestAsk() (decimal.Decimal, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.bestOf(ob.asks)
}

func (ob *OrderBook) bestOf(t *priceTree) (decimal.Decimal, bool) {
	lvl := t.Best()
	if lvl == nil {
		return decimal.Zero, false
	}
	return lvl.Price, true
}

// Snapshot returns up to depth aggregated levels per side, best price
// first.
func (ob *OrderBook) Snapshot(depth int) (bids, asks []Level) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return toLevels(ob.bids.Depth(depth)), toLevels(ob.asks.Depth(depth))
}

// RestingCounts returns the number of resting orders on each side, for
// metrics reporting. It walks every resting order, and
// MatchingEngine.Submit calls it after each accepted submission.
func (ob *OrderBook) RestingCounts() (bids, asks int) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	for _, o := range ob.byID {
		if o.Side == domain.SideBuy {
			bids++
		} else {
			asks++
		}
	}
	return bids, asks
}

func toLevels(levels []*PriceLevel) []Level {
	out := make([]Level, len(levels))
	for i, l := range levels {
		out[i] = Level{Price: l.Price, Quantity: l.TotalQuantity()}
	}
	return out
}

// Submit atomically matches taker against the opposite side, rests any
// limit residual, and returns the trades produced. Callers must have
// already validated the order (symbol registration, scale, positivity);
// Submit assumes a structurally valid order. Duplicate ids are rejected
// here, under the same lock as everything else, so a race between two
// concurrent submissions of the same id can never both succeed.
//
// assignTimestamp is invoked on taker immediately after mu is acquired, not
// before Submit is called: two goroutines racing to submit to this symbol
// must have their relative lock-acquisition order match their relative
// timestamp order, or FIFO-by-timestamp at a price level would not match
// FIFO-by-actual-insertion. Stamping taker any earlier (e.g. by the caller,
// before it even attempts the lock) lets the loser of the lock race still
// end up with the lower timestamp.
func (ob *OrderBook) Submit(taker *domain.Order, assignTimestamp func(*domain.Order)) []domain.Trade {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	assignTimestamp(taker)

	if _, dup := ob.seen[taker.ID]; dup {
		taker.Reject(domain.ReasonDuplicateID)
		return nil
	}
	ob.seen[taker.ID] = struct{}{}

	if taker.Type == domain.OrderTypeFOK {
		if !ob.fokFillable(taker) {
			taker.Reject(domain.ReasonUnfillable)
			return nil
		}
	}

	trades := ob.match(taker)

	if taker.Type.RestsOnBook() && !taker.IsFilled() {
		ob.rest(taker)
		if len(trades) > 0 {
			taker.Status = domain.StatusPartiallyFilled
		} else {
			taker.Status = domain.StatusNew
		}
	} else if !taker.Type.RestsOnBook() {
		switch {
		case taker.IsFilled():
			taker.Status = domain.StatusFilled
		case len(trades) == 0:
			taker.Status = domain.StatusCancelled
		default:
			taker.Status = domain.StatusPartiallyFilled
		}
	}

	ob.checkNotCrossed()
	return trades
}

// Cancel removes a resting order by id in O(log P + 1): one tree lookup by
// price plus an O(1) list removal via the order's own handle. Returns false
// if unknown or already terminal; an already-gone order is a benign
// not-found, not an error.
func (ob *OrderBook) Cancel(orderID string) bool {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	o, ok := ob.byID[orderID]
	if !ok || !o.Resting() {
		return false
	}

	side := ob.sideTree(o.Side)
	lvl, found := side.Get(o.Price)
	if !found {
		return false
	}

	lvl.AdjustVolume(o.Remaining.Neg())
	lvl.Remove(o)
	side.DropIfEmpty(lvl)
	delete(ob.byID, orderID)
	o.Cancel()
	return true
}

func (ob *OrderBook) sideTree(s domain.Side) *priceTree {
	if s == domain.SideBuy {
		return ob.bids
	}
	return ob.asks
}

func (ob *OrderBook) opposite(s domain.Side) *priceTree {
	if s == domain.SideBuy {
		return ob.asks
	}
	return ob.bids
}

// crosses reports whether makerPrice is an acceptable counterparty price
// for a taker with side/limit.
func crosses(takerSide domain.Side, limit, makerPrice decimal.Decimal) bool {
	if takerSide == domain.SideBuy {
		return makerPrice.LessThanOrEqual(limit)
	}
	return makerPrice.GreaterThanOrEqual(limit)
}

// fokFillable walks the opposite side accumulating tradable quantity
// without mutating anything, so a fill-or-kill order can be rejected
// cleanly before any order on either side is touched.
func (ob *OrderBook) fokFillable(taker *domain.Order) bool {
	opp := ob.opposite(taker.Side)
	need := taker.Remaining
	acc := decimal.Zero

	for _, lvl := range opp.All() {
		if !crosses(taker.Side, taker.Price, lvl.Price) {
			break
		}
		acc = acc.Add(lvl.TotalQuantity())
		if acc.GreaterThanOrEqual(need) {
			return true
		}
	}
	return acc.GreaterThanOrEqual(need)
}

// match runs the core price-time-priority loop: best price first, and
// within a price, earliest resting order first.
func (ob *OrderBook) match(taker *domain.Order) []domain.Trade {
	var trades []domain.Trade
	opp := ob.opposite(taker.Side)

	for !taker.IsFilled() {
		best := opp.Best()
		if best == nil {
			break
		}
		if taker.Type.HasPriceFilter() && !crosses(taker.Side, taker.Price, best.Price) {
			break
		}

		maker := best.Front()
		if maker == nil {
			opp.DropIfEmpty(best)
			break
		}

		qty := decimal.Min(taker.Remaining, maker.Remaining)

		taker.Fill(qty)
		maker.Fill(qty)
		best.AdjustVolume(qty.Neg())

		// TradeID and Timestamp are left zero-valued here; the engine
		// assigns both immediately after Submit returns, in execution
		// order, so trade timestamps stay monotonically increasing
		// without the book needing access to the engine's generators.
		trade := domain.NewTrade(
			"", ob.Symbol, best.Price, qty,
			maker.ID, taker.ID, taker.Side, 0,
		)
		trades = append(trades, trade)

		if maker.IsFilled() {
			best.Remove(maker)
			delete(ob.byID, maker.ID)
			opp.DropIfEmpty(best)
		}
	}

	return trades
}

// rest inserts taker at the back of its limit price level, creating the
// level if needed, and records the by_id handle.
func (ob *OrderBook) rest(o *domain.Order) {
	side := ob.sideTree(o.Side)
	lvl := side.GetOrCreate(o.Price)
	lvl.Append(o)
	ob.byID[o.ID] = o
}

// checkNotCrossed enforces that the best bid never reaches or exceeds the
// best ask once a mutation returns. A violation here means a bug in match,
// not a runtime condition, and is fatal: it halts the engine rather than
// let a corrupted book keep matching.
func (ob *OrderBook) checkNotCrossed() {
	bid := ob.bids.Best()
	ask := ob.asks.Best()
	if bid == nil || ask == nil {
		return
	}
	if bid.Price.GreaterThanOrEqual(ask.Price) {
		panic(&InvariantViolation{Symbol: ob.Symbol, Reason: fmt.Sprintf(
			"crossed book: bid %s >= ask %s", bid.Price, ask.Price)})
	}
}
