package book

import (
	"github.com/shopspring/decimal"

	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
)

// priceTree is a price-ordered map of decimal price -> *PriceLevel, backed
// by a github.com/emirpasic/gods/v2/trees/redblacktree keyed on the
// normalized decimal string with an explicit comparator. The best price is
// cached separately so Best stays O(1) without a tree descent.
type priceTree struct {
	levels     *rbt.Tree[string, *PriceLevel]
	best       *PriceLevel
	descending bool // true for bids (best = highest price), false for asks
}

// decimal.Decimal is not itself ordered by Go's comparison operators and its
// Cmp result depends on scale-independent value comparison, so the tree is
// keyed by the normalized string form and levels carry the real
// decimal.Decimal price; the comparator orders those strings via Cmp on the
// parsed value, never via string sort, so "9" and "10" still compare
// correctly.
func newPriceTree(descending bool) *priceTree {
	cmp := func(a, b string) int {
		da, _ := decimal.NewFromString(a)
		db, _ := decimal.NewFromString(b)
		c := da.Cmp(db)
		if descending {
			return -c
		}
		return c
	}
	return &priceTree{
		levels:     rbt.NewWith[string, *PriceLevel](cmp),
		descending: descending,
	}
}

func key(price decimal.Decimal) string {
	return price.String()
}

// GetOrCreate returns the level at price, creating and inserting an empty
// one if absent.
func (t *priceTree) GetOrCreate(price decimal.Decimal) *PriceLevel {
	k := key(price)
	if lvl, found := t.levels.Get(k); found {
		return lvl
	}
	lvl := NewPriceLevel(price)
	t.levels.Put(k, lvl)
	t.refreshBest()
	return lvl
}

// Get returns the level at price without creating it.
func (t *priceTree) Get(price decimal.Decimal) (*PriceLevel, bool) {
	return t.levels.Get(key(price))
}

// DropIfEmpty removes the level at price from the tree if it has no
// resting orders left, keeping the best-price cache coherent.
func (t *priceTree) DropIfEmpty(lvl *PriceLevel) {
	if !lvl.Empty() {
		return
	}
	t.levels.Remove(key(lvl.Price))
	t.refreshBest()
}

// Best returns the best (highest bid / lowest ask) level, or nil if empty.
func (t *priceTree) Best() *PriceLevel {
	return t.best
}

// Empty reports whether the side holds no price levels.
func (t *priceTree) Empty() bool {
	return t.levels.Empty()
}

// Depth returns up to n levels starting at the best price, best-first.
func (t *priceTree) Depth(n int) []*PriceLevel {
	if n <= 0 || t.levels.Empty() {
		return nil
	}
	out := make([]*PriceLevel, 0, n)
	it := t.levels.Iterator()
	for it.Next() && len(out) < n {
		out = append(out, it.Value())
	}
	return out
}

// All returns every level, best-first, with no depth cap. Used by the
// fill-or-kill pre-check, which must see the whole opposite side to decide
// fillability before committing to any fill.
func (t *priceTree) All() []*PriceLevel {
	if t.levels.Empty() {
		return nil
	}
	out := make([]*PriceLevel, 0, t.levels.Size())
	it := t.levels.Iterator()
	for it.Next() {
		out = append(out, it.Value())
	}
	return out
}

// refreshBest recomputes the cached best-price pointer from the tree's
// natural (comparator) order, which already places the best price first.
func (t *priceTree) refreshBest() {
	if t.levels.Empty() {
		t.best = nil
		return
	}
	it := t.levels.Iterator()
	it.Next()
	t.best = it.Value()
}
