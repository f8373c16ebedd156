// Package book implements the per-symbol central limit order book: the
// FIFO price levels, the price-ordered side maps, and the price-time
// priority matching algorithm that runs against them.
package book

import (
	"container/list"

	"clobcore/domain"
	"github.com/shopspring/decimal"
)

// PriceLevel is a FIFO queue of resting orders sharing one price on one
// side. Order within a level is strictly time-ordered: arrival order is
// match order.
type PriceLevel struct {
	Price   decimal.Decimal
	orders  *list.List
	volume  decimal.Decimal // running sum of orders[i].Remaining
}

// NewPriceLevel creates an empty level at price.
func NewPriceLevel(price decimal.Decimal) *PriceLevel {
	return &PriceLevel{
		Price:  price,
		orders: list.New(),
		volume: decimal.Zero,
	}
}

// Append adds an order to the back of the queue in O(1) and records its
// handle for later O(1) removal.
func (pl *PriceLevel) Append(o *domain.Order) {
	e := pl.orders.PushBack(o)
	o.SetHandle(e)
	pl.volume = pl.volume.Add(o.Remaining)
}

// Front returns the maker candidate (earliest-timestamp order), or nil if
// the level is empty.
func (pl *PriceLevel) Front() *domain.Order {
	e := pl.orders.Front()
	if e == nil {
		return nil
	}
	return e.Value.(*domain.Order)
}

// Remove drops o from the queue using its stored handle, in O(1).
func (pl *PriceLevel) Remove(o *domain.Order) {
	if h := o.Handle(); h != nil {
		pl.orders.Remove(h)
		o.SetHandle(nil)
	}
}

// AdjustVolume applies a delta (negative on fill/removal) to the level's
// cached running sum, keeping TotalQuantity an O(1) read.
func (pl *PriceLevel) AdjustVolume(delta decimal.Decimal) {
	pl.volume = pl.volume.Add(delta)
}

// TotalQuantity returns the sum of Remaining across every queued order.
func (pl *PriceLevel) TotalQuantity() decimal.Decimal {
	return pl.volume
}

// Empty reports whether no orders remain at this level.
func (pl *PriceLevel) Empty() bool {
	return pl.orders.Len() == 0
}

// Len returns the number of resting orders at this level.
func (pl *PriceLevel) Len() int {
	return pl.orders.Len()
}
