package domain

import (
	"container/list"

	"github.com/shopspring/decimal"
)

// Order is a client intent plus the mutable residual state the engine
// manages while it rests in a book.
//
// Price is ignored for market orders (not checked by validation, never used
// as a comparison key by the matching loop); it is whatever the submitter
// supplied, usually the decimal.Decimal zero value.
type Order struct {
	ID        string
	Symbol    string
	Side      Side
	Type      OrderType
	Price     decimal.Decimal
	Quantity  decimal.Decimal
	Remaining decimal.Decimal
	Status    OrderStatus

	// RejectReason is populated only when Status == StatusRejected.
	RejectReason string

	// Timestamp is the engine-assigned monotonic acceptance sequence, not
	// wall-clock time: wall-clock can go backwards or collide under
	// concurrent submission, and a plain counter can't.
	Timestamp int64

	// handle is the non-owning reference into the PriceLevel FIFO queue the
	// order currently rests in. nil when the order is not resting.
	handle *list.Element
}

// NewOrder builds an order in its initial StatusNew state, with Remaining
// starting equal to Quantity.
func NewOrder(id, symbol string, side Side, typ OrderType, price, quantity decimal.Decimal) *Order {
	return &Order{
		ID:        id,
		Symbol:    symbol,
		Side:      side,
		Type:      typ,
		Price:     price,
		Quantity:  quantity,
		Remaining: quantity,
		Status:    StatusNew,
	}
}

// IsFilled reports whether the order has no quantity left to trade.
func (o *Order) IsFilled() bool {
	return o.Remaining.IsZero()
}

// Fill decrements Remaining by qty and advances Status accordingly. qty must
// never exceed Remaining; callers (the matching loop) guarantee this.
func (o *Order) Fill(qty decimal.Decimal) {
	o.Remaining = o.Remaining.Sub(qty)
	if o.Remaining.IsZero() {
		o.Status = StatusFilled
	} else {
		o.Status = StatusPartiallyFilled
	}
}

// Reject marks the order terminally rejected with a reason. No book
// mutation ever precedes this call.
func (o *Order) Reject(reason string) {
	o.Status = StatusRejected
	o.RejectReason = reason
}

// Cancel marks a resting order cancelled. Callers must have already removed
// it from its PriceLevel and by_id index.
func (o *Order) Cancel() {
	o.Status = StatusCancelled
}

// Resting reports whether the order currently occupies a PriceLevel slot.
func (o *Order) Resting() bool {
	return o.handle != nil
}

// Handle returns the order's list.Element within its PriceLevel, or nil.
func (o *Order) Handle() *list.Element {
	return o.handle
}

// SetHandle records (or clears, with nil) the order's position in its
// PriceLevel queue. Only PriceLevel calls this.
func (o *Order) SetHandle(e *list.Element) {
	o.handle = e
}
