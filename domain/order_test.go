package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderFillPartialThenFull(t *testing.T) {
	o := NewOrder("o1", "BTCUSDT", SideBuy, OrderTypeLimit, decimal.NewFromInt(100), decimal.NewFromInt(10))

	o.Fill(decimal.NewFromInt(4))
	if o.Status != StatusPartiallyFilled {
		t.Fatalf("expected partially_filled, got %s", o.Status)
	}
	if !o.Remaining.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("expected remaining 6, got %s", o.Remaining)
	}
	if o.IsFilled() {
		t.Fatal("order should not be filled yet")
	}

	o.Fill(decimal.NewFromInt(6))
	if o.Status != StatusFilled {
		t.Fatalf("expected filled, got %s", o.Status)
	}
	if !o.IsFilled() {
		t.Fatal("expected IsFilled true")
	}
}

func TestOrderRejectSetsReason(t *testing.T) {
	o := NewOrder("o1", "BTCUSDT", SideBuy, OrderTypeLimit, decimal.NewFromInt(100), decimal.NewFromInt(10))
	o.Reject(ReasonNonPositiveQty)

	if o.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", o.Status)
	}
	if o.RejectReason != ReasonNonPositiveQty {
		t.Fatalf("expected reason %s, got %s", ReasonNonPositiveQty, o.RejectReason)
	}
	if !o.Status.Terminal() {
		t.Fatal("rejected should be terminal")
	}
}

func TestOrderHandleRoundTrip(t *testing.T) {
	o := NewOrder("o1", "BTCUSDT", SideBuy, OrderTypeLimit, decimal.NewFromInt(100), decimal.NewFromInt(10))
	if o.Resting() {
		t.Fatal("fresh order should not be resting")
	}
	// SetHandle/Handle are exercised end-to-end through book.PriceLevel; here
	// we just confirm the nil-handle contract a book relies on.
	o.SetHandle(nil)
	if o.Resting() {
		t.Fatal("order with nil handle should not be resting")
	}
}

func TestOrderTypeProperties(t *testing.T) {
	cases := []struct {
		typ        OrderType
		rests      bool
		priceFilter bool
	}{
		{OrderTypeMarket, false, false},
		{OrderTypeLimit, true, true},
		{OrderTypeIOC, false, true},
		{OrderTypeFOK, false, true},
	}
	for _, c := range cases {
		if got := c.typ.RestsOnBook(); got != c.rests {
			t.Errorf("%s: RestsOnBook() = %v, want %v", c.typ, got, c.rests)
		}
		if got := c.typ.HasPriceFilter(); got != c.priceFilter {
			t.Errorf("%s: HasPriceFilter() = %v, want %v", c.typ, got, c.priceFilter)
		}
	}
}
