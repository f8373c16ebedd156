package book

import (
	"testing"

	"clobcore/domain"
)

func TestPriceLevelFIFOOrder(t *testing.T) {
	lvl := NewPriceLevel(price("100"))
	o1 := limitOrder("o1", domain.SideSell, "100", "1")
	o2 := limitOrder("o2", domain.SideSell, "100", "2")
	lvl.Append(o1)
	lvl.Append(o2)

	if got := lvl.Front(); got != o1 {
		t.Fatalf("expected o1 at front, got %v", got)
	}
	if !lvl.TotalQuantity().Equal(price("3")) {
		t.Fatalf("expected total quantity 3, got %s", lvl.TotalQuantity())
	}

	lvl.Remove(o1)
	if got := lvl.Front(); got != o2 {
		t.Fatalf("expected o2 at front after removing o1, got %v", got)
	}
	if o1.Resting() {
		t.Fatal("expected o1's handle cleared after removal")
	}
}

func TestPriceLevelEmptyAndLen(t *testing.T) {
	lvl := NewPriceLevel(price("100"))
	if !lvl.Empty() {
		t.Fatal("expected new level to be empty")
	}

	o1 := limitOrder("o1", domain.SideSell, "100", "1")
	lvl.Append(o1)
	if lvl.Empty() {
		t.Fatal("expected level with an order to be non-empty")
	}
	if lvl.Len() != 1 {
		t.Fatalf("expected len 1, got %d", lvl.Len())
	}

	lvl.Remove(o1)
	if !lvl.Empty() {
		t.Fatal("expected level to be empty after removing its only order")
	}
}

func TestPriceLevelAdjustVolume(t *testing.T) {
	lvl := NewPriceLevel(price("100"))
	o1 := limitOrder("o1", domain.SideSell, "100", "5")
	lvl.Append(o1)

	lvl.AdjustVolume(price("-2"))
	if !lvl.TotalQuantity().Equal(price("3")) {
		t.Fatalf("expected volume 3 after adjustment, got %s", lvl.TotalQuantity())
	}
}
