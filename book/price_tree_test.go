package book

import "testing"

func TestPriceTreeBidsDescending(t *testing.T) {
	tree := newPriceTree(true)
	tree.GetOrCreate(price("100"))
	tree.GetOrCreate(price("102"))
	tree.GetOrCreate(price("101"))

	best := tree.Best()
	if best == nil || !best.Price.Equal(price("102")) {
		t.Fatalf("expected best bid 102, got %v", best)
	}

	levels := tree.Depth(10)
	want := []string{"102", "101", "100"}
	if len(levels) != len(want) {
		t.Fatalf("expected %d levels, got %d", len(want), len(levels))
	}
	for i, w := range want {
		if !levels[i].Price.Equal(price(w)) {
			t.Errorf("level %d: expected %s, got %s", i, w, levels[i].Price)
		}
	}
}

func TestPriceTreeAsksAscending(t *testing.T) {
	tree := newPriceTree(false)
	tree.GetOrCreate(price("100"))
	tree.GetOrCreate(price("102"))
	tree.GetOrCreate(price("101"))

	best := tree.Best()
	if best == nil || !best.Price.Equal(price("100")) {
		t.Fatalf("expected best ask 100, got %v", best)
	}

	levels := tree.Depth(10)
	want := []string{"100", "101", "102"}
	for i, w := range want {
		if !levels[i].Price.Equal(price(w)) {
			t.Errorf("level %d: expected %s, got %s", i, w, levels[i].Price)
		}
	}
}

func TestPriceTreeDropIfEmptyUpdatesBest(t *testing.T) {
	tree := newPriceTree(false)
	lvl100 := tree.GetOrCreate(price("100"))
	tree.GetOrCreate(price("101"))

	tree.DropIfEmpty(lvl100)
	if best := tree.Best(); best == nil || !best.Price.Equal(price("101")) {
		t.Fatalf("expected best to shift to 101, got %v", best)
	}
}

func TestPriceTreeDepthCapsResultsAllDoesNot(t *testing.T) {
	tree := newPriceTree(false)
	for _, p := range []string{"100", "101", "102", "103"} {
		tree.GetOrCreate(price(p))
	}

	if got := tree.Depth(2); len(got) != 2 {
		t.Fatalf("expected Depth(2) to cap at 2, got %d", len(got))
	}
	if got := tree.Depth(0); got != nil {
		t.Fatalf("expected Depth(0) to return nil, got %v", got)
	}
	if got := tree.All(); len(got) != 4 {
		t.Fatalf("expected All() to return every level, got %d", len(got))
	}
}

func TestPriceTreeEmpty(t *testing.T) {
	tree := newPriceTree(true)
	if !tree.Empty() {
		t.Fatal("expected fresh tree to be empty")
	}
	if tree.Best() != nil {
		t.Fatal("expected Best() nil on empty tree")
	}
}
