package orderbook

import "testing"

func TestBidTreeOrdering(t *testing.T) {
	tree := NewBidTree()
	tree.Insert(Order{ID: "3", Side: Bid, Price: 90, Qty: 1})
	tree.Insert(Order{ID: "1", Side: Bid, Price: 110, Qty: 1})
	tree.Insert(Order{ID: "2", Side: Bid, Price: 100, Qty: 1})

	best, ok := tree.Min()
	if !ok || best.Price != 110 {
		t.Errorf("expected best bid 110, got %v", best)
	}

	var prices []int64
	tree.Ascend(func(o Order) bool {
		prices = append(prices, o.Price)
		return true
	})
	want := []int64{110, 100, 90}
	for i := range want {
		if prices[i] != want[i] {
			t.Fatalf("ascend order %v, want %v", prices, want)
		}
	}
}

func TestAskTreeOrdering(t *testing.T) {
	tree := NewAskTree()
	tree.Insert(Order{ID: "1", Side: Ask, Price: 110, Qty: 1})
	tree.Insert(Order{ID: "2", Side: Ask, Price: 90, Qty: 1})
	tree.Insert(Order{ID: "3", Side: Ask, Price: 100, Qty: 1})

	best, ok := tree.Min()
	if !ok || best.Price != 90 {
		t.Errorf("expected best ask 90, got %v", best)
	}
}

func TestTieBreakByID(t *testing.T) {
	tree := NewBidTree()
	tree.Insert(Order{ID: "B", Side: Bid, Price: 100, Qty: 1})
	tree.Insert(Order{ID: "A", Side: Bid, Price: 100, Qty: 1})
	tree.Insert(Order{ID: "C", Side: Bid, Price: 100, Qty: 1})

	first, _ := tree.PopMin()
	second, _ := tree.PopMin()
	third, _ := tree.PopMin()
	if first.ID != "A" || second.ID != "B" || third.ID != "C" {
		t.Errorf("tie-break order %s,%s,%s, want A,B,C", first.ID, second.ID, third.ID)
	}
}

func TestPopMinDrainsInOrder(t *testing.T) {
	tree := NewAskTree()
	for _, p := range []int64{104, 101, 105, 102, 103} {
		tree.Insert(Order{ID: "x", Side: Ask, Price: p, Qty: 1})
	}
	if tree.Size() != 5 {
		t.Fatalf("size = %d, want 5", tree.Size())
	}
	last := int64(0)
	for {
		o, ok := tree.PopMin()
		if !ok {
			break
		}
		if o.Price < last {
			t.Fatalf("PopMin out of order: %d after %d", o.Price, last)
		}
		last = o.Price
	}
	if tree.Size() != 0 {
		t.Errorf("size = %d after drain, want 0", tree.Size())
	}
}

// --- Edge Cases ---

func TestEmptyTreeMinPop(t *testing.T) {
	tree := NewBidTree()
	if _, ok := tree.Min(); ok {
		t.Error("expected no min on empty tree")
	}
	if _, ok := tree.PopMin(); ok {
		t.Error("expected no pop on empty tree")
	}
}

func TestAscendEarlyStop(t *testing.T) {
	tree := NewAskTree()
	tree.Insert(Order{ID: "1", Side: Ask, Price: 1, Qty: 1})
	tree.Insert(Order{ID: "2", Side: Ask, Price: 2, Qty: 1})
	visits := 0
	tree.Ascend(func(Order) bool {
		visits++
		return false
	})
	if visits != 1 {
		t.Errorf("ascend visited %d nodes after stop, want 1", visits)
	}
}

func TestReinsertKeepsRank(t *testing.T) {
	tree := NewBidTree()
	tree.Insert(Order{ID: "A", Side: Bid, Price: 100, Qty: 10})
	tree.Insert(Order{ID: "B", Side: Bid, Price: 100, Qty: 10})

	o, _ := tree.PopMin()
	tree.Insert(o.Fill(4)) // partial fill, same price and ID

	first, _ := tree.Min()
	if first.ID != "A" || first.Qty != 6 {
		t.Errorf("reinserted order lost rank: %v", first)
	}
}
