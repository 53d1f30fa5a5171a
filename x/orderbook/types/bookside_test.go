package types

import "testing"

func newRestingLeaf(side Side, priceLots int64, seq uint64, qty int64) *LeafNode {
	priceData, _ := FixedPriceData(priceLots)
	return &LeafNode{
		Key:      NewNodeKey(side, priceData, seq),
		Quantity: qty,
	}
}

func TestBookSideIterOrderAsks(t *testing.T) {
	b := NewBookSide(SideAsk, 16)
	for i, p := range []int64{105, 101, 103, 102, 104} {
		b.InsertLeaf(newRestingLeaf(SideAsk, p, uint64(i), 1))
	}

	var got []int64
	it := b.IterValid(0)
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, item.PriceLots)
	}
	want := []int64{101, 102, 103, 104, 105}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestBookSideIterOrderBids(t *testing.T) {
	b := NewBookSide(SideBid, 16)
	for i, p := range []int64{95, 99, 97, 98, 96} {
		b.InsertLeaf(newRestingLeaf(SideBid, p, uint64(i), 1))
	}

	var got []int64
	it := b.IterValid(0)
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, item.PriceLots)
	}
	want := []int64{99, 98, 97, 96, 95}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestBookSideTimePriorityAtSamePrice(t *testing.T) {
	b := NewBookSide(SideAsk, 16)
	// Insert out of arrival order; iteration must still yield seq 1 first.
	third := newRestingLeaf(SideAsk, 100, 3, 1)
	first := newRestingLeaf(SideAsk, 100, 1, 1)
	second := newRestingLeaf(SideAsk, 100, 2, 1)
	b.InsertLeaf(third)
	b.InsertLeaf(first)
	b.InsertLeaf(second)

	it := b.IterValid(0)
	var seqOrder []uint64
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		seqOrder = append(seqOrder, item.Node.Key.Lo)
	}
	if len(seqOrder) != 3 || seqOrder[0] != 1 || seqOrder[1] != 2 || seqOrder[2] != 3 {
		t.Errorf("time priority order wrong: got seq order %v, want [1 2 3]", seqOrder)
	}
}

func TestBookSideBestPrice(t *testing.T) {
	b := NewBookSide(SideBid, 16)
	if _, ok := b.BestPrice(0); ok {
		t.Fatal("empty book side should have no best price")
	}
	b.InsertLeaf(newRestingLeaf(SideBid, 100, 1, 5))
	b.InsertLeaf(newRestingLeaf(SideBid, 105, 2, 5))
	got, ok := b.BestPrice(0)
	if !ok || got != 105 {
		t.Errorf("BestPrice = %d, %v; want 105, true", got, ok)
	}
}

func TestBookSideQuantityAtPrice(t *testing.T) {
	b := NewBookSide(SideAsk, 16)
	b.InsertLeaf(newRestingLeaf(SideAsk, 100, 1, 10))
	b.InsertLeaf(newRestingLeaf(SideAsk, 101, 2, 5))
	b.InsertLeaf(newRestingLeaf(SideAsk, 102, 3, 7))

	if got := b.QuantityAtPrice(101, 0); got != 15 {
		t.Errorf("QuantityAtPrice(101) = %d, want 15 (10 @ 100 + 5 @ 101)", got)
	}
	if got := b.QuantityAtPrice(99, 0); got != 0 {
		t.Errorf("QuantityAtPrice(99) = %d, want 0 (nothing acceptable)", got)
	}
	if got := b.QuantityAtPrice(1000, 0); got != 22 {
		t.Errorf("QuantityAtPrice(1000) = %d, want 22 (all levels)", got)
	}
}

func TestBookSideImpactPrice(t *testing.T) {
	b := NewBookSide(SideAsk, 16)
	b.InsertLeaf(newRestingLeaf(SideAsk, 100, 1, 10))
	b.InsertLeaf(newRestingLeaf(SideAsk, 101, 2, 5))

	if p, ok := b.ImpactPrice(3, 0); !ok || p != 100 {
		t.Errorf("ImpactPrice(3) = %d, %v; want 100, true", p, ok)
	}
	if p, ok := b.ImpactPrice(12, 0); !ok || p != 101 {
		t.Errorf("ImpactPrice(12) = %d, %v; want 101, true", p, ok)
	}
	if _, ok := b.ImpactPrice(100, 0); ok {
		t.Error("ImpactPrice should fail when depth is insufficient")
	}
}

func TestBookSideMatchedAmount(t *testing.T) {
	b := NewBookSide(SideAsk, 16)
	b.InsertLeaf(newRestingLeaf(SideAsk, 100, 1, 10))
	b.InsertLeaf(newRestingLeaf(SideAsk, 101, 2, 5))

	got, ok := b.MatchedAmount(12, 0)
	if !ok {
		t.Fatal("MatchedAmount should succeed within depth")
	}
	want := int64(10*100 + 2*101)
	if got != want {
		t.Errorf("MatchedAmount(12) = %d, want %d", got, want)
	}

	if _, ok := b.MatchedAmount(100, 0); ok {
		t.Error("MatchedAmount should fail when depth is insufficient")
	}
}

func TestBookSideMatchedQuantityRoundsUp(t *testing.T) {
	b := NewBookSide(SideAsk, 16)
	b.InsertLeaf(newRestingLeaf(SideAsk, 3, 1, 100))

	// 10 quote lots at price 3 needs ceil(10/3) = 4 base lots, not 3.
	got, ok := b.MatchedQuantity(10, 0)
	if !ok {
		t.Fatal("MatchedQuantity should succeed within depth")
	}
	if got != 4 {
		t.Errorf("MatchedQuantity(10) = %d, want 4 (rounded up)", got)
	}
}

func TestBookSideMatchedQuantityExactDivision(t *testing.T) {
	b := NewBookSide(SideAsk, 16)
	b.InsertLeaf(newRestingLeaf(SideAsk, 5, 1, 100))

	got, ok := b.MatchedQuantity(25, 0)
	if !ok || got != 5 {
		t.Errorf("MatchedQuantity(25) = %d, %v; want 5, true (exact division)", got, ok)
	}
}

func TestBookSideRemoveWorstBid(t *testing.T) {
	b := NewBookSide(SideBid, 16)
	b.InsertLeaf(newRestingLeaf(SideBid, 100, 1, 1))
	b.InsertLeaf(newRestingLeaf(SideBid, 105, 2, 1))
	b.InsertLeaf(newRestingLeaf(SideBid, 95, 3, 1))

	removed, price, ok := b.RemoveWorst()
	if !ok || removed == nil || price != 95 {
		t.Fatalf("RemoveWorst on bids should evict the lowest price, got price=%d ok=%v", price, ok)
	}
	if b.LeafCount() != 2 {
		t.Errorf("LeafCount = %d, want 2 after eviction", b.LeafCount())
	}
}

func TestBookSideRemoveWorstAsk(t *testing.T) {
	b := NewBookSide(SideAsk, 16)
	b.InsertLeaf(newRestingLeaf(SideAsk, 100, 1, 1))
	b.InsertLeaf(newRestingLeaf(SideAsk, 105, 2, 1))
	b.InsertLeaf(newRestingLeaf(SideAsk, 95, 3, 1))

	removed, price, ok := b.RemoveWorst()
	if !ok || removed == nil || price != 105 {
		t.Fatalf("RemoveWorst on asks should evict the highest price, got price=%d ok=%v", price, ok)
	}
}

func TestBookSideRemoveWorstEmpty(t *testing.T) {
	b := NewBookSide(SideBid, 16)
	if _, _, ok := b.RemoveWorst(); ok {
		t.Error("RemoveWorst on an empty book side should report false")
	}
}

func TestBookSideIterValidSkipsExpired(t *testing.T) {
	b := NewBookSide(SideAsk, 16)
	live := newRestingLeaf(SideAsk, 100, 1, 1)
	live.Timestamp, live.TimeInForce = 1000, 0
	expired := newRestingLeaf(SideAsk, 101, 2, 1)
	expired.Timestamp, expired.TimeInForce = 1000, 5
	b.InsertLeaf(live)
	b.InsertLeaf(expired)

	count := 0
	it := b.IterValid(2000)
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		if item.PriceLots != 100 {
			t.Errorf("IterValid should skip the expired leaf, saw price %d", item.PriceLots)
		}
		count++
	}
	if count != 1 {
		t.Errorf("IterValid yielded %d items, want 1", count)
	}

	count = 0
	it = b.IterAllIncludingInvalid()
	for {
		_, ok := it.Next()
		if !ok {
			break
		}
		count++
	}
	if count != 2 {
		t.Errorf("IterAllIncludingInvalid yielded %d items, want 2", count)
	}
}
