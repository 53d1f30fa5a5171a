package types

// BookSide is a critical-bit tree wrapper carrying a fixed side identity.
// Every priority comparison and iteration order on the tree dispatches on
// this side.
type BookSide struct {
	Side  Side
	root  OrderTreeRoot
	nodes *OrderTreeNodes
}

// NewBookSide allocates an empty book side whose arena holds capacity tree
// nodes; n resting orders occupy 2n-1 of them (n leaves, n-1 inner nodes).
func NewBookSide(side Side, capacity uint32) *BookSide {
	return &BookSide{Side: side, nodes: NewOrderTreeNodes(capacity)}
}

// LeafCount is the number of resting orders currently on this side.
func (b *BookSide) LeafCount() uint32 {
	return b.root.LeafCount
}

// IsFull reports whether the underlying arena has no room left.
func (b *BookSide) IsFull() bool {
	return b.nodes.IsFull()
}

// InsertLeaf inserts a resting leaf, returning its handle.
func (b *BookSide) InsertLeaf(leaf *LeafNode) (NodeHandle, *LeafNode, error) {
	return b.nodes.InsertLeaf(&b.root, leaf)
}

// RemoveByKey removes and returns the leaf with the given key.
func (b *BookSide) RemoveByKey(key Key128) *LeafNode {
	return b.nodes.RemoveByKey(&b.root, key)
}

// FindByKey looks up a resting leaf by key without removing it.
func (b *BookSide) FindByKey(key Key128) (NodeHandle, *LeafNode) {
	return b.nodes.FindByKey(&b.root, key)
}

// RemoveOneExpired removes and returns one expired leaf, or nil if none
// has expired as of nowTs.
func (b *BookSide) RemoveOneExpired(nowTs uint64) *LeafNode {
	return b.nodes.RemoveOneExpired(&b.root, nowTs)
}

// Leaf looks up a resting order by handle.
func (b *BookSide) Leaf(h NodeHandle) *LeafNode {
	return b.nodes.Leaf(h)
}

// IterValid walks resting orders in priority order, skipping expired ones.
func (b *BookSide) IterValid(nowTs uint64) *BookSideIter {
	return newBookSideIter(b, true, nowTs)
}

// IterAllIncludingInvalid walks every resting order in priority order,
// interleaving expired leaves where they fall instead of filtering them.
func (b *BookSide) IterAllIncludingInvalid() *BookSideIter {
	return newBookSideIter(b, false, 0)
}

// findWorst returns the handle and leaf with the lowest matching priority
// on this side: the minimum key for bids, the maximum for asks (bids rank
// by descending key, so their worst order sits at the smallest key).
func (b *BookSide) findWorst() (NodeHandle, *LeafNode) {
	if b.Side == SideBid {
		return b.nodes.minLeaf(&b.root)
	}
	return b.nodes.maxLeaf(&b.root)
}

// RemoveWorst removes this side's lowest-priority resting order.
func (b *BookSide) RemoveWorst() (*LeafNode, int64, bool) {
	h, leaf := b.findWorst()
	if h == 0 {
		return nil, 0, false
	}
	key := leaf.Key
	priceLots := leaf.PriceLots()
	removed := b.nodes.RemoveByKey(&b.root, key)
	return removed, priceLots, true
}

// isAtOrBetterThan reports whether price is at least as good as limit for
// this side: higher-or-equal for bids, lower-or-equal for asks.
func isAtOrBetterThan(side Side, price, limit int64) bool {
	if side == SideBid {
		return price >= limit
	}
	return price <= limit
}

// QuantityAtPrice sums the quantity of resting, non-expired orders priced
// at or better than limit.
func (b *BookSide) QuantityAtPrice(limit int64, nowTs uint64) int64 {
	var total int64
	it := b.IterValid(nowTs)
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		if !isAtOrBetterThan(b.Side, item.PriceLots, limit) {
			break
		}
		total += item.Node.Quantity
	}
	return total
}

// BestPrice returns the best resting, non-expired price on this side.
func (b *BookSide) BestPrice(nowTs uint64) (int64, bool) {
	item, ok := b.IterValid(nowTs).Next()
	if !ok {
		return 0, false
	}
	return item.PriceLots, true
}

// ImpactPrice returns the price of the level at which cumulative resting
// quantity first reaches q, or false if total depth is less than q.
func (b *BookSide) ImpactPrice(q int64, nowTs uint64) (int64, bool) {
	remaining := q
	it := b.IterValid(nowTs)
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		remaining -= item.Node.Quantity
		if remaining <= 0 {
			return item.PriceLots, true
		}
	}
	return 0, false
}

// MatchedAmount returns the quote lots paid or received if q base lots
// were taken from the top of this side, accounting exactly for a partial
// fill of the last level crossed. Returns false if total depth < q.
func (b *BookSide) MatchedAmount(q int64, nowTs uint64) (int64, bool) {
	remainingBase := q
	var totalQuote int64
	it := b.IterValid(nowTs)
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		take := item.Node.Quantity
		if take > remainingBase {
			take = remainingBase
		}
		totalQuote += take * item.PriceLots
		remainingBase -= take
		if remainingBase == 0 {
			return totalQuote, true
		}
	}
	return 0, false
}

// MatchedQuantity returns the base lots needed to consume at least amt
// quote lots, rounding up at the last level crossed. amt must be > 0;
// returns false if total depth is insufficient.
func (b *BookSide) MatchedQuantity(amt int64, nowTs uint64) (int64, bool) {
	if amt <= 0 {
		return 0, false
	}
	remainingAmt := amt
	var totalBase int64
	it := b.IterValid(nowTs)
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		levelQuote := item.Node.Quantity * item.PriceLots
		if levelQuote >= remainingAmt {
			need := (remainingAmt + item.PriceLots - 1) / item.PriceLots
			totalBase += need
			return totalBase, true
		}
		totalBase += item.Node.Quantity
		remainingAmt -= levelQuote
	}
	return 0, false
}
