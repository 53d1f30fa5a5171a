package types

// BookSideIterItem is one entry yielded while walking a BookSide in
// priority order.
type BookSideIterItem struct {
	Handle    NodeHandle
	Node      *LeafNode
	PriceLots int64
}

// BookSideIter walks every leaf of a BookSide in matching-priority order
// (best first): ascending key order for asks, descending for bids. The
// full order is computed once at construction time by a recursive
// in-order collection of leaf handles, rather than by an O(1)-step cursor.
type BookSideIter struct {
	nodes     *OrderTreeNodes
	handles   []NodeHandle
	pos       int
	validOnly bool
	nowTs     uint64
}

func newBookSideIter(side *BookSide, validOnly bool, nowTs uint64) *BookSideIter {
	firstIdx, secondIdx := 0, 1
	if side.Side == SideBid {
		firstIdx, secondIdx = 1, 0
	}
	var handles []NodeHandle
	side.nodes.collectOrdered(side.root.MaybeNode, firstIdx, secondIdx, &handles)
	return &BookSideIter{nodes: side.nodes, handles: handles, validOnly: validOnly, nowTs: nowTs}
}

// Next advances the iterator and returns the next item, or (nil, false)
// once exhausted. With validOnly set, expired leaves are skipped.
func (it *BookSideIter) Next() (*BookSideIterItem, bool) {
	for it.pos < len(it.handles) {
		h := it.handles[it.pos]
		it.pos++
		leaf := it.nodes.leaf(h)
		if it.validOnly && leaf.IsExpired(it.nowTs) {
			continue
		}
		return &BookSideIterItem{Handle: h, Node: leaf, PriceLots: leaf.PriceLots()}, true
	}
	return nil, false
}
