package types

import "cosmossdk.io/math"

// MarketParams holds the lot-size configuration and order-id sequence
// counter for one market's pair of book sides.
type MarketParams struct {
	BaseLotSize  int64
	QuoteLotSize int64
	// SeqNum is the next sequence number gen_order_id will assign; it is
	// monotonically increasing for the lifetime of the market and is never
	// reused, guaranteeing distinct node keys.
	SeqNum uint64
}

// DefaultMarketParams returns lot sizes of 1 (no native-unit scaling), the
// configuration the matching engine scenarios in this codebase assume.
func DefaultMarketParams() MarketParams {
	return MarketParams{BaseLotSize: 1, QuoteLotSize: 1, SeqNum: 0}
}

// GenOrderID assigns the next sequence number and returns the full node
// key an order resting at priceData on the given side would use.
func (m *MarketParams) GenOrderID(side Side, priceData uint64) Key128 {
	seq := m.SeqNum
	m.SeqNum++
	return NewNodeKey(side, priceData, seq)
}

// NativeBaseQuantity converts a base-lot count into native base units,
// using overflow-safe arithmetic since lot counts and lot sizes are both
// caller-controlled and their product can exceed an int64.
func (m *MarketParams) NativeBaseQuantity(baseLots int64) math.Int {
	return math.NewInt(baseLots).MulRaw(m.BaseLotSize)
}

// NativeQuoteAmount converts a quote-lot count into native quote units.
func (m *MarketParams) NativeQuoteAmount(quoteLots int64) math.Int {
	return math.NewInt(quoteLots).MulRaw(m.QuoteLotSize)
}
