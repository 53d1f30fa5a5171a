package types

import "math"

// PostOrderType controls whether a Fixed order is allowed to rest on the
// book after matching.
type PostOrderType uint8

const (
	// PostOrderTypeLimit takes what it can against the opposing side up to
	// its price/quantity limits, then posts whatever remains.
	PostOrderTypeLimit PostOrderType = iota
	// PostOrderTypePostOnly never takes; matching stops at the first
	// crossing maker and the order posts its full quantity.
	PostOrderTypePostOnly
)

// OrderKind selects which of the three order params variants an incoming
// order carries.
type OrderKind uint8

const (
	// OrderKindMarket ignores price and takes up to MaxBaseLots/
	// MaxQuoteLots; never posts. Equivalent to an ImmediateOrCancel with
	// price_lots = i64::MAX for a bid or 1 for an ask.
	OrderKindMarket OrderKind = iota
	// OrderKindImmediateOrCancel matches up to PriceLots; never posts.
	OrderKindImmediateOrCancel
	// OrderKindFixed may post its remainder as a resting order.
	OrderKindFixed
)

// SelfTradeBehavior controls what happens when an incoming order would
// match against a resting order owned by the same account.
type SelfTradeBehavior uint8

const (
	// SelfTradeDecrementTake matches normally: both sides are decremented
	// as if the resting order belonged to someone else. Default, matching
	// the zero value so a zeroed IncomingOrder never accidentally aborts.
	SelfTradeDecrementTake SelfTradeBehavior = iota
	// SelfTradeCancelProvide cancels the resting order and continues
	// matching the incoming order against the rest of the book.
	SelfTradeCancelProvide
	// SelfTradeAbortTransaction rolls back every fill produced so far by
	// this submission and rejects the whole order.
	SelfTradeAbortTransaction
)

// OrderParams is the Go rendering of the spec's tagged Params union:
// Market, ImmediateOrCancel{price_lots} and Fixed{price_lots, order_type}.
// Only the fields relevant to Kind are meaningful.
type OrderParams struct {
	Kind      OrderKind
	PriceLots int64
	OrderType PostOrderType
}

// NeverPosts reports whether this order kind can never leave a resting
// remainder on the book.
func (p OrderParams) NeverPosts() bool {
	return p.Kind != OrderKindFixed
}

// IsPostOnly reports whether this is a Fixed order flagged PostOnly.
func (p OrderParams) IsPostOnly() bool {
	return p.Kind == OrderKindFixed && p.OrderType == PostOrderTypePostOnly
}

// EffectivePriceLots returns the price limit this order enforces while
// matching: the caller-supplied PriceLots for IOC/Fixed, or the implicit
// bound (i64::MAX for a bid, 1 for an ask) for Market.
func (p OrderParams) EffectivePriceLots(side Side) int64 {
	if p.Kind == OrderKindMarket {
		if side == SideBid {
			return math.MaxInt64
		}
		return 1
	}
	return p.PriceLots
}

// IncomingOrder is the full request submitted to the matching engine.
type IncomingOrder struct {
	Side              Side
	MaxBaseLots       int64
	MaxQuoteLots      int64
	ClientOrderID     uint64
	TimeInForce       uint16
	ReduceOnly        bool
	SelfTradeBehavior SelfTradeBehavior
	Params            OrderParams
}

// Price returns the (price_lots, price_data) pair this order's params
// resolve to on the given side.
func (o *IncomingOrder) Price() (int64, uint64, error) {
	priceLots := o.Params.EffectivePriceLots(o.Side)
	priceData, err := FixedPriceData(priceLots)
	if err != nil {
		return 0, 0, err
	}
	return priceLots, priceData, nil
}
