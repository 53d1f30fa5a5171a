package types

import (
	"cosmossdk.io/errors"
)

// Module error codes. The matching engine, order tree and event queue never
// panic on caller input or on capacity exhaustion; every such condition is
// one of the codes below.
var (
	ErrInvalidPrice    = errors.Register("orderbook", 1, "invalid price")
	ErrInvalidQuantity = errors.Register("orderbook", 2, "invalid quantity")
	ErrInvalidExpiry   = errors.Register("orderbook", 3, "time in force out of range")

	ErrWouldSelfTrade  = errors.Register("orderbook", 10, "order would self-trade")
	ErrOutOfSpace      = errors.Register("orderbook", 11, "book side is full and the new order is not priced better than the worst resting order")
	ErrTreeOutOfSpace  = errors.Register("orderbook", 12, "order tree node arena is full")
	ErrOrderIDNotFound = errors.Register("orderbook", 13, "no resting order with this id")
	ErrUnauthorized    = errors.Register("orderbook", 14, "caller does not own this order")

	ErrEventQueueFull      = errors.Register("orderbook", 20, "event queue is full")
	ErrEventQueueEmpty     = errors.Register("orderbook", 21, "event queue is empty")
	ErrRevertPastQueueHead = errors.Register("orderbook", 22, "cannot revert the event queue past its current length")
	ErrWrongEventType      = errors.Register("orderbook", 23, "event record does not hold the requested event type")
	ErrInvalidEncoding     = errors.Register("orderbook", 24, "malformed binary node or event encoding")
)
