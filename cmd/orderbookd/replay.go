package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/openalpha/perp-dex/x/orderbook/types"
)

// replayOrder is the JSON shape of one entry in a replay file's array: a plain
// rendering of IncomingOrder with string enums instead of the internal
// iota values, so a replay file stays readable by hand.
type replayOrder struct {
	Side              string `json:"side"`
	Owner             string `json:"owner"`
	MaxBaseLots       int64  `json:"max_base_lots"`
	MaxQuoteLots      int64  `json:"max_quote_lots"`
	ClientOrderID     uint64 `json:"client_order_id"`
	TimeInForce       uint16 `json:"time_in_force"`
	SelfTradeBehavior string `json:"self_trade_behavior"`
	Kind              string `json:"kind"`
	PriceLots         int64  `json:"price_lots"`
	OrderType         string `json:"order_type"`
}

func loadReplayFile(path string) ([]replayOrder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay file: %w", err)
	}
	var orders []replayOrder
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("parse replay file: %w", err)
	}
	return orders, nil
}

// accountID derives a stable 32-byte account id from an owner name. It is
// not a hash, just a left-aligned copy, which is enough to keep owners
// distinguishable across a replay file without pulling in a crypto
// dependency this CLI has no other use for.
func accountID(owner string) types.AccountID {
	var id types.AccountID
	copy(id[:], owner)
	return id
}

func (r replayOrder) toIncomingOrder() (*types.IncomingOrder, types.AccountID, error) {
	var side types.Side
	switch r.Side {
	case "bid", "buy":
		side = types.SideBid
	case "ask", "sell":
		side = types.SideAsk
	default:
		return nil, types.AccountID{}, fmt.Errorf("unknown side %q", r.Side)
	}

	var kind types.OrderKind
	switch r.Kind {
	case "market":
		kind = types.OrderKindMarket
	case "ioc":
		kind = types.OrderKindImmediateOrCancel
	case "", "fixed":
		kind = types.OrderKindFixed
	default:
		return nil, types.AccountID{}, fmt.Errorf("unknown order kind %q", r.Kind)
	}

	orderType := types.PostOrderTypeLimit
	if r.OrderType == "post_only" {
		orderType = types.PostOrderTypePostOnly
	}

	var selfTrade types.SelfTradeBehavior
	switch r.SelfTradeBehavior {
	case "", "decrement_take":
		selfTrade = types.SelfTradeDecrementTake
	case "cancel_provide":
		selfTrade = types.SelfTradeCancelProvide
	case "abort":
		selfTrade = types.SelfTradeAbortTransaction
	default:
		return nil, types.AccountID{}, fmt.Errorf("unknown self_trade_behavior %q", r.SelfTradeBehavior)
	}

	order := &types.IncomingOrder{
		Side:              side,
		MaxBaseLots:       r.MaxBaseLots,
		MaxQuoteLots:      r.MaxQuoteLots,
		ClientOrderID:     r.ClientOrderID,
		TimeInForce:       r.TimeInForce,
		SelfTradeBehavior: selfTrade,
		Params: types.OrderParams{
			Kind:      kind,
			PriceLots: r.PriceLots,
			OrderType: orderType,
		},
	}
	if order.MaxQuoteLots == 0 {
		order.MaxQuoteLots = int64(1) << 62
	}
	return order, accountID(r.Owner), nil
}
