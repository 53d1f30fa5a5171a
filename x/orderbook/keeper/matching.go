package keeper

import (
	"time"

	"github.com/openalpha/perp-dex/x/orderbook/types"
)

// maxExpiredOpposingSweeps bounds how many expired opposing-side leaves a
// single submission will evict while walking for matches, so a submission
// can never spend unbounded compute sweeping garbage.
const maxExpiredOpposingSweeps = 5

func orderKindLabel(k types.OrderKind) string {
	switch k {
	case types.OrderKindMarket:
		return "market"
	case types.OrderKindImmediateOrCancel:
		return "ioc"
	default:
		return "fixed"
	}
}

func rejectReason(err error) string {
	switch err {
	case types.ErrWouldSelfTrade:
		return "self_trade"
	case types.ErrOutOfSpace:
		return "out_of_space"
	case types.ErrTreeOutOfSpace:
		return "tree_out_of_space"
	case types.ErrEventQueueFull:
		return "queue_full"
	case types.ErrInvalidPrice:
		return "invalid_price"
	default:
		return "other"
	}
}

func minInt64(a, b, c int64) int64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// SubmitOrder runs the matching engine for order, owned by owner, against
// the book as of nowTs. matchLimit bounds the number of fills this call
// may produce. It returns the assigned order id if a remainder was posted,
// nil if nothing was posted (fully matched, a non-posting order kind, or
// a remainder too small to book). A post-only order never takes: it stops
// at the first crossing maker and posts its full quantity.
//
// The call is atomic: any error return (WouldSelfTrade, OutOfSpace, or a
// full event queue) leaves both book sides and the queue exactly as they
// were before the call, undoing every match and eviction already applied
// via an explicit rollback stack rather than by never committing until
// the end — the deferred-apply-then-commit split the source uses for
// invalidated handles isn't needed here because BookSideIter snapshots
// its walk order up front, so interleaving removals with the walk is
// already safe; the rollback stack exists purely to satisfy full-
// submission atomicity on error.
func (k *Keeper) SubmitOrder(order *types.IncomingOrder, owner types.AccountID, nowTs uint64, matchLimit uint8) (result *types.Key128, submitErr error) {
	start := time.Now()
	defer func() {
		k.stats.RecordMatchingLatency(k.marketID, float64(time.Since(start).Microseconds())/1000.0)
		if submitErr != nil {
			k.stats.RecordOrderRejected(k.marketID, order.Side.String(), rejectReason(submitErr))
			return
		}
		k.stats.RecordOrderSubmitted(k.marketID, order.Side.String(), orderKindLabel(order.Params.Kind))
		k.stats.SetQueueDepth(k.marketID, k.queue.Len())
		k.stats.SetBookDepth(k.marketID, "bid", int(k.bids.LeafCount()))
		k.stats.SetBookDepth(k.marketID, "ask", int(k.asks.LeafCount()))
		if best, ok := k.bids.BestPrice(nowTs); ok {
			k.stats.SetBestPrice(k.marketID, "bid", best)
		}
		if best, ok := k.asks.BestPrice(nowTs); ok {
			k.stats.SetBestPrice(k.marketID, "ask", best)
		}
	}()

	priceLots, priceData, err := order.Price()
	if err != nil {
		return nil, err
	}

	orderID := k.market.GenOrderID(order.Side, priceData)
	postTarget := !order.Params.NeverPosts()

	takerSide := order.Side
	opposingSide := k.Side(takerSide.Invert())

	remainingBase := order.MaxBaseLots
	remainingQuote := order.MaxQuoteLots

	queueLenAtStart := k.queue.Len()
	var undo []func()
	rollback := func(cause error) (*types.Key128, error) {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
		_ = k.queue.RevertPushes(queueLenAtStart)
		if cause == types.ErrEventQueueFull {
			k.stats.RecordQueueFull(k.marketID)
		}
		return nil, cause
	}
	pushEvent := func(ev types.EventRecord) error {
		return k.queue.PushBack(ev)
	}

	expiredDropped := 0
	matchLimitRemaining := matchLimit

	it := opposingSide.IterAllIncludingInvalid()
	for remainingBase > 0 && remainingQuote > 0 {
		item, ok := it.Next()
		if !ok {
			break
		}
		maker := item.Node

		if maker.IsExpired(nowTs) {
			if expiredDropped >= maxExpiredOpposingSweeps {
				continue
			}
			evicted := *maker
			if err := pushEvent(types.NewOutRecord(types.NewOutEventFromLeaf(opposingSide.Side, maker))); err != nil {
				return rollback(err)
			}
			opposingSide.RemoveByKey(maker.Key)
			undo = append(undo, func() { opposingSide.InsertLeaf(&evicted) })
			expiredDropped++
			k.stats.RecordOut(k.marketID, opposingSide.Side.String(), "expired")
			k.logger.Info("evicted expired opposing order", "side", opposingSide.Side, "price_lots", evicted.PriceLots())
			continue
		}

		makerPrice := item.PriceLots
		if !takerSide.IsPriceWithinLimit(makerPrice, priceLots) {
			break
		}
		if order.Params.IsPostOnly() {
			break
		}
		if matchLimitRemaining == 0 {
			break
		}

		maxMatchByQuote := remainingQuote / makerPrice
		if maxMatchByQuote == 0 {
			break
		}
		matchBase := minInt64(remainingBase, maker.Quantity, maxMatchByQuote)
		matchQuote := matchBase * makerPrice

		if maker.Owner == owner {
			switch order.SelfTradeBehavior {
			case types.SelfTradeAbortTransaction:
				return rollback(types.ErrWouldSelfTrade)
			case types.SelfTradeCancelProvide:
				cancelled := *maker
				if err := pushEvent(types.NewOutRecord(types.NewOutEventFromLeaf(opposingSide.Side, maker))); err != nil {
					return rollback(err)
				}
				opposingSide.RemoveByKey(maker.Key)
				undo = append(undo, func() { opposingSide.InsertLeaf(&cancelled) })
				k.stats.RecordOut(k.marketID, opposingSide.Side.String(), "self_trade_cancel")
				continue
			case types.SelfTradeDecrementTake:
				// fall through to a normal match
			}
		}

		remainingBase -= matchBase
		remainingQuote -= matchQuote

		prevQty := maker.Quantity
		newQty := prevQty - matchBase
		makerOut := newQty == 0
		makerKey := maker.Key
		makerLeaf := *maker
		if makerOut {
			removed := *maker
			opposingSide.RemoveByKey(makerKey)
			undo = append(undo, func() { opposingSide.InsertLeaf(&removed) })
		} else {
			maker.Quantity = newQty
			undo = append(undo, func() { opposingSide.Leaf(item.Handle).Quantity = prevQty })
		}

		fill := types.FillEvent{
			TakerSide:          takerSide,
			MakerOut:           makerOut,
			Timestamp:          nowTs,
			MakerOwner:         makerLeaf.Owner,
			MakerKey:           makerKey,
			MakerClientOrderID: makerLeaf.ClientOrderID,
			MakerTimestamp:     makerLeaf.Timestamp,
			TakerOwner:         owner,
			TakerClientOrderID: order.ClientOrderID,
			PriceLots:          makerPrice,
			Quantity:           matchBase,
		}
		if err := pushEvent(types.NewFillRecord(fill)); err != nil {
			return rollback(err)
		}
		k.stats.RecordFill(k.marketID, takerSide.String(), matchBase)
		k.logger.Debug("fill", "price_lots", makerPrice, "quantity", matchBase, "maker_out", makerOut)
		matchLimitRemaining--
	}

	bookBaseQuantity := remainingBase
	if byQuote := remainingQuote / priceLots; byQuote < bookBaseQuantity {
		bookBaseQuantity = byQuote
	}
	if bookBaseQuantity <= 0 {
		postTarget = false
	}

	if !postTarget {
		return nil, nil
	}

	ownSide := k.Side(takerSide)

	if expired := ownSide.RemoveOneExpired(nowTs); expired != nil {
		removed := *expired
		if err := pushEvent(types.NewOutRecord(types.NewOutEventFromLeaf(takerSide, expired))); err != nil {
			return rollback(err)
		}
		undo = append(undo, func() { ownSide.InsertLeaf(&removed) })
		k.stats.RecordOut(k.marketID, takerSide.String(), "expired")
		k.logger.Info("evicted expired own-side order before posting", "side", takerSide, "price_lots", removed.PriceLots())
	}

	if ownSide.IsFull() {
		worst, worstPriceLots, ok := ownSide.RemoveWorst()
		if ok {
			removed := *worst
			if !takerSide.IsPriceBetter(priceLots, worstPriceLots) {
				undo = append(undo, func() { ownSide.InsertLeaf(&removed) })
				return rollback(types.ErrOutOfSpace)
			}
			if err := pushEvent(types.NewOutRecord(types.NewOutEventFromLeaf(takerSide, worst))); err != nil {
				undo = append(undo, func() { ownSide.InsertLeaf(&removed) })
				return rollback(err)
			}
			k.stats.RecordOut(k.marketID, takerSide.String(), "evicted_worst")
			k.logger.Info("evicted worst-priced own-side order to post new order", "side", takerSide, "price_lots", worstPriceLots)
		}
	}

	orderType := types.PostOrderTypeLimit
	if order.Params.Kind == types.OrderKindFixed {
		orderType = order.Params.OrderType
	}
	newLeaf := &types.LeafNode{
		Key:           orderID,
		OrderType:     orderType,
		Owner:         owner,
		ClientOrderID: order.ClientOrderID,
		Quantity:      bookBaseQuantity,
		Timestamp:     nowTs,
		TimeInForce:   order.TimeInForce,
	}
	if _, _, err := ownSide.InsertLeaf(newLeaf); err != nil {
		return rollback(err)
	}

	return &orderID, nil
}

// CancelOrderByID removes the resting order identified by orderID from
// side, provided owner matches the leaf's recorded owner. No event is
// emitted: the caller observes the cancellation via this call's own
// success, unlike evictions which downstream settlement only learns about
// through the event queue.
func (k *Keeper) CancelOrderByID(owner types.AccountID, orderID types.Key128, side types.Side) error {
	bookSide := k.Side(side)
	_, leaf := bookSide.FindByKey(orderID)
	if leaf == nil {
		return types.ErrOrderIDNotFound
	}
	if leaf.Owner != owner {
		return types.ErrUnauthorized
	}
	bookSide.RemoveByKey(orderID)
	return nil
}
