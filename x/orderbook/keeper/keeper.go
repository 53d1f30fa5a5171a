package keeper

import (
	"cosmossdk.io/log"

	"github.com/openalpha/perp-dex/metrics"
	"github.com/openalpha/perp-dex/x/orderbook/types"
)

// Keeper holds one market's pair of book sides and its event queue. It has
// no store, no codec and no sdk.Context dependency: every operation takes
// its wall-clock reading as an explicit argument, and the book/queue live
// entirely in process memory for the lifetime of the Keeper.
type Keeper struct {
	logger log.Logger
	stats  *metrics.Collector

	marketID string
	market   types.MarketParams
	bids     *types.BookSide
	asks     *types.BookSide
	queue    *types.EventQueue
}

// Config bundles the sizing knobs a Keeper is constructed with.
type Config struct {
	MarketID      string
	Market        types.MarketParams
	BookCapacity  uint32
	QueueCapacity uint32
}

// DefaultConfig returns book and queue capacities matching the source's
// fixed-size layout.
func DefaultConfig() Config {
	return Config{
		MarketID:      "default",
		Market:        types.DefaultMarketParams(),
		BookCapacity:  1024,
		QueueCapacity: types.DefaultEventQueueCapacity,
	}
}

// NewKeeper builds a Keeper with DefaultConfig.
func NewKeeper(logger log.Logger) *Keeper {
	return NewKeeperWithConfig(logger, DefaultConfig())
}

// NewKeeperWithConfig builds a Keeper for one market with the given
// sizing and lot configuration. Metrics are recorded against the global
// collector returned by metrics.GetCollector, labeled with cfg.MarketID.
func NewKeeperWithConfig(logger log.Logger, cfg Config) *Keeper {
	return &Keeper{
		logger:   logger.With("module", "x/orderbook"),
		stats:    metrics.GetCollector(),
		marketID: cfg.MarketID,
		market:   cfg.Market,
		bids:     types.NewBookSide(types.SideBid, cfg.BookCapacity),
		asks:     types.NewBookSide(types.SideAsk, cfg.BookCapacity),
		queue:    types.NewEventQueue(cfg.QueueCapacity),
	}
}

// Side returns this market's book side for s.
func (k *Keeper) Side(s types.Side) *types.BookSide {
	if s == types.SideBid {
		return k.bids
	}
	return k.asks
}

// Queue returns the event queue events are pushed to.
func (k *Keeper) Queue() *types.EventQueue {
	return k.queue
}

// Market returns a copy of the current market parameters.
func (k *Keeper) Market() types.MarketParams {
	return k.market
}
