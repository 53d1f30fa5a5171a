package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Orderbook Metrics Collector
// Exposes counters and gauges for the matching engine's own concerns:
// fills, outs, resting depth and rejected submissions. Position, funding,
// liquidation and oracle metrics belong to modules this core doesn't own.

var (
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds every metric the orderbook core emits.
type Collector struct {
	// Matching metrics
	OrdersSubmitted *prometheus.CounterVec
	OrdersRejected  *prometheus.CounterVec
	FillsTotal      *prometheus.CounterVec
	FillQuantity    *prometheus.CounterVec
	OutsTotal       *prometheus.CounterVec
	MatchingLatency *prometheus.HistogramVec

	// Book state metrics
	BookDepth  *prometheus.GaugeVec
	BestPrice  *prometheus.GaugeVec
	QueueDepth *prometheus.GaugeVec
	QueueDrops *prometheus.CounterVec
}

// GetCollector returns the singleton metrics collector.
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

// newCollector creates a new metrics collector and registers every metric
// with the default Prometheus registry.
func newCollector() *Collector {
	c := &Collector{}

	c.OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderbook",
			Subsystem: "orders",
			Name:      "submitted_total",
			Help:      "Total number of orders submitted to the matching engine",
		},
		[]string{"market_id", "side", "kind"},
	)

	c.OrdersRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderbook",
			Subsystem: "orders",
			Name:      "rejected_total",
			Help:      "Total number of orders rejected, by reason",
		},
		[]string{"market_id", "side", "reason"},
	)

	c.FillsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderbook",
			Subsystem: "matching",
			Name:      "fills_total",
			Help:      "Total number of fill events emitted",
		},
		[]string{"market_id", "taker_side"},
	)

	c.FillQuantity = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderbook",
			Subsystem: "matching",
			Name:      "fill_base_lots_total",
			Help:      "Total base lots matched",
		},
		[]string{"market_id", "taker_side"},
	)

	c.OutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderbook",
			Subsystem: "matching",
			Name:      "outs_total",
			Help:      "Total number of out events emitted, by reason",
		},
		[]string{"market_id", "side", "reason"},
	)

	c.MatchingLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "orderbook",
			Subsystem: "matching",
			Name:      "latency_ms",
			Help:      "SubmitOrder wall-clock latency in milliseconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		},
		[]string{"market_id"},
	)

	c.BookDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "orderbook",
			Subsystem: "book",
			Name:      "depth_orders",
			Help:      "Number of resting orders on a book side",
		},
		[]string{"market_id", "side"},
	)

	c.BestPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "orderbook",
			Subsystem: "book",
			Name:      "best_price_lots",
			Help:      "Best resting price on a book side, in price lots",
		},
		[]string{"market_id", "side"},
	)

	c.QueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "orderbook",
			Subsystem: "queue",
			Name:      "depth_records",
			Help:      "Number of undrained records in the event queue",
		},
		[]string{"market_id"},
	)

	c.QueueDrops = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderbook",
			Subsystem: "queue",
			Name:      "full_total",
			Help:      "Total number of submissions rejected because the event queue was full",
		},
		[]string{"market_id"},
	)

	prometheus.MustRegister(c.OrdersSubmitted)
	prometheus.MustRegister(c.OrdersRejected)
	prometheus.MustRegister(c.FillsTotal)
	prometheus.MustRegister(c.FillQuantity)
	prometheus.MustRegister(c.OutsTotal)
	prometheus.MustRegister(c.MatchingLatency)
	prometheus.MustRegister(c.BookDepth)
	prometheus.MustRegister(c.BestPrice)
	prometheus.MustRegister(c.QueueDepth)
	prometheus.MustRegister(c.QueueDrops)

	return c
}

// RecordOrderSubmitted records an accepted order submission.
func (c *Collector) RecordOrderSubmitted(marketID, side, kind string) {
	c.OrdersSubmitted.WithLabelValues(marketID, side, kind).Inc()
}

// RecordOrderRejected records a rejected order submission.
func (c *Collector) RecordOrderRejected(marketID, side, reason string) {
	c.OrdersRejected.WithLabelValues(marketID, side, reason).Inc()
}

// RecordFill records one fill event.
func (c *Collector) RecordFill(marketID, takerSide string, baseLots int64) {
	c.FillsTotal.WithLabelValues(marketID, takerSide).Inc()
	c.FillQuantity.WithLabelValues(marketID, takerSide).Add(float64(baseLots))
}

// RecordOut records one out event.
func (c *Collector) RecordOut(marketID, side, reason string) {
	c.OutsTotal.WithLabelValues(marketID, side, reason).Inc()
}

// RecordMatchingLatency records SubmitOrder latency.
func (c *Collector) RecordMatchingLatency(marketID string, latencyMs float64) {
	c.MatchingLatency.WithLabelValues(marketID).Observe(latencyMs)
}

// SetBookDepth sets the current resting order count for a book side.
func (c *Collector) SetBookDepth(marketID, side string, depth int) {
	c.BookDepth.WithLabelValues(marketID, side).Set(float64(depth))
}

// SetBestPrice sets the current best price for a book side.
func (c *Collector) SetBestPrice(marketID, side string, priceLots int64) {
	c.BestPrice.WithLabelValues(marketID, side).Set(float64(priceLots))
}

// SetQueueDepth sets the current undrained event queue length.
func (c *Collector) SetQueueDepth(marketID string, depth int) {
	c.QueueDepth.WithLabelValues(marketID).Set(float64(depth))
}

// RecordQueueFull records a submission rejected by a full event queue.
func (c *Collector) RecordQueueFull(marketID string) {
	c.QueueDrops.WithLabelValues(marketID).Inc()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
