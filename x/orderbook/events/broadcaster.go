// Package events republishes the order book's event queue to downstream
// consumers over a websocket stream, so a settlement or market-data
// service never has to poll the in-process queue directly.
package events

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/websocket"

	"github.com/openalpha/perp-dex/x/orderbook/types"
)

// wireEvent is the JSON shape pushed to every connected client.
type wireEvent struct {
	Type string           `json:"type"`
	Fill *types.FillEvent `json:"fill,omitempty"`
	Out  *types.OutEvent  `json:"out,omitempty"`
}

// Broadcaster drains an EventQueue on a fixed interval and republishes
// every Fill and Out record to all currently connected websocket clients
// from a ticker-driven drain loop.
type Broadcaster struct {
	logger   log.Logger
	queue    *types.EventQueue
	interval time.Duration
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewBroadcaster builds a Broadcaster draining queue every interval.
func NewBroadcaster(logger log.Logger, queue *types.EventQueue, interval time.Duration) *Broadcaster {
	return &Broadcaster{
		logger:   logger.With("module", "x/orderbook/events"),
		queue:    queue,
		interval: interval,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		clients:  make(map[*websocket.Conn]struct{}),
		stopCh:   make(chan struct{}),
	}
}

// Start launches the drain loop in the background.
func (b *Broadcaster) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.drainLoop(ctx)
}

// Stop halts the drain loop and waits for it to exit.
func (b *Broadcaster) Stop() {
	close(b.stopCh)
	b.wg.Wait()
}

func (b *Broadcaster) drainLoop(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stopCh:
			return
		case <-ticker.C:
			b.drainOnce()
		}
	}
}

func (b *Broadcaster) drainOnce() {
	for !b.queue.IsEmpty() {
		rec, err := b.queue.PopFront()
		if err != nil {
			return
		}
		b.publish(rec)
	}
}

func (b *Broadcaster) publish(rec *types.EventRecord) {
	var msg wireEvent
	switch rec.EventType {
	case types.EventTypeFill:
		msg = wireEvent{Type: "fill", Fill: &rec.Fill}
	case types.EventTypeOut:
		msg = wireEvent{Type: "out", Out: &rec.Out}
	default:
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("marshal event", "err", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			b.logger.Debug("dropping websocket client", "err", err)
			conn.Close()
			delete(b.clients, conn)
		}
	}
}

// ServeHTTP upgrades the request to a websocket and registers the
// connection as a subscriber until it disconnects.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Error("websocket upgrade failed", "err", err)
		return
	}

	b.mu.Lock()
	b.clients[conn] = struct{}{}
	b.mu.Unlock()

	// Read and discard incoming messages (none expected) so a client
	// disconnect surfaces as a read error and the client is dropped.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				b.mu.Lock()
				delete(b.clients, conn)
				b.mu.Unlock()
				conn.Close()
				return
			}
		}
	}()
}
