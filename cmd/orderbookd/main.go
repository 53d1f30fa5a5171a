package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/openalpha/perp-dex/metrics"
	"github.com/openalpha/perp-dex/x/orderbook/events"
	"github.com/openalpha/perp-dex/x/orderbook/keeper"
	"github.com/openalpha/perp-dex/x/orderbook/types"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath    string
		bookCapacity  uint32
		queueCapacity uint32
		broadcastAddr string
		demo          bool
		replayFile    string
	)

	cmd := &cobra.Command{
		Use:   "orderbookd",
		Short: "Runs the order book matching engine and replays or demos orders against it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if bookCapacity > 0 {
				cfg.BookCapacity = bookCapacity
			}
			if queueCapacity > 0 {
				cfg.QueueCapacity = queueCapacity
			}
			if broadcastAddr != "" {
				cfg.BroadcastAddr = broadcastAddr
			}
			if demo {
				cfg.Demo = true
			}
			if replayFile != "" {
				cfg.ReplayFile = replayFile
			}
			return run(cfg)
		},
	}

	flags := pflag.NewFlagSet("orderbookd", pflag.ExitOnError)
	flags.StringVar(&configPath, "config", "", "path to a JSON config file")
	flags.Uint32Var(&bookCapacity, "book-capacity", 0, "order tree nodes per book side")
	flags.Uint32Var(&queueCapacity, "queue-capacity", 0, "event queue record capacity")
	flags.StringVar(&broadcastAddr, "broadcast-addr", "", "address to serve the websocket event stream on")
	flags.BoolVar(&demo, "demo", false, "run the built-in demo order sequence")
	flags.StringVar(&replayFile, "replay", "", "path to a JSON file of orders to replay")
	cmd.Flags().AddFlagSet(flags)

	return cmd
}

func run(cfg *Config) error {
	logger := log.NewLogger(os.Stdout).With("run_id", uuid.NewString())

	k := keeper.NewKeeperWithConfig(logger, keeper.Config{
		MarketID:      "orderbookd",
		Market:        types.DefaultMarketParams(),
		BookCapacity:  cfg.BookCapacity,
		QueueCapacity: cfg.QueueCapacity,
	})

	broadcaster := events.NewBroadcaster(logger, k.Queue(), cfg.DrainInterval)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	broadcaster.Start(ctx)
	defer broadcaster.Stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/events", broadcaster)
	server := &http.Server{Addr: cfg.BroadcastAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("broadcast server stopped", "err", err)
		}
	}()
	defer server.Close()

	logger.Info("orderbookd started", "broadcast_addr", cfg.BroadcastAddr, "book_capacity", cfg.BookCapacity)

	var orders []replayOrder
	switch {
	case cfg.Demo:
		orders = demoOrders
	case cfg.ReplayFile != "":
		var err error
		orders, err = loadReplayFile(cfg.ReplayFile)
		if err != nil {
			return err
		}
	}

	for i, ro := range orders {
		order, owner, err := ro.toIncomingOrder()
		if err != nil {
			logger.Error("skipping malformed replay order", "index", i, "err", err)
			continue
		}
		orderID, err := k.SubmitOrder(order, owner, uint64(time.Now().Unix()), 16)
		if err != nil {
			logger.Info("order rejected", "index", i, "owner", ro.Owner, "err", err)
			continue
		}
		if orderID != nil {
			logger.Info("order posted", "index", i, "owner", ro.Owner, "price_lots", order.Params.PriceLots)
		} else {
			logger.Info("order fully matched or did not post", "index", i, "owner", ro.Owner)
		}
	}

	if len(orders) == 0 {
		logger.Info("no replay orders given; run with --demo or --replay <file>")
		return nil
	}

	// Give the broadcaster a chance to drain the queue it just filled
	// before the process exits in a one-shot replay run.
	time.Sleep(cfg.DrainInterval * 2)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-time.After(2 * time.Second):
	}
	return nil
}
