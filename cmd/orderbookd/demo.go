package main

// demoOrders is a small hand-written replay covering the matching engine's
// core paths: resting asks, a bid that sweeps the whole ask side, an IOC
// that finds nothing to take, and a self-trade.
var demoOrders = []replayOrder{
	{Side: "ask", Owner: "maker-1", MaxBaseLots: 10, Kind: "fixed", PriceLots: 101, ClientOrderID: 1},
	{Side: "ask", Owner: "maker-2", MaxBaseLots: 5, Kind: "fixed", PriceLots: 102, ClientOrderID: 2},
	{Side: "bid", Owner: "maker-3", MaxBaseLots: 8, Kind: "fixed", PriceLots: 99, ClientOrderID: 3},

	// Takes 10 from maker-1 at 101 and all 5 from maker-2 at 102; nothing rests.
	{Side: "bid", Owner: "taker-1", MaxBaseLots: 15, MaxQuoteLots: 3000, Kind: "fixed", PriceLots: 103, ClientOrderID: 4},

	// IOC buy against the now-empty ask side (its 10-lot quote budget is below
	// one lot at 102 anyway); matches nothing and never posts.
	{Side: "bid", Owner: "taker-2", MaxBaseLots: 3, MaxQuoteLots: 10, Kind: "ioc", PriceLots: 102, ClientOrderID: 5},

	// Self-trade against its own resting bid; default behavior decrements both sides.
	{Side: "ask", Owner: "maker-3", MaxBaseLots: 2, Kind: "fixed", PriceLots: 99, ClientOrderID: 6},
}
