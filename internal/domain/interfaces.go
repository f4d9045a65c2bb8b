package domain

import "context"

// MarketDataClient is the gateway to live market data. Implementations
// must be safe for concurrent use and honor context cancellation.
type MarketDataClient interface {
	// GetQuote returns the current quote for one ticker.
	// Returns *NotFoundError when the ticker is unknown upstream.
	GetQuote(ctx context.Context, ticker string) (*Quote, error)

	// GetQuotes fetches quotes for multiple tickers in one upstream call.
	// Unresolvable tickers are simply absent from the result map; the call
	// only fails when the upstream itself is unreachable.
	GetQuotes(ctx context.Context, tickers []string) (map[string]Quote, error)

	// GetReturnSeries returns the ordered periodic return series for a
	// ticker, oldest first, at most lookback periods long.
	GetReturnSeries(ctx context.Context, ticker string, granularity Granularity, lookback int) ([]float64, error)
}

// InstrumentSource is a read-only view over the instrument directory.
// Snapshots are immutable and safe for unsynchronized concurrent reads.
type InstrumentSource interface {
	// Lookup returns the instrument for a canonical ticker.
	Lookup(ticker string) (Instrument, bool)

	// All returns the full directory snapshot, sorted by ticker.
	// Callers must treat the slice as read-only.
	All() []Instrument
}
