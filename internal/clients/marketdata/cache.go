package marketdata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// QuoteCache is a read-through TTL cache for quotes, backed by the cache
// database. Entries are msgpack-encoded; stale entries are treated as misses.
type QuoteCache struct {
	db  *sql.DB
	ttl time.Duration
	log zerolog.Logger
}

// NewQuoteCache creates a quote cache with the given freshness window.
func NewQuoteCache(db *sql.DB, ttl time.Duration, log zerolog.Logger) *QuoteCache {
	return &QuoteCache{
		db:  db,
		ttl: ttl,
		log: log.With().Str("component", "quotecache").Logger(),
	}
}

// EnsureSchema creates the quote cache table when it does not exist yet.
func (c *QuoteCache) EnsureSchema(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS quote_cache (
			ticker     TEXT PRIMARY KEY,
			payload    BLOB NOT NULL,
			fetched_at INTEGER NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create quote_cache table: %w", err)
	}
	return nil
}

// Get returns a cached quote when present and fresh.
func (c *QuoteCache) Get(ctx context.Context, ticker string) (*domain.Quote, bool) {
	var payload []byte
	var fetchedAt int64

	err := c.db.QueryRowContext(ctx,
		"SELECT payload, fetched_at FROM quote_cache WHERE ticker = ?", ticker).
		Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("Quote cache read failed")
		return nil, false
	}

	if time.Since(time.Unix(fetchedAt, 0)) > c.ttl {
		return nil, false
	}

	var quote domain.Quote
	if err := msgpack.Unmarshal(payload, &quote); err != nil {
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("Quote cache entry corrupt")
		return nil, false
	}
	return &quote, true
}

// Put stores a quote. Cache failures are logged, never propagated: the
// caller already has the quote in hand.
func (c *QuoteCache) Put(ctx context.Context, quote domain.Quote) {
	payload, err := msgpack.Marshal(&quote)
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", quote.Ticker).Msg("Quote cache encode failed")
		return
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO quote_cache (ticker, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		quote.Ticker, payload, time.Now().UTC().Unix())
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", quote.Ticker).Msg("Quote cache write failed")
	}
}

// Prune deletes entries that aged past the freshness window. Reads already
// treat them as misses; pruning just keeps the table from growing unbounded.
func (c *QuoteCache) Prune(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-c.ttl).Unix()
	result, err := c.db.ExecContext(ctx, "DELETE FROM quote_cache WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune quote cache: %w", err)
	}
	deleted, _ := result.RowsAffected()
	return deleted, nil
}
