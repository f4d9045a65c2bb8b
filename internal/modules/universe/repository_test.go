package universe

import (
	"context"
	"database/sql"
	"testing"

	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:instruments_test?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestRepo(t *testing.T) *InstrumentRepository {
	t.Helper()
	repo := NewInstrumentRepository(newTestDB(t), zerolog.Nop())
	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, repo.ReplaceAll(context.Background(), nil))
	return repo
}

func TestReplaceAllAndGetByTicker(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, []domain.Instrument{
		{Ticker: "aapl", CompanyName: "Apple Inc.", Exchange: "NASDAQ", Sector: "Information Technology"},
		{Ticker: "JPM", CompanyName: "JPMorgan Chase & Co.", Exchange: "NYSE", Sector: "Financials", AssetClass: domain.AssetClassEquity},
	}))

	// Tickers are canonicalized to uppercase on write
	instrument, err := repo.GetByTicker(ctx, "AAPL")
	require.NoError(t, err)
	require.NotNil(t, instrument)
	assert.Equal(t, "AAPL", instrument.Ticker)
	assert.Equal(t, "Apple Inc.", instrument.CompanyName)
	assert.Equal(t, domain.AssetClassEquity, instrument.AssetClass)

	// Lookup is itself case-insensitive
	instrument, err = repo.GetByTicker(ctx, " jpm ")
	require.NoError(t, err)
	require.NotNil(t, instrument)
	assert.Equal(t, "JPM", instrument.Ticker)

	missing, err := repo.GetByTicker(ctx, "ZZZQQ")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestReplaceAllIsWholesale(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, []domain.Instrument{
		{Ticker: "AAPL", CompanyName: "Apple Inc.", Exchange: "NASDAQ"},
	}))
	require.NoError(t, repo.ReplaceAll(ctx, []domain.Instrument{
		{Ticker: "MSFT", CompanyName: "Microsoft Corporation", Exchange: "NASDAQ"},
	}))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "MSFT", all[0].Ticker)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetAllOrderedByTicker(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, []domain.Instrument{
		{Ticker: "MSFT", CompanyName: "Microsoft Corporation", Exchange: "NASDAQ"},
		{Ticker: "AAPL", CompanyName: "Apple Inc.", Exchange: "NASDAQ"},
	}))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "AAPL", all[0].Ticker)
	assert.Equal(t, "MSFT", all[1].Ticker)
}
