package valuation

import (
	"context"
	"testing"

	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMarketDataClient is a mock market data gateway for testing
type MockMarketDataClient struct {
	mock.Mock
}

func (m *MockMarketDataClient) GetQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func (m *MockMarketDataClient) GetQuotes(ctx context.Context, tickers []string) (map[string]domain.Quote, error) {
	args := m.Called(ctx, tickers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Quote), args.Error(1)
}

func (m *MockMarketDataClient) GetReturnSeries(ctx context.Context, ticker string, granularity domain.Granularity, lookback int) ([]float64, error) {
	args := m.Called(ctx, ticker, granularity, lookback)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func floatPtr(v float64) *float64 { return &v }

func TestValueTwoHoldingFixture(t *testing.T) {
	market := new(MockMarketDataClient)
	market.On("GetQuotes", mock.Anything, []string{"AAPL", "MSFT"}).Return(map[string]domain.Quote{
		"AAPL": {Ticker: "AAPL", Price: 175.25, PriorClose: 173.00},
		"MSFT": {Ticker: "MSFT", Price: 312.75, PriorClose: 310.00},
	}, nil)

	service := NewService(market, zerolog.Nop())
	result, err := service.Value(context.Background(), []domain.HoldingInput{
		{Ticker: "AAPL", Shares: 150},
		{Ticker: "MSFT", Shares: 100},
	})

	require.NoError(t, err)
	require.Len(t, result.Positions, 2)

	// 150×175.25 + 100×312.75 = 57,562.50
	assert.InDelta(t, 57562.50, result.TotalValue, 1e-9)
	assert.InDelta(t, 0.4565, result.Positions[0].Weight, 1e-4)
	assert.InDelta(t, 0.5435, result.Positions[1].Weight, 1e-4)

	weightSum := result.Positions[0].Weight + result.Positions[1].Weight
	assert.InDelta(t, 1.0, weightSum, 1e-6)

	market.AssertExpectations(t)
}

func TestValueDayChange(t *testing.T) {
	market := new(MockMarketDataClient)
	market.On("GetQuotes", mock.Anything, mock.Anything).Return(map[string]domain.Quote{
		"AAPL": {Ticker: "AAPL", Price: 110, PriorClose: 100},
	}, nil)

	service := NewService(market, zerolog.Nop())
	result, err := service.Value(context.Background(), []domain.HoldingInput{
		{Ticker: "AAPL", Shares: 10},
	})

	require.NoError(t, err)
	position := result.Positions[0]
	assert.InDelta(t, 100.0, position.DayChange, 1e-9) // 10 × (110−100)
	assert.InDelta(t, 10.0, position.DayChangePercent, 1e-9)
}

func TestValueCostBasis(t *testing.T) {
	market := new(MockMarketDataClient)
	market.On("GetQuotes", mock.Anything, mock.Anything).Return(map[string]domain.Quote{
		"AAPL": {Ticker: "AAPL", Price: 150, PriorClose: 149},
		"MSFT": {Ticker: "MSFT", Price: 300, PriorClose: 299},
	}, nil)

	service := NewService(market, zerolog.Nop())
	result, err := service.Value(context.Background(), []domain.HoldingInput{
		{Ticker: "AAPL", Shares: 10, AvgCost: floatPtr(100)},
		{Ticker: "MSFT", Shares: 5}, // cost basis unknown
	})

	require.NoError(t, err)

	withCost := result.Positions[0]
	require.NotNil(t, withCost.TotalReturn)
	assert.InDelta(t, 500.0, *withCost.TotalReturn, 1e-9) // 10 × (150−100)
	require.NotNil(t, withCost.TotalReturnPercent)
	assert.InDelta(t, 50.0, *withCost.TotalReturnPercent, 1e-9)

	// Unknown cost basis reports null return, not zero
	withoutCost := result.Positions[1]
	assert.Nil(t, withoutCost.TotalReturn)
	assert.Nil(t, withoutCost.TotalReturnPercent)
}

func TestValueZeroShareHoldings(t *testing.T) {
	market := new(MockMarketDataClient)
	market.On("GetQuotes", mock.Anything, mock.Anything).Return(map[string]domain.Quote{
		"AAPL": {Ticker: "AAPL", Price: 150, PriorClose: 149},
		"MSFT": {Ticker: "MSFT", Price: 300, PriorClose: 299},
	}, nil)

	service := NewService(market, zerolog.Nop())
	result, err := service.Value(context.Background(), []domain.HoldingInput{
		{Ticker: "AAPL", Shares: 0},
		{Ticker: "MSFT", Shares: 0},
	})

	require.NoError(t, err)
	assert.Equal(t, 0.0, result.TotalValue)
	for _, position := range result.Positions {
		assert.Equal(t, 0.0, position.Weight)
	}
}

func TestValueUnresolvableTickerIsWarning(t *testing.T) {
	market := new(MockMarketDataClient)
	market.On("GetQuotes", mock.Anything, mock.Anything).Return(map[string]domain.Quote{
		"AAPL": {Ticker: "AAPL", Price: 150, PriorClose: 149},
	}, nil)

	service := NewService(market, zerolog.Nop())
	result, err := service.Value(context.Background(), []domain.HoldingInput{
		{Ticker: "AAPL", Shares: 10},
		{Ticker: "ZZZQQ", Shares: 10},
	})

	require.NoError(t, err)
	require.Len(t, result.Positions, 1)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "ZZZQQ", result.Warnings[0].Ticker)

	// The resolvable holding still carries the full weight
	assert.InDelta(t, 1.0, result.Positions[0].Weight, 1e-9)
}
