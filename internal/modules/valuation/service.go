// Package valuation converts a holdings list into market-valued, weighted
// positions using live quotes from the market data gateway.
package valuation

import (
	"context"
	"fmt"

	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
)

// Position is one valued holding. totalReturn and totalReturnPercent are
// null when the cost basis is unknown; they never default to zero.
type Position struct {
	Ticker             string   `json:"ticker"`
	Shares             int64    `json:"shares"`
	AvgCost            *float64 `json:"avgCost,omitempty"`
	CurrentPrice       float64  `json:"currentPrice"`
	Value              float64  `json:"value"`
	DayChange          float64  `json:"dayChange"`
	DayChangePercent   float64  `json:"dayChangePercent"`
	TotalReturn        *float64 `json:"totalReturn"`
	TotalReturnPercent *float64 `json:"totalReturnPercent"`
	Weight             float64  `json:"weight"`

	// Fundamental metrics passed through from the quote; omitted when the
	// upstream does not report them.
	MarketCap        float64 `json:"marketCap,omitempty"`
	PERatio          float64 `json:"peRatio,omitempty"`
	DividendYield    float64 `json:"dividendYield,omitempty"`
	FiftyTwoWeekHigh float64 `json:"fiftyTwoWeekHigh,omitempty"`
	FiftyTwoWeekLow  float64 `json:"fiftyTwoWeekLow,omitempty"`
}

// Warning is a non-fatal per-ticker problem encountered during valuation.
type Warning struct {
	Ticker  string `json:"ticker"`
	Message string `json:"message"`
}

// Result is the valuation output: positions in input order, the portfolio
// total, and any per-ticker warnings.
type Result struct {
	Positions  []Position
	TotalValue float64
	Warnings   []Warning
}

// Service performs valuation and weighting.
type Service struct {
	market domain.MarketDataClient
	log    zerolog.Logger
}

// NewService creates a valuation service
func NewService(market domain.MarketDataClient, log zerolog.Logger) *Service {
	return &Service{
		market: market,
		log:    log.With().Str("service", "valuation").Logger(),
	}
}

// Value fetches quotes for all holdings in one batched gateway call and
// derives per-position value, P&L and portfolio weight. Holdings the
// gateway cannot resolve become warnings, not failures; the whole call
// fails only when the gateway itself is unreachable.
func (s *Service) Value(ctx context.Context, holdings []domain.HoldingInput) (*Result, error) {
	tickers := make([]string, 0, len(holdings))
	for _, holding := range holdings {
		tickers = append(tickers, holding.Ticker)
	}

	quotes, err := s.market.GetQuotes(ctx, tickers)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}

	result := &Result{Warnings: []Warning{}}
	for _, holding := range holdings {
		quote, ok := quotes[holding.Ticker]
		if !ok {
			s.log.Warn().Str("ticker", holding.Ticker).Msg("Ticker not resolvable, excluded from valuation")
			result.Warnings = append(result.Warnings, Warning{
				Ticker:  holding.Ticker,
				Message: "ticker could not be resolved by the market data gateway",
			})
			continue
		}

		position := buildPosition(holding, quote)
		result.TotalValue += position.Value
		result.Positions = append(result.Positions, position)
	}

	// Weights are value shares of the total. An all-zero portfolio keeps
	// every weight at 0 rather than dividing by zero.
	if result.TotalValue > 0 {
		for i := range result.Positions {
			result.Positions[i].Weight = result.Positions[i].Value / result.TotalValue
		}
	}

	return result, nil
}

func buildPosition(holding domain.HoldingInput, quote domain.Quote) Position {
	shares := float64(holding.Shares)

	position := Position{
		Ticker:           holding.Ticker,
		Shares:           holding.Shares,
		AvgCost:          holding.AvgCost,
		CurrentPrice:     quote.Price,
		Value:            shares * quote.Price,
		MarketCap:        quote.MarketCap,
		PERatio:          quote.PERatio,
		DividendYield:    quote.DividendYield,
		FiftyTwoWeekHigh: quote.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  quote.FiftyTwoWeekLow,
	}

	if quote.PriorClose > 0 {
		position.DayChange = shares * (quote.Price - quote.PriorClose)
		position.DayChangePercent = (quote.Price - quote.PriorClose) / quote.PriorClose * 100
	}

	if holding.AvgCost != nil {
		totalReturn := shares * (quote.Price - *holding.AvgCost)
		position.TotalReturn = &totalReturn

		if *holding.AvgCost > 0 {
			totalReturnPercent := (quote.Price - *holding.AvgCost) / *holding.AvgCost * 100
			position.TotalReturnPercent = &totalReturnPercent
		}
	}

	return position
}
