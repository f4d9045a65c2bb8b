// Package analysis orchestrates a full portfolio report: valuation, risk,
// sector exposure and recommendations, assembled per request from live
// market data. The service holds no per-portfolio state.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/recommendations"
	"github.com/aristath/folio/internal/modules/risk"
	"github.com/aristath/folio/internal/modules/sectors"
	"github.com/aristath/folio/internal/modules/valuation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// benchmarkTicker supplies the benchmark return series for beta.
	benchmarkTicker = "SPY"

	// returnGranularity and returnLookback bound the history used for the
	// risk stage: five years of monthly returns.
	returnGranularity = domain.GranularityMonthly
	returnLookback    = 60
)

// assetColors is the fixed palette for the asset-allocation chart.
var assetColors = map[string]string{
	string(domain.AssetClassEquity): "#6366F1",
	string(domain.AssetClassETF):    "#10B981",
}

const otherAssetClass = "Other"
const otherAssetColor = "#9CA3AF"

// Service runs the full analysis pipeline.
type Service struct {
	valuation       *valuation.Service
	risk            *risk.Engine
	sectors         *sectors.Analyzer
	recommendations *recommendations.Synthesizer
	market          domain.MarketDataClient
	instruments     domain.InstrumentSource
	policies        *config.PolicyStore
	log             zerolog.Logger
}

// NewService creates the analysis orchestrator
func NewService(
	valuationService *valuation.Service,
	riskEngine *risk.Engine,
	sectorAnalyzer *sectors.Analyzer,
	synthesizer *recommendations.Synthesizer,
	market domain.MarketDataClient,
	instruments domain.InstrumentSource,
	policies *config.PolicyStore,
	log zerolog.Logger,
) *Service {
	return &Service{
		valuation:       valuationService,
		risk:            riskEngine,
		sectors:         sectorAnalyzer,
		recommendations: synthesizer,
		market:          market,
		instruments:     instruments,
		policies:        policies,
		log:             log.With().Str("service", "analysis").Logger(),
	}
}

// Analyze produces the full report for one holdings list. The policy
// snapshot is read once so the whole report reflects a single policy.
func (s *Service) Analyze(ctx context.Context, holdings []domain.HoldingInput) (*PortfolioAnalysis, error) {
	if len(holdings) == 0 {
		return nil, domain.ErrEmptyPortfolio
	}

	normalized, err := normalizeHoldings(holdings)
	if err != nil {
		return nil, err
	}

	policy := s.policies.Current()

	valued, err := s.valuation.Value(ctx, normalized)
	if err != nil {
		return nil, &domain.AnalysisUnavailableError{Stage: "valuation", Err: err}
	}
	if len(valued.Positions) == 0 {
		return nil, &domain.AnalysisUnavailableError{
			Stage: "valuation",
			Err:   fmt.Errorf("none of the %d holdings could be valued", len(normalized)),
		}
	}

	warnings := valued.Warnings

	portfolioReturns, benchmarkReturns, seriesWarnings, err := s.buildReturnSeries(ctx, valued.Positions)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, seriesWarnings...)

	sectorOf := func(ticker string) string {
		if instrument, ok := s.instruments.Lookup(ticker); ok {
			return instrument.Sector
		}
		return ""
	}

	weights := make([]float64, len(valued.Positions))
	for i, position := range valued.Positions {
		weights[i] = position.Weight
	}

	assessment := s.risk.Assess(weights, portfolioReturns, benchmarkReturns, policy.RiskScore)
	exposure := s.sectors.Compare(valued.Positions, sectorOf, policy.Benchmark)
	recs := s.recommendations.Synthesize(exposure, valued.Positions, sectorOf, policy.Thresholds)

	report := &PortfolioAnalysis{
		ReportID:        uuid.New().String(),
		GeneratedAt:     time.Now().UTC(),
		Summary:         s.buildSummary(valued, assessment),
		Holdings:        valued.Positions,
		RiskAnalysis:    assessment.Analysis,
		SectorExposure:  exposure,
		Recommendations: recs,
	}
	if len(warnings) > 0 {
		report.Warnings = warnings
	}

	s.log.Info().
		Str("report_id", report.ReportID).
		Int("holdings", len(valued.Positions)).
		Float64("total_value", valued.TotalValue).
		Int("recommendations", len(recs)).
		Msg("Portfolio analysis complete")

	return report, nil
}

// normalizeHoldings canonicalizes tickers and rejects malformed entries.
func normalizeHoldings(holdings []domain.HoldingInput) ([]domain.HoldingInput, error) {
	normalized := make([]domain.HoldingInput, 0, len(holdings))
	for i, holding := range holdings {
		ticker := strings.ToUpper(strings.TrimSpace(holding.Ticker))
		if ticker == "" {
			return nil, &domain.ValidationError{
				Field:  fmt.Sprintf("holdings[%d].ticker", i),
				Reason: "must not be blank",
			}
		}
		if holding.Shares < 0 {
			return nil, &domain.ValidationError{
				Field:  fmt.Sprintf("holdings[%d].shares", i),
				Reason: "must not be negative",
			}
		}
		if holding.AvgCost != nil && *holding.AvgCost < 0 {
			return nil, &domain.ValidationError{
				Field:  fmt.Sprintf("holdings[%d].avgCost", i),
				Reason: "must not be negative",
			}
		}
		holding.Ticker = ticker
		normalized = append(normalized, holding)
	}
	return normalized, nil
}

// seriesResult is one concurrent return-series fetch.
type seriesResult struct {
	ticker  string
	returns []float64
	err     error
}

// buildReturnSeries fetches per-holding and benchmark return series
// concurrently and folds the holdings into one weighted portfolio series.
// Holdings without history degrade to warnings; the risk stage fails only
// when no weighted holding has any history at all. A missing benchmark
// series leaves beta null.
func (s *Service) buildReturnSeries(ctx context.Context, positions []valuation.Position) ([]float64, []float64, []valuation.Warning, error) {
	weightByTicker := map[string]float64{}
	tickers := make([]string, 0, len(positions)+1)
	for _, position := range positions {
		if position.Weight > 0 {
			weightByTicker[position.Ticker] = position.Weight
			tickers = append(tickers, position.Ticker)
		}
	}

	// A zero-value portfolio has nothing to weight; risk metrics degrade
	// to zero without escalating.
	if len(tickers) == 0 {
		return nil, nil, nil, nil
	}

	// The benchmark always occupies the last slot. Results are routed by
	// slot, never by ticker, so a portfolio that holds the benchmark ticker
	// itself still gets that holding into the portfolio series.
	fetch := append(append([]string{}, tickers...), benchmarkTicker)
	benchmarkSlot := len(fetch) - 1
	results := make([]seriesResult, len(fetch))

	var wg sync.WaitGroup
	for i, ticker := range fetch {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			returns, err := s.market.GetReturnSeries(ctx, ticker, returnGranularity, returnLookback)
			results[i] = seriesResult{ticker: ticker, returns: returns, err: err}
		}(i, ticker)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	var warnings []valuation.Warning
	series := map[string][]float64{}
	var benchmark []float64
	for i, result := range results {
		if result.err != nil {
			if i == benchmarkSlot {
				s.log.Warn().Err(result.err).Msg("Benchmark return series unavailable, beta will be null")
				continue
			}
			warnings = append(warnings, valuation.Warning{
				Ticker:  result.ticker,
				Message: "return history unavailable, excluded from risk metrics",
			})
			continue
		}
		if i == benchmarkSlot {
			benchmark = result.returns
			continue
		}
		series[result.ticker] = result.returns
	}

	if len(series) == 0 {
		return nil, nil, nil, &domain.AnalysisUnavailableError{
			Stage: "risk",
			Err:   fmt.Errorf("no return history available for any holding"),
		}
	}

	return composeWeighted(series, weightByTicker), benchmark, warnings, nil
}

// composeWeighted folds per-holding return series into one portfolio series,
// aligned on the most recent overlapping periods. Weights are renormalized
// over the holdings that actually have history.
func composeWeighted(series map[string][]float64, weightByTicker map[string]float64) []float64 {
	length := -1
	totalWeight := 0.0
	for ticker, returns := range series {
		if length == -1 || len(returns) < length {
			length = len(returns)
		}
		totalWeight += weightByTicker[ticker]
	}
	if length <= 0 || totalWeight <= 0 {
		return nil
	}

	portfolio := make([]float64, length)
	for ticker, returns := range series {
		weight := weightByTicker[ticker] / totalWeight
		tail := returns[len(returns)-length:]
		for t, r := range tail {
			portfolio[t] += weight * r
		}
	}
	return portfolio
}

// buildSummary assembles the headline figures and the asset breakdown.
func (s *Service) buildSummary(valued *valuation.Result, assessment *risk.Assessment) Summary {
	summary := Summary{
		TotalValue:           valued.TotalValue,
		RiskScore:            assessment.RiskScore,
		DiversificationScore: assessment.DiversificationScore,
		Assets:               s.assetBreakdown(valued),
	}

	for _, position := range valued.Positions {
		summary.DailyChange += position.DayChange
	}
	if prior := valued.TotalValue - summary.DailyChange; prior > 0 {
		summary.DailyChangePercentage = summary.DailyChange / prior * 100
	}

	// Overall return stays null unless at least one holding has a cost
	// basis; the percentage additionally needs a positive total basis.
	overallReturn := 0.0
	costBasis := 0.0
	haveCostBasis := false
	for _, position := range valued.Positions {
		if position.TotalReturn == nil {
			continue
		}
		haveCostBasis = true
		overallReturn += *position.TotalReturn
		if position.AvgCost != nil {
			costBasis += float64(position.Shares) * *position.AvgCost
		}
	}
	if haveCostBasis {
		summary.OverallReturn = &overallReturn
		if costBasis > 0 {
			pct := overallReturn / costBasis * 100
			summary.OverallReturnPercentage = &pct
		}
	}

	return summary
}

// assetBreakdown groups position value by asset class, descending by value.
func (s *Service) assetBreakdown(valued *valuation.Result) []AssetBreakdown {
	valueByClass := map[string]float64{}
	for _, position := range valued.Positions {
		class := otherAssetClass
		if instrument, ok := s.instruments.Lookup(position.Ticker); ok && instrument.AssetClass != "" {
			class = string(instrument.AssetClass)
		}
		valueByClass[class] += position.Value
	}

	assets := make([]AssetBreakdown, 0, len(valueByClass))
	for class, value := range valueByClass {
		allocation := 0.0
		if valued.TotalValue > 0 {
			allocation = value / valued.TotalValue * 100
		}
		color, ok := assetColors[class]
		if !ok {
			color = otherAssetColor
		}
		assets = append(assets, AssetBreakdown{
			Name:       class,
			Value:      value,
			Allocation: allocation,
			Color:      color,
		})
	}

	sort.Slice(assets, func(i, j int) bool {
		if assets[i].Value != assets[j].Value {
			return assets[i].Value > assets[j].Value
		}
		return assets[i].Name < assets[j].Name
	})
	return assets
}

// IsClientError reports whether an analysis failure was caused by the
// request rather than the engine or its upstreams.
func IsClientError(err error) bool {
	var validation *domain.ValidationError
	return errors.Is(err, domain.ErrEmptyPortfolio) || errors.As(err, &validation)
}
