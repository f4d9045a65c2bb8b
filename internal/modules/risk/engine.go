// Package risk computes portfolio volatility, risk-adjusted return metrics,
// drawdown statistics and the composite risk and diversification scores.
package risk

import (
	"math"

	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/pkg/formulas"
	"github.com/rs/zerolog"
)

// Drawdown is the maximum peak-to-trough decline within one lookback window.
type Drawdown struct {
	Period     string  `json:"period"`
	Percentage float64 `json:"percentage"`
}

// Analysis is the risk section of the portfolio report.
type Analysis struct {
	Volatility  float64    `json:"volatility"` // annualized stdev of periodic returns, in %
	SharpeRatio float64    `json:"sharpeRatio"`
	BetaToSP500 *float64   `json:"betaToSP500"` // null when the benchmark variance is 0
	Drawdowns   []Drawdown `json:"drawdowns"`
}

// Assessment bundles the risk analysis with the two composite scores.
type Assessment struct {
	Analysis             Analysis
	RiskScore            float64
	DiversificationScore float64
}

// drawdownWindow is one reporting window, in periods of the configured
// granularity. Windows without enough history are omitted, not fabricated.
type drawdownWindow struct {
	label   string
	periods int
}

// Engine computes risk and diversification metrics. Stateless; safe for
// concurrent use.
type Engine struct {
	riskFreeRate float64 // annualized, as a fraction (0.02 = 2%)
	granularity  domain.Granularity
	log          zerolog.Logger
}

// NewEngine creates a risk engine
func NewEngine(riskFreeRate float64, granularity domain.Granularity, log zerolog.Logger) *Engine {
	return &Engine{
		riskFreeRate: riskFreeRate,
		granularity:  granularity,
		log:          log.With().Str("service", "risk").Logger(),
	}
}

// Assess computes the full risk assessment from holding weights and the
// portfolio and benchmark periodic return series (oldest first).
func (e *Engine) Assess(weights, portfolioReturns, benchmarkReturns []float64, scoring config.RiskScoreWeights) *Assessment {
	periodsPerYear := e.granularity.PeriodsPerYear()

	volatilityFraction := formulas.AnnualizedVolatility(portfolioReturns, periodsPerYear)
	volatility := volatilityFraction * 100

	sharpe := 0.0
	if volatilityFraction > 0 {
		annualizedMean := formulas.Mean(portfolioReturns) * periodsPerYear
		sharpe = (annualizedMean - e.riskFreeRate) / volatilityFraction
	}

	beta := e.beta(portfolioReturns, benchmarkReturns)
	hhi := formulas.HHI(weights)

	// A portfolio with no invested weight is not diversified, it is empty;
	// its HHI of 0 must not read as maximal spread.
	diversification := 0.0
	if totalWeight(weights) > 0 {
		diversification = clampScore(10 * (1 - hhi))
	}

	return &Assessment{
		Analysis: Analysis{
			Volatility:  volatility,
			SharpeRatio: sharpe,
			BetaToSP500: beta,
			Drawdowns:   e.drawdowns(portfolioReturns),
		},
		RiskScore:            e.riskScore(volatility, beta, hhi, scoring),
		DiversificationScore: diversification,
	}
}

func totalWeight(weights []float64) float64 {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	return sum
}

// beta returns cov(portfolio, benchmark) / var(benchmark), aligned on the
// most recent overlapping periods. Undefined betas are nil, never NaN.
func (e *Engine) beta(portfolioReturns, benchmarkReturns []float64) *float64 {
	n := len(portfolioReturns)
	if len(benchmarkReturns) < n {
		n = len(benchmarkReturns)
	}
	if n < 2 {
		return nil
	}

	p := portfolioReturns[len(portfolioReturns)-n:]
	b := benchmarkReturns[len(benchmarkReturns)-n:]

	variance := formulas.Variance(b)
	if variance == 0 {
		return nil
	}

	beta := formulas.Covariance(p, b) / variance
	return &beta
}

// drawdowns reports the max drawdown per lookback window, omitting windows
// the return history cannot cover.
func (e *Engine) drawdowns(returns []float64) []Drawdown {
	if len(returns) == 0 {
		return []Drawdown{}
	}

	periodsPerYear := int(e.granularity.PeriodsPerYear())
	windows := []drawdownWindow{
		{label: "Max", periods: len(returns)},
		{label: "1Y", periods: periodsPerYear},
		{label: "6M", periods: periodsPerYear / 2},
		{label: "3M", periods: periodsPerYear / 4},
	}

	drawdowns := make([]Drawdown, 0, len(windows))
	for _, window := range windows {
		if len(returns) < window.periods || window.periods == 0 {
			continue
		}
		tail := returns[len(returns)-window.periods:]
		dd := formulas.MaxDrawdown(formulas.CumulativeValues(tail))
		drawdowns = append(drawdowns, Drawdown{
			Period:     window.label,
			Percentage: dd * 100,
		})
	}
	return drawdowns
}

// riskScore is the weighted composite of normalized volatility, beta
// deviation from 1 and concentration. Monotonic in each input and bounded
// to [0,10]; the weighting itself is policy, not law.
func (e *Engine) riskScore(volatility float64, beta *float64, hhi float64, scoring config.RiskScoreWeights) float64 {
	volScore := clampScore(volatility / scoring.VolatilityScale * 10)

	betaScore := 0.0
	if beta != nil {
		betaScore = clampScore(math.Abs(*beta-1) / scoring.BetaScale * 10)
	}

	concentrationScore := clampScore(hhi * 10)

	composite := scoring.Volatility*volScore +
		scoring.Beta*betaScore +
		scoring.Concentration*concentrationScore
	return clampScore(composite)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
