// Package formulas provides the shared statistical building blocks for the
// risk and diversification calculations.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the variance of a slice of float64 values
func Variance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Variance(data, nil)
}

// Covariance calculates the covariance between two equally sized datasets
func Covariance(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 || len(x) != len(y) {
		return 0
	}
	return stat.Covariance(x, y, nil)
}

// AnnualizedVolatility calculates annualized volatility from periodic returns.
// Formula: StdDev of periodic returns × sqrt(periods per year), e.g. 252 for
// daily series and 12 for monthly series.
func AnnualizedVolatility(returns []float64, periodsPerYear float64) float64 {
	if len(returns) == 0 || periodsPerYear <= 0 {
		return 0
	}
	return StdDev(returns) * math.Sqrt(periodsPerYear)
}

// CalculateReturns converts prices to percentage returns
// Returns[i] = (Price[i] - Price[i-1]) / Price[i-1]
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// CumulativeValues compounds a periodic return series into a cumulative
// value curve starting at 1.0. The curve has len(returns)+1 points.
func CumulativeValues(returns []float64) []float64 {
	values := make([]float64, len(returns)+1)
	values[0] = 1.0
	for i, r := range returns {
		values[i+1] = values[i] * (1 + r)
	}
	return values
}

// MaxDrawdown returns the maximum peak-to-trough decline of a cumulative
// value curve, as a positive fraction (0.25 = a 25% drawdown).
// Computed as 1 - min(value[t] / max(value[0..t])).
func MaxDrawdown(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	peak := values[0]
	maxDD := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := 1 - v/peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// HHI returns the Herfindahl–Hirschman concentration index of a weight
// vector: the sum of squared weights. 1.0 means a single 100% position;
// 1/N means N equally weighted positions.
func HHI(weights []float64) float64 {
	sum := 0.0
	for _, w := range weights {
		sum += w * w
	}
	return sum
}
