package recommendations

import (
	"testing"

	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/modules/sectors"
	"github.com/aristath/folio/internal/modules/valuation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultThresholds() config.Thresholds {
	return config.DefaultPolicy().Thresholds
}

func sectorTable(table map[string]string) func(string) string {
	return func(ticker string) string { return table[ticker] }
}

func floatPtr(v float64) *float64 { return &v }

func TestOverweightSectorFiresAboveThreshold(t *testing.T) {
	synthesizer := NewSynthesizer(zerolog.Nop())

	exposure := []sectors.Entry{
		{Sector: "Information Technology", Allocation: 45.0, Benchmark: 29.0, Difference: 16.0},
		{Sector: "Financials", Allocation: 55.0, Benchmark: 13.0, Difference: 42.0},
	}
	positions := []valuation.Position{
		{Ticker: "JPM", Weight: 0.30},
		{Ticker: "BAC", Weight: 0.15},
		{Ticker: "V", Weight: 0.10},
		{Ticker: "AAPL", Weight: 0.45},
	}
	sectorOf := sectorTable(map[string]string{
		"JPM": "Financials", "BAC": "Financials", "V": "Financials",
		"AAPL": "Information Technology",
	})

	recommendations := synthesizer.Synthesize(exposure, positions, sectorOf, defaultThresholds())

	require.Len(t, recommendations, 1)
	rec := recommendations[0]
	assert.Equal(t, TypeRebalance, rec.Type)
	assert.Contains(t, rec.Description, "Financials")
	assert.Equal(t, []string{"JPM", "BAC", "V"}, rec.Tickers)
}

func TestOverweightSectorBoundaryDoesNotFire(t *testing.T) {
	synthesizer := NewSynthesizer(zerolog.Nop())

	// Exactly at the threshold: strict inequality, must not fire
	exposure := []sectors.Entry{
		{Sector: "Energy", Allocation: 14.0, Benchmark: 4.0, Difference: 10.0},
	}
	positions := []valuation.Position{{Ticker: "XOM", Weight: 0.14}}

	recommendations := synthesizer.Synthesize(exposure, positions,
		sectorTable(map[string]string{"XOM": "Energy"}), defaultThresholds())

	assert.Empty(t, recommendations)
}

func TestOverweightPicksWorstOffender(t *testing.T) {
	synthesizer := NewSynthesizer(zerolog.Nop())

	exposure := []sectors.Entry{
		{Sector: "Information Technology", Allocation: 41.0, Benchmark: 29.0, Difference: 12.0},
		{Sector: "Energy", Allocation: 24.0, Benchmark: 4.0, Difference: 20.0},
	}
	positions := []valuation.Position{
		{Ticker: "AAPL", Weight: 0.41},
		{Ticker: "XOM", Weight: 0.24},
	}
	sectorOf := sectorTable(map[string]string{
		"AAPL": "Information Technology",
		"XOM":  "Energy",
	})

	recommendations := synthesizer.Synthesize(exposure, positions, sectorOf, defaultThresholds())

	require.Len(t, recommendations, 1)
	assert.Contains(t, recommendations[0].Description, "Energy")
	assert.Equal(t, []string{"XOM"}, recommendations[0].Tickers)
}

func TestOverweightNamesAtMostThreeTickers(t *testing.T) {
	synthesizer := NewSynthesizer(zerolog.Nop())

	exposure := []sectors.Entry{
		{Sector: "Financials", Allocation: 60.0, Benchmark: 13.0, Difference: 47.0},
	}
	positions := []valuation.Position{
		{Ticker: "JPM", Weight: 0.25},
		{Ticker: "BAC", Weight: 0.15},
		{Ticker: "V", Weight: 0.12},
		{Ticker: "GS", Weight: 0.08},
	}
	sectorOf := sectorTable(map[string]string{
		"JPM": "Financials", "BAC": "Financials", "V": "Financials", "GS": "Financials",
	})

	recommendations := synthesizer.Synthesize(exposure, positions, sectorOf, defaultThresholds())

	require.Len(t, recommendations, 1)
	assert.Equal(t, []string{"JPM", "BAC", "V"}, recommendations[0].Tickers)
}

func TestTakeProfitRequiresBothConditions(t *testing.T) {
	synthesizer := NewSynthesizer(zerolog.Nop())

	// Heavy weight but modest gain, and big gain but small weight: neither fires
	positions := []valuation.Position{
		{Ticker: "AAPL", Weight: 0.40, TotalReturnPercent: floatPtr(20.0)},
		{Ticker: "NVDA", Weight: 0.05, TotalReturnPercent: floatPtr(300.0)},
		{Ticker: "KO", Weight: 0.55, TotalReturnPercent: nil},
	}

	recommendations := synthesizer.Synthesize(nil, positions, sectorTable(nil), defaultThresholds())
	assert.Empty(t, recommendations)

	// Both conditions strictly exceeded fires a sell
	positions[0].TotalReturnPercent = floatPtr(80.0)
	recommendations = synthesizer.Synthesize(nil, positions, sectorTable(nil), defaultThresholds())

	require.Len(t, recommendations, 1)
	assert.Equal(t, TypeSell, recommendations[0].Type)
	assert.Equal(t, []string{"AAPL"}, recommendations[0].Tickers)
}

func TestTakeProfitBoundaryDoesNotFire(t *testing.T) {
	synthesizer := NewSynthesizer(zerolog.Nop())
	thresholds := defaultThresholds()

	positions := []valuation.Position{
		{Ticker: "AAPL", Weight: thresholds.ConcentrationWeight, TotalReturnPercent: floatPtr(thresholds.TakeProfitReturn)},
	}

	recommendations := synthesizer.Synthesize(nil, positions, sectorTable(nil), thresholds)
	assert.Empty(t, recommendations)
}

func TestUnderweightSectorFires(t *testing.T) {
	synthesizer := NewSynthesizer(zerolog.Nop())

	exposure := []sectors.Entry{
		{Sector: "Health Care", Allocation: 2.0, Benchmark: 12.5, Difference: -10.5},
	}

	recommendations := synthesizer.Synthesize(exposure, nil, sectorTable(nil), defaultThresholds())

	require.Len(t, recommendations, 1)
	rec := recommendations[0]
	assert.Equal(t, TypeBuy, rec.Type)
	assert.Contains(t, rec.Description, "Health Care")
	assert.Empty(t, rec.Tickers)
}

func TestUnderweightRequiresLowAllocation(t *testing.T) {
	synthesizer := NewSynthesizer(zerolog.Nop())

	// Big shortfall but allocation is not below the floor: no recommendation
	exposure := []sectors.Entry{
		{Sector: "Information Technology", Allocation: 20.0, Benchmark: 29.0, Difference: -9.0},
		{Sector: "Health Care", Allocation: 6.0, Benchmark: 12.5, Difference: -6.5},
	}

	recommendations := synthesizer.Synthesize(exposure, nil, sectorTable(nil), defaultThresholds())
	assert.Empty(t, recommendations)
}

func TestMultipleRulesFireIndependently(t *testing.T) {
	synthesizer := NewSynthesizer(zerolog.Nop())

	exposure := []sectors.Entry{
		{Sector: "Information Technology", Allocation: 60.0, Benchmark: 29.0, Difference: 31.0},
		{Sector: "Health Care", Allocation: 1.0, Benchmark: 12.5, Difference: -11.5},
	}
	positions := []valuation.Position{
		{Ticker: "NVDA", Weight: 0.60, TotalReturnPercent: floatPtr(120.0)},
	}
	sectorOf := sectorTable(map[string]string{"NVDA": "Information Technology"})

	recommendations := synthesizer.Synthesize(exposure, positions, sectorOf, defaultThresholds())

	require.Len(t, recommendations, 3)
	assert.Equal(t, TypeRebalance, recommendations[0].Type)
	assert.Equal(t, TypeSell, recommendations[1].Type)
	assert.Equal(t, TypeBuy, recommendations[2].Type)
}

func TestNoPaddingWhenNothingFires(t *testing.T) {
	synthesizer := NewSynthesizer(zerolog.Nop())

	recommendations := synthesizer.Synthesize(nil, nil, sectorTable(nil), defaultThresholds())

	assert.NotNil(t, recommendations)
	assert.Empty(t, recommendations)
}
