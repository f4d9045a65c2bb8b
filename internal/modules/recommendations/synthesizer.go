// Package recommendations derives typed, actionable recommendations from an
// already-computed analysis report. Every rule is a pure function of report
// fields, so each recommendation is explainable from the report alone.
package recommendations

import (
	"fmt"
	"sort"

	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/modules/sectors"
	"github.com/aristath/folio/internal/modules/valuation"
	"github.com/rs/zerolog"
)

// Type classifies a recommendation.
type Type string

const (
	TypeBuy       Type = "buy"
	TypeSell      Type = "sell"
	TypeHold      Type = "hold"
	TypeRebalance Type = "rebalance"
)

// Recommendation is one actionable suggestion with its rationale.
type Recommendation struct {
	Type        Type     `json:"type"`
	Description string   `json:"description"`
	Rationale   string   `json:"rationale"`
	Tickers     []string `json:"tickers,omitempty"`
}

// maxNamedTickers bounds how many contributing tickers a rule names.
const maxNamedTickers = 3

// Synthesizer evaluates the rule table in fixed priority order. Each rule
// fires at most one recommendation. When nothing fires, nothing is emitted;
// absence of signal is not padded with hold entries.
type Synthesizer struct {
	log zerolog.Logger
}

// NewSynthesizer creates a recommendation synthesizer
func NewSynthesizer(log zerolog.Logger) *Synthesizer {
	return &Synthesizer{
		log: log.With().Str("service", "recommendations").Logger(),
	}
}

// Synthesize runs the rules over the computed report sections. Thresholds
// come from the active policy; every comparison is a strict inequality.
func (s *Synthesizer) Synthesize(sectorExposure []sectors.Entry, positions []valuation.Position, sectorOf func(ticker string) string, thresholds config.Thresholds) []Recommendation {
	recommendations := []Recommendation{}

	if rec := s.overweightSectorRule(sectorExposure, positions, sectorOf, thresholds); rec != nil {
		recommendations = append(recommendations, *rec)
	}
	if rec := s.takeProfitRule(positions, thresholds); rec != nil {
		recommendations = append(recommendations, *rec)
	}
	if rec := s.underweightSectorRule(sectorExposure, thresholds); rec != nil {
		recommendations = append(recommendations, *rec)
	}

	return recommendations
}

// overweightSectorRule: a sector more than SectorOverweight points above its
// benchmark weight triggers a rebalance naming the largest contributors.
func (s *Synthesizer) overweightSectorRule(sectorExposure []sectors.Entry, positions []valuation.Position, sectorOf func(ticker string) string, thresholds config.Thresholds) *Recommendation {
	var worst *sectors.Entry
	for i := range sectorExposure {
		entry := &sectorExposure[i]
		if entry.Difference > thresholds.SectorOverweight {
			if worst == nil || entry.Difference > worst.Difference {
				worst = entry
			}
		}
	}
	if worst == nil {
		return nil
	}

	return &Recommendation{
		Type: TypeRebalance,
		Description: fmt.Sprintf("Reduce exposure to %s: the sector is %.1f points above its benchmark weight",
			worst.Sector, worst.Difference),
		Rationale: fmt.Sprintf("%s holds %.1f%% of the portfolio versus a %.1f%% benchmark weight",
			worst.Sector, worst.Allocation, worst.Benchmark),
		Tickers: largestContributors(positions, worst.Sector, sectorOf),
	}
}

// takeProfitRule: a single holding that is both heavily weighted and deep in
// profit suggests taking some off the table.
func (s *Synthesizer) takeProfitRule(positions []valuation.Position, thresholds config.Thresholds) *Recommendation {
	var candidate *valuation.Position
	for i := range positions {
		position := &positions[i]
		if position.TotalReturnPercent == nil {
			continue
		}
		if position.Weight > thresholds.ConcentrationWeight && *position.TotalReturnPercent > thresholds.TakeProfitReturn {
			if candidate == nil || position.Weight > candidate.Weight {
				candidate = position
			}
		}
	}
	if candidate == nil {
		return nil
	}

	return &Recommendation{
		Type:        TypeSell,
		Description: fmt.Sprintf("Consider taking profit on %s", candidate.Ticker),
		Rationale: fmt.Sprintf("%s is %.1f%% of the portfolio with a %.1f%% total return",
			candidate.Ticker, candidate.Weight*100, *candidate.TotalReturnPercent),
		Tickers: []string{candidate.Ticker},
	}
}

// underweightSectorRule: a benchmark sector the portfolio barely touches
// suggests adding exposure. Ticker selection is deliberately left out.
func (s *Synthesizer) underweightSectorRule(sectorExposure []sectors.Entry, thresholds config.Thresholds) *Recommendation {
	var worst *sectors.Entry
	for i := range sectorExposure {
		entry := &sectorExposure[i]
		if entry.Difference < thresholds.SectorUnderweight && entry.Allocation < thresholds.UnderweightAllocation {
			if worst == nil || entry.Difference < worst.Difference {
				worst = entry
			}
		}
	}
	if worst == nil {
		return nil
	}

	return &Recommendation{
		Type:        TypeBuy,
		Description: fmt.Sprintf("Increase exposure to %s", worst.Sector),
		Rationale: fmt.Sprintf("%s is %.1f points below its %.1f%% benchmark weight",
			worst.Sector, -worst.Difference, worst.Benchmark),
	}
}

// largestContributors returns up to maxNamedTickers tickers in the sector,
// by descending weight with ties broken by ticker.
func largestContributors(positions []valuation.Position, sector string, sectorOf func(ticker string) string) []string {
	var inSector []valuation.Position
	for _, position := range positions {
		if sectorOf(position.Ticker) == sector {
			inSector = append(inSector, position)
		}
	}

	sort.Slice(inSector, func(i, j int) bool {
		if inSector[i].Weight != inSector[j].Weight {
			return inSector[i].Weight > inSector[j].Weight
		}
		return inSector[i].Ticker < inSector[j].Ticker
	})

	if len(inSector) > maxNamedTickers {
		inSector = inSector[:maxNamedTickers]
	}

	tickers := make([]string, 0, len(inSector))
	for _, position := range inSector {
		tickers = append(tickers, position.Ticker)
	}
	return tickers
}
