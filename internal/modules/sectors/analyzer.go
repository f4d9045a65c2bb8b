// Package sectors aggregates portfolio weight by sector and compares the
// allocation against a benchmark sector-weight table.
package sectors

import (
	"sort"

	"github.com/aristath/folio/internal/modules/valuation"
	"github.com/rs/zerolog"
)

// UnclassifiedSector buckets holdings whose instrument has no sector.
const UnclassifiedSector = "Unclassified"

// Entry is one sector row of the exposure comparison. Difference is always
// exactly allocation − benchmark.
type Entry struct {
	Sector     string  `json:"sector"`
	Allocation float64 `json:"allocation"` // % of portfolio value
	Benchmark  float64 `json:"benchmark"`  // % per the benchmark table
	Difference float64 `json:"difference"`
}

// Analyzer compares portfolio sector allocation against a benchmark table.
// Stateless; safe for concurrent use.
type Analyzer struct {
	log zerolog.Logger
}

// NewAnalyzer creates a sector exposure analyzer
func NewAnalyzer(log zerolog.Logger) *Analyzer {
	return &Analyzer{
		log: log.With().Str("service", "sectors").Logger(),
	}
}

// Compare groups positions by sector and emits one entry per sector present
// in either the portfolio or the benchmark, ordered by descending allocation
// with ties broken by sector name.
func (a *Analyzer) Compare(positions []valuation.Position, sectorOf func(ticker string) string, benchmark map[string]float64) []Entry {
	allocations := map[string]float64{}
	for _, position := range positions {
		sector := sectorOf(position.Ticker)
		if sector == "" {
			sector = UnclassifiedSector
		}
		allocations[sector] += position.Weight * 100
	}

	// Union of both sides; the absent side defaults to 0
	sectorSet := map[string]bool{}
	for sector := range allocations {
		sectorSet[sector] = true
	}
	for sector := range benchmark {
		sectorSet[sector] = true
	}

	entries := make([]Entry, 0, len(sectorSet))
	for sector := range sectorSet {
		allocation := allocations[sector]
		benchmarkWeight := benchmark[sector]
		entries = append(entries, Entry{
			Sector:     sector,
			Allocation: allocation,
			Benchmark:  benchmarkWeight,
			Difference: allocation - benchmarkWeight,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Allocation != entries[j].Allocation {
			return entries[i].Allocation > entries[j].Allocation
		}
		return entries[i].Sector < entries[j].Sector
	})

	return entries
}
