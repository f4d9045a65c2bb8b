package server

import (
	"encoding/json"
	"net/http"
	"sort"
)

// benchmarkEntry is one sector row of the benchmark weight table.
type benchmarkEntry struct {
	Sector string  `json:"sector"`
	Weight float64 `json:"weight"`
}

// handleBenchmark returns the active benchmark sector weights, descending
// by weight so clients can render the table directly.
func (s *Server) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	benchmark := s.policies.Current().Benchmark

	entries := make([]benchmarkEntry, 0, len(benchmark))
	for sector, weight := range benchmark {
		entries = append(entries, benchmarkEntry{Sector: sector, Weight: weight})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Weight != entries[j].Weight {
			return entries[i].Weight > entries[j].Weight
		}
		return entries[i].Sector < entries[j].Sector
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"benchmark": entries,
	}); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode benchmark response")
	}
}
