// Package resolver turns free-text ticker input into a validated canonical
// instrument, with ranked suggestions when the input matches nothing.
package resolver

import (
	"sort"
	"strings"

	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
)

// MaxSuggestions is the number of candidates returned for an unresolved input.
const MaxSuggestions = 5

// Suggestion is one ranked candidate for an unresolved input.
type Suggestion struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"companyName"`
	Exchange    string `json:"exchange"`
}

// ResolutionResult is the outcome of resolving raw ticker input. On an exact
// match the instrument fields are flattened into the result; otherwise
// Suggestions carries up to MaxSuggestions ranked candidates.
type ResolutionResult struct {
	Valid bool `json:"valid"`
	*domain.Instrument
	Suggestions []Suggestion `json:"suggestions"`
}

// Resolver validates ticker input against the instrument directory.
// Resolve is a pure function of (input, directory snapshot) and is safe for
// concurrent use.
type Resolver struct {
	directory domain.InstrumentSource
	scorer    Scorer
	log       zerolog.Logger
}

// New creates a resolver over the given directory with the default scorer.
func New(directory domain.InstrumentSource, log zerolog.Logger) *Resolver {
	return NewWithScorer(directory, NewHeuristicScorer(), log)
}

// NewWithScorer creates a resolver with a custom ranking strategy.
func NewWithScorer(directory domain.InstrumentSource, scorer Scorer, log zerolog.Logger) *Resolver {
	return &Resolver{
		directory: directory,
		scorer:    scorer,
		log:       log.With().Str("service", "resolver").Logger(),
	}
}

// Normalize canonicalizes raw ticker input: trim, uppercase, and strip
// every non-alphanumeric character.
func Normalize(raw string) string {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	var b strings.Builder
	b.Grow(len(upper))
	for _, r := range upper {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Resolve validates raw input against the directory snapshot. Blank input
// short-circuits without scanning the directory.
func (r *Resolver) Resolve(raw string) ResolutionResult {
	input := Normalize(raw)
	if input == "" {
		return ResolutionResult{Valid: false, Suggestions: []Suggestion{}}
	}

	if instrument, ok := r.directory.Lookup(input); ok {
		return ResolutionResult{
			Valid:       true,
			Instrument:  &instrument,
			Suggestions: []Suggestion{},
		}
	}

	return ResolutionResult{
		Valid:       false,
		Suggestions: r.suggest(input),
	}
}

type scoredCandidate struct {
	instrument domain.Instrument
	score      float64
}

// suggest ranks the full directory against the input and returns the top
// candidates, ordered by descending score with ties broken by ticker.
// Zero-score candidates stay in the ranking so the result is never empty
// for a non-empty directory.
func (r *Resolver) suggest(input string) []Suggestion {
	candidates := make([]scoredCandidate, 0, len(r.directory.All()))
	for _, instrument := range r.directory.All() {
		candidates = append(candidates, scoredCandidate{
			instrument: instrument,
			score:      r.scorer.Score(input, instrument.Ticker),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].instrument.Ticker < candidates[j].instrument.Ticker
	})

	if len(candidates) > MaxSuggestions {
		candidates = candidates[:MaxSuggestions]
	}

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, c := range candidates {
		suggestions = append(suggestions, Suggestion{
			Ticker:      c.instrument.Ticker,
			CompanyName: c.instrument.CompanyName,
			Exchange:    c.instrument.Exchange,
		})
	}
	return suggestions
}
