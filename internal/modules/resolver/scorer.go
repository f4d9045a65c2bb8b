package resolver

import "strings"

// Scorer ranks how well a normalized input matches a candidate ticker.
// Higher is better; 0 means no similarity at all. Implementations must be
// deterministic so suggestion ordering is reproducible.
type Scorer interface {
	Score(input, candidate string) float64
}

// HeuristicScorer is the default ranking: a prefix match always outranks
// substring containment, which always outranks mere character overlap.
// Within each band, tighter matches (input covering more of the candidate)
// score higher.
type HeuristicScorer struct{}

// NewHeuristicScorer creates the default scorer.
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

// Score implements Scorer. Both arguments are expected to be normalized
// (uppercase alphanumeric).
func (s *HeuristicScorer) Score(input, candidate string) float64 {
	if input == "" || candidate == "" {
		return 0
	}
	if input == candidate {
		return 4
	}

	coverage := float64(len(input)) / float64(len(candidate))
	if coverage > 1 {
		coverage = float64(len(candidate)) / float64(len(input))
	}

	if strings.HasPrefix(candidate, input) || strings.HasPrefix(input, candidate) {
		return 3 + coverage
	}
	if strings.Contains(candidate, input) || strings.Contains(input, candidate) {
		return 2 + coverage
	}

	return sharedCharacterRatio(input, candidate)
}

// sharedCharacterRatio returns the fraction of distinct input characters
// that also appear in the candidate, in (0,1] when any overlap exists.
func sharedCharacterRatio(input, candidate string) float64 {
	inputSet := map[rune]bool{}
	for _, r := range input {
		inputSet[r] = true
	}
	candidateSet := map[rune]bool{}
	for _, r := range candidate {
		candidateSet[r] = true
	}

	shared := 0
	for r := range inputSet {
		if candidateSet[r] {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}
	return float64(shared) / float64(len(inputSet))
}
