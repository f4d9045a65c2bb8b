package config

import (
	"fmt"
	"math"
	"os"
	"sync/atomic"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

// Policy holds the tunable analysis parameters: recommendation rule
// thresholds, risk score weighting and the benchmark sector table.
// A Policy value is immutable once loaded; reloads swap a whole new value.
type Policy struct {
	Thresholds Thresholds         `toml:"thresholds"`
	RiskScore  RiskScoreWeights   `toml:"risk_score"`
	Benchmark  map[string]float64 `toml:"benchmark"` // sector -> allocation %, sums to 100
}

// Thresholds are the recommendation rule boundaries. All comparisons in the
// rule table are strict inequalities against these values.
type Thresholds struct {
	SectorOverweight      float64 `toml:"sector_overweight"`      // rebalance when difference exceeds this (pct points)
	ConcentrationWeight   float64 `toml:"concentration_weight"`   // take-profit weight boundary (fraction of portfolio)
	TakeProfitReturn      float64 `toml:"take_profit_return"`     // take-profit total return boundary (%)
	SectorUnderweight     float64 `toml:"sector_underweight"`     // buy when difference falls below this (pct points)
	UnderweightAllocation float64 `toml:"underweight_allocation"` // buy only while portfolio allocation is below this (%)
}

// RiskScoreWeights controls the composite risk score. The three weights are
// normalized at load time; the scales map raw inputs onto the 0-10 range.
type RiskScoreWeights struct {
	Volatility      float64 `toml:"volatility"`
	Beta            float64 `toml:"beta"`
	Concentration   float64 `toml:"concentration"`
	VolatilityScale float64 `toml:"volatility_scale"` // annualized vol % that maps to a score of 10
	BetaScale       float64 `toml:"beta_scale"`       // |beta-1| that maps to a score of 10
}

// DefaultPolicy returns the built-in policy used when no policy file exists.
// The benchmark table is a broad large-cap sector weighting and sums to 100.
func DefaultPolicy() *Policy {
	return &Policy{
		Thresholds: Thresholds{
			SectorOverweight:      10.0,
			ConcentrationWeight:   0.15,
			TakeProfitReturn:      50.0,
			SectorUnderweight:     -5.0,
			UnderweightAllocation: 5.0,
		},
		RiskScore: RiskScoreWeights{
			Volatility:      0.5,
			Beta:            0.2,
			Concentration:   0.3,
			VolatilityScale: 40.0,
			BetaScale:       1.0,
		},
		Benchmark: map[string]float64{
			"Information Technology": 29.0,
			"Financials":             13.0,
			"Health Care":            12.5,
			"Consumer Discretionary": 10.5,
			"Communication Services": 9.0,
			"Industrials":            8.5,
			"Consumer Staples":       6.0,
			"Energy":                 4.0,
			"Utilities":              2.5,
			"Real Estate":            2.5,
			"Materials":              2.5,
		},
	}
}

// LoadPolicy reads a policy TOML file, falling back to defaults for any
// section the file omits. A missing file returns the default policy.
func LoadPolicy(path string) (*Policy, error) {
	policy := DefaultPolicy()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := toml.Unmarshal(data, policy); err != nil {
				return nil, fmt.Errorf("failed to parse policy file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
		}
	}

	if err := policy.validate(); err != nil {
		return nil, err
	}

	return policy, nil
}

func (p *Policy) validate() error {
	if len(p.Benchmark) == 0 {
		return fmt.Errorf("policy benchmark table is empty")
	}

	sum := 0.0
	for sector, weight := range p.Benchmark {
		if weight < 0 {
			return fmt.Errorf("benchmark weight for %s is negative", sector)
		}
		sum += weight
	}
	if math.Abs(sum-100.0) > 1e-6 {
		return fmt.Errorf("benchmark weights sum to %.6f, expected 100", sum)
	}

	total := p.RiskScore.Volatility + p.RiskScore.Beta + p.RiskScore.Concentration
	if total <= 0 {
		return fmt.Errorf("risk score weights must be positive")
	}
	// Normalize so the composite stays bounded to [0,10]
	p.RiskScore.Volatility /= total
	p.RiskScore.Beta /= total
	p.RiskScore.Concentration /= total

	if p.RiskScore.VolatilityScale <= 0 || p.RiskScore.BetaScale <= 0 {
		return fmt.Errorf("risk score scales must be positive")
	}

	return nil
}

// PolicyStore holds the active policy behind an atomic pointer so analysis
// requests read a consistent snapshot while reloads swap in a new one.
type PolicyStore struct {
	current atomic.Pointer[Policy]
	path    string
	log     zerolog.Logger
}

// NewPolicyStore loads the initial policy and returns the store.
func NewPolicyStore(path string, log zerolog.Logger) (*PolicyStore, error) {
	s := &PolicyStore{
		path: path,
		log:  log.With().Str("component", "policy").Logger(),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the active policy snapshot. Callers must not mutate it.
func (s *PolicyStore) Current() *Policy {
	return s.current.Load()
}

// Reload re-reads the policy file and atomically swaps the snapshot.
// In-flight requests keep using the snapshot they already read.
func (s *PolicyStore) Reload() error {
	policy, err := LoadPolicy(s.path)
	if err != nil {
		return err
	}

	s.current.Store(policy)
	s.log.Info().
		Str("path", s.path).
		Int("benchmark_sectors", len(policy.Benchmark)).
		Msg("Policy loaded")
	return nil
}
