package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicyBenchmarkSumsTo100(t *testing.T) {
	policy := DefaultPolicy()
	require.NoError(t, policy.validate())

	sum := 0.0
	for _, w := range policy.Benchmark {
		sum += w
	}
	assert.InDelta(t, 100.0, sum, 1e-6)
}

func TestDefaultPolicyRiskWeightsNormalized(t *testing.T) {
	policy := DefaultPolicy()
	require.NoError(t, policy.validate())

	total := policy.RiskScore.Volatility + policy.RiskScore.Beta + policy.RiskScore.Concentration
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestLoadPolicyMissingFileUsesDefaults(t *testing.T) {
	policy, err := LoadPolicy(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)

	assert.Equal(t, 10.0, policy.Thresholds.SectorOverweight)
	assert.Equal(t, 50.0, policy.Thresholds.TakeProfitReturn)
}

func TestLoadPolicyOverridesThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.toml")
	content := `
[thresholds]
sector_overweight = 12.5
take_profit_return = 40.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	policy, err := LoadPolicy(path)
	require.NoError(t, err)

	assert.Equal(t, 12.5, policy.Thresholds.SectorOverweight)
	assert.Equal(t, 40.0, policy.Thresholds.TakeProfitReturn)
	// Untouched sections keep their defaults
	assert.Equal(t, -5.0, policy.Thresholds.SectorUnderweight)
	assert.NotEmpty(t, policy.Benchmark)
}

func TestLoadPolicyRejectsBadBenchmark(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.toml")
	content := `
[benchmark]
"Information Technology" = 60.0
"Financials" = 60.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadPolicy(path)
	assert.Error(t, err)
}

func TestPolicyStoreReloadSwapsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.toml")

	store, err := NewPolicyStore(path, zerolog.Nop())
	require.NoError(t, err)

	before := store.Current()
	assert.Equal(t, 10.0, before.Thresholds.SectorOverweight)

	content := "[thresholds]\nsector_overweight = 8.0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	require.NoError(t, store.Reload())

	assert.Equal(t, 8.0, store.Current().Thresholds.SectorOverweight)
	// The old snapshot is untouched for readers that captured it
	assert.Equal(t, 10.0, before.Thresholds.SectorOverweight)
}
