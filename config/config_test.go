package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1000.0, cfg.Backtest.InitialCapital)
	assert.Equal(t, int64(1), cfg.Backtest.RandomSeed)
	assert.Equal(t, 0.40, cfg.Weights.RecentForm)
	assert.Equal(t, 0.25, cfg.Value.KellyCap)
	assert.Equal(t, 0.10, cfg.Risk.PerBetStakeCapPct)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, UnitRangeConfig{Low: 2.0, High: 3.0}, cfg.Units.Tiers.High)
	assert.Equal(t, UnitRangeConfig{Low: 0.5, High: 1.0}, cfg.Units.Tiers.Low)
}

func TestLoad_TierOverrides(t *testing.T) {
	path := writeConfig(t, `
units:
  tiers:
    medium:
      low: 1.2
      high: 1.8
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, UnitRangeConfig{Low: 1.2, High: 1.8}, cfg.Units.Tiers.Medium)
	// los tiers no mencionados conservan sus defaults
	assert.Equal(t, UnitRangeConfig{Low: 2.0, High: 3.0}, cfg.Units.Tiers.High)
	assert.Equal(t, UnitRangeConfig{Low: 1.5, High: 2.0}, cfg.Units.Tiers.MediumHigh)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
backtest:
  initial_capital: 5000
  random_seed: 99
weights:
  recent_form: 0.5
  head_to_head: 0.2
  advanced_stats: 0.1
  contextual: 0.1
  momentum: 0.1
value:
  positive_ev: 0.01
  significant_ev: 0.06
  excellent_ev: 0.12
  kelly_cap: 0.2
storage:
  dsn: ":memory:"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5000.0, cfg.Backtest.InitialCapital)
	assert.Equal(t, int64(99), cfg.Backtest.RandomSeed)
	assert.Equal(t, 0.5, cfg.Weights.RecentForm)
	assert.Equal(t, 0.06, cfg.Value.SignificantEV)
	assert.Equal(t, ":memory:", cfg.Storage.DSN)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FOOTVALUE_SEED", "1234")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, int64(1234), cfg.Backtest.RandomSeed)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"negative capital":          "backtest:\n  initial_capital: -100\n",
		"kelly cap too high":        "value:\n  positive_ev: 0.0\n  significant_ev: 0.05\n  excellent_ev: 0.10\n  kelly_cap: 1.5\n",
		"thresholds not increasing": "value:\n  positive_ev: 0.10\n  significant_ev: 0.05\n  excellent_ev: 0.01\n  kelly_cap: 0.25\n",
		"unknown log level":         "log:\n  level: noisy\n",
		"stake cap out of range":    "risk:\n  per_bet_stake_cap_pct: 2.0\n",
		"inverted tier range":       "units:\n  tiers:\n    high:\n      low: 3.0\n      high: 2.0\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}
