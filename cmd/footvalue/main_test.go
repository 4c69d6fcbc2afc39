package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmorales/footvalue/config"
	"github.com/rmorales/footvalue/internal/domain"
)

const cliFixtureJSON = `[
  {
    "home_id": "FCB",
    "away_id": "GET",
    "date": "2025-03-01",
    "home_stats": {"form": "excellent", "trend": "improving", "win_rate": 0.8, "goals_for_avg": 2.6, "goals_against_avg": 0.7, "xg_for": 2.4, "rest_days": 6, "momentum": 0.9},
    "away_stats": {"form": "poor", "trend": "declining", "win_rate": 0.1, "goals_for_avg": 0.7, "goals_against_avg": 2.1, "xg_for": 0.8, "rest_days": 3, "momentum": -0.6},
    "h2h": {"matches": 8, "home_wins": 6, "draws": 1, "away_wins": 1, "home_goals_avg": 2.2, "away_goals_avg": 0.6, "advantage": "high"},
    "context": {"match_importance": "medium", "home_pressure": "low", "away_pressure": "high", "home_advantage": 0.8},
    "odds": {"home": 2.0, "draw": 3.8, "away": 4.2},
    "actual_outcome": "home_win"
  }
]`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_BadConfigExitsOne(t *testing.T) {
	cfgPath := writeTemp(t, "config.yaml", "backtest:\n  initial_capital: -5\n")
	fixtures := writeTemp(t, "fixtures.json", cliFixtureJSON)

	code := run([]string{"-config", cfgPath, "-fixtures", fixtures})
	assert.Equal(t, exitConfig, code)
}

func TestRun_MissingFixturesExitsTwo(t *testing.T) {
	code := run([]string{"-fixtures", filepath.Join(t.TempDir(), "nope.json")})
	assert.Equal(t, exitData, code)
}

func TestRun_EmptyFixturesExitsTwo(t *testing.T) {
	fixtures := writeTemp(t, "fixtures.json", "[]")

	code := run([]string{"-fixtures", fixtures})
	assert.Equal(t, exitData, code)
}

func TestRun_CompletedSessionExitsZero(t *testing.T) {
	fixtures := writeTemp(t, "fixtures.json", cliFixtureJSON)

	code := run([]string{"-fixtures", fixtures, "-seed", "7"})
	assert.Equal(t, exitOK, code)
}

func TestSessionConfig_MapsUnitTiers(t *testing.T) {
	cfgPath := writeTemp(t, "config.yaml", `
units:
  tiers:
    high:
      low: 2.5
      high: 3.5
  max_units: 3.5
`)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	bc := sessionConfig(cfg)
	assert.Equal(t, domain.UnitRange{Low: 2.5, High: 3.5}, bc.Sizer.Tiers[domain.TierHigh])
	// los tiers no configurados conservan sus rangos por defecto
	assert.Equal(t, domain.UnitRange{Low: 1.5, High: 2.0}, bc.Sizer.Tiers[domain.TierMediumHigh])
	assert.Equal(t, domain.UnitRange{Low: 0.5, High: 1.0}, bc.Sizer.Tiers[domain.TierLow])
	assert.Equal(t, 3.5, bc.Sizer.MaxUnits)
}
