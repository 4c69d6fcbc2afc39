package source_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmorales/footvalue/internal/adapters/source"
	"github.com/rmorales/footvalue/internal/domain"
)

const fixtureJSON = `[
  {
    "home_id": "FCB",
    "away_id": "RMA",
    "date": "2025-03-01",
    "competition": "liga",
    "home_stats": {"form": "excellent", "trend": "improving", "win_rate": 0.8, "goals_for_avg": 2.4, "xg_for": 2.2, "rest_days": 6, "momentum": 0.7},
    "away_stats": {"form": "good", "trend": "stable", "win_rate": 0.6, "goals_for_avg": 1.9, "xg_for": 1.8, "rest_days": 4, "momentum": 0.2},
    "h2h": {"matches": 10, "home_wins": 4, "draws": 3, "away_wins": 3, "home_goals_avg": 1.8, "away_goals_avg": 1.5, "advantage": "medium"},
    "context": {"match_importance": "high", "home_pressure": "medium", "away_pressure": "high", "home_advantage": 0.7},
    "odds": {"home": 2.1, "draw": 3.4, "away": 3.5},
    "actual_outcome": "home_win"
  },
  {
    "home_id": "SEV",
    "away_id": "BET",
    "date": "2025-03-02T18:30:00Z",
    "home_stats": {"win_rate": 0.5},
    "away_stats": {"win_rate": 0.4},
    "h2h": {"matches": 0},
    "context": {"home_advantage": 0.5, "neutral": true},
    "odds": {"home": 2.5, "draw": 3.1, "away": 2.9}
  }
]`

func writeFixtures(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFile_Load(t *testing.T) {
	src := source.NewFile(writeFixtures(t, fixtureJSON))

	fixtures, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, fixtures, 2)

	first := fixtures[0]
	assert.Equal(t, "FCB", first.Match.HomeID)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), first.Match.Date)
	assert.Equal(t, "excellent", first.HomeStats.Form)
	assert.Equal(t, 10, first.H2H.Matches)
	assert.Equal(t, 2.1, first.MarketOdds.Home)
	require.NotNil(t, first.ActualOutcome)
	assert.Equal(t, domain.OutcomeHomeWin, *first.ActualOutcome)

	// el segundo no tiene etiqueta: lo resolverá el sampler de mercado
	second := fixtures[1]
	assert.Nil(t, second.ActualOutcome)
	assert.True(t, second.Contextual.Neutral)
	assert.Equal(t, 18, second.Match.Date.Hour())
}

func TestFile_Load_PreservesOrder(t *testing.T) {
	src := source.NewFile(writeFixtures(t, fixtureJSON))

	fixtures, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "FCB", fixtures[0].Match.HomeID)
	assert.Equal(t, "SEV", fixtures[1].Match.HomeID)
}

func TestFile_Load_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := source.NewFile("/does/not/exist.json").Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := source.NewFile(writeFixtures(t, "{not json")).Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("missing teams", func(t *testing.T) {
		_, err := source.NewFile(writeFixtures(t, `[{"date": "2025-03-01"}]`)).Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("bad outcome label", func(t *testing.T) {
		bad := `[{"home_id": "A", "away_id": "B", "date": "2025-03-01",
			"home_stats": {}, "away_stats": {}, "h2h": {}, "context": {},
			"odds": {"home": 2.0, "draw": 3.0, "away": 4.0},
			"actual_outcome": "who_knows"}]`
		_, err := source.NewFile(writeFixtures(t, bad)).Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("bad date", func(t *testing.T) {
		bad := `[{"home_id": "A", "away_id": "B", "date": "01/03/2025",
			"home_stats": {}, "away_stats": {}, "h2h": {}, "context": {},
			"odds": {"home": 2.0, "draw": 3.0, "away": 4.0}}]`
		_, err := source.NewFile(writeFixtures(t, bad)).Load(context.Background())
		assert.Error(t, err)
	})
}
