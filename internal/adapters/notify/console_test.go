package notify

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmorales/footvalue/internal/domain"
)

func testAnalysis() domain.Analysis {
	best := domain.ValueOpportunity{
		Outcome:        domain.OutcomeHomeWin,
		Probability:    0.55,
		MarketOdds:     2.0,
		FairOdds:       1.818,
		ExpectedValue:  0.10,
		KellyFraction:  0.05,
		ValueLevel:     domain.ValueSignificant,
		Recommendation: domain.RecommendConsider,
	}
	return domain.Analysis{
		Match: domain.Match{
			HomeID: "FCB", AwayID: "RMA",
			Date: time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC),
		},
		Probability: domain.MatchProbability{
			HomeWin: 0.55, Draw: 0.25, AwayWin: 0.20, Confidence: 0.72,
		},
		Opportunities: []domain.ValueOpportunity{best},
		Best:          &best,
	}
}

func TestNotifyAnalysis_Compact(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, false, false)

	require.NoError(t, c.NotifyAnalysis(context.Background(), testAnalysis()))

	out := buf.String()
	assert.Contains(t, out, "FCB vs RMA")
	assert.Contains(t, out, "HOME")
	assert.Contains(t, out, "ev+0.100")
	assert.Contains(t, out, "significant")
}

func TestNotifyAnalysis_Skipped(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, false, false)

	a := testAnalysis()
	a.Skipped = true
	a.SkipReason = "invalid market odds: odds must be > 1.0"
	a.Best = nil

	require.NoError(t, c.NotifyAnalysis(context.Background(), a))
	assert.Contains(t, buf.String(), "SKIP invalid market odds")
}

func TestNotifyAnalysis_TableMode(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, true, false)

	a := testAnalysis()
	a.RiskWarnings = []string{"odds 5.50 outside operable band [1.5, 5.0]"}

	require.NoError(t, c.NotifyAnalysis(context.Background(), a))

	out := buf.String()
	assert.Contains(t, out, "Outcome")
	assert.Contains(t, out, "Kelly")
	assert.Contains(t, out, "!! odds 5.50")
}

func TestNotifySummary(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, false, false)

	report := domain.SessionReport{
		SessionID:      "abcdef1234567890",
		Seed:           42,
		TotalFixtures:  10,
		TotalTrades:    8,
		WinningTrades:  5,
		WinRate:        0.625,
		TotalStaked:    200,
		TotalProfit:    40,
		ROIPct:         20,
		InitialCapital: 1000,
		FinalCapital:   1040,
		PeakCapital:    1060,
		MaxDrawdownPct: 4.2,
	}

	require.NoError(t, c.NotifySummary(context.Background(), report))

	out := buf.String()
	assert.Contains(t, out, "SESSION abcdef12")
	assert.Contains(t, out, "5-3")
	assert.Contains(t, out, "ROI +20.00%")
	assert.Contains(t, out, "$1000.00 → $1040.00")
}

func TestNotifySummary_Ruined(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, false, false)

	report := domain.SessionReport{SessionID: "x", Ruined: true}
	require.NoError(t, c.NotifySummary(context.Background(), report))
	assert.Contains(t, buf.String(), "BANKROLL RUINED")
}
