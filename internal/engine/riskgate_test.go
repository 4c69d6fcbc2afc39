package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmorales/footvalue/internal/domain"
)

func healthyState() domain.BankrollState {
	return domain.BankrollState{
		InitialCapital: 1000, CurrentCapital: 1000, PeakCapital: 1000,
	}
}

func goodOpportunity() domain.ValueOpportunity {
	return domain.ValueOpportunity{
		Outcome: domain.OutcomeHomeWin, Probability: 0.5, MarketOdds: 2.3,
		ExpectedValue: 0.15, KellyFraction: 0.06, Confidence: 0.8,
		Recommendation: domain.RecommendBet,
	}
}

func someRecommendation(stake float64) domain.UnitRecommendation {
	return domain.UnitRecommendation{
		RecommendedUnits: stake / 10, UnitValue: 10, TotalStake: stake,
	}
}

func TestRiskGate_CriticalDrawdownHalt(t *testing.T) {
	g := NewRiskGate(0.10)
	state := healthyState()
	state.DrawdownPct = 32

	rec := someRecommendation(20)
	d := g.Check(state, goodOpportunity(), &rec)
	assert.False(t, d.Approved)
	assert.Equal(t, "critical-drawdown-halt", d.RejectReason)
}

func TestRiskGate_ClipsOversizedStake(t *testing.T) {
	g := NewRiskGate(0.10)
	rec := someRecommendation(250) // 25% de la banca

	d := g.Check(healthyState(), goodOpportunity(), &rec)
	require.True(t, d.Approved)
	assert.True(t, d.Clipped)
	assert.InDelta(t, 100, rec.TotalStake, 1e-9)
	// la invariante stake = units · unit_value se conserva tras el clip
	assert.InDelta(t, rec.TotalStake, rec.RecommendedUnits*rec.UnitValue, 1e-9)
	require.Len(t, d.Warnings, 1)
	assert.Contains(t, d.Warnings[0], "clipped")
}

func TestRiskGate_DowngradesMarginalEV(t *testing.T) {
	g := NewRiskGate(0.10)
	opp := goodOpportunity()
	opp.ExpectedValue = 0.03
	opp.Recommendation = domain.RecommendConsider

	rec := someRecommendation(20)
	d := g.Check(healthyState(), opp, &rec)
	assert.False(t, d.Approved)
	assert.True(t, d.Downgraded)
}

func TestRiskGate_StrongBetSurvivesLowEV(t *testing.T) {
	g := NewRiskGate(0.10)
	opp := goodOpportunity()
	opp.ExpectedValue = 0.04
	opp.Recommendation = domain.RecommendStrongBet

	rec := someRecommendation(20)
	d := g.Check(healthyState(), opp, &rec)
	assert.True(t, d.Approved)
}

func TestRiskGate_ExtremeProbabilityWarns(t *testing.T) {
	g := NewRiskGate(0.10)
	opp := goodOpportunity()
	opp.Probability = 0.85

	rec := someRecommendation(20)
	d := g.Check(healthyState(), opp, &rec)
	assert.True(t, d.Approved, "probabilidad extrema avisa, no rechaza")
	require.Len(t, d.Warnings, 1)
	assert.Contains(t, d.Warnings[0], "extreme probability")
}

func TestRiskGate_OddsBandWarns(t *testing.T) {
	g := NewRiskGate(0.10)

	opp := goodOpportunity()
	opp.MarketOdds = 1.3
	rec := someRecommendation(20)
	d := g.Check(healthyState(), opp, &rec)
	assert.True(t, d.Approved)
	require.Len(t, d.Warnings, 1)

	opp.MarketOdds = 6.0
	rec = someRecommendation(20)
	d = g.Check(healthyState(), opp, &rec)
	assert.True(t, d.Approved)
	require.Len(t, d.Warnings, 1)
}

func TestRiskGate_RuleOrder(t *testing.T) {
	// critical gana a todo: ni clip ni warnings cuando se rechaza
	g := NewRiskGate(0.10)
	state := healthyState()
	state.DrawdownPct = 40

	opp := goodOpportunity()
	opp.MarketOdds = 8.0
	rec := someRecommendation(500)
	d := g.Check(state, opp, &rec)
	assert.False(t, d.Approved)
	assert.Empty(t, d.Warnings)
	assert.InDelta(t, 500, rec.TotalStake, 1e-9, "el stake no se toca en un rechazo por halt")
}
