package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmorales/footvalue/internal/domain"
)

func newSizer(t *testing.T) *UnitSizer {
	t.Helper()
	s, err := NewUnitSizer(DefaultUnitSizerConfig())
	require.NoError(t, err)
	return s
}

func neutralState() domain.BankrollState {
	return domain.BankrollState{
		InitialCapital: 1000,
		CurrentCapital: 1000,
		PeakCapital:    1000,
	}
}

func TestRecommend_HighTierScenario(t *testing.T) {
	// banca 1000, confianza 0.88 (high, base 2.5), EV 0.12, resto neutro
	s := newSizer(t)
	rec := s.Recommend(domain.ValueOpportunity{
		Outcome: domain.OutcomeHomeWin, Confidence: 0.88, ExpectedValue: 0.12,
	}, neutralState())

	assert.Equal(t, domain.TierHigh, rec.ConfidenceTier)
	// ev factor 1.1 empuja 2.5 → 2.75
	assert.InDelta(t, 2.75, rec.RecommendedUnits, 1e-9)
	assert.InDelta(t, 10.0, rec.UnitValue, 1e-9)
	assert.InDelta(t, 27.5, rec.TotalStake, 1e-9)
	assert.Equal(t, 1.1, rec.AdjustmentFactors["ev"])
}

func TestRecommend_NeutralFactorsScenario(t *testing.T) {
	// confianza 0.88, EV en zona neutra (0.05..0.10] → todos los factores 1.0
	s := newSizer(t)
	rec := s.Recommend(domain.ValueOpportunity{
		Outcome: domain.OutcomeHomeWin, Confidence: 0.88, ExpectedValue: 0.08,
	}, neutralState())

	assert.InDelta(t, 2.5, rec.RecommendedUnits, 1e-9)
	assert.InDelta(t, 25.0, rec.TotalStake, 1e-9)
	for name, f := range rec.AdjustmentFactors {
		assert.Equal(t, 1.0, f, "factor %s", name)
	}
	// solo el razonamiento del tier: ningún factor no-unitario
	assert.Len(t, rec.Reasoning, 1)
}

func TestRecommend_LosingStreakScenario(t *testing.T) {
	// racha perdedora de 5 (factor 1.1), EV 0.08
	// (factor 1.0), confianza 0.72 (medium, base 1.25) → 1.375 unidades
	s := newSizer(t)
	state := neutralState()
	state.LossStreak = 5

	rec := s.Recommend(domain.ValueOpportunity{
		Outcome: domain.OutcomeDraw, Confidence: 0.72, ExpectedValue: 0.08,
	}, state)

	assert.Equal(t, domain.TierMedium, rec.ConfidenceTier)
	assert.InDelta(t, 1.375, rec.RecommendedUnits, 1e-9)
	assert.InDelta(t, 13.75, rec.TotalStake, 1e-9)
	assert.Equal(t, 1.1, rec.AdjustmentFactors["streak"])
	// un string de razonamiento por factor no-unitario + tier
	assert.Len(t, rec.Reasoning, 2)
}

func TestRecommend_StakeInvariant(t *testing.T) {
	// total_stake = units · capital · 1% para distintos estados
	s := newSizer(t)
	states := []domain.BankrollState{
		neutralState(),
		{InitialCapital: 1000, CurrentCapital: 1300, PeakCapital: 1300, RollingROI: 0.2, WinStreak: 4},
		{InitialCapital: 1000, CurrentCapital: 800, PeakCapital: 1100, RollingROI: -0.2, LossStreak: 4},
	}
	for _, state := range states {
		rec := s.Recommend(domain.ValueOpportunity{Confidence: 0.78, ExpectedValue: 0.09}, state)
		assert.InDelta(t, rec.RecommendedUnits*state.CurrentCapital*0.01, rec.TotalStake, 1e-9)
		assert.GreaterOrEqual(t, rec.RecommendedUnits, 0.5)
		assert.LessOrEqual(t, rec.RecommendedUnits, 3.0)
	}
}

func TestRecommend_FactorsCompound(t *testing.T) {
	// todo a favor: high tier, EV alto, ROI alto, racha perdedora, banca arriba
	s := newSizer(t)
	state := domain.BankrollState{
		InitialCapital: 1000, CurrentCapital: 1250, PeakCapital: 1250,
		RollingROI: 0.2, LossStreak: 4,
	}
	rec := s.Recommend(domain.ValueOpportunity{Confidence: 0.9, ExpectedValue: 0.2}, state)
	// 2.5 · 1.2 · 1.1 · 1.1 · 1.1 = 3.993 → clip a 3.0
	assert.InDelta(t, 3.0, rec.RecommendedUnits, 1e-9)
}

func TestRecommend_ClipsToMinimum(t *testing.T) {
	s := newSizer(t)
	state := domain.BankrollState{
		InitialCapital: 1000, CurrentCapital: 800, PeakCapital: 1200,
		RollingROI: -0.3, WinStreak: 0,
	}
	// low tier (0.75 base) · ev 0.8 · perf 0.9 · vol 0.8 = 0.432 → clip a 0.5
	rec := s.Recommend(domain.ValueOpportunity{Confidence: 0.5, ExpectedValue: 0.02}, state)
	assert.InDelta(t, 0.5, rec.RecommendedUnits, 1e-9)
}

func TestNewUnitSizer_Validation(t *testing.T) {
	cfg := DefaultUnitSizerConfig()
	delete(cfg.Tiers, domain.TierLow)
	_, err := NewUnitSizer(cfg)
	assert.Error(t, err)

	cfg = DefaultUnitSizerConfig()
	cfg.Tiers[domain.TierHigh] = domain.UnitRange{Low: 3, High: 2}
	_, err = NewUnitSizer(cfg)
	assert.Error(t, err)

	cfg = DefaultUnitSizerConfig()
	cfg.MaxUnits = 0.1
	_, err = NewUnitSizer(cfg)
	assert.Error(t, err)
}
