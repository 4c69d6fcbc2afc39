package backtest

import (
	"fmt"
	"math/rand"

	"github.com/rmorales/footvalue/internal/domain"
)

// outcome.go — fuentes del resultado realizado. El driver no sabe si el
// resultado viene de la etiqueta real o de un sampleo sobre el mercado.

// ActualOutcomes usa estrictamente la etiqueta real del fixture.
// Un fixture sin etiqueta es un error de validación: se salta.
type ActualOutcomes struct{}

// Realize implementa ports.OutcomeSource.
func (ActualOutcomes) Realize(f domain.Fixture, _ *rand.Rand) (domain.Outcome, error) {
	if f.ActualOutcome == nil {
		return "", fmt.Errorf("backtest.ActualOutcomes: fixture %s has no actual outcome", f.Match.Key())
	}
	if !f.ActualOutcome.Valid() {
		return "", fmt.Errorf("backtest.ActualOutcomes: fixture %s has invalid outcome %q", f.Match.Key(), *f.ActualOutcome)
	}
	return *f.ActualOutcome, nil
}

// MarketImpliedOutcomes samplea el resultado de las probabilidades
// implícitas de las cuotas, usando el RNG de la sesión. Se usa cuando
// solo se conocen las cuotas.
type MarketImpliedOutcomes struct{}

// Realize implementa ports.OutcomeSource.
func (MarketImpliedOutcomes) Realize(f domain.Fixture, rng *rand.Rand) (domain.Outcome, error) {
	if err := f.MarketOdds.Validate(); err != nil {
		return "", fmt.Errorf("backtest.MarketImpliedOutcomes: %w", err)
	}
	return sample(f.MarketOdds.Implied(), rng), nil
}

// HybridOutcomes prefiere la etiqueta real y cae al sampler de mercado
// cuando falta. Es la fuente por defecto del CLI.
type HybridOutcomes struct{}

// Realize implementa ports.OutcomeSource.
func (HybridOutcomes) Realize(f domain.Fixture, rng *rand.Rand) (domain.Outcome, error) {
	if f.ActualOutcome != nil {
		return ActualOutcomes{}.Realize(f, rng)
	}
	return MarketImpliedOutcomes{}.Realize(f, rng)
}

// sample elige un resultado por muestreo inverso sobre la distribución.
func sample(p domain.MatchProbability, rng *rand.Rand) domain.Outcome {
	r := rng.Float64()
	switch {
	case r < p.HomeWin:
		return domain.OutcomeHomeWin
	case r < p.HomeWin+p.Draw:
		return domain.OutcomeDraw
	default:
		return domain.OutcomeAwayWin
	}
}
