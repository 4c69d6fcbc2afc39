package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/rmorales/footvalue/internal/domain"
)

// value.go — value engine: EV, Kelly y clasificación por resultado.

// ValueEngine evalúa las tres oportunidades de un partido contra las
// cuotas de mercado. Cómputo puro: sin estado, sin I/O.
type ValueEngine struct {
	thresholds domain.ValueThresholds
	kellyCap   float64
}

// NewValueEngine crea el engine. kellyCap <= 0 usa el default de política.
func NewValueEngine(thresholds domain.ValueThresholds, kellyCap float64) (*ValueEngine, error) {
	if thresholds.Significant <= thresholds.Positive || thresholds.Excellent <= thresholds.Significant {
		return nil, fmt.Errorf("engine.NewValueEngine: thresholds must be increasing (positive %v < significant %v < excellent %v)",
			thresholds.Positive, thresholds.Significant, thresholds.Excellent)
	}
	if kellyCap <= 0 {
		kellyCap = domain.DefaultKellyCap
	}
	if kellyCap > 1 {
		return nil, fmt.Errorf("engine.NewValueEngine: kelly cap %v: must be in (0,1]", kellyCap)
	}
	return &ValueEngine{thresholds: thresholds, kellyCap: kellyCap}, nil
}

// Evaluate devuelve las tres oportunidades ordenadas por EV descendente y
// la mejor (nil si ninguna tiene EV > 0: el downstream no debe apostar).
//
// uncertainty es la incertidumbre del pronóstico (1 - confianza agregada
// cuando el predictor no aporta dispersión explícita).
func (v *ValueEngine) Evaluate(prob domain.MatchProbability, odds domain.Odds, uncertainty float64) ([]domain.ValueOpportunity, *domain.ValueOpportunity) {
	opps := make([]domain.ValueOpportunity, 0, 3)
	for _, outcome := range domain.Outcomes() {
		p := prob.For(outcome)
		o := odds.For(outcome)

		opp := domain.ValueOpportunity{
			Outcome:       outcome,
			Probability:   p,
			MarketOdds:    o,
			FairOdds:      domain.FairOdds(p),
			ExpectedValue: domain.ExpectedValue(p, o),
			KellyFull:     domain.KellyFull(p, o),
			KellyFraction: domain.KellyFraction(p, o, v.kellyCap),
			Confidence:    prob.Confidence,
		}
		opp.ValueLevel = v.thresholds.LevelFor(opp.ExpectedValue)
		opp.Recommendation = domain.RecommendationFor(opp.ExpectedValue, opp.KellyFraction, uncertainty)

		// caso aritmético límite: p = 0 → fair odds infinitas, kelly 0,
		// recomendación forzada a avoid
		if p <= 0 || math.IsInf(opp.FairOdds, 1) {
			opp.KellyFraction = 0
			opp.Recommendation = domain.RecommendAvoid
		}
		opps = append(opps, opp)
	}

	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].ExpectedValue > opps[j].ExpectedValue
	})

	if opps[0].ExpectedValue <= 0 {
		return opps, nil // no_value: nadie apuesta aguas abajo
	}
	best := opps[0]
	return opps, &best
}
