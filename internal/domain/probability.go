package domain

import (
	"fmt"
	"math"
)

// ProbTolerance es la tolerancia aceptada sobre sum(probs) = 1.0.
const ProbTolerance = 1e-6

// Facet identifica una de las cinco fuentes de evidencia probabilística
// que combina el agregador.
type Facet string

const (
	FacetRecentForm    Facet = "recent_form"
	FacetHeadToHead    Facet = "head_to_head"
	FacetAdvancedStats Facet = "advanced_stats"
	FacetContextual    Facet = "contextual"
	FacetMomentum      Facet = "momentum"
)

// Facets devuelve las cinco facetas en orden canónico.
// El orden importa: el breakdown del agregador y los reportes lo siguen.
func Facets() [5]Facet {
	return [5]Facet{
		FacetRecentForm,
		FacetHeadToHead,
		FacetAdvancedStats,
		FacetContextual,
		FacetMomentum,
	}
}

// FacetProbability es el vector de probabilidades de una faceta:
// {home_win, draw, away_win} sumando 1.0 ± 1e-6, más una confianza en [0,1].
type FacetProbability struct {
	HomeWin    float64
	Draw       float64
	AwayWin    float64
	Confidence float64
}

// For devuelve la probabilidad del resultado dado.
func (f FacetProbability) For(outcome Outcome) float64 {
	switch outcome {
	case OutcomeHomeWin:
		return f.HomeWin
	case OutcomeDraw:
		return f.Draw
	case OutcomeAwayWin:
		return f.AwayWin
	}
	return 0
}

// Validate comprueba que el vector sea una distribución válida.
func (f FacetProbability) Validate() error {
	for _, out := range Outcomes() {
		if p := f.For(out); p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("facet probability %s = %v: must be finite and >= 0", out, p)
		}
	}
	sum := f.HomeWin + f.Draw + f.AwayWin
	if math.Abs(sum-1.0) > ProbTolerance {
		return fmt.Errorf("facet probabilities sum to %.8f, want 1.0 ± %v", sum, ProbTolerance)
	}
	if f.Confidence < 0 || f.Confidence > 1 {
		return fmt.Errorf("facet confidence %.4f: must be in [0,1]", f.Confidence)
	}
	return nil
}

// Normalized devuelve una copia con las probabilidades reescaladas para
// sumar exactamente 1.0. Si la suma es 0 devuelve el prior uniforme.
func (f FacetProbability) Normalized() FacetProbability {
	sum := f.HomeWin + f.Draw + f.AwayWin
	if sum <= 0 {
		return FacetProbability{HomeWin: 1.0 / 3, Draw: 1.0 / 3, AwayWin: 1.0 / 3, Confidence: f.Confidence}
	}
	return FacetProbability{
		HomeWin:    f.HomeWin / sum,
		Draw:       f.Draw / sum,
		AwayWin:    f.AwayWin / sum,
		Confidence: f.Confidence,
	}
}

// FacetContribution es una fila del breakdown del agregador: el peso
// efectivo de la faceta, su confianza y su aporte w·p por resultado.
type FacetContribution struct {
	Facet      Facet
	Weight     float64
	Confidence float64
	HomeWin    float64
	Draw       float64
	AwayWin    float64
}

// MatchProbability es la distribución agregada sobre {home_win, draw,
// away_win} junto con la confianza agregada y el breakdown por faceta.
type MatchProbability struct {
	HomeWin    float64
	Draw       float64
	AwayWin    float64
	Confidence float64
	Breakdown  []FacetContribution
}

// For devuelve la probabilidad agregada del resultado dado.
func (p MatchProbability) For(outcome Outcome) float64 {
	switch outcome {
	case OutcomeHomeWin:
		return p.HomeWin
	case OutcomeDraw:
		return p.Draw
	case OutcomeAwayWin:
		return p.AwayWin
	}
	return 0
}

// Max devuelve el resultado más probable y su probabilidad.
func (p MatchProbability) Max() (Outcome, float64) {
	best, bestP := OutcomeHomeWin, p.HomeWin
	if p.Draw > bestP {
		best, bestP = OutcomeDraw, p.Draw
	}
	if p.AwayWin > bestP {
		best, bestP = OutcomeAwayWin, p.AwayWin
	}
	return best, bestP
}

// Clarity mide cuánto se separa la distribución del prior uniforme:
// (max(p) - 1/3) / (2/3), recortado a [0,1]. Es el primer término de la
// confianza agregada.
func (p MatchProbability) Clarity() float64 {
	_, maxP := p.Max()
	c := (maxP - 1.0/3.0) / (2.0 / 3.0)
	return clip(c, 0, 1)
}

// Uniform devuelve el prior uniforme {1/3, 1/3, 1/3} con confianza 0.
func Uniform() MatchProbability {
	return MatchProbability{HomeWin: 1.0 / 3, Draw: 1.0 / 3, AwayWin: 1.0 / 3}
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
