package domain

import "math"

// value.go — matemática pura del value engine.
//
// Todas las funciones son deterministas sobre (probabilidad, cuota):
// recalcular un ValueOpportunity debe reproducirlo exactamente.

// DefaultKellyCap es el tope de política sobre el Kelly fraccionado:
// nunca más del 25% de la banca, configurable por sesión.
const DefaultKellyCap = 0.25

// ValueLevel clasifica ordinalmente un EV.
type ValueLevel string

const (
	ValueNegative    ValueLevel = "negative"
	ValuePositive    ValueLevel = "positive"
	ValueSignificant ValueLevel = "significant"
	ValueExcellent   ValueLevel = "excellent"
)

// Recommendation es la acción sugerida para un resultado.
type Recommendation string

const (
	RecommendAvoid     Recommendation = "avoid"
	RecommendConsider  Recommendation = "consider"
	RecommendBet       Recommendation = "bet"
	RecommendStrongBet Recommendation = "strong_bet"
)

// ValueThresholds controla los cortes de clasificación de EV.
// Comparaciones estrictas: EV exactamente en el corte cae al nivel inferior.
type ValueThresholds struct {
	Positive    float64 // > 0
	Significant float64 // > 0.05
	Excellent   float64 // > 0.10
}

// DefaultValueThresholds devuelve los cortes por defecto.
func DefaultValueThresholds() ValueThresholds {
	return ValueThresholds{Positive: 0, Significant: 0.05, Excellent: 0.10}
}

// ValueOpportunity es el análisis de valor de UN resultado contra su cuota.
type ValueOpportunity struct {
	Outcome        Outcome
	Probability    float64
	MarketOdds     float64
	FairOdds       float64 // 1/p; +Inf si p = 0
	ExpectedValue  float64 // p·o - 1
	KellyFull      float64 // (p·o - 1)/(o - 1), sin recortar
	KellyFraction  float64 // Kelly recortado a [0, kelly_cap]
	ValueLevel     ValueLevel
	Confidence     float64
	Recommendation Recommendation
}

// FairOdds devuelve la cuota justa 1/p. Para p = 0 devuelve +Inf.
func FairOdds(p float64) float64 {
	if p <= 0 {
		return math.Inf(1)
	}
	return 1.0 / p
}

// ExpectedValue devuelve el retorno esperado por unidad apostada: p·o - 1.
func ExpectedValue(p, odds float64) float64 {
	return p*odds - 1.0
}

// KellyFull devuelve la fracción de Kelly completa (p·o - 1)/(o - 1),
// acotada inferiormente en 0. Para odds <= 1 devuelve 0.
func KellyFull(p, odds float64) float64 {
	if odds <= 1.0 || p <= 0 {
		return 0
	}
	k := (p*odds - 1.0) / (odds - 1.0)
	if k < 0 {
		return 0
	}
	return k
}

// KellyFraction devuelve el Kelly recortado a [0, cap].
func KellyFraction(p, odds, cap float64) float64 {
	k := KellyFull(p, odds)
	if k > cap {
		return cap
	}
	return k
}

// LevelFor clasifica un EV contra los cortes. Estricto: EV = 0.10 con el
// corte excellent en 0.10 clasifica significant, no excellent.
func (t ValueThresholds) LevelFor(ev float64) ValueLevel {
	switch {
	case ev > t.Excellent:
		return ValueExcellent
	case ev > t.Significant:
		return ValueSignificant
	case ev > t.Positive:
		return ValuePositive
	default:
		return ValueNegative
	}
}

// RecommendationFor decide la acción sugerida a partir de EV, Kelly y la
// incertidumbre (1 - confianza cuando el predictor no aporta dispersión).
// Cortes estrictos: EV = 0.10 exacto da `consider`.
func RecommendationFor(ev, kelly, uncertainty float64) Recommendation {
	switch {
	case ev > 0.15 && kelly > 0.03 && uncertainty < 0.4:
		return RecommendStrongBet
	case ev > 0.10 && kelly > 0.02 && uncertainty < 0.5:
		return RecommendBet
	case ev > 0.05:
		return RecommendConsider
	default:
		return RecommendAvoid
	}
}
