package engine

import (
	"fmt"

	"github.com/rmorales/footvalue/internal/domain"
)

// aggregator.go — combina los vectores por faceta en una MatchProbability.

// Pesos por defecto de las cinco facetas.
const (
	defaultWeightRecentForm    = 0.40
	defaultWeightHeadToHead    = 0.25
	defaultWeightAdvancedStats = 0.15
	defaultWeightContextual    = 0.10
	defaultWeightMomentum      = 0.10
)

// FacetWeights mapea cada faceta a su peso. Los pesos suministrados se
// renormalizan a suma exactamente 1.0 antes de usarse.
type FacetWeights map[domain.Facet]float64

// DefaultFacetWeights devuelve los pesos por defecto 40/25/15/10/10.
func DefaultFacetWeights() FacetWeights {
	return FacetWeights{
		domain.FacetRecentForm:    defaultWeightRecentForm,
		domain.FacetHeadToHead:    defaultWeightHeadToHead,
		domain.FacetAdvancedStats: defaultWeightAdvancedStats,
		domain.FacetContextual:    defaultWeightContextual,
		domain.FacetMomentum:      defaultWeightMomentum,
	}
}

// Validate comprueba que haya al menos un peso positivo y ninguno negativo.
func (w FacetWeights) Validate() error {
	total := 0.0
	for facet, weight := range w {
		if weight < 0 {
			return fmt.Errorf("facet weight %s = %v: must be >= 0", facet, weight)
		}
		total += weight
	}
	if total <= 0 {
		return fmt.Errorf("facet weights sum to %v: need a positive total", total)
	}
	return nil
}

// Renormalized devuelve una copia con los pesos escalados a suma 1.0.
// Renormalizar pesos ya normalizados es un punto fijo. La suma recorre
// las facetas en orden canónico para que el redondeo sea reproducible.
func (w FacetWeights) Renormalized() FacetWeights {
	total := 0.0
	for _, facet := range domain.Facets() {
		total += w[facet]
	}
	out := make(FacetWeights, len(w))
	if total <= 0 {
		return out
	}
	for facet, weight := range w {
		out[facet] = weight / total
	}
	return out
}

// Aggregator combina hasta cinco vectores de faceta en una distribución
// agregada con confianza y breakdown.
type Aggregator struct {
	weights FacetWeights
}

// NewAggregator crea un agregador. Con weights nil usa los por defecto.
func NewAggregator(weights FacetWeights) (*Aggregator, error) {
	if weights == nil {
		weights = DefaultFacetWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("engine.NewAggregator: %w", err)
	}
	return &Aggregator{weights: weights.Renormalized()}, nil
}

// Aggregate combina las facetas presentes. Si falta una faceta su peso se
// redistribuye proporcionalmente entre las restantes; si faltan las cinco
// devuelve el prior uniforme con confianza 0.
//
// La confianza agregada es:
//
//	conf = 0.5·claridad + 0.3·media ponderada de confianzas + 0.2·dataRecency
func (a *Aggregator) Aggregate(facets map[domain.Facet]domain.FacetProbability, dataRecency float64) domain.MatchProbability {
	// pesos efectivos: solo facetas presentes, renormalizados
	present := make(FacetWeights, len(facets))
	for _, facet := range domain.Facets() {
		if _, ok := facets[facet]; ok {
			present[facet] = a.weights[facet]
		}
	}
	effective := present.Renormalized()
	if len(effective) == 0 {
		return domain.Uniform()
	}

	var out domain.MatchProbability
	var confSum float64
	for _, facet := range domain.Facets() {
		weight, ok := effective[facet]
		if !ok {
			continue
		}
		fp := facets[facet]
		contrib := domain.FacetContribution{
			Facet:      facet,
			Weight:     weight,
			Confidence: fp.Confidence,
			HomeWin:    weight * fp.HomeWin,
			Draw:       weight * fp.Draw,
			AwayWin:    weight * fp.AwayWin,
		}
		out.HomeWin += contrib.HomeWin
		out.Draw += contrib.Draw
		out.AwayWin += contrib.AwayWin
		confSum += weight * fp.Confidence
		out.Breakdown = append(out.Breakdown, contrib)
	}

	// renormalización defensiva contra drift numérico
	total := out.HomeWin + out.Draw + out.AwayWin
	if total > 0 {
		out.HomeWin /= total
		out.Draw /= total
		out.AwayWin /= total
	}

	if dataRecency < 0 {
		dataRecency = 0
	} else if dataRecency > 1 {
		dataRecency = 1
	}
	out.Confidence = 0.5*out.Clarity() + 0.3*confSum + 0.2*dataRecency
	return out
}
