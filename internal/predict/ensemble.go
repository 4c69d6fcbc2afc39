package predict

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/rmorales/footvalue/internal/domain"
	"github.com/rmorales/footvalue/internal/features"
	"github.com/rmorales/footvalue/internal/ports"
)

// Ensemble is the strategy layer between raw predictors and the
// aggregator. Callers register predictors against facets; per fixture
// it produces at most one FacetProbability per facet. A predictor that
// errors or returns a non-finite vector is dropped for that fixture (the
// facet's weight gets redistributed downstream), never escalated.
type Ensemble struct {
	mapping map[domain.Facet][]ports.Predictor
}

// NewEnsemble creates an empty ensemble. Register predictors with Register,
// or use DefaultEnsemble for the reference wiring.
func NewEnsemble() *Ensemble {
	return &Ensemble{mapping: make(map[domain.Facet][]ports.Predictor)}
}

// DefaultEnsemble wires the five reference predictors to their facets:
// form softmax → recent-form, h2h rollup → head-to-head, Poisson goal
// rates → advanced-stats, contextual tilt → contextual, Monte Carlo →
// momentum. The Monte Carlo model draws from the session RNG.
func DefaultEnsemble(rng *rand.Rand) *Ensemble {
	e := NewEnsemble()
	e.Register(domain.FacetRecentForm, NewFormSoftmax())
	e.Register(domain.FacetHeadToHead, NewHeadToHead())
	e.Register(domain.FacetAdvancedStats, NewPoisson())
	e.Register(domain.FacetContextual, NewContextual())
	e.Register(domain.FacetMomentum, NewMomentumMC(rng))
	return e
}

// Register adds a predictor to a facet. Multiple predictors on the same
// facet are averaged at prediction time.
func (e *Ensemble) Register(facet domain.Facet, p ports.Predictor) {
	e.mapping[facet] = append(e.mapping[facet], p)
}

// Fit fits every registered predictor on the history. A predictor that
// fails to fit stays registered with its prior parameters.
func (e *Ensemble) Fit(history []domain.Fixture) error {
	seen := make(map[string]bool)
	for _, preds := range e.mapping {
		for _, p := range preds {
			if seen[p.Name()] {
				continue
			}
			seen[p.Name()] = true
			if err := p.Fit(history); err != nil {
				return fmt.Errorf("predict.Ensemble.Fit: %s: %w", p.Name(), err)
			}
		}
	}
	return nil
}

// Facets produces one probability vector per facet for the assembled
// feature record. Facets whose predictors all failed are absent from the
// result. When several predictors back a facet their distributions are
// averaged and the facet confidence is mean(confidence); the record's
// data quality scales the final confidence.
func (e *Ensemble) Facets(rec features.Record) map[domain.Facet]domain.FacetProbability {
	out := make(map[domain.Facet]domain.FacetProbability, len(e.mapping))
	for facet, preds := range e.mapping {
		var sumH, sumD, sumA, sumConf float64
		n := 0
		for _, p := range preds {
			probs, uncertainty, err := predictOne(p, rec)
			if err != nil {
				slog.Warn("predictor dropped for fixture", "predictor", p.Name(), "facet", string(facet), "err", err)
				continue
			}
			conf := probs.Confidence
			if uncertainty >= 0 {
				// explicit dispersion wins over the predictor's own estimate
				conf = 1 - uncertainty
			}
			sumH += probs.HomeWin
			sumD += probs.Draw
			sumA += probs.AwayWin
			sumConf += conf
			n++
		}
		if n == 0 {
			continue
		}
		fp := domain.FacetProbability{
			HomeWin:    sumH / float64(n),
			Draw:       sumD / float64(n),
			AwayWin:    sumA / float64(n),
			Confidence: clip(sumConf/float64(n)*math.Sqrt(rec.DataQuality), 0, 1),
		}.Normalized()
		out[facet] = fp
	}
	return out
}

// predictOne runs a single predictor, preferring the uncertainty-aware
// path when available. Returns uncertainty -1 when the predictor has none.
func predictOne(p ports.Predictor, rec features.Record) (domain.FacetProbability, float64, error) {
	if up, ok := p.(ports.UncertaintyPredictor); ok {
		probs, uncertainty, err := up.PredictWithUncertainty(rec)
		if err != nil {
			return domain.FacetProbability{}, -1, err
		}
		if !finiteVector(probs) {
			return domain.FacetProbability{}, -1, fmt.Errorf("non-finite probabilities")
		}
		return probs.Normalized(), clip(uncertainty, 0, 1), nil
	}
	probs, err := p.PredictProba(rec)
	if err != nil {
		return domain.FacetProbability{}, -1, err
	}
	if !finiteVector(probs) {
		return domain.FacetProbability{}, -1, fmt.Errorf("non-finite probabilities")
	}
	return probs.Normalized(), -1, nil
}

func finiteVector(p domain.FacetProbability) bool {
	for _, v := range []float64{p.HomeWin, p.Draw, p.AwayWin} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return p.HomeWin+p.Draw+p.AwayWin > 0
}
