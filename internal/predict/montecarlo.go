package predict

import (
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/rmorales/footvalue/internal/domain"
	"github.com/rmorales/footvalue/internal/features"
)

const (
	mcSamples   = 200
	mcRateNoise = 0.20 // relative stddev applied to the goal rates
)

// MomentumMC is the Bayesian-style predictor: it perturbs the goal rates
// with momentum-scaled Gaussian noise, re-enumerates the Poisson outcome
// grid per sample and reports the mean distribution plus the per-outcome
// dispersion. All randomness comes from the session RNG, so runs are
// reproducible given a seed.
type MomentumMC struct {
	rng *rand.Rand
}

// NewMomentumMC creates the Monte Carlo predictor drawing from the given
// session RNG.
func NewMomentumMC(rng *rand.Rand) *MomentumMC {
	return &MomentumMC{rng: rng}
}

// Name implements ports.Predictor.
func (m *MomentumMC) Name() string { return "momentum_mc" }

// Fit is a no-op: the model has no free parameters beyond its noise scale.
func (m *MomentumMC) Fit(_ []domain.Fixture) error { return nil }

// PredictProba returns the mean distribution, discarding the dispersion.
func (m *MomentumMC) PredictProba(rec features.Record) (domain.FacetProbability, error) {
	out, _, err := m.PredictWithUncertainty(rec)
	return out, err
}

// PredictWithUncertainty implements ports.UncertaintyPredictor.
func (m *MomentumMC) PredictWithUncertainty(rec features.Record) (domain.FacetProbability, float64, error) {
	baseHome, baseAway := ratesFromRecord(rec, defaultHomeAdvantage)

	// momentum tilts the central rates before noise is applied
	baseHome *= 1 + 0.10*rec.Get("home_momentum")
	baseAway *= 1 + 0.10*rec.Get("away_momentum")

	homes := make([]float64, mcSamples)
	draws := make([]float64, mcSamples)
	aways := make([]float64, mcSamples)
	for i := 0; i < mcSamples; i++ {
		lh := perturb(m.rng, baseHome)
		la := perturb(m.rng, baseAway)
		p := enumerate(lh, la)
		homes[i], draws[i], aways[i] = p.HomeWin, p.Draw, p.AwayWin
	}

	mean := domain.FacetProbability{
		HomeWin: stat.Mean(homes, nil),
		Draw:    stat.Mean(draws, nil),
		AwayWin: stat.Mean(aways, nil),
	}.Normalized()

	// dispersion: average per-outcome stddev, scaled to [0,1] against the
	// worst case stddev of a probability (0.5)
	disp := (stat.StdDev(homes, nil) + stat.StdDev(draws, nil) + stat.StdDev(aways, nil)) / 3
	uncertainty := clip(disp/0.5, 0, 1)

	mean.Confidence = clip((1-uncertainty)*(0.6+0.3*rec.DataQuality), 0, 0.95)
	return mean, uncertainty, nil
}

// perturb applies multiplicative Gaussian noise, floored away from zero.
func perturb(rng *rand.Rand, rate float64) float64 {
	v := rate * (1 + rng.NormFloat64()*mcRateNoise)
	if v < 0.05 {
		return 0.05
	}
	return v
}
