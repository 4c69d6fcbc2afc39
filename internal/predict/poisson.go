package predict

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/rmorales/footvalue/internal/domain"
	"github.com/rmorales/footvalue/internal/features"
)

const (
	// maxGoals caps the joint goal enumeration per side.
	maxGoals = 6
	// defaultHomeAdvantage is the multiplier applied to the home goal
	// rate before fitting sees any history.
	defaultHomeAdvantage = 1.15
)

// Poisson is a goal-rate model: each side scores goals as an independent
// Poisson process whose rate blends realized scoring, xG and the opponent's
// defensive record. Fit estimates the home-advantage multiplier by maximum
// likelihood over the observed outcome labels.
type Poisson struct {
	homeAdvantage float64
}

// NewPoisson creates a Poisson goal-rate predictor with the default
// home-advantage multiplier.
func NewPoisson() *Poisson {
	return &Poisson{homeAdvantage: defaultHomeAdvantage}
}

// Name implements ports.Predictor.
func (p *Poisson) Name() string { return "poisson" }

// Fit searches the home-advantage multiplier that maximizes the likelihood
// of the observed outcomes. Fixtures without a known outcome are ignored;
// with no usable history the default multiplier stands.
func (p *Poisson) Fit(history []domain.Fixture) error {
	labelled := 0
	for _, f := range history {
		if f.ActualOutcome != nil {
			labelled++
		}
	}
	if labelled == 0 {
		return nil
	}

	bestAdv, bestLL := p.homeAdvantage, math.Inf(-1)
	for adv := 1.0; adv <= 1.4+1e-9; adv += 0.05 {
		ll := 0.0
		for _, f := range history {
			if f.ActualOutcome == nil {
				continue
			}
			probs := enumerate(p.rates(f.HomeStats, f.AwayStats, adv))
			q := probs.For(*f.ActualOutcome)
			if q < 1e-9 {
				q = 1e-9
			}
			ll += math.Log(q)
		}
		if ll > bestLL {
			bestAdv, bestLL = adv, ll
		}
	}
	p.homeAdvantage = bestAdv
	return nil
}

// PredictProba enumerates joint goal outcomes up to maxGoals per side.
func (p *Poisson) PredictProba(rec features.Record) (domain.FacetProbability, error) {
	lambdaHome, lambdaAway := ratesFromRecord(rec, p.homeAdvantage)
	if lambdaHome <= 0 || lambdaAway <= 0 {
		return domain.FacetProbability{}, fmt.Errorf("predict.Poisson: non-positive goal rates (%.3f, %.3f)", lambdaHome, lambdaAway)
	}
	out := enumerate(lambdaHome, lambdaAway)
	// confidence grows with the data the rates are built from
	out.Confidence = clip(0.55+0.1*rec.DataQuality+0.05*math.Abs(lambdaHome-lambdaAway), 0, 0.9)
	return out, nil
}

// rates derives goal rates straight from team stats (used during Fit,
// before feature assembly).
func (p *Poisson) rates(home, away domain.TeamStats, adv float64) (float64, float64) {
	lh := blendRate(home.GoalsForAvg, home.XGFor, away.GoalsAgainstAvg) * adv
	la := blendRate(away.GoalsForAvg, away.XGFor, home.GoalsAgainstAvg)
	return lh, la
}

// ratesFromRecord derives goal rates from an assembled feature record.
func ratesFromRecord(rec features.Record, adv float64) (float64, float64) {
	lh := blendRate(rec.Get("home_goals_for_avg"), rec.Get("home_xg_for"), rec.Get("away_goals_against_avg"))
	la := blendRate(rec.Get("away_goals_for_avg"), rec.Get("away_xg_for"), rec.Get("home_goals_against_avg"))
	if rec.Get("neutral_venue") == 0 {
		lh *= adv
	}
	return lh, la
}

// blendRate mixes attack output, xG and the opponent's concession rate.
// Falls back to a league-average 1.3 when everything is zero.
func blendRate(goalsFor, xg, oppAgainst float64) float64 {
	rate := 0.5*goalsFor + 0.3*xg + 0.2*oppAgainst
	if rate <= 0 {
		return 1.3
	}
	return rate
}

// enumerate sums the joint pmf over home/away scorelines 0..maxGoals.
// The truncated tail mass is folded back by normalization.
func enumerate(lambdaHome, lambdaAway float64) domain.FacetProbability {
	ph := distuv.Poisson{Lambda: lambdaHome}
	pa := distuv.Poisson{Lambda: lambdaAway}

	var home, draw, away float64
	for h := 0; h <= maxGoals; h++ {
		probH := ph.Prob(float64(h))
		for a := 0; a <= maxGoals; a++ {
			joint := probH * pa.Prob(float64(a))
			switch {
			case h > a:
				home += joint
			case h == a:
				draw += joint
			default:
				away += joint
			}
		}
	}
	return domain.FacetProbability{HomeWin: home, Draw: draw, AwayWin: away}.Normalized()
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
