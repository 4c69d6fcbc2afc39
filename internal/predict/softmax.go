package predict

import (
	"math"

	"github.com/rmorales/footvalue/internal/domain"
	"github.com/rmorales/footvalue/internal/features"
)

// FormSoftmax is a linear classifier over the recent-form feature block:
// one linear score per outcome pushed through a softmax. Fit calibrates the
// intercepts to the base rates observed in the labelled history, which is
// the cheap stand-in for refitting the full weight matrix.
type FormSoftmax struct {
	// bias per outcome, index order home/draw/away
	bias [3]float64
}

// NewFormSoftmax creates the classifier with league-typical base rates
// (≈45/27/28 home/draw/away).
func NewFormSoftmax() *FormSoftmax {
	return &FormSoftmax{bias: [3]float64{0.20, -0.25, 0.05}}
}

// Name implements ports.Predictor.
func (s *FormSoftmax) Name() string { return "form_softmax" }

// Fit recalibrates the per-outcome intercepts from observed base rates.
func (s *FormSoftmax) Fit(history []domain.Fixture) error {
	var counts [3]float64
	total := 0.0
	for _, f := range history {
		if f.ActualOutcome == nil {
			continue
		}
		switch *f.ActualOutcome {
		case domain.OutcomeHomeWin:
			counts[0]++
		case domain.OutcomeDraw:
			counts[1]++
		case domain.OutcomeAwayWin:
			counts[2]++
		}
		total++
	}
	if total < 10 {
		return nil // too little signal to move the priors
	}
	for i := range s.bias {
		rate := counts[i] / total
		if rate < 0.01 {
			rate = 0.01
		}
		s.bias[i] = math.Log(rate * 3) // log-odds vs uniform
	}
	return nil
}

// PredictProba computes the softmax over the three linear outcome scores.
func (s *FormSoftmax) PredictProba(rec features.Record) (domain.FacetProbability, error) {
	formDiff := rec.Get("form_diff")
	trendDiff := rec.Get("home_trend") - rec.Get("away_trend")
	winDiff := rec.Get("win_rate_diff")
	drawRate := (rec.Get("home_draw_rate") + rec.Get("away_draw_rate")) / 2

	scores := [3]float64{
		s.bias[0] + 0.35*formDiff + 0.20*trendDiff + 1.6*winDiff + 0.3*rec.Get("home_advantage"),
		s.bias[1] + 1.2*drawRate - 0.25*math.Abs(formDiff),
		s.bias[2] - 0.35*formDiff - 0.20*trendDiff - 1.6*winDiff,
	}

	out := softmax(scores)
	// sharper separations in form are higher-conviction calls
	out.Confidence = clip(0.5+0.08*math.Abs(formDiff)+0.2*rec.DataQuality, 0, 0.95)
	return out, nil
}

// softmax converts scores into a distribution, shifting by the max score
// for numerical stability.
func softmax(scores [3]float64) domain.FacetProbability {
	maxS := math.Max(scores[0], math.Max(scores[1], scores[2]))
	var exp [3]float64
	var sum float64
	for i, sc := range scores {
		exp[i] = math.Exp(sc - maxS)
		sum += exp[i]
	}
	return domain.FacetProbability{
		HomeWin: exp[0] / sum,
		Draw:    exp[1] / sum,
		AwayWin: exp[2] / sum,
	}
}
