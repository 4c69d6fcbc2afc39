package predict

import (
	"math"

	"github.com/rmorales/footvalue/internal/domain"
	"github.com/rmorales/footvalue/internal/features"
)

// heuristics.go — the two table-driven predictors that back the
// head-to-head and contextual facets. They carry no fitted state; their
// whole job is turning the facet's feature block into a distribution.

// laplaceSmoothing is the pseudo-count added per outcome to the h2h record.
const laplaceSmoothing = 1.0

// HeadToHead estimates the distribution from the direct-confrontation
// rollup, Laplace-smoothed so a thin history shrinks toward uniform.
type HeadToHead struct{}

// NewHeadToHead creates the h2h predictor.
func NewHeadToHead() *HeadToHead { return &HeadToHead{} }

// Name implements ports.Predictor.
func (h *HeadToHead) Name() string { return "head_to_head" }

// Fit is a no-op: the rollup arrives pre-aggregated with each fixture.
func (h *HeadToHead) Fit(_ []domain.Fixture) error { return nil }

// PredictProba smooths the h2h win/draw/win counts into a distribution.
func (h *HeadToHead) PredictProba(rec features.Record) (domain.FacetProbability, error) {
	matches := rec.Get("h2h_matches")
	total := matches + 3*laplaceSmoothing

	out := domain.FacetProbability{
		HomeWin: (rec.Get("h2h_home_wins") + laplaceSmoothing) / total,
		Draw:    (rec.Get("h2h_draws") + laplaceSmoothing) / total,
		AwayWin: (rec.Get("h2h_away_wins") + laplaceSmoothing) / total,
	}.Normalized()

	// confidence saturates around a 10-match history
	out.Confidence = clip(matches/10*0.8, 0.1, 0.8) * clip(rec.DataQuality+0.2, 0, 1)
	return out, nil
}

// Contextual tilts a home/draw/away baseline by the match context:
// home advantage, pressure asymmetry and match importance.
type Contextual struct{}

// NewContextual creates the contextual predictor.
func NewContextual() *Contextual { return &Contextual{} }

// Name implements ports.Predictor.
func (c *Contextual) Name() string { return "contextual" }

// Fit is a no-op.
func (c *Contextual) Fit(_ []domain.Fixture) error { return nil }

// PredictProba builds the distribution from the contextual feature block.
func (c *Contextual) PredictProba(rec features.Record) (domain.FacetProbability, error) {
	// baseline: typical 1X2 split
	home, draw, away := 0.42, 0.28, 0.30

	advantage := rec.Get("home_advantage") // [0,1]
	home += 0.12 * (advantage - 0.5)
	away -= 0.12 * (advantage - 0.5)

	// pressure asymmetry: the side under more pressure underperforms
	pressure := rec.Get("pressure_diff") // home - away, in [-2,2]
	home -= 0.03 * pressure
	away += 0.03 * pressure

	// big matches are tighter
	if rec.Get("match_importance") >= 3 {
		draw += 0.04
		home -= 0.02
		away -= 0.02
	}

	out := domain.FacetProbability{
		HomeWin: math.Max(home, 0.02),
		Draw:    math.Max(draw, 0.02),
		AwayWin: math.Max(away, 0.02),
	}.Normalized()
	out.Confidence = clip(0.45+0.15*rec.DataQuality, 0, 0.7)
	return out, nil
}
