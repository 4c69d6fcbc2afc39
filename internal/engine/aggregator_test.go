package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmorales/footvalue/internal/domain"
)

func allFacets(fp domain.FacetProbability) map[domain.Facet]domain.FacetProbability {
	out := make(map[domain.Facet]domain.FacetProbability, 5)
	for _, facet := range domain.Facets() {
		out[facet] = fp
	}
	return out
}

func TestFacetWeights_RenormalizedFixedPoint(t *testing.T) {
	w := DefaultFacetWeights().Renormalized()
	again := w.Renormalized()
	for facet, weight := range w {
		assert.InDelta(t, weight, again[facet], 1e-12)
	}
	sum := 0.0
	for _, weight := range w {
		sum += weight
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestFacetWeights_Validate(t *testing.T) {
	assert.NoError(t, DefaultFacetWeights().Validate())
	assert.Error(t, FacetWeights{domain.FacetRecentForm: -0.1}.Validate())
	assert.Error(t, FacetWeights{}.Validate())
}

func TestAggregate_Scenario(t *testing.T) {
	// cinco facetas idénticas {0.5,0.3,0.2} con confianza 0.8, r=1.0
	agg, err := NewAggregator(nil)
	require.NoError(t, err)

	out := agg.Aggregate(allFacets(domain.FacetProbability{
		HomeWin: 0.5, Draw: 0.3, AwayWin: 0.2, Confidence: 0.8,
	}), 1.0)

	assert.InDelta(t, 0.5, out.HomeWin, 1e-9)
	assert.InDelta(t, 0.3, out.Draw, 1e-9)
	assert.InDelta(t, 0.2, out.AwayWin, 1e-9)
	// 0.5·0.25 + 0.3·0.8 + 0.2·1.0 = 0.565
	assert.InDelta(t, 0.565, out.Confidence, 1e-9)
}

func TestAggregate_SumsToOne(t *testing.T) {
	agg, err := NewAggregator(nil)
	require.NoError(t, err)
	out := agg.Aggregate(allFacets(domain.FacetProbability{
		HomeWin: 0.41, Draw: 0.33, AwayWin: 0.26, Confidence: 0.5,
	}), 0.5)
	assert.InDelta(t, 1.0, out.HomeWin+out.Draw+out.AwayWin, 1e-6)
}

func TestAggregate_UniformFacetsGiveUniform(t *testing.T) {
	agg, err := NewAggregator(nil)
	require.NoError(t, err)
	out := agg.Aggregate(allFacets(domain.FacetProbability{
		HomeWin: 1.0 / 3, Draw: 1.0 / 3, AwayWin: 1.0 / 3, Confidence: 0.5,
	}), 1.0)
	assert.InDelta(t, 1.0/3, out.HomeWin, 1e-9)
	assert.InDelta(t, 1.0/3, out.Draw, 1e-9)
	assert.InDelta(t, 1.0/3, out.AwayWin, 1e-9)
}

func TestAggregate_MissingFacetRedistributes(t *testing.T) {
	agg, err := NewAggregator(nil)
	require.NoError(t, err)

	facets := allFacets(domain.FacetProbability{HomeWin: 0.5, Draw: 0.3, AwayWin: 0.2, Confidence: 0.8})
	delete(facets, domain.FacetMomentum)

	out := agg.Aggregate(facets, 1.0)
	// sigue siendo la misma distribución (todas las facetas coinciden)
	assert.InDelta(t, 0.5, out.HomeWin, 1e-9)
	require.Len(t, out.Breakdown, 4)

	// los pesos efectivos del breakdown suman 1.0
	sum := 0.0
	for _, row := range out.Breakdown {
		sum += row.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestAggregate_AllMissingGivesUniformZeroConfidence(t *testing.T) {
	agg, err := NewAggregator(nil)
	require.NoError(t, err)
	out := agg.Aggregate(nil, 1.0)
	assert.InDelta(t, 1.0/3, out.HomeWin, 1e-12)
	assert.Zero(t, out.Confidence)
	assert.Empty(t, out.Breakdown)
}

func TestAggregate_BreakdownReproducesAggregate(t *testing.T) {
	agg, err := NewAggregator(nil)
	require.NoError(t, err)

	facets := map[domain.Facet]domain.FacetProbability{
		domain.FacetRecentForm:    {HomeWin: 0.6, Draw: 0.25, AwayWin: 0.15, Confidence: 0.9},
		domain.FacetHeadToHead:    {HomeWin: 0.4, Draw: 0.35, AwayWin: 0.25, Confidence: 0.7},
		domain.FacetAdvancedStats: {HomeWin: 0.5, Draw: 0.3, AwayWin: 0.2, Confidence: 0.6},
		domain.FacetContextual:    {HomeWin: 0.45, Draw: 0.3, AwayWin: 0.25, Confidence: 0.5},
		domain.FacetMomentum:      {HomeWin: 0.55, Draw: 0.2, AwayWin: 0.25, Confidence: 0.4},
	}
	out := agg.Aggregate(facets, 1.0)

	var home, draw, away float64
	for _, row := range out.Breakdown {
		home += row.HomeWin
		draw += row.Draw
		away += row.AwayWin
	}
	// las filas del breakdown reproducen el agregado (pre-renormalización,
	// que aquí es inocua porque las facetas ya suman 1)
	assert.InDelta(t, out.HomeWin, home, 1e-9)
	assert.InDelta(t, out.Draw, draw, 1e-9)
	assert.InDelta(t, out.AwayWin, away, 1e-9)
}

func TestAggregate_CustomWeightsRenormalized(t *testing.T) {
	// pesos sin normalizar: 4/2.5/1.5/1/1 ≡ 40/25/15/10/10
	agg, err := NewAggregator(FacetWeights{
		domain.FacetRecentForm:    4,
		domain.FacetHeadToHead:    2.5,
		domain.FacetAdvancedStats: 1.5,
		domain.FacetContextual:    1,
		domain.FacetMomentum:      1,
	})
	require.NoError(t, err)

	out := agg.Aggregate(allFacets(domain.FacetProbability{
		HomeWin: 0.5, Draw: 0.3, AwayWin: 0.2, Confidence: 0.8,
	}), 1.0)
	assert.InDelta(t, 0.565, out.Confidence, 1e-9)
	for _, row := range out.Breakdown {
		if row.Facet == domain.FacetRecentForm {
			assert.InDelta(t, 0.40, row.Weight, 1e-9)
		}
	}
}
