package engine

import (
	"log/slog"

	"github.com/rmorales/footvalue/internal/domain"
	"github.com/rmorales/footvalue/internal/features"
	"github.com/rmorales/footvalue/internal/predict"
)

// analyzer.go — compone features, facetas, agregación y análisis de valor
// para un fixture. El sizing, el gate y la contabilidad quedan en manos
// del driver.

// Analyzer corre la mitad pura del pipeline: features, facetas,
// agregación y análisis de valor.
type Analyzer struct {
	assembler  *features.Assembler
	ensemble   *predict.Ensemble
	aggregator *Aggregator
	value      *ValueEngine
	// dataRecency es un input de calidad de datos suministrado por el
	// caller; nunca se fabrica.
	dataRecency float64
}

// NewAnalyzer crea el analyzer con todas las dependencias inyectadas.
func NewAnalyzer(ensemble *predict.Ensemble, aggregator *Aggregator, value *ValueEngine, dataRecency float64) *Analyzer {
	return &Analyzer{
		assembler:   features.NewAssembler(),
		ensemble:    ensemble,
		aggregator:  aggregator,
		value:       value,
		dataRecency: dataRecency,
	}
}

// Analyze corre el pipeline puro sobre un fixture. Los errores de
// validación de entrada no detienen el backtest: devuelven un Analysis
// marcado Skipped con la anotación correspondiente.
func (a *Analyzer) Analyze(f domain.Fixture) domain.Analysis {
	analysis := domain.Analysis{Match: f.Match}

	if err := f.MarketOdds.Validate(); err != nil {
		slog.Warn("fixture skipped: invalid odds", "match", f.Match.Key(), "err", err)
		analysis.Skipped = true
		analysis.SkipReason = "invalid market odds: " + err.Error()
		return analysis
	}

	rec := a.assembler.Assemble(f)
	facets := a.ensemble.Facets(rec)

	// vectores inválidos se descartan como faceta caída; su peso se
	// redistribuye en el agregador
	for facet, fp := range facets {
		if err := fp.Validate(); err != nil {
			slog.Warn("facet dropped: invalid probability vector",
				"match", f.Match.Key(), "facet", string(facet), "err", err)
			delete(facets, facet)
		}
	}

	analysis.Probability = a.aggregator.Aggregate(facets, a.dataRecency)

	uncertainty := 1 - analysis.Probability.Confidence
	opps, best := a.value.Evaluate(analysis.Probability, f.MarketOdds, uncertainty)
	analysis.Opportunities = opps
	analysis.Best = best
	return analysis
}
