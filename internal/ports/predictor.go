package ports

import (
	"github.com/rmorales/footvalue/internal/domain"
	"github.com/rmorales/footvalue/internal/features"
)

// Predictor es un modelo enchufable que produce vectores de probabilidad
// sobre {home_win, draw, away_win}. El core nunca importa un predictor
// concreto: los recibe registrados en el ensemble adapter.
//
// Los predictores deben ser deterministas dada una semilla: cualquier
// paso estocástico consume el RNG de la sesión.
type Predictor interface {
	// Name identifica al predictor en logs y en el mapeo de facetas.
	Name() string

	// Fit ajusta el modelo sobre el histórico de fixtures.
	Fit(history []domain.Fixture) error

	// PredictProba devuelve la distribución sobre los tres resultados.
	// La confianza del vector la completa el ensemble adapter.
	PredictProba(rec features.Record) (domain.FacetProbability, error)
}

// UncertaintyPredictor es un predictor que además estima su incertidumbre
// epistémica (en [0,1]) por predicción, típicamente vía Monte Carlo.
type UncertaintyPredictor interface {
	Predictor

	// PredictWithUncertainty devuelve la distribución media y la
	// dispersión por resultado promediada.
	PredictWithUncertainty(rec features.Record) (domain.FacetProbability, float64, error)
}
