package ports

import (
	"context"
	"math/rand"

	"github.com/rmorales/footvalue/internal/domain"
)

// FixtureSource materializa la secuencia ordenada de fixtures históricos
// antes de que el driver los procese. Toda la I/O ocurre en el borde:
// dentro del core no se bloquea nunca.
type FixtureSource interface {
	// Load devuelve los fixtures en el orden en que deben procesarse.
	Load(ctx context.Context) ([]domain.Fixture, error)
}

// OutcomeSource resuelve el resultado realizado de un fixture durante el
// backtest: o la etiqueta real del partido, o un sampleo estocástico
// sobre las probabilidades implícitas del mercado (cuando solo hay cuotas).
type OutcomeSource interface {
	// Realize devuelve el resultado del fixture. Los pasos estocásticos
	// consumen exclusivamente el RNG de la sesión.
	Realize(f domain.Fixture, rng *rand.Rand) (domain.Outcome, error)
}
