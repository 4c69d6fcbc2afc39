package ports

import (
	"context"

	"github.com/rmorales/footvalue/internal/domain"
)

// Notifier presenta los resultados al usuario.
type Notifier interface {
	// NotifyAnalysis muestra el análisis de un fixture.
	// En la implementación de consola, una línea compacta o una tabla.
	NotifyAnalysis(ctx context.Context, a domain.Analysis) error

	// NotifySummary muestra las métricas de portafolio al cierre.
	NotifySummary(ctx context.Context, report domain.SessionReport) error
}
