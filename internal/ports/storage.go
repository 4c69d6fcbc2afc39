package ports

import (
	"context"

	"github.com/rmorales/footvalue/internal/domain"
)

// Storage persiste las sesiones completadas como sink de borde.
// El core no depende de este estado: una simulación es una sola sesión.
type Storage interface {
	// SaveSession persiste el reporte final y sus apuestas.
	SaveSession(ctx context.Context, report domain.SessionReport, bets []domain.BetRecord) error

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
