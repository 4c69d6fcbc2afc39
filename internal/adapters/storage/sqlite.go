package storage

// sqlite.go — sink de sesiones de backtest.
//
// Estrategia:
//   - `sessions`: una fila por sesión (UPSERT por session_id). Re-correr
//     la misma semilla sobreescribe la fila en lugar de duplicarla.
//   - `bets`: una fila por apuesta (el id de apuesta es determinista, el
//     re-run reemplaza en sitio).
//   - Prune automático al arrancar: sesiones no actualizadas en 90 días
//     se eliminan junto con sus apuestas.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rmorales/footvalue/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Una fila por sesión de backtest
CREATE TABLE IF NOT EXISTS sessions (
    session_id        TEXT PRIMARY KEY,
    seed              INTEGER  NOT NULL,
    started_at        DATETIME NOT NULL,
    finished_at       DATETIME NOT NULL,
    total_fixtures    INTEGER  NOT NULL DEFAULT 0,
    skipped_fixtures  INTEGER  NOT NULL DEFAULT 0,
    rejected_fixtures INTEGER  NOT NULL DEFAULT 0,
    total_trades      INTEGER  NOT NULL DEFAULT 0,
    winning_trades    INTEGER  NOT NULL DEFAULT 0,
    win_rate          REAL     NOT NULL DEFAULT 0,
    total_staked      REAL     NOT NULL DEFAULT 0,
    total_profit      REAL     NOT NULL DEFAULT 0,
    roi_pct           REAL     NOT NULL DEFAULT 0,
    initial_capital   REAL     NOT NULL DEFAULT 0,
    final_capital     REAL     NOT NULL DEFAULT 0,
    peak_capital      REAL     NOT NULL DEFAULT 0,
    max_drawdown_pct  REAL     NOT NULL DEFAULT 0,
    sharpe_like       REAL     NOT NULL DEFAULT 0,
    profit_factor     REAL     NOT NULL DEFAULT 0,
    ruined            INTEGER  NOT NULL DEFAULT 0
);

-- Una fila por apuesta ejecutada
CREATE TABLE IF NOT EXISTS bets (
    bet_id         TEXT PRIMARY KEY,
    session_id     TEXT     NOT NULL REFERENCES sessions(session_id),
    home_id        TEXT     NOT NULL,
    away_id        TEXT     NOT NULL,
    match_date     DATETIME NOT NULL,
    bet_outcome    TEXT     NOT NULL,
    actual_outcome TEXT     NOT NULL,
    odds           REAL     NOT NULL,
    stake          REAL     NOT NULL,
    units          REAL     NOT NULL,
    profit         REAL     NOT NULL,
    capital_before REAL     NOT NULL,
    capital_after  REAL     NOT NULL,
    is_winner      INTEGER  NOT NULL,
    tier           TEXT     NOT NULL,
    value_level    TEXT     NOT NULL,
    expected_value REAL     NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_sessions_at  ON sessions(finished_at DESC);
CREATE INDEX IF NOT EXISTS idx_bets_session ON bets(session_id);
CREATE INDEX IF NOT EXISTS idx_bets_date    ON bets(match_date);
`

// sesiones: 90 días de retención
const retentionSessions = 90 * 24 * time.Hour

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia sesiones antiguas.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveSession persiste el reporte de la sesión y todas sus apuestas en
// una sola transacción. Re-guardar la misma sesión reemplaza sus filas.
func (s *SQLiteStorage) SaveSession(ctx context.Context, report domain.SessionReport, bets []domain.BetRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveSession: begin tx: %w", err)
	}
	defer tx.Rollback()

	ruined := 0
	if report.Ruined {
		ruined = 1
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sessions
			(session_id, seed, started_at, finished_at,
			 total_fixtures, skipped_fixtures, rejected_fixtures,
			 total_trades, winning_trades, win_rate,
			 total_staked, total_profit, roi_pct,
			 initial_capital, final_capital, peak_capital, max_drawdown_pct,
			 sharpe_like, profit_factor, ruined)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			finished_at       = excluded.finished_at,
			total_fixtures    = excluded.total_fixtures,
			skipped_fixtures  = excluded.skipped_fixtures,
			rejected_fixtures = excluded.rejected_fixtures,
			total_trades      = excluded.total_trades,
			winning_trades    = excluded.winning_trades,
			win_rate          = excluded.win_rate,
			total_staked      = excluded.total_staked,
			total_profit      = excluded.total_profit,
			roi_pct           = excluded.roi_pct,
			initial_capital   = excluded.initial_capital,
			final_capital     = excluded.final_capital,
			peak_capital      = excluded.peak_capital,
			max_drawdown_pct  = excluded.max_drawdown_pct,
			sharpe_like       = excluded.sharpe_like,
			profit_factor     = excluded.profit_factor,
			ruined            = excluded.ruined
	`,
		report.SessionID, report.Seed, report.StartedAt.UTC(), report.FinishedAt.UTC(),
		report.TotalFixtures, report.SkippedFixtures, report.RejectedFixtures,
		report.TotalTrades, report.WinningTrades, report.WinRate,
		report.TotalStaked, report.TotalProfit, report.ROIPct,
		report.InitialCapital, report.FinalCapital, report.PeakCapital, report.MaxDrawdownPct,
		report.SharpeLike, report.ProfitFactor, ruined,
	); err != nil {
		return fmt.Errorf("storage.SaveSession: upsert session %s: %w", report.SessionID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bets
			(bet_id, session_id, home_id, away_id, match_date,
			 bet_outcome, actual_outcome, odds, stake, units, profit,
			 capital_before, capital_after, is_winner, tier, value_level, expected_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(bet_id) DO UPDATE SET
			session_id     = excluded.session_id,
			odds           = excluded.odds,
			stake          = excluded.stake,
			units          = excluded.units,
			profit         = excluded.profit,
			capital_before = excluded.capital_before,
			capital_after  = excluded.capital_after,
			is_winner      = excluded.is_winner,
			actual_outcome = excluded.actual_outcome,
			tier           = excluded.tier,
			value_level    = excluded.value_level,
			expected_value = excluded.expected_value
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveSession: prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range bets {
		winner := 0
		if b.IsWinner {
			winner = 1
		}
		if _, err := stmt.ExecContext(ctx,
			b.ID, report.SessionID,
			b.Match.HomeID, b.Match.AwayID, b.Match.Date.UTC(),
			string(b.BetOutcome), string(b.ActualOutcome),
			b.Odds, b.Stake, b.Recommendation.RecommendedUnits, b.Profit,
			b.CapitalBefore, b.CapitalAfter, winner,
			string(b.Recommendation.ConfidenceTier), string(b.ValueLevel),
			b.Recommendation.ExpectedValue,
		); err != nil {
			return fmt.Errorf("storage.SaveSession: upsert bet %s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveSession: commit: %w", err)
	}
	return nil
}

// SessionSummary es la vista ligera de una sesión guardada.
type SessionSummary struct {
	SessionID    string
	Seed         int64
	FinishedAt   time.Time
	TotalTrades  int
	WinRate      float64
	ROIPct       float64
	FinalCapital float64
	Ruined       bool
}

// ListSessions devuelve las sesiones guardadas, las más recientes primero.
func (s *SQLiteStorage) ListSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, seed, finished_at, total_trades, win_rate, roi_pct, final_capital, ruined
		FROM sessions
		ORDER BY finished_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.ListSessions: query: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		var ruined int
		if err := rows.Scan(&sum.SessionID, &sum.Seed, &sum.FinishedAt,
			&sum.TotalTrades, &sum.WinRate, &sum.ROIPct, &sum.FinalCapital, &ruined); err != nil {
			return nil, fmt.Errorf("storage.ListSessions: scan row: %w", err)
		}
		sum.Ruined = ruined == 1
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld elimina sesiones antiguas y sus apuestas para mantener la DB
// ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionSessions)
	s.db.ExecContext(ctx, `DELETE FROM bets WHERE session_id IN
		(SELECT session_id FROM sessions WHERE finished_at < ?)`, cutoff)
	s.db.ExecContext(ctx, `DELETE FROM sessions WHERE finished_at < ?`, cutoff)
}
