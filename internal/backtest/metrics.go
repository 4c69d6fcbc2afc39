package backtest

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/rmorales/footvalue/internal/domain"
)

// metrics.go — métricas de portafolio al cierre de la sesión. Todas se
// derivan exclusivamente del historial de apuestas; nada se muestrea aquí.

// report arma el SessionReport con el estado acumulado hasta ahora.
func (s *Session) report() domain.SessionReport {
	state := s.sim.State()
	bets := s.sim.Bets()

	r := domain.SessionReport{
		SessionID:  s.id,
		Seed:       s.seed,
		StartedAt:  s.startedAt,
		FinishedAt: time.Now().UTC(),

		TotalFixtures:    s.totalFixtures,
		SkippedFixtures:  s.skippedFixtures,
		RejectedFixtures: s.rejectedFixtures,

		TotalTrades: len(bets),

		InitialCapital: state.InitialCapital,
		FinalCapital:   state.CurrentCapital,
		PeakCapital:    state.PeakCapital,
		MaxDrawdownPct: state.MaxDrawdownPct,

		PerTier:       s.sim.PerTier(),
		PerValueLevel: s.sim.PerValueLevel(),

		Ruined: s.sim.Ruined(),
		Alerts: s.sim.Alerts(),
	}
	r.BestWinStreak, r.WorstLossStreak = s.sim.Streaks()

	if len(bets) == 0 {
		return r
	}

	profits := make([]float64, 0, len(bets))
	var grossWin, grossLoss, sumOdds, sumEV float64
	for _, b := range bets {
		profits = append(profits, b.Profit)
		r.TotalStaked += b.Stake
		r.TotalProfit += b.Profit
		sumOdds += b.Odds
		sumEV += b.Recommendation.ExpectedValue
		if b.IsWinner {
			r.WinningTrades++
			grossWin += b.Profit
		} else {
			grossLoss += -b.Profit
		}
	}

	n := float64(len(bets))
	r.WinRate = float64(r.WinningTrades) / n
	if r.TotalStaked > 0 {
		r.ROIPct = r.TotalProfit / r.TotalStaked * 100
	}
	r.AvgStake = r.TotalStaked / n
	r.AvgOdds = sumOdds / n
	r.AvgEV = sumEV / n
	if grossLoss > 0 {
		r.ProfitFactor = grossWin / grossLoss
	}

	// Sharpe-like: media del profit por apuesta sobre su desviación
	// estándar. Con una sola apuesta (o profits constantes) queda en 0.
	mean, std := stat.MeanStdDev(profits, nil)
	if std > 0 {
		r.SharpeLike = mean / std
	}
	return r
}
