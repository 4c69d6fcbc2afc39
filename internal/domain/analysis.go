package domain

import "time"

// analysis.go — registros de egreso: análisis por fixture y reporte de sesión.

// Analysis es el resultado completo del pipeline para un fixture:
// probabilidad agregada, oportunidades ordenadas por EV descendente,
// recomendación de unidades si el risk gate aprobó, y la apuesta ejecutada.
type Analysis struct {
	Match       Match
	Probability MatchProbability
	// Opportunities contiene una entrada por resultado, orden EV desc.
	Opportunities []ValueOpportunity
	// Best es la oportunidad de mayor EV, o nil si ninguna tiene EV > 0.
	Best           *ValueOpportunity
	Recommendation *UnitRecommendation
	Bet            *BetRecord
	RiskWarnings   []string
	// Skipped indica que el fixture se saltó por un error de validación.
	// La banca no se toca y SkipReason explica el motivo.
	Skipped    bool
	SkipReason string
}

// SessionReport son las métricas de portafolio al cierre de un backtest.
type SessionReport struct {
	SessionID  string
	Seed       int64
	StartedAt  time.Time
	FinishedAt time.Time

	TotalFixtures    int
	SkippedFixtures  int
	RejectedFixtures int

	TotalTrades   int
	WinningTrades int
	WinRate       float64
	TotalStaked   float64
	TotalProfit   float64
	ROIPct        float64

	InitialCapital float64
	FinalCapital   float64
	PeakCapital    float64
	MaxDrawdownPct float64

	// SharpeLike es mean(profit)/stdev(profit) sobre las apuestas ejecutadas.
	SharpeLike      float64
	BestWinStreak   int
	WorstLossStreak int
	ProfitFactor    float64
	AvgStake        float64
	AvgOdds         float64
	AvgEV           float64

	PerTier       map[ConfidenceTier]TierStats
	PerValueLevel map[ValueLevel]TierStats

	// Ruined indica que el capital se agotó y la sesión terminó antes
	// de consumir todos los fixtures (exit code 3 en el CLI).
	Ruined bool
	// Alerts son avisos de riesgo acumulados (stop loss, take profit,
	// win rate bajo).
	Alerts []string
}
