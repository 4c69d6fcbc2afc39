package domain

import "time"

// Outcome es uno de los tres resultados posibles de un partido (mercado 1X2).
type Outcome string

const (
	OutcomeHomeWin Outcome = "home_win"
	OutcomeDraw    Outcome = "draw"
	OutcomeAwayWin Outcome = "away_win"
)

// Outcomes devuelve los tres resultados en orden canónico (home, draw, away).
func Outcomes() [3]Outcome {
	return [3]Outcome{OutcomeHomeWin, OutcomeDraw, OutcomeAwayWin}
}

// Valid devuelve true si el outcome es uno de los tres conocidos.
func (o Outcome) Valid() bool {
	return o == OutcomeHomeWin || o == OutcomeDraw || o == OutcomeAwayWin
}

// Match identifica un partido. Inmutable: lo crea el caller y el core
// solo lo lee.
type Match struct {
	HomeID      string
	AwayID      string
	Date        time.Time
	Competition string // opcional
}

// Key devuelve un identificador legible del partido para logs y reportes.
func (m Match) Key() string {
	return m.HomeID + " vs " + m.AwayID
}

// Fixture es el registro de entrada por paso de backtest: el partido,
// las estadísticas materializadas por los colectores externos, las cuotas
// de mercado y (si se conoce) el resultado real.
type Fixture struct {
	Match      Match
	HomeStats  TeamStats
	AwayStats  TeamStats
	H2H        H2HStats
	Contextual ContextualFactors
	MarketOdds Odds

	// ActualOutcome es el resultado real del partido, si se conoce.
	// Cuando es nil el driver usa un sampler sobre las probabilidades
	// implícitas del mercado.
	ActualOutcome *Outcome
}

// TeamStats agrupa las estadísticas de un equipo tal como las entregan
// los colectores. Los campos categóricos usan las etiquetas de las tablas
// de codificación del feature assembler.
type TeamStats struct {
	Form            string  // excellent | good | average | poor | unknown
	Trend           string  // improving | stable | declining
	WinRate         float64 // [0,1] sobre los últimos partidos
	DrawRate        float64
	GoalsForAvg     float64
	GoalsAgainstAvg float64
	XGFor           float64
	XGAgainst       float64
	Possession      float64 // [0,100]
	ShotAccuracy    float64 // [0,1]
	RestDays        float64
	Momentum        float64 // [-1,1], señal de racha reciente
}

// H2HStats es el resumen de enfrentamientos directos entre ambos equipos.
type H2HStats struct {
	Matches      int
	HomeWins     int
	Draws        int
	AwayWins     int
	HomeGoalsAvg float64
	AwayGoalsAvg float64
	Advantage    string // high | medium | low, a favor del local
}

// ContextualFactors son los factores de contexto del partido.
type ContextualFactors struct {
	MatchImportance string  // high | medium | low
	HomePressure    string  // high | medium | low
	AwayPressure    string  // high | medium | low
	HomeAdvantage   float64 // [0,1], fuerza del factor casa
	Neutral         bool    // partido en campo neutral
}
