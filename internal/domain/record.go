package domain

import "time"

// record.go — registros contables de la banca simulada.

// BankrollStatus es el estado derivado de la banca según su drawdown actual.
// Se recalcula en cada consulta, nunca se almacena.
type BankrollStatus string

const (
	StatusHealthy  BankrollStatus = "healthy"  // drawdown < 10%
	StatusCaution  BankrollStatus = "caution"  // 10-20%
	StatusDanger   BankrollStatus = "danger"   // 20-30%
	StatusCritical BankrollStatus = "critical" // >= 30%
)

// StatusForDrawdown deriva el estado a partir del drawdown en porcentaje.
func StatusForDrawdown(pct float64) BankrollStatus {
	switch {
	case pct >= 30:
		return StatusCritical
	case pct >= 20:
		return StatusDanger
	case pct >= 10:
		return StatusCaution
	default:
		return StatusHealthy
	}
}

// BetRecord es una apuesta simulada ejecutada contra la banca.
// Invariante: CapitalAfter = CapitalBefore + Profit, exactamente.
type BetRecord struct {
	ID             string
	Match          Match
	Recommendation UnitRecommendation
	BetOutcome     Outcome
	ActualOutcome  Outcome
	Odds           float64
	Stake          float64
	Profit         float64 // stake·(odds-1) si gana, -stake si pierde
	CapitalBefore  float64
	CapitalAfter   float64
	IsWinner       bool
	ValueLevel     ValueLevel
	Timestamp      time.Time
}

// BankrollState es la vista de solo lectura de la banca que consume el
// unit sizer para sus factores de ajuste. La observan siempre las últimas
// N apuestas COMPLETADAS, nunca la apuesta en curso.
type BankrollState struct {
	InitialCapital float64
	CurrentCapital float64
	PeakCapital    float64
	DrawdownPct    float64
	MaxDrawdownPct float64
	// RollingROI es el ROI de las últimas 10 apuestas completadas.
	RollingROI float64
	// WinStreak y LossStreak: longitud de la racha actual (solo una > 0).
	WinStreak  int
	LossStreak int
	TotalBets  int
}

// Status deriva el estado de la banca del drawdown actual.
func (s BankrollState) Status() BankrollStatus {
	return StatusForDrawdown(s.DrawdownPct)
}

// TierStats acumula resultados por tier de confianza o por value level.
type TierStats struct {
	Bets        int
	Wins        int
	UnitsStaked float64
	UnitsProfit float64
	Staked      float64
	Profit      float64
}

// WinRate devuelve la tasa de acierto del grupo.
func (t TierStats) WinRate() float64 {
	if t.Bets == 0 {
		return 0
	}
	return float64(t.Wins) / float64(t.Bets)
}

// ROI devuelve el retorno sobre lo apostado del grupo, en porcentaje.
func (t TierStats) ROI() float64 {
	if t.Staked == 0 {
		return 0
	}
	return t.Profit / t.Staked * 100
}
