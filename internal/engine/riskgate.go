package engine

import (
	"fmt"

	"github.com/rmorales/footvalue/internal/domain"
)

// riskgate.go — capa única de veto pre-apuesta. Todas las reglas de
// veto viven aquí, en un orden documentado; ningún otro componente veta.

const (
	defaultStakeCapPct = 0.10
	gateEVFloor        = 0.05
	gateProbLow        = 0.3
	gateProbHigh       = 0.7
	gateOddsLow        = 1.5
	gateOddsHigh       = 5.0
)

// GateDecision es el resultado de pasar una recomendación por el gate.
type GateDecision struct {
	// Approved false implica que el ciclo del fixture termina sin
	// contabilidad. Un rechazo NO es un error.
	Approved     bool
	RejectReason string
	// Downgraded indica que la recomendación bajó a `consider` (sin
	// ejecución) por EV insuficiente.
	Downgraded bool
	// Clipped indica que el stake se recortó al tope por apuesta.
	Clipped  bool
	Warnings []string
}

// RiskGate aplica los checks de viabilidad pre-apuesta en orden fijo:
//
//  1. status critical → rechazo "critical-drawdown-halt"
//  2. stake > cap% de la banca → clip + anotación
//  3. EV < 0.05 y no strong_bet → downgrade a consider
//  4. probabilidad fuera de (0.3, 0.7) → warning
//  5. cuota fuera de [1.5, 5.0] → warning
type RiskGate struct {
	stakeCapPct float64
}

// NewRiskGate crea el gate. stakeCapPct <= 0 usa el 10% por defecto.
func NewRiskGate(stakeCapPct float64) *RiskGate {
	if stakeCapPct <= 0 {
		stakeCapPct = defaultStakeCapPct
	}
	return &RiskGate{stakeCapPct: stakeCapPct}
}

// Check evalúa la recomendación contra el estado de la banca. Puede mutar
// rec (clip de stake, reescribiendo unidades para conservar la invariante
// stake = units × unit_value).
func (g *RiskGate) Check(state domain.BankrollState, best domain.ValueOpportunity, rec *domain.UnitRecommendation) GateDecision {
	d := GateDecision{Approved: true}

	// 1. halt por drawdown crítico
	if state.Status() == domain.StatusCritical {
		return GateDecision{Approved: false, RejectReason: "critical-drawdown-halt"}
	}

	// 2. tope de stake por apuesta
	maxStake := state.CurrentCapital * g.stakeCapPct
	if rec.TotalStake > maxStake {
		d.Clipped = true
		d.Warnings = append(d.Warnings, fmt.Sprintf("clipped: stake %.2f > %.0f%% of bankroll, reduced to %.2f",
			rec.TotalStake, g.stakeCapPct*100, maxStake))
		rec.TotalStake = maxStake
		if rec.UnitValue > 0 {
			rec.RecommendedUnits = maxStake / rec.UnitValue
		}
	}

	// 3. EV marginal sin convicción → downgrade, sin ejecución
	if best.ExpectedValue < gateEVFloor && best.Recommendation != domain.RecommendStrongBet {
		d.Approved = false
		d.Downgraded = true
		d.RejectReason = "ev-below-floor-downgraded-to-consider"
		return d
	}

	// 4. probabilidades extremas: warning, no rechazo
	if best.Probability <= gateProbLow || best.Probability >= gateProbHigh {
		d.Warnings = append(d.Warnings, fmt.Sprintf("extreme probability %.3f outside (%.1f, %.1f)",
			best.Probability, gateProbLow, gateProbHigh))
	}

	// 5. cuotas fuera de la banda operable: warning, no rechazo
	if best.MarketOdds < gateOddsLow || best.MarketOdds > gateOddsHigh {
		d.Warnings = append(d.Warnings, fmt.Sprintf("odds %.2f outside operable band [%.1f, %.1f]",
			best.MarketOdds, gateOddsLow, gateOddsHigh))
	}

	return d
}
