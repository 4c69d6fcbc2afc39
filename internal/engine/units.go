package engine

import (
	"fmt"

	"github.com/rmorales/footvalue/internal/domain"
)

// units.go — unit sizer: de (confianza, EV, estado de banca) a
// unidades de riesgo y stake monetario.

const (
	defaultMinUnits = 0.5
	defaultMaxUnits = 3.0
	// unitPct: una unidad vale el 1% de la banca actual.
	unitPct = 0.01
)

// UnitSizerConfig controla los tiers y la ventana global de unidades.
type UnitSizerConfig struct {
	Tiers    domain.UnitTiers
	MinUnits float64
	MaxUnits float64
}

// DefaultUnitSizerConfig devuelve los tiers y la ventana de unidades por defecto.
func DefaultUnitSizerConfig() UnitSizerConfig {
	return UnitSizerConfig{
		Tiers:    domain.DefaultUnitTiers(),
		MinUnits: defaultMinUnits,
		MaxUnits: defaultMaxUnits,
	}
}

// UnitSizer produce UnitRecommendations.
type UnitSizer struct {
	cfg UnitSizerConfig
}

// NewUnitSizer crea el sizer validando la configuración.
func NewUnitSizer(cfg UnitSizerConfig) (*UnitSizer, error) {
	if cfg.Tiers == nil {
		cfg.Tiers = domain.DefaultUnitTiers()
	}
	for _, tier := range domain.Tiers() {
		r, ok := cfg.Tiers[tier]
		if !ok {
			return nil, fmt.Errorf("engine.NewUnitSizer: missing tier %s", tier)
		}
		if r.Low <= 0 || r.High < r.Low {
			return nil, fmt.Errorf("engine.NewUnitSizer: tier %s range [%v, %v] invalid", tier, r.Low, r.High)
		}
	}
	if cfg.MinUnits <= 0 {
		cfg.MinUnits = defaultMinUnits
	}
	if cfg.MaxUnits < cfg.MinUnits {
		return nil, fmt.Errorf("engine.NewUnitSizer: max units %v < min units %v", cfg.MaxUnits, cfg.MinUnits)
	}
	return &UnitSizer{cfg: cfg}, nil
}

// Recommend calcula la recomendación para la mejor oportunidad dada la
// vista de banca. Las unidades base son el punto medio del tier y se
// ajustan por cuatro factores multiplicativos en [0.8, 1.2], recortando
// el producto a la ventana global [min_units, max_units].
func (s *UnitSizer) Recommend(best domain.ValueOpportunity, state domain.BankrollState) domain.UnitRecommendation {
	tier := domain.TierFor(best.Confidence)
	base := s.cfg.Tiers[tier].Base()

	factors := map[string]float64{
		"ev":                  evFactor(best.ExpectedValue),
		"recent_performance":  performanceFactor(state.RollingROI),
		"streak":              streakFactor(state),
		"bankroll_volatility": volatilityFactor(state),
	}

	units := base
	reasoning := []string{
		fmt.Sprintf("tier %s (confianza %.2f): base %.2f unidades", tier, best.Confidence, base),
	}
	// orden fijo para que el razonamiento sea determinista
	for _, name := range []string{"ev", "recent_performance", "streak", "bankroll_volatility"} {
		f := factors[name]
		units *= f
		if f != 1.0 {
			reasoning = append(reasoning, fmt.Sprintf("factor %s ×%.2f", name, f))
		}
	}

	if units < s.cfg.MinUnits {
		units = s.cfg.MinUnits
	} else if units > s.cfg.MaxUnits {
		units = s.cfg.MaxUnits
	}

	unitValue := state.CurrentCapital * unitPct
	return domain.UnitRecommendation{
		Outcome:           best.Outcome,
		ConfidenceTier:    tier,
		Confidence:        best.Confidence,
		ExpectedValue:     best.ExpectedValue,
		RecommendedUnits:  units,
		UnitValue:         unitValue,
		TotalStake:        units * unitValue,
		AdjustmentFactors: factors,
		Reasoning:         reasoning,
	}
}

// evFactor premia EVs altos y castiga los marginales.
func evFactor(ev float64) float64 {
	switch {
	case ev > 0.15:
		return 1.2
	case ev > 0.10:
		return 1.1
	case ev < 0.05:
		return 0.8
	default:
		return 1.0
	}
}

// performanceFactor mira el ROI rodante de las últimas 10 apuestas
// completadas (nunca la apuesta en curso).
func performanceFactor(rollingROI float64) float64 {
	switch {
	case rollingROI > 0.15:
		return 1.1
	case rollingROI < -0.10:
		return 0.9
	default:
		return 1.0
	}
}

// streakFactor enfría tras rachas ganadoras largas y ve oportunidad
// tras rachas perdedoras largas.
func streakFactor(state domain.BankrollState) float64 {
	switch {
	case state.WinStreak > 3:
		return 0.9
	case state.LossStreak > 3:
		return 1.1
	default:
		return 1.0
	}
}

// volatilityFactor ajusta por el desvío de la banca respecto al capital
// inicial.
func volatilityFactor(state domain.BankrollState) float64 {
	if state.InitialCapital <= 0 {
		return 1.0
	}
	change := (state.CurrentCapital - state.InitialCapital) / state.InitialCapital
	switch {
	case change > 0.20:
		return 1.1
	case change < -0.15:
		return 0.8
	default:
		return 1.0
	}
}
