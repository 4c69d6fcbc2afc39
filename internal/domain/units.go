package domain

// units.go — tiers de confianza y recomendación de unidades.

// ConfidenceTier es el escalón de confianza que fija el rango base de unidades.
type ConfidenceTier string

const (
	TierHigh       ConfidenceTier = "high"
	TierMediumHigh ConfidenceTier = "medium_high"
	TierMedium     ConfidenceTier = "medium"
	TierLow        ConfidenceTier = "low"
)

// Tiers devuelve los cuatro escalones en orden descendente de confianza.
func Tiers() [4]ConfidenceTier {
	return [4]ConfidenceTier{TierHigh, TierMediumHigh, TierMedium, TierLow}
}

// UnitRange es el rango [Low, High] de unidades base de un tier.
// Las unidades base son el punto medio del rango.
type UnitRange struct {
	Low  float64
	High float64
}

// Base devuelve el punto medio del rango.
func (r UnitRange) Base() float64 {
	return (r.Low + r.High) / 2
}

// UnitTiers mapea cada tier a su rango base.
type UnitTiers map[ConfidenceTier]UnitRange

// DefaultUnitTiers devuelve los rangos de unidades por defecto.
func DefaultUnitTiers() UnitTiers {
	return UnitTiers{
		TierHigh:       {Low: 2.0, High: 3.0},
		TierMediumHigh: {Low: 1.5, High: 2.0},
		TierMedium:     {Low: 1.0, High: 1.5},
		TierLow:        {Low: 0.5, High: 1.0},
	}
}

// TierFor devuelve el tier correspondiente a una confianza agregada.
func TierFor(confidence float64) ConfidenceTier {
	switch {
	case confidence >= 0.85:
		return TierHigh
	case confidence >= 0.75:
		return TierMediumHigh
	case confidence >= 0.70:
		return TierMedium
	default:
		return TierLow
	}
}

// UnitRecommendation es la salida del unit sizer: unidades recomendadas,
// valor monetario de la unidad (1% de la banca actual) y stake total,
// junto con los factores de ajuste aplicados y su razonamiento.
type UnitRecommendation struct {
	Outcome           Outcome
	ConfidenceTier    ConfidenceTier
	Confidence        float64
	ExpectedValue     float64
	RecommendedUnits  float64
	UnitValue         float64
	TotalStake        float64
	AdjustmentFactors map[string]float64
	Reasoning         []string
}
