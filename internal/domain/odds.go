package domain

import "fmt"

// Odds son las cuotas decimales de mercado por resultado. Cada componente
// debe ser estrictamente > 1.0. El core nunca las muta.
type Odds struct {
	Home float64
	Draw float64
	Away float64
}

// For devuelve la cuota del resultado dado.
func (o Odds) For(outcome Outcome) float64 {
	switch outcome {
	case OutcomeHomeWin:
		return o.Home
	case OutcomeDraw:
		return o.Draw
	case OutcomeAwayWin:
		return o.Away
	}
	return 0
}

// Validate devuelve error si alguna cuota no es estrictamente mayor que 1.0.
func (o Odds) Validate() error {
	for _, out := range Outcomes() {
		if v := o.For(out); v <= 1.0 {
			return fmt.Errorf("odds %s = %.3f: must be > 1.0", out, v)
		}
	}
	return nil
}

// Implied devuelve las probabilidades implícitas normalizadas (sin margen).
// Es la base del sampler de resultados cuando no se conoce el resultado real.
func (o Odds) Implied() MatchProbability {
	ih := 1.0 / o.Home
	id := 1.0 / o.Draw
	ia := 1.0 / o.Away
	total := ih + id + ia
	return MatchProbability{
		HomeWin: ih / total,
		Draw:    id / total,
		AwayWin: ia / total,
	}
}

// Margin devuelve el overround del bookmaker: sum(1/odds) - 1.
func (o Odds) Margin() float64 {
	return 1.0/o.Home + 1.0/o.Draw + 1.0/o.Away - 1.0
}
