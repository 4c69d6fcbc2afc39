package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/rmorales/footvalue/internal/domain"
)

// Console implementa ports.Notifier.
type Console struct {
	out     io.Writer
	table   bool
	verbose bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table, verbose bool) *Console {
	return &Console{out: os.Stdout, table: table, verbose: verbose}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table, verbose bool) *Console {
	return &Console{out: w, table: table, verbose: verbose}
}

// NotifyAnalysis imprime el análisis de un fixture en el modo configurado.
func (c *Console) NotifyAnalysis(_ context.Context, a domain.Analysis) error {
	if c.table {
		c.printFull(a)
	} else {
		c.printCompact(a)
	}
	if c.verbose && !a.Skipped {
		c.printValidation(a)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(a domain.Analysis) {
	date := a.Match.Date.Format("2006-01-02")

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %-28s", date, truncate(a.Match.Key(), 28))

	switch {
	case a.Skipped:
		fmt.Fprintf(&sb, " SKIP %s", a.SkipReason)
	case a.Best == nil:
		fmt.Fprintf(&sb, " H%.3f D%.3f A%.3f no value",
			a.Probability.HomeWin, a.Probability.Draw, a.Probability.AwayWin)
	default:
		fmt.Fprintf(&sb, " %s p%.3f @%.2f ev%+.3f %s [%s]",
			outcomeLabel(a.Best.Outcome), a.Best.Probability, a.Best.MarketOdds,
			a.Best.ExpectedValue, string(a.Best.ValueLevel), string(a.Best.Recommendation))
		if a.Recommendation != nil {
			fmt.Fprintf(&sb, " %.2fu $%.2f", a.Recommendation.RecommendedUnits, a.Recommendation.TotalStake)
		}
		if a.Bet != nil {
			result := "LOSS"
			if a.Bet.IsWinner {
				result = "WIN"
			}
			fmt.Fprintf(&sb, " → %s %+.2f bank$%.2f", result, a.Bet.Profit, a.Bet.CapitalAfter)
		}
	}
	for _, w := range a.RiskWarnings {
		fmt.Fprintf(&sb, "\n    !! %s", w)
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime la tabla de oportunidades del fixture.
func (c *Console) printFull(a domain.Analysis) {
	fmt.Fprintf(c.out, "\n%s — %s  conf %.3f\n",
		a.Match.Date.Format("2006-01-02"), a.Match.Key(), a.Probability.Confidence)

	if a.Skipped {
		fmt.Fprintf(c.out, "  SKIPPED: %s\n", a.SkipReason)
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Outcome", "Prob", "Odds", "Fair", "EV", "Kelly", "Level", "Rec")
	for _, opp := range a.Opportunities {
		table.Append(
			outcomeLabel(opp.Outcome),
			fmt.Sprintf("%.3f", opp.Probability),
			fmt.Sprintf("%.2f", opp.MarketOdds),
			fairLabel(opp.FairOdds),
			fmt.Sprintf("%+.3f", opp.ExpectedValue),
			fmt.Sprintf("%.4f", opp.KellyFraction),
			string(opp.ValueLevel),
			string(opp.Recommendation),
		)
	}
	table.Render()

	if a.Recommendation != nil {
		rec := a.Recommendation
		fmt.Fprintf(c.out, "  STAKE: %.2f units ($%.2f, unit $%.2f) — tier %s\n",
			rec.RecommendedUnits, rec.TotalStake, rec.UnitValue, string(rec.ConfidenceTier))
	}
	if a.Bet != nil {
		result := "LOSS"
		if a.Bet.IsWinner {
			result = "WIN"
		}
		fmt.Fprintf(c.out, "  RESULT: %s (%s) %+.2f → bankroll $%.2f\n",
			result, string(a.Bet.ActualOutcome), a.Bet.Profit, a.Bet.CapitalAfter)
	}
	for _, w := range a.RiskWarnings {
		fmt.Fprintf(c.out, "  !! %s\n", w)
	}
}

// printValidation imprime el desglose faceta a faceta de la probabilidad.
func (c *Console) printValidation(a domain.Analysis) {
	fmt.Fprintf(c.out, "  breakdown (w·p):\n")
	for _, fc := range a.Probability.Breakdown {
		fmt.Fprintf(c.out, "    %-14s w=%.3f  H%.4f D%.4f A%.4f  conf %.3f\n",
			string(fc.Facet), fc.Weight,
			fc.HomeWin, fc.Draw, fc.AwayWin, fc.Confidence)
	}
	if a.Best != nil {
		fmt.Fprintf(c.out, "    fair odds %s vs market %.2f → edge %.3f\n",
			fairLabel(a.Best.FairOdds), a.Best.MarketOdds, a.Best.ExpectedValue)
	}
}

// NotifySummary imprime el reporte de cierre de la sesión.
func (c *Console) NotifySummary(_ context.Context, r domain.SessionReport) error {
	fmt.Fprintf(c.out, "\n=== SESSION %s (seed %d) ===\n", shortID(r.SessionID), r.Seed)
	fmt.Fprintf(c.out, "  Fixtures: %d total, %d skipped, %d rejected, %d bets\n",
		r.TotalFixtures, r.SkippedFixtures, r.RejectedFixtures, r.TotalTrades)

	if r.TotalTrades > 0 {
		fmt.Fprintf(c.out, "  Record:   %d-%d (win rate %.1f%%)\n",
			r.WinningTrades, r.TotalTrades-r.WinningTrades, r.WinRate*100)
		fmt.Fprintf(c.out, "  Staked:   $%.2f (avg $%.2f @ %.2f, avg EV %+.3f)\n",
			r.TotalStaked, r.AvgStake, r.AvgOdds, r.AvgEV)
		fmt.Fprintf(c.out, "  Profit:   $%+.2f (ROI %+.2f%%, profit factor %.2f, sharpe-like %.3f)\n",
			r.TotalProfit, r.ROIPct, r.ProfitFactor, r.SharpeLike)
		fmt.Fprintf(c.out, "  Streaks:  best +%d / worst -%d\n", r.BestWinStreak, r.WorstLossStreak)
	}

	fmt.Fprintf(c.out, "  Bank:     $%.2f → $%.2f (peak $%.2f, max dd %.1f%%)\n",
		r.InitialCapital, r.FinalCapital, r.PeakCapital, r.MaxDrawdownPct)

	if len(r.PerTier) > 0 && c.table {
		c.printTierTable(r)
	}

	for _, alert := range r.Alerts {
		fmt.Fprintf(c.out, "  !! %s\n", alert)
	}
	if r.Ruined {
		fmt.Fprintf(c.out, "  *** BANKROLL RUINED: session stopped early ***\n")
	}
	fmt.Fprintln(c.out)
	return nil
}

// printTierTable imprime el desempeño por tier de confianza y por nivel
// de valor.
func (c *Console) printTierTable(r domain.SessionReport) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Group", "Bets", "Wins", "WinRate", "Staked", "Profit", "ROI")

	appendRow := func(label string, s domain.TierStats) {
		table.Append(
			label,
			fmt.Sprintf("%d", s.Bets),
			fmt.Sprintf("%d", s.Wins),
			fmt.Sprintf("%.1f%%", s.WinRate()*100),
			fmt.Sprintf("$%.2f", s.Staked),
			fmt.Sprintf("$%+.2f", s.Profit),
			fmt.Sprintf("%+.1f%%", s.ROI()),
		)
	}

	for _, tier := range domain.Tiers() {
		if s, ok := r.PerTier[tier]; ok {
			appendRow("tier:"+string(tier), s)
		}
	}
	levels := make([]string, 0, len(r.PerValueLevel))
	for level := range r.PerValueLevel {
		levels = append(levels, string(level))
	}
	sort.Strings(levels)
	for _, level := range levels {
		appendRow("value:"+level, r.PerValueLevel[domain.ValueLevel(level)])
	}
	table.Render()
}

// --- helpers ---

func outcomeLabel(o domain.Outcome) string {
	switch o {
	case domain.OutcomeHomeWin:
		return "HOME"
	case domain.OutcomeDraw:
		return "DRAW"
	case domain.OutcomeAwayWin:
		return "AWAY"
	}
	return string(o)
}

func fairLabel(fair float64) string {
	if fair > 99 {
		return "INF"
	}
	return fmt.Sprintf("%.2f", fair)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
