// Package bankroll owns the session's only mutable singleton: the
// simulated bankroll. All capital mutation happens here, one bet at
// a time, all-or-nothing; every other component sees read-only views.
package bankroll

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rmorales/footvalue/internal/domain"
)

const (
	// rollingWindow is how many completed bets the recent-performance
	// factor looks back on. The in-flight bet is never included.
	rollingWindow = 10

	stopLossPct   = -15.0
	takeProfitPct = 30.0
	lowWinRate    = 0.40
)

// Simulator tracks capital, drawdown, streaks and per-tier aggregates for
// one session. Not safe for concurrent use: the backtest loop is
// single-threaded by design.
type Simulator struct {
	initial   float64
	current   float64
	peak      float64
	maxDDPct  float64
	allowRuin bool

	bets []domain.BetRecord
	// streak > 0 counts consecutive wins, < 0 consecutive losses
	streak          int
	bestWinStreak   int
	worstLossStreak int

	perTier  map[domain.ConfidenceTier]*domain.TierStats
	perLevel map[domain.ValueLevel]*domain.TierStats
}

// New creates a simulator with the given starting capital.
func New(initialCapital float64, allowRuin bool) (*Simulator, error) {
	if initialCapital <= 0 {
		return nil, fmt.Errorf("bankroll.New: initial capital %v: must be > 0", initialCapital)
	}
	return &Simulator{
		initial:   initialCapital,
		current:   initialCapital,
		peak:      initialCapital,
		allowRuin: allowRuin,
		perTier:   make(map[domain.ConfidenceTier]*domain.TierStats),
		perLevel:  make(map[domain.ValueLevel]*domain.TierStats),
	}, nil
}

// Execute books a sized wager against the realized outcome and returns the
// bet record. On win profit = stake·(odds-1), on loss profit = -stake;
// capital moves by exactly that amount. Outside allow-ruin mode the stake
// is clamped so capital can never go negative.
func (s *Simulator) Execute(match domain.Match, rec domain.UnitRecommendation, level domain.ValueLevel, actual domain.Outcome, odds float64, at time.Time) (domain.BetRecord, error) {
	if !actual.Valid() {
		return domain.BetRecord{}, fmt.Errorf("bankroll.Execute: invalid actual outcome %q", actual)
	}
	if rec.TotalStake <= 0 {
		return domain.BetRecord{}, fmt.Errorf("bankroll.Execute: non-positive stake %v", rec.TotalStake)
	}

	stake := rec.TotalStake
	units := rec.RecommendedUnits
	if !s.allowRuin && stake > s.current {
		stake = s.current
		if rec.UnitValue > 0 {
			units = stake / rec.UnitValue
		}
	}

	isWinner := rec.Outcome == actual
	profit := -stake
	if isWinner {
		profit = stake * (odds - 1)
	}

	before := s.current
	s.current += profit
	if s.current > s.peak {
		s.peak = s.current
	}
	if dd := s.DrawdownPct(); dd > s.maxDDPct {
		s.maxDDPct = dd
	}

	s.updateStreak(isWinner)
	accumulate(s.perTier, rec.ConfidenceTier, isWinner, stake, units, profit)
	accumulate(s.perLevel, level, isWinner, stake, units, profit)

	record := domain.BetRecord{
		ID:             betID(match, len(s.bets)),
		Match:          match,
		Recommendation: rec,
		BetOutcome:     rec.Outcome,
		ActualOutcome:  actual,
		Odds:           odds,
		Stake:          stake,
		Profit:         profit,
		CapitalBefore:  before,
		CapitalAfter:   s.current,
		IsWinner:       isWinner,
		ValueLevel:     level,
		Timestamp:      at,
	}
	s.bets = append(s.bets, record)
	return record, nil
}

// betID derives a stable identifier so identical runs produce identical
// records (random v4 UUIDs would break byte-for-byte reproducibility).
func betID(match domain.Match, seq int) string {
	name := fmt.Sprintf("%s|%s|%d", match.HomeID, match.AwayID, seq)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func (s *Simulator) updateStreak(win bool) {
	if win {
		if s.streak > 0 {
			s.streak++
		} else {
			s.streak = 1
		}
		if s.streak > s.bestWinStreak {
			s.bestWinStreak = s.streak
		}
		return
	}
	if s.streak < 0 {
		s.streak--
	} else {
		s.streak = -1
	}
	if -s.streak > s.worstLossStreak {
		s.worstLossStreak = -s.streak
	}
}

func accumulate[K comparable](m map[K]*domain.TierStats, key K, win bool, stake, units, profit float64) {
	stats, ok := m[key]
	if !ok {
		stats = &domain.TierStats{}
		m[key] = stats
	}
	stats.Bets++
	if win {
		stats.Wins++
	}
	stats.UnitsStaked += units
	if stake > 0 {
		stats.UnitsProfit += profit / stake * units
	}
	stats.Staked += stake
	stats.Profit += profit
}

// DrawdownPct returns the current drawdown over the peak, in percent.
func (s *Simulator) DrawdownPct() float64 {
	if s.peak <= 0 {
		return 0
	}
	return (s.peak - s.current) / s.peak * 100
}

// Status derives the bankroll status from the current drawdown.
// Derived on every call, never stored.
func (s *Simulator) Status() domain.BankrollStatus {
	return domain.StatusForDrawdown(s.DrawdownPct())
}

// Ruined reports whether the capital has been exhausted.
func (s *Simulator) Ruined() bool {
	return s.current <= 0
}

// State returns the read-only view the unit sizer consumes. The rolling
// ROI covers the last completed bets only.
func (s *Simulator) State() domain.BankrollState {
	state := domain.BankrollState{
		InitialCapital: s.initial,
		CurrentCapital: s.current,
		PeakCapital:    s.peak,
		DrawdownPct:    s.DrawdownPct(),
		MaxDrawdownPct: s.maxDDPct,
		RollingROI:     s.rollingROI(),
		TotalBets:      len(s.bets),
	}
	if s.streak > 0 {
		state.WinStreak = s.streak
	} else {
		state.LossStreak = -s.streak
	}
	return state
}

func (s *Simulator) rollingROI() float64 {
	start := len(s.bets) - rollingWindow
	if start < 0 {
		start = 0
	}
	var staked, profit float64
	for _, b := range s.bets[start:] {
		staked += b.Stake
		profit += b.Profit
	}
	if staked == 0 {
		return 0
	}
	return profit / staked
}

// Bets returns the totally ordered bet history.
func (s *Simulator) Bets() []domain.BetRecord {
	return s.bets
}

// PerTier returns the per-confidence-tier aggregates.
func (s *Simulator) PerTier() map[domain.ConfidenceTier]domain.TierStats {
	return copyStats(s.perTier)
}

// PerValueLevel returns the per-value-level aggregates.
func (s *Simulator) PerValueLevel() map[domain.ValueLevel]domain.TierStats {
	return copyStats(s.perLevel)
}

func copyStats[K comparable](m map[K]*domain.TierStats) map[K]domain.TierStats {
	out := make(map[K]domain.TierStats, len(m))
	for k, v := range m {
		out[k] = *v
	}
	return out
}

// Streaks returns the best winning and worst losing streak lengths.
func (s *Simulator) Streaks() (bestWin, worstLoss int) {
	return s.bestWinStreak, s.worstLossStreak
}

// Alerts returns the active risk alerts: stop loss, take profit and low
// hit rate. They are advisory; only the risk gate halts betting.
func (s *Simulator) Alerts() []string {
	var alerts []string
	profitPct := (s.current - s.initial) / s.initial * 100
	if profitPct < stopLossPct {
		alerts = append(alerts, fmt.Sprintf("stop-loss: down %.1f%% from initial capital", -profitPct))
	}
	if profitPct > takeProfitPct {
		alerts = append(alerts, fmt.Sprintf("take-profit: up %.1f%% from initial capital", profitPct))
	}
	if len(s.bets) > 10 {
		wins := 0
		for _, b := range s.bets {
			if b.IsWinner {
				wins++
			}
		}
		if rate := float64(wins) / float64(len(s.bets)); rate < lowWinRate {
			alerts = append(alerts, fmt.Sprintf("low win rate: %.0f%% over %d bets", rate*100, len(s.bets)))
		}
	}
	return alerts
}
