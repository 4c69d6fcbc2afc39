package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/rmorales/footvalue/internal/bankroll"
	"github.com/rmorales/footvalue/internal/domain"
	"github.com/rmorales/footvalue/internal/engine"
	"github.com/rmorales/footvalue/internal/ports"
	"github.com/rmorales/footvalue/internal/predict"
)

// driver.go — el driver determinista del backtest. Dado el mismo
// slice de fixtures y la misma semilla, dos ejecuciones producen
// resultados idénticos: todo paso estocástico consume el único RNG de
// la sesión y no hay otra fuente de entropía en el core.

// Config agrupa los parámetros de una sesión de backtest.
type Config struct {
	InitialCapital float64
	// AllowRuin deja que el capital se vuelva negativo en lugar de
	// recortar el stake al capital disponible.
	AllowRuin bool
	Seed      int64
	// DataRecency es el insumo de frescura de datos para la confianza
	// agregada; lo suministra el caller, nunca se fabrica.
	DataRecency float64

	Weights     engine.FacetWeights
	Thresholds  domain.ValueThresholds
	KellyCap    float64
	Sizer       engine.UnitSizerConfig
	StakeCapPct float64
}

// DefaultConfig devuelve una configuración operable con los valores de
// referencia del motor.
func DefaultConfig() Config {
	return Config{
		InitialCapital: 1000,
		Seed:           1,
		DataRecency:    1.0,
		Weights:        engine.DefaultFacetWeights(),
		Thresholds:     domain.DefaultValueThresholds(),
		KellyCap:       domain.DefaultKellyCap,
		Sizer:          engine.DefaultUnitSizerConfig(),
		StakeCapPct:    0.10,
	}
}

// Session mantiene el estado de un backtest en curso. Run puede llamarse
// varias veces sobre la misma sesión: procesar N fixtures y luego M es
// idéntico a procesar los N+M de una vez.
type Session struct {
	id   string
	seed int64
	rng  *rand.Rand

	ensemble *predict.Ensemble
	analyzer *engine.Analyzer
	sizer    *engine.UnitSizer
	gate     *engine.RiskGate
	sim      *bankroll.Simulator

	outcomes ports.OutcomeSource
	notifier ports.Notifier

	startedAt time.Time

	totalFixtures    int
	skippedFixtures  int
	rejectedFixtures int
}

// NewSession construye la sesión completa a partir de la configuración.
// outcomes resuelve el resultado realizado de cada fixture; notifier
// puede ser nil si no se quiere salida por fixture.
func NewSession(cfg Config, outcomes ports.OutcomeSource, notifier ports.Notifier) (*Session, error) {
	if outcomes == nil {
		return nil, fmt.Errorf("backtest.NewSession: outcome source is required")
	}

	aggregator, err := engine.NewAggregator(cfg.Weights)
	if err != nil {
		return nil, fmt.Errorf("backtest.NewSession: %w", err)
	}
	value, err := engine.NewValueEngine(cfg.Thresholds, cfg.KellyCap)
	if err != nil {
		return nil, fmt.Errorf("backtest.NewSession: %w", err)
	}
	sizer, err := engine.NewUnitSizer(cfg.Sizer)
	if err != nil {
		return nil, fmt.Errorf("backtest.NewSession: %w", err)
	}
	sim, err := bankroll.New(cfg.InitialCapital, cfg.AllowRuin)
	if err != nil {
		return nil, fmt.Errorf("backtest.NewSession: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	ensemble := predict.DefaultEnsemble(rng)

	return &Session{
		id:        sessionID(cfg.Seed),
		seed:      cfg.Seed,
		rng:       rng,
		ensemble:  ensemble,
		analyzer:  engine.NewAnalyzer(ensemble, aggregator, value, cfg.DataRecency),
		sizer:     sizer,
		gate:      engine.NewRiskGate(cfg.StakeCapPct),
		sim:       sim,
		outcomes:  outcomes,
		notifier:  notifier,
		startedAt: time.Now().UTC(),
	}, nil
}

// Fit calibra los predictores del ensemble con fixtures etiquetados.
// Es opcional: sin calibración los predictores usan sus baselines.
func (s *Session) Fit(history []domain.Fixture) error {
	if err := s.ensemble.Fit(history); err != nil {
		return fmt.Errorf("backtest.Fit: %w", err)
	}
	return nil
}

// ID devuelve el identificador determinista de la sesión.
func (s *Session) ID() string { return s.id }

// Bets devuelve el historial de apuestas ejecutadas hasta ahora.
func (s *Session) Bets() []domain.BetRecord { return s.sim.Bets() }

// Run procesa los fixtures en orden y devuelve el reporte acumulado de
// la sesión. La cancelación del contexto solo se comprueba entre
// fixtures: un fixture nunca queda a medio contabilizar.
func (s *Session) Run(ctx context.Context, fixtures []domain.Fixture) (domain.SessionReport, error) {
	for _, f := range fixtures {
		if err := ctx.Err(); err != nil {
			return s.report(), fmt.Errorf("backtest.Run: %w", err)
		}
		if s.sim.Ruined() {
			slog.Warn("bankroll ruined, stopping session early",
				"session", s.id, "capital", s.sim.State().CurrentCapital)
			break
		}
		s.processFixture(ctx, f)
	}
	return s.report(), nil
}

// processFixture corre el ciclo completo de un fixture: análisis,
// sizing, gate, resolución del resultado y contabilidad.
func (s *Session) processFixture(ctx context.Context, f domain.Fixture) {
	s.totalFixtures++

	analysis := s.analyzer.Analyze(f)
	if analysis.Skipped {
		s.skippedFixtures++
		s.notify(ctx, analysis)
		return
	}
	if analysis.Best == nil {
		// sin valor positivo en ningún resultado: no se apuesta y la
		// banca no se toca
		s.notify(ctx, analysis)
		return
	}

	state := s.sim.State()
	rec := s.sizer.Recommend(*analysis.Best, state)
	decision := s.gate.Check(state, *analysis.Best, &rec)
	analysis.RiskWarnings = decision.Warnings
	if !decision.Approved {
		s.rejectedFixtures++
		analysis.RiskWarnings = append(analysis.RiskWarnings, "rejected: "+decision.RejectReason)
		slog.Info("bet rejected by risk gate",
			"match", f.Match.Key(), "reason", decision.RejectReason)
		s.notify(ctx, analysis)
		return
	}
	analysis.Recommendation = &rec

	actual, err := s.outcomes.Realize(f, s.rng)
	if err != nil {
		s.skippedFixtures++
		analysis.Skipped = true
		analysis.SkipReason = "outcome unavailable: " + err.Error()
		slog.Warn("fixture skipped: outcome unavailable", "match", f.Match.Key(), "err", err)
		s.notify(ctx, analysis)
		return
	}

	bet, err := s.sim.Execute(f.Match, rec, analysis.Best.ValueLevel, actual, analysis.Best.MarketOdds, f.Match.Date)
	if err != nil {
		s.skippedFixtures++
		analysis.Skipped = true
		analysis.SkipReason = "execution failed: " + err.Error()
		slog.Warn("fixture skipped: execution failed", "match", f.Match.Key(), "err", err)
		s.notify(ctx, analysis)
		return
	}
	analysis.Bet = &bet

	s.notify(ctx, analysis)
}

func (s *Session) notify(ctx context.Context, analysis domain.Analysis) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyAnalysis(ctx, analysis); err != nil {
		slog.Warn("notify failed", "match", analysis.Match.Key(), "err", err)
	}
}

// sessionID deriva un UUID determinista de la semilla para que dos
// ejecuciones con la misma semilla compartan identificador.
func sessionID(seed int64) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("footvalue-session-%d", seed))).String()
}
