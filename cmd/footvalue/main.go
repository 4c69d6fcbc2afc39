package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rmorales/footvalue/config"
	"github.com/rmorales/footvalue/internal/adapters/notify"
	"github.com/rmorales/footvalue/internal/adapters/source"
	"github.com/rmorales/footvalue/internal/adapters/storage"
	"github.com/rmorales/footvalue/internal/backtest"
	"github.com/rmorales/footvalue/internal/domain"
	"github.com/rmorales/footvalue/internal/engine"
	"github.com/rmorales/footvalue/internal/ports"
)

// Exit codes: 0 sesión completada, 1 error de configuración (y cualquier
// otro fallo fatal), 2 error de la fuente de datos, 3 capital agotado.
const (
	exitOK     = 0
	exitConfig = 1
	exitData   = 2
	exitRuin   = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("footvalue", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to YAML config file (optional)")
	fixturesPath := fs.String("fixtures", "fixtures.json", "path to fixtures JSON file")
	seed := fs.Int64("seed", 0, "random seed (overrides config)")
	strict := fs.Bool("strict", false, "require labelled outcomes; skip unlabelled fixtures")
	verbose := fs.Bool("verbose", false, "set log level to debug and print probability breakdowns")
	logFormat := fs.String("format", "", "log format: text|json (overrides config)")
	table := fs.Bool("table", false, "print full tables per fixture (default: compact 1-line)")
	if err := fs.Parse(args); err != nil {
		return exitConfig
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		return exitConfig
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *seed != 0 {
		cfg.Backtest.RandomSeed = *seed
	}
	setupLogger(cfg.Log)

	slog.Info("footvalue starting",
		"fixtures", *fixturesPath,
		"seed", cfg.Backtest.RandomSeed,
		"capital", cfg.Backtest.InitialCapital,
		"strict", *strict,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fixtures, err := source.NewFile(*fixturesPath).Load(ctx)
	if err != nil {
		slog.Error("failed to load fixtures", "err", err, "path", *fixturesPath)
		return exitData
	}
	if len(fixtures) == 0 {
		slog.Error("fixtures file is empty", "path", *fixturesPath)
		return exitData
	}

	var store *storage.SQLiteStorage
	if cfg.Storage.DSN != "" {
		store, err = storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			return exitData
		}
		defer store.Close()
	}

	notifier := notify.NewConsoleWriter(os.Stdout, *table, *verbose)

	var outcomes ports.OutcomeSource = backtest.HybridOutcomes{}
	if *strict {
		outcomes = backtest.ActualOutcomes{}
	}

	session, err := backtest.NewSession(sessionConfig(cfg), outcomes, notifier)
	if err != nil {
		slog.Error("failed to build session", "err", err)
		return exitConfig
	}

	if err := session.Fit(fixtures); err != nil {
		slog.Warn("predictor calibration failed, using baselines", "err", err)
	}

	report, err := session.Run(ctx, fixtures)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Warn("session interrupted", "processed", report.TotalFixtures)
		} else {
			slog.Error("session failed", "err", err)
			return exitConfig
		}
	}

	if err := notifier.NotifySummary(ctx, report); err != nil {
		slog.Warn("summary output failed", "err", err)
	}

	if store != nil {
		if err := store.SaveSession(context.Background(), report, session.Bets()); err != nil {
			slog.Error("failed to persist session", "err", err)
			return exitData
		}
		slog.Info("session persisted", "session", report.SessionID, "dsn", cfg.Storage.DSN)
	}

	if report.Ruined {
		return exitRuin
	}
	return exitOK
}

// sessionConfig traduce la configuración YAML a la del driver.
func sessionConfig(cfg *config.Config) backtest.Config {
	sizer := engine.UnitSizerConfig{
		Tiers: domain.UnitTiers{
			domain.TierHigh:       unitRange(cfg.Units.Tiers.High),
			domain.TierMediumHigh: unitRange(cfg.Units.Tiers.MediumHigh),
			domain.TierMedium:     unitRange(cfg.Units.Tiers.Medium),
			domain.TierLow:        unitRange(cfg.Units.Tiers.Low),
		},
		MinUnits: cfg.Units.MinUnits,
		MaxUnits: cfg.Units.MaxUnits,
	}

	return backtest.Config{
		InitialCapital: cfg.Backtest.InitialCapital,
		AllowRuin:      cfg.Backtest.AllowRuin,
		Seed:           cfg.Backtest.RandomSeed,
		DataRecency:    cfg.Backtest.DataRecency,
		Weights: engine.FacetWeights{
			domain.FacetRecentForm:    cfg.Weights.RecentForm,
			domain.FacetHeadToHead:    cfg.Weights.HeadToHead,
			domain.FacetAdvancedStats: cfg.Weights.AdvancedStats,
			domain.FacetContextual:    cfg.Weights.Contextual,
			domain.FacetMomentum:      cfg.Weights.Momentum,
		},
		Thresholds: domain.ValueThresholds{
			Positive:    cfg.Value.PositiveEV,
			Significant: cfg.Value.SignificantEV,
			Excellent:   cfg.Value.ExcellentEV,
		},
		KellyCap:    cfg.Value.KellyCap,
		Sizer:       sizer,
		StakeCapPct: cfg.Risk.PerBetStakeCapPct,
	}
}

func unitRange(r config.UnitRangeConfig) domain.UnitRange {
	return domain.UnitRange{Low: r.Low, High: r.High}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
