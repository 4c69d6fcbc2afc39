package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del backtest.
type Config struct {
	Backtest BacktestConfig `yaml:"backtest"`
	Weights  WeightsConfig  `yaml:"weights"`
	Value    ValueConfig    `yaml:"value"`
	Units    UnitsConfig    `yaml:"units"`
	Risk     RiskConfig     `yaml:"risk"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// BacktestConfig controla la sesión de simulación.
type BacktestConfig struct {
	InitialCapital float64 `yaml:"initial_capital"`
	AllowRuin      bool    `yaml:"allow_ruin"`
	RandomSeed     int64   `yaml:"random_seed"`
	// DataRecency es la frescura de los datos suministrados, en [0,1].
	// Entra tal cual en la confianza agregada.
	DataRecency float64 `yaml:"data_recency"`
}

// WeightsConfig son los pesos por faceta del agregador. Deben sumar 1
// tras renormalizar.
type WeightsConfig struct {
	RecentForm    float64 `yaml:"recent_form"`
	HeadToHead    float64 `yaml:"head_to_head"`
	AdvancedStats float64 `yaml:"advanced_stats"`
	Contextual    float64 `yaml:"contextual"`
	Momentum      float64 `yaml:"momentum"`
}

// ValueConfig controla los umbrales de EV y el tope de Kelly.
type ValueConfig struct {
	PositiveEV    float64 `yaml:"positive_ev"`
	SignificantEV float64 `yaml:"significant_ev"`
	ExcellentEV   float64 `yaml:"excellent_ev"`
	KellyCap      float64 `yaml:"kelly_cap"`
}

// UnitsConfig controla los tiers base y la ventana global de unidades
// del sizer.
type UnitsConfig struct {
	Tiers    TiersConfig `yaml:"tiers"`
	MinUnits float64     `yaml:"min_units"`
	MaxUnits float64     `yaml:"max_units"`
}

// TiersConfig son los cuatro rangos (low, high) de unidades base, uno
// por tier de confianza.
type TiersConfig struct {
	High       UnitRangeConfig `yaml:"high"`
	MediumHigh UnitRangeConfig `yaml:"medium_high"`
	Medium     UnitRangeConfig `yaml:"medium"`
	Low        UnitRangeConfig `yaml:"low"`
}

// UnitRangeConfig es un rango [low, high] de unidades base de un tier.
type UnitRangeConfig struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// RiskConfig controla el risk gate.
type RiskConfig struct {
	// PerBetStakeCapPct es la fracción máxima de la banca por apuesta.
	PerBetStakeCapPct float64 `yaml:"per_bet_stake_cap_pct"`
}

// StorageConfig controla dónde se persisten las sesiones.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, ":memory:", o "" para desactivar
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si
// existe. Con path vacío se usan solo defaults y entorno.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// Validate comprueba los rangos que los constructores del motor no
// pueden arreglar con defaults.
func (c *Config) Validate() error {
	if c.Backtest.InitialCapital <= 0 {
		return fmt.Errorf("backtest.initial_capital must be > 0, got %v", c.Backtest.InitialCapital)
	}
	if c.Backtest.DataRecency < 0 || c.Backtest.DataRecency > 1 {
		return fmt.Errorf("backtest.data_recency must be in [0,1], got %v", c.Backtest.DataRecency)
	}
	if c.Value.KellyCap <= 0 || c.Value.KellyCap > 1 {
		return fmt.Errorf("value.kelly_cap must be in (0,1], got %v", c.Value.KellyCap)
	}
	if !(c.Value.PositiveEV < c.Value.SignificantEV && c.Value.SignificantEV < c.Value.ExcellentEV) {
		return fmt.Errorf("value thresholds must be strictly increasing: %v / %v / %v",
			c.Value.PositiveEV, c.Value.SignificantEV, c.Value.ExcellentEV)
	}
	if c.Risk.PerBetStakeCapPct <= 0 || c.Risk.PerBetStakeCapPct > 1 {
		return fmt.Errorf("risk.per_bet_stake_cap_pct must be in (0,1], got %v", c.Risk.PerBetStakeCapPct)
	}
	for name, w := range map[string]float64{
		"recent_form":    c.Weights.RecentForm,
		"head_to_head":   c.Weights.HeadToHead,
		"advanced_stats": c.Weights.AdvancedStats,
		"contextual":     c.Weights.Contextual,
		"momentum":       c.Weights.Momentum,
	} {
		if w < 0 {
			return fmt.Errorf("weights.%s must be >= 0, got %v", name, w)
		}
	}
	for name, r := range map[string]UnitRangeConfig{
		"high":        c.Units.Tiers.High,
		"medium_high": c.Units.Tiers.MediumHigh,
		"medium":      c.Units.Tiers.Medium,
		"low":         c.Units.Tiers.Low,
	} {
		if r.Low < 0 || r.High <= r.Low {
			return fmt.Errorf("units.tiers.%s: range [%v, %v] must satisfy 0 <= low < high", name, r.Low, r.High)
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q unknown", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q unknown", c.Log.Format)
	}
	return nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si
// están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("FOOTVALUE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("FOOTVALUE_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Backtest.RandomSeed = seed
		}
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Backtest.InitialCapital == 0 {
		cfg.Backtest.InitialCapital = 1000
	}
	if cfg.Backtest.RandomSeed == 0 {
		cfg.Backtest.RandomSeed = 1
	}
	if cfg.Backtest.DataRecency == 0 {
		cfg.Backtest.DataRecency = 1.0
	}
	if weightsUnset(cfg.Weights) {
		cfg.Weights = WeightsConfig{
			RecentForm:    0.40,
			HeadToHead:    0.25,
			AdvancedStats: 0.15,
			Contextual:    0.10,
			Momentum:      0.10,
		}
	}
	if cfg.Value.SignificantEV == 0 {
		cfg.Value.PositiveEV = 0.0
		cfg.Value.SignificantEV = 0.05
		cfg.Value.ExcellentEV = 0.10
	}
	if cfg.Value.KellyCap == 0 {
		cfg.Value.KellyCap = 0.25
	}
	// cada tier no configurado toma su rango por defecto; así un YAML
	// puede ajustar un solo tier sin repetir los otros tres
	defaultRange(&cfg.Units.Tiers.High, 2.0, 3.0)
	defaultRange(&cfg.Units.Tiers.MediumHigh, 1.5, 2.0)
	defaultRange(&cfg.Units.Tiers.Medium, 1.0, 1.5)
	defaultRange(&cfg.Units.Tiers.Low, 0.5, 1.0)
	if cfg.Units.MinUnits == 0 {
		cfg.Units.MinUnits = 0.5
	}
	if cfg.Units.MaxUnits == 0 {
		cfg.Units.MaxUnits = 3.0
	}
	if cfg.Risk.PerBetStakeCapPct == 0 {
		cfg.Risk.PerBetStakeCapPct = 0.10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func defaultRange(r *UnitRangeConfig, low, high float64) {
	if r.Low == 0 && r.High == 0 {
		r.Low, r.High = low, high
	}
}

func weightsUnset(w WeightsConfig) bool {
	return w.RecentForm == 0 && w.HeadToHead == 0 && w.AdvancedStats == 0 &&
		w.Contextual == 0 && w.Momentum == 0
}
