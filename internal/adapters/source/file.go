package source

// file.go — FixtureSource de archivo JSON. El archivo es un array de
// fixtures en el orden en que deben procesarse; el loader no reordena.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rmorales/footvalue/internal/domain"
)

// File implementa ports.FixtureSource leyendo un archivo JSON.
type File struct {
	path string
}

// NewFile crea la fuente sobre la ruta dada. El archivo se lee en Load,
// no aquí.
func NewFile(path string) *File {
	return &File{path: path}
}

// fixtureWire es la forma en disco de un fixture.
type fixtureWire struct {
	HomeID      string `json:"home_id"`
	AwayID      string `json:"away_id"`
	Date        string `json:"date"`
	Competition string `json:"competition,omitempty"`

	HomeStats teamWire `json:"home_stats"`
	AwayStats teamWire `json:"away_stats"`

	H2H struct {
		Matches      int     `json:"matches"`
		HomeWins     int     `json:"home_wins"`
		Draws        int     `json:"draws"`
		AwayWins     int     `json:"away_wins"`
		HomeGoalsAvg float64 `json:"home_goals_avg"`
		AwayGoalsAvg float64 `json:"away_goals_avg"`
		Advantage    string  `json:"advantage,omitempty"`
	} `json:"h2h"`

	Context struct {
		MatchImportance string  `json:"match_importance,omitempty"`
		HomePressure    string  `json:"home_pressure,omitempty"`
		AwayPressure    string  `json:"away_pressure,omitempty"`
		HomeAdvantage   float64 `json:"home_advantage"`
		Neutral         bool    `json:"neutral,omitempty"`
	} `json:"context"`

	Odds struct {
		Home float64 `json:"home"`
		Draw float64 `json:"draw"`
		Away float64 `json:"away"`
	} `json:"odds"`

	ActualOutcome string `json:"actual_outcome,omitempty"`
}

type teamWire struct {
	Form            string  `json:"form,omitempty"`
	Trend           string  `json:"trend,omitempty"`
	WinRate         float64 `json:"win_rate"`
	DrawRate        float64 `json:"draw_rate"`
	GoalsForAvg     float64 `json:"goals_for_avg"`
	GoalsAgainstAvg float64 `json:"goals_against_avg"`
	XGFor           float64 `json:"xg_for"`
	XGAgainst       float64 `json:"xg_against"`
	Possession      float64 `json:"possession"`
	ShotAccuracy    float64 `json:"shot_accuracy"`
	RestDays        float64 `json:"rest_days"`
	Momentum        float64 `json:"momentum"`
}

// Load lee y decodifica el archivo completo. Las fechas aceptan RFC 3339
// o solo día (2006-01-02).
func (f *File) Load(ctx context.Context) ([]domain.Fixture, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("source.Load: %w", err)
	}

	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("source.Load: read %q: %w", f.path, err)
	}

	var wires []fixtureWire
	if err := json.Unmarshal(raw, &wires); err != nil {
		return nil, fmt.Errorf("source.Load: decode %q: %w", f.path, err)
	}

	fixtures := make([]domain.Fixture, 0, len(wires))
	for i, w := range wires {
		fixture, err := w.toDomain()
		if err != nil {
			return nil, fmt.Errorf("source.Load: fixture %d: %w", i, err)
		}
		fixtures = append(fixtures, fixture)
	}
	return fixtures, nil
}

func (w fixtureWire) toDomain() (domain.Fixture, error) {
	if w.HomeID == "" || w.AwayID == "" {
		return domain.Fixture{}, fmt.Errorf("home_id and away_id are required")
	}

	date, err := parseDate(w.Date)
	if err != nil {
		return domain.Fixture{}, err
	}

	f := domain.Fixture{
		Match: domain.Match{
			HomeID:      w.HomeID,
			AwayID:      w.AwayID,
			Date:        date,
			Competition: w.Competition,
		},
		HomeStats: w.HomeStats.toDomain(),
		AwayStats: w.AwayStats.toDomain(),
		H2H: domain.H2HStats{
			Matches:      w.H2H.Matches,
			HomeWins:     w.H2H.HomeWins,
			Draws:        w.H2H.Draws,
			AwayWins:     w.H2H.AwayWins,
			HomeGoalsAvg: w.H2H.HomeGoalsAvg,
			AwayGoalsAvg: w.H2H.AwayGoalsAvg,
			Advantage:    w.H2H.Advantage,
		},
		Contextual: domain.ContextualFactors{
			MatchImportance: w.Context.MatchImportance,
			HomePressure:    w.Context.HomePressure,
			AwayPressure:    w.Context.AwayPressure,
			HomeAdvantage:   w.Context.HomeAdvantage,
			Neutral:         w.Context.Neutral,
		},
		MarketOdds: domain.Odds{
			Home: w.Odds.Home,
			Draw: w.Odds.Draw,
			Away: w.Odds.Away,
		},
	}

	if w.ActualOutcome != "" {
		outcome := domain.Outcome(w.ActualOutcome)
		if !outcome.Valid() {
			return domain.Fixture{}, fmt.Errorf("unknown actual_outcome %q", w.ActualOutcome)
		}
		f.ActualOutcome = &outcome
	}
	return f, nil
}

func (w teamWire) toDomain() domain.TeamStats {
	return domain.TeamStats{
		Form:            w.Form,
		Trend:           w.Trend,
		WinRate:         w.WinRate,
		DrawRate:        w.DrawRate,
		GoalsForAvg:     w.GoalsForAvg,
		GoalsAgainstAvg: w.GoalsAgainstAvg,
		XGFor:           w.XGFor,
		XGAgainst:       w.XGAgainst,
		Possession:      w.Possession,
		ShotAccuracy:    w.ShotAccuracy,
		RestDays:        w.RestDays,
		Momentum:        w.Momentum,
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q", s)
	}
	return t, nil
}
