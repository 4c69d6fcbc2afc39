// Package features builds the flat numeric feature record the predictors
// consume. All categorical codings are fixed tables so the output is
// deterministic in its inputs; unknowns are imputed to a neutral prior.
package features

import (
	"math"

	"github.com/rmorales/footvalue/internal/domain"
)

// formCodes maps qualitative form labels to their numeric codes.
var formCodes = map[string]float64{
	"excellent": 4,
	"good":      3,
	"average":   2,
	"poor":      1,
	"unknown":   0,
}

// trendCodes maps trend labels to their numeric codes.
var trendCodes = map[string]float64{
	"improving": 1,
	"stable":    0,
	"declining": -1,
}

// levelCodes maps pressure/importance/advantage labels to their codes.
var levelCodes = map[string]float64{
	"high":   3,
	"medium": 2,
	"low":    1,
}

// Record is the assembled feature vector for one match plus a data-quality
// flag in [0,1] that the ensemble adapter folds into facet confidences.
type Record struct {
	Values      map[string]float64
	DataQuality float64
}

// Get returns the named feature, or 0 if absent.
func (r Record) Get(name string) float64 {
	return r.Values[name]
}

// Assembler turns externally supplied team/match statistics into a Record.
type Assembler struct{}

// NewAssembler creates a feature assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble builds the feature record for a fixture. Missing or non-finite
// inputs are imputed to the neutral prior (rates and counts to 0, codes to
// 0) and lower the data-quality flag instead of failing.
func (a *Assembler) Assemble(f domain.Fixture) Record {
	v := make(map[string]float64, 48)
	quality := 1.0

	quality = math.Min(quality, a.teamFeatures(v, "home", f.HomeStats))
	quality = math.Min(quality, a.teamFeatures(v, "away", f.AwayStats))
	quality = math.Min(quality, a.h2hFeatures(v, f.H2H))
	a.contextFeatures(v, f.Contextual)

	// Comparative features are computed here, not downstream.
	v["form_diff"] = v["home_form"] - v["away_form"]
	v["win_rate_diff"] = v["home_win_rate"] - v["away_win_rate"]
	v["goals_diff"] = v["home_goals_for_avg"] - v["away_goals_for_avg"]
	v["xg_diff"] = v["home_xg_for"] - v["away_xg_for"]
	v["momentum_diff"] = v["home_momentum"] - v["away_momentum"]
	v["rest_diff"] = v["home_rest_days"] - v["away_rest_days"]
	v["defense_diff"] = v["away_goals_against_avg"] - v["home_goals_against_avg"]

	for name, val := range v {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			v[name] = 0
			quality = math.Min(quality, 0.5)
		}
	}

	return Record{Values: v, DataQuality: quality}
}

// teamFeatures writes one team's features under the given prefix and
// returns the data quality it observed.
func (a *Assembler) teamFeatures(v map[string]float64, prefix string, s domain.TeamStats) float64 {
	quality := 1.0

	formCode, ok := formCodes[s.Form]
	if !ok {
		formCode = formCodes["unknown"]
		quality = 0.6
	}
	trendCode, ok := trendCodes[s.Trend]
	if !ok {
		trendCode = trendCodes["stable"]
		quality = math.Min(quality, 0.8)
	}
	if s.WinRate == 0 && s.GoalsForAvg == 0 && s.GoalsAgainstAvg == 0 {
		// empty profile: neutral record, flag the gap downstream
		quality = math.Min(quality, 0.3)
	}

	v[prefix+"_form"] = formCode
	v[prefix+"_trend"] = trendCode
	v[prefix+"_win_rate"] = s.WinRate
	v[prefix+"_draw_rate"] = s.DrawRate
	v[prefix+"_goals_for_avg"] = s.GoalsForAvg
	v[prefix+"_goals_against_avg"] = s.GoalsAgainstAvg
	v[prefix+"_xg_for"] = s.XGFor
	v[prefix+"_xg_against"] = s.XGAgainst
	v[prefix+"_possession"] = s.Possession
	v[prefix+"_shot_accuracy"] = s.ShotAccuracy
	v[prefix+"_rest_days"] = s.RestDays
	v[prefix+"_momentum"] = s.Momentum

	return quality
}

// h2hFeatures writes the head-to-head rollup and the h2h advantage code.
func (a *Assembler) h2hFeatures(v map[string]float64, h domain.H2HStats) float64 {
	quality := 1.0
	matches := float64(h.Matches)
	if h.Matches == 0 {
		quality = 0.5
	}

	v["h2h_matches"] = matches
	v["h2h_home_wins"] = float64(h.HomeWins)
	v["h2h_draws"] = float64(h.Draws)
	v["h2h_away_wins"] = float64(h.AwayWins)
	v["h2h_home_goals_avg"] = h.HomeGoalsAvg
	v["h2h_away_goals_avg"] = h.AwayGoalsAvg

	if h.Matches > 0 {
		v["h2h_home_win_rate"] = float64(h.HomeWins) / matches
		v["h2h_draw_rate"] = float64(h.Draws) / matches
		v["h2h_away_win_rate"] = float64(h.AwayWins) / matches
	} else {
		v["h2h_home_win_rate"] = 0
		v["h2h_draw_rate"] = 0
		v["h2h_away_win_rate"] = 0
	}

	adv, ok := levelCodes[h.Advantage]
	if !ok {
		adv = 0
	}
	v["h2h_advantage"] = adv
	return quality
}

// contextFeatures writes contextual and home-advantage features.
func (a *Assembler) contextFeatures(v map[string]float64, c domain.ContextualFactors) {
	v["match_importance"] = levelCodes[c.MatchImportance]
	v["home_pressure"] = levelCodes[c.HomePressure]
	v["away_pressure"] = levelCodes[c.AwayPressure]
	v["home_advantage"] = c.HomeAdvantage
	if c.Neutral {
		v["home_advantage"] = 0
		v["neutral_venue"] = 1
	} else {
		v["neutral_venue"] = 0
	}
	v["pressure_diff"] = v["home_pressure"] - v["away_pressure"]
}
