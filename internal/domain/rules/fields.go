package rules

import (
	"sort"
	"strconv"

	"github.com/okian/scout/internal/domain/player"
)

// field resolves one named attribute of a player. Exactly one of num or cat is set.
// The bool result is false when the attribute is missing (no fixture data).
type field struct {
	label string
	num   func(player.Player) (float64, bool)
	cat   func(player.Player) (string, bool)
}

func always(get func(player.Player) float64) func(player.Player) (float64, bool) {
	return func(p player.Player) (float64, bool) {
		return get(p), true
	}
}

var registry = map[string]field{
	"price":             {label: "Price", num: always(func(p player.Player) float64 { return p.Price })},
	"form":              {label: "Form", num: always(func(p player.Player) float64 { return p.Form })},
	"total_points":      {label: "Total points", num: always(func(p player.Player) float64 { return p.TotalPoints })},
	"points_per_game":   {label: "Points per game", num: always(func(p player.Player) float64 { return p.PointsPerGame })},
	"ownership":         {label: "Ownership", num: always(func(p player.Player) float64 { return p.Ownership })},
	"minutes":           {label: "Minutes", num: always(func(p player.Player) float64 { return p.Minutes })},
	"expected_goals":    {label: "xG", num: always(func(p player.Player) float64 { return p.ExpectedGoals })},
	"expected_assists":  {label: "xA", num: always(func(p player.Player) float64 { return p.ExpectedAssists })},
	"goals":             {label: "Goals", num: always(func(p player.Player) float64 { return p.Goals })},
	"assists":           {label: "Assists", num: always(func(p player.Player) float64 { return p.Assists })},
	"bonus":             {label: "Bonus", num: always(func(p player.Player) float64 { return p.Bonus })},
	"ict_index":         {label: "ICT index", num: always(func(p player.Player) float64 { return p.ICTIndex })},
	"net_transfers":     {label: "Net transfers", num: always(func(p player.Player) float64 { return p.NetTransfers })},
	"chance_of_playing": {label: "Chance of playing", num: always(func(p player.Player) float64 { return p.ChanceOfPlaying })},
	"xgi":               {label: "xGI", num: always(player.Player.XGI)},
	"goals_assists":     {label: "Goals + assists", num: always(player.Player.GoalsAssists)},
	"value":             {label: "Value", num: always(player.Player.Value)},
	"final_score":       {label: "Smartplay score", num: always(func(p player.Player) float64 { return p.Scores.Final })},
	"nailedness_score":  {label: "Nailedness", num: always(func(p player.Player) float64 { return p.Scores.Nailedness })},
	"form_xg_score":     {label: "Form xG score", num: always(func(p player.Player) float64 { return p.Scores.FormXG })},
	"form_score":        {label: "Form score", num: always(func(p player.Player) float64 { return p.Scores.Form })},
	"fixture_score":     {label: "Fixture score", num: always(func(p player.Player) float64 { return p.Scores.Fixture })},
	"avg_difficulty":    {label: "Avg fixture difficulty", num: player.Player.AvgDifficulty},
	"next_difficulty": {label: "Next fixture difficulty", num: func(p player.Player) (float64, bool) {
		f, ok := p.NextFixture()
		return float64(f.Difficulty), ok
	}},
	"position":     {label: "Position", cat: func(p player.Player) (string, bool) { return string(p.Position), true }},
	"team":         {label: "Team", cat: func(p player.Player) (string, bool) { return p.Team, true }},
	"status":       {label: "Status", cat: func(p player.Player) (string, bool) { return p.Status, true }},
	"availability": {label: "Availability", cat: func(p player.Player) (string, bool) { return string(p.Availability()), true }},
	"next_venue": {label: "Next venue", cat: func(p player.Player) (string, bool) {
		f, ok := p.NextFixture()
		if !ok {
			return "", false
		}
		if f.Home {
			return "home", true
		}
		return "away", true
	}},
}

// Fields lists the names accepted in Condition.Field, sorted.
func Fields() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
