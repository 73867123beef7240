package rules

import "github.com/okian/scout/internal/domain/player"

// Default returns the built-in smart tags. Ids are stable: they key the
// classification cache and appear in shared URLs.
func Default() []Rule {
	return []Rule{
		{
			ID:          "differential",
			Name:        "Differential",
			Icon:        "💎",
			Description: "Low ownership with a strong smartplay score",
			All: []Condition{
				{Field: "ownership", Op: OpLT, Value: 10},
				{Field: "final_score", Op: OpGTE, Value: 6.0},
			},
		},
		{
			ID:          "in_form",
			Name:        "In Form",
			Icon:        "🔥",
			Description: "Form of 6 or better",
			All:         []Condition{{Field: "form", Op: OpGTE, Value: 6}},
		},
		{
			ID:          "premium",
			Name:        "Premium",
			Icon:        "👑",
			Description: "Priced at 10.0 or more",
			All:         []Condition{{Field: "price", Op: OpGTE, Value: 10}},
		},
		{
			ID:          "budget_enabler",
			Name:        "Budget Enabler",
			Icon:        "💰",
			Description: "Cheap and regularly playing",
			All: []Condition{
				{Field: "price", Op: OpLTE, Value: 5.0},
				{Field: "minutes", Op: OpGTE, Value: 900},
			},
		},
		{
			ID:          "fixture_friendly",
			Name:        "Fixture Friendly",
			Icon:        "📅",
			Description: "Easy run of upcoming fixtures",
			All:         []Condition{{Field: "avg_difficulty", Op: OpLTE, Value: 2.5}},
		},
		{
			ID:          "hot_transfer",
			Name:        "Hot Transfer",
			Icon:        "📈",
			Description: "Heavily transferred in this gameweek",
			All:         []Condition{{Field: "net_transfers", Op: OpGTE, Value: 50_000}},
		},
		{
			ID:          "sell_off",
			Name:        "Sell Off",
			Icon:        "📉",
			Description: "Heavily transferred out this gameweek",
			All:         []Condition{{Field: "net_transfers", Op: OpLTE, Value: -50_000}},
		},
		{
			ID:          "nailed",
			Name:        "Nailed",
			Icon:        "🔒",
			Description: "Regular starter",
			Any: []Condition{
				{Field: "minutes", Op: OpGTE, Value: 1800},
				{Field: "nailedness_score", Op: OpGTE, Value: 8},
			},
		},
		{
			ID:          "goal_threat",
			Name:        "Goal Threat",
			Icon:        "⚽",
			Description: "High expected or actual goals",
			Any: []Condition{
				{Field: "expected_goals", Op: OpGTE, Value: 5},
				{Field: "goals", Op: OpGTE, Value: 8},
			},
		},
		{
			ID:          "creator",
			Name:        "Creator",
			Icon:        "🎯",
			Description: "High expected or actual assists",
			Any: []Condition{
				{Field: "expected_assists", Op: OpGTE, Value: 4},
				{Field: "assists", Op: OpGTE, Value: 6},
			},
		},
		{
			ID:          "bonus_magnet",
			Name:        "Bonus Magnet",
			Icon:        "⭐",
			Description: "Collects bonus points",
			All:         []Condition{{Field: "bonus", Op: OpGTE, Value: 15}},
		},
		{
			ID:          "injury_doubt",
			Name:        "Injury Doubt",
			Icon:        "🚑",
			Description: "Flagged doubtful, injured, suspended or unavailable",
			All: []Condition{{Field: "status", Op: OpIn, Values: []string{
				player.StatusDoubtful,
				player.StatusInjured,
				player.StatusSuspended,
				player.StatusUnavailable,
				player.StatusNotInSquad,
			}}},
		},
		{
			ID:          "value_pick",
			Name:        "Value Pick",
			Icon:        "🏷️",
			Description: "Strong form and points per game for the price",
			All: []Condition{
				{Field: "value", Op: OpGTE, Value: 0.8},
				{Field: "minutes", Op: OpGTE, Value: 450},
			},
		},
	}
}
