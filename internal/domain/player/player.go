// Package player contains the normalized player entity and the normalizer
// turning raw catalog records into it.
package player

import "strings"

// Position is one of the four squad positions.
type Position string

// Squad positions.
const (
	GK  Position = "GK"
	DEF Position = "DEF"
	MID Position = "MID"
	FWD Position = "FWD"
)

// Positions lists every position in squad order.
var Positions = []Position{GK, DEF, MID, FWD}

// ParsePosition maps a position label (case-insensitive, GKP accepted) to a Position.
func ParsePosition(s string) (Position, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GK", "GKP":
		return GK, true
	case "DEF":
		return DEF, true
	case "MID":
		return MID, true
	case "FWD":
		return FWD, true
	}
	return "", false
}

// Availability is the coarse category derived from the raw status code.
type Availability string

// Availability categories.
const (
	Available   Availability = "available"
	Doubtful    Availability = "doubtful"
	Unavailable Availability = "unavailable"
)

// Availabilities lists every availability category.
var Availabilities = []Availability{Available, Doubtful, Unavailable}

// Trend buckets a player's net transfer delta.
type Trend string

// Transfer trend buckets.
const (
	Rising  Trend = "rising"
	Falling Trend = "falling"
	Stable  Trend = "stable"
)

// DefaultTrendThreshold is the net transfer delta separating rising/falling from stable.
const DefaultTrendThreshold = 10_000

// Raw status codes.
const (
	StatusAvailable   = "a"
	StatusDoubtful    = "d"
	StatusInjured     = "i"
	StatusSuspended   = "s"
	StatusUnavailable = "u"
	StatusNotInSquad  = "n"
)

// Scores are the 0-10 component scores supplied by the score source.
type Scores struct {
	Final      float64 `json:"final"`
	Nailedness float64 `json:"nailedness"`
	FormXG     float64 `json:"form_xg"`
	Form       float64 `json:"form"`
	Fixture    float64 `json:"fixture"`
}

// Fixture is one upcoming match.
type Fixture struct {
	Opponent   string `json:"opponent"`
	Home       bool   `json:"home"`
	Difficulty int    `json:"difficulty"`
}

// FixtureOutlook summarizes the lookahead window.
type FixtureOutlook struct {
	AvgDifficulty float64   `json:"avg_difficulty"`
	Next          []Fixture `json:"fixtures"`
}

// Player is a normalized catalog entry. Values are never mutated after
// normalization; MergeScores and AttachFixtures return copies.
type Player struct {
	ID       int      `json:"id"`
	WebName  string   `json:"web_name"`
	FullName string   `json:"full_name"`
	Position Position `json:"position"`
	TeamID   int      `json:"team_id"`
	Team     string   `json:"team"`
	TeamName string   `json:"team_name"`

	Price           float64 `json:"price"`
	Form            float64 `json:"form"`
	TotalPoints     float64 `json:"total_points"`
	PointsPerGame   float64 `json:"points_per_game"`
	Ownership       float64 `json:"ownership"`
	Minutes         float64 `json:"minutes"`
	ExpectedGoals   float64 `json:"expected_goals"`
	ExpectedAssists float64 `json:"expected_assists"`
	Goals           float64 `json:"goals"`
	Assists         float64 `json:"assists"`
	Bonus           float64 `json:"bonus"`
	ICTIndex        float64 `json:"ict_index"`
	NetTransfers    float64 `json:"net_transfers"`

	Status          string  `json:"status"`
	News            string  `json:"news,omitempty"`
	ChanceOfPlaying float64 `json:"chance_of_playing"`

	Scores   Scores          `json:"scores"`
	Fixtures *FixtureOutlook `json:"fixtures,omitempty"`
}

// XGI is expected goal involvement.
func (p Player) XGI() float64 {
	return p.ExpectedGoals + p.ExpectedAssists
}

// GoalsAssists is the sum of goals and assists.
func (p Player) GoalsAssists() float64 {
	return p.Goals + p.Assists
}

// Value is form x points-per-game per unit of price; 0 when price is 0.
func (p Player) Value() float64 {
	if p.Price <= 0 {
		return 0
	}
	return p.Form * p.PointsPerGame / p.Price
}

// Availability maps the raw status code to its category.
func (p Player) Availability() Availability {
	switch p.Status {
	case StatusAvailable, "":
		return Available
	case StatusDoubtful:
		return Doubtful
	default:
		return Unavailable
	}
}

// Trend buckets NetTransfers: above threshold is rising, below -threshold falling.
func (p Player) Trend(threshold float64) Trend {
	switch {
	case p.NetTransfers > threshold:
		return Rising
	case p.NetTransfers < -threshold:
		return Falling
	default:
		return Stable
	}
}

// HasFixtures reports whether fixture data was attached.
func (p Player) HasFixtures() bool {
	return p.Fixtures != nil
}

// AvgDifficulty returns the average fixture difficulty when fixture data is present.
func (p Player) AvgDifficulty() (float64, bool) {
	if !p.HasFixtures() {
		return 0, false
	}
	return p.Fixtures.AvgDifficulty, true
}

// NextFixture returns the first upcoming fixture, if any.
func (p Player) NextFixture() (Fixture, bool) {
	if !p.HasFixtures() || len(p.Fixtures.Next) == 0 {
		return Fixture{}, false
	}
	return p.Fixtures.Next[0], true
}
