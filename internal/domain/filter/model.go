// Package filter holds the explorer filter model, the evaluator applying it
// to players, and the sort comparators.
//
// The zero restriction of every dimension (Default) is an identity element:
// evaluating the default model returns the input unchanged.
package filter

import (
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/okian/scout/internal/domain/player"
)

// Range is an inclusive [Min, Max] bound.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Valid reports whether both bounds are finite and Min <= Max.
func (r Range) Valid() bool {
	return finite(r.Min) && finite(r.Max) && r.Min <= r.Max
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Trend selects a transfer trend bucket.
type Trend string

// Trend filter values.
const (
	TrendAll     Trend = "all"
	TrendRising  Trend = Trend(player.Rising)
	TrendFalling Trend = Trend(player.Falling)
	TrendStable  Trend = Trend(player.Stable)
)

// Valid reports whether t is a known trend value.
func (t Trend) Valid() bool {
	switch t {
	case TrendAll, TrendRising, TrendFalling, TrendStable:
		return true
	}
	return false
}

// Venue selects home or away for the next fixture.
type Venue string

// Venue filter values.
const (
	VenueAll  Venue = "all"
	VenueHome Venue = "home"
	VenueAway Venue = "away"
)

// Valid reports whether v is a known venue value.
func (v Venue) Valid() bool {
	switch v {
	case VenueAll, VenueHome, VenueAway:
		return true
	}
	return false
}

// Dimension identifies one filter predicate.
type Dimension int

// Filter dimensions. NoDimension skips nothing when passed to Matcher.Match.
const (
	NoDimension Dimension = iota - 1
	DimQuery
	DimPosition
	DimTeam
	DimStatus
	DimTag
	DimPrice
	DimForm
	DimOwnership
	DimPoints
	DimMinutes
	DimXGI
	DimPPG
	DimGoalsAssists
	DimDifficulty
	DimTrend
	DimVenue
)

// RangeDimensions lists the continuous dimensions in model order.
var RangeDimensions = []Dimension{
	DimPrice, DimForm, DimOwnership, DimPoints, DimMinutes,
	DimXGI, DimPPG, DimGoalsAssists, DimDifficulty,
}

var defaultRanges = map[Dimension]Range{
	DimPrice:        {Min: 3.5, Max: 15.5},
	DimForm:         {Min: 0, Max: 10},
	DimOwnership:    {Min: 0, Max: 100},
	DimPoints:       {Min: 0, Max: 400},
	DimMinutes:      {Min: 0, Max: 3420},
	DimXGI:          {Min: 0, Max: 40},
	DimPPG:          {Min: 0, Max: 12},
	DimGoalsAssists: {Min: 0, Max: 50},
	DimDifficulty:   {Min: player.MinDifficulty, Max: player.MaxDifficulty},
}

// DefaultRange returns the unrestricted range for a continuous dimension.
func DefaultRange(d Dimension) Range {
	return defaultRanges[d]
}

// Model is the complete explorer filter state. Set-valued fields are kept
// sorted and de-duplicated by Canonical.
type Model struct {
	Query     string   `json:"query"`
	Positions []string `json:"positions,omitempty"`
	Teams     []string `json:"teams,omitempty"`
	Statuses  []string `json:"statuses,omitempty"`
	Tags      []string `json:"tags,omitempty"`

	Price        Range `json:"price"`
	Form         Range `json:"form"`
	Ownership    Range `json:"ownership"`
	Points       Range `json:"points"`
	Minutes      Range `json:"minutes"`
	XGI          Range `json:"xgi"`
	PPG          Range `json:"ppg"`
	GoalsAssists Range `json:"goals_assists"`
	Difficulty   Range `json:"difficulty"`

	Trend Trend   `json:"trend"`
	Venue Venue   `json:"venue"`
	Sort  SortKey `json:"sort"`
}

// Default returns the model that restricts nothing.
func Default() Model {
	m := Model{Trend: TrendAll, Venue: VenueAll, Sort: SortForm}
	for _, d := range RangeDimensions {
		*m.Range(d) = defaultRanges[d]
	}
	return m
}

// Range returns a pointer to the model's range for a continuous dimension,
// or nil for any other dimension.
func (m *Model) Range(d Dimension) *Range {
	switch d {
	case DimPrice:
		return &m.Price
	case DimForm:
		return &m.Form
	case DimOwnership:
		return &m.Ownership
	case DimPoints:
		return &m.Points
	case DimMinutes:
		return &m.Minutes
	case DimXGI:
		return &m.XGI
	case DimPPG:
		return &m.PPG
	case DimGoalsAssists:
		return &m.GoalsAssists
	case DimDifficulty:
		return &m.Difficulty
	}
	return nil
}

// Canonical returns m with a blank query emptied, sets sorted and
// de-duplicated (empty sets nil),
// positions and statuses restricted to known values, and malformed ranges
// or enums reset to their defaults.
func (m Model) Canonical() Model {
	if strings.TrimSpace(m.Query) == "" {
		m.Query = ""
	}
	m.Positions = canonicalSet(m.Positions, func(s string) (string, bool) {
		pos, ok := player.ParsePosition(s)
		return string(pos), ok
	})
	m.Statuses = canonicalSet(m.Statuses, func(s string) (string, bool) {
		s = strings.ToLower(strings.TrimSpace(s))
		return s, slices.Contains(player.Availabilities, player.Availability(s))
	})
	m.Teams = canonicalSet(m.Teams, nonEmpty)
	m.Tags = canonicalSet(m.Tags, nonEmpty)
	for _, d := range RangeDimensions {
		if r := m.Range(d); !r.Valid() {
			*r = defaultRanges[d]
		}
	}
	if !m.Trend.Valid() {
		m.Trend = TrendAll
	}
	if !m.Venue.Valid() {
		m.Venue = VenueAll
	}
	if !m.Sort.Valid() {
		m.Sort = SortForm
	}
	return m
}

// IsDefault reports whether d is unrestricted in m.
func (m Model) IsDefault(d Dimension) bool {
	switch d {
	case DimQuery:
		return strings.TrimSpace(m.Query) == ""
	case DimPosition:
		return len(m.Positions) == 0
	case DimTeam:
		return len(m.Teams) == 0
	case DimStatus:
		return len(m.Statuses) == 0
	case DimTag:
		return len(m.Tags) == 0
	case DimTrend:
		return m.Trend == TrendAll || !m.Trend.Valid()
	case DimVenue:
		return m.Venue == VenueAll || !m.Venue.Valid()
	}
	if r := m.Range(d); r != nil {
		return !r.Valid() || *r == defaultRanges[d]
	}
	return true
}

// ActiveCount returns the number of dimensions differing from the default.
// Sort order is not a filter and is not counted.
func ActiveCount(m Model) int {
	m = m.Canonical()
	n := 0
	for d := DimQuery; d <= DimVenue; d++ {
		if !m.IsDefault(d) {
			n++
		}
	}
	return n
}

// Toggle returns set with v removed if present, otherwise added, sorted.
func Toggle(set []string, v string) []string {
	if i := slices.Index(set, v); i >= 0 {
		out := slices.Delete(slices.Clone(set), i, i+1)
		if len(out) == 0 {
			return nil
		}
		return out
	}
	out := append(slices.Clone(set), v)
	sort.Strings(out)
	return out
}

func canonicalSet(in []string, norm func(string) (string, bool)) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if v, ok := norm(s); ok {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
