package filter

import (
	"strings"

	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/internal/domain/rules"
)

// Option applies a configuration option to a Matcher.
type Option func(*Matcher)

// WithTrendThreshold sets the net transfer delta used to bucket trends.
// Negative or non-finite values are ignored.
func WithTrendThreshold(threshold float64) Option {
	return func(m *Matcher) {
		if finite(threshold) && threshold >= 0 {
			m.trendThreshold = threshold
		}
	}
}

type boundedRange struct {
	dim Dimension
	r   Range
}

// Matcher is a compiled Model. Each dimension is an independent predicate so
// callers can evaluate every predicate but one.
type Matcher struct {
	query     string
	positions map[string]struct{}
	teams     map[string]struct{}
	statuses  map[string]struct{}
	tags      []string
	ranges    []boundedRange
	trend     Trend
	venue     Venue
	cache     rules.Cache

	trendThreshold float64
}

// Compile prepares m for repeated matching. Dimensions at their default
// value, and malformed values, compile to no constraint.
func Compile(m Model, cache rules.Cache, opts ...Option) *Matcher {
	m = m.Canonical()
	mt := &Matcher{
		query:          strings.ToLower(strings.TrimSpace(m.Query)),
		positions:      toSet(m.Positions),
		teams:          toSet(m.Teams),
		statuses:       toSet(m.Statuses),
		tags:           m.Tags,
		trend:          m.Trend,
		venue:          m.Venue,
		cache:          cache,
		trendThreshold: player.DefaultTrendThreshold,
	}
	for _, opt := range opts {
		opt(mt)
	}
	for _, d := range RangeDimensions {
		if !m.IsDefault(d) {
			mt.ranges = append(mt.ranges, boundedRange{dim: d, r: *m.Range(d)})
		}
	}
	return mt
}

// Match reports whether p satisfies every predicate except skip's.
func (mt *Matcher) Match(p player.Player, skip Dimension) bool {
	if skip != DimQuery && mt.query != "" && !mt.matchQuery(p) {
		return false
	}
	if skip != DimPosition && !inSet(mt.positions, string(p.Position)) {
		return false
	}
	if skip != DimTeam && !inSet(mt.teams, p.Team) {
		return false
	}
	for _, br := range mt.ranges {
		if br.dim == skip {
			continue
		}
		v, ok := rangeValue(br.dim, p)
		if !ok || !br.r.Contains(v) {
			return false
		}
	}
	if skip != DimStatus && !inSet(mt.statuses, string(p.Availability())) {
		return false
	}
	if skip != DimTag && len(mt.tags) > 0 && !mt.matchTags(p) {
		return false
	}
	if skip != DimTrend && mt.trend != TrendAll && Trend(p.Trend(mt.trendThreshold)) != mt.trend {
		return false
	}
	if skip != DimVenue && mt.venue != VenueAll {
		next, ok := p.NextFixture()
		if !ok || next.Home != (mt.venue == VenueHome) {
			return false
		}
	}
	return true
}

// Evaluate returns the players matching every active predicate, in input order.
func Evaluate(players []player.Player, m Model, cache rules.Cache, opts ...Option) []player.Player {
	return Compile(m, cache, opts...).Filter(players, NoDimension)
}

// Filter returns the players matching every predicate except skip's, in input order.
func (mt *Matcher) Filter(players []player.Player, skip Dimension) []player.Player {
	out := make([]player.Player, 0, len(players))
	for _, p := range players {
		if mt.Match(p, skip) {
			out = append(out, p)
		}
	}
	return out
}

func (mt *Matcher) matchQuery(p player.Player) bool {
	for _, s := range []string{p.WebName, p.FullName, p.Team, p.TeamName} {
		if strings.Contains(strings.ToLower(s), mt.query) {
			return true
		}
	}
	return false
}

// matchTags is true when the player carries any active tag.
func (mt *Matcher) matchTags(p player.Player) bool {
	for _, t := range mt.tags {
		if mt.cache.Has(p.ID, t) {
			return true
		}
	}
	return false
}

// rangeValue resolves a continuous dimension; false when the player has no
// data for it.
func rangeValue(d Dimension, p player.Player) (float64, bool) {
	switch d {
	case DimPrice:
		return p.Price, true
	case DimForm:
		return p.Form, true
	case DimOwnership:
		return p.Ownership, true
	case DimPoints:
		return p.TotalPoints, true
	case DimMinutes:
		return p.Minutes, true
	case DimXGI:
		return p.XGI(), true
	case DimPPG:
		return p.PointsPerGame, true
	case DimGoalsAssists:
		return p.GoalsAssists(), true
	case DimDifficulty:
		return p.AvgDifficulty()
	}
	return 0, false
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// inSet is true for an empty (unrestricted) set.
func inSet(set map[string]struct{}, v string) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[v]
	return ok
}
