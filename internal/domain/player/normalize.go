package player

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Policy selects how the normalizer reports malformed raw fields.
type Policy int

// Coercion policies. Both default the field; only PolicyWarn reports it.
const (
	PolicySilent Policy = iota
	PolicyWarn
)

// ParsePolicy maps "warn" to PolicyWarn and anything else to PolicySilent.
func ParsePolicy(s string) Policy {
	if strings.EqualFold(strings.TrimSpace(s), "warn") {
		return PolicyWarn
	}
	return PolicySilent
}

// defaultChanceOfPlaying applies when the raw record carries no chance.
const defaultChanceOfPlaying = 100

// positionByElementType maps the numeric element_type to a position.
var positionByElementType = map[int]Position{1: GK, 2: DEF, 3: MID, 4: FWD}

var knownStatuses = map[string]bool{
	StatusAvailable:   true,
	StatusDoubtful:    true,
	StatusInjured:     true,
	StatusSuspended:   true,
	StatusUnavailable: true,
	StatusNotInSquad:  true,
}

// Warning describes one present raw field that could not be coerced and was defaulted.
type Warning struct {
	PlayerID int    `json:"player_id"`
	Field    string `json:"field"`
	Raw      any    `json:"raw"`
}

func (w Warning) String() string {
	return fmt.Sprintf("player %d: field %q: cannot coerce %v", w.PlayerID, w.Field, w.Raw)
}

// Option applies a configuration option to the normalizer.
type Option func(*normalizer)

// WithPolicy sets the coercion policy.
func WithPolicy(p Policy) Option {
	return func(n *normalizer) {
		n.policy = p
	}
}

type normalizer struct {
	policy   Policy
	warnings []Warning
}

// Normalize converts raw catalog records into players. It never fails: every
// malformed or missing field degrades to its default. Warnings are returned
// only under PolicyWarn.
func Normalize(raw []map[string]any, opts ...Option) ([]Player, []Warning) {
	n := &normalizer{policy: PolicySilent}
	for _, opt := range opts {
		opt(n)
	}

	out := make([]Player, 0, len(raw))
	for _, r := range raw {
		if r == nil {
			continue
		}
		out = append(out, n.record(r))
	}
	return out, n.warnings
}

func (n *normalizer) record(r map[string]any) Player {
	id := int(math.Trunc(n.number(r, 0, 0, "id")))
	p := Player{
		ID:              id,
		WebName:         n.text(r, "web_name"),
		Position:        n.position(r, id),
		Team:            n.text(r, "team_short"),
		TeamName:        n.text(r, "team_name"),
		Price:           n.price(r, id),
		Form:            n.number(r, id, 0, "form"),
		TotalPoints:     n.number(r, id, 0, "total_points"),
		PointsPerGame:   n.number(r, id, 0, "points_per_game"),
		Ownership:       n.number(r, id, 0, "selected_by_percent", "ownership"),
		Minutes:         n.number(r, id, 0, "minutes"),
		ExpectedGoals:   n.number(r, id, 0, "expected_goals"),
		ExpectedAssists: n.number(r, id, 0, "expected_assists"),
		Goals:           n.number(r, id, 0, "goals_scored", "goals"),
		Assists:         n.number(r, id, 0, "assists"),
		Bonus:           n.number(r, id, 0, "bonus"),
		ICTIndex:        n.number(r, id, 0, "ict_index"),
		Status:          n.status(r, id),
		News:            n.text(r, "news"),
		ChanceOfPlaying: n.number(r, id, defaultChanceOfPlaying, "chance_of_playing_next_round"),
	}
	p.ChanceOfPlaying = math.Max(0, math.Min(defaultChanceOfPlaying, p.ChanceOfPlaying))

	first, second := n.text(r, "first_name"), n.text(r, "second_name")
	p.FullName = strings.TrimSpace(first + " " + second)
	if p.WebName == "" {
		p.WebName = second
	}
	if p.FullName == "" {
		p.FullName = p.WebName
	}

	// team is either a numeric id or, in flattened feeds, the short code.
	if v, ok := r["team"]; ok && v != nil {
		if f, c := toFloat(v); c == parsed {
			p.TeamID = int(math.Trunc(f))
		} else if s, ok := toString(v); ok && p.Team == "" {
			p.Team = strings.TrimSpace(s)
		}
	}

	if _, ok := r["net_transfers"]; ok {
		p.NetTransfers = n.number(r, id, 0, "net_transfers")
	} else {
		in := n.number(r, id, 0, "transfers_in_event")
		outbound := n.number(r, id, 0, "transfers_out_event")
		p.NetTransfers = in - outbound
	}
	return p
}

// number returns the first present alias coerced to float64, or def.
func (n *normalizer) number(r map[string]any, id int, def float64, keys ...string) float64 {
	for _, k := range keys {
		v, ok := r[k]
		if !ok {
			continue
		}
		f, c := toFloat(v)
		switch c {
		case parsed:
			return f
		case malformed:
			n.warn(id, k, v)
			return def
		}
	}
	return def
}

func (n *normalizer) text(r map[string]any, key string) string {
	s, _ := toString(r[key])
	return strings.TrimSpace(s)
}

// price reads now_cost in tenths, falling back to price in whole units.
func (n *normalizer) price(r map[string]any, id int) float64 {
	if v, ok := r["now_cost"]; ok && v != nil {
		f, c := toFloat(v)
		if c == parsed {
			out, _ := decimal.NewFromFloat(f).Shift(-1).Round(1).Float64()
			return out
		}
		n.warn(id, "now_cost", v)
		return 0
	}
	f := n.number(r, id, 0, "price")
	out, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return out
}

func (n *normalizer) position(r map[string]any, id int) Position {
	if v, ok := r["element_type"]; ok && v != nil {
		if f, c := toFloat(v); c == parsed {
			if pos, ok := positionByElementType[int(f)]; ok && f == math.Trunc(f) {
				return pos
			}
		}
		n.warn(id, "element_type", v)
		return MID
	}
	if v, ok := r["position"]; ok && v != nil {
		s, _ := toString(v)
		if pos, ok := ParsePosition(s); ok {
			return pos
		}
		n.warn(id, "position", v)
	}
	return MID
}

func (n *normalizer) status(r map[string]any, id int) string {
	v, ok := r["status"]
	if !ok || v == nil {
		return StatusAvailable
	}
	s, _ := toString(v)
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StatusAvailable
	}
	if !knownStatuses[s] {
		n.warn(id, "status", v)
		return StatusAvailable
	}
	return s
}

func (n *normalizer) warn(id int, field string, raw any) {
	if n.policy != PolicyWarn {
		return
	}
	n.warnings = append(n.warnings, Warning{PlayerID: id, Field: field, Raw: raw})
}
