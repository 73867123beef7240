package rules

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/okian/scout/internal/domain/player"
)

// Cache maps a player id to the sorted ids of the rules it satisfies.
// Players matching no rule have no entry. A Cache is rebuilt wholesale and
// never updated in place.
type Cache map[int][]string

// Classify evaluates every rule against every player.
func Classify(players []player.Player, rs []Rule) Cache {
	cache := make(Cache, len(players))
	for _, p := range players {
		var tags []string
		for _, r := range rs {
			if r.Match(p) {
				tags = append(tags, r.ID)
			}
		}
		if len(tags) == 0 {
			continue
		}
		sort.Strings(tags)
		cache[p.ID] = tags
	}
	return cache
}

// Tags returns the rule ids satisfied by the player with id.
func (c Cache) Tags(id int) []string {
	return c[id]
}

// Has reports whether the player with id satisfies rule tag.
func (c Cache) Has(id int, tag string) bool {
	_, found := slices.BinarySearch(c[id], tag)
	return found
}

// Counts tallies how many players carry each tag.
func (c Cache) Counts() map[string]int {
	out := make(map[string]int)
	for _, tags := range c {
		for _, t := range tags {
			out[t]++
		}
	}
	return out
}

// Validate checks ids are non-empty, unique and usable as query tokens (no
// comma, no surrounding space), every rule has at least one condition, and
// every condition names a known field with a compatible op.
func Validate(rs []Rule) error {
	seen := make(map[string]struct{}, len(rs))
	for i, r := range rs {
		if r.ID == "" {
			return fmt.Errorf("%w: rule %d: empty id", ErrInvalidRule, i)
		}
		if strings.Contains(r.ID, ",") || strings.TrimSpace(r.ID) != r.ID {
			return fmt.Errorf("%w: rule id %q must not contain commas or surrounding space", ErrInvalidRule, r.ID)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidRule, r.ID)
		}
		seen[r.ID] = struct{}{}
		if len(r.All)+len(r.Any) == 0 {
			return fmt.Errorf("%w: rule %q has no conditions", ErrInvalidRule, r.ID)
		}
		for _, c := range append(slices.Clip(r.All), r.Any...) {
			if err := c.validate(); err != nil {
				return fmt.Errorf("%w: rule %q: %v", ErrInvalidRule, r.ID, err)
			}
		}
	}
	return nil
}

func (c Condition) validate() error {
	f, ok := registry[c.Field]
	if !ok {
		return fmt.Errorf("unknown field %q (known: %s)", c.Field, strings.Join(Fields(), ", "))
	}
	if _, ok := opSymbols[c.Op]; !ok {
		return fmt.Errorf("unknown op %q", c.Op)
	}
	if f.num != nil {
		if c.Op == OpIn {
			return fmt.Errorf("op %q needs a categorical field, %q is numeric", c.Op, c.Field)
		}
		if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
			return fmt.Errorf("field %q: threshold must be finite", c.Field)
		}
		return nil
	}
	switch c.Op {
	case OpEQ, OpNEQ, OpIn:
	default:
		return fmt.Errorf("op %q needs a numeric field, %q is categorical", c.Op, c.Field)
	}
	if len(c.Values) == 0 {
		return fmt.Errorf("field %q: values must not be empty", c.Field)
	}
	return nil
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
