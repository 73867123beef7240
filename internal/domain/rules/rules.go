// Package rules implements the declarative smart-tag classifier.
//
// A Rule is a conjunction of conditions (All) optionally combined with an
// OR group (Any). Conditions compare a named player field against a
// threshold or a set of tokens, so rules can be loaded from YAML, audited
// and explained without executable predicates.
package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/okian/scout/internal/domain/player"
)

// Op is a comparison operator.
type Op string

// Supported operators. lt..gte require a numeric field; in requires a
// categorical one; eq and neq accept both.
const (
	OpLT  Op = "lt"
	OpLTE Op = "lte"
	OpGT  Op = "gt"
	OpGTE Op = "gte"
	OpEQ  Op = "eq"
	OpNEQ Op = "neq"
	OpIn  Op = "in"
)

var opSymbols = map[Op]string{
	OpLT:  "<",
	OpLTE: "≤",
	OpGT:  ">",
	OpGTE: "≥",
	OpEQ:  "=",
	OpNEQ: "≠",
	OpIn:  "in",
}

// Condition compares one field. Numeric fields use Value; categorical
// fields use Values.
type Condition struct {
	Field  string   `json:"field" koanf:"field"`
	Op     Op       `json:"op" koanf:"op"`
	Value  float64  `json:"value,omitempty" koanf:"value"`
	Values []string `json:"values,omitempty" koanf:"values"`
}

// Rule is a named smart tag.
type Rule struct {
	ID          string      `json:"id" koanf:"id"`
	Name        string      `json:"name" koanf:"name"`
	Icon        string      `json:"icon,omitempty" koanf:"icon"`
	Description string      `json:"description" koanf:"description"`
	All         []Condition `json:"all,omitempty" koanf:"all"`
	Any         []Condition `json:"any,omitempty" koanf:"any"`
}

// Holds reports whether the condition is satisfied. Conditions on a missing
// optional field and on unknown fields are false.
func (c Condition) Holds(p player.Player) bool {
	f, ok := registry[c.Field]
	if !ok {
		return false
	}
	if f.num != nil {
		v, present := f.num(p)
		if !present {
			return false
		}
		switch c.Op {
		case OpLT:
			return v < c.Value
		case OpLTE:
			return v <= c.Value
		case OpGT:
			return v > c.Value
		case OpGTE:
			return v >= c.Value
		case OpEQ:
			return v == c.Value
		case OpNEQ:
			return v != c.Value
		}
		return false
	}
	v, present := f.cat(p)
	if !present {
		return false
	}
	switch c.Op {
	case OpEQ, OpIn:
		return slices.Contains(c.Values, v)
	case OpNEQ:
		return !slices.Contains(c.Values, v)
	}
	return false
}

// Match reports whether every All condition holds and, when Any is
// non-empty, at least one Any condition holds.
func (r Rule) Match(p player.Player) bool {
	for _, c := range r.All {
		if !c.Holds(p) {
			return false
		}
	}
	if len(r.Any) == 0 {
		return true
	}
	for _, c := range r.Any {
		if c.Holds(p) {
			return true
		}
	}
	return false
}

// Explain returns one line per satisfied condition when the rule matches p,
// and nil otherwise.
func Explain(r Rule, p player.Player) []string {
	if !r.Match(p) {
		return nil
	}
	var out []string
	for _, c := range append(slices.Clip(r.All), r.Any...) {
		if c.Holds(p) {
			out = append(out, c.describe(p))
		}
	}
	return out
}

// String renders the condition without a player, e.g. "Ownership < 10".
func (c Condition) String() string {
	f, ok := registry[c.Field]
	label := c.Field
	if ok {
		label = f.label
	}
	return fmt.Sprintf("%s %s %s", label, opSymbols[c.Op], c.threshold())
}

// Summary renders the rule's conditions, e.g. "Form ≥ 6 and (xG ≥ 5 or Goals ≥ 8)".
func (r Rule) Summary() string {
	parts := make([]string, 0, len(r.All)+1)
	for _, c := range r.All {
		parts = append(parts, c.String())
	}
	if len(r.Any) > 0 {
		alts := make([]string, len(r.Any))
		for i, c := range r.Any {
			alts[i] = c.String()
		}
		group := strings.Join(alts, " or ")
		if len(r.All) > 0 && len(alts) > 1 {
			group = "(" + group + ")"
		}
		parts = append(parts, group)
	}
	return strings.Join(parts, " and ")
}

func (c Condition) threshold() string {
	if f, ok := registry[c.Field]; ok && f.cat != nil {
		return strings.Join(c.Values, ", ")
	}
	return formatNumber(c.Value)
}

func (c Condition) describe(p player.Player) string {
	f := registry[c.Field]
	var actual string
	if f.num != nil {
		v, _ := f.num(p)
		actual = formatNumber(roundTo(v, 2))
	} else {
		actual, _ = f.cat(p)
	}
	return fmt.Sprintf("%s is %s (%s %s)", f.label, actual, opSymbols[c.Op], c.threshold())
}

// Find returns the rule with id.
func Find(rs []Rule, id string) (Rule, bool) {
	for _, r := range rs {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// IDs returns rule ids in rule-set order.
func IDs(rs []Rule) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}
