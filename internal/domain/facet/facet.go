// Package facet computes leave-one-out facet counts: each category is
// tallied over the players matching every active predicate except the
// category's own, so selecting a value never collapses its siblings.
package facet

import (
	"github.com/okian/scout/internal/domain/filter"
	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/internal/domain/preset"
	"github.com/okian/scout/internal/domain/rules"
)

// Counts holds one count per selectable value of each faceted dimension.
type Counts struct {
	Positions map[string]int `json:"positions"`
	Teams     map[string]int `json:"teams"`
	Statuses  map[string]int `json:"statuses"`
	Tags      map[string]int `json:"tags"`
	Presets   map[string]int `json:"presets"`
}

// Option applies a configuration option to Compute.
type Option func(*options)

type options struct {
	match []filter.Option
	tags  []string
}

// WithMatchOptions forwards evaluator options such as the trend threshold.
func WithMatchOptions(opts ...filter.Option) Option {
	return func(o *options) {
		o.match = append(o.match, opts...)
	}
}

// WithTags lists tag ids that must appear in Counts.Tags even at zero.
func WithTags(ids []string) Option {
	return func(o *options) {
		o.tags = ids
	}
}

// Compute returns the facet counts for m over players. Preset counts use
// the unfiltered list: they answer "how many would this preset show".
func Compute(players []player.Player, m filter.Model, cache rules.Cache, presets []preset.Preset, opts ...Option) Counts {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	mt := filter.Compile(m, cache, o.match...)

	c := Counts{
		Positions: make(map[string]int, len(player.Positions)),
		Teams:     make(map[string]int),
		Statuses:  make(map[string]int, len(player.Availabilities)),
		Tags:      make(map[string]int, len(o.tags)),
		Presets:   make(map[string]int, len(presets)),
	}
	for _, pos := range player.Positions {
		c.Positions[string(pos)] = 0
	}
	for _, a := range player.Availabilities {
		c.Statuses[string(a)] = 0
	}
	for _, team := range player.Teams(players) {
		c.Teams[team] = 0
	}
	for _, id := range o.tags {
		c.Tags[id] = 0
	}

	for _, p := range players {
		if mt.Match(p, filter.DimPosition) {
			c.Positions[string(p.Position)]++
		}
		if p.Team != "" && mt.Match(p, filter.DimTeam) {
			c.Teams[p.Team]++
		}
		if mt.Match(p, filter.DimStatus) {
			c.Statuses[string(p.Availability())]++
		}
		if mt.Match(p, filter.DimTag) {
			for _, tag := range cache.Tags(p.ID) {
				c.Tags[tag]++
			}
		}
	}

	for _, pr := range presets {
		c.Presets[pr.ID] = len(filter.Evaluate(players, preset.Apply(pr), cache, o.match...))
	}
	return c
}
