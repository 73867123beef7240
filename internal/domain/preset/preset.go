// Package preset provides named filter shortcuts. Applying a preset always
// starts from the default model, so presets never blend with each other or
// with earlier selections.
package preset

import (
	"fmt"

	"github.com/okian/scout/internal/domain/filter"
	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/internal/domain/rules"
)

// Kind distinguishes hand-written value presets from rule-derived tag presets.
type Kind string

// Preset kinds.
const (
	KindValue Kind = "value"
	KindTag   Kind = "tag"
)

// Preset is a named partial filter model.
type Preset struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Icon        string       `json:"icon,omitempty"`
	Description string       `json:"description"`
	Kind        Kind         `json:"kind"`
	Patch       filter.Patch `json:"patch"`
}

// Apply returns the default model overlaid with the preset's patch.
func Apply(p Preset) filter.Model {
	return filter.Default().Apply(p.Patch)
}

// Values returns the built-in value presets.
func Values() []Preset {
	return []Preset{
		{
			ID:          "budget_gems",
			Name:        "Budget Gems",
			Icon:        "💰",
			Description: "Cheap players in decent form, best value first",
			Kind:        KindValue,
			Patch: filter.Patch{
				Price: &filter.Range{Min: 3.5, Max: 6.0},
				Form:  &filter.Range{Min: 4, Max: 10},
				Sort:  filter.Ptr(filter.SortValue),
			},
		},
		{
			ID:          "premium_picks",
			Name:        "Premium Picks",
			Icon:        "👑",
			Description: "The most expensive assets ranked by points",
			Kind:        KindValue,
			Patch: filter.Patch{
				Price: &filter.Range{Min: 10, Max: 15.5},
				Sort:  filter.Ptr(filter.SortPoints),
			},
		},
		{
			ID:          "differentials",
			Name:        "Differentials",
			Icon:        "💎",
			Description: "Owned by under 10% and playing well",
			Kind:        KindValue,
			Patch: filter.Patch{
				Ownership: &filter.Range{Min: 0, Max: 10},
				Form:      &filter.Range{Min: 4, Max: 10},
				Sort:      filter.Ptr(filter.SortForm),
			},
		},
		{
			ID:          "in_form_attackers",
			Name:        "In-Form Attackers",
			Icon:        "🔥",
			Description: "Midfielders and forwards with form 6+",
			Kind:        KindValue,
			Patch: filter.Patch{
				Positions: []string{string(player.MID), string(player.FWD)},
				Form:      &filter.Range{Min: 6, Max: 10},
				Sort:      filter.Ptr(filter.SortForm),
			},
		},
		{
			ID:          "easy_fixtures",
			Name:        "Easy Fixtures",
			Icon:        "📅",
			Description: "Average fixture difficulty of 2.5 or less",
			Kind:        KindValue,
			Patch: filter.Patch{
				Difficulty: &filter.Range{Min: 1, Max: 2.5},
				Sort:       filter.Ptr(filter.SortDifficulty),
			},
		},
		{
			ID:          "set_and_forget",
			Name:        "Set and Forget",
			Icon:        "🔒",
			Description: "Available regular starters with 1800+ minutes",
			Kind:        KindValue,
			Patch: filter.Patch{
				Minutes:  &filter.Range{Min: 1800, Max: 3420},
				Statuses: []string{string(player.Available)},
				Sort:     filter.Ptr(filter.SortPoints),
			},
		},
		{
			ID:          "rising_stars",
			Name:        "Rising Stars",
			Icon:        "📈",
			Description: "Players the market is buying",
			Kind:        KindValue,
			Patch: filter.Patch{
				Trend: filter.Ptr(filter.TrendRising),
				Sort:  filter.Ptr(filter.SortTransfers),
			},
		},
	}
}

// FromRules derives one tag preset per rule, activating only that rule's tag.
func FromRules(rs []rules.Rule) []Preset {
	out := make([]Preset, len(rs))
	for i, r := range rs {
		out[i] = Preset{
			ID:          r.ID,
			Name:        r.Name,
			Icon:        r.Icon,
			Description: r.Description,
			Kind:        KindTag,
			Patch:       filter.Patch{Tags: []string{r.ID}},
		}
	}
	return out
}

// Catalog is an ordered, id-indexed preset list.
type Catalog struct {
	presets []Preset
	byID    map[string]int
}

// NewCatalog builds a catalog from preset groups, keeping their order.
// Duplicate ids return ErrDuplicatePreset.
func NewCatalog(groups ...[]Preset) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int)}
	for _, group := range groups {
		for _, p := range group {
			if p.ID == "" {
				return nil, fmt.Errorf("%w: empty id", ErrInvalidPreset)
			}
			if _, dup := c.byID[p.ID]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicatePreset, p.ID)
			}
			c.byID[p.ID] = len(c.presets)
			c.presets = append(c.presets, p)
		}
	}
	return c, nil
}

// Get returns the preset with id or ErrUnknownPreset.
func (c *Catalog) Get(id string) (Preset, error) {
	i, ok := c.byID[id]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, id)
	}
	return c.presets[i], nil
}

// List returns the presets in catalog order.
func (c *Catalog) List() []Preset {
	out := make([]Preset, len(c.presets))
	copy(out, c.presets)
	return out
}

// Len returns the number of presets.
func (c *Catalog) Len() int {
	return len(c.presets)
}
