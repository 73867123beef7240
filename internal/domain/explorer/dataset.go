package explorer

import (
	"time"

	"github.com/okian/scout/internal/domain/filter"
	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/internal/domain/preset"
	"github.com/okian/scout/internal/domain/rules"
	"github.com/okian/scout/internal/domain/urlstate"
)

// Dataset is an immutable catalog snapshot shared by sessions.
type Dataset struct {
	Players  []player.Player
	Cache    rules.Cache
	Rules    []rules.Rule
	Presets  *preset.Catalog
	Teams    []string
	LoadedAt time.Time

	tagSet  map[string]struct{}
	teamSet map[string]struct{}
}

// NewDataset classifies players against rs and builds the preset catalog
// (value presets followed by one tag preset per rule).
func NewDataset(players []player.Player, rs []rules.Rule, loadedAt time.Time) (*Dataset, error) {
	catalog, err := preset.NewCatalog(preset.Values(), preset.FromRules(rs))
	if err != nil {
		return nil, err
	}
	d := &Dataset{
		Players:  players,
		Cache:    rules.Classify(players, rs),
		Rules:    rs,
		Presets:  catalog,
		Teams:    player.Teams(players),
		LoadedAt: loadedAt,
	}
	d.tagSet = listSafeSet(rules.IDs(rs))
	d.teamSet = listSafeSet(d.Teams)
	return d, nil
}

// listSafeSet indexes the values that can be carried in a query string.
func listSafeSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		if urlstate.ListSafe(v) {
			out[v] = struct{}{}
		}
	}
	return out
}

// Known restricts m's tags and teams to list-safe values present in the
// snapshot.
func (d *Dataset) Known(m filter.Model) filter.Model {
	m.Tags = keepKnown(m.Tags, d.tagSet)
	m.Teams = keepKnown(m.Teams, d.teamSet)
	return m
}

// KnownTeam reports whether team is a filterable team of the snapshot.
func (d *Dataset) KnownTeam(team string) bool {
	_, ok := d.teamSet[team]
	return ok
}

func keepKnown(set []string, vocab map[string]struct{}) []string {
	var out []string
	for _, v := range set {
		if _, ok := vocab[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Player returns the player with id.
func (d *Dataset) Player(id int) (player.Player, bool) {
	for _, p := range d.Players {
		if p.ID == id {
			return p, true
		}
	}
	return player.Player{}, false
}

// Rule returns the rule with id.
func (d *Dataset) Rule(id string) (rules.Rule, bool) {
	return rules.Find(d.Rules, id)
}
