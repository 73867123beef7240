package filter

import (
	"sort"

	"github.com/okian/scout/internal/domain/player"
)

// SortKey names a comparator.
type SortKey string

// Sort keys. Everything sorts descending except price_asc and difficulty.
const (
	SortForm         SortKey = "form"
	SortPriceAsc     SortKey = "price_asc"
	SortPriceDesc    SortKey = "price_desc"
	SortPoints       SortKey = "points"
	SortOwnership    SortKey = "ownership"
	SortPPG          SortKey = "ppg"
	SortXGI          SortKey = "xgi"
	SortMinutes      SortKey = "minutes"
	SortGoalsAssists SortKey = "goals_assists"
	SortTransfers    SortKey = "transfers"
	SortDifficulty   SortKey = "difficulty"
	SortValue        SortKey = "value"
)

// SortKeys lists every sort key.
var SortKeys = []SortKey{
	SortForm, SortPriceAsc, SortPriceDesc, SortPoints, SortOwnership, SortPPG,
	SortXGI, SortMinutes, SortGoalsAssists, SortTransfers, SortDifficulty, SortValue,
}

type less func(a, b player.Player) bool

func desc(get func(player.Player) float64) less {
	return func(a, b player.Player) bool { return get(a) > get(b) }
}

var comparators = map[SortKey]less{
	SortForm:         desc(func(p player.Player) float64 { return p.Form }),
	SortPriceAsc:     func(a, b player.Player) bool { return a.Price < b.Price },
	SortPriceDesc:    desc(func(p player.Player) float64 { return p.Price }),
	SortPoints:       desc(func(p player.Player) float64 { return p.TotalPoints }),
	SortOwnership:    desc(func(p player.Player) float64 { return p.Ownership }),
	SortPPG:          desc(func(p player.Player) float64 { return p.PointsPerGame }),
	SortXGI:          desc(player.Player.XGI),
	SortMinutes:      desc(func(p player.Player) float64 { return p.Minutes }),
	SortGoalsAssists: desc(player.Player.GoalsAssists),
	SortTransfers:    desc(func(p player.Player) float64 { return p.NetTransfers }),
	SortDifficulty:   byDifficulty,
	SortValue:        desc(player.Player.Value),
}

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	_, ok := comparators[k]
	return ok
}

// Sort returns a sorted copy of players. Unknown keys sort by form. Ties
// keep input order.
func Sort(players []player.Player, key SortKey) []player.Player {
	cmp, ok := comparators[key]
	if !ok {
		cmp = comparators[SortForm]
	}
	out := make([]player.Player, len(players))
	copy(out, players)
	sort.SliceStable(out, func(i, j int) bool {
		return cmp(out[i], out[j])
	})
	return out
}

// byDifficulty sorts easiest fixtures first; players without fixture data last.
func byDifficulty(a, b player.Player) bool {
	da, okA := a.AvgDifficulty()
	db, okB := b.AvgDifficulty()
	switch {
	case okA && okB:
		return da < db
	case okA:
		return true
	default:
		return false
	}
}
