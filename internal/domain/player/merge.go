package player

import "sort"

// Fixture difficulty bounds.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// MergeScores returns a copy of players with component scores attached.
// Players missing from scores keep zero scores; non-finite values become 0.
func MergeScores(players []Player, scores map[int]Scores) []Player {
	out := make([]Player, len(players))
	copy(out, players)
	for i := range out {
		s, ok := scores[out[i].ID]
		if !ok {
			continue
		}
		out[i].Scores = Scores{
			Final:      finiteOr(s.Final),
			Nailedness: finiteOr(s.Nailedness),
			FormXG:     finiteOr(s.FormXG),
			Form:       finiteOr(s.Form),
			Fixture:    finiteOr(s.Fixture),
		}
	}
	return out
}

// AttachFixtures returns a copy of players with fixture outlooks attached.
// Difficulties are clamped to 1..5 and a missing average is recomputed from
// the listed fixtures. Players missing from outlooks keep no fixture data.
func AttachFixtures(players []Player, outlooks map[int]FixtureOutlook) []Player {
	out := make([]Player, len(players))
	copy(out, players)
	for i := range out {
		o, ok := outlooks[out[i].ID]
		if !ok {
			continue
		}
		fo := FixtureOutlook{Next: make([]Fixture, len(o.Next))}
		sum := 0
		for j, f := range o.Next {
			f.Difficulty = clampDifficulty(f.Difficulty)
			fo.Next[j] = f
			sum += f.Difficulty
		}
		fo.AvgDifficulty = o.AvgDifficulty
		if !finite(fo.AvgDifficulty) || fo.AvgDifficulty <= 0 {
			fo.AvgDifficulty = 0
			if len(fo.Next) > 0 {
				fo.AvgDifficulty = float64(sum) / float64(len(fo.Next))
			}
		}
		if len(fo.Next) == 0 && fo.AvgDifficulty == 0 {
			continue
		}
		out[i].Fixtures = &fo
	}
	return out
}

// Teams returns the sorted, de-duplicated team codes present in players.
func Teams(players []Player) []string {
	seen := make(map[string]struct{})
	for _, p := range players {
		if p.Team == "" {
			continue
		}
		seen[p.Team] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// IDs returns the player ids in catalog order.
func IDs(players []Player) []int {
	out := make([]int, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return out
}

func clampDifficulty(d int) int {
	if d < MinDifficulty {
		return MinDifficulty
	}
	if d > MaxDifficulty {
		return MaxDifficulty
	}
	return d
}

func finiteOr(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return v
}
