package filter_test

import (
	"math"
	"testing"

	"github.com/okian/scout/internal/domain/filter"
	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/internal/domain/rules"
	. "github.com/smartystreets/goconvey/convey"
)

// scenarioPlayers is the three-player catalog from the explorer walkthrough.
func scenarioPlayers() []player.Player {
	return []player.Player{
		{ID: 1, WebName: "Keeper", Position: player.GK, Team: "ARS", Price: 4.0, Form: 8.0, Status: "a"},
		{ID: 2, WebName: "Defender", Position: player.DEF, Team: "CHE", Price: 12.0, Form: 2.0, Status: "d"},
		{ID: 3, WebName: "Midfielder", Position: player.MID, Team: "LIV", Price: 7.0, Form: 6.0, Status: "a"},
	}
}

func ids(players []player.Player) []int {
	return player.IDs(players)
}

func TestEvaluate(t *testing.T) {
	Convey("Given a catalog and the default model", t, func() {
		players := append(scenarioPlayers(),
			player.Player{ID: 4, WebName: "Outlier", Position: player.FWD, Price: 18.0, TotalPoints: 900, Minutes: 4000},
		)
		cache := rules.Classify(players, rules.Default())

		Convey("When evaluating", func() {
			out := filter.Evaluate(players, filter.Default(), cache)

			Convey("Then every player is returned in order", func() {
				So(out, ShouldResemble, players)
			})
		})

		Convey("When the model has malformed values", func() {
			m := filter.Default()
			m.Price = filter.Range{Min: 10, Max: 5}
			m.Form = filter.Range{Min: math.NaN(), Max: 10}
			m.Trend = "sideways"
			m.Venue = "neutral"
			m.Positions = []string{"striker"}
			out := filter.Evaluate(players, m, cache)

			Convey("Then they impose no constraint", func() {
				So(ids(out), ShouldResemble, []int{1, 2, 3, 4})
				So(filter.ActiveCount(m), ShouldEqual, 0)
				So(m.Canonical().Positions, ShouldBeNil)
			})
		})
	})

	Convey("Given the three-player scenario", t, func() {
		players := scenarioPlayers()
		cache := rules.Classify(players, rules.Default())
		m := filter.Default().Apply(filter.Patch{
			Positions: []string{"GK", "MID"},
			Form:      &filter.Range{Min: 5, Max: 10},
		})

		Convey("When filtering positions {GK, MID} and form [5, 10]", func() {
			out := filter.Evaluate(players, m, cache)

			Convey("Then only the GK and MID remain", func() {
				So(ids(out), ShouldResemble, []int{1, 3})
				So(filter.ActiveCount(m), ShouldEqual, 2)
			})
		})

		Convey("When leaving the team predicate out", func() {
			mt := filter.Compile(m, cache)
			out := mt.Filter(players, filter.DimTeam)

			Convey("Then no team filter narrows the result", func() {
				So(ids(out), ShouldResemble, []int{1, 3})
			})
		})

		Convey("When leaving the position predicate out", func() {
			mt := filter.Compile(m, cache)

			Convey("Then the defender is still excluded by form", func() {
				So(mt.Match(players[1], filter.DimPosition), ShouldBeFalse)
				So(mt.Match(players[1], filter.DimForm), ShouldBeFalse)
				So(mt.Match(players[0], filter.DimPosition), ShouldBeTrue)
			})
		})
	})

	Convey("Given players with and without fixture data", t, func() {
		players := player.AttachFixtures([]player.Player{
			{ID: 1, NetTransfers: 80_000},
			{ID: 2, NetTransfers: -30_000},
			{ID: 3, NetTransfers: 200},
		}, map[int]player.FixtureOutlook{
			1: {Next: []player.Fixture{{Opponent: "SHU", Home: true, Difficulty: 2}}},
			2: {Next: []player.Fixture{{Opponent: "MCI", Home: false, Difficulty: 5}}},
		})

		Convey("When the difficulty range is at its default", func() {
			out := filter.Evaluate(players, filter.Default(), nil)
			So(ids(out), ShouldResemble, []int{1, 2, 3})
		})

		Convey("When the difficulty range is narrowed", func() {
			m := filter.Default().Apply(filter.Patch{Difficulty: &filter.Range{Min: 1, Max: 5 - 0.5}})
			out := filter.Evaluate(players, m, nil)

			Convey("Then players without fixture data are excluded", func() {
				So(ids(out), ShouldResemble, []int{1})
			})
		})

		Convey("When filtering by venue", func() {
			home := filter.Evaluate(players, filter.Default().Apply(filter.Patch{Venue: filter.Ptr(filter.VenueHome)}), nil)
			away := filter.Evaluate(players, filter.Default().Apply(filter.Patch{Venue: filter.Ptr(filter.VenueAway)}), nil)
			So(ids(home), ShouldResemble, []int{1})
			So(ids(away), ShouldResemble, []int{2})
		})

		Convey("When filtering by trend", func() {
			rising := filter.Default().Apply(filter.Patch{Trend: filter.Ptr(filter.TrendRising)})
			falling := filter.Default().Apply(filter.Patch{Trend: filter.Ptr(filter.TrendFalling)})
			stable := filter.Default().Apply(filter.Patch{Trend: filter.Ptr(filter.TrendStable)})
			So(ids(filter.Evaluate(players, rising, nil)), ShouldResemble, []int{1})
			So(ids(filter.Evaluate(players, falling, nil)), ShouldResemble, []int{2})
			So(ids(filter.Evaluate(players, stable, nil)), ShouldResemble, []int{3})

			Convey("And the threshold is configurable", func() {
				out := filter.Evaluate(players, falling, nil, filter.WithTrendThreshold(50_000))
				So(out, ShouldBeEmpty)
			})
		})
	})

	Convey("Given tagged players", t, func() {
		players := []player.Player{
			{ID: 1, WebName: "Salah", FullName: "Mohamed Salah", Team: "LIV", TeamName: "Liverpool", Form: 9, Price: 13},
			{ID: 2, WebName: "Cheap", Price: 4.5, Minutes: 1000},
			{ID: 3, WebName: "Nobody", Price: 6},
		}
		cache := rules.Classify(players, rules.Default())

		Convey("When several tags are active", func() {
			m := filter.Default().Apply(filter.Patch{Tags: []string{"premium", "budget_enabler"}})

			Convey("Then tags combine with OR", func() {
				So(ids(filter.Evaluate(players, m, cache)), ShouldResemble, []int{1, 2})
			})

			Convey("And AND with other dimensions", func() {
				m = m.Apply(filter.Patch{Form: &filter.Range{Min: 5, Max: 10}})
				So(ids(filter.Evaluate(players, m, cache)), ShouldResemble, []int{1})
			})
		})

		Convey("When searching text", func() {
			for _, q := range []string{"salah", "MOHAMED", "liv", "pool"} {
				m := filter.Default().Apply(filter.Patch{Query: filter.Ptr(q)})
				So(ids(filter.Evaluate(players, m, cache)), ShouldResemble, []int{1})
			}
			blank := filter.Default().Apply(filter.Patch{Query: filter.Ptr("  ")})
			So(filter.Evaluate(players, blank, cache), ShouldHaveLength, 3)
		})

		Convey("When filtering by availability", func() {
			players[2].Status = "i"
			m := filter.Default().Apply(filter.Patch{Statuses: []string{"unavailable"}})
			So(ids(filter.Evaluate(players, m, cache)), ShouldResemble, []int{3})
		})
	})
}

func TestSort(t *testing.T) {
	Convey("Given unsorted players", t, func() {
		players := player.AttachFixtures([]player.Player{
			{ID: 1, Price: 6, Form: 5, PointsPerGame: 5},
			{ID: 2, Price: 10, Form: 7, PointsPerGame: 4},
			{ID: 3, Price: 4.5, Form: 5, PointsPerGame: 3},
		}, map[int]player.FixtureOutlook{
			2: {AvgDifficulty: 3},
			3: {AvgDifficulty: 2},
		})

		Convey("When sorting by each key", func() {
			So(ids(filter.Sort(players, filter.SortForm)), ShouldResemble, []int{2, 1, 3})
			So(ids(filter.Sort(players, filter.SortPriceAsc)), ShouldResemble, []int{3, 1, 2})
			So(ids(filter.Sort(players, filter.SortPriceDesc)), ShouldResemble, []int{2, 1, 3})
			So(ids(filter.Sort(players, filter.SortDifficulty)), ShouldResemble, []int{3, 2, 1})
			So(ids(filter.Sort(players, filter.SortValue)), ShouldResemble, []int{1, 3, 2})
		})

		Convey("When the key is unknown", func() {
			So(ids(filter.Sort(players, "alphabetical")), ShouldResemble, []int{2, 1, 3})
		})

		Convey("When keys tie", func() {
			reversed := []player.Player{players[2], players[1], players[0]}

			Convey("Then tied players keep their input order", func() {
				So(ids(filter.Sort(players, filter.SortForm)), ShouldResemble, []int{2, 1, 3})
				So(ids(filter.Sort(reversed, filter.SortForm)), ShouldResemble, []int{2, 3, 1})
			})
		})

		Convey("Then the input is not reordered", func() {
			filter.Sort(players, filter.SortPriceAsc)
			So(ids(players), ShouldResemble, []int{1, 2, 3})
		})
	})
}

func TestModel(t *testing.T) {
	Convey("Given the default model", t, func() {
		m := filter.Default()

		Convey("Then no dimension is active", func() {
			So(filter.ActiveCount(m), ShouldEqual, 0)
			So(m.Price, ShouldResemble, filter.Range{Min: 3.5, Max: 15.5})
			So(m.Difficulty, ShouldResemble, filter.DefaultRange(filter.DimDifficulty))
			So(m.Sort, ShouldEqual, filter.SortForm)
		})

		Convey("When applying a patch", func() {
			next := m.Apply(filter.Patch{
				Positions: []string{"mid", "GK", "MID"},
				Teams:     []string{"LIV", " ", "ARS"},
				Sort:      filter.Ptr(filter.SortPoints),
			})

			Convey("Then sets are canonical and the original is untouched", func() {
				So(next.Positions, ShouldResemble, []string{"GK", "MID"})
				So(next.Teams, ShouldResemble, []string{"ARS", "LIV"})
				So(next.Sort, ShouldEqual, filter.SortPoints)
				So(filter.ActiveCount(next), ShouldEqual, 2)
				So(m.Positions, ShouldBeNil)
			})

			Convey("And an empty set clears the dimension", func() {
				cleared := next.Apply(filter.Patch{Positions: []string{}})
				So(cleared.Positions, ShouldBeNil)
				So(filter.Patch{}.IsEmpty(), ShouldBeTrue)
				So(filter.Patch{Positions: []string{}}.IsEmpty(), ShouldBeFalse)
			})
		})

		Convey("When toggling set members", func() {
			set := filter.Toggle(nil, "MID")
			set = filter.Toggle(set, "GK")
			So(set, ShouldResemble, []string{"GK", "MID"})
			set = filter.Toggle(set, "MID")
			So(set, ShouldResemble, []string{"GK"})
			So(filter.Toggle(set, "GK"), ShouldBeNil)
		})
	})
}
