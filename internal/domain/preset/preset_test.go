package preset_test

import (
	"errors"
	"testing"

	"github.com/okian/scout/internal/domain/filter"
	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/internal/domain/preset"
	"github.com/okian/scout/internal/domain/rules"
	. "github.com/smartystreets/goconvey/convey"
)

func TestApply(t *testing.T) {
	Convey("Given the built-in presets", t, func() {
		catalog, err := preset.NewCatalog(preset.Values(), preset.FromRules(rules.Default()))
		So(err, ShouldBeNil)

		Convey("When applying every preset", func() {
			Convey("Then the result is canonical and repeatable", func() {
				for _, p := range catalog.List() {
					m := preset.Apply(p)
					So(m, ShouldResemble, m.Canonical())
					So(preset.Apply(p), ShouldResemble, m)
					So(filter.ActiveCount(m), ShouldBeGreaterThan, 0)
				}
			})
		})

		Convey("When applying a value preset", func() {
			p, err := catalog.Get("in_form_attackers")
			So(err, ShouldBeNil)
			m := preset.Apply(p)

			Convey("Then only its dimensions differ from the default", func() {
				So(m.Positions, ShouldResemble, []string{"FWD", "MID"})
				So(m.Form, ShouldResemble, filter.Range{Min: 6, Max: 10})
				So(m.Price, ShouldResemble, filter.DefaultRange(filter.DimPrice))
				So(filter.ActiveCount(m), ShouldEqual, 2)
			})
		})

		Convey("When applying a tag preset", func() {
			p, err := catalog.Get("differential")
			So(err, ShouldBeNil)
			So(p.Kind, ShouldEqual, preset.KindTag)
			m := preset.Apply(p)

			Convey("Then exactly that tag is active", func() {
				So(m.Tags, ShouldResemble, []string{"differential"})
				So(filter.ActiveCount(m), ShouldEqual, 1)
			})

			Convey("And a matching player is included until the cache is rebuilt without it", func() {
				players := []player.Player{{ID: 1, Ownership: 3, Scores: player.Scores{Final: 6.5}}}
				cache := rules.Classify(players, rules.Default())
				So(filter.Evaluate(players, m, cache), ShouldHaveLength, 1)

				players[0].Scores.Final = 5.5
				cache = rules.Classify(players, rules.Default())
				So(filter.Evaluate(players, m, cache), ShouldBeEmpty)
			})
		})
	})
}

func TestCatalog(t *testing.T) {
	Convey("Given a catalog", t, func() {
		catalog, err := preset.NewCatalog(preset.Values())
		So(err, ShouldBeNil)

		Convey("Then presets keep their order", func() {
			So(catalog.Len(), ShouldEqual, 7)
			So(catalog.List()[0].ID, ShouldEqual, "budget_gems")
			So(catalog.List()[6].ID, ShouldEqual, "rising_stars")
		})

		Convey("When looking up an unknown id", func() {
			_, err := catalog.Get("nope")
			So(errors.Is(err, preset.ErrUnknownPreset), ShouldBeTrue)
		})

		Convey("When adding a duplicate id", func() {
			_, err := preset.NewCatalog(preset.Values(), preset.Values()[:1])
			So(errors.Is(err, preset.ErrDuplicatePreset), ShouldBeTrue)
		})

		Convey("When adding a preset without id", func() {
			_, err := preset.NewCatalog([]preset.Preset{{Name: "anonymous"}})
			So(errors.Is(err, preset.ErrInvalidPreset), ShouldBeTrue)
		})
	})
}
