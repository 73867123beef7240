package service_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/internal/adapters/source"
	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/filter"
	"github.com/okian/scout/internal/domain/player"
	. "github.com/smartystreets/goconvey/convey"
)

const playersJSON = `{"elements":[
 {"id":1,"web_name":"Raya","first_name":"David","second_name":"Raya","element_type":1,"team_short":"ARS","now_cost":55,"form":"4.0","selected_by_percent":"22.1","minutes":1800,"status":"a"},
 {"id":2,"web_name":"Saka","first_name":"Bukayo","second_name":"Saka","element_type":3,"team_short":"ARS","now_cost":101,"form":"7.5","selected_by_percent":"45.3","minutes":1700,"expected_goals":"6.1","expected_assists":"4.4","status":"a","transfers_in_event":90000,"transfers_out_event":1000},
 {"id":3,"web_name":"Mbeumo","first_name":"Bryan","second_name":"Mbeumo","element_type":3,"team_short":"MUN","now_cost":80,"form":"6.5","selected_by_percent":"3.4","minutes":1500,"status":"a"},
 {"id":4,"web_name":"Isak","first_name":"Alexander","second_name":"Isak","element_type":4,"team_short":"LIV","now_cost":105,"form":"1.0","selected_by_percent":"12.0","minutes":300,"status":"i","news":"Groin injury"}
]}`

const scoresJSON = `{"1":{"final":5.0},"2":{"final":8.1,"nailedness":9.5},"3":{"final":6.5},"4":{"final":2.0}}`

// fakeUpstream serves the three upstream endpoints.
func fakeUpstream(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var mu sync.Mutex
	batches := []string{}
	mux := http.NewServeMux()
	mux.HandleFunc("/players", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(playersJSON))
	})
	mux.HandleFunc("/scores", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(scoresJSON))
	})
	mux.HandleFunc("/fixtures", func(w http.ResponseWriter, r *http.Request) {
		ids := r.URL.Query().Get("ids")
		mu.Lock()
		batches = append(batches, ids)
		mu.Unlock()
		if strings.Contains(ids, "4") {
			http.Error(w, "upstream timeout", http.StatusGatewayTimeout)
			return
		}
		parts := []string{}
		for _, id := range strings.Split(ids, ",") {
			home := id == "1" || id == "2"
			parts = append(parts, fmt.Sprintf(`%q:{"avg_difficulty":0,"fixtures":[{"opponent":"BOU","home":%t,"difficulty":2},{"opponent":"TOT","home":false,"difficulty":3}]}`, id, home))
		}
		_, _ = w.Write([]byte("{" + strings.Join(parts, ",") + "}"))
	})
	srv := httptest.NewServer(mux)
	return srv, &batches
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service wired to an upstream API", t, func() {
		srv, batches := fakeUpstream(t)
		defer srv.Close()

		client, err := source.New(srv.URL,
			source.WithBatchSize(3),
			source.WithBatchDelay(time.Millisecond),
			source.WithHorizon(2),
		)
		So(err, ShouldBeNil)

		svc := service.New(client, repository.NewSnapshotStore(), service.WithPageSize(2))
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When the catalog loads", func() {
			data, err := svc.Dataset(ctx)
			So(err, ShouldBeNil)

			Convey("Then fixtures arrive in batches and a failed batch is skipped", func() {
				So(*batches, ShouldResemble, []string{"1,2,3", "4"})
				saka, _ := data.Player(2)
				So(saka.HasFixtures(), ShouldBeTrue)
				So(saka.Fixtures.AvgDifficulty, ShouldEqual, 2.5)
				isak, _ := data.Player(4)
				So(isak.HasFixtures(), ShouldBeFalse)
			})

			Convey("And records are normalized and classified", func() {
				saka, _ := data.Player(2)
				So(saka.Price, ShouldEqual, 10.1)
				So(saka.NetTransfers, ShouldEqual, 89000.0)
				So(saka.Scores.Final, ShouldEqual, 8.1)
				So(data.Cache.Tags(2), ShouldContain, "hot_transfer")
				So(data.Cache.Tags(2), ShouldContain, "premium")
				So(data.Cache.Tags(3), ShouldContain, "differential")
				So(data.Cache.Tags(4), ShouldContain, "injury_doubt")
				So(data.Teams, ShouldResemble, []string{"ARS", "LIV", "MUN"})
			})
		})

		Convey("When exploring the differential preset", func() {
			session, err := svc.Explore(ctx, nil)
			So(err, ShouldBeNil)
			So(session.ApplyPreset("differential"), ShouldBeNil)
			view := session.View()

			Convey("Then only the low owned high scorer remains", func() {
				So(player.IDs(view.Players), ShouldResemble, []int{3})
				So(view.Query, ShouldEqual, "tags=differential")
				So(view.Facets.Positions["MID"], ShouldEqual, 1)
				So(view.Facets.Positions["GK"], ShouldEqual, 0)
			})
		})

		Convey("When exploring a shared url", func() {
			q, _ := url.ParseQuery("pos=MID,FWD&venue=home&sort=price_desc")
			session, err := svc.Explore(ctx, q)
			So(err, ShouldBeNil)
			view := session.View()

			Convey("Then the venue drops players without fixture data", func() {
				So(player.IDs(view.Players), ShouldResemble, []int{2})
				So(view.Filter.Venue, ShouldEqual, filter.VenueHome)
				So(view.ActiveFilters, ShouldEqual, 2)
			})
		})

		Convey("When viewing without filters", func() {
			session, err := svc.Explore(ctx, url.Values{"sort": {"price_desc"}})
			So(err, ShouldBeNil)
			view := session.View()

			Convey("Then the page is capped while the total is complete", func() {
				So(player.IDs(view.Players), ShouldResemble, []int{4, 2})
				So(view.Total, ShouldEqual, 4)
			})
		})
	})
}
