package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/okian/scout/internal/config"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// upstreamServer serves a two-player catalog.
func upstreamServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/players", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"web_name":"Saka","element_type":3,"team_short":"ARS","now_cost":100,"form":"7"},
{"id":2,"web_name":"Pope","element_type":1,"team_short":"NEW","now_cost":50,"form":"3"}]`))
	})
	mux.HandleFunc("/scores", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/fixtures", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	return httptest.NewServer(mux)
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("SCOUT_ADDR", ":8080")
			_ = os.Setenv("SCOUT_FIXTURE_BATCH_SIZE", "25")
			defer func() {
				_ = os.Unsetenv("SCOUT_ADDR")
				_ = os.Unsetenv("SCOUT_FIXTURE_BATCH_SIZE")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.FixtureBatchSize, convey.ShouldEqual, 25)
			})
		})

		convey.Convey("When the source url is invalid", func() {
			cfg := config.New()
			cfg.SourceBaseURL = "::not a url"

			convey.Convey("Then the service cannot be built", func() {
				_, err := newService(cfg, logger.Nop())
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestApplyLogSettings(t *testing.T) {
	convey.Convey("Given invalid log settings", t, func() {
		cfg := config.New()
		cfg.LogLevel = "chatty"
		cfg.LogFormat = "xml"

		convey.Convey("Then they fall back without panicking", func() {
			convey.So(func() { applyLogSettings(context.Background(), cfg, logger.Nop()) }, convey.ShouldNotPanic)
			convey.So(logger.Get(), convey.ShouldNotBeNil)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should stop with its context", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given main application integration", t, func() {
		upstream := upstreamServer()
		defer upstream.Close()

		cfg := config.New()
		cfg.SourceBaseURL = upstream.URL
		cfg.FixtureBatchDelayMS = 0

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		svc, err := newService(cfg, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		srv := httptest.NewServer(newHandler(ctx, svc, logger.Get()))
		defer srv.Close()

		convey.Convey("When requesting the player view", func() {
			resp, err := http.Get(srv.URL + "/api/players?pos=MID")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the catalog is served", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(resp.Header.Get("X-Request-ID"), convey.ShouldNotBeBlank)
			})
		})

		convey.Convey("When requesting the docs", func() {
			for _, path := range []string{"/openapi.yaml", "/api-docs", "/healthz", "/stats"} {
				resp, err := http.Get(srv.URL + path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				_ = resp.Body.Close()
			}
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("SCOUT_ADDR", "")
			defer func() { _ = os.Unsetenv("SCOUT_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the upstream is down at start", func() {
			cfg := config.New()
			cfg.SourceBaseURL = "http://127.0.0.1:1"
			cfg.SourceTimeoutMS = 200
			svc, err := newService(cfg, logger.Nop())
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the service starts and the API reports unavailability", func() {
				ctx := context.Background()
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
				defer svc.Stop()

				w := httptest.NewRecorder()
				newHandler(ctx, svc, logger.Nop()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/players", http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusServiceUnavailable)
			})
		})
	})
}
