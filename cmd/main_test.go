package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/okian/scoutops/internal/config"
	"github.com/okian/scoutops/pkg/logger"
	"github.com/okian/scoutops/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func TestMainWiring(t *testing.T) {
	convey.Convey("Given configuration from the environment", t, func() {
		_ = os.Setenv("SCOUTOPS_ADDR", ":8080")
		_ = os.Setenv("SCOUTOPS_PERSIST_QUEUE_SIZE", "1000")
		_ = os.Setenv("SCOUTOPS_PERSIST_WORKERS", "2")
		defer func() {
			_ = os.Unsetenv("SCOUTOPS_ADDR")
			_ = os.Unsetenv("SCOUTOPS_PERSIST_QUEUE_SIZE")
			_ = os.Unsetenv("SCOUTOPS_PERSIST_WORKERS")
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.Addr, convey.ShouldEqual, ":8080")

		svc := newService(cfg, logger.Nop())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		stats := svc.GetStats()
		convey.So(stats["workerCount"], convey.ShouldEqual, 2)
		convey.So(stats["queueSize"], convey.ShouldEqual, 1000)

		convey.Convey("The mux serves docs and business routes", func() {
			mux := newMux(ctx, svc)

			for _, path := range []string{"/openapi.yaml", "/api-docs", "/healthz", "/stats", "/picklists/2026casj"} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}

			w := httptest.NewRecorder()
			body := `{"quant_scouters":["a","b","c"],"match_count":3,"robots_per_match":2}`
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/schedule", strings.NewReader(body)))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Service metrics are refreshed from stats", func() {
			_, err := svc.Picklist(ctx, "2026casj")
			convey.So(err, convey.ShouldBeNil)
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
			convey.So(func() { updateSystemMetrics() }, convey.ShouldNotPanic)
			n, err := testutil.GatherAndCount(metrics.GetRegistry(), "scoutops_engine_picklist_groups_loaded")
			convey.So(err, convey.ShouldBeNil)
			convey.So(n, convey.ShouldEqual, 1)
		})
	})

	convey.Convey("Given an empty listen address", t, func() {
		_ = os.Setenv("SCOUTOPS_ADDR", " ")
		defer func() { _ = os.Unsetenv("SCOUTOPS_ADDR") }()

		convey.Convey("Then configuration loading fails", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})

	convey.Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		convey.Convey("Then the metrics updaters return", func() {
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}
