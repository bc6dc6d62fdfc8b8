package main

import (
	"context"
	"io"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/config"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/metrics"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		root := newRootCmd()

		convey.Convey("Then serve and seed are registered", func() {
			names := map[string]bool{}
			for _, c := range root.Commands() {
				names[c.Name()] = true
			}
			convey.So(names["serve"], convey.ShouldBeTrue)
			convey.So(names["seed"], convey.ShouldBeTrue)
		})

		convey.Convey("Then --config is a persistent flag", func() {
			convey.So(root.PersistentFlags().Lookup("config"), convey.ShouldNotBeNil)
		})

		convey.Convey("Then positional arguments are rejected", func() {
			root.SetArgs([]string{"seed", "extra"})
			convey.So(root.Execute(), convey.ShouldNotBeNil)
		})
	})
}

func TestSetup(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		t.Setenv("LAUNCHCIRCLE_ADDR", ":9090")
		t.Setenv("LAUNCHCIRCLE_WORKER_COUNT", "2")
		configPath = ""

		convey.Convey("Then setup loads them", func() {
			cfg, err := setup()
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 2)
		})

		convey.Convey("Then metrics are rebuilt from the metrics settings", func() {
			t.Setenv("LAUNCHCIRCLE_METRICS_NAMESPACE", "lcsetup")
			t.Setenv("LAUNCHCIRCLE_METRICS_LABELS", "env=test")
			_, err := setup()
			convey.So(err, convey.ShouldBeNil)

			metrics.RecordHTTPRequest("/api/health", "GET", "200")
			families, err := metrics.GetRegistry().Gather()
			convey.So(err, convey.ShouldBeNil)
			convey.So(families, convey.ShouldNotBeEmpty)
			for _, f := range families {
				convey.So(f.GetName(), convey.ShouldStartWith, "lcsetup_directory_")
			}
		})

		convey.Convey("Then a missing config file fails", func() {
			configPath = "/nonexistent/launchcircle.yaml"
			defer func() { configPath = "" }()
			_, err := setup()
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestBuildService(t *testing.T) {
	convey.Convey("Given a memory-backed configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.WorkerCount = 1

		c, err := buildService(ctx, cfg)
		convey.So(err, convey.ShouldBeNil)
		defer func() { _ = c.close(ctx) }()

		convey.Convey("Then seeding populates the directory once", func() {
			seeded, err := c.svc.Seed(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(seeded, convey.ShouldBeTrue)

			stats, err := c.svc.GetStats(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(stats.Started, convey.ShouldBeTrue)
			convey.So(stats.Driver, convey.ShouldEqual, config.DriverMemory)
			convey.So(stats.Profiles, convey.ShouldEqual, 4)

			seeded, err = c.svc.Seed(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(seeded, convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given an unknown store driver", t, func() {
		cfg := config.New()
		cfg.StoreDriver = "cassandra"

		convey.Convey("Then buildService fails", func() {
			_, err := buildService(context.Background(), cfg)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
