package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leaguerank/leaguerank/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg := config.New()

		Convey("Then the defaults are valid", func() {
			So(cfg.Validate(), ShouldBeNil)
		})

		Convey("Then the core parameters carry their documented defaults", func() {
			So(cfg.Damping, ShouldAlmostEqual, 0.85, 1e-12)
			So(cfg.MarginCap, ShouldEqual, 5)
			So(cfg.RecencyLambda, ShouldAlmostEqual, 0.05, 1e-12)
			So(cfg.MaxOuterIterations, ShouldEqual, 6)
			So(cfg.BootstrapSamples, ShouldEqual, 50)
			So(cfg.LogLevel, ShouldEqual, "info")
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given configurations the engine cannot run with", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"damping at 1", func(c *config.Config) { c.Damping = 1 }},
			{"damping at 0", func(c *config.Config) { c.Damping = 0 }},
			{"zero tolerance", func(c *config.Config) { c.PageRankTolerance = 0 }},
			{"zero margin cap", func(c *config.Config) { c.MarginCap = 0 }},
			{"negative venue factor", func(c *config.Config) { c.VenueAwayFactor = -0.9 }},
			{"negative lambda", func(c *config.Config) { c.RecencyLambda = -0.01 }},
			{"zero shrinkage k", func(c *config.Config) { c.ShrinkageK = 0 }},
			{"zero win prob scale", func(c *config.Config) { c.WinProbC = 0 }},
			{"zero convergence threshold", func(c *config.Config) { c.ConvergenceThreshold = 0 }},
			{"zero outer iterations", func(c *config.Config) { c.MaxOuterIterations = 0 }},
		}

		for _, tc := range cases {
			Convey("Then "+tc.name+" is rejected", func() {
				cfg := config.New()
				tc.mutate(cfg)
				So(cfg.Validate(), ShouldWrap, config.ErrInvalidConfig)
			})
		}
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		ctx := context.Background()
		os.Unsetenv("LEAGUERANK_CONFIG")

		Convey("When nothing overrides the defaults", func() {
			cfg, err := config.Load(ctx)

			Convey("Then loading yields the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Damping, ShouldAlmostEqual, 0.85, 1e-12)
			})
		})

		Convey("When an environment variable overrides a parameter", func() {
			t.Setenv("LEAGUERANK_DAMPING", "0.9")
			t.Setenv("LEAGUERANK_MARGIN_CAP", "7")
			cfg, err := config.Load(ctx)

			Convey("Then the override wins over the default", func() {
				So(err, ShouldBeNil)
				So(cfg.Damping, ShouldAlmostEqual, 0.9, 1e-12)
				So(cfg.MarginCap, ShouldEqual, 7)
			})
		})

		Convey("When a YAML file sets parameters", func() {
			path := filepath.Join(t.TempDir(), "engine.yaml")
			So(os.WriteFile(path, []byte("recency_lambda: 0.02\nbootstrap_samples: 80\n"), 0o600), ShouldBeNil)
			t.Setenv("LEAGUERANK_CONFIG", path)
			cfg, err := config.Load(ctx)

			Convey("Then the file layers over the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.RecencyLambda, ShouldAlmostEqual, 0.02, 1e-12)
				So(cfg.BootstrapSamples, ShouldEqual, 80)
			})

			Convey("And the environment still wins over the file", func() {
				t.Setenv("LEAGUERANK_RECENCY_LAMBDA", "0.03")
				layered, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(layered.RecencyLambda, ShouldAlmostEqual, 0.03, 1e-12)
			})
		})

		Convey("When the config file is missing", func() {
			t.Setenv("LEAGUERANK_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
			_, err := config.Load(ctx)

			Convey("Then loading fails with the load sentinel", func() {
				So(err, ShouldWrap, config.ErrLoadConfig)
			})
		})

		Convey("When an override breaks validation", func() {
			t.Setenv("LEAGUERANK_DAMPING", "1.5")
			_, err := config.Load(ctx)

			Convey("Then loading fails with the validation sentinel", func() {
				So(err, ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}
