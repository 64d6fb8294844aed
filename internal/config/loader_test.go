package config_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/dockrank/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var requiredArgs = []string{"-score", "*_score.txt", "-sdf", "*.sdf", "-top", "1000", "-dock", "fred", "-outpref", "ksr"}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading from flags only", func() {
			cfg, err := config.Load(ctx, requiredArgs)

			convey.Convey("Then flags and defaults are combined", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.ScoreGlob, convey.ShouldEqual, "*_score.txt")
				convey.So(cfg.StructureGlob, convey.ShouldEqual, "*.sdf")
				convey.So(cfg.Top, convey.ShouldEqual, 1000)
				convey.So(cfg.Dock, convey.ShouldEqual, "fred")
				convey.So(cfg.Prefix, convey.ShouldEqual, "ksr")
				convey.So(cfg.Multiplier, convey.ShouldEqual, 2)
				convey.So(cfg.Upper, convey.ShouldBeNil)
				convey.So(cfg.Progress, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When optional numeric flags are given", func() {
			args := append(append([]string{}, requiredArgs...), "-hmax", "-16.0", "-hmin", "-1.5", "-coll", "3", "-grid")
			cfg, err := config.Load(ctx, args)

			convey.Convey("Then they are applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.UpperBound(), convey.ShouldEqual, -16.0)
				convey.So(cfg.LowerBound(), convey.ShouldEqual, -1.5)
				convey.So(cfg.Multiplier, convey.ShouldEqual, 3)
				convey.So(cfg.Grid, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When environment variables are set", func() {
			_ = os.Setenv("DOCKRANK_COLL", "4")
			_ = os.Setenv("DOCKRANK_SCAN_WORKERS", "2")
			_ = os.Setenv("DOCKRANK_TOP", "5")

			cfg, err := config.Load(ctx, requiredArgs)

			convey.Convey("Then env overrides defaults but flags override env", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Multiplier, convey.ShouldEqual, 4)
				convey.So(cfg.ScanWorkers, convey.ShouldEqual, 2)
				convey.So(cfg.Top, convey.ShouldEqual, 1000)
			})
		})

		convey.Convey("When loading with a YAML file", func() {
			tmpFile := createTempConfigFile(`
score: "scores/*.txt"
sdf: "poses/*.sdf.gz"
top: 50
dock: sch
outpref: run1
coll: 5
hmax: -12.5
exclude: "C(=O)[O-]"
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("DOCKRANK_CONFIG", tmpFile)
			_ = os.Setenv("DOCKRANK_COLL", "6")

			cfg, err := config.Load(ctx, []string{"-top", "60"})

			convey.Convey("Then file, env and flags layer in order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.ScoreGlob, convey.ShouldEqual, "scores/*.txt")
				convey.So(cfg.Dock, convey.ShouldEqual, "sch")
				convey.So(cfg.Top, convey.ShouldEqual, 60)
				convey.So(cfg.Multiplier, convey.ShouldEqual, 6)
				convey.So(cfg.UpperBound(), convey.ShouldEqual, -12.5)
				convey.So(cfg.LowerBound(), convey.ShouldEqual, 0.0)
				convey.So(cfg.Exclude, convey.ShouldEqual, "C(=O)[O-]")
			})
		})

		convey.Convey("When the config flag names the file", func() {
			tmpFile := createTempConfigFile("score: a\nsdf: b\ntop: 1\ndock: fred\noutpref: p\n")
			defer func() { _ = os.Remove(tmpFile) }()

			cfg, err := config.Load(ctx, []string{"-config", tmpFile})

			convey.Convey("Then the file is read", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Prefix, convey.ShouldEqual, "p")
			})
		})

		convey.Convey("When the YAML file is invalid", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("DOCKRANK_CONFIG", tmpFile)

			cfg, err := config.Load(ctx, requiredArgs)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("DOCKRANK_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx, requiredArgs)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When both filters are given", func() {
			args := append(append([]string{}, requiredArgs...), "-exclude", "C", "-select", "N")
			cfg, err := config.Load(ctx, args)

			convey.Convey("Then the run is rejected", func() {
				convey.So(errors.Is(err, config.ErrConflictingFilters), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When required flags are missing", func() {
			cfg, err := config.Load(ctx, []string{"-top", "5"})

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a flag value is malformed", func() {
			_, err := config.Load(ctx, []string{"-top", "many"})
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When an env value is malformed", func() {
			_ = os.Setenv("DOCKRANK_COLL", "not_a_number")
			_, err := config.Load(ctx, requiredArgs)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When help is requested", func() {
			_, err := config.Load(ctx, []string{"-help"})
			convey.So(errors.Is(err, config.ErrHelp), convey.ShouldBeTrue)
		})

		convey.Convey("When positional arguments are given", func() {
			_, err := config.Load(ctx, append(append([]string{}, requiredArgs...), "extra"))
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func TestUsage(t *testing.T) {
	convey.Convey("Given the usage printer", t, func() {
		var buf bytes.Buffer
		config.Usage(&buf)
		convey.So(buf.String(), convey.ShouldContainSubstring, "-outpref")
		convey.So(buf.String(), convey.ShouldContainSubstring, "smt-clean")
	})
}

// Helper functions.

func clearConfigEnvVars() {
	for _, envVar := range []string{
		"DOCKRANK_CONFIG",
		"DOCKRANK_COLL",
		"DOCKRANK_SCAN_WORKERS",
		"DOCKRANK_TOP",
	} {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "dockrank-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
