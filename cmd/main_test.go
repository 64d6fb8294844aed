package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/dockrank/internal/fixtures"
	"github.com/okian/dockrank/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestRun(t *testing.T) {
	convey.Convey("Given the command line entry point", t, func() {
		ctx := context.Background()
		var stdout, stderr bytes.Buffer

		convey.Convey("When help is requested", func() {
			code := run(ctx, []string{"-help"}, &stdout, &stderr)

			convey.Convey("Then usage is printed and the exit is clean", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stdout.String(), convey.ShouldContainSubstring, "-outpref")
				convey.So(stderr.Len(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When required flags are missing", func() {
			code := run(ctx, []string{"-top", "5"}, &stdout, &stderr)

			convey.Convey("Then the error and usage go to stderr", func() {
				convey.So(code, convey.ShouldEqual, exitFailed)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "ERROR")
				convey.So(stderr.String(), convey.ShouldContainSubstring, "-score")
			})
		})

		convey.Convey("When a generated run is given", func() {
			in, out := t.TempDir(), t.TempDir()
			_, err := fixtures.Generate(ctx, fixtures.DefaultConfig(in))
			convey.So(err, convey.ShouldBeNil)
			args := []string{
				"-score", filepath.Join(in, "*_score.txt"),
				"-sdf", filepath.Join(in, "*.sdf"),
				"-top", "5",
				"-dock", "sch",
				"-outpref", filepath.Join(out, "ksr"),
				"-exclude", fixtures.AnionPatterns,
				"-progress=false",
			}

			convey.Convey("Then the outputs are written", func() {
				convey.So(run(ctx, args, &stdout, &stderr), convey.ShouldEqual, exitOK)
				for _, name := range []string{
					"ksr.sch_top5.smt-clean.sdf",
					"ksr.sch_top5.smt-clean.txt",
					"ksr.sch_top5.smt-excl.sdf",
					"ksr.sch_top5.histo.png",
				} {
					_, statErr := os.Stat(filepath.Join(out, name))
					convey.So(statErr, convey.ShouldBeNil)
				}
			})
		})

		convey.Convey("When the pattern is malformed", func() {
			in := t.TempDir()
			_, err := fixtures.Generate(ctx, fixtures.DefaultConfig(in))
			convey.So(err, convey.ShouldBeNil)
			args := []string{
				"-score", filepath.Join(in, "*_score.txt"),
				"-sdf", filepath.Join(in, "*.sdf"),
				"-top", "5", "-dock", "fred",
				"-outpref", filepath.Join(in, "bad"),
				"-select", "[C",
			}

			convey.Convey("Then the run fails with usage", func() {
				convey.So(run(ctx, args, &stdout, &stderr), convey.ShouldEqual, exitFailed)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "select")
				_, statErr := os.Stat(filepath.Join(in, "bad.fred_top5.histo.png"))
				convey.So(os.IsNotExist(statErr), convey.ShouldBeTrue)
			})
		})
	})
}
