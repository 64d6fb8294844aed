package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	convey.Convey("Given an initialized logger", t, func() {
		convey.So(Init(), convey.ShouldBeNil)
		convey.So(Get(), convey.ShouldNotBeNil)

		convey.Convey("A nil writer is rejected", func() {
			convey.So(InitWithWriter(nil), convey.ShouldNotBeNil)
		})
	})
}

func TestLoggerWritesFields(t *testing.T) {
	convey.Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		convey.So(InitWithWriter(&buf), convey.ShouldBeNil)
		defer func() { _ = Init() }()

		ctx := context.Background()

		convey.Convey("Info records carry fields and source", func() {
			Get().Info(ctx, "score table read", String("file", "a.txt"), Int("rows", 3))
			out := buf.String()
			convey.So(out, convey.ShouldContainSubstring, "score table read")
			convey.So(out, convey.ShouldContainSubstring, "file=a.txt")
			convey.So(out, convey.ShouldContainSubstring, "rows=3")
			convey.So(out, convey.ShouldContainSubstring, "source=")
		})

		convey.Convey("Named and With loggers keep their context", func() {
			l := Named("scanner").With(String("run_id", "r1"))
			l.Warn(ctx, "record failed", Error(errors.New("bad valence")))
			out := buf.String()
			convey.So(out, convey.ShouldContainSubstring, "component=scanner")
			convey.So(out, convey.ShouldContainSubstring, "run_id=r1")
			convey.So(out, convey.ShouldContainSubstring, "bad valence")
		})

		convey.Convey("Debug is suppressed at info level", func() {
			Get().Debug(ctx, "hidden")
			convey.So(buf.String(), convey.ShouldNotContainSubstring, "hidden")

			convey.So(SetLevelString("debug"), convey.ShouldBeNil)
			Get().Debug(ctx, "shown")
			convey.So(buf.String(), convey.ShouldContainSubstring, "shown")
		})
	})
}

func TestSetLevelString(t *testing.T) {
	convey.Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "info", "", "warn", "warning", "error", " INFO "} {
			convey.So(SetLevelString(lvl), convey.ShouldBeNil)
		}
		convey.So(SetLevelString("loud"), convey.ShouldNotBeNil)
		_ = SetLevelString("info")
	})
}
