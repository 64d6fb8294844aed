package model_test

import (
	"math"
	"testing"

	model "github.com/okian/dockrank/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestScoreRecord(t *testing.T) {
	convey.Convey("Given score records", t, func() {
		convey.So(model.ScoreRecord{Name: "A", Score: -5}.Valid(), convey.ShouldBeTrue)
		convey.So(model.ScoreRecord{Name: "", Score: -5}.Valid(), convey.ShouldBeFalse)
		convey.So(model.ScoreRecord{Name: "A", Score: math.NaN()}.Valid(), convey.ShouldBeFalse)
		convey.So(model.ScoreRecord{Name: "A", Score: math.Inf(-1)}.Valid(), convey.ShouldBeFalse)
	})
}

func TestLabel(t *testing.T) {
	convey.Convey("Given a ranked molecule", t, func() {
		convey.Convey("The label carries name, rank, one-decimal score and tool", func() {
			convey.So(model.Label("ZINC01", 1, -9.04, "fred"), convey.ShouldEqual, "ZINC01::1::-9.0::fred")
			convey.So(model.Label("ZINC02", 12, -7.25, "sch"), convey.ShouldEqual, "ZINC02::12::-7.2::sch")
		})

		convey.Convey("A label strips back to the name", func() {
			convey.So(model.StripLabel("ZINC01::1::-9.0::fred"), convey.ShouldEqual, "ZINC01")
			convey.So(model.StripLabel("ZINC01"), convey.ShouldEqual, "ZINC01")
		})

		convey.Convey("Conformer suffixes strip at the first underscore", func() {
			convey.So(model.StripConformer("ZINC01_3"), convey.ShouldEqual, "ZINC01")
			convey.So(model.StripConformer("ZINC01_3_b"), convey.ShouldEqual, "ZINC01")
			convey.So(model.StripConformer("ZINC01"), convey.ShouldEqual, "ZINC01")
		})
	})
}

func TestFormatScore(t *testing.T) {
	convey.Convey("Given scores", t, func() {
		convey.So(model.FormatScore(-9), convey.ShouldEqual, "-9.0")
		convey.So(model.FormatScore(-7.25), convey.ShouldEqual, "-7.25")
		convey.So(model.FormatScore(0), convey.ShouldEqual, "0.0")
		convey.So(model.FormatScore(-12.3456), convey.ShouldEqual, "-12.3456")
	})
}
