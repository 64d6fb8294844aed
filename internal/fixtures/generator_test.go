package fixtures_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/okian/dockrank/internal/adapters/scoretable"
	"github.com/okian/dockrank/internal/adapters/stream"
	"github.com/okian/dockrank/internal/domain/chem"
	"github.com/okian/dockrank/internal/fixtures"
	"github.com/okian/dockrank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// countRecords returns parsed and failed record counts of an SD file.
func countRecords(path string) (ok, failed int) {
	rc, err := stream.Open(path)
	if err != nil {
		panic(err)
	}
	defer func() { _ = rc.Close() }()
	r := chem.NewReader(rc)
	for {
		_, err := r.Next()
		var perr *chem.ParseError
		switch {
		case errors.Is(err, io.EOF):
			return ok, failed
		case errors.As(err, &perr):
			failed++
		case err != nil:
			panic(err)
		default:
			ok++
		}
	}
}

func TestGenerate(t *testing.T) {
	Convey("Given the default fixture config", t, func() {
		ctx := context.Background()
		cfg := fixtures.DefaultConfig(t.TempDir())

		Convey("When generating", func() {
			ds, err := fixtures.Generate(ctx, cfg)

			Convey("Then every molecule lands in one score table and one SD file", func() {
				So(err, ShouldBeNil)
				So(ds.ScoreFiles, ShouldHaveLength, cfg.ScoreFiles)
				So(ds.StructureFiles, ShouldHaveLength, cfg.StructureFiles)
				So(ds.Names, ShouldHaveLength, cfg.Molecules)
				So(ds.Names[0], ShouldEqual, "ZINC0000001")

				reader := scoretable.NewReader()
				rows := 0
				for _, path := range ds.ScoreFiles {
					table, err := reader.Read(ctx, path)
					So(err, ShouldBeNil)
					So(table.Dropped, ShouldEqual, 0)
					for _, r := range table.Records {
						So(r.Score, ShouldEqual, ds.Scores[r.Name])
					}
					rows += len(table.Records)
				}
				So(rows, ShouldEqual, cfg.Molecules)

				records := 0
				for _, path := range ds.StructureFiles {
					ok, failed := countRecords(path)
					So(failed, ShouldEqual, 0)
					records += ok
				}
				So(records, ShouldEqual, cfg.Molecules)
			})

			Convey("Then Ranked is ascending by score", func() {
				ranked := ds.Ranked()
				So(ranked, ShouldHaveLength, cfg.Molecules)
				for i := 1; i < len(ranked); i++ {
					So(ds.Scores[ranked[i]], ShouldBeGreaterThanOrEqualTo, ds.Scores[ranked[i-1]])
				}
			})
		})

		Convey("When generating compressed and malformed files", func() {
			cfg.ScoreExt = ".txt.gz"
			cfg.StructureExt = ".sdf.zst"
			cfg.Malformed = true
			cfg.Header = false
			ds, err := fixtures.Generate(ctx, cfg)

			Convey("Then each file carries one bad row or record", func() {
				So(err, ShouldBeNil)
				table, err := scoretable.NewReader().Read(ctx, ds.ScoreFiles[0])
				So(err, ShouldBeNil)
				So(table.Dropped, ShouldEqual, 1)

				ok, failed := countRecords(ds.StructureFiles[0])
				So(failed, ShouldEqual, 1)
				So(ok, ShouldEqual, cfg.Molecules/cfg.StructureFiles)
			})
		})

		Convey("When the same seed is used twice", func() {
			a, errA := fixtures.Generate(ctx, cfg)
			cfg.Dir = t.TempDir()
			b, errB := fixtures.Generate(ctx, cfg)

			Convey("Then the scores repeat", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a.Scores, ShouldResemble, b.Scores)
			})
		})

		Convey("When the config is impossible", func() {
			cfg.Molecules = 0
			_, err := fixtures.Generate(ctx, cfg)
			So(errors.Is(err, fixtures.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When the directory does not exist", func() {
			cfg.Dir = cfg.Dir + "/missing"
			_, err := fixtures.Generate(ctx, cfg)
			So(errors.Is(err, stream.ErrCreate), ShouldBeTrue)
		})
	})
}
