package scoretable_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/dockrank/internal/adapters/scoretable"
	"github.com/okian/dockrank/internal/adapters/stream"
	"github.com/okian/dockrank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func parse(r *scoretable.Reader, text string) (scoretable.Table, error) {
	return r.Parse(context.Background(), strings.NewReader(text))
}

func TestParse(t *testing.T) {
	Convey("Given a score table with a header and comments", t, func() {
		text := `# FRED scores
Name      Score
ZINC01    -9.50
ZINC02    -7.10   # inline comment

ZINC03    n/a
ZINC04
ZINC05    -8.00
`
		tbl, err := parse(scoretable.NewReader(), text)

		Convey("Then valid rows are kept in file order", func() {
			So(err, ShouldBeNil)
			So(tbl.Records, ShouldResemble, []model.ScoreRecord{
				{Name: "ZINC01", Score: -9.5},
				{Name: "ZINC02", Score: -7.1},
				{Name: "ZINC05", Score: -8.0},
			})
		})

		Convey("And malformed rows are counted", func() {
			So(tbl.Dropped, ShouldEqual, 2)
		})
	})

	Convey("Given a table whose score column comes first", t, func() {
		tbl, err := parse(scoretable.NewReader(), "Chemgauss4 Title\n-11.2 ZINC9\n-3.0 ZINC8\n")

		Convey("Then columns are resolved from the header", func() {
			So(err, ShouldBeNil)
			So(tbl.Records, ShouldResemble, []model.ScoreRecord{
				{Name: "ZINC9", Score: -11.2},
				{Name: "ZINC8", Score: -3.0},
			})
		})
	})

	Convey("Given a table without a header", t, func() {
		tbl, err := parse(scoretable.NewReader(), "A -5.0\nB -9.0\nC -3.0\n")

		Convey("Then the first row is data", func() {
			So(err, ShouldBeNil)
			So(len(tbl.Records), ShouldEqual, 3)
			So(tbl.Records[1], ShouldResemble, model.ScoreRecord{Name: "B", Score: -9.0})
		})

		Convey("And named columns cannot be selected", func() {
			_, err := parse(scoretable.NewReader(scoretable.WithScoreColumn("Score")), "A -5.0\n")
			So(errors.Is(err, scoretable.ErrNoHeader), ShouldBeTrue)
		})
	})

	Convey("Given a multi-column table and explicit column names", t, func() {
		text := "id smiles r_i_glide_gscore r_i_docking_score\nm1 CCO -6.1 -6.4\nm2 CCN -7.9 -8.3\n"
		r := scoretable.NewReader(scoretable.WithNameColumn("ID"), scoretable.WithScoreColumn("r_i_glide_gscore"))
		tbl, err := parse(r, text)

		Convey("Then the configured columns are used", func() {
			So(err, ShouldBeNil)
			So(tbl.Records, ShouldResemble, []model.ScoreRecord{
				{Name: "m1", Score: -6.1},
				{Name: "m2", Score: -7.9},
			})
		})

		Convey("And an unknown column is an error", func() {
			_, err := parse(scoretable.NewReader(scoretable.WithScoreColumn("nope")), text)
			So(errors.Is(err, scoretable.ErrNoColumn), ShouldBeTrue)
		})

		Convey("And the docking_score column is found by default", func() {
			tbl, err := parse(scoretable.NewReader(), text)
			So(err, ShouldBeNil)
			So(tbl.Records[0], ShouldResemble, model.ScoreRecord{Name: "m1", Score: -6.4})
		})
	})
}

func TestRead(t *testing.T) {
	Convey("Given score files on disk", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "a_score.txt")
		So(os.WriteFile(path, []byte("Name Score\nA -5.0\nB -9.0\n"), 0o600), ShouldBeNil)
		r := scoretable.NewReader(scoretable.WithOpener(stream.FileOpener{}))

		Convey("When reading an existing file", func() {
			tbl, err := r.Read(context.Background(), path)

			Convey("Then the table carries its path", func() {
				So(err, ShouldBeNil)
				So(tbl.Path, ShouldEqual, path)
				So(len(tbl.Records), ShouldEqual, 2)
			})
		})

		Convey("When reading a missing file", func() {
			_, err := r.Read(context.Background(), filepath.Join(dir, "missing.txt"))

			Convey("Then the open error surfaces", func() {
				So(errors.Is(err, stream.ErrOpen), ShouldBeTrue)
			})
		})
	})
}
