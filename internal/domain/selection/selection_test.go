package selection_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/okian/dockrank/internal/domain/chem"
	"github.com/okian/dockrank/internal/domain/model"
	"github.com/okian/dockrank/internal/domain/ranking"
	"github.com/okian/dockrank/internal/domain/selection"
	"github.com/okian/dockrank/internal/domain/substructure"
	"github.com/okian/dockrank/internal/fixtures"
	"github.com/okian/dockrank/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// record parses one fixture molecule into a Record.
func record(m *fixtures.Mol) *chem.Record {
	rec, err := chem.NewReader(strings.NewReader(m.String())).Next()
	if err != nil {
		panic(err)
	}
	return rec
}

func names(items []selection.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Record.Name())
	}
	return out
}

func TestNewPolicy(t *testing.T) {
	convey.Convey("Given pattern strings", t, func() {
		convey.Convey("When none is set", func() {
			p, err := selection.NewPolicy("", "")
			convey.So(err, convey.ShouldBeNil)
			convey.So(p.Kind(), convey.ShouldEqual, selection.KindPlain)
			convey.So(p.Patterns(), convey.ShouldBeNil)
		})

		convey.Convey("When exclude is set", func() {
			p, err := selection.NewPolicy(fixtures.AnionPatterns, "")
			convey.So(err, convey.ShouldBeNil)
			convey.So(p.Kind(), convey.ShouldEqual, selection.KindExclude)
			convey.So(p.Patterns().Len(), convey.ShouldEqual, 3)
			convey.So(p.Kind().String(), convey.ShouldEqual, "exclude")
		})

		convey.Convey("When select is set", func() {
			p, err := selection.NewPolicy("", "c1ccccc1")
			convey.So(err, convey.ShouldBeNil)
			convey.So(p.Kind(), convey.ShouldEqual, selection.KindSelect)
		})

		convey.Convey("When both are set", func() {
			_, err := selection.NewPolicy("C", "N")
			convey.So(errors.Is(err, selection.ErrConflictingPolicies), convey.ShouldBeTrue)
		})

		convey.Convey("When a pattern is malformed", func() {
			_, err := selection.NewPolicy("C(=O", "")
			convey.So(errors.Is(err, substructure.ErrMalformedPattern), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldStartWith, "exclude")

			_, err = selection.NewPolicy("", "[C")
			convey.So(errors.Is(err, substructure.ErrMalformedPattern), convey.ShouldBeTrue)
		})
	})
}

func TestAssemblePlain(t *testing.T) {
	convey.Convey("Given the population A=-5.0, B=-9.0, C=-7.0", t, func() {
		ctx := context.Background()
		pop := ranking.Merge([]model.ScoreRecord{
			{Name: "A", Score: -5.0}, {Name: "B", Score: -9.0}, {Name: "C", Score: -7.0},
		})
		head := pop.Head(ranking.Headroom(2, 2, pop.Len()))
		lookup := map[string]*chem.Record{
			"A": record(fixtures.Ethanol("A")),
			"B": record(fixtures.Benzene("B")),
			"C": record(fixtures.Acetate("C")),
		}

		convey.Convey("When top is 2 with the plain policy", func() {
			a := selection.NewAssembler(selection.Plain(), 2, "fred")
			b, err := a.Assemble(ctx, head, lookup)

			convey.Convey("Then B and A are labelled in rank order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(names(b.Primary), convey.ShouldResemble, []string{"B::1::-9.0::fred", "C::2::-7.0::fred"})
				convey.So(b.Filled, convey.ShouldBeTrue)
				convey.So(b.LookedThrough, convey.ShouldEqual, 2)
				convey.So(b.Diverted, convey.ShouldBeEmpty)
				convey.So(b.Kind, convey.ShouldEqual, selection.KindPlain)
			})

			convey.Convey("Then the lookup records keep their names", func() {
				convey.So(lookup["B"].Name(), convey.ShouldEqual, "B")
			})
		})

		convey.Convey("When a ranked name is missing from the lookup", func() {
			delete(lookup, "B")
			a := selection.NewAssembler(selection.Plain(), 2, "fred")
			b, err := a.Assemble(ctx, head, lookup)

			convey.Convey("Then it is skipped and reported", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(b.Missing, convey.ShouldResemble, []string{"B"})
				convey.So(names(b.Primary), convey.ShouldResemble, []string{"C::2::-7.0::fred"})
				convey.So(b.Filled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the ranked name carries a conformer suffix", func() {
			entries := []model.Entry{{Rank: 1, Name: "B_2", Score: -9}}
			plain, _ := selection.NewAssembler(selection.Plain(), 1, "fred").Assemble(ctx, entries, lookup)
			set, _ := substructure.ParsePatternSet("c1ccccc1")
			sel, _ := selection.NewAssembler(selection.Select(set), 1, "fred").Assemble(ctx, entries, lookup)

			convey.Convey("Then only the filtering policies strip it", func() {
				convey.So(plain.Missing, convey.ShouldResemble, []string{"B_2"})
				convey.So(names(sel.Primary), convey.ShouldResemble, []string{"B::1::-9.0::fred"})
			})
		})

		convey.Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := selection.NewAssembler(selection.Plain(), 2, "fred").Assemble(cctx, head, lookup)
			convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
		})
	})
}

// catalogRun ranks one record per catalog template, best score first.
func catalogRun() ([]model.Entry, map[string]*chem.Record) {
	entries := make([]model.Entry, 0, len(fixtures.Catalog))
	lookup := make(map[string]*chem.Record, len(fixtures.Catalog))
	for i, tpl := range fixtures.Catalog {
		entries = append(entries, model.Entry{Rank: i + 1, Name: tpl.Name + "_1", Score: -12 + float64(i)})
		lookup[tpl.Name] = record(tpl.Build(tpl.Name))
	}
	return entries, lookup
}

func TestAssembleExclude(t *testing.T) {
	convey.Convey("Given a ranked catalog and the anion set", t, func() {
		ctx := context.Background()
		entries, lookup := catalogRun()
		set, err := substructure.ParsePatternSet(fixtures.AnionPatterns)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When excluding with room for everything", func() {
			b, err := selection.NewAssembler(selection.Exclude(set), 100, "sch").Assemble(ctx, entries, lookup)

			convey.Convey("Then anions are diverted and the rest kept in order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(b.Filled, convey.ShouldBeFalse)
				convey.So(b.LookedThrough, convey.ShouldEqual, len(entries))
				var kept, excluded []string
				for _, tpl := range fixtures.Catalog {
					if tpl.Anion {
						excluded = append(excluded, tpl.Name)
					} else {
						kept = append(kept, tpl.Name)
					}
				}
				got := func(items []selection.Item) []string {
					out := []string{}
					for _, it := range items {
						out = append(out, it.Name)
					}
					return out
				}
				convey.So(got(b.Primary), convey.ShouldResemble, kept)
				convey.So(got(b.Diverted), convey.ShouldResemble, excluded)
				for _, it := range b.Diverted {
					convey.So(it.Pattern, convey.ShouldBeGreaterThanOrEqualTo, 0)
				}
				for _, it := range b.Primary {
					convey.So(it.Pattern, convey.ShouldEqual, -1)
				}
			})
		})

		convey.Convey("When the top is small", func() {
			b, err := selection.NewAssembler(selection.Exclude(set), 2, "sch").Assemble(ctx, entries, lookup)

			convey.Convey("Then the walk stops once two clean records are kept", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(names(b.Primary), convey.ShouldResemble, []string{"benzene::1::-12.0::sch", "ethanol::3::-10.0::sch"})
				convey.So(names(b.Diverted), convey.ShouldResemble, []string{"acetate::2::-11.0::sch"})
				convey.So(b.Filled, convey.ShouldBeTrue)
				convey.So(b.LookedThrough, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When no pattern matches anything", func() {
			none, _ := substructure.ParsePatternSet("[Br]|[I]")
			b, err := selection.NewAssembler(selection.Exclude(none), 5, "sch").Assemble(ctx, entries, lookup)

			convey.Convey("Then the top records are kept unchanged", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(b.Diverted, convey.ShouldBeEmpty)
				convey.So(len(b.Primary), convey.ShouldEqual, 5)
				convey.So(b.Primary[0].Record.Name(), convey.ShouldEqual, "benzene::1::-12.0::sch")
			})
		})
	})
}

func TestAssembleSelect(t *testing.T) {
	convey.Convey("Given a ranked catalog and an aromatic pattern", t, func() {
		ctx := context.Background()
		entries, lookup := catalogRun()
		set, err := substructure.ParsePatternSet("a")
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When selecting three", func() {
			b, err := selection.NewAssembler(selection.Select(set), 3, "fred").Assemble(ctx, entries, lookup)

			convey.Convey("Then the first three aromatic records are kept", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(names(b.Primary), convey.ShouldResemble, []string{
					"benzene::1::-12.0::fred",
					"pyridine::4::-9.0::fred",
					"naphthalene::7::-6.0::fred",
				})
				convey.So(len(b.Diverted), convey.ShouldEqual, 4)
				convey.So(b.Filled, convey.ShouldBeTrue)
				convey.So(b.LookedThrough, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When the requested count cannot be filled", func() {
			b, err := selection.NewAssembler(selection.Select(set), 50, "fred").Assemble(ctx, entries, lookup)

			convey.Convey("Then the whole list is drained without error", func() {
				convey.So(err, convey.ShouldBeNil)
				aromatic := 0
				for _, tpl := range fixtures.Catalog {
					if tpl.Aromatic {
						aromatic++
					}
				}
				convey.So(len(b.Primary), convey.ShouldEqual, aromatic)
				convey.So(len(b.Primary)+len(b.Diverted), convey.ShouldEqual, len(entries))
				convey.So(b.Filled, convey.ShouldBeFalse)
				convey.So(b.LookedThrough, convey.ShouldEqual, len(entries))
			})
		})

		convey.Convey("When ranks are checked", func() {
			b, _ := selection.NewAssembler(selection.Select(set), 50, "fred").Assemble(ctx, entries, lookup)

			convey.Convey("Then output ranks are strictly increasing", func() {
				for i := 1; i < len(b.Primary); i++ {
					convey.So(b.Primary[i].Entry.Rank, convey.ShouldBeGreaterThan, b.Primary[i-1].Entry.Rank)
				}
			})
		})
	})
}

func TestPolicyKey(t *testing.T) {
	convey.Convey("Given each policy", t, func() {
		set, _ := substructure.ParsePatternSet("C")
		convey.So(selection.Plain().Key("Z1_2"), convey.ShouldEqual, "Z1_2")
		convey.So(selection.Exclude(set).Key("Z1_2"), convey.ShouldEqual, "Z1")
		convey.So(selection.Select(set).Key("Z1"), convey.ShouldEqual, "Z1")
	})
}

func TestAssembleTopTwo(t *testing.T) {
	convey.Convey("Given A=-5.0, B=-9.0, C=-3.0 with every record found", t, func() {
		pop := ranking.Merge([]model.ScoreRecord{
			{Name: "A", Score: -5.0}, {Name: "B", Score: -9.0}, {Name: "C", Score: -3.0},
		})
		lookup := map[string]*chem.Record{
			"A": record(fixtures.Ethanol("A")),
			"B": record(fixtures.Ethanol("B")),
			"C": record(fixtures.Ethanol("C")),
		}

		convey.Convey("When two are requested", func() {
			head := pop.Head(ranking.Headroom(2, ranking.DefaultMultiplier, pop.Len()))
			b, err := selection.NewAssembler(selection.Plain(), 2, "fred").Assemble(context.Background(), head, lookup)

			convey.Convey("Then B is rank 1 and A rank 2", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(names(b.Primary), convey.ShouldResemble, []string{"B::1::-9.0::fred", "A::2::-5.0::fred"})
			})
		})
	})
}
