package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it should own a private registry", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Registry(), ShouldNotBeNil)
				So(manager.Registry(), ShouldNotEqual, GetRegistry())
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithHistogramBuckets([]float64{0.1, 1}),
				WithConstLabels(map[string]string{"dock": "fred"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it registers into the given registry", func() {
				manager.populationSize.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				So(families[0].GetName(), ShouldStartWith, "dockrank_run_")
				So(families[0].GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "fred")
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the package-level recorders", t, func() {
		Convey("When recording score ingestion", func() {
			before := testutil.ToFloat64(current().scoreRowsDropped)
			AddScoreRows(10, 2)
			RecordScoreFileRead()
			RecordScoreFileFailed()

			Convey("Then the counters advance", func() {
				So(testutil.ToFloat64(current().scoreRowsDropped), ShouldEqual, before+2)
			})
		})

		Convey("When recording scanning and assembly", func() {
			So(func() {
				RecordStructureFileScanned()
				RecordStructureFileFailed()
				AddStructureRecords(100, 1, 5)
				UpdateLookupSize(5)
				RecordLookupMiss()
				RecordEmitted("kept")
				RecordPatternMatch("C(=O)[O-]")
				ObserveStage(StageScan, 2*time.Second)
				RecordWorkerError("scan")
				UpdateHeapBytes(1 << 20)
				UpdatePopulationSize(3)
				UpdateHeadroomCount(2)
			}, ShouldNotPanic)

			Convey("Then labelled counters are tracked per label", func() {
				So(testutil.ToFloat64(current().recordsEmitted.WithLabelValues("kept")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})
	})
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given a populated registry", t, func() {
		UpdatePopulationSize(42)
		path := filepath.Join(t.TempDir(), "run.prom")

		Convey("When exporting to a textfile", func() {
			err := WriteTextfile(path)

			Convey("Then the file holds the exposition text", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "dockrank_run_population_size 42")
			})
		})

		Convey("When the target directory does not exist", func() {
			err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "run.prom"))

			Convey("Then an export error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestInitWithDockLabel(t *testing.T) {
	Convey("Given a manager initialised for one docking tool", t, func() {
		Init(WithConstLabels(map[string]string{"dock": "fred"}))
		defer Init()
		UpdatePopulationSize(7)
		path := filepath.Join(t.TempDir(), "run.prom")

		Convey("When exporting to a textfile", func() {
			So(WriteTextfile(path), ShouldBeNil)

			Convey("Then every series carries the label", func() {
				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `dockrank_run_population_size{dock="fred"} 7`)
			})
		})
	})
}
