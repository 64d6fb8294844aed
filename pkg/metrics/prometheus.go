// Package metrics provides Prometheus metrics for a dockrank run.
package metrics

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stage names used as the "stage" label of the duration histogram.
const (
	StageScoreIngest = "score_ingest"
	StageHistogram   = "histogram"
	StageScan        = "structure_scan"
	StageAssemble    = "assemble"
	StageWrite       = "write"
)

// Manager owns every metric of a run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Score ingestion
	scoreFilesRead   prometheus.Counter
	scoreFilesFailed prometheus.Counter
	scoreRowsParsed  prometheus.Counter
	scoreRowsDropped prometheus.Counter
	populationSize   prometheus.Gauge
	headroomCount    prometheus.Gauge

	// Structure scanning
	structureFilesScanned  prometheus.Counter
	structureFilesFailed   prometheus.Counter
	structureRecordsRead   prometheus.Counter
	structureRecordsFailed prometheus.Counter
	structureRecordsKept   prometheus.Counter
	lookupSize             prometheus.Gauge

	// Assembly
	lookupMisses   prometheus.Counter
	recordsEmitted *prometheus.CounterVec
	patternMatches *prometheus.CounterVec

	// Run
	stageDuration *prometheus.HistogramVec
	workerErrors  *prometheus.CounterVec
	heapBytes     prometheus.Gauge
}

// Global metrics manager instance.
var globalManager atomic.Pointer[Manager] //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	Init()
}

// Init replaces the package-level manager with a fresh one built from opts.
// Each manager owns a private registry, so counters restart from zero.
func Init(opts ...Option) {
	globalManager.Store(NewManager(opts...))
}

func current() *Manager { return globalManager.Load() }

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "dockrank",
		subsystem:        "run",
		histogramBuckets: []float64{0.01, 0.05, 0.25, 1, 5, 15, 60, 300, 1200},
		constLabels:      map[string]string{},
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	m.scoreFilesRead = m.counter("score_files_read_total", "Score tables parsed successfully")
	m.scoreFilesFailed = m.counter("score_files_failed_total", "Score tables that could not be opened or parsed")
	m.scoreRowsParsed = m.counter("score_rows_parsed_total", "Score rows with a name and a numeric score")
	m.scoreRowsDropped = m.counter("score_rows_dropped_total", "Malformed score rows dropped during ingestion")
	m.populationSize = m.gauge("population_size", "Number of entries in the ranked population")
	m.headroomCount = m.gauge("headroom_count", "Number of top-ranked names looked up in structure files")

	m.structureFilesScanned = m.counter("structure_files_scanned_total", "Structure files scanned to completion")
	m.structureFilesFailed = m.counter("structure_files_failed_total", "Structure files that could not be opened")
	m.structureRecordsRead = m.counter("structure_records_read_total", "Structure records parsed")
	m.structureRecordsFailed = m.counter("structure_records_failed_total", "Structure records that failed to parse or sanitize")
	m.structureRecordsKept = m.counter("structure_records_kept_total", "Structure records whose name is in the target set")
	m.lookupSize = m.gauge("lookup_size", "Entries in the merged structure lookup")

	m.lookupMisses = m.counter("lookup_misses_total", "Ranked names absent from the structure lookup")
	m.recordsEmitted = m.counterVec("records_emitted_total", "Records placed into an output bucket", "bucket")
	m.patternMatches = m.counterVec("pattern_matches_total", "Records matched per substructure pattern", "pattern")

	m.stageDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_seconds",
		Help:        "Wall time spent per pipeline stage",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"stage"})
	m.workerErrors = m.counterVec("worker_errors_total", "Worker task failures by pool", "pool")
	m.heapBytes = m.gauge("heap_alloc_bytes", "Heap bytes in use after the latest structure file")
}

// Registry returns the registry this manager registers into.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every metric of the manager to path in the text exposition format.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrExportFailed, path, err)
	}
	return nil
}

// Score ingestion.

// RecordScoreFileRead counts one parsed score table.
func RecordScoreFileRead() { current().scoreFilesRead.Inc() }

// RecordScoreFileFailed counts one score table that could not be read.
func RecordScoreFileFailed() { current().scoreFilesFailed.Inc() }

// AddScoreRows records parsed and dropped row counts of one table.
func AddScoreRows(parsed, dropped int) {
	current().scoreRowsParsed.Add(float64(parsed))
	current().scoreRowsDropped.Add(float64(dropped))
}

// UpdatePopulationSize sets the ranked population size.
func UpdatePopulationSize(n int) { current().populationSize.Set(float64(n)) }

// UpdateHeadroomCount sets the lookup target count.
func UpdateHeadroomCount(n int) { current().headroomCount.Set(float64(n)) }

// Structure scanning.

// RecordStructureFileScanned counts one fully scanned structure file.
func RecordStructureFileScanned() { current().structureFilesScanned.Inc() }

// RecordStructureFileFailed counts one structure file that could not be opened.
func RecordStructureFileFailed() { current().structureFilesFailed.Inc() }

// AddStructureRecords records per-file record counts.
func AddStructureRecords(read, failed, kept int) {
	current().structureRecordsRead.Add(float64(read))
	current().structureRecordsFailed.Add(float64(failed))
	current().structureRecordsKept.Add(float64(kept))
}

// UpdateLookupSize sets the merged lookup size.
func UpdateLookupSize(n int) { current().lookupSize.Set(float64(n)) }

// Assembly.

// RecordLookupMiss counts one ranked name missing from the lookup.
func RecordLookupMiss() { current().lookupMisses.Inc() }

// RecordEmitted counts one record placed into bucket.
func RecordEmitted(bucket string) { current().recordsEmitted.WithLabelValues(bucket).Inc() }

// RecordPatternMatch counts one record matched by pattern.
func RecordPatternMatch(pattern string) { current().patternMatches.WithLabelValues(pattern).Inc() }

// Run.

// ObserveStage records the duration of a pipeline stage.
func ObserveStage(stage string, d time.Duration) {
	current().stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordWorkerError counts one failed task in the named pool.
func RecordWorkerError(pool string) { current().workerErrors.WithLabelValues(pool).Inc() }

// UpdateHeapBytes sets the current heap allocation.
func UpdateHeapBytes(bytes uint64) { current().heapBytes.Set(float64(bytes)) }

// GetRegistry returns the registry used by the package-level recorders.
func GetRegistry() *prometheus.Registry {
	return current().registry
}

// WriteTextfile exports the package-level registry to path.
func WriteTextfile(path string) error {
	return current().WriteTextfile(path)
}
