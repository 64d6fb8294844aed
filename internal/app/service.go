// Package service runs one ranking job: it ingests score tables, plots the
// score distribution, scans structure files for the top-ranked names and
// writes the selected records.
package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/okian/dockrank/internal/adapters/output"
	"github.com/okian/dockrank/internal/adapters/report"
	"github.com/okian/dockrank/internal/adapters/scoretable"
	"github.com/okian/dockrank/internal/adapters/sdfscan"
	"github.com/okian/dockrank/internal/adapters/stream"
	"github.com/okian/dockrank/internal/adapters/worker"
	"github.com/okian/dockrank/internal/config"
	"github.com/okian/dockrank/internal/domain/model"
	"github.com/okian/dockrank/internal/domain/ranking"
	"github.com/okian/dockrank/internal/domain/selection"
	"github.com/okian/dockrank/pkg/logger"
	"github.com/okian/dockrank/pkg/metrics"
)

// File suffixes of the report images.
const (
	HistogramSuffix = ".histo.png"
	GridSuffix      = ".grid.png"
)

// Summary describes a finished run.
type Summary struct {
	RunID          string
	ScoreFiles     int
	StructureFiles int
	Population     int
	DroppedRows    int
	Headroom       int
	LookupSize     int
	Stats          report.Summary
	Bundle         *selection.Bundle
	Outputs        []output.Written
	Histogram      string // empty when the plot failed
	Grid           string // empty unless rendered
}

// Service runs the pipeline for one configuration.
type Service struct {
	cfg        *config.Config
	opener     stream.Opener
	progress   io.Writer
	outDir     string
	reportOpts []report.Option
	logger     logger.Logger
}

// New constructs a Service for cfg.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		opener: stream.FileOpener{},
		logger: logger.Get(),
	}
	if cfg.Progress {
		s.progress = os.Stdout
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes every stage. Configuration problems are returned before any
// file is written; per-file and per-record failures are logged and skipped.
func (s *Service) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{RunID: uuid.NewString()}
	log := s.logger.With(logger.String("run_id", sum.RunID))
	metrics.Init(metrics.WithConstLabels(map[string]string{"dock": s.cfg.Dock}))

	policy, err := selection.NewPolicy(s.cfg.Exclude, s.cfg.Select)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	scoreFiles, err := s.glob(s.cfg.ScoreGlob)
	if err != nil {
		return nil, err
	}
	structureFiles, err := s.glob(s.cfg.StructureGlob)
	if err != nil {
		return nil, err
	}
	sum.ScoreFiles, sum.StructureFiles = len(scoreFiles), len(structureFiles)
	stem := filepath.Join(s.outDir, s.cfg.OutputStem())

	log.Info(ctx, "run started",
		logger.String("policy", policy.Kind().String()),
		logger.Int("top", s.cfg.Top),
		logger.String("dock", s.cfg.Dock),
		logger.Strings("scoreFiles", scoreFiles),
		logger.Int("structureFiles", len(structureFiles)),
	)

	start := time.Now()
	pop, dropped := s.ingest(ctx, log, scoreFiles)
	metrics.ObserveStage(metrics.StageScoreIngest, time.Since(start))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if pop.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPopulation, s.cfg.ScoreGlob)
	}
	sum.Population, sum.DroppedRows = pop.Len(), dropped

	start = time.Now()
	histo := stem + HistogramSuffix
	dist := report.NewDistribution(append([]report.Option{report.WithLogger(log.Named("report"))}, s.reportOpts...)...)
	stats, err := dist.Render(ctx, histo, filepath.Base(stem), pop.Scores(), s.cfg.Top, s.cfg.UpperBound(), s.cfg.LowerBound())
	metrics.ObserveStage(metrics.StageHistogram, time.Since(start))
	sum.Stats = stats
	if err != nil {
		log.Error(ctx, "distribution plot failed", logger.String("path", histo), logger.Error(err))
	} else {
		sum.Histogram = histo
	}

	sum.Headroom = ranking.Headroom(s.cfg.Top, s.cfg.Multiplier, pop.Len())
	head := pop.Head(sum.Headroom)
	metrics.UpdateHeadroomCount(sum.Headroom)
	log.Info(ctx, "headroom selected",
		logger.Int("requested", s.cfg.Top),
		logger.Int("multiplier", s.cfg.Multiplier),
		logger.Int("headroom", sum.Headroom),
	)

	start = time.Now()
	lookup := s.scan(ctx, log, structureFiles, ranking.NewTargetSet(head, policy.Key))
	metrics.ObserveStage(metrics.StageScan, time.Since(start))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sum.LookupSize = len(lookup)

	start = time.Now()
	assembler := selection.NewAssembler(policy, s.cfg.Top, s.cfg.Dock, selection.WithLogger(log.Named("selection")))
	bundle, err := assembler.Assemble(ctx, head, lookup)
	metrics.ObserveStage(metrics.StageAssemble, time.Since(start))
	if err != nil {
		return nil, err
	}
	sum.Bundle = bundle

	start = time.Now()
	w := output.NewWriter(output.WithLogger(log.Named("output")))
	written, err := w.Write(ctx, stem, bundle)
	sum.Outputs = written
	if err != nil {
		return sum, err
	}
	if s.cfg.Grid {
		sum.Grid = s.renderGrid(ctx, log, stem, bundle)
	}
	metrics.ObserveStage(metrics.StageWrite, time.Since(start))

	if s.cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(s.cfg.MetricsFile); err != nil {
			log.Error(ctx, "metrics export failed", logger.Error(err))
		}
	}

	log.Info(ctx, "run finished",
		logger.Int("population", sum.Population),
		logger.Int("lookedThrough", bundle.LookedThrough),
		logger.Int("output", len(bundle.Primary)),
		logger.Int("notFound", len(bundle.Missing)),
	)
	return sum, nil
}

// glob expands pattern; a malformed pattern or no match is fatal.
func (s *Service) glob(pattern string) ([]string, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", config.ErrInvalidConfig, pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoInput, pattern)
	}
	return files, nil
}

// ingest reads every score table in parallel and merges them in file order.
// It returns the population and the number of malformed rows dropped.
func (s *Service) ingest(ctx context.Context, log logger.Logger, files []string) (*ranking.Population, int) {
	reader := scoretable.NewReader(
		scoretable.WithOpener(s.opener),
		scoretable.WithNameColumn(s.cfg.NameColumn),
		scoretable.WithScoreColumn(s.cfg.ScoreColumn),
	)
	pool := worker.NewPool(
		worker.WithName("score"),
		worker.WithSize(s.cfg.ScoreWorkerCount()),
		worker.WithLogger(log),
		worker.WithProgress(s.progress),
	)
	results := worker.Map(ctx, pool, files, identity, reader.Read)

	parts := make([][]model.ScoreRecord, 0, len(results))
	dropped := 0
	for _, r := range results {
		if r.Err != nil {
			metrics.RecordScoreFileFailed()
			continue
		}
		metrics.RecordScoreFileRead()
		metrics.AddScoreRows(len(r.Value.Records), r.Value.Dropped)
		if r.Value.Dropped > 0 {
			log.Debug(ctx, "malformed score rows dropped",
				logger.String("path", r.Value.Path),
				logger.Int("dropped", r.Value.Dropped),
			)
		}
		dropped += r.Value.Dropped
		parts = append(parts, r.Value.Records)
	}

	pop := ranking.Merge(parts...)
	dropped += pop.Dropped()
	metrics.UpdatePopulationSize(pop.Len())
	log.Info(ctx, "scores ranked",
		logger.Int("files", len(files)),
		logger.Int("population", pop.Len()),
		logger.Int("dropped", dropped),
	)
	return pop, dropped
}

// scan extracts target records from every structure file in parallel. Each
// worker keeps only its targets; the rest of a file is released as it streams.
func (s *Service) scan(ctx context.Context, log logger.Logger, files []string, targets ranking.TargetSet) sdfscan.Lookup {
	scanner := sdfscan.NewScanner(targets,
		sdfscan.WithOpener(s.opener),
		sdfscan.WithLogger(log.Named("sdfscan")),
	)
	pool := worker.NewPool(
		worker.WithName("scan"),
		worker.WithSize(s.cfg.ScanWorkerCount()),
		worker.WithLogger(log),
		worker.WithProgress(s.progress),
	)
	results := worker.Map(ctx, pool, files, identity, scanner.ScanFile)

	parts := make([]sdfscan.Lookup, 0, len(results))
	read, failed := 0, 0
	for _, r := range results {
		if r.Err != nil {
			metrics.RecordStructureFileFailed()
			continue
		}
		metrics.RecordStructureFileScanned()
		metrics.AddStructureRecords(r.Value.Read, r.Value.Failed, r.Value.Kept)
		read += r.Value.Read
		failed += r.Value.Failed
		parts = append(parts, r.Value.Records)
	}

	lookup := sdfscan.Merge(parts...)
	metrics.UpdateLookupSize(len(lookup))
	log.Info(ctx, "structures collected",
		logger.Int("files", len(files)),
		logger.Int("records", read),
		logger.Int("failed", failed),
		logger.Int("targets", len(targets)),
		logger.Int("found", len(lookup)),
	)
	return lookup
}

// renderGrid draws the primary records; failures are logged only.
func (s *Service) renderGrid(ctx context.Context, log logger.Logger, stem string, b *selection.Bundle) string {
	if len(b.Primary) == 0 {
		log.Warn(ctx, "grid skipped, nothing selected")
		return ""
	}
	tiles := make([]report.Tile, 0, len(b.Primary))
	for _, it := range b.Primary {
		tiles = append(tiles, report.Tile{Title: it.Record.Name(), Mol: it.Record.Molecule()})
	}
	path := stem + GridSuffix
	grid := report.NewGrid(s.cfg.GridMax, append([]report.Option{report.WithLogger(log.Named("report"))}, s.reportOpts...)...)
	if err := grid.Render(ctx, path, tiles); err != nil {
		log.Error(ctx, "grid rendering failed", logger.String("path", path), logger.Error(err))
		return ""
	}
	return path
}

func identity(path string) string { return path }
