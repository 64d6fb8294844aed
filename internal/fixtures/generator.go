package fixtures

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/dockrank/internal/adapters/stream"
	"github.com/okian/dockrank/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidConfig is returned for impossible generator settings.
var ErrInvalidConfig = errors.New("invalid fixture config")

// Score bands in kcal/mol-like units, best first.
const (
	eliteMin   = -16.0
	eliteRange = 4.0
	goodMin    = -12.0
	goodRange  = 2.0
	avgMin     = -10.0
	avgRange   = 4.0
	weakMin    = -6.0
	weakRange  = 4.0
	wideMin    = -16.0
	wideRange  = 16.0
	scoreBands = 8
)

// Generate writes the score tables and SD files described by cfg.
func Generate(ctx context.Context, cfg Config) (*Dataset, error) {
	if cfg.Molecules < 1 || cfg.ScoreFiles < 1 || cfg.StructureFiles < 1 {
		return nil, fmt.Errorf("%w: molecules, score files and structure files must be positive", ErrInvalidConfig)
	}
	log := logger.Named("fixtures")

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	ds := &Dataset{
		Names:     make([]string, cfg.Molecules),
		Scores:    make(map[string]float64, cfg.Molecules),
		Templates: make(map[string]Template, cfg.Molecules),
	}
	for i := range cfg.Molecules {
		name := fmt.Sprintf("%s%07d", cfg.NamePrefix, i+1)
		ds.Names[i] = name
		ds.Scores[name] = variedScore(rng)
		ds.Templates[name] = Catalog[i%len(Catalog)]
	}

	for f := range cfg.ScoreFiles {
		ds.ScoreFiles = append(ds.ScoreFiles, filepath.Join(cfg.Dir, fmt.Sprintf("part%02d_score%s", f, cfg.ScoreExt)))
	}
	for f := range cfg.StructureFiles {
		ds.StructureFiles = append(ds.StructureFiles, filepath.Join(cfg.Dir, fmt.Sprintf("part%02d%s", f, cfg.StructureExt)))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.Workers))
	for f, path := range ds.ScoreFiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return writeFile(path, ds.scoreTable(cfg, f))
		})
	}
	chunk := (cfg.Molecules + cfg.StructureFiles - 1) / cfg.StructureFiles
	for f, path := range ds.StructureFiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lo := min(f*chunk, cfg.Molecules)
			hi := min(lo+chunk, cfg.Molecules)
			return writeFile(path, ds.sdFile(cfg, lo, hi))
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("generate fixtures: %w", err)
	}

	log.Info(ctx, "generated docking run fixtures",
		logger.Int("molecules", cfg.Molecules),
		logger.Int("scoreFiles", len(ds.ScoreFiles)),
		logger.Int("structureFiles", len(ds.StructureFiles)),
		logger.String("dir", cfg.Dir))
	return ds, nil
}

// Ranked returns the names sorted by ascending score. Ties keep the order a
// reader meets them in: score file by score file, each in row order.
func (ds *Dataset) Ranked() []string {
	files := max(1, len(ds.ScoreFiles))
	order := make([]int, len(ds.Names))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Or(
			cmp.Compare(ds.Scores[ds.Names[a]], ds.Scores[ds.Names[b]]),
			cmp.Compare(a%files, b%files),
			cmp.Compare(a, b),
		)
	})
	names := make([]string, len(order))
	for i, idx := range order {
		names[i] = ds.Names[idx]
	}
	return names
}

// scoreTable renders the molecules whose index modulo the file count is f.
func (ds *Dataset) scoreTable(cfg Config, f int) string {
	var sb strings.Builder
	sb.WriteString("# synthetic docking scores\n")
	if cfg.Header {
		sb.WriteString("Name Score\n")
	}
	for i := f; i < len(ds.Names); i += cfg.ScoreFiles {
		name := ds.Names[i]
		sb.WriteString(name + "\t" + strconv.FormatFloat(ds.Scores[name], 'f', 3, 64) + "\n")
	}
	if cfg.Malformed {
		sb.WriteString("BROKEN n/a\n")
	}
	return sb.String()
}

// sdFile renders molecules [lo, hi) as an SD file.
func (ds *Dataset) sdFile(cfg Config, lo, hi int) string {
	var sb strings.Builder
	for i := lo; i < hi; i++ {
		name := ds.Names[i]
		if cfg.Malformed && i == lo+1 {
			sb.WriteString(Hypervalent("HYPERVALENT").String())
		}
		mol := ds.Templates[name].Build(name).Prop("Score", strconv.FormatFloat(ds.Scores[name], 'f', 3, 64))
		sb.WriteString(mol.String())
	}
	return sb.String()
}

func writeFile(path, content string) error {
	w, err := stream.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, content); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return w.Close()
}

// variedScore draws from a mixture of score bands, average binders most common.
func variedScore(rng *rand.Rand) float64 {
	var s float64
	switch rng.IntN(scoreBands) {
	case 0, 1, 2:
		s = avgMin + rng.Float64()*avgRange
	case 3:
		s = goodMin + rng.Float64()*goodRange
	case 4:
		s = eliteMin + rng.Float64()*eliteRange
	case 5, 6:
		s = weakMin + rng.Float64()*weakRange
	default:
		s = wideMin + rng.Float64()*wideRange
	}
	return math.Round(s*1000) / 1000
}
