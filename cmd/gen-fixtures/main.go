package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/dockrank/internal/fixtures"
	"github.com/okian/dockrank/pkg/logger"
)

// Default configuration constants.
const (
	defaultMolecules      = 10000
	defaultScoreFiles     = 4
	defaultStructureFiles = 8
	defaultTimeout        = 10 * time.Minute
)

func main() {
	var (
		dir            = flag.String("dir", ".", "Output directory for the generated files")
		prefix         = flag.String("prefix", "ZINC", "Molecule name prefix")
		molecules      = flag.Int("molecules", defaultMolecules, "Number of molecules to generate")
		scoreFiles     = flag.Int("score-files", defaultScoreFiles, "Number of score tables")
		structureFiles = flag.Int("sdf-files", defaultStructureFiles, "Number of SD files")
		scoreExt       = flag.String("score-ext", ".txt", "Score table extension: .txt, .txt.gz, .txt.zst, .txt.lz4")
		structureExt   = flag.String("sdf-ext", ".sdf.gz", "SD file extension: .sdf, .sdf.gz, .sdf.zst, .sdf.lz4")
		header         = flag.Bool("header", true, "Write a Name/Score header line")
		malformed      = flag.Bool("malformed", false, "Add a bad row and a hypervalent record to every file")
		workers        = flag.Int("workers", runtime.NumCPU(), "Number of concurrent file writers")
		seed           = flag.Uint64("seed", 1, "Score distribution seed")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	cfg := fixtures.Config{
		Dir:            *dir,
		NamePrefix:     *prefix,
		Molecules:      *molecules,
		ScoreFiles:     *scoreFiles,
		StructureFiles: *structureFiles,
		ScoreExt:       *scoreExt,
		StructureExt:   *structureExt,
		Header:         *header,
		Malformed:      *malformed,
		Workers:        *workers,
		Seed:           *seed,
	}
	if _, err := fixtures.Generate(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "fixture generation failed", logger.Error(err))
		cancel()
		os.Exit(1)
	}
}
