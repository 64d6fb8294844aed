// Package sdfscan extracts the records named in a target set from SD files
// and merges the per-file extractions into one lookup.
package sdfscan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"unicode"

	"github.com/okian/dockrank/internal/adapters/stream"
	"github.com/okian/dockrank/internal/domain/chem"
	"github.com/okian/dockrank/internal/domain/model"
	"github.com/okian/dockrank/pkg/logger"
	"github.com/okian/dockrank/pkg/metrics"
)

// Targets is the read-only name filter applied while scanning.
type Targets interface {
	Contains(name string) bool
}

// Lookup maps a trimmed record name to its record.
type Lookup map[string]*chem.Record

// FileResult is the extraction from one file.
type FileResult struct {
	Path    string
	Records Lookup
	Read    int // records parsed
	Failed  int // records that failed to parse or sanitize
	Kept    int // records whose name is a target
}

// Scanner streams SD files and keeps only target records. It holds no
// per-file state and is safe for concurrent use.
type Scanner struct {
	targets Targets
	opener  stream.Opener
	logger  logger.Logger
}

// NewScanner creates a Scanner filtering on targets.
func NewScanner(targets Targets, opts ...Option) *Scanner {
	s := &Scanner{
		targets: targets,
		opener:  stream.FileOpener{},
		logger:  logger.Named("sdfscan"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanFile opens path, scans it and releases everything but the kept records
// before returning.
func (s *Scanner) ScanFile(ctx context.Context, path string) (*FileResult, error) {
	rc, err := s.opener.Open(path)
	if err != nil {
		return nil, err
	}
	res, err := s.Scan(ctx, path, rc)
	closeErr := rc.Close()
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close %s: %w", path, closeErr)
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	metrics.UpdateHeapBytes(ms.HeapAlloc)
	return res, nil
}

// Scan reads records from src. When the first record's name carries a
// label separator, every name in the stream is cut at it before matching.
func (s *Scanner) Scan(ctx context.Context, path string, src io.Reader) (*FileResult, error) {
	res := &FileResult{Path: path, Records: Lookup{}}
	r := chem.NewReader(src)
	stripLabels, decided := false, false

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *chem.ParseError
		if errors.As(err, &perr) {
			res.Failed++
			s.logger.Warn(ctx, "skipping unreadable record",
				logger.String("file", path),
				logger.Int("line", perr.Line),
				logger.String("previous", perr.Previous),
				logger.Error(perr.Err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", path, err)
		}
		res.Read++

		name := rec.Name()
		if !decided {
			stripLabels = strings.Contains(name, model.LabelSeparator)
			decided = true
		}
		if stripLabels {
			name = model.StripLabel(name)
		}
		name = strings.TrimRightFunc(name, unicode.IsSpace)
		if !s.targets.Contains(name) {
			continue
		}
		res.Records[name] = rec
	}
	res.Kept = len(res.Records)
	return res, nil
}

// Merge unions partial lookups in order; later entries replace earlier ones
// on a name collision.
func Merge(parts ...Lookup) Lookup {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make(Lookup, n)
	for _, p := range parts {
		for name, rec := range p {
			out[name] = rec
		}
	}
	return out
}
