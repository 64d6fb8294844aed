// Package output persists assembled bundles as structure container and
// ledger pairs.
package output

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/okian/dockrank/internal/adapters/stream"
	"github.com/okian/dockrank/internal/domain/chem"
	"github.com/okian/dockrank/internal/domain/model"
	"github.com/okian/dockrank/internal/domain/selection"
	"github.com/okian/dockrank/pkg/logger"
)

// File extensions of an output pair.
const (
	SDFExt    = ".sdf"
	LedgerExt = ".txt"
)

// Suffixes inserted between the stem and the extension.
const (
	CleanSuffix    = ".smt-clean"
	ExcludedSuffix = ".smt-excl"
	SelectedSuffix = ".smt-selec"
)

// Pair names one container and its ledger.
type Pair struct {
	SDF    string
	Ledger string
}

// PairFor returns the pair named stem+suffix.
func PairFor(stem, suffix string) Pair {
	return Pair{SDF: stem + suffix + SDFExt, Ledger: stem + suffix + LedgerExt}
}

// Names returns the primary pair of kind and, for Exclude, the diverted pair.
// Select's non-matching records are not written.
func Names(stem string, kind selection.Kind) (primary Pair, diverted *Pair) {
	switch kind {
	case selection.KindExclude:
		d := PairFor(stem, ExcludedSuffix)
		return PairFor(stem, CleanSuffix), &d
	case selection.KindSelect:
		return PairFor(stem, SelectedSuffix), nil
	default:
		return PairFor(stem, ""), nil
	}
}

// Written describes one persisted pair.
type Written struct {
	Pair
	Records int
}

// Writer persists bundles. It is used from a single goroutine.
type Writer struct {
	dir    string
	logger logger.Logger
}

// NewWriter creates a Writer.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{logger: logger.Named("output")}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write persists b under stem. The primary pair is always written, even
// when empty.
func (w *Writer) Write(ctx context.Context, stem string, b *selection.Bundle) ([]Written, error) {
	primary, diverted := Names(filepath.Join(w.dir, stem), b.Kind)

	out := make([]Written, 0, 2)
	n, err := w.writePair(primary, b.Primary)
	if err != nil {
		return out, err
	}
	out = append(out, Written{Pair: primary, Records: n})
	w.logger.Info(ctx, "output written", logger.String("sdf", primary.SDF), logger.Int("records", n))

	if diverted != nil {
		n, err := w.writePair(*diverted, b.Diverted)
		if err != nil {
			return out, err
		}
		out = append(out, Written{Pair: *diverted, Records: n})
		w.logger.Info(ctx, "diverted records written", logger.String("sdf", diverted.SDF), logger.Int("records", n))
	}
	return out, nil
}

func (w *Writer) writePair(p Pair, items []selection.Item) (int, error) {
	var n int
	err := writeFile(p.SDF, func(dst io.Writer) error {
		sw := chem.NewWriter(dst)
		for _, it := range items {
			if err := sw.Write(it.Record); err != nil {
				return err
			}
		}
		n = sw.Count()
		return sw.Flush()
	})
	if err != nil {
		return 0, err
	}
	err = writeFile(p.Ledger, func(dst io.Writer) error {
		return WriteLedger(dst, items)
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// WriteLedger writes one "name<TAB>score" row per item.
func WriteLedger(dst io.Writer, items []selection.Item) error {
	bw := bufio.NewWriter(dst)
	for _, it := range items {
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", it.Name, model.FormatScore(it.Entry.Score)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeFile(path string, fill func(io.Writer) error) error {
	dst, err := stream.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := fill(dst); err != nil {
		_ = dst.Close()
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	return nil
}
