// Package scoretable parses whitespace-delimited docking score tables into
// (name, score) records.
//
// A table may start with a header line; '#' starts a comment anywhere on a
// line. Without a header the first column is the name and the second the score.
package scoretable

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/okian/dockrank/internal/adapters/stream"
	"github.com/okian/dockrank/internal/domain/model"
)

const (
	maxLineBytes       = 4 << 20
	ctxCheckEveryLines = 1 << 16
)

// Header names recognised when no explicit column is configured.
var (
	nameHeaders  = []string{"name", "title", "id", "ligand", "molecule", "compound", "zinc_id", "smiles_id"}
	scoreHeaders = []string{"score", "chemgauss4", "chemgauss3", "docking_score", "r_i_docking_score", "affinity", "energy", "dock_score"}
)

// Table is the parse result of one score file.
type Table struct {
	Path    string
	Records []model.ScoreRecord
	// Dropped counts data rows without a name or a numeric score.
	Dropped int
}

// Reader parses score tables. It holds no per-file state and is safe for
// concurrent use.
type Reader struct {
	opener      stream.Opener
	nameColumn  string
	scoreColumn string
}

// NewReader creates a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{opener: stream.FileOpener{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read opens path and parses it.
func (r *Reader) Read(ctx context.Context, path string) (Table, error) {
	rc, err := r.opener.Open(path)
	if err != nil {
		return Table{Path: path}, err
	}
	defer rc.Close()

	t, err := r.Parse(ctx, rc)
	t.Path = path
	if err != nil {
		return t, fmt.Errorf("%w %s: %w", ErrReadTable, path, err)
	}
	return t, nil
}

type columns struct {
	name, score int
}

func (c columns) width() int { return max(c.name, c.score) + 1 }

// Parse reads a table from src.
func (r *Reader) Parse(ctx context.Context, src io.Reader) (Table, error) {
	var (
		t      Table
		cols   *columns
		lineNo int
	)

	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		lineNo++
		if lineNo%ctxCheckEveryLines == 0 {
			if err := ctx.Err(); err != nil {
				return t, err
			}
		}

		line, _, _ := strings.Cut(sc.Text(), "#")
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if cols == nil {
			c, isHeader, err := r.resolveColumns(fields)
			if err != nil {
				return t, err
			}
			cols = &c
			if isHeader {
				continue
			}
		}

		rec, ok := parseRow(fields, *cols)
		if !ok {
			t.Dropped++
			continue
		}
		t.Records = append(t.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return t, err
	}
	return t, nil
}

// resolveColumns decides from the first data-bearing line whether it is a
// header and which columns carry name and score.
func (r *Reader) resolveColumns(fields []string) (columns, bool, error) {
	if !looksLikeHeader(fields) {
		if r.nameColumn != "" || r.scoreColumn != "" {
			return columns{}, false, ErrNoHeader
		}
		return columns{name: 0, score: 1}, false, nil
	}

	score := findColumn(fields, r.scoreColumn, scoreHeaders, -1)
	if score < 0 {
		if r.scoreColumn != "" {
			return columns{}, true, fmt.Errorf("%w: %q in %v", ErrNoColumn, r.scoreColumn, fields)
		}
		score = min(1, len(fields)-1)
	}
	name := findColumn(fields, r.nameColumn, nameHeaders, score)
	if name < 0 {
		if r.nameColumn != "" {
			return columns{}, true, fmt.Errorf("%w: %q in %v", ErrNoColumn, r.nameColumn, fields)
		}
		name = 0
		if score == 0 {
			name = 1
		}
	}
	return columns{name: name, score: score}, true, nil
}

// looksLikeHeader is true when no field parses as a number.
func looksLikeHeader(fields []string) bool {
	for _, f := range fields {
		if _, err := strconv.ParseFloat(f, 64); err == nil {
			return false
		}
	}
	return true
}

// findColumn returns the index of the configured header, else the first
// header equal to or containing a known name, skipping index skip.
func findColumn(fields []string, configured string, known []string, skip int) int {
	if configured != "" {
		for i, f := range fields {
			if strings.EqualFold(f, configured) {
				return i
			}
		}
		return -1
	}
	for _, k := range known {
		for i, f := range fields {
			if i != skip && strings.EqualFold(f, k) {
				return i
			}
		}
	}
	for _, k := range known {
		for i, f := range fields {
			if i != skip && strings.Contains(strings.ToLower(f), k) {
				return i
			}
		}
	}
	return -1
}

func parseRow(fields []string, c columns) (model.ScoreRecord, bool) {
	if len(fields) < c.width() {
		return model.ScoreRecord{}, false
	}
	score, err := strconv.ParseFloat(fields[c.score], 64)
	if err != nil || math.IsNaN(score) {
		return model.ScoreRecord{}, false
	}
	rec := model.ScoreRecord{Name: fields[c.name], Score: score}
	return rec, rec.Valid()
}
