package chem

import (
	"io"
	"strings"
)

// Record is one SDF entry: its title line, the remaining raw lines up to the
// "$$$$" delimiter and the parsed molecule. Records are immutable.
type Record struct {
	name string
	body []string
	mol  *Molecule
}

// Name returns the title line.
func (r *Record) Name() string { return r.name }

// Molecule returns the parsed molecule.
func (r *Record) Molecule() *Molecule { return r.mol }

// WithName returns a copy of r titled name. The body and molecule are shared.
func (r *Record) WithName(name string) *Record {
	return &Record{name: name, body: r.body, mol: r.mol}
}

// WriteTo writes the record followed by the "$$$$" delimiter.
func (r *Record) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	sb.WriteString(r.name)
	sb.WriteByte('\n')
	for _, line := range r.body {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString(delimiter)
	sb.WriteByte('\n')
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}
