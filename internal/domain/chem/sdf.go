package chem

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	delimiter     = "$$$$"
	maxLineLength = 4 << 20
	headerLines   = 3
)

// Reader yields SDF records one at a time. A record that fails to parse is
// reported as a *ParseError and the reader stays usable.
type Reader struct {
	sc       *bufio.Scanner
	line     int
	previous string
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineLength)
	return &Reader{sc: sc}
}

// Next returns the next record, a *ParseError for a bad record, or io.EOF.
func (r *Reader) Next() (*Record, error) {
	for {
		block, start, err := r.block()
		if err != nil {
			return nil, err
		}
		if isBlank(block) {
			continue
		}
		rec, perr := parseBlock(block)
		if perr != nil {
			return nil, &ParseError{Line: start, Previous: r.previous, Err: perr}
		}
		r.previous = rec.name
		return rec, nil
	}
}

// block collects lines up to the next delimiter. The last block of a stream
// may end without one.
func (r *Reader) block() ([]string, int, error) {
	var lines []string
	start := r.line + 1
	for r.sc.Scan() {
		r.line++
		line := strings.TrimRight(r.sc.Text(), "\r")
		if strings.TrimSpace(line) == delimiter {
			return lines, start, nil
		}
		lines = append(lines, line)
	}
	if err := r.sc.Err(); err != nil {
		return nil, start, fmt.Errorf("read sdf: %w", err)
	}
	if len(lines) == 0 || isBlank(lines) {
		return nil, start, io.EOF
	}
	return lines, start, nil
}

func isBlank(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

func parseBlock(lines []string) (*Record, error) {
	if len(lines) < headerLines+1 {
		return nil, fmt.Errorf("%w: %d lines, need a header and a counts line", ErrMalformedRecord, len(lines))
	}
	counts := lines[headerLines]
	if strings.Contains(counts, "V3000") {
		return nil, ErrUnsupportedFormat
	}
	natoms, err := fixedInt(counts, 0, 3)
	if err != nil {
		return nil, fmt.Errorf("%w: atom count: %w", ErrMalformedRecord, err)
	}
	nbonds, err := fixedInt(counts, 3, 6)
	if err != nil {
		return nil, fmt.Errorf("%w: bond count: %w", ErrMalformedRecord, err)
	}
	first := headerLines + 1
	if len(lines) < first+natoms+nbonds {
		return nil, fmt.Errorf("%w: %d atoms and %d bonds declared, %d lines present",
			ErrMalformedRecord, natoms, nbonds, len(lines)-first)
	}

	atoms := make([]Atom, natoms)
	for i := range atoms {
		a, err := parseAtomLine(lines[first+i])
		if err != nil {
			return nil, fmt.Errorf("%w: atom %d: %w", ErrMalformedRecord, i+1, err)
		}
		atoms[i] = a
	}
	bonds := make([]Bond, nbonds)
	for i := range bonds {
		b, err := parseBondLine(lines[first+natoms+i])
		if err != nil {
			return nil, fmt.Errorf("%w: bond %d: %w", ErrMalformedRecord, i+1, err)
		}
		bonds[i] = b
	}
	if err := applyProperties(atoms, lines[first+natoms+nbonds:]); err != nil {
		return nil, err
	}

	mol, err := NewMolecule(atoms, bonds)
	if err != nil {
		return nil, err
	}
	return &Record{name: lines[0], body: lines[1:], mol: mol}, nil
}

// parseAtomLine reads the fixed-column V2000 atom line
// "xxxxx.xxxxyyyyy.yyyyzzzzz.zzzz aaaddcccssshhhbbbvvvHHHrrriiimmmnnneee".
func parseAtomLine(line string) (Atom, error) {
	if len(line) < 34 {
		return Atom{}, fmt.Errorf("line too short: %q", line)
	}
	var a Atom
	var err error
	if a.X, err = fixedFloat(line, 0, 10); err != nil {
		return Atom{}, err
	}
	if a.Y, err = fixedFloat(line, 10, 20); err != nil {
		return Atom{}, err
	}
	if a.Z, err = fixedFloat(line, 20, 30); err != nil {
		return Atom{}, err
	}
	a.Symbol = strings.TrimSpace(line[31:34])
	a.Number = AtomicNumber(a.Symbol)
	if code, err := fixedInt(line, 36, 39); err == nil && code >= 1 && code <= 7 && code != 4 {
		a.Charge = 4 - code
	}
	return a, nil
}

func parseBondLine(line string) (Bond, error) {
	from, err := fixedInt(line, 0, 3)
	if err != nil {
		return Bond{}, err
	}
	to, err := fixedInt(line, 3, 6)
	if err != nil {
		return Bond{}, err
	}
	order, err := fixedInt(line, 6, 9)
	if err != nil {
		return Bond{}, err
	}
	return Bond{From: from - 1, To: to - 1, Order: BondOrder(order)}, nil
}

// applyProperties reads "M  CHG" and "M  ISO" up to "M  END". Any CHG line
// resets the atom block charges.
func applyProperties(atoms []Atom, lines []string) error {
	chargesReset := false
	for _, line := range lines {
		if strings.HasPrefix(line, "M  END") {
			return nil
		}
		tag := ""
		if len(line) >= 6 {
			tag = line[:6]
		}
		if tag != "M  CHG" && tag != "M  ISO" {
			continue
		}
		if tag == "M  CHG" && !chargesReset {
			for i := range atoms {
				atoms[i].Charge = 0
			}
			chargesReset = true
		}
		fields := strings.Fields(line[6:])
		if len(fields) == 0 {
			continue
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || len(fields) < 1+2*n {
			return fmt.Errorf("%w: %q", ErrMalformedRecord, line)
		}
		for k := 0; k < n; k++ {
			idx, err1 := strconv.Atoi(fields[1+2*k])
			val, err2 := strconv.Atoi(fields[2+2*k])
			if err := errors.Join(err1, err2); err != nil || idx < 1 || idx > len(atoms) {
				return fmt.Errorf("%w: %q", ErrMalformedRecord, line)
			}
			if tag == "M  CHG" {
				atoms[idx-1].Charge = val
			} else {
				atoms[idx-1].Isotope = val
			}
		}
	}
	return fmt.Errorf("%w: missing M  END", ErrMalformedRecord)
}

func fixedField(line string, from, to int) string {
	if from >= len(line) {
		return ""
	}
	return strings.TrimSpace(line[from:min(to, len(line))])
}

func fixedInt(line string, from, to int) (int, error) {
	s := fixedField(line, from, to)
	if s == "" {
		return 0, fmt.Errorf("empty field at columns %d-%d", from+1, to)
	}
	return strconv.Atoi(s)
}

func fixedFloat(line string, from, to int) (float64, error) {
	return strconv.ParseFloat(fixedField(line, from, to), 64)
}

// Writer writes records in SDF form.
type Writer struct {
	w     *bufio.Writer
	count int
}

// NewWriter returns a buffered Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write appends one record.
func (w *Writer) Write(rec *Record) error {
	if _, err := rec.WriteTo(w.w); err != nil {
		return fmt.Errorf("write record %q: %w", rec.name, err)
	}
	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int { return w.count }

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
