package chem

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBond is returned when a bond references a missing atom or an unknown order.
	ErrInvalidBond = errors.New("invalid bond")
	// ErrMalformedRecord is returned when a connection table cannot be parsed.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrUnsupportedFormat is returned for V3000 connection tables.
	ErrUnsupportedFormat = errors.New("unsupported ctab format")
	// ErrValence is wrapped by ValenceError.
	ErrValence = errors.New("valence exceeded")
)

// ValenceError reports an atom whose explicit valence is above every permitted value.
type ValenceError struct {
	Atom    int // 1-based
	Symbol  string
	Valence int
}

func (e *ValenceError) Error() string {
	return fmt.Sprintf("explicit valence for atom #%d %s, %d, is greater than permitted", e.Atom, e.Symbol, e.Valence)
}

func (e *ValenceError) Unwrap() error { return ErrValence }

// ParseError is a recoverable per-record failure. Previous names the last
// record read successfully before the failing one, for positional context.
type ParseError struct {
	Line     int
	Previous string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Previous == "" {
		return fmt.Sprintf("record at line %d (first record): %v", e.Line, e.Err)
	}
	return fmt.Sprintf("record at line %d after %q: %v", e.Line, e.Previous, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
