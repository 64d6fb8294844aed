package substructure

import (
	"errors"
	"fmt"
)

// ErrMalformedPattern is wrapped by every pattern parse failure.
var ErrMalformedPattern = errors.New("malformed substructure pattern")

// SyntaxError locates a parse failure inside a pattern.
type SyntaxError struct {
	Pattern string
	Pos     int
	Msg     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %q at offset %d: %s", ErrMalformedPattern, e.Pattern, e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrMalformedPattern }
