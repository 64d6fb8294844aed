package scoretable

import "errors"

// Sentinel kinds for score-table errors.
var (
	ErrNoColumn  = errors.New("score table column not found")
	ErrNoHeader  = errors.New("score table has no header to select columns from")
	ErrReadTable = errors.New("read score table")
)
