package scoretable

import (
	"github.com/okian/dockrank/internal/adapters/stream"
)

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithOpener replaces the file opener.
func WithOpener(o stream.Opener) Option {
	return func(r *Reader) {
		if o != nil {
			r.opener = o
		}
	}
}

// WithNameColumn selects the molecule-name column by header name.
func WithNameColumn(name string) Option {
	return func(r *Reader) {
		r.nameColumn = name
	}
}

// WithScoreColumn selects the score column by header name.
func WithScoreColumn(name string) Option {
	return func(r *Reader) {
		r.scoreColumn = name
	}
}
