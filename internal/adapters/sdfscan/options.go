package sdfscan

import (
	"github.com/okian/dockrank/internal/adapters/stream"
	"github.com/okian/dockrank/pkg/logger"
)

// Option applies a configuration option to the Scanner.
type Option func(*Scanner)

// WithOpener replaces the file opener.
func WithOpener(o stream.Opener) Option {
	return func(s *Scanner) {
		if o != nil {
			s.opener = o
		}
	}
}

// WithLogger sets a custom logger for per-record failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}
