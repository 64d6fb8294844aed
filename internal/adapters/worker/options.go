package worker

import (
	"io"

	"github.com/okian/dockrank/pkg/logger"
)

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithName sets the pool name used in logs, metrics and the progress bar.
func WithName(name string) Option {
	return func(p *Pool) {
		if name != "" {
			p.name = name
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithSize bounds the number of tasks running at once.
func WithSize(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.size = n
		}
	}
}

// WithProgress draws a progress bar on w. A nil writer disables it.
func WithProgress(w io.Writer) Option {
	return func(p *Pool) {
		p.progress = w
	}
}
