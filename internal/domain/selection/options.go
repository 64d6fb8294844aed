package selection

import "github.com/okian/dockrank/pkg/logger"

// Option applies a configuration option to the Assembler.
type Option func(*Assembler)

// WithLogger sets a custom logger for lookup misses and the summary.
func WithLogger(l logger.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}
