package output

import "github.com/okian/dockrank/pkg/logger"

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithDir places output files under dir instead of the working directory.
func WithDir(dir string) Option {
	return func(w *Writer) {
		w.dir = dir
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}
