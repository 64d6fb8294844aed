package report

import (
	"gonum.org/v1/plot/vg"

	"github.com/okian/dockrank/pkg/logger"
)

// Option applies a configuration option to a renderer.
type Option func(*settings)

type settings struct {
	width   vg.Length
	height  vg.Length
	dpi     int
	columns int
	logger  logger.Logger
}

func newSettings(width, height vg.Length, dpi int, opts []Option) settings {
	s := settings{
		width:   width,
		height:  height,
		dpi:     dpi,
		columns: defaultColumns,
		logger:  logger.Named("report"),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithSize sets the image size.
func WithSize(width, height vg.Length) Option {
	return func(s *settings) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}

// WithDPI sets the raster resolution.
func WithDPI(dpi int) Option {
	return func(s *settings) {
		if dpi > 0 {
			s.dpi = dpi
		}
	}
}

// WithColumns sets the number of tiles per grid row.
func WithColumns(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.columns = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
