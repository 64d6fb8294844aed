package service

import (
	"io"

	"github.com/okian/dockrank/internal/adapters/report"
	"github.com/okian/dockrank/internal/adapters/stream"
	"github.com/okian/dockrank/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOpener replaces the file opener used by both stages.
func WithOpener(o stream.Opener) Option {
	return func(s *Service) {
		if o != nil {
			s.opener = o
		}
	}
}

// WithProgress sends pool progress bars to w; nil turns them off.
func WithProgress(w io.Writer) Option {
	return func(s *Service) {
		s.progress = w
	}
}

// WithOutputDir places every output file under dir.
func WithOutputDir(dir string) Option {
	return func(s *Service) {
		s.outDir = dir
	}
}

// WithReportOptions configures the plot and grid renderers.
func WithReportOptions(opts ...report.Option) Option {
	return func(s *Service) {
		s.reportOpts = append(s.reportOpts, opts...)
	}
}
