// Package config defines run configuration structures and loading hooks.
//
// Conventions:
// - New builds a Config with defaults; Load layers file, env and flags on top.
// - Validation errors wrap ErrInvalidConfig and are fatal for the run.
package config

import (
	"fmt"
	"runtime"
	"strings"
)

// Docking tools with dedicated plot bounds.
const (
	DockFRED = "fred"
)

// Tool-specific default plot bounds.
const (
	fredUpperBound    = -14.0
	fredLowerBound    = -2.0
	genericUpperBound = -10.0
	genericLowerBound = 0.0
)

const (
	defaultMultiplier = 2
	defaultGridMax    = 100
	scanWorkerDivisor = 3
	thousand          = 1000
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// ScoreGlob selects the score-table files.
	ScoreGlob string `koanf:"score"`
	// StructureGlob selects the structure-container files.
	StructureGlob string `koanf:"sdf"`
	// Top is the requested number of output records.
	Top int `koanf:"top"`
	// Dock labels the docking tool; it also picks default plot bounds.
	Dock string `koanf:"dock"`
	// Prefix starts every output file name.
	Prefix string `koanf:"outpref"`

	// Upper and Lower override the plot's score axis bounds.
	Upper *float64 `koanf:"hmax"`
	Lower *float64 `koanf:"hmin"`

	// Multiplier scales Top into the structure lookup headroom.
	Multiplier int `koanf:"coll"`

	// Exclude and Select hold pipe-delimited SMARTS pattern sets. At most one may be set.
	Exclude string `koanf:"exclude"`
	Select  string `koanf:"select"`

	// Grid turns on the molecule grid image of the emitted records.
	Grid    bool `koanf:"grid"`
	GridMax int  `koanf:"grid_max"`

	// ScoreWorkers and ScanWorkers size the two worker pools; 0 picks a default.
	ScoreWorkers int `koanf:"score_workers"`
	ScanWorkers  int `koanf:"scan_workers"`

	// NameColumn and ScoreColumn select score-table columns by header name.
	NameColumn  string `koanf:"name_column"`
	ScoreColumn string `koanf:"score_column"`

	// MetricsFile, when set, receives a Prometheus textfile at the end of the run.
	MetricsFile string `koanf:"metrics_file"`

	// Progress draws progress bars for the worker pools.
	Progress bool `koanf:"progress"`
}

// New creates a Config holding defaults.
func New() *Config {
	return &Config{
		LogLevel:   "info",
		Multiplier: defaultMultiplier,
		GridMax:    defaultGridMax,
		Progress:   true,
	}
}

// UpperBound returns the configured upper plot bound or the tool default.
func (c *Config) UpperBound() float64 {
	if c.Upper != nil {
		return *c.Upper
	}
	if strings.EqualFold(c.Dock, DockFRED) {
		return fredUpperBound
	}
	return genericUpperBound
}

// LowerBound returns the configured lower plot bound or the tool default.
func (c *Config) LowerBound() float64 {
	if c.Lower != nil {
		return *c.Lower
	}
	if strings.EqualFold(c.Dock, DockFRED) {
		return fredLowerBound
	}
	return genericLowerBound
}

// ScoreWorkerCount returns the Stage A pool size.
func (c *Config) ScoreWorkerCount() int {
	if c.ScoreWorkers > 0 {
		return c.ScoreWorkers
	}
	return runtime.NumCPU()
}

// ScanWorkerCount returns the Stage B pool size, a third of the CPUs unless set.
func (c *Config) ScanWorkerCount() int {
	if c.ScanWorkers > 0 {
		return c.ScanWorkers
	}
	return max(1, runtime.NumCPU()/scanWorkerDivisor)
}

// OutputStem returns "<prefix>.<dock>_top<N>", using a "k" suffix from 1000 up.
func (c *Config) OutputStem() string {
	if c.Top >= thousand {
		return fmt.Sprintf("%s.%s_top%dk", c.Prefix, c.Dock, c.Top/thousand)
	}
	return fmt.Sprintf("%s.%s_top%d", c.Prefix, c.Dock, c.Top)
}

// Validate checks required fields and the filter exclusivity rule.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.ScoreGlob) == "":
		return fmt.Errorf("%w: score file glob must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.StructureGlob) == "":
		return fmt.Errorf("%w: sdf file glob must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.Dock) == "":
		return fmt.Errorf("%w: docking tool must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.Prefix) == "":
		return fmt.Errorf("%w: output prefix must not be empty", ErrInvalidConfig)
	case c.Top < 1:
		return fmt.Errorf("%w: top must be at least 1, got %d", ErrInvalidConfig, c.Top)
	case c.Multiplier < 1:
		return fmt.Errorf("%w: coll must be at least 1, got %d", ErrInvalidConfig, c.Multiplier)
	case c.Exclude != "" && c.Select != "":
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrConflictingFilters)
	}
	return nil
}
