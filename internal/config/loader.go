package config

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. DOCKRANK_TOP.
const EnvPrefix = "DOCKRANK_"

// configEnv names the YAML config file when -config is not given.
const configEnv = EnvPrefix + "CONFIG"

const usageHeader = `dockrank ranks docking scores, pulls the top-ranked structures and plots the score distribution.

Usage:
  dockrank -score "*_score.txt" -sdf "*.sdf" -top 1000 -dock fred -outpref ksr-allost [options]

Score and structure files may be plain, .gz, .bz2, .zst or .lz4.

Options:
`

// Load builds a Config by layering defaults, optional file, env vars and flags.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) from -config or DOCKRANK_CONFIG
//  3. env (prefix DOCKRANK_)
//  4. flags explicitly set in args
func Load(_ context.Context, args []string) (*Config, error) {
	base := New()

	fs := newFlagSet(io.Discard)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", ErrInvalidConfig, fs.Args())
	}

	k := koanf.New(".")

	path := os.Getenv(configEnv)
	if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
		path = f.Value.String()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// DOCKRANK_SCAN_WORKERS -> scan_workers (flat keys, underscores preserved)
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := k.Load(confmap.Provider(setFlags(fs), "."), nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Usage writes the flag summary to w.
func Usage(w io.Writer) {
	fs := newFlagSet(w)
	_, _ = io.WriteString(w, usageHeader)
	fs.PrintDefaults()
}

// newFlagSet declares every command-line flag. Flag names equal koanf keys.
func newFlagSet(out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("dockrank", flag.ContinueOnError)
	fs.SetOutput(out)

	fs.String("config", "", "YAML config file (also "+configEnv+")")
	fs.String("score", "", "score files glob, e.g. \"*_score.txt\"")
	fs.String("sdf", "", "structure files glob, e.g. \"*.sdf.gz\"")
	fs.Int("top", 0, "number of top molecules in the output")
	fs.String("dock", "", "docking software label: fred | sch | ...")
	fs.String("outpref", "", "prefix of output sdf, txt and png files")
	fs.Float64("hmax", 0, "plot upper score bound (default fred: -14.0, others: -10.0)")
	fs.Float64("hmin", 0, "plot lower score bound (default fred: -2.0, others: 0.0)")
	fs.Int("coll", defaultMultiplier, "collect X times top molecules into memory")
	fs.String("exclude", "", "SMARTS patterns (a|b|c); matching molecules are removed (smt-clean)")
	fs.String("select", "", "SMARTS patterns (a|b|c); only matching molecules are kept (smt-selec)")
	fs.Bool("grid", false, "render a grid image of the output molecules")
	fs.Int("grid_max", defaultGridMax, "maximum molecules in the grid image")
	fs.Int("score_workers", 0, "score-table workers (default all CPUs)")
	fs.Int("scan_workers", 0, "structure-file workers (default a third of the CPUs)")
	fs.String("name_column", "", "score-table header naming the molecule column")
	fs.String("score_column", "", "score-table header naming the score column")
	fs.String("metrics_file", "", "write Prometheus metrics to this textfile at the end")
	fs.Bool("progress", true, "draw progress bars for file pools")
	fs.String("log_level", "info", "log level: debug, info, warn, error")
	return fs
}

// setFlags returns only the flags present on the command line so that unset
// flags never shadow file or env values.
func setFlags(fs *flag.FlagSet) map[string]any {
	out := map[string]any{}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			return
		}
		if g, ok := f.Value.(flag.Getter); ok {
			out[f.Name] = g.Get()
			return
		}
		out[f.Name] = f.Value.String()
	})
	return out
}
