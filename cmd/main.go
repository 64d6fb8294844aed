package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	app "github.com/okian/dockrank/internal/app"
	"github.com/okian/dockrank/internal/config"
	"github.com/okian/dockrank/pkg/logger"
)

// Process exit codes.
const (
	exitOK     = 0
	exitFailed = 1
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(exitFailed)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run loads the configuration from args and executes one job.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(ctx, args)
	if errors.Is(err, config.ErrHelp) {
		config.Usage(stdout)
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, " ## ERROR: %v ##\n\n", err)
		config.Usage(stderr)
		return exitFailed
	}

	log := logger.Get()
	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := []app.Option{app.WithLogger(log)}
	if cfg.Progress {
		opts = append(opts, app.WithProgress(stdout))
	}
	sum, err := app.New(cfg, opts...).Run(ctx)
	if err != nil {
		if errors.Is(err, config.ErrInvalidConfig) {
			fmt.Fprintf(stderr, " ## ERROR: %v ##\n\n", err)
			config.Usage(stderr)
		} else {
			log.Error(ctx, "run failed", logger.Error(err))
		}
		return exitFailed
	}

	for _, w := range sum.Outputs {
		log.Info(ctx, "wrote", logger.String("sdf", w.SDF), logger.String("ledger", w.Ledger), logger.Int("records", w.Records))
	}
	return exitOK
}
