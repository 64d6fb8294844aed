// Package worker runs one task per input file on a bounded pool. A failing
// task yields an error Result and never stops its siblings.
package worker

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/okian/dockrank/pkg/logger"
	"github.com/okian/dockrank/pkg/metrics"
	"github.com/schollz/progressbar/v2"
	"golang.org/x/sync/errgroup"
)

const progressWidth = 40

// Pool bounds concurrent tasks.
type Pool struct {
	name     string
	size     int
	logger   logger.Logger
	progress io.Writer
}

// NewPool creates a pool sized to the CPU count unless WithSize is given.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		name:   "pool",
		size:   runtime.NumCPU(),
		logger: logger.Get(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named(p.name)
	return p
}

// Name returns the pool name.
func (p *Pool) Name() string { return p.name }

// Size returns the concurrency bound.
func (p *Pool) Size() int { return p.size }

// Task processes one input.
type Task[In, Out any] func(ctx context.Context, in In) (Out, error)

// Result is the outcome for the input at Index.
type Result[Out any] struct {
	Index int
	Value Out
	Err   error
}

// Map runs task over every input and returns the results in input order.
// It waits for every task; failures and panics are logged, counted and
// reported in the matching Result.
func Map[In, Out any](ctx context.Context, p *Pool, inputs []In, describe func(In) string, task Task[In, Out]) []Result[Out] {
	results := make([]Result[Out], len(inputs))
	bar := p.newBar(len(inputs))

	var g errgroup.Group
	g.SetLimit(p.size)
	for i, in := range inputs {
		results[i].Index = i
		g.Go(func() error {
			defer p.tick(ctx, bar)
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			start := time.Now()
			v, err := run(ctx, task, in)
			results[i].Value, results[i].Err = v, err
			if err != nil {
				metrics.RecordWorkerError(p.name)
				p.logger.Error(ctx, "task failed",
					logger.String("input", describe(in)),
					logger.Duration("elapsed", time.Since(start)),
					logger.Error(err))
				return nil
			}
			p.logger.Debug(ctx, "task done",
				logger.String("input", describe(in)),
				logger.Duration("elapsed", time.Since(start)))
			return nil
		})
	}
	_ = g.Wait()
	if bar != nil {
		_ = bar.Finish()
		_, _ = io.WriteString(p.progress, "\n")
	}
	return results
}

func run[In, Out any](ctx context.Context, task Task[In, Out], in In) (out Out, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
	}()
	return task(ctx, in)
}

func (p *Pool) newBar(n int) *progressbar.ProgressBar {
	if p.progress == nil || n == 0 {
		return nil
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(p.progress),
		progressbar.OptionSetDescription(p.name),
		progressbar.OptionSetWidth(progressWidth),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func (p *Pool) tick(ctx context.Context, bar *progressbar.ProgressBar) {
	if bar == nil {
		return
	}
	if err := bar.Add(1); err != nil {
		p.logger.Debug(ctx, "progress bar update failed", logger.Error(err))
	}
}
