// Package selection walks the rank-ordered population, attaches structure
// records and applies the run's output policy until the requested count is
// reached.
package selection

import (
	"context"

	"github.com/okian/dockrank/internal/domain/chem"
	"github.com/okian/dockrank/internal/domain/model"
	"github.com/okian/dockrank/pkg/logger"
	"github.com/okian/dockrank/pkg/metrics"
)

// Item is one assembled record.
type Item struct {
	Entry   model.Entry
	Name    string       // name used for the lookup and the label
	Record  *chem.Record // labelled copy
	Pattern int          // index of the first matching pattern, -1 if none
}

// Bundle is the result of one assembly.
type Bundle struct {
	Kind Kind
	// Primary is written as the main output: plain, clean or selected.
	Primary []Item
	// Diverted holds excluded records for Exclude and non-matching ones for Select.
	Diverted []Item
	// LookedThrough counts ranked entries walked, misses included.
	LookedThrough int
	// Missing lists ranked names absent from the lookup, in rank order.
	Missing []string
	// Filled is true when Primary reached the requested count.
	Filled bool
}

// Assembler applies one policy. It does not modify the lookup or its records.
type Assembler struct {
	policy Policy
	top    int
	dock   string
	logger logger.Logger
}

// NewAssembler creates an Assembler emitting at most top records labelled with dock.
func NewAssembler(policy Policy, top int, dock string, opts ...Option) *Assembler {
	a := &Assembler{
		policy: policy,
		top:    top,
		dock:   dock,
		logger: logger.Named("selection"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble walks ranked in order and stops as soon as the primary bucket
// holds top records or the entries run out.
func (a *Assembler) Assemble(ctx context.Context, ranked []model.Entry, lookup map[string]*chem.Record) (*Bundle, error) {
	b := &Bundle{Kind: a.policy.kind}
	primary, diverted := a.policy.buckets()

	for i, e := range ranked {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.LookedThrough = i + 1

		name := a.policy.Key(e.Name)
		rec, ok := lookup[name]
		if !ok {
			b.Missing = append(b.Missing, name)
			metrics.RecordLookupMiss()
			a.logger.Warn(ctx, "molecule not found", logger.String("name", name), logger.Int("rank", e.Rank))
			continue
		}

		item := Item{
			Entry:   e,
			Name:    name,
			Record:  rec.WithName(model.Label(name, e.Rank, e.Score, a.dock)),
			Pattern: -1,
		}
		if a.policy.kind == KindPlain {
			b.Primary = append(b.Primary, item)
			metrics.RecordEmitted(string(primary))
		} else {
			idx, hit := a.policy.patterns.FirstMatch(rec.Molecule())
			item.Pattern = idx
			if hit {
				metrics.RecordPatternMatch(a.policy.patterns.Pattern(idx).String())
			}
			// Exclude keeps non-matching records; Select keeps matching ones.
			if hit == (a.policy.kind == KindSelect) {
				b.Primary = append(b.Primary, item)
				metrics.RecordEmitted(string(primary))
			} else {
				b.Diverted = append(b.Diverted, item)
				metrics.RecordEmitted(string(diverted))
			}
		}

		if len(b.Primary) == a.top {
			b.Filled = true
			break
		}
	}

	fields := []logger.Field{
		logger.String("policy", a.policy.kind.String()),
		logger.Int("lookedThrough", b.LookedThrough),
		logger.Int("output", len(b.Primary)),
		logger.Int("notFound", len(b.Missing)),
		logger.Bool("filled", b.Filled),
	}
	if a.policy.kind != KindPlain {
		fields = append(fields, logger.Int(string(diverted), len(b.Diverted)), logger.String("patterns", a.policy.patterns.String()))
	}
	a.logger.Info(ctx, "assembly finished", fields...)
	return b, nil
}
