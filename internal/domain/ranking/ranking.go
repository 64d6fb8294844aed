// Package ranking merges per-file score lists into one rank-ordered
// population and derives the structure lookup target set from it.
//
// Ordering: score ASC (more negative ranks first), ties keep input order.
package ranking

import (
	"cmp"
	"slices"

	"github.com/okian/dockrank/internal/domain/model"
)

// DefaultMultiplier is the default headroom multiplier.
const DefaultMultiplier = 2

// Population is a rank-ordered, read-only sequence of score records.
type Population struct {
	records []model.ScoreRecord
	dropped int
}

// Merge concatenates parts in order, drops records without a name or with a
// non-finite score, and stable-sorts the rest ascending by score.
func Merge(parts ...[]model.ScoreRecord) *Population {
	total := 0
	for _, p := range parts {
		total += len(p)
	}

	p := &Population{records: make([]model.ScoreRecord, 0, total)}
	for _, part := range parts {
		for _, r := range part {
			if !r.Valid() {
				p.dropped++
				continue
			}
			p.records = append(p.records, r)
		}
	}

	slices.SortStableFunc(p.records, func(a, b model.ScoreRecord) int {
		return cmp.Compare(a.Score, b.Score)
	})
	return p
}

// Len returns the population size.
func (p *Population) Len() int { return len(p.records) }

// Dropped returns how many merged records were discarded as invalid.
func (p *Population) Dropped() int { return p.dropped }

// At returns the ranked entry at zero-based index i; its Rank is i+1.
func (p *Population) At(i int) model.Entry {
	r := p.records[i]
	return model.Entry{Rank: i + 1, Name: r.Name, Score: r.Score}
}

// Head returns the first n entries in rank order, clamped to the population.
func (p *Population) Head(n int) []model.Entry {
	n = min(max(n, 0), len(p.records))
	out := make([]model.Entry, n)
	for i := range n {
		out[i] = p.At(i)
	}
	return out
}

// Scores returns a copy of the scores in rank order.
func (p *Population) Scores() []float64 {
	out := make([]float64, len(p.records))
	for i, r := range p.records {
		out[i] = r.Score
	}
	return out
}

// Headroom returns how many top-ranked names to look up for a requested
// output of top: top*multiplier, clamped to size-1 so selection never runs
// past the population. It never returns a negative count.
func Headroom(top, multiplier, size int) int {
	if multiplier < 1 {
		multiplier = DefaultMultiplier
	}
	n := top * multiplier
	if n > size-1 {
		n = size - 1
	}
	return max(n, 0)
}

// TargetSet is the set of names structure scanning keeps. It is read-only
// once built and safe to share between workers.
type TargetSet map[string]struct{}

// NewTargetSet builds a target set of key(name) for each entry. A nil key
// keeps names as ranked.
func NewTargetSet(entries []model.Entry, key func(string) string) TargetSet {
	s := make(TargetSet, len(entries))
	for _, e := range entries {
		name := e.Name
		if key != nil {
			name = key(name)
		}
		s[name] = struct{}{}
	}
	return s
}

// Contains reports whether name is a target.
func (s TargetSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}
