package selection

import (
	"errors"
	"fmt"

	"github.com/okian/dockrank/internal/domain/model"
	"github.com/okian/dockrank/internal/domain/substructure"
)

// ErrConflictingPolicies is returned when both an exclude and a select set are given.
var ErrConflictingPolicies = errors.New("exclude and select patterns are mutually exclusive")

// Kind enumerates the output policies.
type Kind int

// Policies.
const (
	KindPlain Kind = iota
	KindExclude
	KindSelect
)

func (k Kind) String() string {
	switch k {
	case KindExclude:
		return "exclude"
	case KindSelect:
		return "select"
	default:
		return "plain"
	}
}

// Bucket labels where an assembled record went.
type Bucket string

// Buckets.
const (
	BucketOutput   Bucket = "output"   // plain output
	BucketClean    Bucket = "clean"    // exclude: no pattern matched
	BucketExcluded Bucket = "excluded" // exclude: a pattern matched
	BucketSelected Bucket = "selected" // select: a pattern matched
	BucketOthers   Bucket = "others"   // select: no pattern matched
)

// Policy is the output policy chosen once per run.
type Policy struct {
	kind     Kind
	patterns *substructure.PatternSet
}

// Plain keeps every found record.
func Plain() Policy { return Policy{kind: KindPlain} }

// Exclude diverts records matching any pattern.
func Exclude(ps *substructure.PatternSet) Policy { return Policy{kind: KindExclude, patterns: ps} }

// Select keeps only records matching a pattern.
func Select(ps *substructure.PatternSet) Policy { return Policy{kind: KindSelect, patterns: ps} }

// NewPolicy compiles the policy from the exclude and select pattern strings.
// At most one may be non-empty.
func NewPolicy(exclude, sel string) (Policy, error) {
	switch {
	case exclude != "" && sel != "":
		return Policy{}, ErrConflictingPolicies
	case exclude != "":
		ps, err := substructure.ParsePatternSet(exclude)
		if err != nil {
			return Policy{}, fmt.Errorf("exclude: %w", err)
		}
		return Exclude(ps), nil
	case sel != "":
		ps, err := substructure.ParsePatternSet(sel)
		if err != nil {
			return Policy{}, fmt.Errorf("select: %w", err)
		}
		return Select(ps), nil
	default:
		return Plain(), nil
	}
}

// Kind returns the policy kind.
func (p Policy) Kind() Kind { return p.kind }

// Patterns returns the pattern set, nil for Plain.
func (p Policy) Patterns() *substructure.PatternSet { return p.patterns }

// Key is the name a ranked entry's record is looked up by. Filtering
// policies drop a conformer suffix; Plain uses the name as ranked.
func (p Policy) Key(name string) string {
	if p.kind == KindPlain {
		return name
	}
	return model.StripConformer(name)
}

// buckets returns the primary and diverted bucket of the policy.
func (p Policy) buckets() (primary, diverted Bucket) {
	switch p.kind {
	case KindExclude:
		return BucketClean, BucketExcluded
	case KindSelect:
		return BucketSelected, BucketOthers
	default:
		return BucketOutput, ""
	}
}
