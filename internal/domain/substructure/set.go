// Package substructure compiles SMARTS patterns and tests molecules for
// substructure containment.
package substructure

import (
	"fmt"
	"strings"

	"github.com/okian/dockrank/internal/domain/chem"
)

// Separator splits a pattern set.
const Separator = "|"

// PatternSet is an ordered list of patterns.
type PatternSet struct {
	patterns []*Pattern
}

// ParsePatternSet compiles a pipe-delimited list such as
// "C(=O)[O-]|S(=O)(=O)[O-]". Any empty or malformed member fails the set.
func ParsePatternSet(s string) (*PatternSet, error) {
	parts := strings.Split(s, Separator)
	set := &PatternSet{patterns: make([]*Pattern, 0, len(parts))}
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("%w: member %d of %q is empty", ErrMalformedPattern, i+1, s)
		}
		p, err := Parse(part)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i+1, err)
		}
		set.patterns = append(set.patterns, p)
	}
	return set, nil
}

// Len returns the number of patterns.
func (s *PatternSet) Len() int { return len(s.patterns) }

// Pattern returns pattern i.
func (s *PatternSet) Pattern(i int) *Pattern { return s.patterns[i] }

// Sources returns the pattern texts in order.
func (s *PatternSet) Sources() []string {
	out := make([]string, len(s.patterns))
	for i, p := range s.patterns {
		out[i] = p.source
	}
	return out
}

// FirstMatch returns the index of the first pattern contained in m.
func (s *PatternSet) FirstMatch(m *chem.Molecule) (int, bool) {
	for i, p := range s.patterns {
		if p.Matches(m) {
			return i, true
		}
	}
	return -1, false
}

// Matches reports whether m contains at least one pattern.
func (s *PatternSet) Matches(m *chem.Molecule) bool {
	_, ok := s.FirstMatch(m)
	return ok
}

// String returns the set joined by the separator.
func (s *PatternSet) String() string {
	return strings.Join(s.Sources(), Separator)
}
