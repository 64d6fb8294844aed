package substructure

import "github.com/okian/dockrank/internal/domain/chem"

// Matches reports whether m contains the pattern as a substructure.
func (p *Pattern) Matches(m *chem.Molecule) bool {
	if m == nil || len(p.atoms) > m.NumAtoms() {
		return false
	}
	return newMatcher(m, map[recursiveKey]bool{}).embed(p, -1)
}

type recursiveKey struct {
	sub  *Pattern
	atom int
}

// matcher embeds patterns into one molecule. Recursive results are cached
// per molecule.
type matcher struct {
	m     *chem.Molecule
	cache map[recursiveKey]bool
}

func newMatcher(m *chem.Molecule, cache map[recursiveKey]bool) *matcher {
	return &matcher{m: m, cache: cache}
}

func (mt *matcher) recursive(sub *Pattern, i int) bool {
	key := recursiveKey{sub: sub, atom: i}
	if v, ok := mt.cache[key]; ok {
		return v
	}
	v := mt.embed(sub, i)
	mt.cache[key] = v
	return v
}

// embed searches for one mapping of p into the molecule. root fixes the
// image of the first query atom when it is not negative.
func (mt *matcher) embed(p *Pattern, root int) bool {
	s := &state{
		mt:      mt,
		p:       p,
		mapping: make([]int, len(p.atoms)),
		used:    make([]bool, mt.m.NumAtoms()),
	}
	if root >= 0 {
		if !s.feasible(0, root) {
			return false
		}
		s.mapping[0] = root
		s.used[root] = true
		return s.extend(1)
	}
	return s.extend(0)
}

type state struct {
	mt      *matcher
	p       *Pattern
	mapping []int
	used    []bool
}

func (s *state) extend(q int) bool {
	if q == len(s.p.atoms) {
		return true
	}
	m := s.mt.m
	try := func(a int) bool {
		if s.used[a] || !s.feasible(q, a) {
			return false
		}
		s.mapping[q] = a
		s.used[a] = true
		if s.extend(q + 1) {
			return true
		}
		s.used[a] = false
		return false
	}

	if parent := s.p.parent[q]; parent >= 0 {
		for _, nb := range m.Neighbors(s.mapping[parent]) {
			if try(nb.Atom) {
				return true
			}
		}
		return false
	}
	for a := range m.NumAtoms() {
		if try(a) {
			return true
		}
	}
	return false
}

// feasible checks the atom expression of q on a and every query bond from q
// back to an already mapped atom.
func (s *state) feasible(q, a int) bool {
	m := s.mt.m
	if !s.p.atoms[q].eval(func(p atomPrim) bool { return p.matches(s.mt, m, a) }) {
		return false
	}
	for _, e := range s.p.back[q] {
		b, ok := bondBetween(m, a, s.mapping[e.other])
		if !ok {
			return false
		}
		if e.expr == nil {
			if !defaultBond(m, b) {
				return false
			}
			continue
		}
		if !e.expr.eval(func(p bondPrim) bool { return p.matches(m, b) }) {
			return false
		}
	}
	return true
}

func bondBetween(m *chem.Molecule, a, b int) (int, bool) {
	for _, nb := range m.Neighbors(a) {
		if nb.Atom == b {
			return nb.Bond, true
		}
	}
	return 0, false
}
