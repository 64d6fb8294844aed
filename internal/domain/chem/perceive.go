package chem

import (
	"slices"
	"strconv"
	"strings"
)

// cycle is a ring candidate for aromaticity: its atoms and the bonds to mark.
type cycle struct {
	atoms []int
	bonds []int
}

// perceiveRings finds, for every ring bond, the shortest cycle through it.
// The deduplicated set equals the SSSR for the fused and bridged systems
// found in drug-like molecules.
func (m *Molecule) perceiveRings() {
	n := len(m.atoms)
	m.atomRings = make([]int, n)
	m.smallestRing = make([]int, n)
	m.ringBond = make([]bool, len(m.bonds))

	seen := map[string]struct{}{}
	for b := range m.bonds {
		atoms, bonds := m.shortestCycle(b)
		if atoms == nil {
			continue
		}
		key := cycleKey(bonds)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		m.rings = append(m.rings, atoms)
		m.ringBonds = append(m.ringBonds, bonds)
	}

	for r, atoms := range m.rings {
		for _, a := range atoms {
			m.atomRings[a]++
			if s := len(atoms); m.smallestRing[a] == 0 || s < m.smallestRing[a] {
				m.smallestRing[a] = s
			}
		}
		for _, b := range m.ringBonds[r] {
			m.ringBond[b] = true
		}
	}
}

// shortestCycle runs a BFS from one end of bond b to the other without
// crossing b. It returns nil when b is not in a ring.
func (m *Molecule) shortestCycle(b int) ([]int, []int) {
	from, to := m.bonds[b].From, m.bonds[b].To
	if m.hidden[from] || m.hidden[to] {
		return nil, nil
	}
	prev := make([]Neighbor, len(m.atoms))
	visited := make([]bool, len(m.atoms))
	visited[from] = true
	queue := []int{from}
	for len(queue) > 0 && !visited[to] {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range m.adj[cur] {
			if nb.Bond == b || visited[nb.Atom] || m.hidden[nb.Atom] {
				continue
			}
			visited[nb.Atom] = true
			prev[nb.Atom] = Neighbor{Atom: cur, Bond: nb.Bond}
			queue = append(queue, nb.Atom)
		}
	}
	if !visited[to] {
		return nil, nil
	}
	atoms := []int{to}
	bonds := []int{b}
	for cur := to; cur != from; cur = prev[cur].Atom {
		bonds = append(bonds, prev[cur].Bond)
		atoms = append(atoms, prev[cur].Atom)
	}
	return atoms, bonds
}

func cycleKey(bonds []int) string {
	sorted := slices.Clone(bonds)
	slices.Sort(sorted)
	parts := make([]string, len(sorted))
	for i, b := range sorted {
		parts[i] = strconv.Itoa(b)
	}
	return strings.Join(parts, ",")
}

// perceiveAromaticity applies the 4n+2 rule to single rings and to pairs
// of rings fused on one bond, repeating until nothing changes so that
// exocyclic double bonds into already aromatic rings can count.
func (m *Molecule) perceiveAromaticity() {
	m.aromAtom = make([]bool, len(m.atoms))
	m.aromBond = make([]bool, len(m.bonds))

	candidates := make([]cycle, 0, len(m.rings))
	for r := range m.rings {
		candidates = append(candidates, cycle{atoms: m.rings[r], bonds: m.ringBonds[r]})
	}
	for i := range m.rings {
		for j := i + 1; j < len(m.rings); j++ {
			if c, ok := m.fuse(i, j); ok {
				candidates = append(candidates, c)
			}
		}
	}

	done := make([]bool, len(candidates))
	for changed := true; changed; {
		changed = false
		for i, c := range candidates {
			if done[i] || !m.huckel(c) {
				continue
			}
			done[i] = true
			changed = true
			for _, a := range c.atoms {
				m.aromAtom[a] = true
			}
			for _, b := range c.bonds {
				m.aromBond[b] = true
			}
		}
	}
}

// fuse returns the envelope of rings i and j when they share exactly one bond.
func (m *Molecule) fuse(i, j int) (cycle, bool) {
	shared := 0
	for _, b := range m.ringBonds[i] {
		if slices.Contains(m.ringBonds[j], b) {
			shared++
		}
	}
	if shared != 1 {
		return cycle{}, false
	}
	atoms := slices.Clone(m.rings[i])
	for _, a := range m.rings[j] {
		if !slices.Contains(atoms, a) {
			atoms = append(atoms, a)
		}
	}
	bonds := slices.Clone(m.ringBonds[i])
	for _, b := range m.ringBonds[j] {
		if !slices.Contains(bonds, b) {
			bonds = append(bonds, b)
		}
	}
	return cycle{atoms: atoms, bonds: bonds}, true
}

func (m *Molecule) huckel(c cycle) bool {
	allAromatic := true
	for _, b := range c.bonds {
		if m.bonds[b].Order != BondAromatic {
			allAromatic = false
			break
		}
	}
	if allAromatic {
		return true
	}

	in := make(map[int]bool, len(c.atoms))
	for _, a := range c.atoms {
		in[a] = true
	}
	electrons := 0
	for _, a := range c.atoms {
		e, ok := m.piElectrons(a, in)
		if !ok {
			return false
		}
		electrons += e
	}
	return electrons%4 == 2
}

// piElectrons returns the electrons atom a donates to the ring made of in.
func (m *Molecule) piElectrons(a int, in map[int]bool) (int, bool) {
	exo := -1
	for _, nb := range m.adj[a] {
		switch m.bonds[nb.Bond].Order {
		case BondTriple:
			return 0, false
		case BondDouble, BondAromatic:
			if in[nb.Atom] {
				return 1, true
			}
			if m.bonds[nb.Bond].Order == BondDouble {
				exo = nb.Atom
			}
		}
	}
	if exo >= 0 {
		if m.aromAtom[exo] {
			return 1, true
		}
		switch m.atoms[exo].Number {
		case 7, 8, 16:
			return 0, true
		}
		return 0, false
	}

	atom := m.atoms[a]
	switch atom.Number {
	case 6:
		switch atom.Charge {
		case -1:
			return 2, true
		case 1:
			return 0, true
		}
	case 7, 15:
		if atom.Charge == -1 || (atom.Charge == 0 && len(m.adj[a])+m.implicitH[a] <= 3) {
			return 2, true
		}
	case 8, 16, 34:
		if atom.Charge == 0 {
			return 2, true
		}
	case 5:
		if atom.Charge == 0 {
			return 0, true
		}
	}
	return 0, false
}
