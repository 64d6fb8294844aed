// Package chem models molecules read from SD files: the atom/bond graph, ring
// and aromaticity perception, valence sanitization and the SDF record codec.
package chem

import (
	"fmt"
	"math"
)

// BondOrder is the connection table bond type.
type BondOrder int

// Bond orders as written in V2000 bond blocks.
const (
	BondSingle   BondOrder = 1
	BondDouble   BondOrder = 2
	BondTriple   BondOrder = 3
	BondAromatic BondOrder = 4
)

// Atom is one connection table atom.
type Atom struct {
	Symbol  string
	Number  int
	X, Y, Z float64
	Charge  int
	Isotope int
}

// Bond joins two atoms by zero-based index.
type Bond struct {
	From, To int
	Order    BondOrder
}

// Neighbor is one adjacency entry.
type Neighbor struct {
	Atom int
	Bond int
}

// Molecule is an immutable, sanitized molecule graph with perceived rings
// and aromaticity. Explicit hydrogen atoms stay graph atoms; those bonded to
// a single heavy atom are also counted in its hydrogen total and marked
// hidden for depiction.
type Molecule struct {
	atoms []Atom
	bonds []Bond
	adj   [][]Neighbor

	hidden    []bool
	explicitV []int
	implicitH []int
	neighborH []int

	rings        [][]int // atom indices per ring
	ringBonds    [][]int // bond indices per ring
	atomRings    []int
	smallestRing []int
	ringBond     []bool
	aromAtom     []bool
	aromBond     []bool
}

// NewMolecule validates and perceives a molecule from its atoms and bonds.
// It returns an error when a bond references a missing atom or an atom
// exceeds its permitted valence.
func NewMolecule(atoms []Atom, bonds []Bond) (*Molecule, error) {
	m := &Molecule{
		atoms: atoms,
		bonds: bonds,
		adj:   make([][]Neighbor, len(atoms)),
	}
	for i, b := range bonds {
		if b.From < 0 || b.From >= len(atoms) || b.To < 0 || b.To >= len(atoms) || b.From == b.To {
			return nil, fmt.Errorf("%w: bond %d joins atoms %d and %d of %d", ErrInvalidBond, i+1, b.From+1, b.To+1, len(atoms))
		}
		if b.Order < BondSingle || b.Order > BondAromatic {
			return nil, fmt.Errorf("%w: bond %d has order %d", ErrInvalidBond, i+1, b.Order)
		}
		m.adj[b.From] = append(m.adj[b.From], Neighbor{Atom: b.To, Bond: i})
		m.adj[b.To] = append(m.adj[b.To], Neighbor{Atom: b.From, Bond: i})
	}
	if err := m.sanitize(); err != nil {
		return nil, err
	}
	m.perceiveRings()
	m.perceiveAromaticity()
	return m, nil
}

// sanitize assigns explicit valences and implicit hydrogens, rejecting
// atoms whose explicit valence exceeds every permitted valence.
func (m *Molecule) sanitize() error {
	n := len(m.atoms)
	m.hidden = make([]bool, n)
	m.explicitV = make([]int, n)
	m.implicitH = make([]int, n)
	m.neighborH = make([]int, n)

	for i, a := range m.atoms {
		var sum, aromatic int
		for _, nb := range m.adj[i] {
			switch o := m.bonds[nb.Bond].Order; o {
			case BondAromatic:
				aromatic++
				sum++
			default:
				sum += int(o)
			}
			if m.atoms[nb.Atom].Number == 1 {
				m.neighborH[i]++
			}
		}
		if aromatic > 0 && valenceChecked(a.Number) {
			if v, ok := targetValence(a.Number, a.Charge, 0); ok && sum+1 <= v {
				sum++
			}
		}
		m.explicitV[i] = sum

		if !valenceChecked(a.Number) {
			continue
		}
		target, ok := targetValence(a.Number, a.Charge, sum)
		if !ok {
			return &ValenceError{Atom: i + 1, Symbol: a.Symbol, Valence: sum}
		}
		m.implicitH[i] = target - sum
	}

	for i, a := range m.atoms {
		if a.Number != 1 || a.Charge != 0 || a.Isotope != 0 || len(m.adj[i]) != 1 {
			continue
		}
		if m.atoms[m.adj[i][0].Atom].Number != 1 {
			m.hidden[i] = true
		}
	}
	return nil
}

// NumAtoms returns the atom count, hidden hydrogens included.
func (m *Molecule) NumAtoms() int { return len(m.atoms) }

// NumBonds returns the bond count.
func (m *Molecule) NumBonds() int { return len(m.bonds) }

// Atom returns atom i.
func (m *Molecule) Atom(i int) Atom { return m.atoms[i] }

// Bond returns bond i.
func (m *Molecule) Bond(i int) Bond { return m.bonds[i] }

// Neighbors returns every neighbour of atom i.
func (m *Molecule) Neighbors(i int) []Neighbor { return m.adj[i] }

// Hidden reports whether atom i is a hydrogen drawn as part of its neighbour.
func (m *Molecule) Hidden(i int) bool { return m.hidden[i] }

// Degree returns the number of graph neighbours of atom i, explicit
// hydrogens included.
func (m *Molecule) Degree(i int) int { return len(m.adj[i]) }

// TotalH returns implicit plus explicit hydrogens on atom i.
func (m *Molecule) TotalH(i int) int { return m.implicitH[i] + m.neighborH[i] }

// ImplicitH returns the hydrogens implied by valence on atom i.
func (m *Molecule) ImplicitH(i int) int { return m.implicitH[i] }

// Connectivity returns the total number of connections of atom i, implicit
// hydrogens included.
func (m *Molecule) Connectivity(i int) int { return len(m.adj[i]) + m.implicitH[i] }

// Valence returns the total valence of atom i.
func (m *Molecule) Valence(i int) int { return m.explicitV[i] + m.implicitH[i] }

// IsAromatic reports whether atom i belongs to an aromatic ring.
func (m *Molecule) IsAromatic(i int) bool { return m.aromAtom[i] }

// IsAromaticBond reports whether bond b belongs to an aromatic ring.
func (m *Molecule) IsAromaticBond(b int) bool { return m.aromBond[b] }

// IsRingBond reports whether bond b is part of a cycle.
func (m *Molecule) IsRingBond(b int) bool { return m.ringBond[b] }

// RingCount returns the number of perceived rings containing atom i.
func (m *Molecule) RingCount(i int) int { return m.atomRings[i] }

// SmallestRing returns the size of the smallest ring containing atom i, or 0.
func (m *Molecule) SmallestRing(i int) int { return m.smallestRing[i] }

// Rings returns the perceived rings as atom index lists.
func (m *Molecule) Rings() [][]int { return m.rings }

// Bounds returns the 2-D bounding box of the visible atoms.
func (m *Molecule) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for i, a := range m.atoms {
		if m.hidden[i] {
			continue
		}
		minX, maxX = math.Min(minX, a.X), math.Max(maxX, a.X)
		minY, maxY = math.Min(minY, a.Y), math.Max(maxY, a.Y)
	}
	if math.IsInf(minX, 1) {
		return 0, 0, 0, 0
	}
	return minX, minY, maxX, maxY
}
