package substructure

import "github.com/okian/dockrank/internal/domain/chem"

type op uint8

const (
	opPrim op = iota
	opNot
	opAnd
	opOr
)

// node is a boolean expression over primitives of type P.
type node[P any] struct {
	op   op
	prim P
	kids []*node[P]
}

func (n *node[P]) eval(f func(P) bool) bool {
	switch n.op {
	case opNot:
		return !n.kids[0].eval(f)
	case opAnd:
		for _, k := range n.kids {
			if !k.eval(f) {
				return false
			}
		}
		return true
	case opOr:
		for _, k := range n.kids {
			if k.eval(f) {
				return true
			}
		}
		return false
	default:
		return f(n.prim)
	}
}

func join[P any](o op, kids []*node[P]) *node[P] {
	if len(kids) == 1 {
		return kids[0]
	}
	return &node[P]{op: o, kids: kids}
}

type atomKind uint8

const (
	atomTrue atomKind = iota
	atomElement
	atomAromatic
	atomAliphatic
	atomDegree
	atomConnectivity
	atomTotalH
	atomImplicitH
	atomRingCount
	atomRingSize
	atomValence
	atomCharge
	atomIsotope
	atomRecursive
)

// aromaticity requirement of an element primitive.
const (
	eitherForm = iota
	aliphaticForm
	aromaticForm
)

// anyRing marks R, r and h given without a count.
const anyRing = -1

type atomPrim struct {
	kind  atomKind
	value int
	form  int
	sub   *Pattern
}

func (p atomPrim) matches(mt *matcher, m *chem.Molecule, i int) bool {
	switch p.kind {
	case atomTrue:
		return true
	case atomElement:
		if m.Atom(i).Number != p.value {
			return false
		}
		switch p.form {
		case aliphaticForm:
			return !m.IsAromatic(i)
		case aromaticForm:
			return m.IsAromatic(i)
		}
		return true
	case atomAromatic:
		return m.IsAromatic(i)
	case atomAliphatic:
		return !m.IsAromatic(i)
	case atomDegree:
		return m.Degree(i) == p.value
	case atomConnectivity:
		return m.Connectivity(i) == p.value
	case atomTotalH:
		return m.TotalH(i) == p.value
	case atomImplicitH:
		if p.value == anyRing {
			return m.ImplicitH(i) > 0
		}
		return m.ImplicitH(i) == p.value
	case atomRingCount:
		if p.value == anyRing {
			return m.RingCount(i) > 0
		}
		return m.RingCount(i) == p.value
	case atomRingSize:
		if p.value == anyRing {
			return m.SmallestRing(i) > 0
		}
		return m.SmallestRing(i) == p.value
	case atomValence:
		return m.Valence(i) == p.value
	case atomCharge:
		return m.Atom(i).Charge == p.value
	case atomIsotope:
		return m.Atom(i).Isotope == p.value
	case atomRecursive:
		return mt.recursive(p.sub, i)
	}
	return false
}

type bondKind uint8

const (
	bondSingle bondKind = iota
	bondDouble
	bondTriple
	bondAromatic
	bondAny
	bondRing
)

type bondPrim struct {
	kind bondKind
}

func (p bondPrim) matches(m *chem.Molecule, b int) bool {
	order := m.Bond(b).Order
	aromatic := m.IsAromaticBond(b)
	switch p.kind {
	case bondSingle:
		return order == chem.BondSingle && !aromatic
	case bondDouble:
		return order == chem.BondDouble && !aromatic
	case bondTriple:
		return order == chem.BondTriple
	case bondAromatic:
		return aromatic
	case bondRing:
		return m.IsRingBond(b)
	default:
		return true
	}
}

// defaultBond matches an unwritten bond: single or aromatic.
func defaultBond(m *chem.Molecule, b int) bool {
	return m.IsAromaticBond(b) || m.Bond(b).Order == chem.BondSingle
}
