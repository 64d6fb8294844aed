// Package fixtures builds synthetic docking runs: V2000 mol blocks, SD files
// and score tables with a realistic score distribution.
package fixtures

import (
	"fmt"
	"math"
	"strings"
)

// Mol builds one V2000 SD record.
type Mol struct {
	title string
	atoms []molAtom
	bonds [][3]int
	props [][2]string
}

type molAtom struct {
	symbol string
	charge int
	x, y   float64
}

// NewMol starts a record titled title.
func NewMol(title string) *Mol {
	return &Mol{title: title}
}

// Atom adds a neutral atom and returns its 1-based index.
func (m *Mol) Atom(symbol string, x, y float64) int {
	return m.Ion(symbol, 0, x, y)
}

// Ion adds a charged atom and returns its 1-based index.
func (m *Mol) Ion(symbol string, charge int, x, y float64) int {
	m.atoms = append(m.atoms, molAtom{symbol: symbol, charge: charge, x: x, y: y})
	return len(m.atoms)
}

// Bond joins atoms a and b (1-based).
func (m *Mol) Bond(a, b, order int) *Mol {
	m.bonds = append(m.bonds, [3]int{a, b, order})
	return m
}

// Prop adds a data item.
func (m *Mol) Prop(key, value string) *Mol {
	m.props = append(m.props, [2]string{key, value})
	return m
}

// Retitle returns a copy of m with a new title.
func (m *Mol) Retitle(title string) *Mol {
	c := *m
	c.title = title
	c.props = append([][2]string(nil), m.props...)
	return &c
}

// String renders the record including the trailing "$$$$".
func (m *Mol) String() string {
	var sb strings.Builder
	sb.WriteString(m.title + "\n")
	sb.WriteString("  dockrank          2D\n\n")
	fmt.Fprintf(&sb, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", len(m.atoms), len(m.bonds))
	var charged []int
	for i, a := range m.atoms {
		fmt.Fprintf(&sb, "%10.4f%10.4f%10.4f %-3s 0  0  0  0  0  0  0  0  0  0  0  0\n", a.x, a.y, 0.0, a.symbol)
		if a.charge != 0 {
			charged = append(charged, i)
		}
	}
	for _, b := range m.bonds {
		fmt.Fprintf(&sb, "%3d%3d%3d  0\n", b[0], b[1], b[2])
	}
	for start := 0; start < len(charged); start += 8 {
		chunk := charged[start:min(start+8, len(charged))]
		fmt.Fprintf(&sb, "M  CHG%3d", len(chunk))
		for _, i := range chunk {
			fmt.Fprintf(&sb, " %3d %3d", i+1, m.atoms[i].charge)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("M  END\n")
	for _, p := range m.props {
		fmt.Fprintf(&sb, "> <%s>\n%s\n\n", p[0], p[1])
	}
	sb.WriteString("$$$$\n")
	return sb.String()
}

// ring places n atoms of the given symbols on a regular polygon centred on
// (cx, cy) and returns their indices.
func (m *Mol) ring(symbols []string, cx, cy float64) []int {
	n := len(symbols)
	idx := make([]int, n)
	for i, s := range symbols {
		angle := math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		idx[i] = m.Atom(s, cx+bondLength*math.Cos(angle), cy+bondLength*math.Sin(angle))
	}
	return idx
}

const bondLength = 1.4
