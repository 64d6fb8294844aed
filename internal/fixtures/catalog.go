package fixtures

// Template is a named molecule builder.
type Template struct {
	Name string
	// Anion marks carboxylate, sulfonate and phosphate anions.
	Anion bool
	// Aromatic marks templates with at least one aromatic ring.
	Aromatic bool
	Build    func(title string) *Mol
}

// AnionPatterns is a SMARTS set matching exactly the Anion templates.
const AnionPatterns = "C(=O)[O-]|S(=O)(=O)[O-]|P(=O)(O)[O-]"

// Catalog lists every template, in a fixed order.
var Catalog = []Template{
	{Name: "benzene", Aromatic: true, Build: Benzene},
	{Name: "acetate", Anion: true, Build: Acetate},
	{Name: "ethanol", Build: Ethanol},
	{Name: "pyridine", Aromatic: true, Build: Pyridine},
	{Name: "mesylate", Anion: true, Build: Mesylate},
	{Name: "cyclohexane", Build: Cyclohexane},
	{Name: "naphthalene", Aromatic: true, Build: Naphthalene},
	{Name: "methylphosphate", Anion: true, Build: MethylPhosphate},
	{Name: "acetamide", Build: Acetamide},
	{Name: "pyrrole", Aromatic: true, Build: Pyrrole},
	{Name: "benzoate", Anion: true, Aromatic: true, Build: Benzoate},
	{Name: "toluene", Aromatic: true, Build: Toluene},
}

// Benzene is c1ccccc1 in Kekulé form.
func Benzene(title string) *Mol {
	m := NewMol(title)
	kekuleSix(m, m.ring([]string{"C", "C", "C", "C", "C", "C"}, 0, 0))
	return m
}

// Toluene is Cc1ccccc1.
func Toluene(title string) *Mol {
	m := NewMol(title)
	r := m.ring([]string{"C", "C", "C", "C", "C", "C"}, 0, 0)
	kekuleSix(m, r)
	c := m.Atom("C", 0, 2*bondLength)
	m.Bond(r[0], c, 1)
	return m
}

// Pyridine is c1ccncc1.
func Pyridine(title string) *Mol {
	m := NewMol(title)
	kekuleSix(m, m.ring([]string{"C", "C", "C", "N", "C", "C"}, 0, 0))
	return m
}

// Benzoate is [O-]C(=O)c1ccccc1.
func Benzoate(title string) *Mol {
	m := NewMol(title)
	r := m.ring([]string{"C", "C", "C", "C", "C", "C"}, 0, 0)
	kekuleSix(m, r)
	c := m.Atom("C", 0, 2*bondLength)
	o1 := m.Atom("O", -1.2, 2.7*bondLength)
	o2 := m.Ion("O", -1, 1.2, 2.7*bondLength)
	m.Bond(r[0], c, 1).Bond(c, o1, 2).Bond(c, o2, 1)
	return m
}

// Cyclohexane is C1CCCCC1.
func Cyclohexane(title string) *Mol {
	m := NewMol(title)
	r := m.ring([]string{"C", "C", "C", "C", "C", "C"}, 0, 0)
	for i := range r {
		m.Bond(r[i], r[(i+1)%len(r)], 1)
	}
	return m
}

// Naphthalene is c1ccc2ccccc2c1 with the fusion bond drawn single.
func Naphthalene(title string) *Mol {
	m := NewMol(title)
	a := m.ring([]string{"C", "C", "C", "C", "C", "C"}, 0, 0)
	// a[4] and a[5] sit on the right edge, shared with the second ring.
	b1 := m.Atom("C", 2.42, -1.4)
	b2 := m.Atom("C", 3.64, -0.7)
	b3 := m.Atom("C", 3.64, 0.7)
	b4 := m.Atom("C", 2.42, 1.4)
	m.Bond(a[0], a[1], 2).Bond(a[1], a[2], 1).Bond(a[2], a[3], 2).Bond(a[3], a[4], 1)
	m.Bond(a[4], a[5], 1).Bond(a[5], a[0], 1)
	m.Bond(a[4], b1, 2).Bond(b1, b2, 1).Bond(b2, b3, 2).Bond(b3, b4, 1).Bond(b4, a[5], 2)
	return m
}

// Pyrrole is c1cc[nH]c1 with an implicit hydrogen on nitrogen.
func Pyrrole(title string) *Mol {
	m := NewMol(title)
	r := m.ring([]string{"N", "C", "C", "C", "C"}, 0, 0)
	m.Bond(r[0], r[1], 1).Bond(r[1], r[2], 2).Bond(r[2], r[3], 1).Bond(r[3], r[4], 2).Bond(r[4], r[0], 1)
	return m
}

// Acetate is CC(=O)[O-].
func Acetate(title string) *Mol {
	m := NewMol(title)
	c1 := m.Atom("C", 0, 0)
	c2 := m.Atom("C", 1.2, 0.7)
	o1 := m.Atom("O", 1.2, 2.1)
	o2 := m.Ion("O", -1, 2.4, 0)
	m.Bond(c1, c2, 1).Bond(c2, o1, 2).Bond(c2, o2, 1)
	return m
}

// Mesylate is CS(=O)(=O)[O-].
func Mesylate(title string) *Mol {
	m := NewMol(title)
	c := m.Atom("C", 0, 0)
	s := m.Atom("S", 1.5, 0)
	o1 := m.Atom("O", 1.5, 1.5)
	o2 := m.Atom("O", 1.5, -1.5)
	o3 := m.Ion("O", -1, 3, 0)
	m.Bond(c, s, 1).Bond(s, o1, 2).Bond(s, o2, 2).Bond(s, o3, 1)
	return m
}

// MethylPhosphate is COP(=O)(O)[O-].
func MethylPhosphate(title string) *Mol {
	m := NewMol(title)
	c := m.Atom("C", -1.4, 0)
	o := m.Atom("O", 0, 0)
	p := m.Atom("P", 1.5, 0)
	o1 := m.Atom("O", 1.5, 1.5)
	o2 := m.Atom("O", 1.5, -1.5)
	o3 := m.Ion("O", -1, 3, 0)
	m.Bond(c, o, 1).Bond(o, p, 1).Bond(p, o1, 2).Bond(p, o2, 1).Bond(p, o3, 1)
	return m
}

// Ethanol is CCO.
func Ethanol(title string) *Mol {
	m := NewMol(title)
	c1 := m.Atom("C", 0, 0)
	c2 := m.Atom("C", 1.2, 0.7)
	o := m.Atom("O", 2.4, 0)
	m.Bond(c1, c2, 1).Bond(c2, o, 1)
	return m
}

// Acetamide is CC(=O)N.
func Acetamide(title string) *Mol {
	m := NewMol(title)
	c1 := m.Atom("C", 0, 0)
	c2 := m.Atom("C", 1.2, 0.7)
	o := m.Atom("O", 1.2, 2.1)
	n := m.Atom("N", 2.4, 0)
	m.Bond(c1, c2, 1).Bond(c2, o, 2).Bond(c2, n, 1)
	return m
}

// Hypervalent is a five-bonded neutral carbon that fails sanitization.
func Hypervalent(title string) *Mol {
	m := NewMol(title)
	c := m.Atom("C", 0, 0)
	for _, xy := range [][2]float64{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}} {
		m.Bond(c, m.Atom("F", xy[0], xy[1]), 1)
	}
	return m
}

func kekuleSix(m *Mol, r []int) {
	for i := range r {
		order := 1
		if i%2 == 0 {
			order = 2
		}
		m.Bond(r[i], r[(i+1)%len(r)], order)
	}
}
