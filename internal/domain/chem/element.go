package chem

// element describes what the parser and matcher need to know about an element.
type element struct {
	number   int
	symbol   string
	valences []int // allowed neutral valences, ascending; nil means unchecked
}

var elements = []element{
	{1, "H", []int{1}},
	{2, "He", nil},
	{3, "Li", []int{1}},
	{4, "Be", []int{2}},
	{5, "B", []int{3}},
	{6, "C", []int{4}},
	{7, "N", []int{3}},
	{8, "O", []int{2}},
	{9, "F", []int{1}},
	{10, "Ne", nil},
	{11, "Na", []int{1}},
	{12, "Mg", []int{2}},
	{13, "Al", []int{3}},
	{14, "Si", []int{4}},
	{15, "P", []int{3, 5, 7}},
	{16, "S", []int{2, 4, 6}},
	{17, "Cl", []int{1}},
	{18, "Ar", nil},
	{19, "K", []int{1}},
	{20, "Ca", []int{2}},
	{25, "Mn", nil},
	{26, "Fe", nil},
	{27, "Co", nil},
	{28, "Ni", nil},
	{29, "Cu", nil},
	{30, "Zn", nil},
	{33, "As", []int{3, 5, 7}},
	{34, "Se", []int{2, 4, 6}},
	{35, "Br", []int{1}},
	{36, "Kr", nil},
	{44, "Ru", nil},
	{45, "Rh", nil},
	{46, "Pd", nil},
	{47, "Ag", nil},
	{50, "Sn", nil},
	{51, "Sb", nil},
	{52, "Te", []int{2, 4, 6}},
	{53, "I", []int{1, 3, 5}},
	{54, "Xe", nil},
	{77, "Ir", nil},
	{78, "Pt", nil},
	{79, "Au", nil},
	{80, "Hg", nil},
}

var (
	bySymbol = map[string]element{}
	byNumber = map[int]element{}
)

func init() {
	for _, e := range elements {
		bySymbol[e.symbol] = e
		byNumber[e.number] = e
	}
	// Query-only pseudo atoms written by some docking tools.
	bySymbol["D"] = element{1, "H", []int{1}}
	bySymbol["T"] = element{1, "H", []int{1}}
}

// AtomicNumber returns the atomic number of symbol, or 0 when unknown.
func AtomicNumber(symbol string) int {
	return bySymbol[symbol].number
}

// Symbol returns the element symbol for an atomic number.
func Symbol(number int) string {
	if e, ok := byNumber[number]; ok {
		return e.symbol
	}
	return "*"
}

// targetValence returns the smallest allowed valence for an atom of the given
// element and charge that is at least explicit. ok is false when the element
// has no valence model or every allowed valence is exceeded.
func targetValence(number, charge, explicit int) (int, bool) {
	e, known := byNumber[number]
	if !known || e.valences == nil {
		return explicit, false
	}
	for _, v := range e.valences {
		v = adjustForCharge(number, v, charge)
		if v >= explicit {
			return v, true
		}
	}
	return explicit, false
}

// adjustForCharge follows isoelectronic reasoning: cations of group 15-17
// gain a bond (N+ like C), anions lose one (O- like F); boron and carbon lose
// a bond for either sign except B- which behaves like C.
func adjustForCharge(number, valence, charge int) int {
	if charge == 0 {
		return valence
	}
	switch number {
	case 5:
		return valence - charge
	case 6, 14:
		if charge < 0 {
			return valence + charge
		}
		return valence - charge
	default:
		return valence + charge
	}
}

// valenceChecked reports whether the element has a valence model.
func valenceChecked(number int) bool {
	e, ok := byNumber[number]
	return ok && e.valences != nil
}
