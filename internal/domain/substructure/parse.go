package substructure

import (
	"strings"

	"github.com/okian/dockrank/internal/domain/chem"
)

// Pattern is a compiled SMARTS query.
type Pattern struct {
	source string
	atoms  []*node[atomPrim]
	parent []int     // bonded predecessor, -1 for the first atom of a component
	back   [][]qEdge // bonds to lower-numbered atoms
}

type qEdge struct {
	other int
	expr  *node[bondPrim] // nil for an unwritten bond
}

// String returns the source text.
func (p *Pattern) String() string { return p.source }

// NumAtoms returns the number of query atoms.
func (p *Pattern) NumAtoms() int { return len(p.atoms) }

// Parse compiles a SMARTS pattern. Supported: organic-subset and bracket
// atoms, *, #n, a, A, D, X, H, h, R, r, v, charges, isotopes, recursive $(),
// the operators ! & , ; for atoms and bonds, the bonds - = # : ~ @ / \,
// branches, ring closures and "." separated components.
func Parse(smarts string) (*Pattern, error) {
	p := &parser{src: smarts, pat: &Pattern{source: smarts}}
	if err := p.chain(); err != nil {
		return nil, err
	}
	return p.pat, nil
}

// MustParse is Parse that panics on error.
func MustParse(smarts string) *Pattern {
	p, err := Parse(smarts)
	if err != nil {
		panic(err)
	}
	return p
}

type ringOpen struct {
	atom int
	bond *node[bondPrim]
	set  bool
}

type parser struct {
	src string
	pos int
	pat *Pattern
}

func (p *parser) fail(msg string) error {
	return &SyntaxError{Pattern: p.src, Pos: p.pos, Msg: msg}
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) chain() error {
	if strings.TrimSpace(p.src) == "" {
		return p.fail("empty pattern")
	}
	prev := -1
	var bond *node[bondPrim]
	bondSet := false
	var branches []int
	rings := map[int]ringOpen{}

	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '(':
			if prev < 0 || bondSet {
				return p.fail("branch without a preceding atom")
			}
			branches = append(branches, prev)
			p.pos++
		case c == ')':
			if len(branches) == 0 || bondSet {
				return p.fail("unbalanced ')'")
			}
			prev = branches[len(branches)-1]
			branches = branches[:len(branches)-1]
			p.pos++
		case c == '.':
			if bondSet || len(branches) > 0 {
				return p.fail("'.' inside a branch or after a bond")
			}
			prev = -1
			p.pos++
		case c == '%' || isDigit(c):
			if prev < 0 {
				return p.fail("ring closure without a preceding atom")
			}
			num, err := p.ringNumber()
			if err != nil {
				return err
			}
			if open, ok := rings[num]; ok {
				expr := bond
				if !bondSet && open.set {
					expr = open.bond
				}
				if err := p.connect(open.atom, prev, expr); err != nil {
					return err
				}
				delete(rings, num)
			} else {
				rings[num] = ringOpen{atom: prev, bond: bond, set: bondSet}
			}
			bond, bondSet = nil, false
		case isBondChar(c):
			if prev < 0 || bondSet {
				return p.fail("bond without a preceding atom")
			}
			expr, err := p.bondExpr()
			if err != nil {
				return err
			}
			bond, bondSet = expr, true
		default:
			expr, err := p.atom()
			if err != nil {
				return err
			}
			idx := len(p.pat.atoms)
			p.pat.atoms = append(p.pat.atoms, expr)
			p.pat.parent = append(p.pat.parent, prev)
			p.pat.back = append(p.pat.back, nil)
			if prev >= 0 {
				if err := p.connect(prev, idx, bond); err != nil {
					return err
				}
			}
			prev = idx
			bond, bondSet = nil, false
		}
	}

	switch {
	case bondSet:
		return p.fail("pattern ends with a bond")
	case len(branches) > 0:
		return p.fail("unclosed branch")
	case len(rings) > 0:
		return p.fail("unclosed ring")
	case len(p.pat.atoms) == 0:
		return p.fail("no atoms")
	}
	return nil
}

func (p *parser) connect(a, b int, expr *node[bondPrim]) error {
	lo, hi := min(a, b), max(a, b)
	if lo == hi {
		return p.fail("ring closure to the same atom")
	}
	for _, e := range p.pat.back[hi] {
		if e.other == lo {
			return p.fail("duplicate bond")
		}
	}
	p.pat.back[hi] = append(p.pat.back[hi], qEdge{other: lo, expr: expr})
	return nil
}

func (p *parser) ringNumber() (int, error) {
	if p.src[p.pos] != '%' {
		n := int(p.src[p.pos] - '0')
		p.pos++
		return n, nil
	}
	p.pos++
	if p.pos+2 > len(p.src) || !isDigit(p.src[p.pos]) || !isDigit(p.src[p.pos+1]) {
		return 0, p.fail("'%' needs two digits")
	}
	n := int(p.src[p.pos]-'0')*10 + int(p.src[p.pos+1]-'0')
	p.pos += 2
	return n, nil
}

func (p *parser) atom() (*node[atomPrim], error) {
	c := p.src[p.pos]
	if c == '[' {
		end, err := p.closing(p.pos, '[', ']')
		if err != nil {
			return nil, err
		}
		inner := p.src[p.pos+1 : end]
		base := p.pos + 1
		p.pos = end + 1
		return parseBracket(p.src, inner, base)
	}
	if c == '*' {
		p.pos++
		return &node[atomPrim]{prim: atomPrim{kind: atomTrue}}, nil
	}
	for _, sym := range []string{"Cl", "Br", "B", "C", "N", "O", "P", "S", "F", "I"} {
		if strings.HasPrefix(p.src[p.pos:], sym) {
			p.pos += len(sym)
			return &node[atomPrim]{prim: atomPrim{kind: atomElement, value: chem.AtomicNumber(sym), form: aliphaticForm}}, nil
		}
	}
	switch c {
	case 'b', 'c', 'n', 'o', 'p', 's':
		p.pos++
		return &node[atomPrim]{prim: atomPrim{kind: atomElement, value: chem.AtomicNumber(strings.ToUpper(string(c))), form: aromaticForm}}, nil
	case 'a':
		p.pos++
		return &node[atomPrim]{prim: atomPrim{kind: atomAromatic}}, nil
	case 'A':
		p.pos++
		return &node[atomPrim]{prim: atomPrim{kind: atomAliphatic}}, nil
	}
	return nil, p.fail("unexpected character " + string(c))
}

// closing returns the index of the bracket closing the one at start,
// skipping nested brackets and parentheses.
func (p *parser) closing(start int, open, shut byte) (int, error) {
	depth := 0
	for i := start; i < len(p.src); i++ {
		switch p.src[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		}
		if depth == 0 {
			if p.src[i] != shut || p.src[start] != open {
				break
			}
			return i, nil
		}
	}
	return 0, p.fail("unclosed " + string(open))
}

func (p *parser) bondExpr() (*node[bondPrim], error) {
	e := &exprParser[bondPrim]{
		pattern: p.src,
		src:     p.src,
		pos:     p.pos,
		prim:    parseBondPrim,
		stop:    func(c byte) bool { return !isBondChar(c) },
	}
	n, err := e.lowAnd()
	p.pos = e.pos
	return n, err
}

func parseBondPrim(e *exprParser[bondPrim]) (bondPrim, error) {
	c, ok := e.peek()
	if !ok {
		return bondPrim{}, e.fail("bond expected")
	}
	kinds := map[byte]bondKind{
		'-': bondSingle, '/': bondSingle, '\\': bondSingle,
		'=': bondDouble, '#': bondTriple, ':': bondAromatic,
		'~': bondAny, '@': bondRing,
	}
	k, ok := kinds[c]
	if !ok {
		return bondPrim{}, e.fail("unknown bond " + string(c))
	}
	e.pos++
	return bondPrim{kind: k}, nil
}

func isBondChar(c byte) bool {
	return strings.IndexByte(`-=#:~@/\!&,;`, c) >= 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
