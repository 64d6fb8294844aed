package substructure

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/okian/dockrank/internal/domain/chem"
)

// exprParser reads "!", "&", "," and ";" expressions over primitives.
// Precedence from tight to loose: ! & , ;
type exprParser[P any] struct {
	pattern string // whole pattern, for errors
	src     string // text being parsed
	base    int    // offset of src inside pattern
	pos     int
	prim    func(*exprParser[P]) (P, error)
	stop    func(byte) bool
}

func (e *exprParser[P]) fail(msg string) error {
	return &SyntaxError{Pattern: e.pattern, Pos: e.base + e.pos, Msg: msg}
}

func (e *exprParser[P]) peek() (byte, bool) {
	if e.pos >= len(e.src) {
		return 0, false
	}
	return e.src[e.pos], true
}

func (e *exprParser[P]) lowAnd() (*node[P], error) {
	var kids []*node[P]
	for {
		k, err := e.or()
		if err != nil {
			return nil, err
		}
		kids = append(kids, k)
		if c, ok := e.peek(); !ok || c != ';' {
			return join(opAnd, kids), nil
		}
		e.pos++
	}
}

func (e *exprParser[P]) or() (*node[P], error) {
	var kids []*node[P]
	for {
		k, err := e.highAnd()
		if err != nil {
			return nil, err
		}
		kids = append(kids, k)
		if c, ok := e.peek(); !ok || c != ',' {
			return join(opOr, kids), nil
		}
		e.pos++
	}
}

func (e *exprParser[P]) highAnd() (*node[P], error) {
	var kids []*node[P]
	for {
		k, err := e.not()
		if err != nil {
			return nil, err
		}
		kids = append(kids, k)
		c, ok := e.peek()
		if !ok || e.stop(c) || c == ',' || c == ';' {
			return join(opAnd, kids), nil
		}
		if c == '&' {
			e.pos++
		}
	}
}

func (e *exprParser[P]) not() (*node[P], error) {
	if c, ok := e.peek(); ok && c == '!' {
		e.pos++
		k, err := e.not()
		if err != nil {
			return nil, err
		}
		return &node[P]{op: opNot, kids: []*node[P]{k}}, nil
	}
	prim, err := e.prim(e)
	if err != nil {
		return nil, err
	}
	return &node[P]{prim: prim}, nil
}

func (e *exprParser[P]) number() (int, bool) {
	start := e.pos
	for e.pos < len(e.src) && isDigit(e.src[e.pos]) {
		e.pos++
	}
	if start == e.pos {
		return 0, false
	}
	n, _ := strconv.Atoi(e.src[start:e.pos])
	return n, true
}

func (e *exprParser[P]) numberOr(def int) int {
	if n, ok := e.number(); ok {
		return n
	}
	return def
}

// hydrogenAtom matches bracket atoms that denote a hydrogen atom rather
// than a hydrogen count: [H], [2H], [H+], [H-].
var hydrogenAtom = regexp.MustCompile(`^(\d*)H([+-]\d*)?$`)

func parseBracket(pattern, inner string, base int) (*node[atomPrim], error) {
	if m := hydrogenAtom.FindStringSubmatch(inner); m != nil {
		kids := []*node[atomPrim]{{prim: atomPrim{kind: atomElement, value: 1}}}
		if m[1] != "" {
			iso, _ := strconv.Atoi(m[1])
			kids = append(kids, &node[atomPrim]{prim: atomPrim{kind: atomIsotope, value: iso}})
		}
		if m[2] != "" {
			kids = append(kids, &node[atomPrim]{prim: atomPrim{kind: atomCharge, value: parseCharge(m[2])}})
		}
		return join(opAnd, kids), nil
	}

	e := &exprParser[atomPrim]{
		pattern: pattern,
		src:     inner,
		base:    base,
		prim:    parseAtomPrim,
		stop:    func(byte) bool { return false },
	}
	if inner == "" {
		return nil, e.fail("empty bracket atom")
	}
	n, err := e.lowAnd()
	if err != nil {
		return nil, err
	}
	if e.pos != len(inner) {
		return nil, e.fail("unexpected character " + string(inner[e.pos]))
	}
	return n, nil
}

func parseCharge(s string) int {
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	if len(s) == 1 {
		return sign
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil {
		return sign * len(s)
	}
	return sign * n
}

// twoLetter lists bracket symbols whose second letter would otherwise read
// as a primitive.
func twoLetter(src string, pos int) (string, bool) {
	if pos+1 >= len(src) {
		return "", false
	}
	c, d := src[pos], src[pos+1]
	if c < 'A' || c > 'Z' || d < 'a' || d > 'z' {
		return "", false
	}
	sym := string([]byte{c, d})
	return sym, chem.AtomicNumber(sym) != 0
}

func parseAtomPrim(e *exprParser[atomPrim]) (atomPrim, error) {
	c, ok := e.peek()
	if !ok {
		return atomPrim{}, e.fail("atom primitive expected")
	}
	if sym, ok := twoLetter(e.src, e.pos); ok {
		e.pos += 2
		return atomPrim{kind: atomElement, value: chem.AtomicNumber(sym), form: aliphaticForm}, nil
	}

	switch c {
	case '*':
		e.pos++
		return atomPrim{kind: atomTrue}, nil
	case '#':
		e.pos++
		n, ok := e.number()
		if !ok {
			return atomPrim{}, e.fail("'#' needs an atomic number")
		}
		return atomPrim{kind: atomElement, value: n}, nil
	case '$':
		return parseRecursive(e)
	case '@':
		for e.pos < len(e.src) && (e.src[e.pos] == '@' || e.src[e.pos] == '?') {
			e.pos++
		}
		return atomPrim{kind: atomTrue}, nil
	case ':':
		e.pos++
		if _, ok := e.number(); !ok {
			return atomPrim{}, e.fail("atom map needs a number")
		}
		return atomPrim{kind: atomTrue}, nil
	case '+', '-':
		start := e.pos
		e.pos++
		if _, ok := e.number(); !ok {
			for e.pos < len(e.src) && e.src[e.pos] == c {
				e.pos++
			}
		}
		return atomPrim{kind: atomCharge, value: parseCharge(e.src[start:e.pos])}, nil
	case 'D':
		e.pos++
		return atomPrim{kind: atomDegree, value: e.numberOr(1)}, nil
	case 'X':
		e.pos++
		return atomPrim{kind: atomConnectivity, value: e.numberOr(1)}, nil
	case 'H':
		e.pos++
		return atomPrim{kind: atomTotalH, value: e.numberOr(1)}, nil
	case 'h':
		e.pos++
		return atomPrim{kind: atomImplicitH, value: e.numberOr(anyRing)}, nil
	case 'R':
		e.pos++
		return atomPrim{kind: atomRingCount, value: e.numberOr(anyRing)}, nil
	case 'r':
		e.pos++
		return atomPrim{kind: atomRingSize, value: e.numberOr(anyRing)}, nil
	case 'v':
		e.pos++
		return atomPrim{kind: atomValence, value: e.numberOr(1)}, nil
	case 'a':
		if e.pos+1 < len(e.src) && e.src[e.pos+1] == 's' {
			e.pos += 2
			return atomPrim{kind: atomElement, value: chem.AtomicNumber("As"), form: aromaticForm}, nil
		}
		e.pos++
		return atomPrim{kind: atomAromatic}, nil
	case 'A':
		e.pos++
		return atomPrim{kind: atomAliphatic}, nil
	case 's':
		if e.pos+1 < len(e.src) && e.src[e.pos+1] == 'e' {
			e.pos += 2
			return atomPrim{kind: atomElement, value: chem.AtomicNumber("Se"), form: aromaticForm}, nil
		}
	}

	if isDigit(c) {
		n, _ := e.number()
		return atomPrim{kind: atomIsotope, value: n}, nil
	}
	switch c {
	case 'b', 'c', 'n', 'o', 'p', 's':
		e.pos++
		return atomPrim{kind: atomElement, value: chem.AtomicNumber(string(c - 'a' + 'A')), form: aromaticForm}, nil
	}
	if c >= 'A' && c <= 'Z' {
		if n := chem.AtomicNumber(string(c)); n != 0 {
			e.pos++
			return atomPrim{kind: atomElement, value: n, form: aliphaticForm}, nil
		}
	}
	return atomPrim{}, e.fail("unknown atom primitive " + string(c))
}

func parseRecursive(e *exprParser[atomPrim]) (atomPrim, error) {
	e.pos++
	if c, ok := e.peek(); !ok || c != '(' {
		return atomPrim{}, e.fail("'$' needs '('")
	}
	start := e.pos
	depth := 0
	for ; e.pos < len(e.src); e.pos++ {
		switch e.src[e.pos] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 {
			break
		}
	}
	if depth != 0 {
		return atomPrim{}, e.fail("unclosed recursive pattern")
	}
	inner := e.src[start+1 : e.pos]
	e.pos++
	sub, err := Parse(inner)
	if err != nil {
		var serr *SyntaxError
		if errors.As(err, &serr) {
			e.pos = start + 1 + serr.Pos
			return atomPrim{}, e.fail("recursive pattern: " + serr.Msg)
		}
		return atomPrim{}, err
	}
	return atomPrim{kind: atomRecursive, sub: sub}, nil
}
