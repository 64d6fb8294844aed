// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LabelSeparator joins the fields of a composite record label and marks
// names that were already labelled by an earlier run.
const LabelSeparator = "::"

// ScoreRecord is one docking result: a molecule name and its score.
// Lower scores rank better.
type ScoreRecord struct {
	Name  string
	Score float64
}

// Valid reports whether the record has a name and a finite score.
func (r ScoreRecord) Valid() bool {
	return r.Name != "" && !math.IsNaN(r.Score) && !math.IsInf(r.Score, 0)
}

// Entry is a ranked ScoreRecord; Rank starts at 1.
type Entry struct {
	Rank  int
	Name  string
	Score float64
}

// Label builds the "name::rank::score::tool" label written into output records.
// The score is printed with one decimal.
func Label(name string, rank int, score float64, dock string) string {
	return fmt.Sprintf("%s%s%d%s%.1f%s%s",
		name, LabelSeparator, rank, LabelSeparator, score, LabelSeparator, dock)
}

// StripLabel returns name up to the first LabelSeparator.
func StripLabel(name string) string {
	base, _, _ := strings.Cut(name, LabelSeparator)
	return base
}

// StripConformer drops a conformer suffix: everything from the first underscore.
func StripConformer(name string) string {
	base, _, _ := strings.Cut(name, "_")
	return base
}

// FormatScore renders a score the way ledger rows expect: shortest exact
// decimal, always with a fractional part ("-9.0", "-7.25").
func FormatScore(score float64) string {
	s := strconv.FormatFloat(score, 'f', -1, 64)
	if math.IsInf(score, 0) || math.IsNaN(score) {
		return s
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
