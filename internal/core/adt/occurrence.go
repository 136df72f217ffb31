package adt

import "cddlang.org/go/cddl/ast"

// OccursRange returns the (min, max) occurrence bounds implied by occ,
// defaulting to the "exactly one" bound when occ is absent, per spec.md
// §4.F "Occurrence arithmetic": ? -> 0..1, * -> 0..∞, + -> 1..∞, N*M -> N..M.
// max == -1 means unbounded.
func OccursRange(occ ast.Occurrence) (min, max int) {
	if !occ.Present {
		return 1, 1
	}
	return occ.Min, occ.Max
}

// IsPerElement reports whether occ should be applied per-array-element
// (iterate and check each item against the element type) rather than
// positionally (one entry per array slot). Per spec.md §4.F "Group inside
// an array": '*' and '+' occurrences (any N*M with Max == -1, or Min/Max
// spanning more than the literal entry count) get per-element treatment;
// a bare entry (no occurrence) or a fixed '?' is positional.
func IsPerElement(occ ast.Occurrence) bool {
	if !occ.Present {
		return false
	}
	return occ.Max == -1 || occ.Max > 1
}

// EntryCount sums the (min, max) occurrence bounds of every entry in a
// group choice, used for map/array arity checks (spec.md §4.F "Group
// choices ... compute the per-choice entry count"). max == -1 propagates
// as unbounded.
func EntryCount(gc *ast.GroupChoice) (min, max int) {
	for _, e := range gc.Entries {
		emin, emax := OccursRange(e.Occ)
		min += emin
		if max == -1 || emax == -1 {
			max = -1
		} else {
			max += emax
		}
	}
	return min, max
}

// InRange reports whether n falls within [min, max] (max == -1 meaning
// unbounded above).
func InRange(n, min, max int) bool {
	if n < min {
		return false
	}
	return max == -1 || n <= max
}
