// Package adt holds the data-model support types shared by the validation
// engine: the Kind bitmask classifying both schema type2 nodes and data
// values, the RFC 8610 Appendix D prelude table, and occurrence/entry-count
// arithmetic. The Kind bitmask is modeled directly on cue/kind.go's `kind`
// type (a uint16 of OR-able single-bit classifications plus derived unions
// like numKind/scalarKinds), adapted from CUE's value-kind lattice to
// CDDL's CBOR/JSON major-type lattice.
package adt

import "fmt"

// Kind is a bitmask classifying a data value or a schema type2 node.
type Kind uint16

const (
	NullKind Kind = 1 << iota
	BoolKind
	IntKind  // major type 0 (uint) — split from negative ints, see UintKind/NIntKind
	NIntKind // major type 1 (negative int)
	FloatKind
	BytesKind
	StringKind
	ArrayKind
	MapKind
	TagKind // a CBOR tagged value wrapping an inner kind
	UndefinedKind

	// derived unions
	UintKind  = IntKind
	NumKind   = IntKind | NIntKind | FloatKind
	AnyKind   = NullKind | BoolKind | IntKind | NIntKind | FloatKind | BytesKind | StringKind | ArrayKind | MapKind | TagKind | UndefinedKind
	BottomKind Kind = 0
)

var names = []struct {
	k Kind
	s string
}{
	{NullKind, "null"}, {BoolKind, "bool"}, {IntKind, "uint"}, {NIntKind, "nint"},
	{FloatKind, "float"}, {BytesKind, "bytes"}, {StringKind, "text"},
	{ArrayKind, "array"}, {MapKind, "map"}, {TagKind, "tag"}, {UndefinedKind, "undefined"},
}

func (k Kind) String() string {
	if k == BottomKind {
		return "bottom"
	}
	if k == AnyKind {
		return "any"
	}
	var out string
	for _, n := range names {
		if k&n.k != 0 {
			if out != "" {
				out += "|"
			}
			out += n.s
		}
	}
	if out == "" {
		return fmt.Sprintf("Kind(%d)", uint16(k))
	}
	return out
}

// Is reports whether k includes every bit set in want.
func (k Kind) Is(want Kind) bool { return k&want == want }

// Overlaps reports whether k and other share any bit.
func (k Kind) Overlaps(other Kind) bool { return k&other != 0 }

// PreludeKind maps an RFC 8610 Appendix D prelude type name to the Kind(s)
// of values it admits. The second result is false for names that are not
// prelude types (including generic parameters and user rule names).
func PreludeKind(name string) (Kind, bool) {
	switch name {
	case "any":
		return AnyKind, true
	case "uint", "biguint", "unsigned":
		return IntKind, true
	case "nint", "bignint":
		return NIntKind, true
	case "int", "integer", "bigint":
		return IntKind | NIntKind, true
	case "float", "float16", "float32", "float64", "float16-32", "float32-64":
		return FloatKind, true
	case "number":
		return IntKind | NIntKind | FloatKind, true
	case "bstr", "bytes":
		return BytesKind, true
	case "tstr", "text":
		return StringKind, true
	case "bool":
		return BoolKind, true
	case "true", "false":
		return BoolKind, true
	case "null", "nil":
		return NullKind, true
	case "undefined":
		return UndefinedKind, true
	case "tdate", "time", "uri", "b64url", "b64legacy", "eb64url", "eb64legacy", "eb16", "encoded-cbor", "mime-message", "regexp":
		return TagKind | StringKind, true
	case "decfrac", "bigfloat":
		return ArrayKind | TagKind, true
	case "cbor-any":
		return AnyKind, true
	}
	return 0, false
}

// IsPreludeName reports whether name is one of the RFC 8610 Appendix D
// prelude identifiers (used to decide whether an otherwise-unresolved
// typename reference is a hard error or a built-in).
func IsPreludeName(name string) bool {
	_, ok := PreludeKind(name)
	return ok
}
