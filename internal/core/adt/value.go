package adt

import "github.com/cockroachdb/apd/v2"

// Value is the uniform data-model interface the validation engine walks:
// both the CBOR decoder (internal/cborval) and the JSON adapter
// (internal/jsonval) produce values satisfying this interface, letting
// internal/core/validate's engine stay data-model-agnostic except where
// spec.md §4.F explicitly calls out CBOR-only or JSON-only behavior (tags,
// .bits/.cbor/.cborseq).
type Value interface {
	// Kind classifies this value for admissibility checks.
	Kind() Kind

	// Bool, Int, Uint, Float, Text, Bytes return the underlying scalar.
	// Callers must check Kind first; these panic on a kind mismatch.
	Bool() bool
	Int() int64
	Uint() uint64
	Float() float64
	Decimal() *apd.Decimal // authoritative numeric value, for bignum compares
	Text() string
	Bytes() []byte

	// Array/Map access.
	ArrayLen() int
	ArrayItem(i int) Value

	MapLen() int
	// MapKeys returns the map's keys. CBOR maps (internal/cborval) keep
	// encounter order; JSON objects (internal/jsonval) return their keys in
	// no defined order.
	MapKeys() []Value
	// MapValue returns the value paired with a key equal to k, and whether
	// one was found. Equality is value-equality (scalar compare), not
	// pointer identity.
	MapValue(k Value) (Value, bool)

	// Tag returns (tagNumber, inner, true) when Kind().Is(TagKind); CBOR
	// values carry real tag numbers, JSON values never report TagKind
	// (spec.md: tags are CBOR-only; JSON tag lexical conventions are
	// synthesized directly by the engine from string shape).
	Tag() (num int64, inner Value, ok bool)

	// IsNegativeInt reports whether an IntKind/NIntKind value is in CBOR
	// major type 1 (negative integer) territory — used to distinguish
	// `uint` from `nint` from plain `int`.
	IsNegativeInt() bool

	// Path is a human-readable location of this value within its root
	// document, e.g. "/foo/3" (spec.md §6 "data-value path").
	Path() string
}

// Equal reports scalar/array/map value-equality, used by literal matching
// and the .eq/.ne controls.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() && !(a.Kind().Overlaps(NumKind) && b.Kind().Overlaps(NumKind)) {
		return false
	}
	switch {
	case a.Kind().Is(NullKind):
		return true
	case a.Kind().Is(BoolKind):
		return a.Bool() == b.Bool()
	case a.Kind().Overlaps(NumKind):
		return a.Decimal().Cmp(b.Decimal()) == 0
	case a.Kind().Is(StringKind):
		return a.Text() == b.Text()
	case a.Kind().Is(BytesKind):
		return string(a.Bytes()) == string(b.Bytes())
	case a.Kind().Is(ArrayKind):
		if a.ArrayLen() != b.ArrayLen() {
			return false
		}
		for i := 0; i < a.ArrayLen(); i++ {
			if !Equal(a.ArrayItem(i), b.ArrayItem(i)) {
				return false
			}
		}
		return true
	case a.Kind().Is(MapKind):
		if a.MapLen() != b.MapLen() {
			return false
		}
		for _, k := range a.MapKeys() {
			av, _ := a.MapValue(k)
			bv, ok := b.MapValue(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}
