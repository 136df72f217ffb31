package cborval

import (
	"fmt"

	"github.com/cockroachdb/apd/v2"

	"cddlang.org/go/internal/core/adt"
)

// Each concrete type below implements adt.Value for exactly one CBOR major
// type; callers distinguish them only through Kind(), same discipline as
// internal/jsonval's single value type switching on an interface{} — split
// out here because CBOR's major types map to genuinely distinct Go
// representations (uint64 vs a separate negative-int magnitude, etc.)
// rather than one boxed interface{}.

type uintValue struct {
	n    uint64
	path string
}

func (v *uintValue) Kind() adt.Kind { return adt.IntKind }
func (v *uintValue) Bool() bool     { panic("cbor: Bool on uint value") }
func (v *uintValue) Int() int64     { return int64(v.n) }
func (v *uintValue) Uint() uint64   { return v.n }
func (v *uintValue) Float() float64 { return float64(v.n) }
func (v *uintValue) Decimal() *apd.Decimal {
	d, _, _ := apd.NewFromString(fmt.Sprintf("%d", v.n))
	return d
}
func (v *uintValue) Text() string                      { panic("cbor: Text on uint value") }
func (v *uintValue) Bytes() []byte                      { panic("cbor: Bytes on uint value") }
func (v *uintValue) ArrayLen() int                      { panic("cbor: ArrayLen on uint value") }
func (v *uintValue) ArrayItem(i int) adt.Value          { panic("cbor: ArrayItem on uint value") }
func (v *uintValue) MapLen() int                        { panic("cbor: MapLen on uint value") }
func (v *uintValue) MapKeys() []adt.Value               { panic("cbor: MapKeys on uint value") }
func (v *uintValue) MapValue(k adt.Value) (adt.Value, bool) { return nil, false }
func (v *uintValue) Tag() (int64, adt.Value, bool)      { return 0, nil, false }
func (v *uintValue) IsNegativeInt() bool                { return false }
func (v *uintValue) Path() string                       { return v.path }

type nintValue struct {
	n    uint64 // CBOR-encoded magnitude; actual value is -1 - n
	path string
}

func (v *nintValue) Kind() adt.Kind { return adt.NIntKind }
func (v *nintValue) Bool() bool     { panic("cbor: Bool on nint value") }
func (v *nintValue) Int() int64     { return -1 - int64(v.n) }
func (v *nintValue) Uint() uint64   { panic("cbor: Uint on nint value") }
func (v *nintValue) Float() float64 { return float64(v.Int()) }
func (v *nintValue) Decimal() *apd.Decimal {
	d, _, _ := apd.NewFromString(fmt.Sprintf("%d", v.Int()))
	return d
}
func (v *nintValue) Text() string                      { panic("cbor: Text on nint value") }
func (v *nintValue) Bytes() []byte                      { panic("cbor: Bytes on nint value") }
func (v *nintValue) ArrayLen() int                      { panic("cbor: ArrayLen on nint value") }
func (v *nintValue) ArrayItem(i int) adt.Value          { panic("cbor: ArrayItem on nint value") }
func (v *nintValue) MapLen() int                        { panic("cbor: MapLen on nint value") }
func (v *nintValue) MapKeys() []adt.Value               { panic("cbor: MapKeys on nint value") }
func (v *nintValue) MapValue(k adt.Value) (adt.Value, bool) { return nil, false }
func (v *nintValue) Tag() (int64, adt.Value, bool)      { return 0, nil, false }
func (v *nintValue) IsNegativeInt() bool                { return true }
func (v *nintValue) Path() string                       { return v.path }

type floatValue struct {
	f    float64
	path string
}

func (v *floatValue) Kind() adt.Kind { return adt.FloatKind }
func (v *floatValue) Bool() bool     { panic("cbor: Bool on float value") }
func (v *floatValue) Int() int64     { return int64(v.f) }
func (v *floatValue) Uint() uint64   { return uint64(v.f) }
func (v *floatValue) Float() float64 { return v.f }
func (v *floatValue) Decimal() *apd.Decimal {
	d, _, _ := apd.NewFromString(fmt.Sprintf("%v", v.f))
	return d
}
func (v *floatValue) Text() string                      { panic("cbor: Text on float value") }
func (v *floatValue) Bytes() []byte                      { panic("cbor: Bytes on float value") }
func (v *floatValue) ArrayLen() int                      { panic("cbor: ArrayLen on float value") }
func (v *floatValue) ArrayItem(i int) adt.Value          { panic("cbor: ArrayItem on float value") }
func (v *floatValue) MapLen() int                        { panic("cbor: MapLen on float value") }
func (v *floatValue) MapKeys() []adt.Value               { panic("cbor: MapKeys on float value") }
func (v *floatValue) MapValue(k adt.Value) (adt.Value, bool) { return nil, false }
func (v *floatValue) Tag() (int64, adt.Value, bool)      { return 0, nil, false }
func (v *floatValue) IsNegativeInt() bool                { return false }
func (v *floatValue) Path() string                       { return v.path }

type textValue struct {
	s    string
	path string
}

func (v *textValue) Kind() adt.Kind                      { return adt.StringKind }
func (v *textValue) Bool() bool                          { panic("cbor: Bool on text value") }
func (v *textValue) Int() int64                          { panic("cbor: Int on text value") }
func (v *textValue) Uint() uint64                         { panic("cbor: Uint on text value") }
func (v *textValue) Float() float64                       { panic("cbor: Float on text value") }
func (v *textValue) Decimal() *apd.Decimal                { panic("cbor: Decimal on text value") }
func (v *textValue) Text() string                         { return v.s }
func (v *textValue) Bytes() []byte                        { return []byte(v.s) }
func (v *textValue) ArrayLen() int                        { panic("cbor: ArrayLen on text value") }
func (v *textValue) ArrayItem(i int) adt.Value            { panic("cbor: ArrayItem on text value") }
func (v *textValue) MapLen() int                          { panic("cbor: MapLen on text value") }
func (v *textValue) MapKeys() []adt.Value                 { panic("cbor: MapKeys on text value") }
func (v *textValue) MapValue(k adt.Value) (adt.Value, bool) { return nil, false }
func (v *textValue) Tag() (int64, adt.Value, bool)        { return 0, nil, false }
func (v *textValue) IsNegativeInt() bool                  { return false }
func (v *textValue) Path() string                         { return v.path }

type bytesValue struct {
	b    []byte
	path string
}

func (v *bytesValue) Kind() adt.Kind                      { return adt.BytesKind }
func (v *bytesValue) Bool() bool                          { panic("cbor: Bool on bytes value") }
func (v *bytesValue) Int() int64                          { panic("cbor: Int on bytes value") }
func (v *bytesValue) Uint() uint64                         { panic("cbor: Uint on bytes value") }
func (v *bytesValue) Float() float64                       { panic("cbor: Float on bytes value") }
func (v *bytesValue) Decimal() *apd.Decimal                { panic("cbor: Decimal on bytes value") }
func (v *bytesValue) Text() string                         { panic("cbor: Text on bytes value") }
func (v *bytesValue) Bytes() []byte                        { return v.b }
func (v *bytesValue) ArrayLen() int                        { panic("cbor: ArrayLen on bytes value") }
func (v *bytesValue) ArrayItem(i int) adt.Value            { panic("cbor: ArrayItem on bytes value") }
func (v *bytesValue) MapLen() int                          { panic("cbor: MapLen on bytes value") }
func (v *bytesValue) MapKeys() []adt.Value                 { panic("cbor: MapKeys on bytes value") }
func (v *bytesValue) MapValue(k adt.Value) (adt.Value, bool) { return nil, false }
func (v *bytesValue) Tag() (int64, adt.Value, bool)        { return 0, nil, false }
func (v *bytesValue) IsNegativeInt() bool                  { return false }
func (v *bytesValue) Path() string                         { return v.path }

type boolValue struct {
	b    bool
	path string
}

func (v *boolValue) Kind() adt.Kind                      { return adt.BoolKind }
func (v *boolValue) Bool() bool                          { return v.b }
func (v *boolValue) Int() int64                          { panic("cbor: Int on bool value") }
func (v *boolValue) Uint() uint64                         { panic("cbor: Uint on bool value") }
func (v *boolValue) Float() float64                       { panic("cbor: Float on bool value") }
func (v *boolValue) Decimal() *apd.Decimal                { panic("cbor: Decimal on bool value") }
func (v *boolValue) Text() string                         { panic("cbor: Text on bool value") }
func (v *boolValue) Bytes() []byte                        { panic("cbor: Bytes on bool value") }
func (v *boolValue) ArrayLen() int                        { panic("cbor: ArrayLen on bool value") }
func (v *boolValue) ArrayItem(i int) adt.Value            { panic("cbor: ArrayItem on bool value") }
func (v *boolValue) MapLen() int                          { panic("cbor: MapLen on bool value") }
func (v *boolValue) MapKeys() []adt.Value                 { panic("cbor: MapKeys on bool value") }
func (v *boolValue) MapValue(k adt.Value) (adt.Value, bool) { return nil, false }
func (v *boolValue) Tag() (int64, adt.Value, bool)        { return 0, nil, false }
func (v *boolValue) IsNegativeInt() bool                  { return false }
func (v *boolValue) Path() string                         { return v.path }

type nullValue struct{ path string }

func (v *nullValue) Kind() adt.Kind                      { return adt.NullKind }
func (v *nullValue) Bool() bool                          { panic("cbor: Bool on null value") }
func (v *nullValue) Int() int64                          { panic("cbor: Int on null value") }
func (v *nullValue) Uint() uint64                         { panic("cbor: Uint on null value") }
func (v *nullValue) Float() float64                       { panic("cbor: Float on null value") }
func (v *nullValue) Decimal() *apd.Decimal                { panic("cbor: Decimal on null value") }
func (v *nullValue) Text() string                         { panic("cbor: Text on null value") }
func (v *nullValue) Bytes() []byte                        { panic("cbor: Bytes on null value") }
func (v *nullValue) ArrayLen() int                        { panic("cbor: ArrayLen on null value") }
func (v *nullValue) ArrayItem(i int) adt.Value            { panic("cbor: ArrayItem on null value") }
func (v *nullValue) MapLen() int                          { panic("cbor: MapLen on null value") }
func (v *nullValue) MapKeys() []adt.Value                 { panic("cbor: MapKeys on null value") }
func (v *nullValue) MapValue(k adt.Value) (adt.Value, bool) { return nil, false }
func (v *nullValue) Tag() (int64, adt.Value, bool)        { return 0, nil, false }
func (v *nullValue) IsNegativeInt() bool                  { return false }
func (v *nullValue) Path() string                         { return v.path }

// undefinedValue also stands in for any CBOR simple value without a more
// specific Kind (RFC 8949 §3.3); simple carries the raw simple-value number
// for diagnostics.
type undefinedValue struct {
	path   string
	simple uint64
}

func (v *undefinedValue) Kind() adt.Kind                      { return adt.UndefinedKind }
func (v *undefinedValue) Bool() bool                          { panic("cbor: Bool on undefined value") }
func (v *undefinedValue) Int() int64                          { panic("cbor: Int on undefined value") }
func (v *undefinedValue) Uint() uint64                         { panic("cbor: Uint on undefined value") }
func (v *undefinedValue) Float() float64                       { panic("cbor: Float on undefined value") }
func (v *undefinedValue) Decimal() *apd.Decimal                { panic("cbor: Decimal on undefined value") }
func (v *undefinedValue) Text() string                         { panic("cbor: Text on undefined value") }
func (v *undefinedValue) Bytes() []byte                        { panic("cbor: Bytes on undefined value") }
func (v *undefinedValue) ArrayLen() int                        { panic("cbor: ArrayLen on undefined value") }
func (v *undefinedValue) ArrayItem(i int) adt.Value            { panic("cbor: ArrayItem on undefined value") }
func (v *undefinedValue) MapLen() int                          { panic("cbor: MapLen on undefined value") }
func (v *undefinedValue) MapKeys() []adt.Value                 { panic("cbor: MapKeys on undefined value") }
func (v *undefinedValue) MapValue(k adt.Value) (adt.Value, bool) { return nil, false }
func (v *undefinedValue) Tag() (int64, adt.Value, bool)        { return 0, nil, false }
func (v *undefinedValue) IsNegativeInt() bool                  { return false }
func (v *undefinedValue) Path() string                         { return v.path }

type arrayValue struct {
	items []adt.Value
	path  string
}

func (v *arrayValue) Kind() adt.Kind           { return adt.ArrayKind }
func (v *arrayValue) Bool() bool               { panic("cbor: Bool on array value") }
func (v *arrayValue) Int() int64               { panic("cbor: Int on array value") }
func (v *arrayValue) Uint() uint64              { panic("cbor: Uint on array value") }
func (v *arrayValue) Float() float64            { panic("cbor: Float on array value") }
func (v *arrayValue) Decimal() *apd.Decimal     { panic("cbor: Decimal on array value") }
func (v *arrayValue) Text() string              { panic("cbor: Text on array value") }
func (v *arrayValue) Bytes() []byte             { panic("cbor: Bytes on array value") }
func (v *arrayValue) ArrayLen() int             { return len(v.items) }
func (v *arrayValue) ArrayItem(i int) adt.Value { return v.items[i] }
func (v *arrayValue) MapLen() int               { panic("cbor: MapLen on array value") }
func (v *arrayValue) MapKeys() []adt.Value      { panic("cbor: MapKeys on array value") }
func (v *arrayValue) MapValue(k adt.Value) (adt.Value, bool) { return nil, false }
func (v *arrayValue) Tag() (int64, adt.Value, bool)          { return 0, nil, false }
func (v *arrayValue) IsNegativeInt() bool                    { return false }
func (v *arrayValue) Path() string                           { return v.path }

type mapValue struct {
	keys, vals []adt.Value
	path       string
}

func (v *mapValue) Kind() adt.Kind { return adt.MapKind }
func (v *mapValue) Bool() bool     { panic("cbor: Bool on map value") }
func (v *mapValue) Int() int64     { panic("cbor: Int on map value") }
func (v *mapValue) Uint() uint64    { panic("cbor: Uint on map value") }
func (v *mapValue) Float() float64  { panic("cbor: Float on map value") }
func (v *mapValue) Decimal() *apd.Decimal { panic("cbor: Decimal on map value") }
func (v *mapValue) Text() string    { panic("cbor: Text on map value") }
func (v *mapValue) Bytes() []byte   { panic("cbor: Bytes on map value") }
func (v *mapValue) ArrayLen() int   { panic("cbor: ArrayLen on map value") }
func (v *mapValue) ArrayItem(i int) adt.Value { panic("cbor: ArrayItem on map value") }
func (v *mapValue) MapLen() int     { return len(v.keys) }
func (v *mapValue) MapKeys() []adt.Value { return v.keys }
func (v *mapValue) MapValue(k adt.Value) (adt.Value, bool) {
	for i, mk := range v.keys {
		if adt.Equal(mk, k) {
			return v.vals[i], true
		}
	}
	return nil, false
}
func (v *mapValue) Tag() (int64, adt.Value, bool) { return 0, nil, false }
func (v *mapValue) IsNegativeInt() bool           { return false }
func (v *mapValue) Path() string                  { return v.path }

type tagValue struct {
	num   int64
	inner adt.Value
	path  string
}

func (v *tagValue) Kind() adt.Kind { return adt.TagKind }
func (v *tagValue) Bool() bool     { panic("cbor: Bool on tag value") }
func (v *tagValue) Int() int64     { panic("cbor: Int on tag value") }
func (v *tagValue) Uint() uint64    { panic("cbor: Uint on tag value") }
func (v *tagValue) Float() float64  { panic("cbor: Float on tag value") }
func (v *tagValue) Decimal() *apd.Decimal { panic("cbor: Decimal on tag value") }
func (v *tagValue) Text() string    { panic("cbor: Text on tag value") }
func (v *tagValue) Bytes() []byte   { panic("cbor: Bytes on tag value") }
func (v *tagValue) ArrayLen() int   { panic("cbor: ArrayLen on tag value") }
func (v *tagValue) ArrayItem(i int) adt.Value { panic("cbor: ArrayItem on tag value") }
func (v *tagValue) MapLen() int     { panic("cbor: MapLen on tag value") }
func (v *tagValue) MapKeys() []adt.Value { panic("cbor: MapKeys on tag value") }
func (v *tagValue) MapValue(k adt.Value) (adt.Value, bool) { return nil, false }
func (v *tagValue) Tag() (int64, adt.Value, bool)          { return v.num, v.inner, true }
func (v *tagValue) IsNegativeInt() bool                    { return false }
func (v *tagValue) Path() string                           { return v.path }
