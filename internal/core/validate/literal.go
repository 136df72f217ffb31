package validate

import (
	"math/big"

	"github.com/cockroachdb/apd/v2"

	"cddlang.org/go/cddl/ast"
	"cddlang.org/go/internal/core/adt"
)

type apdDecimal = apd.Decimal

// decimalFromNumberLit re-parses a NumberLit's preserved source text at
// arbitrary precision, matching the engine's use of apd.Decimal for every
// numeric comparison (spec.md §9 "Numeric precision").
func decimalFromNumberLit(n *ast.NumberLit) *apdDecimal {
	text := n.BigText
	if text == "" {
		text = n.Text
	}
	d, _, err := apd.NewFromString(text)
	if err != nil {
		return apd.New(0, 0)
	}
	return d
}

func apdPow256(n int64) *apdDecimal {
	bi := new(big.Int).Exp(big.NewInt(256), big.NewInt(n), nil)
	d, _, _ := apd.NewFromString(bi.String())
	return d
}

// literalValue adapts a single AST literal Type2 node into an adt.Value so
// it can be compared against data values with adt.Equal, avoiding a
// separate literal-vs-data comparison code path.
type literalValue struct {
	t2 *ast.Type2
}

func (l *literalValue) Kind() adt.Kind {
	switch l.t2.LitKind {
	case ast.LitText:
		return adt.StringKind
	case ast.LitBytes:
		return adt.BytesKind
	case ast.LitBool:
		return adt.BoolKind
	case ast.LitFloat:
		return adt.FloatKind
	case ast.LitUint:
		return adt.IntKind
	case ast.LitInt:
		if l.t2.Num != nil && l.t2.Num.Neg {
			return adt.NIntKind
		}
		return adt.IntKind
	}
	return adt.BottomKind
}

func (l *literalValue) Bool() bool { return l.t2.Bool }
func (l *literalValue) Int() int64 {
	if l.t2.Num != nil {
		return l.t2.Num.I64
	}
	return 0
}
func (l *literalValue) Uint() uint64 {
	if l.t2.Num != nil {
		return l.t2.Num.U64
	}
	return 0
}
func (l *literalValue) Float() float64 {
	if l.t2.Num != nil {
		return l.t2.Num.F64
	}
	return 0
}
func (l *literalValue) Decimal() *apd.Decimal {
	if l.t2.Num == nil {
		return apd.New(0, 0)
	}
	return decimalFromNumberLit(l.t2.Num)
}
func (l *literalValue) Text() string  { return l.t2.Text }
func (l *literalValue) Bytes() []byte { return l.t2.Bytes }

func (l *literalValue) ArrayLen() int                        { panic("validate: ArrayLen on literal value") }
func (l *literalValue) ArrayItem(i int) adt.Value             { panic("validate: ArrayItem on literal value") }
func (l *literalValue) MapLen() int                           { panic("validate: MapLen on literal value") }
func (l *literalValue) MapKeys() []adt.Value                  { panic("validate: MapKeys on literal value") }
func (l *literalValue) MapValue(k adt.Value) (adt.Value, bool) { return nil, false }
func (l *literalValue) Tag() (int64, adt.Value, bool)          { return 0, nil, false }
func (l *literalValue) IsNegativeInt() bool                    { return l.Kind() == adt.NIntKind }
func (l *literalValue) Path() string                           { return "" }

// textValue is a minimal adt.Value wrapping a bareword map-key string
// (spec.md §4.F "bareword identifiers ... supported").
type textValue struct{ s string }

func (t *textValue) Kind() adt.Kind                        { return adt.StringKind }
func (t *textValue) Bool() bool                            { panic("validate: Bool on text value") }
func (t *textValue) Int() int64                            { panic("validate: Int on text value") }
func (t *textValue) Uint() uint64                           { panic("validate: Uint on text value") }
func (t *textValue) Float() float64                         { panic("validate: Float on text value") }
func (t *textValue) Decimal() *apd.Decimal                  { panic("validate: Decimal on text value") }
func (t *textValue) Text() string                           { return t.s }
func (t *textValue) Bytes() []byte                          { return []byte(t.s) }
func (t *textValue) ArrayLen() int                           { panic("validate: ArrayLen on text value") }
func (t *textValue) ArrayItem(i int) adt.Value               { panic("validate: ArrayItem on text value") }
func (t *textValue) MapLen() int                             { panic("validate: MapLen on text value") }
func (t *textValue) MapKeys() []adt.Value                    { panic("validate: MapKeys on text value") }
func (t *textValue) MapValue(k adt.Value) (adt.Value, bool)  { return nil, false }
func (t *textValue) Tag() (int64, adt.Value, bool)           { return 0, nil, false }
func (t *textValue) IsNegativeInt() bool                     { return false }
func (t *textValue) Path() string                            { return "" }
