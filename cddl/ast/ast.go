// Package ast defines the CDDL abstract syntax tree, a typed mirror of the
// ABNF grammar in RFC 8610 Appendix B. Node shapes and span-carrying fields
// follow the pattern used throughout cue/ast (one struct per grammar
// production, a Pos()/End() pair on every node) adapted to CDDL's grammar
// rather than CUE's.
package ast

import "cddlang.org/go/cddl/token"

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Pos
	End() token.Pos
}

// File is a parsed CDDL document: an ordered, non-empty list of Rules.
type File struct {
	Name  string
	Rules []*Rule
}

func (f *File) Pos() token.Pos {
	if len(f.Rules) == 0 {
		return token.NoPos
	}
	return f.Rules[0].Pos()
}

func (f *File) End() token.Pos {
	if len(f.Rules) == 0 {
		return token.NoPos
	}
	return f.Rules[len(f.Rules)-1].End()
}

// RootRule returns the first type rule with no generic parameters, per
// spec.md's root-selection rule (§3, §8 "Root selection"). Extension rules
// (`/=`, `//=`) and socket/plug definitions (`$ident`, `$$ident`) are never
// roots: they exist to be merged into a base rule, not to stand alone as
// the document's main type.
func (f *File) RootRule() *Rule {
	for _, r := range f.Rules {
		if r.IsGroup {
			continue
		}
		if r.Assign != AssignReplace || r.Name.IsSocket || r.Name.IsPlug {
			continue
		}
		if len(r.Params) == 0 {
			return r
		}
	}
	return nil
}

// AssignKind distinguishes the three rule-assignment operators.
type AssignKind int

const (
	AssignReplace    AssignKind = iota // =
	AssignTypeUnion                    // /=
	AssignGroupUnion                   // //=
)

// Rule is a named definition: either a type rule (Type != nil) or a group
// rule (Group != nil), optionally generic.
type Rule struct {
	Name    *Ident
	Params  []*Ident // generic parameters, e.g. the T in g<T> = [ * T ]
	Assign  AssignKind
	IsGroup bool

	Type  *Type       // set when !IsGroup
	Group *GroupChoice // set when IsGroup; a single group choice entry-list

	StartPos token.Pos
	EndPos   token.Pos
}

func (r *Rule) Pos() token.Pos { return r.StartPos }
func (r *Rule) End() token.Pos { return r.EndPos }

// Ident is an identifier reference: a typename, groupname, bareword, socket
// ($ident), or plug ($$ident). Generic arguments, if any, are the types
// supplied at a reference site (e.g. g<int> supplies [int]).
type Ident struct {
	Name     string
	IsSocket bool
	IsPlug   bool
	Args     []*Type // generic arguments at a reference site
	NamePos  token.Pos
}

func (i *Ident) Pos() token.Pos { return i.NamePos }
func (i *Ident) End() token.Pos {
	if n := len(i.Args); n > 0 {
		return i.Args[n-1].End()
	}
	p := i.NamePos
	p.Offset += len(i.Name)
	p.Column += len(i.Name)
	return p
}

// Type is a non-empty ordered list of type choices joined by '/'.
type Type struct {
	Choices  []*Type1
	StartPos token.Pos
}

func (t *Type) Pos() token.Pos { return t.StartPos }
func (t *Type) End() token.Pos {
	if len(t.Choices) == 0 {
		return t.StartPos
	}
	return t.Choices[len(t.Choices)-1].End()
}

// RangeOp distinguishes the two range forms.
type RangeOp int

const (
	NoRange     RangeOp = iota
	RangeIncl           // ..  (inclusive of upper bound)
	RangeExcl            // ... (exclusive of upper bound)
)

// Type1 is a single type-choice alternative: either a bare Type2, a range
// `Type2 .. Type2` / `Type2 ... Type2`, or a control operator
// `Type2 .ctrl Type2`.
type Type1 struct {
	Target  *Type2
	Range   RangeOp
	Control string // control operator name without the leading '.', "" if none
	Arg     *Type2 // range upper bound, or the control's controller
}

func (t *Type1) Pos() token.Pos { return t.Target.Pos() }
func (t *Type1) End() token.Pos {
	if t.Arg != nil {
		return t.Arg.End()
	}
	return t.Target.End()
}

// Type2Kind discriminates the Type2 union.
type Type2Kind int

const (
	T2Literal   Type2Kind = iota // value literal
	T2Typename                    // identifier reference (+ optional generic args, carried on Ident)
	T2Paren                       // ( Type )
	T2Map                         // { Group }
	T2Array                       // [ Group ]
	T2Unwrap                      // ~Ident
	T2Enum                        // &Ident or &( Group )
	T2Tag                         // #6.N(Type) / #M.C / #M / #
	T2AnyMajor                    // bare '#'
)

// LiteralKind discriminates a T2Literal value.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitUint
	LitFloat
	LitText
	LitBytes
	LitBool
)

// Type2 is one alternative of a type1's target or argument. Exactly the
// fields relevant to Kind are populated.
type Type2 struct {
	Kind Type2Kind

	// T2Literal
	LitKind LiteralKind
	Text    string  // decoded text, for LitText
	Bytes   []byte  // decoded bytes, for LitBytes
	Num     *NumberLit
	Bool    bool

	// T2Typename
	Name *Ident

	// T2Paren
	Paren *Type

	// T2Map / T2Array
	Group *Group

	// T2Unwrap
	Unwrap *Ident

	// T2Enum
	EnumName  *Ident // set when &name form used
	EnumGroup *Group // set when &( group ) form used

	// T2Tag
	TagMajor int  // -1 if omitted (bare '#')
	TagMinor int  // -1 if omitted
	TagNum   int64 // -1 if not a #6.N(...) form
	TagType  *Type // inner type for #6.N(T); nil otherwise

	StartPos token.Pos
	EndPos   token.Pos
}

func (t *Type2) Pos() token.Pos { return t.StartPos }
func (t *Type2) End() token.Pos { return t.EndPos }

// NumberLit carries a parsed numeric literal (see cddl/literal.Number).
type NumberLit struct {
	Text  string
	IsInt bool
	I64   int64
	U64   uint64
	F64   float64
	Neg   bool
	// BigText preserves the literal for apd.Decimal re-parsing by consumers
	// that need bignum precision (the AST itself stays dependency-light).
	BigText string
}

// Group is a non-empty list of group choices joined by '//'.
type Group struct {
	Choices  []*GroupChoice
	StartPos token.Pos
}

func (g *Group) Pos() token.Pos { return g.StartPos }
func (g *Group) End() token.Pos {
	if len(g.Choices) == 0 {
		return g.StartPos
	}
	return g.Choices[len(g.Choices)-1].End()
}

// GroupChoice is an ordered list of (GroupEntry, trailing-comma) pairs.
type GroupChoice struct {
	Entries  []*GroupEntry
	StartPos token.Pos
	EndPos   token.Pos
}

func (c *GroupChoice) Pos() token.Pos { return c.StartPos }
func (c *GroupChoice) End() token.Pos { return c.EndPos }

// GroupEntryKind discriminates the GroupEntry union.
type GroupEntryKind int

const (
	GEValueMemberKey GroupEntryKind = iota
	GETypeGroupname
	GEInlineGroup
)

// Occurrence is an occurrence indicator on a group entry: ?, *, +, or N*M.
type Occurrence struct {
	Present bool
	Min     int
	Max     int // -1 means unbounded
}

// MemberKeyKind discriminates how a map entry's key is spelled.
type MemberKeyKind int

const (
	MKNone     MemberKeyKind = iota // no key: bare type (array element)
	MKType                          // `K ^ => V` or `K => V`
	MKBareword                      // `k: V` (implicit cut)
	MKValue                         // literal key (always cut)
)

// MemberKey is the key side of a value-member-key group entry.
type MemberKey struct {
	Kind MemberKeyKind
	Cut  bool
	Type *Type1 // MKType, MKValue (literal wrapped as a Type1)
	Name *Ident // MKBareword
}

// GroupEntry is one element of a group, optionally preceded by an
// occurrence indicator.
type GroupEntry struct {
	Kind GroupEntryKind
	Occ  Occurrence

	// GEValueMemberKey
	Key       *MemberKey // nil if entry has no key (plain array element)
	ValueType *Type

	// GETypeGroupname
	Ref *Ident

	// GEInlineGroup
	Inline *Group

	StartPos token.Pos
	EndPos   token.Pos
}

func (e *GroupEntry) Pos() token.Pos { return e.StartPos }
func (e *GroupEntry) End() token.Pos { return e.EndPos }
