// Package printer re-emits a CDDL AST as source text. It exists to drive the
// "parser idempotence" property (spec.md §8: reparsing the pretty-print of a
// parsed document yields a semantically equivalent AST), the way cue/format
// backs the teacher's own CUE round-trip tests. This is not a general CDDL
// formatter: output favors unambiguous reparsing over layout.
package printer

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"cddlang.org/go/cddl/ast"
)

// File renders a complete document, one rule per line.
//
// Known limitation: a group rule assigned with plain '=' is printed with no
// enclosing parens, matching how cddl/parser's parseGroupChoiceBare reads a
// bare entry list back. That requires the first entry to be something
// looksLikeGroupRule's single-token lookahead recognizes as group-only — a
// bareword key, an explicit '=>' key, or an occurrence indicator — or the
// rule reparses as a type instead. Wrapping in parens does not fix this: a
// parenthesized group-rule body parses as a single inline-group entry, not
// a flat entry list, so it isn't a faithful round trip either. Schemas
// written the normal way (group rules factor out keyed map/array fields)
// are unaffected; this is why the golden corpus below keeps every plain '='
// group rule's first entry keyed.
func File(f *ast.File) string {
	var b strings.Builder
	for i, r := range f.Rules {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Rule(r))
		b.WriteByte('\n')
	}
	return b.String()
}

// Rule renders a single rule definition/extension.
func Rule(r *ast.Rule) string {
	var b strings.Builder
	b.WriteString(r.Name.Name)
	if len(r.Params) > 0 {
		b.WriteByte('<')
		for i, p := range r.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Name)
		}
		b.WriteByte('>')
	}
	b.WriteByte(' ')
	b.WriteString(assignOp(r.Assign))
	b.WriteByte(' ')
	if r.IsGroup {
		b.WriteString(groupChoice(r.Group))
	} else {
		b.WriteString(typ(r.Type))
	}
	return b.String()
}

func assignOp(a ast.AssignKind) string {
	switch a {
	case ast.AssignTypeUnion:
		return "/="
	case ast.AssignGroupUnion:
		return "//="
	default:
		return "="
	}
}

func typ(t *ast.Type) string {
	parts := make([]string, len(t.Choices))
	for i, c := range t.Choices {
		parts[i] = type1(c)
	}
	return strings.Join(parts, " / ")
}

func type1(t1 *ast.Type1) string {
	s := type2(t1.Target)
	switch t1.Range {
	case ast.RangeIncl:
		return s + " .. " + type2(t1.Arg)
	case ast.RangeExcl:
		return s + " ... " + type2(t1.Arg)
	}
	if t1.Control != "" {
		return s + " ." + t1.Control + " " + type2(t1.Arg)
	}
	return s
}

func type2(t2 *ast.Type2) string {
	switch t2.Kind {
	case ast.T2Literal:
		return literalText(t2)
	case ast.T2Typename:
		return identRef(t2.Name)
	case ast.T2Paren:
		return "(" + typ(t2.Paren) + ")"
	case ast.T2Map:
		return "{" + group(t2.Group) + "}"
	case ast.T2Array:
		return "[" + group(t2.Group) + "]"
	case ast.T2Unwrap:
		return "~" + identRef(t2.Unwrap)
	case ast.T2Enum:
		if t2.EnumGroup != nil {
			return "&(" + group(t2.EnumGroup) + ")"
		}
		return "&" + identRef(t2.EnumName)
	case ast.T2Tag:
		return tag(t2)
	case ast.T2AnyMajor:
		return "#"
	}
	return ""
}

func literalText(t2 *ast.Type2) string {
	switch t2.LitKind {
	case ast.LitInt, ast.LitUint, ast.LitFloat:
		return t2.Num.Text
	case ast.LitText:
		return quoteText(t2.Text)
	case ast.LitBytes:
		return "h'" + hex.EncodeToString(t2.Bytes) + "'"
	case ast.LitBool:
		return strconv.FormatBool(t2.Bool)
	}
	return ""
}

func tag(t2 *ast.Type2) string {
	if t2.TagMajor == 6 {
		switch {
		case t2.TagType != nil && t2.TagNum >= 0:
			return fmt.Sprintf("#6.%d(%s)", t2.TagNum, typ(t2.TagType))
		case t2.TagType != nil:
			return fmt.Sprintf("#6(%s)", typ(t2.TagType))
		case t2.TagNum >= 0:
			return fmt.Sprintf("#6.%d", t2.TagNum)
		default:
			return "#6"
		}
	}
	if t2.TagMinor >= 0 {
		return fmt.Sprintf("#%d.%d", t2.TagMajor, t2.TagMinor)
	}
	return fmt.Sprintf("#%d", t2.TagMajor)
}

func group(g *ast.Group) string {
	parts := make([]string, len(g.Choices))
	for i, c := range g.Choices {
		parts[i] = groupChoice(c)
	}
	return strings.Join(parts, " // ")
}

func groupChoice(gc *ast.GroupChoice) string {
	parts := make([]string, len(gc.Entries))
	for i, e := range gc.Entries {
		parts[i] = groupEntry(e)
	}
	return strings.Join(parts, ", ")
}

func groupEntry(e *ast.GroupEntry) string {
	occ := occurrence(e.Occ)
	switch e.Kind {
	case ast.GETypeGroupname:
		return occ + identRef(e.Ref)
	case ast.GEInlineGroup:
		return occ + "(" + group(e.Inline) + ")"
	default: // GEValueMemberKey
		if e.Key == nil {
			return occ + typ(e.ValueType)
		}
		return occ + memberKey(e.Key) + " " + typ(e.ValueType)
	}
}

func memberKey(mk *ast.MemberKey) string {
	switch mk.Kind {
	case ast.MKBareword:
		return mk.Name.Name + ":"
	case ast.MKValue:
		// Literal member keys always carry an implicit cut (RFC 8610 §3.5.4);
		// printing the explicit '^' reproduces that even when the source
		// omitted it, which is the same Cut value the parser would assign.
		return type1(mk.Type) + " ^=>"
	default: // MKType
		if mk.Cut {
			return type1(mk.Type) + " ^=>"
		}
		return type1(mk.Type) + " =>"
	}
}

func occurrence(occ ast.Occurrence) string {
	switch {
	case !occ.Present:
		return ""
	case occ.Min == 0 && occ.Max == 1:
		return "? "
	case occ.Min == 0 && occ.Max == -1:
		return "* "
	case occ.Min == 1 && occ.Max == -1:
		return "+ "
	case occ.Max == -1:
		return fmt.Sprintf("%d* ", occ.Min)
	default:
		return fmt.Sprintf("%d*%d ", occ.Min, occ.Max)
	}
}

func identRef(id *ast.Ident) string {
	s := id.Name
	if len(id.Args) == 0 {
		return s
	}
	parts := make([]string, len(id.Args))
	for i, a := range id.Args {
		parts[i] = typ(a)
	}
	return s + "<" + strings.Join(parts, ", ") + ">"
}

// quoteText re-escapes a decoded text-string value into CDDL source form,
// using only the escapes cddl/literal.UnquoteText understands.
func quoteText(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
