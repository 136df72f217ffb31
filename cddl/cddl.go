// Package cddl is the public façade over the construction and validation
// pipeline (cddl/parser, cddl/ast, internal/core/validate), playing the
// role the teacher's cue package plays over internal/core: a thin,
// dependency-light wrapper that builds a symbol table once and offers a
// convenience Validate method over it.
package cddl

import (
	"strings"

	"cddlang.org/go/cddl/ast"
	"cddlang.org/go/cddl/errors"
	"cddlang.org/go/cddl/parser"
	"cddlang.org/go/internal/core/adt"
	"cddlang.org/go/internal/core/validate"
)

// Schema is a parsed, ready-to-validate CDDL document.
type Schema struct {
	file  *ast.File
	rules map[string]*ast.Rule
	root  *ast.Rule
}

// Parse parses CDDL source named filename (used only for error messages)
// into a Schema. Parse errors are returned as *errors.SyntaxList; a missing
// root rule or an inconsistent rule table is returned as *errors.SyntaxError.
func Parse(filename string, src []byte) (*Schema, error) {
	f, err := parser.ParseFile(filename, src)
	if err != nil {
		return nil, err
	}
	root := f.RootRule()
	if root == nil {
		return nil, errors.NewSyntaxError(f.Pos(), "no root type rule found (every rule is a group rule or has generic parameters)")
	}
	rules, err := buildRuleTable(f.Rules)
	if err != nil {
		return nil, err
	}
	return &Schema{file: f, rules: rules, root: root}, nil
}

// buildRuleTable builds the name-to-rule symbol table, folding `/=`/`//=`
// extensions into their base rule's type/group choices (spec.md §3
// invariant 3) instead of letting a flat map assignment silently drop all
// but the last same-named rule. Socket/plug names (`$ident`, `$$ident`) are
// extension points (spec.md §4.F "Sockets/plugs"): they key the table by
// their bare name with the `$`/`$$` prefix stripped, so `$foo /= A` and
// `$$foo //= B` both extend the same entry ("enumerating all rules whose
// name matches"), and may accumulate extensions with no prior base. Any
// other name's first appearance must be a plain `=` rule.
func buildRuleTable(all []*ast.Rule) (map[string]*ast.Rule, error) {
	rules := make(map[string]*ast.Rule, len(all))
	var extensions []*ast.Rule
	for _, r := range all {
		if r.Assign == ast.AssignReplace {
			key := ruleKey(r.Name)
			if prev, ok := rules[key]; ok {
				return nil, errors.NewSyntaxError(r.Pos(), "rule %q redefined with '=' (previous definition at %s)", key, prev.Pos())
			}
			rules[key] = r
			continue
		}
		extensions = append(extensions, r)
	}
	for _, ext := range extensions {
		key := ruleKey(ext.Name)
		base, ok := rules[key]
		if !ok {
			if !ext.Name.IsSocket && !ext.Name.IsPlug {
				return nil, errors.NewSyntaxError(ext.Pos(), "%q extension (%s) has no matching base rule", key, assignSymbol(ext.Assign))
			}
			// A socket/plug extension point may begin with no prior `=`
			// definition: synthesize an empty base of the extension's kind
			// on first use, per spec.md §4.F.
			base = &ast.Rule{Name: ext.Name, IsGroup: ext.Assign == ast.AssignGroupUnion, StartPos: ext.Pos()}
			if base.IsGroup {
				base.Group = &ast.GroupChoice{StartPos: ext.Pos()}
			} else {
				base.Type = &ast.Type{StartPos: ext.Pos()}
			}
			rules[key] = base
		}
		switch ext.Assign {
		case ast.AssignTypeUnion:
			if base.IsGroup {
				return nil, errors.NewSyntaxError(ext.Pos(), "%q is a group rule, cannot be extended with '/='", key)
			}
			base.Type.Choices = append(base.Type.Choices, ext.Type.Choices...)
		case ast.AssignGroupUnion:
			if !base.IsGroup {
				return nil, errors.NewSyntaxError(ext.Pos(), "%q is a type rule, cannot be extended with '//='", key)
			}
			base.Group.Entries = append(base.Group.Entries, ext.Group.Entries...)
		}
		base.EndPos = ext.EndPos
	}
	return rules, nil
}

// ruleKey is the symbol-table key for a rule or reference name: the plain
// identifier text, with any socket/plug `$`/`$$` prefix stripped so that
// `foo`, `$foo`, and `$$foo` all address the same table entry.
func ruleKey(id *ast.Ident) string {
	return strings.TrimLeft(id.Name, "$")
}

func assignSymbol(a ast.AssignKind) string {
	if a == ast.AssignGroupUnion {
		return "//="
	}
	return "/="
}

// File returns the parsed AST, for callers that want to inspect or
// pretty-print it directly.
func (s *Schema) File() *ast.File { return s.file }

// Root returns the schema's root type rule (spec.md §3, §8 "Root
// selection"): the first type rule with no generic parameters.
func (s *Schema) Root() *ast.Rule { return s.root }

// Option configures a Validate call.
type Option func(*validate.Options)

// Strict toggles the extra-key rejection policy on map validation. Default
// true (spec.md §9 Open Questions, decided).
func Strict(v bool) Option {
	return func(o *validate.Options) { o.Strict = v }
}

// JSONMode marks data as having come from internal/jsonval, so CBOR-only
// controls and major-type assertions are skipped rather than enforced.
// Schema.ValidateJSON and Schema.ValidateCBOR set this automatically; it is
// exported for callers constructing an adt.Value tree themselves.
func JSONMode(v bool) Option {
	return func(o *validate.Options) { o.JSON = v }
}

// Validate checks data (already decoded into an adt.Value tree, CBOR or
// JSON) against the schema's root rule, returning every violation found.
// A nil/empty result means data is valid.
func (s *Schema) Validate(data adt.Value, opts ...Option) errors.ValidationList {
	o := validate.DefaultOptions
	for _, opt := range opts {
		opt(&o)
	}
	return validate.Validate(s.rules, s.root, data, o)
}

// ValidateJSON decodes src as JSON and validates it against the schema.
func (s *Schema) ValidateJSON(src []byte, opts ...Option) (errors.ValidationList, error) {
	v, err := decodeJSON(src)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{JSONMode(true)}, opts...)
	return s.Validate(v, opts...), nil
}

// ValidateCBOR decodes src as CBOR and validates it against the schema.
func (s *Schema) ValidateCBOR(src []byte, opts ...Option) (errors.ValidationList, error) {
	v, err := decodeCBOR(src)
	if err != nil {
		return nil, err
	}
	return s.Validate(v, opts...), nil
}
