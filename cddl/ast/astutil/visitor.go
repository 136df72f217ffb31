// Package astutil provides a generic double-dispatch walk over the CDDL
// AST, adapted from cue/ast/astutil's Cursor/Apply pattern: where CUE's
// walker mutates the tree it visits (Replace/Delete/InsertBefore/After),
// this one is read-only — the validation engine never rewrites the AST it
// borrows — so the Cursor concept collapses to a plain Visitor interface
// with one VisitX/WalkX pair per node kind. A concrete visitor overrides
// only the VisitX methods it cares about; the rest fall through to the
// default WalkX traversal in grammar order.
package astutil

import "cddlang.org/go/cddl/ast"

// Visitor is implemented by any concrete walk over the AST. Each VisitX
// method is called for a node of that kind; its default implementation
// (embed Base to get it for free) delegates to the matching WalkX function,
// which visits children in grammar order. Any VisitX may short-circuit by
// returning a non-nil error; the walk stops as soon as any call returns one.
type Visitor interface {
	VisitFile(v Visitor, n *ast.File) error
	VisitRule(v Visitor, n *ast.Rule) error
	VisitType(v Visitor, n *ast.Type) error
	VisitType1(v Visitor, n *ast.Type1) error
	VisitType2(v Visitor, n *ast.Type2) error
	VisitGroup(v Visitor, n *ast.Group) error
	VisitGroupChoice(v Visitor, n *ast.GroupChoice) error
	VisitGroupEntry(v Visitor, n *ast.GroupEntry) error
	VisitIdent(v Visitor, n *ast.Ident) error
}

// Base implements Visitor with every VisitX delegating to the matching
// WalkX, giving concrete visitors plain Go embedding as their "default
// traversal" (spec.md 4.E: "The default visit_X delegates to walk_X").
type Base struct{}

func (Base) VisitFile(v Visitor, n *ast.File) error          { return WalkFile(v, n) }
func (Base) VisitRule(v Visitor, n *ast.Rule) error          { return WalkRule(v, n) }
func (Base) VisitType(v Visitor, n *ast.Type) error          { return WalkType(v, n) }
func (Base) VisitType1(v Visitor, n *ast.Type1) error        { return WalkType1(v, n) }
func (Base) VisitType2(v Visitor, n *ast.Type2) error        { return WalkType2(v, n) }
func (Base) VisitGroup(v Visitor, n *ast.Group) error        { return WalkGroup(v, n) }
func (Base) VisitGroupChoice(v Visitor, n *ast.GroupChoice) error {
	return WalkGroupChoice(v, n)
}
func (Base) VisitGroupEntry(v Visitor, n *ast.GroupEntry) error {
	return WalkGroupEntry(v, n)
}
func (Base) VisitIdent(v Visitor, n *ast.Ident) error { return WalkIdent(v, n) }

// Walk dispatches to v.VisitFile. It is the usual entry point.
func Walk(v Visitor, f *ast.File) error { return v.VisitFile(v, f) }

func WalkFile(v Visitor, n *ast.File) error {
	for _, r := range n.Rules {
		if err := v.VisitRule(v, r); err != nil {
			return err
		}
	}
	return nil
}

func WalkRule(v Visitor, n *ast.Rule) error {
	if err := v.VisitIdent(v, n.Name); err != nil {
		return err
	}
	for _, p := range n.Params {
		if err := v.VisitIdent(v, p); err != nil {
			return err
		}
	}
	if n.Type != nil {
		if err := v.VisitType(v, n.Type); err != nil {
			return err
		}
	}
	if n.Group != nil {
		if err := v.VisitGroupChoice(v, n.Group); err != nil {
			return err
		}
	}
	return nil
}

func WalkType(v Visitor, n *ast.Type) error {
	for _, c := range n.Choices {
		if err := v.VisitType1(v, c); err != nil {
			return err
		}
	}
	return nil
}

func WalkType1(v Visitor, n *ast.Type1) error {
	if err := v.VisitType2(v, n.Target); err != nil {
		return err
	}
	if n.Arg != nil {
		if err := v.VisitType2(v, n.Arg); err != nil {
			return err
		}
	}
	return nil
}

func WalkType2(v Visitor, n *ast.Type2) error {
	switch n.Kind {
	case ast.T2Typename:
		if n.Name != nil {
			return v.VisitIdent(v, n.Name)
		}
	case ast.T2Paren:
		if n.Paren != nil {
			return v.VisitType(v, n.Paren)
		}
	case ast.T2Map, ast.T2Array:
		if n.Group != nil {
			for _, gc := range n.Group.Choices {
				if err := v.VisitGroupChoice(v, gc); err != nil {
					return err
				}
			}
		}
	case ast.T2Unwrap:
		if n.Unwrap != nil {
			return v.VisitIdent(v, n.Unwrap)
		}
	case ast.T2Enum:
		if n.EnumName != nil {
			return v.VisitIdent(v, n.EnumName)
		}
		if n.EnumGroup != nil {
			for _, gc := range n.EnumGroup.Choices {
				if err := v.VisitGroupChoice(v, gc); err != nil {
					return err
				}
			}
		}
	case ast.T2Tag:
		if n.TagType != nil {
			return v.VisitType(v, n.TagType)
		}
	}
	return nil
}

func WalkGroup(v Visitor, n *ast.Group) error {
	for _, c := range n.Choices {
		if err := v.VisitGroupChoice(v, c); err != nil {
			return err
		}
	}
	return nil
}

func WalkGroupChoice(v Visitor, n *ast.GroupChoice) error {
	for _, e := range n.Entries {
		if err := v.VisitGroupEntry(v, e); err != nil {
			return err
		}
	}
	return nil
}

func WalkGroupEntry(v Visitor, n *ast.GroupEntry) error {
	switch n.Kind {
	case ast.GEValueMemberKey:
		if n.Key != nil && n.Key.Type != nil {
			if err := v.VisitType1(v, n.Key.Type); err != nil {
				return err
			}
		}
		if n.Key != nil && n.Key.Name != nil {
			if err := v.VisitIdent(v, n.Key.Name); err != nil {
				return err
			}
		}
		if n.ValueType != nil {
			return v.VisitType(v, n.ValueType)
		}
	case ast.GETypeGroupname:
		if n.Ref != nil {
			return v.VisitIdent(v, n.Ref)
		}
	case ast.GEInlineGroup:
		if n.Inline != nil {
			for _, gc := range n.Inline.Choices {
				if err := v.VisitGroupChoice(v, gc); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func WalkIdent(v Visitor, n *ast.Ident) error {
	for _, a := range n.Args {
		if err := v.VisitType(v, a); err != nil {
			return err
		}
	}
	return nil
}
