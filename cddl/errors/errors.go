// Package errors defines the two CDDL error taxonomies: construction errors
// (lexing/parsing) and validation errors. The shape mirrors cue/errors.go's
// nodeError/valueError split, and the ValidationError field set is ported
// from original_source's src/validator/cbor.rs ValidationError struct,
// which in turn is the field set spec.md §6 "Outputs" names.
package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/xerrors"

	"cddlang.org/go/cddl/token"
)

// SyntaxError is a construction error: unexpected token, unterminated
// literal, invalid escape, or malformed number (spec.md §7.1). An invalid
// regular expression is found only during validation and is reported as a
// ValidationError.
type SyntaxError struct {
	Pos     token.Pos
	Message string
	Cause   error // wrapped underlying error, if any
}

func (e *SyntaxError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Pos, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func (e *SyntaxError) Unwrap() error { return e.Cause }

// NewSyntaxError builds a SyntaxError at pos.
func NewSyntaxError(pos token.Pos, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// WrapLoadError wraps a failure to read a CDDL document from disk or stdin,
// preserving the original error via github.com/pkg/errors so that %+v
// printing retains a stack trace, matching the teacher's own use of
// pkg/errors for I/O-boundary wrapping.
func WrapLoadError(err error, path string) error {
	return errors.Wrapf(err, "loading CDDL document %q", path)
}

// SyntaxList accumulates SyntaxErrors encountered while lexing/parsing one
// document; parsing continues past recoverable errors so a single pass can
// report more than one problem.
type SyntaxList struct {
	errs []*SyntaxError
}

func (l *SyntaxList) Add(e *SyntaxError) { l.errs = append(l.errs, e) }
func (l *SyntaxList) Len() int           { return len(l.errs) }
func (l *SyntaxList) Errs() []*SyntaxError {
	return l.errs
}

func (l *SyntaxList) Error() string {
	var b strings.Builder
	for i, e := range l.errs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

// AsError returns nil if the list is empty, else itself as an error.
func (l *SyntaxList) AsError() error {
	if l == nil || len(l.errs) == 0 {
		return nil
	}
	return l
}

// ValidationError is one violation found while validating a data value
// against a schema (spec.md §6 "Outputs", field-for-field from
// original_source's ValidationError).
type ValidationError struct {
	Reason string

	CDDLPos      token.Pos
	CDDLLocation string // dotted path of the named rules referenced on the way, e.g. "outer.inner"; the root rule and member key names are not included
	DataLocation string // e.g. "/foo/3"

	IsMultiTypeChoice    bool
	IsMultiGroupChoice   bool
	IsGroupToChoiceEnum  bool
	EnclosingRule        string // "" if none
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("error validating")
	if e.IsMultiGroupChoice {
		b.WriteString(" group choice")
	}
	if e.IsMultiTypeChoice {
		b.WriteString(" type choice")
	}
	if e.IsGroupToChoiceEnum {
		b.WriteString(" type choice in group to choice enumeration")
	}
	if e.EnclosingRule != "" {
		fmt.Fprintf(&b, " group entry associated with rule %q", e.EnclosingRule)
	}
	fmt.Fprintf(&b, " at cddl location %q and data location %q: %s",
		e.CDDLLocation, e.DataLocation, e.Reason)
	return b.String()
}

// ValidationList is an ordered, possibly-empty list of ValidationErrors. An
// empty list, per spec.md §4.F, means the value is valid.
type ValidationList []*ValidationError

func (l ValidationList) Error() string {
	var b strings.Builder
	for i, e := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

// OK reports whether the list represents a successful validation.
func (l ValidationList) OK() bool { return len(l) == 0 }

// HardError marks a validation-phase failure severe enough to terminate the
// current sub-walk (spec.md §7 "Propagation policy"): an unresolved
// identifier actually traversed, or an impossible control-target
// combination. It is still recorded like a ValidationError; it just also
// stops descent into the node that produced it. internal/core/validate does
// not construct HardError: it records such failures as plain
// ValidationErrors.
type HardError struct {
	*ValidationError
}

func NewHardError(ve *ValidationError) *HardError { return &HardError{ve} }

func (e *HardError) Error() string { return e.ValidationError.Error() }

// Is supports errors.Is(err, ErrSchemaTooDeep) style checks via xerrors,
// matching the compile/validate boundary's use of golang.org/x/xerrors
// elsewhere in this module.
func Is(err, target error) bool { return xerrors.Is(err, target) }

// ErrSchemaTooDeep names the recursion-depth failure (spec.md §5).
// internal/core/validate does not return it: a tripped depth guard is
// recorded as an ordinary ValidationError with reason "schema too deep".
var ErrSchemaTooDeep = xerrors.New("schema too deep")
