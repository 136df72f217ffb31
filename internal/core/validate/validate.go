// Package validate implements the validation engine: a stateful tree walker
// that checks one adt.Value against one CDDL rule set and accumulates
// errors.ValidationError results rather than failing fast. The backtracking
// discipline (snapshot the error list on entering a choice, truncate on a
// successful alternative, keep the last attempt's errors on total failure)
// is modeled on the teacher's disjunction evaluator
// (internal/core/eval/disjunct.go, read for grounding and since removed —
// see DESIGN.md); the closedness/extra-key policy is modeled on the
// teacher's struct closedness (internal/core/eval/closed.go,
// cue/internal/eval/optionals.go, likewise read and removed).
package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mpvl/unique"
	"golang.org/x/exp/slices"

	"cddlang.org/go/cddl/ast"
	"cddlang.org/go/cddl/errors"
	"cddlang.org/go/cddl/token"
	"cddlang.org/go/internal/cborval"
	"cddlang.org/go/internal/core/adt"
)

// maxDepth guards against cyclic rule references and adversarial nesting
// (spec.md §5 "recursion limit").
const maxDepth = 64

// Options configure a single Validate call.
type Options struct {
	// Strict rejects map values containing a key not matched by any group
	// entry unless the group has a catch-all (`* anytype => anytype`-shaped)
	// entry. Default true (spec.md §9 Open Questions, decided).
	Strict bool

	// JSON indicates data was decoded by internal/jsonval rather than
	// internal/cborval: CBOR-only controls (.bits, .cbor, .cborseq) and
	// major-type assertions (#M, #M.C) are silently skipped per spec.md §4.F
	// "Controls not applicable to JSON ... are silently skipped"; tags 0 and
	// 32 are checked against their JSON lexical forms (validateTagJSON).
	JSON bool
}

// DefaultOptions is the engine's default policy.
var DefaultOptions = Options{Strict: true}

// Validate checks data against root's type, returning every violation
// found. An empty list means data is valid.
func Validate(rules map[string]*ast.Rule, root *ast.Rule, data adt.Value, opts Options) errors.ValidationList {
	e := &engine{rules: rules, opts: opts}
	st := state{}
	if root.IsGroup {
		e.fail(root.Pos(), st, "root rule %q is a group rule, not a type rule", root.Name.Name)
		return e.errs
	}
	e.validateType(root.Type, data, st)
	sortErrorsByPath(e.errs)
	return e.errs
}

type engine struct {
	rules map[string]*ast.Rule
	opts  Options
	errs  errors.ValidationList
}

// frame is one generic-parameter substitution scope (spec.md §9 "Generics").
type frame struct {
	params []string
	args   []*ast.Type
}

// state is the walker's mutable context, passed by value so that
// backtracking choices can snapshot and restore it cheaply (spec.md §9
// "Mutable walker state").
type state struct {
	cddlLoc string
	dataLoc string

	isMemberKey bool
	cutPresent  bool

	multiType     bool
	multiGroup    bool
	groupToChoice bool
	enclosingRule string

	frames []frame
	depth  int
}

func (st state) withCDDLLoc(name string) state {
	if st.cddlLoc == "" {
		st.cddlLoc = name
	} else {
		st.cddlLoc = st.cddlLoc + "." + name
	}
	return st
}

func (e *engine) fail(pos token.Pos, st state, format string, args ...interface{}) {
	e.errs = append(e.errs, &errors.ValidationError{
		Reason:              fmt.Sprintf(format, args...),
		CDDLPos:             pos,
		CDDLLocation:        st.cddlLoc,
		DataLocation:        st.dataLoc,
		IsMultiTypeChoice:   st.multiType,
		IsMultiGroupChoice:  st.multiGroup,
		IsGroupToChoiceEnum: st.groupToChoice,
		EnclosingRule:       st.enclosingRule,
	})
}

// snapshot/truncate implement the choice-backtracking transaction described
// in spec.md §9 "Error accumulation with choice backtracking".
func (e *engine) snapshot() int        { return len(e.errs) }
func (e *engine) truncate(mark int)     { e.errs = e.errs[:mark] }

// --- Type / Type1 / Type2 ---------------------------------------------

func (e *engine) validateType(t *ast.Type, v adt.Value, st state) {
	if st.depth > maxDepth {
		e.fail(t.Pos(), st, "schema too deep")
		return
	}
	st.depth++

	if len(t.Choices) == 1 {
		e.validateType1(t.Choices[0], v, st)
		return
	}

	st.multiType = true
	mark := e.snapshot()
	var lastMark int
	for _, alt := range t.Choices {
		lastMark = e.snapshot()
		e.validateType1(alt, v, st)
		if e.snapshot() == lastMark {
			e.truncate(mark)
			return
		}
	}
	// All alternatives failed: keep the last attempt's errors, discard the
	// earlier ones (documented policy, spec.md §9).
	keep := e.errs[lastMark:]
	e.errs = append(e.errs[:mark], keep...)
}

func (e *engine) validateType1(t1 *ast.Type1, v adt.Value, st state) {
	switch {
	case t1.Control != "":
		e.validateControl(t1, v, st)
	case t1.Range != ast.NoRange:
		e.validateRange(t1, v, st)
	default:
		e.validateType2(t1.Target, v, st)
	}
}

func (e *engine) validateType2(t2 *ast.Type2, v adt.Value, st state) {
	switch t2.Kind {
	case ast.T2Literal:
		e.validateLiteral(t2, v, st)
	case ast.T2Typename:
		e.validateTypename(t2, v, st)
	case ast.T2Paren:
		e.validateType(t2.Paren, v, st)
	case ast.T2Map:
		e.validateMap(t2.Group, v, st)
	case ast.T2Array:
		e.validateArray(t2.Group, v, st)
	case ast.T2Unwrap:
		e.validateUnwrap(t2, v, st)
	case ast.T2Enum:
		e.validateEnum(t2, v, st)
	case ast.T2Tag:
		e.validateTag(t2, v, st)
	case ast.T2AnyMajor:
		// bare '#' matches any value.
	default:
		e.fail(t2.Pos(), st, "unsupported type2 node")
	}
}

func (e *engine) validateLiteral(t2 *ast.Type2, v adt.Value, st state) {
	want := &literalValue{t2: t2}
	if !adt.Equal(want, v) {
		e.fail(t2.Pos(), st, "value does not match literal %s", literalText(t2))
	}
}

func literalText(t2 *ast.Type2) string {
	switch t2.LitKind {
	case ast.LitText:
		return fmt.Sprintf("%q", t2.Text)
	case ast.LitBytes:
		return fmt.Sprintf("h'%x'", t2.Bytes)
	case ast.LitBool:
		return fmt.Sprintf("%v", t2.Bool)
	default:
		if t2.Num != nil {
			return t2.Num.Text
		}
		return "?"
	}
}

func (e *engine) validateTypename(t2 *ast.Type2, v adt.Value, st state) {
	name := t2.Name.Name

	// generic parameter substitution takes precedence over everything else.
	for i := len(st.frames) - 1; i >= 0; i-- {
		f := st.frames[i]
		for j, p := range f.params {
			if p == name {
				e.validateType(f.args[j], v, st)
				return
			}
		}
	}

	if k, ok := adt.PreludeKind(name); ok {
		if !v.Kind().Overlaps(k) {
			e.fail(t2.Pos(), st, "expected %s, got %s", name, v.Kind())
		}
		return
	}

	rule, ok := e.lookupRule(name, st)
	if !ok {
		e.fail(t2.Pos(), st, "unknown identifier %q", name)
		return
	}
	if rule.IsGroup {
		e.fail(t2.Pos(), st, "%q is a group rule, cannot be used as a type", name)
		return
	}

	st = st.withCDDLLoc(name)
	st.enclosingRule = name
	if len(rule.Params) > 0 {
		if len(t2.Name.Args) != len(rule.Params) {
			e.fail(t2.Pos(), st, "wrong number of generic arguments for %q: want %d, got %d",
				name, len(rule.Params), len(t2.Name.Args))
			return
		}
		params := make([]string, len(rule.Params))
		for i, p := range rule.Params {
			params[i] = p.Name
		}
		st.frames = append(st.frames, frame{params: params, args: t2.Name.Args})
	}
	e.validateType(rule.Type, v, st)
}

// lookupRule resolves name against the symbol table. rules is always keyed
// by the bare identifier with any socket/plug `$`/`$$` prefix stripped
// (cddl.buildRuleTable), so a reference to `$name` or `$$name` resolves to
// whichever rule (or merged extension set) the plain name matches, per
// spec.md §4.F "Sockets/plugs".
func (e *engine) lookupRule(name string, st state) (*ast.Rule, bool) {
	r, ok := e.rules[strings.TrimLeft(name, "$")]
	return r, ok
}

// --- Ranges and controls -------------------------------------------------

func (e *engine) validateRange(t1 *ast.Type1, v adt.Value, st state) {
	lo, hi := t1.Target, t1.Arg
	if lo.Kind == ast.T2Literal && lo.LitKind == ast.LitText {
		// string range is only legal under .size; a bare range on text is a
		// schema error we still want to report rather than crash on.
		e.fail(t1.Pos(), st, "range operator not valid on text literal outside .size")
		return
	}
	if !v.Kind().Overlaps(adt.NumKind) {
		e.fail(t1.Pos(), st, "expected a number in range, got %s", v.Kind())
		return
	}
	loVal := numberOfType2(lo)
	hiVal := numberOfType2(hi)
	if loVal == nil || hiVal == nil {
		e.fail(t1.Pos(), st, "range endpoints must be numeric literals")
		return
	}
	d := v.Decimal()
	if d.Cmp(loVal) < 0 {
		e.fail(t1.Pos(), st, "value %s below range lower bound %s", d, loVal)
		return
	}
	switch t1.Range {
	case ast.RangeIncl:
		if d.Cmp(hiVal) > 0 {
			e.fail(t1.Pos(), st, "value %s above inclusive range upper bound %s", d, hiVal)
		}
	case ast.RangeExcl:
		if d.Cmp(hiVal) >= 0 {
			e.fail(t1.Pos(), st, "value %s not below exclusive range upper bound %s", d, hiVal)
		}
	}
}

func numberOfType2(t2 *ast.Type2) *apdDecimal {
	if t2.Kind != ast.T2Literal || t2.Num == nil {
		return nil
	}
	return decimalFromNumberLit(t2.Num)
}

func (e *engine) validateControl(t1 *ast.Type1, v adt.Value, st state) {
	ctrl := t1.Control
	switch ctrl {
	case "size":
		e.ctrlSize(t1, v, st)
	case "regexp", "pcre":
		e.ctrlRegexp(t1, v, st)
	case "lt", "le", "gt", "ge":
		e.ctrlCompare(t1, v, st, ctrl)
	case "eq", "ne":
		e.ctrlEquality(t1, v, st, ctrl)
	case "and":
		e.validateType2(t1.Target, v, st)
		e.validateType2(t1.Arg, v, st)
	case "within":
		mark := e.snapshot()
		e.validateType2(t1.Target, v, st)
		targetOK := e.snapshot() == mark
		mark2 := e.snapshot()
		e.validateType2(t1.Arg, v, st)
		controllerOK := e.snapshot() == mark2
		if targetOK && !controllerOK {
			e.truncate(mark2)
			e.fail(t1.Pos(), st, "value satisfies target but not .within controller")
		}
	case "default":
		e.validateType2(t1.Target, v, st)
	case "bits":
		e.ctrlBits(t1, v, st)
	case "cbor", "cborseq":
		e.ctrlCBOR(t1, v, st, ctrl)
	default:
		e.fail(t1.Pos(), st, "unknown control operator .%s", ctrl)
	}
}

func (e *engine) ctrlSize(t1 *ast.Type1, v adt.Value, st state) {
	n := numberOfType2(t1.Arg)
	if n == nil {
		e.fail(t1.Pos(), st, ".size controller must be a numeric literal")
		return
	}
	want, _ := n.Int64()
	switch {
	case v.Kind().Is(adt.StringKind):
		if int64(len(v.Text())) != want {
			e.fail(t1.Pos(), st, "expected text of byte length %d, got %d", want, len(v.Text()))
		}
	case v.Kind().Is(adt.BytesKind):
		if int64(len(v.Bytes())) != want {
			e.fail(t1.Pos(), st, "expected bytes of length %d, got %d", want, len(v.Bytes()))
		}
	case v.Kind().Is(adt.IntKind):
		limit := apdPow256(want)
		if v.Decimal().Cmp(limit) >= 0 {
			e.fail(t1.Pos(), st, "expected uint strictly below 256^%d", want)
		}
	default:
		e.fail(t1.Pos(), st, ".size target must be string, byte string, or uint, got %s", v.Kind())
	}
}

var pcreCache = map[string]*regexp.Regexp{}

func (e *engine) ctrlRegexp(t1 *ast.Type1, v adt.Value, st state) {
	if !v.Kind().Is(adt.StringKind) {
		e.fail(t1.Pos(), st, ".regexp/.pcre target must be a text string, got %s", v.Kind())
		return
	}
	if t1.Arg.Kind != ast.T2Literal || t1.Arg.LitKind != ast.LitText {
		e.fail(t1.Pos(), st, ".regexp/.pcre controller must be a text literal")
		return
	}
	pat := t1.Arg.Text
	re, ok := pcreCache[pat]
	if !ok {
		var err error
		re, err = regexp.Compile(pat)
		if err != nil {
			e.errs = append(e.errs, &errors.ValidationError{
				Reason:       fmt.Sprintf("invalid regular expression %q: %v", pat, err),
				CDDLPos:      t1.Arg.Pos(),
				CDDLLocation: st.cddlLoc,
				DataLocation: st.dataLoc,
			})
			return
		}
		pcreCache[pat] = re
	}
	if !re.MatchString(v.Text()) {
		e.fail(t1.Pos(), st, "text %q does not match .regexp %q", v.Text(), pat)
	}
}

func (e *engine) ctrlCompare(t1 *ast.Type1, v adt.Value, st state, op string) {
	if !v.Kind().Overlaps(adt.NumKind) {
		e.fail(t1.Pos(), st, ".%s target must be numeric, got %s", op, v.Kind())
		return
	}
	n := numberOfType2(t1.Arg)
	if n == nil {
		e.fail(t1.Pos(), st, ".%s controller must be a numeric literal", op)
		return
	}
	c := v.Decimal().Cmp(n)
	ok := false
	switch op {
	case "lt":
		ok = c < 0
	case "le":
		ok = c <= 0
	case "gt":
		ok = c > 0
	case "ge":
		ok = c >= 0
	}
	if !ok {
		e.fail(t1.Pos(), st, "value %s fails .%s %s", v.Decimal(), op, n)
	}
}

func (e *engine) ctrlEquality(t1 *ast.Type1, v adt.Value, st state, op string) {
	controller := &literalValue{t2: t1.Arg}
	switch {
	case v.Kind().Is(adt.ArrayKind) || v.Kind().Is(adt.MapKind):
		n := numberOfType2(t1.Arg)
		if n == nil {
			e.fail(t1.Pos(), st, ".%s controller for array/map arity must be a numeric literal", op)
			return
		}
		want, _ := n.Int64()
		var got int64
		if v.Kind().Is(adt.ArrayKind) {
			got = int64(v.ArrayLen())
		} else {
			got = int64(v.MapLen())
		}
		eq := got == want
		if (op == "eq" && !eq) || (op == "ne" && eq) {
			e.fail(t1.Pos(), st, "arity %d fails .%s %d", got, op, want)
		}
	default:
		eq := adt.Equal(v, controller)
		if (op == "eq" && !eq) || (op == "ne" && eq) {
			e.fail(t1.Pos(), st, "value fails .%s %s", op, literalText(t1.Arg))
		}
	}
}

func (e *engine) ctrlBits(t1 *ast.Type1, v adt.Value, st state) {
	if e.opts.JSON {
		return // spec.md §4.F: .bits is a no-op under JSON.
	}
	if !v.Kind().Is(adt.BytesKind) {
		e.fail(t1.Pos(), st, ".bits target must be a byte string, got %s", v.Kind())
		return
	}
	allowed := map[int64]bool{}
	collect := func(t2 *ast.Type2) bool {
		if t2.Kind != ast.T2Literal || t2.Num == nil {
			return false
		}
		allowed[t2.Num.I64] = true
		return true
	}
	switch t1.Arg.Kind {
	case ast.T2Literal:
		if !collect(t1.Arg) {
			e.fail(t1.Pos(), st, ".bits controller must be an integer or array of integers")
			return
		}
	case ast.T2Array:
		for _, gc := range t1.Arg.Group.Choices {
			for _, ent := range gc.Entries {
				if ent.ValueType == nil || len(ent.ValueType.Choices) != 1 {
					continue
				}
				collect(ent.ValueType.Choices[0].Target)
			}
		}
	default:
		e.fail(t1.Pos(), st, ".bits controller must be an integer or array of integers")
		return
	}
	data := v.Bytes()
	for byteIdx, b := range data {
		for bit := 0; bit < 8; bit++ {
			if b&(0x80>>uint(bit)) == 0 {
				continue
			}
			// MSB numbering per RFC 8610 §3.8.6: bit 0 is the most
			// significant bit of the first byte.
			idx := int64(byteIdx*8 + bit)
			if !allowed[idx] {
				e.fail(t1.Pos(), st, "bit %d set but not in .bits controller set", idx)
			}
		}
	}
}

// ctrlCBOR implements `.cbor`/`.cborseq` (RFC 8610 §3.8.4): the byte string
// is decoded as embedded CBOR and the result(s) are recursively validated
// against the controller type, rather than merely shape-checked.
func (e *engine) ctrlCBOR(t1 *ast.Type1, v adt.Value, st state, op string) {
	if e.opts.JSON {
		return // spec.md §4.F: .cbor/.cborseq are no-ops under JSON.
	}
	if !v.Kind().Is(adt.BytesKind) {
		e.fail(t1.Pos(), st, ".%s target must be a byte string, got %s", op, v.Kind())
		return
	}
	if st.depth >= maxDepth {
		e.fail(t1.Pos(), st, "maximum nesting depth exceeded")
		return
	}
	nested := st
	nested.depth++
	if op == "cborseq" {
		items, err := cborval.DecodeSeq(v.Bytes())
		if err != nil {
			e.fail(t1.Pos(), st, ".cborseq: embedded CBOR sequence does not decode: %v", err)
			return
		}
		for _, item := range items {
			e.validateType2(t1.Arg, item, nested)
		}
		return
	}
	item, err := cborval.Decode(v.Bytes())
	if err != nil {
		e.fail(t1.Pos(), st, ".cbor: embedded CBOR does not decode: %v", err)
		return
	}
	e.validateType2(t1.Arg, item, nested)
}

// --- Array / Map ----------------------------------------------------------

func (e *engine) validateArray(g *ast.Group, v adt.Value, st state) {
	if !v.Kind().Is(adt.ArrayKind) {
		e.fail(g.Pos(), st, "expected array, got %s", v.Kind())
		return
	}
	if len(g.Choices) == 1 {
		e.validateArrayChoice(g.Choices[0], v, st)
		return
	}
	st.multiGroup = true
	mark := e.snapshot()
	var lastMark int
	for _, gc := range g.Choices {
		lastMark = e.snapshot()
		e.validateArrayChoice(gc, v, st)
		if e.snapshot() == lastMark {
			e.truncate(mark)
			return
		}
	}
	keep := e.errs[lastMark:]
	e.errs = append(e.errs[:mark], keep...)
}

func (e *engine) validateArrayChoice(gc *ast.GroupChoice, v adt.Value, st state) {
	min, max := adt.EntryCount(gc)
	n := v.ArrayLen()

	if len(gc.Entries) == 1 && adt.IsPerElement(gc.Entries[0].Occ) {
		ent := gc.Entries[0]
		emin, emax := adt.OccursRange(ent.Occ)
		if !adt.InRange(n, emin, emax) {
			e.fail(gc.Pos(), st, "expecting array with length per occurrence %s, got %s", occRangeText(emin, emax), elementCountText(n))
			return
		}
		for i := 0; i < n; i++ {
			item := v.ArrayItem(i)
			ist := st
			ist.dataLoc = fmt.Sprintf("%s/%d", st.dataLoc, i)
			e.validateArrayEntryValue(ent, item, ist)
		}
		return
	}

	if !adt.InRange(n, min, max) {
		e.fail(gc.Pos(), st, "expecting array with length per occurrence %s, got %s", occRangeText(min, max), elementCountText(n))
		return
	}

	idx := 0
	for _, ent := range gc.Entries {
		emin, emax := adt.OccursRange(ent.Occ)
		count := 0
		for count < emin || (idx < n && (emax == -1 || count < emax)) {
			if idx >= n {
				if count < emin {
					e.fail(ent.Pos(), st, "missing required array element at index %d", idx)
				}
				break
			}
			item := v.ArrayItem(idx)
			ist := st
			ist.dataLoc = fmt.Sprintf("%s/%d", st.dataLoc, idx)
			mark := e.snapshot()
			e.validateArrayEntryValue(ent, item, ist)
			if e.snapshot() != mark && count >= emin {
				// optional entry failed to match; stop consuming and let
				// the next schema entry try this same index.
				e.truncate(mark)
				break
			}
			idx++
			count++
		}
	}
}

func (e *engine) validateArrayEntryValue(ent *ast.GroupEntry, v adt.Value, st state) {
	switch ent.Kind {
	case ast.GEValueMemberKey:
		e.validateType(ent.ValueType, v, st)
	case ast.GETypeGroupname:
		// A lone name in an array entry parses as a group-name reference;
		// unless it names a group rule it is validated as a type (a prelude
		// type, a generic parameter, or a type rule).
		if rule, ok := e.lookupRule(ent.Ref.Name, st); ok && rule.IsGroup {
			e.validateGroupnameRef(ent.Ref, v, st)
			return
		}
		e.validateTypename(&ast.Type2{Kind: ast.T2Typename, Name: ent.Ref, StartPos: ent.Ref.Pos(), EndPos: ent.Ref.End()}, v, st)
	case ast.GEInlineGroup:
		e.validateArray(ent.Inline, v, st)
	}
}

func occRangeText(min, max int) string {
	if max == -1 {
		return fmt.Sprintf("%d..∞", min)
	}
	return fmt.Sprintf("%d..%d", min, max)
}

func (e *engine) validateGroupnameRef(ref *ast.Ident, v adt.Value, st state) {
	rule, ok := e.lookupRule(ref.Name, st)
	if !ok {
		e.fail(ref.Pos(), st, "unknown group name %q", ref.Name)
		return
	}
	if !rule.IsGroup {
		e.fail(ref.Pos(), st, "%q is a type rule, cannot be used as a group", ref.Name)
		return
	}
	st = st.withCDDLLoc(ref.Name)
	if v.Kind().Is(adt.ArrayKind) {
		e.validateArrayChoice(rule.Group, v, st)
	} else {
		e.validateMapChoice(rule.Group, v, st)
	}
}

func (e *engine) validateMap(g *ast.Group, v adt.Value, st state) {
	if !v.Kind().Is(adt.MapKind) {
		e.fail(g.Pos(), st, "expected map, got %s", v.Kind())
		return
	}
	if len(g.Choices) == 1 {
		e.validateMapChoice(g.Choices[0], v, st)
		return
	}
	st.multiGroup = true
	mark := e.snapshot()
	var lastMark int
	for _, gc := range g.Choices {
		lastMark = e.snapshot()
		e.validateMapChoice(gc, v, st)
		if e.snapshot() == lastMark {
			e.truncate(mark)
			return
		}
	}
	keep := e.errs[lastMark:]
	e.errs = append(e.errs[:mark], keep...)
}

func (e *engine) validateMapChoice(gc *ast.GroupChoice, v adt.Value, st state) {
	validated := map[string]bool{}
	hasCatchAll := false

	for _, ent := range gc.Entries {
		if isCatchAllEntry(ent) {
			hasCatchAll = true
		}
		e.validateMapEntry(ent, v, st, validated)
	}

	if e.opts.Strict && !hasCatchAll {
		var unexpected []string
		for _, k := range v.MapKeys() {
			ks := mapKeyString(k)
			if !validated[ks] {
				unexpected = append(unexpected, ks)
			}
		}
		for _, ks := range dedupeKeys(unexpected) {
			e.fail(gc.Pos(), st, "unexpected key %q", ks)
		}
	}
}

// isCatchAllEntry reports the `* anytype => anytype`-shaped entry that
// keeps a map choice open under the strict extra-key policy (spec.md §4.F
// expansion "Closedness / extra-key policy").
func isCatchAllEntry(ent *ast.GroupEntry) bool {
	if ent.Kind != ast.GEValueMemberKey || ent.Key == nil {
		return false
	}
	if !adt.IsPerElement(ent.Occ) {
		return false
	}
	if ent.Key.Kind != ast.MKType {
		return false
	}
	return isAnyType1(ent.Key.Type) && isAnyType(ent.ValueType)
}

func isAnyType(t *ast.Type) bool {
	return len(t.Choices) == 1 && isAnyType1(t.Choices[0])
}

func isAnyType1(t1 *ast.Type1) bool {
	t2 := t1.Target
	return t2.Kind == ast.T2Typename && t2.Name.Name == "any"
}

func mapKeyString(k adt.Value) string {
	switch {
	case k.Kind().Is(adt.StringKind):
		return k.Text()
	case k.Kind().Overlaps(adt.NumKind):
		return k.Decimal().String()
	default:
		return k.Kind().String()
	}
}

func (e *engine) validateMapEntry(ent *ast.GroupEntry, v adt.Value, st state, validated map[string]bool) {
	switch ent.Kind {
	case ast.GETypeGroupname:
		// A group rule's entries are matched against this same map and
		// share its validated-key set, so the enclosing choice's strict
		// extra-key check sees every key they matched.
		if rule, ok := e.lookupRule(ent.Ref.Name, st); ok && rule.IsGroup {
			gst := st.withCDDLLoc(ent.Ref.Name)
			for _, sub := range rule.Group.Entries {
				e.validateMapEntry(sub, v, gst, validated)
			}
			return
		}
		e.validateGroupnameRef(ent.Ref, v, st)
		return
	case ast.GEInlineGroup:
		if len(ent.Inline.Choices) == 1 {
			for _, sub := range ent.Inline.Choices[0].Entries {
				e.validateMapEntry(sub, v, st, validated)
			}
			return
		}
		e.validateMap(ent.Inline, v, st)
		return
	}

	if ent.Key == nil {
		e.fail(ent.Pos(), st, "map group entry has no key")
		return
	}

	emin, emax := adt.OccursRange(ent.Occ)
	perElement := adt.IsPerElement(ent.Occ)

	if ent.Key.Kind == ast.MKBareword || ent.Key.Kind == ast.MKValue {
		e.validateMapKeyedEntry(ent, v, st, validated, emin, emax)
		return
	}

	// MKType: a typed key (`tstr => int`, `* tstr => int`) — match every
	// unvalidated key whose kind matches the key type.
	matches := 0
	for _, k := range v.MapKeys() {
		ks := mapKeyString(k)
		if validated[ks] {
			continue
		}
		mark := e.snapshot()
		kst := st
		kst.isMemberKey = true
		e.validateType1(ent.Key.Type, k, kst)
		keyOK := e.snapshot() == mark
		if !keyOK {
			e.truncate(mark)
			continue
		}
		matches++
		validated[ks] = true
		val, _ := v.MapValue(k)
		vst := st
		vst.dataLoc = st.dataLoc + "/" + ks
		e.validateType(ent.ValueType, val, vst)
	}
	if !perElement && !adt.InRange(matches, emin, emax) {
		e.fail(ent.Pos(), st, "expected %s matching typed key entries, got %s", occRangeText(emin, emax), entryCountText(matches))
	}
}

func (e *engine) validateMapKeyedEntry(ent *ast.GroupEntry, v adt.Value, st state, validated map[string]bool, emin, emax int) {
	var keyLit adt.Value
	var keyName string
	switch ent.Key.Kind {
	case ast.MKBareword:
		keyName = ent.Key.Name.Name
		keyLit = &textValue{s: keyName}
	case ast.MKValue:
		keyLit = &literalValue{t2: ent.Key.Type.Target}
		keyName = literalText(ent.Key.Type.Target)
	}

	val, found := v.MapValue(keyLit)
	if !found {
		if emin > 0 {
			if ent.Key.Cut {
				e.fail(ent.Pos(), st, "missing required cut key %q", keyName)
			} else {
				e.fail(ent.Pos(), st, "missing required key %q", keyName)
			}
		}
		return
	}
	validated[mapKeyString(keyLit)] = true
	vst := st
	vst.dataLoc = st.dataLoc + "/" + keyName
	vst.enclosingRule = st.enclosingRule
	mark := e.snapshot()
	e.validateType(ent.ValueType, val, vst)
	if ent.Key.Cut && e.snapshot() != mark {
		// cut entries report the failure as-is rather than letting a
		// catch-all entry absorb it (spec.md §8 "Cut law").
	}
}

// --- Unwrap / Enum / Tag ---------------------------------------------------

func (e *engine) validateUnwrap(t2 *ast.Type2, v adt.Value, st state) {
	name := t2.Unwrap.Name
	if k, ok := adt.PreludeKind(name); ok {
		if !v.Kind().Overlaps(k &^ adt.TagKind) {
			e.fail(t2.Pos(), st, "expected inner content of %s, got %s", name, v.Kind())
		}
		return
	}
	rule, ok := e.lookupRule(name, st)
	if !ok {
		e.fail(t2.Pos(), st, "cannot unwrap: unknown identifier %q", name)
		return
	}
	if rule.IsGroup {
		e.fail(t2.Pos(), st, "cannot unwrap group rule %q", name)
		return
	}
	inner := rule.Type
	if len(inner.Choices) == 1 {
		t1 := inner.Choices[0]
		if t1.Target.Kind == ast.T2Tag && t1.Target.TagType != nil {
			e.validateType(t1.Target.TagType, v, st)
			return
		}
	}
	e.validateType(inner, v, st)
}

func (e *engine) validateEnum(t2 *ast.Type2, v adt.Value, st state) {
	var g *ast.Group
	if t2.EnumGroup != nil {
		g = t2.EnumGroup
	} else {
		rule, ok := e.lookupRule(t2.EnumName.Name, st)
		if !ok || !rule.IsGroup {
			e.fail(t2.Pos(), st, "cannot enumerate: %q is not a group name", t2.EnumName.Name)
			return
		}
		g = &ast.Group{Choices: []*ast.GroupChoice{rule.Group}}
	}

	st.groupToChoice = true
	mark := e.snapshot()
	var lastMark int
	for _, gc := range g.Choices {
		for _, ent := range gc.Entries {
			lastMark = e.snapshot()
			e.validateArrayEntryValue(ent, v, st)
			if e.snapshot() == lastMark {
				e.truncate(mark)
				return
			}
		}
	}
	keep := e.errs[lastMark:]
	e.errs = append(e.errs[:mark], keep...)
}

func (e *engine) validateTag(t2 *ast.Type2, v adt.Value, st state) {
	if e.opts.JSON {
		e.validateTagJSON(t2, v, st)
		return
	}

	num, inner, isTag := v.Tag()

	if t2.TagNum >= 0 {
		if !isTag || num != t2.TagNum {
			e.fail(t2.Pos(), st, "expected tag %d", t2.TagNum)
			return
		}
		e.validateType(t2.TagType, inner, st)
		return
	}

	if t2.TagMajor < 0 {
		return // bare '#': any value.
	}

	wantKind, ok := majorTypeKind(t2.TagMajor)
	if !ok {
		e.fail(t2.Pos(), st, "invalid major type #%d", t2.TagMajor)
		return
	}
	k := v.Kind()
	if t2.TagMajor == 1 {
		if !v.IsNegativeInt() {
			e.fail(t2.Pos(), st, "expected major type 1 (negative int), got %s", k)
		}
		return
	}
	if t2.TagMajor == 0 {
		if k.Is(adt.IntKind) && v.IsNegativeInt() {
			e.fail(t2.Pos(), st, "expected major type 0 (uint), got negative int")
			return
		}
	}
	if !k.Overlaps(wantKind) {
		e.fail(t2.Pos(), st, "expected major type %d, got %s", t2.TagMajor, k)
	}
}

func majorTypeKind(major int) (adt.Kind, bool) {
	switch major {
	case 0:
		return adt.IntKind, true
	case 1:
		return adt.NIntKind, true
	case 2:
		return adt.BytesKind, true
	case 3:
		return adt.StringKind, true
	case 4:
		return adt.ArrayKind, true
	case 5:
		return adt.MapKind, true
	case 6:
		return adt.TagKind, true
	case 7:
		return adt.BoolKind | adt.NullKind | adt.UndefinedKind | adt.FloatKind, true
	}
	return 0, false
}

// validateTagJSON handles the JSON-mode tag lexical conventions restored
// from original_source's cbor.rs (spec.md §4.F "on JSON, a short-list of
// tag numbers is mapped to lexical conventions"): #6.0(tstr) is RFC 3339,
// #6.32(tstr) is a URI shape. Major-type assertions (#M, #M.C) and any
// other tag number have no CBOR-only meaning under JSON and are treated as
// satisfied once the wrapped type itself validates.
func (e *engine) validateTagJSON(t2 *ast.Type2, v adt.Value, st state) {
	switch {
	case t2.TagNum == 0:
		e.validateType(t2.TagType, v, st)
		if v.Kind().Is(adt.StringKind) {
			if _, err := time.Parse(time.RFC3339, v.Text()); err != nil {
				e.fail(t2.Pos(), st, "expected RFC 3339 date-time (tag 0), got %q", v.Text())
			}
		}
	case t2.TagNum == 32:
		e.validateType(t2.TagType, v, st)
		if v.Kind().Is(adt.StringKind) {
			if u, err := url.Parse(v.Text()); err != nil || u.Scheme == "" {
				e.fail(t2.Pos(), st, "expected a URI (tag 32), got %q", v.Text())
			}
		}
	case t2.TagNum >= 0:
		e.validateType(t2.TagType, v, st)
	}
	// bare '#', #M, #M.C: no CBOR major-type concept in JSON; accept.
}

// sortErrorsByPath orders a ValidationList by data path then CDDL span,
// giving deterministic output (spec.md §4.H, golang.org/x/exp/slices).
func sortErrorsByPath(l errors.ValidationList) {
	slices.SortFunc(l, func(a, b *errors.ValidationError) bool {
		if a.DataLocation != b.DataLocation {
			return a.DataLocation < b.DataLocation
		}
		return a.CDDLPos.Offset < b.CDDLPos.Offset
	})
}

// stringUnique adapts a []string to mpvl/unique's Interface (sort.Interface
// plus an Equal predicate over adjacent, now-sorted elements).
type stringUnique struct{ s []string }

func (u stringUnique) Len() int           { return len(u.s) }
func (u stringUnique) Less(i, j int) bool { return u.s[i] < u.s[j] }
func (u stringUnique) Swap(i, j int)      { u.s[i], u.s[j] = u.s[j], u.s[i] }
func (u stringUnique) Equal(i, j int) bool { return u.s[i] == u.s[j] }

// dedupeKeys removes duplicate map keys using the teacher's own
// mpvl/unique dependency for exactly this purpose.
func dedupeKeys(keys []string) []string {
	cp := append([]string(nil), keys...)
	n := unique.Sort(stringUnique{s: cp})
	return cp[:n]
}
