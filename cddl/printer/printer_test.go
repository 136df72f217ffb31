package printer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kr/pretty"
	"github.com/kylelemons/godebug/diff"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"cddlang.org/go/cddl/parser"
	"cddlang.org/go/cddl/printer"
	"cddlang.org/go/cddl/token"
)

// corpus is a golden collection of schemas exercising the grammar shapes
// printer.File knows how to re-emit: literal kinds, ranges, controls, tags,
// enums, unwrap, generics, sockets/plugs, extensions, occurrence forms, and
// nested map/array groups. Every plain '=' group rule here keeps a keyed
// first entry, per printer.File's documented round-trip requirement.
var corpus = txtar.Parse([]byte(`
-- literals.cddl --
r = 1 / -2 / 1.5 / "text" / h'deadbeef' / true / false

-- ranges-and-controls.cddl --
age = uint .. 130
pct = float0 .lt 100.0
named = tstr .regexp "[a-z]+"
wrapped = bstr .cbor uint
seq = bstr .cborseq uint

-- tags.cddl --
url = #6.32(tstr)
untagged6 = #6(int)
simple = #3.0
bare = #
any = #

-- enum-and-unwrap.cddl --
colors = &( red: 1, green: 2, blue: 3 )
picked = &colors
ref = ~colors

-- generics-and-groups.cddl --
box<T> = { val: T }
fields = a: int, b: tstr
doc = { fields, ? extra: bool }
listing = [ 2*4 int ]
star = [ * int ]
plus = [ + tstr ]

-- extensions.cddl --
base = int
base /= tstr
grp = ( x: int )
grp //= ( y: tstr )

-- sockets.cddl --
$ext /= int
$$ext /= tstr
p = $ext
`))

var ignorePos = cmp.Comparer(func(a, b token.Pos) bool { return true })

func TestParserIdempotence(t *testing.T) {
	for _, f := range corpus.Files {
		f := f
		t.Run(f.Name, func(t *testing.T) {
			orig, err := parser.ParseFile(f.Name, f.Data)
			require.NoError(t, err)

			printed := printer.File(orig)

			reparsed, err := parser.ParseFile(f.Name, []byte(printed))
			require.NoErrorf(t, err, "printed source:\n%s", printed)

			if !cmp.Equal(orig, reparsed, ignorePos) {
				t.Errorf("re-parsed AST differs from original (spec.md §8 parser idempotence):\n%s",
					cmp.Diff(orig, reparsed, ignorePos))
				t.Logf("original source vs printed source:\n%s", diff.Diff(string(f.Data), printed))
				t.Logf("original AST:\n%s", pretty.Sprint(orig))
				t.Logf("reparsed AST:\n%s", pretty.Sprint(reparsed))
			}
		})
	}
}

// TestPrintReparsePrintStable checks the weaker but still meaningful
// property that printing is itself stable once idempotence holds: printing
// the reparsed AST again produces byte-identical text, i.e. there's no
// second-generation drift.
func TestPrintReparsePrintStable(t *testing.T) {
	for _, f := range corpus.Files {
		f := f
		t.Run(f.Name, func(t *testing.T) {
			orig, err := parser.ParseFile(f.Name, f.Data)
			require.NoError(t, err)

			gen1 := printer.File(orig)
			reparsed, err := parser.ParseFile(f.Name, []byte(gen1))
			require.NoError(t, err)

			gen2 := printer.File(reparsed)
			if gen1 != gen2 {
				t.Errorf("printer output drifted on second generation:\n%s", diff.Diff(gen1, gen2))
			}
		})
	}
}
