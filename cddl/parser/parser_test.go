package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cddlang.org/go/cddl/ast"
)

func TestParseSimpleTypeRule(t *testing.T) {
	f, err := ParseFile("test.cddl", []byte(`r = int`))
	require.NoError(t, err)
	require.Len(t, f.Rules, 1)
	r := f.Rules[0]
	assert.Equal(t, "r", r.Name.Name)
	assert.False(t, r.IsGroup)
	require.Len(t, r.Type.Choices, 1)
	assert.Equal(t, ast.T2Typename, r.Type.Choices[0].Target.Kind)
	assert.Equal(t, "int", r.Type.Choices[0].Target.Name.Name)
}

func TestParseMapRule(t *testing.T) {
	f, err := ParseFile("test.cddl", []byte(`p = { name: tstr, age: uint }`))
	require.NoError(t, err)
	require.Len(t, f.Rules, 1)
	r := f.Rules[0]
	require.Len(t, r.Type.Choices, 1)
	t2 := r.Type.Choices[0].Target
	require.Equal(t, ast.T2Map, t2.Kind)
	require.Len(t, t2.Group.Choices, 1)
	entries := t2.Group.Choices[0].Entries
	require.Len(t, entries, 2)
	assert.Equal(t, ast.MKBareword, entries[0].Key.Kind)
	assert.Equal(t, "name", entries[0].Key.Name.Name)
	assert.True(t, entries[0].Key.Cut)
	assert.Equal(t, "age", entries[1].Key.Name.Name)
}

func TestParseGroupRule(t *testing.T) {
	f, err := ParseFile("test.cddl", []byte("g = ( a: int, b: tstr )\nuse = { g }"))
	require.NoError(t, err)
	require.Len(t, f.Rules, 2)
	assert.True(t, f.Rules[0].IsGroup)
	assert.False(t, f.Rules[1].IsGroup)
}

func TestParseOccurrence(t *testing.T) {
	f, err := ParseFile("test.cddl", []byte(`r = [ 2*4 int ]`))
	require.NoError(t, err)
	r := f.Rules[0]
	t2 := r.Type.Choices[0].Target
	require.Equal(t, ast.T2Array, t2.Kind)
	ent := t2.Group.Choices[0].Entries[0]
	assert.True(t, ent.Occ.Present)
	assert.Equal(t, 2, ent.Occ.Min)
	assert.Equal(t, 4, ent.Occ.Max)
}

func TestParseGenericRule(t *testing.T) {
	f, err := ParseFile("test.cddl", []byte("g<T> = [ * T ]\nr = g<int>"))
	require.NoError(t, err)
	require.Len(t, f.Rules, 2)
	g := f.Rules[0]
	require.Len(t, g.Params, 1)
	assert.Equal(t, "T", g.Params[0].Name)

	r := f.Rules[1]
	t2 := r.Type.Choices[0].Target
	require.Equal(t, ast.T2Typename, t2.Kind)
	assert.Equal(t, "g", t2.Name.Name)
	require.Len(t, t2.Name.Args, 1)
}

func TestParseTag(t *testing.T) {
	f, err := ParseFile("test.cddl", []byte(`tagged = #6.32(tstr)`))
	require.NoError(t, err)
	t2 := f.Rules[0].Type.Choices[0].Target
	require.Equal(t, ast.T2Tag, t2.Kind)
	assert.EqualValues(t, 32, t2.TagNum)
	require.NotNil(t, t2.TagType)
}

func TestParseByteStringPrefixForms(t *testing.T) {
	f, err := ParseFile("test.cddl", []byte(`r = h'ab01'`))
	require.NoError(t, err)
	t2 := f.Rules[0].Type.Choices[0].Target
	require.Equal(t, ast.T2Literal, t2.Kind)
	require.Equal(t, ast.LitBytes, t2.LitKind)
	assert.Equal(t, []byte{0xab, 0x01}, t2.Bytes)
}

func TestParseBase64ByteStringPrefixForm(t *testing.T) {
	f, err := ParseFile("test.cddl", []byte(`r = b64'QQ=='`))
	require.NoError(t, err)
	t2 := f.Rules[0].Type.Choices[0].Target
	require.Equal(t, ast.T2Literal, t2.Kind)
	require.Equal(t, ast.LitBytes, t2.LitKind)
	assert.Equal(t, []byte("A"), t2.Bytes)
}

func TestParseChoice(t *testing.T) {
	f, err := ParseFile("test.cddl", []byte(`r = int / tstr`))
	require.NoError(t, err)
	require.Len(t, f.Rules[0].Type.Choices, 2)
}

func TestParseControlOperator(t *testing.T) {
	f, err := ParseFile("test.cddl", []byte(`r = uint .le 10`))
	require.NoError(t, err)
	t1 := f.Rules[0].Type.Choices[0]
	assert.Equal(t, "le", t1.Control)
	require.NotNil(t, t1.Arg)
}

func TestParseErrorRecovery(t *testing.T) {
	_, err := ParseFile("test.cddl", []byte(`r = `))
	require.Error(t, err)
}

func TestRootRuleSelection(t *testing.T) {
	f, err := ParseFile("test.cddl", []byte("g = ( a: int, b: tstr )\nfirst = { g }\nsecond = int"))
	require.NoError(t, err)
	root := f.RootRule()
	require.NotNil(t, root)
	assert.Equal(t, "first", root.Name.Name)
}
