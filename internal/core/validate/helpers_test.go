package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cddlang.org/go/cddl/ast"
	"cddlang.org/go/internal/core/adt"
)

func anyType() *ast.Type {
	return &ast.Type{Choices: []*ast.Type1{
		{Target: &ast.Type2{Kind: ast.T2Typename, Name: &ast.Ident{Name: "any"}}},
	}}
}

func namedType(name string) *ast.Type {
	return &ast.Type{Choices: []*ast.Type1{
		{Target: &ast.Type2{Kind: ast.T2Typename, Name: &ast.Ident{Name: name}}},
	}}
}

func TestOccRangeText(t *testing.T) {
	assert.Equal(t, "1..1", occRangeText(1, 1))
	assert.Equal(t, "0..∞", occRangeText(0, -1))
	assert.Equal(t, "2..4", occRangeText(2, 4))
}

func TestMajorTypeKind(t *testing.T) {
	k, ok := majorTypeKind(0)
	assert.True(t, ok)
	assert.Equal(t, adt.IntKind, k)

	k, ok = majorTypeKind(3)
	assert.True(t, ok)
	assert.Equal(t, adt.StringKind, k)

	k, ok = majorTypeKind(7)
	assert.True(t, ok)
	assert.True(t, k.Is(adt.BoolKind))
	assert.True(t, k.Is(adt.FloatKind))

	_, ok = majorTypeKind(8)
	assert.False(t, ok)
}

func TestIsAnyType(t *testing.T) {
	assert.True(t, isAnyType(anyType()))
	assert.False(t, isAnyType(namedType("tstr")))
}

func TestIsCatchAllEntry(t *testing.T) {
	catchAll := &ast.GroupEntry{
		Kind: ast.GEValueMemberKey,
		Occ:  ast.Occurrence{Present: true, Min: 0, Max: -1},
		Key: &ast.MemberKey{
			Kind: ast.MKType,
			Type: &ast.Type1{Target: &ast.Type2{Kind: ast.T2Typename, Name: &ast.Ident{Name: "any"}}},
		},
		ValueType: anyType(),
	}
	assert.True(t, isCatchAllEntry(catchAll))

	typedKey := &ast.GroupEntry{
		Kind: ast.GEValueMemberKey,
		Occ:  ast.Occurrence{Present: true, Min: 0, Max: -1},
		Key: &ast.MemberKey{
			Kind: ast.MKType,
			Type: &ast.Type1{Target: &ast.Type2{Kind: ast.T2Typename, Name: &ast.Ident{Name: "tstr"}}},
		},
		ValueType: anyType(),
	}
	assert.False(t, isCatchAllEntry(typedKey), "tstr => any is not the narrow any => any catch-all form")

	notPerElement := &ast.GroupEntry{
		Kind: ast.GEValueMemberKey,
		Occ:  ast.Occurrence{Present: true, Min: 0, Max: 1},
		Key: &ast.MemberKey{
			Kind: ast.MKType,
			Type: &ast.Type1{Target: &ast.Type2{Kind: ast.T2Typename, Name: &ast.Ident{Name: "any"}}},
		},
		ValueType: anyType(),
	}
	assert.False(t, isCatchAllEntry(notPerElement))
}

func TestDedupeKeys(t *testing.T) {
	got := dedupeKeys([]string{"b", "a", "b", "c", "a"})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestDedupeKeysEmpty(t *testing.T) {
	assert.Empty(t, dedupeKeys(nil))
}
