package adt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindIsAndOverlaps(t *testing.T) {
	k := IntKind | FloatKind
	assert.True(t, k.Is(IntKind))
	assert.True(t, k.Overlaps(FloatKind))
	assert.False(t, k.Is(BoolKind))
	assert.False(t, k.Overlaps(BoolKind))
}

func TestPreludeKindLookup(t *testing.T) {
	k, ok := PreludeKind("uint")
	assert.True(t, ok)
	assert.Equal(t, IntKind, k)

	k, ok = PreludeKind("int")
	assert.True(t, ok)
	assert.Equal(t, IntKind|NIntKind, k)

	_, ok = PreludeKind("not-a-prelude-name")
	assert.False(t, ok)
}

func TestIsPreludeName(t *testing.T) {
	assert.True(t, IsPreludeName("tstr"))
	assert.True(t, IsPreludeName("any"))
	assert.False(t, IsPreludeName("myrule"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "bottom", BottomKind.String())
	assert.Equal(t, "any", AnyKind.String())
	assert.Contains(t, (IntKind | StringKind).String(), "uint")
	assert.Contains(t, (IntKind | StringKind).String(), "text")
}
