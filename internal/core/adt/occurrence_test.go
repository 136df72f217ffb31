package adt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cddlang.org/go/cddl/ast"
)

func TestOccursRangeDefault(t *testing.T) {
	min, max := OccursRange(ast.Occurrence{})
	assert.Equal(t, 1, min)
	assert.Equal(t, 1, max)
}

func TestOccursRangeForms(t *testing.T) {
	min, max := OccursRange(ast.Occurrence{Present: true, Min: 0, Max: -1}) // *
	assert.Equal(t, 0, min)
	assert.Equal(t, -1, max)

	min, max = OccursRange(ast.Occurrence{Present: true, Min: 1, Max: -1}) // +
	assert.Equal(t, 1, min)
	assert.Equal(t, -1, max)

	min, max = OccursRange(ast.Occurrence{Present: true, Min: 0, Max: 1}) // ?
	assert.Equal(t, 0, min)
	assert.Equal(t, 1, max)

	min, max = OccursRange(ast.Occurrence{Present: true, Min: 2, Max: 4}) // 2*4
	assert.Equal(t, 2, min)
	assert.Equal(t, 4, max)
}

func TestIsPerElement(t *testing.T) {
	assert.False(t, IsPerElement(ast.Occurrence{}))
	assert.False(t, IsPerElement(ast.Occurrence{Present: true, Min: 0, Max: 1})) // ?
	assert.True(t, IsPerElement(ast.Occurrence{Present: true, Min: 0, Max: -1})) // *
	assert.True(t, IsPerElement(ast.Occurrence{Present: true, Min: 1, Max: -1})) // +
	assert.True(t, IsPerElement(ast.Occurrence{Present: true, Min: 2, Max: 4}))  // N*M, M>1
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange(3, 2, 4))
	assert.False(t, InRange(1, 2, 4))
	assert.False(t, InRange(5, 2, 4))
	assert.True(t, InRange(1000, 0, -1))
}

func TestEntryCount(t *testing.T) {
	gc := &ast.GroupChoice{Entries: []*ast.GroupEntry{
		{Occ: ast.Occurrence{Present: true, Min: 1, Max: 1}},
		{Occ: ast.Occurrence{Present: true, Min: 0, Max: -1}},
	}}
	min, max := EntryCount(gc)
	assert.Equal(t, 1, min)
	assert.Equal(t, -1, max)
}
