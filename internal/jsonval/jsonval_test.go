package jsonval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cddlang.org/go/internal/core/adt"
)

func TestDecodeScalars(t *testing.T) {
	v, err := Decode([]byte(`null`))
	require.NoError(t, err)
	assert.Equal(t, adt.NullKind, v.Kind())

	v, err = Decode([]byte(`true`))
	require.NoError(t, err)
	assert.Equal(t, adt.BoolKind, v.Kind())
	assert.True(t, v.Bool())

	v, err = Decode([]byte(`"hello"`))
	require.NoError(t, err)
	assert.Equal(t, adt.StringKind, v.Kind())
	assert.Equal(t, "hello", v.Text())
}

func TestDecodeIntVsFloat(t *testing.T) {
	v, err := Decode([]byte(`3`))
	require.NoError(t, err)
	assert.Equal(t, adt.IntKind, v.Kind())

	v, err = Decode([]byte(`3.0`))
	require.NoError(t, err)
	assert.Equal(t, adt.FloatKind, v.Kind())

	v, err = Decode([]byte(`-3`))
	require.NoError(t, err)
	assert.Equal(t, adt.NIntKind, v.Kind())
	assert.True(t, v.IsNegativeInt())
}

func TestDecodeArray(t *testing.T) {
	v, err := Decode([]byte(`[1,2,3]`))
	require.NoError(t, err)
	require.Equal(t, adt.ArrayKind, v.Kind())
	require.Equal(t, 3, v.ArrayLen())
	assert.EqualValues(t, 2, v.ArrayItem(1).Int())
	assert.Equal(t, "/1", v.ArrayItem(1).Path())
}

func TestDecodeObject(t *testing.T) {
	v, err := Decode([]byte(`{"name":"x","age":3}`))
	require.NoError(t, err)
	require.Equal(t, adt.MapKind, v.Kind())
	require.Equal(t, 2, v.MapLen())

	keys := v.MapKeys()
	names := map[string]bool{}
	for _, k := range keys {
		names[k.Text()] = true
	}
	assert.True(t, names["name"])
	assert.True(t, names["age"])

	val, ok := v.MapValue(wrap("age", ""))
	require.True(t, ok)
	assert.EqualValues(t, 3, val.Int())
}

func TestDecodeInvalidJSON(t *testing.T) {
	_, err := Decode([]byte(`{`))
	require.Error(t, err)
}
