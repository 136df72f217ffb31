package cborval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cddlang.org/go/internal/core/adt"
)

func TestDecodeUint(t *testing.T) {
	v, err := Decode([]byte{0x05})
	require.NoError(t, err)
	assert.Equal(t, adt.UintKind, v.Kind()&adt.UintKind)
	assert.EqualValues(t, 5, v.Uint())
}

func TestDecodeUint8Bit(t *testing.T) {
	// 0x18 0x64 = unsigned int, 1 extra byte, value 100
	v, err := Decode([]byte{0x18, 0x64})
	require.NoError(t, err)
	assert.EqualValues(t, 100, v.Uint())
}

func TestDecodeNegativeInt(t *testing.T) {
	// 0x20 = negative int, n=0 -> value -1
	v, err := Decode([]byte{0x20})
	require.NoError(t, err)
	assert.True(t, v.IsNegativeInt())
	assert.EqualValues(t, -1, v.Int())
}

func TestDecodeTextString(t *testing.T) {
	// 0x64 "IETF" = text string length 4
	v, err := Decode([]byte{0x64, 'I', 'E', 'T', 'F'})
	require.NoError(t, err)
	assert.Equal(t, "IETF", v.Text())
}

func TestDecodeByteString(t *testing.T) {
	v, err := Decode([]byte{0x44, 0x01, 0x02, 0x03, 0x04})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, v.Bytes())
}

func TestDecodeArray(t *testing.T) {
	// [1, 2, 3]
	v, err := Decode([]byte{0x83, 0x01, 0x02, 0x03})
	require.NoError(t, err)
	require.Equal(t, 3, v.ArrayLen())
	assert.EqualValues(t, 1, v.ArrayItem(0).Uint())
	assert.EqualValues(t, 3, v.ArrayItem(2).Uint())
}

func TestDecodeMap(t *testing.T) {
	// {"a": 1}
	v, err := Decode([]byte{0xa1, 0x61, 'a', 0x01})
	require.NoError(t, err)
	require.Equal(t, 1, v.MapLen())
	keys := v.MapKeys()
	require.Len(t, keys, 1)
	assert.Equal(t, "a", keys[0].Text())
	val, ok := v.MapValue(keys[0])
	require.True(t, ok)
	assert.EqualValues(t, 1, val.Uint())
}

func TestDecodeTag(t *testing.T) {
	// tag 32 wrapping "https://a"
	v, err := Decode([]byte{0xd8, 0x20, 0x69, 'h', 't', 't', 'p', 's', ':', '/', '/', 'a'})
	require.NoError(t, err)
	num, inner, ok := v.Tag()
	require.True(t, ok)
	assert.EqualValues(t, 32, num)
	assert.Equal(t, "https://a", inner.Text())
}

func TestDecodeBoolAndNull(t *testing.T) {
	v, err := Decode([]byte{0xf5}) // true
	require.NoError(t, err)
	assert.True(t, v.Bool())

	v, err = Decode([]byte{0xf4}) // false
	require.NoError(t, err)
	assert.False(t, v.Bool())

	v, err = Decode([]byte{0xf6}) // null
	require.NoError(t, err)
	assert.Equal(t, adt.NullKind, v.Kind())
}

func TestDecodeIndefiniteArray(t *testing.T) {
	// [_ 1, 2]
	v, err := Decode([]byte{0x9f, 0x01, 0x02, 0xff})
	require.NoError(t, err)
	require.Equal(t, 2, v.ArrayLen())
}

func TestDecodeTrailingBytesError(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x02})
	require.Error(t, err)
}
