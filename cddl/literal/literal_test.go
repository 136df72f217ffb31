package literal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumberInt(t *testing.T) {
	n, err := ParseNumber("42")
	require.NoError(t, err)
	assert.True(t, n.IsInt)
	assert.Equal(t, int64(42), n.I64)
	assert.Equal(t, uint64(42), n.U64)
	assert.False(t, n.Neg)
}

func TestParseNumberNegative(t *testing.T) {
	n, err := ParseNumber("-17")
	require.NoError(t, err)
	assert.True(t, n.IsInt)
	assert.True(t, n.Neg)
	assert.Equal(t, int64(-17), n.I64)
}

func TestParseNumberFloat(t *testing.T) {
	n, err := ParseNumber("3.25")
	require.NoError(t, err)
	assert.False(t, n.IsInt)
	assert.InDelta(t, 3.25, n.F64, 0.0001)
}

func TestParseNumberExponent(t *testing.T) {
	n, err := ParseNumber("1.5e3")
	require.NoError(t, err)
	assert.False(t, n.IsInt)
	assert.InDelta(t, 1500.0, n.F64, 0.0001)
}

func TestParseNumberBignum(t *testing.T) {
	n, err := ParseNumber("99999999999999999999999999999")
	require.NoError(t, err)
	assert.True(t, n.IsInt)
	require.NotNil(t, n.Big)
	assert.Equal(t, "99999999999999999999999999999", n.Big.Text('f'))
}

func TestParseNumberMalformed(t *testing.T) {
	_, err := ParseNumber("not-a-number")
	assert.Error(t, err)
}

func TestUnquoteTextPlain(t *testing.T) {
	s, err := UnquoteText(`"hello"`)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestUnquoteTextEscapes(t *testing.T) {
	s, err := UnquoteText(`"a\nb\tc\"d"`)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\tc\"d", s)
}

func TestUnquoteTextUnicodeEscape(t *testing.T) {
	s, err := UnquoteText("\"\\u00e9\"")
	require.NoError(t, err)
	assert.Equal(t, "é", s)
}

func TestUnquoteTextSurrogatePair(t *testing.T) {
	// U+1F600 GRINNING FACE, encoded as a UTF-16 surrogate pair.
	s, err := UnquoteText("\"\\ud83d\\ude00\"")
	require.NoError(t, err)
	assert.Equal(t, "😀", s)
}

func TestUnquoteTextMissingQuotes(t *testing.T) {
	_, err := UnquoteText(`hello`)
	assert.Error(t, err)
}

func TestUnquoteTextBadEscape(t *testing.T) {
	_, err := UnquoteText(`"\q"`)
	assert.Error(t, err)
}

func TestDecodeBytesBase16(t *testing.T) {
	b, err := DecodeBytes("68656c6c6f", BytesBase16)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), b)
}

func TestDecodeBytesBase16WithWhitespace(t *testing.T) {
	b, err := DecodeBytes("68 65 6c\n6c 6f", BytesBase16)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), b)
}

func TestDecodeBytesBase64Padded(t *testing.T) {
	// "A" in standard base64 with padding.
	b, err := DecodeBytes("QQ==", BytesBase64)
	require.NoError(t, err)
	assert.Equal(t, []byte("A"), b)
}

func TestDecodeBytesBase64Unpadded(t *testing.T) {
	b, err := DecodeBytes("QQ", BytesBase64)
	require.NoError(t, err)
	assert.Equal(t, []byte("A"), b)
}

func TestDecodeBytesBase64URLSafe(t *testing.T) {
	// "-_-_" uses the base64url alphabet ('-'/'_' instead of '+'/'/'),
	// which only the URLEncoding variants accept.
	b, err := DecodeBytes("-_-_", BytesBase64)
	require.NoError(t, err)
	assert.Len(t, b, 3)
}

func TestDecodeBytesRaw(t *testing.T) {
	b, err := DecodeBytes(`hello\n`, BytesRaw)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello\n"), b)
}
