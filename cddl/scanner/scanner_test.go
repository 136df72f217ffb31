package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cddlang.org/go/cddl/token"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	s := New("test.cddl", []byte(src))
	var toks []Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	require.Empty(t, s.Errors())
	return toks
}

func TestScanPunctuationAndIdent(t *testing.T) {
	toks := scanAll(t, `foo = { a: int, b ^ => tstr }`)
	var kinds []token.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []token.Kind{
		token.IDENT, token.ASSIGN, token.LBRACE,
		token.IDENT, token.COLON, token.IDENT, token.COMMA,
		token.IDENT, token.CARET, token.ARROWMAP, token.IDENT,
		token.RBRACE, token.EOF,
	}, kinds)
}

func TestScanControl(t *testing.T) {
	toks := scanAll(t, `x = uint .le 10`)
	require.Len(t, toks, 5)
	assert.Equal(t, token.CONTROL, toks[2].Kind)
	assert.Equal(t, "uint.le", toks[2].Text)
}

func TestScanBytesPrefixForms(t *testing.T) {
	toks := scanAll(t, `h'ab01' b64'QQ==' 'raw'`)
	require.Len(t, toks, 7)
	assert.Equal(t, token.IDENT, toks[0].Kind)
	assert.Equal(t, "h", toks[0].Text)
	assert.Equal(t, token.BYTES, toks[1].Kind)
	assert.Equal(t, token.IDENT, toks[2].Kind)
	assert.Equal(t, "b64", toks[2].Text)
	assert.Equal(t, token.BYTES, toks[3].Kind)
	assert.Equal(t, token.BYTES, toks[4].Kind)
}

func TestScanNumbers(t *testing.T) {
	toks := scanAll(t, `-1 1.5 1e10`)
	require.Len(t, toks, 4)
	assert.Equal(t, token.INT, toks[0].Kind)
	assert.Equal(t, token.FLOAT, toks[1].Kind)
	assert.Equal(t, token.FLOAT, toks[2].Kind)
}

func TestScanRangeOperators(t *testing.T) {
	toks := scanAll(t, `0..10 0...10`)
	require.Len(t, toks, 5)
	assert.Equal(t, token.RANGEINCL, toks[1].Kind)
	assert.Equal(t, token.RANGEEXCL, toks[3].Kind)
}

func TestScanSocketAndPlug(t *testing.T) {
	toks := scanAll(t, `$foo $$bar`)
	require.Len(t, toks, 3)
	assert.Equal(t, token.SOCKET, toks[0].Kind)
	assert.Equal(t, token.PLUG, toks[1].Kind)
}
