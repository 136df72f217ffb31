// Package literal parses and unescapes the value-literal forms used by CDDL
// text, byte-string, and numeric productions (RFC 8610 §3.1, §3.3). The
// unescaping tables mirror cue/literal's quote/unquote conventions; the
// numeric path additionally preserves arbitrary-precision integers and
// decimal fractions via github.com/cockroachdb/apd/v2, since RFC 8610 places
// no bound on integer literal magnitude (the bigint/bignum/decfrac prelude
// family).
package literal

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/apd/v2"
)

// Number is a numeric literal. It keeps the original source text, a fast
// int64/uint64/float64 path when the value fits, and an apd.Decimal for
// values that don't (or for exact decimal-fraction/bigfloat controller
// comparisons).
type Number struct {
	Text  string
	IsInt bool // literal had no '.', no exponent
	I64   int64
	U64   uint64
	F64   float64
	Big   *apd.Decimal // always populated; authoritative for bignum compares
	Neg   bool
}

// ParseNumber parses a CDDL numeric literal (optionally signed, decimal,
// hex, octal, or binary for integers; decimal or exponent form for floats).
func ParseNumber(text string) (Number, error) {
	n := Number{Text: text}
	d, _, err := apd.NewFromString(text)
	radix := false
	if err != nil {
		// apd reads decimal text only; math/big's base-0 parsing covers the
		// 0x/0o/0b integer prefixes.
		if bi, ok := new(big.Int).SetString(text, 0); ok {
			d, err, radix = apd.NewWithBigInt(bi, 0), nil, true
		}
	}
	if err != nil {
		return n, fmt.Errorf("malformed numeric literal %q: %w", text, err)
	}
	n.Big = d
	n.Neg = d.Negative
	n.IsInt = radix || !strings.ContainsAny(text, ".eE")
	if n.IsInt {
		if i, err := d.Int64(); err == nil {
			n.I64 = i
			if i >= 0 {
				n.U64 = uint64(i)
			}
		}
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		n.F64 = f
	} else if bf, err := d.Float64(); err == nil {
		n.F64 = bf
	}
	return n, nil
}

// UnquoteText unescapes a double-quoted CDDL text string (tstr literal),
// per RFC 8610 §3.1's JSON-compatible escape set plus CDDL's own \NNN
// shorthand is NOT supported (CDDL reuses JSON string escapes verbatim).
func UnquoteText(quoted string) (string, error) {
	if len(quoted) < 2 || quoted[0] != '"' || quoted[len(quoted)-1] != '"' {
		return "", fmt.Errorf("text literal missing surrounding quotes: %q", quoted)
	}
	body := quoted[1 : len(quoted)-1]
	if !strings.ContainsRune(body, '\\') {
		if !utf8.ValidString(body) {
			return "", fmt.Errorf("text literal is not valid UTF-8")
		}
		return body, nil
	}
	var b strings.Builder
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			r, size := utf8.DecodeRuneInString(body[i:])
			b.WriteRune(r)
			i += size
			continue
		}
		if i+1 >= len(body) {
			return "", fmt.Errorf("unterminated escape in text literal")
		}
		esc := body[i+1]
		switch esc {
		case '"', '\\', '/':
			b.WriteByte(esc)
			i += 2
		case 'b':
			b.WriteByte('\b')
			i += 2
		case 'f':
			b.WriteByte('\f')
			i += 2
		case 'n':
			b.WriteByte('\n')
			i += 2
		case 'r':
			b.WriteByte('\r')
			i += 2
		case 't':
			b.WriteByte('\t')
			i += 2
		case 'u':
			if i+6 > len(body) {
				return "", fmt.Errorf("short \\u escape in text literal")
			}
			v, err := strconv.ParseUint(body[i+2:i+6], 16, 32)
			if err != nil {
				return "", fmt.Errorf("bad \\u escape: %w", err)
			}
			r := rune(v)
			i += 6
			if utf8.IsSurrogate(r) && i+6 <= len(body) && body[i] == '\\' && body[i+1] == 'u' {
				v2, err := strconv.ParseUint(body[i+2:i+6], 16, 32)
				if err == nil {
					r2 := rune(v2)
					if combined, ok := combineSurrogates(r, r2); ok {
						r = combined
						i += 6
					}
				}
			}
			b.WriteRune(r)
		default:
			return "", fmt.Errorf("bad escape \\%c in text literal", esc)
		}
	}
	return b.String(), nil
}

func combineSurrogates(hi, lo rune) (rune, bool) {
	if hi < 0xD800 || hi > 0xDBFF || lo < 0xDC00 || lo > 0xDFFF {
		return 0, false
	}
	return ((hi - 0xD800) << 10) + (lo - 0xDC00) + 0x10000, true
}

// BytesForm identifies which of CDDL's byte-string literal forms produced a
// decoded value.
type BytesForm int

const (
	BytesRaw    BytesForm = iota // 'literal bytes', possibly with text escapes
	BytesBase16                  // h'....'
	BytesBase64                  // b64'....'
)

// DecodeBytes decodes a CDDL byte-string literal body (without the
// surrounding quotes/prefix) per its form.
func DecodeBytes(body string, form BytesForm) ([]byte, error) {
	switch form {
	case BytesBase16:
		clean := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
				return -1
			}
			return r
		}, body)
		return hex.DecodeString(clean)
	case BytesBase64:
		clean := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
				return -1
			}
			return r
		}, body)
		encodings := []*base64.Encoding{
			base64.StdEncoding, base64.URLEncoding,
			base64.RawStdEncoding, base64.RawURLEncoding,
		}
		var lastErr error
		for _, enc := range encodings {
			if b, err := enc.DecodeString(clean); err == nil {
				return b, nil
			} else {
				lastErr = err
			}
		}
		return nil, lastErr
	default:
		s, err := unquoteBytesLiteral(body)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	}
}

func unquoteBytesLiteral(body string) (string, error) {
	return UnquoteText(`"` + body + `"`)
}
