// Package jsonval adapts encoding/json-decoded data into adt.Value, using
// Decoder.UseNumber so that the int-vs-float distinction spec.md §9 calls
// out ("validating a float value against int fails even when the float has
// an exact integer representation") is preserved rather than collapsed by
// json.Unmarshal's default float64-for-everything behavior.
package jsonval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v2"

	"cddlang.org/go/internal/core/adt"
)

// Decode parses JSON text into an adt.Value tree.
func Decode(src []byte) (adt.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	return &value{v: v, path: ""}, nil
}

type value struct {
	v    interface{}
	path string
}

func wrap(v interface{}, path string) *value { return &value{v: v, path: path} }

func (n *value) Path() string { return n.path }

func (n *value) Kind() adt.Kind {
	switch v := n.v.(type) {
	case nil:
		return adt.NullKind
	case bool:
		return adt.BoolKind
	case json.Number:
		s := string(v)
		if !strings.ContainsAny(s, ".eE") {
			if strings.HasPrefix(s, "-") {
				return adt.NIntKind
			}
			return adt.IntKind
		}
		return adt.FloatKind
	case string:
		return adt.StringKind
	case []interface{}:
		return adt.ArrayKind
	case map[string]interface{}:
		return adt.MapKind
	}
	return adt.BottomKind
}

func (n *value) Bool() bool { return n.v.(bool) }

func (n *value) number() json.Number { return n.v.(json.Number) }

func (n *value) Int() int64 {
	i, _ := n.number().Int64()
	return i
}

func (n *value) Uint() uint64 {
	i, _ := n.number().Int64()
	return uint64(i)
}

func (n *value) Float() float64 {
	f, _ := n.number().Float64()
	return f
}

func (n *value) Decimal() *apd.Decimal {
	d, _, err := apd.NewFromString(string(n.number()))
	if err != nil {
		d = apd.New(0, 0)
	}
	return d
}

func (n *value) Text() string { return n.v.(string) }

func (n *value) Bytes() []byte {
	// JSON has no native byte-string type; bstr-typed JSON values are
	// conventionally base64url text per RFC 8610's JSON mapping guidance.
	s := n.v.(string)
	return []byte(s)
}

func (n *value) ArrayLen() int { return len(n.v.([]interface{})) }

func (n *value) ArrayItem(i int) adt.Value {
	a := n.v.([]interface{})
	return wrap(a[i], fmt.Sprintf("%s/%d", n.path, i))
}

func (n *value) MapLen() int { return len(n.v.(map[string]interface{})) }

func (n *value) MapKeys() []adt.Value {
	m := n.v.(map[string]interface{})
	keys := make([]adt.Value, 0, len(m))
	for k := range m {
		keys = append(keys, wrap(k, n.path+"/"+k))
	}
	return keys
}

func (n *value) MapValue(k adt.Value) (adt.Value, bool) {
	if k.Kind() != adt.StringKind {
		return nil, false
	}
	m := n.v.(map[string]interface{})
	v, ok := m[k.Text()]
	if !ok {
		return nil, false
	}
	return wrap(v, n.path+"/"+k.Text()), true
}

func (n *value) Tag() (int64, adt.Value, bool) { return 0, nil, false }

func (n *value) IsNegativeInt() bool {
	return n.Kind() == adt.NIntKind
}
