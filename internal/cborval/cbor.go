// Package cborval implements a minimal RFC 8949 CBOR decoder producing
// adt.Value trees (major types 0–7, including tagged values). No example
// in the retrieval pack imports a CBOR codec (see DESIGN.md); the decode
// shape here is patterned on original_source's src/validator/cbor.rs major
// type dispatch, re-expressed in Go rather than ported.
package cborval

import (
	"encoding/binary"
	"fmt"
	"math"

	"cddlang.org/go/internal/core/adt"
)

// Decode parses a single CBOR-encoded value from src.
func Decode(src []byte) (adt.Value, error) {
	d := &decoder{buf: src}
	v, err := d.decodeValue("")
	if err != nil {
		return nil, err
	}
	if d.off != len(d.buf) {
		return nil, fmt.Errorf("cbor: %d trailing byte(s) after top-level value", len(d.buf)-d.off)
	}
	return v, nil
}

// DecodeSeq parses a CBOR sequence (RFC 8742): zero or more concatenated
// top-level CBOR data items with no further framing, as used by the
// `.cborseq` control (spec.md §4.F).
func DecodeSeq(src []byte) ([]adt.Value, error) {
	d := &decoder{buf: src}
	var items []adt.Value
	for d.off < len(d.buf) {
		v, err := d.decodeValue("")
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

type decoder struct {
	buf []byte
	off int
}

func (d *decoder) errf(format string, args ...interface{}) error {
	return fmt.Errorf("cbor: at byte %d: %s", d.off, fmt.Sprintf(format, args...))
}

func (d *decoder) readByte() (byte, error) {
	if d.off >= len(d.buf) {
		return 0, d.errf("unexpected end of input")
	}
	b := d.buf[d.off]
	d.off++
	return b, nil
}

func (d *decoder) readN(n int) ([]byte, error) {
	if d.off+n > len(d.buf) {
		return nil, d.errf("unexpected end of input, want %d more byte(s)", n)
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

// readArg reads the argument encoding following a major-type/additional
// info byte: additional info 0-23 is the value itself; 24/25/26/27 select
// 1/2/4/8 follow-on bytes; 31 signals indefinite length.
func (d *decoder) readArg(info byte) (value uint64, indefinite bool, err error) {
	switch {
	case info < 24:
		return uint64(info), false, nil
	case info == 24:
		b, err := d.readByte()
		return uint64(b), false, err
	case info == 25:
		b, err := d.readN(2)
		if err != nil {
			return 0, false, err
		}
		return uint64(binary.BigEndian.Uint16(b)), false, nil
	case info == 26:
		b, err := d.readN(4)
		if err != nil {
			return 0, false, err
		}
		return uint64(binary.BigEndian.Uint32(b)), false, nil
	case info == 27:
		b, err := d.readN(8)
		if err != nil {
			return 0, false, err
		}
		return binary.BigEndian.Uint64(b), false, nil
	case info == 31:
		return 0, true, nil
	}
	return 0, false, d.errf("reserved additional info %d", info)
}

func (d *decoder) decodeValue(path string) (adt.Value, error) {
	head, err := d.readByte()
	if err != nil {
		return nil, err
	}
	major := head >> 5
	info := head & 0x1f

	switch major {
	case 0: // unsigned int
		n, _, err := d.readArg(info)
		if err != nil {
			return nil, err
		}
		return &uintValue{n: n, path: path}, nil

	case 1: // negative int: value is -1 - n
		n, _, err := d.readArg(info)
		if err != nil {
			return nil, err
		}
		return &nintValue{n: n, path: path}, nil

	case 2: // byte string
		return d.decodeBytesLike(info, path, false)

	case 3: // text string
		return d.decodeBytesLike(info, path, true)

	case 4: // array
		return d.decodeArray(info, path)

	case 5: // map
		return d.decodeMap(info, path)

	case 6: // tag
		num, _, err := d.readArg(info)
		if err != nil {
			return nil, err
		}
		inner, err := d.decodeValue(path)
		if err != nil {
			return nil, err
		}
		return &tagValue{num: int64(num), inner: inner, path: path}, nil

	case 7: // simple/float
		return d.decodeSimple(info, path)
	}
	return nil, d.errf("impossible major type %d", major)
}

func (d *decoder) decodeBytesLike(info byte, path string, text bool) (adt.Value, error) {
	if info == 31 {
		// indefinite-length: concatenate chunks until the break (0xff).
		var all []byte
		for {
			b, err := d.readByte()
			if err != nil {
				return nil, err
			}
			if b == 0xff {
				break
			}
			d.off--
			chunkMajor := d.buf[d.off] >> 5
			chunkInfo := d.buf[d.off] & 0x1f
			d.off++
			n, _, err := d.readArg(chunkInfo)
			if err != nil {
				return nil, err
			}
			expectMajor := byte(2)
			if text {
				expectMajor = 3
			}
			if chunkMajor != expectMajor {
				return nil, d.errf("indefinite string chunk has wrong major type")
			}
			chunk, err := d.readN(int(n))
			if err != nil {
				return nil, err
			}
			all = append(all, chunk...)
		}
		if text {
			return &textValue{s: string(all), path: path}, nil
		}
		return &bytesValue{b: all, path: path}, nil
	}
	n, _, err := d.readArg(info)
	if err != nil {
		return nil, err
	}
	b, err := d.readN(int(n))
	if err != nil {
		return nil, err
	}
	if text {
		return &textValue{s: string(b), path: path}, nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return &bytesValue{b: cp, path: path}, nil
}

func (d *decoder) decodeArray(info byte, path string) (adt.Value, error) {
	var items []adt.Value
	if info == 31 {
		for {
			if d.off < len(d.buf) && d.buf[d.off] == 0xff {
				d.off++
				break
			}
			v, err := d.decodeValue(fmt.Sprintf("%s/%d", path, len(items)))
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return &arrayValue{items: items, path: path}, nil
	}
	n, _, err := d.readArg(info)
	if err != nil {
		return nil, err
	}
	items = make([]adt.Value, 0, n)
	for i := uint64(0); i < n; i++ {
		v, err := d.decodeValue(fmt.Sprintf("%s/%d", path, i))
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return &arrayValue{items: items, path: path}, nil
}

func (d *decoder) decodeMap(info byte, path string) (adt.Value, error) {
	var keys, vals []adt.Value
	readPair := func() error {
		k, err := d.decodeValue(path)
		if err != nil {
			return err
		}
		v, err := d.decodeValue(path + "/" + keyString(k))
		if err != nil {
			return err
		}
		keys = append(keys, k)
		vals = append(vals, v)
		return nil
	}
	if info == 31 {
		for {
			if d.off < len(d.buf) && d.buf[d.off] == 0xff {
				d.off++
				break
			}
			if err := readPair(); err != nil {
				return nil, err
			}
		}
		return &mapValue{keys: keys, vals: vals, path: path}, nil
	}
	n, _, err := d.readArg(info)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < n; i++ {
		if err := readPair(); err != nil {
			return nil, err
		}
	}
	return &mapValue{keys: keys, vals: vals, path: path}, nil
}

func keyString(v adt.Value) string {
	switch {
	case v.Kind() == adt.StringKind:
		return v.Text()
	case v.Kind().Overlaps(adt.NumKind):
		return v.Decimal().String()
	}
	return "?"
}

func (d *decoder) decodeSimple(info byte, path string) (adt.Value, error) {
	switch info {
	case 20:
		return &boolValue{b: false, path: path}, nil
	case 21:
		return &boolValue{b: true, path: path}, nil
	case 22:
		return &nullValue{path: path}, nil
	case 23:
		return &undefinedValue{path: path}, nil
	case 25:
		b, err := d.readN(2)
		if err != nil {
			return nil, err
		}
		return &floatValue{f: float64(math.Float32frombits(halfToFloat32bits(binary.BigEndian.Uint16(b)))), path: path}, nil
	case 26:
		b, err := d.readN(4)
		if err != nil {
			return nil, err
		}
		return &floatValue{f: float64(math.Float32frombits(binary.BigEndian.Uint32(b))), path: path}, nil
	case 27:
		b, err := d.readN(8)
		if err != nil {
			return nil, err
		}
		return &floatValue{f: math.Float64frombits(binary.BigEndian.Uint64(b)), path: path}, nil
	}
	n, _, err := d.readArg(info)
	if err != nil {
		return nil, err
	}
	return &undefinedValue{path: path, simple: n}, nil
}

// halfToFloat32bits converts an IEEE 754 half-precision bit pattern to the
// equivalent float32 bit pattern.
func halfToFloat32bits(h uint16) uint32 {
	sign := uint32(h>>15) & 0x1
	exp := uint32(h>>10) & 0x1f
	frac := uint32(h) & 0x3ff
	switch exp {
	case 0:
		if frac == 0 {
			return sign << 31
		}
		for frac&0x400 == 0 {
			frac <<= 1
			exp--
		}
		exp++
		frac &= 0x3ff
	case 0x1f:
		exp = 0xff
	default:
		exp += 127 - 15
	}
	return sign<<31 | exp<<23 | frac<<13
}
