package token

import "fmt"

// Pos is a source span within a single CDDL document: a byte offset plus the
// derived line/column, computed lazily from a File's line table.
type Pos struct {
	Filename string
	Offset   int // byte offset, 0-based
	Line     int // 1-based
	Column   int // 1-based, in bytes (not runes)
}

// NoPos is the zero value of Pos; it is not a valid source position.
var NoPos = Pos{}

func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	s := p.Filename
	if s == "" {
		s = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", s, p.Line, p.Column)
}

// File tracks line-start offsets for a single source buffer so that byte
// offsets produced by the scanner can be translated to line/column pairs on
// demand, rather than on every token (CUE's token.File follows the same
// lazy-resolution shape).
type File struct {
	Name  string
	Size  int
	lines []int // byte offset of the first byte of each line
}

// NewFile creates a File and records the position of every line start in
// src.
func NewFile(name string, src []byte) *File {
	f := &File{Name: name, Size: len(src), lines: []int{0}}
	for i, b := range src {
		if b == '\n' && i+1 < len(src) {
			f.lines = append(f.lines, i+1)
		}
	}
	return f
}

// Pos translates a byte offset into a Pos.
func (f *File) Pos(offset int) Pos {
	// binary search for the line containing offset
	lo, hi := 0, len(f.lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.lines[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Pos{
		Filename: f.Name,
		Offset:   offset,
		Line:     lo + 1,
		Column:   offset - f.lines[lo] + 1,
	}
}
