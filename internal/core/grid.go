package core

import (
	"fmt"
	"strings"
)

// Code is a cell code: the small integer a painter writes into a board cell.
// Games use printable ASCII so boards read naturally as text.
type Code byte

// String returns the code as a one-character string.
func (c Code) String() string {
	return string(rune(c))
}

// Board is a row-major grid of cell codes.
type Board [][]Code

// NewBoard creates a rows x cols board filled with zero codes.
func NewBoard(rows, cols int) Board {
	b := make(Board, rows)
	for r := range b {
		b[r] = make([]Code, cols)
	}
	return b
}

// BoardFromStrings builds a board from equal-length text rows.
func BoardFromStrings(rows []string) (Board, error) {
	if len(rows) == 0 {
		return Board{}, nil
	}
	cols := len(rows[0])
	b := NewBoard(len(rows), cols)
	for r, line := range rows {
		if len(line) != cols {
			return nil, fmt.Errorf("core: row %d has length %d, expected %d", r, len(line), cols)
		}
		for c := 0; c < cols; c++ {
			b[r][c] = Code(line[c])
		}
	}
	return b, nil
}

// Rows returns the board height.
func (b Board) Rows() int {
	return len(b)
}

// Cols returns the board width.
func (b Board) Cols() int {
	if len(b) == 0 {
		return 0
	}
	return len(b[0])
}

// Get returns the code at p, or zero for out-of-bounds positions.
func (b Board) Get(p Position) Code {
	if !p.In(b.Rows(), b.Cols()) {
		return 0
	}
	return b[p.Row][p.Col]
}

// Set writes a code at p. Out-of-bounds positions are silently ignored.
func (b Board) Set(p Position, c Code) {
	if !p.In(b.Rows(), b.Cols()) {
		return
	}
	b[p.Row][p.Col] = c
}

// Fill sets every cell to c.
func (b Board) Fill(c Code) {
	for r := range b {
		for col := range b[r] {
			b[r][col] = c
		}
	}
}

// CopyFrom copies src into b. Both boards must have the same shape.
func (b Board) CopyFrom(src Board) {
	for r := range b {
		copy(b[r], src[r])
	}
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	clone := NewBoard(b.Rows(), b.Cols())
	clone.CopyFrom(b)
	return clone
}

// SameShape reports whether two boards have equal dimensions.
func (b Board) SameShape(rows, cols int) bool {
	if len(b) != rows {
		return false
	}
	for r := range b {
		if len(b[r]) != cols {
			return false
		}
	}
	return true
}

// Row returns the given row as a string.
func (b Board) Row(r int) string {
	if r < 0 || r >= len(b) {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(b[r]))
	for _, c := range b[r] {
		sb.WriteByte(byte(c))
	}
	return sb.String()
}

// Lines returns all rows as strings, top to bottom.
func (b Board) Lines() []string {
	lines := make([]string, len(b))
	for r := range b {
		lines[r] = b.Row(r)
	}
	return lines
}

// String joins the rows with newlines.
func (b Board) String() string {
	return strings.Join(b.Lines(), "\n")
}

// Mask is a row-major boolean grid, e.g. the cells a region covers.
type Mask [][]bool

// NewMask creates a rows x cols mask with every cell false.
func NewMask(rows, cols int) Mask {
	m := make(Mask, rows)
	for r := range m {
		m[r] = make([]bool, cols)
	}
	return m
}

// MaskFromStrings builds a mask that is true wherever the text has the given code.
func MaskFromStrings(rows []string, c Code) (Mask, error) {
	b, err := BoardFromStrings(rows)
	if err != nil {
		return nil, err
	}
	return b.MaskOf(c), nil
}

// MaskOf returns a new mask that is true where the board holds c.
func (b Board) MaskOf(c Code) Mask {
	m := NewMask(b.Rows(), b.Cols())
	for r := range b {
		for col, v := range b[r] {
			m[r][col] = v == c
		}
	}
	return m
}

// Rows returns the mask height.
func (m Mask) Rows() int {
	return len(m)
}

// Cols returns the mask width.
func (m Mask) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Get returns the mask value at p; false when out of bounds.
func (m Mask) Get(p Position) bool {
	if !p.In(m.Rows(), m.Cols()) {
		return false
	}
	return m[p.Row][p.Col]
}

// Set writes v at p. Out-of-bounds positions are silently ignored.
func (m Mask) Set(p Position, v bool) {
	if !p.In(m.Rows(), m.Cols()) {
		return
	}
	m[p.Row][p.Col] = v
}

// Fill sets every cell to v.
func (m Mask) Fill(v bool) {
	for r := range m {
		for c := range m[r] {
			m[r][c] = v
		}
	}
}

// CopyFrom copies src into m. Both masks must have the same shape.
func (m Mask) CopyFrom(src Mask) {
	for r := range m {
		copy(m[r], src[r])
	}
}

// Clone returns a deep copy of the mask.
func (m Mask) Clone() Mask {
	clone := NewMask(m.Rows(), m.Cols())
	clone.CopyFrom(m)
	return clone
}

// SameShape reports whether the mask has the given dimensions.
func (m Mask) SameShape(rows, cols int) bool {
	if len(m) != rows {
		return false
	}
	for r := range m {
		if len(m[r]) != cols {
			return false
		}
	}
	return true
}

// Count returns the number of true cells.
func (m Mask) Count() int {
	n := 0
	for r := range m {
		for _, v := range m[r] {
			if v {
				n++
			}
		}
	}
	return n
}

// Any returns true if at least one cell is set.
func (m Mask) Any() bool {
	for r := range m {
		for _, v := range m[r] {
			if v {
				return true
			}
		}
	}
	return false
}

// Lines renders the mask as rows of '#' (true) and '.' (false).
func (m Mask) Lines() []string {
	lines := make([]string, len(m))
	for r := range m {
		var sb strings.Builder
		sb.Grow(len(m[r]))
		for _, v := range m[r] {
			if v {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		lines[r] = sb.String()
	}
	return lines
}
