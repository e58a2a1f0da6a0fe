// Package core provides fundamental types shared by the simulation kernel and
// its collaborators: board geometry, cell codes, grids, input and rewards.
// It has no external dependencies so that game logic stays pure and testable.
package core

import "fmt"

// Position is a board-relative cell coordinate. Row 0 is the top row.
type Position struct {
	Row, Col int
}

// Pos creates a new position.
func Pos(row, col int) Position {
	return Position{Row: row, Col: col}
}

// Add returns the position offset by the given delta.
func (p Position) Add(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// In returns true if the position falls inside a rows x cols board.
func (p Position) In(rows, cols int) bool {
	return p.Row >= 0 && p.Row < rows && p.Col >= 0 && p.Col < cols
}

// String implements fmt.Stringer.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Unit moves in the four compass directions.
var (
	North = Position{Row: -1}
	South = Position{Row: 1}
	West  = Position{Col: -1}
	East  = Position{Col: 1}
)

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
