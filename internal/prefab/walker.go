// Package prefab holds ready-made painter behaviors.
package prefab

import (
	"fmt"

	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/engine"
)

// MazeWalker moves a point one cell at a time and refuses to step onto
// impassable codes. Obstacles are read from the last rendered board.
//
// A walker that is not confined may walk off the board: its point is hidden
// and the walker keeps tracking where it would be, so it reappears when it
// walks back on.
type MazeWalker struct {
	impassable map[core.Code]bool
	confined   bool

	bound   bool
	virtual core.Position
}

// NewMazeWalker creates a walker blocked by the characters in impassable.
func NewMazeWalker(impassable string, confined bool) (*MazeWalker, error) {
	w := &MazeWalker{impassable: make(map[core.Code]bool, len(impassable)), confined: confined}
	for _, r := range impassable {
		if r > 127 {
			return nil, fmt.Errorf("prefab: impassable %q is not ASCII", r)
		}
		w.impassable[core.Code(r)] = true
	}
	return w, nil
}

// MustMazeWalker is like NewMazeWalker but panics on error.
func MustMazeWalker(impassable string, confined bool) *MazeWalker {
	w, err := NewMazeWalker(impassable, confined)
	if err != nil {
		panic(err)
	}
	return w
}

// Impassable reports whether c blocks this walker.
func (w *MazeWalker) Impassable(c core.Code) bool {
	return w.impassable[c]
}

// Virtual returns where the walker is, on the board or off it.
func (w *MazeWalker) Virtual(p *engine.Point) core.Position {
	w.bind(p)
	return w.virtual
}

// OnBoard reports whether the walker's virtual position is on the board.
func (w *MazeWalker) OnBoard(p *engine.Point) bool {
	w.bind(p)
	c := p.Corner()
	return w.virtual.In(c.Row, c.Col)
}

func (w *MazeWalker) bind(p *engine.Point) {
	if !w.bound {
		w.virtual = p.Position()
		w.bound = true
	}
}

// Move tries one step in the direction of a. It returns the code that
// blocked the move and true, or 0 and false when the walker moved. A
// confined walker is blocked at the board edge with code 0.
func (w *MazeWalker) Move(p *engine.Point, a core.Action, ctx *engine.Context) (core.Code, bool) {
	d, ok := a.Delta()
	if !ok {
		return 0, false
	}
	w.bind(p)
	next := w.virtual.Add(d)
	corner := p.Corner()
	if !next.In(corner.Row, corner.Col) {
		if w.confined {
			return 0, true
		}
		w.virtual = next
		p.Hide()
		return 0, false
	}
	if c := ctx.Board.Get(next); w.impassable[c] {
		return c, true
	}
	w.virtual = next
	if err := p.MoveTo(next); err != nil {
		return 0, true
	}
	p.Show()
	return 0, false
}

// UpdatePoint walks in the first direction found in the point's input.
func (w *MazeWalker) UpdatePoint(p *engine.Point, ctx *engine.Context) error {
	actions := ctx.Actions()
	for _, a := range directions {
		if actions.Has(a) {
			if c, blocked := w.Move(p, a, ctx); blocked && c != 0 {
				ctx.Blackboard.Logf("%c bumped into %c", byte(p.Code()), byte(c))
			}
			return nil
		}
	}
	return nil
}

var directions = []core.Action{core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight}
