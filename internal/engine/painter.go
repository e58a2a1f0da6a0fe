package engine

import (
	"fmt"

	"github.com/vovakirdan/gridplay/internal/blackboard"
	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/render"
)

// Kind tags the three painter variants. The engine dispatches on it instead
// of on an open interface hierarchy.
type Kind int

const (
	KindBackground Kind = iota
	KindPoint
	KindRegion
)

func (k Kind) String() string {
	switch k {
	case KindBackground:
		return "background"
	case KindPoint:
		return "point"
	case KindRegion:
		return "region"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Painter is implemented by *Background, *Point and *Region only.
type Painter interface {
	Kind() Kind
	painter()
}

// Thing is a painter that owns a single code: a point or a region.
type Thing interface {
	Painter
	Code() core.Code
}

// Context is what a behavior sees when it is consulted. Board and Masks
// are the last fully rendered observation: changes made earlier in the same
// update group are not visible yet.
type Context struct {
	Input      core.Input
	Board      core.Board
	Masks      render.Masks
	Backdrop   *Background
	Things     Things
	Blackboard *blackboard.Blackboard

	self core.Code
	bg   bool
}

// Actions returns the input addressed to the painter being updated. The
// background always gets the shared frame.
func (ctx *Context) Actions() core.InputFrame {
	if ctx.bg {
		return ctx.Input.Shared
	}
	return ctx.Input.For(ctx.self)
}

// Behaviors. A nil behavior makes the painter static.
type (
	BackgroundBehavior interface {
		UpdateBackground(bg *Background, ctx *Context) error
	}
	PointBehavior interface {
		UpdatePoint(p *Point, ctx *Context) error
	}
	RegionBehavior interface {
		UpdateRegion(r *Region, ctx *Context) error
	}
)

// BackgroundFunc adapts a function to BackgroundBehavior.
type BackgroundFunc func(bg *Background, ctx *Context) error

func (f BackgroundFunc) UpdateBackground(bg *Background, ctx *Context) error { return f(bg, ctx) }

// PointFunc adapts a function to PointBehavior.
type PointFunc func(p *Point, ctx *Context) error

func (f PointFunc) UpdatePoint(p *Point, ctx *Context) error { return f(p, ctx) }

// RegionFunc adapts a function to RegionBehavior.
type RegionFunc func(r *Region, ctx *Context) error

func (f RegionFunc) UpdateRegion(r *Region, ctx *Context) error { return f(r, ctx) }

// Background is the full-board layer painted first every render. Its
// curtain may only hold codes from its palette (or zero).
type Background struct {
	curtain  core.Board
	palette  Palette
	behavior BackgroundBehavior
}

func (*Background) Kind() Kind { return KindBackground }
func (*Background) painter()   {}

// Curtain is the mutable layer. Cells set to codes outside the palette make
// the next render fail.
func (bg *Background) Curtain() core.Board { return bg.curtain }

// Palette returns the legal codes for this background.
func (bg *Background) Palette() Palette { return bg.palette }

// Paint sets a single cell, checking the code against the palette.
func (bg *Background) Paint(pos core.Position, c core.Code) error {
	if !pos.In(bg.curtain.Rows(), bg.curtain.Cols()) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, pos)
	}
	if c != 0 && !bg.palette.Contains(c) {
		return fmt.Errorf("%w: %v", ErrNotInPalette, c)
	}
	bg.curtain.Set(pos, c)
	return nil
}

// Point is a single-cell painter. Its position is always on the board; a
// point that should vanish hides itself.
type Point struct {
	code       core.Code
	pos        core.Position
	visible    bool
	rows, cols int
	behavior   PointBehavior
}

func (*Point) Kind() Kind        { return KindPoint }
func (*Point) painter()          {}
func (p *Point) Code() core.Code { return p.code }
func (p *Point) Position() core.Position {
	return p.pos
}
func (p *Point) Visible() bool { return p.visible }
func (p *Point) Hide()         { p.visible = false }
func (p *Point) Show()         { p.visible = true }

// Corner returns the board size, one past the last legal position.
func (p *Point) Corner() core.Position {
	return core.Pos(p.rows, p.cols)
}

// MoveTo places the point at pos.
func (p *Point) MoveTo(pos core.Position) error {
	if !pos.In(p.rows, p.cols) {
		return fmt.Errorf("%w: %c to %v", ErrOutOfBounds, byte(p.code), pos)
	}
	p.pos = pos
	return nil
}

// Region is a painter covering any subset of the board.
type Region struct {
	code     core.Code
	curtain  core.Mask
	behavior RegionBehavior
}

func (*Region) Kind() Kind        { return KindRegion }
func (*Region) painter()          {}
func (r *Region) Code() core.Code { return r.code }

// Curtain is the mutable coverage mask.
func (r *Region) Curtain() core.Mask { return r.curtain }

// Things is a read-only view of the registered points and regions in
// back-to-front order.
type Things struct {
	order  []core.Code
	byCode map[core.Code]Thing
}

// Len returns the number of registered things.
func (t Things) Len() int { return len(t.order) }

// Codes returns the codes in back-to-front order.
func (t Things) Codes() []core.Code {
	return append([]core.Code(nil), t.order...)
}

// Get returns the thing owning c.
func (t Things) Get(c core.Code) (Thing, bool) {
	th, ok := t.byCode[c]
	return th, ok
}

// Point returns the point owning c, if c belongs to a point.
func (t Things) Point(c core.Code) (*Point, bool) {
	p, ok := t.byCode[c].(*Point)
	return p, ok
}

// Region returns the region owning c, if c belongs to a region.
func (t Things) Region(c core.Code) (*Region, bool) {
	r, ok := t.byCode[c].(*Region)
	return r, ok
}
