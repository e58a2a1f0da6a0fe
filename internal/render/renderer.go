// Package render composes painter output into observations.
//
// A Renderer is a reusable canvas: the engine clears it, paints the background,
// paints every visible painter in depth order, and asks for an Observation. The
// observation borrows the renderer's buffers and is only valid until the next
// Clear or paint; callers that keep it longer must Clone it.
package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vovakirdan/gridplay/internal/core"
)

var (
	// ErrUnknownCode is returned when painting a code the renderer was not built with.
	ErrUnknownCode = errors.New("render: code was never declared")
	// ErrOutOfBounds is returned when painting outside the board.
	ErrOutOfBounds = errors.New("render: position outside the board")
	// ErrShape is returned when a full-board buffer has the wrong dimensions.
	ErrShape = errors.New("render: buffer shape does not match the board")
)

// Occlusion selects how per-code masks treat overlapping paint.
type Occlusion int

const (
	// Occluding masks are true only where the code is the topmost paint.
	Occluding Occlusion = iota
	// Unoccluded masks are true wherever the code was painted this frame,
	// even if something was painted over it afterwards.
	Unoccluded
)

// String implements fmt.Stringer.
func (o Occlusion) String() string {
	switch o {
	case Occluding:
		return "occluding"
	case Unoccluded:
		return "unoccluded"
	default:
		return "unknown"
	}
}

// ParseOcclusion resolves "occluding" or "unoccluded" (empty means occluding).
func ParseOcclusion(s string) (Occlusion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "occluding", "occluded", "layers":
		return Occluding, nil
	case "unoccluded", "non-occluding", "nonoccluding":
		return Unoccluded, nil
	default:
		return Occluding, fmt.Errorf("render: unknown occlusion mode %q", s)
	}
}

// Masks maps each declared code to its occupancy mask.
type Masks map[core.Code]core.Mask

// Observation is a rendered snapshot: the flat board plus one mask per code.
type Observation struct {
	Board core.Board
	Masks Masks
}

// Mask returns the mask for c, or nil if c is not declared.
func (o Observation) Mask(c core.Code) core.Mask {
	return o.Masks[c]
}

// Clone returns a deep copy that stays valid across later renders.
func (o Observation) Clone() Observation {
	clone := Observation{
		Board: o.Board.Clone(),
		Masks: make(Masks, len(o.Masks)),
	}
	for c, m := range o.Masks {
		clone.Masks[c] = m.Clone()
	}
	return clone
}

// Codes returns the declared codes of the observation, sorted.
func (o Observation) Codes() []core.Code {
	return sortedCodes(o.Masks)
}

// Renderer is the canvas. It owns its board and mask buffers and reuses them
// across frames.
type Renderer struct {
	rows, cols int
	occlusion  Occlusion
	board      core.Board
	masks      Masks
}

// New creates a renderer for a rows x cols board that accepts the given codes.
func New(rows, cols int, codes []core.Code, occlusion Occlusion) *Renderer {
	r := &Renderer{
		rows:      rows,
		cols:      cols,
		occlusion: occlusion,
		board:     core.NewBoard(rows, cols),
		masks:     make(Masks, len(codes)),
	}
	for _, c := range codes {
		r.masks[c] = core.NewMask(rows, cols)
	}
	return r
}

// Rows returns the board height.
func (r *Renderer) Rows() int {
	return r.rows
}

// Cols returns the board width.
func (r *Renderer) Cols() int {
	return r.cols
}

// Occlusion returns the mask policy chosen at construction.
func (r *Renderer) Occlusion() Occlusion {
	return r.occlusion
}

// Codes returns the declared codes, sorted.
func (r *Renderer) Codes() []core.Code {
	return sortedCodes(r.masks)
}

// Clear resets the board to zero codes and every mask to false.
func (r *Renderer) Clear() {
	r.board.Fill(0)
	for _, m := range r.masks {
		m.Fill(false)
	}
}

// PaintBackground copies a full-board buffer onto the canvas.
func (r *Renderer) PaintBackground(curtain core.Board) error {
	if !curtain.SameShape(r.rows, r.cols) {
		return fmt.Errorf("%w: background is %dx%d, board is %dx%d",
			ErrShape, curtain.Rows(), curtain.Cols(), r.rows, r.cols)
	}
	r.board.CopyFrom(curtain)
	if r.occlusion == Unoccluded {
		for c, m := range r.masks {
			for row := range curtain {
				for col, v := range curtain[row] {
					if v == c {
						m[row][col] = true
					}
				}
			}
		}
	}
	return nil
}

// PaintPoint paints code at a single cell.
func (r *Renderer) PaintPoint(code core.Code, pos core.Position) error {
	m, ok := r.masks[code]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}
	if !pos.In(r.rows, r.cols) {
		return fmt.Errorf("%w: %q at %v", ErrOutOfBounds, code, pos)
	}
	r.board[pos.Row][pos.Col] = code
	if r.occlusion == Unoccluded {
		m[pos.Row][pos.Col] = true
	}
	return nil
}

// PaintRegion paints code wherever mask is true.
func (r *Renderer) PaintRegion(code core.Code, mask core.Mask) error {
	m, ok := r.masks[code]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}
	if !mask.SameShape(r.rows, r.cols) {
		return fmt.Errorf("%w: region %q is %dx%d, board is %dx%d",
			ErrShape, code, mask.Rows(), mask.Cols(), r.rows, r.cols)
	}
	for row := range mask {
		for col, on := range mask[row] {
			if !on {
				continue
			}
			r.board[row][col] = code
			if r.occlusion == Unoccluded {
				m[row][col] = true
			}
		}
	}
	return nil
}

// Render returns the current canvas as an observation. Calling it again
// without painting in between returns the same contents.
func (r *Renderer) Render() Observation {
	if r.occlusion == Occluding {
		for c, m := range r.masks {
			for row := range r.board {
				for col, v := range r.board[row] {
					m[row][col] = v == c
				}
			}
		}
	}
	return Observation{Board: r.board, Masks: r.masks}
}

func sortedCodes(masks Masks) []core.Code {
	codes := make([]core.Code, 0, len(masks))
	for c := range masks {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
