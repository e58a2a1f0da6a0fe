package render

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/gridplay/internal/core"
)

// Array conversion errors.
var (
	ErrNoFeatures = errors.New("render: no requested code is present in the observation")
	ErrUnmapped   = errors.New("render: observation holds a code with no mapped value")
	ErrValueDepth = errors.New("render: mapped values must be non-empty and of equal length")
)

// Repainter substitutes codes in observations, e.g. to hide the difference
// between two kinds of wall from an agent. Codes not in the mapping pass
// through unchanged. Masks of the output are occluding.
type Repainter struct {
	mapping map[core.Code]core.Code
	board   core.Board
	masks   Masks
}

// NewRepainter creates a repainter for the given code substitutions.
func NewRepainter(mapping map[core.Code]core.Code) *Repainter {
	m := make(map[core.Code]core.Code, len(mapping))
	for from, to := range mapping {
		m[from] = to
	}
	return &Repainter{mapping: m}
}

// Repaint returns the repainted observation. Like Renderer.Render, the result
// borrows the repainter's buffers until the next call.
func (rp *Repainter) Repaint(obs Observation) Observation {
	rows, cols := obs.Board.Rows(), obs.Board.Cols()
	if rp.board == nil || !rp.board.SameShape(rows, cols) {
		rp.allocate(obs, rows, cols)
	}

	for r := range obs.Board {
		for c, v := range obs.Board[r] {
			if to, ok := rp.mapping[v]; ok {
				v = to
			}
			rp.board[r][c] = v
		}
	}
	for code, m := range rp.masks {
		for r := range rp.board {
			for c, v := range rp.board[r] {
				m[r][c] = v == code
			}
		}
	}
	return Observation{Board: rp.board, Masks: rp.masks}
}

// allocate sizes the buffers; output codes are the input codes minus the
// replaced ones, plus every replacement.
func (rp *Repainter) allocate(obs Observation, rows, cols int) {
	rp.board = core.NewBoard(rows, cols)
	rp.masks = make(Masks)
	for code := range obs.Masks {
		if _, replaced := rp.mapping[code]; !replaced {
			rp.masks[code] = core.NewMask(rows, cols)
		}
	}
	for _, to := range rp.mapping {
		rp.masks[to] = core.NewMask(rows, cols)
	}
}

// FeatureStack stacks the masks of the given codes into a depth x rows x cols
// tensor of 0/1 values, in the order given. Codes absent from the observation
// yield all-zero layers, but at least one code must be present.
func FeatureStack(obs Observation, codes []core.Code) ([][][]float32, error) {
	found := false
	for _, c := range codes {
		if _, ok := obs.Masks[c]; ok {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: asked for %q, have %q", ErrNoFeatures, string(codeBytes(codes)), string(codeBytes(obs.Codes())))
	}

	rows, cols := obs.Board.Rows(), obs.Board.Cols()
	out := make([][][]float32, len(codes))
	for i, c := range codes {
		layer := make([][]float32, rows)
		m := obs.Masks[c]
		for r := range layer {
			layer[r] = make([]float32, cols)
			if m == nil {
				continue
			}
			for col, on := range m[r] {
				if on {
					layer[r][col] = 1
				}
			}
		}
		out[i] = layer
	}
	return out, nil
}

// ValueMap turns observations into depth x rows x cols arrays by giving
// every code a vector of values, e.g. an RGB colour per code. A scalar
// mapping is a depth of one.
type ValueMap struct {
	values map[core.Code][]float32
	depth  int
	out    [][][]float32
}

// NewValueMap creates a mapping. Every value must have the same length.
func NewValueMap(values map[core.Code][]float32) (*ValueMap, error) {
	depth := -1
	vm := &ValueMap{values: make(map[core.Code][]float32, len(values))}
	for c, v := range values {
		if len(v) == 0 || (depth >= 0 && len(v) != depth) {
			return nil, fmt.Errorf("%w: %q has %d values", ErrValueDepth, c, len(v))
		}
		depth = len(v)
		vm.values[c] = append([]float32(nil), v...)
	}
	if depth < 0 {
		return nil, fmt.Errorf("%w: empty mapping", ErrValueDepth)
	}
	vm.depth = depth
	return vm, nil
}

// NewScalarMap creates a depth one mapping.
func NewScalarMap(values map[core.Code]float32) (*ValueMap, error) {
	vectors := make(map[core.Code][]float32, len(values))
	for c, v := range values {
		vectors[c] = []float32{v}
	}
	return NewValueMap(vectors)
}

// Depth returns the length of every mapped value.
func (vm *ValueMap) Depth() int { return vm.depth }

// Array maps the board of obs. The result borrows the map's buffer until
// the next call.
func (vm *ValueMap) Array(obs Observation) ([][][]float32, error) {
	rows, cols := obs.Board.Rows(), obs.Board.Cols()
	if len(vm.out) == 0 || len(vm.out[0]) != rows || (rows > 0 && len(vm.out[0][0]) != cols) {
		vm.out = make([][][]float32, vm.depth)
		for d := range vm.out {
			vm.out[d] = make([][]float32, rows)
			for r := range vm.out[d] {
				vm.out[d][r] = make([]float32, cols)
			}
		}
	}

	for r := range obs.Board {
		for c, code := range obs.Board[r] {
			v, ok := vm.values[code]
			if !ok {
				return nil, fmt.Errorf("%w: %q at %v", ErrUnmapped, code, core.Pos(r, c))
			}
			for d, x := range v {
				vm.out[d][r][c] = x
			}
		}
	}
	return vm.out, nil
}

// ChannelsLast reorders a depth x rows x cols array to rows x cols x depth,
// the layout image libraries expect. The result is a new array.
func ChannelsLast(a [][][]float32) [][][]float32 {
	if len(a) == 0 {
		return nil
	}
	rows := len(a[0])
	out := make([][][]float32, rows)
	for r := range out {
		cols := len(a[0][r])
		out[r] = make([][]float32, cols)
		for c := range out[r] {
			px := make([]float32, len(a))
			for d := range a {
				px[d] = a[d][r][c]
			}
			out[r][c] = px
		}
	}
	return out
}

func codeBytes(codes []core.Code) []byte {
	b := make([]byte, len(codes))
	for i, c := range codes {
		b[i] = byte(c)
	}
	return b
}
