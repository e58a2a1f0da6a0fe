package render

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vovakirdan/gridplay/internal/core"
)

// Cropping errors.
var (
	ErrCropSize    = errors.New("render: crop window must be at least 1x1")
	ErrCropBounds  = errors.New("render: crop window leaves the board and no pad code is set")
	ErrCropPad     = errors.New("render: pad code is not declared in the observation")
	ErrCropMargins = errors.New("render: scroll margins leave no room to scroll")
	ErrCropTrack   = errors.New("render: tracked code is not declared in the observation")
)

// Cropper derives a smaller (or padded) view from each observation, e.g.
// to show a large level through a fixed-size window.
type Cropper interface {
	// Reset forgets any placement, ready for the first observation of a new
	// episode.
	Reset()
	// Crop returns the view of obs. The result borrows the cropper's buffers
	// until the next call.
	Crop(obs Observation) (Observation, error)
}

// CropOption configures a cropper.
type CropOption func(*cropSettings)

type cropSettings struct {
	pad     core.Code
	padded  bool
	margins [2]int // -1 centres that axis
	offset  core.Position
	saccade bool
}

// WithPad lets the window extend past the board; cells outside it show c.
// c must be a declared code of the observations being cropped.
func WithPad(c core.Code) CropOption {
	return func(s *cropSettings) {
		s.pad = c
		s.padded = true
	}
}

// WithMargins sets how close, in rows and columns, a tracked code may come
// to the window's edge before the window scrolls. The default is 2 rows and
// 3 columns. A negative value keeps the code centred on that axis, which
// needs an odd window size on it.
func WithMargins(rows, cols int) CropOption {
	return func(s *cropSettings) {
		s.margins = [2]int{rows, cols}
	}
}

// WithInitialOffset shifts where the tracked code sits in the window on the
// first observation, relative to the centre.
func WithInitialOffset(rows, cols int) CropOption {
	return func(s *cropSettings) {
		s.offset = core.Pos(rows, cols)
	}
}

// WithoutSaccade makes the window stay put when the tracked code jumps
// somewhere it cannot pan to. By default the window recentres on it.
func WithoutSaccade() CropOption {
	return func(s *cropSettings) {
		s.saccade = false
	}
}

func newCropSettings(opts []CropOption) cropSettings {
	s := cropSettings{margins: [2]int{2, 3}, saccade: true}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// window cuts rows x cols views out of observations into reused buffers.
type window struct {
	rows, cols int
	pad        core.Code
	padded     bool

	board core.Board
	masks Masks
}

func (w *window) fits(obs Observation) bool {
	return obs.Board.Rows() >= w.rows && obs.Board.Cols() >= w.cols
}

// cut copies the part of obs under the window whose top-left corner is at
// (top, left). Cells off the board take the pad code.
func (w *window) cut(obs Observation, top, left int) (Observation, error) {
	rows, cols := obs.Board.Rows(), obs.Board.Cols()
	if w.padded {
		if _, ok := obs.Masks[w.pad]; !ok {
			return Observation{}, fmt.Errorf("%w: %q", ErrCropPad, w.pad)
		}
	} else if top < 0 || left < 0 || top+w.rows > rows || left+w.cols > cols {
		return Observation{}, fmt.Errorf("%w: %dx%d at %v on a %dx%d board",
			ErrCropBounds, w.rows, w.cols, core.Pos(top, left), rows, cols)
	}
	w.allocate(obs)

	if w.padded {
		w.board.Fill(w.pad)
		for code, m := range w.masks {
			m.Fill(code == w.pad)
		}
	}
	for r := max(0, top); r < min(rows, top+w.rows); r++ {
		for c := max(0, left); c < min(cols, left+w.cols); c++ {
			w.board[r-top][c-left] = obs.Board[r][c]
			for code, m := range w.masks {
				m[r-top][c-left] = obs.Masks[code][r][c]
			}
		}
	}
	return Observation{Board: w.board, Masks: w.masks}, nil
}

// allocate keeps the buffers when they already match the window and the
// codes of obs.
func (w *window) allocate(obs Observation) {
	if w.board == nil {
		w.board = core.NewBoard(w.rows, w.cols)
	}
	same := len(w.masks) == len(obs.Masks)
	for code := range obs.Masks {
		if _, ok := w.masks[code]; !ok {
			same = false
			break
		}
	}
	if same {
		return
	}
	w.masks = make(Masks, len(obs.Masks))
	for code := range obs.Masks {
		w.masks[code] = core.NewMask(w.rows, w.cols)
	}
}

func newWindow(rows, cols int, s cropSettings) (window, error) {
	if rows < 1 || cols < 1 {
		return window{}, fmt.Errorf("%w: %dx%d", ErrCropSize, rows, cols)
	}
	return window{rows: rows, cols: cols, pad: s.pad, padded: s.padded}, nil
}

// FixedCropper always shows the same rows x cols window of the board.
type FixedCropper struct {
	corner core.Position
	win    window
}

// NewFixedCropper creates a cropper whose window has its top-left corner at
// corner. The corner may lie off the board when a pad is set.
func NewFixedCropper(corner core.Position, rows, cols int, opts ...CropOption) (*FixedCropper, error) {
	win, err := newWindow(rows, cols, newCropSettings(opts))
	if err != nil {
		return nil, err
	}
	return &FixedCropper{corner: corner, win: win}, nil
}

// Reset is a no-op; a fixed window has no placement to forget.
func (f *FixedCropper) Reset() {}

// Crop implements Cropper.
func (f *FixedCropper) Crop(obs Observation) (Observation, error) {
	return f.win.cut(obs, f.corner.Row, f.corner.Col)
}

// ScrollingCropper follows a code around the board. The window pans the
// smallest distance that keeps the first visible tracked code inside its
// margins. Without a pad it never leaves the board.
//
// Codes are located through the observation masks: a point's position, or
// the median row and column of a region. A code hidden behind another
// painter under occluding masks is not visible to the cropper.
type ScrollingCropper struct {
	win     window
	track   []core.Code
	margins core.Position
	offset  core.Position
	saccade bool

	corner core.Position
	placed bool
}

// NewScrollingCropper creates a rows x cols cropper tracking the given
// codes, in priority order.
func NewScrollingCropper(rows, cols int, track []core.Code, opts ...CropOption) (*ScrollingCropper, error) {
	s := newCropSettings(opts)
	win, err := newWindow(rows, cols, s)
	if err != nil {
		return nil, err
	}

	margin := func(m, size int) (int, error) {
		if m < 0 {
			if size%2 == 0 {
				return 0, fmt.Errorf("%w: cannot centre in an even size %d", ErrCropMargins, size)
			}
			m = size / 2
		}
		if 2*m >= size {
			return 0, fmt.Errorf("%w: margin %d in size %d", ErrCropMargins, m, size)
		}
		return m, nil
	}
	mrow, err := margin(s.margins[0], rows)
	if err != nil {
		return nil, err
	}
	mcol, err := margin(s.margins[1], cols)
	if err != nil {
		return nil, err
	}

	return &ScrollingCropper{
		win:     win,
		track:   slices.Clone(track),
		margins: core.Pos(mrow, mcol),
		offset:  s.offset,
		saccade: s.saccade,
	}, nil
}

// Corner returns the board position of the window's top-left cell, as of
// the last Crop.
func (sc *ScrollingCropper) Corner() core.Position { return sc.corner }

// Reset implements Cropper.
func (sc *ScrollingCropper) Reset() {
	sc.placed = false
	sc.corner = core.Position{}
}

// Crop implements Cropper.
func (sc *ScrollingCropper) Crop(obs Observation) (Observation, error) {
	if !sc.win.padded && !sc.win.fits(obs) {
		return Observation{}, fmt.Errorf("%w: %dx%d window on a %dx%d board",
			ErrCropBounds, sc.win.rows, sc.win.cols, obs.Board.Rows(), obs.Board.Cols())
	}
	centroid, found, err := sc.centroid(obs)
	if err != nil {
		return Observation{}, err
	}

	half := core.Pos(sc.win.rows/2, sc.win.cols/2)
	switch {
	case !sc.placed:
		sc.place(obs, centroid, found, half.Add(sc.offset))
	case !found:
		// Nothing to follow; stay put.
	case sc.canPanTo(obs, centroid):
		sc.panTo(obs, centroid)
	case sc.saccade:
		sc.place(obs, centroid, found, half)
	}
	return sc.win.cut(obs, sc.corner.Row, sc.corner.Col)
}

// place puts centroid at offset within the window, or the window at the
// board's top-left corner when there is nothing to track.
func (sc *ScrollingCropper) place(obs Observation, centroid core.Position, found bool, offset core.Position) {
	sc.placed = true
	if !found {
		sc.corner = core.Position{}
		return
	}
	sc.corner = core.Pos(centroid.Row-offset.Row, centroid.Col-offset.Col)
	sc.rectify(obs)
}

// canPanTo reports whether centroid lies inside the margins or one cell
// beyond them. A window pinned to a board edge also accepts the cells
// between that edge and its margin.
func (sc *ScrollingCropper) canPanTo(obs Observation, centroid core.Position) bool {
	c, w, m := centroid, sc.corner, sc.margins
	rows, cols := sc.win.rows, sc.win.cols
	vert := m.Row-1 <= c.Row-w.Row && c.Row-w.Row <= rows-m.Row
	horiz := m.Col-1 <= c.Col-w.Col && c.Col-w.Col <= cols-m.Col
	if sc.win.padded {
		return vert && horiz
	}

	switch {
	case !vert:
		if w.Row <= 0 {
			vert = c.Row <= m.Row
		} else if w.Row >= obs.Board.Rows()-rows {
			vert = c.Row >= w.Row+rows-m.Row
		}
	case !horiz:
		if w.Col <= 0 {
			horiz = c.Col <= m.Col
		} else if w.Col >= obs.Board.Cols()-cols {
			horiz = c.Col >= w.Col+cols-m.Col
		}
	}
	return vert && horiz
}

// panTo moves the window the least distance that brings centroid inside
// the margins.
func (sc *ScrollingCropper) panTo(obs Observation, centroid core.Position) {
	c, w, m := centroid, sc.corner, sc.margins
	drow := min(0, c.Row-w.Row-m.Row)
	if drow == 0 {
		drow = max(0, c.Row-w.Row-sc.win.rows+m.Row+1)
	}
	dcol := min(0, c.Col-w.Col-m.Col)
	if dcol == 0 {
		dcol = max(0, c.Col-w.Col-sc.win.cols+m.Col+1)
	}
	sc.corner = w.Add(core.Pos(drow, dcol))
	sc.rectify(obs)
}

// rectify pulls an unpadded window back onto the board.
func (sc *ScrollingCropper) rectify(obs Observation) {
	if sc.win.padded {
		return
	}
	w := sc.corner
	w.Row = max(0, w.Row) - max(0, w.Row+sc.win.rows-obs.Board.Rows())
	w.Col = max(0, w.Col) - max(0, w.Col+sc.win.cols-obs.Board.Cols())
	sc.corner = w
}

// centroid locates the first tracked code that shows on the board.
func (sc *ScrollingCropper) centroid(obs Observation) (core.Position, bool, error) {
	for _, code := range sc.track {
		m, ok := obs.Masks[code]
		if !ok {
			return core.Position{}, false, fmt.Errorf("%w: %q", ErrCropTrack, code)
		}
		if pos, ok := medianCell(m); ok {
			return pos, true, nil
		}
	}
	return core.Position{}, false, nil
}

// medianCell returns the median row and median column of the set cells of
// m, each rounded down.
func medianCell(m core.Mask) (core.Position, bool) {
	var rows, cols []int
	for r := range m {
		for c, on := range m[r] {
			if on {
				rows = append(rows, r)
				cols = append(cols, c)
			}
		}
	}
	if len(rows) == 0 {
		return core.Position{}, false
	}
	slices.Sort(cols)
	return core.Pos(median(rows), median(cols)), true
}

// median of sorted values, rounded down.
func median(sorted []int) int {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
