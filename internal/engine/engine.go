// Package engine runs a tile-grid game: it owns the painters, the update
// schedule and the depth order, and turns one input into one observation,
// reward and discount per tick.
//
// An engine goes through three phases. During registration the caller adds
// a background, points and regions and arranges them into update groups.
// Start freezes that setup and performs the opening tick with no input.
// Tick then advances the episode until a painter terminates it.
package engine

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gridplay/internal/blackboard"
	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/render"
)

type phase int

const (
	phaseRegistering phase = iota
	phasePlaying
	phaseOver
	phaseFailed
)

// StepResult is what one tick produces. Observation is borrowed from the
// engine and is overwritten by the next tick; Clone it to keep it.
type StepResult struct {
	Observation render.Observation
	Reward      core.Reward
	Discount    float64
	Frame       int
	GameOver    bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithOcclusion selects how masks treat overlapping painters. The default
// is render.Occluding.
func WithOcclusion(o render.Occlusion) Option {
	return func(e *Engine) {
		e.occlusion = o
	}
}

// WithLogger routes engine diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine is a single episode of a game. It is not safe for concurrent use.
type Engine struct {
	rows, cols int
	occlusion  render.Occlusion
	logger     *log.Logger

	phase   phase
	failure error

	backdrop *Background
	things   *registry
	sched    *schedule
	groups   []group
	bb       *blackboard.Blackboard
	ctl      *blackboard.Control

	renderer *render.Renderer
	obs      render.Observation
}

// New creates an engine for a rows x cols board, ready for registration.
func New(rows, cols int, opts ...Option) (*Engine, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, rows, cols)
	}
	e := &Engine{
		rows:      rows,
		cols:      cols,
		occlusion: render.Occluding,
		logger:    log.New(io.Discard),
		things:    newRegistry(),
		sched:     newSchedule(),
	}
	e.bb, e.ctl = blackboard.New()
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Rows returns the board height.
func (e *Engine) Rows() int { return e.rows }

// Cols returns the board width.
func (e *Engine) Cols() int { return e.cols }

// Occlusion returns the mask policy.
func (e *Engine) Occlusion() render.Occlusion { return e.occlusion }

// Blackboard returns the shared state painters coordinate through.
func (e *Engine) Blackboard() *blackboard.Blackboard { return e.bb }

// Background returns the registered background, or nil.
func (e *Engine) Background() *Background { return e.backdrop }

// Things returns the registered points and regions.
func (e *Engine) Things() Things { return e.things.snapshot() }

// DepthOrder returns thing codes from back to front.
func (e *Engine) DepthOrder() []core.Code { return e.things.codes() }

// GameOver reports whether the episode has terminated.
func (e *Engine) GameOver() bool { return e.phase == phaseOver }

// Started reports whether Start has been called successfully.
func (e *Engine) Started() bool { return e.phase != phaseRegistering }

// Observation returns the latest observation. It is only available after
// Start.
func (e *Engine) Observation() (render.Observation, bool) {
	if e.renderer == nil {
		return render.Observation{}, false
	}
	return e.obs, true
}

// Groups returns the update group tags in the order they are consulted.
// Before Start the order reflects the groups registered so far.
func (e *Engine) Groups() []string {
	groups := e.groups
	if e.phase == phaseRegistering {
		groups = e.sched.freeze()
	}
	tags := make([]string, len(groups))
	for i, g := range groups {
		tags[i] = g.tag
	}
	return tags
}

func (e *Engine) checkRegistering() error {
	if e.phase != phaseRegistering {
		return ErrRegistrationClosed
	}
	return nil
}

// claimed reports whether c already belongs to a painter.
func (e *Engine) claimed(c core.Code) bool {
	if e.things.has(c) {
		return true
	}
	return e.backdrop != nil && e.backdrop.palette.Contains(c)
}

func checkCode(c core.Code) error {
	if c > 127 {
		return fmt.Errorf("%w: %d", ErrBadCode, byte(c))
	}
	return nil
}

// SetBackground registers the background. A nil prefill starts it zeroed.
// Every non-zero prefill code must be in the palette, and no palette code
// may already belong to a point or region.
func (e *Engine) SetBackground(palette Palette, prefill core.Board, b BackgroundBehavior) (*Background, error) {
	if err := e.checkRegistering(); err != nil {
		return nil, err
	}
	if e.backdrop != nil {
		return nil, ErrBackgroundSet
	}
	for _, c := range palette.Codes() {
		if e.things.has(c) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCode, c)
		}
	}

	curtain := core.NewBoard(e.rows, e.cols)
	if prefill != nil {
		if !prefill.SameShape(e.rows, e.cols) {
			return nil, fmt.Errorf("%w: background is %dx%d, board is %dx%d",
				ErrShape, prefill.Rows(), prefill.Cols(), e.rows, e.cols)
		}
		if err := checkPalette(prefill, palette); err != nil {
			return nil, err
		}
		curtain.CopyFrom(prefill)
	}

	e.backdrop = &Background{curtain: curtain, palette: palette, behavior: b}
	e.logger.Debug("background registered", "palette", string(codeBytes(palette.Codes())))
	return e.backdrop, nil
}

func checkPalette(curtain core.Board, palette Palette) error {
	for row := range curtain {
		for col, c := range curtain[row] {
			if c != 0 && !palette.Contains(c) {
				return fmt.Errorf("%w: %q at %v", ErrNotInPalette, c, core.Pos(row, col))
			}
		}
	}
	return nil
}

// AddPoint registers a single-cell painter at pos, in the current update
// group and at the front of the depth order.
func (e *Engine) AddPoint(code core.Code, pos core.Position, b PointBehavior) (*Point, error) {
	if err := e.checkNewThing(code); err != nil {
		return nil, err
	}
	if !pos.In(e.rows, e.cols) {
		return nil, fmt.Errorf("%w: %q at %v", ErrOutOfBounds, code, pos)
	}
	p := &Point{code: code, pos: pos, visible: true, rows: e.rows, cols: e.cols, behavior: b}
	e.addThing(p)
	return p, nil
}

// AddRegion registers a painter covering the cells set in prefill, or
// nothing if prefill is nil.
func (e *Engine) AddRegion(code core.Code, prefill core.Mask, b RegionBehavior) (*Region, error) {
	if err := e.checkNewThing(code); err != nil {
		return nil, err
	}
	curtain := core.NewMask(e.rows, e.cols)
	if prefill != nil {
		if !prefill.SameShape(e.rows, e.cols) {
			return nil, fmt.Errorf("%w: region %q is %dx%d, board is %dx%d",
				ErrShape, code, prefill.Rows(), prefill.Cols(), e.rows, e.cols)
		}
		curtain.CopyFrom(prefill)
	}
	r := &Region{code: code, curtain: curtain, behavior: b}
	e.addThing(r)
	return r, nil
}

func (e *Engine) checkNewThing(code core.Code) error {
	if err := e.checkRegistering(); err != nil {
		return err
	}
	if err := checkCode(code); err != nil {
		return err
	}
	if e.claimed(code) {
		return fmt.Errorf("%w: %q", ErrDuplicateCode, code)
	}
	return nil
}

func (e *Engine) addThing(t Thing) {
	e.things.add(t)
	e.sched.add(t)
	e.logger.Debug("thing registered", "code", t.Code().String(), "kind", t.Kind(), "group", e.sched.current)
}

// SetGroup makes tag the update group for things registered from now on.
func (e *Engine) SetGroup(tag string) error {
	if err := e.checkRegistering(); err != nil {
		return err
	}
	e.sched.current = tag
	return nil
}

// SetDepthOrder replaces the back-to-front paint order. codes must name
// every registered point and region exactly once.
func (e *Engine) SetDepthOrder(codes []core.Code) error {
	if err := e.checkRegistering(); err != nil {
		return err
	}
	return e.things.setOrder(codes)
}

// Start closes registration and performs the opening tick with no input.
func (e *Engine) Start() (StepResult, error) {
	if err := e.checkRegistering(); err != nil {
		return StepResult{}, err
	}
	if e.backdrop == nil {
		return StepResult{}, ErrNoBackground
	}

	e.groups = e.sched.freeze()
	codes := append(e.backdrop.palette.Codes(), e.things.codes()...)
	e.renderer = render.New(e.rows, e.cols, codes, e.occlusion)
	if err := e.render(); err != nil {
		return StepResult{}, err
	}
	e.phase = phasePlaying
	e.logger.Debug("episode started",
		"rows", e.rows, "cols", e.cols, "things", e.things.snapshot().Len(), "groups", len(e.groups))

	return e.Tick(core.NoInput)
}

// Tick advances the episode by one step.
func (e *Engine) Tick(input core.Input) (StepResult, error) {
	switch e.phase {
	case phaseRegistering:
		return StepResult{}, ErrNotStarted
	case phaseOver:
		return StepResult{}, ErrGameOver
	case phaseFailed:
		return StepResult{}, fmt.Errorf("%w: %v", ErrEpisodeFailed, e.failure)
	}

	res, err := e.tick(input)
	if err != nil {
		e.phase = phaseFailed
		e.failure = err
		e.logger.Error("tick failed", "frame", e.bb.Frame(), "error", err)
		return StepResult{}, err
	}
	return res, nil
}

func (e *Engine) tick(input core.Input) (StepResult, error) {
	frame := e.ctl.BeginFrame()
	ctx := &Context{
		Input:      input,
		Board:      e.obs.Board,
		Masks:      e.obs.Masks,
		Backdrop:   e.backdrop,
		Things:     e.things.snapshot(),
		Blackboard: e.bb,
	}

	if b := e.backdrop.behavior; b != nil {
		ctx.bg = true
		if err := b.UpdateBackground(e.backdrop, ctx); err != nil {
			return StepResult{}, fmt.Errorf("engine: background update: %w", err)
		}
		ctx.bg = false
	}

	for _, g := range e.groups {
		e.ctl.EnterGroup(g.tag)
		for _, t := range g.members {
			ctx.self = t.Code()
			if err := update(t, ctx); err != nil {
				return StepResult{}, fmt.Errorf("engine: update %c (group %q): %w", byte(t.Code()), g.tag, err)
			}
		}
		if err := e.render(); err != nil {
			return StepResult{}, err
		}
	}
	e.ctl.LeaveGroups()

	d := e.ctl.TakeDirectives()
	for _, r := range d.Reorders {
		if err := e.things.moveInFrontOf(r.Mover, r.InFrontOf); err != nil {
			return StepResult{}, fmt.Errorf("engine: reorder %v: %w", r, err)
		}
	}
	if len(d.Reorders) > 0 {
		if err := e.render(); err != nil {
			return StepResult{}, err
		}
	}
	if d.Terminate {
		e.phase = phaseOver
		e.logger.Debug("episode terminated", "frame", frame, "discount", d.Discount)
	}

	return StepResult{
		Observation: e.obs,
		Reward:      d.Reward,
		Discount:    d.Discount,
		Frame:       frame,
		GameOver:    d.Terminate,
	}, nil
}

func update(t Thing, ctx *Context) error {
	switch p := t.(type) {
	case *Point:
		if p.behavior != nil {
			return p.behavior.UpdatePoint(p, ctx)
		}
	case *Region:
		if p.behavior != nil {
			return p.behavior.UpdateRegion(p, ctx)
		}
	}
	return nil
}

// render repaints the whole board: background first, then every thing from
// back to front. Hidden points are skipped.
func (e *Engine) render() error {
	if err := checkPalette(e.backdrop.curtain, e.backdrop.palette); err != nil {
		return fmt.Errorf("engine: render: %w", err)
	}
	r := e.renderer
	r.Clear()
	if err := r.PaintBackground(e.backdrop.curtain); err != nil {
		return fmt.Errorf("engine: render: %w", err)
	}
	for _, c := range e.things.order {
		var err error
		switch t := e.things.byCode[c].(type) {
		case *Point:
			if t.visible {
				err = r.PaintPoint(t.code, t.pos)
			}
		case *Region:
			err = r.PaintRegion(t.code, t.curtain)
		}
		if err != nil {
			return fmt.Errorf("engine: render: %w", err)
		}
	}
	e.obs = r.Render()
	return nil
}
