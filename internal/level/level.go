// Package level builds engines from text diagrams. A level is a block of
// equal-length strings where every character is a cell: characters named
// as points or regions become those painters, everything else becomes the
// background.
package level

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/engine"
	"github.com/vovakirdan/gridplay/internal/render"
)

var (
	ErrEmptyArt   = errors.New("level: art is empty")
	ErrRaggedArt  = errors.New("level: art rows differ in length")
	ErrBadChar    = errors.New("level: characters must be single ASCII characters")
	ErrBeneath    = errors.New("level: beneath may not be a point or region character")
	ErrPointCount = errors.New("level: a point character may appear at most once in the art")
	ErrSchedule   = errors.New("level: schedule must list every point and region exactly once")
	ErrDepthOrder = errors.New("level: depth order must list every point and region exactly once")
)

// DefaultBeneath fills the cells under points and regions when a level
// does not say otherwise.
const DefaultBeneath = " "

// Level is a game board described as text.
type Level struct {
	ID   string `yaml:"id" toml:"id"`
	Name string `yaml:"name" toml:"name"`

	Art []string `yaml:"art" toml:"art"`

	// Beneath is the background character drawn under points and regions.
	Beneath string `yaml:"beneath" toml:"beneath"`
	// Backdrop lists extra characters the background may paint later on
	// even though the art never shows them.
	Backdrop string `yaml:"backdrop" toml:"backdrop"`

	Points  []string `yaml:"points" toml:"points"`
	Regions []string `yaml:"regions" toml:"regions"`

	// Schedule splits points and regions into update groups, consulted in
	// the order given. Empty means one group holding everything.
	Schedule [][]string `yaml:"schedule" toml:"schedule"`
	// DepthOrder lists every point and region from back to front. Empty
	// means schedule order.
	DepthOrder string `yaml:"depth_order" toml:"depth_order"`
	Occlusion  string `yaml:"occlusion" toml:"occlusion"`
}

// Behaviors supplies the logic for a level's painters. Painters with no
// entry are static.
type Behaviors struct {
	Background engine.BackgroundBehavior
	Points     map[core.Code]engine.PointBehavior
	Regions    map[core.Code]engine.RegionBehavior
}

// Size returns the art's dimensions.
func (l Level) Size() (rows, cols int) {
	if len(l.Art) == 0 {
		return 0, 0
	}
	return len(l.Art), len(l.Art[0])
}

func (l Level) beneath() string {
	if l.Beneath == "" {
		return DefaultBeneath
	}
	return l.Beneath
}

// Validate checks the level without building it.
func (l Level) Validate() error {
	_, err := l.plan()
	return err
}

// plan is a validated level ready to be turned into an engine.
type plan struct {
	art     core.Board
	beneath core.Code
	points  map[core.Code]bool
	regions map[core.Code]bool
	groups  [][]core.Code
	flat    []core.Code
	depth   []core.Code
	extra   []core.Code
	occlude *render.Occlusion
}

func (l Level) plan() (*plan, error) {
	if len(l.Art) == 0 || len(l.Art[0]) == 0 {
		return nil, ErrEmptyArt
	}
	for i, row := range l.Art {
		if len(row) != len(l.Art[0]) {
			return nil, fmt.Errorf("%w: row %d has %d characters, want %d", ErrRaggedArt, i, len(row), len(l.Art[0]))
		}
		if err := checkASCII(row); err != nil {
			return nil, fmt.Errorf("art row %d: %w", i, err)
		}
	}
	art, err := core.BoardFromStrings(l.Art)
	if err != nil {
		return nil, fmt.Errorf("level: %w", err)
	}

	p := &plan{
		art:     art,
		points:  make(map[core.Code]bool),
		regions: make(map[core.Code]bool),
	}

	var declared []core.Code
	for _, s := range l.Points {
		c, err := single(s)
		if err != nil {
			return nil, fmt.Errorf("point: %w", err)
		}
		p.points[c] = true
		declared = append(declared, c)
	}
	for _, s := range l.Regions {
		c, err := single(s)
		if err != nil {
			return nil, fmt.Errorf("region: %w", err)
		}
		p.regions[c] = true
		declared = append(declared, c)
	}

	p.beneath, err = single(l.beneath())
	if err != nil {
		return nil, fmt.Errorf("beneath: %w", err)
	}
	if p.points[p.beneath] || p.regions[p.beneath] {
		return nil, fmt.Errorf("%w: %q", ErrBeneath, p.beneath)
	}
	if err := checkASCII(l.Backdrop); err != nil {
		return nil, fmt.Errorf("backdrop: %w", err)
	}
	for i := 0; i < len(l.Backdrop); i++ {
		p.extra = append(p.extra, core.Code(l.Backdrop[i]))
	}

	for c := range p.points {
		if n := art.MaskOf(c).Count(); n > 1 {
			return nil, fmt.Errorf("%w: %q appears %d times", ErrPointCount, c, n)
		}
	}

	if len(l.Schedule) == 0 {
		p.groups = [][]core.Code{declared}
	} else {
		for _, g := range l.Schedule {
			var group []core.Code
			for _, s := range g {
				c, err := single(s)
				if err != nil {
					return nil, fmt.Errorf("schedule: %w", err)
				}
				group = append(group, c)
			}
			p.groups = append(p.groups, group)
		}
	}
	for _, g := range p.groups {
		p.flat = append(p.flat, g...)
	}
	if !samePainters(p.flat, declared) {
		return nil, ErrSchedule
	}

	p.depth = p.flat
	if l.DepthOrder != "" {
		if err := checkASCII(l.DepthOrder); err != nil {
			return nil, fmt.Errorf("depth order: %w", err)
		}
		p.depth = nil
		for i := 0; i < len(l.DepthOrder); i++ {
			p.depth = append(p.depth, core.Code(l.DepthOrder[i]))
		}
		if !samePainters(p.depth, declared) {
			return nil, ErrDepthOrder
		}
	}

	if l.Occlusion != "" {
		occ, err := render.ParseOcclusion(l.Occlusion)
		if err != nil {
			return nil, fmt.Errorf("level: %w", err)
		}
		p.occlude = &occ
	}
	return p, nil
}

// Build creates an engine in its registration phase, populated from the
// level. Options given here override the level's own occlusion setting.
func Build(l Level, b Behaviors, opts ...engine.Option) (*engine.Engine, error) {
	p, err := l.plan()
	if err != nil {
		return nil, err
	}
	if p.occlude != nil {
		opts = append([]engine.Option{engine.WithOcclusion(*p.occlude)}, opts...)
	}

	e, err := engine.New(p.art.Rows(), p.art.Cols(), opts...)
	if err != nil {
		return nil, err
	}

	curtain := p.art.Clone()
	for i, g := range p.groups {
		if err := e.SetGroup(fmt.Sprintf("%05d", i)); err != nil {
			return nil, err
		}
		for _, c := range g {
			mask := p.art.MaskOf(c)
			if p.regions[c] {
				if _, err := e.AddRegion(c, mask, b.Regions[c]); err != nil {
					return nil, err
				}
			} else {
				if err := addPoint(e, c, mask, b.Points[c]); err != nil {
					return nil, err
				}
			}
			for row := range mask {
				for col, on := range mask[row] {
					if on {
						curtain[row][col] = p.beneath
					}
				}
			}
		}
	}
	if err := e.SetDepthOrder(p.depth); err != nil {
		return nil, err
	}

	palette, err := engine.NewPalette(string(append(paletteOf(curtain), codeBytes(p.extra)...)))
	if err != nil {
		return nil, err
	}
	if _, err := e.SetBackground(palette, curtain, b.Background); err != nil {
		return nil, err
	}
	return e, nil
}

// addPoint places a point at its only occurrence in the art. A point that
// does not appear starts hidden in the top-left corner.
func addPoint(e *engine.Engine, c core.Code, mask core.Mask, b engine.PointBehavior) error {
	pos, found := core.Pos(0, 0), false
	for row := range mask {
		for col, on := range mask[row] {
			if on {
				pos, found = core.Pos(row, col), true
			}
		}
	}
	pt, err := e.AddPoint(c, pos, b)
	if err != nil {
		return err
	}
	if !found {
		pt.Hide()
	}
	return nil
}

func paletteOf(b core.Board) []byte {
	seen := make(map[core.Code]bool)
	var out []byte
	for row := range b {
		for _, c := range b[row] {
			if !seen[c] {
				seen[c] = true
				out = append(out, byte(c))
			}
		}
	}
	return out
}

func codeBytes(codes []core.Code) []byte {
	out := make([]byte, len(codes))
	for i, c := range codes {
		out[i] = byte(c)
	}
	return out
}

func single(s string) (core.Code, error) {
	if len(s) != 1 || s[0] > 127 {
		return 0, fmt.Errorf("%w: %q", ErrBadChar, s)
	}
	return core.Code(s[0]), nil
}

func checkASCII(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return fmt.Errorf("%w: %q", ErrBadChar, s)
		}
	}
	return nil
}

// samePainters reports whether got lists exactly the codes in want, each
// once, in any order.
func samePainters(got, want []core.Code) bool {
	if len(got) != len(want) {
		return false
	}
	count := make(map[core.Code]int, len(want))
	for _, c := range want {
		count[c]++
	}
	for _, c := range got {
		count[c]--
		if count[c] < 0 {
			return false
		}
	}
	return true
}
