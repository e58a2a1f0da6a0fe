// Package snake is the classic snake on the engine: the head is a point,
// the body is a region trailing it, and food is a point that jumps to a
// random free cell each time it is eaten.
//
// The snake moves one cell per tick. Directional actions turn it; any
// other action keeps it going straight.
package snake

import (
	_ "embed"
	"math/rand"
	"sort"

	"github.com/vovakirdan/gridplay/internal/blackboard"
	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/engine"
	"github.com/vovakirdan/gridplay/internal/level"
	"github.com/vovakirdan/gridplay/internal/registry"
)

//go:embed level.yaml
var levelYAML []byte

var room = level.MustParseYAML(levelYAML)

const (
	// TargetFood ends the episode once this much food has been eaten.
	TargetFood = 20
	// FoodReward is paid for each piece of food.
	FoodReward = 1.0

	ateKey = "snake.ate"
)

// Game implements Snake.
type Game struct{}

func init() {
	registry.Register("snake", func() registry.Game {
		return &Game{}
	})
}

func (g *Game) ID() string         { return "snake" }
func (g *Game) Title() string      { return room.Name }
func (g *Game) Keys() string       { return "arrows/wasd turn, space/. step, r restart, q quit" }
func (g *Game) Focus() []core.Code { return []core.Code{'@'} }

// Launch implements registry.Game with a single engine.
func (g *Game) Launch(seed int64, opts ...engine.Option) (registry.Playable, error) {
	e, err := g.New(seed, opts...)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// New builds the room with the snake facing east and food on a
// seed-chosen free cell.
func (g *Game) New(seed int64, opts ...engine.Option) (*engine.Engine, error) {
	s := &snake{dir: core.East, rng: rand.New(rand.NewSource(seed))}
	e, err := level.Build(room, level.Behaviors{
		Points: map[core.Code]engine.PointBehavior{
			'@': engine.PointFunc(s.moveHead),
			'*': engine.PointFunc(s.placeFood),
		},
		Regions: map[core.Code]engine.RegionBehavior{
			'o': engine.RegionFunc(s.trail),
		},
	}, opts...)
	if err != nil {
		return nil, err
	}

	head, _ := e.Things().Point('@')
	body, _ := e.Things().Region('o')
	s.body = initialBody(head.Position(), body.Curtain())

	food, _ := e.Things().Point('*')
	free := freeCells(e.Background().Curtain(), s.body)
	if err := food.MoveTo(free[s.rng.Intn(len(free))]); err != nil {
		return nil, err
	}
	food.Show()
	return e, nil
}

// snake is the state of one episode, shared by its three painters.
type snake struct {
	body  []core.Position // Head first
	dir   core.Position
	rng   *rand.Rand
	eaten int
}

// initialBody orders the drawn body segments by distance from the head.
func initialBody(head core.Position, mask core.Mask) []core.Position {
	var segs []core.Position
	for row := range mask {
		for col, on := range mask[row] {
			if on {
				segs = append(segs, core.Pos(row, col))
			}
		}
	}
	dist := func(p core.Position) int {
		return core.Abs(p.Row-head.Row) + core.Abs(p.Col-head.Col)
	}
	sort.Slice(segs, func(i, j int) bool { return dist(segs[i]) < dist(segs[j]) })
	return append([]core.Position{head}, segs...)
}

// turn applies the first directional action, ignoring reversals.
func (s *snake) turn(actions core.InputFrame) {
	for _, a := range []core.Action{core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight} {
		if !actions.Has(a) {
			continue
		}
		if d, _ := a.Delta(); d.Add(s.dir) != (core.Position{}) {
			s.dir = d
		}
		return
	}
}

func (s *snake) moveHead(p *engine.Point, ctx *engine.Context) error {
	if ctx.Blackboard.Frame() == 0 {
		return nil
	}
	s.turn(ctx.Actions())

	next := p.Position().Add(s.dir)
	tail := s.body[len(s.body)-1]
	if !next.In(ctx.Board.Rows(), ctx.Board.Cols()) || crashes(ctx.Board.Get(next), next == tail) {
		ctx.Blackboard.Logf("crashed after %d food", s.eaten)
		ctx.Blackboard.Terminate()
		return nil
	}

	s.body = append([]core.Position{next}, s.body...)
	if food, ok := ctx.Things.Point('*'); ok && food.Visible() && food.Position() == next {
		s.eaten++
		ctx.Blackboard.AddReward(FoodReward)
		ctx.Blackboard.Set(ateKey, true)
	} else {
		s.body = s.body[:len(s.body)-1]
	}
	return p.MoveTo(next)
}

// crashes reports whether the head may not enter a cell showing c. The
// tail cell is free because the tail moves away in the same tick.
func crashes(c core.Code, isTail bool) bool {
	switch c {
	case '#':
		return true
	case 'o':
		return !isTail
	}
	return false
}

func (s *snake) trail(r *engine.Region, _ *engine.Context) error {
	mask := r.Curtain()
	mask.Fill(false)
	for _, seg := range s.body[1:] {
		mask.Set(seg, true)
	}
	return nil
}

// placeFood moves eaten food to a random free cell, or ends the episode
// when the target is reached or no cell is left.
func (s *snake) placeFood(p *engine.Point, ctx *engine.Context) error {
	ate, _ := blackboard.Lookup[bool](ctx.Blackboard, ateKey)
	if !ate {
		return nil
	}
	ctx.Blackboard.Delete(ateKey)

	if s.eaten >= TargetFood {
		p.Hide()
		ctx.Blackboard.Logf("ate %d, well fed", s.eaten)
		ctx.Blackboard.Terminate()
		return nil
	}

	free := freeCells(ctx.Backdrop.Curtain(), s.body)
	if len(free) == 0 {
		p.Hide()
		ctx.Blackboard.Log("no room left")
		ctx.Blackboard.Terminate()
		return nil
	}
	return p.MoveTo(free[s.rng.Intn(len(free))])
}

// freeCells lists floor cells the snake does not cover, in row order.
func freeCells(floor core.Board, body []core.Position) []core.Position {
	taken := make(map[core.Position]bool, len(body))
	for _, seg := range body {
		taken[seg] = true
	}
	var free []core.Position
	for row := range floor {
		for col, c := range floor[row] {
			pos := core.Pos(row, col)
			if c == ' ' && !taken[pos] {
				free = append(free, pos)
			}
		}
	}
	return free
}
