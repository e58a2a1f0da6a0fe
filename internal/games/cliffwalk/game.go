// Package cliffwalk is the classic cliff-walking gridworld: every step
// costs one point, the cliff along the bottom row costs a hundred and ends
// the episode, and reaching the far corner ends it too.
package cliffwalk

import (
	_ "embed"

	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/engine"
	"github.com/vovakirdan/gridplay/internal/level"
	"github.com/vovakirdan/gridplay/internal/prefab"
	"github.com/vovakirdan/gridplay/internal/registry"
)

//go:embed level.toml
var levelTOML []byte

var cliff = mustParseTOML(levelTOML)

func mustParseTOML(data []byte) level.Level {
	l, err := level.ParseTOML(data)
	if err != nil {
		panic(err)
	}
	if err := l.Validate(); err != nil {
		panic(err)
	}
	return l
}

// Rewards.
const (
	StepReward  = -1.0
	CliffReward = -100.0
)

// Game implements the cliff walk.
type Game struct{}

func init() {
	registry.Register("cliffwalk", func() registry.Game {
		return &Game{}
	})
}

func (g *Game) ID() string         { return "cliffwalk" }
func (g *Game) Title() string      { return cliff.Name }
func (g *Game) Keys() string       { return "arrows/wasd move, r restart, q quit" }
func (g *Game) Focus() []core.Code { return []core.Code{'P'} }

// Launch implements registry.Game with a single engine.
func (g *Game) Launch(seed int64, opts ...engine.Option) (registry.Playable, error) {
	e, err := g.New(seed, opts...)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// New builds the cliff. The layout is fixed, so the seed is unused.
func (g *Game) New(_ int64, opts ...engine.Option) (*engine.Engine, error) {
	pl := &player{walker: prefab.MustMazeWalker("", true)}
	return level.Build(cliff, level.Behaviors{
		Points: map[core.Code]engine.PointBehavior{'P': pl},
	}, opts...)
}

type player struct {
	walker *prefab.MazeWalker
}

func (pl *player) UpdatePoint(p *engine.Point, ctx *engine.Context) error {
	actions := ctx.Actions()
	moved := false
	for _, a := range []core.Action{core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight} {
		if actions.Has(a) {
			pl.walker.Move(p, a, ctx)
			moved = true
			break
		}
	}
	if !moved {
		return nil
	}

	pos := p.Position()
	if on(ctx, 'x', pos) {
		ctx.Blackboard.AddReward(CliffReward)
		ctx.Blackboard.Log("fell off the cliff")
		ctx.Blackboard.Terminate()
		return nil
	}
	ctx.Blackboard.AddReward(StepReward)
	if on(ctx, 'G', pos) {
		ctx.Blackboard.Log("made it across")
		ctx.Blackboard.Terminate()
	}
	return nil
}

func on(ctx *engine.Context, c core.Code, pos core.Position) bool {
	r, ok := ctx.Things.Region(c)
	return ok && r.Curtain().Get(pos)
}
