// Package chainwalk is a one-dimensional chain: the near end pays a
// little, the far end pays a lot, and either one ends the episode.
package chainwalk

import (
	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/engine"
	"github.com/vovakirdan/gridplay/internal/level"
	"github.com/vovakirdan/gridplay/internal/prefab"
	"github.com/vovakirdan/gridplay/internal/registry"
)

var chain = level.Level{
	ID:      "chainwalk",
	Name:    "Chain Walk",
	Art:     []string{"..P..................."},
	Beneath: ".",
	Points:  []string{"P"},
}

const (
	NearReward = 1.0
	FarReward  = 100.0
	// Discount applied on every non-terminal step.
	Discount = 0.99
)

// Game implements the chain walk.
type Game struct{}

func init() {
	registry.Register("chainwalk", func() registry.Game {
		return &Game{}
	})
}

func (g *Game) ID() string         { return "chainwalk" }
func (g *Game) Title() string      { return chain.Name }
func (g *Game) Keys() string       { return "left/right move, r restart, q quit" }
func (g *Game) Focus() []core.Code { return []core.Code{'P'} }

// Launch implements registry.Game with a single engine.
func (g *Game) Launch(seed int64, opts ...engine.Option) (registry.Playable, error) {
	e, err := g.New(seed, opts...)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// New builds the chain. The seed is unused.
func (g *Game) New(_ int64, opts ...engine.Option) (*engine.Engine, error) {
	walker := prefab.MustMazeWalker("", true)
	return level.Build(chain, level.Behaviors{
		Background: engine.BackgroundFunc(func(_ *engine.Background, ctx *engine.Context) error {
			if ctx.Blackboard.Frame() == 0 {
				return ctx.Blackboard.SetDefaultDiscount(Discount)
			}
			return nil
		}),
		Points: map[core.Code]engine.PointBehavior{
			'P': engine.PointFunc(func(p *engine.Point, ctx *engine.Context) error {
				actions := ctx.Actions()
				switch {
				case actions.Has(core.ActionLeft):
					walker.Move(p, core.ActionLeft, ctx)
				case actions.Has(core.ActionRight):
					walker.Move(p, core.ActionRight, ctx)
				}

				switch p.Position().Col {
				case 0:
					ctx.Blackboard.AddReward(NearReward)
					ctx.Blackboard.Terminate()
				case p.Corner().Col - 1:
					ctx.Blackboard.AddReward(FarReward)
					ctx.Blackboard.Terminate()
				}
				return nil
			}),
		},
	}, opts...)
}
