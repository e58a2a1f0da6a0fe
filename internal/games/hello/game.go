// Package hello is the smallest complete game: walk a room, pick up coins.
package hello

import (
	_ "embed"
	"math/rand"

	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/engine"
	"github.com/vovakirdan/gridplay/internal/level"
	"github.com/vovakirdan/gridplay/internal/prefab"
	"github.com/vovakirdan/gridplay/internal/registry"
)

//go:embed level.yaml
var levelYAML []byte

var room = level.MustParseYAML(levelYAML)

// Coins is how many coins are scattered over the floor.
const Coins = 5

// Game implements the coin room.
type Game struct{}

func init() {
	registry.Register("hello", func() registry.Game {
		return &Game{}
	})
}

func (g *Game) ID() string         { return "hello" }
func (g *Game) Title() string      { return room.Name }
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

// New builds a room with coins on seed-chosen floor cells.
func (g *Game) New(seed int64, opts ...engine.Option) (*engine.Engine, error) {
	e, err := level.Build(room, level.Behaviors{
		Background: engine.BackgroundFunc(greet),
		Points:     map[core.Code]engine.PointBehavior{'P': prefab.MustMazeWalker("#", true)},
		Regions:    map[core.Code]engine.RegionBehavior{'$': engine.RegionFunc(collect)},
	}, opts...)
	if err != nil {
		return nil, err
	}

	coins, _ := e.Things().Region('$')
	player, _ := e.Things().Point('P')
	var floor []core.Position
	curtain := e.Background().Curtain()
	for row := range curtain {
		for col, c := range curtain[row] {
			pos := core.Pos(row, col)
			if c == ' ' && pos != player.Position() {
				floor = append(floor, pos)
			}
		}
	}
	rng := rand.New(rand.NewSource(seed))
	for _, i := range rng.Perm(len(floor))[:Coins] {
		coins.Curtain().Set(floor[i], true)
	}
	return e, nil
}

func greet(_ *engine.Background, ctx *engine.Context) error {
	if ctx.Blackboard.Frame() == 0 {
		ctx.Blackboard.Log("Hello, world!")
	}
	return nil
}

// collect pays for the coin under the player, and ends the episode with the
// last one.
func collect(r *engine.Region, ctx *engine.Context) error {
	player, ok := ctx.Things.Point('P')
	if !ok || !player.Visible() {
		return nil
	}
	pos := player.Position()
	if !r.Curtain().Get(pos) {
		return nil
	}
	r.Curtain().Set(pos, false)
	ctx.Blackboard.AddReward(1)
	left := r.Curtain().Count()
	ctx.Blackboard.Logf("coin! %d left", left)
	if left == 0 {
		ctx.Blackboard.Terminate()
	}
	return nil
}
