// Package adventure strings two games into one episode: clear the coin
// room, then cross the cliff.
package adventure

import (
	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/engine"
	"github.com/vovakirdan/gridplay/internal/games/cliffwalk"
	"github.com/vovakirdan/gridplay/internal/games/hello"
	"github.com/vovakirdan/gridplay/internal/registry"
	"github.com/vovakirdan/gridplay/internal/render"
	"github.com/vovakirdan/gridplay/internal/story"
)

// Chapter names.
const (
	Coins = "coins"
	Cliff = "cliff"
)

// Board size of every chapter, that of the coin room.
const (
	Rows = 7
	Cols = 14
)

// Game implements the adventure.
type Game struct{}

func init() {
	registry.Register("adventure", func() registry.Game {
		return &Game{}
	})
}

func (g *Game) ID() string         { return "adventure" }
func (g *Game) Title() string      { return "Coins, then the Cliff" }
func (g *Game) Keys() string       { return "arrows/wasd move, r restart, q quit" }
func (g *Game) Focus() []core.Code { return []core.Code{'P'} }

// Launch implements registry.Game.
func (g *Game) Launch(seed int64, opts ...engine.Option) (registry.Playable, error) {
	s, err := New(seed, opts)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// New builds the story. Extra story options come after the built-in ones.
func New(seed int64, opts []engine.Option, storyOpts ...story.Option) (*story.Story, error) {
	// The cliff is 4x12; sit it on the bottom of the coin room's frame.
	frame, err := render.NewFixedCropper(core.Pos(-3, -1), Rows, Cols, render.WithPad('.'))
	if err != nil {
		return nil, err
	}
	return story.New([]story.Chapter{
		{
			Name: Coins,
			New:  func() (*engine.Engine, error) { return (&hello.Game{}).New(seed, opts...) },
		},
		{
			Name:    Cliff,
			New:     func() (*engine.Engine, error) { return (&cliffwalk.Game{}).New(seed, opts...) },
			Cropper: frame,
		},
	}, storyOpts...)
}
