// Package registry is the catalogue of playable games. Each game package
// registers itself from init, so commands only need a blank import to make
// a game available.
package registry

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/vovakirdan/gridplay/internal/blackboard"
	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/engine"
)

// ErrUnknownGame is returned by Create for IDs nobody registered.
var ErrUnknownGame = errors.New("registry: unknown game")

// Playable is one episode of a game, ready for Start. *engine.Engine is
// the usual implementation; a story of several engines is another.
type Playable interface {
	Start() (engine.StepResult, error)
	Tick(input core.Input) (engine.StepResult, error)
	GameOver() bool
	// Blackboard is where the running painters log; it may change from
	// one tick to the next.
	Blackboard() *blackboard.Blackboard
}

// Game describes a playable game. Games hold no per-episode state: each
// episode gets a fresh Playable from Launch.
type Game interface {
	// ID is the stable name used on the command line and in stored
	// episodes, e.g. "cliffwalk".
	ID() string
	Title() string
	// Keys is a one-line summary of the controls.
	Keys() string

	// Launch builds one episode. seed drives any randomness in the layout.
	Launch(seed int64, opts ...engine.Option) (Playable, error)
}

// Focuser is implemented by games that want a view too small for the
// board to follow some codes, in priority order.
type Focuser interface {
	Focus() []core.Code
}

// GameInfo is what menus and listings show for a game.
type GameInfo struct {
	ID    string
	Title string
	Keys  string
}

// Factory returns a new Game value.
type Factory func() Game

type entry struct {
	factory Factory
	info    GameInfo
}

var (
	mu      sync.RWMutex
	entries = map[string]entry{}
)

// Register makes a game available under id. It panics on duplicate IDs and
// when id disagrees with the game's own ID, since both are wiring bugs.
func Register(id string, f Factory) {
	g := f()
	if g.ID() != id {
		panic(fmt.Sprintf("registry: %q registered as %q", g.ID(), id))
	}

	mu.Lock()
	defer mu.Unlock()
	if _, dup := entries[id]; dup {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	entries[id] = entry{
		factory: f,
		info:    GameInfo{ID: id, Title: g.Title(), Keys: g.Keys()},
	}
}

// List returns every registered game ordered by ID.
func List() []GameInfo {
	mu.RLock()
	infos := make([]GameInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, e.info)
	}
	mu.RUnlock()

	slices.SortFunc(infos, func(a, b GameInfo) int { return cmp.Compare(a.ID, b.ID) })
	return infos
}

func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownGame, id)
	}
	return e.factory(), nil
}

func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := entries[id]
	return ok
}
