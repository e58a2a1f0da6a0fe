// Package episode plays games without a terminal and summarises what
// happened, for scripted runs and for the episode history.
package episode

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/engine"
	"github.com/vovakirdan/gridplay/internal/registry"
	"github.com/vovakirdan/gridplay/internal/render"
)

// ErrBadAction is returned by ParseActions for characters it cannot map.
var ErrBadAction = errors.New("episode: unknown action character")

// Summary describes one finished (or abandoned) episode.
type Summary struct {
	ID            string
	GameID        string
	Seed          int64
	Frames        int // Observations produced, the opening one included
	Return        float64
	Terminated    bool
	FinalDiscount float64
	Boards        []string
	CreatedAt     time.Time
}

// Recorder accumulates a Summary from step results as they arrive.
type Recorder struct {
	sum          Summary
	recordBoards bool
}

// NewRecorder starts a summary for one episode of gameID.
func NewRecorder(gameID string, seed int64, recordBoards bool) *Recorder {
	return &Recorder{
		sum: Summary{
			ID:            uuid.NewString(),
			GameID:        gameID,
			Seed:          seed,
			FinalDiscount: 1,
			CreatedAt:     time.Now(),
		},
		recordBoards: recordBoards,
	}
}

// Observe folds one step result into the summary.
func (r *Recorder) Observe(res engine.StepResult) {
	r.sum.Frames++
	r.sum.Return += res.Reward.Or(0)
	r.sum.FinalDiscount = res.Discount
	if res.GameOver {
		r.sum.Terminated = true
	}
	if r.recordBoards {
		r.sum.Boards = append(r.sum.Boards, res.Observation.Board.String())
	}
}

// Summary returns a copy of the summary so far.
func (r *Recorder) Summary() Summary {
	s := r.sum
	s.Boards = append([]string(nil), r.sum.Boards...)
	return s
}

// Runner plays a game from a fixed list of actions.
type Runner struct {
	Game      registry.Game
	Logger    *log.Logger
	Occlusion render.Occlusion
	// RecordBoards keeps every board in the summary.
	RecordBoards bool
}

// Run plays one episode: the opening tick, then one tick per action until
// the actions run out, the episode terminates, or maxTicks ticks have been
// taken (0 means no limit).
func (r *Runner) Run(seed int64, actions []core.Action, maxTicks int) (Summary, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e, err := r.Game.Launch(seed, engine.WithLogger(logger), engine.WithOcclusion(r.Occlusion))
	if err != nil {
		return Summary{}, fmt.Errorf("episode: build %s: %w", r.Game.ID(), err)
	}
	rec := NewRecorder(r.Game.ID(), seed, r.RecordBoards)

	res, err := e.Start()
	if err != nil {
		return rec.Summary(), fmt.Errorf("episode: start %s: %w", r.Game.ID(), err)
	}
	rec.Observe(res)
	drain(e, logger)

	for i, a := range actions {
		if res.GameOver || (maxTicks > 0 && i >= maxTicks) {
			break
		}
		res, err = e.Tick(core.Press(a))
		if err != nil {
			return rec.Summary(), fmt.Errorf("episode: tick %d: %w", i+1, err)
		}
		rec.Observe(res)
		drain(e, logger)
	}

	sum := rec.Summary()
	logger.Info("episode finished",
		"game", sum.GameID, "id", sum.ID, "frames", sum.Frames,
		"return", sum.Return, "terminated", sum.Terminated)
	return sum, nil
}

// drain forwards the game's own log messages to logger.
func drain(e registry.Playable, logger *log.Logger) {
	for _, msg := range e.Blackboard().ConsumeLog() {
		logger.Info(msg, "frame", e.Blackboard().Frame())
	}
}

// ParseActions turns a compact script into actions: wasd or hjkl (vi
// keys) move, '.' and ' ' wait.
func ParseActions(s string) ([]core.Action, error) {
	actions := make([]core.Action, 0, len(s))
	for i, r := range s {
		a, ok := actionKeys[r]
		if !ok {
			return nil, fmt.Errorf("%w: %q at %d", ErrBadAction, r, i)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

var actionKeys = map[rune]core.Action{
	'w': core.ActionUp,
	'k': core.ActionUp,
	's': core.ActionDown,
	'j': core.ActionDown,
	'a': core.ActionLeft,
	'h': core.ActionLeft,
	'd': core.ActionRight,
	'l': core.ActionRight,
	'.': core.ActionStay,
	' ': core.ActionStay,
}
