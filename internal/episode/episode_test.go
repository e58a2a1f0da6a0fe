package episode

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/engine"
	"github.com/vovakirdan/gridplay/internal/prefab"
	"github.com/vovakirdan/gridplay/internal/registry"
	"github.com/vovakirdan/gridplay/internal/story"
)

// corridor is a one-row game: walking onto the right end pays 1 and ends
// the episode.
type corridor struct{}

func (corridor) ID() string    { return "corridor" }
func (corridor) Title() string { return "Corridor" }
func (corridor) Keys() string  { return "" }

func (corridor) Launch(_ int64, opts ...engine.Option) (registry.Playable, error) {
	e, err := buildCorridor(opts)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func buildCorridor(opts []engine.Option) (*engine.Engine, error) {
	e, err := engine.New(1, 4, opts...)
	if err != nil {
		return nil, err
	}
	floor, err := core.BoardFromStrings([]string{"...."})
	if err != nil {
		return nil, err
	}
	if _, err := e.SetBackground(engine.MustPalette("."), floor, nil); err != nil {
		return nil, err
	}
	w := prefab.MustMazeWalker("", true)
	_, err = e.AddPoint('P', core.Pos(0, 0), engine.PointFunc(func(p *engine.Point, ctx *engine.Context) error {
		if err := w.UpdatePoint(p, ctx); err != nil {
			return err
		}
		if p.Position().Col == 3 {
			ctx.Blackboard.AddReward(1)
			ctx.Blackboard.Log("end of the corridor")
			ctx.Blackboard.Terminate()
		}
		return nil
	}))
	return e, err
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		maxTicks int
		want     Summary
		boards   []string
	}{
		{
			name:   "reaches the end",
			script: "ddddd",
			want:   Summary{GameID: "corridor", Frames: 4, Return: 1, Terminated: true, FinalDiscount: 0},
			boards: []string{"P...", ".P..", "..P.", "...P"},
		},
		{
			name:   "runs out of actions",
			script: "d.",
			want:   Summary{GameID: "corridor", Frames: 3, Return: 0, FinalDiscount: 1},
			boards: []string{"P...", ".P..", ".P.."},
		},
		{
			name:     "tick limit",
			script:   "dddd",
			maxTicks: 1,
			want:     Summary{GameID: "corridor", Frames: 2, Return: 0, FinalDiscount: 1},
			boards:   []string{"P...", ".P.."},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actions, err := ParseActions(tc.script)
			if err != nil {
				t.Fatal(err)
			}
			r := &Runner{Game: corridor{}, RecordBoards: true}
			got, err := r.Run(9, actions, tc.maxTicks)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := uuid.Parse(got.ID); err != nil {
				t.Errorf("ID %q is not a uuid: %v", got.ID, err)
			}
			if got.Seed != 9 {
				t.Errorf("Seed = %d", got.Seed)
			}
			if !reflect.DeepEqual(got.Boards, tc.boards) {
				t.Errorf("Boards = %q, want %q", got.Boards, tc.boards)
			}
			tc.want.ID, tc.want.Seed, tc.want.Boards, tc.want.CreatedAt = got.ID, got.Seed, got.Boards, got.CreatedAt
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Run = %+v, want %+v", got, tc.want)
			}
		})
	}
}

// twoCorridors walks the corridor twice as one story.
type twoCorridors struct{}

func (twoCorridors) ID() string    { return "two-corridors" }
func (twoCorridors) Title() string { return "Two Corridors" }
func (twoCorridors) Keys() string  { return "" }

func (twoCorridors) Launch(_ int64, opts ...engine.Option) (registry.Playable, error) {
	build := func() (*engine.Engine, error) { return buildCorridor(opts) }
	s, err := story.New([]story.Chapter{{Name: "first", New: build}, {Name: "second", New: build}})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func TestRunStory(t *testing.T) {
	actions, err := ParseActions("dddddddd")
	if err != nil {
		t.Fatal(err)
	}
	r := &Runner{Game: twoCorridors{}, RecordBoards: true}
	got, err := r.Run(1, actions, 0)
	if err != nil {
		t.Fatal(err)
	}
	boards := []string{"P...", ".P..", "..P.", "P...", ".P..", "..P.", "...P"}
	if !reflect.DeepEqual(got.Boards, boards) {
		t.Errorf("Boards = %q, want %q", got.Boards, boards)
	}
	if got.Frames != 7 || got.Return != 2 || !got.Terminated || got.FinalDiscount != 0 {
		t.Errorf("Run = %+v", got)
	}
}

func TestRecorderIDsAreUnique(t *testing.T) {
	a := NewRecorder("g", 1, false).Summary()
	b := NewRecorder("g", 1, false).Summary()
	if a.ID == b.ID {
		t.Error("two recorders share an ID")
	}
	if a.Boards != nil {
		t.Error("boards recorded when disabled")
	}
}

func TestParseActions(t *testing.T) {
	got, err := ParseActions("wasd hjkl.")
	if err != nil {
		t.Fatal(err)
	}
	want := []core.Action{
		core.ActionUp, core.ActionLeft, core.ActionDown, core.ActionRight, core.ActionStay,
		core.ActionLeft, core.ActionDown, core.ActionUp, core.ActionRight, core.ActionStay,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseActions = %v, want %v", got, want)
	}

	if _, err := ParseActions("wx"); !errors.Is(err, ErrBadAction) {
		t.Errorf("err = %v, want ErrBadAction", err)
	}
}
