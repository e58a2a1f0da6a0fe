package snake

import (
	"reflect"
	"testing"

	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/engine"
)

// newGame builds a snake with the food parked in the bottom-left corner,
// out of the way of the tests' paths.
func newGame(t *testing.T, seed int64) *engine.Engine {
	t.Helper()
	e, err := (&Game{}).New(seed)
	if err != nil {
		t.Fatal(err)
	}
	food, _ := e.Things().Point('*')
	if err := food.MoveTo(core.Pos(8, 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Start(); err != nil {
		t.Fatal(err)
	}
	return e
}

func tick(t *testing.T, e *engine.Engine, a core.Action) engine.StepResult {
	t.Helper()
	res, err := e.Tick(core.Press(a))
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestSnakeSteering(t *testing.T) {
	tests := []struct {
		name    string
		actions []core.Action
		head    core.Position
		body    []core.Position
	}{
		{
			name:    "straight on",
			actions: []core.Action{core.ActionStay},
			head:    core.Pos(4, 8),
			body:    []core.Position{core.Pos(4, 5), core.Pos(4, 6), core.Pos(4, 7)},
		},
		{
			name:    "reversal is ignored",
			actions: []core.Action{core.ActionLeft},
			head:    core.Pos(4, 8),
			body:    []core.Position{core.Pos(4, 5), core.Pos(4, 6), core.Pos(4, 7)},
		},
		{
			name:    "turn down",
			actions: []core.Action{core.ActionDown, core.ActionStay},
			head:    core.Pos(6, 7),
			body:    []core.Position{core.Pos(4, 6), core.Pos(4, 7), core.Pos(5, 7)},
		},
		{
			name:    "head may enter the tail cell",
			actions: []core.Action{core.ActionDown, core.ActionLeft, core.ActionUp},
			head:    core.Pos(4, 6),
			body:    []core.Position{core.Pos(4, 7), core.Pos(5, 6), core.Pos(5, 7)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newGame(t, 1)
			var res engine.StepResult
			for _, a := range tc.actions {
				res = tick(t, e, a)
			}
			if res.GameOver {
				t.Fatal("episode ended early")
			}
			head, _ := e.Things().Point('@')
			if head.Position() != tc.head {
				t.Errorf("head at %v, want %v", head.Position(), tc.head)
			}
			var body []core.Position
			mask := res.Observation.Mask('o')
			for row := range mask {
				for col, on := range mask[row] {
					if on {
						body = append(body, core.Pos(row, col))
					}
				}
			}
			if !reflect.DeepEqual(body, tc.body) {
				t.Errorf("body = %v, want %v", body, tc.body)
			}
		})
	}
}

func TestEatingGrowsAndMovesFood(t *testing.T) {
	e := newGame(t, 3)
	food, _ := e.Things().Point('*')
	if err := food.MoveTo(core.Pos(4, 8)); err != nil {
		t.Fatal(err)
	}

	res := tick(t, e, core.ActionStay)
	if got := res.Reward.Or(0); got != FoodReward {
		t.Errorf("reward = %v, want %v", got, FoodReward)
	}
	if got := res.Observation.Mask('o').Count(); got != 4 {
		t.Errorf("body has %d segments, want 4", got)
	}
	if got := res.Observation.Mask('*').Count(); got != 1 {
		t.Fatalf("food cells = %d, want 1", got)
	}
	if pos := food.Position(); res.Observation.Board.Get(pos) != '*' || pos == core.Pos(4, 8) {
		t.Errorf("food not respawned on a free cell: %v", pos)
	}

	if err := food.MoveTo(core.Pos(8, 1)); err != nil {
		t.Fatal(err)
	}
	res = tick(t, e, core.ActionStay)
	if res.Reward.Present() {
		t.Errorf("second step paid %v", res.Reward)
	}
	if got := res.Observation.Mask('o').Count(); got != 4 {
		t.Errorf("body has %d segments after moving on, want 4", got)
	}
}

func TestCrashes(t *testing.T) {
	t.Run("wall", func(t *testing.T) {
		e := newGame(t, 1)
		for i := 0; i < 11; i++ {
			if tick(t, e, core.ActionStay).GameOver {
				t.Fatalf("ended after %d steps", i+1)
			}
		}
		if !tick(t, e, core.ActionStay).GameOver {
			t.Error("running into the wall should end the episode")
		}
	})

	t.Run("own body", func(t *testing.T) {
		e := newGame(t, 1)
		food, _ := e.Things().Point('*')
		if err := food.MoveTo(core.Pos(5, 7)); err != nil {
			t.Fatal(err)
		}
		tick(t, e, core.ActionDown) // eats, five segments now
		if err := food.MoveTo(core.Pos(8, 1)); err != nil {
			t.Fatal(err)
		}
		tick(t, e, core.ActionLeft)
		if !tick(t, e, core.ActionUp).GameOver {
			t.Error("running into the body should end the episode")
		}
		if log := e.Blackboard().ConsumeLog(); len(log) == 0 {
			t.Error("crash should be logged")
		}
	})
}

func TestSameSeedSameFood(t *testing.T) {
	boards := func(seed int64) []string {
		e, err := (&Game{}).New(seed)
		if err != nil {
			t.Fatal(err)
		}
		res, err := e.Start()
		if err != nil {
			t.Fatal(err)
		}
		return res.Observation.Board.Lines()
	}
	if !reflect.DeepEqual(boards(9), boards(9)) {
		t.Error("same seed gave different food")
	}
}
