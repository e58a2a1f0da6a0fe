package cliffwalk

import (
	"testing"

	"github.com/vovakirdan/gridplay/internal/core"
)

func TestCliffWalk(t *testing.T) {
	up, down, right := core.ActionUp, core.ActionDown, core.ActionRight
	safe := []core.Action{up}
	for i := 0; i < 11; i++ {
		safe = append(safe, right)
	}
	safe = append(safe, down)

	tests := []struct {
		name       string
		actions    []core.Action
		wantReturn float64
		wantOver   bool
	}{
		{"straight into the cliff", []core.Action{right}, -100, true},
		{"around the cliff", safe, -13, true},
		{"bump the edge", []core.Action{down, down}, -2, false},
		{"wait", []core.Action{core.ActionStay}, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := (&Game{}).New(0)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := e.Start(); err != nil {
				t.Fatal(err)
			}
			total := 0.0
			over := false
			for _, a := range tc.actions {
				res, err := e.Tick(core.Press(a))
				if err != nil {
					t.Fatal(err)
				}
				total += res.Reward.Or(0)
				over = res.GameOver
			}
			if total != tc.wantReturn {
				t.Errorf("return = %v, want %v", total, tc.wantReturn)
			}
			if over != tc.wantOver {
				t.Errorf("game over = %v, want %v", over, tc.wantOver)
			}
		})
	}
}

func TestBoardShowsPlayerOnTop(t *testing.T) {
	e, err := (&Game{}).New(0)
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Start()
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Observation.Board.Row(3); got != "PxxxxxxxxxxG" {
		t.Errorf("bottom row = %q", got)
	}
}
