package prefab

import (
	"reflect"
	"testing"

	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/engine"
	"github.com/vovakirdan/gridplay/internal/level"
)

type moveResult struct {
	code    core.Code
	blocked bool
}

// drive builds a level with a single walking point P and returns a
// function that ticks once with a and reports the board and Move's result.
func drive(t *testing.T, art []string, w *MazeWalker) func(a core.Action) ([]string, moveResult) {
	t.Helper()
	var last moveResult
	b := level.Behaviors{Points: map[core.Code]engine.PointBehavior{
		'P': engine.PointFunc(func(p *engine.Point, ctx *engine.Context) error {
			for _, a := range directions {
				if ctx.Actions().Has(a) {
					c, blocked := w.Move(p, a, ctx)
					last = moveResult{c, blocked}
				}
			}
			return nil
		}),
	}}
	e, err := level.Build(level.Level{Art: art, Beneath: " ", Points: []string{"P"}}, b)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Start(); err != nil {
		t.Fatal(err)
	}
	return func(a core.Action) ([]string, moveResult) {
		t.Helper()
		last = moveResult{}
		res, err := e.Tick(core.Press(a))
		if err != nil {
			t.Fatal(err)
		}
		return res.Observation.Board.Lines(), last
	}
}

func TestMazeWalkerBasicWalking(t *testing.T) {
	art := []string{
		".......",
		"..abcd.",
		".n   e.",
		".m P f.",
		".l   g.",
		".kjih..",
		".......",
	}
	step := drive(t, art, MustMazeWalker("abcdefghijklmn", false))

	frames := []struct {
		action core.Action
		want   moveResult
		board  []string
	}{
		{core.ActionUp, moveResult{}, []string{".......", "..abcd.", ".n P e.", ".m   f.", ".l   g.", ".kjih..", "......."}},
		{core.ActionUp, moveResult{'b', true}, []string{".......", "..abcd.", ".n P e.", ".m   f.", ".l   g.", ".kjih..", "......."}},
		{core.ActionLeft, moveResult{}, []string{".......", "..abcd.", ".nP  e.", ".m   f.", ".l   g.", ".kjih..", "......."}},
		{core.ActionLeft, moveResult{'n', true}, []string{".......", "..abcd.", ".nP  e.", ".m   f.", ".l   g.", ".kjih..", "......."}},
		{core.ActionDown, moveResult{}, []string{".......", "..abcd.", ".n   e.", ".mP  f.", ".l   g.", ".kjih..", "......."}},
		{core.ActionDown, moveResult{}, []string{".......", "..abcd.", ".n   e.", ".m   f.", ".lP  g.", ".kjih..", "......."}},
		{core.ActionDown, moveResult{'j', true}, []string{".......", "..abcd.", ".n   e.", ".m   f.", ".lP  g.", ".kjih..", "......."}},
		{core.ActionRight, moveResult{}, []string{".......", "..abcd.", ".n   e.", ".m   f.", ".l P g.", ".kjih..", "......."}},
		{core.ActionRight, moveResult{}, []string{".......", "..abcd.", ".n   e.", ".m   f.", ".l  Pg.", ".kjih..", "......."}},
		{core.ActionRight, moveResult{'g', true}, []string{".......", "..abcd.", ".n   e.", ".m   f.", ".l  Pg.", ".kjih..", "......."}},
	}
	for i, tc := range frames {
		board, got := step(tc.action)
		if got != tc.want {
			t.Errorf("frame %d (%v): Move = %+v, want %+v", i, tc.action, got, tc.want)
		}
		if !reflect.DeepEqual(board, tc.board) {
			t.Errorf("frame %d (%v): board = %q, want %q", i, tc.action, board, tc.board)
		}
	}
}

func TestMazeWalkerEdges(t *testing.T) {
	tests := []struct {
		name     string
		confined bool
		actions  []core.Action
		want     []string
	}{
		{"confined stays", true, []core.Action{core.ActionLeft}, []string{"P  "}},
		{"unconfined walks off", false, []core.Action{core.ActionLeft}, []string{"   "}},
		{"unconfined walks back", false, []core.Action{core.ActionLeft, core.ActionLeft, core.ActionRight, core.ActionRight}, []string{"P  "}},
		{"unconfined half way back", false, []core.Action{core.ActionLeft, core.ActionLeft, core.ActionRight}, []string{"   "}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			step := drive(t, []string{"P  "}, MustMazeWalker("", tc.confined))
			var board []string
			var res moveResult
			for _, a := range tc.actions {
				board, res = step(a)
			}
			if !reflect.DeepEqual(board, tc.want) {
				t.Errorf("board = %q, want %q", board, tc.want)
			}
			if tc.confined && res != (moveResult{0, true}) {
				t.Errorf("confined Move = %+v, want blocked by the edge", res)
			}
		})
	}
}

func TestMazeWalkerAsBehavior(t *testing.T) {
	w := MustMazeWalker("#", true)
	e, err := level.Build(level.Level{
		Art:     []string{"#P.#"},
		Beneath: ".",
		Points:  []string{"P"},
	}, level.Behaviors{Points: map[core.Code]engine.PointBehavior{'P': w}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Start(); err != nil {
		t.Fatal(err)
	}

	res, err := e.Tick(core.Press(core.ActionLeft))
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Observation.Board.Row(0); got != "#P.#" {
		t.Errorf("board = %q, want #P.#", got)
	}
	if got := e.Blackboard().ConsumeLog(); len(got) != 1 {
		t.Errorf("log = %q, want one bump", got)
	}

	res, err = e.Tick(core.Press(core.ActionRight))
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Observation.Board.Row(0); got != "#.P#" {
		t.Errorf("board = %q, want #.P#", got)
	}
}

func TestNewMazeWalkerRejectsNonASCII(t *testing.T) {
	if _, err := NewMazeWalker("é", false); err == nil {
		t.Error("expected an error")
	}
}
