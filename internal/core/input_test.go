package core

import "testing"

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	if !f.Empty() {
		t.Error("New frame should be empty")
	}

	f.Set(ActionUp)
	if !f.Has(ActionUp) {
		t.Error("Has(ActionUp) should be true after Set")
	}
	if f.Has(ActionDown) {
		t.Error("Has(ActionDown) should be false")
	}

	clone := f.Clone()
	f.Clear()
	if !f.Empty() {
		t.Error("Frame should be empty after Clear")
	}
	if !clone.Has(ActionUp) {
		t.Error("Clone should keep its actions after the original is cleared")
	}
}

func TestInputFor(t *testing.T) {
	in := Press(ActionLeft)

	right := NewInputFrame()
	right.Set(ActionRight)
	in.SetFor('c', right)

	if !in.For('a').Has(ActionLeft) {
		t.Error("Painter without a targeted frame should see the shared frame")
	}
	if !in.For('c').Has(ActionRight) {
		t.Error("Painter with a targeted frame should see it")
	}
	if in.For('c').Has(ActionLeft) {
		t.Error("Targeted frame replaces the shared frame")
	}
}

func TestNoInput(t *testing.T) {
	if !NoInput.IsNone() {
		t.Error("NoInput should carry no actions")
	}
	if !NoInput.For('x').Empty() {
		t.Error("NoInput.For should be empty")
	}
	if Press(ActionStay).IsNone() {
		t.Error("Press(ActionStay) should carry an action")
	}
	if !Press(ActionNone).IsNone() {
		t.Error("Press(ActionNone) should carry no action")
	}
}

func TestActionDelta(t *testing.T) {
	tests := []struct {
		action   Action
		delta    Position
		expected bool
	}{
		{ActionUp, North, true},
		{ActionDown, South, true},
		{ActionLeft, West, true},
		{ActionRight, East, true},
		{ActionStay, Position{}, false},
		{ActionQuit, Position{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.action.String(), func(t *testing.T) {
			d, ok := tc.action.Delta()
			if ok != tc.expected || d != tc.delta {
				t.Errorf("Delta() = (%v, %v), expected (%v, %v)", d, ok, tc.delta, tc.expected)
			}
		})
	}
}
