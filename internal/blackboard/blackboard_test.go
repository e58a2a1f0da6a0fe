package blackboard

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/vovakirdan/gridplay/internal/core"
)

func TestNewBlackboard(t *testing.T) {
	b, ctl := New()
	if ctl.Blackboard() != b {
		t.Fatal("Control should drive the blackboard it was created with")
	}

	if b.Frame() != -1 {
		t.Errorf("Frame() = %d, expected -1 before the first tick", b.Frame())
	}
	if _, ok := b.ActiveGroup(); ok {
		t.Error("ActiveGroup() should report no group before the first tick")
	}
	if b.DefaultDiscount() != 1.0 {
		t.Errorf("DefaultDiscount() = %v, expected 1.0", b.DefaultDiscount())
	}
}

func TestFrameAndGroups(t *testing.T) {
	b, ctl := New()

	if got := ctl.BeginFrame(); got != 0 {
		t.Errorf("BeginFrame() = %d, expected 0", got)
	}
	ctl.EnterGroup("1")
	if tag, ok := b.ActiveGroup(); !ok || tag != "1" {
		t.Errorf("ActiveGroup() = (%q, %v), expected (\"1\", true)", tag, ok)
	}

	if got := ctl.BeginFrame(); got != 1 {
		t.Errorf("BeginFrame() = %d, expected 1", got)
	}
	if _, ok := b.ActiveGroup(); ok {
		t.Error("BeginFrame should clear the active group")
	}

	ctl.EnterGroup("2")
	ctl.LeaveGroups()
	if _, ok := b.ActiveGroup(); ok {
		t.Error("LeaveGroups should clear the active group")
	}
}

func TestRewardAbsentUnlessPaid(t *testing.T) {
	b, ctl := New()

	d := ctl.TakeDirectives()
	if d.Reward.Present() {
		t.Error("Reward should be absent when nobody paid out")
	}

	b.AddReward(5)
	b.AddReward(5)
	d = ctl.TakeDirectives()
	if v, ok := d.Reward.Value(); !ok || v != 10 {
		t.Errorf("Reward = (%v, %v), expected (10, true)", v, ok)
	}

	// The batch is cleared after being taken.
	if ctl.TakeDirectives().Reward.Present() {
		t.Error("Reward should not carry over to the next tick")
	}
}

func TestTermination(t *testing.T) {
	tests := []struct {
		name     string
		request  func(b *Blackboard) error
		discount float64
		wantErr  bool
	}{
		{
			name:     "default discount",
			request:  func(b *Blackboard) error { b.Terminate(); return nil },
			discount: 0.0,
		},
		{
			name:     "custom discount",
			request:  func(b *Blackboard) error { return b.RequestTermination(0.5) },
			discount: 0.5,
		},
		{
			name: "last caller wins",
			request: func(b *Blackboard) error {
				if err := b.RequestTermination(0.25); err != nil {
					return err
				}
				return b.RequestTermination(0.75)
			},
			discount: 0.75,
		},
		{
			name:    "above range",
			request: func(b *Blackboard) error { return b.RequestTermination(1.5) },
			wantErr: true,
		},
		{
			name:    "below range",
			request: func(b *Blackboard) error { return b.RequestTermination(-0.1) },
			wantErr: true,
		},
		{
			name:    "not a number",
			request: func(b *Blackboard) error { return b.RequestTermination(math.NaN()) },
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, ctl := New()
			err := tc.request(b)
			if tc.wantErr {
				if !errors.Is(err, ErrDiscountRange) {
					t.Fatalf("expected ErrDiscountRange, got %v", err)
				}
				if ctl.TakeDirectives().Terminate {
					t.Error("A rejected request must not terminate")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			d := ctl.TakeDirectives()
			if !d.Terminate {
				t.Error("Terminate should be set")
			}
			if d.Discount != tc.discount {
				t.Errorf("Discount = %v, expected %v", d.Discount, tc.discount)
			}
		})
	}
}

func TestDefaultDiscountPersists(t *testing.T) {
	b, ctl := New()

	if err := b.SetDefaultDiscount(0.9); err != nil {
		t.Fatalf("SetDefaultDiscount() failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if d := ctl.TakeDirectives(); d.Discount != 0.9 {
			t.Errorf("tick %d: Discount = %v, expected 0.9", i, d.Discount)
		}
	}

	if err := b.SetDefaultDiscount(2); !errors.Is(err, ErrDiscountRange) {
		t.Errorf("expected ErrDiscountRange, got %v", err)
	}
	if b.DefaultDiscount() != 0.9 {
		t.Error("A rejected default discount must not replace the old one")
	}

	// Termination overrides the default for its own tick only.
	b.Terminate()
	if d := ctl.TakeDirectives(); d.Discount != 0 {
		t.Errorf("terminal Discount = %v, expected 0", d.Discount)
	}
}

func TestReordersKeepSubmissionOrder(t *testing.T) {
	b, ctl := New()

	b.MoveInFrontOf('b', 'a')
	b.MoveToBack('c')
	target := core.Code('c')
	b.RequestReorder('a', &target)
	target = 'z' // the queued directive keeps its own copy

	d := ctl.TakeDirectives()
	got := make([]string, len(d.Reorders))
	for i, r := range d.Reorders {
		got[i] = r.String()
	}
	expected := []string{`"b" in front of "a"`, `"c" to back`, `"a" in front of "c"`}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Reorders = %v, expected %v", got, expected)
	}
}

func TestPendingDoesNotConsume(t *testing.T) {
	b, ctl := New()
	b.AddReward(1)

	if !b.Pending().Reward.Present() {
		t.Error("Pending should show the reward")
	}
	if !ctl.TakeDirectives().Reward.Present() {
		t.Error("Pending must not consume the batch")
	}
}

func TestLogConsume(t *testing.T) {
	b, _ := New()
	b.Log("hello")
	b.Logf("frame %d", 3)

	msgs := b.ConsumeLog()
	if !reflect.DeepEqual(msgs, []string{"hello", "frame 3"}) {
		t.Errorf("ConsumeLog() = %v", msgs)
	}
	if len(b.ConsumeLog()) != 0 {
		t.Error("ConsumeLog should clear the queue")
	}
}

func TestFreeFormMap(t *testing.T) {
	b, _ := New()

	b.Set("coins", 3)
	b.Set("name", "maze")

	if v, ok := Lookup[int](b, "coins"); !ok || v != 3 {
		t.Errorf("Lookup[int](coins) = (%v, %v), expected (3, true)", v, ok)
	}
	if _, ok := Lookup[string](b, "coins"); ok {
		t.Error("Lookup with the wrong type should fail")
	}
	if !reflect.DeepEqual(b.Keys(), []string{"coins", "name"}) {
		t.Errorf("Keys() = %v", b.Keys())
	}

	b.Delete("coins")
	if _, ok := b.Get("coins"); ok {
		t.Error("Get after Delete should miss")
	}
}

func TestEngineFieldsNeedControl(t *testing.T) {
	board := reflect.TypeOf(&Blackboard{})
	for _, name := range []string{"BeginFrame", "EnterGroup", "LeaveGroups", "TakeDirectives"} {
		if _, ok := board.MethodByName(name); ok {
			t.Errorf("Blackboard exposes %s to painters", name)
		}
		if _, ok := reflect.TypeOf(&Control{}).MethodByName(name); !ok {
			t.Errorf("Control is missing %s", name)
		}
	}
}
