package core

import "testing"

func TestRewardAbsentByDefault(t *testing.T) {
	var r Reward

	if r.Present() {
		t.Error("Zero Reward should be absent")
	}
	if _, ok := r.Value(); ok {
		t.Error("Value() should report absent")
	}
	if r.Or(-1) != -1 {
		t.Errorf("Or(-1) = %v, expected -1", r.Or(-1))
	}
	if r.String() != "none" {
		t.Errorf("String() = %q, expected \"none\"", r.String())
	}
}

func TestRewardAddMerges(t *testing.T) {
	var r Reward
	r.Add(5)
	r.Add(5)

	v, ok := r.Value()
	if !ok || v != 10 {
		t.Errorf("Value() = (%v, %v), expected (10, true)", v, ok)
	}
}

func TestRewardZeroIsPresent(t *testing.T) {
	var r Reward
	r.Add(0)

	if !r.Present() {
		t.Error("A zero payout is still a present reward")
	}
	if r != RewardOf(0) {
		t.Error("Add(0) on an absent reward should equal RewardOf(0)")
	}
}
