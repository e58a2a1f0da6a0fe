package core

import "strconv"

// Reward is an optional scalar reward. A tick in which nobody paid out has an
// absent reward, which is not the same thing as a reward of zero.
type Reward struct {
	value   float64
	present bool
}

// RewardOf returns a present reward with the given value.
func RewardOf(v float64) Reward {
	return Reward{value: v, present: true}
}

// Add merges v into the reward: the first call sets it, later calls sum.
func (r *Reward) Add(v float64) {
	if !r.present {
		r.value = v
		r.present = true
		return
	}
	r.value += v
}

// Value returns the reward and whether it is present.
func (r Reward) Value() (float64, bool) {
	return r.value, r.present
}

// Present reports whether any reward was paid.
func (r Reward) Present() bool {
	return r.present
}

// Or returns the value, or def when absent.
func (r Reward) Or(def float64) float64 {
	if !r.present {
		return def
	}
	return r.value
}

// String implements fmt.Stringer; absent rewards print as "none".
func (r Reward) String() string {
	if !r.present {
		return "none"
	}
	return strconv.FormatFloat(r.value, 'g', -1, 64)
}
