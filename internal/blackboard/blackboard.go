// Package blackboard provides the per-episode shared state that painters use to
// talk to each other and to the engine.
//
// A Blackboard has two halves. The structured half is owned by the engine
// through a Control: the frame counter, the active update group, and the
// collection of the directive batch that painters fill during a tick (reward,
// termination and depth reorders). Painters can only read the frame and group. The free-form half is a plain key/value map that any painter
// may read or write at any time; keys are a naming convention between painters
// and nothing enforces ownership.
package blackboard

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/vovakirdan/gridplay/internal/core"
)

// ErrDiscountRange is returned when a discount outside [0, 1] is requested.
var ErrDiscountRange = errors.New("blackboard: discount must be in [0, 1]")

// Blackboard is the shared state of one episode. It is not safe for
// concurrent use; the engine runs painters one at a time.
type Blackboard struct {
	values map[string]any

	frame           int
	group           string
	inGroup         bool
	defaultDiscount float64

	batch    Directives
	messages []string
}

// New creates a blackboard for a fresh episode together with the Control
// that drives it. The frame counter starts at -1 so that the first tick is
// frame 0.
func New() (*Blackboard, *Control) {
	b := &Blackboard{
		values:          make(map[string]any),
		frame:           -1,
		defaultDiscount: 1.0,
	}
	return b, &Control{b: b}
}

// Frame returns the number of the tick in progress (or last completed).
func (b *Blackboard) Frame() int {
	return b.frame
}

// ActiveGroup returns the tag of the update group being consulted. ok is false
// while the background updates and outside of ticks.
func (b *Blackboard) ActiveGroup() (tag string, ok bool) {
	return b.group, b.inGroup
}

// DefaultDiscount returns the discount reported on non-terminal ticks.
func (b *Blackboard) DefaultDiscount() float64 {
	return b.defaultDiscount
}

// RequestReorder queues a depth-order change: mover is placed immediately in
// front of inFrontOf, or at the very back when inFrontOf is nil. Codes are
// checked when the engine applies the batch, not here.
func (b *Blackboard) RequestReorder(mover core.Code, inFrontOf *core.Code) {
	r := Reorder{Mover: mover}
	if inFrontOf != nil {
		target := *inFrontOf
		r.InFrontOf = &target
	}
	b.batch.Reorders = append(b.batch.Reorders, r)
}

// MoveInFrontOf queues a reorder placing mover directly in front of target.
func (b *Blackboard) MoveInFrontOf(mover, target core.Code) {
	b.RequestReorder(mover, &target)
}

// MoveToBack queues a reorder placing mover behind every other painter.
func (b *Blackboard) MoveToBack(mover core.Code) {
	b.RequestReorder(mover, nil)
}

// AddReward pays v for this tick. The first payout sets the reward and later
// payouts in the same tick are summed.
func (b *Blackboard) AddReward(v float64) {
	b.batch.Reward.Add(v)
}

// Terminate ends the episode after this tick with discount 0.
func (b *Blackboard) Terminate() {
	b.batch.Terminate = true
	b.batch.Discount = 0
}

// RequestTermination ends the episode after this tick with the given discount.
// If several painters terminate in one tick, the last one wins.
func (b *Blackboard) RequestTermination(discount float64) error {
	if err := checkDiscount(discount); err != nil {
		return err
	}
	b.batch.Terminate = true
	b.batch.Discount = discount
	return nil
}

// SetDefaultDiscount changes the discount reported on every non-terminal tick
// from now on.
func (b *Blackboard) SetDefaultDiscount(discount float64) error {
	if err := checkDiscount(discount); err != nil {
		return err
	}
	b.defaultDiscount = discount
	return nil
}

// Log queues a message for whoever observes the episode (a UI, a runner).
func (b *Blackboard) Log(msg string) {
	b.messages = append(b.messages, msg)
}

// Logf is Log with formatting.
func (b *Blackboard) Logf(format string, args ...any) {
	b.Log(fmt.Sprintf(format, args...))
}

// ConsumeLog returns the messages logged since the last call and clears them.
func (b *Blackboard) ConsumeLog() []string {
	msgs := b.messages
	b.messages = nil
	return msgs
}

// Get returns the value stored under key.
func (b *Blackboard) Get(key string) (any, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Set stores a value under key, replacing any previous value.
func (b *Blackboard) Set(key string, v any) {
	b.values[key] = v
}

// Delete removes key from the map.
func (b *Blackboard) Delete(key string) {
	delete(b.values, key)
}

// Keys returns all keys in the map, sorted.
func (b *Blackboard) Keys() []string {
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the value under key if it exists and has type T.
func Lookup[T any](b *Blackboard, key string) (T, bool) {
	var zero T
	v, ok := b.values[key]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

func checkDiscount(d float64) error {
	if math.IsNaN(d) || d < 0 || d > 1 {
		return fmt.Errorf("%w: got %v", ErrDiscountRange, d)
	}
	return nil
}
