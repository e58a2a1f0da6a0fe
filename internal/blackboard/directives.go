package blackboard

import (
	"fmt"

	"github.com/vovakirdan/gridplay/internal/core"
)

// Reorder is one queued depth-order change.
type Reorder struct {
	Mover     core.Code
	InFrontOf *core.Code // nil means "to the very back"
}

// String implements fmt.Stringer.
func (r Reorder) String() string {
	if r.InFrontOf == nil {
		return fmt.Sprintf("%q to back", r.Mover)
	}
	return fmt.Sprintf("%q in front of %q", r.Mover, *r.InFrontOf)
}

// Directives is the batch of global changes painters requested during a tick.
type Directives struct {
	Reorders  []Reorder   // In submission order
	Reward    core.Reward // Absent if nobody paid out
	Terminate bool
	Discount  float64
}

// Control is the engine's handle on a blackboard: it advances frames, marks
// update groups and collects the directive batch. Only the holder of a
// Control can change those fields; painters get the Blackboard alone.
type Control struct {
	b *Blackboard
}

// Blackboard returns the board this handle controls.
func (c *Control) Blackboard() *Blackboard {
	return c.b
}

// BeginFrame advances the frame counter and returns the new frame number.
func (c *Control) BeginFrame() int {
	c.b.frame++
	c.b.group = ""
	c.b.inGroup = false
	return c.b.frame
}

// EnterGroup marks the update group being consulted.
func (c *Control) EnterGroup(tag string) {
	c.b.group = tag
	c.b.inGroup = true
}

// LeaveGroups clears the active update group.
func (c *Control) LeaveGroups() {
	c.b.group = ""
	c.b.inGroup = false
}

// TakeDirectives returns this tick's batch and starts an empty one. On
// non-terminal ticks the discount is the default discount.
func (c *Control) TakeDirectives() Directives {
	d := c.b.Pending()
	c.b.batch = Directives{}
	return d
}

// Pending returns a copy of the directives requested so far this tick.
func (b *Blackboard) Pending() Directives {
	d := b.batch
	d.Reorders = append([]Reorder(nil), b.batch.Reorders...)
	if !d.Terminate {
		d.Discount = b.defaultDiscount
	}
	return d
}
