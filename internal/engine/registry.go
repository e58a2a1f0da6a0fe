package engine

import (
	"fmt"

	"github.com/vovakirdan/gridplay/internal/core"
)

// registry holds points and regions in back-to-front paint order.
type registry struct {
	order  []core.Code
	byCode map[core.Code]Thing
}

func newRegistry() *registry {
	return &registry{byCode: make(map[core.Code]Thing)}
}

// add appends t at the front. Snapshots taken earlier keep their own
// order and lookup.
func (r *registry) add(t Thing) {
	byCode := make(map[core.Code]Thing, len(r.byCode)+1)
	for c, other := range r.byCode {
		byCode[c] = other
	}
	byCode[t.Code()] = t
	r.byCode = byCode
	r.order = append(r.codes(), t.Code())
}

func (r *registry) has(c core.Code) bool {
	_, ok := r.byCode[c]
	return ok
}

func (r *registry) codes() []core.Code {
	return append([]core.Code(nil), r.order...)
}

func (r *registry) snapshot() Things {
	return Things{order: r.order, byCode: r.byCode}
}

// setOrder replaces the paint order. codes must name every registered thing
// exactly once.
func (r *registry) setOrder(codes []core.Code) error {
	if len(codes) != len(r.order) {
		return fmt.Errorf("%w: got %d codes, have %d things", ErrBadDepthOrder, len(codes), len(r.order))
	}
	seen := make(map[core.Code]bool, len(codes))
	for _, c := range codes {
		if !r.has(c) {
			return fmt.Errorf("%w: %q is not registered", ErrBadDepthOrder, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: %q appears twice", ErrBadDepthOrder, c)
		}
		seen[c] = true
	}
	r.order = append([]core.Code(nil), codes...)
	return nil
}

// moveInFrontOf removes mover and reinserts it directly after target in
// paint order, so it is drawn over target and under whatever was over
// target. A nil target sends mover to the very back.
func (r *registry) moveInFrontOf(mover core.Code, target *core.Code) error {
	if !r.has(mover) {
		return fmt.Errorf("%w: %q", ErrUnknownCode, mover)
	}
	if target != nil && !r.has(*target) {
		return fmt.Errorf("%w: %q", ErrUnknownCode, *target)
	}
	if target != nil && *target == mover {
		return nil
	}

	rest := make([]core.Code, 0, len(r.order))
	for _, c := range r.order {
		if c != mover {
			rest = append(rest, c)
		}
	}
	at := 0
	if target != nil {
		for i, c := range rest {
			if c == *target {
				at = i + 1
				break
			}
		}
	}
	order := make([]core.Code, 0, len(r.order))
	order = append(order, rest[:at]...)
	order = append(order, mover)
	order = append(order, rest[at:]...)
	r.order = order
	return nil
}
