package engine

import (
	"sort"
)

// DefaultGroup is the update group things join when SetGroup was never
// called.
const DefaultGroup = ""

// group is one update group: its members are consulted in registration
// order, all against the same rendered board.
type group struct {
	tag     string
	members []Thing
}

// schedule collects update groups during registration.
type schedule struct {
	current string
	groups  map[string][]Thing
}

func newSchedule() *schedule {
	return &schedule{current: DefaultGroup, groups: make(map[string][]Thing)}
}

func (s *schedule) add(t Thing) {
	s.groups[s.current] = append(s.groups[s.current], t)
}

// freeze returns the groups in lexicographic tag order.
func (s *schedule) freeze() []group {
	tags := make([]string, 0, len(s.groups))
	for tag := range s.groups {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	out := make([]group, 0, len(tags))
	for _, tag := range tags {
		out = append(out, group{tag: tag, members: s.groups[tag]})
	}
	return out
}
