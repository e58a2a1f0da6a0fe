package core

// Action represents a semantic player action, abstracted from physical key presses.
// Painters see actions, never keys.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, K, Up arrow
	ActionDown           // S, J, Down arrow
	ActionLeft           // A, H, Left arrow
	ActionRight          // D, L, Right arrow
	ActionStay           // Period, Space - wait one tick
	ActionRestart        // R - restart after the episode ends
	ActionQuit           // Q, Ctrl+C - leave the game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionStay:
		return "Stay"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Delta returns the unit move for a directional action, and false otherwise.
func (a Action) Delta() (Position, bool) {
	switch a {
	case ActionUp:
		return North, true
	case ActionDown:
		return South, true
	case ActionLeft:
		return West, true
	case ActionRight:
		return East, true
	default:
		return Position{}, false
	}
}

// InputFrame is the set of actions triggered during one tick.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this tick.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Empty returns true if no action was triggered.
func (f InputFrame) Empty() bool {
	for _, on := range f.Actions {
		if on {
			return false
		}
	}
	return true
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}

// Input is everything the caller hands to one engine tick: a frame shared by
// every painter, plus optional frames aimed at individual painters by code.
// The zero value is the "no action" sentinel used for the opening tick.
type Input struct {
	Shared InputFrame
	ByCode map[Code]InputFrame
}

// NoInput is the sentinel passed to painters on the tick performed by Start.
var NoInput = Input{}

// Press returns an input with a single shared action.
func Press(a Action) Input {
	in := Input{Shared: NewInputFrame()}
	if a != ActionNone {
		in.Shared.Set(a)
	}
	return in
}

// For returns the frame addressed to the painter with the given code, falling
// back to the shared frame.
func (in Input) For(c Code) InputFrame {
	if in.ByCode != nil {
		if frame, ok := in.ByCode[c]; ok {
			return frame
		}
	}
	return in.Shared
}

// SetFor addresses a frame to a single painter.
func (in *Input) SetFor(c Code, frame InputFrame) {
	if in.ByCode == nil {
		in.ByCode = make(map[Code]InputFrame)
	}
	in.ByCode[c] = frame
}

// IsNone reports whether the input carries no actions at all.
func (in Input) IsNone() bool {
	if !in.Shared.Empty() {
		return false
	}
	for _, frame := range in.ByCode {
		if !frame.Empty() {
			return false
		}
	}
	return true
}

// Clone creates a deep copy of this input.
func (in Input) Clone() Input {
	clone := Input{Shared: in.Shared.Clone()}
	for c, frame := range in.ByCode {
		clone.SetFor(c, frame.Clone())
	}
	return clone
}
