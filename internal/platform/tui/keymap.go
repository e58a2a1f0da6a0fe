package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gridplay/internal/core"
)

// actionKeys binds key names to game actions: arrows, wasd and vi keys
// move, space and '.' wait a turn.
var actionKeys = map[string]core.Action{
	"up": core.ActionUp, "w": core.ActionUp, "k": core.ActionUp,
	"down": core.ActionDown, "s": core.ActionDown, "j": core.ActionDown,
	"left": core.ActionLeft, "a": core.ActionLeft, "h": core.ActionLeft,
	"right": core.ActionRight, "d": core.ActionRight, "l": core.ActionRight,
	" ": core.ActionStay, ".": core.ActionStay,
	"r":      core.ActionRestart,
	"q":      core.ActionQuit,
	"ctrl+c": core.ActionQuit,
}

// MenuAction is what a key means on the menu and history screens.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionHistory
	MenuActionQuit
)

var menuKeys = map[string]MenuAction{
	"up": MenuActionUp, "w": MenuActionUp, "k": MenuActionUp,
	"down": MenuActionDown, "s": MenuActionDown, "j": MenuActionDown,
	"enter": MenuActionSelect, " ": MenuActionSelect,
	"esc": MenuActionBack, "b": MenuActionBack,
	"tab":    MenuActionHistory,
	"q":      MenuActionQuit,
	"ctrl+c": MenuActionQuit,
}

// KeyMapper turns key presses into actions. It is stateless; the methods
// hang off a type so screens can share one value.
type KeyMapper struct{}

// NewKeyMapper returns the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey returns the game action bound to msg, ActionNone for unbound
// keys, and whether the key asks to quit.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	action = actionKeys[msg.String()]
	return action, action == core.ActionQuit
}

// MapKeyToInput returns the engine input for a key. ok is false for keys
// that do not advance the board.
func (km *KeyMapper) MapKeyToInput(msg tea.KeyMsg) (in core.Input, ok bool) {
	action, _ := km.MapKey(msg)
	if _, move := action.Delta(); !move && action != core.ActionStay {
		return core.NoInput, false
	}
	return core.Press(action), true
}

// MapKeyToMenuAction returns the menu action bound to msg.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	return menuKeys[msg.String()]
}
