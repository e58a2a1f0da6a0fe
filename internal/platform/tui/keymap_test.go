package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gridplay/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	tests := []struct {
		name   string
		msg    tea.KeyMsg
		want   core.Action
		isQuit bool
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{"w", runeKey('w'), core.ActionUp, false},
		{"k", runeKey('k'), core.ActionUp, false},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, core.ActionDown, false},
		{"j", runeKey('j'), core.ActionDown, false},
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"a", runeKey('a'), core.ActionLeft, false},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{"l", runeKey('l'), core.ActionRight, false},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionStay, false},
		{"period", runeKey('.'), core.ActionStay, false},
		{"restart", runeKey('r'), core.ActionRestart, false},
		{"q", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey('z'), core.ActionNone, false},
	}

	km := NewKeyMapper()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, isQuit := km.MapKey(tc.msg)
			if got != tc.want || isQuit != tc.isQuit {
				t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tc.msg.String(), got, isQuit, tc.want, tc.isQuit)
			}
		})
	}
}

func TestMapKeyToInput(t *testing.T) {
	km := NewKeyMapper()

	in, ok := km.MapKeyToInput(runeKey('d'))
	if !ok || !in.For('P').Has(core.ActionRight) {
		t.Errorf("d: got %v, %v; want a right press", in, ok)
	}
	if _, ok := km.MapKeyToInput(runeKey('.')); !ok {
		t.Error("stay should advance the board")
	}
	for _, r := range "rqz" {
		if _, ok := km.MapKeyToInput(runeKey(r)); ok {
			t.Errorf("%q should not advance the board", r)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey('j'), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runeKey('b'), MenuActionBack},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionHistory},
		{runeKey('q'), MenuActionQuit},
		{runeKey('x'), MenuActionNone},
	}

	km := NewKeyMapper()
	for _, tc := range tests {
		t.Run(tc.msg.String(), func(t *testing.T) {
			if got := km.MapKeyToMenuAction(tc.msg); got != tc.want {
				t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tc.msg.String(), got, tc.want)
			}
		})
	}
}
