// Package tui provides the Bubble Tea front end for gridplay. It maps keys
// to actions, ticks the engine and draws the board.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickGens hands every GameModel its own tick chain id.
var tickGens atomic.Uint64

// TickMsg is sent when an idle tick is due. Gen names the model whose chain
// scheduled it; other models ignore it.
type TickMsg struct {
	Gen uint64
	At  time.Time
}

// tickCmd schedules the next idle tick of chain gen. Boards that only
// advance on key presses have no delay and get no command.
func tickCmd(gen uint64, delay time.Duration) tea.Cmd {
	if delay <= 0 {
		return nil
	}
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, At: t}
	})
}
