package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/registry"
	"github.com/vovakirdan/gridplay/internal/storage"
)

var (
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	bestStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// MenuItem is one game on the menu, with its best stored return.
type MenuItem struct {
	registry.GameInfo
	Best   float64
	Played bool // Whether Best is set
}

// MenuModel picks a game. It ends its program when a game is chosen, the
// history is requested or the user quits; Result tells which.
type MenuModel struct {
	items  []MenuItem
	cursor int
	rt     core.RuntimeConfig
	keys   *KeyMapper
	result MenuResult
}

// MenuResult is how the menu ended.
type MenuResult struct {
	GameID       string
	Config       core.RuntimeConfig
	WantsHistory bool
	Quit         bool
}

// NewMenuModel lists every registered game. With a store, each item
// carries the game's best return.
func NewMenuModel(store *storage.Store, rt core.RuntimeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, len(games))
	for i, g := range games {
		items[i].GameInfo = g
		if store != nil {
			//nolint:errcheck // A failed lookup only hides the best return
			items[i].Best, items[i].Played, _ = store.BestReturn(g.ID)
		}
	}
	return MenuModel{items: items, rt: rt, keys: NewKeyMapper()}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.rt.ScreenW, m.rt.ScreenH = msg.Width, msg.Height

	case tea.KeyMsg:
		last := max(len(m.items)-1, 0)
		switch m.keys.MapKeyToMenuAction(msg) {
		case MenuActionUp:
			m.cursor = core.Clamp(m.cursor-1, 0, last)
		case MenuActionDown:
			m.cursor = core.Clamp(m.cursor+1, 0, last)
		case MenuActionSelect:
			if len(m.items) > 0 {
				m.result.GameID = m.items[m.cursor].ID
				return m, tea.Quit
			}
		case MenuActionHistory:
			m.result.WantsHistory = true
			return m, tea.Quit
		case MenuActionQuit:
			m.result.Quit = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m MenuModel) View() string {
	if m.result.Quit {
		return ""
	}

	var list strings.Builder
	for i, item := range m.items {
		best := "-"
		if item.Played {
			best = fmt.Sprintf("%g", item.Best)
		}
		line := fmt.Sprintf("  %-20s %s", item.Title, bestStyle.Render("best "+best))
		if i == m.cursor {
			line = cursorStyle.Render("> "+fmt.Sprintf("%-20s", item.Title)) + " " + bestStyle.Render("best "+best)
		}
		list.WriteString(line)
		list.WriteString("\n")
	}

	hint := ""
	if len(m.items) > 0 {
		hint = m.items[m.cursor].Keys
	}

	page := lipgloss.JoinVertical(lipgloss.Center,
		"",
		titleStyle.Render("G R I D P L A Y"),
		"",
		"Select a game",
		"",
		lipgloss.NewStyle().Align(lipgloss.Left).Render(list.String()),
		helpStyle.Render(hint),
		"",
		"up/down: navigate  |  enter: play  |  tab: history  |  q: quit",
	)
	return lipgloss.PlaceHorizontal(m.rt.ScreenW, lipgloss.Center, page)
}

// Selected returns the chosen game ID, or "" if none was chosen.
func (m MenuModel) Selected() string {
	return m.result.GameID
}

// IsQuitting reports whether the user asked to quit.
func (m MenuModel) IsQuitting() bool {
	return m.result.Quit
}

// WantsHistory reports whether the user asked for the episode history.
func (m MenuModel) WantsHistory() bool {
	return m.result.WantsHistory
}

// Result returns how the menu ended, with the latest terminal size.
func (m MenuModel) Result() MenuResult {
	r := m.result
	r.Config = m.rt
	return r
}

// RunMenu shows the menu in its own program and reports the choice.
func RunMenu(store *storage.Store, rt core.RuntimeConfig) (MenuResult, error) {
	final, err := tea.NewProgram(NewMenuModel(store, rt), tea.WithAltScreen()).Run()
	if err != nil {
		return MenuResult{Config: rt}, err
	}
	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Config: rt, Quit: true}, nil
	}
	r := m.Result()
	if r.GameID == "" && !r.WantsHistory {
		r.Quit = true
	}
	return r, nil
}
