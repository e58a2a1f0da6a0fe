package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gridplay/internal/config"
	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/registry"
	"github.com/vovakirdan/gridplay/internal/storage"
)

type screen int

const (
	screenMenu screen = iota
	screenGame
	screenHistory
)

// SessionModel chains the menu, the game and the episode history inside one
// program. Remote players get one each.
type SessionModel struct {
	store   *storage.Store
	play    config.Config
	runtime core.RuntimeConfig
	logger  *log.Logger

	screen   screen
	menu     MenuModel
	game     GameModel
	history  HistoryModel
	lastGame string
	quitting bool
}

func NewSessionModel(store *storage.Store, play config.Config, rt core.RuntimeConfig, logger *log.Logger) SessionModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return SessionModel{
		store:   store,
		play:    play,
		runtime: rt,
		logger:  logger,
		menu:    NewMenuModel(store, rt),
	}
}

func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes msg to the active screen. The screens end themselves with
// tea.Quit; the session swallows those and switches screens instead.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.runtime.ScreenW, m.runtime.ScreenH = size.Width, size.Height
	}

	switch m.screen {
	case screenGame:
		next, cmd := m.game.Update(msg)
		m.game = next.(GameModel)
		switch {
		case m.game.IsQuitting():
			return m.quit()
		case m.game.BackToMenu():
			return m.showMenu()
		}
		return m, cmd

	case screenHistory:
		next, cmd := m.history.Update(msg)
		m.history = next.(HistoryModel)
		switch {
		case m.history.IsQuitting():
			return m.quit()
		case m.history.IsGoingBack():
			return m.showMenu()
		}
		return m, cmd
	}

	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)
	res := m.menu.Result()
	switch {
	case res.Quit:
		return m.quit()
	case res.WantsHistory:
		m.screen = screenHistory
		m.history = NewHistoryModel(m.store, m.lastGame, m.runtime.ScreenW, m.runtime.ScreenH)
		return m, m.history.Init()
	case res.GameID != "":
		return m.startGame(res)
	}
	return m, cmd
}

func (m SessionModel) startGame(res MenuResult) (tea.Model, tea.Cmd) {
	game, err := registry.Create(res.GameID)
	if err != nil {
		m.logger.Error("cannot create game", "game", res.GameID, "error", err)
		return m.showMenu()
	}
	rt := res.Config
	rt.Seed = time.Now().UnixNano()
	m.logger.Info("game started", "game", game.ID(), "seed", rt.Seed)

	m.game = NewGameModel(game, m.store, m.play, rt, m.logger)
	m.lastGame = game.ID()
	m.screen = screenGame
	return m, m.game.Init()
}

// showMenu rebuilds the menu so best returns are fresh.
func (m SessionModel) showMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.store, m.runtime)
	return m, m.menu.Init()
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m SessionModel) View() string {
	switch {
	case m.quitting:
		return ""
	case m.screen == screenGame:
		return m.game.View()
	case m.screen == screenHistory:
		return m.history.View()
	}
	return m.menu.View()
}
