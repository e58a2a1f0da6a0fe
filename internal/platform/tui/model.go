package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gridplay/internal/config"
	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/engine"
	"github.com/vovakirdan/gridplay/internal/episode"
	"github.com/vovakirdan/gridplay/internal/registry"
	"github.com/vovakirdan/gridplay/internal/render"
	"github.com/vovakirdan/gridplay/internal/storage"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	overStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// Lines and columns the game view spends on things other than the board.
const (
	chromeLines = 6
	maskPanel   = 9
)

// GameModel is the Bubble Tea model for one game. The board advances once
// per action key; with a tick delay configured it also advances with a
// stay action whenever the delay elapses. A board larger than the terminal
// is shown through a window that scrolls after the game's focus codes.
type GameModel struct {
	game    registry.Game
	store   *storage.Store
	cfg     config.Config
	runtime core.RuntimeConfig
	logger  *log.Logger
	styles  BoardStyles
	keys    *KeyMapper

	tickGen uint64

	play   registry.Playable
	rec    *episode.Recorder
	last   engine.StepResult
	status string

	cropper            *render.ScrollingCropper
	cropRows, cropCols int
	view               render.Observation
	err                error
	saved              bool

	quitting   bool
	backToMenu bool
	standalone bool
}

// NewGameModel creates a game model and starts its first episode.
func NewGameModel(game registry.Game, store *storage.Store, cfg config.Config, rt core.RuntimeConfig, logger *log.Logger) GameModel {
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := GameModel{
		game:    game,
		store:   store,
		cfg:     cfg,
		runtime: rt,
		logger:  logger,
		styles:  NewBoardStyles(cfg),
		keys:    NewKeyMapper(),
		tickGen: tickGens.Add(1),
	}
	m.start()
	return m
}

// start builds a fresh engine and performs its opening tick.
func (m *GameModel) start() {
	m.err = nil
	m.saved = false
	m.status = ""

	occlusion, err := m.cfg.Occlusion()
	if err != nil {
		m.err = err
		return
	}
	play, err := m.game.Launch(m.runtime.Seed, engine.WithLogger(m.logger), engine.WithOcclusion(occlusion))
	if err != nil {
		m.err = fmt.Errorf("build %s: %w", m.game.ID(), err)
		return
	}
	m.play = play
	m.cropper = nil
	m.rec = episode.NewRecorder(m.game.ID(), m.runtime.Seed, false)

	res, err := play.Start()
	m.observe(res, err)
}

// Init starts the idle tick loop, if any.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.tickGen, m.cfg.TickDelay())
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.runtime.ScreenW = msg.Width
		m.runtime.ScreenH = msg.Height
		m.reframe()
		return m, nil

	case TickMsg:
		if msg.Gen != m.tickGen {
			// Left over from a model this one replaced.
			return m, nil
		}
		if m.playing() {
			m.step(core.Press(core.ActionStay))
		}
		return m, tickCmd(m.tickGen, m.cfg.TickDelay())
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	if m.keys.MapKeyToMenuAction(msg) == MenuActionBack {
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil
	}

	if action == core.ActionRestart {
		if m.play == nil || m.play.GameOver() || m.err != nil {
			m.runtime.Seed = time.Now().UnixNano()
			m.start()
		}
		return m, nil
	}

	if in, ok := m.keys.MapKeyToInput(msg); ok && m.playing() {
		m.step(in)
	}
	return m, nil
}

func (m GameModel) playing() bool {
	return m.play != nil && m.err == nil && !m.play.GameOver()
}

// step advances the engine by one tick.
func (m *GameModel) step(in core.Input) {
	res, err := m.play.Tick(in)
	m.observe(res, err)
}

// observe records a step result, forwards the game's log messages and
// saves the episode once it is over.
func (m *GameModel) observe(res engine.StepResult, err error) {
	if err != nil {
		m.err = err
		m.logger.Error("tick failed", "game", m.game.ID(), "error", err)
		return
	}
	m.last = res
	m.rec.Observe(res)
	m.reframe()

	for _, line := range m.play.Blackboard().ConsumeLog() {
		m.logger.Info(line, "game", m.game.ID(), "frame", res.Frame)
		m.status = line
	}

	if res.GameOver && !m.saved {
		m.saved = true
		if m.store != nil {
			if err := m.store.SaveEpisode(m.rec.Summary()); err != nil {
				m.logger.Warn("could not save episode", "error", err)
			}
		}
	}
}

// reframe picks the part of the board that fits on screen. The whole
// board is shown while it fits or the screen size is unknown.
func (m *GameModel) reframe() {
	obs := m.last.Observation
	m.view = obs

	rows := m.runtime.ScreenH - chromeLines
	cols := m.runtime.ScreenW
	if m.cfg.Play.ShowMasks {
		cols -= maskPanel
	}
	rows, cols = min(rows, obs.Board.Rows()), min(cols, obs.Board.Cols())
	if m.runtime.ScreenH <= 0 || m.runtime.ScreenW <= 0 || rows < 1 || cols < 1 ||
		(rows == obs.Board.Rows() && cols == obs.Board.Cols()) {
		m.cropper = nil
		return
	}

	if m.cropper == nil || m.cropRows != rows || m.cropCols != cols {
		var focus []core.Code
		if f, ok := m.game.(registry.Focuser); ok {
			focus = f.Focus()
		}
		sc, err := render.NewScrollingCropper(rows, cols, focus,
			render.WithMargins(min(2, (rows-1)/2), min(3, (cols-1)/2)))
		if err != nil {
			m.logger.Warn("cannot scroll board", "rows", rows, "cols", cols, "error", err)
			return
		}
		m.cropper, m.cropRows, m.cropCols = sc, rows, cols
	}
	view, err := m.cropper.Crop(obs)
	if err != nil {
		m.logger.Warn("cannot scroll board", "game", m.game.ID(), "error", err)
		m.cropper = nil
		return
	}
	m.view = view
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.game.Title()))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(overStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("r: restart  |  b: back  |  q: quit"))
		return b.String()
	}

	board := RenderBoard(m.view.Board, m.styles)
	if m.cfg.Play.ShowMasks {
		board = lipgloss.JoinHorizontal(lipgloss.Top, board, "   ", statusStyle.Render(RenderMasks(m.last.Observation)))
	}
	b.WriteString(board)
	b.WriteString("\n\n")

	sum := m.rec.Summary()
	b.WriteString(statusStyle.Render(fmt.Sprintf("frame %d  reward %s  return %g  discount %g",
		m.last.Frame, m.last.Reward, sum.Return, m.last.Discount)))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")

	if m.last.GameOver {
		b.WriteString(overStyle.Render(fmt.Sprintf("Episode over. Return %g.", sum.Return)))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("r: restart  |  b: back  |  q: quit"))
	} else {
		b.WriteString(helpStyle.Render(m.game.Keys()))
	}
	return b.String()
}

// Return is the undiscounted return of the current episode.
func (m GameModel) Return() float64 {
	if m.rec == nil {
		return 0
	}
	return m.rec.Summary().Return
}

// Err returns the error that stopped the current episode, if any.
func (m GameModel) Err() error {
	return m.err
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays game in the terminal until the user quits.
func Run(game registry.Game, store *storage.Store, cfg config.Config, rt core.RuntimeConfig, logger *log.Logger) error {
	model := NewGameModel(game, store, cfg, rt, logger)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
