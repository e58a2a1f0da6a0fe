package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gridplay/internal/registry"
	"github.com/vovakirdan/gridplay/internal/storage"
)

const (
	sidebarMinWidth = 80 // Narrower terminals get game tabs instead of a sidebar
	sidebarWidth    = 20
	historyLimit    = 100
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	activeGameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	activeTabStyle  = activeGameStyle.Background(lipgloss.Color("57")).Padding(0, 1)
	emptyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4)
)

// historyKeys are the history screen bindings. They double as the help
// bar through help.KeyMap.
type historyKeys struct {
	Scroll, Next, Prev, Back, Quit key.Binding
}

func (k historyKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Next, k.Prev, k.Back, k.Quit}
}

func (k historyKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultHistoryKeys = historyKeys{
	Scroll: key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "scroll")),
	Next:   key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next game")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab/←", "prev game")),
	Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// HistoryModel browses stored episodes, one game at a time, best return
// first.
type HistoryModel struct {
	games    []registry.GameInfo
	game     int
	store    *storage.Store
	episodes []storage.EpisodeEntry
	loadErr  error

	table table.Model
	help  help.Model
	keys  historyKeys

	width, height int
	back, quit    bool
}

// NewHistoryModel opens the history on gameID, or on the first game if
// gameID is not registered.
func NewHistoryModel(store *storage.Store, gameID string, width, height int) HistoryModel {
	m := HistoryModel{
		games:  registry.List(),
		store:  store,
		help:   help.New(),
		keys:   defaultHistoryKeys,
		width:  width,
		height: height,
	}
	for i, g := range m.games {
		if g.ID == gameID {
			m.game = i
		}
	}
	m.resize()
	m.load()
	return m
}

func (m *HistoryModel) sidebar() bool {
	return m.width >= sidebarMinWidth
}

// resize rebuilds the table for the current terminal size.
func (m *HistoryModel) resize() {
	dateWidth := 14
	if avail := m.width - 46; m.sidebar() && avail-sidebarWidth > dateWidth {
		dateWidth = min(avail-sidebarWidth, 20)
	}
	m.table = table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Return", Width: 10},
			{Title: "Frames", Width: 7},
			{Title: "End", Width: 5},
			{Title: "Played", Width: dateWidth},
		}),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	m.table.SetStyles(s)
	m.help.Width = m.width
}

// load fetches the current game's episodes into the table.
func (m *HistoryModel) load() {
	m.episodes, m.loadErr = nil, nil
	if m.store != nil && len(m.games) > 0 {
		m.episodes, m.loadErr = m.store.TopEpisodes(m.games[m.game].ID, historyLimit)
	}

	rows := make([]table.Row, len(m.episodes))
	for i, e := range m.episodes {
		rows[i] = table.Row{
			fmt.Sprint(i + 1),
			fmt.Sprintf("%g", e.Return),
			fmt.Sprint(e.Frames),
			endLabel(e.Terminated),
			e.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func endLabel(terminated bool) string {
	if terminated {
		return "done"
	}
	return "cut"
}

func (m *HistoryModel) switchGame(step int) {
	if n := len(m.games); n > 0 {
		m.game = (m.game + step + n) % n
		m.load()
	}
}

func (m HistoryModel) Init() tea.Cmd {
	return nil
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.load()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quit = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.back = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.switchGame(1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.switchGame(-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m HistoryModel) View() string {
	if m.quit || m.back {
		return ""
	}

	title := "EPISODES"
	if len(m.games) > 0 {
		title += " - " + m.games[m.game].Title
	}

	body := boxStyle.Render(m.tableView())
	if m.sidebar() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.gameList(), "  ", body)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, m.gameTabs(), "", body)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, titleStyle.Render(title)),
		"",
		body,
		statusStyle.Render(m.detail()),
		helpStyle.Render(m.help.View(m.keys)),
	)
}

// gameList is the sidebar for wide terminals.
func (m HistoryModel) gameList() string {
	var b strings.Builder
	b.WriteString("Games\n")
	b.WriteString(strings.Repeat("─", sidebarWidth-4))
	for i, g := range m.games {
		b.WriteString("\n")
		if i == m.game {
			b.WriteString(activeGameStyle.Render("> " + truncate(g.Title, sidebarWidth-6)))
		} else {
			b.WriteString("  " + truncate(g.Title, sidebarWidth-6))
		}
	}
	return boxStyle.Width(sidebarWidth).Render(b.String())
}

// gameTabs is the one-line game switcher for narrow terminals.
func (m HistoryModel) gameTabs() string {
	if len(m.games) == 0 {
		return ""
	}
	tabs := make([]string, len(m.games))
	for i, g := range m.games {
		if i == m.game {
			tabs[i] = activeTabStyle.Render(truncate(g.Title, 10))
		} else {
			tabs[i] = helpStyle.Render(" " + truncate(g.Title, 10) + " ")
		}
	}
	line := strings.Join(tabs, " ")
	if lipgloss.Width(line) > m.width-4 {
		line = fmt.Sprintf("< %s >", m.games[m.game].Title)
	}
	return line
}

func (m HistoryModel) tableView() string {
	switch {
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load episodes:\n" + m.loadErr.Error())
	case len(m.episodes) == 0:
		return emptyStyle.Render("No episodes recorded yet.\nFinish a game to see it here!")
	}
	return m.table.View()
}

// detail describes the highlighted episode.
func (m HistoryModel) detail() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.episodes) {
		return ""
	}
	e := m.episodes[i]
	return fmt.Sprintf("seed %d  discount %g  id %s", e.Seed, e.Discount, e.ID)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

// Episodes returns the episodes shown for the current game.
func (m HistoryModel) Episodes() []storage.EpisodeEntry {
	return m.episodes
}

// IsGoingBack reports whether the user asked to return to the menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.back
}

// IsQuitting reports whether the user asked to quit.
func (m HistoryModel) IsQuitting() bool {
	return m.quit
}

// RunHistory shows the history in its own program. goBack is false when
// the user quit instead of going back.
func RunHistory(store *storage.Store, gameID string, width, height int) (goBack bool, err error) {
	final, err := tea.NewProgram(NewHistoryModel(store, gameID, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(HistoryModel)
	return ok && m.IsGoingBack(), nil
}
