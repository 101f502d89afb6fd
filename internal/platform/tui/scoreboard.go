package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tracksnake/internal/core"
	"github.com/vovakirdan/tracksnake/internal/snake"
	"github.com/vovakirdan/tracksnake/internal/storage"
)

// Scoreboard layout constants
const (
	panelWidth = 34  // Width of the game-over leaderboard panel
	maxScores  = 100 // Max rows to load in the scoreboard screen
)

var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Width(panelWidth).
	Padding(0, 1)

// leaderTableStyles are shared by the game-over panel and the scoreboard.
func leaderTableStyles() table.Styles {
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
	return s
}

// newLeaderTable builds the compact leaderboard of the game-over panel.
func newLeaderTable(entries []snake.LeaderEntry, limit int) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Player", Width: 18},
		{Title: "Score", Width: 6},
	}

	rows := make([]table.Row, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			truncate(e.Username, columns[1].Width),
			fmt.Sprintf("%d", e.Score),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(limit+1),
	)
	s := leaderTableStyles()
	// Nothing is selectable in the panel
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
	return t
}

// renderLeaderTable renders the table or an empty message.
func renderLeaderTable(t table.Model, rows int) string {
	if rows == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Render("No scores yet.")
	}
	return t.View()
}

// ScoreSource is the read side of the score storage.
type ScoreSource interface {
	TopScores(ctx context.Context, limit int) ([]storage.ScoreEntry, error)
	RecentSessions(ctx context.Context, limit int) ([]storage.SessionRecord, error)
}

var _ ScoreSource = (*storage.Store)(nil)

// scoreTab selects what the scoreboard lists.
type scoreTab int

const (
	tabLeaderboard scoreTab = iota
	tabSessions
)

func (t scoreTab) String() string {
	if t == tabSessions {
		return "Recent games"
	}
	return "Leaderboard"
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextTab, k.PrevTab, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "switch view"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "switch back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	source   ScoreSource
	tab      scoreTab
	scores   []storage.ScoreEntry
	sessions []storage.SessionRecord
	err      error
	table    table.Model
	help     help.Model
	keys     ScoreboardKeyMap
	width    int
	height   int
	quitting bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(source ScoreSource, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		source: source,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.load()
	return m
}

// load reads the rows of the current tab.
func (m *ScoreboardModel) load() {
	m.err = nil
	if m.source == nil {
		m.rebuild()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch m.tab {
	case tabSessions:
		m.sessions, m.err = m.source.RecentSessions(ctx, maxScores)
	default:
		m.scores, m.err = m.source.TopScores(ctx, maxScores)
	}
	m.rebuild()
}

// rebuild recreates the table for the current tab and window size.
func (m *ScoreboardModel) rebuild() {
	var (
		columns []table.Column
		rows    []table.Row
	)

	switch m.tab {
	case tabSessions:
		columns = []table.Column{
			{Title: "Player", Width: 16},
			{Title: "Score", Width: 7},
			{Title: "Tracks", Width: 7},
			{Title: "End", Width: 6},
			{Title: "Time", Width: 7},
			{Title: "Date", Width: 13},
		}
		for _, s := range m.sessions {
			rows = append(rows, table.Row{
				truncate(s.Username, 16),
				fmt.Sprintf("%d", s.Score),
				fmt.Sprintf("%d", s.TracksEaten),
				s.EndReason,
				snake.FormatDuration(s.Duration * 1000),
				s.CreatedAt.Format("Jan 02 15:04"),
			})
		}
	default:
		columns = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Player", Width: 20},
			{Title: "Score", Width: 8},
			{Title: "Date", Width: 13},
		}
		for i, s := range m.scores {
			rows = append(rows, table.Row{
				fmt.Sprintf("#%d", i+1),
				truncate(s.Username, 20),
				fmt.Sprintf("%d", s.Score),
				s.CreatedAt.Format("Jan 02 15:04"),
			})
		}
	}

	// Leave room for header, help, and margins
	height := core.Clamp(m.height-8, 3, maxScores)

	m.table = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	m.table.SetStyles(leaderTableStyles())
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab), key.Matches(msg, m.keys.PrevTab):
			m.tab = 1 - m.tab
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.rebuild()
		return m, nil
	}

	// Pass other messages to table for scrolling
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(centerText(titleStyle.Render("TRACKSNAKE SCORES"), m.width))
	b.WriteString("\n\n")

	// Tabs
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, 0, 2)
	for _, t := range []scoreTab{tabLeaderboard, tabSessions} {
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(t.String()))
		}
	}
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.err != nil:
		return emptyStyle.Render("Cannot load scores:\n" + m.err.Error())
	case m.tab == tabLeaderboard && len(m.scores) == 0:
		return emptyStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	case m.tab == tabSessions && len(m.sessions) == 0:
		return emptyStyle.Render("No games played yet.")
	}
	return m.table.View()
}

// centerText centers every line of s within width columns.
func centerText(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

// RunScoreboard runs the scoreboard screen.
func RunScoreboard(source ScoreSource, width, height int) error {
	model := NewScoreboardModel(source, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
