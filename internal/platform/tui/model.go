package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tracksnake/internal/ambient"
	"github.com/vovakirdan/tracksnake/internal/core"
	"github.com/vovakirdan/tracksnake/internal/snake"
	"github.com/vovakirdan/tracksnake/internal/spotify"
	"github.com/vovakirdan/tracksnake/internal/storage"
)

// Terminal cells are roughly twice as tall as wide. One board cell is two
// columns by one row, so both map to CellUnits logical units.
const (
	unitsPerCol = snake.CellUnits / cellW
	unitsPerRow = snake.CellUnits
)

// statusTTL is how long a transient status line stays visible.
const statusTTL = 4 * time.Second

// anonymous is recorded for sessions whose player never entered a name.
const anonymous = "anonymous"

// dragStart is where a mouse swipe began.
type dragStart struct {
	x, y int
}

// Model is the Bubble Tea model of one tracksnake session.
type Model struct {
	deps Deps
	opts Options
	game *snake.Game

	screen *core.Screen
	keys   KeyMap
	help   help.Model
	input  textinput.Model
	table  table.Model

	width  int
	height int

	// Feed state
	nowPlaying snake.NowPlaying
	playlist   string
	feedOff    bool

	// Session bookkeeping
	started     time.Time
	tracksEaten int
	recorded    bool
	entering    bool
	submitted   bool
	entries     []snake.LeaderEntry

	status      string
	statusAlert bool
	statusAt    time.Time

	drag     *dragStart
	tints    map[string]bool // Artwork refs already sent to the sampler
	quitting bool
}

// NewModel creates a model with a fresh game.
func NewModel(deps Deps, opts Options) Model {
	deps = deps.withDefaults()
	opts = opts.withDefaults()

	in := textinput.New()
	in.Placeholder = "your name"
	in.CharLimit = storage.MaxUsernameLen
	in.Width = storage.MaxUsernameLen
	in.Prompt = "Name: "
	in.SetValue(opts.Username)

	h := help.New()
	h.ShowAll = false

	g := snake.New(opts.Game, "")
	m := Model{
		deps:    deps,
		opts:    opts,
		game:    g,
		screen:  core.NewScreen(screenW, screenH),
		keys:    DefaultKeyMap(),
		help:    h,
		input:   in,
		table:   newLeaderTable(nil, 8),
		width:   opts.Runtime.ScreenW,
		height:  opts.Runtime.ScreenH,
		started: time.Now(),
		tints:   make(map[string]bool),
	}
	if deps.Hub != nil {
		deps.Hub.Join(g.ID(), m.playerName())
	}
	return m
}

// Game exposes the running game.
func (m Model) Game() *snake.Game {
	return m.game
}

// Init starts the tick loop and the feed polling.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.opts.Runtime.TickPeriod)}
	if m.deps.Feed != nil {
		cmds = append(cmds,
			fetchNowPlayingCmd(m.deps.Feed, m.opts.RequestTimeout),
			fetchPlaylistCmd(m.deps.Feed, m.opts.RequestTimeout),
		)
	}
	if m.deps.Board != nil {
		cmds = append(cmds, leaderboardCmd(m.deps.Board, m.opts.LeaderboardLimit, m.opts.RequestTimeout))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case pollNowPlayingMsg:
		if m.deps.Feed == nil {
			return m, nil
		}
		return m, fetchNowPlayingCmd(m.deps.Feed, m.opts.RequestTimeout)

	case pollPlaylistMsg:
		if m.deps.Feed == nil {
			return m, nil
		}
		return m, fetchPlaylistCmd(m.deps.Feed, m.opts.RequestTimeout)

	case nowPlayingMsg:
		return m.handleNowPlaying(msg)

	case playlistMsg:
		return m.handlePlaylist(msg)

	case colorSampledMsg:
		if msg.err != nil {
			m.deps.Logger.Debug("artwork color unavailable", "ref", msg.ref, "err", msg.err)
			return m, nil
		}
		if m.game.ApplySample(msg.epoch, msg.rgb) {
			m.publish()
		}
		return m, nil

	case tintMsg:
		if msg.err != nil {
			m.deps.Logger.Debug("artwork tint unavailable", "ref", msg.ref, "err", msg.err)
		}
		return m, nil

	case playbackMsg:
		return m.handlePlayback(msg)

	case submitMsg:
		return m.handleSubmit(msg)

	case leaderboardMsg:
		if msg.err != nil {
			m.deps.Logger.Debug("cannot load leaderboard", "err", msg.err)
			return m, nil
		}
		m.entries = msg.entries
		m.table = newLeaderTable(m.entries, m.opts.LeaderboardLimit)
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.entering {
		switch {
		case msg.Type == tea.KeyCtrlC:
			return m.quit()
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		case key.Matches(msg, m.keys.Skip):
			m.entering = false
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Restart):
		if m.game.GameOver() {
			return m.restart()
		}
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if m.game.GameOver() && m.canSubmit() {
			m.entering = true
			cmd := m.input.Focus()
			return m, cmd
		}
		return m, nil
	}

	if d, ok := m.keys.DirectionFor(msg); ok {
		m.game.Enqueue(d)
	}
	return m, nil
}

// handleMouse turns a left-button drag into a swipe.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.drag = &dragStart{x: msg.X, y: msg.Y}
		}
	case tea.MouseActionRelease:
		if m.drag == nil {
			return m, nil
		}
		cols, rows := msg.X-m.drag.x, msg.Y-m.drag.y
		m.drag = nil
		if core.Abs(cols)+core.Abs(rows) == 0 {
			// A click, not a drag
			return m, nil
		}
		dx := float64(cols * unitsPerCol)
		dy := float64(rows * unitsPerRow)
		if d, ok := snake.ClassifySwipe(dx, dy); ok {
			m.game.Enqueue(d)
		}
	}
	return m, nil
}

// handleTick runs one simulation step and dispatches its side effects.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.opts.Runtime.TickPeriod)}

	wasOver := m.game.GameOver()
	res := m.game.Step()

	if c := res.Consumed; c != nil {
		cmds = append(cmds, m.consume(*c)...)
	}
	if !wasOver && res.State.GameOver {
		cmds = append(cmds, m.gameOver(res.Collision)...)
	}
	cmds = append(cmds, m.ensureTint(m.game.Food().Artwork))

	if m.status != "" && now.Sub(m.statusAt) > statusTTL && !m.game.GameOver() {
		m.status = ""
	}

	if !wasOver {
		m.publish()
	}
	return m, tea.Batch(cmds...)
}

// consume issues the sampling and playback requests for eaten food.
func (m *Model) consume(c snake.Consumption) []tea.Cmd {
	var cmds []tea.Cmd
	if c.Food.Track != nil {
		m.tracksEaten++
	}
	if c.Food.Artwork != "" {
		cmds = append(cmds, sampleCmd(m.deps.Sampler, c.Epoch, c.Food.Artwork, m.opts.RequestTimeout))
	}
	if m.opts.Playback && m.deps.Player != nil && c.Playable() {
		cmds = append(cmds, playCmd(m.deps.Player, c, m.opts.RequestTimeout))
	}
	return cmds
}

// gameOver records the session and opens the score entry.
func (m *Model) gameOver(reason snake.Collision) []tea.Cmd {
	switch reason {
	case snake.CollisionWall:
		m.setStatus("Game over: hit the wall", true)
	case snake.CollisionSelf:
		m.setStatus("Game over: ran into yourself", true)
	default:
		m.setStatus("Game over", true)
	}

	var cmds []tea.Cmd
	if rec := m.record(reason.String()); rec != nil {
		cmds = append(cmds, rec)
	}
	if m.canSubmit() {
		m.entering = true
		cmds = append(cmds, m.input.Focus())
		cmds = append(cmds, leaderboardCmd(m.deps.Board, m.opts.LeaderboardLimit, m.opts.RequestTimeout))
	}
	return cmds
}

// record stores the session once. Returns nil if nothing needs storing.
func (m *Model) record(reason string) tea.Cmd {
	if m.recorded || m.deps.Sessions == nil {
		return nil
	}
	m.recorded = true
	rec := storage.SessionRecord{
		SessionID:   fmt.Sprintf("%s/%d", m.game.ID(), m.game.Epoch()),
		Username:    m.playerName(),
		Score:       m.game.Score(),
		TracksEaten: m.tracksEaten,
		EndReason:   reason,
		Duration:    int(time.Since(m.started).Seconds()),
	}
	return recordSessionCmd(m.deps.Sessions, rec, m.deps.Logger, m.opts.RequestTimeout)
}

// ensureTint requests the color of an artwork the board has not seen yet.
func (m *Model) ensureTint(ref string) tea.Cmd {
	if ref == "" || m.tints[ref] {
		return nil
	}
	m.tints[ref] = true
	return tintCmd(m.deps.Sampler, ref, m.opts.RequestTimeout)
}

func (m Model) handleNowPlaying(msg nowPlayingMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err == nil:
		m.nowPlaying = msg.np
		m.game.SetFallbackArtwork(msg.np.Artwork())
	case errors.Is(msg.err, spotify.ErrNothingPlaying):
		m.nowPlaying = snake.NowPlaying{}
	case errors.Is(msg.err, spotify.ErrNoToken):
		// No credentials: stop polling and play with filler food
		m.feedOff = true
		m.setStatus(describeError(msg.err), false)
		return m, nil
	default:
		m.deps.Logger.Debug("cannot fetch now playing", "err", msg.err)
	}

	return m, tea.Batch(
		m.ensureTint(m.nowPlaying.Artwork()),
		pollNowPlayingCmd(m.opts.NowPlayingInterval),
	)
}

func (m Model) handlePlaylist(msg playlistMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err == nil:
		m.game.SetPlaylist(msg.playlist)
		m.playlist = ""
		if msg.playlist != nil {
			m.playlist = msg.playlist.Name
		}
	case errors.Is(msg.err, spotify.ErrNoPlaylist), errors.Is(msg.err, spotify.ErrNothingPlaying):
		m.game.SetPlaylist(nil)
		m.playlist = ""
	case errors.Is(msg.err, spotify.ErrNoToken):
		m.feedOff = true
		return m, nil
	default:
		// Keep the last known playlist
		m.deps.Logger.Debug("cannot fetch playlist", "err", msg.err)
	}
	return m, pollPlaylistCmd(m.opts.PlaylistInterval)
}

func (m Model) handlePlayback(msg playbackMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.deps.Logger.Warn("playback request failed", "track", msg.track.URI, "err", msg.err)
		if msg.epoch == m.game.Epoch() {
			m.setStatus(describeError(msg.err), true)
		}
		return m, nil
	}
	if msg.epoch == m.game.Epoch() && !m.game.GameOver() {
		label := msg.track.Name
		if msg.track.Artist != "" {
			label += " - " + msg.track.Artist
		}
		m.setStatus("▶ "+label, false)
	}
	return m, nil
}

// submit sends the entered name and the final score to the leaderboard.
func (m Model) submit() (tea.Model, tea.Cmd) {
	name, err := storage.NormalizeUsername(m.input.Value())
	if err != nil {
		m.setStatus(describeError(err), true)
		return m, nil
	}
	m.entering = false
	m.input.Blur()
	m.setStatus("Submitting...", false)
	return m, submitCmd(m.deps.Board, name, m.game.Score(), m.opts.RequestTimeout)
}

func (m Model) handleSubmit(msg submitMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.deps.Logger.Warn("cannot submit score", "username", msg.username, "score", msg.score, "err", msg.err)
		m.setStatus("submit failed: "+describeError(msg.err), true)
		m.entering = true
		cmd := m.input.Focus()
		return m, cmd
	}
	m.submitted = true
	m.setStatus(fmt.Sprintf("Saved %d for %s", msg.score, msg.username), false)
	return m, leaderboardCmd(m.deps.Board, m.opts.LeaderboardLimit, m.opts.RequestTimeout)
}

// restart starts a new epoch. The tick loop is already running.
func (m Model) restart() (tea.Model, tea.Cmd) {
	m.game.Reset()
	m.started = time.Now()
	m.tracksEaten = 0
	m.recorded = false
	m.entering = false
	m.submitted = false
	m.input.Blur()
	m.status = ""
	if m.deps.Hub != nil {
		m.deps.Hub.Join(m.game.ID(), m.playerName())
	}
	m.publish()
	return m, nil
}

// quit records an unfinished session and leaves the program.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.deps.Hub != nil {
		m.deps.Hub.End(m.game.ID())
	}
	if !m.game.GameOver() && m.game.Score() > 0 {
		if rec := m.record("quit"); rec != nil {
			return m, tea.Sequence(rec, tea.Quit)
		}
	}
	return m, tea.Quit
}

func (m *Model) setStatus(s string, alert bool) {
	m.status = s
	m.statusAlert = alert
	m.statusAt = time.Now()
}

func (m Model) publish() {
	if m.deps.Hub != nil {
		m.deps.Hub.Publish(m.game.Snapshot())
	}
}

func (m Model) canSubmit() bool {
	return m.deps.Board != nil && !m.submitted && m.game.Score() > 0
}

func (m Model) playerName() string {
	if name, err := storage.NormalizeUsername(m.input.Value()); err == nil {
		return name
	}
	if name, err := storage.NormalizeUsername(m.opts.Username); err == nil {
		return name
	}
	return anonymous
}

// tint reads artwork colors from the sampler cache.
func (m Model) tint(ref string) (ambient.RGB, bool) {
	return m.deps.Sampler.Cached(ref)
}

func (m Model) hud() hudInfo {
	h := hudInfo{
		Track:       m.nowPlaying.Track.Name,
		Artist:      m.nowPlaying.Track.Artist,
		DurationMs:  m.nowPlaying.Track.DurationMs,
		Playlist:    m.playlist,
		Status:      m.status,
		StatusAlert: m.statusAlert,
	}
	if h.Status == "" && m.feedOff {
		h.Status = "Offline: filler food only"
	}
	return h
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width > 0 && (m.width < screenW || m.height < screenH) {
		renderTooSmall(m.screen, m.width, m.height)
		return RenderScreen(m.screen)
	}

	renderBoard(m.screen, m.game.Snapshot(), m.hud(), m.tint)
	view := RenderScreen(m.screen)

	if m.game.GameOver() {
		panel := m.panelView()
		if m.width == 0 || m.width >= screenW+panelWidth+2 {
			view = lipgloss.JoinHorizontal(lipgloss.Top, view, "  ", panel)
		} else {
			view = panel
		}
	}

	if m.height == 0 || m.height > screenH {
		helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(core.ColorDim))
		view += "\n" + helpStyle.Render(m.help.View(m.keys))
	}
	return view
}

// panelView is the leaderboard and name entry shown after game over.
func (m Model) panelView() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(core.ColorSnake))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(core.ColorDim))

	b.WriteString(title.Render("LEADERBOARD"))
	b.WriteString("\n\n")
	b.WriteString(renderLeaderTable(m.table, len(m.entries)))
	b.WriteString("\n\n")

	switch {
	case m.entering:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(dim.Render("enter: submit  esc: skip"))
	case m.canSubmit():
		b.WriteString(dim.Render("enter: submit score"))
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("r: play again  q: quit"))

	return panelStyle.Render(b.String())
}

// Run starts the Bubble Tea program for a local session.
func Run(deps Deps, opts Options) error {
	model := NewModel(deps, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Mouse drags are swipes
	)

	_, err := p.Run()
	return err
}
