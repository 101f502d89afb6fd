// Package tui provides the Bubble Tea integration for tracksnake.
// It handles the terminal UI loop, input mapping, the asynchronous
// collaborators (feed, playback, sampling, leaderboard) and rendering.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends a tick message after period.
func tickCmd(period time.Duration) tea.Cmd {
	return tea.Tick(period, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// pollNowPlayingMsg triggers a now-playing fetch.
type pollNowPlayingMsg struct{}

// pollPlaylistMsg triggers a playlist fetch.
type pollPlaylistMsg struct{}

func pollNowPlayingCmd(after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return pollNowPlayingMsg{}
	})
}

func pollPlaylistCmd(after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return pollPlaylistMsg{}
	})
}
