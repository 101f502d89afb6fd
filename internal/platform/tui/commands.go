package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tracksnake/internal/ambient"
	"github.com/vovakirdan/tracksnake/internal/snake"
	"github.com/vovakirdan/tracksnake/internal/spotify"
	"github.com/vovakirdan/tracksnake/internal/storage"
)

// Results of asynchronous work. Everything that feeds back into the game
// carries the epoch it was issued for.

type nowPlayingMsg struct {
	np  snake.NowPlaying
	err error
}

type playlistMsg struct {
	playlist *snake.Playlist
	err      error
}

type colorSampledMsg struct {
	epoch uint64
	ref   string
	rgb   ambient.RGB
	err   error
}

type tintMsg struct {
	ref string
	err error
}

type playbackMsg struct {
	epoch uint64
	track snake.Track
	err   error
}

type submitMsg struct {
	username string
	score    int
	err      error
}

type leaderboardMsg struct {
	entries []snake.LeaderEntry
	err     error
}

func fetchNowPlayingCmd(feed snake.Feed, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		np, err := feed.NowPlaying(ctx)
		return nowPlayingMsg{np: np, err: err}
	}
}

func fetchPlaylistCmd(feed snake.Feed, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		p, err := feed.ActivePlaylist(ctx)
		return playlistMsg{playlist: p, err: err}
	}
}

// sampleCmd samples eaten artwork for the ambient color of epoch.
func sampleCmd(s *ambient.Sampler, epoch uint64, ref string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		rgb, err := s.Sample(ctx, ref)
		return colorSampledMsg{epoch: epoch, ref: ref, rgb: rgb, err: err}
	}
}

// tintCmd warms the sampler cache so artwork can tint the board.
func tintCmd(s *ambient.Sampler, ref string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, err := s.Sample(ctx, ref)
		return tintMsg{ref: ref, err: err}
	}
}

func playCmd(p snake.PlaybackBridge, c snake.Consumption, timeout time.Duration) tea.Cmd {
	track := *c.Food.Track
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := p.Play(ctx, track, c.StartOffset)
		return playbackMsg{epoch: c.Epoch, track: track, err: err}
	}
}

func submitCmd(board snake.Leaderboard, username string, score int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := board.Submit(ctx, username, score)
		return submitMsg{username: username, score: score, err: err}
	}
}

func leaderboardCmd(board snake.Leaderboard, limit int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		entries, err := board.Top(ctx, limit)
		return leaderboardMsg{entries: entries, err: err}
	}
}

// recordSessionCmd stores a finished session. Failures are only logged.
func recordSessionCmd(rec SessionRecorder, r storage.SessionRecord, logger *log.Logger, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := rec.SaveSession(ctx, r); err != nil {
			logger.Warn("cannot record session", "session", r.SessionID, "err", err)
		}
		return nil
	}
}

// describeError turns collaborator errors into a short status line.
func describeError(err error) string {
	var imgErr *ambient.ImageLoadError
	switch {
	case errors.Is(err, spotify.ErrNoToken):
		return "No Spotify token: playing with filler food"
	case errors.Is(err, spotify.ErrNothingPlaying):
		return "Nothing is playing on Spotify"
	case errors.Is(err, spotify.ErrNoPlaylist):
		return "Not playing from a playlist"
	case errors.Is(err, spotify.ErrPremiumRequired):
		return "Spotify Premium is required to control playback"
	case errors.Is(err, spotify.ErrUnauthorized):
		return "Spotify token expired"
	case errors.Is(err, storage.ErrInvalidUsername):
		return "Enter a name first"
	case errors.As(err, &imgErr):
		return "Artwork unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out"
	}
	return err.Error()
}
