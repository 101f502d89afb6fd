package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tracksnake/internal/ambient"
	"github.com/vovakirdan/tracksnake/internal/config"
	"github.com/vovakirdan/tracksnake/internal/core"
	"github.com/vovakirdan/tracksnake/internal/leaderboard"
	"github.com/vovakirdan/tracksnake/internal/platform/tui"
	"github.com/vovakirdan/tracksnake/internal/snake"
	"github.com/vovakirdan/tracksnake/internal/spotify"
	"github.com/vovakirdan/tracksnake/internal/storage"
)

// newLogger creates a logger the way every command logs.
func newLogger(w io.Writer, prefix string, cfg config.Config) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           cfg.LogLevel(),
	})
}

// openLogFile opens the log file of the play command for appending.
func openLogFile(path string) (*os.File, error) {
	path = config.ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return f, nil
}

// collaborators are the shared dependencies built from the configuration.
type collaborators struct {
	deps  tui.Deps
	store *storage.Store // Nil unless the sqlite backend is used
}

// Close releases the collaborators.
func (c collaborators) Close() {
	if c.store != nil {
		//nolint:errcheck // Best-effort close on exit
		c.store.Close()
	}
}

// buildDeps wires the Spotify client, sampler and leaderboard backend.
// A leaderboard that cannot be opened is logged and left out; the game
// still works without it.
func buildDeps(cfg config.Config, logger *log.Logger) collaborators {
	hc := &http.Client{Timeout: cfg.Spotify.Timeout}

	sp := spotify.NewClient(cfg.Spotify.Token,
		spotify.WithBaseURL(cfg.Spotify.APIBase),
		spotify.WithHTTPClient(hc),
		spotify.WithLogger(logger.WithPrefix("spotify")),
	)
	if !sp.HasToken() {
		logger.Warn("no Spotify token, playing with filler food", "env", config.TokenEnv)
	}

	c := collaborators{
		deps: tui.Deps{
			Feed:    sp,
			Player:  sp,
			Sampler: ambient.NewSampler(hc),
			Logger:  logger,
		},
	}

	switch cfg.Leaderboard.Backend {
	case config.BackendSQLite:
		store, err := storage.Open(cfg.Leaderboard.DBPath)
		if err != nil {
			logger.Warn("could not open scores database", "path", cfg.Leaderboard.DBPath, "error", err)
			break
		}
		c.store = store
		c.deps.Board = store
		c.deps.Sessions = store
	case config.BackendHTTP:
		c.deps.Board = leaderboard.NewClient(cfg.Leaderboard.URL, hc)
	}

	return c
}

// sessionOptions builds the per-session options from the configuration.
func sessionOptions(cfg config.Config, width, height int) tui.Options {
	return tui.Options{
		Runtime: core.RuntimeConfig{
			ScreenW:    width,
			ScreenH:    height,
			TickPeriod: cfg.Game.TickPeriod,
			Seed:       cfg.Game.Seed,
		},
		Game: snake.Config{
			Seed:        cfg.Game.Seed,
			AvoidSnake:  cfg.Game.AvoidSnake,
			RandomStart: cfg.Playback.RandomStart,
		},
		Playback:           cfg.Playback.Enabled,
		NowPlayingInterval: cfg.Spotify.NowPlayingInterval,
		PlaylistInterval:   cfg.Spotify.PlaylistInterval,
		LeaderboardLimit:   cfg.Leaderboard.Limit,
		RequestTimeout:     cfg.Spotify.Timeout,
	}
}
