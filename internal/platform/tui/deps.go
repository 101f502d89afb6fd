package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tracksnake/internal/ambient"
	"github.com/vovakirdan/tracksnake/internal/core"
	"github.com/vovakirdan/tracksnake/internal/snake"
	"github.com/vovakirdan/tracksnake/internal/storage"
)

// SessionRecorder stores finished game sessions.
type SessionRecorder interface {
	SaveSession(ctx context.Context, rec storage.SessionRecord) (int64, error)
}

// Publisher receives snapshots of running games (the spectator hub).
type Publisher interface {
	Join(session, player string)
	Publish(snap snake.Snapshot)
	End(session string)
}

// Deps are the collaborators shared by every game session.
// Any of them may be nil; the game keeps working without it.
type Deps struct {
	Feed     snake.Feed
	Player   snake.PlaybackBridge
	Board    snake.Leaderboard
	Sessions SessionRecorder
	Sampler  *ambient.Sampler
	Hub      Publisher
	Logger   *log.Logger
}

// Options configure one game session.
type Options struct {
	Runtime            core.RuntimeConfig
	Game               snake.Config
	Playback           bool          // Start eaten tracks on the music service
	NowPlayingInterval time.Duration // Feed polling
	PlaylistInterval   time.Duration
	LeaderboardLimit   int
	Username           string // Prefilled name for score submission
	RequestTimeout     time.Duration
}

// DefaultOptions returns options matching the default configuration.
func DefaultOptions() Options {
	return Options{
		Runtime:            core.DefaultConfig(),
		Playback:           true,
		NowPlayingInterval: 5 * time.Second,
		PlaylistInterval:   10 * time.Second,
		LeaderboardLimit:   8,
		RequestTimeout:     10 * time.Second,
	}
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	if d.Sampler == nil {
		d.Sampler = ambient.NewSampler(nil)
	}
	return d
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Runtime.TickPeriod <= 0 {
		o.Runtime.TickPeriod = def.Runtime.TickPeriod
	}
	if o.NowPlayingInterval <= 0 {
		o.NowPlayingInterval = def.NowPlayingInterval
	}
	if o.PlaylistInterval <= 0 {
		o.PlaylistInterval = def.PlaylistInterval
	}
	if o.LeaderboardLimit <= 0 {
		o.LeaderboardLimit = def.LeaderboardLimit
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = def.RequestTimeout
	}
	if o.Game.Seed == 0 {
		o.Game.Seed = o.Runtime.Seed
	}
	return o
}
