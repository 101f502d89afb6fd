package snake

import (
	"context"
	"time"
)

// PlaybackBridge starts playback of a track. Implementations talk to the
// music service; the engine only hands them the eaten track. A track with a
// Context keeps playing through that playlist afterwards.
type PlaybackBridge interface {
	Play(ctx context.Context, track Track, offset time.Duration) error
}

// Feed supplies the currently playing track and the active playlist.
type Feed interface {
	NowPlaying(ctx context.Context) (NowPlaying, error)
	ActivePlaylist(ctx context.Context) (*Playlist, error)
}

// LeaderEntry is one leaderboard row.
type LeaderEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Leaderboard records and lists final scores.
type Leaderboard interface {
	Submit(ctx context.Context, username string, score int) error
	Top(ctx context.Context, limit int) ([]LeaderEntry, error)
}
