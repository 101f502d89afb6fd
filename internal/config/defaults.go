package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/tracksnake.yaml
var defaultYAML []byte

// Default returns the hardcoded default configuration.
func Default() Config {
	return Config{
		Game: GameConfig{
			TickPeriod: 150 * time.Millisecond,
		},
		Playback: PlaybackConfig{
			Enabled:     true,
			RandomStart: true,
		},
		Spotify: SpotifyConfig{
			APIBase:            "https://api.spotify.com/v1",
			NowPlayingInterval: 5 * time.Second,
			PlaylistInterval:   10 * time.Second,
			Timeout:            10 * time.Second,
		},
		Leaderboard: LeaderboardConfig{
			Backend: BackendSQLite,
			DBPath:  "~/.tracksnake/scores.db",
			Limit:   8,
		},
		Server: ServerConfig{
			SSHAddr:     ":23234",
			HostKey:     ".ssh/tracksnake_ed25519",
			IdleTimeout: 30 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.tracksnake/tracksnake.log",
		},
	}
}
