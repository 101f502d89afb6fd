// Package config provides YAML-based configuration loading for tracksnake.
package config

import "time"

// Config contains all runtime configuration.
type Config struct {
	Game        GameConfig        `yaml:"game"`
	Playback    PlaybackConfig    `yaml:"playback"`
	Spotify     SpotifyConfig     `yaml:"spotify"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
}

// GameConfig defines engine parameters.
type GameConfig struct {
	TickPeriod time.Duration `yaml:"tick_period"`
	AvoidSnake bool          `yaml:"avoid_snake"` // Never place food under the snake
	Seed       int64         `yaml:"seed"`        // 0 = time-based
}

// PlaybackConfig defines what happens when a track is eaten.
type PlaybackConfig struct {
	Enabled     bool `yaml:"enabled"`
	RandomStart bool `yaml:"random_start"`
}

// SpotifyConfig defines the Web API connection and polling.
type SpotifyConfig struct {
	APIBase            string        `yaml:"api_base"`
	Token              string        `yaml:"token"`
	NowPlayingInterval time.Duration `yaml:"now_playing_interval"`
	PlaylistInterval   time.Duration `yaml:"playlist_interval"`
	Timeout            time.Duration `yaml:"timeout"`
}

// Leaderboard backends.
const (
	BackendSQLite = "sqlite"
	BackendHTTP   = "http"
	BackendNone   = "none"
)

// LeaderboardConfig defines where final scores go.
type LeaderboardConfig struct {
	Backend string `yaml:"backend"` // sqlite, http or none
	URL     string `yaml:"url"`     // Remote endpoint for the http backend
	DBPath  string `yaml:"db_path"`
	Limit   int    `yaml:"limit"`
}

// ServerConfig defines the SSH and HTTP listeners of the serve command.
type ServerConfig struct {
	SSHAddr     string        `yaml:"ssh_addr"`
	HTTPAddr    string        `yaml:"http_addr"` // Empty disables the HTTP server
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// LogConfig defines logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Used by the play command, which owns the terminal
}
