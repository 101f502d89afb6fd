package core

import "time"

// RuntimeConfig contains settings passed to a game session at start.
type RuntimeConfig struct {
	ScreenW    int           // Screen width in characters
	ScreenH    int           // Screen height in characters
	TickPeriod time.Duration // Time between simulation steps
	Seed       int64         // RNG seed, 0 means time-based
}

// DefaultTickPeriod is the step interval used when none is configured.
const DefaultTickPeriod = 150 * time.Millisecond

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:    80,
		ScreenH:    24,
		TickPeriod: DefaultTickPeriod,
		Seed:       0, // 0 means use current time in platform layer
	}
}

// GameState represents the externally visible state of a game.
type GameState struct {
	Score    int  // Current score
	GameOver bool // Whether the game has ended
}
