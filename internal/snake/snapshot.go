package snake

import "github.com/vovakirdan/tracksnake/internal/ambient"

// GameStateType represents the state machine state.
type GameStateType string

const (
	StateRunning  GameStateType = "running"
	StateGameOver GameStateType = "game_over"
)

// Snapshot is a read-only copy of everything a presentation layer needs to
// draw one committed step.
type Snapshot struct {
	SessionID string        `json:"session_id"`
	Epoch     uint64        `json:"epoch"`
	Tick      uint64        `json:"tick"`
	State     GameStateType `json:"state"`
	Score     int           `json:"score"`
	Direction Direction     `json:"direction"`
	Segments  []Segment     `json:"segments"`
	Food      Food          `json:"food"`
	Ambient   ambient.RGB   `json:"ambient"`
	Sampled   int           `json:"sampled"` // Colors mixed into Ambient
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StateRunning
	if g.gameOver {
		state = StateGameOver
	}

	food := g.food
	if food.Track != nil {
		track := *food.Track
		food.Track = &track
	}

	return Snapshot{
		SessionID: g.id,
		Epoch:     g.epoch,
		Tick:      g.tick,
		State:     state,
		Score:     g.score,
		Direction: g.direction,
		Segments:  g.Segments(),
		Food:      food,
		Ambient:   g.ambi,
		Sampled:   len(g.colors),
	}
}

// GameOver reports whether the snapshot was taken after the game ended.
func (s Snapshot) GameOver() bool {
	return s.State == StateGameOver
}
