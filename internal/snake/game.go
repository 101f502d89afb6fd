// Package snake implements the track-eating snake engine: a fixed-tick
// movement and collision state machine, a buffered input queue, food
// allocation from the active playlist, and the ambient color history fed by
// sampled artwork.
//
// A Game is owned by exactly one driver. Step, Enqueue and ApplySample must
// be called from the same goroutine (the platform's event loop).
package snake

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tracksnake/internal/ambient"
	"github.com/vovakirdan/tracksnake/internal/core"
)

// Config controls randomness and optional rules of a game.
type Config struct {
	Seed        int64 // 0 means time-based
	AvoidSnake  bool  // Never place food under the snake
	RandomStart bool  // Start eaten tracks at a random offset
}

// Segment is one unit of the snake body. Artwork belongs to the position
// slot, not to the moving segment: it stays put while cells shift forward.
type Segment struct {
	Cell    Cell      `json:"cell"`
	Artwork string    `json:"artwork"`
	Facing  Direction `json:"facing"`
}

// Collision describes why a step ended the game.
type Collision int

const (
	CollisionNone Collision = iota
	CollisionWall
	CollisionSelf
)

func (c Collision) String() string {
	switch c {
	case CollisionWall:
		return "wall"
	case CollisionSelf:
		return "self"
	default:
		return "none"
	}
}

// Consumption is emitted when the snake eats food. Epoch identifies the
// session it happened in so that late asynchronous results can be dropped.
type Consumption struct {
	Epoch       uint64
	Food        Food
	StartOffset time.Duration
}

// Playable reports whether eating this food should start playback.
func (c Consumption) Playable() bool {
	return c.Food.Track != nil && c.Food.Track.URI != ""
}

// StepResult is returned by Step.
type StepResult struct {
	State     core.GameState
	Consumed  *Consumption // Non-nil if food was eaten this step
	Collision Collision    // Non-none on the step that ended the game
}

// Game is one snake session.
type Game struct {
	id    string
	cfg   Config
	rng   *rand.Rand
	alloc *Allocator

	epoch uint64
	tick  uint64
	score int

	// Snake state
	snake     []Segment // Head at index 0
	direction Direction
	queue     InputQueue
	food      Food
	gameOver  bool

	// Ambient state
	colors []ambient.RGB // Sampled from artwork eaten this epoch
	ambi   ambient.RGB

	// Read-only inputs from the feed
	fallback string
	playlist *Playlist
}

// New creates a running game. artwork is the currently playing cover; it
// becomes the artwork of the first segment and of the initial food.
func New(cfg Config, artwork string) *Game {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	g := &Game{
		id:       uuid.NewString(),
		cfg:      cfg,
		rng:      rng,
		alloc:    NewAllocator(rng, cfg.AvoidSnake),
		epoch:    1,
		fallback: artwork,
	}
	g.reset()
	return g
}

// Reset starts a fresh session ("play again"). The epoch advances, so
// results issued for the previous session are ignored.
func (g *Game) Reset() {
	g.epoch++
	g.reset()
}

func (g *Game) reset() {
	g.tick = 0
	g.score = 0
	g.snake = []Segment{{Cell: StartCell, Artwork: g.fallback, Facing: DirRight}}
	g.direction = DirRight
	g.queue.Clear()
	g.food = Food{Cell: InitialFoodCell, Artwork: g.fallback}
	g.gameOver = false
	g.colors = nil
	g.ambi = ambient.Default
}

// SetFallbackArtwork sets the artwork used for filler food and new sessions.
// Filler food and segments still without artwork take it immediately.
func (g *Game) SetFallbackArtwork(ref string) {
	g.fallback = ref
	if ref == "" {
		return
	}
	if g.food.Track == nil && g.food.Artwork == "" {
		g.food.Artwork = ref
	}
	for i := range g.snake {
		if g.snake[i].Artwork == "" {
			g.snake[i].Artwork = ref
		}
	}
}

// SetPlaylist sets the playlist food is drawn from. nil means no playlist.
func (g *Game) SetPlaylist(p *Playlist) {
	g.playlist = p
}

// Enqueue offers a direction from keyboard or swipe input.
func (g *Game) Enqueue(d Direction) bool {
	if g.gameOver {
		return false
	}
	return g.queue.Enqueue(d, g.direction)
}

// Step advances the game by one tick. It is a no-op after game over.
func (g *Game) Step() StepResult {
	if g.gameOver {
		return StepResult{State: g.State()}
	}
	g.tick++

	// Apply at most one buffered turn
	if d, ok := g.queue.Next(g.direction); ok {
		g.direction = d
	}

	head := g.snake[0]
	next := head.Cell.Add(g.direction.Delta())

	if !next.InBounds() {
		g.gameOver = true
		return StepResult{State: g.State(), Collision: CollisionWall}
	}

	// Checked against the pre-move body, tail included
	if g.occupies(next) {
		g.gameOver = true
		return StepResult{State: g.State(), Collision: CollisionSelf}
	}

	moved := make([]Segment, len(g.snake), len(g.snake)+1)
	moved[0] = Segment{Cell: next, Artwork: head.Artwork, Facing: g.direction}
	for i := 1; i < len(g.snake); i++ {
		moved[i] = Segment{
			Cell:    g.snake[i-1].Cell,
			Facing:  g.snake[i-1].Facing,
			Artwork: g.snake[i].Artwork,
		}
	}

	if next != g.food.Cell {
		g.snake = moved
		return StepResult{State: g.State()}
	}

	// Capture the eaten food before it is replaced
	eaten := g.food
	tail := g.snake[len(g.snake)-1]
	moved = append(moved, Segment{Cell: tail.Cell, Facing: tail.Facing, Artwork: head.Artwork})
	moved[0].Artwork = eaten.Artwork

	g.score++
	g.snake = moved
	g.food = g.alloc.Allocate(g.playlist, g.fallback, g.occupies)

	consumed := &Consumption{Epoch: g.epoch, Food: eaten}
	if g.cfg.RandomStart && eaten.Track != nil {
		consumed.StartOffset = g.alloc.StartOffset(eaten.Track.DurationMs)
	}

	return StepResult{State: g.State(), Consumed: consumed}
}

// ApplySample records a color sampled from eaten artwork and recomputes the
// ambient color. Samples issued for an earlier epoch are ignored.
// Returns true if the sample was applied.
func (g *Game) ApplySample(epoch uint64, c ambient.RGB) bool {
	if epoch != g.epoch {
		return false
	}
	g.colors = append(g.colors, c)
	g.ambi = ambient.Mix(g.colors)
	return true
}

// occupies reports whether any segment is on c.
func (g *Game) occupies(c Cell) bool {
	for _, seg := range g.snake {
		if seg.Cell == c {
			return true
		}
	}
	return false
}

// ID returns the unique identifier of this game instance.
func (g *Game) ID() string {
	return g.id
}

// Epoch returns the current session generation.
func (g *Game) Epoch() uint64 {
	return g.epoch
}

// Score returns the current score.
func (g *Game) Score() int {
	return g.score
}

// GameOver reports whether the session has ended.
func (g *Game) GameOver() bool {
	return g.gameOver
}

// Direction returns the direction the snake last moved in.
func (g *Game) Direction() Direction {
	return g.direction
}

// Food returns the current food.
func (g *Game) Food() Food {
	return g.food
}

// Ambient returns the current ambient color.
func (g *Game) Ambient() ambient.RGB {
	return g.ambi
}

// Segments returns a copy of the snake body, head first.
func (g *Game) Segments() []Segment {
	return append([]Segment(nil), g.snake...)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver,
	}
}

// --- Debug helper ---

// DebugState returns a string representation of the game state.
func (g *Game) DebugState() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Epoch: %d, Tick: %d, Score: %d\n", g.epoch, g.tick, g.score)
	fmt.Fprintf(&b, "Snake len: %d, Direction: %s, Pending: %v\n", len(g.snake), g.direction, g.queue.Pending())
	fmt.Fprintf(&b, "Head: (%d, %d), Food: (%d, %d)\n", g.snake[0].Cell.X, g.snake[0].Cell.Y, g.food.Cell.X, g.food.Cell.Y)
	fmt.Fprintf(&b, "GameOver: %v, Ambient: %s\n", g.gameOver, g.ambi)
	return b.String()
}
