package snake

import (
	"math/rand"
	"time"
)

// PlaybackTailMs is how much of a track a random start offset always leaves.
const PlaybackTailMs = 30000

// Food is the consumable board item. A nil Track marks filler food that is
// not tied to any track (used before a playlist is known).
type Food struct {
	Cell    Cell   `json:"cell"`
	Artwork string `json:"artwork"`
	Track   *Track `json:"track,omitempty"`
}

// Allocator places food and picks the track it carries.
type Allocator struct {
	rng           *rand.Rand
	avoidOccupied bool
}

// NewAllocator creates an allocator drawing from rng. When avoidOccupied is
// false, food may land under the snake body.
func NewAllocator(rng *rand.Rand, avoidOccupied bool) *Allocator {
	return &Allocator{
		rng:           rng,
		avoidOccupied: avoidOccupied,
	}
}

// Allocate returns new food on a random cell. With a non-empty playlist the
// food carries a uniformly chosen track and that track's primary artwork;
// otherwise it is filler food with the fallback artwork.
func (a *Allocator) Allocate(playlist *Playlist, fallback string, occupied func(Cell) bool) Food {
	f := Food{
		Cell:    a.pickCell(occupied),
		Artwork: fallback,
	}

	if playlist == nil || len(playlist.Tracks) == 0 {
		return f
	}

	track := playlist.Tracks[a.rng.Intn(len(playlist.Tracks))]
	f.Track = &track
	if art := track.PrimaryArtwork(); art != "" {
		f.Artwork = art
	}
	return f
}

// pickCell chooses a cell uniformly over the whole board, or over free cells
// only when the allocator avoids the snake.
func (a *Allocator) pickCell(occupied func(Cell) bool) Cell {
	if !a.avoidOccupied || occupied == nil {
		return Cell{X: a.rng.Intn(GridSize), Y: a.rng.Intn(GridSize)}
	}

	free := make([]Cell, 0, GridSize*GridSize)
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			c := Cell{X: x, Y: y}
			if !occupied(c) {
				free = append(free, c)
			}
		}
	}

	if len(free) == 0 {
		// Board is full; fall back to any cell
		return Cell{X: a.rng.Intn(GridSize), Y: a.rng.Intn(GridSize)}
	}
	return free[a.rng.Intn(len(free))]
}

// StartOffset picks a playback start in [0, durationMs-PlaybackTailMs).
// Tracks no longer than PlaybackTailMs start at 0.
func (a *Allocator) StartOffset(durationMs int) time.Duration {
	span := durationMs - PlaybackTailMs
	if span <= 0 {
		return 0
	}
	return time.Duration(a.rng.Intn(span)) * time.Millisecond
}
