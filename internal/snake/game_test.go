package snake

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tracksnake/internal/ambient"
)

// newTestGame returns a seeded game with the given body (head first) moving
// in dir, and food parked at (0, 0) unless the test moves it.
func newTestGame(t *testing.T, dir Direction, cells ...Cell) *Game {
	t.Helper()
	g := New(Config{Seed: 42}, "now.jpg")
	g.snake = g.snake[:0]
	for _, c := range cells {
		g.snake = append(g.snake, Segment{Cell: c, Artwork: "now.jpg", Facing: dir})
	}
	g.direction = dir
	g.food = Food{Cell: Cell{X: 0, Y: 0}, Artwork: "food.jpg"}
	return g
}

func cellsOf(segs []Segment) []Cell {
	out := make([]Cell, len(segs))
	for i, s := range segs {
		out[i] = s.Cell
	}
	return out
}

func equalCells(a, b []Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewGame(t *testing.T) {
	g := New(Config{Seed: 1}, "cover.jpg")

	segs := g.Segments()
	if len(segs) != 1 || segs[0].Cell != StartCell || segs[0].Artwork != "cover.jpg" {
		t.Errorf("Unexpected initial snake: %+v", segs)
	}
	if g.Direction() != DirRight {
		t.Errorf("Expected initial direction right, got %v", g.Direction())
	}
	food := g.Food()
	if food.Cell != InitialFoodCell || food.Artwork != "cover.jpg" || food.Track != nil {
		t.Errorf("Unexpected initial food: %+v", food)
	}
	if g.Score() != 0 || g.GameOver() {
		t.Error("New game should be running with score 0")
	}
	if g.Ambient() != ambient.Default {
		t.Errorf("Expected default ambient, got %v", g.Ambient())
	}
	if g.ID() == "" {
		t.Error("Game should have an ID")
	}
}

func TestConsumeFood(t *testing.T) {
	// Snake [(10,10)] moving right, food at (11,10)
	g := newTestGame(t, DirRight, Cell{X: 10, Y: 10})
	g.food = Food{Cell: Cell{X: 11, Y: 10}, Artwork: "food.jpg"}

	res := g.Step()

	if res.Consumed == nil {
		t.Fatal("Expected food to be consumed")
	}
	if res.Consumed.Food.Cell != (Cell{X: 11, Y: 10}) {
		t.Errorf("Consumed wrong food: %+v", res.Consumed.Food)
	}
	if res.Consumed.Epoch != g.Epoch() {
		t.Errorf("Consumption epoch = %d, expected %d", res.Consumed.Epoch, g.Epoch())
	}
	if res.Consumed.Playable() {
		t.Error("Filler food should not be playable")
	}
	if g.Score() != 1 {
		t.Errorf("Score = %d, expected 1", g.Score())
	}

	want := []Cell{{X: 11, Y: 10}, {X: 10, Y: 10}}
	if got := cellsOf(g.Segments()); !equalCells(got, want) {
		t.Errorf("Snake = %v, expected %v", got, want)
	}
	if !g.Food().Cell.InBounds() {
		t.Errorf("New food out of bounds: %+v", g.Food().Cell)
	}
}

func TestWallCollisionLeavesStateUnchanged(t *testing.T) {
	// Snake [(0,5),(1,5)] moving left
	g := newTestGame(t, DirLeft, Cell{X: 0, Y: 5}, Cell{X: 1, Y: 5})
	before := g.Segments()
	food := g.Food()

	res := g.Step()

	if !res.State.GameOver || !g.GameOver() {
		t.Fatal("Expected game over")
	}
	if res.Collision != CollisionWall {
		t.Errorf("Collision = %v, expected wall", res.Collision)
	}
	if got := cellsOf(g.Segments()); !equalCells(got, cellsOf(before)) {
		t.Errorf("Snake changed on collision: %v", got)
	}
	if g.Food() != food {
		t.Error("Food changed on collision")
	}
}

func TestWallBoundaries(t *testing.T) {
	tests := []struct {
		name string
		dir  Direction
		head Cell
	}{
		{"right edge", DirRight, Cell{X: GridSize - 1, Y: 7}},
		{"left edge", DirLeft, Cell{X: 0, Y: 7}},
		{"top edge", DirUp, Cell{X: 7, Y: 0}},
		{"bottom edge", DirDown, Cell{X: 7, Y: GridSize - 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(t, tc.dir, tc.head)
			res := g.Step()
			if !g.GameOver() || res.Collision != CollisionWall {
				t.Errorf("Expected wall collision, got %+v", res)
			}
		})
	}

	// One cell short of the edge is still fine
	g := newTestGame(t, DirRight, Cell{X: GridSize - 2, Y: 7})
	g.Step()
	if g.GameOver() {
		t.Error("Moving onto the last column should not end the game")
	}
}

func TestSelfCollisionIncludesTail(t *testing.T) {
	// Head at (5,5) turning down into (5,6), which the tail occupies
	g := newTestGame(t, DirLeft,
		Cell{X: 5, Y: 5}, Cell{X: 6, Y: 5}, Cell{X: 6, Y: 6}, Cell{X: 5, Y: 6})

	if !g.Enqueue(DirDown) {
		t.Fatal("Down should be accepted while moving left")
	}
	res := g.Step()

	if res.Collision != CollisionSelf || !g.GameOver() {
		t.Errorf("Expected self collision, got %+v", res)
	}
	if g.Direction() != DirDown {
		t.Errorf("Direction should have been applied, got %v", g.Direction())
	}
}

func TestReversalIsNotApplied(t *testing.T) {
	g := newTestGame(t, DirRight, Cell{X: 10, Y: 10}, Cell{X: 9, Y: 10})

	if g.Enqueue(DirLeft) {
		t.Error("Reverse direction should be rejected")
	}
	g.Step()

	if g.Direction() != DirRight {
		t.Errorf("Direction = %v, expected right", g.Direction())
	}
	if head := g.Segments()[0].Cell; head != (Cell{X: 11, Y: 10}) {
		t.Errorf("Head = %+v, expected motion to continue right", head)
	}
}

func TestStaleReversalDiscardedAtApply(t *testing.T) {
	g := newTestGame(t, DirRight, Cell{X: 10, Y: 10}, Cell{X: 9, Y: 10})

	// Sliding window leaves [left, down] pending while moving right
	g.Enqueue(DirUp)
	g.Enqueue(DirLeft)
	g.Enqueue(DirDown)
	if got := g.queue.Pending(); len(got) != 2 || got[0] != DirLeft || got[1] != DirDown {
		t.Fatalf("Pending = %v, expected [left down]", got)
	}

	g.Step() // left is a reversal of right: discarded, keep moving right
	if g.Direction() != DirRight {
		t.Errorf("Direction = %v, expected right", g.Direction())
	}
	if head := g.Segments()[0].Cell; head != (Cell{X: 11, Y: 10}) {
		t.Errorf("Head = %+v, expected (11,10)", head)
	}

	g.Step()
	if g.Direction() != DirDown {
		t.Errorf("Direction = %v, expected down", g.Direction())
	}
}

func TestArtworkStaysWithSlot(t *testing.T) {
	g := newTestGame(t, DirRight, Cell{X: 10, Y: 10}, Cell{X: 9, Y: 10}, Cell{X: 8, Y: 10})
	g.snake[0].Artwork = "h"
	g.snake[1].Artwork = "b1"
	g.snake[2].Artwork = "b2"

	g.Step()

	segs := g.Segments()
	wantCells := []Cell{{X: 11, Y: 10}, {X: 10, Y: 10}, {X: 9, Y: 10}}
	wantArt := []string{"h", "b1", "b2"}
	if !equalCells(cellsOf(segs), wantCells) {
		t.Errorf("Cells = %v, expected %v", cellsOf(segs), wantCells)
	}
	for i, s := range segs {
		if s.Artwork != wantArt[i] {
			t.Errorf("Segment %d artwork = %q, expected %q", i, s.Artwork, wantArt[i])
		}
	}

	// Now eat: head takes the food artwork, new tail takes the old head artwork
	g.food = Food{Cell: Cell{X: 12, Y: 10}, Artwork: "F"}
	g.Step()

	segs = g.Segments()
	wantCells = []Cell{{X: 12, Y: 10}, {X: 11, Y: 10}, {X: 10, Y: 10}, {X: 9, Y: 10}}
	wantArt = []string{"F", "b1", "b2", "h"}
	if !equalCells(cellsOf(segs), wantCells) {
		t.Errorf("Cells = %v, expected %v", cellsOf(segs), wantCells)
	}
	for i, s := range segs {
		if s.Artwork != wantArt[i] {
			t.Errorf("Segment %d artwork = %q, expected %q", i, s.Artwork, wantArt[i])
		}
	}
}

func TestFacingFollowsSegmentAhead(t *testing.T) {
	g := newTestGame(t, DirRight, Cell{X: 10, Y: 10}, Cell{X: 9, Y: 10})
	g.Enqueue(DirDown)
	g.Step()

	segs := g.Segments()
	if segs[0].Facing != DirDown {
		t.Errorf("Head facing = %v, expected down", segs[0].Facing)
	}
	if segs[1].Facing != DirRight {
		t.Errorf("Body facing = %v, expected right", segs[1].Facing)
	}
}

func TestEatenTrackIsCapturedBeforeReallocation(t *testing.T) {
	eaten := Track{ID: "a", URI: "spotify:track:a", Artwork: []string{"a.jpg"}, DurationMs: 200000}
	next := Track{ID: "b", URI: "spotify:track:b", Artwork: []string{"b.jpg"}, DurationMs: 200000}

	g := newTestGame(t, DirRight, Cell{X: 3, Y: 3})
	g.cfg.RandomStart = true
	g.SetPlaylist(&Playlist{ID: "p", Tracks: []Track{next}})
	g.food = Food{Cell: Cell{X: 4, Y: 3}, Artwork: "a.jpg", Track: &eaten}

	res := g.Step()

	if res.Consumed == nil || !res.Consumed.Playable() {
		t.Fatalf("Expected playable consumption, got %+v", res.Consumed)
	}
	if res.Consumed.Food.Track.ID != "a" {
		t.Errorf("Consumed track = %q, expected the eaten track a", res.Consumed.Food.Track.ID)
	}
	if g.Food().Track == nil || g.Food().Track.ID != "b" {
		t.Errorf("New food should carry track b, got %+v", g.Food().Track)
	}
	if g.Food().Artwork != "b.jpg" {
		t.Errorf("New food artwork = %q, expected b.jpg", g.Food().Artwork)
	}
	off := res.Consumed.StartOffset.Milliseconds()
	if off < 0 || off >= 200000-PlaybackTailMs {
		t.Errorf("StartOffset = %dms, out of range", off)
	}
	if g.Segments()[0].Artwork != "a.jpg" {
		t.Errorf("Head artwork = %q, expected a.jpg", g.Segments()[0].Artwork)
	}
}

func TestNoStartOffsetWhenDisabled(t *testing.T) {
	track := Track{ID: "a", URI: "spotify:track:a", DurationMs: 300000}
	g := newTestGame(t, DirRight, Cell{X: 3, Y: 3})
	g.food = Food{Cell: Cell{X: 4, Y: 3}, Track: &track}

	res := g.Step()
	if res.Consumed == nil || res.Consumed.StartOffset != 0 {
		t.Errorf("Expected zero offset, got %+v", res.Consumed)
	}
}

func TestStepAfterGameOverIsNoop(t *testing.T) {
	g := newTestGame(t, DirLeft, Cell{X: 0, Y: 0})
	g.Step()
	if !g.GameOver() {
		t.Fatal("Expected game over")
	}

	snap := g.Snapshot()
	res := g.Step()
	if res.Collision != CollisionNone || res.Consumed != nil {
		t.Errorf("Step after game over should do nothing, got %+v", res)
	}
	if g.Snapshot().Tick != snap.Tick {
		t.Error("Tick should not advance after game over")
	}
	if g.Enqueue(DirUp) {
		t.Error("Enqueue should be refused after game over")
	}
}

func TestApplySampleAndEpochs(t *testing.T) {
	g := New(Config{Seed: 3}, "now.jpg")
	epoch := g.Epoch()

	if !g.ApplySample(epoch, ambient.RGB{R: 200, G: 0, B: 0}) {
		t.Fatal("Current epoch sample should apply")
	}
	if !g.ApplySample(epoch, ambient.RGB{R: 0, G: 100, B: 0}) {
		t.Fatal("Current epoch sample should apply")
	}
	if g.Ambient() != (ambient.RGB{R: 100, G: 50, B: 0}) {
		t.Errorf("Ambient = %v, expected rgb(100, 50, 0)", g.Ambient())
	}

	g.Reset()
	if g.Epoch() == epoch {
		t.Fatal("Reset should advance the epoch")
	}
	if g.Ambient() != ambient.Default {
		t.Errorf("Reset should restore the default ambient, got %v", g.Ambient())
	}
	if g.ApplySample(epoch, ambient.RGB{R: 255, G: 255, B: 255}) {
		t.Error("Stale sample should be ignored")
	}
	if g.Ambient() != ambient.Default || g.Snapshot().Sampled != 0 {
		t.Error("Stale sample should not change ambient state")
	}
}

func TestFallbackArtworkFillsOpeningSession(t *testing.T) {
	g := New(Config{Seed: 42}, "")
	g.SetFallbackArtwork("cover.jpg")

	if got := g.Food(); got.Cell != InitialFoodCell || got.Artwork != "cover.jpg" {
		t.Errorf("food = %+v, want cover.jpg at %v", got, InitialFoodCell)
	}
	if got := g.Segments()[0].Artwork; got != "cover.jpg" {
		t.Errorf("head artwork = %q, want cover.jpg", got)
	}

	// Artwork already set is kept
	g.SetFallbackArtwork("other.jpg")
	if got := g.Food().Artwork; got != "cover.jpg" {
		t.Errorf("food artwork = %q, want cover.jpg", got)
	}
	if got := g.Segments()[0].Artwork; got != "cover.jpg" {
		t.Errorf("head artwork = %q, want cover.jpg", got)
	}

	// Track food keeps its own artwork
	g.food = Food{Cell: Cell{X: 1, Y: 1}, Track: &Track{URI: "spotify:track:1"}}
	g.SetFallbackArtwork("third.jpg")
	if got := g.Food().Artwork; got != "" {
		t.Errorf("track food artwork = %q, want empty", got)
	}
}

func TestResetRestoresSession(t *testing.T) {
	g := newTestGame(t, DirLeft, Cell{X: 0, Y: 4}, Cell{X: 1, Y: 4})
	g.score = 7
	g.SetFallbackArtwork("next.jpg")
	g.Enqueue(DirUp)
	g.Step()

	g.Reset()

	if g.GameOver() || g.Score() != 0 || g.Direction() != DirRight {
		t.Errorf("Reset did not restore state: %s", g.DebugState())
	}
	segs := g.Segments()
	if len(segs) != 1 || segs[0].Cell != StartCell || segs[0].Artwork != "next.jpg" {
		t.Errorf("Unexpected snake after reset: %+v", segs)
	}
	if g.Food().Artwork != "next.jpg" {
		t.Errorf("Reset food should use the fallback artwork, got %q", g.Food().Artwork)
	}
	if g.queue.Len() != 0 {
		t.Error("Reset should clear pending input")
	}
}

func TestDeterminism(t *testing.T) {
	playlist := &Playlist{Tracks: []Track{
		{ID: "1", URI: "u1", Artwork: []string{"1.jpg"}, DurationMs: 90000},
		{ID: "2", URI: "u2", Artwork: []string{"2.jpg"}, DurationMs: 120000},
	}}

	run := func() Snapshot {
		g := New(Config{Seed: 12345, RandomStart: true}, "now.jpg")
		g.SetPlaylist(playlist)
		dirs := []Direction{DirDown, DirLeft, DirUp, DirRight}
		for i := 0; i < 300 && !g.GameOver(); i++ {
			if i%7 == 0 {
				g.Enqueue(dirs[(i/7)%len(dirs)])
			}
			g.Step()
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	if a.Tick != b.Tick || a.Score != b.Score || a.State != b.State || a.Direction != b.Direction {
		t.Errorf("Snapshots differ: %+v vs %+v", a, b)
	}
	if !equalCells(cellsOf(a.Segments), cellsOf(b.Segments)) {
		t.Errorf("Segments differ: %v vs %v", cellsOf(a.Segments), cellsOf(b.Segments))
	}
	if a.Food.Cell != b.Food.Cell {
		t.Errorf("Food differs: %+v vs %+v", a.Food.Cell, b.Food.Cell)
	}
}

func TestBodyInvariantsUnderRandomPlay(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	g := New(Config{Seed: 99}, "now.jpg")
	g.SetPlaylist(&Playlist{Tracks: []Track{{ID: "1", URI: "u1"}}})

	for i := 0; i < 5000; i++ {
		if g.GameOver() {
			g.Reset()
		}
		if rng.Intn(3) == 0 {
			g.Enqueue(Direction(rng.Intn(4)))
		}

		segs := g.Segments()
		seen := make(map[Cell]bool, len(segs))
		for _, s := range segs {
			if seen[s.Cell] {
				t.Fatalf("Tick %d: duplicate cell %+v in %v", i, s.Cell, cellsOf(segs))
			}
			seen[s.Cell] = true
			if !s.Cell.InBounds() {
				t.Fatalf("Tick %d: segment out of bounds %+v", i, s.Cell)
			}
		}
		if len(segs) < 1 || len(segs) != g.Score()+1 {
			t.Fatalf("Tick %d: length %d with score %d", i, len(segs), g.Score())
		}

		g.Step()
	}
}
