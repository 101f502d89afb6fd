package snake

import "math"

// MaxPendingInputs bounds how many turns can be buffered between steps.
const MaxPendingInputs = 2

// SwipeThreshold is the minimum drag distance, in logical units, that
// counts as a swipe.
const SwipeThreshold = 30

// InputQueue buffers directional intents between steps so that quick
// successive turns (e.g. up then left inside one tick) are not lost.
// When full, the oldest pending entry is dropped for the newest.
type InputQueue struct {
	items [MaxPendingInputs]Direction
	n     int
}

// Enqueue offers an intent. current is the direction the snake is moving in.
// The intent is checked against the last pending entry, or current when
// nothing is pending: a reversal is rejected and a repeat is dropped.
// Returns true if the intent was queued.
func (q *InputQueue) Enqueue(d, current Direction) bool {
	ref := current
	if q.n > 0 {
		last := q.items[q.n-1]
		if d == last {
			return false
		}
		ref = last
	}
	if d == ref.Opposite() {
		return false
	}

	if q.n == MaxPendingInputs {
		copy(q.items[:], q.items[1:])
		q.n--
	}
	q.items[q.n] = d
	q.n++
	return true
}

// Next pops the oldest pending intent. It returns false when the queue is
// empty or the popped intent reverses current; in the latter case the intent
// is discarded.
func (q *InputQueue) Next(current Direction) (Direction, bool) {
	if q.n == 0 {
		return current, false
	}

	d := q.items[0]
	copy(q.items[:], q.items[1:])
	q.n--

	if d == current.Opposite() {
		return current, false
	}
	return d, true
}

// Len returns the number of pending intents.
func (q *InputQueue) Len() int {
	return q.n
}

// Pending returns a copy of the pending intents, oldest first.
func (q *InputQueue) Pending() []Direction {
	return append([]Direction(nil), q.items[:q.n]...)
}

// Clear drops all pending intents.
func (q *InputQueue) Clear() {
	q.n = 0
}

// ClassifySwipe turns a drag displacement in logical units into a direction.
// The axis with the larger magnitude wins; ties go to the vertical axis.
// Drags shorter than SwipeThreshold on both axes produce no intent.
func ClassifySwipe(dx, dy float64) (Direction, bool) {
	ax, ay := math.Abs(dx), math.Abs(dy)
	if math.Max(ax, ay) < SwipeThreshold {
		return 0, false
	}

	if ax > ay {
		if dx > 0 {
			return DirRight, true
		}
		return DirLeft, true
	}
	if dy > 0 {
		return DirDown, true
	}
	return DirUp, true
}
