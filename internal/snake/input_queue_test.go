package snake

import "testing"

func pendingEqual(q *InputQueue, want ...Direction) bool {
	got := q.Pending()
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestEnqueueChecksAgainstLastPending(t *testing.T) {
	// Moving right: up is accepted, then down reverses up and is rejected
	var q InputQueue

	if !q.Enqueue(DirUp, DirRight) {
		t.Fatal("Up should be accepted while moving right")
	}
	if q.Enqueue(DirDown, DirRight) {
		t.Error("Down should be rejected after pending up")
	}
	if !pendingEqual(&q, DirUp) {
		t.Errorf("Pending = %v, expected [up]", q.Pending())
	}

	d, ok := q.Next(DirRight)
	if !ok || d != DirUp {
		t.Errorf("Next() = %v, %v; expected up, true", d, ok)
	}
	if q.Len() != 0 {
		t.Errorf("Queue should be empty, has %d", q.Len())
	}
}

func TestEnqueueRejectsReversalOfCurrent(t *testing.T) {
	tests := []struct {
		current Direction
		reverse Direction
	}{
		{DirRight, DirLeft},
		{DirLeft, DirRight},
		{DirUp, DirDown},
		{DirDown, DirUp},
	}

	for _, tc := range tests {
		t.Run(tc.current.String(), func(t *testing.T) {
			var q InputQueue
			if q.Enqueue(tc.reverse, tc.current) {
				t.Errorf("%v should be rejected while moving %v", tc.reverse, tc.current)
			}
			if q.Len() != 0 {
				t.Error("Rejected intent should not be queued")
			}
		})
	}
}

func TestEnqueueDropsRepeats(t *testing.T) {
	var q InputQueue

	q.Enqueue(DirUp, DirRight)
	if q.Enqueue(DirUp, DirRight) {
		t.Error("Repeat of the last pending intent should be dropped")
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", q.Len())
	}

	// Same as current is allowed when nothing is pending
	var empty InputQueue
	if !empty.Enqueue(DirRight, DirRight) {
		t.Error("Current direction should be accepted on an empty queue")
	}
}

func TestEnqueueSlidingWindow(t *testing.T) {
	var q InputQueue

	q.Enqueue(DirUp, DirRight)
	q.Enqueue(DirLeft, DirRight)
	if !pendingEqual(&q, DirUp, DirLeft) {
		t.Fatalf("Pending = %v, expected [up left]", q.Pending())
	}

	if !q.Enqueue(DirDown, DirRight) {
		t.Fatal("Down should be accepted after pending left")
	}
	if q.Len() != MaxPendingInputs {
		t.Errorf("Len() = %d, expected %d", q.Len(), MaxPendingInputs)
	}
	if !pendingEqual(&q, DirLeft, DirDown) {
		t.Errorf("Pending = %v, expected [left down]", q.Pending())
	}
}

func TestNextDiscardsReversal(t *testing.T) {
	var q InputQueue
	q.Enqueue(DirUp, DirRight)
	q.Enqueue(DirLeft, DirRight)
	q.Enqueue(DirDown, DirRight) // [left down]

	d, ok := q.Next(DirRight)
	if ok || d != DirRight {
		t.Errorf("Next() = %v, %v; expected right, false", d, ok)
	}
	if !pendingEqual(&q, DirDown) {
		t.Errorf("Reversal should be consumed, pending %v", q.Pending())
	}

	d, ok = q.Next(DirRight)
	if !ok || d != DirDown {
		t.Errorf("Next() = %v, %v; expected down, true", d, ok)
	}

	d, ok = q.Next(DirDown)
	if ok || d != DirDown {
		t.Errorf("Next() on empty = %v, %v; expected down, false", d, ok)
	}
}

func TestQueueClear(t *testing.T) {
	var q InputQueue
	q.Enqueue(DirUp, DirRight)
	q.Enqueue(DirLeft, DirRight)
	q.Clear()
	if q.Len() != 0 || len(q.Pending()) != 0 {
		t.Error("Clear should drop all pending intents")
	}
}

func TestClassifySwipe(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		want   Direction
		ok     bool
	}{
		{"too short", 10, -20, 0, false},
		{"just under threshold", 29.9, 29.9, 0, false},
		{"exactly threshold", 30, 0, DirRight, true},
		{"right", 80, 10, DirRight, true},
		{"left", -80, 10, DirLeft, true},
		{"down", 5, 45, DirDown, true},
		{"up", 5, -45, DirUp, true},
		{"tie goes vertical", 40, -40, DirUp, true},
		{"tie goes vertical down", -40, 40, DirDown, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ClassifySwipe(tc.dx, tc.dy)
			if ok != tc.ok {
				t.Fatalf("ClassifySwipe(%v, %v) ok = %v, expected %v", tc.dx, tc.dy, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("ClassifySwipe(%v, %v) = %v, expected %v", tc.dx, tc.dy, got, tc.want)
			}
		})
	}
}

func TestDirectionText(t *testing.T) {
	for _, d := range []Direction{DirRight, DirDown, DirLeft, DirUp} {
		text, err := d.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error: %v", d, err)
		}
		var back Direction
		if err := back.UnmarshalText(text); err != nil || back != d {
			t.Errorf("UnmarshalText(%q) = %v, %v", text, back, err)
		}
		if d.Opposite().Opposite() != d {
			t.Errorf("Opposite is not an involution for %v", d)
		}
	}

	var d Direction
	if err := d.UnmarshalText([]byte("sideways")); err == nil {
		t.Error("Expected error for unknown direction")
	}
}
