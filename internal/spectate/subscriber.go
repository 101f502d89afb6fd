package spectate

import (
	"sync"

	"github.com/google/uuid"
)

// Subscriber is one spectator connection's outbound queue.
// Send never blocks the publisher: when the buffer is full the oldest frame
// is dropped.
type Subscriber struct {
	id       string
	filter   string // Game session to follow, empty for all
	frames   chan Frame
	done     chan struct{}
	doneOnce sync.Once
}

// NewSubscriber creates a subscriber following session (empty for all).
// bufferSize controls how many frames can be queued before dropping.
func NewSubscriber(session string, bufferSize int) *Subscriber {
	if bufferSize < 1 {
		bufferSize = 64 // Default buffer size
	}
	return &Subscriber{
		id:     uuid.NewString(),
		filter: session,
		frames: make(chan Frame, bufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the subscriber identifier.
func (s *Subscriber) ID() string {
	return s.id
}

// Wants reports whether frames for the given game session go to s.
func (s *Subscriber) Wants(session string) bool {
	return s.filter == "" || s.filter == session
}

// Send queues a frame.
// If the buffer is full, old frames are dropped to prevent blocking.
func (s *Subscriber) Send(f Frame) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.frames <- f:
	default:
		// Buffer full, drop oldest and retry
		select {
		case <-s.frames:
		default:
		}
		select {
		case s.frames <- f:
		default:
		}
	}
}

// Frames returns the channel the connection writer reads from.
func (s *Subscriber) Frames() <-chan Frame {
	return s.frames
}

// Done returns a channel closed when the subscriber is closed.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Close marks the subscriber as done.
// Safe to call multiple times.
func (s *Subscriber) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}
