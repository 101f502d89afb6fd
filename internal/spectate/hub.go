// Package spectate broadcasts game snapshots to websocket spectators.
//
// Every running game publishes its snapshot after each committed step; the
// hub fans them out to connected spectators as JSON frames.
package spectate

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tracksnake/internal/snake"
)

// Path is the spectator websocket route.
const Path = "/spectate"

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// FrameType identifies a frame.
type FrameType string

const (
	FrameSnapshot FrameType = "snapshot"
	FrameEnded    FrameType = "ended"
)

// Frame is one message sent to spectators.
type Frame struct {
	Type      FrameType       `json:"type"`
	SessionID string          `json:"session_id"`
	Player    string          `json:"player,omitempty"`
	Snapshot  *snake.Snapshot `json:"snapshot,omitempty"`
}

// Hub tracks live games and connected spectators.
// Thread-safe for concurrent access.
type Hub struct {
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	subs    map[string]*Subscriber
	latest  map[string]Frame // Last frame per game session
	players map[string]string
	closed  bool
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		subs:    make(map[string]*Subscriber),
		latest:  make(map[string]Frame),
		players: make(map[string]string),
	}
}

// Join names the player of a game session for spectators.
func (h *Hub) Join(session, player string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.players[session] = player
}

// Publish fans a snapshot out to every interested spectator.
func (h *Hub) Publish(snap snake.Snapshot) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	f := Frame{
		Type:      FrameSnapshot,
		SessionID: snap.SessionID,
		Player:    h.players[snap.SessionID],
		Snapshot:  &snap,
	}
	h.latest[snap.SessionID] = f
	subs := h.subscribersFor(snap.SessionID)
	h.mu.Unlock()

	for _, s := range subs {
		s.Send(f)
	}
}

// End announces that a game session is gone and forgets it.
func (h *Hub) End(session string) {
	h.mu.Lock()
	delete(h.latest, session)
	delete(h.players, session)
	subs := h.subscribersFor(session)
	h.mu.Unlock()

	f := Frame{Type: FrameEnded, SessionID: session}
	for _, s := range subs {
		s.Send(f)
	}
}

// subscribersFor must be called with h.mu held.
func (h *Hub) subscribersFor(session string) []*Subscriber {
	out := make([]*Subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		if s.Wants(session) {
			out = append(out, s)
		}
	}
	return out
}

// Subscribe registers a subscriber and primes it with the latest frame of
// every live game it follows.
func (h *Hub) Subscribe(s *Subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subs[s.ID()] = s
	for session, f := range h.latest {
		if s.Wants(session) {
			s.Send(f)
		}
	}
	return true
}

// Unsubscribe removes and closes a subscriber.
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	delete(h.subs, s.ID())
	h.mu.Unlock()
	s.Close()
}

// Spectators returns the number of connected spectators.
func (h *Hub) Spectators() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Games returns the number of live games.
func (h *Hub) Games() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.latest)
}

// Close disconnects every spectator. Later publishes are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*Subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.subs = make(map[string]*Subscriber)
	h.mu.Unlock()

	for _, s := range subs {
		s.Close()
	}
}

// ServeHTTP upgrades the request to a websocket and streams frames.
// The optional "session" query parameter follows a single game.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("spectator upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	sub := NewSubscriber(r.URL.Query().Get("session"), 64)
	if !h.Subscribe(sub) {
		ws.Close()
		return
	}
	h.logger.Info("spectator connected", "id", sub.ID(), "remote", r.RemoteAddr, "session", sub.filter)

	go h.readLoop(ws, sub)
	h.writeLoop(ws, sub)

	h.Unsubscribe(sub)
	ws.Close()
	h.logger.Info("spectator disconnected", "id", sub.ID())
}

// readLoop discards client messages and closes sub when the peer goes away.
func (h *Hub) readLoop(ws *websocket.Conn, sub *Subscriber) {
	defer sub.Close()
	ws.SetReadLimit(512)
	ws.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck // Best-effort deadline
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(ws *websocket.Conn, sub *Subscriber) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-sub.Done():
			ws.WriteControl(websocket.CloseMessage, //nolint:errcheck // Best-effort close frame
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case f := <-sub.Frames():
			ws.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck // Best-effort deadline
			if err := ws.WriteJSON(f); err != nil {
				return
			}
		case <-ping.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
