package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vovakirdan/tracksnake/internal/snake"
)

const trackJSON = `{
	"id": "t1",
	"uri": "spotify:track:t1",
	"name": "Song",
	"type": "track",
	"duration_ms": 215000,
	"artists": [{"name": "A"}, {"name": "B"}],
	"album": {"name": "Album", "images": [{"url": "https://img/640.jpg", "width": 640, "height": 640}, {"url": "https://img/300.jpg"}]}
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient("secret", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestNowPlaying(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/player/currently-playing" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		io.WriteString(w, `{"is_playing": true, "progress_ms": 1000, "item": `+trackJSON+`}`)
	})

	np, err := c.NowPlaying(context.Background())
	if err != nil {
		t.Fatalf("NowPlaying() failed: %v", err)
	}
	if np.Track.URI != "spotify:track:t1" || np.Track.Artist != "A, B" || np.Album != "Album" {
		t.Errorf("Unexpected track: %+v", np)
	}
	if np.Artwork() != "https://img/640.jpg" {
		t.Errorf("Artwork() = %q", np.Artwork())
	}
	if !np.IsPlaying || np.Track.DurationMs != 215000 {
		t.Errorf("Unexpected playback fields: %+v", np)
	}
}

func TestNowPlayingIdle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := c.NowPlaying(context.Background())
	if !errors.Is(err, ErrNothingPlaying) {
		t.Errorf("Expected ErrNothingPlaying, got %v", err)
	}
}

func TestNoToken(t *testing.T) {
	c := NewClient("")
	if c.HasToken() {
		t.Error("HasToken() should be false")
	}
	if _, err := c.NowPlaying(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Errorf("Expected ErrNoToken, got %v", err)
	}

	c.SetToken("x")
	if !c.HasToken() {
		t.Error("HasToken() should be true after SetToken")
	}
}

func TestActivePlaylist(t *testing.T) {
	var srvURL string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me/player":
			io.WriteString(w, `{"is_playing": true, "context": {"type": "playlist", "uri": "spotify:playlist:pl1"}, "item": `+trackJSON+`}`)
		case "/playlists/pl1":
			io.WriteString(w, `{
				"id": "pl1",
				"name": "Mix",
				"images": [{"url": "https://img/pl.jpg"}],
				"tracks": {
					"items": [
						{"track": `+trackJSON+`},
						{"track": null},
						{"track": {"id": "e1", "uri": "spotify:episode:e1", "type": "episode"}}
					],
					"next": "`+srvURL+`/playlists/pl1/tracks?offset=100"
				}
			}`)
		case "/playlists/pl1/tracks":
			io.WriteString(w, `{"items": [{"track": {"id": "t2", "uri": "spotify:track:t2", "type": "track", "duration_ms": 1000}}], "next": ""}`)
		default:
			http.NotFound(w, r)
		}
	})
	srvURL = c.baseURL

	p, err := c.ActivePlaylist(context.Background())
	if err != nil {
		t.Fatalf("ActivePlaylist() failed: %v", err)
	}
	if p.ID != "pl1" || p.Name != "Mix" || len(p.Artwork) != 1 {
		t.Errorf("Unexpected playlist: %+v", p)
	}
	if len(p.Tracks) != 2 {
		t.Fatalf("Expected 2 playable tracks, got %d: %+v", len(p.Tracks), p.Tracks)
	}
	if p.Tracks[0].ID != "t1" || p.Tracks[1].ID != "t2" {
		t.Errorf("Unexpected tracks: %+v", p.Tracks)
	}
	for _, tr := range p.Tracks {
		if tr.Context != "spotify:playlist:pl1" {
			t.Errorf("Track %s context = %q, want spotify:playlist:pl1", tr.ID, tr.Context)
		}
	}
}

func TestActivePlaylistWrongContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"is_playing": true, "context": {"type": "album", "uri": "spotify:album:a1"}}`)
	})

	_, err := c.ActivePlaylist(context.Background())
	if !errors.Is(err, ErrNoPlaylist) {
		t.Errorf("Expected ErrNoPlaylist, got %v", err)
	}
}

func TestPlay(t *testing.T) {
	var got playRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/me/player/play" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Bad body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.Play(context.Background(), snake.Track{URI: "spotify:track:t1"}, 42*time.Second); err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if len(got.URIs) != 1 || got.URIs[0] != "spotify:track:t1" || got.PositionMs != 42000 {
		t.Errorf("Unexpected play request: %+v", got)
	}
	if got.ContextURI != "" || got.Offset != nil {
		t.Errorf("Expected no context for a loose track, got %+v", got)
	}
}

func TestPlayInPlaylistContext(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Bad body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	track := snake.Track{URI: "spotify:track:t1", Context: "spotify:playlist:pl1"}
	if err := c.Play(context.Background(), track, 3*time.Second); err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if body["context_uri"] != "spotify:playlist:pl1" {
		t.Errorf("context_uri = %v", body["context_uri"])
	}
	offset, ok := body["offset"].(map[string]any)
	if !ok || offset["uri"] != "spotify:track:t1" {
		t.Errorf("offset = %v", body["offset"])
	}
	if _, ok := body["uris"]; ok {
		t.Errorf("uris should be omitted with a context: %v", body)
	}
	if body["position_ms"] != float64(3000) {
		t.Errorf("position_ms = %v", body["position_ms"])
	}
}

func TestPlayPremiumRequired(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error": {"status": 403, "message": "Player command failed: Premium required", "reason": "PREMIUM_REQUIRED"}}`)
	})

	err := c.Play(context.Background(), snake.Track{URI: "spotify:track:t1"}, 0)
	if !errors.Is(err, ErrPremiumRequired) {
		t.Errorf("Expected ErrPremiumRequired, got %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected *APIError with 403, got %v", err)
	}
}

func TestAPIErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		target error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error": {"status": 401, "message": "The access token expired"}}`, ErrUnauthorized},
		{"top-level reason", http.StatusForbidden, `{"reason": "PREMIUM_REQUIRED"}`, ErrPremiumRequired},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			})
			_, err := c.NowPlaying(context.Background())
			if !errors.Is(err, tc.target) {
				t.Errorf("Expected %v, got %v", tc.target, err)
			}
		})
	}

	plain := &APIError{StatusCode: http.StatusForbidden}
	if errors.Is(plain, ErrPremiumRequired) {
		t.Error("Forbidden without reason should not map to ErrPremiumRequired")
	}
}

func TestPlaylistID(t *testing.T) {
	if got := playlistID("spotify:playlist:37i9dQZF1DX"); got != "37i9dQZF1DX" {
		t.Errorf("playlistID() = %q", got)
	}
	if got := playlistID("plain"); got != "plain" {
		t.Errorf("playlistID() = %q", got)
	}
}
