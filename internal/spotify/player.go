package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/vovakirdan/tracksnake/internal/snake"
)

// MaxPlaylistPages bounds how many track pages are fetched per playlist.
const MaxPlaylistPages = 10

// PlayerState is the user's playback state.
type PlayerState struct {
	IsPlaying   bool
	ProgressMs  int
	Track       *snake.Track
	ContextType string // "playlist", "album", "artist", ...
	ContextURI  string
}

// NowPlaying returns the currently playing track.
// Returns ErrNothingPlaying when the player is idle.
func (c *Client) NowPlaying(ctx context.Context) (snake.NowPlaying, error) {
	var cp currentlyPlaying
	status, err := c.do(ctx, http.MethodGet, "/me/player/currently-playing", nil, &cp)
	if err != nil {
		return snake.NowPlaying{}, err
	}
	if status == http.StatusNoContent || cp.Item == nil {
		return snake.NowPlaying{}, ErrNothingPlaying
	}

	return snake.NowPlaying{
		Track:     cp.Item.toTrack(),
		Album:     cp.Item.Album.Name,
		IsPlaying: cp.IsPlaying,
	}, nil
}

// Player returns the full playback state including its context.
func (c *Client) Player(ctx context.Context) (PlayerState, error) {
	var cp currentlyPlaying
	status, err := c.do(ctx, http.MethodGet, "/me/player", nil, &cp)
	if err != nil {
		return PlayerState{}, err
	}
	if status == http.StatusNoContent {
		return PlayerState{}, ErrNothingPlaying
	}

	st := PlayerState{
		IsPlaying:  cp.IsPlaying,
		ProgressMs: cp.ProgressMs,
	}
	if cp.Item != nil {
		t := cp.Item.toTrack()
		st.Track = &t
	}
	if cp.Context != nil {
		st.ContextType = cp.Context.Type
		st.ContextURI = cp.Context.URI
	}
	return st, nil
}

// Playlist fetches a playlist with all its playable tracks.
func (c *Client) Playlist(ctx context.Context, id string) (*snake.Playlist, error) {
	if id == "" {
		return nil, fmt.Errorf("spotify: empty playlist id")
	}

	var po playlistObject
	if _, err := c.do(ctx, http.MethodGet, "/playlists/"+url.PathEscape(id), nil, &po); err != nil {
		return nil, err
	}

	p := &snake.Playlist{
		ID:      po.ID,
		Name:    po.Name,
		Artwork: imageURLs(po.Images),
	}
	if p.ID == "" {
		p.ID = id
	}
	contextURI := po.URI
	if contextURI == "" {
		contextURI = "spotify:playlist:" + p.ID
	}

	page := po.Tracks
	for n := 1; ; n++ {
		for _, item := range page.Items {
			if item.Track.playable() {
				t := item.Track.toTrack()
				t.Context = contextURI
				p.Tracks = append(p.Tracks, t)
			}
		}
		if page.Next == "" || n >= MaxPlaylistPages {
			break
		}

		next := trackPage{}
		if _, err := c.do(ctx, http.MethodGet, page.Next, nil, &next); err != nil {
			return nil, err
		}
		page = next
	}

	c.logger.Debug("playlist loaded", "id", p.ID, "name", p.Name, "tracks", len(p.Tracks))
	return p, nil
}

// ActivePlaylist returns the playlist the user is currently playing from.
// Returns ErrNoPlaylist when playback has another context.
func (c *Client) ActivePlaylist(ctx context.Context) (*snake.Playlist, error) {
	st, err := c.Player(ctx)
	if err != nil {
		return nil, err
	}
	if st.ContextType != "playlist" || st.ContextURI == "" {
		return nil, ErrNoPlaylist
	}
	return c.Playlist(ctx, playlistID(st.ContextURI))
}

// Play starts playback of track at offset on the active device. A track
// loaded from a playlist is played inside that playlist.
func (c *Client) Play(ctx context.Context, track snake.Track, offset time.Duration) error {
	if track.URI == "" {
		return fmt.Errorf("spotify: empty track uri")
	}
	body := playRequest{PositionMs: offset.Milliseconds()}
	if track.Context != "" {
		body.ContextURI = track.Context
		body.Offset = &playOffset{URI: track.URI}
	} else {
		body.URIs = []string{track.URI}
	}
	_, err := c.do(ctx, http.MethodPut, "/me/player/play", body, nil)
	return err
}

// Ensure Client implements the game's collaborator interfaces
var (
	_ snake.Feed           = (*Client)(nil)
	_ snake.PlaybackBridge = (*Client)(nil)
)
