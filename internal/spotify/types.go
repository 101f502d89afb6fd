package spotify

import (
	"strings"

	"github.com/vovakirdan/tracksnake/internal/snake"
)

// Wire types mirror the subset of the Web API responses the client reads.

type image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type artist struct {
	Name string `json:"name"`
}

type album struct {
	Name   string  `json:"name"`
	Images []image `json:"images"`
}

type trackObject struct {
	ID         string   `json:"id"`
	URI        string   `json:"uri"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	DurationMs int      `json:"duration_ms"`
	Artists    []artist `json:"artists"`
	Album      album    `json:"album"`
}

type playbackContext struct {
	Type string `json:"type"`
	URI  string `json:"uri"`
}

type currentlyPlaying struct {
	IsPlaying  bool             `json:"is_playing"`
	ProgressMs int              `json:"progress_ms"`
	Item       *trackObject     `json:"item"`
	Context    *playbackContext `json:"context"`
}

type playlistTrack struct {
	Track *trackObject `json:"track"`
}

type trackPage struct {
	Items []playlistTrack `json:"items"`
	Next  string          `json:"next"`
}

type playlistObject struct {
	ID     string    `json:"id"`
	URI    string    `json:"uri"`
	Name   string    `json:"name"`
	Images []image   `json:"images"`
	Tracks trackPage `json:"tracks"`
}

type playOffset struct {
	URI string `json:"uri"`
}

type playRequest struct {
	URIs       []string    `json:"uris,omitempty"`
	ContextURI string      `json:"context_uri,omitempty"`
	Offset     *playOffset `json:"offset,omitempty"`
	PositionMs int64       `json:"position_ms"`
}

func imageURLs(images []image) []string {
	if len(images) == 0 {
		return nil
	}
	out := make([]string, 0, len(images))
	for _, img := range images {
		if img.URL != "" {
			out = append(out, img.URL)
		}
	}
	return out
}

func (t *trackObject) toTrack() snake.Track {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return snake.Track{
		ID:         t.ID,
		URI:        t.URI,
		Name:       t.Name,
		Artist:     strings.Join(names, ", "),
		Artwork:    imageURLs(t.Album.Images),
		DurationMs: t.DurationMs,
	}
}

// playable reports whether the item can be placed on the board. Removed and
// local tracks come back without a URI or as episodes.
func (t *trackObject) playable() bool {
	return t != nil && t.URI != "" && (t.Type == "" || t.Type == "track")
}

// playlistID extracts the ID from a "spotify:playlist:<id>" URI.
func playlistID(uri string) string {
	if i := strings.LastIndexByte(uri, ':'); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
