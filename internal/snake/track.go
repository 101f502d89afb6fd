package snake

import "fmt"

// Track is a playable item from the user's playlist.
type Track struct {
	ID         string   `json:"id"`
	URI        string   `json:"uri"`
	Name       string   `json:"name"`
	Artist     string   `json:"artist,omitempty"`
	Artwork    []string `json:"artwork,omitempty"` // Largest first
	DurationMs int      `json:"duration_ms"`
	Context    string   `json:"context,omitempty"` // URI of the playlist it was loaded from
}

// PrimaryArtwork returns the track's first artwork, or "" if it has none.
func (t Track) PrimaryArtwork() string {
	if len(t.Artwork) == 0 {
		return ""
	}
	return t.Artwork[0]
}

// Playlist is an ordered collection of tracks. The engine never mutates it.
type Playlist struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Artwork []string `json:"artwork,omitempty"`
	Tracks  []Track  `json:"tracks"`
}

// NowPlaying describes the user's currently playing track.
type NowPlaying struct {
	Track     Track
	Album     string
	IsPlaying bool
}

// Artwork returns the cover of the currently playing track.
func (n NowPlaying) Artwork() string {
	return n.Track.PrimaryArtwork()
}

// FormatDuration renders milliseconds as m:ss.
func FormatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%d:%02d", ms/60000, (ms%60000)/1000)
}
