// Package media defines shared types for the playlistify application.
package media

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

// ErrUnknownProvider is returned when a provider name is not recognized.
var ErrUnknownProvider = errors.New("unknown provider")

// Provider identifies the media host that served an embedded player.
type Provider int

const (
	YouTube Provider = iota
	SoundCloud
	Vimeo
	Raw
)

// providerNames is the wire form of each provider. Serialization goes
// through these names only, never through the numeric value.
var providerNames = map[Provider]string{
	YouTube:    "YouTube",
	SoundCloud: "SoundCloud",
	Vimeo:      "Vimeo",
	Raw:        "Raw",
}

func (p Provider) String() string {
	if name, ok := providerNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParseProvider returns the provider with the given symbolic name.
func ParseProvider(name string) (Provider, error) {
	for p, n := range providerNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

// MarshalText implements encoding.TextMarshaler.
func (p Provider) MarshalText() ([]byte, error) {
	name, ok := providerNames[p]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProvider, int(p))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Provider) UnmarshalText(text []byte) error {
	parsed, err := ParseProvider(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Track is one embedded piece of media found on a page.
// Fields are unexported so a Track cannot change after construction.
type Track struct {
	provider   Provider
	url        string
	identifier string
}

// NewTrack builds a track from the frame src it was found in.
func NewTrack(provider Provider, src, identifier string) Track {
	return Track{provider: provider, url: src, identifier: identifier}
}

func (t Track) Provider() Provider { return t.provider }
func (t Track) URL() string        { return t.url }
func (t Track) Identifier() string { return t.identifier }

// PlaybackURL returns a URL a media player can open for this track.
func (t Track) PlaybackURL() string {
	if t.provider == YouTube && t.identifier != "" {
		return "https://www.youtube.com/watch?v=" + url.QueryEscape(t.identifier)
	}
	return t.url
}

type trackJSON struct {
	Provider   Provider `json:"provider"`
	URL        string   `json:"url"`
	Identifier string   `json:"identifier"`
}

// MarshalJSON encodes the track as {"provider","url","identifier"}.
func (t Track) MarshalJSON() ([]byte, error) {
	return json.Marshal(trackJSON{Provider: t.provider, URL: t.url, Identifier: t.identifier})
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (t *Track) UnmarshalJSON(data []byte) error {
	var v trackJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = NewTrack(v.Provider, v.URL, v.Identifier)
	return nil
}

// Playlist is an ordered collection of tracks scraped from one page.
type Playlist struct {
	ID     string  `json:"id,omitempty"` // Source page URL once persisted
	Title  string  `json:"title"`
	Tracks []Track `json:"tracks"`
}

// NewPlaylist returns an empty playlist with the given title.
func NewPlaylist(title string) *Playlist {
	return &Playlist{Title: title, Tracks: []Track{}}
}

// AddTrack appends a track. Duplicates are kept.
func (p *Playlist) AddTrack(t Track) {
	p.Tracks = append(p.Tracks, t)
}

// Link is an alternate representation of an entry.
type Link struct {
	Href   string `json:"href"`
	Type   string `json:"type"`
	Length int64  `json:"length"`
}

// Entry is a page saved to the listen-it-later inbox.
type Entry struct {
	ID        string `json:"id"` // The page URL
	Title     string `json:"title"`
	Crawled   int64  `json:"crawled"` // Milliseconds since epoch
	Recrawled int64  `json:"recrawled"`
	Published int64  `json:"published"`
	Alternate []Link `json:"alternate"`
}

// HistoryEntry represents a single played track in the play history.
type HistoryEntry struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"` // Playlist title the track was played from
	Provider   Provider `json:"provider"`
	Identifier string   `json:"identifier"`
	Position   float64  `json:"position"` // Seconds
	Duration   float64  `json:"duration"` // Seconds, 0 if unknown
}
