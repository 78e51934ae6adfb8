// Package scraper turns the media players embedded in a web page into a playlist.
//
// The scraper only reads a title and the src of each inline frame, so any
// source of documents can be used: a parsed HTML page (see HTMLDocument) or
// the title/src pairs forwarded by a browser bridge (see StaticDocument).
package scraper

import (
	"net/url"
	"strings"

	"go.uber.org/zap"

	"playlistify/internal/media"
)

// Frame is an inline frame of a document.
type Frame interface {
	Src() string
}

// Document is the minimal read interface the scraper needs.
type Document interface {
	Title() string
	Frames() []Frame
}

// FrameSrc is a frame known only by its src attribute.
type FrameSrc string

func (f FrameSrc) Src() string { return string(f) }

// StaticDocument is a Document built from already extracted values.
type StaticDocument struct {
	TitleText string   `json:"title"`
	Srcs      []string `json:"frames"`
}

func (d StaticDocument) Title() string { return d.TitleText }

func (d StaticDocument) Frames() []Frame {
	frames := make([]Frame, len(d.Srcs))
	for i, src := range d.Srcs {
		frames[i] = FrameSrc(src)
	}
	return frames
}

const (
	youTubeMarker        = "www.youtube.com/embed"
	youTubeEmbedPath     = "www.youtube.com/embed/"
	soundCloudMarker     = "w.soundcloud.com/player/"
	soundCloudTracksPath = "api.soundcloud.com/tracks/"
)

// matcher recognizes one provider's embed frames.
type matcher struct {
	provider media.Provider
	marker   string
	identify func(src string) string
}

// matchers are tried in order; the first whose marker occurs in the src wins.
var matchers = []matcher{
	{provider: media.YouTube, marker: youTubeMarker, identify: youTubeID},
	{provider: media.SoundCloud, marker: soundCloudMarker, identify: soundCloudID},
}

// Scraper extracts playlists from documents. It holds no per-call state
// and may be shared between goroutines.
type Scraper struct {
	log *zap.Logger
}

// New creates a Scraper. A nil logger disables logging.
func New(log *zap.Logger) *Scraper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scraper{log: log}
}

// ExtractPlaylist scrapes doc with a scraper that does not log.
func ExtractPlaylist(doc Document) *media.Playlist {
	return New(nil).ExtractPlaylist(doc)
}

// ExtractPlaylist returns a playlist titled after doc with one track per
// recognized embed frame, in document order. Frames from no known provider
// and frames whose identifier cannot be extracted are skipped.
func (s *Scraper) ExtractPlaylist(doc Document) *media.Playlist {
	playlist := media.NewPlaylist(doc.Title())

	for _, frame := range doc.Frames() {
		src := frame.Src()
		m, ok := match(src)
		if !ok {
			continue
		}

		id := m.identify(src)
		if id == "" {
			s.log.Debug("skipping embed frame without identifier",
				zap.Stringer("provider", m.provider),
				zap.String("src", src))
			continue
		}

		playlist.AddTrack(media.NewTrack(m.provider, src, id))
	}

	return playlist
}

func match(src string) (matcher, bool) {
	for _, m := range matchers {
		if strings.Contains(src, m.marker) {
			return m, true
		}
	}
	return matcher{}, false
}

// youTubeID extracts the video ID from an embed URL.
// e.g., "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1" -> "dQw4w9WgXcQ"
func youTubeID(src string) string {
	idx := strings.Index(src, youTubeEmbedPath)
	if idx == -1 {
		return ""
	}
	id := src[idx+len(youTubeEmbedPath):]
	if q := strings.Index(id, "?"); q != -1 {
		id = id[:q]
	}
	return id
}

// soundCloudID extracts the numeric track ID from a player URL, whose
// url parameter carries the URL-encoded API track URL.
// e.g., "https://w.soundcloud.com/player/?url=https%3A%2F%2Fapi.soundcloud.com%2Ftracks%2F42&auto_play=false" -> "42"
func soundCloudID(src string) string {
	decoded := unescape(src)
	idx := strings.Index(decoded, soundCloudTracksPath)
	if idx == -1 {
		return ""
	}
	rest := decoded[idx+len(soundCloudTracksPath):]
	end := strings.IndexFunc(rest, func(r rune) bool { return r < '0' || r > '9' })
	if end == -1 {
		end = len(rest)
	}
	return rest[:end]
}

// maxUnescapes bounds decoding of nested encodings such as %252F.
const maxUnescapes = 2

// unescape percent-decodes s. On malformed escapes only the encoded
// slashes are decoded, which is enough to locate the track path.
func unescape(s string) string {
	for i := 0; i < maxUnescapes; i++ {
		u, err := url.QueryUnescape(s)
		if err != nil {
			return strings.NewReplacer("%2F", "/", "%2f", "/").Replace(s)
		}
		if u == s {
			break
		}
		s = u
	}
	return s
}
