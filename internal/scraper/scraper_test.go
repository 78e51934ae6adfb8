package scraper

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlistify/internal/media"
)

const (
	ytSrc = "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1"
	scSrc = "https://w.soundcloud.com/player/?url=https%3A%2F%2Fapi.soundcloud.com%2Ftracks%2F123456789&color=ff5500"
)

func TestExtractPlaylistYouTube(t *testing.T) {
	p := ExtractPlaylist(StaticDocument{TitleText: "yt", Srcs: []string{ytSrc}})

	require.Len(t, p.Tracks, 1)
	tr := p.Tracks[0]
	assert.Equal(t, media.YouTube, tr.Provider())
	assert.Equal(t, "dQw4w9WgXcQ", tr.Identifier())
	assert.Equal(t, ytSrc, tr.URL())
}

func TestExtractPlaylistSoundCloud(t *testing.T) {
	p := ExtractPlaylist(StaticDocument{TitleText: "sc", Srcs: []string{scSrc}})

	require.Len(t, p.Tracks, 1)
	tr := p.Tracks[0]
	assert.Equal(t, media.SoundCloud, tr.Provider())
	assert.Equal(t, "123456789", tr.Identifier())
	assert.Equal(t, scSrc, tr.URL(), "track keeps the original, undecoded src")
}

func TestExtractPlaylistNoFalsePositives(t *testing.T) {
	p := ExtractPlaylist(StaticDocument{TitleText: "none", Srcs: []string{"https://example.com/embed/video"}})
	assert.Empty(t, p.Tracks)
}

func TestExtractPlaylistMixed(t *testing.T) {
	doc := StaticDocument{
		TitleText: "Mixed Page",
		Srcs:      []string{ytSrc, "https://example.com/embed/video", scSrc},
	}
	p := ExtractPlaylist(doc)

	assert.Equal(t, "Mixed Page", p.Title)
	require.Len(t, p.Tracks, 2)
	assert.Equal(t, media.YouTube, p.Tracks[0].Provider())
	assert.Equal(t, media.SoundCloud, p.Tracks[1].Provider())
}

func TestExtractPlaylistPreservesOrder(t *testing.T) {
	doc := StaticDocument{
		TitleText: "order",
		Srcs: []string{
			"https://w.soundcloud.com/player/?url=https%3A%2F%2Fapi.soundcloud.com%2Ftracks%2F3",
			"https://www.youtube.com/embed/first",
			"https://www.youtube.com/embed/second",
			"https://w.soundcloud.com/player/?url=https%3A%2F%2Fapi.soundcloud.com%2Ftracks%2F4",
		},
	}
	p := ExtractPlaylist(doc)

	var ids []string
	for _, tr := range p.Tracks {
		ids = append(ids, tr.Identifier())
	}
	assert.Equal(t, []string{"3", "first", "second", "4"}, ids)
}

func TestExtractPlaylistEmpty(t *testing.T) {
	p := ExtractPlaylist(StaticDocument{TitleText: "Quiet Page"})

	assert.Equal(t, "Quiet Page", p.Title)
	assert.NotNil(t, p.Tracks)
	assert.Len(t, p.Tracks, 0)
}

func TestExtractPlaylistKeepsDuplicates(t *testing.T) {
	p := ExtractPlaylist(StaticDocument{TitleText: "dup", Srcs: []string{ytSrc, ytSrc}})
	assert.Len(t, p.Tracks, 2)
}

func TestExtractPlaylistDeterministic(t *testing.T) {
	doc := StaticDocument{TitleText: "again", Srcs: []string{ytSrc, scSrc, "https://example.com"}}
	assert.Equal(t, ExtractPlaylist(doc), ExtractPlaylist(doc))
}

func TestExtractPlaylistSkipsMalformedMatches(t *testing.T) {
	doc := StaticDocument{
		TitleText: "broken",
		Srcs: []string{
			"https://www.youtube.com/embed",
			"https://www.youtube.com/embed/?list=PL1",
			"https://w.soundcloud.com/player/?url=https%3A%2F%2Fapi.soundcloud.com%2Fplaylists%2F99",
			ytSrc,
		},
	}
	p := ExtractPlaylist(doc)

	require.Len(t, p.Tracks, 1)
	assert.Equal(t, "dQw4w9WgXcQ", p.Tracks[0].Identifier())
}

func TestExtractPlaylistConcurrentDocuments(t *testing.T) {
	s := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := s.ExtractPlaylist(StaticDocument{TitleText: "c", Srcs: []string{ytSrc, scSrc}})
			assert.Len(t, p.Tracks, 2)
		}()
	}
	wg.Wait()
}

func TestYouTubeID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"//www.youtube.com/embed/abc?rel=0&showinfo=0", "abc"},
		{"https://www.youtube.com/embed/", ""},
		{"https://www.youtube.com/embed", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, youTubeID(tt.input))
		})
	}
}

func TestSoundCloudID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"encoded", scSrc, "123456789"},
		{"lowercase escapes", "https://w.soundcloud.com/player/?url=https%3a%2f%2fapi.soundcloud.com%2ftracks%2f555&auto_play=true", "555"},
		{"plain slashes", "https://w.soundcloud.com/player/?url=https://api.soundcloud.com/tracks/77&visual=true", "77"},
		{"double encoded", "https://w.soundcloud.com/player/?url=https%253A%252F%252Fapi.soundcloud.com%252Ftracks%252F8080", "8080"},
		{"trailing id", "https://w.soundcloud.com/player/?url=https%3A%2F%2Fapi.soundcloud.com%2Ftracks%2F31337", "31337"},
		{"malformed escape", "https://w.soundcloud.com/player/?url=api.soundcloud.com%2Ftracks%2F42%zz", "42"},
		{"playlist not track", "https://w.soundcloud.com/player/?url=https%3A%2F%2Fapi.soundcloud.com%2Fplaylists%2F1", ""},
		{"no id", "https://w.soundcloud.com/player/?url=https%3A%2F%2Fapi.soundcloud.com%2Ftracks%2F", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, soundCloudID(tt.input))
		})
	}
}
