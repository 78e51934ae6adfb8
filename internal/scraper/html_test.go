package scraper

import (
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlistify/internal/media"
)

func loadTestDoc(t *testing.T, filename string, base string) *HTMLDocument {
	t.Helper()
	f, err := os.Open("testdata/" + filename)
	if err != nil {
		t.Fatalf("opening test fixture %s: %v", filename, err)
	}
	defer f.Close()

	var baseURL *url.URL
	if base != "" {
		baseURL, err = url.Parse(base)
		require.NoError(t, err)
	}

	doc, err := ParseHTML(f, baseURL)
	if err != nil {
		t.Fatalf("parsing test fixture %s: %v", filename, err)
	}
	return doc
}

func TestHTMLDocumentMixed(t *testing.T) {
	doc := loadTestDoc(t, "mixed.html", "")

	assert.Equal(t, "Friday Mix", doc.Title())
	require.Len(t, doc.Frames(), 3)

	p := ExtractPlaylist(doc)
	assert.Equal(t, "Friday Mix", p.Title)
	require.Len(t, p.Tracks, 2)
	assert.Equal(t, media.YouTube, p.Tracks[0].Provider())
	assert.Equal(t, "dQw4w9WgXcQ", p.Tracks[0].Identifier())
	assert.Equal(t, media.SoundCloud, p.Tracks[1].Provider())
	assert.Equal(t, "123456789", p.Tracks[1].Identifier())
	assert.True(t, strings.Contains(p.Tracks[1].URL(), "&color=ff5500"), "entities in src are decoded by the parser")
}

func TestHTMLDocumentEmpty(t *testing.T) {
	doc := loadTestDoc(t, "empty.html", "")
	p := ExtractPlaylist(doc)

	assert.Equal(t, "Nothing Embedded", p.Title)
	assert.Empty(t, p.Tracks)
}

func TestHTMLDocumentResolvesRelativeSrcs(t *testing.T) {
	doc := loadTestDoc(t, "relative.html", "https://blog.example.com/posts/42")

	var srcs []string
	for _, f := range doc.Frames() {
		srcs = append(srcs, f.Src())
	}
	require.Len(t, srcs, 4)
	assert.Equal(t, "https://www.youtube.com/embed/abc123", srcs[0])
	assert.Equal(t, "https://blog.example.com/local/player.html", srcs[1])
	assert.Equal(t, "", srcs[3])

	p := ExtractPlaylist(doc)
	require.Len(t, p.Tracks, 2)
	assert.Equal(t, "abc123", p.Tracks[0].Identifier())
	assert.Equal(t, "987654", p.Tracks[1].Identifier())
}

func TestHTMLDocumentWithoutBaseKeepsSrcs(t *testing.T) {
	doc := loadTestDoc(t, "relative.html", "")

	frames := doc.Frames()
	require.NotEmpty(t, frames)
	assert.Equal(t, "//www.youtube.com/embed/abc123", frames[0].Src())
}

func TestHTMLDocumentMissingTitle(t *testing.T) {
	doc, err := ParseHTML(strings.NewReader(`<html><body><iframe src="https://www.youtube.com/embed/x"></iframe></body></html>`), nil)
	require.NoError(t, err)

	p := ExtractPlaylist(doc)
	assert.Equal(t, "", p.Title)
	assert.Len(t, p.Tracks, 1)
}

func TestHTMLDocumentTitleKeepsDecomposedText(t *testing.T) {
	title := "Cafe\u0301 Mix"
	doc, err := ParseHTML(strings.NewReader("<html><head><title>"+title+"</title></head></html>"), nil)
	require.NoError(t, err)

	p := ExtractPlaylist(doc)
	assert.Equal(t, []byte(title), []byte(p.Title))
}

func TestHTMLDocumentTitleCollapsesASCIIWhitespaceOnly(t *testing.T) {
	doc, err := ParseHTML(strings.NewReader("<title>\n\t Late\u00a0Night \r\n  Mix\f</title>"), nil)
	require.NoError(t, err)

	assert.Equal(t, "Late\u00a0Night Mix", doc.Title())
}

func TestHTMLDocumentTitleKeepsNonBreakingSpace(t *testing.T) {
	doc, err := ParseHTML(strings.NewReader("<title> Side\u00a0A </title>"), nil)
	require.NoError(t, err)

	assert.Equal(t, "Side\u00a0A", doc.Title())
}
