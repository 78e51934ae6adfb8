package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlistify/internal/media"
)

const mixPage = `<!DOCTYPE html>
<html><head><title>Weekend Mix</title></head>
<body>
<iframe src="//www.youtube.com/embed/dQw4w9WgXcQ?rel=0"></iframe>
<iframe src="/ads/banner.html"></iframe>
<iframe src="https://w.soundcloud.com/player/?url=https%3A%2F%2Fapi.soundcloud.com%2Ftracks%2F123456789&amp;auto_play=false"></iframe>
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/mix", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, mixPage)
	})
	mux.HandleFunc("/latin1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		fmt.Fprint(w, "<html><head><title>Caf\xe9 Sessions</title></head><body></body></html>")
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/mix", http.StatusFound)
	})
	srv := httptest.NewTLSServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestFetcher(srv *httptest.Server) *Fetcher {
	return New(Options{Client: srv.Client(), Concurrency: 2})
}

func TestPlaylist(t *testing.T) {
	srv := newTestServer(t)
	f := newTestFetcher(srv)

	p, err := f.Playlist(context.Background(), srv.URL+"/mix#top")
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/mix", p.ID)
	assert.Equal(t, "Weekend Mix", p.Title)
	require.Len(t, p.Tracks, 2)
	assert.Equal(t, media.YouTube, p.Tracks[0].Provider())
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ?rel=0", p.Tracks[0].URL())
	assert.Equal(t, media.SoundCloud, p.Tracks[1].Provider())
	assert.Equal(t, "123456789", p.Tracks[1].Identifier())
}

func TestPlaylistFollowsRedirect(t *testing.T) {
	srv := newTestServer(t)
	f := newTestFetcher(srv)

	p, err := f.Playlist(context.Background(), srv.URL+"/moved")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/moved", p.ID, "the requested page stays the identity")
	assert.Len(t, p.Tracks, 2)
}

func TestPlaylistNotFound(t *testing.T) {
	srv := newTestServer(t)
	f := newTestFetcher(srv)

	_, err := f.Playlist(context.Background(), srv.URL+"/missing")
	assert.ErrorIs(t, err, ErrStatus)
}

func TestPlaylistRejectsInvalidURL(t *testing.T) {
	f := New(Options{})

	_, err := f.Playlist(context.Background(), "javascript:alert(1)")
	assert.Error(t, err)
}

func TestTitleDecodesCharset(t *testing.T) {
	srv := newTestServer(t)
	f := newTestFetcher(srv)

	title, err := f.Title(context.Background(), srv.URL+"/latin1")
	require.NoError(t, err)
	assert.Equal(t, "Café Sessions", title)
}

func TestPlaylistsKeepsOrderAndIsolatesFailures(t *testing.T) {
	srv := newTestServer(t)
	f := newTestFetcher(srv)

	urls := []string{srv.URL + "/missing", srv.URL + "/mix", srv.URL + "/latin1"}
	results := f.Playlists(context.Background(), urls)

	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, urls[i], r.URL)
	}
	assert.ErrorIs(t, results[0].Err, ErrStatus)
	require.NoError(t, results[1].Err)
	assert.Len(t, results[1].Playlist.Tracks, 2)
	require.NoError(t, results[2].Err)
	assert.Empty(t, results[2].Playlist.Tracks)
}

func TestDocumentHonorsCancelledContext(t *testing.T) {
	srv := newTestServer(t)
	f := New(Options{Client: srv.Client(), RateLimit: 0.001})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Document(ctx, srv.URL+"/mix")
	assert.Error(t, err)
}
