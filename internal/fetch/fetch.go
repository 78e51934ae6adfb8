// Package fetch loads web pages and scrapes them into playlists.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"playlistify/internal/httputil"
	"playlistify/internal/media"
	"playlistify/internal/scraper"
)

// ErrStatus is returned when a page responds with a non-200 status.
var ErrStatus = errors.New("unexpected status")

// Options configures a Fetcher. Zero values select defaults.
type Options struct {
	Timeout     time.Duration
	UserAgent   string
	RateLimit   float64 // Requests per second across the Fetcher, <= 0 for unlimited
	Concurrency int
	Client      *http.Client // Overrides the hardened default client
	Logger      *zap.Logger
}

// Fetcher fetches pages and turns them into playlists.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	limiter     *rate.Limiter
	concurrency int
	scraper     *scraper.Scraper
	log         *zap.Logger
}

const (
	defaultTimeout     = 30 * time.Second
	defaultConcurrency = 4
)

// New creates a Fetcher.
func New(opts Options) *Fetcher {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := opts.Client
	if client == nil {
		client = httputil.NewClient(timeout)
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &Fetcher{
		client:      client,
		userAgent:   opts.UserAgent,
		limiter:     rate.NewLimiter(limit, 1),
		concurrency: concurrency,
		scraper:     scraper.New(log),
		log:         log,
	}
}

// Document fetches a page and parses it. Frame srcs are resolved against
// the final URL after redirects.
func (f *Fetcher) Document(ctx context.Context, rawURL string) (*scraper.HTMLDocument, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	f.log.Debug("fetching page", zap.String("url", rawURL))
	resp, err := httputil.Get(ctx, f.client, rawURL, f.userAgent)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w %d for %s", ErrStatus, resp.StatusCode, rawURL)
	}

	body, err := httputil.BodyReader(resp)
	if err != nil {
		return nil, err
	}

	return scraper.ParseHTML(body, resp.Request.URL)
}

// Title fetches a page and returns its title.
func (f *Fetcher) Title(ctx context.Context, rawURL string) (string, error) {
	doc, err := f.Document(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return doc.Title(), nil
}

// Playlist fetches a page and scrapes it. The playlist ID is the
// normalized page URL.
func (f *Fetcher) Playlist(ctx context.Context, rawURL string) (*media.Playlist, error) {
	id, err := httputil.NormalizePageURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	doc, err := f.Document(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", id, err)
	}

	playlist := f.scraper.ExtractPlaylist(doc)
	playlist.ID = id
	f.log.Debug("scraped page",
		zap.String("url", id),
		zap.String("title", playlist.Title),
		zap.Int("tracks", len(playlist.Tracks)))
	return playlist, nil
}

// Result is the outcome of scraping one URL in a batch.
type Result struct {
	URL      string
	Playlist *media.Playlist
	Err      error
}

// Playlists scrapes several pages concurrently. Results are in the order
// of urls; a failing page does not stop the others.
func (f *Fetcher) Playlists(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			p, err := f.Playlist(ctx, u)
			results[i] = Result{URL: u, Playlist: p, Err: err}
			if err != nil {
				f.log.Warn("scrape failed", zap.String("url", u), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
