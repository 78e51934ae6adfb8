package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"playlistify/internal/media"
	"playlistify/internal/scraper"
	"playlistify/internal/store"
)

// Scrape flags, shared by the root command and "scrape".
var (
	flagSave  bool
	flagFile  string
	flagStdin bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [url...]",
	Short: "Extract a playlist from each page",
	Long: `Fetch each page over HTTPS and list the YouTube and SoundCloud players
embedded in it. Use --file to scrape a saved HTML page, or --stdin to read
a JSON document of the form {"title": "...", "frames": ["src", ...]}.`,
	Args: cobra.ArbitraryArgs,
	RunE: scrapeRun,
}

func init() {
	addScrapeFlags(scrapeCmd)
}

func addScrapeFlags(c *cobra.Command) {
	c.Flags().BoolVarP(&flagSave, "save", "s", false, "Save scraped playlists to the library")
	c.Flags().StringVarP(&flagFile, "file", "f", "", "Scrape a local HTML file")
	c.Flags().BoolVar(&flagStdin, "stdin", false, "Scrape a JSON document read from stdin")
	c.MarkFlagsMutuallyExclusive("file", "stdin")
}

func scrapeRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	playlists := make([]*media.Playlist, 0, len(args))
	failed := 0
	switch {
	case flagFile != "":
		p, err := scrapeFile(flagFile)
		if err != nil {
			return err
		}
		playlists = append(playlists, p)
	case flagStdin:
		var doc scraper.StaticDocument
		if err := json.NewDecoder(os.Stdin).Decode(&doc); err != nil {
			return fmt.Errorf("reading document from stdin: %w", err)
		}
		playlists = append(playlists, scraper.New(logger).ExtractPlaylist(doc))
	case len(args) == 0:
		return cmd.Help()
	default:
		for _, r := range newFetcher().Playlists(ctx, args) {
			if r.Err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", r.URL, r.Err)
				failed++
				continue
			}
			playlists = append(playlists, r.Playlist)
		}
	}

	if flagSave {
		if err := savePlaylists(ctx, playlists); err != nil {
			return err
		}
	}

	if flagJSON {
		if err := printJSON(playlists); err != nil {
			return err
		}
	} else {
		r := newRenderer()
		for _, p := range playlists {
			r.Playlist(p)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed", failed, len(args))
	}
	return nil
}

// scrapeFile scrapes a saved page. Its playlist ID is the file:// URL of
// the absolute path.
func scrapeFile(path string) (*media.Playlist, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer f.Close()

	doc, err := scraper.ParseHTML(f, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	p := scraper.New(logger).ExtractPlaylist(doc)
	p.ID = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	return p, nil
}

func savePlaylists(ctx context.Context, playlists []*media.Playlist) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	for _, p := range playlists {
		if p.ID == "" {
			return errors.New("cannot save a playlist read from stdin: it has no page URL")
		}
		added, err := savePlaylist(ctx, s, p)
		if err != nil {
			return err
		}
		logger.Info("saved playlist", zap.String("id", p.ID), zap.Int("new_tracks", added))
	}
	return nil
}

// savePlaylist stores a new playlist, or refreshes a stored one by updating
// its title and appending tracks it does not hold yet. It returns the
// number of tracks added.
func savePlaylist(ctx context.Context, s *store.Store, p *media.Playlist) (int, error) {
	created, err := s.CreatePlaylist(ctx, p)
	if err != nil {
		return 0, err
	}
	if created {
		return len(p.Tracks), nil
	}

	if _, err := s.SavePlaylist(ctx, p); err != nil {
		return 0, err
	}
	stored, err := s.FindPlaylist(ctx, p.ID)
	if err != nil {
		return 0, err
	}

	known := make(map[string]bool, len(stored.Tracks))
	for _, t := range stored.Tracks {
		known[t.URL()] = true
	}
	var fresh []media.Track
	for _, t := range p.Tracks {
		if !known[t.URL()] {
			known[t.URL()] = true
			fresh = append(fresh, t)
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}
	return len(fresh), s.AppendTracks(ctx, p.ID, fresh)
}
