package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"playlistify/internal/history"
	"playlistify/internal/media"
	"playlistify/internal/player"
	"playlistify/internal/store"
	"playlistify/internal/ui"
)

var flagAll bool

var playCmd = &cobra.Command{
	Use:   "play [id]",
	Short: "Play a track from a saved playlist",
	Long: `Pick a saved playlist (or give its ID) and a track to play. With --all,
playback continues through the rest of the playlist.`,
	Args: cobra.MaximumNArgs(1),
	RunE: playRun,
}

func init() {
	playCmd.Flags().BoolVarP(&flagAll, "all", "a", false, "Keep playing the following tracks")
}

func playRun(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := choosePlaylist(cmd.Context(), s, args)
	if err != nil {
		return err
	}
	if len(p.Tracks) == 0 {
		fmt.Println("The playlist has no tracks.")
		return nil
	}

	items := make([]string, len(p.Tracks))
	for i, t := range p.Tracks {
		items[i] = ui.FormatTrack(i, t)
	}
	idx, err := ui.Select(p.Title, items)
	if err != nil {
		return err
	}

	last := idx
	if flagAll {
		last = len(p.Tracks) - 1
	}
	for i := idx; i <= last; i++ {
		if err := playTrack(p.Tracks[i], p.Title); err != nil {
			return err
		}
	}
	return nil
}

func choosePlaylist(ctx context.Context, s *store.Store, args []string) (*media.Playlist, error) {
	if len(args) == 1 {
		return s.FindPlaylist(ctx, pageID(args[0]))
	}

	playlists, err := s.FindAllPlaylists(ctx)
	if err != nil {
		return nil, err
	}
	if len(playlists) == 0 {
		return nil, errors.New(`no saved playlists, run "playlistify scrape --save <url>" first`)
	}

	items := make([]string, len(playlists))
	for i, p := range playlists {
		items[i] = fmt.Sprintf("%s (%d)", p.Title, len(p.Tracks))
	}
	idx, err := ui.Select("Playlists", items)
	if err != nil {
		return nil, err
	}
	return playlists[idx], nil
}

// playTrack plays a track, resuming from and then recording its position
// in the play history when history is enabled.
func playTrack(track media.Track, title string) error {
	p := player.New(cfg.Player, logger)
	if !p.Available() {
		return fmt.Errorf("%s not found in PATH", p.Name())
	}

	var histPath string
	var start float64
	if cfg.History {
		var err error
		if histPath, err = cfg.HistoryPath(); err != nil {
			return err
		}
		e, ok, err := history.Find(histPath, track.URL())
		if err != nil {
			logger.Warn("reading history", zap.Error(err))
		}
		if ok && !finished(e) {
			start = e.Position
		}
	}

	logger.Debug("playing",
		zap.String("player", p.Name()),
		zap.String("url", track.PlaybackURL()),
		zap.Float64("start", start))
	progress, err := p.Play(track, title, start)
	if err != nil {
		return err
	}

	if histPath == "" || progress.Position <= 0 {
		return nil
	}
	return history.Save(histPath, media.HistoryEntry{
		URL:        track.URL(),
		Title:      title,
		Provider:   track.Provider(),
		Identifier: track.Identifier(),
		Position:   progress.Position,
		Duration:   progress.Duration,
	})
}

// finished reports whether an entry was played to (nearly) the end.
func finished(e media.HistoryEntry) bool {
	return e.Duration > 0 && e.Position >= e.Duration*0.95
}
