package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"playlistify/internal/httputil"
	"playlistify/internal/store"
	"playlistify/internal/ui"
)

var flagYes bool

var playlistsCmd = &cobra.Command{
	Use:     "playlists",
	Aliases: []string{"ls"},
	Short:   "List saved playlists",
	Args:    cobra.NoArgs,
	RunE:    playlistsRun,
}

var playlistShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  playlistShowRun,
}

var playlistRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a saved playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  playlistRemoveRun,
}

var playlistRemoveTrackCmd = &cobra.Command{
	Use:   "rm-track <id> <n>",
	Short: "Remove the n-th track (1-based) from a saved playlist",
	Args:  cobra.ExactArgs(2),
	RunE:  playlistRemoveTrackRun,
}

func init() {
	playlistRemoveCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")

	playlistsCmd.AddCommand(playlistShowCmd)
	playlistsCmd.AddCommand(playlistRemoveCmd)
	playlistsCmd.AddCommand(playlistRemoveTrackCmd)
}

func playlistsRun(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	playlists, err := s.FindAllPlaylists(cmd.Context())
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(playlists)
	}
	if len(playlists) == 0 {
		fmt.Println("No saved playlists.")
		return nil
	}
	newRenderer().Playlists(playlists)
	return nil
}

func playlistShowRun(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.FindPlaylist(cmd.Context(), pageID(args[0]))
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(p)
	}
	newRenderer().Playlist(p)
	return nil
}

func playlistRemoveRun(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	id := pageID(args[0])
	if !flagYes {
		ok, err := ui.Confirm(fmt.Sprintf("Remove %s?", id))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	removed, err := s.RemovePlaylist(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("playlist %s: %w", id, store.ErrNotFound)
	}
	fmt.Println("Removed.")
	return nil
}

func playlistRemoveTrackRun(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return errors.New("track number must be a positive integer")
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.RemoveTrackAt(cmd.Context(), pageID(args[0]), n-1); err != nil {
		return err
	}
	fmt.Println("Removed.")
	return nil
}

// playlistID maps a page URL given on the command line to the ID it was
// saved under. Other IDs, such as file:// URLs, are used as given.
func pageID(arg string) string {
	if id, err := httputil.NormalizePageURL(arg); err == nil {
		return id
	}
	return arg
}
