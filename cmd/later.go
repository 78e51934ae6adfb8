package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"playlistify/internal/later"
	"playlistify/internal/store"
)

var laterCmd = &cobra.Command{
	Use:   "later <url> [title...]",
	Short: "Save a page to listen to later",
	Long: `Save a page to the listen-it-later inbox. When no title is given, the
page is fetched and its <title> is used.`,
	Args: cobra.MinimumNArgs(1),
	RunE: laterRun,
}

var laterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pages saved for later, newest first",
	Args:  cobra.NoArgs,
	RunE:  laterListRun,
}

var laterRemoveCmd = &cobra.Command{
	Use:   "rm <url>",
	Short: "Remove a page from the inbox",
	Args:  cobra.ExactArgs(1),
	RunE:  laterRemoveRun,
}

func init() {
	laterCmd.AddCommand(laterListCmd)
	laterCmd.AddCommand(laterRemoveCmd)
}

func laterRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	title := laterTitle(args)
	if title == "" {
		var err error
		title, err = newFetcher().Title(ctx, args[0])
		if err != nil {
			logger.Warn("fetching title", zap.String("url", args[0]), zap.Error(err))
		}
	}

	s, err := openStore()
	if err != nil {
		fmt.Println(later.Error.Message())
		return err
	}
	defer s.Close()

	entry, result, err := later.Save(ctx, s, args[0], title, time.Now())
	fmt.Println(result.Message())
	if err != nil {
		return err
	}
	logger.Debug("saved for later", zap.String("url", entry.ID), zap.Stringer("result", result))
	return nil
}

func laterListRun(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := s.FindAllEntries(cmd.Context())
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("Nothing saved for later.")
		return nil
	}
	newRenderer().Entries(entries)
	return nil
}

func laterRemoveRun(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	id := pageID(args[0])

	removed, err := s.RemoveEntry(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("entry %s: %w", id, store.ErrNotFound)
	}
	fmt.Println("Removed.")
	return nil
}

// laterTitle joins the words after the URL, so titles need no quoting.
func laterTitle(args []string) string {
	return strings.Join(args[1:], " ")
}
