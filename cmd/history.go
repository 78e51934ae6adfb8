package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"playlistify/internal/history"
	"playlistify/internal/media"
	"playlistify/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Resume a track from play history",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

func historyRun(cmd *cobra.Command, args []string) error {
	path, err := cfg.HistoryPath()
	if err != nil {
		return err
	}
	entries, err := history.Load(path)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if flagJSON {
		if entries == nil {
			entries = []media.HistoryEntry{}
		}
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	items := history.FormatForDisplay(entries)
	idx, err := ui.Select("History", items)
	if err != nil {
		return err
	}

	selected := entries[idx]
	logger.Debug("resuming", zap.String("title", selected.Title), zap.String("url", selected.URL))

	track := media.NewTrack(selected.Provider, selected.URL, selected.Identifier)
	return playTrack(track, selected.Title)
}
