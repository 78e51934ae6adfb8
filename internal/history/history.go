// Package history manages the play history of tracks using TSV format.
// Uses atomic writes (temp+rename) to prevent data corruption.
package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"playlistify/internal/httputil"
	"playlistify/internal/media"
)

// TSV columns: url, title, provider, identifier, position, duration
const numColumns = 6

// Load reads the history file at path and returns all entries.
func Load(path string) ([]media.HistoryEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	var entries []media.HistoryEntry
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			continue // Skip malformed lines
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	return entries, nil
}

// Find returns the entry for a track URL, if any.
func Find(path, url string) (media.HistoryEntry, bool, error) {
	entries, err := Load(path)
	if err != nil {
		return media.HistoryEntry{}, false, err
	}
	for _, e := range entries {
		if e.URL == url {
			return e, true, nil
		}
	}
	return media.HistoryEntry{}, false, nil
}

// Save writes or updates an entry in the history file.
func Save(path string, entry media.HistoryEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	entries, _ := Load(path)

	// Update existing entry or append new one
	found := false
	for i, e := range entries {
		if e.URL == entry.URL {
			entries[i] = entry
			found = true
			break
		}
	}
	if !found {
		entries = append(entries, entry)
	}

	return writeAll(path, entries)
}

// Remove deletes the entry for a track URL from the history.
func Remove(path, url string) error {
	entries, err := Load(path)
	if err != nil {
		return err
	}

	var filtered []media.HistoryEntry
	for _, e := range entries {
		if e.URL != url {
			filtered = append(filtered, e)
		}
	}

	return writeAll(path, filtered)
}

// writeAll replaces the history file by writing to a temp file in the
// same directory and renaming it over the original.
func writeAll(path string, entries []media.HistoryEntry) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "history-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	writer := bufio.NewWriter(tmpFile)
	for _, e := range entries {
		if _, err := writer.WriteString(formatLine(e) + "\n"); err != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("writing history: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flushing history: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming history file: %w", err)
	}

	return nil
}

// FormatForDisplay creates display strings for selection from history entries.
func FormatForDisplay(entries []media.HistoryEntry) []string {
	var items []string
	for _, e := range entries {
		display := fmt.Sprintf("%s [%s %s]", e.Title, e.Provider, e.Identifier)
		if e.Position > 0 {
			if e.Duration > 0 {
				display += fmt.Sprintf(" %.0f%%", (e.Position/e.Duration)*100)
			} else {
				display += " @" + formatDuration(e.Position)
			}
		}
		items = append(items, display)
	}
	return items
}

// formatDuration formats seconds as H:MM:SS or M:SS.
func formatDuration(seconds float64) string {
	s := int(seconds)
	h := s / 3600
	m := (s % 3600) / 60
	sec := s % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// parseLine parses a TSV line into a HistoryEntry.
func parseLine(line string) (media.HistoryEntry, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < numColumns {
		return media.HistoryEntry{}, fmt.Errorf("expected %d columns, got %d", numColumns, len(fields))
	}

	provider, err := media.ParseProvider(fields[2])
	if err != nil {
		return media.HistoryEntry{}, err
	}

	position, _ := strconv.ParseFloat(fields[4], 64)
	duration, _ := strconv.ParseFloat(fields[5], 64)

	return media.HistoryEntry{
		URL:        fields[0],
		Title:      fields[1],
		Provider:   provider,
		Identifier: fields[3],
		Position:   position,
		Duration:   duration,
	}, nil
}

// formatLine converts a HistoryEntry to a TSV line.
func formatLine(e media.HistoryEntry) string {
	return strings.Join([]string{
		httputil.SanitizeField(e.URL),
		httputil.SanitizeField(e.Title),
		e.Provider.String(),
		httputil.SanitizeField(e.Identifier),
		strconv.FormatFloat(e.Position, 'f', 0, 64),
		strconv.FormatFloat(e.Duration, 'f', 0, 64),
	}, "\t")
}
