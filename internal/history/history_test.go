package history

import (
	"path/filepath"
	"testing"

	"playlistify/internal/media"
)

func historyPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "playlistify", "history.tsv")
}

func TestSaveAndLoad(t *testing.T) {
	path := historyPath(t)

	entry := media.HistoryEntry{
		URL:        "https://www.youtube.com/embed/dQw4w9WgXcQ",
		Title:      "Friday Mix",
		Provider:   media.YouTube,
		Identifier: "dQw4w9WgXcQ",
		Position:   1234,
		Duration:   5678,
	}

	if err := Save(path, entry); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	entries, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	if entries[0] != entry {
		t.Errorf("loaded %+v, want %+v", entries[0], entry)
	}
}

func TestLoadMissingFile(t *testing.T) {
	entries, err := Load(historyPath(t))
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestSaveUpdatesExisting(t *testing.T) {
	path := historyPath(t)

	entry := media.HistoryEntry{URL: "https://a", Title: "A", Provider: media.SoundCloud, Identifier: "1", Position: 100}
	Save(path, entry)

	entry.Position = 500
	Save(path, entry)

	entries, _ := Load(path)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after update, got %d", len(entries))
	}
	if entries[0].Position != 500 {
		t.Errorf("position = %f, want 500", entries[0].Position)
	}
}

func TestFind(t *testing.T) {
	path := historyPath(t)
	Save(path, media.HistoryEntry{URL: "https://a", Title: "A", Provider: media.YouTube, Position: 42})

	e, ok, err := Find(path, "https://a")
	if err != nil || !ok {
		t.Fatalf("Find() = %v, %v; want entry", ok, err)
	}
	if e.Position != 42 {
		t.Errorf("position = %f, want 42", e.Position)
	}

	if _, ok, _ := Find(path, "https://b"); ok {
		t.Error("Find() should not return missing entries")
	}
}

func TestRemove(t *testing.T) {
	path := historyPath(t)

	Save(path, media.HistoryEntry{URL: "https://a", Title: "A", Provider: media.YouTube})
	Save(path, media.HistoryEntry{URL: "https://b", Title: "B", Provider: media.YouTube})

	if err := Remove(path, "https://a"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}

	entries, _ := Load(path)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after remove, got %d", len(entries))
	}
	if entries[0].URL != "https://b" {
		t.Errorf("remaining entry URL = %q, want https://b", entries[0].URL)
	}
}

func TestFormatForDisplay(t *testing.T) {
	entries := []media.HistoryEntry{
		{Title: "Mix A", Provider: media.YouTube, Identifier: "abc", Position: 500, Duration: 1000},
		{Title: "Mix B", Provider: media.SoundCloud, Identifier: "42", Position: 0},
		{Title: "Mix C", Provider: media.YouTube, Identifier: "xyz", Position: 3725},
	}

	items := FormatForDisplay(entries)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	want := []string{
		"Mix A [YouTube abc] 50%",
		"Mix B [SoundCloud 42]",
		"Mix C [YouTube xyz] @1:02:05",
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, items[i], want[i])
		}
	}
}

func TestFormatLine(t *testing.T) {
	entry := media.HistoryEntry{
		URL:        "https://www.youtube.com/embed/abc",
		Title:      "Tabbed\tTitle",
		Provider:   media.YouTube,
		Identifier: "abc",
		Position:   100,
		Duration:   200,
	}

	line := formatLine(entry)
	expected := "https://www.youtube.com/embed/abc\tTabbed Title\tYouTube\tabc\t100\t200"
	if line != expected {
		t.Errorf("formatLine = %q, want %q", line, expected)
	}

	parsed, err := parseLine(line)
	if err != nil {
		t.Fatalf("parseLine error: %v", err)
	}
	if parsed.URL != entry.URL || parsed.Provider != entry.Provider || parsed.Position != entry.Position {
		t.Errorf("round-trip failed: got %+v", parsed)
	}
}

func TestParseLineRejectsUnknownProvider(t *testing.T) {
	if _, err := parseLine("u\tt\tBandcamp\ti\t0\t0"); err == nil {
		t.Error("parseLine should reject unknown providers")
	}
}
