package store

import (
	"context"
	"encoding/json"
	"fmt"

	"playlistify/internal/media"
)

// CreateEntry adds an entry to the listen-it-later inbox. It returns false
// if an entry with the same ID is already there.
func (s *Store) CreateEntry(ctx context.Context, e media.Entry) (bool, error) {
	alternate, err := json.Marshal(e.Alternate)
	if err != nil {
		return false, fmt.Errorf("encoding links of %s: %w", e.ID, err)
	}

	created, err := affected(ctx, s.db,
		`INSERT INTO entries (id, title, crawled, recrawled, published, alternate)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		e.ID, e.Title, e.Crawled, e.Recrawled, e.Published, string(alternate))
	if err != nil {
		return false, fmt.Errorf("creating entry %s: %w", e.ID, err)
	}
	return created, nil
}

// FindAllEntries returns the inbox, most recently saved first.
func (s *Store) FindAllEntries(ctx context.Context) ([]media.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, crawled, recrawled, published, alternate
		 FROM entries ORDER BY crawled DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []media.Entry
	for rows.Next() {
		var e media.Entry
		var alternate string
		if err := rows.Scan(&e.ID, &e.Title, &e.Crawled, &e.Recrawled, &e.Published, &alternate); err != nil {
			return nil, fmt.Errorf("reading entry: %w", err)
		}
		if err := json.Unmarshal([]byte(alternate), &e.Alternate); err != nil {
			return nil, fmt.Errorf("decoding links of %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RemoveEntry deletes an entry. It returns false if it did not exist.
func (s *Store) RemoveEntry(ctx context.Context, id string) (bool, error) {
	removed, err := affected(ctx, s.db, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("removing entry %s: %w", id, err)
	}
	return removed, nil
}
