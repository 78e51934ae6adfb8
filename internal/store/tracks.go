package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"playlistify/internal/media"
)

// CreateTrack inserts a track. It returns false if a track with the same
// URL is already stored.
func (s *Store) CreateTrack(ctx context.Context, t media.Track) (bool, error) {
	created, err := insertTrack(ctx, s.db, t)
	if err != nil {
		return false, fmt.Errorf("creating track %s: %w", t.URL(), err)
	}
	return created, nil
}

// SaveTrack updates a stored track. It returns false if the track does not exist.
func (s *Store) SaveTrack(ctx context.Context, t media.Track) (bool, error) {
	saved, err := affected(ctx, s.db,
		`UPDATE tracks SET provider = ?, identifier = ? WHERE url = ?`,
		t.Provider().String(), t.Identifier(), t.URL())
	if err != nil {
		return false, fmt.Errorf("saving track %s: %w", t.URL(), err)
	}
	return saved, nil
}

// FindTrack returns the track stored under url.
func (s *Store) FindTrack(ctx context.Context, url string) (media.Track, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT url, provider, identifier FROM tracks WHERE url = ?`, url)
	t, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return media.Track{}, fmt.Errorf("track %s: %w", url, ErrNotFound)
	}
	if err != nil {
		return media.Track{}, fmt.Errorf("finding track %s: %w", url, err)
	}
	return t, nil
}

// FindAllTracks returns every stored track in insertion order.
func (s *Store) FindAllTracks(ctx context.Context) ([]media.Track, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url, provider, identifier FROM tracks ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing tracks: %w", err)
	}
	defer rows.Close()

	var tracks []media.Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("reading track: %w", err)
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

func insertTrack(ctx context.Context, db execer, t media.Track) (bool, error) {
	return affected(ctx, db,
		`INSERT INTO tracks (url, provider, identifier) VALUES (?, ?, ?)
		 ON CONFLICT(url) DO NOTHING`,
		t.URL(), t.Provider().String(), t.Identifier())
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTrack(row scanner) (media.Track, error) {
	var url, providerName, identifier string
	if err := row.Scan(&url, &providerName, &identifier); err != nil {
		return media.Track{}, err
	}
	provider, err := media.ParseProvider(providerName)
	if err != nil {
		return media.Track{}, err
	}
	return media.NewTrack(provider, url, identifier), nil
}
