package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"playlistify/internal/media"
)

// CreatePlaylist stores a playlist with its tracks. Tracks already stored
// under the same URL are reused. It returns false, storing nothing, if a
// playlist with the same ID exists.
func (s *Store) CreatePlaylist(ctx context.Context, p *media.Playlist) (bool, error) {
	if p.ID == "" {
		return false, fmt.Errorf("creating playlist %q: empty ID", p.Title)
	}

	var created bool
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		created, err = affected(ctx, tx,
			`INSERT INTO playlists (id, title, created_at) VALUES (?, ?, ?)
			 ON CONFLICT(id) DO NOTHING`,
			p.ID, p.Title, time.Now().UTC().Format(time.RFC3339Nano))
		if err != nil || !created {
			return err
		}
		return appendTracks(ctx, tx, p.ID, 0, p.Tracks)
	})
	if err != nil {
		return false, fmt.Errorf("creating playlist %s: %w", p.ID, err)
	}
	return created, nil
}

// SavePlaylist updates the title of a stored playlist. It returns false if
// the playlist does not exist.
func (s *Store) SavePlaylist(ctx context.Context, p *media.Playlist) (bool, error) {
	saved, err := affected(ctx, s.db, `UPDATE playlists SET title = ? WHERE id = ?`, p.Title, p.ID)
	if err != nil {
		return false, fmt.Errorf("saving playlist %s: %w", p.ID, err)
	}
	return saved, nil
}

// FindPlaylist returns the playlist with the given ID and its tracks in order.
func (s *Store) FindPlaylist(ctx context.Context, id string) (*media.Playlist, error) {
	p := &media.Playlist{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT title FROM playlists WHERE id = ?`, id).Scan(&p.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("playlist %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("finding playlist %s: %w", id, err)
	}

	if p.Tracks, err = s.playlistTracks(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

// FindAllPlaylists returns every playlist, oldest first.
func (s *Store) FindAllPlaylists(ctx context.Context) ([]*media.Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title FROM playlists ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing playlists: %w", err)
	}

	var playlists []*media.Playlist
	for rows.Next() {
		p := &media.Playlist{}
		if err := rows.Scan(&p.ID, &p.Title); err != nil {
			rows.Close()
			return nil, fmt.Errorf("reading playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	// The single connection must be released before loading tracks.
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing playlists: %w", err)
	}

	for _, p := range playlists {
		if p.Tracks, err = s.playlistTracks(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return playlists, nil
}

// AppendTracks adds tracks to the end of a stored playlist.
func (s *Store) AppendTracks(ctx context.Context, id string, tracks []media.Track) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var next int
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(position) + 1, 0) FROM playlist_tracks WHERE playlist_id = ?`, id).Scan(&next)
		if err != nil {
			return err
		}
		if err := requirePlaylist(ctx, tx, id); err != nil {
			return err
		}
		return appendTracks(ctx, tx, id, next, tracks)
	})
	if err != nil {
		return fmt.Errorf("appending to playlist %s: %w", id, err)
	}
	return nil
}

// RemoveTrackAt removes the track at index from a playlist. The track
// record itself is kept since other playlists may reference it.
func (s *Store) RemoveTrackAt(ctx context.Context, id string, index int) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := requirePlaylist(ctx, tx, id); err != nil {
			return err
		}
		removed, err := affected(ctx, tx,
			`DELETE FROM playlist_tracks WHERE playlist_id = ? AND position = ?`, id, index)
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("track index %d: %w", index, ErrNotFound)
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE playlist_tracks SET position = position - 1 WHERE playlist_id = ? AND position > ?`,
			id, index)
		return err
	})
	if err != nil {
		return fmt.Errorf("removing track from playlist %s: %w", id, err)
	}
	return nil
}

// RemovePlaylist deletes a playlist. It returns false if it did not exist.
func (s *Store) RemovePlaylist(ctx context.Context, id string) (bool, error) {
	var removed bool
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_tracks WHERE playlist_id = ?`, id); err != nil {
			return err
		}
		var err error
		removed, err = affected(ctx, tx, `DELETE FROM playlists WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("removing playlist %s: %w", id, err)
	}
	return removed, nil
}

func (s *Store) playlistTracks(ctx context.Context, id string) ([]media.Track, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.url, t.provider, t.identifier
		 FROM playlist_tracks pt JOIN tracks t ON t.url = pt.track_url
		 WHERE pt.playlist_id = ?
		 ORDER BY pt.position`, id)
	if err != nil {
		return nil, fmt.Errorf("loading tracks of %s: %w", id, err)
	}
	defer rows.Close()

	tracks := []media.Track{}
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("reading track of %s: %w", id, err)
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

func requirePlaylist(ctx context.Context, tx *sql.Tx, id string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM playlists WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("playlist %s: %w", id, ErrNotFound)
	}
	return err
}

func appendTracks(ctx context.Context, tx *sql.Tx, id string, start int, tracks []media.Track) error {
	for i, t := range tracks {
		if _, err := insertTrack(ctx, tx, t); err != nil {
			return fmt.Errorf("storing track %s: %w", t.URL(), err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO playlist_tracks (playlist_id, position, track_url) VALUES (?, ?, ?)`,
			id, start+i, t.URL()); err != nil {
			return fmt.Errorf("linking track %s: %w", t.URL(), err)
		}
	}
	return nil
}
