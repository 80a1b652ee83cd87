package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlaylistRepository handles playlists and their ordered song entries.
type PlaylistRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a new playlist.
func (r *PlaylistRepository) Create(ctx context.Context, playlist *Playlist) error {
	query := `
		INSERT INTO playlists (user_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		playlist.UserID,
		playlist.Title,
		playlist.Description,
	).Scan(&playlist.ID, &playlist.CreatedAt)
	if err != nil {
		if mapped := mapConstraintErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("inserting playlist: %w", err)
	}
	return nil
}

// Get retrieves a playlist by ID.
func (r *PlaylistRepository) Get(ctx context.Context, id int64) (*Playlist, error) {
	query := `
		SELECT id, user_id, title, description, created_at
		FROM playlists
		WHERE id = $1
	`
	var p Playlist
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Description,
		&p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying playlist: %w", err)
	}
	return &p, nil
}

// ListByUser retrieves a user's playlists ordered by creation date descending.
func (r *PlaylistRepository) ListByUser(ctx context.Context, userID int64) ([]Playlist, error) {
	query := `
		SELECT id, user_id, title, description, created_at
		FROM playlists
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying playlists: %w", err)
	}
	defer rows.Close()

	var playlists []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Title,
			&p.Description,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// Update applies a partial update; nil fields keep their prior value.
func (r *PlaylistRepository) Update(ctx context.Context, id int64, title, description *string) (*Playlist, error) {
	query := `
		UPDATE playlists
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description)
		WHERE id = $1
		RETURNING id, user_id, title, description, created_at
	`
	var p Playlist
	err := r.pool.QueryRow(ctx, query, id, title, description).Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Description,
		&p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating playlist: %w", err)
	}
	return &p, nil
}

// Delete removes a playlist; its entries cascade.
func (r *PlaylistRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting playlist: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Entries retrieves a playlist's songs ordered by position ascending, with
// artist and album denormalized. Equal positions fall back to song ID so
// the order stays deterministic.
func (r *PlaylistRepository) Entries(ctx context.Context, playlistID int64) ([]PlaylistEntry, error) {
	query := `
		SELECT ps.playlist_id, ps.song_id, ps.position,
		       s.id, s.artist_id, s.album_id, s.title, s.duration_seconds,
		       s.genre, s.track_number, s.release_date,
		       ar.name AS artist_name, al.title AS album_title
		FROM playlist_songs ps
		JOIN songs s ON ps.song_id = s.id
		JOIN artists ar ON s.artist_id = ar.id
		LEFT JOIN albums al ON s.album_id = al.id
		WHERE ps.playlist_id = $1
		ORDER BY ps.position ASC, ps.song_id ASC
	`
	rows, err := r.pool.Query(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("querying playlist entries: %w", err)
	}
	defer rows.Close()

	var entries []PlaylistEntry
	for rows.Next() {
		var e PlaylistEntry
		if err := rows.Scan(
			&e.PlaylistID,
			&e.SongID,
			&e.Position,
			&e.Song.ID,
			&e.Song.ArtistID,
			&e.Song.AlbumID,
			&e.Song.Title,
			&e.Song.DurationSeconds,
			&e.Song.Genre,
			&e.Song.TrackNumber,
			&e.Song.ReleaseDate,
			&e.Song.ArtistName,
			&e.Song.AlbumTitle,
		); err != nil {
			return nil, fmt.Errorf("scanning playlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AppendSong inserts a song at the end of the playlist. The next position
// is computed inside the INSERT so the max+1 read and the write happen in
// one statement. Returns ErrConflict when the song is already present and
// ErrNotFound when the playlist or song is missing.
func (r *PlaylistRepository) AppendSong(ctx context.Context, playlistID, songID int64) (*PlaylistEntry, error) {
	query := `
		INSERT INTO playlist_songs (playlist_id, song_id, position)
		VALUES ($1, $2,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM playlist_songs WHERE playlist_id = $1)
		)
		RETURNING playlist_id, song_id, position
	`
	var e PlaylistEntry
	err := r.pool.QueryRow(ctx, query, playlistID, songID).Scan(
		&e.PlaylistID,
		&e.SongID,
		&e.Position,
	)
	if err != nil {
		if mapped := mapConstraintErr(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("inserting playlist entry: %w", err)
	}
	return &e, nil
}

// RemoveSong deletes a song from the playlist. Remaining positions are not
// renumbered; gaps are fine. Returns ErrNotFound when the pair is absent.
func (r *PlaylistRepository) RemoveSong(ctx context.Context, playlistID, songID int64) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2`,
		playlistID, songID,
	)
	if err != nil {
		return fmt.Errorf("deleting playlist entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Reorder overwrites positions for the given songs in one transaction.
// Entries not mentioned keep their prior position. Either every update
// applies or none do.
func (r *PlaylistRepository) Reorder(ctx context.Context, playlistID int64, positions []SongPosition) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, sp := range positions {
		_, err := tx.Exec(ctx,
			`UPDATE playlist_songs SET position = $3 WHERE playlist_id = $1 AND song_id = $2`,
			playlistID, sp.SongID, sp.Position,
		)
		if err != nil {
			return fmt.Errorf("updating position for song %d: %w", sp.SongID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing reorder: %w", err)
	}
	return nil
}

// Exists reports whether a playlist with the given ID exists.
func (r *PlaylistRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM playlists WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking playlist existence: %w", err)
	}
	return exists, nil
}
