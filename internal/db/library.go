package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LibraryRepository handles the user-song library relation.
type LibraryRepository struct {
	pool *pgxpool.Pool
}

// Entries retrieves a user's library entries ordered by added_at descending,
// with artist and album denormalized.
func (r *LibraryRepository) Entries(ctx context.Context, userID int64) ([]LibraryEntry, error) {
	query := `
		SELECT ls.user_id, ls.song_id, ls.added_at, ls.rating,
		       s.id, s.artist_id, s.album_id, s.title, s.duration_seconds,
		       s.genre, s.track_number, s.release_date,
		       ar.name AS artist_name, al.title AS album_title
		FROM library_songs ls
		JOIN songs s ON ls.song_id = s.id
		JOIN artists ar ON s.artist_id = ar.id
		LEFT JOIN albums al ON s.album_id = al.id
		WHERE ls.user_id = $1
		ORDER BY ls.added_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying library entries: %w", err)
	}
	defer rows.Close()

	var entries []LibraryEntry
	for rows.Next() {
		var e LibraryEntry
		if err := rows.Scan(
			&e.UserID,
			&e.SongID,
			&e.AddedAt,
			&e.Rating,
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
			return nil, fmt.Errorf("scanning library entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Contains reports whether the song is in the user's library.
func (r *LibraryRepository) Contains(ctx context.Context, userID, songID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM library_songs WHERE user_id = $1 AND song_id = $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, songID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking library membership: %w", err)
	}
	return exists, nil
}

// Add inserts a library entry with added_at = now and no rating. Returns
// ErrConflict when the entry already exists (primary key on user_id,
// song_id) and ErrNotFound when the user's library or the song is missing.
func (r *LibraryRepository) Add(ctx context.Context, userID, songID int64) (*LibraryEntry, error) {
	query := `
		INSERT INTO library_songs (user_id, song_id)
		VALUES ($1, $2)
		RETURNING user_id, song_id, added_at, rating
	`
	var e LibraryEntry
	err := r.pool.QueryRow(ctx, query, userID, songID).Scan(
		&e.UserID,
		&e.SongID,
		&e.AddedAt,
		&e.Rating,
	)
	if err != nil {
		if mapped := mapConstraintErr(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("inserting library entry: %w", err)
	}
	return &e, nil
}

// Remove deletes a library entry. Returns ErrNotFound when the pair is
// absent; a second remove of the same pair fails the same way.
func (r *LibraryRepository) Remove(ctx context.Context, userID, songID int64) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM library_songs WHERE user_id = $1 AND song_id = $2`,
		userID, songID,
	)
	if err != nil {
		return fmt.Errorf("deleting library entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRating overwrites the rating for an existing entry.
func (r *LibraryRepository) SetRating(ctx context.Context, userID, songID int64, rating int) (*LibraryEntry, error) {
	query := `
		UPDATE library_songs
		SET rating = $3
		WHERE user_id = $1 AND song_id = $2
		RETURNING user_id, song_id, added_at, rating
	`
	var e LibraryEntry
	err := r.pool.QueryRow(ctx, query, userID, songID, rating).Scan(
		&e.UserID,
		&e.SongID,
		&e.AddedAt,
		&e.Rating,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating rating: %w", err)
	}
	return &e, nil
}
