package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SongRepository handles song database operations.
type SongRepository struct {
	pool *pgxpool.Pool
}

// songSelect joins in the artist name and album title so list responses can
// be served from a single query.
const songSelect = `
	SELECT s.id, s.artist_id, s.album_id, s.title, s.duration_seconds,
	       s.genre, s.track_number, s.release_date,
	       ar.name AS artist_name, al.title AS album_title
	FROM songs s
	JOIN artists ar ON s.artist_id = ar.id
	LEFT JOIN albums al ON s.album_id = al.id
`

func scanSong(row pgx.Row) (*Song, error) {
	var song Song
	err := row.Scan(
		&song.ID,
		&song.ArtistID,
		&song.AlbumID,
		&song.Title,
		&song.DurationSeconds,
		&song.Genre,
		&song.TrackNumber,
		&song.ReleaseDate,
		&song.ArtistName,
		&song.AlbumTitle,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning song: %w", err)
	}
	return &song, nil
}

// Create inserts a new song.
func (r *SongRepository) Create(ctx context.Context, song *Song) error {
	query := `
		INSERT INTO songs (artist_id, album_id, title, duration_seconds, genre, track_number, release_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		song.ArtistID,
		song.AlbumID,
		song.Title,
		song.DurationSeconds,
		song.Genre,
		song.TrackNumber,
		song.ReleaseDate,
	).Scan(&song.ID)
	if err != nil {
		if mapped := mapConstraintErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("inserting song: %w", err)
	}
	return nil
}

// Get retrieves a song by ID with artist and album denormalized.
func (r *SongRepository) Get(ctx context.Context, id int64) (*Song, error) {
	query := songSelect + ` WHERE s.id = $1`
	return scanSong(r.pool.QueryRow(ctx, query, id))
}

// List retrieves all songs ordered by title.
func (r *SongRepository) List(ctx context.Context) ([]Song, error) {
	return r.queryMany(ctx, songSelect+` ORDER BY s.title`)
}

// SearchFilter narrows a song search; empty fields are ignored.
type SearchFilter struct {
	Title  string
	Genre  string
	Artist string
}

// Search retrieves songs matching the filter, ordered by title.
func (r *SongRepository) Search(ctx context.Context, filter SearchFilter) ([]Song, error) {
	query := songSelect + ` WHERE 1=1`
	args := []any{}

	if filter.Title != "" {
		args = append(args, "%"+filter.Title+"%")
		query += fmt.Sprintf(" AND s.title ILIKE $%d", len(args))
	}
	if filter.Genre != "" {
		args = append(args, "%"+filter.Genre+"%")
		query += fmt.Sprintf(" AND s.genre ILIKE $%d", len(args))
	}
	if filter.Artist != "" {
		args = append(args, "%"+filter.Artist+"%")
		query += fmt.Sprintf(" AND ar.name ILIKE $%d", len(args))
	}

	query += ` ORDER BY s.title`
	return r.queryMany(ctx, query, args...)
}

// ListByGenre retrieves songs in the given genre.
func (r *SongRepository) ListByGenre(ctx context.Context, genre string) ([]Song, error) {
	query := songSelect + ` WHERE s.genre ILIKE $1 ORDER BY s.title`
	return r.queryMany(ctx, query, "%"+genre+"%")
}

// ListByAlbum retrieves an album's songs ordered by track number.
func (r *SongRepository) ListByAlbum(ctx context.Context, albumID int64) ([]Song, error) {
	query := songSelect + ` WHERE s.album_id = $1 ORDER BY s.track_number NULLS LAST`
	return r.queryMany(ctx, query, albumID)
}

// ListByArtist retrieves an artist's songs ordered by track number.
func (r *SongRepository) ListByArtist(ctx context.Context, artistID int64) ([]Song, error) {
	query := songSelect + ` WHERE s.artist_id = $1 ORDER BY s.track_number NULLS LAST`
	return r.queryMany(ctx, query, artistID)
}

// Update applies a partial update; nil fields keep their prior value.
func (r *SongRepository) Update(ctx context.Context, id int64, title *string, duration *int, genre *string, trackNumber *int) (*Song, error) {
	query := `
		UPDATE songs
		SET title = COALESCE($2, title),
		    duration_seconds = COALESCE($3, duration_seconds),
		    genre = COALESCE($4, genre),
		    track_number = COALESCE($5, track_number)
		WHERE id = $1
		RETURNING id
	`
	var updatedID int64
	err := r.pool.QueryRow(ctx, query, id, title, duration, genre, trackNumber).Scan(&updatedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating song: %w", err)
	}
	return r.Get(ctx, updatedID)
}

// Delete removes a song; library and playlist entries cascade.
func (r *SongRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting song: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists reports whether a song with the given ID exists.
func (r *SongRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM songs WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking song existence: %w", err)
	}
	return exists, nil
}

func (r *SongRepository) queryMany(ctx context.Context, query string, args ...any) ([]Song, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying songs: %w", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		var song Song
		if err := rows.Scan(
			&song.ID,
			&song.ArtistID,
			&song.AlbumID,
			&song.Title,
			&song.DurationSeconds,
			&song.Genre,
			&song.TrackNumber,
			&song.ReleaseDate,
			&song.ArtistName,
			&song.AlbumTitle,
		); err != nil {
			return nil, fmt.Errorf("scanning song: %w", err)
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}
