package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AlbumRepository handles album database operations.
type AlbumRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a new album.
func (r *AlbumRepository) Create(ctx context.Context, album *Album) error {
	query := `
		INSERT INTO albums (artist_id, title, release_date, cover_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		album.ArtistID,
		album.Title,
		album.ReleaseDate,
		album.CoverURL,
	).Scan(&album.ID)
	if err != nil {
		if mapped := mapConstraintErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("inserting album: %w", err)
	}
	return nil
}

// Get retrieves an album by ID.
func (r *AlbumRepository) Get(ctx context.Context, id int64) (*Album, error) {
	query := `
		SELECT id, artist_id, title, release_date, cover_url
		FROM albums
		WHERE id = $1
	`
	var album Album
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&album.ID,
		&album.ArtistID,
		&album.Title,
		&album.ReleaseDate,
		&album.CoverURL,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying album: %w", err)
	}
	return &album, nil
}

// List retrieves all albums ordered by release date descending.
func (r *AlbumRepository) List(ctx context.Context) ([]Album, error) {
	query := `
		SELECT id, artist_id, title, release_date, cover_url
		FROM albums
		ORDER BY release_date DESC NULLS LAST
	`
	return r.queryMany(ctx, query)
}

// ListByArtist retrieves an artist's albums ordered by release date descending.
func (r *AlbumRepository) ListByArtist(ctx context.Context, artistID int64) ([]Album, error) {
	query := `
		SELECT id, artist_id, title, release_date, cover_url
		FROM albums
		WHERE artist_id = $1
		ORDER BY release_date DESC NULLS LAST
	`
	return r.queryMany(ctx, query, artistID)
}

// Update applies a partial update; nil fields keep their prior value.
func (r *AlbumRepository) Update(ctx context.Context, id int64, title *string, releaseDate *time.Time, coverURL *string) (*Album, error) {
	query := `
		UPDATE albums
		SET title = COALESCE($2, title),
		    release_date = COALESCE($3, release_date),
		    cover_url = COALESCE($4, cover_url)
		WHERE id = $1
		RETURNING id, artist_id, title, release_date, cover_url
	`
	var album Album
	err := r.pool.QueryRow(ctx, query, id, title, releaseDate, coverURL).Scan(
		&album.ID,
		&album.ArtistID,
		&album.Title,
		&album.ReleaseDate,
		&album.CoverURL,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating album: %w", err)
	}
	return &album, nil
}

// Delete removes an album; songs keep their rows with album_id cleared.
func (r *AlbumRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM albums WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting album: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AlbumRepository) queryMany(ctx context.Context, query string, args ...any) ([]Album, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying albums: %w", err)
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		var album Album
		if err := rows.Scan(
			&album.ID,
			&album.ArtistID,
			&album.Title,
			&album.ReleaseDate,
			&album.CoverURL,
		); err != nil {
			return nil, fmt.Errorf("scanning album: %w", err)
		}
		albums = append(albums, album)
	}
	return albums, rows.Err()
}
