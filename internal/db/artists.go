package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ArtistRepository handles artist database operations.
type ArtistRepository struct {
	pool *pgxpool.Pool
}

const artistColumns = `id, name, biography, country, birth_year, death_year`

func scanArtist(row pgx.Row) (*Artist, error) {
	var artist Artist
	err := row.Scan(
		&artist.ID,
		&artist.Name,
		&artist.Biography,
		&artist.Country,
		&artist.BirthYear,
		&artist.DeathYear,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning artist: %w", err)
	}
	return &artist, nil
}

// Create inserts a new artist.
func (r *ArtistRepository) Create(ctx context.Context, artist *Artist) error {
	query := `
		INSERT INTO artists (name, biography, country, birth_year, death_year)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		artist.Name,
		artist.Biography,
		artist.Country,
		artist.BirthYear,
		artist.DeathYear,
	).Scan(&artist.ID)
	if err != nil {
		return fmt.Errorf("inserting artist: %w", err)
	}
	return nil
}

// Get retrieves an artist by ID.
func (r *ArtistRepository) Get(ctx context.Context, id int64) (*Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists WHERE id = $1`
	return scanArtist(r.pool.QueryRow(ctx, query, id))
}

// List retrieves all artists ordered by name.
func (r *ArtistRepository) List(ctx context.Context) ([]Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists ORDER BY name`
	return r.queryMany(ctx, query)
}

// Search retrieves artists whose name matches the given pattern.
func (r *ArtistRepository) Search(ctx context.Context, name string) ([]Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists WHERE name ILIKE $1 ORDER BY name`
	return r.queryMany(ctx, query, "%"+name+"%")
}

// Update applies a partial update; nil fields keep their prior value.
func (r *ArtistRepository) Update(ctx context.Context, id int64, name, biography, country *string, birthYear, deathYear *int) (*Artist, error) {
	query := `
		UPDATE artists
		SET name = COALESCE($2, name),
		    biography = COALESCE($3, biography),
		    country = COALESCE($4, country),
		    birth_year = COALESCE($5, birth_year),
		    death_year = COALESCE($6, death_year)
		WHERE id = $1
		RETURNING ` + artistColumns
	return scanArtist(r.pool.QueryRow(ctx, query, id, name, biography, country, birthYear, deathYear))
}

// Delete removes an artist; albums and songs cascade.
func (r *ArtistRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM artists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting artist: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ArtistRepository) queryMany(ctx context.Context, query string, args ...any) ([]Artist, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying artists: %w", err)
	}
	defer rows.Close()

	var artists []Artist
	for rows.Next() {
		var artist Artist
		if err := rows.Scan(
			&artist.ID,
			&artist.Name,
			&artist.Biography,
			&artist.Country,
			&artist.BirthYear,
			&artist.DeathYear,
		); err != nil {
			return nil, fmt.Errorf("scanning artist: %w", err)
		}
		artists = append(artists, artist)
	}
	return artists, rows.Err()
}
