package db

import "time"

// User represents a registered account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Artist represents a performing artist.
type Artist struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Biography *string `json:"biography,omitempty"`
	Country   *string `json:"country,omitempty"`
	BirthYear *int    `json:"birth_year,omitempty"`
	DeathYear *int    `json:"death_year,omitempty"`
}

// Album represents an artist's album.
type Album struct {
	ID          int64      `json:"id"`
	ArtistID    int64      `json:"artist_id"`
	Title       string     `json:"title"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	CoverURL    *string    `json:"cover_url,omitempty"`
}

// Song represents a song in the catalog.
type Song struct {
	ID              int64      `json:"id"`
	ArtistID        int64      `json:"artist_id"`
	AlbumID         *int64     `json:"album_id,omitempty"` // singles have no album
	Title           string     `json:"title"`
	DurationSeconds int        `json:"duration_seconds"`
	Genre           *string    `json:"genre,omitempty"`
	TrackNumber     *int       `json:"track_number,omitempty"`
	ReleaseDate     *time.Time `json:"release_date,omitempty"`

	// Denormalized for list responses.
	ArtistName string  `json:"artist_name"`
	AlbumTitle *string `json:"album_title,omitempty"`
}

// LibraryEntry represents a song in a user's library. A nil rating means
// the song has not been rated, which is distinct from any rating value.
type LibraryEntry struct {
	UserID  int64     `json:"user_id"`
	SongID  int64     `json:"song_id"`
	AddedAt time.Time `json:"added_at"`
	Rating  *int      `json:"rating,omitempty"`

	Song Song `json:"song,omitzero"`
}

// Playlist represents a user-owned ordered list of songs.
type Playlist struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PlaylistEntry represents a song's slot within a playlist.
type PlaylistEntry struct {
	PlaylistID int64 `json:"playlist_id"`
	SongID     int64 `json:"song_id"`
	Position   int   `json:"position"`

	Song Song `json:"song,omitzero"`
}

// SongPosition is one element of a reorder batch.
type SongPosition struct {
	SongID   int64 `json:"song_id"`
	Position int   `json:"position"`
}
