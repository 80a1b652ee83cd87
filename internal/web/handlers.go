// Package web provides the HTTP server and JSON API for the music library
// service.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/soundcrate/soundcrate/internal/auth"
	"github.com/soundcrate/soundcrate/internal/db"
	"github.com/soundcrate/soundcrate/internal/library"
	"github.com/soundcrate/soundcrate/internal/playlist"
)

// UserStore is the user persistence interface the handlers need.
type UserStore interface {
	CreateWithLibrary(ctx context.Context, user *db.User) error
	Get(ctx context.Context, id int64) (*db.User, error)
	GetByUsername(ctx context.Context, username string) (*db.User, error)
	List(ctx context.Context) ([]db.User, error)
	UpdateEmail(ctx context.Context, id int64, email string) (*db.User, error)
	Delete(ctx context.Context, id int64) error
}

// ArtistStore is the artist persistence interface the handlers need.
type ArtistStore interface {
	Create(ctx context.Context, artist *db.Artist) error
	Get(ctx context.Context, id int64) (*db.Artist, error)
	List(ctx context.Context) ([]db.Artist, error)
	Search(ctx context.Context, name string) ([]db.Artist, error)
	Update(ctx context.Context, id int64, name, biography, country *string, birthYear, deathYear *int) (*db.Artist, error)
	Delete(ctx context.Context, id int64) error
}

// AlbumStore is the album persistence interface the handlers need.
type AlbumStore interface {
	Create(ctx context.Context, album *db.Album) error
	Get(ctx context.Context, id int64) (*db.Album, error)
	List(ctx context.Context) ([]db.Album, error)
	ListByArtist(ctx context.Context, artistID int64) ([]db.Album, error)
	Update(ctx context.Context, id int64, title *string, releaseDate *time.Time, coverURL *string) (*db.Album, error)
	Delete(ctx context.Context, id int64) error
}

// SongStore is the song persistence interface the handlers need.
type SongStore interface {
	Create(ctx context.Context, song *db.Song) error
	Get(ctx context.Context, id int64) (*db.Song, error)
	List(ctx context.Context) ([]db.Song, error)
	Search(ctx context.Context, filter db.SearchFilter) ([]db.Song, error)
	ListByGenre(ctx context.Context, genre string) ([]db.Song, error)
	ListByArtist(ctx context.Context, artistID int64) ([]db.Song, error)
	ListByAlbum(ctx context.Context, albumID int64) ([]db.Song, error)
	Update(ctx context.Context, id int64, title *string, duration *int, genre *string, trackNumber *int) (*db.Song, error)
	Delete(ctx context.Context, id int64) error
}

// LibraryService is the library operations interface the handlers need.
type LibraryService interface {
	Songs(ctx context.Context, userID int64) ([]db.LibraryEntry, error)
	Contains(ctx context.Context, userID, songID int64) (bool, error)
	Add(ctx context.Context, userID, songID int64) (*db.LibraryEntry, error)
	Remove(ctx context.Context, userID, songID int64) error
	Rate(ctx context.Context, userID, songID int64, rating int) (*db.LibraryEntry, error)
	Stats(ctx context.Context, userID int64) (library.Stats, error)
}

// PlaylistService is the playlist operations interface the handlers need.
type PlaylistService interface {
	ListForUser(ctx context.Context, userID int64) ([]db.Playlist, error)
	GetWithSongs(ctx context.Context, playlistID int64) (*playlist.WithSongs, error)
	Create(ctx context.Context, userID int64, title string, description *string) (*db.Playlist, error)
	Update(ctx context.Context, playlistID int64, title, description *string) (*db.Playlist, error)
	Delete(ctx context.Context, playlistID int64) error
	AddSong(ctx context.Context, playlistID, songID int64) (*db.PlaylistEntry, error)
	RemoveSong(ctx context.Context, playlistID, songID int64) error
	Reorder(ctx context.Context, playlistID int64, positions []db.SongPosition) error
}

// Handlers contains the HTTP handlers for the JSON API.
type Handlers struct {
	users     UserStore
	artists   ArtistStore
	albums    AlbumStore
	songs     SongStore
	library   LibraryService
	playlists PlaylistService
	auth      *auth.Manager
	validate  *validator.Validate
}

// NewHandlers creates a Handlers instance.
func NewHandlers(users UserStore, artists ArtistStore, albums AlbumStore, songs SongStore, librarySvc LibraryService, playlists PlaylistService, authManager *auth.Manager) *Handlers {
	return &Handlers{
		users:     users,
		artists:   artists,
		albums:    albums,
		songs:     songs,
		library:   librarySvc,
		playlists: playlists,
		auth:      authManager,
		validate:  validator.New(),
	}
}

// idParam parses an integer path parameter. The second return value is
// false when the parameter is missing or not a valid ID.
func idParam(r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// decodeBody decodes a JSON request body into dst and runs struct
// validation on it.
func (h *Handlers) decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return h.validate.Struct(dst)
}
