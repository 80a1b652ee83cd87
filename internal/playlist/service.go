// Package playlist manages user-owned ordered playlists and their song
// membership.
package playlist

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/soundcrate/soundcrate/internal/db"
)

// Validation errors.
var (
	ErrEmptyTitle      = errors.New("playlist title is required")
	ErrInvalidPosition = errors.New("position must be a positive integer")
	ErrEmptyReorder    = errors.New("reorder batch is empty")
)

// Store is the persistence interface the service needs for playlists.
type Store interface {
	Create(ctx context.Context, playlist *db.Playlist) error
	Get(ctx context.Context, id int64) (*db.Playlist, error)
	ListByUser(ctx context.Context, userID int64) ([]db.Playlist, error)
	Update(ctx context.Context, id int64, title, description *string) (*db.Playlist, error)
	Delete(ctx context.Context, id int64) error
	Entries(ctx context.Context, playlistID int64) ([]db.PlaylistEntry, error)
	AppendSong(ctx context.Context, playlistID, songID int64) (*db.PlaylistEntry, error)
	RemoveSong(ctx context.Context, playlistID, songID int64) error
	Reorder(ctx context.Context, playlistID int64, positions []db.SongPosition) error
}

// Service implements the playlist operations.
type Service struct {
	store Store
}

// New creates a new playlist service.
func New(store Store) *Service {
	return &Service{store: store}
}

// WithSongs is a playlist together with its ordered entries.
type WithSongs struct {
	Playlist db.Playlist
	Songs    []db.PlaylistEntry
}

// ListForUser returns a user's playlists ordered by creation date descending.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]db.Playlist, error) {
	playlists, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "listing playlists")
	}
	return playlists, nil
}

// GetWithSongs returns the playlist header plus its songs ordered by
// position ascending.
func (s *Service) GetWithSongs(ctx context.Context, playlistID int64) (*WithSongs, error) {
	playlist, err := s.store.Get(ctx, playlistID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, errors.Wrap(db.ErrNotFound, "playlist not found")
		}
		return nil, errors.Wrap(err, "loading playlist")
	}

	entries, err := s.store.Entries(ctx, playlistID)
	if err != nil {
		return nil, errors.Wrap(err, "loading playlist songs")
	}

	return &WithSongs{Playlist: *playlist, Songs: entries}, nil
}

// Create makes a new playlist for the user. The title is required;
// description is optional.
func (s *Service) Create(ctx context.Context, userID int64, title string, description *string) (*db.Playlist, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}

	playlist := &db.Playlist{
		UserID:      userID,
		Title:       title,
		Description: description,
	}
	if err := s.store.Create(ctx, playlist); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, errors.Wrap(db.ErrNotFound, "user not found")
		}
		return nil, errors.Wrap(err, "creating playlist")
	}
	return playlist, nil
}

// Update applies a partial update. Nil means leave the field unchanged,
// not clear it.
func (s *Service) Update(ctx context.Context, playlistID int64, title, description *string) (*db.Playlist, error) {
	if title != nil && strings.TrimSpace(*title) == "" {
		return nil, ErrEmptyTitle
	}

	playlist, err := s.store.Update(ctx, playlistID, title, description)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, errors.Wrap(db.ErrNotFound, "playlist not found")
		}
		return nil, errors.Wrap(err, "updating playlist")
	}
	return playlist, nil
}

// Delete removes the playlist and, through the store's cascade, all of its
// entries.
func (s *Service) Delete(ctx context.Context, playlistID int64) error {
	if err := s.store.Delete(ctx, playlistID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return errors.Wrap(db.ErrNotFound, "playlist not found")
		}
		return errors.Wrap(err, "deleting playlist")
	}
	return nil
}

// AddSong appends a song to the playlist. The new entry's position is the
// current max plus one, or one for an empty playlist; the store computes it
// inside the insert so concurrent appends cannot interleave a stale max.
func (s *Service) AddSong(ctx context.Context, playlistID, songID int64) (*db.PlaylistEntry, error) {
	entry, err := s.store.AppendSong(ctx, playlistID, songID)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrConflict):
			return nil, errors.Wrap(db.ErrConflict, "song already in playlist")
		case errors.Is(err, db.ErrNotFound):
			return nil, errors.Wrap(db.ErrNotFound, "playlist or song not found")
		}
		return nil, errors.Wrap(err, "adding song to playlist")
	}
	return entry, nil
}

// RemoveSong deletes a song from the playlist. Remaining entries keep their
// positions; gaps are tolerated.
func (s *Service) RemoveSong(ctx context.Context, playlistID, songID int64) error {
	if err := s.store.RemoveSong(ctx, playlistID, songID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return errors.Wrap(db.ErrNotFound, "song not in playlist")
		}
		return errors.Wrap(err, "removing song from playlist")
	}
	return nil
}

// Reorder overwrites positions for the listed songs in one atomic batch.
// Songs not mentioned keep their prior position.
func (s *Service) Reorder(ctx context.Context, playlistID int64, positions []db.SongPosition) error {
	if len(positions) == 0 {
		return ErrEmptyReorder
	}
	for _, sp := range positions {
		if sp.Position < 1 {
			return errors.Wrapf(ErrInvalidPosition, "song %d", sp.SongID)
		}
	}

	if _, err := s.store.Get(ctx, playlistID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return errors.Wrap(db.ErrNotFound, "playlist not found")
		}
		return errors.Wrap(err, "loading playlist")
	}

	if err := s.store.Reorder(ctx, playlistID, positions); err != nil {
		return errors.Wrap(err, "reordering playlist")
	}
	return nil
}
