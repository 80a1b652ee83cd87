// Package library manages the per-user song library: membership, ratings,
// and aggregate statistics.
package library

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/soundcrate/soundcrate/internal/db"
)

// ErrInvalidRating is returned when a rating falls outside [1, 5].
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Store is the persistence interface the service needs for library entries.
type Store interface {
	Entries(ctx context.Context, userID int64) ([]db.LibraryEntry, error)
	Contains(ctx context.Context, userID, songID int64) (bool, error)
	Add(ctx context.Context, userID, songID int64) (*db.LibraryEntry, error)
	Remove(ctx context.Context, userID, songID int64) error
	SetRating(ctx context.Context, userID, songID int64, rating int) (*db.LibraryEntry, error)
}

// ExistenceChecker reports whether an entity with the given ID exists.
type ExistenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service implements the library operations. It holds no state of its own;
// every call reads authoritative state from the store.
type Service struct {
	store Store
	users ExistenceChecker
	songs ExistenceChecker
}

// New creates a new library service.
func New(store Store, users, songs ExistenceChecker) *Service {
	return &Service{store: store, users: users, songs: songs}
}

// Songs returns the user's library ordered by added_at descending.
func (s *Service) Songs(ctx context.Context, userID int64) ([]db.LibraryEntry, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	entries, err := s.store.Entries(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "loading library")
	}
	return entries, nil
}

// Contains reports whether the song is in the user's library. Absence of
// the user or song is not an error here; it just reads as false.
func (s *Service) Contains(ctx context.Context, userID, songID int64) (bool, error) {
	return s.store.Contains(ctx, userID, songID)
}

// Add puts a song into the user's library with no rating. The existence
// checks give precise errors; the store's uniqueness constraint is what
// actually prevents a duplicate under concurrent adds.
func (s *Service) Add(ctx context.Context, userID, songID int64) (*db.LibraryEntry, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.checkSong(ctx, songID); err != nil {
		return nil, err
	}

	inLibrary, err := s.store.Contains(ctx, userID, songID)
	if err != nil {
		return nil, errors.Wrap(err, "checking membership")
	}
	if inLibrary {
		return nil, errors.Wrap(db.ErrConflict, "song already in library")
	}

	entry, err := s.store.Add(ctx, userID, songID)
	if err != nil {
		if errors.Is(err, db.ErrConflict) {
			return nil, errors.Wrap(db.ErrConflict, "song already in library")
		}
		return nil, errors.Wrap(err, "adding to library")
	}
	return entry, nil
}

// Remove deletes a song from the user's library. Removing an absent entry
// fails with not found rather than silently succeeding, so a second remove
// of the same pair fails the same way.
func (s *Service) Remove(ctx context.Context, userID, songID int64) error {
	if err := s.store.Remove(ctx, userID, songID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return errors.Wrap(db.ErrNotFound, "song not in library")
		}
		return errors.Wrap(err, "removing from library")
	}
	return nil
}

// Rate overwrites the rating on an existing library entry.
func (s *Service) Rate(ctx context.Context, userID, songID int64, rating int) (*db.LibraryEntry, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, ErrInvalidRating
	}

	entry, err := s.store.SetRating(ctx, userID, songID, rating)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, errors.Wrap(db.ErrNotFound, "song not in library")
		}
		return nil, errors.Wrap(err, "rating song")
	}
	return entry, nil
}

// Stats aggregates over the user's current library entries. Nothing is
// cached; the numbers always reflect live state.
func (s *Service) Stats(ctx context.Context, userID int64) (Stats, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return Stats{}, err
	}
	entries, err := s.store.Entries(ctx, userID)
	if err != nil {
		return Stats{}, errors.Wrap(err, "loading library")
	}
	return ComputeStats(entries), nil
}

func (s *Service) checkUser(ctx context.Context, userID int64) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "checking user")
	}
	if !exists {
		return errors.Wrap(db.ErrNotFound, "user not found")
	}
	return nil
}

func (s *Service) checkSong(ctx context.Context, songID int64) error {
	exists, err := s.songs.Exists(ctx, songID)
	if err != nil {
		return errors.Wrap(err, "checking song")
	}
	if !exists {
		return errors.Wrap(db.ErrNotFound, "song not found")
	}
	return nil
}
