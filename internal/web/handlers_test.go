package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundcrate/soundcrate/internal/auth"
	"github.com/soundcrate/soundcrate/internal/db"
	"github.com/soundcrate/soundcrate/internal/library"
	"github.com/soundcrate/soundcrate/internal/playlist"
)

const testSecret = "test-secret-0123456789abcdef"

// fakeUsers implements UserStore in memory.
type fakeUsers struct {
	nextID int64
	users  map[int64]*db.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{nextID: 1, users: make(map[int64]*db.User)}
}

func (f *fakeUsers) CreateWithLibrary(_ context.Context, user *db.User) error {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return db.ErrConflict
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUsers) Get(_ context.Context, id int64) (*db.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*db.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeUsers) List(_ context.Context) ([]db.User, error) {
	var out []db.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUsers) UpdateEmail(_ context.Context, id int64, email string) (*db.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	u.Email = email
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

// fakeLibrary implements LibraryService with in-memory membership.
type fakeLibrary struct {
	users   map[int64]bool
	songs   map[int64]db.Song
	entries map[[2]int64]*db.LibraryEntry
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		users:   make(map[int64]bool),
		songs:   make(map[int64]db.Song),
		entries: make(map[[2]int64]*db.LibraryEntry),
	}
}

func (f *fakeLibrary) Songs(_ context.Context, userID int64) ([]db.LibraryEntry, error) {
	if !f.users[userID] {
		return nil, errors.Wrap(db.ErrNotFound, "user not found")
	}
	var out []db.LibraryEntry
	for k, e := range f.entries {
		if k[0] != userID {
			continue
		}
		entry := *e
		entry.Song = f.songs[k[1]]
		out = append(out, entry)
	}
	return out, nil
}

func (f *fakeLibrary) Contains(_ context.Context, userID, songID int64) (bool, error) {
	_, ok := f.entries[[2]int64{userID, songID}]
	return ok, nil
}

func (f *fakeLibrary) Add(_ context.Context, userID, songID int64) (*db.LibraryEntry, error) {
	if !f.users[userID] {
		return nil, errors.Wrap(db.ErrNotFound, "user not found")
	}
	if _, ok := f.songs[songID]; !ok {
		return nil, errors.Wrap(db.ErrNotFound, "song not found")
	}
	k := [2]int64{userID, songID}
	if _, ok := f.entries[k]; ok {
		return nil, errors.Wrap(db.ErrConflict, "song already in library")
	}
	e := &db.LibraryEntry{UserID: userID, SongID: songID, AddedAt: time.Now()}
	f.entries[k] = e
	return e, nil
}

func (f *fakeLibrary) Remove(_ context.Context, userID, songID int64) error {
	k := [2]int64{userID, songID}
	if _, ok := f.entries[k]; !ok {
		return errors.Wrap(db.ErrNotFound, "song not in library")
	}
	delete(f.entries, k)
	return nil
}

func (f *fakeLibrary) Rate(_ context.Context, userID, songID int64, rating int) (*db.LibraryEntry, error) {
	if rating < library.MinRating || rating > library.MaxRating {
		return nil, library.ErrInvalidRating
	}
	e, ok := f.entries[[2]int64{userID, songID}]
	if !ok {
		return nil, errors.Wrap(db.ErrNotFound, "song not in library")
	}
	e.Rating = &rating
	return e, nil
}

func (f *fakeLibrary) Stats(ctx context.Context, userID int64) (library.Stats, error) {
	entries, err := f.Songs(ctx, userID)
	if err != nil {
		return library.Stats{}, err
	}
	return library.ComputeStats(entries), nil
}

// fakePlaylists implements PlaylistService with canned behavior per call.
type fakePlaylists struct {
	playlists map[int64]*db.Playlist
	entries   map[int64][]db.PlaylistEntry
	nextID    int64
}

func newFakePlaylists() *fakePlaylists {
	return &fakePlaylists{
		playlists: make(map[int64]*db.Playlist),
		entries:   make(map[int64][]db.PlaylistEntry),
		nextID:    1,
	}
}

func (f *fakePlaylists) ListForUser(_ context.Context, userID int64) ([]db.Playlist, error) {
	var out []db.Playlist
	for _, p := range f.playlists {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePlaylists) GetWithSongs(_ context.Context, playlistID int64) (*playlist.WithSongs, error) {
	p, ok := f.playlists[playlistID]
	if !ok {
		return nil, errors.Wrap(db.ErrNotFound, "playlist not found")
	}
	return &playlist.WithSongs{Playlist: *p, Songs: f.entries[playlistID]}, nil
}

func (f *fakePlaylists) Create(_ context.Context, userID int64, title string, description *string) (*db.Playlist, error) {
	if title == "" {
		return nil, playlist.ErrEmptyTitle
	}
	p := &db.Playlist{ID: f.nextID, UserID: userID, Title: title, Description: description, CreatedAt: time.Now()}
	f.nextID++
	f.playlists[p.ID] = p
	return p, nil
}

func (f *fakePlaylists) Update(_ context.Context, playlistID int64, title, description *string) (*db.Playlist, error) {
	p, ok := f.playlists[playlistID]
	if !ok {
		return nil, errors.Wrap(db.ErrNotFound, "playlist not found")
	}
	if title != nil {
		p.Title = *title
	}
	if description != nil {
		p.Description = description
	}
	return p, nil
}

func (f *fakePlaylists) Delete(_ context.Context, playlistID int64) error {
	if _, ok := f.playlists[playlistID]; !ok {
		return errors.Wrap(db.ErrNotFound, "playlist not found")
	}
	delete(f.playlists, playlistID)
	delete(f.entries, playlistID)
	return nil
}

func (f *fakePlaylists) AddSong(_ context.Context, playlistID, songID int64) (*db.PlaylistEntry, error) {
	if _, ok := f.playlists[playlistID]; !ok {
		return nil, errors.Wrap(db.ErrNotFound, "playlist or song not found")
	}
	for _, e := range f.entries[playlistID] {
		if e.SongID == songID {
			return nil, errors.Wrap(db.ErrConflict, "song already in playlist")
		}
	}
	entry := db.PlaylistEntry{PlaylistID: playlistID, SongID: songID, Position: len(f.entries[playlistID]) + 1}
	f.entries[playlistID] = append(f.entries[playlistID], entry)
	return &entry, nil
}

func (f *fakePlaylists) RemoveSong(_ context.Context, playlistID, songID int64) error {
	entries := f.entries[playlistID]
	for i, e := range entries {
		if e.SongID == songID {
			f.entries[playlistID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return errors.Wrap(db.ErrNotFound, "song not in playlist")
}

func (f *fakePlaylists) Reorder(_ context.Context, playlistID int64, positions []db.SongPosition) error {
	if len(positions) == 0 {
		return playlist.ErrEmptyReorder
	}
	if _, ok := f.playlists[playlistID]; !ok {
		return errors.Wrap(db.ErrNotFound, "playlist not found")
	}
	for _, sp := range positions {
		for i := range f.entries[playlistID] {
			if f.entries[playlistID][i].SongID == sp.SongID {
				f.entries[playlistID][i].Position = sp.Position
			}
		}
	}
	return nil
}

type testEnv struct {
	router    chi.Router
	auth      *auth.Manager
	users     *fakeUsers
	library   *fakeLibrary
	playlists *fakePlaylists
	token     string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	manager := auth.NewManager(testSecret, time.Hour)
	users := newFakeUsers()
	lib := newFakeLibrary()
	pls := newFakePlaylists()

	handlers := NewHandlers(users, nil, nil, nil, lib, pls, manager)

	s := &Server{
		router:   chi.NewRouter(),
		handlers: handlers,
		auth:     manager,
		logger:   zerolog.Nop(),
	}
	s.setupMiddleware()
	s.setupRoutes()

	token, err := manager.IssueToken(1, "alice")
	require.NoError(t, err)

	return &testEnv{
		router:    s.router,
		auth:      manager,
		users:     users,
		library:   lib,
		playlists: pls,
		token:     token,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+e.token)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/songs/", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/songs/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	// Duplicate username conflicts.
	rec = env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Short password fails validation.
	rec = env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeEnvelope(t, rec)
	assert.NotEmpty(t, body["token"])

	rec = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "nobody",
		"password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestLibraryScenario walks the canonical flow: empty library, add one
// song, check stats, remove it, check stats again.
func TestLibraryScenario(t *testing.T) {
	env := newTestEnv(t)
	env.library.users[1] = true
	env.library.songs[10] = db.Song{ID: 10, ArtistID: 5, DurationSeconds: 240}

	rec := env.do(t, http.MethodPost, "/api/library/1/songs/10", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/library/1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["total_songs"])
	assert.Equal(t, float64(1), data["unique_artists"])
	assert.Equal(t, float64(0), data["unique_albums"])
	assert.Equal(t, float64(240), data["total_duration_seconds"])

	rec = env.do(t, http.MethodDelete, "/api/library/1/songs/10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/library/1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeEnvelope(t, rec)
	data = body["data"].(map[string]any)
	assert.Equal(t, float64(0), data["total_songs"])
}

func TestLibraryErrorMapping(t *testing.T) {
	env := newTestEnv(t)
	env.library.users[1] = true
	env.library.songs[10] = db.Song{ID: 10, ArtistID: 5, DurationSeconds: 240}

	// Unknown user: 404.
	rec := env.do(t, http.MethodPost, "/api/library/99/songs/10", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, false, body["success"])

	// Duplicate add: 409.
	rec = env.do(t, http.MethodPost, "/api/library/1/songs/10", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/library/1/songs/10", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Remove of an entry never added: 404.
	rec = env.do(t, http.MethodDelete, "/api/library/1/songs/11", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Out-of-range ratings: 400.
	for _, rating := range []int{0, 6} {
		rec = env.do(t, http.MethodPut, "/api/library/1/songs/10/rating", map[string]int{"rating": rating})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "rating %d", rating)
	}

	// Valid rating sticks.
	rec = env.do(t, http.MethodPut, "/api/library/1/songs/10/rating", map[string]int{"rating": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(3), data["rating"])

	// Bad path parameter: 400.
	rec = env.do(t, http.MethodGet, "/api/library/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLibraryMembershipCheck(t *testing.T) {
	env := newTestEnv(t)
	env.library.users[1] = true
	env.library.songs[10] = db.Song{ID: 10, ArtistID: 5, DurationSeconds: 240}

	rec := env.do(t, http.MethodGet, "/api/library/1/songs/10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, false, data["in_library"])

	rec = env.do(t, http.MethodPost, "/api/library/1/songs/10", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/library/1/songs/10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeEnvelope(t, rec)
	data = body["data"].(map[string]any)
	assert.Equal(t, true, data["in_library"])
}

func TestPlaylistEndpoints(t *testing.T) {
	env := newTestEnv(t)

	// Empty title: 400.
	rec := env.do(t, http.MethodPost, "/api/playlists/", map[string]any{"user_id": 1, "title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/playlists/", map[string]any{"user_id": 1, "title": "Mix"})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	playlistID := int64(data["id"].(float64))

	// Append three songs, positions 1..3.
	for i, songID := range []int64{100, 200, 300} {
		rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/playlists/%d/songs/%d", playlistID, songID), nil)
		require.Equal(t, http.StatusCreated, rec.Code)
		body = decodeEnvelope(t, rec)
		entry := body["data"].(map[string]any)
		assert.Equal(t, float64(i+1), entry["position"])
	}

	// Duplicate add: 409.
	rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/playlists/%d/songs/100", playlistID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Reorder swaps the first two songs.
	rec = env.do(t, http.MethodPut, fmt.Sprintf("/api/playlists/%d/reorder", playlistID), map[string]any{
		"song_positions": []map[string]any{
			{"song_id": 100, "position": 2},
			{"song_id": 200, "position": 1},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Empty reorder batch: 400.
	rec = env.do(t, http.MethodPut, fmt.Sprintf("/api/playlists/%d/reorder", playlistID), map[string]any{
		"song_positions": []map[string]any{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing playlist: 404.
	rec = env.do(t, http.MethodGet, "/api/playlists/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Remove, then remove again: 200 then 404.
	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/playlists/%d/songs/300", playlistID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/playlists/%d/songs/300", playlistID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Delete playlist, then fetch: 404.
	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/playlists/%d", playlistID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/playlists/%d", playlistID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEnvelopeHasCount(t *testing.T) {
	env := newTestEnv(t)
	env.library.users[1] = true
	env.library.songs[10] = db.Song{ID: 10, ArtistID: 5, DurationSeconds: 240}

	rec := env.do(t, http.MethodPost, "/api/library/1/songs/10", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/library/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["count"])
}
