package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/soundcrate/soundcrate/internal/db"
)

type createSongRequest struct {
	ArtistID        int64      `json:"artist_id" validate:"required,gt=0"`
	AlbumID         *int64     `json:"album_id"`
	Title           string     `json:"title" validate:"required"`
	DurationSeconds int        `json:"duration_seconds" validate:"required,gt=0"`
	Genre           *string    `json:"genre"`
	TrackNumber     *int       `json:"track_number"`
	ReleaseDate     *time.Time `json:"release_date"`
}

type updateSongRequest struct {
	Title           *string `json:"title"`
	DurationSeconds *int    `json:"duration_seconds" validate:"omitempty,gt=0"`
	Genre           *string `json:"genre"`
	TrackNumber     *int    `json:"track_number"`
}

// ListSongs handles GET /api/songs.
func (h *Handlers) ListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songs.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, songs, len(songs))
}

// SearchSongs handles GET /api/songs/search?title=&genre=&artist=
func (h *Handlers) SearchSongs(w http.ResponseWriter, r *http.Request) {
	filter := db.SearchFilter{
		Title:  r.URL.Query().Get("title"),
		Genre:  r.URL.Query().Get("genre"),
		Artist: r.URL.Query().Get("artist"),
	}

	songs, err := h.songs.Search(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, songs, len(songs))
}

// ListSongsByGenre handles GET /api/songs/genre/{genre}.
func (h *Handlers) ListSongsByGenre(w http.ResponseWriter, r *http.Request) {
	genre := chi.URLParam(r, "genre")
	if genre == "" {
		respondBadRequest(w, "genre is required")
		return
	}

	songs, err := h.songs.ListByGenre(r.Context(), genre)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, songs, len(songs))
}

// GetSong handles GET /api/songs/{id}.
func (h *Handlers) GetSong(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid song id")
		return
	}

	song, err := h.songs.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, song)
}

// CreateSong handles POST /api/songs.
func (h *Handlers) CreateSong(w http.ResponseWriter, r *http.Request) {
	var req createSongRequest
	if err := h.decodeBody(r, &req); err != nil {
		respondBadRequest(w, "artist id, title, and duration are required")
		return
	}

	song := &db.Song{
		ArtistID:        req.ArtistID,
		AlbumID:         req.AlbumID,
		Title:           req.Title,
		DurationSeconds: req.DurationSeconds,
		Genre:           req.Genre,
		TrackNumber:     req.TrackNumber,
		ReleaseDate:     req.ReleaseDate,
	}
	if err := h.songs.Create(r.Context(), song); err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, song)
}

// UpdateSong handles PUT /api/songs/{id}. Absent fields keep their prior
// value.
func (h *Handlers) UpdateSong(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid song id")
		return
	}

	var req updateSongRequest
	if err := h.decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	song, err := h.songs.Update(r.Context(), id, req.Title, req.DurationSeconds, req.Genre, req.TrackNumber)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, song)
}

// DeleteSong handles DELETE /api/songs/{id}. Library and playlist entries
// referencing the song cascade away.
func (h *Handlers) DeleteSong(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid song id")
		return
	}

	if err := h.songs.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "song deleted successfully")
}
