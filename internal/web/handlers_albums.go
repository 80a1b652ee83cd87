package web

import (
	"net/http"
	"time"

	"github.com/soundcrate/soundcrate/internal/db"
)

type createAlbumRequest struct {
	ArtistID    int64      `json:"artist_id" validate:"required,gt=0"`
	Title       string     `json:"title" validate:"required"`
	ReleaseDate *time.Time `json:"release_date"`
	CoverURL    *string    `json:"cover_url"`
}

type updateAlbumRequest struct {
	Title       *string    `json:"title"`
	ReleaseDate *time.Time `json:"release_date"`
	CoverURL    *string    `json:"cover_url"`
}

// ListAlbums handles GET /api/albums.
func (h *Handlers) ListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.albums.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, albums, len(albums))
}

// GetAlbum handles GET /api/albums/{id}, returning the album with its
// songs ordered by track number.
func (h *Handlers) GetAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid album id")
		return
	}

	album, err := h.albums.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	songs, err := h.songs.ListByAlbum(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"album": album,
		"songs": songs,
	})
}

// ListAlbumsByArtist handles GET /api/albums/artist/{artistID}.
func (h *Handlers) ListAlbumsByArtist(w http.ResponseWriter, r *http.Request) {
	artistID, ok := idParam(r, "artistID")
	if !ok {
		respondBadRequest(w, "invalid artist id")
		return
	}

	albums, err := h.albums.ListByArtist(r.Context(), artistID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, albums, len(albums))
}

// CreateAlbum handles POST /api/albums.
func (h *Handlers) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req createAlbumRequest
	if err := h.decodeBody(r, &req); err != nil {
		respondBadRequest(w, "artist id and title are required")
		return
	}

	album := &db.Album{
		ArtistID:    req.ArtistID,
		Title:       req.Title,
		ReleaseDate: req.ReleaseDate,
		CoverURL:    req.CoverURL,
	}
	if err := h.albums.Create(r.Context(), album); err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, album)
}

// UpdateAlbum handles PUT /api/albums/{id}. Absent fields keep their prior
// value.
func (h *Handlers) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid album id")
		return
	}

	var req updateAlbumRequest
	if err := h.decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	album, err := h.albums.Update(r.Context(), id, req.Title, req.ReleaseDate, req.CoverURL)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, album)
}

// DeleteAlbum handles DELETE /api/albums/{id}.
func (h *Handlers) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid album id")
		return
	}

	if err := h.albums.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "album deleted successfully")
}
