package web

import (
	"net/http"

	"github.com/soundcrate/soundcrate/internal/db"
)

type createArtistRequest struct {
	Name      string  `json:"name" validate:"required"`
	Biography *string `json:"biography"`
	Country   *string `json:"country"`
	BirthYear *int    `json:"birth_year"`
	DeathYear *int    `json:"death_year"`
}

type updateArtistRequest struct {
	Name      *string `json:"name"`
	Biography *string `json:"biography"`
	Country   *string `json:"country"`
	BirthYear *int    `json:"birth_year"`
	DeathYear *int    `json:"death_year"`
}

// ListArtists handles GET /api/artists.
func (h *Handlers) ListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.artists.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, artists, len(artists))
}

// SearchArtists handles GET /api/artists/search?name=...
func (h *Handlers) SearchArtists(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondBadRequest(w, "name query parameter is required")
		return
	}

	artists, err := h.artists.Search(r.Context(), name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, artists, len(artists))
}

// GetArtist handles GET /api/artists/{id}, returning the artist together
// with their albums and songs.
func (h *Handlers) GetArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid artist id")
		return
	}

	artist, err := h.artists.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	albums, err := h.albums.ListByArtist(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	songs, err := h.songs.ListByArtist(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"artist": artist,
		"albums": albums,
		"songs":  songs,
	})
}

// CreateArtist handles POST /api/artists.
func (h *Handlers) CreateArtist(w http.ResponseWriter, r *http.Request) {
	var req createArtistRequest
	if err := h.decodeBody(r, &req); err != nil {
		respondBadRequest(w, "artist name is required")
		return
	}

	artist := &db.Artist{
		Name:      req.Name,
		Biography: req.Biography,
		Country:   req.Country,
		BirthYear: req.BirthYear,
		DeathYear: req.DeathYear,
	}
	if err := h.artists.Create(r.Context(), artist); err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, artist)
}

// UpdateArtist handles PUT /api/artists/{id}. Absent fields keep their
// prior value.
func (h *Handlers) UpdateArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid artist id")
		return
	}

	var req updateArtistRequest
	if err := h.decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	artist, err := h.artists.Update(r.Context(), id, req.Name, req.Biography, req.Country, req.BirthYear, req.DeathYear)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, artist)
}

// DeleteArtist handles DELETE /api/artists/{id}.
func (h *Handlers) DeleteArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid artist id")
		return
	}

	if err := h.artists.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "artist deleted successfully")
}
