package web

import "net/http"

type rateSongRequest struct {
	Rating int `json:"rating" validate:"required"`
}

// GetLibrary handles GET /api/library/{userID}.
func (h *Handlers) GetLibrary(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "userID")
	if !ok {
		respondBadRequest(w, "invalid user id")
		return
	}

	entries, err := h.library.Songs(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, entries, len(entries))
}

// GetLibraryStats handles GET /api/library/{userID}/stats.
func (h *Handlers) GetLibraryStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "userID")
	if !ok {
		respondBadRequest(w, "invalid user id")
		return
	}

	stats, err := h.library.Stats(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, stats)
}

// CheckLibrarySong handles GET /api/library/{userID}/songs/{songID}.
// Absence of the user or song simply reads as not in the library.
func (h *Handlers) CheckLibrarySong(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "userID")
	if !ok {
		respondBadRequest(w, "invalid user id")
		return
	}
	songID, ok := idParam(r, "songID")
	if !ok {
		respondBadRequest(w, "invalid song id")
		return
	}

	inLibrary, err := h.library.Contains(r.Context(), userID, songID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]bool{"in_library": inLibrary})
}

// AddLibrarySong handles POST /api/library/{userID}/songs/{songID}.
func (h *Handlers) AddLibrarySong(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "userID")
	if !ok {
		respondBadRequest(w, "invalid user id")
		return
	}
	songID, ok := idParam(r, "songID")
	if !ok {
		respondBadRequest(w, "invalid song id")
		return
	}

	entry, err := h.library.Add(r.Context(), userID, songID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, entry)
}

// RemoveLibrarySong handles DELETE /api/library/{userID}/songs/{songID}.
// Removing an absent entry is a 404, never a silent success.
func (h *Handlers) RemoveLibrarySong(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "userID")
	if !ok {
		respondBadRequest(w, "invalid user id")
		return
	}
	songID, ok := idParam(r, "songID")
	if !ok {
		respondBadRequest(w, "invalid song id")
		return
	}

	if err := h.library.Remove(r.Context(), userID, songID); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "song removed from library")
}

// RateLibrarySong handles PUT /api/library/{userID}/songs/{songID}/rating.
func (h *Handlers) RateLibrarySong(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "userID")
	if !ok {
		respondBadRequest(w, "invalid user id")
		return
	}
	songID, ok := idParam(r, "songID")
	if !ok {
		respondBadRequest(w, "invalid song id")
		return
	}

	var req rateSongRequest
	if err := h.decodeBody(r, &req); err != nil {
		respondBadRequest(w, "rating is required")
		return
	}

	entry, err := h.library.Rate(r.Context(), userID, songID, req.Rating)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, entry)
}
