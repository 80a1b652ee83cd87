package web

import (
	"net/http"

	"github.com/soundcrate/soundcrate/internal/db"
)

type createPlaylistRequest struct {
	UserID      int64   `json:"user_id" validate:"required,gt=0"`
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
}

type updatePlaylistRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type reorderRequest struct {
	SongPositions []db.SongPosition `json:"song_positions" validate:"required,min=1,dive"`
}

// ListUserPlaylists handles GET /api/playlists/user/{userID}.
func (h *Handlers) ListUserPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "userID")
	if !ok {
		respondBadRequest(w, "invalid user id")
		return
	}

	playlists, err := h.playlists.ListForUser(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, playlists, len(playlists))
}

// GetPlaylist handles GET /api/playlists/{id}, returning the playlist
// header plus its songs ordered by position.
func (h *Handlers) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid playlist id")
		return
	}

	result, err := h.playlists.GetWithSongs(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{
		"playlist": result.Playlist,
		"songs":    result.Songs,
	})
}

// CreatePlaylist handles POST /api/playlists.
func (h *Handlers) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req createPlaylistRequest
	if err := h.decodeBody(r, &req); err != nil {
		respondBadRequest(w, "user id and title are required")
		return
	}

	playlist, err := h.playlists.Create(r.Context(), req.UserID, req.Title, req.Description)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, playlist)
}

// UpdatePlaylist handles PUT /api/playlists/{id}. Absent fields keep their
// prior value; there is no way to clear a description here.
func (h *Handlers) UpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid playlist id")
		return
	}

	var req updatePlaylistRequest
	if err := h.decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	playlist, err := h.playlists.Update(r.Context(), id, req.Title, req.Description)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, playlist)
}

// DeletePlaylist handles DELETE /api/playlists/{id}.
func (h *Handlers) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid playlist id")
		return
	}

	if err := h.playlists.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "playlist deleted successfully")
}

// AddPlaylistSong handles POST /api/playlists/{id}/songs/{songID}. The song
// is appended at the end of the playlist.
func (h *Handlers) AddPlaylistSong(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid playlist id")
		return
	}
	songID, ok := idParam(r, "songID")
	if !ok {
		respondBadRequest(w, "invalid song id")
		return
	}

	entry, err := h.playlists.AddSong(r.Context(), id, songID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, entry)
}

// RemovePlaylistSong handles DELETE /api/playlists/{id}/songs/{songID}.
func (h *Handlers) RemovePlaylistSong(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid playlist id")
		return
	}
	songID, ok := idParam(r, "songID")
	if !ok {
		respondBadRequest(w, "invalid song id")
		return
	}

	if err := h.playlists.RemoveSong(r.Context(), id, songID); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "song removed from playlist")
}

// ReorderPlaylist handles PUT /api/playlists/{id}/reorder.
func (h *Handlers) ReorderPlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid playlist id")
		return
	}

	var req reorderRequest
	if err := h.decodeBody(r, &req); err != nil {
		respondBadRequest(w, "song_positions is required")
		return
	}

	if err := h.playlists.Reorder(r.Context(), id, req.SongPositions); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "playlist reordered")
}
