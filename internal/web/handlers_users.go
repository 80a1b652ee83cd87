package web

import "net/http"

type updateUserRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ListUsers handles GET /api/users.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, users, len(users))
}

// GetUser handles GET /api/users/{id}.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid user id")
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, user)
}

// UpdateUser handles PUT /api/users/{id}.
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := h.decodeBody(r, &req); err != nil {
		respondBadRequest(w, "a valid email is required")
		return
	}

	user, err := h.users.UpdateEmail(r.Context(), id, req.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/{id}. Library entries and playlists
// cascade away with the account.
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondBadRequest(w, "invalid user id")
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "user deleted successfully")
}
