package web

import (
	"net/http"

	"github.com/soundcrate/soundcrate/internal/db"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new account and its library, then issues a token
// (POST /api/auth/register).
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decodeBody(r, &req); err != nil {
		respondBadRequest(w, "username, email, and password are required")
		return
	}

	hash, err := h.auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	user := &db.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.users.CreateWithLibrary(r.Context(), user); err != nil {
		respondError(w, r, err)
		return
	}

	token, err := h.auth.IssueToken(user.ID, user.Username)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Message: "user registered successfully",
		Data:    user,
		Token:   token,
	})
}

// Login verifies credentials and issues a token (POST /api/auth/login).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decodeBody(r, &req); err != nil {
		respondBadRequest(w, "username and password are required")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		// Same response whether the user is unknown or the password is
		// wrong, so logins cannot be used to probe for accounts.
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Error: "invalid credentials"})
		return
	}

	if err := h.auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Error: "invalid credentials"})
		return
	}

	token, err := h.auth.IssueToken(user.ID, user.Username)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "login successful",
		Data:    user,
		Token:   token,
	})
}
