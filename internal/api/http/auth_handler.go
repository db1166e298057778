package http

import (
	"net/http"
	"time"

	"github.com/javicara/beonbike-sub000/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User      *domain.User `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Login opens a session and sets it as an HttpOnly cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	user, token, expiresAt, err := h.svc.Auth.Login(r.Context(), req.Email, req.Password, r.UserAgent(), clientIP(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.auth.setCookie(w, token, expiresAt)
	writeJSON(w, http.StatusOK, loginResponse{User: user, ExpiresAt: expiresAt})
}

// Logout revokes the session, if any, and always clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := h.auth.token(r); token != "" {
		if err := h.svc.Auth.Logout(r.Context(), token); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	h.auth.clearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := UserFromContext(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
