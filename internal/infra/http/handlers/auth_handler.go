package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/identity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type AuthHandler struct {
	Auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// GoogleLoginRequest carries the profile the browser got from Google. The
// token is accepted but not verified.
type GoogleLoginRequest struct {
	Token string                  `json:"token"`
	User  usecase.GoogleUserInput `json:"user"`
}

type UserResponse struct {
	User *entity.User `json:"user"`
}

// Google (POST /api/auth/google)
func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.Auth.LoginWithGoogle(r.Context(), req.User)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{User: user})
}

// Me (GET /api/auth/me)
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Auth.Me(r.Context(), identity.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
