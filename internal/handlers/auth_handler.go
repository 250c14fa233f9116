// File: internal/handlers/auth_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/dtos"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services/user_services"
)

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	AuthService *user_services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *user_services.AuthService) *AuthHandler {
	return &AuthHandler{AuthService: service}
}

// GoogleLogin exchanges a Google profile for an API token.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req dtos.GoogleAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.UserInfo.Email) == "" {
		writeError(w, "Email is required", http.StatusBadRequest)
		return
	}

	account, token, err := h.AuthService.LoginWithGoogle(r.Context(), req.UserInfo)
	if err != nil {
		writeError(w, "Could not sign in", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dtos.AuthResponse{Token: token, User: account})
}

// Verify reports whether the bearer token is valid.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		writeError(w, "Missing bearer token", http.StatusUnauthorized)
		return
	}

	userID, err := h.AuthService.ValidateJWTToken(strings.TrimSpace(parts[1]))
	if err != nil {
		writeError(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, dtos.VerifyResponse{Valid: true, UserID: userID})
}
