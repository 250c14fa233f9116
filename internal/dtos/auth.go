// File: internal/dtos/auth.go
package dtos

import (
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/domain"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services/user_services"
)

// GoogleAuthRequest is the body of POST /api/auth/google.
type GoogleAuthRequest struct {
	UserInfo user_services.GoogleProfile `json:"userInfo"`
}

// AuthResponse carries the issued token and the account it belongs to.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// VerifyResponse is the body of GET /api/auth/verify.
type VerifyResponse struct {
	Valid  bool `json:"valid"`
	UserID uint `json:"userId"`
}
