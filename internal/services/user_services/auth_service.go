// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/domain"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/repository/user"
)

// Logger is the minimal logging surface this package needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// GoogleProfile is the identity payload the client obtained from Google
// sign-in. Email is the only required field.
type GoogleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type AuthService struct {
	userRepo     user.UserRepository
	jwtSecretKey string
	logger       Logger
}

func NewAuthService(userRepo user.UserRepository, jwtSecretKey string, logger Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		logger:       logger,
	}
}

// LoginWithGoogle finds or creates the account for a Google profile and
// issues a JWT. Profile fields are refreshed on every login.
func (s *AuthService) LoginWithGoogle(ctx context.Context, profile GoogleProfile) (*domain.User, string, error) {
	profile.Email = strings.TrimSpace(profile.Email)
	if profile.Email == "" {
		return nil, "", errors.New("email is required")
	}

	account, err := s.findAccount(ctx, profile)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			return nil, "", fmt.Errorf("account lookup failed: %w", err)
		}
		account, err = s.userRepo.Create(ctx, &domain.User{
			GoogleID: profile.ID,
			Email:    profile.Email,
			Name:     profile.Name,
			Picture:  profile.Picture,
		})
		if err != nil {
			s.logger.Error("account creation failed", "error", err)
			return nil, "", fmt.Errorf("failed to create account: %w", err)
		}
		s.logger.Info("account created", "user_id", account.ID)
	} else if s.refreshProfile(account, profile) {
		if err := s.userRepo.Update(ctx, account); err != nil {
			s.logger.Warn("profile refresh failed", "user_id", account.ID, "error", err)
		}
	}

	token, err := s.generateJWTToken(account)
	if err != nil {
		s.logger.Error("JWT token generation failed", "error", err, "user_id", account.ID)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("login successful", "user_id", account.ID)
	return account, token, nil
}

// findAccount prefers the Google ID; older accounts created before the ID
// was recorded are matched by email.
func (s *AuthService) findAccount(ctx context.Context, profile GoogleProfile) (*domain.User, error) {
	if profile.ID != "" {
		account, err := s.userRepo.FindByGoogleID(ctx, profile.ID)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, user.ErrUserNotFound) {
			return nil, err
		}
	}
	return s.userRepo.FindByEmail(ctx, profile.Email)
}

func (s *AuthService) refreshProfile(account *domain.User, profile GoogleProfile) bool {
	changed := false
	if profile.ID != "" && account.GoogleID != profile.ID {
		account.GoogleID = profile.ID
		changed = true
	}
	if profile.Name != "" && account.Name != profile.Name {
		account.Name = profile.Name
		changed = true
	}
	if profile.Picture != "" && account.Picture != profile.Picture {
		account.Picture = profile.Picture
		changed = true
	}
	return changed
}

// ValidateJWTToken validates a JWT token and returns the user ID.
func (s *AuthService) ValidateJWTToken(tokenString string) (uint, error) {
	if tokenString == "" {
		s.logger.Warn("JWT validation attempted with empty token")
		return 0, errors.New("empty token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			s.logger.Warn("JWT token with invalid signing method", "method", token.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil {
		s.logger.Warn("JWT token validation failed", "error", err)
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userID, ok := claims["user_id"].(float64)
		if !ok {
			s.logger.Warn("JWT token missing user_id claim")
			return 0, errors.New("invalid token claims")
		}
		return uint(userID), nil
	}

	return 0, errors.New("invalid token")
}

func (s *AuthService) generateJWTToken(account *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": account.ID,
		"email":   account.Email,
		"exp":     time.Now().Add(time.Hour * 24 * 7).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecretKey))
}
