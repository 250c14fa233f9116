// File: internal/services/user_services/auth_service_test.go
package user_services

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/domain"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/repository/user"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	return NewAuthService(user.NewGormUserRepository(db), "test-secret", noopLogger{})
}

func TestLoginCreatesAccountAndTokenRoundTrips(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	account, token, err := svc.LoginWithGoogle(ctx, GoogleProfile{
		ID:    "g-123",
		Email: "learner@example.com",
		Name:  "Learner",
	})
	require.NoError(t, err)
	require.NotZero(t, account.ID)
	require.NotEmpty(t, token)

	userID, err := svc.ValidateJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, userID)
}

func TestLoginReusesExistingAccount(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	first, _, err := svc.LoginWithGoogle(ctx, GoogleProfile{ID: "g-1", Email: "a@example.com", Name: "A"})
	require.NoError(t, err)

	second, _, err := svc.LoginWithGoogle(ctx, GoogleProfile{ID: "g-1", Email: "a@example.com", Name: "A Renamed"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "A Renamed", second.Name)
}

func TestLoginMatchesLegacyAccountByEmail(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	first, _, err := svc.LoginWithGoogle(ctx, GoogleProfile{Email: "b@example.com", Name: "B"})
	require.NoError(t, err)

	second, _, err := svc.LoginWithGoogle(ctx, GoogleProfile{ID: "g-2", Email: "b@example.com", Name: "B"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "g-2", second.GoogleID)
}

func TestLoginRequiresEmail(t *testing.T) {
	svc := newTestAuthService(t)

	_, _, err := svc.LoginWithGoogle(context.Background(), GoogleProfile{Name: "No Email"})
	require.Error(t, err)
}

func TestValidateRejectsForeignToken(t *testing.T) {
	svc := newTestAuthService(t)
	other := newTestAuthService(t)
	other.jwtSecretKey = "different-secret"

	_, token, err := other.LoginWithGoogle(context.Background(), GoogleProfile{Email: "c@example.com"})
	require.NoError(t, err)

	_, err = svc.ValidateJWTToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.ValidateJWTToken(token); err == nil {
			t.Errorf("token %q accepted", token)
		}
	}
}
