// File: internal/repository/user/gorm_user_repository.go
package user

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user cannot be nil")
	}
	if user.Email == "" {
		return nil, errors.New("email is required")
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		log.Printf("[UserRepository] Database error creating user: %v", err)
		return nil, errors.New("database error creating user")
	}
	return user, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if id == 0 {
		return nil, errors.New("invalid user ID")
	}

	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return handleFindError(err, &user, "FindByID")
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, errors.New("email is required")
	}

	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return handleFindError(err, &user, "FindByEmail")
}

func (r *gormUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	if googleID == "" {
		return nil, errors.New("google ID is required")
	}

	var user domain.User
	err := r.db.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error
	return handleFindError(err, &user, "FindByGoogleID")
}

func (r *gormUserRepository) Update(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == 0 {
		return errors.New("invalid user")
	}

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		log.Printf("[UserRepository] Database error updating user ID %d: %v", user.ID, err)
		return errors.New("database error updating user")
	}
	return nil
}

// handleFindError maps gorm errors without leaking query details.
func handleFindError(err error, user *domain.User, operation string) (*domain.User, error) {
	if err == nil {
		return user, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	log.Printf("[UserRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
