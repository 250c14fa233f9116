// File: internal/repository/conversation/conversation_repository.go
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/domain"
)

var ErrConversationNotFound = errors.New("conversation not found")
var ErrUnauthorizedAccess = errors.New("unauthorized access to conversation")

type gormConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db}
}

// Create validates input and inserts the conversation.
func (r *gormConversationRepository) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	if err := r.validateInput(conv); err != nil {
		log.Printf("[ConversationRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
		// Secure logging - no message content exposed
		log.Printf("[ConversationRepository] Database error during creation for user ID %d: %v", conv.UserID, err)
		return nil, errors.New("database error creating conversation")
	}

	return conv, nil
}

func (r *gormConversationRepository) FindByID(ctx context.Context, id uint) (*domain.Conversation, error) {
	if id == 0 {
		return nil, errors.New("invalid conversation ID")
	}

	var conv domain.Conversation
	err := r.db.WithContext(ctx).First(&conv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		log.Printf("[ConversationRepository] FindByID database error: %v", err)
		return nil, errors.New("database query failed")
	}
	return &conv, nil
}

// FindByUserID returns the user's conversations, most recently updated first.
func (r *gormConversationRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Conversation, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var convs []domain.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Find(&convs).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error finding conversations for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching conversations")
	}
	return convs, nil
}

// Delete removes the conversation row only. Message and audio cleanup is the
// caller's responsibility; it must happen before this call.
func (r *gormConversationRepository) Delete(ctx context.Context, convID, userID uint) error {
	if convID == 0 || userID == 0 {
		return errors.New("invalid conversation ID or user ID")
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", convID, userID).
		Delete(&domain.Conversation{})
	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error deleting conversation ID %d for user ID %d: %v", convID, userID, result.Error)
		return errors.New("database error deleting conversation")
	}
	if result.RowsAffected == 0 {
		return ErrUnauthorizedAccess
	}
	return nil
}

// UpdateSummary refreshes the list-view fields after a message append and
// touches updated_at so the list re-sorts by recency.
func (r *gormConversationRepository) UpdateSummary(ctx context.Context, convID uint, lastMessage string, messageCount int) error {
	if convID == 0 {
		return errors.New("invalid conversation ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", convID).
		Updates(map[string]interface{}{
			"last_message":  lastMessage,
			"message_count": messageCount,
			"updated_at":    gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error updating summary for conversation ID %d: %v", convID, result.Error)
		return errors.New("database error updating conversation summary")
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

func (r *gormConversationRepository) UpdateTitle(ctx context.Context, convID uint, title string) error {
	if convID == 0 {
		return errors.New("invalid conversation ID")
	}
	if err := r.validateTitle(title); err != nil {
		return fmt.Errorf("title validation: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", convID).
		Update("title", title)
	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error updating title for conversation ID %d: %v", convID, result.Error)
		return errors.New("database error updating conversation title")
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

func (r *gormConversationRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, errors.New("invalid user ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Conversation{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error counting conversations for user ID %d: %v", userID, err)
		return 0, errors.New("database error counting conversations")
	}
	return count, nil
}

// ===== VALIDATION HELPERS =====

func (r *gormConversationRepository) validateInput(conv *domain.Conversation) error {
	if conv == nil {
		return errors.New("conversation cannot be nil")
	}
	if conv.UserID == 0 {
		return errors.New("user ID is required")
	}
	return r.validateTitle(conv.Title)
}

func (r *gormConversationRepository) validateTitle(title string) error {
	if utf8.RuneCountInString(title) > 200 {
		return errors.New("title must be 200 characters or less")
	}
	if strings.Contains(title, "<script") || strings.Contains(title, "javascript:") {
		return errors.New("invalid characters detected in title")
	}
	return nil
}
