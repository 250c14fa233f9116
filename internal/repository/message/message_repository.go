// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/domain"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if err := validateMessage(msg); err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		log.Printf("[MessageRepository] Database error creating message for conversation ID %d: %v", msg.ConversationID, err)
		return nil, errors.New("database error creating message")
	}
	return msg, nil
}

// CreatePair inserts a user message and its AI reply in one transaction so a
// turn is never half-persisted. Insertion order fixes the ID ordering: the
// user message always gets the smaller ID.
func (r *gormMessageRepository) CreatePair(ctx context.Context, userMsg, aiMsg *domain.Message) error {
	if err := validateMessage(userMsg); err != nil {
		return err
	}
	if err := validateMessage(aiMsg); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userMsg).Error; err != nil {
			return err
		}
		return tx.Create(aiMsg).Error
	})
	if err != nil {
		log.Printf("[MessageRepository] Database error creating message pair for conversation ID %d: %v", userMsg.ConversationID, err)
		return errors.New("database error creating message pair")
	}
	return nil
}

func (r *gormMessageRepository) FindByID(ctx context.Context, messageID uint) (*domain.Message, error) {
	if messageID == 0 {
		return nil, errors.New("invalid message ID")
	}

	var msg domain.Message
	err := r.db.WithContext(ctx).First(&msg, messageID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		log.Printf("[MessageRepository] FindByID database error: %v", err)
		return nil, errors.New("database query failed")
	}
	return &msg, nil
}

// FindByAudioKey resolves an audio reference within one conversation, so a
// key can never be dereferenced across conversation boundaries.
func (r *gormMessageRepository) FindByAudioKey(ctx context.Context, convID uint, audioKey string) (*domain.Message, error) {
	if convID == 0 || audioKey == "" {
		return nil, errors.New("invalid conversation ID or audio key")
	}

	var msg domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND audio_key = ?", convID, audioKey).
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		log.Printf("[MessageRepository] FindByAudioKey database error: %v", err)
		return nil, errors.New("database query failed")
	}
	return &msg, nil
}

// FindByConversationID returns messages ordered by creation time. The paired
// 1 ms offset between a user turn and its reply keeps this ordering stable.
func (r *gormMessageRepository) FindByConversationID(ctx context.Context, convID uint) ([]domain.Message, error) {
	if convID == 0 {
		return nil, errors.New("invalid conversation ID")
	}

	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for conversation ID %d: %v", convID, err)
		return nil, errors.New("database error fetching messages")
	}
	return msgs, nil
}

func (r *gormMessageRepository) DeleteByConversationID(ctx context.Context, convID uint) (int64, error) {
	if convID == 0 {
		return 0, errors.New("invalid conversation ID")
	}

	result := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Delete(&domain.Message{})
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error deleting messages for conversation ID %d: %v", convID, result.Error)
		return 0, errors.New("database error deleting messages")
	}
	return result.RowsAffected, nil
}

func (r *gormMessageRepository) CountByConversationID(ctx context.Context, convID uint) (int64, error) {
	if convID == 0 {
		return 0, errors.New("invalid conversation ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("conversation_id = ?", convID).Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for conversation ID %d: %v", convID, err)
		return 0, errors.New("database error counting messages")
	}
	return count, nil
}

// FindAudioKeysByConversationID lists the non-empty audio references of a
// conversation, used for cascade cleanup of the audio object store.
func (r *gormMessageRepository) FindAudioKeysByConversationID(ctx context.Context, convID uint) ([]string, error) {
	if convID == 0 {
		return nil, errors.New("invalid conversation ID")
	}

	var keys []string
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("conversation_id = ? AND audio_key <> ''", convID).
		Pluck("audio_key", &keys).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error listing audio keys for conversation ID %d: %v", convID, err)
		return nil, errors.New("database error listing audio keys")
	}
	return keys, nil
}

func (r *gormMessageRepository) SetAudioKey(ctx context.Context, messageID uint, audioKey string) error {
	if messageID == 0 {
		return errors.New("invalid message ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ?", messageID).
		Update("audio_key", audioKey)
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error setting audio key for message ID %d: %v", messageID, result.Error)
		return errors.New("database error setting audio key")
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func validateMessage(msg *domain.Message) error {
	if msg == nil {
		return errors.New("message cannot be nil")
	}
	if msg.ConversationID == 0 {
		return errors.New("conversation ID is required")
	}
	if msg.Role != domain.RoleUser && msg.Role != domain.RoleAI {
		return errors.New("role must be user or ai")
	}
	return nil
}
