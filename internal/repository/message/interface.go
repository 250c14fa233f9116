package message

import (
	"context"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/domain"
)

// MessageRepository handles message data operations.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	CreatePair(ctx context.Context, userMsg, aiMsg *domain.Message) error
	FindByID(ctx context.Context, messageID uint) (*domain.Message, error)
	FindByConversationID(ctx context.Context, convID uint) ([]domain.Message, error)
	FindByAudioKey(ctx context.Context, convID uint, audioKey string) (*domain.Message, error)
	DeleteByConversationID(ctx context.Context, convID uint) (int64, error)
	CountByConversationID(ctx context.Context, convID uint) (int64, error)
	FindAudioKeysByConversationID(ctx context.Context, convID uint) ([]string, error)
	SetAudioKey(ctx context.Context, messageID uint, audioKey string) error
}
