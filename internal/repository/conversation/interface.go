package conversation

import (
	"context"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/domain"
)

// ConversationRepository handles conversation data operations.
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error)
	FindByID(ctx context.Context, id uint) (*domain.Conversation, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Conversation, error)
	Delete(ctx context.Context, convID uint, userID uint) error
	UpdateSummary(ctx context.Context, convID uint, lastMessage string, messageCount int) error
	UpdateTitle(ctx context.Context, convID uint, title string) error
	CountByUserID(ctx context.Context, userID uint) (int64, error)
}
