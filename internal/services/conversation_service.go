// File: internal/services/conversation_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/domain"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/repository/audio"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/repository/conversation"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/repository/message"
)

var ErrUnauthorized = errors.New("conversation not found or unauthorized")

const (
	maxTitleLength       = 100
	maxLastMessageLength = 120
)

// ConversationService owns conversation lifecycle and turn persistence:
// create-on-demand, paired message appends, summary upkeep, and cascade
// delete across messages and audio objects.
type ConversationService struct {
	convRepo    conversation.ConversationRepository
	messageRepo message.MessageRepository
	audioStore  audio.ObjectStore
	logger      Logger
	clock       func() time.Time
}

func NewConversationService(
	convRepo conversation.ConversationRepository,
	messageRepo message.MessageRepository,
	audioStore audio.ObjectStore,
	logger Logger,
) (*ConversationService, error) {
	if convRepo == nil {
		return nil, errors.New("conversation repository is required")
	}
	if messageRepo == nil {
		return nil, errors.New("message repository is required")
	}
	if audioStore == nil {
		return nil, errors.New("audio store is required")
	}

	return &ConversationService{
		convRepo:    convRepo,
		messageRepo: messageRepo,
		audioStore:  audioStore,
		logger:      logger,
		clock:       time.Now,
	}, nil
}

// SetClock overrides the time source, for tests.
func (s *ConversationService) SetClock(clock func() time.Time) { s.clock = clock }

func (s *ConversationService) GetUserConversations(ctx context.Context, userID uint) ([]domain.Conversation, error) {
	return s.convRepo.FindByUserID(ctx, userID)
}

// CreateConversation starts a new thread. The title may be empty; it is
// filled in from the first user utterance on the first append.
func (s *ConversationService) CreateConversation(ctx context.Context, userID uint, title string) (*domain.Conversation, error) {
	title = truncate(strings.TrimSpace(title), maxTitleLength)
	return s.convRepo.Create(ctx, &domain.Conversation{UserID: userID, Title: title})
}

// GetMessages returns the ordered messages of a conversation the user owns.
// Audio references stay as keys; bytes are fetched separately on demand.
func (s *ConversationService) GetMessages(ctx context.Context, userID, convID uint) ([]domain.Message, error) {
	if _, err := s.ownedConversation(ctx, userID, convID); err != nil {
		return nil, err
	}
	return s.messageRepo.FindByConversationID(ctx, convID)
}

// AppendTurn persists one completed turn: the user message and its paired AI
// reply. The pair shares a base timestamp with the reply offset by exactly
// 1 ms so sorting by creation time is deterministic after reload. Returns
// the stored user message so callers can attach recorded audio to it.
func (s *ConversationService) AppendTurn(ctx context.Context, userID, convID uint, result *MessageResponse) (*domain.Message, *domain.Message, error) {
	if result == nil {
		return nil, nil, errors.New("pipeline result is required")
	}

	conv, created, err := s.conversationForTurn(ctx, userID, convID)
	if err != nil {
		return nil, nil, err
	}

	base := s.clock()
	userMsg := &domain.Message{
		ConversationID: conv.ID,
		Role:           domain.RoleUser,
		Text:           result.Transcription,
		CorrectedText:  result.CorrectedText,
		Explanation:    result.Explanation,
		CreatedAt:      base,
	}
	aiMsg := &domain.Message{
		ConversationID: conv.ID,
		Role:           domain.RoleAI,
		Text:           result.AIResponseText,
		ReplyText:      result.AIResponseText,
		CreatedAt:      base.Add(time.Millisecond),
	}

	if err := s.messageRepo.CreatePair(ctx, userMsg, aiMsg); err != nil {
		return nil, nil, err
	}

	if created || conv.Title == "" {
		if err := s.convRepo.UpdateTitle(ctx, conv.ID, truncate(result.Transcription, maxTitleLength)); err != nil {
			s.logger.Warn("failed to set conversation title", "conversation_id", conv.ID, "error", err)
		}
	}

	count, err := s.messageRepo.CountByConversationID(ctx, conv.ID)
	if err != nil {
		s.logger.Warn("failed to count messages", "conversation_id", conv.ID, "error", err)
		count = int64(conv.MessageCount + 2)
	}
	if err := s.convRepo.UpdateSummary(ctx, conv.ID, truncate(result.AIResponseText, maxLastMessageLength), int(count)); err != nil {
		s.logger.Warn("failed to update conversation summary", "conversation_id", conv.ID, "error", err)
	}

	return userMsg, aiMsg, nil
}

// AttachAudio stores recorded audio bytes for a message under the derived
// key and records the reference on the message row. The message must belong
// to the named conversation; a message ID from another conversation is
// rejected even when the requester owns the conversation in the request.
func (s *ConversationService) AttachAudio(ctx context.Context, userID, convID, messageID uint, payload []byte) (string, error) {
	if _, err := s.ownedConversation(ctx, userID, convID); err != nil {
		return "", err
	}
	msg, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil || msg.ConversationID != convID {
		return "", ErrUnauthorized
	}

	key := domain.AudioKeyFor(messageID)
	if err := s.audioStore.Put(ctx, key, payload); err != nil {
		return "", err
	}
	if err := s.messageRepo.SetAudioKey(ctx, messageID, key); err != nil {
		// Roll the orphaned object back so the store holds no unreferenced bytes.
		_ = s.audioStore.Delete(ctx, key)
		return "", err
	}
	return key, nil
}

// GetAudio resolves an audio reference to its bytes. The key must be
// referenced by a message of the named conversation; keys belonging to other
// conversations read as not found.
func (s *ConversationService) GetAudio(ctx context.Context, userID, convID uint, key string) ([]byte, error) {
	if _, err := s.ownedConversation(ctx, userID, convID); err != nil {
		return nil, err
	}
	if _, err := s.messageRepo.FindByAudioKey(ctx, convID, key); err != nil {
		return nil, audio.ErrAudioNotFound
	}
	return s.audioStore.Get(ctx, key)
}

// Authorize reports whether the user may write to the conversation. A zero
// ID is allowed: it means a conversation will be created on demand.
func (s *ConversationService) Authorize(ctx context.Context, userID, convID uint) error {
	if convID == 0 {
		return nil
	}
	_, err := s.ownedConversation(ctx, userID, convID)
	return err
}

// DeleteConversation cascades: message rows, every referenced audio object,
// then the conversation itself.
func (s *ConversationService) DeleteConversation(ctx context.Context, userID, convID uint) error {
	if _, err := s.ownedConversation(ctx, userID, convID); err != nil {
		return err
	}

	audioKeys, err := s.messageRepo.FindAudioKeysByConversationID(ctx, convID)
	if err != nil {
		return err
	}
	if err := s.audioStore.DeleteAll(ctx, audioKeys); err != nil {
		return err
	}
	if _, err := s.messageRepo.DeleteByConversationID(ctx, convID); err != nil {
		return err
	}

	s.logger.Info("conversation deleted",
		"conversation_id", convID,
		"audio_objects_removed", len(audioKeys))
	return s.convRepo.Delete(ctx, convID, userID)
}

// conversationForTurn loads the target conversation, creating one on demand
// when convID is zero.
func (s *ConversationService) conversationForTurn(ctx context.Context, userID, convID uint) (*domain.Conversation, bool, error) {
	if convID == 0 {
		conv, err := s.convRepo.Create(ctx, &domain.Conversation{UserID: userID})
		if err != nil {
			return nil, false, err
		}
		return conv, true, nil
	}
	conv, err := s.ownedConversation(ctx, userID, convID)
	if err != nil {
		return nil, false, err
	}
	return conv, false, nil
}

func (s *ConversationService) ownedConversation(ctx context.Context, userID, convID uint) (*domain.Conversation, error) {
	conv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil || conv.UserID != userID {
		return nil, ErrUnauthorized
	}
	return conv, nil
}

// truncate cuts on a rune boundary so multi-byte text never persists as
// invalid UTF-8.
func truncate(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	return string([]rune(text)[:max])
}
