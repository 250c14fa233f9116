// File: internal/services/message_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services/correction"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services/reply"
)

var ErrEmptyText = errors.New("text is empty")

// MessageResponse is the result of one pipeline run: correction first, then
// reply generation. AIResponseAudio is always empty; synthesis happens on
// the client.
type MessageResponse struct {
	Transcription   string `json:"transcription"`
	CorrectedText   string `json:"correctedText"`
	Explanation     string `json:"explanation"`
	ExplanationHTML string `json:"explanationHtml,omitempty"`
	AIResponseText  string `json:"aiResponseText"`
	AIResponseAudio string `json:"aiResponseAudio"`
	SessionID       string `json:"sessionId"`
}

// MessageService is the stateless two-step pipeline behind
// POST /api/conversation/message. The session identifier is opaque: it is
// passed through when present and minted when absent.
type MessageService struct {
	correction *correction.Service
	reply      *reply.Service
	markdown   goldmark.Markdown
	logger     Logger
}

func NewMessageService(correctionSvc *correction.Service, replySvc *reply.Service, logger Logger) (*MessageService, error) {
	if correctionSvc == nil {
		return nil, errors.New("correction service is required")
	}
	if replySvc == nil {
		return nil, errors.New("reply service is required")
	}

	return &MessageService{
		correction: correctionSvc,
		reply:      replySvc,
		markdown:   goldmark.New(),
		logger:     logger,
	}, nil
}

// Process runs correction then reply generation for one utterance. The reply
// is generated from the corrected text so the model converses with clean
// input even when correction fell back to local rules.
func (s *MessageService) Process(ctx context.Context, text, sessionID string) (*MessageResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	corrected, err := s.correction.Correct(ctx, text)
	if err != nil {
		return nil, err
	}

	replyText, err := s.reply.Reply(ctx, corrected.CorrectedText)
	if err != nil {
		return nil, err
	}

	s.logger.Info("message pipeline completed",
		"session_id", sessionID,
		"input_length", len(text),
		"reply_length", len(replyText))

	return &MessageResponse{
		Transcription:   text,
		CorrectedText:   corrected.CorrectedText,
		Explanation:     corrected.Explanation,
		ExplanationHTML: s.renderExplanation(corrected.Explanation),
		AIResponseText:  replyText,
		AIResponseAudio: "",
		SessionID:       sessionID,
	}, nil
}

// renderExplanation converts the explanation markdown to HTML for clients
// that show it rich. Render failures fall back to the raw text.
func (s *MessageService) renderExplanation(explanation string) string {
	if explanation == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(explanation), &buf); err != nil {
		s.logger.Warn("explanation markdown render failed", "error", err)
		return explanation
	}
	return strings.TrimSpace(buf.String())
}
