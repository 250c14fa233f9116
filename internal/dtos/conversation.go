// File: internal/dtos/conversation.go
package dtos

import (
	"fmt"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/domain"
)

// MessageView is a message as served to clients. AudioURL is the lazily
// resolved playable reference for the message's stored audio, present only
// when the message carries an audio key.
type MessageView struct {
	domain.Message
	AudioURL string `json:"audioUrl,omitempty"`
}

// NewMessageView resolves the audio reference of a stored message into a
// fetchable URL. The bytes themselves are never embedded.
func NewMessageView(msg domain.Message) MessageView {
	view := MessageView{Message: msg}
	if msg.AudioKey != "" {
		view.AudioURL = fmt.Sprintf("/api/conversations/%d/audio/%s", msg.ConversationID, msg.AudioKey)
	}
	return view
}

// NewMessageViews maps a conversation's messages into client views.
func NewMessageViews(msgs []domain.Message) []MessageView {
	views := make([]MessageView, 0, len(msgs))
	for _, msg := range msgs {
		views = append(views, NewMessageView(msg))
	}
	return views
}

// CreateConversationRequest is the body of POST /api/conversations.
type CreateConversationRequest struct {
	Title string `json:"title"`
}

// MessageRequest is the body of POST /api/conversation/message.
type MessageRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"sessionId"`
}

// TranslateRequest is the body of POST /api/translate.
type TranslateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
}
