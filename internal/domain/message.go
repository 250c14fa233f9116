// File: internal/domain/message.go
package domain

import (
	"fmt"
	"time"
)

const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// Message is one turn inside a conversation. User turns carry the raw
// transcript plus correction fields; AI turns carry the reply text. AudioKey
// references bytes in the audio object store, never the bytes themselves.
//
// IDs are monotonically increasing by creation time, and a user message and
// its paired AI reply are created 1 ms apart so ordering by CreatedAt is
// stable across persistence and reload.
type Message struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	ConversationID uint      `gorm:"not null;index" json:"conversationId"`
	Role           string    `gorm:"not null" json:"role"`
	Text           string    `gorm:"not null" json:"text"`
	CorrectedText  string    `json:"correctedText,omitempty"`
	Explanation    string    `json:"explanation,omitempty"`
	ReplyText      string    `json:"replyText,omitempty"`
	AudioKey       string    `json:"audioKey,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// AudioKeyFor derives the object-store key for a message's audio payload.
func AudioKeyFor(messageID uint) string {
	return fmt.Sprintf("audio_%d", messageID)
}
