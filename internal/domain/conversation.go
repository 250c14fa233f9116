// File: internal/domain/conversation.go
package domain

import "time"

// Conversation is a single practice thread. The title is derived from the
// first user utterance; LastMessage is a short summary shown in the list.
type Conversation struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"userId"`
	Title        string    `json:"title"`
	LastMessage  string    `json:"lastMessage"`
	MessageCount int       `gorm:"not null;default:0" json:"messageCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
