// File: internal/domain/user.go
package domain

import "time"

// User is an account identified by a Google profile. No local credentials
// are stored; the email is the only required field of the profile.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	GoogleID  string    `gorm:"index" json:"googleId,omitempty"`
	Email     string    `gorm:"not null;uniqueIndex" json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
