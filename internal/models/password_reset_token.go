package models

import "time"

// PasswordResetToken is a single-use reset credential. Tokens are deleted
// once redeemed; expired rows are ignored on lookup.
type PasswordResetToken struct {
	Token     string    `gorm:"type:varchar(36);primarykey" json:"token"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
