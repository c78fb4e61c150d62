package domain

import "time"

// RevokedToken is a denylist entry for a refresh token that was logged out
// before its natural expiry.
//
// Security notes:
// - We never store the raw token in DB, only its SHA-256 hash (TokenHash).
// - Rows are useless once ExpiresAt passes; the cleanup job deletes them.
type RevokedToken struct {
	TokenHash string    `json:"-" gorm:"primaryKey;size:64"`
	UserID    int64     `json:"user_id" gorm:"index;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (RevokedToken) TableName() string { return "revoked_tokens" }

func (t *RevokedToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
