package model

import (
	"time"

	"gorm.io/gorm"
)

// Session maps an opaque bearer token to an authenticated user. The rows
// are written by the identity layer, this service only reads them.
type Session struct {
	gorm.Model
	ID        string `gorm:"primaryKey;uuid;not null"`
	Token     string `gorm:"size:191;not null;uniqueIndex"`
	UserID    string `gorm:"uuid;not null;index"`
	Email     string `gorm:"size:200"`
	ExpiresAt time.Time
}

func (Session) TableName() string {
	return "sessions"
}
