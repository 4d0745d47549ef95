package models

import (
	"time"

	"github.com/Micolomike/Xchange/internal/uuid"

	"gorm.io/gorm"
)

// Session is a server-side login session. The cookie handed to the client
// only references it; deleting the row logs the client out.
type Session struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new sessions
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New()
	}
	return nil
}

// Expired reports whether the session is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
