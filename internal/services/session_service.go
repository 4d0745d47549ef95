package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/Micolomike/Xchange/internal/errors"
	"github.com/Micolomike/Xchange/internal/logger"
	"github.com/Micolomike/Xchange/internal/models"
)

// sessionService stores login sessions.
type sessionService struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewSessionService creates a new SessionServicer whose sessions live for ttl.
func NewSessionService(db *gorm.DB, ttl time.Duration) SessionServicer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &sessionService{db: db, ttl: ttl}
}

// CreateSession opens a session for userID
func (s *sessionService) CreateSession(userID uint) (*models.Session, error) {
	now := time.Now().UTC()
	session := &models.Session{
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.db.Create(session).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return session, nil
}

// GetActiveSession returns the session with the given ID if it exists and
// has not expired. Expired sessions are removed on sight.
func (s *sessionService) GetActiveSession(id string) (*models.Session, error) {
	var session models.Session
	if err := s.db.Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if session.Expired(time.Now()) {
		if err := s.DeleteSession(session.ID); err != nil {
			logger.Get().Warnw("failed to delete expired session", "session_id", session.ID, "error", err)
		}
		return nil, apperrors.ErrUnauthorized
	}
	return &session, nil
}

// DeleteSession removes a session. Deleting an unknown session is not an error.
func (s *sessionService) DeleteSession(id string) error {
	if err := s.db.Where("id = ?", id).Delete(&models.Session{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// PurgeExpired deletes every expired session and returns how many were removed.
func (s *sessionService) PurgeExpired() (int64, error) {
	result := s.db.Where("expires_at <= ?", time.Now().UTC()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected, nil
}
