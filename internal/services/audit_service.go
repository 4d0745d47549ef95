package services

import (
	"github.com/Micolomike/Xchange/internal/auditlog"
	"github.com/Micolomike/Xchange/internal/logger"
	"github.com/Micolomike/Xchange/internal/models"
)

// auditService exposes the deletion log to the HTTP layer.
type auditService struct {
	log auditlog.Log
}

// NewAuditService creates a new AuditServicer over log.
func NewAuditService(log auditlog.Log) AuditServicer {
	return &auditService{log: log}
}

// ListDeleted returns every recorded deletion in the order it happened.
func (s *auditService) ListDeleted() ([]models.DeletedTicketLogEntry, error) {
	return s.log.List()
}

// RemoveDeleted drops the entry at index.
func (s *auditService) RemoveDeleted(index int) error {
	if err := s.log.RemoveAt(index); err != nil {
		return err
	}
	logger.Get().Infow("deletion log entry removed", "index", index)
	return nil
}
