package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Micolomike/Xchange/internal/auditlog"
	apperrors "github.com/Micolomike/Xchange/internal/errors"
	"github.com/Micolomike/Xchange/internal/logger"
	"github.com/Micolomike/Xchange/internal/models"
)

// ticketService handles ticket-related business logic.
type ticketService struct {
	db          *gorm.DB
	deletionLog auditlog.Log
}

// NewTicketService creates a new TicketServicer. Deleted tickets are recorded
// in deletionLog.
func NewTicketService(db *gorm.DB, deletionLog auditlog.Log) TicketServicer {
	return &ticketService{db: db, deletionLog: deletionLog}
}

// ListTickets returns all tickets, newest first
func (s *ticketService) ListTickets() ([]models.Ticket, error) {
	tickets := []models.Ticket{}
	if err := s.db.Order("created_at DESC").Order("id DESC").Find(&tickets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tickets, nil
}

// GetTicket retrieves a ticket by ID
func (s *ticketService) GetTicket(id uint) (*models.Ticket, error) {
	return findTicket(s.db, id)
}

func findTicket(db *gorm.DB, id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := db.First(&ticket, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &ticket, nil
}

// CreateTicket stores a new ticket stamped with the current time
func (s *ticketService) CreateTicket(input TicketInput) (*models.Ticket, error) {
	ticket := &models.Ticket{
		Base:        models.Base{CreatedAt: time.Now().UTC()},
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Category:    input.Category,
		DueDate:     input.DueDate,
	}
	if err := s.db.Create(ticket).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return ticket, nil
}

// UpdateTicket overwrites every writable field of a ticket
func (s *ticketService) UpdateTicket(id uint, input TicketInput) (*models.Ticket, error) {
	// A map is used so empty category/due_date values are written too.
	result := s.db.Model(&models.Ticket{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":       input.Title,
		"description": input.Description,
		"priority":    input.Priority,
		"category":    input.Category,
		"due_date":    input.DueDate,
	})
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrTicketNotFound
	}
	return s.GetTicket(id)
}

// DeleteTicket removes a ticket and records its snapshot in the deletion log.
//
// The row is deleted inside a transaction and the log append happens before
// commit, so a failed append leaves the ticket in place. Logs that share the
// store append inside the same transaction.
func (s *ticketService) DeleteTicket(id uint) (*models.DeletedTicketLogEntry, error) {
	var entry models.DeletedTicketLogEntry
	appendedAt := -1
	txAppender, sharesStore := s.deletionLog.(auditlog.TxAppender)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		ticket, err := findTicket(tx, id)
		if err != nil {
			return err
		}

		result := tx.Delete(&models.Ticket{}, id)
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrTicketNotFound
		}

		entry = models.NewDeletedTicketLogEntry(ticket, time.Now().UTC())
		var index int
		if sharesStore {
			index, err = txAppender.AppendTx(tx, entry)
		} else {
			index, err = s.deletionLog.Append(entry)
		}
		if err != nil {
			return apperrors.Wrap(apperrors.ErrAuditLogUnavailable, err)
		}
		appendedAt = index
		return nil
	})
	if err != nil {
		if appendedAt >= 0 && !sharesStore {
			// Commit failed after the external log was written; retract the entry.
			s.retract(entry, appendedAt)
		}
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			err = apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil, err
	}

	logger.Get().Infow("ticket deleted", "ticket_id", entry.ID, "title", entry.Title)
	return &entry, nil
}

// retract removes entry from an external deletion log after a rollback. The
// index it was appended at may have shifted since, so the entry is matched by
// content rather than position.
func (s *ticketService) retract(entry models.DeletedTicketLogEntry, appendedAt int) {
	log := logger.Get()

	if r, ok := s.deletionLog.(auditlog.Retracter); ok {
		found, err := r.Retract(entry)
		if err != nil {
			log.Errorw("failed to retract deletion log entry after rollback", "ticket_id", entry.ID, "error", err)
		} else if !found {
			log.Warnw("deletion log entry to retract is gone", "ticket_id", entry.ID)
		}
		return
	}

	entries, err := s.deletionLog.List()
	if err != nil {
		log.Errorw("failed to retract deletion log entry after rollback", "ticket_id", entry.ID, "error", err)
		return
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].ID == entry.ID && entries[i].DeletedAt.Equal(entry.DeletedAt) {
			if err := s.deletionLog.RemoveAt(i); err != nil {
				log.Errorw("failed to retract deletion log entry after rollback",
					"ticket_id", entry.ID, "index", i, "appended_at", appendedAt, "error", err)
			}
			return
		}
	}
	log.Warnw("deletion log entry to retract is gone", "ticket_id", entry.ID, "appended_at", appendedAt)
}
