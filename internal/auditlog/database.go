package auditlog

import (
	"errors"

	apperrors "github.com/Micolomike/Xchange/internal/errors"
	"github.com/Micolomike/Xchange/internal/models"

	"gorm.io/gorm"
)

// DBLog keeps the log in the deleted_tickets table, ordered by its seq column.
type DBLog struct {
	db *gorm.DB
}

// NewDBLog creates a database-backed log.
func NewDBLog(db *gorm.DB) *DBLog {
	return &DBLog{db: db}
}

// Append adds entry to the end of the log.
func (l *DBLog) Append(entry models.DeletedTicketLogEntry) (int, error) {
	var index int
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var err error
		index, err = l.AppendTx(tx, entry)
		return err
	})
	return index, err
}

// AppendTx appends using the caller's transaction.
func (l *DBLog) AppendTx(tx *gorm.DB, entry models.DeletedTicketLogEntry) (int, error) {
	entry.Seq = 0
	if err := tx.Create(&entry).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var before int64
	if err := tx.Model(&models.DeletedTicketLogEntry{}).Where("seq < ?", entry.Seq).Count(&before).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return int(before), nil
}

// List returns all entries.
func (l *DBLog) List() ([]models.DeletedTicketLogEntry, error) {
	entries := []models.DeletedTicketLogEntry{}
	if err := l.db.Order("seq ASC").Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// RemoveAt deletes the entry at index.
func (l *DBLog) RemoveAt(index int) error {
	if index < 0 {
		return apperrors.ErrInvalidIndex
	}
	return l.db.Transaction(func(tx *gorm.DB) error {
		var entry models.DeletedTicketLogEntry
		err := tx.Order("seq ASC").Offset(index).Limit(1).Take(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidIndex
		}
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&models.DeletedTicketLogEntry{}, "seq = ?", entry.Seq).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
