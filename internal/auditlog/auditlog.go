// Package auditlog records ticket deletions. Entries are kept in append order
// and are only ever removed explicitly by an administrator.
package auditlog

import (
	"github.com/Micolomike/Xchange/internal/models"

	"gorm.io/gorm"
)

// Log is an ordered, append-only record of deleted tickets.
type Log interface {
	// Append adds entry at the end of the log and returns its index.
	Append(entry models.DeletedTicketLogEntry) (int, error)
	// List returns every entry in append order. An empty log yields an empty slice.
	List() ([]models.DeletedTicketLogEntry, error)
	// RemoveAt deletes the entry at index, shifting later entries down.
	RemoveAt(index int) error
}

// TxAppender is implemented by logs that live in the same store as the
// tickets table and can append inside the caller's transaction.
type TxAppender interface {
	AppendTx(tx *gorm.DB, entry models.DeletedTicketLogEntry) (int, error)
}

// Retracter is implemented by logs that live outside the store. Retract
// removes the most recent entry equal to entry, wherever it now sits, and
// reports whether one was found.
type Retracter interface {
	Retract(entry models.DeletedTicketLogEntry) (bool, error)
}
