package models

import "time"

// DeletedTicketLogEntry is the snapshot of a ticket taken when it was deleted.
// Seq only exists in the database-backed log, where it preserves append order.
type DeletedTicketLogEntry struct {
	Seq         uint           `gorm:"column:seq;primaryKey;autoIncrement" json:"-"`
	ID          uint           `gorm:"column:ticket_id;not null;index" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"not null;default:''" json:"description"`
	Priority    TicketPriority `gorm:"not null;default:''" json:"priority"`
	Category    string         `gorm:"not null;default:''" json:"category"`
	DueDate     string         `gorm:"column:due_date;not null;default:''" json:"due_date"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	DeletedAt   time.Time      `gorm:"not null" json:"deleted_at"`
}

// TableName overrides the default pluralized name.
func (DeletedTicketLogEntry) TableName() string {
	return "deleted_tickets"
}

// NewDeletedTicketLogEntry snapshots t as deleted at the given time.
func NewDeletedTicketLogEntry(t *Ticket, deletedAt time.Time) DeletedTicketLogEntry {
	return DeletedTicketLogEntry{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Category:    t.Category,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		DeletedAt:   deletedAt,
	}
}
