package models

// TicketPriority represents how urgent a ticket is
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Ticket categories used by the frontend. The store does not enforce them.
const (
	TicketCategoryBug     = "bug"
	TicketCategoryFeature = "feature"
	TicketCategorySupport = "support"
)

// Ticket represents a support ticket
type Ticket struct {
	Base
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"not null" json:"description"`
	Priority    TicketPriority `gorm:"not null" json:"priority"`
	Category    string         `gorm:"not null;default:''" json:"category"`
	DueDate     string         `gorm:"column:due_date;not null;default:''" json:"due_date"`
}
