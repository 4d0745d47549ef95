package services

import (
	"github.com/Micolomike/Xchange/internal/models"
	"github.com/Micolomike/Xchange/internal/pagination"
)

// TicketInput carries the writable ticket fields. Create and update both
// overwrite every field with these values.
type TicketInput struct {
	Title       string
	Description string
	Priority    models.TicketPriority
	Category    string
	DueDate     string
}

// TicketServicer defines the contract for ticket-related business logic.
type TicketServicer interface {
	ListTickets() ([]models.Ticket, error)
	GetTicket(id uint) (*models.Ticket, error)
	CreateTicket(input TicketInput) (*models.Ticket, error)
	UpdateTicket(id uint, input TicketInput) (*models.Ticket, error)
	DeleteTicket(id uint) (*models.DeletedTicketLogEntry, error)
}

// CreateUserInput carries the fields of a new user. Password is plaintext.
type CreateUserInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// UpdateUserInput carries a partial user update; nil fields keep their value.
type UpdateUserInput struct {
	Username  *string
	Password  *string
	Email     *string
	FirstName *string
	LastName  *string
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(input CreateUserInput) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	ListUsers() ([]models.User, error)
	UpdateUser(id uint, input UpdateUserInput) (*models.User, error)
	DeleteUser(id uint) error
	VerifyPassword(user *models.User, password string) bool
	Authenticate(username, password string) (*models.User, error)
}

// SessionServicer defines the contract for server-side login sessions.
type SessionServicer interface {
	CreateSession(userID uint) (*models.Session, error)
	GetActiveSession(id string) (*models.Session, error)
	DeleteSession(id string) error
	PurgeExpired() (int64, error)
}

// AuditServicer exposes the deleted-ticket log to handlers.
type AuditServicer interface {
	ListDeleted() ([]models.DeletedTicketLogEntry, error)
	RemoveDeleted(index int) error
}

// TableData is the content of one admin-visible table.
type TableData struct {
	Table      string                   `json:"table"`
	Columns    []string                 `json:"columns"`
	Schema     []Column                 `json:"schema"`
	Rows       []map[string]interface{} `json:"rows"`
	Pagination *pagination.Meta         `json:"pagination,omitempty"`
}

// AdminServicer defines the contract for the generic admin table gateway.
type AdminServicer interface {
	Tables() []string
	DescribeTable(table string, page *pagination.PageRequest) (*TableData, error)
	UpdateRow(table string, id uint, fields map[string]interface{}) error
	DeleteRow(table string, id uint) error
}
