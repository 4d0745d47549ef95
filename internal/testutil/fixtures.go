package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Micolomike/Xchange/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithUsername(t, db, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithUsername creates a user with the given username.
func CreateTestUserWithUsername(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:  username,
		Password:  string(hash),
		Email:     username + "@test.com",
		FirstName: "Test",
		LastName:  "User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTicket creates a medium-priority ticket.
func CreateTestTicket(t *testing.T, db *gorm.DB) *models.Ticket {
	t.Helper()
	return CreateTestTicketWithPriority(t, db, models.TicketPriorityMedium)
}

// CreateTestTicketWithPriority creates a ticket with the given priority.
func CreateTestTicketWithPriority(t *testing.T, db *gorm.DB, priority models.TicketPriority) *models.Ticket {
	t.Helper()

	n := nextID()
	ticket := &models.Ticket{
		Title:       fmt.Sprintf("Test Ticket %d", n),
		Description: fmt.Sprintf("Description %d", n),
		Priority:    priority,
		Category:    models.TicketCategoryBug,
		DueDate:     "2030-01-31",
	}
	if err := db.Create(ticket).Error; err != nil {
		t.Fatalf("failed to create test ticket: %v", err)
	}
	return ticket
}

// CreateTestSession creates a session for userID that expires after ttl.
func CreateTestSession(t *testing.T, db *gorm.DB, userID uint, ttl time.Duration) *models.Session {
	t.Helper()

	session := &models.Session{
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to create test session: %v", err)
	}
	return session
}
