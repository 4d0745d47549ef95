package services

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Micolomike/Xchange/internal/auditlog"
	"github.com/Micolomike/Xchange/internal/models"
	"github.com/Micolomike/Xchange/internal/testutil"
)

// brokenLog is a deletion log whose writes always fail.
type brokenLog struct {
	removed []int
}

func (l *brokenLog) Append(models.DeletedTicketLogEntry) (int, error) {
	return 0, errors.New("disk full")
}

func (l *brokenLog) List() ([]models.DeletedTicketLogEntry, error) {
	return []models.DeletedTicketLogEntry{}, nil
}

func (l *brokenLog) RemoveAt(index int) error {
	l.removed = append(l.removed, index)
	return nil
}

func newFileLog(t *testing.T) *auditlog.FileLog {
	t.Helper()
	log, err := auditlog.NewFileLog(filepath.Join(t.TempDir(), "deleted.json"))
	if err != nil {
		t.Fatalf("failed to create file log: %v", err)
	}
	return log
}

func validTicketInput() TicketInput {
	return TicketInput{
		Title:       "Printer on fire",
		Description: "Third floor printer is smoking",
		Priority:    models.TicketPriorityHigh,
		Category:    models.TicketCategorySupport,
		DueDate:     "2030-06-01",
	}
}

func TestCreateTicket(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTicketService(db, newFileLog(t))

	ticket, err := svc.CreateTicket(validTicketInput())
	testutil.AssertNoError(t, err)

	if ticket.ID == 0 {
		t.Fatal("expected non-zero ticket ID")
	}
	if ticket.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	got, err := svc.GetTicket(ticket.ID)
	testutil.AssertNoError(t, err)
	if got.Title != "Printer on fire" || got.Priority != models.TicketPriorityHigh || got.DueDate != "2030-06-01" {
		t.Errorf("unexpected ticket: %+v", got)
	}
}

func TestCreateTicket_optional_fields_default_empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTicketService(db, newFileLog(t))

	ticket, err := svc.CreateTicket(TicketInput{Title: "A", Description: "B", Priority: models.TicketPriorityLow})
	testutil.AssertNoError(t, err)

	got, err := svc.GetTicket(ticket.ID)
	testutil.AssertNoError(t, err)
	if got.Category != "" || got.DueDate != "" {
		t.Errorf("expected empty category and due date, got %q and %q", got.Category, got.DueDate)
	}
}

func TestGetTicket_not_found(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTicketService(db, newFileLog(t))

	_, err := svc.GetTicket(99999)
	testutil.AssertAppError(t, err, "TICKET_NOT_FOUND")
}

func TestListTickets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTicketService(db, newFileLog(t))

	tickets, err := svc.ListTickets()
	testutil.AssertNoError(t, err)
	if tickets == nil || len(tickets) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", tickets)
	}

	first, err := svc.CreateTicket(validTicketInput())
	testutil.AssertNoError(t, err)
	second, err := svc.CreateTicket(validTicketInput())
	testutil.AssertNoError(t, err)

	tickets, err = svc.ListTickets()
	testutil.AssertNoError(t, err)
	if len(tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(tickets))
	}
	if tickets[0].ID != second.ID || tickets[1].ID != first.ID {
		t.Errorf("expected newest first, got %d, %d", tickets[0].ID, tickets[1].ID)
	}
}

func TestUpdateTicket(t *testing.T) {
	t.Run("overwrites_every_field", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTicketService(db, newFileLog(t))

		created := testutil.CreateTestTicket(t, db)
		input := TicketInput{
			Title:       "Updated",
			Description: "Updated description",
			Priority:    models.TicketPriorityLow,
			Category:    "",
			DueDate:     "",
		}
		updated, err := svc.UpdateTicket(created.ID, input)
		testutil.AssertNoError(t, err)

		if updated.Title != "Updated" || updated.Description != "Updated description" {
			t.Errorf("unexpected text fields: %+v", updated)
		}
		if updated.Priority != models.TicketPriorityLow {
			t.Errorf("expected priority low, got %s", updated.Priority)
		}
		if updated.Category != "" || updated.DueDate != "" {
			t.Errorf("expected cleared category and due date, got %q and %q", updated.Category, updated.DueDate)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("expected created_at %v to be unchanged, got %v", created.CreatedAt, updated.CreatedAt)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTicketService(db, newFileLog(t))

		_, err := svc.UpdateTicket(99999, validTicketInput())
		testutil.AssertAppError(t, err, "TICKET_NOT_FOUND")
	})
}

func TestDeleteTicket(t *testing.T) {
	t.Run("file_log", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		log := newFileLog(t)
		svc := NewTicketService(db, log)

		ticket := testutil.CreateTestTicket(t, db)
		entry, err := svc.DeleteTicket(ticket.ID)
		testutil.AssertNoError(t, err)

		if entry.ID != ticket.ID || entry.Title != ticket.Title {
			t.Errorf("unexpected snapshot: %+v", entry)
		}
		if entry.DeletedAt.IsZero() {
			t.Error("expected deleted_at to be set")
		}

		_, err = svc.GetTicket(ticket.ID)
		testutil.AssertAppError(t, err, "TICKET_NOT_FOUND")

		entries, err := log.List()
		testutil.AssertNoError(t, err)
		if len(entries) != 1 || entries[0].ID != ticket.ID {
			t.Fatalf("expected one log entry for ticket %d, got %+v", ticket.ID, entries)
		}
	})

	t.Run("database_log", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		log := auditlog.NewDBLog(db)
		svc := NewTicketService(db, log)

		ticket := testutil.CreateTestTicket(t, db)
		_, err := svc.DeleteTicket(ticket.ID)
		testutil.AssertNoError(t, err)

		entries, err := log.List()
		testutil.AssertNoError(t, err)
		if len(entries) != 1 || entries[0].Title != ticket.Title {
			t.Fatalf("expected one log entry, got %+v", entries)
		}
	})

	t.Run("not_found_writes_no_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		log := newFileLog(t)
		svc := NewTicketService(db, log)

		_, err := svc.DeleteTicket(99999)
		testutil.AssertAppError(t, err, "TICKET_NOT_FOUND")

		entries, _ := log.List()
		if len(entries) != 0 {
			t.Errorf("expected no log entries, got %d", len(entries))
		}
	})

	t.Run("failed_append_keeps_ticket", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		log := &brokenLog{}
		svc := NewTicketService(db, log)

		ticket := testutil.CreateTestTicket(t, db)
		_, err := svc.DeleteTicket(ticket.ID)
		testutil.AssertAppError(t, err, "AUDIT_LOG_UNAVAILABLE")

		if _, err := svc.GetTicket(ticket.ID); err != nil {
			t.Fatalf("expected ticket to survive the failed delete, got %v", err)
		}
		if len(log.removed) != 0 {
			t.Errorf("expected nothing to retract, got %v", log.removed)
		}
	})
}

// sliceLog is an in-memory deletion log without content-based retraction.
type sliceLog struct {
	entries []models.DeletedTicketLogEntry
}

func (l *sliceLog) Append(e models.DeletedTicketLogEntry) (int, error) {
	l.entries = append(l.entries, e)
	return len(l.entries) - 1, nil
}

func (l *sliceLog) List() ([]models.DeletedTicketLogEntry, error) {
	return append([]models.DeletedTicketLogEntry{}, l.entries...), nil
}

func (l *sliceLog) RemoveAt(index int) error {
	if index < 0 || index >= len(l.entries) {
		return errors.New("index out of range")
	}
	l.entries = append(l.entries[:index], l.entries[index+1:]...)
	return nil
}

func logEntry(id uint, deletedAt time.Time) models.DeletedTicketLogEntry {
	return models.DeletedTicketLogEntry{ID: id, Title: "t", DeletedAt: deletedAt}
}

// Another entry removed between the append and the retraction shifts the
// appended entry down; the retraction must still hit the right one.
func TestRetractAfterShiftedIndex(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		name string
		log  auditlog.Log
	}{
		{"file_log", newFileLog(t)},
		{"list_and_remove", &sliceLog{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &ticketService{deletionLog: tt.log}

			older := logEntry(1, now.Add(-time.Hour))
			rolledBack := logEntry(2, now)
			newer := logEntry(3, now.Add(time.Second))

			if _, err := tt.log.Append(older); err != nil {
				t.Fatalf("append: %v", err)
			}
			appendedAt, err := tt.log.Append(rolledBack)
			if err != nil {
				t.Fatalf("append: %v", err)
			}
			if _, err := tt.log.Append(newer); err != nil {
				t.Fatalf("append: %v", err)
			}
			if err := tt.log.RemoveAt(0); err != nil {
				t.Fatalf("remove: %v", err)
			}

			svc.retract(rolledBack, appendedAt)

			entries, err := tt.log.List()
			testutil.AssertNoError(t, err)
			if len(entries) != 1 || entries[0].ID != newer.ID {
				t.Errorf("expected only ticket %d to remain, got %+v", newer.ID, entries)
			}
		})
	}
}
