package services

import (
	"testing"
	"time"

	"github.com/Micolomike/Xchange/internal/models"
	"github.com/Micolomike/Xchange/internal/testutil"
)

func TestAuditService(t *testing.T) {
	log := newFileLog(t)
	svc := NewAuditService(log)

	entries, err := svc.ListDeleted()
	testutil.AssertNoError(t, err)
	if len(entries) != 0 {
		t.Fatalf("expected empty log, got %d entries", len(entries))
	}

	for _, title := range []string{"first", "second"} {
		_, err := log.Append(models.DeletedTicketLogEntry{Title: title, DeletedAt: time.Now().UTC()})
		testutil.AssertNoError(t, err)
	}

	testutil.AssertNoError(t, svc.RemoveDeleted(0))

	entries, err = svc.ListDeleted()
	testutil.AssertNoError(t, err)
	if len(entries) != 1 || entries[0].Title != "second" {
		t.Fatalf("expected only the second entry to remain, got %+v", entries)
	}

	testutil.AssertAppError(t, svc.RemoveDeleted(1), "INVALID_INDEX")
	testutil.AssertAppError(t, svc.RemoveDeleted(-1), "INVALID_INDEX")
}
