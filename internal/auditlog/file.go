package auditlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/Micolomike/Xchange/internal/errors"
	"github.com/Micolomike/Xchange/internal/models"
)

// FileLog keeps the log as a single JSON array in a file.
//
// Every operation re-reads the file. The mutex serializes read-modify-write
// cycles within the process, and writes replace the file by rename so readers
// never observe a partially written document.
type FileLog struct {
	path string
	mu   sync.Mutex
}

// NewFileLog returns a FileLog at path, creating the parent directory and an
// empty array document if the file does not exist yet.
func NewFileLog(path string) (*FileLog, error) {
	l := &FileLog{path: path}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := l.write([]models.DeletedTicketLogEntry{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	return l, nil
}

// Path returns the file backing the log.
func (l *FileLog) Path() string {
	return l.path
}

// Append adds entry to the end of the log.
func (l *FileLog) Append(entry models.DeletedTicketLogEntry) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read()
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	entries = append(entries, entry)
	if err := l.write(entries); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return len(entries) - 1, nil
}

// List returns all entries.
func (l *FileLog) List() ([]models.DeletedTicketLogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// RemoveAt splices out the entry at index and rewrites the file.
func (l *FileLog) RemoveAt(index int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if index < 0 || index >= len(entries) {
		return apperrors.ErrInvalidIndex
	}
	entries = append(entries[:index], entries[index+1:]...)
	if err := l.write(entries); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Retract removes the last entry with the same ticket id and deletion time.
func (l *FileLog) Retract(entry models.DeletedTicketLogEntry) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read()
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if !sameEntry(entries[i], entry) {
			continue
		}
		entries = append(entries[:i], entries[i+1:]...)
		if err := l.write(entries); err != nil {
			return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return true, nil
	}
	return false, nil
}

func sameEntry(a, b models.DeletedTicketLogEntry) bool {
	return a.ID == b.ID && a.DeletedAt.Equal(b.DeletedAt)
}

func (l *FileLog) read() ([]models.DeletedTicketLogEntry, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}
	entries := []models.DeletedTicketLogEntry{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode log file: %w", err)
	}
	if entries == nil {
		entries = []models.DeletedTicketLogEntry{}
	}
	return entries, nil
}

func (l *FileLog) write(entries []models.DeletedTicketLogEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode log file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), filepath.Base(l.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp log file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp log file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp log file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp log file: %w", err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		return fmt.Errorf("replace log file: %w", err)
	}
	return nil
}
