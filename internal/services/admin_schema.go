package services

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/Micolomike/Xchange/internal/models"
	"github.com/Micolomike/Xchange/internal/validator"
)

// ColumnType is the kind of value an admin-visible column holds.
type ColumnType string

const (
	ColumnInteger   ColumnType = "integer"
	ColumnText      ColumnType = "text"
	ColumnTimestamp ColumnType = "timestamp"
	ColumnDate      ColumnType = "date"
	ColumnEnum      ColumnType = "enum"
)

const dateLayout = "2006-01-02"

// Column describes one column of an admin-visible table.
type Column struct {
	Name     string     `json:"name"`
	Type     ColumnType `json:"type"`
	Nullable bool       `json:"nullable"`
	Editable bool       `json:"editable"`
	Hidden   bool       `json:"-"`
	Required bool       `json:"required"`
	Enum     []string   `json:"enum,omitempty"`

	// Check runs after the type check on string values.
	Check func(string) error `json:"-"`
}

// TableSchema is the explicit column list of a table the admin gateway may touch.
type TableSchema struct {
	Name    string
	Columns []Column
	// Dependents are rows in other tables removed together with a row of
	// this one, keyed by the referencing column.
	Dependents []Dependent
}

// Dependent names a table whose Column references this table's id.
type Dependent struct {
	Table  string
	Column string
}

// Column looks a column up by name.
func (t TableSchema) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Visible returns the columns that may be shown to clients.
func (t TableSchema) Visible() []Column {
	cols := make([]Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !c.Hidden {
			cols = append(cols, c)
		}
	}
	return cols
}

// DefaultTableSchemas returns the schemas of the tickets and users tables.
func DefaultTableSchemas() []TableSchema {
	priorities := []string{
		string(models.TicketPriorityLow),
		string(models.TicketPriorityMedium),
		string(models.TicketPriorityHigh),
	}

	return []TableSchema{
		{
			Name: "tickets",
			Columns: []Column{
				{Name: "id", Type: ColumnInteger},
				{Name: "title", Type: ColumnText, Editable: true, Required: true},
				{Name: "description", Type: ColumnText, Editable: true, Required: true},
				{Name: "priority", Type: ColumnEnum, Editable: true, Required: true, Enum: priorities},
				{Name: "category", Type: ColumnText, Editable: true},
				{Name: "due_date", Type: ColumnDate, Editable: true},
				{Name: "created_at", Type: ColumnTimestamp},
			},
		},
		{
			Name: "users",
			Columns: []Column{
				{Name: "id", Type: ColumnInteger},
				{Name: "username", Type: ColumnText, Editable: true, Required: true, Check: checkUsername},
				{Name: "password", Type: ColumnText, Hidden: true},
				{Name: "email", Type: ColumnText, Editable: true},
				{Name: "firstname", Type: ColumnText, Editable: true},
				{Name: "lastname", Type: ColumnText, Editable: true},
				{Name: "created_at", Type: ColumnTimestamp},
			},
			Dependents: []Dependent{{Table: "sessions", Column: "user_id"}},
		},
	}
}

func checkUsername(s string) error {
	if !validator.ValidUsername(s) {
		return errors.New("must be 3-50 letters, digits, '.', '-' or '_'")
	}
	return nil
}

// Convert checks a decoded JSON value against the column and returns the
// value to bind in the UPDATE statement.
func (c Column) Convert(value interface{}) (interface{}, error) {
	if value == nil {
		if !c.Nullable {
			return nil, fmt.Errorf("%s cannot be null", c.Name)
		}
		return nil, nil
	}

	switch c.Type {
	case ColumnInteger:
		f, ok := value.(float64)
		if !ok || f != math.Trunc(f) {
			return nil, fmt.Errorf("%s must be an integer", c.Name)
		}
		return int64(f), nil

	case ColumnTimestamp:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be an RFC 3339 timestamp", c.Name)
		}
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("%s must be an RFC 3339 timestamp", c.Name)
		}
		return ts.UTC(), nil
	}

	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a string", c.Name)
	}
	if c.Required && strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%s cannot be empty", c.Name)
	}

	switch c.Type {
	case ColumnDate:
		if s != "" {
			if _, err := time.Parse(dateLayout, s); err != nil {
				return nil, fmt.Errorf("%s must be a YYYY-MM-DD date", c.Name)
			}
		}
	case ColumnEnum:
		if !slices.Contains(c.Enum, s) {
			return nil, fmt.Errorf("%s must be one of %s", c.Name, strings.Join(c.Enum, ", "))
		}
	}

	if c.Check != nil {
		if err := c.Check(s); err != nil {
			return nil, fmt.Errorf("%s %w", c.Name, err)
		}
	}
	return s, nil
}
