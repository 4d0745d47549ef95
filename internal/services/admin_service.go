package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/Micolomike/Xchange/internal/errors"
	"github.com/Micolomike/Xchange/internal/logger"
	"github.com/Micolomike/Xchange/internal/pagination"
)

// adminService is the generic table gateway used by the admin screens.
// Table and column names only ever come from the registered schemas.
type adminService struct {
	db      *gorm.DB
	schemas map[string]TableSchema
}

// NewAdminService creates a new AdminServicer over the given table schemas.
// With no schemas the tickets and users tables are exposed.
func NewAdminService(db *gorm.DB, schemas ...TableSchema) AdminServicer {
	if len(schemas) == 0 {
		schemas = DefaultTableSchemas()
	}
	byName := make(map[string]TableSchema, len(schemas))
	for _, schema := range schemas {
		byName[schema.Name] = schema
	}
	return &adminService{db: db, schemas: byName}
}

// Tables returns the names of the tables the gateway exposes, sorted.
func (s *adminService) Tables() []string {
	names := make([]string, 0, len(s.schemas))
	for name := range s.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *adminService) schema(table string) (TableSchema, error) {
	schema, ok := s.schemas[table]
	if !ok {
		return TableSchema{}, apperrors.ErrForbiddenTable
	}
	return schema, nil
}

// DescribeTable returns the visible columns and rows of table ordered by id.
// A nil or empty page returns every row.
func (s *adminService) DescribeTable(table string, page *pagination.PageRequest) (*TableData, error) {
	schema, err := s.schema(table)
	if err != nil {
		return nil, err
	}

	visible := schema.Visible()
	names := make([]string, len(visible))
	for i, c := range visible {
		names[i] = c.Name
	}

	data := &TableData{
		Table:   schema.Name,
		Columns: names,
		Schema:  visible,
		Rows:    []map[string]interface{}{},
	}

	query := s.db.Table(schema.Name).Select(names).Order("id ASC")
	if page != nil && page.Requested() {
		page.Defaults()
		var total int64
		if err := s.db.Table(schema.Name).Count(&total).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		data.Pagination = pagination.NewMeta(*page, total)
		query = query.Scopes(pagination.Paginate(*page))
	}

	rows, err := query.Rows()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer rows.Close()

	for rows.Next() {
		values := make([]interface{}, len(names))
		ptrs := make([]interface{}, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		row := make(map[string]interface{}, len(names))
		for i, name := range names {
			row[name] = normalizeValue(values[i])
		}
		data.Rows = append(data.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return data, nil
}

// normalizeValue turns driver values into JSON-friendly ones.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	default:
		return val
	}
}

// UpdateRow applies fields to the row with the given id. Every key must be a
// visible column of the table and every value must match its type. Read-only
// columns are accepted only when they repeat the row's current value, so a
// client can send back the row it was given.
func (s *adminService) UpdateRow(table string, id uint, fields map[string]interface{}) error {
	schema, err := s.schema(table)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return apperrors.ErrEmptyUpdate
	}

	updates := make(map[string]interface{}, len(fields))
	readOnly := make(map[string]interface{})
	for name, raw := range fields {
		col, ok := schema.Column(name)
		if !ok || col.Hidden {
			return apperrors.WithMessage(apperrors.ErrUnknownColumn, fmt.Sprintf("Column %q cannot be edited", name))
		}
		value, err := col.Convert(raw)
		if err != nil {
			if !col.Editable {
				return apperrors.WithMessage(apperrors.ErrUnknownColumn, fmt.Sprintf("Column %q cannot be edited", name))
			}
			return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		if col.Editable {
			updates[col.Name] = value
		} else {
			readOnly[col.Name] = value
		}
	}

	if err := s.checkUnchanged(schema, id, readOnly); err != nil {
		return err
	}
	if len(updates) == 0 {
		return apperrors.ErrEmptyUpdate
	}

	result := s.db.Table(schema.Name).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperrors.ErrUsernameTaken
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	log := logger.With("table", schema.Name, "id", id)
	if result.RowsAffected == 0 {
		log.Warn("admin update matched no rows")
		return nil
	}

	log.Infow("admin row updated", "columns", len(updates))
	return nil
}

// checkUnchanged rejects read-only values that differ from the stored row.
// A missing row has nothing to compare against; the update then matches no rows.
func (s *adminService) checkUnchanged(schema TableSchema, id uint, values map[string]interface{}) error {
	if len(values) == 0 {
		return nil
	}

	names := make([]string, 0, len(values))
	for name, value := range values {
		if name == "id" {
			if value != int64(id) {
				return apperrors.WithMessage(apperrors.ErrUnknownColumn, `Column "id" cannot be edited`)
			}
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	rows, err := s.db.Table(schema.Name).Select(names).Where("id = ?", id).Rows()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	}
	current := make([]interface{}, len(names))
	ptrs := make([]interface{}, len(names))
	for i := range current {
		ptrs[i] = &current[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i, name := range names {
		if !sameValue(values[name], current[i]) {
			return apperrors.WithMessage(apperrors.ErrUnknownColumn, fmt.Sprintf("Column %q cannot be edited", name))
		}
	}
	return nil
}

// sameValue compares a converted request value with a stored one.
func sameValue(sent, stored interface{}) bool {
	a, b := normalizeValue(sent), normalizeValue(stored)
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			at, aErr := time.Parse(time.RFC3339Nano, as)
			bt, bErr := time.Parse(time.RFC3339Nano, bs)
			if aErr == nil && bErr == nil {
				return at.Equal(bt)
			}
			return as == bs
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// DeleteRow removes the row with the given id. Deleting a ticket here does
// not record it in the deletion log.
func (s *adminService) DeleteRow(table string, id uint) error {
	schema, err := s.schema(table)
	if err != nil {
		return err
	}

	var affected int64
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, dep := range schema.Dependents {
			if err := tx.Exec("DELETE FROM ? WHERE ? = ?",
				clause.Table{Name: dep.Table}, clause.Column{Name: dep.Column}, id).Error; err != nil {
				return err
			}
		}
		result := tx.Exec("DELETE FROM ? WHERE id = ?", clause.Table{Name: schema.Name}, id)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	log := logger.With("table", schema.Name, "id", id)
	if affected == 0 {
		log.Warn("admin delete matched no rows")
		return nil
	}

	log.Info("admin row deleted")
	return nil
}
