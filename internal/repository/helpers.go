package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/strata/internal/domain"
)

// timeLayout is fixed-width so stored strings sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// parseNullableTime parses a sql.NullString into a *time.Time.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableTimeToString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}

// notFoundOr maps sql.ErrNoRows to domain.ErrNotFound and wraps anything else.
func notFoundOr(err error, kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundf("%s %s", kind, id)
	}
	return fmt.Errorf("scanning %s: %w", kind, err)
}

// insertErr surfaces unique-constraint violations as domain.ErrConflict.
func insertErr(err error, kind string) error {
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.Conflictf("%s already exists", kind)
	}
	return fmt.Errorf("inserting %s: %w", kind, err)
}

// requireAffected turns a zero-row UPDATE into domain.ErrNotFound.
func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s rows affected: %w", kind, err)
	}
	if n == 0 {
		return domain.NotFoundf("%s %s", kind, id)
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

type entityCols struct {
	createdAt, updatedAt string
	deletedAt            sql.NullString
}

func (c *entityCols) apply(e *domain.Entity) error {
	var err error
	if e.CreatedAt, err = parseTime(c.createdAt); err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	if e.UpdatedAt, err = parseTime(c.updatedAt); err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}
	e.DeletedAt = parseNullableTime(c.deletedAt)
	return nil
}
