package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/strata/internal/db"
	"github.com/alexanderramin/strata/internal/domain"
)

// SQLiteModuleRepo implements ModuleRepo using a SQLite database.
type SQLiteModuleRepo struct {
	db db.DBTX
}

func NewSQLiteModuleRepo(db db.DBTX) *SQLiteModuleRepo {
	return &SQLiteModuleRepo{db: db}
}

const moduleColumns = `id, project_id, creator_id, title, description, started_date, is_active, created_at, updated_at, deleted_at`

func (r *SQLiteModuleRepo) Create(ctx context.Context, m *domain.Module) error {
	query := `INSERT INTO modules (` + moduleColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.ProjectID,
		m.CreatorID,
		m.Title,
		m.Description,
		formatTime(m.StartedDate),
		boolToInt(m.IsActive),
		formatTime(m.CreatedAt),
		formatTime(m.UpdatedAt),
		nullableTimeToString(m.DeletedAt),
	)
	if err != nil {
		return insertErr(err, "module")
	}
	return nil
}

func (r *SQLiteModuleRepo) GetByID(ctx context.Context, id string) (*domain.Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM modules WHERE id = ? AND deleted_at IS NULL`
	m, err := scanModule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "module", id)
	}
	return m, nil
}

func (r *SQLiteModuleRepo) ListByProject(ctx context.Context, projectID string, includeArchived bool) ([]*domain.Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM modules WHERE project_id = ? AND deleted_at IS NULL`
	if !includeArchived {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY created_at, title`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing modules: %w", err)
	}
	defer rows.Close()

	var modules []*domain.Module
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning module: %w", err)
		}
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating modules: %w", err)
	}
	return modules, nil
}

func (r *SQLiteModuleRepo) Update(ctx context.Context, m *domain.Module) error {
	query := `UPDATE modules SET title = ?, description = ?, started_date = ?, is_active = ?, updated_at = ?, deleted_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		m.Title,
		m.Description,
		formatTime(m.StartedDate),
		boolToInt(m.IsActive),
		formatTime(m.UpdatedAt),
		nullableTimeToString(m.DeletedAt),
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating module: %w", err)
	}
	return requireAffected(res, "module", m.ID)
}

func scanModule(s scanner) (*domain.Module, error) {
	var m domain.Module
	var cols entityCols
	var startedStr string
	var active int

	err := s.Scan(
		&m.ID, &m.ProjectID, &m.CreatorID, &m.Title, &m.Description,
		&startedStr, &active,
		&cols.createdAt, &cols.updatedAt, &cols.deletedAt,
	)
	if err != nil {
		return nil, err
	}
	if m.StartedDate, err = parseTime(startedStr); err != nil {
		return nil, fmt.Errorf("parsing started_date: %w", err)
	}
	m.IsActive = intToBool(active)
	if err := cols.apply(&m.Entity); err != nil {
		return nil, err
	}
	return &m, nil
}
