package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/strata/internal/db"
	"github.com/alexanderramin/strata/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

const projectColumns = `id, creator_id, title, description, started_date, is_active, created_at, updated_at, deleted_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.CreatorID,
		p.Title,
		p.Description,
		formatTime(p.StartedDate),
		boolToInt(p.IsActive),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
		nullableTimeToString(p.DeletedAt),
	)
	if err != nil {
		return insertErr(err, "project")
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ? AND deleted_at IS NULL`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "project", id)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE deleted_at IS NULL`
	if !includeArchived {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY created_at, title`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET title = ?, description = ?, started_date = ?, is_active = ?, updated_at = ?, deleted_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Title,
		p.Description,
		formatTime(p.StartedDate),
		boolToInt(p.IsActive),
		formatTime(p.UpdatedAt),
		nullableTimeToString(p.DeletedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireAffected(res, "project", p.ID)
}

func scanProject(s scanner) (*domain.Project, error) {
	var p domain.Project
	var cols entityCols
	var startedStr string
	var active int

	err := s.Scan(
		&p.ID, &p.CreatorID, &p.Title, &p.Description,
		&startedStr, &active,
		&cols.createdAt, &cols.updatedAt, &cols.deletedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.StartedDate, err = parseTime(startedStr); err != nil {
		return nil, fmt.Errorf("parsing started_date: %w", err)
	}
	p.IsActive = intToBool(active)
	if err := cols.apply(&p.Entity); err != nil {
		return nil, err
	}
	return &p, nil
}
