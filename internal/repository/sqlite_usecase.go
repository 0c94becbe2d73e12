package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/strata/internal/db"
	"github.com/alexanderramin/strata/internal/domain"
)

// SQLiteUseCaseRepo implements UseCaseRepo using a SQLite database.
type SQLiteUseCaseRepo struct {
	db db.DBTX
}

func NewSQLiteUseCaseRepo(db db.DBTX) *SQLiteUseCaseRepo {
	return &SQLiteUseCaseRepo{db: db}
}

const useCaseColumns = `id, module_id, creator_id, title, description, important_notes, started_date, is_active, created_at, updated_at, deleted_at`

func (r *SQLiteUseCaseRepo) Create(ctx context.Context, u *domain.UseCase) error {
	query := `INSERT INTO use_cases (` + useCaseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		u.ModuleID,
		u.CreatorID,
		u.Title,
		u.Description,
		u.ImportantNotes,
		formatTime(u.StartedDate),
		boolToInt(u.IsActive),
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
		nullableTimeToString(u.DeletedAt),
	)
	if err != nil {
		return insertErr(err, "use case")
	}
	return nil
}

func (r *SQLiteUseCaseRepo) GetByID(ctx context.Context, id string) (*domain.UseCase, error) {
	query := `SELECT ` + useCaseColumns + ` FROM use_cases WHERE id = ? AND deleted_at IS NULL`
	u, err := scanUseCase(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "use case", id)
	}
	return u, nil
}

func (r *SQLiteUseCaseRepo) ListByModule(ctx context.Context, moduleID string, includeArchived bool) ([]*domain.UseCase, error) {
	query := `SELECT ` + useCaseColumns + ` FROM use_cases WHERE module_id = ? AND deleted_at IS NULL`
	if !includeArchived {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY created_at, title`

	rows, err := r.db.QueryContext(ctx, query, moduleID)
	if err != nil {
		return nil, fmt.Errorf("listing use cases: %w", err)
	}
	defer rows.Close()

	var useCases []*domain.UseCase
	for rows.Next() {
		u, err := scanUseCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning use case: %w", err)
		}
		useCases = append(useCases, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating use cases: %w", err)
	}
	return useCases, nil
}

func (r *SQLiteUseCaseRepo) Update(ctx context.Context, u *domain.UseCase) error {
	query := `UPDATE use_cases SET title = ?, description = ?, important_notes = ?, started_date = ?, is_active = ?, updated_at = ?, deleted_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		u.Title,
		u.Description,
		u.ImportantNotes,
		formatTime(u.StartedDate),
		boolToInt(u.IsActive),
		formatTime(u.UpdatedAt),
		nullableTimeToString(u.DeletedAt),
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("updating use case: %w", err)
	}
	return requireAffected(res, "use case", u.ID)
}

func (r *SQLiteUseCaseRepo) ArchiveByModuleID(ctx context.Context, moduleID string, now time.Time) (int64, error) {
	query := `UPDATE use_cases SET is_active = 0, updated_at = ?
		WHERE module_id = ? AND is_active = 1 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, formatTime(now), moduleID)
	if err != nil {
		return 0, fmt.Errorf("archiving use cases of module %s: %w", moduleID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting archived use cases: %w", err)
	}
	return n, nil
}

func scanUseCase(s scanner) (*domain.UseCase, error) {
	var u domain.UseCase
	var cols entityCols
	var startedStr string
	var active int

	err := s.Scan(
		&u.ID, &u.ModuleID, &u.CreatorID, &u.Title, &u.Description, &u.ImportantNotes,
		&startedStr, &active,
		&cols.createdAt, &cols.updatedAt, &cols.deletedAt,
	)
	if err != nil {
		return nil, err
	}
	if u.StartedDate, err = parseTime(startedStr); err != nil {
		return nil, fmt.Errorf("parsing started_date: %w", err)
	}
	u.IsActive = intToBool(active)
	if err := cols.apply(&u.Entity); err != nil {
		return nil, err
	}
	return &u, nil
}
