package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/strata/internal/db"
	"github.com/alexanderramin/strata/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

const taskColumns = `id, use_case_id, creator_id, assignee_id, title, description, important_notes,
	started_date, due_date, task_type, task_state, created_at, updated_at, deleted_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.UseCaseID,
		t.CreatorID,
		t.AssigneeID,
		t.Title,
		t.Description,
		t.ImportantNotes,
		formatTime(t.StartedDate),
		nullableTimeToString(t.DueDate),
		string(t.Type),
		string(t.State),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
		nullableTimeToString(t.DeletedAt),
	)
	if err != nil {
		return insertErr(err, "task")
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND deleted_at IS NULL`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "task", id)
	}

	rels, err := listRelations(ctx, r.db, `source_task_id`, id)
	if err != nil {
		return nil, err
	}
	if err := t.LoadRelations(rels); err != nil {
		return nil, fmt.Errorf("loading relations of task %s: %w", id, err)
	}
	return t, nil
}

// ListByUseCase does not load relations.
func (r *SQLiteTaskRepo) ListByUseCase(ctx context.Context, useCaseID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE use_case_id = ? AND deleted_at IS NULL
		ORDER BY created_at, title`
	return r.queryTasks(ctx, query, useCaseID)
}

func (r *SQLiteTaskRepo) ListOverdueCandidates(ctx context.Context, useCaseID string, now time.Time) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE use_case_id = ? AND deleted_at IS NULL
		  AND due_date IS NOT NULL AND due_date < ? AND task_state != 'completed'
		ORDER BY due_date, title`
	return r.queryTasks(ctx, query, useCaseID, formatTime(now))
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET assignee_id = ?, title = ?, description = ?, important_notes = ?,
		due_date = ?, task_type = ?, task_state = ?, updated_at = ?, deleted_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.AssigneeID,
		t.Title,
		t.Description,
		t.ImportantNotes,
		nullableTimeToString(t.DueDate),
		string(t.Type),
		string(t.State),
		formatTime(t.UpdatedAt),
		nullableTimeToString(t.DeletedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res, "task", t.ID)
}

func (r *SQLiteTaskRepo) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var cols entityCols
	var startedStr, typeStr, stateStr string
	var dueStr sql.NullString

	err := s.Scan(
		&t.ID, &t.UseCaseID, &t.CreatorID, &t.AssigneeID,
		&t.Title, &t.Description, &t.ImportantNotes,
		&startedStr, &dueStr, &typeStr, &stateStr,
		&cols.createdAt, &cols.updatedAt, &cols.deletedAt,
	)
	if err != nil {
		return nil, err
	}
	if t.StartedDate, err = parseTime(startedStr); err != nil {
		return nil, fmt.Errorf("parsing started_date: %w", err)
	}
	t.DueDate = parseNullableTime(dueStr)
	t.Type = domain.TaskType(typeStr)
	t.State = domain.TaskState(stateStr)
	if err := cols.apply(&t.Entity); err != nil {
		return nil, err
	}
	return &t, nil
}
