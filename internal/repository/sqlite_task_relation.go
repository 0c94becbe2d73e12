package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/strata/internal/db"
	"github.com/alexanderramin/strata/internal/domain"
)

// SQLiteTaskRelationRepo implements TaskRelationRepo using a SQLite database.
// Uniqueness of (source, target, type) is enforced by the table itself.
type SQLiteTaskRelationRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRelationRepo(db db.DBTX) *SQLiteTaskRelationRepo {
	return &SQLiteTaskRelationRepo{db: db}
}

func (r *SQLiteTaskRelationRepo) Create(ctx context.Context, rel domain.TaskRelation) error {
	query := `INSERT INTO task_relations (id, source_task_id, target_task_id, relation_type, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rel.ID,
		rel.SourceTaskID,
		rel.TargetTaskID,
		string(rel.Type),
		formatTime(rel.CreatedAt),
	)
	if err != nil {
		return insertErr(err, "task relation")
	}
	return nil
}

func (r *SQLiteTaskRelationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM task_relations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task relation: %w", err)
	}
	return requireAffected(res, "task relation", id)
}

func (r *SQLiteTaskRelationRepo) ListBySource(ctx context.Context, taskID string) ([]domain.TaskRelation, error) {
	return listRelations(ctx, r.db, `source_task_id`, taskID)
}

func (r *SQLiteTaskRelationRepo) ListByTarget(ctx context.Context, taskID string) ([]domain.TaskRelation, error) {
	return listRelations(ctx, r.db, `target_task_id`, taskID)
}

// listRelations is shared with the task repo. column is never user input.
func listRelations(ctx context.Context, q db.DBTX, column, taskID string) ([]domain.TaskRelation, error) {
	query := `SELECT id, source_task_id, target_task_id, relation_type, created_at
		FROM task_relations WHERE ` + column + ` = ? ORDER BY created_at, id`
	rows, err := q.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing task relations: %w", err)
	}
	defer rows.Close()

	var rels []domain.TaskRelation
	for rows.Next() {
		var rel domain.TaskRelation
		var typeStr, createdStr string
		if err := rows.Scan(&rel.ID, &rel.SourceTaskID, &rel.TargetTaskID, &typeStr, &createdStr); err != nil {
			return nil, fmt.Errorf("scanning task relation: %w", err)
		}
		rel.Type = domain.RelationType(typeStr)
		if rel.CreatedAt, err = parseTime(createdStr); err != nil {
			return nil, fmt.Errorf("parsing relation created_at: %w", err)
		}
		rels = append(rels, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task relations: %w", err)
	}
	return rels, nil
}
