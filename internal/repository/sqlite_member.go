package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/strata/internal/db"
	"github.com/alexanderramin/strata/internal/domain"
)

// SQLiteMemberRepo implements MemberRepo using a SQLite database.
type SQLiteMemberRepo struct {
	db db.DBTX
}

func NewSQLiteMemberRepo(db db.DBTX) *SQLiteMemberRepo {
	return &SQLiteMemberRepo{db: db}
}

func (r *SQLiteMemberRepo) Add(ctx context.Context, m domain.ProjectMember) error {
	query := `INSERT INTO project_members (project_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, m.ProjectID, m.UserID, string(m.Role), formatTime(m.JoinedAt))
	if err != nil {
		return insertErr(err, "project member")
	}
	return nil
}

func (r *SQLiteMemberRepo) Remove(ctx context.Context, projectID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM project_members WHERE project_id = ? AND user_id = ?`, projectID, userID)
	if err != nil {
		return fmt.Errorf("removing project member: %w", err)
	}
	return requireAffected(res, "project member", userID)
}

func (r *SQLiteMemberRepo) Get(ctx context.Context, projectID, userID string) (*domain.ProjectMember, error) {
	query := `SELECT project_id, user_id, role, joined_at FROM project_members WHERE project_id = ? AND user_id = ?`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, projectID, userID))
	if err != nil {
		return nil, notFoundOr(err, "project member", userID)
	}
	return m, nil
}

func (r *SQLiteMemberRepo) ListByProject(ctx context.Context, projectID string) ([]domain.ProjectMember, error) {
	query := `SELECT project_id, user_id, role, joined_at FROM project_members WHERE project_id = ?
		ORDER BY joined_at, user_id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project members: %w", err)
	}
	defer rows.Close()

	var members []domain.ProjectMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project member: %w", err)
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project members: %w", err)
	}
	return members, nil
}

func (r *SQLiteMemberRepo) UpdateRole(ctx context.Context, projectID, userID string, role domain.ProjectRole) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE project_members SET role = ? WHERE project_id = ? AND user_id = ?`, string(role), projectID, userID)
	if err != nil {
		return fmt.Errorf("updating project member role: %w", err)
	}
	return requireAffected(res, "project member", userID)
}

func (r *SQLiteMemberRepo) CountByRole(ctx context.Context, projectID string, role domain.ProjectRole) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM project_members WHERE project_id = ? AND role = ?`, projectID, string(role)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting project members: %w", err)
	}
	return n, nil
}

func scanMember(s scanner) (*domain.ProjectMember, error) {
	var m domain.ProjectMember
	var roleStr, joinedStr string
	if err := s.Scan(&m.ProjectID, &m.UserID, &roleStr, &joinedStr); err != nil {
		return nil, err
	}
	m.Role = domain.ProjectRole(roleStr)
	var err error
	if m.JoinedAt, err = parseTime(joinedStr); err != nil {
		return nil, fmt.Errorf("parsing joined_at: %w", err)
	}
	return &m, nil
}
