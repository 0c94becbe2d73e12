package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Timestamps are stored as fixed-width UTC text so that lexical order
// matches chronological order, including in CHECK constraints.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id           TEXT PRIMARY KEY,
		creator_id   TEXT NOT NULL,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		started_date TEXT NOT NULL,
		is_active    INTEGER NOT NULL DEFAULT 1 CHECK(is_active IN (0,1)),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS modules (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		creator_id   TEXT NOT NULL,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		started_date TEXT NOT NULL,
		is_active    INTEGER NOT NULL DEFAULT 1 CHECK(is_active IN (0,1)),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_modules_project ON modules(project_id)`,

	`CREATE TABLE IF NOT EXISTS use_cases (
		id              TEXT PRIMARY KEY,
		module_id       TEXT NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
		creator_id      TEXT NOT NULL,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		important_notes TEXT NOT NULL DEFAULT '',
		started_date    TEXT NOT NULL,
		is_active       INTEGER NOT NULL DEFAULT 1 CHECK(is_active IN (0,1)),
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_use_cases_module ON use_cases(module_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id              TEXT PRIMARY KEY,
		use_case_id     TEXT NOT NULL REFERENCES use_cases(id) ON DELETE CASCADE,
		creator_id      TEXT NOT NULL,
		assignee_id     TEXT NOT NULL,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		important_notes TEXT NOT NULL DEFAULT '',
		started_date    TEXT NOT NULL,
		due_date        TEXT,
		task_type       TEXT NOT NULL
		                CHECK(task_type IN ('feature','documentation','test','bug')),
		task_state      TEXT NOT NULL DEFAULT 'not_started'
		                CHECK(task_state IN ('not_started','in_progress','completed','cancelled')),
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL,
		CHECK(due_date IS NULL OR due_date >= started_date)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_use_case ON tasks(use_case_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_id)`,

	`CREATE TABLE IF NOT EXISTS task_relations (
		id             TEXT PRIMARY KEY,
		source_task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		target_task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		relation_type  TEXT NOT NULL
		               CHECK(relation_type IN ('blocks','relates_to','fixes','duplicates')),
		created_at     TEXT NOT NULL,
		UNIQUE (source_task_id, target_task_id, relation_type)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_relations_target ON task_relations(target_task_id)`,

	`CREATE TABLE IF NOT EXISTS project_members (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL,
		role       TEXT NOT NULL CHECK(role IN ('owner','member','viewer')),
		joined_at  TEXT NOT NULL,
		PRIMARY KEY (project_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS domain_events (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		payload      TEXT NOT NULL,
		occurred_at  TEXT NOT NULL,
		published_at TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_domain_events_pending ON domain_events(occurred_at) WHERE published_at IS NULL`,

	// Soft-delete markers
	`ALTER TABLE projects ADD COLUMN deleted_at TEXT`,
	`ALTER TABLE modules ADD COLUMN deleted_at TEXT`,
	`ALTER TABLE use_cases ADD COLUMN deleted_at TEXT`,
	`ALTER TABLE tasks ADD COLUMN deleted_at TEXT`,
}
