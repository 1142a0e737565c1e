package persistence

import (
	"context"
)

// initSchema creates all required tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS todos (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		line TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_todos_position ON todos(position);

	CREATE TABLE IF NOT EXISTS todo_dependencies (
		parent_id TEXT NOT NULL,
		child_id TEXT NOT NULL,
		PRIMARY KEY (parent_id, child_id),
		FOREIGN KEY (parent_id) REFERENCES todos(id) ON DELETE CASCADE,
		FOREIGN KEY (child_id) REFERENCES todos(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_todo_dependencies_child_id ON todo_dependencies(child_id);

	CREATE TABLE IF NOT EXISTS archived_todos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		todo_id TEXT NOT NULL,
		line TEXT NOT NULL,
		archived_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}
