package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aristath/todograph/internal/graph"
	"github.com/aristath/todograph/internal/todo"
	"github.com/aristath/todograph/internal/todolist"
)

// Save replaces the stored list with list, including identities and
// dependency edges. Todos missing from list are deleted along with their edges.
func (s *SQLiteStore) Save(ctx context.Context, list *todolist.TodoList) error {
	return s.withRetry(ctx, "save", func(ctx context.Context) error {
		return s.save(ctx, list)
	})
}

func (s *SQLiteStore) save(ctx context.Context, list *todolist.TodoList) error {
	// Begin transaction with serializable isolation (BEGIN IMMEDIATE)
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	keep := make(map[string]bool, list.Len())
	for i, t := range list.Todos() {
		keep[t.ID] = true

		_, err = tx.ExecContext(ctx, `
			INSERT INTO todos (id, position, line, completed, created_at, updated_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			ON CONFLICT(id) DO UPDATE SET
				position = excluded.position,
				line = excluded.line,
				completed = excluded.completed,
				updated_at = CURRENT_TIMESTAMP
		`, t.ID, i+1, t.String(), t.Completed)
		if err != nil {
			return fmt.Errorf("failed to upsert todo %s: %w", t.ID, err)
		}
	}

	stale, err := storedIDs(ctx, tx)
	if err != nil {
		return err
	}
	for _, id := range stale {
		if keep[id] {
			continue
		}
		// Edges go with the todo through ON DELETE CASCADE
		if _, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete todo %s: %w", id, err)
		}
	}

	// Edges are few; rewriting them all is simpler than diffing
	if _, err := tx.ExecContext(ctx, `DELETE FROM todo_dependencies`); err != nil {
		return fmt.Errorf("failed to delete old dependencies: %w", err)
	}
	for _, e := range list.Edges() {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO todo_dependencies (parent_id, child_id)
			VALUES (?, ?)
		`, e.Parent, e.Child)
		if err != nil {
			return fmt.Errorf("failed to insert dependency %s -> %s: %w", e.Parent, e.Child, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func storedIDs(ctx context.Context, tx *sql.Tx) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM todos`)
	if err != nil {
		return nil, fmt.Errorf("failed to query todo ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan todo id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todo ids: %w", err)
	}
	return ids, nil
}

// Load returns the stored list in display order with its dependency edges.
// Todos and edges are read in parallel on the store's two connections.
func (s *SQLiteStore) Load(ctx context.Context) (*todolist.TodoList, error) {
	var (
		todos []*todo.Todo
		edges []graph.Edge
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		todos, err = s.loadTodos(gctx)
		return err
	})
	g.Go(func() (err error) {
		edges, err = s.loadEdges(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	list, err := todolist.Restore(todos, edges)
	if err != nil {
		return nil, fmt.Errorf("failed to restore list: %w", err)
	}
	return list, nil
}

func (s *SQLiteStore) loadTodos(ctx context.Context) ([]*todo.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, line
		FROM todos
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	var todos []*todo.Todo
	for rows.Next() {
		var id, line string
		if err := rows.Scan(&id, &line); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		t := todo.Parse(line)
		t.ID = id
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}
	return todos, nil
}

func (s *SQLiteStore) loadEdges(ctx context.Context) ([]graph.Edge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT parent_id, child_id
		FROM todo_dependencies
		ORDER BY parent_id, child_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dependencies: %w", err)
	}
	defer rows.Close()

	var edges []graph.Edge
	for rows.Next() {
		var e graph.Edge
		if err := rows.Scan(&e.Parent, &e.Child); err != nil {
			return nil, fmt.Errorf("failed to scan dependency: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dependencies: %w", err)
	}
	return edges, nil
}

// Archive appends done to the archive table.
func (s *SQLiteStore) Archive(ctx context.Context, done []*todo.Todo) error {
	if len(done) == 0 {
		return nil
	}

	return s.withRetry(ctx, "archive", func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		for _, t := range done {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO archived_todos (todo_id, line)
				VALUES (?, ?)
			`, t.ID, t.String())
			if err != nil {
				return fmt.Errorf("failed to archive todo %s: %w", t.ID, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
}

// Archived returns every archived todo line, oldest first.
func (s *SQLiteStore) Archived(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT line
		FROM archived_todos
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("failed to scan archived todo: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating archive: %w", err)
	}
	return lines, nil
}
