// Package persistence loads and saves todo lists. FileStore keeps the classic
// todo.txt and done.txt pair; SQLiteStore keeps identities and edges in a
// database.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	_ "modernc.org/sqlite"

	"github.com/aristath/todograph/internal/todo"
	"github.com/aristath/todograph/internal/todolist"
)

// Store defines where a todo list lives between commands.
type Store interface {
	// Load returns the saved list, or an empty one when nothing was saved yet.
	Load(ctx context.Context) (*todolist.TodoList, error)
	// Save replaces the saved list with list.
	Save(ctx context.Context, list *todolist.TodoList) error
	// Archive appends completed todos to the archive.
	Archive(ctx context.Context, done []*todo.Todo) error

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	retry   RetryConfig
	breaker *gobreaker.CircuitBreaker
	logger  *log.Logger
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithRetryConfig overrides the backoff used when the database is busy.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(s *SQLiteStore) { s.retry = cfg }
}

// WithLogger sets the logger for retries and breaker state changes.
func WithLogger(logger *log.Logger) Option {
	return func(s *SQLiteStore) { s.logger = logger }
}

// connPragmas run on every new connection; modernc.org/sqlite only honours
// pragmas passed as _pragma parameters.
const connPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// NewSQLiteStore creates a new SQLite-backed store at the given path,
// creating parent directories if needed.
func NewSQLiteStore(ctx context.Context, dbPath string, opts ...Option) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent directories: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?%s&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", dbPath, connPragmas)
	return openStore(ctx, connStr, opts)
}

// NewMemoryStore creates an in-memory SQLite store for testing.
// Each store gets its own shared-cache database, visible to all of its
// connections and to no other store.
func NewMemoryStore(ctx context.Context, opts ...Option) (*SQLiteStore, error) {
	connStr := fmt.Sprintf("file:%s?mode=memory&cache=shared&%s", uuid.NewString(), connPragmas)
	return openStore(ctx, connStr, opts)
}

func openStore(ctx context.Context, connStr string, opts []Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection for the list, one for a concurrent archive
	db.SetMaxOpenConns(2)

	store := &SQLiteStore{
		db:     db,
		retry:  DefaultRetryConfig(),
		logger: log.New(io.Discard),
	}
	for _, o := range opts {
		o(store)
	}
	store.breaker = newBreaker("sqlite", store.logger)

	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
