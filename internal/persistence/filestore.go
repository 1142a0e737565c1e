package persistence

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aristath/todograph/internal/todo"
	"github.com/aristath/todograph/internal/todolist"
)

// FileStore implements Store on a todo.txt file and a done.txt archive.
// Dependencies are kept in the files as id:N and p:N tags.
type FileStore struct {
	todoPath    string
	archivePath string
}

// NewFileStore creates a store over the given todo and archive files. The
// files are created on first save.
func NewFileStore(todoPath, archivePath string) *FileStore {
	return &FileStore{todoPath: todoPath, archivePath: archivePath}
}

// Load reads the todo file. A missing file is an empty list.
func (s *FileStore) Load(ctx context.Context) (*todolist.TodoList, error) {
	lines, err := readLines(s.todoPath)
	if err != nil {
		return nil, err
	}
	return todolist.Decode(lines), nil
}

// Save writes list to the todo file, replacing it atomically.
func (s *FileStore) Save(ctx context.Context, list *todolist.TodoList) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	for _, line := range list.Encode() {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if err := writeFileAtomic(s.todoPath, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to save todo file: %w", err)
	}
	return nil
}

// Archive appends done to the archive file.
func (s *FileStore) Archive(ctx context.Context, done []*todo.Todo) error {
	if len(done) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.archivePath), 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	f, err := os.OpenFile(s.archivePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, t := range done {
		w.WriteString(t.String())
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write archive: %w", err)
	}
	return f.Close()
}

// Close is a no-op; files are not held open between operations.
func (s *FileStore) Close() error {
	return nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(text, "\n"), nil
}

// writeFileAtomic writes through a temporary file in the same directory so a
// crash never leaves a truncated todo file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
