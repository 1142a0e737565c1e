// Package todolist is the in-memory collection of todos and their dependency graph.
package todolist

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/aristath/todograph/internal/graph"
	"github.com/aristath/todograph/internal/todo"
)

// ErrInvalidNumber is returned when a display number names no todo.
var ErrInvalidNumber = errors.New("invalid todo number")

// TodoList holds todos in display order. Number n refers to the n-th todo.
type TodoList struct {
	todos []*todo.Todo
	byID  map[string]*todo.Todo
	graph *graph.Graph
}

// New creates an empty list.
func New() *TodoList {
	return &TodoList{
		byID:  make(map[string]*todo.Todo),
		graph: graph.New(),
	}
}

// Add parses line and appends it as a new todo.
func (l *TodoList) Add(line string) *todo.Todo {
	t := todo.Parse(line)
	// A freshly parsed todo has no identity yet, so AddTodo cannot fail
	_ = l.AddTodo(t)
	return t
}

// AddTodo appends t, assigning an identity when it has none.
// Returns error if t's identity is already in the list.
func (l *TodoList) AddTodo(t *todo.Todo) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := l.graph.AddNode(t.ID); err != nil {
		return fmt.Errorf("adding todo: %w", err)
	}

	l.todos = append(l.todos, t)
	l.byID[t.ID] = t
	return nil
}

// Remove drops t and every dependency edge touching it. Later todos shift
// down one number.
func (l *TodoList) Remove(t *todo.Todo) {
	if _, ok := l.byID[t.ID]; !ok {
		return
	}

	for i, cur := range l.todos {
		if cur.ID == t.ID {
			l.todos = append(l.todos[:i], l.todos[i+1:]...)
			break
		}
	}
	delete(l.byID, t.ID)
	l.graph.RemoveNode(t.ID)
}

// RemoveCompleted drops every completed todo and returns them in display
// order. Open todos keep their relative order.
func (l *TodoList) RemoveCompleted() []*todo.Todo {
	var done []*todo.Todo
	for _, t := range l.Todos() {
		if t.Completed {
			done = append(done, t)
			l.Remove(t)
		}
	}
	return done
}

// Todo returns the todo with display number n (1-based).
func (l *TodoList) Todo(n int) (*todo.Todo, error) {
	if n < 1 || n > len(l.todos) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNumber, n)
	}
	return l.todos[n-1], nil
}

// Number returns the display number of t, or 0 if t is not in the list.
func (l *TodoList) Number(t *todo.Todo) int {
	for i, cur := range l.todos {
		if cur.ID == t.ID {
			return i + 1
		}
	}
	return 0
}

// Todos returns all todos in display order.
func (l *TodoList) Todos() []*todo.Todo {
	return append([]*todo.Todo(nil), l.todos...)
}

// Len returns the number of todos.
func (l *TodoList) Len() int {
	return len(l.todos)
}

// AddDependency records that child must be completed before parent.
func (l *TodoList) AddDependency(parent, child *todo.Todo) error {
	if err := l.graph.AddEdge(parent.ID, child.ID); err != nil {
		return fmt.Errorf("adding dependency: %w", err)
	}
	return nil
}

// Children returns the todos t waits on, in display order.
func (l *TodoList) Children(t *todo.Todo) []*todo.Todo {
	return l.resolve(l.graph.Children(t.ID))
}

// Parents returns the todos waiting on t, in display order.
func (l *TodoList) Parents(t *todo.Todo) []*todo.Todo {
	return l.resolve(l.graph.Parents(t.ID))
}

// UncompletedChildren returns the children of t that are still open, sorted
// by priority and then by number.
func (l *TodoList) UncompletedChildren(t *todo.Todo) []*todo.Todo {
	var open []*todo.Todo
	for _, child := range l.Children(t) {
		if !child.Completed {
			open = append(open, child)
		}
	}
	l.Sort(open)
	return open
}

// IsBlocked reports whether t has children that are still open.
func (l *TodoList) IsBlocked(t *todo.Todo) bool {
	for _, child := range l.Children(t) {
		if !child.Completed {
			return true
		}
	}
	return false
}

// SetCompleted marks t done on day. It touches neither children nor recurrence.
func (l *TodoList) SetCompleted(t *todo.Todo, day time.Time) {
	t.Complete(day)
}

// DateCompletions gives every completed todo without a completion date the
// date day, and returns those todos. Lines written by hand as "x Buy milk"
// load that way.
func (l *TodoList) DateCompletions(day time.Time) []*todo.Todo {
	var dated []*todo.Todo
	for _, t := range l.todos {
		if t.Completed && t.CompletionDate.IsZero() {
			t.Complete(day)
			dated = append(dated, t)
		}
	}
	return dated
}

// Sort orders todos by priority, then by display number. It sorts in place.
func (l *TodoList) Sort(todos []*todo.Todo) {
	pos := l.positions()
	sort.SliceStable(todos, func(i, j int) bool {
		if todo.Less(todos[i], todos[j]) {
			return true
		}
		if todo.Less(todos[j], todos[i]) {
			return false
		}
		return pos[todos[i].ID] < pos[todos[j].ID]
	})
}

// Edges returns every dependency edge.
func (l *TodoList) Edges() []graph.Edge {
	return l.graph.Edges()
}

// DependencyOrder returns all todos with every child ahead of its parents.
func (l *TodoList) DependencyOrder() ([]*todo.Todo, error) {
	ids, err := l.graph.Order()
	if err != nil {
		return nil, fmt.Errorf("ordering todos: %w", err)
	}

	todos := make([]*todo.Todo, 0, len(ids))
	for _, id := range ids {
		if t, ok := l.byID[id]; ok {
			todos = append(todos, t)
		}
	}
	return todos, nil
}

// resolve maps identities to todos, sorted by display number.
func (l *TodoList) resolve(ids []string) []*todo.Todo {
	todos := make([]*todo.Todo, 0, len(ids))
	for _, id := range ids {
		if t, ok := l.byID[id]; ok {
			todos = append(todos, t)
		}
	}
	pos := l.positions()
	sort.SliceStable(todos, func(i, j int) bool {
		return pos[todos[i].ID] < pos[todos[j].ID]
	})
	return todos
}

// positions maps identities to display numbers.
func (l *TodoList) positions() map[string]int {
	pos := make(map[string]int, len(l.todos))
	for i, t := range l.todos {
		pos[t.ID] = i + 1
	}
	return pos
}
