package todolist

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aristath/todograph/internal/graph"
	"github.com/aristath/todograph/internal/todo"
)

// Tags that carry dependency edges in todo.txt files. A parent holds id:N and
// each of its children holds p:N. They exist only on disk; in memory the
// graph is authoritative.
const (
	TagDependencyID     = "id"
	TagDependencyParent = "p"
)

// Decode builds a list from todo.txt lines. Blank lines are skipped.
// Dependency tags pointing at unknown ids, or closing a cycle, are dropped.
func Decode(lines []string) *TodoList {
	l := New()

	parentsByDepID := make(map[string][]*todo.Todo)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		t := l.Add(line)
		for _, depID := range t.TagValues(TagDependencyID) {
			parentsByDepID[depID] = append(parentsByDepID[depID], t)
		}
		t.RemoveTag(TagDependencyID, "")
	}

	for _, child := range l.todos {
		for _, depID := range child.TagValues(TagDependencyParent) {
			for _, parent := range parentsByDepID[depID] {
				// Malformed files are tolerated; the edge is simply lost
				_ = l.AddDependency(parent, child)
			}
		}
		child.RemoveTag(TagDependencyParent, "")
	}

	return l
}

// Encode renders the list as todo.txt lines with dependency tags. A parent's
// dependency id is its display number.
func (l *TodoList) Encode() []string {
	pos := l.positions()

	out := make(map[string]*todo.Todo, len(l.todos))
	for _, t := range l.todos {
		out[t.ID] = t.Clone()
	}

	edges := l.graph.Edges()
	sort.Slice(edges, func(i, j int) bool {
		if pos[edges[i].Parent] != pos[edges[j].Parent] {
			return pos[edges[i].Parent] < pos[edges[j].Parent]
		}
		return pos[edges[i].Child] < pos[edges[j].Child]
	})

	for _, e := range edges {
		depID := strconv.Itoa(pos[e.Parent])
		out[e.Parent].AddTag(TagDependencyID, depID)
		out[e.Child].AddTag(TagDependencyParent, depID)
	}

	lines := make([]string, 0, len(l.todos))
	for _, t := range l.todos {
		lines = append(lines, out[t.ID].String())
	}
	return lines
}

// Restore rebuilds a list from todos that already carry identities and the
// edges between them.
func Restore(todos []*todo.Todo, edges []graph.Edge) (*TodoList, error) {
	l := New()

	for _, t := range todos {
		if t.ID == "" {
			return nil, fmt.Errorf("restoring todo %q: missing identity", t.Text)
		}
		if err := l.AddTodo(t); err != nil {
			return nil, fmt.Errorf("restoring todo %q: %w", t.Text, err)
		}
	}

	for _, e := range edges {
		if err := l.graph.AddEdge(e.Parent, e.Child); err != nil {
			return nil, fmt.Errorf("restoring dependency %s -> %s: %w", e.Parent, e.Child, err)
		}
	}

	return l, nil
}
