// Package recurrence spawns the next instance of a recurring todo.
package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/todograph/internal/reldate"
	"github.com/aristath/todograph/internal/todo"
	"github.com/aristath/todograph/internal/todolist"
)

// ErrInvalidPattern is returned when the recurrence tag holds no relative date.
var ErrInvalidPattern = errors.New("invalid recurrence pattern")

// Options names the tags Advance reads and writes.
type Options struct {
	RecurrenceTag string // e.g. "rec"
	DueTag        string // e.g. "due"
	StartTag      string // e.g. "t"
	// Strict bases every successor on the old due date, as if each pattern
	// carried a leading "+".
	Strict bool
}

// Advance builds the successor of a recurring todo t, completed on today.
//
// The pattern in the recurrence tag is a relative date ("1w", "mo"). A
// leading "+" makes it strict: the new due date is counted from t's due date
// instead of from today. A start date keeps its distance to the due date.
//
// The successor is a fresh, uncompleted todo without identity or dependency
// edges; t itself is not modified.
func Advance(t *todo.Todo, today time.Time, opts Options) (*todo.Todo, error) {
	today = reldate.Day(today)
	pattern := t.TagValue(opts.RecurrenceTag)

	strict := opts.Strict
	if strings.HasPrefix(pattern, "+") {
		strict = true
		pattern = strings.TrimPrefix(pattern, "+")
	}

	// Strict recurrence counts from the old due date when there is one
	offset := today
	due, hasDue := t.Date(opts.DueTag)
	if strict && hasDue {
		offset = due
	}

	newDue, ok := reldate.Resolve(pattern, offset)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, t.TagValue(opts.RecurrenceTag))
	}

	next := t.Clone()
	next.ID = ""
	next.Completed = false
	next.CompletionDate = time.Time{}
	next.CreationDate = today
	next.RemoveTag(todolist.TagDependencyID, "")
	next.RemoveTag(todolist.TagDependencyParent, "")

	start, hasStart := t.Date(opts.StartTag)
	switch {
	case hasStart && hasDue:
		next.SetTag(opts.StartTag, reldate.Format(newDue.Add(-due.Sub(start))))
		next.SetTag(opts.DueTag, reldate.Format(newDue))
	case hasStart:
		// Without a due date the start date itself recurs
		newStart, _ := reldate.Resolve(pattern, startOffset(start, today, strict))
		next.SetTag(opts.StartTag, reldate.Format(newStart))
	default:
		next.SetTag(opts.DueTag, reldate.Format(newDue))
	}

	return next, nil
}

func startOffset(start, today time.Time, strict bool) time.Time {
	if strict {
		return start
	}
	return today
}
