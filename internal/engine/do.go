package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/todograph/internal/events"
	"github.com/aristath/todograph/internal/recurrence"
	"github.com/aristath/todograph/internal/todo"
)

// CascadeQuestion is asked before open subtasks are completed with their parent.
const CascadeQuestion = "Also mark subtasks as done?"

// DoOptions controls a completion.
type DoOptions struct {
	// Force skips the question and leaves open subtasks untouched.
	Force bool
	// Decider answers CascadeQuestion. Nil answers no.
	Decider Decider
}

// Result describes what a completion changed.
type Result struct {
	Todo     *todo.Todo   // the completed todo
	Cascaded []*todo.Todo // subtasks completed along with it
	Spawned  *todo.Todo   // successor of a recurring todo, if any
	Unlocked []*todo.Todo // todos whose last open subtask was Todo
}

// Do marks todo number as completed.
//
// Open subtasks are completed too when the decider agrees; only direct
// subtasks are touched and they never recur. A recurring todo spawns its
// successor before it is marked done. Invalid numbers and completed todos
// return ErrInvalidNumber and ErrAlreadyCompleted without changing anything.
func (e *Engine) Do(ctx context.Context, number int, opts DoOptions) (*Result, error) {
	t, err := e.list.Todo(number)
	if err != nil {
		return nil, err
	}
	if t.Completed {
		return nil, fmt.Errorf("%w: %d", ErrAlreadyCompleted, number)
	}

	today := e.today()
	result := &Result{Todo: t}

	// Ask first so a failed prompt leaves the list untouched
	children := e.list.UncompletedChildren(t)
	cascade := false
	if len(children) > 0 && !opts.Force {
		decider := opts.Decider
		if decider == nil {
			decider = Always(false)
		}
		cascade, err = decider.Confirm(ctx, CascadeQuestion, children)
		if err != nil {
			return nil, fmt.Errorf("confirming subtasks of todo %d: %w", number, err)
		}
	}

	if cascade {
		for _, child := range children {
			e.list.SetCompleted(child, today)
			result.Cascaded = append(result.Cascaded, child)

			n, line := e.describe(child)
			e.publish(events.TodoCompletedEvent{ID: child.ID, Number: n, Line: line, Cascaded: true, Timestamp: e.clock()})
		}
	}

	if t.HasTag(e.opts.RecurrenceTag) {
		result.Spawned = e.spawnSuccessor(t, today)
	}

	e.list.SetCompleted(t, today)
	n, line := e.describe(t)
	e.publish(events.TodoCompletedEvent{ID: t.ID, Number: n, Line: line, Timestamp: e.clock()})

	for _, parent := range e.list.Parents(t) {
		if parent.Completed || e.list.IsBlocked(parent) {
			continue
		}
		result.Unlocked = append(result.Unlocked, parent)

		n, line := e.describe(parent)
		e.publish(events.TodoUnlockedEvent{ID: parent.ID, Number: n, Line: line, Timestamp: e.clock()})
	}

	e.publishProgress()
	return result, nil
}

// spawnSuccessor adds the next instance of a recurring todo. A broken
// pattern is logged and produces nothing.
func (e *Engine) spawnSuccessor(t *todo.Todo, today time.Time) *todo.Todo {
	next, err := recurrence.Advance(t, today, e.recurrenceOptions())
	if err != nil {
		e.logger.Warn("not recurring todo", "number", e.list.Number(t), "err", err)
		return nil
	}

	if err := e.list.AddTodo(next); err != nil {
		e.logger.Warn("not recurring todo", "number", e.list.Number(t), "err", err)
		return nil
	}

	n, line := e.describe(next)
	e.publish(events.TodoRecurredEvent{ID: next.ID, OriginID: t.ID, Number: n, Line: line, Timestamp: e.clock()})
	return next
}
