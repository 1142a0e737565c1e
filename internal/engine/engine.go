// Package engine implements the add and do flows over a todo list: input
// normalization, dependency translation, completion cascades, recurrence and
// unlock reporting.
package engine

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/aristath/todograph/internal/events"
	"github.com/aristath/todograph/internal/recurrence"
	"github.com/aristath/todograph/internal/reldate"
	"github.com/aristath/todograph/internal/todo"
	"github.com/aristath/todograph/internal/todolist"
)

var (
	// ErrInvalidNumber is returned when a todo number names no todo.
	ErrInvalidNumber = todolist.ErrInvalidNumber
	// ErrAlreadyCompleted is returned by Do for a todo that is already done.
	ErrAlreadyCompleted = errors.New("todo has already been completed")
	// ErrEmptyTodo is returned by Add for blank input.
	ErrEmptyTodo = errors.New("empty todo")
)

// Options names the tags the engine interprets.
type Options struct {
	StartTag         string
	DueTag           string
	RecurrenceTag    string
	StrictRecurrence bool
}

// DefaultOptions returns the todo.txt conventional tag names.
func DefaultOptions() Options {
	return Options{
		StartTag:      "t",
		DueTag:        "due",
		RecurrenceTag: "rec",
	}
}

// Engine runs commands against one list. It is not safe for concurrent use.
type Engine struct {
	list   *todolist.TodoList
	opts   Options
	clock  func() time.Time
	logger *log.Logger
	bus    *events.EventBus
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source. It is read once per command.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithLogger sets the logger for dropped input and recurrence problems.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithEventBus publishes lifecycle events to bus.
func WithEventBus(bus *events.EventBus) Option {
	return func(e *Engine) { e.bus = bus }
}

// New creates an engine over list.
func New(list *todolist.TodoList, opts Options, options ...Option) *Engine {
	e := &Engine{
		list:   list,
		opts:   opts,
		clock:  time.Now,
		logger: log.New(io.Discard),
	}
	for _, o := range options {
		o(e)
	}
	return e
}

// List returns the list the engine operates on.
func (e *Engine) List() *todolist.TodoList {
	return e.list
}

func (e *Engine) today() time.Time {
	return reldate.Day(e.clock())
}

func (e *Engine) recurrenceOptions() recurrence.Options {
	return recurrence.Options{
		RecurrenceTag: e.opts.RecurrenceTag,
		DueTag:        e.opts.DueTag,
		StartTag:      e.opts.StartTag,
		Strict:        e.opts.StrictRecurrence,
	}
}

func (e *Engine) publish(event events.Event) {
	e.bus.Publish(event)
}

// publishProgress reports list totals after a command.
func (e *Engine) publishProgress() {
	ev := events.ListChangedEvent{Timestamp: e.clock()}
	for _, t := range e.list.Todos() {
		ev.Total++
		switch {
		case t.Completed:
			ev.Completed++
		case e.list.IsBlocked(t):
			ev.Blocked++
		default:
			ev.Active++
		}
	}
	e.bus.Publish(ev)
}

func (e *Engine) describe(t *todo.Todo) (int, string) {
	return e.list.Number(t), t.String()
}
