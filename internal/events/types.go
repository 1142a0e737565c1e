package events

import (
	"time"
)

// Event is the base interface for all events.
type Event interface {
	EventType() string
	TodoID() string
}

// Event type constants
const (
	EventTypeTodoAdded     = "todo.added"
	EventTypeTodoCompleted = "todo.completed"
	EventTypeTodoRecurred  = "todo.recurred"
	EventTypeTodoUnlocked  = "todo.unlocked"
	EventTypeListChanged   = "list.changed"
)

// TodoAddedEvent is published when a todo enters the list.
type TodoAddedEvent struct {
	ID        string
	Number    int
	Line      string
	Timestamp time.Time
}

func (e TodoAddedEvent) EventType() string { return EventTypeTodoAdded }
func (e TodoAddedEvent) TodoID() string    { return e.ID }

// TodoCompletedEvent is published for the completed todo and for every
// subtask completed along with it (Cascaded set).
type TodoCompletedEvent struct {
	ID        string
	Number    int
	Line      string
	Cascaded  bool
	Timestamp time.Time
}

func (e TodoCompletedEvent) EventType() string { return EventTypeTodoCompleted }
func (e TodoCompletedEvent) TodoID() string    { return e.ID }

// TodoRecurredEvent is published when completing a recurring todo spawns its successor.
type TodoRecurredEvent struct {
	ID        string // the successor
	OriginID  string
	Number    int
	Line      string
	Timestamp time.Time
}

func (e TodoRecurredEvent) EventType() string { return EventTypeTodoRecurred }
func (e TodoRecurredEvent) TodoID() string    { return e.ID }

// TodoUnlockedEvent is published when a todo's last open subtask is completed.
type TodoUnlockedEvent struct {
	ID        string
	Number    int
	Line      string
	Timestamp time.Time
}

func (e TodoUnlockedEvent) EventType() string { return EventTypeTodoUnlocked }
func (e TodoUnlockedEvent) TodoID() string    { return e.ID }

// ListChangedEvent carries list totals after a command changed it.
type ListChangedEvent struct {
	Total     int
	Completed int
	Blocked   int // open todos with open subtasks
	Active    int // open todos without open subtasks
	Timestamp time.Time
}

func (e ListChangedEvent) EventType() string { return EventTypeListChanged }
func (e ListChangedEvent) TodoID() string    { return "" }
