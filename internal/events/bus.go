// Package events carries todo lifecycle notifications from the engine to
// whoever renders or records them.
package events

import (
	"sync"
	"sync/atomic"
)

const defaultBufferSize = 256

// subscription is one subscriber channel and the event types it accepts.
// No types means every event.
type subscription struct {
	ch    chan Event
	types map[string]bool
}

func (s *subscription) wants(event Event) bool {
	return len(s.types) == 0 || s.types[event.EventType()]
}

// EventBus fans engine events out to subscribers.
// Delivery never blocks the engine: a full subscriber misses the event.
type EventBus struct {
	mu      sync.RWMutex
	subs    []*subscription
	closed  bool
	dropped atomic.Int64
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe receives the listed event types (EventTypeTodoUnlocked, ...),
// or every event when none are given. bufSize defaults to 256 when <= 0.
func (b *EventBus) Subscribe(bufSize int, eventTypes ...string) <-chan Event {
	if bufSize <= 0 {
		bufSize = defaultBufferSize
	}
	sub := &subscription{ch: make(chan Event, bufSize)}
	if len(eventTypes) > 0 {
		sub.types = make(map[string]bool, len(eventTypes))
		for _, et := range eventTypes {
			sub.types[et] = true
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(sub.ch)
		return sub.ch
	}

	b.subs = append(b.subs, sub)
	return sub.ch
}

// Publish delivers event to every subscriber that wants it.
// Publishing on a nil or closed bus does nothing.
func (b *EventBus) Publish(event Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, sub := range b.subs {
		if !sub.wants(event) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Dropped returns how many deliveries were skipped because a subscriber was full.
func (b *EventBus) Dropped() int64 {
	return b.dropped.Load()
}

// Close closes every subscriber channel. Safe to call multiple times.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, sub := range b.subs {
		close(sub.ch)
	}
}
