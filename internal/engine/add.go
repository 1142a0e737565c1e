package engine

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/todograph/internal/events"
	"github.com/aristath/todograph/internal/reldate"
	"github.com/aristath/todograph/internal/todo"
)

// Dependency tags accepted on input. Their values are todo numbers.
const (
	TagPartOf = "partof"
	TagBefore = "before"
	TagAfter  = "after"
)

// The greedy (.+) makes only the last mid-sentence priority move.
var midSentencePriority = regexp.MustCompile(`^(.+) (\([A-Z]\))(.*)$`)

// Add normalizes raw into a todo and appends it to the list.
//
//   - A priority written mid-sentence ("Water flowers (C)") moves to the front.
//   - Relative start and due dates ("due:fr") become ISO dates.
//   - partof:N and before:N make the new todo a subtask of todo N; after:N
//     makes todo N a subtask of the new todo. These tags are always removed;
//     unknown numbers and cyclic dependencies are dropped.
//   - The creation date defaults to today, and so does the completion date
//     of a todo added as already done ("x Buy milk").
func (e *Engine) Add(raw string) (*todo.Todo, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyTodo
	}

	today := e.today()
	t := e.list.Add(relocatePriority(raw))

	e.convertDate(t, e.opts.StartTag, today)
	e.convertDate(t, e.opts.DueTag, today)

	e.addDependencies(t, TagPartOf)
	e.addDependencies(t, TagBefore)
	e.addDependencies(t, TagAfter)

	if t.CreationDate.IsZero() {
		t.CreationDate = today
	}
	if t.Completed && t.CompletionDate.IsZero() {
		t.CompletionDate = today
	}

	number, line := e.describe(t)
	e.publish(events.TodoAddedEvent{ID: t.ID, Number: number, Line: line, Timestamp: e.clock()})
	e.publishProgress()

	return t, nil
}

// AddLines adds every non-blank line in order.
func (e *Engine) AddLines(lines []string) ([]*todo.Todo, error) {
	var added []*todo.Todo
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		t, err := e.Add(line)
		if err != nil {
			return added, err
		}
		added = append(added, t)
	}
	return added, nil
}

func relocatePriority(text string) string {
	return midSentencePriority.ReplaceAllString(text, "$2 $1$3")
}

// convertDate rewrites a relative date under key; anything else is kept.
func (e *Engine) convertDate(t *todo.Todo, key string, today time.Time) {
	value := t.TagValue(key)
	if value == "" {
		return
	}

	d, ok := reldate.Resolve(value, today)
	if !ok {
		e.logger.Debug("keeping unresolved date", "tag", key, "value", value)
		return
	}
	t.SetTag(key, reldate.Format(d))
}

func (e *Engine) addDependencies(t *todo.Todo, key string) {
	for _, value := range t.TagValues(key) {
		t.RemoveTag(key, value)

		n, err := strconv.Atoi(value)
		if err != nil {
			e.logger.Debug("dropping dependency", "tag", key, "value", value, "reason", "not a number")
			continue
		}

		other, err := e.list.Todo(n)
		if err != nil {
			e.logger.Debug("dropping dependency", "tag", key, "value", value, "err", err)
			continue
		}

		if key == TagAfter {
			err = e.list.AddDependency(t, other)
		} else {
			err = e.list.AddDependency(other, t)
		}
		if err != nil {
			e.logger.Debug("dropping dependency", "tag", key, "value", value, "err", err)
		}
	}
}
