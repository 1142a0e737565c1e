// Package todo holds a single task line of a todo.txt list.
package todo

import (
	"regexp"
	"strings"
	"time"

	"github.com/aristath/todograph/internal/reldate"
)

// Tag is a key:value annotation on a todo.
type Tag struct {
	Key   string
	Value string
}

// Todo represents one task. Due and start dates live in tags, read through Date.
type Todo struct {
	ID             string    // Identity assigned by the list on insertion
	Text           string    // Display text without priority and tags
	Priority       string    // "A".."Z", empty when unset
	Tags           []Tag     // Ordered; a key may occur with several values
	Completed      bool
	CreationDate   time.Time // Zero when unset
	CompletionDate time.Time // Zero unless Completed
}

var (
	priorityPattern = regexp.MustCompile(`^\(([A-Z])\)$`)
	tagPattern      = regexp.MustCompile(`^([^\s:]+):(\S+)$`)
)

// Parse reads one todo.txt line.
//
//	x 2026-10-19 2026-10-01 Pay rent due:2026-10-20
//	(A) 2026-10-01 Call mom +family @phone
func Parse(line string) *Todo {
	t := &Todo{}
	words := strings.Fields(line)

	if len(words) > 0 && words[0] == "x" {
		t.Completed = true
		words = words[1:]
		if d, ok := leadingDate(words); ok {
			t.CompletionDate = d
			words = words[1:]
		}
	} else if len(words) > 0 {
		if m := priorityPattern.FindStringSubmatch(words[0]); m != nil {
			t.Priority = m[1]
			words = words[1:]
		}
	}

	if d, ok := leadingDate(words); ok {
		t.CreationDate = d
		words = words[1:]
	}

	text := make([]string, 0, len(words))
	for _, w := range words {
		if key, value, ok := splitTag(w); ok {
			t.Tags = append(t.Tags, Tag{Key: key, Value: value})
			continue
		}
		text = append(text, w)
	}
	t.Text = strings.Join(text, " ")

	return t
}

func leadingDate(words []string) (time.Time, bool) {
	if len(words) == 0 {
		return time.Time{}, false
	}
	return reldate.Parse(words[0])
}

// splitTag recognises key:value words. Values starting with a slash are URLs.
func splitTag(word string) (string, string, bool) {
	m := tagPattern.FindStringSubmatch(word)
	if m == nil || strings.HasPrefix(m[2], "/") {
		return "", "", false
	}
	return m[1], m[2], true
}

// String renders the todo as a todo.txt line. Completed todos drop their
// priority, as todo.txt prescribes.
func (t *Todo) String() string {
	parts := make([]string, 0, 4+len(t.Tags))

	if t.Completed {
		parts = append(parts, "x")
		if !t.CompletionDate.IsZero() {
			parts = append(parts, reldate.Format(t.CompletionDate))
		}
	} else if t.Priority != "" {
		parts = append(parts, "("+t.Priority+")")
	}

	if !t.CreationDate.IsZero() {
		parts = append(parts, reldate.Format(t.CreationDate))
	}

	if t.Text != "" {
		parts = append(parts, t.Text)
	}

	for _, tag := range t.Tags {
		parts = append(parts, tag.Key+":"+tag.Value)
	}

	return strings.Join(parts, " ")
}

// HasTag reports whether the todo carries key with any value.
func (t *Todo) HasTag(key string) bool {
	for _, tag := range t.Tags {
		if tag.Key == key {
			return true
		}
	}
	return false
}

// TagValue returns the first value of key, or "".
func (t *Todo) TagValue(key string) string {
	for _, tag := range t.Tags {
		if tag.Key == key {
			return tag.Value
		}
	}
	return ""
}

// TagValues returns every value of key in order.
func (t *Todo) TagValues(key string) []string {
	var values []string
	for _, tag := range t.Tags {
		if tag.Key == key {
			values = append(values, tag.Value)
		}
	}
	return values
}

// AddTag adds key:value unless that exact pair is already present.
func (t *Todo) AddTag(key, value string) {
	for _, tag := range t.Tags {
		if tag.Key == key && tag.Value == value {
			return
		}
	}
	t.Tags = append(t.Tags, Tag{Key: key, Value: value})
}

// SetTag replaces every value of key with value, keeping the position of the
// first occurrence.
func (t *Todo) SetTag(key, value string) {
	replaced := false
	kept := t.Tags[:0]
	for _, tag := range t.Tags {
		if tag.Key != key {
			kept = append(kept, tag)
			continue
		}
		if !replaced {
			kept = append(kept, Tag{Key: key, Value: value})
			replaced = true
		}
	}
	t.Tags = kept
	if !replaced {
		t.Tags = append(t.Tags, Tag{Key: key, Value: value})
	}
}

// RemoveTag removes key:value. An empty value removes every value of key.
func (t *Todo) RemoveTag(key, value string) {
	kept := t.Tags[:0]
	for _, tag := range t.Tags {
		if tag.Key == key && (value == "" || tag.Value == value) {
			continue
		}
		kept = append(kept, tag)
	}
	t.Tags = kept
}

// Date parses the value of key as an ISO date.
func (t *Todo) Date(key string) (time.Time, bool) {
	value := t.TagValue(key)
	if value == "" {
		return time.Time{}, false
	}
	return reldate.Parse(value)
}

// Complete marks the todo done on day.
func (t *Todo) Complete(day time.Time) {
	t.Completed = true
	t.CompletionDate = reldate.Day(day)
}

// Clone returns a deep copy.
func (t *Todo) Clone() *Todo {
	if t == nil {
		return nil
	}

	cp := *t
	if t.Tags != nil {
		cp.Tags = append([]Tag(nil), t.Tags...)
	}
	return &cp
}

// Less orders todos by priority, A first and unprioritized last.
func Less(a, b *Todo) bool {
	return priorityRank(a.Priority) < priorityRank(b.Priority)
}

func priorityRank(p string) int {
	if p == "" {
		return int('Z') + 1
	}
	return int(p[0])
}
