package todo

import (
	"reflect"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		text       string
		priority   string
		completed  bool
		creation   string
		completion string
		tags       []Tag
	}{
		{
			name: "plain text",
			line: "Water flowers",
			text: "Water flowers",
		},
		{
			name:     "priority and creation date",
			line:     "(A) 2026-10-01 Call mom +family @phone",
			text:     "Call mom +family @phone",
			priority: "A",
			creation: "2026-10-01",
		},
		{
			name:       "completed with both dates",
			line:       "x 2026-10-19 2026-10-01 Pay rent due:2026-10-20",
			text:       "Pay rent",
			completed:  true,
			completion: "2026-10-19",
			creation:   "2026-10-01",
			tags:       []Tag{{Key: "due", Value: "2026-10-20"}},
		},
		{
			name: "tags anywhere",
			line: "Read due:tom book after:3 after:4",
			text: "Read book",
			tags: []Tag{{"due", "tom"}, {"after", "3"}, {"after", "4"}},
		},
		{
			name: "urls are text",
			line: "Check https://example.com today",
			text: "Check https://example.com today",
		},
		{
			name: "priority mid-sentence is text",
			line: "Water flowers (C)",
			text: "Water flowers (C)",
		},
		{
			name: "lowercase priority is text",
			line: "(a) nope",
			text: "(a) nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line)

			if got.Text != tt.text {
				t.Errorf("Text = %q, want %q", got.Text, tt.text)
			}
			if got.Priority != tt.priority {
				t.Errorf("Priority = %q, want %q", got.Priority, tt.priority)
			}
			if got.Completed != tt.completed {
				t.Errorf("Completed = %v, want %v", got.Completed, tt.completed)
			}
			if formatted(got.CreationDate) != tt.creation {
				t.Errorf("CreationDate = %q, want %q", formatted(got.CreationDate), tt.creation)
			}
			if formatted(got.CompletionDate) != tt.completion {
				t.Errorf("CompletionDate = %q, want %q", formatted(got.CompletionDate), tt.completion)
			}
			if !reflect.DeepEqual(got.Tags, tt.tags) {
				t.Errorf("Tags = %v, want %v", got.Tags, tt.tags)
			}
		})
	}
}

func formatted(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func TestStringRoundTrip(t *testing.T) {
	lines := []string{
		"(B) 2026-10-01 Call mom +family due:2026-10-20",
		"x 2026-10-19 2026-10-01 Pay rent",
		"Water flowers rec:1w",
	}

	for _, line := range lines {
		if got := Parse(line).String(); got != line {
			t.Errorf("Parse(%q).String() = %q", line, got)
		}
	}
}

func TestStringDropsPriorityWhenCompleted(t *testing.T) {
	td := Parse("(A) Ship it")
	td.Complete(time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC))

	if got, want := td.String(), "x 2026-10-19 Ship it"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if td.Priority != "A" {
		t.Error("Complete should not clear the in-memory priority")
	}
}

func TestTagMutation(t *testing.T) {
	td := Parse("Task a:1 b:2 a:3")

	td.AddTag("a", "1")
	if got := td.TagValues("a"); !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Errorf("AddTag duplicated a pair: %v", got)
	}

	td.SetTag("a", "9")
	if got := td.TagValues("a"); !reflect.DeepEqual(got, []string{"9"}) {
		t.Errorf("SetTag left values %v", got)
	}
	if td.Tags[0].Key != "a" {
		t.Errorf("SetTag moved the tag: %v", td.Tags)
	}

	td.RemoveTag("b", "2")
	if td.HasTag("b") {
		t.Error("RemoveTag kept b:2")
	}

	td.AddTag("c", "1")
	td.AddTag("c", "2")
	td.RemoveTag("c", "")
	if td.HasTag("c") {
		t.Error("RemoveTag with empty value kept c")
	}

	td.SetTag("new", "x")
	if td.TagValue("new") != "x" {
		t.Error("SetTag did not add a missing key")
	}
}

func TestDate(t *testing.T) {
	td := Parse("Task due:2026-10-20 t:soon")

	if d, ok := td.Date("due"); !ok || formatted(d) != "2026-10-20" {
		t.Errorf("Date(due) = %v, %v", d, ok)
	}
	if _, ok := td.Date("t"); ok {
		t.Error("Date(t) parsed a non-date")
	}
	if _, ok := td.Date("missing"); ok {
		t.Error("Date(missing) reported a date")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := Parse("(A) Task rec:1w")
	cp := orig.Clone()
	cp.SetTag("rec", "2w")
	cp.Priority = "B"

	if orig.TagValue("rec") != "1w" || orig.Priority != "A" {
		t.Errorf("Clone shares state with the original: %s", orig)
	}
}

func TestLess(t *testing.T) {
	a := &Todo{Priority: "A"}
	c := &Todo{Priority: "C"}
	none := &Todo{}

	if !Less(a, c) || Less(c, a) {
		t.Error("A should sort before C")
	}
	if !Less(c, none) || Less(none, c) {
		t.Error("prioritized todos should sort before unprioritized ones")
	}
	if Less(none, none) {
		t.Error("Less should be irreflexive")
	}
}
