// Package tui renders todos for the terminal and asks the questions the
// engine needs answered.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/aristath/todograph/internal/engine"
	"github.com/aristath/todograph/internal/todo"
	"github.com/aristath/todograph/internal/todolist"
)

// Printer writes todos of one list, numbered by their position in it.
type Printer struct {
	w      io.Writer
	list   *todolist.TodoList
	dueTag string
	today  time.Time
}

// NewPrinter creates a printer. Due dates are described relative to today.
func NewPrinter(w io.Writer, list *todolist.TodoList, dueTag string, today time.Time) *Printer {
	return &Printer{w: w, list: list, dueTag: dueTag, today: today}
}

// Line renders a single todo, optionally prefixed with its number.
func (p *Printer) Line(t *todo.Todo, numbered bool) string {
	var b strings.Builder

	if numbered {
		b.WriteString(StyleNumber.Render(fmt.Sprintf("%3d", p.list.Number(t))))
		b.WriteString(" ")
	}

	line := t.String()
	switch {
	case t.Completed:
		line = StyleStatusComplete.Render(line)
	default:
		if style, ok := priorityStyle(t.Priority); ok {
			line = style.Render(line)
		}
	}
	b.WriteString(line)

	if t.Completed {
		return b.String()
	}
	if p.list.IsBlocked(t) {
		b.WriteString(" ")
		b.WriteString(StyleStatusBlocked.Render("[blocked]"))
	}
	if due := p.describeDue(t); due != "" {
		b.WriteString(" ")
		b.WriteString(due)
	}
	return b.String()
}

// describeDue renders the due date relative to today, or "" without one.
func (p *Printer) describeDue(t *todo.Todo) string {
	due, ok := t.Date(p.dueTag)
	if !ok {
		return ""
	}

	switch {
	case due.Equal(p.today):
		return StyleStatusActive.Render("(due today)")
	case due.Before(p.today):
		return StyleStatusOverdue.Render("(" + humanize.RelTime(due, p.today, "overdue", "") + ")")
	default:
		return "(due " + humanize.RelTime(p.today, due, "from now", "") + ")"
	}
}

// List writes one line per todo.
func (p *Printer) List(todos []*todo.Todo, numbered bool) {
	for _, t := range todos {
		fmt.Fprintln(p.w, p.Line(t, numbered))
	}
}

// Added reports a todo created by the add command.
func (p *Printer) Added(t *todo.Todo) {
	fmt.Fprintln(p.w, p.Line(t, true))
}

// Completion reports what a do command changed, in the order it happened.
func (p *Printer) Completion(result *engine.Result) {
	for _, child := range result.Cascaded {
		fmt.Fprintln(p.w, p.Line(child, false))
	}
	if result.Spawned != nil {
		fmt.Fprintln(p.w, p.Line(result.Spawned, true))
	}
	fmt.Fprintln(p.w, p.Line(result.Todo, false))

	if len(result.Unlocked) > 0 {
		fmt.Fprintln(p.w, "The following todo item(s) became active:")
		p.List(result.Unlocked, false)
	}
}

// Dependencies writes what t waits on and what waits on t.
func (p *Printer) Dependencies(t *todo.Todo) {
	fmt.Fprintln(p.w, p.Line(t, true))

	sections := []struct {
		title string
		todos []*todo.Todo
	}{
		{"Waits on:", p.list.Children(t)},
		{"Needed by:", p.list.Parents(t)},
	}
	for _, s := range sections {
		if len(s.todos) == 0 {
			continue
		}
		fmt.Fprintln(p.w, StyleTitle.Render(s.title))
		p.List(s.todos, true)
	}
}

// Progress writes a one-line summary of the list with a progress bar.
func (p *Printer) Progress() {
	var total, completed, blocked int
	for _, t := range p.list.Todos() {
		total++
		switch {
		case t.Completed:
			completed++
		case p.list.IsBlocked(t):
			blocked++
		}
	}
	active := total - completed - blocked

	fmt.Fprintln(p.w, StyleHelp.Render(fmt.Sprintf("%d todos: %d done, %d blocked, %d active", total, completed, blocked, active)))
	if total > 0 {
		fmt.Fprintln(p.w, progressBar(completed, blocked, total, 40))
	}
}

// progressBar draws done, blocked and open todos as "=", "!" and "." cells.
func progressBar(completed, blocked, total, width int) string {
	completedWidth := (completed * width) / total
	blockedWidth := (blocked * width) / total
	openWidth := width - completedWidth - blockedWidth

	bar := StyleStatusComplete.UnsetStrikethrough().Render(strings.Repeat("=", max(0, completedWidth)))
	bar += StyleStatusBlocked.Render(strings.Repeat("!", max(0, blockedWidth)))
	bar += StyleHelp.Render(strings.Repeat(".", max(0, openWidth)))

	return fmt.Sprintf("[%s]  %d/%d", bar, completed, total)
}
