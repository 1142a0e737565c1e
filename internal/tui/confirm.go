package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aristath/todograph/internal/todo"
)

// ErrPromptAborted is returned when the user quits the prompt with ctrl+c.
var ErrPromptAborted = errors.New("prompt aborted")

var affirmative = regexp.MustCompile(`(?i)^y(es)?$`)

// IsAffirmative reports whether answer means yes ("y" or "yes", any case).
func IsAffirmative(answer string) bool {
	return affirmative.MatchString(strings.TrimSpace(answer))
}

// ConfirmModel asks a yes/no question about a list of subtasks. Anything but
// y or yes, including an empty answer, is a no.
type ConfirmModel struct {
	question string
	subtasks []string
	input    textinput.Model
	answered bool
	aborted  bool
}

// NewConfirmModel creates a prompt for question, listing the given lines.
func NewConfirmModel(question string, subtasks []string) ConfirmModel {
	ti := textinput.New()
	ti.Prompt = question + " [n] "
	ti.CharLimit = 16
	ti.Focus()

	return ConfirmModel{
		question: question,
		subtasks: subtasks,
		input:    ti,
	}
}

// Init starts the cursor blinking.
func (m ConfirmModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			m.answered = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the subtasks followed by the question.
func (m ConfirmModel) View() string {
	var b strings.Builder
	for _, line := range m.subtasks {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.answered || m.aborted {
		// Leave the final answer on screen
		b.WriteString(m.input.Prompt + m.input.Value() + "\n")
		return b.String()
	}
	b.WriteString(m.input.View())
	return b.String()
}

// Confirmed reports whether the user answered yes.
func (m ConfirmModel) Confirmed() bool {
	return m.answered && IsAffirmative(m.input.Value())
}

// Aborted reports whether the user quit without answering.
func (m ConfirmModel) Aborted() bool {
	return m.aborted
}

// Prompter asks cascade questions on a terminal.
type Prompter struct {
	in     io.Reader
	out    io.Writer
	render func(t *todo.Todo) string
}

// NewPrompter creates a prompter reading answers from in. render formats each
// subtask shown above the question.
func NewPrompter(in io.Reader, out io.Writer, render func(t *todo.Todo) string) *Prompter {
	return &Prompter{in: in, out: out, render: render}
}

// Confirm shows subtasks and asks question. It matches engine.DeciderFunc.
func (p *Prompter) Confirm(ctx context.Context, question string, subtasks []*todo.Todo) (bool, error) {
	lines := make([]string, len(subtasks))
	for i, t := range subtasks {
		lines[i] = p.render(t)
	}

	program := tea.NewProgram(
		NewConfirmModel(question, lines),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)

	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("running prompt: %w", err)
	}

	m := final.(ConfirmModel)
	if m.Aborted() {
		return false, ErrPromptAborted
	}
	return m.Confirmed(), nil
}
