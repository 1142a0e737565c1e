package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestIsAffirmative(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"y", true},
		{"Y", true},
		{"yes", true},
		{"YeS", true},
		{" yes ", true},
		{"", false},
		{"n", false},
		{"no", false},
		{"yess", false},
		{"ye", false},
		{"sure", false},
	}

	for _, tt := range tests {
		if got := IsAffirmative(tt.answer); got != tt.want {
			t.Errorf("IsAffirmative(%q) = %v, want %v", tt.answer, got, tt.want)
		}
	}
}

// typeAnswer feeds answer to the model one rune at a time, then the final key.
func typeAnswer(m ConfirmModel, answer string, final tea.KeyType) ConfirmModel {
	var model tea.Model = m
	for _, r := range answer {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	model, _ = model.Update(tea.KeyMsg{Type: final})
	return model.(ConfirmModel)
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name        string
		answer      string
		final       tea.KeyType
		wantYes     bool
		wantAborted bool
	}{
		{name: "yes", answer: "yes", final: tea.KeyEnter, wantYes: true},
		{name: "y", answer: "y", final: tea.KeyEnter, wantYes: true},
		{name: "empty answer is no", final: tea.KeyEnter},
		{name: "no", answer: "no", final: tea.KeyEnter},
		{name: "ctrl+c aborts", answer: "y", final: tea.KeyCtrlC, wantAborted: true},
		{name: "esc aborts", final: tea.KeyEsc, wantAborted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := typeAnswer(NewConfirmModel("Also mark subtasks as done?", nil), tt.answer, tt.final)

			if m.Confirmed() != tt.wantYes {
				t.Errorf("Confirmed() = %v, want %v", m.Confirmed(), tt.wantYes)
			}
			if m.Aborted() != tt.wantAborted {
				t.Errorf("Aborted() = %v, want %v", m.Aborted(), tt.wantAborted)
			}
		})
	}
}

func TestConfirmModelEnterQuits(t *testing.T) {
	m := NewConfirmModel("Proceed?", nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("enter should quit the program")
	}
}

func TestConfirmModelView(t *testing.T) {
	m := NewConfirmModel("Also mark subtasks as done?", []string{"  2 Design", "  3 Build"})

	view := m.View()
	for _, want := range []string{"  2 Design\n", "  3 Build\n", "Also mark subtasks as done? [n]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	answered := typeAnswer(m, "y", tea.KeyEnter)
	if !strings.HasSuffix(answered.View(), "Also mark subtasks as done? [n] y\n") {
		t.Errorf("answered view should keep the answer:\n%s", answered.View())
	}
}
