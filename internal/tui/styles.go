package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Priority styles; todos without a priority are rendered plain.
var (
	StylePriorityA = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	StylePriorityB = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	StylePriorityC = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
)

// Status styles
var (
	StyleStatusComplete = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Strikethrough(true)

	StyleStatusBlocked = lipgloss.NewStyle().
				Foreground(lipgloss.Color("13"))

	StyleStatusOverdue = lipgloss.NewStyle().
				Foreground(lipgloss.Color("9")).
				Bold(true)

	StyleStatusActive = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// UI element styles
var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true)

	StyleNumber = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	StyleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	StyleSuccess = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	StyleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

// priorityStyle returns the style for a todo priority letter.
func priorityStyle(priority string) (lipgloss.Style, bool) {
	switch priority {
	case "A":
		return StylePriorityA, true
	case "B":
		return StylePriorityB, true
	case "C":
		return StylePriorityC, true
	}
	return lipgloss.Style{}, false
}
