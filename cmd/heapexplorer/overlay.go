package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// mainView wraps the explorer screen for use as overlay background.
type mainView struct {
	model *Model
}

func (v mainView) Init() tea.Cmd { return nil }

// Update is a no-op; the parent Model handles all messages.
func (v mainView) Update(tea.Msg) (tea.Model, tea.Cmd) { return v, nil }

func (v mainView) View() string { return v.model.renderMain() }

// statsView renders the allocator counters as a framed panel.
type statsView struct {
	model *Model
}

func (v statsView) Init() tea.Cmd { return nil }

func (v statsView) Update(tea.Msg) (tea.Model, tea.Cmd) { return v, nil }

func (v statsView) View() string {
	var b strings.Builder
	v.model.heap.PrintStats(&b)
	body := strings.TrimRight(b.String(), "\n")
	return overlayStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		body,
		"",
		statusStyle.Render("s or esc to close"),
	))
}
