// Package tui provides the interactive review interface for docmark.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// Decider records one review decision durably.
type Decider func(taskID int, accepted bool) error

// decision is the in-session review state of one task.
type decision int

const (
	undecided decision = iota
	accepted
	rejected
)

// Model is the bubbletea model for reviewing suggestions one by one.
type Model struct {
	decide    Decider
	decisions map[int]decision
	err       error
	tasks     []*domain.Task
	keys      KeyMap
	styles    Styles
	help      help.Model
	cursor    int
	width     int
	height    int
}

// NewReview creates a review model over tasks that carry a suggestion.
func NewReview(tasks []*domain.Task, decide Decider) Model {
	return Model{
		decide:    decide,
		decisions: make(map[int]decision),
		tasks:     tasks,
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		help:      help.New(),
	}
}

// Run launches the review TUI and blocks until the user quits.
func Run(tasks []*domain.Task, decide Decider) error {
	p := tea.NewProgram(NewReview(tasks, decide), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Skip):
			m.advance()
		case key.Matches(msg, m.keys.Accept):
			m = m.record(true)
		case key.Matches(msg, m.keys.Reject):
			m = m.record(false)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

// record persists a decision for the current task and moves on.
func (m Model) record(accept bool) Model {
	if len(m.tasks) == 0 {
		return m
	}
	task := m.tasks[m.cursor]
	if err := m.decide(task.ID, accept); err != nil {
		m.err = err
		return m
	}
	m.err = nil
	if accept {
		m.decisions[task.ID] = accepted
	} else {
		m.decisions[task.ID] = rejected
	}
	m.advance()
	return m
}

// advance moves the cursor to the next task, stopping at the end.
func (m *Model) advance() {
	if m.cursor < len(m.tasks)-1 {
		m.cursor++
	}
}

// decided counts tasks with a recorded decision.
func (m Model) decided() int {
	return len(m.decisions)
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	header := fmt.Sprintf("Review suggestions (%d/%d decided)", m.decided(), len(m.tasks))
	b.WriteString(m.styles.Header.Render(header))
	b.WriteString("\n")

	if len(m.tasks) == 0 {
		b.WriteString(m.styles.ItemNormal.Render("Nothing to review. Run docmark import first."))
		b.WriteString("\n")
		return m.styles.App.Render(b.String())
	}

	for i, task := range m.tasks {
		line := fmt.Sprintf("%s #%-4d %-26s %s:%d", m.icon(task.ID), task.ID, task.Kind, task.FilePath, task.Line)
		if task.Name != "" {
			line += "  " + task.Name
		}
		b.WriteString(m.itemStyle(i, task.ID).Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	current := m.tasks[m.cursor]
	if current.Context != "" {
		b.WriteString(m.styles.DetailLabel.Render("Block:"))
		b.WriteString("\n")
		b.WriteString(m.styles.DetailText.Render(current.Context))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.DetailLabel.Render("Suggestion:"))
	b.WriteString("\n")
	b.WriteString(m.styles.Suggestion.Render(current.Suggestion))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Footer.Render(m.help.View(m.keys)))
	return m.styles.App.Render(b.String())
}

// icon shows the decision state of a task.
func (m Model) icon(taskID int) string {
	switch m.decisions[taskID] {
	case accepted:
		return "✓"
	case rejected:
		return "✗"
	default:
		return "○"
	}
}

// itemStyle picks the list style for one row.
func (m Model) itemStyle(index, taskID int) lipgloss.Style {
	style := m.styles.ItemNormal
	switch m.decisions[taskID] {
	case accepted:
		style = m.styles.ItemAccepted
	case rejected:
		style = m.styles.ItemRejected
	}
	if index == m.cursor {
		style = m.styles.ItemSelected
	}
	return style
}
