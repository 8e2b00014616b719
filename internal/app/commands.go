package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskventure/internal/model"
)

// commandNames lists the palette commands offered for completion.
func commandNames() []string {
	return []string{
		"tasks", "travel", "sample", "clear completed", "clear filters",
		"upcoming", "overdue", "current trip", "stats", "help", "quit",
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch strings.ToLower(strings.TrimSpace(cmd)) {
	case "quit", "q":
		return tea.Quit
	case "tasks":
		m.tab = TabTasks
		m.currentView = ViewList
	case "travel", "trips":
		m.tab = TabTravel
		m.currentView = ViewList
	case "sample":
		return m.loadSampleData()
	case "clear completed":
		return m.clearCompleted()
	case "clear filters", "clear":
		m.tasks.ClearFilters()
		m.taskList.Refresh()
	case "upcoming":
		m.statusMsg = summarizeTasks("upcoming", m.tasks.UpcomingTasks(m.upcoming))
	case "overdue":
		m.statusMsg = summarizeTasks("overdue", m.tasks.OverdueTasks())
	case "current trip", "current":
		if t, ok := m.travels.CurrentTravel(); ok {
			m.statusMsg = fmt.Sprintf("in %s, local time %s",
				t.Destination, t.LocalTime(m.now()).Format("15:04 MST"))
		} else {
			m.statusMsg = "no trip in progress"
		}
	case "stats", "statistics":
		ts, vs := m.tasks.Statistics(), m.travels.Statistics()
		m.statusMsg = fmt.Sprintf("tasks: %d total, %d done (%.0f%%), %d overdue | trips: %d total, %d active, %d upcoming, %d past",
			ts.Total, ts.Completed, ts.CompletionRate()*100, ts.Overdue,
			vs.Total, vs.Active, vs.Upcoming, vs.Past)
	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
	default:
		m.statusMsg = fmt.Sprintf("unknown command %q", cmd)
	}
	return nil
}

// summarizeTasks renders a one-line list of task titles for the status bar.
func summarizeTasks(label string, tasks []model.Task) string {
	if len(tasks) == 0 {
		return "no " + label + " tasks"
	}
	titles := make([]string, 0, len(tasks))
	for _, t := range tasks {
		titles = append(titles, t.Title)
	}
	return fmt.Sprintf("%d %s: %s", len(tasks), label, strings.Join(titles, ", "))
}
