package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskventure/internal/model"
	"github.com/nhle/taskventure/internal/ui/travelform"
)

// mutationDoneMsg is sent after a manager mutation has been applied. The
// lists refresh from the manager's change event; status, when set, is
// shown in the status bar.
type mutationDoneMsg struct {
	status string
}

func done(status string) tea.Msg { return mutationDoneMsg{status: status} }

// createTask builds a task from the form values and adds it.
func (m *Model) createTask(edit model.TaskEdit) tea.Cmd {
	tasks, ctx, now := m.tasks, m.ctx, m.now
	return func() tea.Msg {
		task := edit.Apply(model.NewTask(edit.Title, now()))
		tasks.Add(ctx, task)
		return done(fmt.Sprintf("added %q", task.Title))
	}
}

// updateTask applies the form values to the stored task with the given ID.
func (m *Model) updateTask(id string, edit model.TaskEdit) tea.Cmd {
	tasks, ctx := m.tasks, m.ctx
	return func() tea.Msg {
		existing, ok := tasks.Task(id)
		if !ok {
			return done("task no longer exists")
		}
		tasks.Update(ctx, edit.Apply(existing))
		return done("")
	}
}

// toggleTask flips the completion state of a task.
func (m *Model) toggleTask(id string) tea.Cmd {
	tasks, ctx := m.tasks, m.ctx
	return func() tea.Msg {
		if task, ok := tasks.Task(id); ok {
			tasks.ToggleCompletion(ctx, task)
		}
		return done("")
	}
}

// deleteTask removes a task.
func (m *Model) deleteTask(id string) tea.Cmd {
	tasks, ctx := m.tasks, m.ctx
	return func() tea.Msg {
		task, ok := tasks.Task(id)
		if !ok {
			return done("")
		}
		tasks.Delete(ctx, task)
		return done(fmt.Sprintf("deleted %q", task.Title))
	}
}

// clearCompleted removes every completed task.
func (m *Model) clearCompleted() tea.Cmd {
	tasks, ctx := m.tasks, m.ctx
	return func() tea.Msg {
		n := len(tasks.CompletedTasks())
		tasks.ClearCompleted(ctx)
		return done(fmt.Sprintf("cleared %d completed tasks", n))
	}
}

// saveTravel adds a new trip (editID empty) or applies the edit to an
// existing one.
func (m *Model) saveTravel(editID string, edit travelform.TravelEdit) tea.Cmd {
	travels, ctx := m.travels, m.ctx
	return func() tea.Msg {
		if editID == "" {
			t := edit.New()
			travels.Add(ctx, t)
			return done(fmt.Sprintf("planned %s", t.Destination))
		}
		existing, ok := travels.Travel(editID)
		if !ok {
			return done("trip no longer exists")
		}
		travels.Update(ctx, edit.Apply(existing))
		return done("")
	}
}

// toggleTravel flips the active flag of a trip.
func (m *Model) toggleTravel(id string) tea.Cmd {
	travels, ctx := m.travels, m.ctx
	return func() tea.Msg {
		if t, ok := travels.Travel(id); ok {
			travels.ToggleActive(ctx, t)
		}
		return done("")
	}
}

// deleteTravel removes a trip with its itinerary and tips.
func (m *Model) deleteTravel(id string) tea.Cmd {
	travels, ctx := m.travels, m.ctx
	return func() tea.Msg {
		t, ok := travels.Travel(id)
		if !ok {
			return done("")
		}
		travels.Delete(ctx, t)
		return done(fmt.Sprintf("deleted trip to %s", t.Destination))
	}
}

// addItineraryItem appends an item to a trip.
func (m *Model) addItineraryItem(travelID string, item model.ItineraryItem) tea.Cmd {
	travels, ctx := m.travels, m.ctx
	return func() tea.Msg {
		travels.AddItineraryItem(ctx, item, travelID)
		return done(fmt.Sprintf("added %q", item.Title))
	}
}

// addLocalTip appends a tip to a trip.
func (m *Model) addLocalTip(travelID string, tip model.LocalTip) tea.Cmd {
	travels, ctx := m.travels, m.ctx
	return func() tea.Msg {
		travels.AddLocalTip(ctx, tip, travelID)
		return done(fmt.Sprintf("added tip %q", tip.Title))
	}
}

// toggleBookmark flips the bookmark on one tip of a trip.
func (m *Model) toggleBookmark(travelID, tipID string) tea.Cmd {
	travels, ctx := m.travels, m.ctx
	return func() tea.Msg {
		t, ok := travels.Travel(travelID)
		if !ok {
			return done("")
		}
		for _, tip := range t.LocalTips {
			if tip.ID == tipID {
				travels.ToggleTipBookmark(ctx, tip, travelID)
				break
			}
		}
		return done("")
	}
}

// loadSampleData adds the demo data of the current tab.
func (m *Model) loadSampleData() tea.Cmd {
	if m.tab == TabTravel {
		return m.loadSampleTravels()
	}
	return m.loadSampleTasks()
}

func (m *Model) loadSampleTasks() tea.Cmd {
	tasks, ctx := m.tasks, m.ctx
	return func() tea.Msg {
		tasks.CreateSampleTasks(ctx)
		return done("loaded sample tasks")
	}
}

func (m *Model) loadSampleTravels() tea.Cmd {
	travels, ctx := m.travels, m.ctx
	return func() tea.Msg {
		travels.CreateSampleTravels(ctx)
		return done("loaded sample trips")
	}
}
