package viewmodel

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/taskventure/internal/model"
)

// SortOption selects the ordering of the filtered task view.
type SortOption string

const (
	SortDueDate     SortOption = "due_date"
	SortPriority    SortOption = "priority"
	SortCreatedDate SortOption = "created_date"
	SortTitle       SortOption = "title"
)

// SortOptions lists the sort options in the order the UI cycles them.
var SortOptions = []SortOption{SortDueDate, SortPriority, SortCreatedDate, SortTitle}

// Label returns the display name of the option.
func (s SortOption) Label() string {
	switch s {
	case SortDueDate:
		return "Due Date"
	case SortPriority:
		return "Priority"
	case SortCreatedDate:
		return "Created Date"
	case SortTitle:
		return "Title"
	default:
		return string(s)
	}
}

// Next returns the option after s in SortOptions, wrapping around.
func (s SortOption) Next() SortOption {
	for i, o := range SortOptions {
		if o == s {
			return SortOptions[(i+1)%len(SortOptions)]
		}
	}
	return SortDueDate
}

// TaskFilter is the criteria applied to the filtered view. Nil category or
// priority means "any".
type TaskFilter struct {
	Category   *model.Category
	Priority   *model.Priority
	SearchText string
	Sort       SortOption
}

// TaskManager owns the task collection and its filtered, sorted view.
// All methods are safe for concurrent use.
type TaskManager struct {
	store     TaskStore
	reminders TaskReminders
	logger    *zap.Logger
	now       func() time.Time
	observers

	mu       sync.RWMutex
	tasks    []model.Task
	filter   TaskFilter
	filtered []model.Task
}

// NewTaskManager loads the stored tasks and computes the initial view.
func NewTaskManager(ctx context.Context, store TaskStore, opts ...Option) *TaskManager {
	o := buildOptions(opts)
	m := &TaskManager{
		store:     store,
		reminders: o.taskReminders,
		logger:    o.logger,
		now:       o.now,
		filter:    TaskFilter{Sort: SortDueDate},
	}
	m.tasks = store.LoadTasks(ctx)
	m.recomputeLocked()
	return m
}

// Reload replaces the in-memory collection with the stored one.
func (m *TaskManager) Reload(ctx context.Context) {
	m.update(ctx, false, func() {
		m.tasks = m.store.LoadTasks(ctx)
	})
}

// Reschedule re-registers the reminder of every task, as Add would. Used
// after the collection was replaced underneath the manager.
func (m *TaskManager) Reschedule(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		m.rescheduleLocked(ctx, t)
	}
}

// Add appends task to the collection.
func (m *TaskManager) Add(ctx context.Context, task model.Task) {
	m.update(ctx, true, func() {
		m.tasks = append(m.tasks, task)
		m.rescheduleLocked(ctx, task)
	})
}

// Update replaces the task with the same identity. Unknown tasks are ignored.
func (m *TaskManager) Update(ctx context.Context, task model.Task) {
	m.updateIf(ctx, func() bool {
		i := m.indexLocked(task.ID)
		if i < 0 {
			return false
		}
		m.tasks[i] = task
		m.rescheduleLocked(ctx, task)
		return true
	})
}

// Delete removes every task with the identity of task.
func (m *TaskManager) Delete(ctx context.Context, task model.Task) {
	m.update(ctx, true, func() {
		kept := m.tasks[:0]
		for _, t := range m.tasks {
			if t.ID == task.ID {
				continue
			}
			kept = append(kept, t)
		}
		m.tasks = kept
		if m.reminders != nil {
			m.reminders.CancelTaskReminder(ctx, task)
		}
	})
}

// ToggleCompletion flips the completion flag of the task with the identity
// of task. Completing cancels the reminder and reopening reschedules it.
func (m *TaskManager) ToggleCompletion(ctx context.Context, task model.Task) {
	m.updateIf(ctx, func() bool {
		i := m.indexLocked(task.ID)
		if i < 0 {
			return false
		}
		m.tasks[i].IsCompleted = !m.tasks[i].IsCompleted
		m.rescheduleLocked(ctx, m.tasks[i])
		return true
	})
}

// ClearCompleted removes every completed task.
func (m *TaskManager) ClearCompleted(ctx context.Context) {
	m.update(ctx, true, func() {
		kept := m.tasks[:0]
		for _, t := range m.tasks {
			if t.IsCompleted {
				if m.reminders != nil {
					m.reminders.CancelTaskReminder(ctx, t)
				}
				continue
			}
			kept = append(kept, t)
		}
		m.tasks = kept
	})
}

// SetCategory restricts the view to category c, or any category when nil.
func (m *TaskManager) SetCategory(c *model.Category) {
	m.setFilter(func(f *TaskFilter) { f.Category = c })
}

// SetPriority restricts the view to priority p, or any priority when nil.
func (m *TaskManager) SetPriority(p *model.Priority) {
	m.setFilter(func(f *TaskFilter) { f.Priority = p })
}

// SetSearchText restricts the view to tasks whose title or description
// contains s, ignoring case.
func (m *TaskManager) SetSearchText(s string) {
	m.setFilter(func(f *TaskFilter) { f.SearchText = s })
}

// SetSort changes the ordering of the view.
func (m *TaskManager) SetSort(s SortOption) {
	m.setFilter(func(f *TaskFilter) { f.Sort = s })
}

// ClearFilters drops category, priority and search criteria. The sort
// option is kept.
func (m *TaskManager) ClearFilters() {
	m.setFilter(func(f *TaskFilter) {
		f.Category = nil
		f.Priority = nil
		f.SearchText = ""
	})
}

// Filter returns the current criteria.
func (m *TaskManager) Filter() TaskFilter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filter
}

// Recompute rebuilds the filtered view from the current collection and
// criteria.
func (m *TaskManager) Recompute() {
	m.mu.Lock()
	m.recomputeLocked()
	m.mu.Unlock()
	m.publish(Event{Kind: TasksChanged})
}

// Tasks returns a copy of the collection in insertion order.
func (m *TaskManager) Tasks() []model.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Task(nil), m.tasks...)
}

// FilteredTasks returns a copy of the filtered, sorted view.
func (m *TaskManager) FilteredTasks() []model.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Task(nil), m.filtered...)
}

// Task returns the task with the given identity.
func (m *TaskManager) Task(id string) (model.Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexLocked(id); i >= 0 {
		return m.tasks[i], true
	}
	return model.Task{}, false
}

// UpcomingTasks returns at most limit incomplete tasks due at or after now,
// soonest first. Tasks without a due date are not upcoming.
func (m *TaskManager) UpcomingTasks(limit int) []model.Task {
	now := m.now()
	upcoming := m.collect(func(t model.Task) bool { return t.IsUpcoming(now) })
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate.Before(*upcoming[j].DueDate)
	})
	if limit >= 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// OverdueTasks returns incomplete tasks due before now, in collection order.
func (m *TaskManager) OverdueTasks() []model.Task {
	now := m.now()
	return m.collect(func(t model.Task) bool { return t.IsOverdue(now) })
}

// CompletedTasks returns completed tasks in collection order.
func (m *TaskManager) CompletedTasks() []model.Task {
	return m.collect(func(t model.Task) bool { return t.IsCompleted })
}

// TasksInZone returns the tasks whose due date is expressed in zone.
func (m *TaskManager) TasksInZone(zone model.Zone) []model.Task {
	return m.collect(func(t model.Task) bool { return t.TimeZone.Equal(zone) })
}

// Statistics summarizes the collection.
func (m *TaskManager) Statistics() model.TaskStatistics {
	now := m.now()
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := model.TaskStatistics{Total: len(m.tasks)}
	for _, t := range m.tasks {
		if t.IsCompleted {
			stats.Completed++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
		if t.IsUpcoming(now) {
			stats.Upcoming++
		}
	}
	return stats
}

func (m *TaskManager) collect(keep func(model.Task) bool) []model.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.Task{}
	for _, t := range m.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func (m *TaskManager) indexLocked(id string) int {
	for i, t := range m.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// rescheduleLocked replaces the pending reminder of t with a fresh one when
// t is incomplete and has a reminder time.
func (m *TaskManager) rescheduleLocked(ctx context.Context, t model.Task) {
	if m.reminders == nil {
		return
	}
	m.reminders.CancelTaskReminder(ctx, t)
	if !t.IsCompleted && t.ReminderTime != nil {
		m.reminders.ScheduleTaskReminder(ctx, t)
	}
}

// update runs fn under the lock, then persists (when persist is set),
// recomputes the view and notifies observers.
func (m *TaskManager) update(ctx context.Context, persist bool, fn func()) {
	m.mu.Lock()
	fn()
	if persist {
		m.persistLocked(ctx)
	}
	m.recomputeLocked()
	m.mu.Unlock()

	m.publish(Event{Kind: TasksChanged})
}

// updateIf is update for operations that may miss; nothing happens when
// fn reports no change.
func (m *TaskManager) updateIf(ctx context.Context, fn func() bool) {
	m.mu.Lock()
	if !fn() {
		m.mu.Unlock()
		return
	}
	m.persistLocked(ctx)
	m.recomputeLocked()
	m.mu.Unlock()

	m.publish(Event{Kind: TasksChanged})
}

func (m *TaskManager) setFilter(fn func(*TaskFilter)) {
	m.mu.Lock()
	fn(&m.filter)
	m.recomputeLocked()
	m.mu.Unlock()

	m.publish(Event{Kind: TasksChanged})
}

// persistLocked saves the collection. Failures are logged; the in-memory
// state stays authoritative.
func (m *TaskManager) persistLocked(ctx context.Context) {
	if err := m.store.SaveTasks(ctx, m.tasks); err != nil {
		m.logger.Error("failed to save tasks", zap.Int("count", len(m.tasks)), zap.Error(err))
	}
}

func (m *TaskManager) recomputeLocked() {
	m.filtered = FilterTasks(m.tasks, m.filter)
}

// FilterTasks applies f to tasks and returns a new, sorted slice. The input
// is not modified.
func FilterTasks(tasks []model.Task, f TaskFilter) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Category != nil && t.Category != *f.Category {
			continue
		}
		if f.Priority != nil && t.Priority != *f.Priority {
			continue
		}
		if !t.Matches(f.SearchText) {
			continue
		}
		out = append(out, t)
	}
	SortTasks(out, f.Sort)
	return out
}

// SortTasks orders tasks in place. The sort is stable for every option.
func SortTasks(tasks []model.Task, by SortOption) {
	switch by {
	case SortPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Rank() < tasks[j].Priority.Rank()
		})
	case SortCreatedDate:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedDate.After(tasks[j].CreatedDate)
		})
	case SortTitle:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Title < tasks[j].Title
		})
	default:
		// Tasks without a due date sort after every dated task.
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i].DueDate, tasks[j].DueDate
			if a == nil || b == nil {
				return a != nil && b == nil
			}
			return a.Before(*b)
		})
	}
}
