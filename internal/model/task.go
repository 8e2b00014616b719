package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

// Rank returns the position of p in Priorities (lower number = more urgent).
// Unknown priorities rank after all known ones.
func (p Priority) Rank() int {
	for i, known := range Priorities {
		if known == p {
			return i
		}
	}
	return len(Priorities)
}

// Category groups tasks by area of life.
type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryTravel   Category = "travel"
	CategoryHealth   Category = "health"
	CategoryShopping Category = "shopping"
	CategoryOther    Category = "other"
)

// Categories lists every task category in display order.
var Categories = []Category{
	CategoryPersonal, CategoryWork, CategoryTravel,
	CategoryHealth, CategoryShopping, CategoryOther,
}

// Task is a single to-do item owned by the user.
type Task struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	IsCompleted  bool       `json:"is_completed"`
	Priority     Priority   `json:"priority"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	TimeZone     Zone       `json:"time_zone"`
	CreatedDate  time.Time  `json:"created_date"`
	Category     Category   `json:"category"`
	ReminderTime *time.Time `json:"reminder_time,omitempty"`
}

// TaskOption customizes a Task built by NewTask.
type TaskOption func(*Task)

// WithDescription sets the task description.
func WithDescription(d string) TaskOption {
	return func(t *Task) { t.Description = d }
}

// WithPriority sets the task priority.
func WithPriority(p Priority) TaskOption {
	return func(t *Task) { t.Priority = p }
}

// WithDueDate sets the due date. The reminder defaults to the same instant.
func WithDueDate(due time.Time) TaskOption {
	return func(t *Task) {
		d := due
		t.DueDate = &d
	}
}

// WithZone sets the time zone the due date is expressed in.
func WithZone(z Zone) TaskOption {
	return func(t *Task) { t.TimeZone = z }
}

// WithCategory sets the task category.
func WithCategory(c Category) TaskOption {
	return func(t *Task) { t.Category = c }
}

// NewTask builds a task with a fresh identity and the given creation time.
// Defaults: medium priority, personal category, local zone, not completed.
func NewTask(title string, created time.Time, opts ...TaskOption) Task {
	t := Task{
		ID:          uuid.New().String(),
		Title:       title,
		Priority:    PriorityMedium,
		TimeZone:    LocalZone(),
		CreatedDate: created,
		Category:    CategoryPersonal,
	}
	for _, opt := range opts {
		opt(&t)
	}
	if t.DueDate != nil {
		r := *t.DueDate
		t.ReminderTime = &r
	}
	return t
}

// IsOverdue reports whether the task is incomplete and its due date is
// strictly before now. Tasks without a due date are never overdue.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.IsCompleted && t.DueDate != nil && t.DueDate.Before(now)
}

// IsUpcoming reports whether the task is incomplete and due at or after now.
func (t Task) IsUpcoming(now time.Time) bool {
	return !t.IsCompleted && t.DueDate != nil && !t.DueDate.Before(now)
}

// Matches reports whether query is a case-insensitive substring of the
// title or the description. An empty query matches everything.
func (t Task) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

// TaskEdit holds the values captured by a create/edit form.
type TaskEdit struct {
	Title       string
	Description string
	Priority    Priority
	Category    Category
	Zone        Zone
	HasDueDate  bool
	DueDate     time.Time
	HasReminder bool
	Reminder    time.Time
}

// Apply copies the edit onto t. The title is trimmed, and the reminder is
// kept only when both a due date and a reminder are set.
func (e TaskEdit) Apply(t Task) Task {
	t.Title = strings.TrimSpace(e.Title)
	t.Description = e.Description
	if e.Priority != "" {
		t.Priority = e.Priority
	}
	if e.Category != "" {
		t.Category = e.Category
	}
	if e.Zone.Location() != nil {
		t.TimeZone = e.Zone
	}

	t.DueDate = nil
	t.ReminderTime = nil
	if e.HasDueDate {
		due := e.DueDate
		t.DueDate = &due
		if e.HasReminder {
			r := e.Reminder
			t.ReminderTime = &r
		}
	}
	return t
}

// EditFromTask returns the form values for an existing task. When the task
// has no reminder the suggested reminder is one hour before the due date.
func EditFromTask(t Task, now time.Time) TaskEdit {
	e := TaskEdit{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Category:    t.Category,
		Zone:        t.TimeZone,
		DueDate:     now,
	}
	if t.DueDate != nil {
		e.HasDueDate = true
		e.DueDate = *t.DueDate
	}
	if t.ReminderTime != nil {
		e.HasReminder = true
		e.Reminder = *t.ReminderTime
	} else {
		e.Reminder = e.DueDate.Add(-time.Hour)
	}
	return e
}
