package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskventure/internal/model"
	"github.com/nhle/taskventure/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	parts := []string{
		model.CategoryMeta(i.Task.Category).Label,
		model.PriorityMeta(i.Task.Priority).Label,
	}
	if i.Task.DueDate != nil {
		parts = append(parts, i.Task.TimeZone.In(*i.Task.DueDate).Format("Jan 02 15:04"))
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct {
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single list item line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	fmt.Fprint(w, d.renderLine(ti.Task, index == m.Index()))
}

func (d ItemDelegate) renderLine(t model.Task, isSelected bool) string {
	now := time.Now()
	if d.now != nil {
		now = d.now()
	}

	prefix := "○"
	if t.IsCompleted {
		prefix = "✓"
	}

	priBadge := theme.PriorityStyle(t.Priority).Render("●")
	catBadge := theme.CategoryStyle(t.Category).Render(model.CategoryMeta(t.Category).Label)

	dueStr := ""
	if t.DueDate != nil {
		dueStr = theme.DueDateStyle.Render(" " + dueLabel(*t.DueDate, now))
	}

	overdueStr := ""
	if t.IsOverdue(now) {
		overdueStr = theme.OverdueStyle.Render(" OVERDUE")
	}

	line := fmt.Sprintf("%s %s %s%s%s%s", prefix, priBadge, t.Title, catBadge, dueStr, overdueStr)

	if t.IsCompleted {
		line = theme.DimmedStyle.Render(line)
	}

	if isSelected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// dueLabel returns a human-friendly distance between due and now, e.g.
// "in 3h" or "2d ago".
func dueLabel(due, now time.Time) string {
	d := due.Sub(now)
	future := d >= 0
	if !future {
		d = -d
	}

	var amount string
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		amount = fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		amount = fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		amount = fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		amount = fmt.Sprintf("%dw", int(d.Hours()/24/7))
	}

	if future {
		return "in " + amount
	}
	return amount + " ago"
}

// filterSummary describes the active filter for the status bar, or "" when
// nothing narrows the list.
func filterSummary(c *model.Category, p *model.Priority, search string) string {
	var parts []string
	if c != nil {
		parts = append(parts, "category: "+model.CategoryMeta(*c).Label)
	}
	if p != nil {
		parts = append(parts, "priority: "+model.PriorityMeta(*p).Label)
	}
	if search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", search))
	}
	return strings.Join(parts, " | ")
}

// renderFooter styles the sort indicator shown under the list.
func renderFooter(sortLabel string) string {
	return lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		PaddingLeft(2).
		Render("sorted by " + sortLabel)
}
