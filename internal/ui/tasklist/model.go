package tasklist

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskventure/internal/keys"
	"github.com/nhle/taskventure/internal/model"
	"github.com/nhle/taskventure/internal/theme"
	"github.com/nhle/taskventure/internal/viewmodel"
)

// SelectedTaskMsg is sent when a user selects a task to view details.
type SelectedTaskMsg struct {
	TaskID string
}

// Model is the main task list view component. It renders the task
// manager's filtered view and forwards filter changes to the manager.
type Model struct {
	list        list.Model
	manager     *viewmodel.TaskManager
	keys        *keys.KeyMap
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new task list model.
func New(manager *viewmodel.TaskManager, k *keys.KeyMap, now func() time.Time, width, height int) Model {
	delegate := ItemDelegate{now: now}
	l := list.New([]list.Item{}, delegate, width, height-3)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	m := Model{
		list:        l,
		manager:     manager,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
	m.Refresh()
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Refresh replaces the list items with the manager's filtered view,
// keeping the cursor in range.
func (m *Model) Refresh() {
	tasks := m.manager.FilteredTasks()
	items := make([]list.Item, len(tasks))
	for i, task := range tasks {
		items[i] = TaskItem{Task: task}
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode. The search
// text is applied live as the user types.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.searchInput.Blur()
		m.manager.SetSearchText("")
		m.Refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.manager.SetSearchText(m.searchInput.Value())
	m.Refresh()
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		task, ok := m.SelectedTask()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTaskMsg{TaskID: task.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.manager.Filter().SearchText)
		cmd := m.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.FilterCategory):
		m.manager.SetCategory(NextCategory(m.manager.Filter().Category))
		m.Refresh()
		return m, nil

	case key.Matches(msg, m.keys.FilterPriority):
		m.manager.SetPriority(NextPriority(m.manager.Filter().Priority))
		m.Refresh()
		return m, nil

	case key.Matches(msg, m.keys.ClearFilters):
		m.manager.ClearFilters()
		m.searchInput.Reset()
		m.Refresh()
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		m.manager.SetSort(m.manager.Filter().Sort.Next())
		m.Refresh()
		return m, nil
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// SelectedTask returns the task under the cursor.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// FilterSummary describes the active filters for the status bar.
func (m Model) FilterSummary() string {
	f := m.manager.Filter()
	return filterSummary(f.Category, f.Priority, f.SearchText)
}

// View renders the task list view.
func (m Model) View() string {
	footer := renderFooter(m.manager.Filter().Sort.Label())

	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View(), footer)
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), footer)
}

// renderEmptyState shows guidance text when no tasks are available.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.FilterSummary() != "" {
		return style.Render("No matching tasks.\nPress 3 to clear filters.")
	}

	return style.Render(
		"No tasks yet.\n\n" +
			"Press n to add one, or S to load sample data.",
	)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-3)
	m.searchInput.Width = width - 4
}

// NextCategory cycles the category filter: any, then each category in
// display order, then back to any.
func NextCategory(c *model.Category) *model.Category {
	return next(model.Categories, c)
}

// NextPriority cycles the priority filter the same way as NextCategory.
func NextPriority(p *model.Priority) *model.Priority {
	return next(model.Priorities, p)
}

func next[T comparable](all []T, cur *T) *T {
	if cur == nil {
		v := all[0]
		return &v
	}
	for i, v := range all {
		if v == *cur && i+1 < len(all) {
			n := all[i+1]
			return &n
		}
	}
	return nil
}
