package taskform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskventure/internal/model"
	"github.com/nhle/taskventure/internal/theme"
	"github.com/nhle/taskventure/internal/ui"
	"github.com/nhle/taskventure/internal/validation"
)

// TaskCreatedMsg is dispatched when a new task is submitted via the form.
type TaskCreatedMsg struct {
	Edit model.TaskEdit
}

// TaskUpdatedMsg is dispatched when an existing task is submitted via the form.
type TaskUpdatedMsg struct {
	ID   string
	Edit model.TaskEdit
}

// TaskFormCancelMsg is dispatched when the user cancels the form.
type TaskFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	priority    model.Priority
	category    model.Category
	zone        string
	dueDate     string
	reminder    string
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	width    int
	height   int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a new task.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = ""
	*m.fb = formBindings{
		priority: model.PriorityMedium,
		category: model.CategoryPersonal,
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing task.
func (m *Model) StartEdit(task model.Task, now time.Time) tea.Cmd {
	m.editMode = true
	m.editID = task.ID
	m.fb.load(model.EditFromTask(task, now))
	m.form = m.buildForm()
	return m.form.Init()
}

func (fb *formBindings) load(e model.TaskEdit) {
	loc := e.Zone.Location()
	fb.title = e.Title
	fb.description = e.Description
	fb.priority = e.Priority
	fb.category = e.Category
	fb.zone = zoneField(e.Zone)
	fb.dueDate = ""
	fb.reminder = ""
	if e.HasDueDate {
		fb.dueDate = ui.FormatDateTime(&e.DueDate, loc)
	}
	if e.HasReminder {
		fb.reminder = ui.FormatDateTime(&e.Reminder, loc)
	}
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return TaskFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	priorities := make([]huh.Option[model.Priority], 0, len(model.Priorities))
	for _, p := range model.Priorities {
		priorities = append(priorities, huh.NewOption(model.PriorityMeta(p).Label, p))
	}
	categories := make([]huh.Option[model.Category], 0, len(model.Categories))
	for _, c := range model.Categories {
		categories = append(categories, huh.NewOption(model.CategoryMeta(c).Label, c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What needs to be done?").
				Value(&m.fb.title).
				Validate(validateTitle),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&m.fb.description),
			huh.NewSelect[model.Priority]().
				Title("Priority").
				Options(priorities...).
				Value(&m.fb.priority),
			huh.NewSelect[model.Category]().
				Title("Category").
				Options(categories...).
				Value(&m.fb.category),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Time Zone").
				Placeholder("IANA name, e.g. Europe/Paris (empty for local)").
				Value(&m.fb.zone).
				Validate(validateZone),
			huh.NewInput().
				Title("Due Date").
				Placeholder("YYYY-MM-DD HH:MM (optional)").
				Value(&m.fb.dueDate).
				Validate(ui.ValidateOptionalDateTime),
			huh.NewInput().
				Title("Reminder").
				Placeholder("YYYY-MM-DD HH:MM (optional, needs a due date)").
				Value(&m.fb.reminder).
				Validate(ui.ValidateOptionalDateTime),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

func (m Model) handleSubmit() tea.Cmd {
	edit, err := m.fb.edit()
	if err != nil {
		// Field validators reject the same input, so this is not expected.
		return func() tea.Msg { return TaskFormCancelMsg{} }
	}

	if m.editMode {
		id := m.editID
		return func() tea.Msg { return TaskUpdatedMsg{ID: id, Edit: edit} }
	}
	return func() tea.Msg { return TaskCreatedMsg{Edit: edit} }
}

// edit converts the bound field values into a model.TaskEdit, validating
// them as a whole.
func (fb *formBindings) edit() (model.TaskEdit, error) {
	in := validation.TaskInput{
		Title:    validation.SanitizeText(fb.title),
		Priority: string(fb.priority),
		Category: string(fb.category),
		Zone:     strings.TrimSpace(fb.zone),
	}
	if strings.EqualFold(in.Zone, "local") {
		in.Zone = ""
	}
	if err := validation.Struct(in); err != nil {
		return model.TaskEdit{}, err
	}

	zone := model.ZoneOrLocal(in.Zone)
	e := model.TaskEdit{
		Title:       in.Title,
		Description: validation.SanitizeText(fb.description),
		Priority:    fb.priority,
		Category:    fb.category,
		Zone:        zone,
	}

	due, err := ui.ParseOptionalDateTime(fb.dueDate, zone.Location())
	if err != nil {
		return model.TaskEdit{}, err
	}
	if due != nil {
		e.HasDueDate = true
		e.DueDate = *due
	}

	reminder, err := ui.ParseOptionalDateTime(fb.reminder, zone.Location())
	if err != nil {
		return model.TaskEdit{}, err
	}
	if reminder != nil {
		e.HasReminder = true
		e.Reminder = *reminder
	}
	return e, nil
}

// zoneField renders z for the time zone input. The process-local zone is
// shown as an empty field.
func zoneField(z model.Zone) string {
	if z.Location() == nil || z.Location() == time.Local {
		return ""
	}
	return z.Name()
}

func validateTitle(s string) error {
	return validation.Struct(validation.TaskInput{Title: s})
}

func validateZone(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "local") {
		return nil
	}
	if _, err := model.LoadZone(s); err != nil {
		return fmt.Errorf("unknown time zone %q", s)
	}
	return nil
}
