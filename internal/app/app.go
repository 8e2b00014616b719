package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nhle/taskventure/internal/keys"
	"github.com/nhle/taskventure/internal/theme"
	"github.com/nhle/taskventure/internal/ui"
	"github.com/nhle/taskventure/internal/ui/command"
	"github.com/nhle/taskventure/internal/ui/detail"
	helpview "github.com/nhle/taskventure/internal/ui/help"
	"github.com/nhle/taskventure/internal/ui/taskform"
	"github.com/nhle/taskventure/internal/ui/tasklist"
	"github.com/nhle/taskventure/internal/ui/travelform"
	"github.com/nhle/taskventure/internal/ui/travellist"
	"github.com/nhle/taskventure/internal/viewmodel"
)

// Tab is one of the top-level sections.
type Tab int

const (
	TabTasks Tab = iota
	TabTravel
)

var tabNames = []string{"Tasks", "Travel"}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewWelcome ViewState = iota
	ViewList
	ViewDetail
	ViewHelp
	ViewCommand
	ViewTaskForm
	ViewTravelForm
)

// Authorizer asks for and reports permission to schedule reminders.
type Authorizer interface {
	RequestAuthorization(ctx context.Context) bool
	IsAuthorized() bool
}

// Onboarding records whether the welcome screen has been dismissed.
type Onboarding interface {
	OnboardingCompleted(ctx context.Context) bool
	SetOnboardingCompleted(ctx context.Context, done bool) error
}

// Deps are the collaborators of the root model.
type Deps struct {
	Tasks      *viewmodel.TaskManager
	Travels    *viewmodel.TravelManager
	Reminders  Authorizer
	Onboarding Onboarding
	Logger     *zap.Logger
	Now        func() time.Time

	// UpcomingLimit bounds the "coming up" block of the travel detail.
	UpcomingLimit int
}

// authorizationMsg carries the result of the reminder permission request.
type authorizationMsg struct {
	granted bool
}

// managerEventMsg is forwarded from a manager observer into the UI loop.
type managerEventMsg struct {
	event viewmodel.Event
}

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the task and travel managers.
type Model struct {
	ctx          context.Context
	tasks        *viewmodel.TaskManager
	travels      *viewmodel.TravelManager
	reminders    Authorizer
	onboarding   Onboarding
	logger       *zap.Logger
	now          func() time.Time
	events       chan viewmodel.Event
	unsubscribe  []func()
	upcoming     int
	tab          Tab
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	taskList     tasklist.Model
	travelList   travellist.Model
	detail       detail.Model
	helpView     helpview.Model
	commandView  command.Model
	taskForm     taskform.Model
	travelForm   travelform.Model
	ready        bool
	authorized   bool
	statusMsg    string
}

// New creates the root model and subscribes it to both managers.
func New(ctx context.Context, d Deps) Model {
	k := keys.DefaultKeyMap()
	now := d.Now
	if now == nil {
		now = time.Now
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := Model{
		ctx:         ctx,
		tasks:       d.Tasks,
		travels:     d.Travels,
		reminders:   d.Reminders,
		onboarding:  d.Onboarding,
		logger:      logger,
		now:         now,
		events:      make(chan viewmodel.Event, 64),
		upcoming:    d.UpcomingLimit,
		currentView: ViewList,
		keys:        k,
		taskList:    tasklist.New(d.Tasks, k, now, 80, 24),
		travelList:  travellist.New(d.Travels, k, now, 80, 24),
		detail:      detail.New(k, now, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(commandNames(), 80, 24),
		taskForm:    taskform.New(80, 24),
		travelForm:  travelform.New(80, 24),
	}

	if m.upcoming <= 0 {
		m.upcoming = defaultUpcomingLimit
	}
	if m.onboarding != nil && !m.onboarding.OnboardingCompleted(ctx) {
		m.currentView = ViewWelcome
	}

	events := m.events
	forward := func(e viewmodel.Event) {
		select {
		case events <- e:
		default:
			// A refresh is already queued; the next one reads the latest state.
		}
	}
	m.unsubscribe = []func(){
		d.Tasks.Subscribe(forward),
		d.Travels.Subscribe(forward),
	}
	return m
}

// Close detaches the model from the managers.
func (m Model) Close() {
	for _, fn := range m.unsubscribe {
		fn()
	}
}

// Init requests reminder permission and starts listening for manager events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.requestAuthorization(),
		m.waitForEvent(),
	)
}

// waitForEvent blocks until a manager publishes a change.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return managerEventMsg{event: <-events}
	}
}

func (m Model) requestAuthorization() tea.Cmd {
	if m.reminders == nil {
		return nil
	}
	r, ctx := m.reminders, m.ctx
	return func() tea.Msg {
		return authorizationMsg{granted: r.RequestAuthorization(ctx)}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.taskList.SetSize(w, h)
		m.travelList.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.taskForm.SetSize(w, h)
		m.travelForm.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case authorizationMsg:
		m.authorized = msg.granted
		if !msg.granted {
			m.statusMsg = "reminders are disabled (notifications.authorized: false)"
		}
		return m, nil

	case managerEventMsg:
		m.refresh()
		return m, m.waitForEvent()

	case mutationDoneMsg:
		if msg.status != "" {
			m.statusMsg = msg.status
		}
		return m, nil

	case tasklist.SelectedTaskMsg:
		task, ok := m.tasks.Task(msg.TaskID)
		if !ok {
			return m, nil
		}
		m.detail.SetTask(task)
		m.previousView = ViewList
		m.currentView = ViewDetail
		return m, nil

	case travellist.SelectedTravelMsg:
		if !m.showTravel(msg.TravelID) {
			return m, nil
		}
		m.previousView = ViewList
		m.currentView = ViewDetail
		return m, nil

	case detail.BackMsg:
		m.detail.Clear()
		m.currentView = ViewList
		return m, nil

	case detail.ActionMsg:
		return m.handleDetailAction(msg)

	case taskform.TaskCreatedMsg:
		m.currentView = m.formReturnView()
		return m, m.createTask(msg.Edit)

	case taskform.TaskUpdatedMsg:
		m.currentView = m.formReturnView()
		return m, m.updateTask(msg.ID, msg.Edit)

	case taskform.TaskFormCancelMsg, travelform.CancelMsg:
		m.currentView = m.formReturnView()
		return m, nil

	case travelform.TravelSubmittedMsg:
		m.currentView = m.formReturnView()
		return m, m.saveTravel(msg.EditID, msg.Edit)

	case travelform.ItemSubmittedMsg:
		m.currentView = m.formReturnView()
		return m, m.addItineraryItem(msg.TravelID, msg.Item)

	case travelform.TipSubmittedMsg:
		m.currentView = m.formReturnView()
		return m, m.addLocalTip(msg.TravelID, msg.Tip)

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work regardless of the active
// sub-view. Keys are passed through while a text input has focus.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit, true
	}

	switch m.currentView {
	case ViewTaskForm, ViewTravelForm:
		return m, nil, false
	case ViewCommand:
		if msg.String() == "esc" {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false
	case ViewWelcome:
		return m.handleWelcomeKey(msg)
	}
	if m.currentView == ViewList && m.tab == TabTasks && m.taskList.Searching() {
		return m, nil, false
	}

	switch msg.String() {
	case "q":
		if m.currentView == ViewList {
			return m, tea.Quit, true
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case ":":
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus(), true

	case "esc":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}

	case "T":
		if m.currentView == ViewList {
			m.switchTab()
			return m, nil, true
		}

	case "S":
		if m.currentView == ViewList {
			return m, m.loadSampleData(), true
		}
	}

	if m.currentView != ViewList {
		return m, nil, false
	}
	if m.tab == TabTasks {
		return m.handleTaskListKey(msg)
	}
	return m.handleTravelListKey(msg)
}

func (m Model) handleWelcomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "S":
		m.finishOnboarding()
		return m, tea.Batch(m.loadSampleTasks(), m.loadSampleTravels()), true
	case "enter", " ", "esc":
		m.finishOnboarding()
		return m, nil, true
	case "q":
		return m, tea.Quit, true
	}
	return m, nil, true
}

func (m *Model) finishOnboarding() {
	m.currentView = ViewList
	if m.onboarding == nil {
		return
	}
	if err := m.onboarding.SetOnboardingCompleted(m.ctx, true); err != nil {
		m.logger.Warn("failed to record onboarding", zap.Error(err))
	}
}

func (m Model) handleTaskListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "n":
		m.previousView = ViewList
		m.currentView = ViewTaskForm
		return m, m.taskForm.StartCreate(), true

	case "e":
		if task, ok := m.taskList.SelectedTask(); ok {
			m.previousView = ViewList
			m.currentView = ViewTaskForm
			return m, m.taskForm.StartEdit(task, m.now()), true
		}

	case "x", " ":
		if task, ok := m.taskList.SelectedTask(); ok {
			return m, m.toggleTask(task.ID), true
		}

	case "d":
		if task, ok := m.taskList.SelectedTask(); ok {
			return m, m.deleteTask(task.ID), true
		}

	case "C":
		return m, m.clearCompleted(), true
	}
	return m, nil, false
}

func (m Model) handleTravelListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "n":
		m.previousView = ViewList
		m.currentView = ViewTravelForm
		return m, m.travelForm.StartCreate(m.now()), true
	}

	t, ok := m.travelList.SelectedTravel()
	if !ok {
		return m, nil, false
	}

	switch msg.String() {
	case "e":
		m.previousView = ViewList
		m.currentView = ViewTravelForm
		return m, m.travelForm.StartEdit(t), true
	case "x", " ":
		return m, m.toggleTravel(t.ID), true
	case "d":
		return m, m.deleteTravel(t.ID), true
	case "i":
		m.previousView = ViewList
		m.currentView = ViewTravelForm
		return m, m.travelForm.StartItem(t), true
	case "t":
		m.previousView = ViewList
		m.currentView = ViewTravelForm
		return m, m.travelForm.StartTip(t), true
	}
	return m, nil, false
}

func (m Model) handleDetailAction(msg detail.ActionMsg) (tea.Model, tea.Cmd) {
	if msg.TaskID != "" {
		switch msg.Action {
		case detail.ActionToggle:
			return m, m.toggleTask(msg.TaskID)
		case detail.ActionDelete:
			m.detail.Clear()
			m.currentView = ViewList
			return m, m.deleteTask(msg.TaskID)
		case detail.ActionEdit:
			if task, ok := m.tasks.Task(msg.TaskID); ok {
				m.previousView = ViewDetail
				m.currentView = ViewTaskForm
				return m, m.taskForm.StartEdit(task, m.now())
			}
		}
		return m, nil
	}

	t, ok := m.travels.Travel(msg.TravelID)
	if !ok {
		return m, nil
	}
	switch msg.Action {
	case detail.ActionToggle:
		return m, m.toggleTravel(t.ID)
	case detail.ActionDelete:
		m.detail.Clear()
		m.currentView = ViewList
		return m, m.deleteTravel(t.ID)
	case detail.ActionEdit:
		m.previousView = ViewDetail
		m.currentView = ViewTravelForm
		return m, m.travelForm.StartEdit(t)
	case detail.ActionAddItem:
		m.previousView = ViewDetail
		m.currentView = ViewTravelForm
		return m, m.travelForm.StartItem(t)
	case detail.ActionAddTip:
		m.previousView = ViewDetail
		m.currentView = ViewTravelForm
		return m, m.travelForm.StartTip(t)
	case detail.ActionBookmark:
		return m, m.toggleBookmark(t.ID, msg.TipID)
	}
	return m, nil
}

// formReturnView is where a closed form returns to: the detail view it was
// opened from, if that item still exists, otherwise the list.
func (m Model) formReturnView() ViewState {
	if m.previousView == ViewDetail && (m.detail.CurrentTaskID() != "" || m.detail.CurrentTravelID() != "") {
		return ViewDetail
	}
	return ViewList
}

func (m *Model) switchTab() {
	if m.tab == TabTasks {
		m.tab = TabTravel
	} else {
		m.tab = TabTasks
	}
}

// refresh re-reads both managers into the lists and the open detail view.
func (m *Model) refresh() {
	m.taskList.Refresh()
	m.travelList.Refresh()

	if id := m.detail.CurrentTaskID(); id != "" {
		if task, ok := m.tasks.Task(id); ok {
			m.detail.SetTask(task)
		} else {
			m.leaveDetail()
		}
	}
	if id := m.detail.CurrentTravelID(); id != "" {
		if !m.showTravel(id) {
			m.leaveDetail()
		}
	}
}

func (m *Model) leaveDetail() {
	m.detail.Clear()
	if m.currentView == ViewDetail {
		m.currentView = ViewList
	}
}

const defaultUpcomingLimit = 5

func (m *Model) showTravel(id string) bool {
	t, ok := m.travels.Travel(id)
	if !ok {
		return false
	}
	m.detail.SetTravel(t, m.travels.UpcomingItinerary(id, m.upcoming))
	return true
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		if m.tab == TabTasks {
			m.taskList, cmd = m.taskList.Update(msg)
		} else {
			m.travelList, cmd = m.travelList.Update(msg)
		}
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewTaskForm:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewTravelForm:
		m.travelForm, cmd = m.travelForm.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(tabNames, int(m.tab), m.headerStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewWelcome:
		return m.renderWelcome()
	case ViewList:
		if m.tab == TabTasks {
			return m.taskList.View()
		}
		return m.travelList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewTaskForm:
		return m.taskForm.View()
	case ViewTravelForm:
		return m.travelForm.View()
	default:
		return ""
	}
}

func (m Model) renderWelcome() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue).Render("Welcome to TaskVenture")
	body := lipgloss.NewStyle().Foreground(theme.ColorWhite).Render(
		"Plan your tasks and your trips in one place.\n\n" +
			"Tasks carry a priority, a category, a due date in any time zone\n" +
			"and an optional reminder. Trips collect an itinerary and local tips,\n" +
			"with reminders before departure and before each itinerary item.",
	)
	hint := theme.HelpStyle.Render("S load sample data | enter start empty | q quit")

	return lipgloss.NewStyle().
		Width(m.layout.ContentWidth()).
		Height(m.layout.ContentHeight()).
		Align(lipgloss.Center, lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, title, "", body, "", hint))
}

// headerStatus summarizes counts and reminder permission.
func (m Model) headerStatus() string {
	reminders := "reminders off"
	if m.authorized {
		reminders = "reminders on"
	}
	if m.tab == TabTravel {
		s := m.travels.Statistics()
		return fmt.Sprintf("%d trips, %d upcoming | %s", s.Total, s.Upcoming, reminders)
	}
	s := m.tasks.Statistics()
	return fmt.Sprintf("%d/%d done, %d overdue | %s", s.Completed, s.Total, s.Overdue, reminders)
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMsg != "" && m.currentView == ViewList {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewWelcome:
		return "S sample data | enter start | q quit"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewTaskForm, ViewTravelForm:
		return "enter submit | esc cancel"
	case ViewDetail:
		if m.detail.CurrentTravelID() != "" {
			return "esc back | e edit | x active | i item | t tip | ] next tip | b bookmark | d delete"
		}
		return "esc back | e edit | x complete | d delete"
	}

	if m.tab == TabTravel {
		return "q quit | ? help | T tasks | n new trip | enter open | x active | i item | t tip"
	}
	if summary := m.taskList.FilterSummary(); summary != "" {
		return summary + " | 3 clear"
	}
	return "q quit | ? help | T travel | n new | / search | 1 category | 2 priority | tab sort"
}
