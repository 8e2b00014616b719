package travellist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskventure/internal/keys"
	"github.com/nhle/taskventure/internal/model"
	"github.com/nhle/taskventure/internal/theme"
	"github.com/nhle/taskventure/internal/viewmodel"
)

// SelectedTravelMsg is sent when a user opens a trip.
type SelectedTravelMsg struct {
	TravelID string
}

// Model lists trips grouped by the travel manager's derived views.
type Model struct {
	list    list.Model
	manager *viewmodel.TravelManager
	keys    *keys.KeyMap
	now     func() time.Time
	width   int
	height  int
}

// New creates a new travel list model.
func New(manager *viewmodel.TravelManager, k *keys.KeyMap, now func() time.Time, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-3)
	l.Title = "Travel"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	if now == nil {
		now = time.Now
	}
	m := Model{
		list:    l,
		manager: manager,
		keys:    k,
		now:     now,
		width:   width,
		height:  height,
	}
	m.Refresh()
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Refresh rebuilds the rows from the manager's partitions.
func (m *Model) Refresh() {
	rows := sections(
		m.manager.Travels(),
		m.manager.ActiveTravels(),
		m.manager.UpcomingTravels(),
		m.manager.PastTravels(),
	)
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = r
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
}

// Update handles messages for the travel list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Select) {
		t, ok := m.SelectedTravel()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTravelMsg{TravelID: t.ID}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// SelectedTravel returns the trip under the cursor.
func (m Model) SelectedTravel() (model.Travel, bool) {
	item, ok := m.list.SelectedItem().(TravelItem)
	if !ok {
		return model.Travel{}, false
	}
	return item.Travel, true
}

// View renders the travel list.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No trips planned.\n\nPress n to plan one, or S to load sample data.")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), m.footer())
}

// footer points at the current trip, or the next departure.
func (m Model) footer() string {
	style := lipgloss.NewStyle().Foreground(theme.ColorGray).PaddingLeft(2)

	if cur, ok := m.manager.CurrentTravel(); ok {
		local := cur.LocalTime(m.now()).Format("15:04 MST")
		return style.Render(fmt.Sprintf("Now in %s, local time %s", cur.Destination, local))
	}
	if upcoming := m.manager.UpcomingTravels(); len(upcoming) > 0 {
		next := upcoming[0]
		days := daysUntil(next.DepartureDate, m.now())
		return style.Render(fmt.Sprintf("Next trip: %s in %d days", next.Destination, days))
	}
	return ""
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-3)
}
