package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskventure/internal/keys"
	"github.com/nhle/taskventure/internal/model"
	"github.com/nhle/taskventure/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// Action names a mutation requested from the detail view.
type Action string

const (
	ActionToggle   Action = "toggle"
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
	ActionAddItem  Action = "add_item"
	ActionAddTip   Action = "add_tip"
	ActionBookmark Action = "bookmark"
)

// ActionMsg signals the parent to execute an action on the displayed
// task or trip. TipID is set for ActionBookmark.
type ActionMsg struct {
	Action   Action
	TaskID   string
	TravelID string
	TipID    string
}

// Model is the detail view for a single task or trip. Content is built as
// markdown and rendered with glamour into a scrollable viewport.
type Model struct {
	task     *model.Task
	travel   *model.Travel
	upcoming []model.ItineraryItem
	tipIndex int
	viewport viewport.Model
	renderer *glamour.TermRenderer
	keys     *keys.KeyMap
	now      func() time.Time
	width    int
	height   int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, now func() time.Time, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	if now == nil {
		now = time.Now
	}
	m := Model{
		viewport: vp,
		keys:     keys,
		now:      now,
		width:    width,
		height:   height,
	}
	m.renderer = newRenderer(width)
	return m
}

// newRenderer builds a glamour renderer for the given width. The style is
// picked once from the terminal background.
func newRenderer(width int) *glamour.TermRenderer {
	style := "light"
	if lipgloss.HasDarkBackground() {
		style = "dark"
	}
	wrap := width - 4
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil
	}
	return r
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, m.keys.Back) {
			return m, func() tea.Msg { return BackMsg{} }
		}
		if cmd, handled := m.handleAction(msg); handled {
			return m, cmd
		}
		if m.travel != nil && key.Matches(msg, m.keys.CycleTips) && len(m.travel.LocalTips) > 0 {
			m.tipIndex = (m.tipIndex + 1) % len(m.travel.LocalTips)
			m.refresh()
			return m, nil
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleAction(msg tea.KeyMsg) (tea.Cmd, bool) {
	var base ActionMsg
	switch {
	case m.task != nil:
		base.TaskID = m.task.ID
	case m.travel != nil:
		base.TravelID = m.travel.ID
	default:
		return nil, false
	}

	emit := func(a Action) (tea.Cmd, bool) {
		out := base
		out.Action = a
		return func() tea.Msg { return out }, true
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		return emit(ActionToggle)
	case key.Matches(msg, m.keys.Edit):
		return emit(ActionEdit)
	case key.Matches(msg, m.keys.Delete):
		return emit(ActionDelete)
	}

	if m.travel == nil {
		return nil, false
	}
	switch {
	case key.Matches(msg, m.keys.AddItem):
		return emit(ActionAddItem)
	case key.Matches(msg, m.keys.AddTip):
		return emit(ActionAddTip)
	case key.Matches(msg, m.keys.Bookmark):
		tip, ok := m.selectedTip()
		if !ok {
			return nil, true
		}
		base.TipID = tip.ID
		return emit(ActionBookmark)
	}
	return nil, false
}

func (m Model) selectedTip() (model.LocalTip, bool) {
	if m.travel == nil || len(m.travel.LocalTips) == 0 {
		return model.LocalTip{}, false
	}
	return m.travel.LocalTips[m.tipIndex%len(m.travel.LocalTips)], true
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil && m.travel == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Nothing selected")
	}

	return m.viewport.View()
}

// SetTask shows t.
func (m *Model) SetTask(t model.Task) {
	m.task = &t
	m.travel = nil
	m.upcoming = nil
	m.refresh()
	m.viewport.GotoTop()
}

// SetTravel shows t together with its upcoming itinerary. The selected
// tip is kept when the same trip is shown again.
func (m *Model) SetTravel(t model.Travel, upcoming []model.ItineraryItem) {
	if m.travel == nil || m.travel.ID != t.ID {
		m.tipIndex = 0
		m.viewport.GotoTop()
	}
	if n := len(t.LocalTips); n > 0 {
		m.tipIndex %= n
	} else {
		m.tipIndex = 0
	}
	m.task = nil
	m.travel = &t
	m.upcoming = upcoming
	m.refresh()
}

// Clear drops the displayed item.
func (m *Model) Clear() {
	m.task = nil
	m.travel = nil
	m.upcoming = nil
}

// CurrentTaskID returns the ID of the displayed task, or "".
func (m Model) CurrentTaskID() string {
	if m.task == nil {
		return ""
	}
	return m.task.ID
}

// CurrentTravelID returns the ID of the displayed trip, or "".
func (m Model) CurrentTravelID() string {
	if m.travel == nil {
		return ""
	}
	return m.travel.ID
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.renderer = newRenderer(width)
	m.refresh()
}

func (m *Model) refresh() {
	var md string
	switch {
	case m.task != nil:
		md = TaskMarkdown(*m.task, m.now())
	case m.travel != nil:
		md = TravelMarkdown(*m.travel, m.upcoming, m.tipIndex, m.now())
	default:
		return
	}
	m.viewport.SetContent(m.render(md))
}

func (m Model) render(md string) string {
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

const stampLayout = "Mon Jan 02 2006 15:04 MST"

// TaskMarkdown renders a task as a markdown document.
func TaskMarkdown(t model.Task, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escape(t.Title))

	status := "Open"
	switch {
	case t.IsCompleted:
		status = "Completed"
	case t.IsOverdue(now):
		status = "**Overdue**"
	}
	fmt.Fprintf(&b, "**Priority** %s · **Category** %s · **Status** %s\n\n",
		model.PriorityMeta(t.Priority).Label, model.CategoryMeta(t.Category).Label, status)

	if t.DueDate != nil {
		fmt.Fprintf(&b, "- **Due** %s\n", t.TimeZone.In(*t.DueDate).Format(stampLayout))
	}
	if t.ReminderTime != nil {
		fmt.Fprintf(&b, "- **Reminder** %s\n", t.TimeZone.In(*t.ReminderTime).Format(stampLayout))
	}
	fmt.Fprintf(&b, "- **Time zone** %s\n", t.TimeZone.Name())
	fmt.Fprintf(&b, "- **Created** %s\n\n", t.CreatedDate.Format(stampLayout))

	b.WriteString("## Description\n\n")
	if strings.TrimSpace(t.Description) == "" {
		b.WriteString("_No description_\n")
	} else {
		b.WriteString(t.Description + "\n")
	}
	return b.String()
}

// TravelMarkdown renders a trip as a markdown document. selectedTip marks
// the tip the bookmark key acts on.
func TravelMarkdown(t model.Travel, upcoming []model.ItineraryItem, selectedTip int, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escape(t.Destination))

	state := "Planned"
	switch {
	case t.IsCurrent(now):
		state = "**In progress**"
	case t.IsPast(now):
		state = "Completed"
	case t.IsActive:
		state = "Active"
	}
	fmt.Fprintf(&b, "**Status** %s · **Local time** %s\n\n", state, t.LocalTime(now).Format("15:04 MST"))

	fmt.Fprintf(&b, "- **Departs** %s\n", t.LocalTime(t.DepartureDate).Format(stampLayout))
	if t.ReturnDate != nil {
		fmt.Fprintf(&b, "- **Returns** %s\n", t.LocalTime(*t.ReturnDate).Format(stampLayout))
	}
	fmt.Fprintf(&b, "- **Time zone** %s\n", t.LocalTimeZone.Name())
	if t.FlightNumber != nil {
		fmt.Fprintf(&b, "- **Flight** %s\n", escape(*t.FlightNumber))
	}
	if t.Accommodation != nil {
		fmt.Fprintf(&b, "- **Accommodation** %s\n", escape(*t.Accommodation))
	}
	b.WriteString("\n")

	if len(upcoming) > 0 {
		b.WriteString("## Coming up\n\n")
		for _, it := range upcoming {
			writeItem(&b, t, it)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Itinerary (%d)\n\n", len(t.ItineraryItems))
	if len(t.ItineraryItems) == 0 {
		b.WriteString("_Nothing scheduled yet_\n")
	}
	for _, it := range t.ItineraryItems {
		writeItem(&b, t, it)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Local tips (%d)\n\n", len(t.LocalTips))
	if len(t.LocalTips) == 0 {
		b.WriteString("_No tips yet_\n")
	}
	for i, tip := range t.LocalTips {
		marker := "-"
		if i == selectedTip {
			marker = "- ▸"
		}
		star := ""
		if tip.IsBookmarked {
			star = " ★"
		}
		fmt.Fprintf(&b, "%s **%s**%s _(%s)_: %s\n",
			marker, escape(tip.Title), star, model.TipMeta(tip.Category).Label, escape(tip.Content))
	}

	if strings.TrimSpace(t.Notes) != "" {
		b.WriteString("\n## Notes\n\n" + t.Notes + "\n")
	}
	return b.String()
}

func writeItem(b *strings.Builder, t model.Travel, it model.ItineraryItem) {
	fmt.Fprintf(b, "- `%s` **%s** %s",
		t.LocalTime(it.Date).Format("Jan 02 15:04"), model.ItineraryMeta(it.Type).Label, escape(it.Title))
	if it.Location != nil {
		fmt.Fprintf(b, " @ %s", escape(*it.Location))
	}
	b.WriteString("\n")
}

// escape keeps user text from being read as markdown emphasis or links.
func escape(s string) string {
	r := strings.NewReplacer("*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`, "`", "\\`")
	return r.Replace(s)
}
