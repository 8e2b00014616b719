package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskventure/internal/keys"
	"github.com/nhle/taskventure/internal/model"
	"github.com/nhle/taskventure/internal/theme"
)

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Keyboard Shortcuts")

	m.help.Width = m.width - 4
	m.help.ShowAll = true
	helpText := m.help.View(m.keys)

	section := titleStyle.MarginTop(1)
	content := lipgloss.JoinVertical(lipgloss.Left,
		title, helpText,
		section.Render("Priorities"), priorityLegend(),
		section.Render("Categories"), legend(model.Categories, model.CategoryMeta, theme.CategoryStyle),
		section.Render("Itinerary"), legend(model.ItineraryTypes, model.ItineraryMeta, theme.ItineraryStyle),
	)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// priorityLegend lists every priority in its display color, most urgent first.
func priorityLegend() string {
	labels := make([]string, 0, len(model.Priorities))
	for _, p := range model.Priorities {
		labels = append(labels, theme.PriorityStyle(p).Render("● "+model.PriorityMeta(p).Label))
	}
	return strings.Join(labels, "  ")
}

// legend renders the label of every value in its own color.
func legend[T any](values []T, meta func(T) model.Meta, style func(T) lipgloss.Style) string {
	labels := make([]string, 0, len(values))
	for _, v := range values {
		labels = append(labels, style(v).Render("● "+meta(v).Label))
	}
	return strings.Join(labels, "  ")
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
