package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskventure/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// DimmedStyle renders completed tasks and past trips.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// OverdueStyle flags tasks whose due date has passed.
var OverdueStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// DueDateStyle renders due dates and departure dates in list rows.
var DueDateStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// SectionStyle titles the active / upcoming / past groups of the travel list.
var SectionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorMagenta).
	MarginTop(1)

// PriorityStyle returns a style colored with the priority's display color.
func PriorityStyle(p model.Priority) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	if c := model.PriorityMeta(p).Color; c != "" {
		return base.Foreground(lipgloss.Color(c))
	}
	return base.Foreground(ColorGray)
}

// CategoryStyle returns a color-coded style for the given task category.
func CategoryStyle(c model.Category) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1)

	switch c {
	case model.CategoryWork:
		return base.Foreground(ColorBlue)
	case model.CategoryTravel:
		return base.Foreground(ColorMagenta)
	case model.CategoryHealth:
		return base.Foreground(ColorGreen)
	case model.CategoryShopping:
		return base.Foreground(ColorOrange)
	case model.CategoryPersonal:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGray)
	}
}

// ItineraryStyle returns a color-coded style for an itinerary item type.
func ItineraryStyle(t model.ItineraryType) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch t {
	case model.ItineraryFlight, model.ItineraryTransportation:
		return base.Foreground(ColorBlue)
	case model.ItineraryAccommodation:
		return base.Foreground(ColorMagenta)
	case model.ItineraryDining:
		return base.Foreground(ColorOrange)
	case model.ItineraryMeeting:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGreen)
	}
}
