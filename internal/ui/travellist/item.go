package travellist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskventure/internal/model"
	"github.com/nhle/taskventure/internal/theme"
)

// Section names the derived view a trip was listed under.
type Section string

const (
	SectionActive   Section = "Active"
	SectionUpcoming Section = "Upcoming"
	SectionPast     Section = "Past"
	SectionOther    Section = "Other"
)

// TravelItem wraps a model.Travel so it can be used in a bubbles/list.
type TravelItem struct {
	Travel  model.Travel
	Section Section
}

// FilterValue returns the string used for fuzzy filtering.
func (i TravelItem) FilterValue() string { return i.Travel.Destination }

// Title returns the destination for the list.
func (i TravelItem) Title() string { return i.Travel.Destination }

// Description returns the travel dates.
func (i TravelItem) Description() string { return dateRange(i.Travel) }

// ItemDelegate implements list.ItemDelegate for rendering trip rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single trip row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TravelItem)
	if !ok {
		return
	}
	fmt.Fprint(w, renderLine(ti, index == m.Index()))
}

func renderLine(ti TravelItem, isSelected bool) string {
	t := ti.Travel

	badge := sectionStyle(ti.Section).Render(string(ti.Section))

	counts := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(fmt.Sprintf(" %d items, %d tips", len(t.ItineraryItems), len(t.LocalTips)))

	flag := ""
	if t.IsActive {
		flag = lipgloss.NewStyle().Foreground(theme.ColorGreen).Render(" ✈")
	}

	line := fmt.Sprintf("%s %s%s %s%s",
		badge, t.Destination, flag, theme.DueDateStyle.Render(dateRange(t)), counts)

	if ti.Section == SectionPast {
		line = theme.DimmedStyle.Render(line)
	}

	if isSelected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

func sectionStyle(s Section) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Width(10)
	switch s {
	case SectionActive:
		return base.Foreground(theme.ColorGreen)
	case SectionUpcoming:
		return base.Foreground(theme.ColorBlue)
	case SectionPast:
		return base.Foreground(theme.ColorGray)
	default:
		return base.Foreground(theme.ColorYellow)
	}
}

// dateRange renders departure and return in the trip's local zone.
func dateRange(t model.Travel) string {
	const layout = "Jan 02 2006"
	from := t.LocalTime(t.DepartureDate).Format(layout)
	if t.ReturnDate == nil {
		return from + " →"
	}
	return from + " → " + t.LocalTime(*t.ReturnDate).Format(layout)
}

// sections lays trips out as active, upcoming, past and then any trip that
// fits none of them (departed but neither active nor returned).
func sections(all, active, upcoming, past []model.Travel) []TravelItem {
	items := make([]TravelItem, 0, len(all))
	listed := make(map[string]bool, len(all))
	add := func(ts []model.Travel, s Section) {
		for _, t := range ts {
			if listed[t.ID] {
				continue
			}
			listed[t.ID] = true
			items = append(items, TravelItem{Travel: t, Section: s})
		}
	}
	add(active, SectionActive)
	add(upcoming, SectionUpcoming)
	add(past, SectionPast)
	add(all, SectionOther)
	return items
}

// daysUntil is the whole number of days from now until t, rounded down.
func daysUntil(t, now time.Time) int {
	return int(t.Sub(now).Hours() / 24)
}
