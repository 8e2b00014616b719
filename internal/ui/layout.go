package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskventure/internal/theme"
)

// Layout manages the multi-panel terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// RenderHeader renders the top header bar with the tab strip on the left
// and a status string (reminder authorization, counts) on the right.
func (l Layout) RenderHeader(tabs []string, active int, status string) string {
	left := renderTabs(tabs, active)
	right := theme.HeaderStyle.Render(status)

	// Drop the status before the tabs when the terminal is narrow.
	if lipgloss.Width(left)+lipgloss.Width(right) > l.Width {
		right = ""
	}
	fill := l.Width - lipgloss.Width(left) - lipgloss.Width(right)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler(theme.HeaderStyle, fill), right)
}

func renderTabs(tabs []string, active int) string {
	parts := make([]string, 0, len(tabs)+1)
	parts = append(parts, theme.HeaderStyle.Render("TaskVenture"))
	for i, name := range tabs {
		style := theme.HeaderStyle.Bold(false).Foreground(theme.ColorSubtle)
		if i == active {
			style = theme.HeaderStyle.Underline(true)
		}
		parts = append(parts, style.Render(name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// RenderStatusBar renders the bottom status bar. Hints wider than the
// terminal are cut with an ellipsis.
func (l Layout) RenderStatusBar(hints string) string {
	padding := theme.StatusBarStyle.GetHorizontalFrameSize()
	if limit := l.Width - padding; limit > 1 && lipgloss.Width(hints) > limit {
		hints = truncate(hints, limit-1) + "…"
	}
	rendered := theme.StatusBarStyle.Render(hints)
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler(theme.StatusBarStyle, l.Width-lipgloss.Width(rendered)))
}

// RenderWithFrame stacks header, content and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// filler returns width blank cells in the background of style.
func filler(style lipgloss.Style, width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(width).
		Background(style.GetBackground()).
		Render("")
}

func truncate(s string, width int) string {
	out := []rune{}
	for _, r := range s {
		if lipgloss.Width(string(append(out, r))) > width {
			break
		}
		out = append(out, r)
	}
	return string(out)
}
